package history

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	seekerrors "thoreinstein.com/seek/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS search_history (
	position  INTEGER PRIMARY KEY,
	query     TEXT NOT NULL UNIQUE,
	timestamp TEXT NOT NULL
);`

// SQLiteStorage keeps the history in a SQLite database. Rows are ordered by
// position, 0 being the most recent query. Timestamps are stored as text and
// go through the same parsing and retention rules as the JSON document.
type SQLiteStorage struct {
	path   string
	codec  *Codec
	logger *slog.Logger
}

// NewSQLiteStorage creates a SQLiteStorage for the database at path.
func NewSQLiteStorage(path string, codec *Codec, logger *slog.Logger) *SQLiteStorage {
	if logger == nil {
		logger = slog.Default()
	}
	if codec == nil {
		codec = NewCodec(WithCodecLogger(logger))
	}
	return &SQLiteStorage{path: path, codec: codec, logger: logger}
}

// Location returns the database path.
func (s *SQLiteStorage) Location() string {
	return s.path
}

// IsAvailable checks if the database file exists.
func (s *SQLiteStorage) IsAvailable() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the history rows. A missing database is not created.
func (s *SQLiteStorage) Load() Sequence {
	if !s.IsAvailable() {
		return Sequence{}
	}

	recs, err := s.readRecords()
	if err != nil {
		s.logger.Warn("could not read search history", "path", s.path, "error", err)
		return Sequence{}
	}

	seq := s.codec.fromRecords(recs, s.codec.now())
	s.logger.Debug("loaded search history", "path", s.path, "entries", len(seq))
	return seq
}

func (s *SQLiteStorage) readRecords() ([]record, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	rows, err := db.Query(`SELECT query, timestamp FROM search_history ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query history")
	}
	defer rows.Close()

	var recs []record
	for rows.Next() {
		var rec record
		if err := rows.Scan(&rec.Query, &rec.Timestamp); err != nil {
			return nil, errors.Wrap(err, "failed to scan history row")
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate history rows")
	}

	return recs, nil
}

// Save replaces every row with seq inside a single transaction.
func (s *SQLiteStorage) Save(seq Sequence) error {
	if err := s.writeRecords(toRecords(seq)); err != nil {
		return seekerrors.NewStorageErrorWithCause(BackendSQLite, "save", s.path, "write failed", err)
	}
	s.logger.Debug("saved search history", "path", s.path, "entries", len(seq))
	return nil
}

func (s *SQLiteStorage) writeRecords(recs []record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return errors.Wrap(err, "failed to create history directory")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return errors.Wrap(err, "failed to initialize schema")
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback() // no-op after a successful commit
	}()

	if _, err := tx.Exec(`DELETE FROM search_history`); err != nil {
		return errors.Wrap(err, "failed to clear history")
	}

	stmt, err := tx.Prepare(`INSERT INTO search_history (position, query, timestamp) VALUES (?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for i, rec := range recs {
		if _, err := stmt.Exec(i, rec.Query, rec.Timestamp); err != nil {
			return errors.Wrapf(err, "failed to insert %q", rec.Query)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit history")
}
