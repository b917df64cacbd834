package history

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	seekerrors "thoreinstein.com/seek/pkg/errors"
)

// FileStorage keeps the history as a JSON document on disk.
type FileStorage struct {
	path   string
	codec  *Codec
	logger *slog.Logger
}

// NewFileStorage creates a FileStorage for path.
func NewFileStorage(path string, codec *Codec, logger *slog.Logger) *FileStorage {
	if logger == nil {
		logger = slog.Default()
	}
	if codec == nil {
		codec = NewCodec(WithCodecLogger(logger))
	}
	return &FileStorage{path: path, codec: codec, logger: logger}
}

// Location returns the file path.
func (f *FileStorage) Location() string {
	return f.path
}

// Load reads and decodes the history file.
func (f *FileStorage) Load() Sequence {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Sequence{} // Not an error, just empty
	}
	if err != nil {
		f.logger.Warn("could not read search history", "path", f.path, "error", err)
		return Sequence{}
	}

	seq, format := f.codec.DecodeFormat(data)
	if format == FormatLegacy {
		f.logger.Info("migrated legacy search history", "path", f.path, "entries", len(seq))
	}
	f.logger.Debug("loaded search history", "path", f.path, "format", format.String(), "entries", len(seq))
	return seq
}

// Save encodes seq and atomically replaces the history file.
func (f *FileStorage) Save(seq Sequence) error {
	data, err := f.codec.Encode(seq)
	if err != nil {
		return seekerrors.NewStorageErrorWithCause(BackendJSON, "save", f.path, "encode failed", err)
	}

	if err := writeFileAtomic(f.path, data); err != nil {
		return seekerrors.NewStorageErrorWithCause(BackendJSON, "save", f.path, "write failed", err)
	}

	f.logger.Debug("saved search history", "path", f.path, "entries", len(seq))
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place. The temp file is closed and removed on every failure path.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrap(err, "failed to create history directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(err, "failed to write temp file")
	}
	if err = tmp.Chmod(0o600); err != nil {
		return errors.Wrap(err, "failed to set permissions")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "failed to replace history file")
	}
	return nil
}
