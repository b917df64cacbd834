package history

import (
	"log/slog"
	"slices"
	"strings"

	seekerrors "thoreinstein.com/seek/pkg/errors"
)

// Supported storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted values for history.backend.
var Backends = []string{BackendJSON, BackendSQLite}

// Storage persists a Sequence between runs.
type Storage interface {
	// Load returns the persisted, retention-filtered history. Missing or
	// unreadable storage yields an empty Sequence; problems are only logged.
	Load() Sequence
	// Save replaces the persisted history with seq.
	Save(seq Sequence) error
	// Location describes where the history lives, for display.
	Location() string
}

// OpenStorage returns the Storage for backend rooted at path.
func OpenStorage(backend, path string, codec *Codec, logger *slog.Logger) (Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if codec == nil {
		codec = NewCodec(WithCodecLogger(logger))
	}
	if path == "" {
		return nil, seekerrors.NewConfigError("history.path", "path is empty")
	}

	switch backend {
	case BackendJSON, "":
		return NewFileStorage(path, codec, logger), nil
	case BackendSQLite:
		return NewSQLiteStorage(path, codec, logger), nil
	default:
		return nil, seekerrors.NewConfigError("history.backend",
			"unknown backend "+backend+": must be one of "+strings.Join(Backends, ", "))
	}
}

// IsValidBackend reports whether name is a supported backend.
func IsValidBackend(name string) bool {
	return name == "" || slices.Contains(Backends, name)
}
