// Package storage keeps anewcommit's per-user state in a Badger database:
// the undo log of every project between CLI invocations. It also provides
// the project file lock and atomic file writes.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/poikilos/anewcommit/internal/errors"
)

const (
	// AppName is the application name used for data directories.
	AppName = "anewcommit"
)

// DB wraps a Badger database connection.
type DB struct {
	db   *badger.DB
	path string
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the default database path following XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options
	path := ""

	if opts.InMemory || opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0755); err != nil {
			return nil, errors.NewSystemErrorWithOp("open state", "failed to create state directory", err)
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
		path = opts.Path
	}

	badgerOpts = badgerOpts.
		WithLoggingLevel(badger.ERROR).
		WithNumVersionsToKeep(1).
		WithMemTableSize(8 << 20).
		WithValueLogFileSize(16 << 20)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "Cannot acquire directory lock"):
			return nil, errors.NewSystemErrorWithOp("open state",
				fmt.Sprintf("state database %s is in use", opts.Path), errors.ErrLockHeld)
		case IsDatabaseCorrupted(err):
			return nil, errors.NewSystemErrorWithOp("open state", err.Error(), errors.ErrDatabaseCorrupted)
		}
		return nil, errors.NewSystemErrorWithOp("open state", "failed to open state database", err)
	}

	return &DB{db: db, path: path}, nil
}

// Path returns the database directory, or "" in memory.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Badger returns the underlying Badger database for advanced operations.
func (d *DB) Badger() *badger.DB {
	return d.db
}
