package storage

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/logging"
	"github.com/poikilos/anewcommit/internal/model"
)

// RecoveryStatus represents the result of a database health check.
type RecoveryStatus struct {
	Healthy    bool      `json:"healthy"`
	Corrupted  bool      `json:"corrupted"`
	LastCheck  time.Time `json:"last_check"`
	Checked    int       `json:"checked"`
	ErrorCount int       `json:"error_count"`
	Errors     []string  `json:"errors,omitempty"`

	// DiskWarning is set when the disk holding the database is low on space.
	DiskWarning string `json:"disk_warning,omitempty"`
}

// CheckDatabaseIntegrity reads every session record and reports the ones
// whose value cannot be read or decoded.
func CheckDatabaseIntegrity(db *DB) *RecoveryStatus {
	status := &RecoveryStatus{
		LastCheck: time.Now(),
		Healthy:   true,
	}

	if db == nil || db.db == nil {
		status.Healthy = false
		status.Corrupted = true
		status.Errors = append(status.Errors, "database not initialized")
		return status
	}

	err := db.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 10
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(model.PrefixSession + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())
			status.Checked++
			err := item.Value(func(val []byte) error {
				var s model.Session
				return json.Unmarshal(val, &s)
			})
			if err != nil {
				status.Errors = append(status.Errors, fmt.Sprintf("unreadable session %s: %v", key, err))
				status.ErrorCount++
			}
		}
		return nil
	})
	if err != nil {
		status.Errors = append(status.Errors, fmt.Sprintf("iteration error: %v", err))
		status.ErrorCount++
	}

	if status.ErrorCount > 0 {
		status.Healthy = false
		status.Corrupted = true
	}
	if db.Path() != "" {
		status.DiskWarning = CheckDiskSpaceWarning(db.Path())
	}
	return status
}

// CreateBackup copies the database directory next to it under backups/
// and returns the copy's path.
func CreateBackup(dbPath string) (string, error) {
	if dbPath == "" {
		return "", fmt.Errorf("database path is empty")
	}

	backupDir := filepath.Join(filepath.Dir(dbPath), "backups")
	if err := os.MkdirAll(backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	backupPath := filepath.Join(backupDir, fmt.Sprintf("db-backup-%s", timestamp))

	if err := os.CopyFS(backupPath, os.DirFS(dbPath)); err != nil {
		return "", fmt.Errorf("failed to copy database: %w", err)
	}

	logging.Info("state backup created", logging.KeyOperation, "backup", "path", backupPath)
	return backupPath, nil
}

// corruptionPatterns are lowercase fragments of Badger errors about
// damaged files.
var corruptionPatterns = []string{
	"checksum mismatch",
	"corrupt",
	"unexpected eof",
	"bad magic",
	"truncated",
}

// IsDatabaseCorrupted checks if the given error indicates database corruption.
func IsDatabaseCorrupted(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, errors.ErrDatabaseCorrupted) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range corruptionPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
