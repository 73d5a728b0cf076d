package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
)

// LockFileName is the name of the lock file placed next to a project file.
const LockFileName = "anewcommit.lock"

var (
	// ErrLockAcquireFailed is returned when the lock file cannot be created or locked.
	ErrLockAcquireFailed = errors.New("failed to acquire project lock")
	// ErrLockAlreadyHeld is returned when another process holds the lock.
	ErrLockAlreadyHeld = anerrors.ErrLockHeld
)

// FileLock serializes anewcommit processes editing the same project
// directory. It is an flock on a file holding the owner's PID.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a lock in dir. Nothing is touched until Acquire.
func NewFileLock(dir string) *FileLock {
	return &FileLock{
		path: filepath.Join(dir, LockFileName),
	}
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. When another process holds it
// the error is a *LockError carrying that process's PID.
func (l *FileLock) Acquire() error {
	if l.file != nil {
		return nil
	}
	if err := l.cleanStaleLock(); err != nil {
		return err
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return &LockError{Err: fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)}
	}

	if err := flockAcquire(file); err != nil {
		file.Close()
		return &LockError{Err: err, PID: l.readPID()}
	}

	if err := writePID(file); err != nil {
		flockRelease(file)
		file.Close()
		return &LockError{Err: fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)}
	}

	l.file = file
	return nil
}

func writePID(file *os.File) error {
	if err := file.Truncate(0); err != nil {
		return err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(file, "%d", os.Getpid()); err != nil {
		return err
	}
	return file.Sync()
}

// Release drops the lock and removes the lock file. Releasing twice is a no-op.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := flockRelease(l.file); err != nil {
		l.file.Close()
		l.file = nil
		return err
	}
	if err := l.file.Close(); err != nil {
		l.file = nil
		return err
	}
	l.file = nil

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// cleanStaleLock removes a lock file whose owner is no longer running.
func (l *FileLock) cleanStaleLock() error {
	pid := l.readPID()
	if pid <= 0 || isProcessRunning(pid) {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clean stale lock: %v", err)
	}
	return nil
}

// readPID returns the PID stored in the lock file, or 0.
func (l *FileLock) readPID() int {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// LockError provides a user-friendly error message for lock failures.
type LockError struct {
	Err error
	PID int
}

func (e *LockError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("cannot edit project: another anewcommit process (PID %d) is using it", e.PID)
	}
	return fmt.Sprintf("cannot edit project: %v", e.Err)
}

func (e *LockError) Unwrap() error {
	return e.Err
}
