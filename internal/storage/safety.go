package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/poikilos/anewcommit/internal/errors"
)

const (
	// MinFreeSpace is the free space required before writing a project file (1MB).
	MinFreeSpace = 1 * 1024 * 1024
	// MinFreeSpaceWarning is the threshold for warning about low disk space (50MB).
	MinFreeSpaceWarning = 50 * 1024 * 1024
)

// DiskSpaceInfo contains information about available disk space.
type DiskSpaceInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
	UsedBytes  uint64
}

// FreePercent returns the percentage of free space.
func (d *DiskSpaceInfo) FreePercent() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return float64(d.FreeBytes) / float64(d.TotalBytes) * 100
}

// CheckDiskSpace returns ErrDiskFull wrapped in a SystemError when the
// volume holding path has less than MinFreeSpace available. A volume that
// cannot be inspected passes.
func CheckDiskSpace(path string) error {
	info, err := GetDiskSpace(path)
	if err != nil {
		return nil
	}
	if info.FreeBytes < MinFreeSpace {
		return errors.NewSystemError(
			fmt.Sprintf("insufficient disk space: %d KB free, need at least %d KB",
				info.FreeBytes/1024, MinFreeSpace/1024),
			errors.ErrDiskFull,
		)
	}
	return nil
}

// CheckDiskSpaceWarning returns a warning when disk space is low, else "".
func CheckDiskSpaceWarning(path string) string {
	info, err := GetDiskSpace(path)
	if err != nil {
		return ""
	}
	if info.FreeBytes < MinFreeSpaceWarning {
		return fmt.Sprintf("Low disk space (%d MB free)", info.FreeBytes/(1024*1024))
	}
	return ""
}

// existingAncestor returns path or its nearest existing parent.
func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

// SafeWrite replaces path with data atomically: the data goes to a temp file
// in the same directory which is synced and then renamed over path.
// Readers see either the old file or the new one, never a partial write.
func SafeWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := CheckDiskSpace(dir); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return writeError("create temp file", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return writeError("write", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return writeError("sync", err)
	}
	if err := tmpFile.Close(); err != nil {
		return writeError("close", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return writeError("chmod", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return writeError("rename", err)
	}

	success = true
	return nil
}

func writeError(op string, err error) error {
	switch {
	case isDiskFullError(err):
		return errors.NewSystemErrorWithOp(op, "disk full", errors.ErrDiskFull)
	case os.IsPermission(err):
		return errors.NewSystemErrorWithOp(op, "permission denied", errors.ErrPermissionDenied)
	}
	return errors.NewSystemErrorWithOp(op, "failed to write file", err)
}

// EnsureDirectory creates a directory with safe permissions if it doesn't exist.
func EnsureDirectory(path string) error {
	if err := CheckDiskSpace(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return writeError("mkdir", err)
	}
	return nil
}
