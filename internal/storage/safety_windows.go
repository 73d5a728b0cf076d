//go:build windows

package storage

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"
)

var (
	kernel32            = syscall.NewLazyDLL("kernel32.dll")
	getDiskFreeSpaceExW = kernel32.NewProc("GetDiskFreeSpaceExW")
)

// GetDiskSpace returns disk space information for the given path.
func GetDiskSpace(path string) (*DiskSpaceInfo, error) {
	path = existingAncestor(path)

	var freeBytesAvailable, totalBytes, totalFreeBytes uint64

	pathPtr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("failed to convert path: %w", err)
	}

	ret, _, err := getDiskFreeSpaceExW.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(unsafe.Pointer(&freeBytesAvailable)),
		uintptr(unsafe.Pointer(&totalBytes)),
		uintptr(unsafe.Pointer(&totalFreeBytes)),
	)

	if ret == 0 {
		return nil, fmt.Errorf("failed to get disk space: %w", err)
	}

	info := &DiskSpaceInfo{
		Path:       path,
		TotalBytes: totalBytes,
		FreeBytes:  freeBytesAvailable,
	}
	info.UsedBytes = info.TotalBytes - info.FreeBytes

	return info, nil
}

// errDiskFull is ERROR_DISK_FULL.
const errDiskFull = syscall.Errno(112)

// isDiskFullError reports whether err is ERROR_DISK_FULL.
func isDiskFullError(err error) bool {
	return errors.Is(err, errDiskFull)
}
