//go:build windows

package storage

import (
	"os"
)

// flockAcquire is a no-op on Windows; the PID file alone guards the project.
func flockAcquire(file *os.File) error {
	return nil
}

// flockRelease is a no-op on Windows.
func flockRelease(file *os.File) error {
	return nil
}

// isProcessRunning checks if a process with the given PID is still running.
func isProcessRunning(pid int) bool {
	// On Windows, FindProcess always succeeds if the process exists
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Windows, we can check if the process handle is valid
	// by attempting to get its exit code
	// If the process is still running, Wait will return an error
	var ws *os.ProcessState
	ws, err = process.Wait()
	if err != nil {
		// If we can't wait on the process, it might still be running
		// or we don't have permission - assume running to be safe
		return true
	}
	return !ws.Exited()
}
