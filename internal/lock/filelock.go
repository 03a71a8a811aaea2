//go:build !windows

package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// FileLock manages exclusive file locking for single-instance enforcement.
// The lock is automatically released when the process dies, even if it
// crashes. The lock file also stores the holder's PID for signal-based
// shutdown.
type FileLock struct {
	lockFile string
	file     *os.File
	pid      int
}

// NewFileLock creates a new file lock instance.
// The lock file will be created in the specified config directory.
func NewFileLock(configDir string) *FileLock {
	return &FileLock{
		lockFile: filepath.Join(configDir, "mathimage-server.lock"),
	}
}

// TryLock attempts to acquire the file lock.
// Returns an error if the lock is already held by another process.
func (fl *FileLock) TryLock() error {
	var err error
	fl.file, err = os.OpenFile(fl.lockFile, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		fl.file.Close()
		fl.file = nil
		return fmt.Errorf("lock already held: server may already be running")
	}

	fl.pid = os.Getpid()
	if err := fl.file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate lock file: %w", err)
	}
	if _, err := fl.file.WriteAt([]byte(strconv.Itoa(fl.pid)+"\n"), 0); err != nil {
		return fmt.Errorf("failed to write PID to lock file: %w", err)
	}

	return nil
}

// Unlock releases the file lock.
// Safe to call multiple times; subsequent calls are no-ops.
func (fl *FileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}

	_ = syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN)

	closeErr := fl.file.Close()
	fl.file = nil

	_ = os.Remove(fl.lockFile)

	if closeErr != nil {
		return fmt.Errorf("failed to close lock file: %w", closeErr)
	}
	return nil
}

// IsLocked checks if the lock is currently held by another process.
// Returns false if the lock is available or if this process holds it.
func (fl *FileLock) IsLocked() bool {
	if fl.file != nil {
		return false
	}

	file, err := os.OpenFile(fl.lockFile, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false
	}
	defer file.Close()

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		return true
	}
	syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
	return false
}

// GetPID returns the PID stored in the lock file
func (fl *FileLock) GetPID() (int, error) {
	data, err := os.ReadFile(fl.lockFile)
	if err != nil {
		return 0, fmt.Errorf("failed to read lock file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("lock file does not contain a valid PID: %w", err)
	}
	return pid, nil
}

// LockFile returns the lock file path
func (fl *FileLock) LockFile() string {
	return fl.lockFile
}
