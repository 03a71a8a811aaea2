//go:build windows

package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/windows"
)

// FileLock manages exclusive file locking for single-instance enforcement.
// The lock is automatically released when the process dies, even if it
// crashes. A separate PID file stores the holder's PID because the locked
// file cannot be read while the lock is held on Windows.
type FileLock struct {
	lockFile string
	pidFile  string
	file     *os.File
	pid      int
}

// NewFileLock creates a new file lock instance.
// The lock file will be created in the specified config directory.
func NewFileLock(configDir string) *FileLock {
	return &FileLock{
		lockFile: filepath.Join(configDir, "mathimage-server.lock"),
		pidFile:  filepath.Join(configDir, "mathimage-server.pid"),
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

	flag := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	var overlapped windows.Overlapped
	err = windows.LockFileEx(
		windows.Handle(fl.file.Fd()),
		flag,
		0,
		0xFFFFFFFF,
		0xFFFFFFFF,
		&overlapped,
	)
	if err != nil {
		fl.file.Close()
		fl.file = nil
		return fmt.Errorf("lock already held: server may already be running")
	}

	fl.pid = os.Getpid()
	if err := os.WriteFile(fl.pidFile, []byte(strconv.Itoa(fl.pid)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	return nil
}

// Unlock releases the file lock.
// Safe to call multiple times; subsequent calls are no-ops.
func (fl *FileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}

	var overlapped windows.Overlapped
	_ = windows.UnlockFileEx(
		windows.Handle(fl.file.Fd()),
		0,
		0xFFFFFFFF,
		0xFFFFFFFF,
		&overlapped,
	)

	closeErr := fl.file.Close()
	fl.file = nil

	_ = os.Remove(fl.lockFile)
	_ = os.Remove(fl.pidFile)

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

	flag := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	var overlapped windows.Overlapped
	err = windows.LockFileEx(
		windows.Handle(file.Fd()),
		flag,
		0,
		0xFFFFFFFF,
		0xFFFFFFFF,
		&overlapped,
	)
	if err != nil {
		return true
	}
	_ = windows.UnlockFileEx(windows.Handle(file.Fd()), 0, 0xFFFFFFFF, 0xFFFFFFFF, &overlapped)
	return false
}

// GetPID returns the PID stored in the PID file
func (fl *FileLock) GetPID() (int, error) {
	data, err := os.ReadFile(fl.pidFile)
	if err != nil {
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("PID file does not contain a valid PID: %w", err)
	}
	return pid, nil
}

// LockFile returns the lock file path
func (fl *FileLock) LockFile() string {
	return fl.lockFile
}
