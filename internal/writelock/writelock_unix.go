//go:build unix

package writelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

type fileLock struct {
	file *os.File
}

func acquire(path string) (Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create writer lock dir: %w", err)
	}

	// #nosec G304 -- path is inside the application data directory.
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open writer lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = file.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EAGAIN) {
			return nil, ErrHeld
		}

		return nil, fmt.Errorf("flock writer lock: %w", err)
	}

	return &fileLock{file: file}, nil
}

func (l *fileLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}

	unlockErr := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if unlockErr != nil && !errors.Is(unlockErr, syscall.EBADF) {
		return fmt.Errorf("unlock writer lock: %w", unlockErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close writer lock file: %w", closeErr)
	}

	return nil
}
