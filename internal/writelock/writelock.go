// Package writelock serializes settings writers across processes sharing one
// data directory.
package writelock

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrHeld indicates another process currently owns the writer lock.
var ErrHeld = errors.New("settings writer lock held by another process")

// ErrUnsupported indicates the current platform has no lock backend.
var ErrUnsupported = errors.New("writer lock unsupported")

const lockFilename = "settings.lock"

// Lock is an acquired writer lock.
type Lock interface {
	Release() error
}

// Acquire takes the writer lock for dir without blocking.
func Acquire(dir string) (Lock, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("writer lock dir is empty")
	}

	return acquire(filepath.Join(dir, lockFilename))
}

type noopLock struct{}

func (noopLock) Release() error { return nil }

// AcquireOrSkip is Acquire that degrades to a no-op lock where the platform
// has no backend.
func AcquireOrSkip(dir string) (Lock, error) {
	l, err := Acquire(dir)
	if errors.Is(err, ErrUnsupported) {
		return noopLock{}, nil
	}

	return l, err
}
