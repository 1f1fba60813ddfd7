//go:build unix

package writelock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireContentionAndRelease(t *testing.T) {
	dir := t.TempDir()

	first, err := Acquire(dir)
	require.NoError(t, err)

	second, err := Acquire(dir)
	require.ErrorIs(t, err, ErrHeld)
	assert.Nil(t, second)

	require.NoError(t, first.Release())
	require.NoError(t, first.Release(), "release is idempotent")

	third, err := AcquireOrSkip(dir)
	require.NoError(t, err)
	require.NoError(t, third.Release())
}

func TestAcquireCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	l, err := Acquire(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Release() })

	_, err = os.Stat(filepath.Join(dir, lockFilename))
	assert.NoError(t, err)
}

func TestAcquireRejectsEmptyDir(t *testing.T) {
	_, err := Acquire("  ")
	assert.Error(t, err)
}
