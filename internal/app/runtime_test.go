package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawvault/internal/config"
	"pawvault/internal/locale"
	"pawvault/internal/settings"
)

type germanLocale struct{}

func (germanLocale) AvailableLanguages() []locale.Language { return locale.AvailableLanguages() }
func (germanLocale) BrowserCultureLanguage() string        { return "de-DE" }
func (germanLocale) BrowserLanguage() string               { return "de" }
func (germanLocale) DefaultLanguage() string               { return locale.DefaultLanguage }

func initTestRuntime(t *testing.T, root string) *Runtime {
	t.Helper()
	origDefault := slog.Default()
	t.Cleanup(func() { slog.SetDefault(origDefault) })

	paths, err := PathsIn(root)
	require.NoError(t, err)
	rt, err := InitializeWithPaths(context.Background(), paths, Options{Locales: germanLocale{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	return rt
}

func TestInitializeWithPaths_PersistsAcrossRestarts(t *testing.T) {
	root := t.TempDir()

	rt := initTestRuntime(t, root)
	assert.NotNil(t, rt.DB, "sqlite is the default backend")
	assert.Equal(t, "de", settings.Deref(rt.Settings.Snapshot().Language))
	require.NoError(t, rt.Settings.Set("minimumReceive", "5"))
	require.NoError(t, rt.Close())

	rt = initTestRuntime(t, root)
	got := rt.Settings.Snapshot()
	assert.Equal(t, "5", settings.Deref(got.MinimumReceive))
	assert.Equal(t, "de", settings.Deref(got.Language))
	assert.FileExists(t, filepath.Join(root, DBFilename))
}

func TestInitializeWithPaths_MemoryBackend(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Backend = config.StorageMemory
	require.NoError(t, config.Save(filepath.Join(root, ConfigFilename), cfg))

	rt := initTestRuntime(t, root)
	assert.Nil(t, rt.DB)
	assert.NoFileExists(t, filepath.Join(root, DBFilename))
	assert.Equal(t, "peer", rt.Settings.Snapshot().ServerName)
}

func TestInitializeWithPaths_InvalidConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, writeFile(filepath.Join(root, ConfigFilename), `{"storage":{"backend":"redis"}}`))

	paths, err := PathsIn(root)
	require.NoError(t, err)
	_, err = InitializeWithPaths(context.Background(), paths, Options{})
	assert.Error(t, err)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
