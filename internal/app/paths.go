package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths stores resolved runtime file locations for config, settings
// storage and logs.
type Paths struct {
	RootDir    string
	ConfigFile string
	DBFile     string
	LogFile    string
}

// ResolvePaths places everything under the user config dir.
func ResolvePaths() (Paths, error) {
	cfgRoot, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve config dir: %w", err)
	}

	return PathsIn(filepath.Join(cfgRoot, Name))
}

// PathsIn lays out the runtime files under root, creating it if needed.
func PathsIn(root string) (Paths, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o750); err != nil {
		return Paths{}, fmt.Errorf("create app config dir: %w", err)
	}

	return Paths{
		RootDir:    root,
		ConfigFile: filepath.Join(root, ConfigFilename),
		DBFile:     filepath.Join(root, DBFilename),
		LogFile:    filepath.Join(root, LogFilename),
	}, nil
}
