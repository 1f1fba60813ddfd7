package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppConfigFillMissingDefaults(t *testing.T) {
	cfg := AppConfig{}
	cfg.FillMissingDefaults()

	if cfg.Storage.Backend != StorageSQLite {
		t.Fatalf("expected default backend %q, got %q", StorageSQLite, cfg.Storage.Backend)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.Logging.Level)
	}
	if cfg.Staking.Endpoint != Default().Staking.Endpoint {
		t.Fatalf("expected default staking endpoint, got %q", cfg.Staking.Endpoint)
	}
}

func TestAppConfigFillMissingDefaultsNormalizesBackend(t *testing.T) {
	cfg := AppConfig{Storage: StorageConfig{Backend: " Memory "}}
	cfg.FillMissingDefaults()
	if cfg.Storage.Backend != StorageMemory {
		t.Fatalf("expected backend to normalize to %q, got %q", StorageMemory, cfg.Storage.Backend)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
  "logging": {
    "level": "debug"
  }
}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug level from file, got %q", cfg.Logging.Level)
	}
	if cfg.Storage.Backend != StorageSQLite {
		t.Fatalf("expected default backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Logging.LogToFile {
		t.Fatalf("expected log_to_file to default to false")
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"storage":{"backend":"sqlite"}}`), 0o600); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}
	t.Setenv("PAWVAULT_STORAGE_BACKEND", "memory")
	t.Setenv("PAWVAULT_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Backend != StorageMemory {
		t.Fatalf("expected env backend override, got %q", cfg.Storage.Backend)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env log level override, got %q", cfg.Logging.Level)
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"logging":`), 0o600); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Logging.LogToFile = true
	cfg.Storage.Path = "/tmp/settings.db"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got != cfg {
		t.Fatalf("expected %+v, got %+v", cfg, got)
	}
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{name: "defaults"},
		{name: "memory backend", mutate: func(c *AppConfig) { c.Storage.Backend = StorageMemory }},
		{name: "unknown backend", mutate: func(c *AppConfig) { c.Storage.Backend = "redis" }, wantErr: true},
		{name: "bad log level", mutate: func(c *AppConfig) { c.Logging.Level = "loud" }, wantErr: true},
		{name: "json log format", mutate: func(c *AppConfig) { c.Logging.Format = LogFormatJSON }},
		{name: "bad log format", mutate: func(c *AppConfig) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "relative staking endpoint", mutate: func(c *AppConfig) { c.Staking.Endpoint = "apps.paw.digital" }, wantErr: true},
	}

	for _, tc := range tests {
		cfg := Default()
		if tc.mutate != nil {
			tc.mutate(&cfg)
		}
		err := cfg.Validate()
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.name, err)
		}
	}
}
