package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// StorageBackend identifies where the settings record is persisted.
type StorageBackend string

const (
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"

	EnvPrefix = "PAWVAULT"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LoggingConfig defines runtime logging behavior.
type LoggingConfig struct {
	Level     string    `json:"level" mapstructure:"level"`
	Format    LogFormat `json:"format" mapstructure:"format"`
	LogToFile bool      `json:"log_to_file" mapstructure:"log_to_file"`
}

// StorageConfig selects the settings store. An empty Path means the default
// database file in the user config dir.
type StorageConfig struct {
	Backend StorageBackend `json:"backend" mapstructure:"backend"`
	Path    string         `json:"path" mapstructure:"path"`
}

// StakingConfig points the staking lookup at its API.
type StakingConfig struct {
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`
}

// AppConfig is the root application configuration. It is separate from the
// wallet settings record, which lives in the settings store.
type AppConfig struct {
	Storage StorageConfig `json:"storage" mapstructure:"storage"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	Staking StakingConfig `json:"staking" mapstructure:"staking"`
}

func Default() AppConfig {
	return AppConfig{
		Storage: StorageConfig{
			Backend: StorageSQLite,
			Path:    "",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    LogFormatText,
			LogToFile: false,
		},
		Staking: StakingConfig{
			Endpoint: "https://apps.paw.digital/staking/stake_addresses.php",
		},
	}
}

// Load reads the JSON config at path. A missing file yields defaults.
// PAWVAULT_* environment variables (e.g. PAWVAULT_LOGGING_LEVEL) override
// file values.
func Load(path string) (AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Clean(path))
	v.SetConfigType("json")
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.FillMissingDefaults()

	return cfg, nil
}

func setDefaults(v *viper.Viper, d AppConfig) {
	v.SetDefault("storage.backend", string(d.Storage.Backend))
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", string(d.Logging.Format))
	v.SetDefault("logging.log_to_file", d.Logging.LogToFile)
	v.SetDefault("staking.endpoint", d.Staking.Endpoint)
}

func (c *AppConfig) FillMissingDefaults() {
	d := Default()
	c.Storage.Backend = normalizeBackend(c.Storage.Backend)
	c.Storage.Path = strings.TrimSpace(c.Storage.Path)
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = d.Logging.Level
	}
	c.Logging.Format = LogFormat(strings.ToLower(strings.TrimSpace(string(c.Logging.Format))))
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if strings.TrimSpace(c.Staking.Endpoint) == "" {
		c.Staking.Endpoint = d.Staking.Endpoint
	}
}

func normalizeBackend(b StorageBackend) StorageBackend {
	switch StorageBackend(strings.ToLower(strings.TrimSpace(string(b)))) {
	case "":
		return StorageSQLite
	case StorageMemory:
		return StorageMemory
	case StorageSQLite:
		return StorageSQLite
	default:
		return b
	}
}

func (c AppConfig) Validate() error {
	switch c.Storage.Backend {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("unsupported log level: %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case LogFormatText, LogFormatJSON, "":
	default:
		return fmt.Errorf("unsupported log format: %q", c.Logging.Format)
	}

	if endpoint := strings.TrimSpace(c.Staking.Endpoint); endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.New("staking endpoint must be an absolute url")
		}
	}

	return nil
}

func Save(path string, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp config: %w", err)
	}

	return nil
}
