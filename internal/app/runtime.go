package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"pawvault/internal/bus"
	"pawvault/internal/config"
	"pawvault/internal/kvstore"
	"pawvault/internal/locale"
	"pawvault/internal/logging"
	"pawvault/internal/persistence"
	"pawvault/internal/settings"
	"pawvault/internal/staking"
)

type Runtime struct {
	Paths  Paths
	Config config.AppConfig

	LogManager *logging.Manager
	Bus        *bus.PubSubBus
	DB         *sql.DB
	Store      kvstore.Store

	Settings *settings.Manager
	Staking  *staking.Client

	closeOnce sync.Once
}

// Options adjust runtime wiring, mostly for tests and the CLI.
type Options struct {
	// Locales overrides system locale detection.
	Locales locale.Resolver
	// SettingsOptions are passed to settings.New.
	SettingsOptions []settings.Option
}

func Initialize(ctx context.Context) (*Runtime, error) {
	paths, err := ResolvePaths()
	if err != nil {
		return nil, err
	}

	return InitializeWithPaths(ctx, paths, Options{})
}

// InitializeWithPaths wires the runtime and loads the settings record.
func InitializeWithPaths(ctx context.Context, paths Paths, opts Options) (*Runtime, error) {
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	rt := &Runtime{
		Paths:  paths,
		Config: cfg,
	}

	logMgr := logging.NewManager()
	if err := logMgr.Configure(cfg.Logging, paths.LogFile); err != nil {
		_ = logMgr.Close()

		return nil, fmt.Errorf("configure logging: %w", err)
	}
	rt.LogManager = logMgr
	slog.Debug("starting pawvault runtime", "version", BuildVersion(), "build_date", BuildDateYMD(), "storage", cfg.Storage.Backend)

	store, err := rt.openStore(ctx)
	if err != nil {
		_ = rt.Close()

		return nil, err
	}
	rt.Store = store

	rt.Bus = bus.New(logMgr.Logger("bus"))

	locales := opts.Locales
	if locales == nil {
		locales = locale.NewSystemResolver()
	}
	settingsOpts := append([]settings.Option{
		settings.WithLogger(logMgr.Logger("settings")),
		settings.WithPublisher(rt.Bus),
	}, opts.SettingsOptions...)
	rt.Settings = settings.New(store, locales, settingsOpts...)
	rt.Settings.Load()

	rt.Staking = staking.NewClient(staking.ClientConfig{
		Endpoint: cfg.Staking.Endpoint,
		Logger:   logMgr.Logger("staking"),
	})

	return rt, nil
}

func (r *Runtime) openStore(ctx context.Context) (kvstore.Store, error) {
	switch r.Config.Storage.Backend {
	case config.StorageMemory:
		return kvstore.NewMemoryStore(), nil
	case config.StorageSQLite:
		path := r.Config.Storage.Path
		if path == "" {
			path = r.Paths.DBFile
		}
		db, err := persistence.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		r.DB = db

		return kvstore.NewSQLiteStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", r.Config.Storage.Backend)
	}
}

// Close releases runtime resources. It is safe to call more than once.
func (r *Runtime) Close() error {
	r.closeOnce.Do(func() {
		if r.Bus != nil {
			r.Bus.Close()
		}
		if r.DB != nil {
			_ = r.DB.Close()
		}
		if r.LogManager != nil {
			_ = r.LogManager.Close()
		}
	})

	return nil
}
