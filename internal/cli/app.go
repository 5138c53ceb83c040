package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/studiowebux/nightkeys/internal/config"
	"github.com/studiowebux/nightkeys/internal/session"
	"github.com/studiowebux/nightkeys/internal/store"
)

// App is one loaded settings session backed by the configured store
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Manager *session.Manager

	store store.Store
}

// Open builds the store named by cfg and loads the settings document
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	recovery := session.RecoverDefaults
	if cfg.Recovery == config.RecoveryAbort {
		recovery = session.RecoverAbort
	}

	mgr := session.NewManager(session.Options{
		Store:       st,
		Platform:    cfg.Platform,
		Format:      cfg.SettingsFormat(),
		AppVersion:  cfg.AppVersion,
		Recovery:    recovery,
		HistoryKeep: cfg.HistoryKeep,
		Logger:      logger,
	})

	app := &App{Config: cfg, Logger: logger, Manager: mgr, store: st}
	if err := mgr.Load(ctx); err != nil {
		app.Close()
		return nil, err
	}
	logger.Debug("settings loaded", "store", cfg.Store, "format", cfg.Format, "platform", cfg.Platform)
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := store.NewSQLiteStore(ctx, cfg.DatabasePath, config.DirPermissions, cfg.AppVersion)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.StoreFile:
		return store.NewFileStore(cfg.SettingsFile, config.FilePermissions, config.DirPermissions), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// Snapshots returns the snapshot store, available with the sqlite backend
func (a *App) Snapshots() (*store.SQLiteStore, error) {
	db, ok := a.store.(*store.SQLiteStore)
	if !ok {
		return nil, fmt.Errorf("settings history requires store = %q (current: %q)", config.StoreSQLite, a.Config.Store)
	}
	return db, nil
}

// Save writes the session back to the store
func (a *App) Save(ctx context.Context) error {
	if err := a.Manager.Save(ctx); err != nil {
		return err
	}
	a.Logger.Debug("settings saved", "store", a.Config.Store)
	return nil
}

// Close releases the store
func (a *App) Close() error {
	if db, ok := a.store.(*store.SQLiteStore); ok {
		return db.Close()
	}
	return nil
}
