package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/studiowebux/nightkeys/internal/keybinds"
	"github.com/studiowebux/nightkeys/internal/settings"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

const appName = "nightkeys"

// Store backends
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Recovery policies for a settings document that fails validation
const (
	RecoveryDefaults = "defaults"
	RecoveryAbort    = "abort"
)

// DefaultAppVersion is written into new settings documents
const DefaultAppVersion = "1.0.0"

// DefaultHistoryKeep is the number of sqlite snapshots kept after a save
const DefaultHistoryKeep = 20

var (
	// ConfigFile is the user configuration file ($XDG_CONFIG_HOME/nightkeys/config.toml)
	ConfigFile string

	// DataDir holds the settings document and the snapshot database
	DataDir string

	// SettingsFile is the default settings document path
	SettingsFile string

	// DatabasePath is the SQLite database file for settings snapshots
	DatabasePath string
)

// Config is the tool configuration
type Config struct {
	Platform     string `koanf:"platform"`      // darwin, win32, linux; display and matching
	Store        string `koanf:"store"`         // "file" or "sqlite"
	Format       string `koanf:"format"`        // "structured" or "triggers"
	SettingsFile string `koanf:"settings_file"` // used by the file store
	DatabasePath string `koanf:"database_path"` // used by the sqlite store
	LogLevel     string `koanf:"log_level"`
	AppVersion   string `koanf:"app_version"`
	HistoryKeep  int    `koanf:"history_keep"` // 0 keeps every snapshot
	Recovery     string `koanf:"recovery"`     // "defaults" or "abort"
}

// Initialize resolves the global paths from the XDG base directories
// and creates the data directory if it doesn't exist
func Initialize() error {
	configFile, err := xdg.ConfigFile(filepath.Join(appName, "config.toml"))
	if err != nil {
		return fmt.Errorf("failed to resolve config file: %w", err)
	}

	settingsFile, err := xdg.DataFile(filepath.Join(appName, "settings.json"))
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}

	ConfigFile = configFile
	SettingsFile = settingsFile
	DataDir = filepath.Dir(settingsFile)
	DatabasePath = filepath.Join(DataDir, appName+".db")

	if err := os.MkdirAll(DataDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", DataDir, err)
	}

	return nil
}

// Default returns the configuration used when no file sets a value
func Default() *Config {
	return &Config{
		Platform:     keybinds.CurrentPlatform(),
		Store:        StoreFile,
		Format:       string(settings.FormatStructured),
		SettingsFile: SettingsFile,
		DatabasePath: DatabasePath,
		LogLevel:     "info",
		AppVersion:   DefaultAppVersion,
		HistoryKeep:  DefaultHistoryKeep,
		Recovery:     RecoveryDefaults,
	}
}

// Load reads the configuration. When explicit is set only that file is
// read and it must exist; otherwise the XDG config file and then
// ./nightkeys.toml are read if present, the last one winning.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(file.Provider(explicit), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", explicit, err)
		}
	} else {
		for _, path := range getConfigPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
					return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
				}
			}
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.SettingsFile = expandPath(cfg.SettingsFile)
	cfg.DatabasePath = expandPath(cfg.DatabasePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every enumerated value
func (c *Config) Validate() error {
	if c.Platform == "" {
		return fmt.Errorf("invalid config: platform is empty")
	}
	switch c.Store {
	case StoreFile:
		if c.SettingsFile == "" {
			return fmt.Errorf("invalid config: settings_file is required for the file store")
		}
	case StoreSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("invalid config: database_path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("invalid config: unknown store %q (want %s or %s)", c.Store, StoreFile, StoreSQLite)
	}
	if _, err := settings.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: log_level: %w", err)
	}
	switch c.Recovery {
	case RecoveryDefaults, RecoveryAbort:
	default:
		return fmt.Errorf("invalid config: unknown recovery %q (want %s or %s)", c.Recovery, RecoveryDefaults, RecoveryAbort)
	}
	if c.HistoryKeep < 0 {
		return fmt.Errorf("invalid config: history_keep must not be negative")
	}
	return nil
}

// SettingsFormat returns the parsed document format
func (c *Config) SettingsFormat() settings.Format {
	f, err := settings.ParseFormat(c.Format)
	if err != nil {
		return settings.FormatStructured
	}
	return f
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. $XDG_CONFIG_HOME/nightkeys/config.toml
	if ConfigFile != "" {
		paths = append(paths, ConfigFile)
	}

	// 2. ./nightkeys.toml (pwd, highest priority)
	paths = append(paths, appName+".toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
