package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/studiowebux/nightkeys/internal/cli"
	"github.com/studiowebux/nightkeys/internal/config"
)

var (
	version = "1.0.0"
)

// Global flags
var (
	flagConfig   string
	flagPlatform string
	flagLogLevel string
)

// Set by setup before any subcommand runs
var (
	cfg    *config.Config
	logger *log.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nightkeys",
	Short: "nightkeys - keyboard shortcut settings manager",
	Long: `nightkeys inspects and edits the keyboard shortcuts of the document viewer.

Shortcuts are written as trigger strings: modifiers then a key, joined by '+'.
CmdOrCtrl is Command on macOS and Control elsewhere.

Examples:
  nightkeys list                          # All actions and their shortcuts
  nightkeys list '*Tab'                   # Actions matching a pattern
  nightkeys show close                    # One action (fuzzy name)
  nightkeys parse CmdOrCtrl+Shift+t       # How a trigger displays on each platform
  nightkeys set CloseTab 0 CmdOrCtrl+q    # Replace the first shortcut
  nightkeys match Ctrl+Tab                # Which action a chord runs
  nightkeys validate                      # Look for conflicting shortcuts
  nightkeys export --format yaml          # Dump the settings document`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/nightkeys/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagPlatform, "platform", "p", "", "Platform used for display and matching (darwin, win32, linux)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// setup resolves paths, loads the configuration and builds the logger
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagPlatform != "" {
		loaded.Platform = flagPlatform
	}
	if flagLogLevel != "" {
		loaded.LogLevel = flagLogLevel
	}

	level, err := log.ParseLevel(loaded.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:  level,
		Prefix: "nightkeys",
	})
	log.SetDefault(logger)

	cfg = loaded
	logger.Debug("config loaded", "file", config.ConfigFile, "store", cfg.Store, "platform", cfg.Platform)
	return nil
}

// withApp opens the settings session for the duration of fn
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	ctx := cmd.Context()
	app, err := cli.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

// actionArg resolves the action named by args[i], or asks for one
// interactively when it is missing
func actionArg(app *cli.App, args []string, i int, title string) (string, error) {
	table := app.Manager.Table()
	if len(args) > i {
		return cli.ResolveAction(table.Actions(), args[i])
	}
	return cli.PickAction(table, title)
}
