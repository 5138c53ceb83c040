package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studiowebux/nightkeys/internal/cli"
	"github.com/studiowebux/nightkeys/internal/config"
	"github.com/studiowebux/nightkeys/internal/filter"
	"github.com/studiowebux/nightkeys/internal/settings"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the settings document (json, triggers, yaml) or its JSON Schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			data, err := cli.Export(app.Manager.Document(), exportFormat, app.Manager.Codec())
			if err != nil {
				return err
			}
			if exportOutput == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(exportOutput, data, config.FilePermissions); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			logger.Info("settings exported", "path", exportOutput, "format", exportFormat)
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [action]",
	Short: "Restore default shortcuts and flags, or the defaults of one action",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			if len(args) == 1 {
				action, err := cli.ResolveAction(app.Manager.Table().Actions(), args[0])
				if err != nil {
					return err
				}
				if err := app.Manager.ResetAction(action); err != nil {
					return err
				}
				return saveAndShow(ctx, app, action)
			}

			if err := app.Manager.Reset(); err != nil {
				return err
			}
			if err := app.Save(ctx); err != nil {
				return err
			}
			logger.Info("settings reset to defaults")
			return nil
		})
	},
}

var queryCmd = &cobra.Command{
	Use:   "query [expression]",
	Short: "Query the settings document with JMESPath",
	Long: `Query the structured settings document.

The expression is JMESPath (keybinds.CloseTab.keybind[].key).
--filter applies another JMESPath expression first. With the sqlite
store, --save keeps the expression as a bookmark and --bookmark runs one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			var expression string
			switch {
			case queryBookmark > 0:
				db, err := app.Snapshots()
				if err != nil {
					return err
				}
				b, err := db.Bookmark(ctx, queryBookmark)
				if err != nil {
					return err
				}
				expression = b.Expression
			case len(args) == 1:
				expression = args[0]
			default:
				return fmt.Errorf("no expression given (pass one or use --bookmark)")
			}

			out, err := filter.QueryDocument(app.Manager.Document(), queryFilter, expression)
			if err != nil {
				return err
			}
			fmt.Println(out)

			if querySave {
				db, err := app.Snapshots()
				if err != nil {
					return err
				}
				saved, err := db.SaveBookmark(ctx, expression)
				if err != nil {
					return err
				}
				if saved {
					logger.Info("bookmark saved", "expression", expression)
				}
			}
			return nil
		})
	},
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks [search]",
	Short: "List saved query expressions (sqlite store)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			db, err := app.Snapshots()
			if err != nil {
				return err
			}
			search := ""
			if len(args) == 1 {
				search = args[0]
			}
			bookmarks, err := db.Bookmarks(ctx, search)
			if err != nil {
				return err
			}
			cli.RenderBookmarks(os.Stdout, bookmarks)
			return nil
		})
	},
}

var bookmarksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved query expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			db, err := app.Snapshots()
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid bookmark id %q", args[0])
			}
			if err := db.DeleteBookmark(ctx, id); err != nil {
				return err
			}
			logger.Info("bookmark deleted", "id", id)
			return nil
		})
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Manage the opened files list",
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List opened files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			cli.RenderFiles(os.Stdout, app.Manager.OpenedFiles())
			return nil
		})
	},
}

var filesAddCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Add files to the opened list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("failed to resolve %s: %w", arg, err)
				}
				if !app.Manager.AddOpenedFile(path) {
					logger.Warn("file already opened", "path", path)
				}
			}
			return app.Save(ctx)
		})
	},
}

var filesRemoveCmd = &cobra.Command{
	Use:   "remove <path>...",
	Short: "Remove files from the opened list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("failed to resolve %s: %w", arg, err)
				}
				if !app.Manager.RemoveOpenedFile(path) {
					logger.Warn("file not in opened list", "path", path)
				}
			}
			return app.Save(ctx)
		})
	},
}

var filesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the opened files list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			app.Manager.ClearOpenedFiles()
			return app.Save(ctx)
		})
	},
}

var flagCmd = &cobra.Command{
	Use:   "flag [name] [true|false]",
	Short: "Show or set general flags",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			switch len(args) {
			case 0:
				cli.RenderFlags(os.Stdout, app.Manager.Flags())
				return nil
			case 1:
				value, ok := app.Manager.Flag(args[0])
				if !ok {
					return fmt.Errorf("flag %s is not set", args[0])
				}
				fmt.Println(value)
				return nil
			}

			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid flag value %q: must be true or false", args[1])
			}
			if err := app.Manager.SetFlag(args[0], value); err != nil {
				return err
			}
			if err := app.Save(ctx); err != nil {
				return err
			}
			logger.Info("flag updated", "name", args[0], "value", value)
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved settings snapshots (sqlite store)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			db, err := app.Snapshots()
			if err != nil {
				return err
			}
			snapshots, err := db.History(ctx, historyLimit)
			if err != nil {
				return err
			}
			cli.RenderHistory(os.Stdout, snapshots)
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the content of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			db, err := app.Snapshots()
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q", args[0])
			}
			snap, err := db.Snapshot(ctx, id)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(snap.Content)
			return err
		})
	},
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Make a snapshot the current settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			db, err := app.Snapshots()
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q", args[0])
			}
			snap, err := db.Snapshot(ctx, id)
			if err != nil {
				return err
			}
			if _, err := settings.DecodeFormat(snap.Content, cfg.SettingsFormat(), nil, app.Manager.Codec()); err != nil {
				return fmt.Errorf("snapshot #%d cannot be restored: %w", id, err)
			}
			if err := db.Save(ctx, snap.Content); err != nil {
				return err
			}
			logger.Info("snapshot restored", "id", id)
			return nil
		})
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune <keep>",
	Short: "Delete all but the newest snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			db, err := app.Snapshots()
			if err != nil {
				return err
			}
			keep, err := strconv.Atoi(args[0])
			if err != nil || keep < 0 {
				return fmt.Errorf("invalid snapshot count %q", args[0])
			}
			deleted, err := db.Prune(ctx, keep)
			if err != nil {
				return err
			}
			logger.Info("history pruned", "deleted", deleted, "kept", keep)
			return nil
		})
	},
}

// Flags
var (
	exportFormat  string
	exportOutput  string
	queryFilter   string
	querySave     bool
	queryBookmark int64
	historyLimit  int
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", cli.ExportJSON, "Output format (json/triggers/yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")

	queryCmd.Flags().StringVar(&queryFilter, "filter", "", "JMESPath expression applied before the query")
	queryCmd.Flags().BoolVar(&querySave, "save", false, "Save the expression as a bookmark")
	queryCmd.Flags().Int64VarP(&queryBookmark, "bookmark", "b", 0, "Run a saved expression by id")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of snapshots to list (0 for all)")

	filesCmd.AddCommand(filesListCmd)
	filesCmd.AddCommand(filesAddCmd)
	filesCmd.AddCommand(filesRemoveCmd)
	filesCmd.AddCommand(filesClearCmd)

	bookmarksCmd.AddCommand(bookmarksDeleteCmd)

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRestoreCmd)
	historyCmd.AddCommand(historyPruneCmd)

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(bookmarksCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(flagCmd)
	rootCmd.AddCommand(historyCmd)
}
