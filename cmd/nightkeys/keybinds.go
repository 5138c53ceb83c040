package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studiowebux/nightkeys/internal/cli"
	"github.com/studiowebux/nightkeys/internal/filter"
	"github.com/studiowebux/nightkeys/internal/keybinds"
)

var allPlatforms = []string{keybinds.PlatformDarwin, keybinds.PlatformWin32, keybinds.PlatformLinux}

var listCmd = &cobra.Command{
	Use:   "list [pattern...]",
	Short: "List actions and their shortcuts",
	Long:  "List actions and their shortcuts. Patterns are case-insensitive globs on the action key ('*Tab').",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			table := app.Manager.Table()
			actions := filter.MatchActions(table.Actions(), args)
			if len(actions) == 0 {
				return fmt.Errorf("no action matches %v", args)
			}
			return cli.RenderList(os.Stdout, table, actions)
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show [action]",
	Short: "Show the shortcuts of one action",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			action, err := actionArg(app, args, 0, "Select an action")
			if err != nil {
				return err
			}
			table := app.Manager.Table()
			if err := cli.RenderAction(os.Stdout, table, action); err != nil {
				return err
			}
			if flagCopy {
				copied, err := cli.CopyShortcuts(table, action)
				if err != nil {
					return err
				}
				logger.Info("copied to clipboard", "text", copied)
			}
			return nil
		})
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <trigger>",
	Short: "Parse a trigger and show how it displays on each platform",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		codec := keybinds.NewCodec(nil)
		kb, err := codec.Parse(args[0], keybinds.PlatformNone)
		if err != nil {
			return err
		}
		cli.RenderKeybind(os.Stdout, codec, kb, allPlatforms)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set [action] <index> <trigger>",
	Short: "Replace the shortcut in a slot (index 0 or 1)",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			var action string
			var err error
			if len(args) == 3 {
				action, err = actionArg(app, args, 0, "")
				args = args[1:]
			} else {
				action, err = actionArg(app, nil, 0, "Select the action to rebind")
			}
			if err != nil {
				return err
			}

			index, err := cli.ParseIndex(args[0])
			if err != nil {
				return err
			}
			kb, err := app.Manager.Codec().Parse(args[1], app.Manager.Platform())
			if err != nil {
				return err
			}

			if _, err := app.Manager.Table().SetKeybindAt(action, index, kb); err != nil {
				return err
			}
			return saveAndShow(ctx, app, action)
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add <action> <trigger>",
	Short: "Add a shortcut to an action",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			action, err := actionArg(app, args, 0, "")
			if err != nil {
				return err
			}
			kb, err := app.Manager.Codec().Parse(args[1], app.Manager.Platform())
			if err != nil {
				return err
			}
			if _, err := app.Manager.Table().AddKeybind(action, kb); err != nil {
				return err
			}
			return saveAndShow(ctx, app, action)
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <action> <index>",
	Short: "Remove a shortcut; later shortcuts move up",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editSlot(cmd, args, (*keybinds.Table).RemoveKeybindAt)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <action> <index>",
	Short: "Unbind a shortcut, keeping its slot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editSlot(cmd, args, (*keybinds.Table).ClearKeybindAt)
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <trigger>",
	Short: "Show which action a pressed chord runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			dispatch, ok, err := app.Manager.Table().Match(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no action bound to %s on %s", args[0], app.Manager.Platform())
			}
			if dispatch.Data != "" {
				fmt.Printf("%s -> %s %s\n", dispatch.ActionKey, dispatch.Action, dispatch.Data)
			} else {
				fmt.Printf("%s -> %s\n", dispatch.ActionKey, dispatch.Action)
			}
			return nil
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a settings document for schema errors and conflicting shortcuts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result *keybinds.ValidationResult
		if len(args) == 1 {
			r, err := cli.ValidateFile(args[0], cfg.SettingsFormat(), keybinds.NewCodec(nil), cfg.Platform)
			if err != nil {
				return err
			}
			result = r
		} else {
			err := withApp(cmd, func(ctx context.Context, app *cli.App) error {
				result = app.Manager.Validate()
				return nil
			})
			if err != nil {
				return err
			}
		}

		cli.RenderValidation(os.Stdout, result)
		if result.HasErrors() {
			return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
		}
		return nil
	},
}

// Flags
var (
	flagCopy bool
)

func init() {
	showCmd.Flags().BoolVar(&flagCopy, "copy", false, "Copy the shortcuts to the clipboard")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(validateCmd)
}

// editSlot applies a slot operation to <action> <index> and saves
func editSlot(cmd *cobra.Command, args []string, op func(*keybinds.Table, string, int) (keybinds.Keybinds, error)) error {
	return withApp(cmd, func(ctx context.Context, app *cli.App) error {
		action, err := actionArg(app, args, 0, "")
		if err != nil {
			return err
		}
		index, err := cli.ParseIndex(args[1])
		if err != nil {
			return err
		}
		if _, err := op(app.Manager.Table(), action, index); err != nil {
			return err
		}
		return saveAndShow(ctx, app, action)
	})
}

func saveAndShow(ctx context.Context, app *cli.App, action string) error {
	if err := app.Save(ctx); err != nil {
		return err
	}
	for _, conflict := range keybinds.FindConflicts(app.Manager.Table()) {
		logger.Warn("shortcut conflict", "issue", conflict)
	}
	return cli.RenderAction(os.Stdout, app.Manager.Table(), action)
}
