package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poikilos/anewcommit/internal/config"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Manage application configuration",
	Long: `View and modify application configuration settings.

Settings are read from the config file, then overridden by ANEWCOMMIT_*
environment variables (undo.limit becomes ANEWCOMMIT_UNDO_LIMIT).

Examples:
  anewcommit config get
  anewcommit config get undo.limit
  anewcommit config set undo.preserve_redo true
  anewcommit config set project.default_merge_mode overlay
  anewcommit config path`,
}

// configGetCmd gets configuration values.
var configGetCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Get configuration value",
	Long: `Get one effective configuration value or show all of them.

Keys:
  undo.preserve_redo          Keep redo steps after a new edit
  undo.limit                  Maximum undo steps kept (0 is unlimited)
  storage.state_dir           Session database directory
  project.file_name           Project file created by init
  project.default_merge_mode  Merge mode for new versions
  project.auto_save           Save the project after every edit`,
	Args:              cobra.MaximumNArgs(1),
	RunE:              runConfigGet,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	},
}

// configSetCmd sets configuration values.
var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set configuration value",
	Long: `Write a value into the config file. The file is created if needed.

Examples:
  anewcommit config set undo.limit 100
  anewcommit config set project.auto_save false`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// configPathCmd prints the config file location.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func configFilePath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultConfigPath()
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg := config.Global

	if len(args) == 1 {
		value, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]any{
				"key":   args[0],
				"value": value,
			})
		}
		ctx.Formatter.Printf("%v\n", value)
		return nil
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(cfg)
	}

	cli := ctx.CLIFormatter()
	cli.Title("Configuration")
	cli.Muted(configFilePath())
	ctx.Formatter.Println("")
	for _, key := range config.Keys() {
		value, _ := cfg.Get(key)
		ctx.Formatter.Printf("  %-28s %v\n", key+":", value)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	path := configFilePath()

	if err := config.Set(path, key, value); err != nil {
		return err
	}
	ctx.Debugf("wrote %s=%s to %s", key, value, path)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{
			"status": "updated",
			"key":    key,
			"value":  value,
			"path":   path,
		})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Updated %s = %s", key, value))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := configFilePath()
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{"path": path})
	}
	ctx.Formatter.Println(path)
	return nil
}
