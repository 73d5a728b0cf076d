// Package cmd provides the CLI commands for anewcommit.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/poikilos/anewcommit/internal/config"
	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/logging"
	"github.com/poikilos/anewcommit/internal/output"
	"github.com/poikilos/anewcommit/internal/project"
	"github.com/poikilos/anewcommit/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagProject string
	flagFormat  string
	flagColor   string
	flagDebug   bool
	flagConfig  string
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "anewcommit",
	Short: "Turn a folder of snapshots into a version history",
	Long: `anewcommit keeps an ordered list of versions (snapshot directories) and
the transitions between them, with undo and redo for every edit.

Examples:
  anewcommit init ~/snapshots
  anewcommit list
  anewcommit add transition pre_process
  anewcommit insert --where name=site-2022
  anewcommit undo
  anewcommit browse`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion and help commands (but allow __complete for dynamic completions)
		if cmd.Name() == "completion" || cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		if flagDebug {
			logging.InitDebug()
		}

		format, err := output.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		colorMode, err := output.ParseColorMode(flagColor)
		if err != nil {
			return err
		}

		cfg, err := config.Load(flagConfig)
		if err != nil {
			// config set and config path must work on a missing or broken file.
			if cmd != configSetCmd && cmd != configPathCmd {
				return err
			}
			cfg = config.DefaultRuntimeConfig()
		}
		config.Global = cfg

		opts := runtime.DefaultOptions()
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug
		opts.Config = cfg

		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}
		logging.DebugContext(ctx.Ctx(), "command started",
			logging.KeyOperation, cmd.CommandPath(),
			logging.KeyRequestID, logging.RequestIDFromContext(ctx.Ctx()),
		)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeContext()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: list the project
		return runList(cmd, args)
	},
}

// closeContext syncs and releases the runtime context once.
func closeContext() error {
	if ctx == nil {
		return nil
	}
	err := ctx.Close()
	ctx = nil
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeContext(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "",
		"Project file or directory (default: ./anewcommit.json)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default: $XDG_CONFIG_HOME/anewcommit/config.yaml)")

	rootCmd.AddCommand(versionCmd)
}

// openProject opens the project named by --project.
func openProject() (*project.Project, error) {
	p, err := ctx.RequireProject(flagProject)
	if err != nil {
		return nil, err
	}
	if ctx.Repair != "" && !ctx.IsJSON() {
		ctx.CLIFormatter().Warning("Reassigned duplicate action ids:")
		ctx.CLIFormatter().Muted(ctx.Repair)
	}
	if ctx.HistoryDiscarded && !ctx.IsJSON() {
		ctx.CLIFormatter().Warning("The project file changed outside anewcommit; undo history was reset.")
	}
	return p, nil
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("anewcommit %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// Die prints an error and exits.
func Die(err error) {
	suggestion := anerrors.GetSuggestion(err)
	jsonOut := flagFormat == string(output.FormatJSON)
	if ctx != nil {
		jsonOut = ctx.IsJSON()
	}
	closeContext()

	if jsonOut {
		f := output.NewFormatter()
		output.NewJSONFormatter(f).PrintError(output.ErrorResponse{
			Error:      err.Error(),
			Category:   anerrors.Classify(err).String(),
			Suggestion: suggestion,
		})
	} else {
		if flagDebug {
			os.Stderr.WriteString(anerrors.FormatDebugError(err))
		} else {
			os.Stderr.WriteString("Error: " + anerrors.FormatByCategory(err) + "\n")
		}
		for _, ex := range anerrors.GetExamples(err) {
			os.Stderr.WriteString("    " + ex + "\n")
		}
	}
	os.Exit(1)
}
