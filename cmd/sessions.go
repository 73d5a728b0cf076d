package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poikilos/anewcommit/internal/storage"
)

// Sessions command flags.
var sessionsFlagNoBackup bool

// sessionsCmd lists stored undo sessions.
var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"session"},
	Short:   "Manage stored undo histories",
	Long: `Every project keeps its undo history in a session database under
$XDG_DATA_HOME/anewcommit. These commands inspect and reset it.

Examples:
  anewcommit sessions
  anewcommit sessions check
  anewcommit sessions forget
  anewcommit sessions clear`,
	Args: cobra.NoArgs,
	RunE: runSessionsList,
}

var sessionsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify every stored session decodes",
	Args:  cobra.NoArgs,
	RunE:  runSessionsCheck,
}

var sessionsForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Drop the undo history of the current project",
	Args:  cobra.NoArgs,
	RunE:  runSessionsForget,
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every stored undo history",
	Args:  cobra.NoArgs,
	RunE:  runSessionsClear,
}

func init() {
	sessionsClearCmd.Flags().BoolVar(&sessionsFlagNoBackup, "no-backup", false, "Do not back up the database first")

	sessionsCmd.AddCommand(sessionsCheckCmd)
	sessionsCmd.AddCommand(sessionsForgetCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	sessions, err := ctx.Sessions.List()
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintSessions(sessions)
	}
	ctx.CLIFormatter().PrintSessions(sessions)
	return nil
}

func runSessionsCheck(cmd *cobra.Command, args []string) error {
	status := storage.CheckDatabaseIntegrity(ctx.DB)
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(status)
	}

	cli := ctx.CLIFormatter()
	if status.DiskWarning != "" {
		cli.Warning(status.DiskWarning)
	}
	if status.Healthy {
		cli.Success(fmt.Sprintf("%d sessions checked, no problems found", status.Checked))
		return nil
	}
	cli.Error(fmt.Sprintf("%d of %d sessions are unreadable", status.ErrorCount, status.Checked))
	for _, e := range status.Errors {
		cli.Muted("  " + e)
	}
	cli.Muted("Run 'anewcommit sessions clear' to reset them.")
	return nil
}

func runSessionsForget(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	if err := p.RestoreHistory(nil, -1); err != nil {
		return err
	}
	stored, err := ctx.Sessions.Exists(p.Path())
	if err != nil {
		return err
	}
	if !stored {
		if ctx.IsJSON() {
			return ctx.JSONFormatter().PrintEdit("unchanged", p, -1, nil)
		}
		ctx.CLIFormatter().Muted("No undo session stored for " + p.Path())
		return nil
	}
	if err := ctx.Sessions.Delete(p.Path()); err != nil {
		return err
	}
	return printEdited(p, "forgotten", "", nil)
}

func runSessionsClear(cmd *cobra.Command, args []string) error {
	backup := ""
	if !sessionsFlagNoBackup && ctx.DB.Path() != "" {
		path, err := storage.CreateBackup(ctx.DB.Path())
		if err != nil {
			return err
		}
		backup = path
	}

	n, err := ctx.Sessions.Clear()
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{
			"status":  "cleared",
			"cleared": n,
			"backup":  backup,
		})
	}
	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Cleared %d sessions", n))
	if backup != "" {
		cli.Muted("Backup: " + backup)
	}
	return nil
}
