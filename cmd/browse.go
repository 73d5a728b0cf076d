package cmd

import (
	"github.com/spf13/cobra"

	"github.com/poikilos/anewcommit/internal/tui"
)

// browseCmd represents the browse command.
var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"tui", "b"},
	Short:   "Browse and edit the project interactively",
	Long: `Open an interactive terminal browser of the project. Actions are
grouped by the version range they belong to.

Keyboard Controls:
  ↑/k ↓/j - Move the cursor
  K / J   - Swap the selected action with its neighbour
  i       - Insert a transition before the selected action
  d       - Remove the selected action
  c       - Toggle whether the selected action commits
  u / r   - Undo / redo
  q       - Quit

Examples:
  anewcommit browse
  anewcommit browse -p ~/snapshots`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	config := tui.BrowserConfig{
		Project:  p,
		OnChange: ctx.Sync,
	}
	return tui.Run(config)
}
