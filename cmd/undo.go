package cmd

import (
	"github.com/spf13/cobra"

	"github.com/poikilos/anewcommit/internal/project"
	"github.com/poikilos/anewcommit/internal/validate"
)

// Undo/redo flags.
var undoFlagSteps int

// undoCmd represents the undo command.
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last edit",
	Long: `Undo the most recent edit. The undo history is kept per project file
between runs, and is reset when the file is changed by something else.

Examples:
  anewcommit remove --where id=3
  anewcommit undo
  # Restores action #3 at its old position

  anewcommit undo -n 3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryStep("undone", (*project.Project).Undo)
	},
}

// redoCmd represents the redo command.
var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Redo the last undone edit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryStep("redone", (*project.Project).Redo)
	},
}

func init() {
	undoCmd.Flags().IntVarP(&undoFlagSteps, "steps", "n", 1, "Number of steps")
	redoCmd.Flags().IntVarP(&undoFlagSteps, "steps", "n", 1, "Number of steps")
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(redoCmd)
}

// maxHistorySteps bounds --steps.
const maxHistorySteps = 10000

// runHistoryStep applies step up to undoFlagSteps times and reports the
// combined change. It fails only when not even one step could be applied.
func runHistoryStep(status string, step func(*project.Project) (project.Affected, error)) error {
	if err := validate.InRange("steps", undoFlagSteps, 1, maxHistorySteps); err != nil {
		return err
	}
	p, err := openProject()
	if err != nil {
		return err
	}

	var total project.Affected
	for n := 0; n < undoFlagSteps; n++ {
		a, err := step(p)
		if err != nil {
			if n == 0 {
				return err
			}
			break
		}
		total.Added = append(total.Added, a.Added...)
		total.Removed = append(total.Removed, a.Removed...)
		total.Swapped = append(total.Swapped, a.Swapped...)
		total.Indices = append(total.Indices, a.Indices...)
	}
	return printEdited(p, status, "", &total)
}
