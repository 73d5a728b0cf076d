package cmd

import (
	"github.com/spf13/cobra"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/output"
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:     "list [ID]",
	Aliases: []string{"ls", "show"},
	Short:   "List the actions of a project",
	Long: `List every action in order with its index, id, commit flag and kind,
or show every field of one action.

Examples:
  anewcommit list
  anewcommit list 3
  anewcommit list --format json`,
	Args:              cobra.MaximumNArgs(1),
	RunE:              runList,
	ValidArgsFunction: completeActionIDs,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		i := p.IndexOf(args[0])
		if i < 0 {
			return anerrors.NewNotFoundError(string(model.FieldID), args[0])
		}
		a, err := p.At(i)
		if err != nil {
			return err
		}
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.NewActionOutput(i, a))
		}
		ctx.CLIFormatter().PrintActionDetail(i, a)
		return nil
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintActions(p)
	}
	ctx.CLIFormatter().PrintActions(p)
	return nil
}
