package cmd

import (
	"github.com/spf13/cobra"

	"github.com/poikilos/anewcommit/internal/config"
	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/project"
	"github.com/poikilos/anewcommit/internal/validate"
)

// addCmd represents the add command.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a version or transition",
	Long: `Append an action to the end of the project.

Examples:
  anewcommit add version ~/snapshots/site-2022
  anewcommit add version ~/snapshots/site-2022 --mode overlay --name Launch --date 2022-07-06
  anewcommit add transition pre_process`,
}

// Add subcommand flags.
var (
	addFlagMode         string
	addFlagName         string
	addFlagDate         string
	addFlagNoTransition bool
	addFlagCommand      string
)

// addVersionCmd appends a version.
var addVersionCmd = &cobra.Command{
	Use:   "version PATH",
	Short: "Append a version",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddVersion,
}

// addTransitionCmd appends a transition.
var addTransitionCmd = &cobra.Command{
	Use:       "transition KIND",
	Short:     "Append a transition (pre_process, post_process, no_op, for_every_source)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: transitionKindArgs(),
	RunE:      runAddTransition,
}

func init() {
	addVersionCmd.Flags().StringVarP(&addFlagMode, "mode", "m", "", "Merge mode: delete_then_add or overlay (default from config)")
	addVersionCmd.Flags().StringVarP(&addFlagName, "name", "n", "", "Display name (default: last path segment)")
	addVersionCmd.Flags().StringVarP(&addFlagDate, "date", "d", "", "Captured date (e.g. 2021-04-01, 'yesterday')")
	addVersionCmd.Flags().BoolVar(&addFlagNoTransition, "no-transition", false, "Do not append a no-op after the version")

	addTransitionCmd.Flags().StringVarP(&addFlagCommand, "command", "c", "", "Freeform command")

	addCmd.AddCommand(addVersionCmd)
	addCmd.AddCommand(addTransitionCmd)
	rootCmd.AddCommand(addCmd)
}

// parseMergeMode validates a --mode value; empty selects the configured default.
func parseMergeMode(s string) (model.MergeMode, error) {
	if s == "" {
		return config.Global.MergeMode(), nil
	}
	mode := model.MergeMode(s)
	if !mode.IsValid() {
		expected := make([]string, 0, len(model.MergeModes()))
		for _, m := range model.MergeModes() {
			expected = append(expected, string(m))
		}
		return "", anerrors.NewValidationError(anerrors.ErrInvalidMergeMode, "merge mode", s, expected)
	}
	return mode, nil
}

func transitionKindArgs() []string {
	kinds := model.TransitionKinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func runAddVersion(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := validate.SourcePath(path); err != nil {
		return err
	}
	name := validate.SanitizeName(addFlagName)
	if addFlagName != "" {
		if err := validate.DisplayName(name); err != nil {
			return err
		}
	}
	mode, err := parseMergeMode(addFlagMode)
	if err != nil {
		return err
	}
	p, err := openProject()
	if err != nil {
		return err
	}

	var v *model.Action
	if addFlagNoTransition {
		v, err = p.AddVersion(path, mode, name)
	} else {
		v, _, err = p.AddVersionWithTransition(path, mode)
		if err == nil && name != "" {
			err = p.SetDisplayName(v.ID, name)
		}
	}
	if err != nil {
		return err
	}
	if root := p.RootDir(); root != "" && !ctx.IsJSON() && !validate.IsWithinDirectory(path, root) {
		ctx.CLIFormatter().Warning(path + " is outside the project directory " + root)
	}
	if addFlagDate != "" {
		if err := p.SetCapturedDate(v.ID, addFlagDate); err != nil {
			return err
		}
	}
	return printAdded(p, v.ID)
}

func runAddTransition(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	command := validate.SanitizeCommand(addFlagCommand)
	if err := validate.Command(command); err != nil {
		return err
	}
	a, err := p.AddTransition(model.Kind(args[0]))
	if err != nil {
		return err
	}
	if command != "" {
		if err := p.SetFreeformCommand(a.ID, command); err != nil {
			return err
		}
	}
	return printAdded(p, a.ID)
}

// printAdded reports the action with the given id after an edit.
func printAdded(p *project.Project, id string) error {
	return printEdited(p, "added", id, nil)
}

// printEdited reports an edit: the action with id (if any) and what changed.
func printEdited(p *project.Project, status, id string, changed *project.Affected) error {
	i := -1
	if id != "" {
		i = p.IndexOf(id)
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintEdit(status, p, i, changed)
	}

	cli := ctx.CLIFormatter()
	if changed != nil {
		cli.PrintChange(statusVerb(status), *changed)
	} else {
		cli.Success(statusVerb(status))
	}
	if i >= 0 {
		a, err := p.At(i)
		if err != nil {
			return err
		}
		cli.Println(cli.ActionLine(i, a))
	}
	return nil
}

func statusVerb(status string) string {
	switch status {
	case "added":
		return "Added"
	case "inserted":
		return "Inserted"
	case "removed":
		return "Removed"
	case "swapped":
		return "Swapped"
	case "updated":
		return "Updated"
	case "undone":
		return "Undid"
	case "redone":
		return "Redid"
	case "forgotten":
		return "Forgot the undo history"
	}
	return status
}
