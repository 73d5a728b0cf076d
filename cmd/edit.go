package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/project"
	"github.com/poikilos/anewcommit/internal/scan"
	"github.com/poikilos/anewcommit/internal/validate"
)

// Edit command flags.
var (
	insertFlagWhere string
	insertFlagKind  string
	removeFlagWhere string

	setFlagCommit  bool
	setFlagMode    string
	setFlagName    string
	setFlagDate    string
	setFlagCommand string
	setFlagRescan  bool
)

// insertCmd inserts a transition before a matching action.
var insertCmd = &cobra.Command{
	Use:   "insert --where FIELD=VALUE",
	Short: "Insert a transition before the first matching action",
	Long: `Insert a transition before the first action whose FIELD equals VALUE.
FIELD is one of id, kind, path or name.

With --kind auto the transition is a pre_process when the match is a
version or the first action, and a post_process otherwise.

Examples:
  anewcommit insert --where name=site-2022
  anewcommit insert --where id=7 --kind no_op`,
	Args: cobra.NoArgs,
	RunE: runInsert,
}

// removeCmd removes a matching action.
var removeCmd = &cobra.Command{
	Use:     "remove --where FIELD=VALUE",
	Aliases: []string{"rm"},
	Short:   "Remove the first matching action",
	Long: `Remove the first action whose FIELD equals VALUE.

Examples:
  anewcommit remove --where id=3
  anewcommit remove --where path=/snapshots/2021-04-01`,
	Args: cobra.NoArgs,
	RunE: runRemove,
}

// swapCmd swaps two actions by id.
var swapCmd = &cobra.Command{
	Use:               "swap ID ID",
	Short:             "Swap the positions of two actions",
	Args:              cobra.ExactArgs(2),
	RunE:              runSwap,
	ValidArgsFunction: completeSwapArgs,
}

// setCmd edits fields of one action.
var setCmd = &cobra.Command{
	Use:   "set ID",
	Short: "Change fields of an action",
	Long: `Change fields of an action. Each changed field is its own undo step.

Examples:
  anewcommit set 3 --commit=false
  anewcommit set 3 --mode overlay --name Launch
  anewcommit set 3 --date "April 1 2021"
  anewcommit set 3 --rescan
  anewcommit set 4 --command "make dist"`,
	Args:              cobra.ExactArgs(1),
	RunE:              runSet,
	ValidArgsFunction: completeActionIDs,
}

func init() {
	insertCmd.Flags().StringVarP(&insertFlagWhere, "where", "w", "", "FIELD=VALUE to match")
	insertCmd.Flags().StringVarP(&insertFlagKind, "kind", "k", "auto", "Transition kind or auto")
	insertCmd.MarkFlagRequired("where")
	insertCmd.RegisterFlagCompletionFunc("kind", completeInsertKinds)

	removeCmd.Flags().StringVarP(&removeFlagWhere, "where", "w", "", "FIELD=VALUE to match")
	removeCmd.MarkFlagRequired("where")

	setCmd.Flags().BoolVar(&setFlagCommit, "commit", true, "Whether the action produces a commit")
	setCmd.Flags().StringVarP(&setFlagMode, "mode", "m", "", "Merge mode of a version")
	setCmd.Flags().StringVarP(&setFlagName, "name", "n", "", "Display name of a version")
	setCmd.Flags().StringVarP(&setFlagDate, "date", "d", "", "Captured date of a version ('none' clears it)")
	setCmd.Flags().StringVarP(&setFlagCommand, "command", "c", "", "Freeform command of a transition")
	setCmd.Flags().BoolVar(&setFlagRescan, "rescan", false, "Refresh the newest file of a version")

	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(swapCmd)
	rootCmd.AddCommand(setCmd)
}

// parseWhere splits FIELD=VALUE.
func parseWhere(s string) (model.Field, string, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", anerrors.NewUserErrorWithField("where", s,
			"expected FIELD=VALUE", "Use for example --where id=3 or --where name=site-2022.")
	}
	field, err := model.ParseField(strings.TrimSpace(name))
	if err != nil {
		return "", "", err
	}
	return field, value, nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	field, value, err := parseWhere(insertFlagWhere)
	if err != nil {
		return err
	}
	p, err := openProject()
	if err != nil {
		return err
	}

	var a *model.Action
	if insertFlagKind == "auto" {
		a, _, err = p.InsertTransitionWhere(field, value)
	} else {
		a, err = model.NewTransition(p.Allocator(), model.Kind(insertFlagKind))
		if err == nil {
			_, err = p.InsertWhere(field, value, a)
		}
	}
	if err != nil {
		return err
	}
	return printEdited(p, "inserted", a.ID, &project.Affected{Added: []string{a.ID}})
}

func runRemove(cmd *cobra.Command, args []string) error {
	field, value, err := parseWhere(removeFlagWhere)
	if err != nil {
		return err
	}
	p, err := openProject()
	if err != nil {
		return err
	}
	a, err := p.RemoveWhere(field, value)
	if err != nil {
		return err
	}
	return printEdited(p, "removed", "", &project.Affected{Removed: []string{a.ID}})
}

func runSwap(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	if err := p.SwapByID(args[0], args[1]); err != nil {
		return err
	}
	return printEdited(p, "swapped", args[0], &project.Affected{Swapped: []string{args[0], args[1]}})
}

func runSet(cmd *cobra.Command, args []string) error {
	id := args[0]
	p, err := openProject()
	if err != nil {
		return err
	}
	if p.IndexOf(id) < 0 {
		return anerrors.NewNotFoundError(string(model.FieldID), id)
	}

	flags := cmd.Flags()
	changed := false
	apply := func(name string, fn func() error) error {
		if !flags.Changed(name) {
			return nil
		}
		changed = true
		return fn()
	}

	steps := []struct {
		flag string
		fn   func() error
	}{
		{"commit", func() error { return p.SetCommit(id, setFlagCommit) }},
		{"mode", func() error {
			mode, err := parseMergeMode(setFlagMode)
			if err != nil {
				return err
			}
			return p.SetMergeMode(id, mode)
		}},
		{"name", func() error {
			name := validate.SanitizeName(setFlagName)
			if err := validate.DisplayName(name); err != nil {
				return err
			}
			return p.SetDisplayName(id, name)
		}},
		{"date", func() error {
			if strings.EqualFold(setFlagDate, "none") {
				return p.SetCapturedDate(id, "")
			}
			return p.SetCapturedDate(id, setFlagDate)
		}},
		{"command", func() error {
			command := validate.SanitizeCommand(setFlagCommand)
			if err := validate.Command(command); err != nil {
				return err
			}
			return p.SetFreeformCommand(id, command)
		}},
		{"rescan", func() error { return rescanVersion(p, id) }},
	}
	for _, s := range steps {
		if err := apply(s.flag, s.fn); err != nil {
			return err
		}
	}
	if !changed {
		return anerrors.NewUserError("nothing to set",
			"Pass at least one of --commit, --mode, --name, --date, --command or --rescan.")
	}
	return printEdited(p, "updated", id, nil)
}

// rescanVersion refreshes the cached newest file of a version.
func rescanVersion(p *project.Project, id string) error {
	if !setFlagRescan {
		return nil
	}
	a, err := p.At(p.IndexOf(id))
	if err != nil {
		return err
	}
	if a.Version == nil {
		return p.SetCachedNewestFile(id, "")
	}
	path, _, err := scan.NewestFile(a.Version.SourcePath)
	if err != nil {
		return err
	}
	return p.SetCachedNewestFile(id, path)
}
