package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
)

// rangesCmd shows which actions belong to each version.
var rangesCmd = &cobra.Command{
	Use:   "ranges",
	Short: "Show the actions owned by each version",
	Long: `Show each version with the span of actions it owns. A version owns the
pre_process transitions right before it and the other transitions after it.

Examples:
  anewcommit ranges
  anewcommit ranges --format json`,
	Args: cobra.NoArgs,
	RunE: runRanges,
}

// affectedCmd shows the range a change at an index affects.
var affectedCmd = &cobra.Command{
	Use:               "affected INDEX",
	Short:             "Show the version range containing INDEX",
	Args:              cobra.ExactArgs(1),
	RunE:              runAffected,
	ValidArgsFunction: completeIndices,
}

func init() {
	rootCmd.AddCommand(rangesCmd)
	rootCmd.AddCommand(affectedCmd)
}

func runRanges(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	ranges := p.Ranges()
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintRanges(ranges, p.Actions())
	}
	ctx.CLIFormatter().PrintRanges(ranges, p.Actions())
	return nil
}

func runAffected(cmd *cobra.Command, args []string) error {
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return anerrors.NewUserErrorWithField("index", args[0],
			"index must be a number", "Use 'anewcommit list' to see valid indices.")
	}
	p, err := openProject()
	if err != nil {
		return err
	}
	_, r, err := p.Affected(i)
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintAffected(i, r, p.Actions())
	}
	ctx.CLIFormatter().PrintAffected(i, r, p.Actions())
	return nil
}
