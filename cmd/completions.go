package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/poikilos/anewcommit/internal/model"
)

// completeActionIDs returns a completion function for action ids.
func completeActionIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return actionIDsWithPrefix(toComplete, nil), cobra.ShellCompDirectiveNoFileComp
}

// completeVersionIDs completes only version actions, for the statement commands.
func completeVersionIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return actionIDsWithPrefix(toComplete, (*model.Action).IsVersion), cobra.ShellCompDirectiveNoFileComp
}

// completeSwapArgs completes the two ids of the swap command.
func completeSwapArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) >= 2 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeActionIDs(cmd, args, toComplete)
}

// completeIndices completes action indices for the affected command.
func completeIndices(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || ctx == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	p, err := ctx.RequireProject(flagProject)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for i, a := range p.Actions() {
		idx := strconv.Itoa(i)
		if strings.HasPrefix(idx, toComplete) {
			completions = append(completions, idx+"\t"+a.Name())
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeInsertKinds completes the --kind flag of insert.
func completeInsertKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, k := range append([]string{"auto"}, transitionKindArgs()...) {
		if strings.HasPrefix(k, toComplete) {
			completions = append(completions, k)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// actionIDsWithPrefix lists "id\tname" pairs of the current project.
func actionIDsWithPrefix(toComplete string, keep func(*model.Action) bool) []string {
	if ctx == nil {
		return nil
	}
	p, err := ctx.RequireProject(flagProject)
	if err != nil {
		return nil
	}

	var completions []string
	for _, a := range p.Actions() {
		if keep != nil && !keep(a) {
			continue
		}
		if strings.HasPrefix(a.ID, toComplete) {
			completions = append(completions, a.ID+"\t"+a.Name())
		}
	}
	return completions
}
