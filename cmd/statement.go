package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/output"
	"github.com/poikilos/anewcommit/internal/parser"
	"github.com/poikilos/anewcommit/internal/validate"
)

// statementCmd represents the statement command.
var statementCmd = &cobra.Command{
	Use:     "statement",
	Aliases: []string{"stmt"},
	Short:   "Manage the directives of a version",
	Long: `Statements map part of a version's source tree onto a destination:

  sub SOURCE
  use SOURCE as DEST
  use as DEST

Examples:
  anewcommit statement add 3 'use "Primary Site" as main'
  anewcommit statement list 3
  anewcommit statement remove 3 0
  anewcommit statement parse 'sub docs'`,
}

var statementAddCmd = &cobra.Command{
	Use:               "add ID STATEMENT...",
	Short:             "Append a statement to a version",
	Args:              cobra.MinimumNArgs(2),
	RunE:              runStatementAdd,
	ValidArgsFunction: completeVersionIDs,
}

var statementRemoveCmd = &cobra.Command{
	Use:               "remove ID N",
	Short:             "Remove the N-th statement of a version",
	Args:              cobra.ExactArgs(2),
	RunE:              runStatementRemove,
	ValidArgsFunction: completeVersionIDs,
}

var statementListCmd = &cobra.Command{
	Use:               "list ID",
	Short:             "List the statements of a version",
	Args:              cobra.ExactArgs(1),
	RunE:              runStatementList,
	ValidArgsFunction: completeVersionIDs,
}

var statementParseCmd = &cobra.Command{
	Use:   "parse STATEMENT...",
	Short: "Parse a statement without changing the project",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStatementParse,
}

func init() {
	statementCmd.AddCommand(statementAddCmd)
	statementCmd.AddCommand(statementRemoveCmd)
	statementCmd.AddCommand(statementListCmd)
	statementCmd.AddCommand(statementParseCmd)
	rootCmd.AddCommand(statementCmd)
}

func runStatementAdd(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	line := validate.SanitizeStatement(strings.Join(args[1:], " "))
	if err := validate.Statement(line); err != nil {
		return err
	}
	stmt, err := p.AddStatement(args[0], line)
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintStatement(stmt)
	}
	ctx.CLIFormatter().Success("Added statement to #" + args[0])
	ctx.CLIFormatter().PrintStatement(stmt)
	return nil
}

func runStatementRemove(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return anerrors.NewUserErrorWithField("index", args[1],
			"statement index must be a number", "Use 'anewcommit statement list ID' to see indices.")
	}
	p, err := openProject()
	if err != nil {
		return err
	}
	if err := p.RemoveStatement(args[0], n); err != nil {
		return err
	}
	return printEdited(p, "updated", args[0], nil)
}

func runStatementList(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	i := p.IndexOf(args[0])
	if i < 0 {
		return anerrors.NewNotFoundError(string(model.FieldID), args[0])
	}
	a, err := p.At(i)
	if err != nil {
		return err
	}
	if a.Version == nil {
		return anerrors.Wrapf(anerrors.ErrNotAVersion, "action #%s", args[0])
	}

	stmts := make([]*parser.Statement, 0, len(a.Version.Statements))
	for _, line := range a.Version.Statements {
		s, err := parser.ParseStatement(line)
		if err != nil {
			return err
		}
		stmts = append(stmts, s)
	}

	if ctx.IsJSON() {
		outs := make([]*output.StatementOutput, len(stmts))
		for n, s := range stmts {
			outs[n] = output.NewStatementOutput(s)
		}
		return ctx.Formatter.JSON(map[string]any{"id": a.ID, "statements": outs})
	}
	cli := ctx.CLIFormatter()
	if len(stmts) == 0 {
		cli.Muted("No statements.")
		return nil
	}
	for n, s := range stmts {
		cli.Printf("%2d  %s\n", n, s.String())
	}
	return nil
}

func runStatementParse(cmd *cobra.Command, args []string) error {
	stmt, err := parser.ParseStatement(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintStatement(stmt)
	}
	ctx.CLIFormatter().PrintStatement(stmt)
	return nil
}
