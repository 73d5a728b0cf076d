// Package parser parses the short directives attached to version actions and
// the captured dates users type for them.
package parser

import (
	"fmt"
	"strings"
)

// Statement commands.
const (
	CommandSub = "sub"
	CommandUse = "use"
	keywordAs  = "as"
)

// Statement is a parsed directive mapping part of a version's source tree
// onto a destination name:
//
//	sub SOURCE
//	use SOURCE as DEST
//	use as DEST        (the whole version root)
type Statement struct {
	Raw         string
	Command     string
	Source      string
	Destination string

	// Flags for what was found
	HasSource      bool
	HasDestination bool
}

// Caption returns a short label for display: the destination if present,
// else the source, else the command word.
func (s *Statement) Caption() string {
	switch {
	case s.HasDestination:
		return s.Destination
	case s.HasSource:
		return s.Source
	default:
		return s.Command
	}
}

// String renders the statement back into a line that parses to the same value.
func (s *Statement) String() string {
	parts := []string{s.Command}
	if s.HasSource {
		parts = append(parts, Quote(s.Source))
	}
	if s.HasDestination {
		parts = append(parts, keywordAs, Quote(s.Destination))
	}
	return strings.Join(parts, " ")
}

// ParseStatement splits and validates a directive.
func ParseStatement(line string) (*Statement, error) {
	tokens, err := Split(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &StatementError{
			Statement: line,
			Message:   "empty command is unrecognized; expected sub or use",
			Err:       ErrUnknownCommand,
		}
	}

	command, args := tokens[0], tokens[1:]
	stmt := &Statement{Raw: line, Command: command}

	switch command {
	case CommandSub:
		if len(args) != 1 {
			return nil, &StatementError{
				Statement: line,
				Command:   command,
				Message:   fmt.Sprintf("%q expects exactly 1 argument but got %d", command, len(args)),
				Err:       ErrArgumentCount,
			}
		}
		stmt.Source, stmt.HasSource = args[0], true

	case CommandUse:
		switch {
		case len(args) == 3 && args[1] == keywordAs:
			stmt.Source, stmt.HasSource = args[0], true
			stmt.Destination, stmt.HasDestination = args[2], true
		case len(args) == 2 && args[0] == keywordAs:
			stmt.Destination, stmt.HasDestination = args[1], true
		default:
			return nil, &StatementError{
				Statement: line,
				Command:   command,
				Message: fmt.Sprintf("unknown command form %q is unrecognized; expected %q or %q",
					command, "use SOURCE as DEST", "use as DEST"),
				Err: ErrUnknownCommand,
			}
		}

	default:
		return nil, &StatementError{
			Statement: line,
			Command:   command,
			Message:   fmt.Sprintf("unknown command %q is unrecognized; expected sub or use", command),
			Err:       ErrUnknownCommand,
		}
	}

	return stmt, nil
}

// Split breaks line into shell words. Single and double quotes group words,
// a backslash escapes the next character outside single quotes, and spaces
// or tabs separate words. Newlines and unbalanced quotes are errors.
func Split(line string) ([]string, error) {
	if strings.ContainsAny(line, "\r\n") {
		return nil, &TokenizeError{Input: line, Reason: "statements must be a single line"}
	}

	var tokens []string
	var current strings.Builder
	inWord := false
	quoteChar := rune(0)
	escaped := false

	for _, r := range line {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch {
		case r == '\\' && quoteChar != '\'':
			escaped = true
			inWord = true
		case quoteChar != 0:
			if r == quoteChar {
				quoteChar = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quoteChar = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				tokens = append(tokens, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if escaped {
		return nil, &TokenizeError{Input: line, Reason: "trailing backslash"}
	}
	if quoteChar != 0 {
		return nil, &TokenizeError{Input: line, Reason: fmt.Sprintf("unbalanced %c quote", quoteChar)}
	}
	if inWord {
		tokens = append(tokens, current.String())
	}

	return tokens, nil
}

// Quote returns s quoted so that Split yields it as a single word.
func Quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t'\"\\") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
