package parser

import (
	"errors"
	"fmt"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
)

// Statement error sentinels. All of them wrap errors.ErrInvalidStatement.
var (
	ErrTokenize       = fmt.Errorf("%w: tokenizing failed", anerrors.ErrInvalidStatement)
	ErrArgumentCount  = fmt.Errorf("%w: wrong argument count", anerrors.ErrInvalidStatement)
	ErrUnknownCommand = fmt.Errorf("%w: unknown command", anerrors.ErrInvalidStatement)
)

// TokenizeError reports a statement that could not be split into words.
type TokenizeError struct {
	Input  string
	Reason string
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("cannot split statement %q: %s", e.Input, e.Reason)
}

func (e *TokenizeError) Unwrap() error {
	return ErrTokenize
}

// StatementError reports a statement that split cleanly but does not match
// the grammar.
type StatementError struct {
	Statement string // the raw statement
	Command   string // the offending command token
	Message   string
	Err       error // ErrArgumentCount or ErrUnknownCommand
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%s in statement %q", e.Message, e.Statement)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// IsStatementError reports whether err came from statement parsing.
func IsStatementError(err error) bool {
	var se *StatementError
	var te *TokenizeError
	return errors.As(err, &se) || errors.As(err, &te)
}
