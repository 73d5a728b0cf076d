// Package errors provides consistent error types for anewcommit.
// It separates UserError (fixable by the caller) from SystemError (I/O and
// storage failures) and defines the structural and validation errors raised
// by the project model.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common conditions.
var (
	ErrInvalidMergeMode  = errors.New("invalid merge mode")
	ErrInvalidKind       = errors.New("invalid action kind")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrActionNotFound    = errors.New("action not found")
	ErrMalformedID       = errors.New("malformed identifier")
	ErrOutOfSync         = errors.New("view and project are out of sync")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrNothingToRedo     = errors.New("nothing to redo")
	ErrNoVersion         = errors.New("project has no version actions")
	ErrNotAVersion       = errors.New("action is not a version")
	ErrNotATransition    = errors.New("action is not a transition")
	ErrNoLocation        = errors.New("project has neither a file location nor a root directory")
	ErrNoProject         = errors.New("no project loaded")
	ErrProjectExists     = errors.New("project file already exists")
	ErrInvalidStatement  = errors.New("invalid statement")
	ErrInvalidField      = errors.New("invalid search field")
	ErrDatabaseCorrupted = errors.New("database corrupted")
	ErrLockHeld          = errors.New("project locked by another process")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrDiskFull          = errors.New("disk full")
)

// UserError represents an error that the user can fix.
// Examples: invalid input, missing required arguments, incorrect format.
type UserError struct {
	Message    string // What happened
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Field != "" && e.Value != "" {
		msg = fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return msg
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// SystemError represents a system-level error that the user cannot directly fix.
// Examples: disk full, unreadable project file, database corruption.
type SystemError struct {
	Message string // What happened
	Cause   error  // The underlying error
	Op      string // The operation that failed (optional)
}

func (e *SystemError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError. The cause carries the stack of
// the caller, shown by FormatDebugError under --debug.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   withStack(cause, 3),
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   withStack(cause, 3),
		Op:      op,
	}
}

// ValidationError reports a value outside its recognized set.
// The mutation that produced it did not happen.
type ValidationError struct {
	Field    string   // e.g. "merge mode"
	Value    string   // the rejected value
	Expected []string // the recognized values
	Err      error    // sentinel, e.g. ErrInvalidMergeMode
}

func (e *ValidationError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("invalid %s '%s'", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s '%s': must be one of %s",
		e.Field, e.Value, strings.Join(e.Expected, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError.
func NewValidationError(err error, field, value string, expected []string) *ValidationError {
	return &ValidationError{
		Field:    field,
		Value:    value,
		Expected: expected,
		Err:      err,
	}
}

// IndexError reports an index outside the valid bounds of an operation.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range for %d actions", e.Op, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// NewIndexError creates an IndexError.
func NewIndexError(op string, index, length int) *IndexError {
	return &IndexError{Op: op, Index: index, Len: length}
}

// NotFoundError reports a search that matched no action.
type NotFoundError struct {
	Field string
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no action with %s '%s'", e.Field, e.Value)
}

func (e *NotFoundError) Unwrap() error {
	return ErrActionNotFound
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(field, value string) *NotFoundError {
	return &NotFoundError{Field: field, Value: value}
}

// ConsistencyError reports that a caller's view of the action list disagrees
// with the project about where an action lives.
type ConsistencyError struct {
	ID         string
	StoreIndex int
	ViewIndex  int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: actions[%d] has id %s but the view has it at %d",
		ErrOutOfSync, e.StoreIndex, e.ID, e.ViewIndex)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrOutOfSync
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsSystemError extracts a SystemError from an error chain.
func AsSystemError(err error) (*SystemError, bool) {
	var se *SystemError
	ok := errors.As(err, &se)
	return se, ok
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
