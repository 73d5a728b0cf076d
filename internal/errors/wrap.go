package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// StackFrame represents a single frame in a stack trace.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	return fmt.Sprintf("%s\n\t%s:%d", f.Function, f.File, f.Line)
}

// ContextError wraps an error with additional context and optional stack
// trace. An empty Message leaves the wrapped error's text unchanged.
type ContextError struct {
	Message string
	Cause   error
	Stack   []StackFrame
}

func (e *ContextError) Error() string {
	if e.Message == "" && e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WithStack wraps an error and captures the current stack trace.
// Errors that already carry a stack are returned unchanged.
func WithStack(err error) error {
	return withStack(err, 3)
}

// withStack captures the stack above the caller skip frames up.
func withStack(err error, skip int) error {
	if err == nil {
		return nil
	}

	var contextErr *ContextError
	if errors.As(err, &contextErr) && len(contextErr.Stack) > 0 {
		return err
	}

	return &ContextError{Cause: err, Stack: captureStack(skip)}
}

// captureStack captures the current stack trace, skipping the specified number of frames.
func captureStack(skip int) []StackFrame {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip+1, pcs[:])

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]StackFrame, 0, n)

	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") &&
			!strings.HasPrefix(frame.Function, "testing.") {
			stack = append(stack, StackFrame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			})
		}
		if !more {
			break
		}
	}

	return stack
}

// GetStack extracts the stack trace from an error if available.
func GetStack(err error) []StackFrame {
	var contextErr *ContextError
	if errors.As(err, &contextErr) {
		return contextErr.Stack
	}
	return nil
}

// Chain returns the full error chain as a slice of error messages.
func Chain(err error) []string {
	var chain []string
	for err != nil {
		if ce, ok := err.(*ContextError); !ok || ce.Message != "" {
			chain = append(chain, err.Error())
		}
		err = errors.Unwrap(err)
	}
	return chain
}

// RootCause returns the deepest wrapped error in the chain.
func RootCause(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

// FormatDebugError formats an error with its chain and stack trace, if any.
func FormatDebugError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Error: ")
	sb.WriteString(err.Error())
	sb.WriteString("\n")
	sb.WriteString("Category: ")
	sb.WriteString(GetCategory(err).String())
	sb.WriteString("\n")

	if chain := Chain(err); len(chain) > 1 {
		sb.WriteString("\nError chain:\n")
		for i, msg := range chain {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, msg))
		}
	}

	if stack := GetStack(err); len(stack) > 0 {
		sb.WriteString("\nStack trace:\n")
		for i, frame := range stack {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, frame.Function))
			sb.WriteString(fmt.Sprintf("       at %s:%d\n", frame.File, frame.Line))
		}
	}

	return sb.String()
}
