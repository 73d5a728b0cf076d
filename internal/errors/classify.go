package errors

import (
	"errors"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, missing args).
	CategoryUser
	// CategorySystem indicates a system-level error (disk full, unreadable file).
	CategorySystem
	// CategoryInternal indicates a stale view or an unexpected state.
	CategoryInternal
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	// Consistency errors are checked first: they can wrap user-facing
	// sentinels but always mean the caller's cache is stale.
	if errors.Is(err, ErrOutOfSync) {
		return CategoryInternal
	}

	if IsUserError(err) || isUserLevel(err) {
		return CategoryUser
	}
	if IsSystemError(err) || isSystemLevel(err) {
		return CategorySystem
	}

	return CategoryUnknown
}

// isUserLevel checks for the validation and structural errors of the project model.
func isUserLevel(err error) bool {
	var (
		ve *ValidationError
		ie *IndexError
		ne *NotFoundError
	)
	if errors.As(err, &ve) || errors.As(err, &ie) || errors.As(err, &ne) {
		return true
	}

	return errors.Is(err, ErrNothingToUndo) ||
		errors.Is(err, ErrNothingToRedo) ||
		errors.Is(err, ErrNoVersion) ||
		errors.Is(err, ErrNotAVersion) ||
		errors.Is(err, ErrNotATransition) ||
		errors.Is(err, ErrInvalidStatement) ||
		errors.Is(err, ErrInvalidField) ||
		errors.Is(err, ErrMalformedID) ||
		errors.Is(err, ErrProjectExists)
}

// isSystemLevel checks if an error is a system-level error.
func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM,
			syscall.ENOENT, syscall.EIO, syscall.EROFS:
			return true
		}
	}

	return errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrDatabaseCorrupted) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrLockHeld) ||
		errors.Is(err, ErrNoLocation)
}

// ClassifiedError wraps an error with its classification.
type ClassifiedError struct {
	Err      error
	Category Category
}

func (e *ClassifiedError) Error() string {
	return e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// WithCategory wraps an error with an explicit category.
func WithCategory(err error, category Category) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Err:      err,
		Category: category,
	}
}

// GetCategory returns the category of an error.
// If the error was wrapped with WithCategory, returns that category.
// Otherwise, uses Classify to determine the category.
func GetCategory(err error) Category {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return Classify(err)
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch GetCategory(err) {
	case CategoryUser:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg

	case CategorySystem:
		if suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg

	case CategoryInternal:
		if suggestion != "" {
			return "Internal error: " + msg + "\n\n" + suggestion
		}
		return "Internal error: " + msg

	default:
		return msg
	}
}
