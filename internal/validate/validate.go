// Package validate checks and cleans user input before it reaches a project.
package validate

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poikilos/anewcommit/internal/errors"
)

const (
	// MaxDisplayNameLength is the maximum length for a version display name.
	MaxDisplayNameLength = 128
	// MaxCommandLength is the maximum length for a freeform command.
	MaxCommandLength = 4096
	// MaxStatementLength is the maximum length for a version statement.
	MaxStatementLength = 1024
)

// DisplayName validates a version display name.
func DisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewUserError("Display name cannot be empty", "Provide a name such as --name site-2021")
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return errors.NewUserErrorWithField("name", TruncateString(name, 32),
			"Display name too long",
			"Display names must be 128 characters or fewer")
	}
	if hasControl(name) {
		return errors.NewUserErrorWithField("name", name,
			"Display name contains control characters",
			"Use printable characters only")
	}
	return nil
}

// Command validates a freeform transition command. Empty clears it.
func Command(command string) error {
	if utf8.RuneCountInString(command) > MaxCommandLength {
		return errors.NewUserError(
			"Command too long",
			"Commands must be 4096 characters or fewer")
	}
	if strings.ContainsRune(command, 0) {
		return errors.NewUserError("Command contains a null byte", "")
	}
	return nil
}

// Statement validates one version statement line.
func Statement(line string) error {
	if err := NonEmpty("statement", line); err != nil {
		return err
	}
	if utf8.RuneCountInString(line) > MaxStatementLength {
		return errors.NewUserError(
			"Statement too long",
			"Statements must be 1024 characters or fewer")
	}
	if strings.ContainsAny(line, "\r\n") {
		return errors.NewUserErrorWithField("statement", TruncateString(line, 32),
			"Statement spans several lines",
			"Add each statement separately")
	}
	return nil
}

// SourcePath validates the directory path of a version.
func SourcePath(path string) error {
	if err := NonEmpty("path", path); err != nil {
		return err
	}
	if strings.ContainsRune(path, 0) {
		return errors.NewUserErrorWithField("path", path, "Path contains a null byte", "")
	}
	return nil
}

// NonEmpty validates that a string is not empty.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}

// InRange validates that an integer is within a range.
func InRange(field string, value, min, max int) error {
	if value < min || value > max {
		return errors.NewUserErrorWithField(field, strconv.Itoa(value),
			"Value out of range",
			"Must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
