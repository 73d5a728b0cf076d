package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	// User input errors
	ErrInvalidMergeMode: "Use --mode delete_then_add or --mode overlay.",
	ErrInvalidKind:      "Transition kinds are pre_process, post_process, no_op and for_every_source.",
	ErrIndexOutOfRange:  "Use 'anewcommit list' to see valid indices.",
	ErrActionNotFound:   "Use 'anewcommit list' to see action ids, paths and names.",
	ErrMalformedID:      "Action ids are non-negative integers; fix the id in the project file.",
	ErrNothingToUndo:    "There is no recorded edit left to undo.",
	ErrNothingToRedo:    "There is no undone edit left to redo.",
	ErrNoVersion:        "Add a version with 'anewcommit add version PATH'.",
	ErrNotAVersion:      "Statements, merge modes and names only apply to version actions.",
	ErrNotATransition:   "Freeform commands only apply to transition actions.",
	ErrInvalidStatement: "Statements look like 'sub SOURCE', 'use SOURCE as DEST' or 'use as DEST'.",
	ErrInvalidField:     "Search fields are id, kind, path and name.",
	ErrProjectExists:    "Open the existing project with --project or remove it first.",

	// System errors
	ErrNoLocation:        "Pass --project FILE or run 'anewcommit init DIR' first.",
	ErrNoProject:         "Pass --project FILE or run 'anewcommit init DIR' first.",
	ErrDatabaseCorrupted: "Delete the session database under ~/.local/share/anewcommit/ to reset undo history.",
	ErrLockHeld:          "Another anewcommit instance is editing this project. Wait for it to finish.",
	ErrPermissionDenied:  "Check file permissions of the project directory.",
	ErrDiskFull:          "Free up disk space and try again.",

	// Internal errors
	ErrOutOfSync: "Reload the view; it no longer matches the project.",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// A UserError carries its own, more specific suggestion.
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}

// CommandExamples provides example commands for common errors.
var CommandExamples = map[error][]string{
	ErrInvalidStatement: {
		`anewcommit statement add 3 'sub "Primary Site"'`,
		`anewcommit statement add 3 'use "Primary Site" as main'`,
		`anewcommit statement add 3 'use as main'`,
	},
	ErrActionNotFound: {
		"anewcommit remove --where id=3",
		"anewcommit insert --where path=/snapshots/2021-04-01",
	},
}

// GetExamples returns example commands for an error.
func GetExamples(err error) []string {
	for knownErr, examples := range CommandExamples {
		if errors.Is(err, knownErr) {
			return examples
		}
	}
	return nil
}
