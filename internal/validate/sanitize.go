package validate

import (
	"path/filepath"
	"strings"
	"unicode"
)

// SanitizeName cleans a display name: trimmed, without control characters.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)

	var sb strings.Builder
	for _, r := range name {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// SanitizeCommand cleans a freeform command for safe storage.
func SanitizeCommand(command string) string {
	command = strings.TrimSpace(command)

	// Remove null bytes
	command = strings.ReplaceAll(command, "\x00", "")

	// Normalize line endings
	command = strings.ReplaceAll(command, "\r\n", "\n")
	command = strings.ReplaceAll(command, "\r", "\n")

	return command
}

// SanitizeStatement trims a statement and collapses runs of whitespace.
func SanitizeStatement(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// IsWithinDirectory checks if a path is within the given base directory.
func IsWithinDirectory(path, baseDir string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// TruncateString truncates a string to maxLen runes, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
