package validate

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poikilos/anewcommit/internal/errors"
)

// =============================================================================
// DisplayName Tests
// =============================================================================

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Valid names
		{"simple", "site-2021", false},
		{"with_spaces", "Spring Launch", false},
		{"unicode", "Frühling", false},
		{"max_length", strings.Repeat("a", MaxDisplayNameLength), false},

		// Invalid names
		{"empty", "", true},
		{"blank", "   ", true},
		{"too_long", strings.Repeat("a", MaxDisplayNameLength+1), true},
		{"with_newline", "site\n2021", true},
		{"with_null", "site\x002021", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DisplayName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsUserError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// =============================================================================
// Command Tests
// =============================================================================

func TestCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty_clears", "", false},
		{"simple", "make dist", false},
		{"multi_line", "make\nmake install", false},
		{"max_length", strings.Repeat("a", MaxCommandLength), false},

		{"too_long", strings.Repeat("a", MaxCommandLength+1), true},
		{"null_byte", "make\x00dist", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Command(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// =============================================================================
// Statement Tests
// =============================================================================

func TestStatement(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"sub", "sub docs", false},
		{"move", "mv a/b.txt c/b.txt", false},

		{"empty", "", true},
		{"blank", "  ", true},
		{"multi_line", "sub docs\nsub web", true},
		{"carriage_return", "sub docs\r", true},
		{"too_long", "sub " + strings.Repeat("a", MaxStatementLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Statement(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSourcePath(t *testing.T) {
	assert.NoError(t, SourcePath("/snapshots/2021-04-01"))
	assert.NoError(t, SourcePath("relative/dir"))
	assert.Error(t, SourcePath(""))
	assert.Error(t, SourcePath("/snap\x00shots"))
}

// =============================================================================
// NonEmpty Tests
// =============================================================================

func TestNonEmpty(t *testing.T) {
	tests := []struct {
		field   string
		value   string
		wantErr bool
	}{
		{"name", "hello", false},
		{"name", " hello ", false},

		{"name", "", true},
		{"name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := NonEmpty(tt.field, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// =============================================================================
// InRange Tests
// =============================================================================

func TestInRange(t *testing.T) {
	tests := []struct {
		value   int
		min     int
		max     int
		wantErr bool
	}{
		{5, 1, 10, false},
		{1, 1, 10, false},
		{10, 1, 10, false},

		{0, 1, 10, true},
		{11, 1, 10, true},
		{-1, 0, 10, true},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			err := InRange("field", tt.value, tt.min, tt.max)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("message_names_bounds", func(t *testing.T) {
		err := InRange("steps", 0, 1, 100)
		ue, ok := errors.AsUserError(err)
		assert.True(t, ok)
		assert.Equal(t, "0", ue.Value)
		assert.Contains(t, ue.Suggestion, "1 and 100")
	})
}

// =============================================================================
// Sanitize Tests
// =============================================================================

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "site-2021", "site-2021"},
		{"trim", "  site-2021 ", "site-2021"},
		{"control", "site\x07-2021", "site-2021"},
		{"newline", "site\n2021", "site2021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeName(tt.input))
		})
	}
}

func TestSanitizeCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "make dist", "make dist"},
		{"trim", "  make dist\n", "make dist"},
		{"null", "make\x00 dist", "make dist"},
		{"crlf", "make\r\nmake install", "make\nmake install"},
		{"cr", "make\rmake install", "make\nmake install"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeCommand(tt.input))
		})
	}
}

func TestSanitizeStatement(t *testing.T) {
	assert.Equal(t, "sub docs", SanitizeStatement("  sub   docs "))
	assert.Equal(t, "mv a b", SanitizeStatement("mv\ta\tb"))
	assert.Equal(t, "", SanitizeStatement("   "))
}

func TestIsWithinDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		baseDir  string
		expected bool
	}{
		{"within", filepath.Join(tmpDir, "subdir", "file.txt"), tmpDir, true},
		{"same", tmpDir, tmpDir, true},
		{"parent", filepath.Dir(tmpDir), tmpDir, false},
		{"sibling_prefix", tmpDir + "-other", tmpDir, false},
		{"dot_dot_name", filepath.Join(tmpDir, "..snap"), tmpDir, true},
		{"escapes", filepath.Join(tmpDir, "a", "..", "..", "x"), tmpDir, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsWithinDirectory(tt.path, tt.baseDir)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short", "Hello", 10, "Hello"},
		{"exact", "Hello", 5, "Hello"},
		{"truncate", "Hello World", 8, "Hello..."},
		{"very_short_limit", "Hello", 3, "Hel"},
		{"short_limit", "Hello World", 4, "H..."},
		{"runes", "Frühlingsfest", 7, "Früh..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateString(tt.input, tt.maxLen)
			assert.Equal(t, tt.expected, result)
		})
	}
}
