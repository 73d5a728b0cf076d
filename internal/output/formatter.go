// Package output provides output formatting for anewcommit.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
)

// Format represents the output format type.
type Format string

const (
	FormatCLI   Format = "cli"
	FormatJSON  Format = "json"
	FormatPlain Format = "plain"
)

// ColorMode represents the color output mode.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCLI, FormatJSON, FormatPlain:
		return f, nil
	}
	return "", anerrors.NewUserErrorWithField("format", s,
		"unknown output format", "Use --format cli, json or plain.")
}

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", anerrors.NewUserErrorWithField("color", s,
		"unknown color mode", "Use --color auto, always or never.")
}

// Formatter handles output formatting.
type Formatter struct {
	Writer    io.Writer
	Format    Format
	ColorMode ColorMode
}

// NewFormatter creates a new formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		Writer:    os.Stdout,
		Format:    FormatCLI,
		ColorMode: ColorAuto,
	}
}

// IsJSON reports whether output is JSON.
func (f *Formatter) IsJSON() bool {
	return f.Format == FormatJSON
}

// IsColorEnabled returns true if color output is enabled.
// Plain output is never colored.
func (f *Formatter) IsColorEnabled() bool {
	if f.Format == FormatPlain {
		return false
	}
	switch f.ColorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if w, ok := f.Writer.(*os.File); ok {
			return isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
		}
		return false
	}
}

// Print outputs formatted text.
func (f *Formatter) Print(a ...any) {
	fmt.Fprint(f.Writer, a...)
}

// Println outputs formatted text with newline.
func (f *Formatter) Println(a ...any) {
	fmt.Fprintln(f.Writer, a...)
}

// Printf outputs formatted text.
func (f *Formatter) Printf(format string, a ...any) {
	fmt.Fprintf(f.Writer, format, a...)
}

// JSON outputs data as JSON.
func (f *Formatter) JSON(v any) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatTime formats a time in local timezone.
func FormatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// FormatBytes formats a byte count with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
