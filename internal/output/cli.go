package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/parser"
	"github.com/poikilos/anewcommit/internal/project"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#10B981") // Green
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorWarning   = lipgloss.Color("#F59E0B") // Yellow
	colorError     = lipgloss.Color("#EF4444") // Red
	colorInfo      = lipgloss.Color("#3B82F6") // Blue

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSecondary)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleVersion = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleTransition = lipgloss.NewStyle().
			Foreground(colorInfo)

	styleNote = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// Note formats a note.
func (c *CLIFormatter) Note(text string) string {
	return c.render(styleNote, text)
}

// KindLabel formats an action kind, versions and transitions styled apart.
func (c *CLIFormatter) KindLabel(k model.Kind) string {
	label := fmt.Sprintf("%-16s", k)
	if k == model.KindVersion {
		return c.render(styleVersion, label)
	}
	return c.render(styleTransition, label)
}

// CommitMark renders the should-commit flag.
func CommitMark(commit bool) string {
	if commit {
		return "[x]"
	}
	return "[ ]"
}

// ActionLine formats one action: index, id, commit flag, kind and details.
func (c *CLIFormatter) ActionLine(i int, a *model.Action) string {
	var detail string
	switch {
	case a.Version != nil:
		v := a.Version
		detail = fmt.Sprintf("%s  %s", c.render(styleBold, v.DisplayName), c.Note(string(v.MergeMode)))
		if v.CapturedDate != "" {
			detail += "  " + v.CapturedDate
		}
	case a.Transition != nil && a.Transition.FreeformCommand != "":
		detail = c.Note(a.Transition.FreeformCommand)
	}
	return strings.TrimRight(fmt.Sprintf("%3d  #%-4s %s %s %s", i, a.ID, CommitMark(a.ShouldCommit), c.KindLabel(a.Kind), detail), " ")
}

// PrintActions prints the action list grouped under the project location.
func (c *CLIFormatter) PrintActions(p *project.Project) {
	actions := p.Actions()
	if loc := p.Path(); loc != "" {
		c.Title(loc)
	} else if root := p.RootDir(); root != "" {
		c.Title(root)
	}
	if len(actions) == 0 {
		c.Muted("No actions.")
		c.Muted("Use 'anewcommit add version PATH' to add one.")
		return
	}
	for i, a := range actions {
		c.Println(c.ActionLine(i, a))
	}
}

// PrintActionDetail prints every field of one action.
func (c *CLIFormatter) PrintActionDetail(i int, a *model.Action) {
	c.Println(c.ActionLine(i, a))
	if v := a.Version; v != nil {
		c.Printf("  Path: %s\n", v.SourcePath)
		if v.CachedNewestFilePath != "" {
			c.Printf("  Newest file: %s\n", v.CachedNewestFilePath)
		}
		for n, s := range v.Statements {
			c.Printf("  Statement %d: %s\n", n, s)
		}
	}
}

// PrintRanges prints each version with the indices it owns.
func (c *CLIFormatter) PrintRanges(ranges []project.Range, actions []*model.Action) {
	if len(ranges) == 0 {
		c.Muted("No versions.")
		return
	}
	for _, r := range ranges {
		v := actions[r.Version]
		c.Printf("%s  [%d, %d)\n", c.render(styleVersion, v.Name()), r.Lo, r.Hi)
		for _, i := range r.Indices() {
			c.Println("  " + c.ActionLine(i, actions[i]))
		}
	}
}

// PrintAffected prints the range a change at index would affect.
func (c *CLIFormatter) PrintAffected(index int, r project.Range, actions []*model.Action) {
	v := actions[r.Version]
	c.Printf("Index %d belongs to %s (#%s)\n", index, c.render(styleVersion, v.Name()), v.ID)
	c.Printf("  Affected range: [%d, %d)\n", r.Lo, r.Hi)
}

// PrintChange prints what an edit, undo or redo touched.
func (c *CLIFormatter) PrintChange(verb string, a project.Affected) {
	if a.Empty() {
		c.Muted(verb + ": nothing changed")
		return
	}
	c.Success(verb)
	if len(a.Added) > 0 {
		c.Printf("  Added: #%s\n", strings.Join(a.Added, ", #"))
	}
	if len(a.Removed) > 0 {
		c.Printf("  Removed: #%s\n", strings.Join(a.Removed, ", #"))
	}
	if len(a.Swapped) > 0 {
		c.Printf("  Swapped: #%s\n", strings.Join(a.Swapped, ", #"))
	}
}

// PrintStatement prints a parsed statement.
func (c *CLIFormatter) PrintStatement(s *parser.Statement) {
	c.Printf("%s  %s\n", c.render(styleBold, s.Caption()), c.Note(s.String()))
	c.Printf("  Command: %s\n", s.Command)
	if s.HasSource {
		c.Printf("  Source: %s\n", s.Source)
	}
	if s.HasDestination {
		c.Printf("  Destination: %s\n", s.Destination)
	}
}

// PrintSessions prints stored undo sessions as a table.
func (c *CLIFormatter) PrintSessions(sessions []*model.Session) {
	if len(sessions) == 0 {
		c.Muted("No stored sessions.")
		return
	}
	rows := make([]TableRow, len(sessions))
	for i, s := range sessions {
		rows[i] = TableRow{Columns: []string{
			s.ProjectPath,
			fmt.Sprintf("%d/%d", s.StepIndex+1, len(s.Steps)),
			FormatTime(s.UpdatedAt),
		}}
	}
	c.PrintTable([]string{"PROJECT", "STEP", "UPDATED"}, rows)
}

// TableRow is one row of PrintTable.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	c.Println(c.render(styleBold, strings.TrimRight(headerLine.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}
