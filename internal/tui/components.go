package tui

import (
	"fmt"
	"strings"

	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/output"
	"github.com/poikilos/anewcommit/internal/validate"
)

// maxNameWidth caps names and commands in a row.
const maxNameWidth = 40

// Row is one action as the browser last saw it.
type Row struct {
	Index  int
	Action *model.Action
}

// RangeComponent displays one version range and its actions.
type RangeComponent struct {
	Header   string
	Rows     []Row
	Selected int // store index of the cursor row, or -1
	Width    int
}

// NewRangeComponent creates a new range component.
func NewRangeComponent(header string, rows []Row, selected, width int) *RangeComponent {
	return &RangeComponent{
		Header:   header,
		Rows:     rows,
		Selected: selected,
		Width:    width,
	}
}

// View renders the range component.
func (rc *RangeComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleRangeHeader.Render(rc.Header))
	for _, r := range rc.Rows {
		content.WriteString("\n")
		content.WriteString(rc.renderRow(r))
	}
	return content.String()
}

func (rc *RangeComponent) renderRow(r Row) string {
	a := r.Action
	line := fmt.Sprintf("%3d  #%-4s %s %s", r.Index, a.ID, output.CommitMark(a.ShouldCommit), FormatKind(a.Kind))

	switch {
	case a.Version != nil:
		line += " " + validate.TruncateString(a.Version.DisplayName, maxNameWidth)
		if a.Version.CapturedDate != "" {
			line += "  " + StyleSubtitle.Render(a.Version.CapturedDate)
		}
	case a.Transition != nil && a.Transition.FreeformCommand != "":
		command, _, _ := strings.Cut(a.Transition.FreeformCommand, "\n")
		line += " " + StyleSubtitle.Render(validate.TruncateString(command, maxNameWidth))
	}

	if r.Index == rc.Selected {
		return StyleCursor.Render(">") + " " + line
	}
	return "  " + line
}

// HelpBar renders the keyboard shortcuts.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"↑/k ↓/j", "move"},
		{"K/J", "swap"},
		{"i", "insert"},
		{"d", "remove"},
		{"c", "commit"},
		{"u", "undo"},
		{"r", "redo"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
