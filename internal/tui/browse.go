package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/project"
)

// ErrNotTerminal is returned by Run when stdout is not a terminal.
var ErrNotTerminal = anerrors.NewUserError("browse needs an interactive terminal",
	"Use 'anewcommit list' to print the actions instead.")

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// BrowserModel is the bubbletea model of the project browser. It keeps a
// snapshot of the action list and routes every edit through
// Project.ResolveView, so an out-of-date snapshot fails instead of editing
// the wrong action.
type BrowserModel struct {
	project  *project.Project
	title    string
	onChange func() error

	rows   []Row
	ranges []project.Range
	cursor int

	// UI state
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	refreshInterval time.Duration
}

// BrowserConfig holds configuration for the browser. Title defaults to the
// project path. OnChange is called after every successful edit, undo or redo.
type BrowserConfig struct {
	Project         *project.Project
	Title           string
	OnChange        func() error
	RefreshInterval time.Duration
}

// NewBrowserModel creates a new browser model.
func NewBrowserModel(config BrowserConfig) *BrowserModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.Title == "" {
		config.Title = config.Project.Path()
	}
	if config.Title == "" {
		config.Title = config.Project.RootDir()
	}

	m := &BrowserModel{
		project:         config.Project,
		title:           config.Title,
		onChange:        config.OnChange,
		refreshInterval: config.RefreshInterval,
	}
	m.refresh()
	return m
}

// Rows returns the snapshot the browser is showing.
func (m *BrowserModel) Rows() []Row {
	return m.rows
}

// Cursor returns the position of the selected row.
func (m *BrowserModel) Cursor() int {
	return m.cursor
}

// Err returns the error of the last edit, if it failed.
func (m *BrowserModel) Err() error {
	return m.err
}

// Message returns the current status message.
func (m *BrowserModel) Message() string {
	return m.message
}

// Init initializes the model.
func (m *BrowserModel) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model.
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.messageExp.IsZero() && time.Now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *BrowserModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.err = nil

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		m.err = nil

	case "u":
		m.historyStep("Undone", m.project.Undo, anerrors.ErrNothingToUndo)

	case "r":
		m.historyStep("Redone", m.project.Redo, anerrors.ErrNothingToRedo)

	case "K":
		m.swapWith(-1)

	case "J":
		m.swapWith(1)

	case "d":
		m.remove()

	case "i":
		m.insertTransition()

	case "c":
		m.toggleCommit()
	}

	return m, nil
}

// selected returns the row under the cursor.
func (m *BrowserModel) selected() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

// resolve checks r against the project and returns its store index.
func (m *BrowserModel) resolve(r Row) (int, error) {
	return m.project.ResolveView(r.Action.ID, r.Index)
}

func (m *BrowserModel) historyStep(verb string, step func() (project.Affected, error), nothing error) {
	affected, err := step()
	if errors.Is(err, nothing) {
		m.err = nil
		m.setMessage(capitalize(nothing.Error()), 2*time.Second)
		return
	}
	m.finish(err, verb+describeAffected(affected))
}

func (m *BrowserModel) swapWith(delta int) {
	r, ok := m.selected()
	if !ok {
		return
	}
	j := m.cursor + delta
	if j < 0 || j >= len(m.rows) {
		m.setMessage("Nothing to swap with", 2*time.Second)
		return
	}
	other := m.rows[j]

	if _, err := m.resolve(r); err != nil {
		m.finish(err, "")
		return
	}
	if _, err := m.resolve(other); err != nil {
		m.finish(err, "")
		return
	}
	err := m.project.SwapByID(r.Action.ID, other.Action.ID)
	if m.finish(err, fmt.Sprintf("Swapped #%s and #%s", r.Action.ID, other.Action.ID)) {
		m.cursor = j
	}
}

func (m *BrowserModel) remove() {
	r, ok := m.selected()
	if !ok {
		return
	}
	i, err := m.resolve(r)
	if err == nil {
		_, err = m.project.Remove(i)
	}
	m.finish(err, fmt.Sprintf("Removed #%s", r.Action.ID))
}

func (m *BrowserModel) insertTransition() {
	r, ok := m.selected()
	if !ok {
		m.setMessage("Add a version first: anewcommit add version PATH", 3*time.Second)
		return
	}
	if _, err := m.resolve(r); err != nil {
		m.finish(err, "")
		return
	}
	a, _, err := m.project.InsertTransitionWhere(model.FieldID, r.Action.ID)
	msg := ""
	if a != nil {
		msg = fmt.Sprintf("Inserted #%s (%s) before #%s", a.ID, a.Kind, r.Action.ID)
	}
	m.finish(err, msg)
}

func (m *BrowserModel) toggleCommit() {
	r, ok := m.selected()
	if !ok {
		return
	}
	if _, err := m.resolve(r); err != nil {
		m.finish(err, "")
		return
	}
	commit := !r.Action.ShouldCommit
	err := m.project.SetCommit(r.Action.ID, commit)
	m.finish(err, fmt.Sprintf("#%s commit %s", r.Action.ID, onOff(commit)))
}

func onOff(commit bool) string {
	if commit {
		return "on"
	}
	return "off"
}

// finish records the outcome of an edit and reloads the snapshot. It
// reports whether the edit succeeded.
func (m *BrowserModel) finish(err error, msg string) bool {
	defer m.refresh()
	if err != nil {
		m.err = err
		return false
	}
	m.err = nil
	if m.onChange != nil {
		if err := m.onChange(); err != nil {
			m.err = saveFailure(err)
		}
	}
	m.setMessage(msg, 3*time.Second)
	return true
}

// refresh reloads the snapshot from the project.
func (m *BrowserModel) refresh() {
	actions := m.project.Actions()
	m.rows = make([]Row, len(actions))
	for i, a := range actions {
		m.rows[i] = Row{Index: i, Action: a}
	}
	m.ranges = m.project.Ranges()

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the browser.
func (m *BrowserModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	sections = append(sections, StyleListBox.Width(m.width-4).Render(m.renderList()))
	sections = append(sections, HelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the browser header.
func (m *BrowserModel) renderHeader() string {
	title := StyleTitle.Render("anewcommit")
	undo := fmt.Sprintf("%d actions, %d versions", len(m.rows), len(m.ranges))
	if m.project.CanUndo() {
		undo += ", undo available"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", StyleSubtitle.Render(m.title)) +
		"\n" + StyleSubtitle.Render(undo) + "\n"
}

// renderList renders the actions grouped by range.
func (m *BrowserModel) renderList() string {
	if len(m.rows) == 0 {
		return StyleSubtitle.Render("No actions.")
	}

	selected := -1
	if r, ok := m.selected(); ok {
		selected = r.Index
	}

	if len(m.ranges) == 0 {
		return NewRangeComponent("No versions", m.rows, selected, m.width).View()
	}

	groups := make([]string, len(m.ranges))
	for n, rg := range m.ranges {
		v := m.rows[rg.Version].Action
		header := fmt.Sprintf("%s  [%d, %d)", v.Name(), rg.Lo, rg.Hi)
		groups[n] = NewRangeComponent(header, m.rows[rg.Lo:rg.Hi], selected, m.width).View()
	}
	return strings.Join(groups, "\n\n")
}

// setMessage sets a temporary message.
func (m *BrowserModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = time.Now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *BrowserModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func describeAffected(a project.Affected) string {
	var parts []string
	for _, id := range a.Added {
		parts = append(parts, "+#"+id)
	}
	for _, id := range a.Removed {
		parts = append(parts, "-#"+id)
	}
	for _, id := range a.Swapped {
		parts = append(parts, "~#"+id)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, " ") + ")"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Run starts the browser. It refuses to start unless stdout is a terminal.
func Run(config BrowserConfig) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}
	m := NewBrowserModel(config)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return saveFailure(err)
}

// saveFailure marks an unclassified error from outside the project model as a
// system error.
func saveFailure(err error) error {
	if anerrors.Classify(err) != anerrors.CategoryUnknown {
		return err
	}
	return anerrors.WithCategory(err, anerrors.CategorySystem)
}
