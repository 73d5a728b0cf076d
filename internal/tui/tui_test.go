package tui

import (
	"errors"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/project"
)

// newTestProject returns [V site-2021, NOOP, V site-2022, NOOP].
func newTestProject(t *testing.T) *project.Project {
	t.Helper()
	p := project.New(model.NewCounter())
	_, _, err := p.AddVersionWithTransition("/snapshots/2021", model.MergeDeleteThenAdd)
	require.NoError(t, err)
	_, _, err = p.AddVersionWithTransition("/snapshots/2022", model.MergeOverlay)
	require.NoError(t, err)

	ids := actionIDs(p)
	require.NoError(t, p.SetDisplayName(ids[0], "site-2021"))
	require.NoError(t, p.SetDisplayName(ids[2], "site-2022"))
	require.NoError(t, p.RestoreHistory(nil, -1))
	return p
}

func newTestBrowser(t *testing.T) (*BrowserModel, *project.Project) {
	t.Helper()
	p := newTestProject(t)
	m := NewBrowserModel(BrowserConfig{Project: p, Title: "test"})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, p
}

func actionIDs(p *project.Project) []string {
	var out []string
	for _, a := range p.Actions() {
		out = append(out, a.ID)
	}
	return out
}

func rowIDs(m *BrowserModel) []string {
	var out []string
	for _, r := range m.Rows() {
		out = append(out, r.Action.ID)
	}
	return out
}

func press(m *BrowserModel, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// =============================================================================
// Browser Model Tests
// =============================================================================

func TestNewBrowserModel(t *testing.T) {
	m, p := newTestBrowser(t)

	assert.Equal(t, actionIDs(p), rowIDs(m))
	assert.Equal(t, 0, m.Cursor())
	assert.NoError(t, m.Err())
	assert.Empty(t, m.Message())
	assert.NotNil(t, m.Init())

	t.Run("title_defaults_to_root", func(t *testing.T) {
		p := project.New(model.NewCounter(), project.WithRootDir("/snapshots"))
		m := NewBrowserModel(BrowserConfig{Project: p})
		assert.Equal(t, "/snapshots", m.title)
		assert.Empty(t, m.Rows())
	})
}

func TestBrowserNavigation(t *testing.T) {
	m, _ := newTestBrowser(t)

	press(m, "up")
	assert.Equal(t, 0, m.Cursor())

	press(m, "down")
	assert.Equal(t, 1, m.Cursor())
	press(m, "j")
	assert.Equal(t, 2, m.Cursor())
	press(m, "j")
	press(m, "j")
	assert.Equal(t, 3, m.Cursor(), "cursor stops at the last row")

	press(m, "k")
	assert.Equal(t, 2, m.Cursor())
}

func TestBrowserQuit(t *testing.T) {
	m, _ := newTestBrowser(t)

	for _, key := range []string{"q", "ctrl+c"} {
		cmd := press(m, key)
		require.NotNil(t, cmd, key)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestBrowserSwap(t *testing.T) {
	m, p := newTestBrowser(t)
	before := actionIDs(p)

	t.Run("down", func(t *testing.T) {
		press(m, "J")
		require.NoError(t, m.Err())
		assert.Equal(t, []string{before[1], before[0], before[2], before[3]}, actionIDs(p))
		assert.Equal(t, actionIDs(p), rowIDs(m))
		assert.Equal(t, 1, m.Cursor(), "cursor follows the moved action")
		assert.Contains(t, m.Message(), "Swapped")
	})

	t.Run("up", func(t *testing.T) {
		press(m, "K")
		require.NoError(t, m.Err())
		assert.Equal(t, before, actionIDs(p))
		assert.Equal(t, 0, m.Cursor())
	})

	t.Run("at_top_is_noop", func(t *testing.T) {
		press(m, "K")
		assert.Equal(t, before, actionIDs(p))
		assert.Equal(t, "Nothing to swap with", m.Message())
	})
}

func TestBrowserRemoveUndoRedo(t *testing.T) {
	m, p := newTestBrowser(t)
	before := actionIDs(p)

	press(m, "j")
	press(m, "d")
	require.NoError(t, m.Err())
	assert.Equal(t, []string{before[0], before[2], before[3]}, actionIDs(p))
	assert.Equal(t, "Removed #"+before[1], m.Message())
	assert.True(t, p.CanUndo())

	press(m, "u")
	require.NoError(t, m.Err())
	assert.Equal(t, before, actionIDs(p))
	assert.Equal(t, before, rowIDs(m))
	assert.Contains(t, m.Message(), "Undone")
	assert.Contains(t, m.Message(), "+#"+before[1])

	press(m, "r")
	require.NoError(t, m.Err())
	assert.Equal(t, []string{before[0], before[2], before[3]}, actionIDs(p))
	assert.Contains(t, m.Message(), "Redone")
}

func TestBrowserNothingToUndo(t *testing.T) {
	m, _ := newTestBrowser(t)

	press(m, "u")
	assert.NoError(t, m.Err())
	assert.Equal(t, "Nothing to undo", m.Message())

	press(m, "r")
	assert.NoError(t, m.Err())
	assert.Equal(t, "Nothing to redo", m.Message())
}

func TestBrowserInsertTransition(t *testing.T) {
	t.Run("before_first_action_is_pre_process", func(t *testing.T) {
		m, p := newTestBrowser(t)
		press(m, "i")
		require.NoError(t, m.Err())
		require.Equal(t, 5, p.Len())
		a, err := p.At(0)
		require.NoError(t, err)
		assert.Equal(t, model.KindPreProcess, a.Kind)
		assert.Contains(t, m.Message(), "Inserted")
	})

	t.Run("before_transition_is_post_process", func(t *testing.T) {
		m, p := newTestBrowser(t)
		press(m, "j")
		press(m, "i")
		require.NoError(t, m.Err())
		a, err := p.At(1)
		require.NoError(t, err)
		assert.Equal(t, model.KindPostProcess, a.Kind)
	})

	t.Run("empty_project", func(t *testing.T) {
		p := project.New(model.NewCounter())
		m := NewBrowserModel(BrowserConfig{Project: p, Title: "empty"})
		press(m, "i")
		assert.Equal(t, 0, p.Len())
		assert.Contains(t, m.Message(), "add version")
	})
}

func TestBrowserToggleCommit(t *testing.T) {
	m, p := newTestBrowser(t)

	press(m, "j")
	a, err := p.At(1)
	require.NoError(t, err)
	was := a.ShouldCommit

	press(m, "c")
	require.NoError(t, m.Err())
	a, err = p.At(1)
	require.NoError(t, err)
	assert.Equal(t, !was, a.ShouldCommit)
	assert.Equal(t, !was, m.Rows()[1].Action.ShouldCommit)

	press(m, "c")
	a, err = p.At(1)
	require.NoError(t, err)
	assert.Equal(t, was, a.ShouldCommit)
}

func TestBrowserStaleView(t *testing.T) {
	m, p := newTestBrowser(t)

	// Another writer reorders the list behind the browser's back.
	require.NoError(t, p.Swap(0, 1))
	after := actionIDs(p)

	press(m, "d")
	require.Error(t, m.Err())
	assert.True(t, errors.Is(m.Err(), anerrors.ErrOutOfSync))
	var ce *anerrors.ConsistencyError
	require.True(t, errors.As(m.Err(), &ce))
	assert.Equal(t, 1, ce.StoreIndex)
	assert.Equal(t, 0, ce.ViewIndex)

	assert.Equal(t, after, actionIDs(p), "nothing was removed")
	assert.Equal(t, after, rowIDs(m), "the snapshot is reloaded")
	assert.Contains(t, m.View(), "Error:")

	press(m, "d")
	require.NoError(t, m.Err())
	assert.Equal(t, 3, p.Len())
}

func TestBrowserOnChange(t *testing.T) {
	p := newTestProject(t)
	calls := 0
	m := NewBrowserModel(BrowserConfig{
		Project:  p,
		OnChange: func() error { calls++; return nil },
	})

	press(m, "c")
	press(m, "u")
	press(m, "u")
	assert.Equal(t, 2, calls, "a failed undo does not sync")

	t.Run("error_is_shown", func(t *testing.T) {
		m := NewBrowserModel(BrowserConfig{
			Project:  p,
			OnChange: func() error { return errors.New("disk gone") },
		})
		press(m, "c")
		require.Error(t, m.Err())
		assert.Contains(t, m.Err().Error(), "disk gone")
		assert.Equal(t, anerrors.CategorySystem, anerrors.GetCategory(m.Err()))
	})

	t.Run("user_error_keeps_category", func(t *testing.T) {
		m := NewBrowserModel(BrowserConfig{
			Project:  p,
			OnChange: func() error { return anerrors.NewUserError("locked", "") },
		})
		press(m, "c")
		assert.Equal(t, anerrors.CategoryUser, anerrors.GetCategory(m.Err()))
	})
}

func TestBrowserView(t *testing.T) {
	m := NewBrowserModel(BrowserConfig{Project: newTestProject(t), Title: "test"})
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	assert.Contains(t, view, "test")
	assert.Contains(t, view, "site-2021  [0, 2)")
	assert.Contains(t, view, "site-2022  [2, 4)")
	assert.Contains(t, view, "no_op")
	assert.Contains(t, view, ">")
	assert.Contains(t, view, "quit")

	t.Run("no_versions", func(t *testing.T) {
		p := project.New(model.NewCounter())
		_, err := p.AddTransition(model.KindNoOp)
		require.NoError(t, err)
		m := NewBrowserModel(BrowserConfig{Project: p, Title: "t"})
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
		assert.Contains(t, m.View(), "No versions")
	})

	t.Run("no_actions", func(t *testing.T) {
		m := NewBrowserModel(BrowserConfig{Project: project.New(model.NewCounter()), Title: "t"})
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
		assert.Contains(t, m.View(), "No actions.")
	})
}

func TestRunRequiresTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("stdout is a terminal")
	}
	err := Run(BrowserConfig{Project: project.New(model.NewCounter())})
	assert.True(t, errors.Is(err, ErrNotTerminal))
	assert.True(t, anerrors.IsUserError(err))
}

// =============================================================================
// Component Tests
// =============================================================================

func TestRangeComponent(t *testing.T) {
	p := newTestProject(t)
	actions := p.Actions()
	rows := []Row{{Index: 0, Action: actions[0]}, {Index: 1, Action: actions[1]}}

	view := NewRangeComponent("site-2021  [0, 2)", rows, 1, 80).View()
	assert.Contains(t, view, "site-2021  [0, 2)")
	assert.Contains(t, view, "#"+actions[0].ID)
	assert.Contains(t, view, ">")
	assert.Contains(t, view, "[x]")

	none := NewRangeComponent("h", rows, -1, 80).View()
	assert.NotContains(t, none, ">")
}

func TestFormatKind(t *testing.T) {
	assert.Contains(t, FormatKind(model.KindVersion), "get_version")
	assert.Contains(t, FormatKind(model.KindNoOp), "no_op")
}

func TestHelpBar(t *testing.T) {
	help := HelpBar()
	for _, want := range []string{"move", "swap", "insert", "remove", "commit", "undo", "redo", "quit"} {
		assert.Contains(t, help, want)
	}
}
