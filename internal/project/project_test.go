package project

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/parser"
)

// build makes a project from a compact kind string: V version, P pre-process,
// O post-process, N no-op, F for-every-source.
func build(t *testing.T, layout string) *Project {
	t.Helper()
	p := New(model.NewCounter())
	for i, c := range layout {
		var err error
		switch c {
		case 'V':
			_, err = p.AddVersion(filepath.Join("/snapshots", string(rune('a'+i))), model.MergeDeleteThenAdd, "")
		case 'P':
			_, err = p.AddTransition(model.KindPreProcess)
		case 'O':
			_, err = p.AddTransition(model.KindPostProcess)
		case 'N':
			_, err = p.AddTransition(model.KindNoOp)
		case 'F':
			_, err = p.AddTransition(model.KindForEverySource)
		default:
			t.Fatalf("bad layout char %q", c)
		}
		require.NoError(t, err)
	}
	return p
}

func ids(p *Project) []string {
	var out []string
	for _, a := range p.Actions() {
		out = append(out, a.ID)
	}
	return out
}

// =============================================================================
// Store Tests
// =============================================================================

func TestAppendInsertRemove(t *testing.T) {
	alloc := model.NewCounter()
	p := New(alloc)

	a := model.NewNoOp(alloc)
	b := model.NewPreProcess(alloc)
	c := model.NewPostProcess(alloc)

	require.NoError(t, p.Append(a))
	require.NoError(t, p.Append(c))
	require.NoError(t, p.Insert(1, b))
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, ids(p))

	removed, err := p.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, a.ID, removed.ID)
	assert.Equal(t, []string{b.ID, c.ID}, ids(p))

	t.Run("insert_at_end", func(t *testing.T) {
		require.NoError(t, p.Insert(p.Len(), model.NewNoOp(alloc)))
		assert.Equal(t, 3, p.Len())
	})

	t.Run("out_of_range", func(t *testing.T) {
		err := p.Insert(99, model.NewNoOp(alloc))
		var ie *anerrors.IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, 99, ie.Index)

		_, err = p.Remove(3)
		assert.True(t, errors.Is(err, anerrors.ErrIndexOutOfRange))
		_, err = p.Remove(-1)
		assert.True(t, errors.Is(err, anerrors.ErrIndexOutOfRange))
		assert.True(t, errors.Is(p.Swap(0, 3), anerrors.ErrIndexOutOfRange))

		_, err = p.At(3)
		assert.True(t, errors.Is(err, anerrors.ErrIndexOutOfRange))
	})

	t.Run("nil_action", func(t *testing.T) {
		assert.Error(t, p.Append(nil))
	})
}

func TestActionsReturnsCopies(t *testing.T) {
	p := build(t, "V")
	got := p.Actions()
	got[0].Version.DisplayName = "mutated"

	again, err := p.At(0)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Version.DisplayName)
}

func TestSwap(t *testing.T) {
	p := build(t, "VNV")
	before := ids(p)

	require.NoError(t, p.Swap(0, 2))
	assert.Equal(t, []string{before[2], before[1], before[0]}, ids(p))

	require.NoError(t, p.SwapByID(before[0], before[1]))
	assert.Equal(t, []string{before[2], before[0], before[1]}, ids(p))

	err := p.SwapByID(before[0], "404")
	var nf *anerrors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "404", nf.Value)
}

func TestFindWhere(t *testing.T) {
	p := New(model.NewCounter())
	_, err := p.AddVersion("/s/site-2021", model.MergeOverlay, "")
	require.NoError(t, err)
	tr, err := p.AddTransition(model.KindPostProcess)
	require.NoError(t, err)
	_, err = p.AddVersion("/s/site-2022", model.MergeOverlay, "release")
	require.NoError(t, err)

	tests := []struct {
		field model.Field
		value string
		want  int
	}{
		{model.FieldID, tr.ID, 1},
		{model.FieldKind, "get_version", 0},
		{model.FieldSourcePath, "/s/site-2022", 2},
		{model.FieldDisplayName, "site-2021", 0},
		{model.FieldDisplayName, "release", 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.field)+"="+tt.value, func(t *testing.T) {
			i, err := p.FindWhere(tt.field, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, i)
		})
	}

	_, err = p.FindWhere(model.FieldDisplayName, "post_process")
	assert.True(t, errors.Is(err, anerrors.ErrActionNotFound))
}

func TestInsertTransitionWhere(t *testing.T) {
	t.Run("before_version_is_pre_process", func(t *testing.T) {
		p := build(t, "VNV")
		target := ids(p)[2]
		a, i, err := p.InsertTransitionWhere(model.FieldID, target)
		require.NoError(t, err)
		assert.Equal(t, 2, i)
		assert.Equal(t, model.KindPreProcess, a.Kind)
	})

	t.Run("first_action_is_pre_process", func(t *testing.T) {
		p := build(t, "NV")
		a, i, err := p.InsertTransitionWhere(model.FieldID, ids(p)[0])
		require.NoError(t, err)
		assert.Equal(t, 0, i)
		assert.Equal(t, model.KindPreProcess, a.Kind)
	})

	t.Run("before_transition_is_post_process", func(t *testing.T) {
		p := build(t, "VN")
		a, i, err := p.InsertTransitionWhere(model.FieldKind, "no_op")
		require.NoError(t, err)
		assert.Equal(t, 1, i)
		assert.Equal(t, model.KindPostProcess, a.Kind)
		assert.True(t, a.ShouldCommit)
	})

	t.Run("no_match_allocates_nothing", func(t *testing.T) {
		alloc := model.NewCounter()
		p := New(alloc)
		next := alloc.Next()
		_, _, err := p.InsertTransitionWhere(model.FieldID, "7")
		assert.True(t, errors.Is(err, anerrors.ErrActionNotFound))
		assert.Equal(t, next, alloc.Next())
	})
}

func TestInsertWhereRemoveWhere(t *testing.T) {
	p := build(t, "VV")
	second := ids(p)[1]

	i, err := p.InsertWhere(model.FieldID, second, model.NewForEverySource(p.Allocator()))
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	removed, err := p.RemoveWhere(model.FieldKind, string(model.KindForEverySource))
	require.NoError(t, err)
	assert.Equal(t, model.KindForEverySource, removed.Kind)
	assert.Equal(t, 2, p.Len())

	_, err = p.RemoveWhere(model.FieldKind, string(model.KindForEverySource))
	assert.True(t, errors.Is(err, anerrors.ErrActionNotFound))
}

func TestAddVersionInvalidMode(t *testing.T) {
	p := New(model.NewCounter())
	_, err := p.AddVersion("/s/x", model.MergeMode("replace"), "")
	var ve *anerrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "replace", ve.Value)
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.CanUndo())
}

func TestResolveView(t *testing.T) {
	p := build(t, "VNV")
	all := ids(p)

	i, err := p.ResolveView(all[1], 1)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = p.ResolveView(all[1], 2)
	var ce *anerrors.ConsistencyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.StoreIndex)
	assert.Equal(t, 2, ce.ViewIndex)
	assert.True(t, errors.Is(err, anerrors.ErrOutOfSync))
	assert.Equal(t, anerrors.CategoryInternal, anerrors.Classify(err))

	_, err = p.ResolveView("404", 0)
	assert.True(t, errors.Is(err, anerrors.ErrActionNotFound))
}

// =============================================================================
// Edit Tests
// =============================================================================

func TestStatements(t *testing.T) {
	p := build(t, "VN")
	all := ids(p)

	stmt, err := p.AddStatement(all[0], `use "Primary Site" as main`)
	require.NoError(t, err)
	assert.Equal(t, "main", stmt.Caption())

	_, err = p.AddStatement(all[0], "sub docs")
	require.NoError(t, err)

	v, _ := p.At(0)
	assert.Equal(t, []string{`use "Primary Site" as main`, "sub docs"}, v.Version.Statements)

	t.Run("invalid_statement_not_recorded", func(t *testing.T) {
		_, err := p.AddStatement(all[0], "foo main")
		assert.True(t, errors.Is(err, parser.ErrUnknownCommand))
		v, _ := p.At(0)
		assert.Len(t, v.Version.Statements, 2)
	})

	t.Run("transition_rejected", func(t *testing.T) {
		_, err := p.AddStatement(all[1], "sub docs")
		assert.True(t, errors.Is(err, anerrors.ErrNotAVersion))
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, p.RemoveStatement(all[0], 0))
		v, _ := p.At(0)
		assert.Equal(t, []string{"sub docs"}, v.Version.Statements)

		err := p.RemoveStatement(all[0], 5)
		assert.True(t, errors.Is(err, anerrors.ErrIndexOutOfRange))
	})

	t.Run("undo_restores_statement", func(t *testing.T) {
		_, err := p.Undo()
		require.NoError(t, err)
		v, _ := p.At(0)
		assert.Len(t, v.Version.Statements, 2)
	})
}

func TestFieldEdits(t *testing.T) {
	p := build(t, "VN")
	all := ids(p)

	require.NoError(t, p.SetCommit(all[0], false))
	require.NoError(t, p.SetMergeMode(all[0], model.MergeOverlay))
	require.NoError(t, p.SetDisplayName(all[0], "first"))
	require.NoError(t, p.SetCapturedDate(all[0], "2021-04-01"))
	require.NoError(t, p.SetCachedNewestFile(all[0], "/snapshots/a/index.html"))
	require.NoError(t, p.SetFreeformCommand(all[1], "make clean"))

	v, _ := p.At(0)
	assert.False(t, v.ShouldCommit)
	assert.Equal(t, model.MergeOverlay, v.Version.MergeMode)
	assert.Equal(t, "first", v.Version.DisplayName)
	assert.Equal(t, "2021-04-01", v.Version.CapturedDate)
	assert.Equal(t, "/snapshots/a/index.html", v.Version.CachedNewestFilePath)

	n, _ := p.At(1)
	assert.Equal(t, "make clean", n.Transition.FreeformCommand)

	t.Run("empty_name_restores_default", func(t *testing.T) {
		require.NoError(t, p.SetDisplayName(all[0], ""))
		v, _ := p.At(0)
		assert.Equal(t, "a", v.Version.DisplayName)
	})

	t.Run("wrong_variant", func(t *testing.T) {
		assert.True(t, errors.Is(p.SetFreeformCommand(all[0], "x"), anerrors.ErrNotATransition))
		assert.True(t, errors.Is(p.SetMergeMode(all[1], model.MergeOverlay), anerrors.ErrNotAVersion))
	})

	t.Run("invalid_mode", func(t *testing.T) {
		assert.True(t, errors.Is(p.SetMergeMode(all[0], "zip"), anerrors.ErrInvalidMergeMode))
	})

	t.Run("unknown_id", func(t *testing.T) {
		assert.True(t, errors.Is(p.SetCommit("404", true), anerrors.ErrActionNotFound))
	})

	t.Run("unchanged_value_records_nothing", func(t *testing.T) {
		before := p.History().Index
		require.NoError(t, p.SetCommit(all[0], false))
		assert.Equal(t, before, p.History().Index)
	})

	t.Run("edit_is_one_undo_step", func(t *testing.T) {
		require.NoError(t, p.SetDisplayName(all[0], "renamed"))
		_, err := p.Undo()
		require.NoError(t, err)
		v, _ := p.At(0)
		assert.Equal(t, "a", v.Version.DisplayName)
		assert.Equal(t, all[0], v.ID)

		_, err = p.Redo()
		require.NoError(t, err)
		v, _ = p.At(0)
		assert.Equal(t, "renamed", v.Version.DisplayName)
	})
}
