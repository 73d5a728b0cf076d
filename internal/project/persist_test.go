package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anerrors "github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
)

func writeProject(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// =============================================================================
// Save Tests
// =============================================================================

func TestSaveDefaultLocation(t *testing.T) {
	root := t.TempDir()
	p := New(model.NewCounter(), WithRootDir(root))
	_, err := p.AddVersion(filepath.Join(root, "site-2021"), model.MergeDeleteThenAdd, "")
	require.NoError(t, err)

	require.NoError(t, p.Save())
	assert.Equal(t, filepath.Join(root, DefaultFileName), p.Path())

	data, err := os.ReadFile(p.Path())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, root, raw["rootDirectory"])
	assert.Len(t, raw["actions"], 1)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestSaveWithoutLocation(t *testing.T) {
	p := New(model.NewCounter())
	err := p.Save()
	require.Error(t, err)
	assert.True(t, errors.Is(err, anerrors.ErrNoLocation))
	assert.True(t, anerrors.IsSystemError(err))
}

func TestSaveEmptyProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	p := New(model.NewCounter(), WithPath(path))
	require.NoError(t, p.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"actions": []`)
}

func TestAutoSave(t *testing.T) {
	root := t.TempDir()
	p := New(model.NewCounter(), WithRootDir(root), WithAutoSave())
	_, err := p.AddTransition(model.KindNoOp)
	require.NoError(t, err)

	path := filepath.Join(root, DefaultFileName)
	loaded, _, err := Load(path, model.NewCounter())
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())

	_, err = p.Undo()
	require.NoError(t, err)
	loaded, _, err = Load(path, model.NewCounter())
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestAutoSaveFailureKeepsMutation(t *testing.T) {
	p := New(model.NewCounter(), WithAutoSave())
	_, err := p.AddTransition(model.KindNoOp)
	assert.True(t, errors.Is(err, anerrors.ErrNoLocation))
	assert.Equal(t, 1, p.Len())
	assert.True(t, p.CanUndo())
}

// =============================================================================
// Load Tests
// =============================================================================

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	p := New(model.NewCounter(), WithRootDir(root))
	v, _, err := p.AddVersionWithTransition(filepath.Join(root, "a"), model.MergeOverlay)
	require.NoError(t, err)
	_, err = p.AddStatement(v.ID, "sub docs")
	require.NoError(t, err)
	require.NoError(t, p.SetCapturedDate(v.ID, "2021-04-01"))
	require.NoError(t, p.Save())

	loaded, repair, err := Load(p.Path(), model.NewCounter())
	require.NoError(t, err)
	assert.Empty(t, repair)
	assert.Equal(t, p.Actions(), loaded.Actions())
	assert.Equal(t, root, loaded.RootDir())
	assert.Equal(t, p.Fingerprint(), loaded.Fingerprint())
}

func TestLoadDefaults(t *testing.T) {
	path := writeProject(t, `{
  "rootDirectory": "/s",
  "actions": [
    {"id": "4", "kind": "get_version", "shouldCommit": true, "sourcePath": "/s/site-2021"},
    {"id": "9", "kind": "no_op"}
  ]
}`)
	alloc := model.NewCounter()
	p, repair, err := Load(path, alloc)
	require.NoError(t, err)
	assert.Empty(t, repair)

	v, _ := p.At(0)
	assert.Equal(t, "site-2021", v.Version.DisplayName)
	assert.Equal(t, model.MergeDeleteThenAdd, v.Version.MergeMode)
	assert.Equal(t, "10", alloc.Allocate())
}

func TestLoadRepairsUsedIDs(t *testing.T) {
	body := `{"rootDirectory": "", "actions": [
		{"id": "0", "kind": "no_op"},
		{"id": "1", "kind": "pre_process", "shouldCommit": true},
		{"id": "1", "kind": "post_process", "shouldCommit": true}
	]}`

	t.Run("duplicate_in_file", func(t *testing.T) {
		alloc := model.NewCounter()
		p, repair, err := Load(writeProject(t, body), alloc)
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1", "2"}, ids(p))
		assert.Equal(t, 1, strings.Count(repair, "\n")+1)
		assert.Contains(t, repair, "id 1")
		assert.Contains(t, repair, "2")
	})

	t.Run("shared_allocator", func(t *testing.T) {
		alloc := model.NewCounter()
		first, repair, err := Load(writeProject(t, body), alloc)
		require.NoError(t, err)
		assert.NotEmpty(t, repair)

		second, repair, err := Load(writeProject(t, body), alloc)
		require.NoError(t, err)
		assert.Len(t, strings.Split(repair, "\n"), 3)

		seen := map[string]bool{}
		for _, id := range append(ids(first), ids(second)...) {
			assert.False(t, seen[id], "id %s used twice", id)
			seen[id] = true
		}
	})

	t.Run("keeps_later_ids_that_do_not_collide", func(t *testing.T) {
		body := `{"rootDirectory": "", "actions": [
			{"id": "0", "kind": "no_op"},
			{"id": "0", "kind": "no_op"},
			{"id": "1", "kind": "no_op"}
		]}`
		p, repair, err := Load(writeProject(t, body), model.NewCounter())
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "2", "1"}, ids(p))
		assert.Equal(t, "action 1: id 0 is already in use; reassigned 2", repair)
	})

	t.Run("only_the_id_used_elsewhere_is_renamed", func(t *testing.T) {
		alloc := model.NewCounter()
		require.NoError(t, alloc.Absorb("0"))
		body := `{"rootDirectory": "", "actions": [
			{"id": "0", "kind": "no_op"},
			{"id": "1", "kind": "no_op"}
		]}`
		p, repair, err := Load(writeProject(t, body), alloc)
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "1"}, ids(p))
		assert.Equal(t, "action 0: id 0 is already in use; reassigned 2", repair)
	})
}

func TestLoadFailures(t *testing.T) {
	t.Run("malformed_id", func(t *testing.T) {
		path := writeProject(t, `{"actions": [{"id": "abc", "kind": "no_op"}]}`)
		_, _, err := Load(path, model.NewCounter())
		assert.True(t, errors.Is(err, anerrors.ErrMalformedID))
	})

	t.Run("unknown_kind", func(t *testing.T) {
		path := writeProject(t, `{"actions": [{"id": "1", "kind": "teleport"}]}`)
		_, _, err := Load(path, model.NewCounter())
		assert.True(t, errors.Is(err, anerrors.ErrInvalidKind))
	})

	t.Run("bad_json", func(t *testing.T) {
		path := writeProject(t, `{"actions": [`)
		_, _, err := Load(path, model.NewCounter())
		assert.Error(t, err)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, _, err := Load(filepath.Join(t.TempDir(), "nope.json"), model.NewCounter())
		assert.True(t, anerrors.IsUserError(err))
	})
}

func TestFingerprint(t *testing.T) {
	p := build(t, "VN")
	before := p.Fingerprint()

	require.NoError(t, p.Swap(0, 1))
	assert.NotEqual(t, before, p.Fingerprint())

	_, err := p.Undo()
	require.NoError(t, err)
	assert.Equal(t, before, p.Fingerprint())
}
