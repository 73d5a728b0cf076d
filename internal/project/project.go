// Package project holds an ordered list of actions together with its undo
// history, the range grouping of transitions around versions, and the JSON
// project file.
package project

import (
	"fmt"
	"slices"
	"sync"

	"github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/logging"
	"github.com/poikilos/anewcommit/internal/model"
)

// Project is an ordered plan of actions. Every exported method is safe for
// concurrent use; calls are serialized by one mutex.
type Project struct {
	mu sync.Mutex

	alloc    model.Allocator
	actions  []*model.Action
	rootDir  string
	path     string
	history  *History
	autoSave bool
}

// Option configures a Project.
type Option func(*Project)

// WithRootDir sets the directory that holds the version snapshots.
func WithRootDir(dir string) Option {
	return func(p *Project) {
		p.rootDir = dir
	}
}

// WithPath sets the project file location.
func WithPath(path string) Option {
	return func(p *Project) {
		p.path = path
	}
}

// WithAutoSave saves the project file after every mutation.
func WithAutoSave() Option {
	return func(p *Project) {
		p.autoSave = true
	}
}

// WithHistoryPolicy selects what recording a step does to undone steps.
func WithHistoryPolicy(policy model.HistoryPolicy) Option {
	return func(p *Project) {
		p.history.policy = policy
	}
}

// WithHistoryLimit caps the number of undo steps kept. Zero means unlimited.
func WithHistoryLimit(n int) Option {
	return func(p *Project) {
		p.history.limit = n
	}
}

// New creates an empty project that draws ids from alloc. A nil alloc gets
// a fresh Counter owned by this project alone.
func New(alloc model.Allocator, opts ...Option) *Project {
	if alloc == nil {
		alloc = model.NewCounter()
	}
	p := &Project{
		alloc:   alloc,
		history: NewHistory(model.DiscardRedo, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Allocator returns the allocator the project draws ids from.
func (p *Project) Allocator() model.Allocator {
	return p.alloc
}

// RootDir returns the snapshot directory, or "" if unset.
func (p *Project) RootDir() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rootDir
}

// Path returns the project file location, or "" before the first save.
func (p *Project) Path() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Len returns the number of actions.
func (p *Project) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.actions)
}

// Actions returns a copy of the action list.
func (p *Project) Actions() []*model.Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*model.Action, len(p.actions))
	for i, a := range p.actions {
		out[i] = a.Clone()
	}
	return out
}

// At returns a copy of the action at index i.
func (p *Project) At(i int) (*model.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.actions) {
		return nil, errors.NewIndexError("get", i, len(p.actions))
	}
	return p.actions[i].Clone(), nil
}

// Append adds a at the end of the list.
func (p *Project) Append(a *model.Action) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := checkAction(a); err != nil {
		return err
	}
	_, err := p.commit("append", model.Insert(len(p.actions), a))
	return err
}

// Insert places a at index i, shifting later actions right. 0 <= i <= Len().
func (p *Project) Insert(i int, a *model.Action) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := checkAction(a); err != nil {
		return err
	}
	_, err := p.commit("insert", model.Insert(i, a))
	return err
}

// Remove deletes the action at index i and returns it.
func (p *Project) Remove(i int) (*model.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removeAt(i)
}

func (p *Project) removeAt(i int) (*model.Action, error) {
	if i < 0 || i >= len(p.actions) {
		return nil, errors.NewIndexError("remove", i, len(p.actions))
	}
	removed := p.actions[i]
	_, err := p.commit("remove", model.Remove(i))
	return removed.Clone(), err
}

// Swap exchanges the actions at i and j.
func (p *Project) Swap(i, j int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.commit("swap", model.Swap(i, j))
	return err
}

// SwapByID exchanges the actions with the given ids.
func (p *Project) SwapByID(id1, id2 string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range []string{id1, id2} {
		if p.indexOf(id) < 0 {
			return errors.NewNotFoundError(string(model.FieldID), id)
		}
	}
	_, err := p.commit("swap_by_id", model.SwapByID(id1, id2))
	return err
}

// FindWhere returns the index of the first action whose field equals value.
func (p *Project) FindWhere(field model.Field, value string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findWhere(field, value)
}

func (p *Project) findWhere(field model.Field, value string) (int, error) {
	for i, a := range p.actions {
		if got, ok := a.Field(field); ok && got == value {
			return i, nil
		}
	}
	return -1, errors.NewNotFoundError(string(field), value)
}

// IndexOf returns the index of the action with id, or -1.
func (p *Project) IndexOf(id string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexOf(id)
}

func (p *Project) indexOf(id string) int {
	return slices.IndexFunc(p.actions, func(a *model.Action) bool { return a.ID == id })
}

// AddVersion appends a new version action.
func (p *Project) AddVersion(path string, mode model.MergeMode, name string) (*model.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, err := model.NewVersion(p.alloc, path, mode, name)
	if err != nil {
		return nil, err
	}
	_, err = p.commit("add_version", model.Insert(len(p.actions), a))
	return a.Clone(), err
}

// AddTransition appends a new transition of the given kind.
func (p *Project) AddTransition(kind model.Kind) (*model.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	a, err := model.NewTransition(p.alloc, kind)
	if err != nil {
		return nil, err
	}
	_, err = p.commit("add_transition", model.Insert(len(p.actions), a))
	return a.Clone(), err
}

// AddVersionWithTransition appends a version followed by a no-op transition
// as one undo step.
func (p *Project) AddVersionWithTransition(path string, mode model.MergeMode) (*model.Action, *model.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, err := model.NewVersion(p.alloc, path, mode, "")
	if err != nil {
		return nil, nil, err
	}
	t := model.NewNoOp(p.alloc)
	n := len(p.actions)
	_, err = p.commit("add_version_with_transition", model.Insert(n, v), model.Insert(n+1, t))
	return v.Clone(), t.Clone(), err
}

// InsertWhere inserts a before the first action whose field equals value
// and returns the index it landed at.
func (p *Project) InsertWhere(field model.Field, value string, a *model.Action) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := checkAction(a); err != nil {
		return -1, err
	}
	i, err := p.findWhere(field, value)
	if err != nil {
		return -1, err
	}
	_, err = p.commit("insert_where", model.Insert(i, a))
	return i, err
}

// InsertTransitionWhere inserts a transition before the first action whose
// field equals value. The transition is a pre-process when the match is a
// version or the first action, and a post-process otherwise.
func (p *Project) InsertTransitionWhere(field model.Field, value string) (*model.Action, int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i, err := p.findWhere(field, value)
	if err != nil {
		return nil, -1, err
	}
	kind := model.KindPostProcess
	if i == 0 || p.actions[i].IsVersion() {
		kind = model.KindPreProcess
	}
	a, err := model.NewTransition(p.alloc, kind)
	if err != nil {
		return nil, -1, err
	}
	_, err = p.commit("insert_transition_where", model.Insert(i, a))
	return a.Clone(), i, err
}

// RemoveWhere removes and returns the first action whose field equals value.
func (p *Project) RemoveWhere(field model.Field, value string) (*model.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i, err := p.findWhere(field, value)
	if err != nil {
		return nil, err
	}
	return p.removeAt(i)
}

// ResolveView returns the store index of id after checking that an external
// view showing id at viewIndex agrees with the project.
func (p *Project) ResolveView(id string, viewIndex int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.indexOf(id)
	if i < 0 {
		return -1, errors.NewNotFoundError(string(model.FieldID), id)
	}
	if i != viewIndex {
		return -1, &errors.ConsistencyError{ID: id, StoreIndex: i, ViewIndex: viewIndex}
	}
	return i, nil
}

// commit applies subs in order, records their inverses as one undo step and
// persists. The caller holds p.mu.
func (p *Project) commit(op string, subs ...model.Substep) (Affected, error) {
	work, inverses, affected, err := applyAll(p.actions, subs, false)
	if err != nil {
		return Affected{}, err
	}
	p.actions = work
	p.history.Record(inverses)

	logging.LogMutation(op, len(subs), len(p.actions), affected.Indices)
	return affected, p.persist()
}

// persist saves when auto-save is on. The caller holds p.mu.
func (p *Project) persist() error {
	if !p.autoSave {
		return nil
	}
	return p.save()
}

func checkAction(a *model.Action) error {
	if a == nil {
		return fmt.Errorf("%w: nil action", errors.ErrInvalidKind)
	}
	return a.Validate()
}
