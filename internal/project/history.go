package project

import (
	"fmt"

	"github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
)

// History is the undo log of a project.
//
// Each slot holds the substeps to apply to move across it: the slot at
// Index undoes the most recent step, and the slot after it redoes the most
// recently undone one. Index is -1 when there is nothing to undo.
type History struct {
	steps  []model.UndoStep
	index  int
	policy model.HistoryPolicy
	limit  int
}

// NewHistory returns an empty history.
func NewHistory(policy model.HistoryPolicy, limit int) *History {
	return &History{index: -1, policy: policy, limit: limit}
}

// HasUndo reports whether Undo has a step to apply.
func (h *History) HasUndo() bool {
	return h.index >= 0
}

// HasRedo reports whether Redo has a step to apply.
func (h *History) HasRedo() bool {
	return h.index+1 < len(h.steps)
}

// Index returns the cursor.
func (h *History) Index() int {
	return h.index
}

// Len returns the number of stored steps.
func (h *History) Len() int {
	return len(h.steps)
}

// Policy returns the redo policy.
func (h *History) Policy() model.HistoryPolicy {
	return h.policy
}

// Limit returns the step cap, or 0.
func (h *History) Limit() int {
	return h.limit
}

// Steps returns a copy of the stored steps.
func (h *History) Steps() []model.UndoStep {
	out := make([]model.UndoStep, len(h.steps))
	for i, s := range h.steps {
		out[i] = cloneStep(s)
	}
	return out
}

// Record stores step as the newest undo slot. Empty steps are ignored.
func (h *History) Record(step model.UndoStep) {
	if len(step) == 0 {
		return
	}

	at := h.index + 1
	if h.policy == model.PreserveRedo {
		h.steps = append(h.steps, nil)
		copy(h.steps[at+1:], h.steps[at:])
		h.steps[at] = step
	} else {
		h.steps = append(h.steps[:at], step)
	}
	h.index = at

	if h.limit > 0 && len(h.steps) > h.limit {
		drop := len(h.steps) - h.limit
		h.steps = append([]model.UndoStep(nil), h.steps[drop:]...)
		h.index = max(h.index-drop, -1)
	}
}

// Restore replaces the stored steps and cursor, typically from a session.
func (h *History) Restore(steps []model.UndoStep, index int) error {
	if index < -1 || index >= len(steps) {
		return errors.NewIndexError("restore history", index, len(steps))
	}
	h.steps = make([]model.UndoStep, len(steps))
	for i, s := range steps {
		h.steps[i] = cloneStep(s)
	}
	h.index = index
	return nil
}

// Clear drops every step.
func (h *History) Clear() {
	h.steps = nil
	h.index = -1
}

func cloneStep(s model.UndoStep) model.UndoStep {
	out := make(model.UndoStep, len(s))
	for i, sub := range s {
		sub.Action = sub.Action.Clone()
		out[i] = sub
	}
	return out
}

// HistoryState is a snapshot of a project's undo log.
type HistoryState struct {
	Steps  []model.UndoStep
	Index  int
	Policy model.HistoryPolicy
}

// History returns a snapshot of the undo log.
func (p *Project) History() HistoryState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return HistoryState{
		Steps:  p.history.Steps(),
		Index:  p.history.Index(),
		Policy: p.history.Policy(),
	}
}

// CanUndo reports whether Undo would apply a step.
func (p *Project) CanUndo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.HasUndo()
}

// CanRedo reports whether Redo would apply a step.
func (p *Project) CanRedo() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.HasRedo()
}

// RestoreHistory installs a saved undo log. The ids of actions carried by
// the steps are absorbed so they are never allocated again.
func (p *Project) RestoreHistory(steps []model.UndoStep, index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, step := range steps {
		for _, a := range step.Actions() {
			if p.alloc.IsUsed(a.ID) {
				continue
			}
			if err := p.alloc.Absorb(a.ID); err != nil {
				return fmt.Errorf("restore history: %w", err)
			}
		}
	}
	return p.history.Restore(steps, index)
}
