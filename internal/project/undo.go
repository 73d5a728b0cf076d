package project

import (
	"fmt"
	"slices"

	"github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/logging"
	"github.com/poikilos/anewcommit/internal/model"
)

// Affected lists what an applied step touched.
type Affected struct {
	Added   []string
	Removed []string
	Swapped []string
	Indices []int
}

// Empty reports whether nothing was touched.
func (a Affected) Empty() bool {
	return len(a.Added) == 0 && len(a.Removed) == 0 && len(a.Swapped) == 0
}

// Undo reverts the most recent step.
func (p *Project) Undo() (Affected, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.history.HasUndo() {
		return Affected{}, errors.ErrNothingToUndo
	}
	at := p.history.index
	affected, err := p.applySlot("undo", at)
	if err != nil {
		return Affected{}, err
	}
	p.history.index--
	return affected, p.persist()
}

// Redo reapplies the most recently undone step.
func (p *Project) Redo() (Affected, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.history.HasRedo() {
		return Affected{}, errors.ErrNothingToRedo
	}
	at := p.history.index + 1
	affected, err := p.applySlot("redo", at)
	if err != nil {
		return Affected{}, err
	}
	p.history.index++
	return affected, p.persist()
}

// applySlot applies history slot at and overwrites it with the inverses it
// produced. On failure the action list and the slot are left unchanged.
func (p *Project) applySlot(op string, at int) (Affected, error) {
	slot := p.history.steps[at]
	work, inverses, affected, err := applyAll(p.actions, slot, true)
	if err != nil {
		return Affected{}, fmt.Errorf("%s: %w", op, err)
	}
	p.actions = work
	p.history.steps[at] = inverses

	logging.LogMutation(op, len(slot), len(p.actions), affected.Indices)
	return affected, nil
}

// applyAll applies subs to a copy of actions, last to first when reverse is
// set, and returns the new list with the inverses in application order.
// actions itself is never modified.
func applyAll(actions []*model.Action, subs []model.Substep, reverse bool) ([]*model.Action, model.UndoStep, Affected, error) {
	work := slices.Clone(actions)
	inverses := make(model.UndoStep, 0, len(subs))
	var affected Affected

	for n := range subs {
		s := subs[n]
		if reverse {
			s = subs[len(subs)-1-n]
		}
		inv, err := model.InverseOf(s, work)
		if err != nil {
			return nil, nil, Affected{}, err
		}
		work, err = applySubstep(work, s, &affected)
		if err != nil {
			return nil, nil, Affected{}, err
		}
		inverses = append(inverses, inv)
	}
	return work, inverses, affected, nil
}

func applySubstep(work []*model.Action, s model.Substep, affected *Affected) ([]*model.Action, error) {
	switch s.Op {
	case model.OpInsert:
		a := s.Action.Clone()
		work = slices.Insert(work, s.Index, a)
		affected.Added = append(affected.Added, a.ID)
		affected.Indices = append(affected.Indices, s.Index)

	case model.OpRemove:
		affected.Removed = append(affected.Removed, work[s.Index].ID)
		affected.Indices = append(affected.Indices, s.Index)
		work = slices.Delete(work, s.Index, s.Index+1)

	case model.OpSwap:
		work[s.Index], work[s.Other] = work[s.Other], work[s.Index]
		affected.Swapped = append(affected.Swapped, work[s.Index].ID, work[s.Other].ID)
		affected.Indices = append(affected.Indices, s.Index, s.Other)

	case model.OpSwapByID:
		i := slices.IndexFunc(work, func(a *model.Action) bool { return a.ID == s.ID })
		if i < 0 {
			return nil, errors.NewNotFoundError(string(model.FieldID), s.ID)
		}
		j := slices.IndexFunc(work, func(a *model.Action) bool { return a.ID == s.OtherID })
		if j < 0 {
			return nil, errors.NewNotFoundError(string(model.FieldID), s.OtherID)
		}
		work[i], work[j] = work[j], work[i]
		affected.Swapped = append(affected.Swapped, s.ID, s.OtherID)
		affected.Indices = append(affected.Indices, i, j)

	default:
		return nil, fmt.Errorf("unknown substep op %q", s.Op)
	}
	return work, nil
}
