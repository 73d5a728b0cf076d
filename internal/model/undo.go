package model

import (
	"fmt"
	"time"

	"github.com/poikilos/anewcommit/internal/errors"
)

// SubstepOp is the tag of a Substep.
type SubstepOp string

const (
	OpInsert   SubstepOp = "insert"
	OpRemove   SubstepOp = "remove"
	OpSwap     SubstepOp = "swap"
	OpSwapByID SubstepOp = "swap_by_id"
)

// Substep is a single reversible structural edit of an action list.
//
//	insert:     Index, Action
//	remove:     Index
//	swap:       Index, Other
//	swap_by_id: ID, OtherID
type Substep struct {
	Op      SubstepOp `json:"op"`
	Index   int       `json:"index"`
	Other   int       `json:"other,omitempty"`
	ID      string    `json:"id,omitempty"`
	OtherID string    `json:"other_id,omitempty"`
	Action  *Action   `json:"action,omitempty"`
}

// Insert returns a substep inserting a copy of a at index.
func Insert(index int, a *Action) Substep {
	return Substep{Op: OpInsert, Index: index, Action: a.Clone()}
}

// Remove returns a substep removing the action at index.
func Remove(index int) Substep {
	return Substep{Op: OpRemove, Index: index}
}

// Swap returns a substep exchanging two indices.
func Swap(i, j int) Substep {
	return Substep{Op: OpSwap, Index: i, Other: j}
}

// SwapByID returns a substep exchanging two actions by id.
func SwapByID(id1, id2 string) Substep {
	return Substep{Op: OpSwapByID, ID: id1, OtherID: id2}
}

// String renders the substep for logs.
func (s Substep) String() string {
	switch s.Op {
	case OpInsert:
		id := ""
		if s.Action != nil {
			id = s.Action.ID
		}
		return fmt.Sprintf("insert(%d, #%s)", s.Index, id)
	case OpRemove:
		return fmt.Sprintf("remove(%d)", s.Index)
	case OpSwap:
		return fmt.Sprintf("swap(%d, %d)", s.Index, s.Other)
	case OpSwapByID:
		return fmt.Sprintf("swap_by_id(#%s, #%s)", s.ID, s.OtherID)
	}
	return string(s.Op)
}

// InverseOf returns the substep that undoes s when s is applied to actions.
// It does not modify actions. A remove captures a copy of the action it
// would delete.
func InverseOf(s Substep, actions []*Action) (Substep, error) {
	switch s.Op {
	case OpInsert:
		if s.Index < 0 || s.Index > len(actions) {
			return Substep{}, errors.NewIndexError("insert", s.Index, len(actions))
		}
		if s.Action == nil {
			return Substep{}, fmt.Errorf("insert(%d): missing action", s.Index)
		}
		return Remove(s.Index), nil
	case OpRemove:
		if s.Index < 0 || s.Index >= len(actions) {
			return Substep{}, errors.NewIndexError("remove", s.Index, len(actions))
		}
		return Insert(s.Index, actions[s.Index]), nil
	case OpSwap:
		for _, i := range []int{s.Index, s.Other} {
			if i < 0 || i >= len(actions) {
				return Substep{}, errors.NewIndexError("swap", i, len(actions))
			}
		}
		return s, nil
	case OpSwapByID:
		return s, nil
	}
	return Substep{}, fmt.Errorf("unknown substep op %q", s.Op)
}

// UndoStep is the ordered group of substeps recorded for one user action.
type UndoStep []Substep

// Actions returns every action carried by the step's inserts.
func (u UndoStep) Actions() []*Action {
	var out []*Action
	for _, s := range u {
		if s.Action != nil {
			out = append(out, s.Action)
		}
	}
	return out
}

// HistoryPolicy selects what recording a new step does to undone steps.
type HistoryPolicy string

const (
	// DiscardRedo drops every undone step when a new one is recorded.
	DiscardRedo HistoryPolicy = "discard"
	// PreserveRedo inserts the new step after the cursor and keeps the
	// undone steps after it.
	PreserveRedo HistoryPolicy = "preserve"
)

// Session is the undo log of one project file, persisted between runs.
type Session struct {
	Key         string        `json:"key"`
	ProjectPath string        `json:"project_path"`
	Fingerprint uint64        `json:"fingerprint"`
	StepIndex   int           `json:"step_index"`
	Steps       []UndoStep    `json:"steps"`
	Policy      HistoryPolicy `json:"policy,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// SetKey sets the database key for this session.
func (s *Session) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for this session.
func (s *Session) GetKey() string {
	return s.Key
}

// GenerateSessionKey generates the database key for a project path.
func GenerateSessionKey(projectPath string) string {
	return fmt.Sprintf("%s:%s", PrefixSession, projectPath)
}

// NewSession creates an empty session for the given project file.
func NewSession(projectPath string) *Session {
	return &Session{
		Key:         GenerateSessionKey(projectPath),
		ProjectPath: projectPath,
		StepIndex:   -1,
	}
}
