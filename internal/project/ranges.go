package project

import (
	"github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
)

// Range is the half-open span [Lo, Hi) of actions that belong to the
// version at index Version.
type Range struct {
	Lo      int `json:"lo"`
	Hi      int `json:"hi"`
	Version int `json:"version"`
}

// Len returns the number of actions in r.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Contains reports whether index i is in r.
func (r Range) Contains(i int) bool {
	return i >= r.Lo && i < r.Hi
}

// Indices lists the indices of r in order.
func (r Range) Indices() []int {
	out := make([]int, 0, r.Len())
	for i := r.Lo; i < r.Hi; i++ {
		out = append(out, i)
	}
	return out
}

// Ranges partitions the action list by version. Each version owns the
// pre-process transitions immediately before it and the other transitions
// after it. Between two versions the transitions split before the first
// pre-process. Leading transitions go to the first version and trailing
// ones to the last. A project without versions has no ranges.
func (p *Project) Ranges() []Range {
	p.mu.Lock()
	defer p.mu.Unlock()
	return computeRanges(p.actions)
}

// Affected returns the version whose range holds index i, and that range.
func (p *Project) Affected(i int) (int, Range, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i < 0 || i >= len(p.actions) {
		return -1, Range{}, errors.NewIndexError("affected", i, len(p.actions))
	}
	for _, r := range computeRanges(p.actions) {
		if r.Contains(i) {
			return r.Version, r, nil
		}
	}
	return -1, Range{}, errors.ErrNoVersion
}

func computeRanges(actions []*model.Action) []Range {
	var versions []int
	for i, a := range actions {
		if a.IsVersion() {
			versions = append(versions, i)
		}
	}
	if len(versions) == 0 {
		return nil
	}

	ranges := make([]Range, len(versions))
	lo := 0
	for n, v := range versions {
		hi := len(actions)
		if n+1 < len(versions) {
			hi = splitPoint(actions, v, versions[n+1])
		}
		ranges[n] = Range{Lo: lo, Hi: hi, Version: v}
		lo = hi
	}
	return ranges
}

// splitPoint returns the first index owned by the version at next, given
// the previous version at prev.
func splitPoint(actions []*model.Action, prev, next int) int {
	for i := prev + 1; i < next; i++ {
		if actions[i].Kind == model.KindPreProcess {
			return i
		}
	}
	return next
}
