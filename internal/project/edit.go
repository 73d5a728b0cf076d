package project

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/parser"
)

// Field edits replace the action with an edited copy, recorded as one undo
// step of remove then insert at the same index.

// AddStatement appends a directive to a version after checking that it parses.
func (p *Project) AddStatement(id, line string) (*parser.Statement, error) {
	stmt, err := parser.ParseStatement(line)
	if err != nil {
		return nil, err
	}
	err = p.editVersion("add_statement", id, func(v *model.VersionInfo) error {
		v.Statements = append(v.Statements, strings.TrimSpace(line))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// RemoveStatement deletes the n-th directive of a version.
func (p *Project) RemoveStatement(id string, n int) error {
	return p.editVersion("remove_statement", id, func(v *model.VersionInfo) error {
		if n < 0 || n >= len(v.Statements) {
			return errors.NewIndexError("remove statement", n, len(v.Statements))
		}
		v.Statements = append(v.Statements[:n:n], v.Statements[n+1:]...)
		return nil
	})
}

// SetCommit sets whether the action produces a commit.
func (p *Project) SetCommit(id string, commit bool) error {
	return p.edit("set_commit", id, func(a *model.Action) error {
		a.ShouldCommit = commit
		return nil
	})
}

// SetMergeMode changes how a version replaces the previous commit's files.
func (p *Project) SetMergeMode(id string, mode model.MergeMode) error {
	if !mode.IsValid() {
		names := make([]string, 0, len(model.MergeModes()))
		for _, m := range model.MergeModes() {
			names = append(names, string(m))
		}
		return errors.NewValidationError(errors.ErrInvalidMergeMode, "merge mode", string(mode), names)
	}
	return p.editVersion("set_merge_mode", id, func(v *model.VersionInfo) error {
		v.MergeMode = mode
		return nil
	})
}

// SetDisplayName renames a version. An empty name restores the default.
func (p *Project) SetDisplayName(id, name string) error {
	return p.editVersion("set_display_name", id, func(v *model.VersionInfo) error {
		if name == "" {
			name = model.DefaultDisplayName(v.SourcePath)
		}
		v.DisplayName = name
		return nil
	})
}

// SetCapturedDate sets the date a version was captured. Natural-language
// input is normalized; an empty input clears the date.
func (p *Project) SetCapturedDate(id, date string) error {
	normalized, err := parser.ParseCapturedDate(date)
	if err != nil {
		return err
	}
	return p.editVersion("set_captured_date", id, func(v *model.VersionInfo) error {
		v.CapturedDate = normalized
		return nil
	})
}

// SetCachedNewestFile records the newest file seen in a version's snapshot.
func (p *Project) SetCachedNewestFile(id, path string) error {
	return p.editVersion("set_cached_newest_file", id, func(v *model.VersionInfo) error {
		v.CachedNewestFilePath = path
		return nil
	})
}

// SetFreeformCommand sets the command a transition runs.
func (p *Project) SetFreeformCommand(id, command string) error {
	return p.edit("set_freeform_command", id, func(a *model.Action) error {
		if a.Transition == nil {
			return fmt.Errorf("action #%s: %w", id, errors.ErrNotATransition)
		}
		a.Transition.FreeformCommand = command
		return nil
	})
}

func (p *Project) editVersion(op, id string, fn func(*model.VersionInfo) error) error {
	return p.edit(op, id, func(a *model.Action) error {
		if a.Version == nil {
			return fmt.Errorf("action #%s: %w", id, errors.ErrNotAVersion)
		}
		return fn(a.Version)
	})
}

func (p *Project) edit(op, id string, fn func(*model.Action) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return errors.NewNotFoundError(string(model.FieldID), id)
	}
	edited := p.actions[i].Clone()
	if err := fn(edited); err != nil {
		return err
	}
	if err := edited.Validate(); err != nil {
		return err
	}
	if reflect.DeepEqual(edited, p.actions[i]) {
		return nil
	}
	_, err := p.commit(op, model.Remove(i), model.Insert(i, edited))
	return err
}
