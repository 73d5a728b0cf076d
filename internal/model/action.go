package model

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/poikilos/anewcommit/internal/errors"
)

// Kind identifies what an action does.
type Kind string

const (
	// KindVersion takes a snapshot directory as the next commit.
	KindVersion Kind = "get_version"
	// KindPreProcess makes changes to the next version before its commit.
	KindPreProcess Kind = "pre_process"
	// KindPostProcess makes changes to the previous version as a separate commit.
	KindPostProcess Kind = "post_process"
	// KindNoOp leaves the previous version unmodified.
	KindNoOp Kind = "no_op"
	// KindForEverySource runs a freeform command against every source.
	KindForEverySource Kind = "for_every_source"
)

// KindHelp describes each transition kind.
var KindHelp = map[Kind]string{
	KindPreProcess:     "Make changes to the next version before a commit.",
	KindPostProcess:    "Make changes to the previous version.",
	KindNoOp:           "Do not modify the previous version.",
	KindForEverySource: "Run the freeform command for every source.",
}

// TransitionKinds returns the recognized transition kinds in display order.
func TransitionKinds() []Kind {
	return []Kind{KindPreProcess, KindPostProcess, KindNoOp, KindForEverySource}
}

// IsTransition reports whether k is a recognized transition kind.
func (k Kind) IsTransition() bool {
	return slices.Contains(TransitionKinds(), k)
}

// IsValid reports whether k is the version kind or a transition kind.
func (k Kind) IsValid() bool {
	return k == KindVersion || k.IsTransition()
}

// MergeMode controls how a version's files replace the previous commit's.
type MergeMode string

const (
	// MergeDeleteThenAdd deletes everything then adds the version's files.
	MergeDeleteThenAdd MergeMode = "delete_then_add"
	// MergeOverlay copies the version's files over the previous commit.
	MergeOverlay MergeMode = "overlay"
)

// MergeModes returns the recognized merge modes.
func MergeModes() []MergeMode {
	return []MergeMode{MergeDeleteThenAdd, MergeOverlay}
}

// IsValid reports whether m is a recognized merge mode.
func (m MergeMode) IsValid() bool {
	return slices.Contains(MergeModes(), m)
}

// VersionInfo holds the fields only version actions carry.
type VersionInfo struct {
	SourcePath           string
	MergeMode            MergeMode
	DisplayName          string
	CapturedDate         string   // optional
	Statements           []string // raw "sub"/"use" directives
	CachedNewestFilePath string   // UI hint, not authoritative
}

// TransitionInfo holds the fields only transition actions carry.
type TransitionInfo struct {
	FreeformCommand string
}

// Action is one entry of a project. Exactly one of Version or Transition is
// set, matching Kind.
type Action struct {
	ID           string
	Kind         Kind
	ShouldCommit bool
	Version      *VersionInfo
	Transition   *TransitionInfo
}

// IsVersion reports whether a is a version action.
func (a *Action) IsVersion() bool {
	return a.Kind == KindVersion
}

// Name returns the display name of a version or the kind of a transition.
func (a *Action) Name() string {
	if a.Version != nil {
		return a.Version.DisplayName
	}
	return string(a.Kind)
}

// Clone returns a deep copy of a.
func (a *Action) Clone() *Action {
	if a == nil {
		return nil
	}
	c := *a
	if a.Version != nil {
		v := *a.Version
		v.Statements = slices.Clone(a.Version.Statements)
		c.Version = &v
	}
	if a.Transition != nil {
		t := *a.Transition
		c.Transition = &t
	}
	return &c
}

// Field returns the value of a searchable field, and false when the action
// has no such field.
func (a *Action) Field(f Field) (string, bool) {
	switch f {
	case FieldID:
		return a.ID, true
	case FieldKind:
		return string(a.Kind), true
	case FieldSourcePath:
		if a.Version != nil {
			return a.Version.SourcePath, true
		}
	case FieldDisplayName:
		if a.Version != nil {
			return a.Version.DisplayName, true
		}
	}
	return "", false
}

// Field names an Action attribute usable in searches.
type Field string

const (
	FieldID          Field = "id"
	FieldKind        Field = "kind"
	FieldSourcePath  Field = "path"
	FieldDisplayName Field = "name"
)

// Fields returns every searchable field.
func Fields() []Field {
	return []Field{FieldID, FieldKind, FieldSourcePath, FieldDisplayName}
}

// ParseField converts a field name, accepting the record spelling as well.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(s) {
	case "id", "luid":
		return FieldID, nil
	case "kind", "verb":
		return FieldKind, nil
	case "path", "sourcepath":
		return FieldSourcePath, nil
	case "name", "displayname":
		return FieldDisplayName, nil
	}
	expected := make([]string, 0, len(Fields()))
	for _, f := range Fields() {
		expected = append(expected, string(f))
	}
	return "", errors.NewValidationError(errors.ErrInvalidField, "search field", s, expected)
}

// DefaultDisplayName returns the last segment of path.
func DefaultDisplayName(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if trimmed == "" {
		return path
	}
	return filepath.Base(trimmed)
}

// NewVersion creates a version action. An empty name defaults to the last
// path segment. Nothing is allocated when mode is invalid.
func NewVersion(alloc Allocator, path string, mode MergeMode, name string) (*Action, error) {
	if !mode.IsValid() {
		return nil, errors.NewValidationError(errors.ErrInvalidMergeMode,
			"merge mode", string(mode), mergeModeNames())
	}
	if name == "" {
		name = DefaultDisplayName(path)
	}
	return &Action{
		ID:           alloc.Allocate(),
		Kind:         KindVersion,
		ShouldCommit: true,
		Version: &VersionInfo{
			SourcePath:  path,
			MergeMode:   mode,
			DisplayName: name,
		},
	}, nil
}

// NewTransition creates a transition action of the given kind.
// Pre- and post-process transitions are committed by default.
func NewTransition(alloc Allocator, kind Kind) (*Action, error) {
	if !kind.IsTransition() {
		return nil, errors.NewValidationError(errors.ErrInvalidKind,
			"transition kind", string(kind), transitionKindNames())
	}
	return &Action{
		ID:           alloc.Allocate(),
		Kind:         kind,
		ShouldCommit: kind == KindPreProcess || kind == KindPostProcess,
		Transition:   &TransitionInfo{},
	}, nil
}

// NewPreProcess creates a pre-process transition.
func NewPreProcess(alloc Allocator) *Action {
	a, _ := NewTransition(alloc, KindPreProcess)
	return a
}

// NewPostProcess creates a post-process transition.
func NewPostProcess(alloc Allocator) *Action {
	a, _ := NewTransition(alloc, KindPostProcess)
	return a
}

// NewNoOp creates a no-op transition.
func NewNoOp(alloc Allocator) *Action {
	a, _ := NewTransition(alloc, KindNoOp)
	return a
}

// NewForEverySource creates a for-every-source transition.
func NewForEverySource(alloc Allocator) *Action {
	a, _ := NewTransition(alloc, KindForEverySource)
	return a
}

// Validate checks that a is a well-formed action.
func (a *Action) Validate() error {
	switch {
	case a.Kind == KindVersion:
		if a.Version == nil || a.Transition != nil {
			return errors.NewValidationError(errors.ErrInvalidKind, "action shape", a.ID, nil)
		}
		if !a.Version.MergeMode.IsValid() {
			return errors.NewValidationError(errors.ErrInvalidMergeMode,
				"merge mode", string(a.Version.MergeMode), mergeModeNames())
		}
	case a.Kind.IsTransition():
		if a.Transition == nil || a.Version != nil {
			return errors.NewValidationError(errors.ErrInvalidKind, "action shape", a.ID, nil)
		}
	default:
		expected := append([]string{string(KindVersion)}, transitionKindNames()...)
		return errors.NewValidationError(errors.ErrInvalidKind, "action kind", string(a.Kind), expected)
	}
	return nil
}

func mergeModeNames() []string {
	names := make([]string, 0, 2)
	for _, m := range MergeModes() {
		names = append(names, string(m))
	}
	return names
}

func transitionKindNames() []string {
	names := make([]string, 0, 4)
	for _, k := range TransitionKinds() {
		names = append(names, string(k))
	}
	return names
}
