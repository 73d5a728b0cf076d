package model

import (
	"encoding/json"
	"fmt"
)

// Record is the persisted shape of a project file.
type Record struct {
	RootDirectory string    `json:"rootDirectory"`
	Actions       []*Action `json:"actions"`
}

// actionRecord is the flat on-disk form of an Action.
type actionRecord struct {
	ID           string `json:"id"`
	Kind         Kind   `json:"kind"`
	ShouldCommit bool   `json:"shouldCommit"`

	// Version fields
	SourcePath           *string   `json:"sourcePath,omitempty"`
	MergeMode            MergeMode `json:"mergeMode,omitempty"`
	DisplayName          *string   `json:"displayName,omitempty"`
	CapturedDate         string    `json:"capturedDate,omitempty"`
	Statements           []string  `json:"statements,omitempty"`
	CachedNewestFilePath string    `json:"cachedNewestFilePath,omitempty"`

	// Transition fields
	FreeformCommand *string `json:"freeformCommand,omitempty"`
}

// MarshalJSON writes the flat record for a.
func (a *Action) MarshalJSON() ([]byte, error) {
	rec := actionRecord{
		ID:           a.ID,
		Kind:         a.Kind,
		ShouldCommit: a.ShouldCommit,
	}
	switch {
	case a.Version != nil:
		v := a.Version
		rec.SourcePath = &v.SourcePath
		rec.MergeMode = v.MergeMode
		rec.DisplayName = &v.DisplayName
		rec.CapturedDate = v.CapturedDate
		rec.Statements = v.Statements
		rec.CachedNewestFilePath = v.CachedNewestFilePath
	case a.Transition != nil:
		rec.FreeformCommand = &a.Transition.FreeformCommand
	}
	return json.Marshal(rec)
}

// UnmarshalJSON reads a flat record and rejects unknown kinds or merge modes.
func (a *Action) UnmarshalJSON(data []byte) error {
	var rec actionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	out := Action{
		ID:           rec.ID,
		Kind:         rec.Kind,
		ShouldCommit: rec.ShouldCommit,
	}
	if rec.Kind == KindVersion {
		v := &VersionInfo{
			MergeMode:            rec.MergeMode,
			CapturedDate:         rec.CapturedDate,
			Statements:           rec.Statements,
			CachedNewestFilePath: rec.CachedNewestFilePath,
		}
		if rec.SourcePath != nil {
			v.SourcePath = *rec.SourcePath
		}
		if v.MergeMode == "" {
			v.MergeMode = MergeDeleteThenAdd
		}
		if rec.DisplayName != nil {
			v.DisplayName = *rec.DisplayName
		} else {
			v.DisplayName = DefaultDisplayName(v.SourcePath)
		}
		out.Version = v
	} else {
		t := &TransitionInfo{}
		if rec.FreeformCommand != nil {
			t.FreeformCommand = *rec.FreeformCommand
		}
		out.Transition = t
	}

	if err := out.Validate(); err != nil {
		return fmt.Errorf("action %q: %w", rec.ID, err)
	}
	*a = out
	return nil
}
