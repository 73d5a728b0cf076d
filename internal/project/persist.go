package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/poikilos/anewcommit/internal/errors"
	"github.com/poikilos/anewcommit/internal/logging"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/storage"
)

// DefaultFileName is the project file created in the root directory when a
// project is saved without an explicit path.
const DefaultFileName = "anewcommit.json"

// Load reads a project file. Each id is absorbed into alloc; an id already
// in use (by another project or earlier in the same file) is replaced by a
// fresh one. The returned message lists every replacement, one per line,
// and is empty when the file needed no repair.
func Load(path string, alloc model.Allocator, opts ...Option) (*Project, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.NewUserErrorWithField("project", path,
				"project file not found", "Create one with: anewcommit init DIR")
		}
		return nil, "", errors.NewSystemErrorWithOp("load", "failed to read project file", err)
	}

	var rec model.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, "", fmt.Errorf("load %s: %w", path, err)
	}
	if alloc == nil {
		alloc = model.NewCounter()
	}

	// Absorb every id first so a fresh id never lands on one that appears
	// later in the file.
	var collide []int
	for i, a := range rec.Actions {
		if a == nil {
			return nil, "", fmt.Errorf("load %s: action %d: %w", path, i, errors.ErrInvalidKind)
		}
		if alloc.IsUsed(a.ID) {
			collide = append(collide, i)
			continue
		}
		if err := alloc.Absorb(a.ID); err != nil {
			return nil, "", fmt.Errorf("load %s: action %d: %w", path, i, err)
		}
	}

	var repairs []string
	for _, i := range collide {
		a := rec.Actions[i]
		old := a.ID
		a.ID = alloc.Allocate()
		repairs = append(repairs,
			fmt.Sprintf("action %d: id %s is already in use; reassigned %s", i, old, a.ID))
	}

	all := append([]Option{WithPath(path), WithRootDir(rec.RootDirectory)}, opts...)
	p := New(alloc, all...)
	p.actions = rec.Actions

	logging.LogOperation("load",
		logging.KeyProject, path,
		logging.KeyCount, len(p.actions),
		"repairs", len(repairs),
	)
	return p, strings.Join(repairs, "\n"), nil
}

// Save writes the project file atomically. Without a path the file is
// created as DefaultFileName in the root directory.
func (p *Project) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.save()
}

func (p *Project) save() error {
	path := p.path
	if path == "" {
		if p.rootDir == "" {
			return errors.NewSystemErrorWithOp("save", "cannot choose a project file", errors.ErrNoLocation)
		}
		path = filepath.Join(p.rootDir, DefaultFileName)
	}

	data, err := json.MarshalIndent(model.Record{RootDirectory: p.rootDir, Actions: p.actionsForRecord()}, "", "  ")
	if err != nil {
		return errors.NewSystemErrorWithOp("save", "failed to encode project", err)
	}
	if err := storage.SafeWrite(path, append(data, '\n'), 0644); err != nil {
		return err
	}

	p.path = path
	logging.LogOperation("save", logging.KeyProject, path, logging.KeyCount, len(p.actions))
	return nil
}

// actionsForRecord keeps an empty project encoding as [] rather than null.
func (p *Project) actionsForRecord() []*model.Action {
	if p.actions == nil {
		return []*model.Action{}
	}
	return p.actions
}

// Fingerprint hashes the encoded action list. Two projects with the same
// actions in the same order have the same fingerprint.
func (p *Project) Fingerprint() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, err := json.Marshal(p.actionsForRecord())
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
