package storage

import (
	"slices"
	"time"

	"github.com/poikilos/anewcommit/internal/model"
)

// SessionRepo stores the undo log of each project file.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Get returns the session for a project path, or nil if none was saved.
func (r *SessionRepo) Get(projectPath string) (*model.Session, error) {
	s := &model.Session{}
	if err := r.db.Get(model.GenerateSessionKey(projectPath), s); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// GetOrCreate returns the saved session or a new empty one.
func (r *SessionRepo) GetOrCreate(projectPath string) (*model.Session, error) {
	s, err := r.Get(projectPath)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = model.NewSession(projectPath)
	}
	return s, nil
}

// Save stores s and stamps its update time.
func (r *SessionRepo) Save(s *model.Session) error {
	s.Key = model.GenerateSessionKey(s.ProjectPath)
	s.UpdatedAt = time.Now()
	return r.db.Set(s)
}

// Exists reports whether a session is stored for a project path.
func (r *SessionRepo) Exists(projectPath string) (bool, error) {
	return r.db.Exists(model.GenerateSessionKey(projectPath))
}

// Delete removes the session of a project path.
func (r *SessionRepo) Delete(projectPath string) error {
	return r.db.Delete(model.GenerateSessionKey(projectPath))
}

// List returns every saved session, most recently updated first.
func (r *SessionRepo) List() ([]*model.Session, error) {
	sessions, err := GetAllByPrefix(r.db, model.PrefixSession+":", func() *model.Session {
		return &model.Session{}
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(sessions, func(a, b *model.Session) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return sessions, nil
}

// Clear removes every session and returns how many were removed.
func (r *SessionRepo) Clear() (int, error) {
	return r.db.DeleteByPrefix(model.PrefixSession + ":")
}
