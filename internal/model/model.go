// Package model defines the domain types of an anewcommit project: actions,
// the identifier allocator, undo substeps and the persisted session state.
package model

// Model is the interface that all database models must implement.
type Model interface {
	// SetKey sets the database key for this model.
	SetKey(key string)
	// GetKey returns the database key for this model.
	GetKey() string
}

// PrefixSession prefixes the database key of every session.
const PrefixSession = "session"
