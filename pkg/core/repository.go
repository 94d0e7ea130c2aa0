package core

import "context"

// Storage is a flat key/value byte store. It is the shape shared by the
// device file store, the SQLite store and the in-memory fallback.
type Storage interface {
	// Read returns the value stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the value stored under key.
	Write(ctx context.Context, key string, data []byte) error
}

// NoteStore persists the whole note collection at once.
// There are no partial writes: SaveAll replaces the stored collection.
type NoteStore interface {
	LoadAll(ctx context.Context) ([]Note, error)
	SaveAll(ctx context.Context, notes []Note) error
}

// Watchable is implemented by storages that can report external changes.
type Watchable interface {
	// Watch emits an event whenever the value under key changes outside
	// this process. The channel is closed when ctx is done.
	Watch(ctx context.Context, key string) (<-chan Event, error)
}
