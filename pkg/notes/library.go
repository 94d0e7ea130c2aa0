package notes

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/framenotes/pkg/core"
	"github.com/aretw0/framenotes/pkg/schedule"
	"github.com/aretw0/framenotes/pkg/view"
)

type deletedNote struct {
	note  core.Note
	index int
}

// Library is the loaded note collection. Every mutation saves the whole
// collection through the store.
type Library struct {
	store core.NoteStore
	opts  Options

	mu       sync.Mutex
	notes    []core.Note
	undo     *schedule.Slot[deletedNote]
	loadedAt time.Time
	saves    int
	failures int
}

// NewLibrary creates an empty Library over store. Call Load to read the
// persisted collection.
func NewLibrary(store core.NoteStore, opts Options) *Library {
	opts = opts.withDefaults()
	return &Library{
		store: store,
		opts:  opts,
		notes: []core.Note{},
		undo:  schedule.NewSlot[deletedNote](opts.Clock, opts.NoteUndoTTL, nil),
	}
}

// Load replaces the in-memory collection with the persisted one.
func (l *Library) Load(ctx context.Context) error {
	notes, err := l.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load notes: %w", err)
	}
	l.mu.Lock()
	l.notes = core.CloneNotes(notes)
	l.loadedAt = l.opts.Clock.Now()
	l.mu.Unlock()
	l.opts.Logger.Debug("notes loaded", "count", len(notes))
	return nil
}

// Reload is Load under a name that reads well at watcher call sites.
func (l *Library) Reload(ctx context.Context) error {
	return l.Load(ctx)
}

// Notes returns a copy of the collection in stored order.
func (l *Library) Notes() []core.Note {
	l.mu.Lock()
	defer l.mu.Unlock()
	return core.CloneNotes(l.notes)
}

// Get returns the note with the given id.
func (l *Library) Get(id string) (core.Note, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.notes[i].Clone(), true
	}
	return core.Note{}, false
}

func (l *Library) indexLocked(id string) int {
	return slices.IndexFunc(l.notes, func(n core.Note) bool { return n.ID == id })
}

// View returns the visible notes for the given filter.
func (l *Library) View(opts view.Options) []core.Note {
	return view.Filter(l.Notes(), opts)
}

// Upsert replaces the note with the same id, or adds it at the front of
// the collection, then saves.
func (l *Library) Upsert(ctx context.Context, n core.Note) error {
	if n.ID == "" {
		return fmt.Errorf("note without id")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(n.ID); i >= 0 {
		l.notes[i] = n.Clone()
	} else {
		l.notes = slices.Insert(l.notes, 0, n.Clone())
	}
	return l.saveLocked(ctx)
}

// Delete removes a note and keeps it restorable for the undo window.
// An unknown id is a no-op.
func (l *Library) Delete(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	l.undo.Put(deletedNote{note: l.notes[i], index: i})
	l.notes = slices.Delete(l.notes, i, i+1)
	return true, l.saveLocked(ctx)
}

// CanUndo reports whether a deleted note is still restorable.
func (l *Library) CanUndo() bool {
	_, ok := l.undo.Peek()
	return ok
}

// UndoDelete restores the last deleted note at its former position,
// clamped to the current collection.
func (l *Library) UndoDelete(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.undo.Take()
	if !ok {
		return false, nil
	}
	idx := min(max(d.index, 0), len(l.notes))
	l.notes = slices.Insert(l.notes, idx, d.note)
	return true, l.saveLocked(ctx)
}

// SetPinned sets the pinned flag of a note. An unknown id is a no-op.
func (l *Library) SetPinned(ctx context.Context, id string, pinned bool) (bool, error) {
	return l.update(ctx, id, func(n *core.Note) { n.IsPinned = pinned })
}

// SetHidden sets the hidden flag of a note. An unknown id is a no-op.
func (l *Library) SetHidden(ctx context.Context, id string, hidden bool) (bool, error) {
	return l.update(ctx, id, func(n *core.Note) { n.IsHidden = hidden })
}

func (l *Library) update(ctx context.Context, id string, fn func(*core.Note)) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	fn(&l.notes[i])
	return true, l.saveLocked(ctx)
}

func (l *Library) saveLocked(ctx context.Context) error {
	if err := l.store.SaveAll(ctx, core.CloneNotes(l.notes)); err != nil {
		l.failures++
		return fmt.Errorf("failed to save notes: %w", err)
	}
	l.saves++
	return nil
}

// LibraryState exposes internal state for observability.
type LibraryState struct {
	Notes    int       `json:"notes"`
	Hidden   int       `json:"hidden"`
	Pinned   int       `json:"pinned"`
	Saves    int       `json:"saves"`
	Failures int       `json:"failures"`
	CanUndo  bool      `json:"can_undo"`
	LoadedAt time.Time `json:"loaded_at"`
}

// State implements introspection.Introspectable.
func (l *Library) State() any {
	canUndo := l.CanUndo()
	l.mu.Lock()
	defer l.mu.Unlock()
	s := LibraryState{
		Notes:    len(l.notes),
		Saves:    l.saves,
		Failures: l.failures,
		CanUndo:  canUndo,
		LoadedAt: l.loadedAt,
	}
	for _, n := range l.notes {
		if n.IsHidden {
			s.Hidden++
		}
		if n.IsPinned {
			s.Pinned++
		}
	}
	return s
}

// ComponentType implements introspection.Component.
func (l *Library) ComponentType() string {
	return "note-library"
}

var _ introspection.Introspectable = (*Library)(nil)
var _ introspection.Component = (*Library)(nil)
