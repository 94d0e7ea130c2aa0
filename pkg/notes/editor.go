package notes

import (
	"context"
	"sync"

	"github.com/aretw0/framenotes/pkg/blocks"
	"github.com/aretw0/framenotes/pkg/core"
	"github.com/aretw0/framenotes/pkg/schedule"
)

// Editor is the open note. Every tracked change restarts the autosave
// debounce; the note is committed to the Library once edits go quiet.
type Editor struct {
	lib      *Library
	opts     Options
	debounce *schedule.Debouncer
	blocks   *blocks.Editor

	// commitMu is held from snapshot to upsert so commits land in order.
	commitMu sync.Mutex

	mu        sync.Mutex
	note      core.Note
	persisted bool
	closed    bool
	commits   int
}

// Create opens an editor on a new, not yet persisted note.
func (l *Library) Create() *Editor {
	return l.newEditor(core.Note{}, false)
}

// Open opens an editor on a stored note.
func (l *Library) Open(id string) (*Editor, bool) {
	n, ok := l.Get(id)
	if !ok {
		return nil, false
	}
	return l.newEditor(n, true), true
}

func (l *Library) newEditor(n core.Note, persisted bool) *Editor {
	e := &Editor{
		lib:       l,
		opts:      l.opts,
		debounce:  schedule.NewDebouncer(l.opts.Clock, l.opts.Debounce),
		note:      n.Clone(),
		persisted: persisted,
	}
	e.blocks = blocks.NewEditor(n.Blocks, blocks.Options{
		Clock:    l.opts.Clock,
		UndoTTL:  l.opts.BlockUndoTTL,
		NewID:    l.opts.NewID,
		OnChange: e.touch,
	})
	return e
}

// ID returns the note id, empty until the first commit of a new note.
func (e *Editor) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.note.ID
}

// Note returns the working copy with the current blocks.
func (e *Editor) Note() core.Note {
	e.mu.Lock()
	n := e.note.Clone()
	e.mu.Unlock()
	n.Blocks = e.blocks.Blocks()
	return n
}

// Blocks returns the block editor of the note. Its mutations are tracked.
func (e *Editor) Blocks() *blocks.Editor {
	return e.blocks
}

// SetTitle changes the title.
func (e *Editor) SetTitle(title string) {
	e.set(func(n *core.Note) { n.Title = title })
}

// SetPinned changes the pinned flag.
func (e *Editor) SetPinned(pinned bool) {
	e.set(func(n *core.Note) { n.IsPinned = pinned })
}

// SetHidden changes the hidden flag.
func (e *Editor) SetHidden(hidden bool) {
	e.set(func(n *core.Note) { n.IsHidden = hidden })
}

// SetTheme changes the note's theme.
func (e *Editor) SetTheme(theme string) {
	e.set(func(n *core.Note) { n.Theme = theme })
}

func (e *Editor) set(fn func(*core.Note)) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	fn(&e.note)
	e.mu.Unlock()
	e.touch()
}

func (e *Editor) touch() {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return
	}
	e.debounce.Trigger(func() {
		if err := e.commit(e.opts.Context); err != nil {
			e.opts.Logger.Error("autosave failed", "id", e.ID(), "error", err)
		}
	})
}

// Pending reports whether a change is waiting for the debounce window.
func (e *Editor) Pending() bool {
	return e.debounce.Pending()
}

// Flush commits a pending change now. It reports whether there was one.
func (e *Editor) Flush(ctx context.Context) (bool, error) {
	if !e.debounce.Stop() {
		return false, nil
	}
	return true, e.commit(ctx)
}

// Save commits the note now, whether or not it changed.
func (e *Editor) Save(ctx context.Context) error {
	e.debounce.Stop()
	return e.commit(ctx)
}

// Close stops tracking edits. A commit already scheduled still fires.
func (e *Editor) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

// Discard closes the editor and drops any scheduled commit.
func (e *Editor) Discard() {
	e.Close()
	e.debounce.Stop()
}

// Commits returns the number of successful commits.
func (e *Editor) Commits() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commits
}

func (e *Editor) commit(ctx context.Context) error {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	bs := e.blocks.Blocks()

	e.mu.Lock()
	n := e.note.Clone()
	n.Blocks = bs
	if !e.persisted && n.IsEmpty() {
		e.mu.Unlock()
		e.opts.Logger.Debug("skipping empty new note")
		return nil
	}
	now := e.opts.Clock.Now()
	if n.ID == "" {
		n.ID = e.opts.NewID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	e.note.ID = n.ID
	e.note.CreatedAt = n.CreatedAt
	e.note.UpdatedAt = n.UpdatedAt
	e.mu.Unlock()

	if err := e.lib.Upsert(ctx, n); err != nil {
		return err
	}

	e.mu.Lock()
	e.persisted = true
	e.commits++
	e.mu.Unlock()
	e.opts.Metrics.Commit()
	e.opts.Logger.Debug("note committed", "id", n.ID, "blocks", len(n.Blocks))
	return nil
}
