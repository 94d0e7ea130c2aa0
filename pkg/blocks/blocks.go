// Package blocks maintains the ordered block list of the note being edited:
// append, in-place updates, deletion with a short-lived undo, and manual or
// drag-driven reordering.
package blocks

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/framenotes/pkg/clock"
	"github.com/aretw0/framenotes/pkg/core"
	"github.com/aretw0/framenotes/pkg/schedule"
)

// DefaultUndoTTL is how long a deleted block can be restored.
const DefaultUndoTTL = 4 * time.Second

// Options configures an Editor.
type Options struct {
	Clock   clock.Clock
	UndoTTL time.Duration
	// NewID generates block ids. Defaults to random UUIDs.
	NewID func() string
	// OnChange is called after every mutation, outside the editor's lock.
	OnChange func()
}

type deleted struct {
	block core.Block
	index int
}

// Editor is the block sequence of one note.
type Editor struct {
	mu       sync.Mutex
	blocks   []core.Block
	undo     *schedule.Slot[deleted]
	newID    func() string
	onChange func()

	dragging  bool
	dragIndex int
}

// NewEditor creates an Editor over a copy of initial.
func NewEditor(initial []core.Block, opts Options) *Editor {
	if opts.UndoTTL <= 0 {
		opts.UndoTTL = DefaultUndoTTL
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	blocks := core.CloneBlocks(initial)
	if blocks == nil {
		blocks = []core.Block{}
	}
	return &Editor{
		blocks:   blocks,
		undo:     schedule.NewSlot[deleted](opts.Clock, opts.UndoTTL, nil),
		newID:    opts.NewID,
		onChange: opts.OnChange,
	}
}

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Blocks returns a copy of the current sequence.
func (e *Editor) Blocks() []core.Block {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := core.CloneBlocks(e.blocks)
	if out == nil {
		out = []core.Block{}
	}
	return out
}

// Len returns the number of blocks.
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.blocks)
}

// Get returns a copy of the block with the given id.
func (e *Editor) Get(id string) (core.Block, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexLocked(id)
	if i < 0 {
		return core.Block{}, false
	}
	return e.blocks[i].Clone(), true
}

func (e *Editor) indexLocked(id string) int {
	for i, b := range e.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// Append adds a new block at the end and returns it.
func (e *Editor) Append(t core.BlockType, content string) core.Block {
	e.mu.Lock()
	b := core.Block{ID: e.newID(), Type: t, Content: content}
	e.blocks = append(e.blocks, b)
	e.mu.Unlock()

	e.changed()
	return b.Clone()
}

// update applies fn to the block with the given id. Unknown ids are a no-op.
func (e *Editor) update(id string, fn func(b *core.Block)) bool {
	e.mu.Lock()
	i := e.indexLocked(id)
	if i < 0 {
		e.mu.Unlock()
		return false
	}
	fn(&e.blocks[i])
	e.mu.Unlock()

	e.changed()
	return true
}

// UpdateContent replaces a block's content.
func (e *Editor) UpdateContent(id, content string) bool {
	return e.update(id, func(b *core.Block) { b.Content = content })
}

// UpdateDrawings replaces a block's drawing list with a copy of paths.
func (e *Editor) UpdateDrawings(id string, paths []core.DrawingPath) bool {
	return e.update(id, func(b *core.Block) { b.Drawings = core.ClonePaths(paths) })
}

// UpdateSize records the rendered media size of a block.
func (e *Editor) UpdateSize(id string, width, height float64) bool {
	return e.update(id, func(b *core.Block) {
		b.Width = &width
		b.Height = &height
	})
}

// Delete removes a block and keeps it, with its index, in the undo buffer.
// Any block waiting there before is gone for good. Deleting the dragged
// block ends the drag.
func (e *Editor) Delete(id string) bool {
	e.mu.Lock()
	i := e.indexLocked(id)
	if i < 0 {
		e.mu.Unlock()
		return false
	}
	removed := e.blocks[i]
	e.blocks = append(e.blocks[:i], e.blocks[i+1:]...)
	e.undo.Put(deleted{block: removed, index: i})
	if e.dragging {
		switch {
		case i == e.dragIndex:
			e.dragging = false
			e.dragIndex = 0
		case i < e.dragIndex:
			e.dragIndex--
		}
	}
	e.mu.Unlock()

	e.changed()
	return true
}

// CanUndo reports whether a deleted block is waiting in the undo buffer.
func (e *Editor) CanUndo() bool {
	_, ok := e.undo.Peek()
	return ok
}

// UndoDelete restores the most recently deleted block at its original
// index. If the list has shrunk since, the index is clamped to the end.
func (e *Editor) UndoDelete() bool {
	d, ok := e.undo.Take()
	if !ok {
		return false
	}

	e.mu.Lock()
	at := min(max(d.index, 0), len(e.blocks))
	e.blocks = slices.Insert(e.blocks, at, d.block)
	if e.dragging && at <= e.dragIndex {
		e.dragIndex++
	}
	e.mu.Unlock()

	e.changed()
	return true
}

// Move swaps a block with its neighbour in direction dir (-1 up, +1 down).
// Moving past either end is a no-op.
func (e *Editor) Move(id string, dir int) bool {
	if dir != -1 && dir != 1 {
		return false
	}
	e.mu.Lock()
	i := e.indexLocked(id)
	j := i + dir
	if i < 0 || j < 0 || j >= len(e.blocks) {
		e.mu.Unlock()
		return false
	}
	e.blocks[i], e.blocks[j] = e.blocks[j], e.blocks[i]
	if e.dragging {
		switch e.dragIndex {
		case i:
			e.dragIndex = j
		case j:
			e.dragIndex = i
		}
	}
	e.mu.Unlock()

	e.changed()
	return true
}

// BeginDrag records the index of the block being dragged.
func (e *Editor) BeginDrag(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.blocks) {
		return false
	}
	e.dragging = true
	e.dragIndex = index
	return true
}

// DragEnter moves the dragged block to index as soon as the pointer crosses
// into another block's region, then tracks it at its new position.
func (e *Editor) DragEnter(index int) bool {
	e.mu.Lock()
	if e.dragging && e.dragIndex >= len(e.blocks) {
		e.dragging = false
		e.dragIndex = 0
	}
	if !e.dragging || index == e.dragIndex || index < 0 || index >= len(e.blocks) {
		e.mu.Unlock()
		return false
	}
	e.blocks = MoveElement(e.blocks, e.dragIndex, index)
	e.dragIndex = index
	e.mu.Unlock()

	e.changed()
	return true
}

// EndDrag finishes the drag gesture. Moves already applied stay.
func (e *Editor) EndDrag() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dragging = false
	e.dragIndex = 0
}

// Dragging returns the tracked index of the dragged block.
func (e *Editor) Dragging() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dragIndex, e.dragging
}
