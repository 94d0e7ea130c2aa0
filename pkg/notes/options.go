// Package notes owns the note collection and the note being edited.
//
// A Library holds the loaded collection and writes it back whole on every
// change. An Editor presents one note as the editable unit and commits it
// to the Library after a quiet period. An App ties both to the view state
// of the application: which screen is showing and what the back action does.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/framenotes/internal/metrics"
	"github.com/aretw0/framenotes/pkg/blocks"
	"github.com/aretw0/framenotes/pkg/clock"
	"github.com/aretw0/framenotes/pkg/theme"
)

const (
	// DefaultDebounce is the quiet period before an edited note is committed.
	DefaultDebounce = 800 * time.Millisecond
	// DefaultNoteUndoTTL is how long a deleted note can be restored.
	DefaultNoteUndoTTL = 5 * time.Second
)

// Options configures a Library and the editors it opens.
type Options struct {
	Clock   clock.Clock
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// NewID generates note and block ids. Defaults to random UUIDs.
	NewID        func() string
	Debounce     time.Duration
	NoteUndoTTL  time.Duration
	BlockUndoTTL time.Duration
	// Context is used by commits fired from the debounce timer.
	Context context.Context
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.NoteUndoTTL <= 0 {
		o.NoteUndoTTL = DefaultNoteUndoTTL
	}
	if o.BlockUndoTTL <= 0 {
		o.BlockUndoTTL = blocks.DefaultUndoTTL
	}
	if o.Context == nil {
		o.Context = context.Background()
	}
	return o
}

func errInvalidTheme(id theme.ID) error {
	return fmt.Errorf("unknown theme %q", id)
}
