// Package persistence keeps the note collection in a durable store and a
// transient fallback. Loads prefer the durable copy; saves always reach the
// transient copy so that a failing device store never loses the session.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/framenotes/internal/metrics"
	"github.com/aretw0/framenotes/pkg/codec"
	"github.com/aretw0/framenotes/pkg/core"
)

// DefaultKey is the storage key of the note collection.
const DefaultKey = "frame_notes.json"

// Source tells which store satisfied the last load.
type Source string

const (
	SourceNone      Source = "none"
	SourceDurable   Source = "durable"
	SourceTransient Source = "transient"
)

// Bridge implements core.NoteStore over two key/value stores.
// Either store may be nil.
type Bridge struct {
	Durable   core.Storage
	Transient core.Storage
	Key       string
	Logger    *slog.Logger
	Metrics   *metrics.Metrics

	mu             sync.Mutex
	lastSource     Source
	durableErrors  int
	lastDurableErr string
	saves          int
}

// New returns a Bridge using DefaultKey.
func New(durable, transient core.Storage, logger *slog.Logger, m *metrics.Metrics) *Bridge {
	return &Bridge{
		Durable:   durable,
		Transient: transient,
		Key:       DefaultKey,
		Logger:    logger,
		Metrics:   m,
	}
}

func (b *Bridge) key() string {
	if b.Key == "" {
		return DefaultKey
	}
	return b.Key
}

func (b *Bridge) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// LoadAll implements core.NoteStore. It never fails: an absent or unreadable
// collection loads as empty.
func (b *Bridge) LoadAll(ctx context.Context) ([]core.Note, error) {
	key := b.key()

	data, source := b.readDurable(ctx, key)
	if data == nil {
		data, source = b.readTransient(ctx, key)
	}
	b.setSource(source)
	if data == nil {
		return []core.Note{}, nil
	}

	notes, err := codec.DecodeNotes(data)
	if err != nil {
		b.logger().Warn("stored notes are unreadable, starting empty", "key", key, "source", source, "error", err)
		return []core.Note{}, nil
	}

	if source == SourceDurable && b.Transient != nil {
		if err := b.Transient.Write(ctx, key, data); err != nil {
			b.logger().Debug("failed to mirror notes into transient store", "error", err)
		}
	}
	return notes, nil
}

func (b *Bridge) readDurable(ctx context.Context, key string) ([]byte, Source) {
	if b.Durable == nil {
		return nil, SourceNone
	}
	data, err := b.Durable.Read(ctx, key)
	switch {
	case err == nil:
		b.Metrics.Read(string(SourceDurable), metrics.ResultOK)
		return data, SourceDurable
	case errors.Is(err, core.ErrNotFound):
		b.Metrics.Read(string(SourceDurable), metrics.ResultMiss)
	default:
		b.Metrics.Read(string(SourceDurable), metrics.ResultError)
		b.recordDurableError(err)
		b.logger().Warn("durable store unreadable, falling back", "key", key, "error", err)
	}
	return nil, SourceNone
}

func (b *Bridge) readTransient(ctx context.Context, key string) ([]byte, Source) {
	if b.Transient == nil {
		return nil, SourceNone
	}
	data, err := b.Transient.Read(ctx, key)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			b.Metrics.Read(string(SourceTransient), metrics.ResultMiss)
		} else {
			b.Metrics.Read(string(SourceTransient), metrics.ResultError)
		}
		return nil, SourceNone
	}
	b.Metrics.Read(string(SourceTransient), metrics.ResultOK)
	return data, SourceTransient
}

// SaveAll implements core.NoteStore. The collection is written whole to the
// transient store, then to the durable store. Durable failures are logged
// and swallowed; only an encoding or transient failure is returned.
func (b *Bridge) SaveAll(ctx context.Context, notes []core.Note) error {
	key := b.key()
	data, err := codec.EncodeNotes(notes)
	if err != nil {
		return err
	}

	if b.Transient != nil {
		if err := b.Transient.Write(ctx, key, data); err != nil {
			b.Metrics.Write(string(SourceTransient), metrics.ResultError)
			return fmt.Errorf("failed to write transient notes: %w", err)
		}
		b.Metrics.Write(string(SourceTransient), metrics.ResultOK)
	}

	if b.Durable != nil {
		if err := b.Durable.Write(ctx, key, data); err != nil {
			b.Metrics.Write(string(SourceDurable), metrics.ResultError)
			b.recordDurableError(err)
			b.logger().Warn("durable save failed, kept transient copy", "key", key, "error", err)
		} else {
			b.Metrics.Write(string(SourceDurable), metrics.ResultOK)
		}
	}

	b.mu.Lock()
	b.saves++
	b.mu.Unlock()
	b.logger().Debug("notes saved", "key", key, "count", len(notes))
	return nil
}

func (b *Bridge) setSource(s Source) {
	b.mu.Lock()
	b.lastSource = s
	b.mu.Unlock()
}

func (b *Bridge) recordDurableError(err error) {
	b.mu.Lock()
	b.durableErrors++
	b.lastDurableErr = err.Error()
	b.mu.Unlock()
}

// BridgeState exposes internal state for observability.
type BridgeState struct {
	Key              string `json:"key"`
	LastLoadSource   Source `json:"last_load_source"`
	Saves            int    `json:"saves"`
	DurableErrors    int    `json:"durable_errors"`
	LastDurableError string `json:"last_durable_error,omitempty"`
}

// State implements introspection.Introspectable.
func (b *Bridge) State() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	src := b.lastSource
	if src == "" {
		src = SourceNone
	}
	return BridgeState{
		Key:              b.key(),
		LastLoadSource:   src,
		Saves:            b.saves,
		DurableErrors:    b.durableErrors,
		LastDurableError: b.lastDurableErr,
	}
}

// ComponentType implements introspection.Component.
func (b *Bridge) ComponentType() string {
	return "persistence-bridge"
}

var _ core.NoteStore = (*Bridge)(nil)
var _ introspection.Introspectable = (*Bridge)(nil)
var _ introspection.Component = (*Bridge)(nil)
