// Package theme persists the application theme preference.
package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/framenotes/pkg/core"
)

// ID identifies a theme.
type ID string

const (
	Light  ID = "light"
	Dark   ID = "dark"
	Sepia  ID = "sepia"
	Ocean  ID = "ocean"
	Forest ID = "forest"
)

// Default is used when no valid preference is stored.
const Default = Light

// Key is the storage key of the preference.
const Key = "frame_theme"

// All lists the known themes in presentation order.
func All() []ID {
	return []ID{Light, Dark, Sepia, Ocean, Forest}
}

// Valid reports whether id is a known theme.
func (id ID) Valid() bool {
	for _, t := range All() {
		if t == id {
			return true
		}
	}
	return false
}

// Parse maps s to a theme, falling back to Default.
func Parse(s string) ID {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if id.Valid() {
		return id
	}
	return Default
}

// Store reads and writes the preference. The durable store is preferred;
// the transient store always receives writes.
type Store struct {
	Durable   core.Storage
	Transient core.Storage
	Logger    *slog.Logger
}

// Load returns the stored theme or Default.
func (s *Store) Load(ctx context.Context) ID {
	for _, st := range []core.Storage{s.Durable, s.Transient} {
		if st == nil {
			continue
		}
		data, err := st.Read(ctx, Key)
		if err == nil {
			return Parse(string(data))
		}
		if !errors.Is(err, core.ErrNotFound) {
			s.logger().Warn("theme preference unreadable", "error", err)
		}
	}
	return Default
}

// Save stores id. Unknown ids are rejected.
func (s *Store) Save(ctx context.Context, id ID) error {
	if !id.Valid() {
		return fmt.Errorf("unknown theme %q", id)
	}
	if s.Transient != nil {
		if err := s.Transient.Write(ctx, Key, []byte(id)); err != nil {
			return fmt.Errorf("failed to store theme: %w", err)
		}
	}
	if s.Durable != nil {
		if err := s.Durable.Write(ctx, Key, []byte(id)); err != nil {
			s.logger().Warn("durable theme save failed", "error", err)
		}
	}
	return nil
}

func (s *Store) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
