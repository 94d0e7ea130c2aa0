package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/framenotes/pkg/core"
	"github.com/aretw0/framenotes/pkg/git"
)

func newStorage(t *testing.T, cfg Config) *Storage {
	t.Helper()
	if cfg.Dir == "" {
		cfg.Dir = filepath.Join(t.TempDir(), "data")
	}
	s := NewStorage(cfg)
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestStorage_ReadWrite(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t, Config{})

	_, err := s.Read(ctx, "frame_notes.json")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, s.Write(ctx, "frame_notes.json", []byte(`[]`)))
	got, err := s.Read(ctx, "frame_notes.json")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	onDisk, err := os.ReadFile(filepath.Join(s.Dir, "frame_notes.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(onDisk))

	state := s.State().(StorageState)
	assert.Equal(t, 1, state.Writes)
}

func TestStorage_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t, Config{})
	for _, key := range []string{"", ".", "..", "../escape", "a/b", TempFilePrefix + "x"} {
		assert.Error(t, s.Write(ctx, key, []byte("x")), "key %q", key)
		_, err := s.Read(ctx, key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestStorage_ReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "k"), []byte("v"), 0644))

	s := newStorage(t, Config{Dir: dir, ReadOnly: true})
	got, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
	assert.ErrorIs(t, s.Write(ctx, "k", []byte("w")), core.ErrReadOnly)

	missing := NewStorage(Config{Dir: filepath.Join(dir, "missing"), ReadOnly: true})
	assert.Error(t, missing.Initialize(ctx))
}

func TestStorage_History(t *testing.T) {
	if !git.IsInstalled() {
		t.Skip("git not installed")
	}
	ctx := context.Background()
	s := newStorage(t, Config{History: true})

	require.NoError(t, s.Write(ctx, "frame_notes.json", []byte(`[]`)))
	require.NoError(t, s.Write(ctx, "frame_notes.json", []byte(`[]`)))
	require.NoError(t, s.Write(ctx, "frame_notes.json", []byte(`[{"id":"a"}]`)))

	commits, err := s.History(ctx, "frame_notes.json", 0)
	require.NoError(t, err)
	assert.Len(t, commits, 2)
	assert.Equal(t, "save(frame_notes.json): 12 bytes", commits[0].Subject)
}

func TestStorage_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newStorage(t, Config{})
	events, err := s.Watch(ctx, "frame_notes.json")
	require.NoError(t, err)

	// Writes made through the storage are not echoed back.
	require.NoError(t, s.Write(ctx, "frame_notes.json", []byte(`[]`)))
	select {
	case e := <-events:
		t.Fatalf("unexpected event for own write: %v", e)
	case <-time.After(300 * time.Millisecond):
	}

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "other.json"), []byte("x"), 0644))

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "frame_notes.json"), []byte(`[{"id":"x"}]`), 0644))
	select {
	case e := <-events:
		assert.Equal(t, core.EventModify, e.Type)
		assert.Equal(t, "frame_notes.json", e.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for external change")
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}
