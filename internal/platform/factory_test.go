package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/framenotes/internal/platform"
	"github.com/aretw0/framenotes/pkg/adapters/fs"
	"github.com/aretw0/framenotes/pkg/adapters/memory"
	"github.com/aretw0/framenotes/pkg/clock"
	"github.com/aretw0/framenotes/pkg/core"
	"github.com/aretw0/framenotes/pkg/persistence"
	"github.com/aretw0/framenotes/pkg/theme"
)

func writeTrip(t *testing.T, env *platform.Env) {
	t.Helper()
	ctx := context.Background()
	e, err := env.App.NewNote(ctx)
	require.NoError(t, err)
	e.SetTitle("Trip")
	e.Blocks().Append(core.BlockText, "Paris was great")
	_, err = env.App.Back(ctx)
	require.NoError(t, err)
}

func TestNew(t *testing.T) {
	for _, adapter := range []string{platform.AdapterFS, platform.AdapterSQLite} {
		t.Run(adapter, func(t *testing.T) {
			ctx := context.Background()
			dir := filepath.Join(t.TempDir(), "notes")

			env, err := platform.New(ctx, dir, platform.WithAdapter(adapter))
			require.NoError(t, err)
			writeTrip(t, env)
			require.NoError(t, env.App.SetTheme(ctx, theme.Ocean))
			require.NoError(t, env.Close())

			env, err = platform.New(ctx, dir, platform.WithAdapter(adapter))
			require.NoError(t, err)
			defer env.Close()

			notes := env.Library.Notes()
			require.Len(t, notes, 1)
			assert.Equal(t, "Trip", notes[0].Title)
			assert.Equal(t, theme.Ocean, env.App.Theme())

			state := env.State()
			assert.Contains(t, state, "app")
			assert.Contains(t, state, "persistence-bridge")
			assert.Contains(t, state, "memory-storage")
			assert.Equal(t, persistence.SourceDurable, state["persistence-bridge"].(persistence.BridgeState).LastLoadSource)
		})
	}
}

func TestNew_FSLayout(t *testing.T) {
	dir := t.TempDir()
	env, err := platform.New(context.Background(), dir)
	require.NoError(t, err)
	defer env.Close()
	writeTrip(t, env)

	_, ok := env.Durable.(*fs.Storage)
	require.True(t, ok)
	data, err := os.ReadFile(filepath.Join(dir, persistence.DefaultKey))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Trip"`)
}

func TestNew_ReadOnlyKeepsSessionInMemory(t *testing.T) {
	dir := t.TempDir()
	env, err := platform.New(context.Background(), dir, platform.WithReadOnly(true))
	require.NoError(t, err)
	defer env.Close()

	writeTrip(t, env)
	assert.Len(t, env.Library.Notes(), 1)

	_, err = os.Stat(filepath.Join(dir, persistence.DefaultKey))
	assert.True(t, os.IsNotExist(err))
	_, err = env.Transient.Read(context.Background(), persistence.DefaultKey)
	assert.NoError(t, err)
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := platform.New(ctx, t.TempDir(), platform.WithAdapter("s3"))
	assert.Error(t, err)

	_, err = platform.New(ctx, filepath.Join(t.TempDir(), "missing"), platform.WithMustExist(true))
	assert.Error(t, err)
}

func TestNew_InjectedStorageAndClock(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStorage()
	c := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	env, err := platform.New(ctx, "", platform.WithStorage(store), platform.WithClock(c))
	require.NoError(t, err)

	e, err := env.App.NewNote(ctx)
	require.NoError(t, err)
	e.SetTitle("Trip")
	c.Advance(799 * time.Millisecond)
	_, err = store.Read(ctx, persistence.DefaultKey)
	assert.ErrorIs(t, err, core.ErrNotFound)

	c.Advance(time.Millisecond)
	_, err = store.Read(ctx, persistence.DefaultKey)
	assert.NoError(t, err)

	_, err = env.Watch(ctx)
	assert.Error(t, err, "memory storage cannot be watched")
	_, err = env.History(ctx, 5)
	assert.Error(t, err)
}
