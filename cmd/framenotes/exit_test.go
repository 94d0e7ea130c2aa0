package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/framenotes/pkg/adapters/sqlite"
)

func TestExitHooksCloseEnv(t *testing.T) {
	oldDir, oldAdapter := dataDir, adapter
	t.Cleanup(func() {
		dataDir, adapter = oldDir, oldAdapter
		exitHooks = nil
	})
	dataDir = t.TempDir()
	adapter = "sqlite"

	ctx := context.Background()
	env, err := openEnv(ctx, nil)
	require.NoError(t, err)
	_, ok := env.Durable.(*sqlite.Storage)
	require.True(t, ok)

	// The path fatal takes: deferred closes never run, the hooks do.
	runExitHooks()
	assert.Empty(t, exitHooks)

	_, err = env.Durable.Read(ctx, "frame_notes.json")
	assert.ErrorContains(t, err, "database is closed")

	// A deferred Close after the hooks is harmless.
	assert.NoError(t, env.Close())
}
