package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "framenotes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: data\nadapter: sqlite\nhistory: true\nlog_level: debug\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), c.DataDir)
	assert.Equal(t, "sqlite", c.Adapter)
	assert.True(t, c.History)
	assert.False(t, c.ReadOnly)
	assert.Equal(t, slog.LevelDebug, c.Level())
	assert.Len(t, c.Options(), 2)
}

func TestLoad_Missing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "framenotes.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, c)
	assert.Equal(t, slog.LevelInfo, c.Level())
	assert.Empty(t, c.Options())
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"unknown field":   "colour: red\n",
		"unknown adapter": "adapter: s3\n",
		"not yaml":        "adapter: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "framenotes.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	c, path, err := Discover(nested)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Config{}, c)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "framenotes.yaml"), []byte("read_only: true\n"), 0644))
	c, path, err = Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "framenotes.yaml"), path)
	assert.True(t, c.ReadOnly)
}
