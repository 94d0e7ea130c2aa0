package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/framenotes/pkg/core"
)

// buildBinary builds the framenotes binary in dir and returns its path.
func buildBinary(t *testing.T, dir string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping CLI build in short mode")
	}
	bin := filepath.Join(dir, "framenotes.exe")
	out, err := exec.Command("go", "build", "-o", bin, ".").CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to build framenotes: %v\n%s", err, string(out))
	}
	return bin
}

func runCLI(t *testing.T, bin, dataDir string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, append([]string{"--dir", dataDir}, args...)...)
	cmd.Dir = dataDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("framenotes %v failed: %v\nstdout: %s\nstderr: %s", args, err, stdout.String(), stderr.String())
	}
	return stdout.String()
}

func listNotes(t *testing.T, bin, dataDir string, args ...string) []core.Note {
	t.Helper()
	var notes []core.Note
	out := runCLI(t, bin, dataDir, append([]string{"list", "--json"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &notes), out)
	return notes
}

func TestCLI(t *testing.T) {
	binDir := t.TempDir()
	bin := buildBinary(t, binDir)
	dataDir := t.TempDir()

	id := strings.TrimSpace(runCLI(t, bin, dataDir, "new", "--title", "Trip", "--text", "Paris was great"))
	require.NotEmpty(t, id)
	runCLI(t, bin, dataDir, "new", "--title", "Groceries", "--text", "bread", "--pin")
	runCLI(t, bin, dataDir, "new", "--title", "Diary", "--hide")

	t.Run("list and search", func(t *testing.T) {
		notes := listNotes(t, bin, dataDir)
		require.Len(t, notes, 2)
		assert.Equal(t, "Groceries", notes[0].Title, "pinned first")
		assert.Equal(t, "Trip", notes[1].Title)

		notes = listNotes(t, bin, dataDir, "--query", "PARIS")
		require.Len(t, notes, 1)
		assert.Equal(t, id, notes[0].ID)

		notes = listNotes(t, bin, dataDir, "--hidden")
		require.Len(t, notes, 1)
		assert.Equal(t, "Diary", notes[0].Title)
	})

	t.Run("blocks", func(t *testing.T) {
		second := strings.TrimSpace(runCLI(t, bin, dataDir, "add", id, "--text", "and Rome"))
		runCLI(t, bin, dataDir, "move", id, second, "--to", "0")

		notes := listNotes(t, bin, dataDir, "--query", "trip")
		require.Len(t, notes, 1)
		require.Len(t, notes[0].Blocks, 2)
		assert.Equal(t, "and Rome", notes[0].Blocks[0].Content)

		runCLI(t, bin, dataDir, "rmblock", id, second)
		notes = listNotes(t, bin, dataDir, "--query", "trip")
		assert.Len(t, notes[0].Blocks, 1)
	})

	t.Run("draw and render", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
		for y := 0; y < 30; y++ {
			for x := 0; x < 40; x++ {
				img.Set(x, y, color.White)
			}
		}
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		pic := filepath.Join(t.TempDir(), "pic.png")
		require.NoError(t, os.WriteFile(pic, buf.Bytes(), 0644))

		out := runCLI(t, bin, dataDir, "add", id, "--media", pic)
		blockID := strings.Fields(out)[0]

		strokes := filepath.Join(t.TempDir(), "strokes.json")
		require.NoError(t, os.WriteFile(strokes, []byte(`[
			{"tool": "pen", "color": "#ff0000", "points": [{"x": 5, "y": 15}, {"x": 35, "y": 15}]},
			{"tool": "pen", "color": "#0000ff", "points": [{"x": 20, "y": 2}, {"x": 20, "y": 28}]},
			{"undo": true}
		]`), 0644))
		assert.Contains(t, runCLI(t, bin, dataDir, "draw", id, blockID, "--strokes", strokes), "1 paths")

		target := filepath.Join(t.TempDir(), "out.png")
		runCLI(t, bin, dataDir, "render", id, blockID, "-o", target)
		f, err := os.Open(target)
		require.NoError(t, err)
		defer f.Close()
		rendered, err := png.Decode(f)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 40, 30), rendered.Bounds())

		r, g, _, _ := rendered.At(30, 15).RGBA()
		assert.Greater(t, r>>8, uint32(200), "red stroke over the image")
		assert.Less(t, g>>8, uint32(100))
	})

	t.Run("flags, theme and delete", func(t *testing.T) {
		runCLI(t, bin, dataDir, "hide", id)
		assert.Len(t, listNotes(t, bin, dataDir, "--hidden"), 2)
		runCLI(t, bin, dataDir, "unhide", id)

		runCLI(t, bin, dataDir, "theme", "forest")
		assert.Contains(t, runCLI(t, bin, dataDir, "theme"), "* forest")

		runCLI(t, bin, dataDir, "delete", id)
		assert.Len(t, listNotes(t, bin, dataDir), 1)

		yamlOut := runCLI(t, bin, dataDir, "export", "--format", "yaml")
		assert.Contains(t, yamlOut, "title: Groceries")
	})

	t.Run("state", func(t *testing.T) {
		out := runCLI(t, bin, dataDir, "state", "--metrics")
		assert.Contains(t, out, `"persistence-bridge"`)
		assert.Contains(t, out, "framenotes_store_reads_total")
	})
}
