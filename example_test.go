package framenotes_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/framenotes"
)

// Example_basic creates a note, leaves the editor and reads the collection
// back from a fresh instance.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "framenotes-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	env, err := framenotes.New(ctx, tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	editor, err := env.App.NewNote(ctx)
	if err != nil {
		log.Fatal(err)
	}
	editor.SetTitle("Trip")
	editor.Blocks().Append(framenotes.BlockText, "Paris was great")

	// Back saves the open note without waiting for the autosave.
	if _, err := env.App.Back(ctx); err != nil {
		log.Fatal(err)
	}
	env.Close()

	env, err = framenotes.New(ctx, tmpDir)
	if err != nil {
		log.Fatal(err)
	}
	defer env.Close()

	for _, n := range env.App.Visible() {
		fmt.Printf("%s: %s\n", n.Title, n.Blocks[0].Content)
	}
	// Output:
	// Trip: Paris was great
}

// Example_sqlite stores the notes in a SQLite database instead of files.
func Example_sqlite() {
	tmpDir, err := os.MkdirTemp("", "framenotes-sqlite-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	env, err := framenotes.New(ctx, tmpDir, framenotes.WithAdapter("sqlite"))
	if err != nil {
		log.Fatal(err)
	}
	defer env.Close()

	for _, title := range []string{"Alpha", "beta", "Gamma"} {
		editor, _ := env.App.NewNote(ctx)
		editor.SetTitle(title)
		env.App.Back(ctx)
	}

	env.App.SetQuery("B")
	for _, n := range env.App.Visible() {
		fmt.Println(n.Title)
	}
	// Output:
	// beta
}
