// Package framenotes is the Composition Root for Frame Notes.
//
// Frame Notes is a local-first notebook whose notes are ordered blocks of
// text, images and videos, with freehand drawings layered over the media.
// This package wires the note controller to a durable store (device files
// or SQLite) backed by an in-memory fallback, and re-exports the options
// that configure it.
//
// Usage:
//
//	env, err := framenotes.New(ctx, "./notes",
//		framenotes.WithAdapter("sqlite"),
//		framenotes.WithLogger(logger),
//	)
//	defer env.Close()
//
//	editor, _ := env.App.NewNote(ctx)
//	editor.SetTitle("Trip")
//	editor.Blocks().Append(framenotes.BlockText, "Paris was great")
//
//	// Leaving the editor saves the note.
//	env.App.Back(ctx)
package framenotes
