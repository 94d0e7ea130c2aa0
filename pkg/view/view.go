// Package view derives the visible, ordered note list from the collection.
package view

import (
	"slices"
	"strings"

	"github.com/aretw0/framenotes/pkg/core"
)

// Options selects which notes are visible.
type Options struct {
	// Hidden selects the hidden-notes view instead of the default one.
	Hidden bool
	// Query is matched case-insensitively against titles and text blocks,
	// spaces included. Only the empty query matches every note.
	Query string
}

// Filter returns the notes visible under opts: pinned notes first, then the
// most recently updated. Ties keep their collection order.
func Filter(notes []core.Note, opts Options) []core.Note {
	query := strings.ToLower(opts.Query)

	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if n.IsHidden != opts.Hidden {
			continue
		}
		if !Matches(n, query) {
			continue
		}
		out = append(out, n)
	}

	slices.SortStableFunc(out, func(a, b core.Note) int {
		if a.IsPinned != b.IsPinned {
			if a.IsPinned {
				return -1
			}
			return 1
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out
}

// Matches reports whether the note's title or any text block contains the
// already lower-cased query.
func Matches(n core.Note, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(n.Title), query) {
		return true
	}
	for _, b := range n.Blocks {
		if b.Type == core.BlockText && strings.Contains(strings.ToLower(b.Content), query) {
			return true
		}
	}
	return false
}
