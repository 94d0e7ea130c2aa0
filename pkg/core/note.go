package core

import (
	"strings"
	"time"
)

// BlockType is the kind of content a block carries.
type BlockType string

const (
	BlockText  BlockType = "text"
	BlockImage BlockType = "image"
	BlockVideo BlockType = "video"
)

// Valid reports whether t is one of the known block types.
func (t BlockType) Valid() bool {
	switch t {
	case BlockText, BlockImage, BlockVideo:
		return true
	}
	return false
}

// IsMedia reports whether drawings are meaningful for the block type.
func (t BlockType) IsMedia() bool {
	return t == BlockImage || t == BlockVideo
}

// Block is one content unit inside a note.
// Content is plain text for text blocks and an inline data URL for media.
// Drawings is always written so an empty list and no list stay distinct.
type Block struct {
	ID       string        `json:"id" yaml:"id"`
	Type     BlockType     `json:"type" yaml:"type"`
	Content  string        `json:"content" yaml:"content"`
	Width    *float64      `json:"width,omitempty" yaml:"width,omitempty"`
	Height   *float64      `json:"height,omitempty" yaml:"height,omitempty"`
	Drawings []DrawingPath `json:"drawings" yaml:"drawings,omitempty"`
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := b
	if b.Width != nil {
		w := *b.Width
		out.Width = &w
	}
	if b.Height != nil {
		h := *b.Height
		out.Height = &h
	}
	out.Drawings = ClonePaths(b.Drawings)
	return out
}

// CloneBlocks deep copies a block list, preserving nil.
func CloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.Clone()
	}
	return out
}

// Note is the editable unit: a title, an ordered list of blocks and flags.
// CreatedAt never changes once set; UpdatedAt is refreshed on every save.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
	Blocks    []Block   `json:"blocks" yaml:"blocks"`
	IsPinned  bool      `json:"isPinned" yaml:"isPinned"`
	IsHidden  bool      `json:"isHidden" yaml:"isHidden"`
	Theme     string    `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// Clone returns a deep copy of the note.
func (n Note) Clone() Note {
	out := n
	out.Blocks = CloneBlocks(n.Blocks)
	return out
}

// IsEmpty reports whether the note has neither blocks nor a title.
func (n Note) IsEmpty() bool {
	return len(n.Blocks) == 0 && strings.TrimSpace(n.Title) == ""
}

// Block returns the block with the given id.
func (n Note) Block(id string) (Block, bool) {
	for _, b := range n.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// CloneNotes deep copies a note list. The result is never nil.
func CloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}
