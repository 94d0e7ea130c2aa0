// Package codec converts the note collection to and from its persisted forms.
//
// The stored document is a single JSON array of notes with no version field.
// YAML is offered as a read-only export format.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/framenotes/pkg/core"
)

// EncodeNotes serializes the collection as an indented JSON array.
// A nil collection encodes as an empty array.
func EncodeNotes(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode notes: %w", err)
	}
	return data, nil
}

// DecodeNotes parses a persisted collection.
// Empty input and a JSON null both decode to an empty collection.
func DecodeNotes(data []byte) ([]core.Note, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []core.Note{}, nil
	}

	var notes []core.Note
	if err := json.Unmarshal(trimmed, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	if notes == nil {
		notes = []core.Note{}
	}
	return notes, nil
}

// EncodeYAML renders the collection as a YAML sequence.
func EncodeYAML(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(notes); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
