// Package core holds the Frame Notes domain: notes, their blocks and the
// freehand drawings layered over media blocks, plus the storage contracts the
// adapters implement.
package core

// EraserColor is the sentinel color of an eraser stroke. Eraser strokes are
// stored like any other path and composited with destination-out blending.
const EraserColor = "eraser"

// Point is a coordinate in the canvas' local CSS-pixel space.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// DrawingPath is one committed freehand stroke.
// Paths are composited in slice order; later paths paint over earlier ones.
type DrawingPath struct {
	Points []Point `json:"points" yaml:"points"`
	Color  string  `json:"color" yaml:"color"`
	Width  float64 `json:"width" yaml:"width"`
}

// IsEraser reports whether the path removes pixels instead of painting them.
func (p DrawingPath) IsEraser() bool {
	return p.Color == EraserColor
}

// Clone returns a deep copy of the path.
func (p DrawingPath) Clone() DrawingPath {
	out := p
	if p.Points != nil {
		out.Points = make([]Point, len(p.Points))
		copy(out.Points, p.Points)
	}
	return out
}

// ClonePaths deep copies a list of paths, preserving nil.
func ClonePaths(paths []DrawingPath) []DrawingPath {
	if paths == nil {
		return nil
	}
	out := make([]DrawingPath, len(paths))
	for i, p := range paths {
		out[i] = p.Clone()
	}
	return out
}

// EventType represents the type of change observed on a storage key.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of a stored key made outside this process.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
