package drawing

import (
	"image"
	"sync"

	"github.com/aretw0/framenotes/pkg/core"
)

// PointerEvent is a pointer or touch position in screen coordinates.
type PointerEvent struct {
	X float64
	Y float64
}

// Config describes the canvas a Session draws on.
type Config struct {
	Width            float64
	Height           float64
	DevicePixelRatio float64
	// Paths are the block's committed drawings. They are copied.
	Paths []core.DrawingPath
	// Origin is the on-screen position of the canvas' top-left corner.
	Origin core.Point
}

// Session is one interactive drawing session over a media block.
// It is safe for concurrent use; all methods are no-ops once the session
// has been saved or cancelled.
type Session struct {
	mu      sync.Mutex
	paths   []core.DrawingPath
	stroke  []core.Point
	down    bool
	tool    Tool
	color   string
	origin  core.Point
	surface *Surface
	dirty   bool
	closed  bool
}

// NewSession opens a session and replays the existing paths.
func NewSession(cfg Config) *Session {
	s := &Session{
		paths:   core.ClonePaths(cfg.Paths),
		tool:    Pen,
		color:   DefaultColor,
		origin:  cfg.Origin,
		surface: NewSurface(cfg.Width, cfg.Height, cfg.DevicePixelRatio),
	}
	if s.paths == nil {
		s.paths = []core.DrawingPath{}
	}
	s.surface.Render(s.paths)
	return s
}

// SetOrigin updates the canvas' on-screen position, e.g. after scrolling.
func (s *Session) SetOrigin(p core.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = p
}

// SetTool selects the tool for the next stroke.
func (s *Session) SetTool(t Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != Eraser {
		t = Pen
	}
	s.tool = t
}

// Tool returns the selected tool.
func (s *Session) Tool() Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

// SetColor selects the pen color for the next stroke.
func (s *Session) SetColor(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == "" || c == core.EraserColor {
		return
	}
	s.color = c
}

func (ev PointerEvent) valid() bool {
	return finite(ev.X) && finite(ev.Y)
}

func (s *Session) local(ev PointerEvent) core.Point {
	return core.Point{X: ev.X - s.origin.X, Y: ev.Y - s.origin.Y}
}

// PointerDown starts a stroke.
func (s *Session) PointerDown(ev PointerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !ev.valid() {
		return
	}
	s.down = true
	s.stroke = []core.Point{s.local(ev)}
	s.dirty = true
}

// PointerMove extends the current stroke. Moves without a pressed pointer
// are ignored.
func (s *Session) PointerMove(ev PointerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.down || !ev.valid() {
		return
	}
	s.stroke = append(s.stroke, s.local(ev))
	s.dirty = true
}

// PointerUp ends the current stroke. A stroke of fewer than two points is
// dropped.
func (s *Session) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.commitLocked()
}

// PointerLeave behaves like PointerUp.
func (s *Session) PointerLeave() {
	s.PointerUp()
}

func (s *Session) commitLocked() {
	if s.down && len(s.stroke) >= 2 {
		s.paths = append(s.paths, s.newPathLocked(s.stroke))
	}
	s.down = false
	s.stroke = nil
	s.dirty = true
}

func (s *Session) newPathLocked(points []core.Point) core.DrawingPath {
	p := core.DrawingPath{
		Points: append([]core.Point(nil), points...),
		Color:  s.color,
		Width:  PenWidth,
	}
	if s.tool == Eraser {
		p.Color = core.EraserColor
		p.Width = EraserWidth
	}
	return p
}

// Undo removes the most recent committed path. It reports whether a path
// was removed.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.paths) == 0 {
		return false
	}
	s.paths = s.paths[:len(s.paths)-1]
	s.dirty = true
	return true
}

// Resize rebuilds the backing store for a new display size or pixel ratio
// and replays every committed path.
func (s *Session) Resize(width, height, dpr float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.surface.Resize(width, height, dpr)
	s.dirty = true
}

// Paths returns a copy of the committed paths.
func (s *Session) Paths() []core.DrawingPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.ClonePaths(s.paths)
}

// Surface renders pending changes, including the stroke in progress, and
// returns the surface.
func (s *Session) Surface() *Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		paths := s.paths
		if s.down && len(s.stroke) > 0 {
			paths = append(core.ClonePaths(s.paths), s.newPathLocked(s.stroke))
		}
		s.surface.Render(paths)
		s.dirty = false
	}
	return s.surface
}

// Image is shorthand for Surface().Image().
func (s *Session) Image() *image.RGBA {
	return s.Surface().Image()
}

// Save closes the session and returns the full updated path list.
// A stroke still in progress is committed when it has at least two points.
// Saving a closed session returns nil.
func (s *Session) Save() []core.DrawingPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.commitLocked()
	s.closed = true
	out := core.ClonePaths(s.paths)
	if out == nil {
		out = []core.DrawingPath{}
	}
	return out
}

// Cancel closes the session, discarding every change.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.down = false
	s.stroke = nil
}

// Closed reports whether Save or Cancel has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
