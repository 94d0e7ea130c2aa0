package drawing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/framenotes/pkg/core"
)

func line(color string, width float64, pts ...core.Point) core.DrawingPath {
	return core.DrawingPath{Points: pts, Color: color, Width: width}
}

func pt(x, y float64) core.Point { return core.Point{X: x, Y: y} }

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#ff0000", color.NRGBA{255, 0, 0, 255}, true},
		{"#0F0", color.NRGBA{0, 255, 0, 255}, true},
		{"#0000ff80", color.NRGBA{0, 0, 255, 128}, true},
		{"Blue", color.NRGBA{0, 0, 255, 255}, true},
		{"#12", color.NRGBA{A: 255}, false},
		{"#zzzzzz", color.NRGBA{A: 255}, false},
		{"rgb(1,2,3)", color.NRGBA{A: 255}, false},
	}
	for _, tc := range cases {
		got, ok := ParseColor(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestSurface(t *testing.T) {
	t.Run("Backing Store Scales With DPR", func(t *testing.T) {
		s := NewSurface(100, 50, 2)
		assert.Equal(t, image.Rect(0, 0, 200, 100), s.Image().Bounds())

		s.Resize(10.5, 10, 1.5)
		assert.Equal(t, image.Rect(0, 0, 16, 15), s.Image().Bounds())

		s.Resize(10, 10, 0)
		assert.Equal(t, 1.0, s.DevicePixelRatio())
	})

	t.Run("Unusable Sizes Are Bounded", func(t *testing.T) {
		s := NewSurface(math.NaN(), 10, 1)
		assert.Equal(t, image.Rect(0, 0, 0, 10), s.Image().Bounds())

		s.Resize(math.Inf(1), -5, math.Inf(1))
		assert.True(t, s.Image().Bounds().Empty())
		assert.Equal(t, 1.0, s.DevicePixelRatio())

		s.Resize(1e12, 100, 2)
		b := s.Image().Bounds()
		assert.LessOrEqual(t, b.Dx(), MaxBackingSide)
		assert.LessOrEqual(t, b.Dy(), MaxBackingSide)
		assert.Less(t, s.DevicePixelRatio(), 2.0)

		s.Resize(50, 50, 1)
		assert.NotPanics(t, func() {
			s.Render([]core.DrawingPath{
				line("#ff0000", math.NaN(), pt(1, 1), pt(40, 40)),
				line("#ff0000", math.Inf(1), pt(1, 1), pt(40, 40)),
				line("#ff0000", 3, pt(math.NaN(), 1), pt(-1e300, 1e300), pt(10, 10)),
			})
		})
	})

	t.Run("Drawing Uses CSS Pixels", func(t *testing.T) {
		s := NewSurface(100, 50, 2)
		s.Render([]core.DrawingPath{line("#ff0000", 3, pt(10, 25), pt(90, 25))})

		// CSS (50,25) is device (100,50).
		c := s.Image().RGBAAt(100, 50)
		assert.Greater(t, c.A, uint8(240))
		assert.Greater(t, c.R, uint8(240))
		assert.Zero(t, s.Image().RGBAAt(100, 5).A)
	})

	t.Run("Eraser Only Affects Earlier Paths", func(t *testing.T) {
		s := NewSurface(100, 20, 1)
		a := line("#ff0000", PenWidth, pt(5, 10), pt(95, 10))
		b := line(core.EraserColor, EraserWidth, pt(20, 0), pt(20, 20))
		c := line("#0000ff", PenWidth, pt(20, 2), pt(20, 18))
		s.Render([]core.DrawingPath{a, b, c})

		// Inside the eraser band but away from C: A is gone.
		assert.Zero(t, s.At(11, 10).A)

		// C sits on top of the erased region and is fully visible.
		onC := s.At(20, 10)
		assert.Greater(t, onC.A, uint8(240))
		assert.Greater(t, onC.B, uint8(240))
		assert.Less(t, onC.R, uint8(10))

		// A is untouched outside the eraser band.
		onA := s.At(60, 10)
		assert.Greater(t, onA.A, uint8(240))
		assert.Greater(t, onA.R, uint8(240))
	})

	t.Run("Order Matters", func(t *testing.T) {
		s := NewSurface(100, 20, 1)
		a := line("#ff0000", PenWidth, pt(5, 10), pt(95, 10))
		b := line(core.EraserColor, EraserWidth, pt(20, 0), pt(20, 20))

		// Eraser first, pen second: nothing is erased.
		s.Render([]core.DrawingPath{b, a})
		assert.Greater(t, s.At(11, 10).A, uint8(240))
	})

	t.Run("Pen Has Glow", func(t *testing.T) {
		s := NewSurface(40, 40, 1)
		s.Render([]core.DrawingPath{line("#00ff00", PenWidth, pt(5, 20), pt(35, 20))})

		// Just outside the core stroke the glow leaves a faint tint.
		halo := s.At(20, 23)
		assert.Greater(t, halo.A, uint8(0))
		assert.Less(t, halo.A, uint8(200))
		assert.Zero(t, s.At(20, 35).A)
	})

	t.Run("Render Replaces Previous Frame", func(t *testing.T) {
		s := NewSurface(40, 40, 1)
		s.Render([]core.DrawingPath{line("#00ff00", PenWidth, pt(5, 20), pt(35, 20))})
		s.Render(nil)
		for _, v := range s.Image().Pix {
			require.Zero(t, v)
		}
	})

	t.Run("Composite And PNG", func(t *testing.T) {
		s := NewSurface(20, 20, 1)
		s.Render([]core.DrawingPath{line("#ff0000", PenWidth, pt(2, 10), pt(18, 10))})

		bg := image.NewRGBA(image.Rect(0, 0, 10, 10))
		for i := range bg.Pix {
			bg.Pix[i] = 255
		}
		out := s.Composite(bg)
		corner := out.RGBAAt(1, 1)
		assert.Equal(t, uint8(255), corner.A)
		assert.Greater(t, corner.G, uint8(250))

		var buf bytes.Buffer
		require.NoError(t, s.EncodePNG(&buf))
		img, err := png.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, s.Image().Bounds(), img.Bounds())
	})
}

func TestSession(t *testing.T) {
	newSession := func(paths ...core.DrawingPath) *Session {
		return NewSession(Config{
			Width:            100,
			Height:           100,
			DevicePixelRatio: 2,
			Paths:            paths,
			Origin:           pt(10, 20),
		})
	}

	t.Run("Events Map To Local Coordinates", func(t *testing.T) {
		s := newSession()
		s.SetColor("#ff0000")
		s.PointerDown(PointerEvent{X: 15, Y: 25})
		s.PointerMove(PointerEvent{X: 30, Y: 40})
		s.PointerUp()

		paths := s.Paths()
		require.Len(t, paths, 1)
		assert.Equal(t, []core.Point{pt(5, 5), pt(20, 20)}, paths[0].Points)
		assert.Equal(t, "#ff0000", paths[0].Color)
		assert.Equal(t, PenWidth, paths[0].Width)
	})

	t.Run("Non-Finite Events Are Ignored", func(t *testing.T) {
		s := newSession()
		s.PointerDown(PointerEvent{X: 15, Y: 25})
		s.PointerMove(PointerEvent{X: math.NaN(), Y: 40})
		s.PointerMove(PointerEvent{X: 30, Y: math.Inf(-1)})
		s.PointerMove(PointerEvent{X: 30, Y: 40})
		s.PointerUp()

		paths := s.Paths()
		require.Len(t, paths, 1)
		assert.Equal(t, []core.Point{pt(5, 5), pt(20, 20)}, paths[0].Points)
	})

	t.Run("Taps Are Dropped", func(t *testing.T) {
		s := newSession()
		s.PointerDown(PointerEvent{X: 50, Y: 50})
		s.PointerUp()
		assert.Empty(t, s.Paths())
	})

	t.Run("Moves Without Press Are Ignored", func(t *testing.T) {
		s := newSession()
		s.PointerMove(PointerEvent{X: 50, Y: 50})
		s.PointerMove(PointerEvent{X: 60, Y: 50})
		s.PointerUp()
		assert.Empty(t, s.Paths())
	})

	t.Run("Eraser Strokes Use Sentinel", func(t *testing.T) {
		s := newSession()
		s.SetTool(Eraser)
		s.SetColor(core.EraserColor)
		s.PointerDown(PointerEvent{X: 10, Y: 20})
		s.PointerMove(PointerEvent{X: 20, Y: 30})
		s.PointerLeave()

		paths := s.Paths()
		require.Len(t, paths, 1)
		assert.True(t, paths[0].IsEraser())
		assert.Equal(t, EraserWidth, paths[0].Width)
	})

	t.Run("Undo Pops Last", func(t *testing.T) {
		existing := line("#000000", PenWidth, pt(1, 1), pt(2, 2))
		s := newSession(existing)
		s.PointerDown(PointerEvent{X: 10, Y: 20})
		s.PointerMove(PointerEvent{X: 50, Y: 60})
		s.PointerUp()
		require.Len(t, s.Paths(), 2)

		assert.True(t, s.Undo())
		assert.Equal(t, []core.DrawingPath{existing}, s.Paths())
		assert.True(t, s.Undo())
		assert.False(t, s.Undo())
	})

	t.Run("Save Commits Stroke In Progress", func(t *testing.T) {
		s := newSession()
		s.PointerDown(PointerEvent{X: 10, Y: 20})
		s.PointerMove(PointerEvent{X: 50, Y: 60})

		saved := s.Save()
		require.Len(t, saved, 1)
		assert.True(t, s.Closed())

		// Further input is ignored and a second save returns nothing.
		s.PointerDown(PointerEvent{X: 10, Y: 20})
		s.PointerMove(PointerEvent{X: 50, Y: 60})
		s.PointerUp()
		assert.Len(t, s.Paths(), 1)
		assert.Nil(t, s.Save())
	})

	t.Run("Save Drops Short Stroke In Progress", func(t *testing.T) {
		s := newSession()
		s.PointerDown(PointerEvent{X: 10, Y: 20})
		assert.Equal(t, []core.DrawingPath{}, s.Save())
	})

	t.Run("Cancel Leaves Input Untouched", func(t *testing.T) {
		original := []core.DrawingPath{line("#000000", PenWidth, pt(1, 1), pt(2, 2))}
		s := newSession(original...)
		s.Undo()
		s.PointerDown(PointerEvent{X: 10, Y: 20})
		s.PointerMove(PointerEvent{X: 50, Y: 60})
		s.Cancel()

		assert.Len(t, original, 1)
		assert.Len(t, original[0].Points, 2)
		assert.True(t, s.Closed())
		assert.Nil(t, s.Save())
	})

	t.Run("Resize Replays Paths", func(t *testing.T) {
		s := newSession(line("#ff0000", PenWidth, pt(10, 50), pt(90, 50)))
		s.Resize(200, 100, 1)

		surf := s.Surface()
		assert.Equal(t, image.Rect(0, 0, 200, 100), surf.Image().Bounds())
		assert.Greater(t, surf.At(50, 50).A, uint8(240))
	})

	t.Run("Live Stroke Is Rendered", func(t *testing.T) {
		s := newSession()
		s.SetColor("#0000ff")
		s.PointerDown(PointerEvent{X: 20, Y: 70})
		s.PointerMove(PointerEvent{X: 90, Y: 70})

		assert.Greater(t, s.Surface().At(50, 50).B, uint8(240))
		assert.Empty(t, s.Paths())
	})

	t.Run("Mid Stroke Resize Does Not Panic", func(t *testing.T) {
		s := newSession()
		s.PointerDown(PointerEvent{X: 20, Y: 70})
		s.Resize(0, 0, 1)
		s.PointerMove(PointerEvent{X: 90, Y: 70})
		assert.NotPanics(t, func() {
			s.Surface()
			s.Save()
		})
	})
}
