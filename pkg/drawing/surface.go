package drawing

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/aretw0/framenotes/pkg/core"
)

// MaxBackingSide bounds each side of the backing store in device pixels.
// Larger surfaces are rendered at a reduced pixel ratio.
const MaxBackingSide = 4096

// Surface is the off-screen bitmap behind a canvas.
// The backing store is sized to the display size times the device pixel
// ratio; drawing coordinates stay in CSS pixels and are scaled uniformly.
type Surface struct {
	width  float64
	height float64
	dpr    float64
	img    *image.RGBA
}

// NewSurface allocates a transparent surface.
func NewSurface(width, height, dpr float64) *Surface {
	s := &Surface{}
	s.Resize(width, height, dpr)
	return s
}

// Resize rebuilds the backing store. The surface is left transparent; callers
// replay their paths with Render.
func (s *Surface) Resize(width, height, dpr float64) {
	if !finite(dpr) || dpr <= 0 {
		dpr = 1
	}
	s.width = extent(width)
	s.height = extent(height)
	if side := math.Max(s.width, s.height); side*dpr > MaxBackingSide {
		dpr = MaxBackingSide / side
	}
	s.dpr = dpr
	pw := min(int(math.Ceil(s.width*dpr)), MaxBackingSide)
	ph := min(int(math.Ceil(s.height*dpr)), MaxBackingSide)
	s.img = image.NewRGBA(image.Rect(0, 0, pw, ph))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// extent turns a display length from user data into a usable one.
func extent(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

// Size returns the display size in CSS pixels.
func (s *Surface) Size() (width, height float64) {
	return s.width, s.height
}

// DevicePixelRatio returns the backing-store scale.
func (s *Surface) DevicePixelRatio() float64 {
	return s.dpr
}

// Image returns the backing bitmap.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Render clears the surface and replays paths in order.
// An eraser path only removes pixels painted by paths before it.
func (s *Surface) Render(paths []core.DrawingPath) {
	s.Clear()
	for _, p := range paths {
		s.paint(p)
	}
}

func (s *Surface) paint(p core.DrawingPath) {
	b := s.img.Bounds()
	if b.Empty() || len(p.Points) == 0 {
		return
	}

	width := p.Width
	if !finite(width) || width <= 0 {
		width = PenWidth
		if p.IsEraser() {
			width = EraserWidth
		}
	}

	mask := s.coverage(p.Points, math.Min(width, MaxBackingSide))

	if p.IsEraser() {
		destinationOut(s.img, mask)
		return
	}

	c, _ := ParseColor(p.Color)
	glow := c
	glow.A = uint8(float64(c.A) * 0.5)
	halo := boxBlur(mask, int(math.Round(GlowRadius*s.dpr)))
	draw.DrawMask(s.img, b, image.NewUniform(glow), image.Point{}, halo, image.Point{}, draw.Over)
	draw.DrawMask(s.img, b, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// coverage rasterizes a round-capped, round-joined stroke into an alpha mask
// in device pixels.
func (s *Surface) coverage(pts []core.Point, width float64) *image.Alpha {
	b := s.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	r := width * s.dpr / 2

	scaled := make([]core.Point, 0, len(pts))
	for _, p := range pts {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		scaled = append(scaled, core.Point{X: clampCoord(p.X * s.dpr), Y: clampCoord(p.Y * s.dpr)})
	}

	for i, p := range scaled {
		addDisc(z, p, r)
		if i > 0 {
			addSegment(z, scaled[i-1], p, r)
		}
	}

	mask := image.NewAlpha(b)
	z.Draw(mask, b, image.Opaque, image.Point{})
	return mask
}

// clampCoord keeps far off-canvas points from stretching the rasterizer's
// scanline loops.
func clampCoord(v float64) float64 {
	const limit = 2 * MaxBackingSide
	return math.Max(-limit, math.Min(v, limit))
}

// All shapes are emitted with the same winding so overlaps accumulate
// instead of cancelling.
func addDisc(z *vector.Rasterizer, c core.Point, r float64) {
	if r <= 0 {
		return
	}
	n := int(math.Ceil(r * 2))
	n = max(12, min(n, 72))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x := float32(c.X + r*math.Cos(a))
		y := float32(c.Y + r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

func addSegment(z *vector.Rasterizer, a, b core.Point, r float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 || r <= 0 {
		return
	}
	nx, ny := -dy/l*r, dx/l*r
	quad := [4]core.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}
	if shoelace(quad[:]) < 0 {
		quad[1], quad[3] = quad[3], quad[1]
	}
	z.MoveTo(float32(quad[0].X), float32(quad[0].Y))
	for _, p := range quad[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
}

func shoelace(pts []core.Point) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

// destinationOut scales every destination pixel by the inverse of the mask.
func destinationOut(dst *image.RGBA, mask *image.Alpha) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			keep := uint32(255 - a)
			i := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				dst.Pix[i+c] = uint8(uint32(dst.Pix[i+c]) * keep / 255)
			}
		}
	}
}

// boxBlur returns a copy of src blurred horizontally then vertically.
func boxBlur(src *image.Alpha, radius int) *image.Alpha {
	if radius <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewAlpha(b)
	out := image.NewAlpha(b)
	span := 2*radius + 1

	for y := 0; y < h; y++ {
		sum := 0
		for x := -radius; x <= radius; x++ {
			sum += alphaAt(src, x, y, w, h)
		}
		for x := 0; x < w; x++ {
			tmp.Pix[y*tmp.Stride+x] = uint8(sum / span)
			sum += alphaAt(src, x+radius+1, y, w, h) - alphaAt(src, x-radius, y, w, h)
		}
	}
	for x := 0; x < w; x++ {
		sum := 0
		for y := -radius; y <= radius; y++ {
			sum += alphaAt(tmp, x, y, w, h)
		}
		for y := 0; y < h; y++ {
			out.Pix[y*out.Stride+x] = uint8(sum / span)
			sum += alphaAt(tmp, x, y+radius+1, w, h) - alphaAt(tmp, x, y-radius, w, h)
		}
	}
	return out
}

func alphaAt(img *image.Alpha, x, y, w, h int) int {
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0
	}
	return int(img.Pix[y*img.Stride+x])
}

// Composite draws the annotation layer over bg, which is scaled to fill the
// surface. A nil bg yields the layer over transparency.
func (s *Surface) Composite(bg image.Image) *image.RGBA {
	b := s.img.Bounds()
	out := image.NewRGBA(b)
	if bg != nil && !b.Empty() {
		xdraw.CatmullRom.Scale(out, b, bg, bg.Bounds(), xdraw.Src, nil)
	}
	draw.Draw(out, b, s.img, image.Point{}, draw.Over)
	return out
}

// EncodePNG writes the annotation layer as a PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// At returns the color at a CSS-pixel coordinate.
func (s *Surface) At(x, y float64) color.RGBA {
	return s.img.RGBAAt(int(x*s.dpr), int(y*s.dpr))
}
