package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/wricardo/gridsnake/game/engine"
)

// ImageSurface draws into an in-memory RGBA image
type ImageSurface struct {
	img *image.RGBA
}

// NewImageSurface creates a transparent surface of the given pixel size
func NewImageSurface(w, h int) *ImageSurface {
	return &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Image returns the underlying image
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Clear resets a rectangle to transparent
func (s *ImageSurface) Clear(x, y, w, h int) {
	draw.Draw(s.img, image.Rect(x, y, x+w, y+h), image.Transparent, image.Point{}, draw.Src)
}

// FillRect fills a rectangle, clipped to the image bounds
func (s *ImageSurface) FillRect(x, y, w, h int, c color.Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawLine draws a one pixel line. Only horizontal and vertical lines are
// drawn exactly; anything else is stepped along the major axis.
func (s *ImageSurface) DrawLine(x1, y1, x2, y2 int, c color.Color) {
	dx, dy := x2-x1, y2-y1
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		s.img.Set(x1, y1, c)
		return
	}
	for i := 0; i <= steps; i++ {
		s.img.Set(x1+dx*i/steps, y1+dy*i/steps, c)
	}
}

// EncodePNG writes the surface as a PNG image
func (s *ImageSurface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// WritePNG paints snap on a fresh surface sized to its grid and encodes it
func (p *Painter) WritePNG(w io.Writer, snap engine.Snapshot) error {
	s := NewImageSurface(snap.Grid.PixelWidth(), snap.Grid.PixelHeight())
	p.Paint(s, snap)
	return s.EncodePNG(w)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
