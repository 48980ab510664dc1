package render

import (
	"github.com/wricardo/gridsnake/game/engine"
)

// Painter draws snapshots onto a Surface
type Painter struct {
	colors Colors
}

// NewPainter creates a painter for the given palette
func NewPainter(p engine.Palette) (*Painter, error) {
	colors, err := ResolvePalette(p)
	if err != nil {
		return nil, err
	}
	return &Painter{colors: colors}, nil
}

// Colors returns the resolved palette
func (p *Painter) Colors() Colors {
	return p.colors
}

// Paint draws one frame: background checkerboard, grid lines, the apple and
// then every snake cell, in that order.
func (p *Painter) Paint(s Surface, snap engine.Snapshot) {
	g := snap.Grid
	cs := g.CellSize
	w, h := g.PixelWidth(), g.PixelHeight()

	s.Clear(0, 0, w, h)

	for col := 0; col < g.Width; col++ {
		for row := 0; row < g.Height; row++ {
			c := p.colors.Grass2
			if col%2 == row%2 {
				c = p.colors.Grass1
			}
			s.FillRect(col*cs, row*cs, cs, cs, c)
		}
	}

	for x := 0; x < w; x += cs {
		s.DrawLine(x, 0, x, h, p.colors.Line)
	}
	for y := 0; y < h; y += cs {
		s.DrawLine(0, y, w, y, p.colors.Line)
	}

	s.FillRect(snap.Apple.X, snap.Apple.Y, cs, cs, p.colors.Apple)

	for _, c := range snap.Snake {
		s.FillRect(c.X, c.Y, cs, cs, p.colors.Snake)
	}
}
