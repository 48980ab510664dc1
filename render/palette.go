package render

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/wricardo/gridsnake/game/engine"
)

// Colors is a palette resolved to drawable colors
type Colors struct {
	Snake  color.RGBA
	Apple  color.RGBA
	Line   color.RGBA
	Grass1 color.RGBA
	Grass2 color.RGBA
}

// ParseColor converts a #rrggbb or #rgb string to an opaque RGBA color
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// ResolvePalette parses every entry of p, filling blanks with the defaults
func ResolvePalette(p engine.Palette) (Colors, error) {
	p = p.WithDefaults()

	var (
		c   Colors
		err error
	)
	if c.Snake, err = ParseColor(p.Snake); err != nil {
		return Colors{}, fmt.Errorf("snake: %w", err)
	}
	if c.Apple, err = ParseColor(p.Apple); err != nil {
		return Colors{}, fmt.Errorf("apple: %w", err)
	}
	if c.Line, err = ParseColor(p.Line); err != nil {
		return Colors{}, fmt.Errorf("line: %w", err)
	}
	if c.Grass1, err = ParseColor(p.Grass1); err != nil {
		return Colors{}, fmt.Errorf("grass1: %w", err)
	}
	if c.Grass2, err = ParseColor(p.Grass2); err != nil {
		return Colors{}, fmt.Errorf("grass2: %w", err)
	}
	return c, nil
}
