package render

import "image/color"

// Surface is the minimal 2D drawing target the painter needs. Coordinates are
// in pixels with the origin at the top left; implementations clip anything
// drawn outside their bounds.
type Surface interface {
	Clear(x, y, w, h int)
	FillRect(x, y, w, h int, c color.Color)
	DrawLine(x1, y1, x2, y2 int, c color.Color)
}
