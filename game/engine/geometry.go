package engine

// Geometry describes the play field: the cell size in pixels and the
// field dimensions in cells.
type Geometry struct {
	CellSize int `json:"cell_size"`
	Width    int `json:"width"`
	Height   int `json:"height"`
}

// PixelWidth returns the field width in pixels
func (g Geometry) PixelWidth() int {
	return g.Width * g.CellSize
}

// PixelHeight returns the field height in pixels
func (g Geometry) PixelHeight() int {
	return g.Height * g.CellSize
}

// CellCount returns the number of cells on the field, which is also the
// longest a snake can get
func (g Geometry) CellCount() int {
	return g.Width * g.Height
}

// CellAt returns the cell at the given column and row
func (g Geometry) CellAt(col, row int) Cell {
	return Cell{X: col * g.CellSize, Y: row * g.CellSize}
}

// ColRow returns the column and row of a cell
func (g Geometry) ColRow(c Cell) (col, row int) {
	if g.CellSize == 0 {
		return 0, 0
	}
	return c.X / g.CellSize, c.Y / g.CellSize
}

// Contains reports whether the cell lies on the visible field
func (g Geometry) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.PixelWidth() && c.Y >= 0 && c.Y < g.PixelHeight()
}

// Wrap folds a head that overshot an edge back onto the opposite side.
// Only the exact overshoot coordinates wrap: one cell past the far edge
// becomes 0, one cell before 0 becomes the pixel dimension. A head sitting
// exactly on the pixel dimension is left alone and wraps on the next step.
func (g Geometry) Wrap(c Cell) Cell {
	w, h := g.PixelWidth(), g.PixelHeight()

	switch c.X {
	case w + g.CellSize:
		c.X = 0
	case -g.CellSize:
		c.X = w
	}

	switch c.Y {
	case h + g.CellSize:
		c.Y = 0
	case -g.CellSize:
		c.Y = h
	}

	return c
}
