// Package terminal implements render.Surface on a tcell screen. One grid cell
// is drawn as two terminal columns so the field keeps a square aspect.
package terminal

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// ColumnsPerCell is the number of terminal columns used for one grid cell
const ColumnsPerCell = 2

// Surface maps pixel coordinates onto terminal cells. Drawing is clipped to
// the field; the overshoot row and column just past it are never painted.
type Surface struct {
	screen   tcell.Screen
	cellSize int
	cols     int
	rows     int
	originX  int
	originY  int
}

// NewSurface creates a surface for a field of width x height pixels with the
// given pixel cell size
func NewSurface(screen tcell.Screen, cellSize, width, height int) *Surface {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Surface{
		screen:   screen,
		cellSize: cellSize,
		cols:     ceilDiv(max(width, 0), cellSize),
		rows:     ceilDiv(max(height, 0), cellSize),
	}
}

// SetOrigin moves the top left corner of the field on the screen
func (s *Surface) SetOrigin(x, y int) {
	s.originX, s.originY = x, y
}

// Origin returns the terminal position of the field's top left corner
func (s *Surface) Origin() (int, int) {
	return s.originX, s.originY
}

// Style returns the tcell style used to paint a cell of color c
func Style(c color.Color) tcell.Style {
	r, g, b, _ := c.RGBA()
	bg := tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
	return tcell.StyleDefault.Background(bg).Foreground(bg)
}

// Clear blanks every terminal cell covered by the rectangle
func (s *Surface) Clear(x, y, w, h int) {
	s.fill(x, y, w, h, tcell.StyleDefault)
}

// FillRect paints every terminal cell covered by the rectangle
func (s *Surface) FillRect(x, y, w, h int, c color.Color) {
	s.fill(x, y, w, h, Style(c))
}

// DrawLine draws an axis aligned line with box drawing runes over whatever
// background is already there. A vertical line takes the left column of each
// cell it crosses and crossings become '┼'. Diagonal lines are ignored.
func (s *Surface) DrawLine(x1, y1, x2, y2 int, c color.Color) {
	r, g, b, _ := c.RGBA()
	fg := tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))

	switch {
	case x1 == x2:
		col := floorDiv(x1, s.cellSize)
		row0, row1 := floorDiv(min(y1, y2), s.cellSize), ceilDiv(max(y1, y2), s.cellSize)
		for row := row0; row < row1; row++ {
			s.stroke(col, row, 0, '│', fg)
		}
	case y1 == y2:
		row := floorDiv(y1, s.cellSize)
		col0, col1 := floorDiv(min(x1, x2), s.cellSize), ceilDiv(max(x1, x2), s.cellSize)
		for col := col0; col < col1; col++ {
			for i := 0; i < ColumnsPerCell; i++ {
				s.stroke(col, row, i, '─', fg)
			}
		}
	}
}

// DrawText writes a line of text at a terminal position
func (s *Surface) DrawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Show flushes pending changes to the terminal
func (s *Surface) Show() {
	s.screen.Show()
}

func (s *Surface) inside(col, row int) bool {
	return col >= 0 && col < s.cols && row >= 0 && row < s.rows
}

// stroke merges a line rune into one terminal column of a cell
func (s *Surface) stroke(col, row, offset int, r rune, fg tcell.Color) {
	if !s.inside(col, row) {
		return
	}
	tx := s.originX + col*ColumnsPerCell + offset
	ty := s.originY + row

	prev, _, style, _ := s.screen.GetContent(tx, ty)
	if (prev == '│' && r == '─') || (prev == '─' && r == '│') || prev == '┼' {
		r = '┼'
	}
	s.screen.SetContent(tx, ty, r, nil, style.Foreground(fg))
}

func (s *Surface) fill(x, y, w, h int, style tcell.Style) {
	if w <= 0 || h <= 0 {
		return
	}

	col0, col1 := max(floorDiv(x, s.cellSize), 0), min(ceilDiv(x+w, s.cellSize), s.cols)
	row0, row1 := max(floorDiv(y, s.cellSize), 0), min(ceilDiv(y+h, s.cellSize), s.rows)

	for row := row0; row < row1; row++ {
		for col := col0; col < col1; col++ {
			tx := s.originX + col*ColumnsPerCell
			ty := s.originY + row
			for i := 0; i < ColumnsPerCell; i++ {
				s.screen.SetContent(tx+i, ty, ' ', nil, style)
			}
		}
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
