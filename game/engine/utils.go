package engine

// PlaceApple picks a new apple cell uniformly at random over the field.
// Unless overlap is allowed, cells occupied by the snake are skipped; when
// no free cell is left it reports false.
func PlaceApple(g Geometry, snake []Cell, allowOverlap bool, rng Source) (Cell, bool) {
	if g.CellCount() == 0 {
		return Cell{}, false
	}

	if allowOverlap {
		return g.CellAt(rng.Intn(g.Width), rng.Intn(g.Height)), true
	}

	occupied := Occupancy(snake)
	free := g.CellCount() - CountOccupied(g, occupied)
	if free <= 0 {
		return Cell{}, false
	}

	target := rng.Intn(free)
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			c := g.CellAt(col, row)
			if occupied[c] {
				continue
			}
			if target == 0 {
				return c, true
			}
			target--
		}
	}

	return Cell{}, false
}

// Occupancy returns the set of cells covered by the snake
func Occupancy(snake []Cell) map[Cell]bool {
	set := make(map[Cell]bool, len(snake))
	for _, c := range snake {
		set[c] = true
	}
	return set
}

// CountOccupied counts the distinct occupied cells that lie on the visible field
func CountOccupied(g Geometry, occupied map[Cell]bool) int {
	count := 0
	for c := range occupied {
		if g.Contains(c) {
			count++
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two cells in grid steps
func ManhattanDistance(g Geometry, from, to Cell) int {
	fc, fr := g.ColRow(from)
	tc, tr := g.ColRow(to)
	return abs(fc-tc) + abs(fr-tr)
}

// NextHead returns where the head would land after one tick along h
func NextHead(s Snapshot, h Heading) Cell {
	dx, dy := h.Delta()
	head := s.Head()
	return s.Grid.Wrap(Cell{X: head.X + dx*s.Grid.CellSize, Y: head.Y + dy*s.Grid.CellSize})
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
