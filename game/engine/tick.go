package engine

// Source is the random source used for apple placement. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Step advances a running game by exactly one tick and returns the new
// snapshot. The heading stored in s is the one the snake moves along.
//
// The order matters and follows the classic game loop:
//  1. shift a copy of the head one cell along the heading
//  2. prepend it to the body
//  3. wrap it across the field edges
//  4. compare it with every other cell (including the old tail)
//  5. on an apple, prepend it once more and place a new apple
//  6. drop the tail unless the snake already fills the grid
//
// A snapshot that is not running is returned unchanged.
func Step(s Snapshot, rng Source) Snapshot {
	if s.Status != StatusRunning || len(s.Snake) == 0 {
		return s
	}

	g := s.Grid
	dx, dy := s.Heading.Delta()
	head := s.Snake[0]
	newHead := g.Wrap(Cell{X: head.X + dx*g.CellSize, Y: head.Y + dy*g.CellSize})

	body := make([]Cell, 0, len(s.Snake)+2)
	body = append(body, newHead)
	body = append(body, s.Snake...)

	next := s
	next.Tick++
	next.Ate = false
	next.Collided = false

	if HitsBody(body) {
		next.Status = StatusDead
		next.Collided = true
	}

	if newHead == s.Apple {
		body = append(body, Cell{})
		copy(body[1:], body)
		body[0] = newHead
		next.Ate = true
		next.ApplesEaten++
	}

	if len(body) != g.CellCount() {
		body = body[:len(body)-1]
	}

	next.Snake = body
	next.Length = len(body)

	if next.Ate {
		if apple, ok := PlaceApple(g, body, s.AllowAppleOnSnake, rng); ok {
			next.Apple = apple
		}
	}

	if next.Status == StatusRunning && next.Length >= g.CellCount() {
		next.Status = StatusWon
	}

	return next
}

// HitsBody reports whether the head (index 0) overlaps any other cell
func HitsBody(snake []Cell) bool {
	if len(snake) < 2 {
		return false
	}
	head := snake[0]
	for _, c := range snake[1:] {
		if c == head {
			return true
		}
	}
	return false
}
