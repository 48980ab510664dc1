package engine

import (
	"math/rand"
	"reflect"
	"testing"
)

// seqSource returns the queued values in order, reduced modulo n
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func classicGrid() Geometry {
	return Geometry{CellSize: 16, Width: 16, Height: 16}
}

func runningSnapshot(g Geometry, h Heading, apple Cell, snake ...Cell) Snapshot {
	return Snapshot{
		Grid:    g,
		Snake:   snake,
		Apple:   apple,
		Heading: h,
		Status:  StatusRunning,
		Length:  len(snake),
	}
}

func TestStep_ClassicScenario(t *testing.T) {
	s := runningSnapshot(classicGrid(), HeadingRight, Cell{X: 0, Y: 0},
		Cell{80, 96}, Cell{64, 96}, Cell{48, 96}, Cell{32, 96}, Cell{16, 96})

	next := Step(s, &seqSource{})

	expected := []Cell{{96, 96}, {80, 96}, {64, 96}, {48, 96}, {32, 96}}
	if !reflect.DeepEqual(next.Snake, expected) {
		t.Errorf("Expected snake %v, got %v", expected, next.Snake)
	}
	if next.Length != 5 {
		t.Errorf("Expected length 5, got %d", next.Length)
	}
	if next.Tick != 1 {
		t.Errorf("Expected tick 1, got %d", next.Tick)
	}
	if next.Status != StatusRunning {
		t.Errorf("Expected status running, got %s", next.Status)
	}
	if next.Ate || next.Collided {
		t.Errorf("Expected no apple and no collision, got ate=%v collided=%v", next.Ate, next.Collided)
	}
}

func TestStep_DoesNotModifyInput(t *testing.T) {
	s := runningSnapshot(classicGrid(), HeadingRight, Cell{X: 96, Y: 96},
		Cell{80, 96}, Cell{64, 96}, Cell{48, 96})
	before := s.Clone()

	next := Step(s, &seqSource{vals: []int{7}})

	if !reflect.DeepEqual(s, before) {
		t.Errorf("Step modified its input: before %+v, after %+v", before, s)
	}

	next.Snake[0] = Cell{X: -1, Y: -1}
	if s.Snake[0] != (Cell{80, 96}) {
		t.Error("Returned snapshot shares the snake slice with its input")
	}
}

func TestStep_AppleConsumption(t *testing.T) {
	s := runningSnapshot(classicGrid(), HeadingRight, Cell{X: 16, Y: 0}, Cell{0, 0})

	next := Step(s, &seqSource{vals: []int{0, 5, 11, 200}})

	if next.Length != 2 || len(next.Snake) != 2 {
		t.Fatalf("Expected snake length 2 after eating, got %d (%v)", next.Length, next.Snake)
	}
	if next.Snake[0] != (Cell{16, 0}) {
		t.Errorf("Expected head at (16,0), got %v", next.Snake[0])
	}
	if next.Apple == (Cell{16, 0}) {
		t.Error("Expected apple to be regenerated away from (16,0)")
	}
	if !next.Grid.Contains(next.Apple) {
		t.Errorf("Expected apple on the field, got %v", next.Apple)
	}
	if !next.Ate || next.ApplesEaten != 1 {
		t.Errorf("Expected ate=true apples=1, got ate=%v apples=%d", next.Ate, next.ApplesEaten)
	}
}

func TestStep_AppleGrowsByOne(t *testing.T) {
	s := runningSnapshot(classicGrid(), HeadingRight, Cell{X: 96, Y: 96},
		Cell{80, 96}, Cell{64, 96}, Cell{48, 96}, Cell{32, 96}, Cell{16, 96})

	next := Step(s, &seqSource{vals: []int{3}})

	if next.Length != 6 {
		t.Errorf("Expected length 6, got %d", next.Length)
	}
	// The doubled head stays at the front for one tick
	if next.Snake[0] != next.Snake[1] {
		t.Errorf("Expected duplicated head after eating, got %v", next.Snake[:2])
	}

	after := Step(next, &seqSource{vals: []int{3}})
	if after.Length != 6 {
		t.Errorf("Expected length to stay 6 on the following tick, got %d", after.Length)
	}
	if after.Status != StatusRunning {
		t.Errorf("Doubled head must not count as a collision, got %s", after.Status)
	}
}

func TestStep_AppleAvoidsSnakeByDefault(t *testing.T) {
	g := Geometry{CellSize: 1, Width: 5, Height: 1}
	s := runningSnapshot(g, HeadingRight, Cell{2, 0}, Cell{1, 0}, Cell{0, 0})

	for seed := 0; seed < 10; seed++ {
		next := Step(s, &seqSource{vals: []int{seed}})
		if !next.Ate {
			t.Fatalf("seed %d: expected the apple to be eaten", seed)
		}
		if Occupancy(next.Snake)[next.Apple] {
			t.Errorf("seed %d: apple placed on the snake at %v (snake %v)", seed, next.Apple, next.Snake)
		}
	}
}

func TestStep_AppleMayOverlapWhenAllowed(t *testing.T) {
	g := Geometry{CellSize: 1, Width: 5, Height: 1}
	s := runningSnapshot(g, HeadingRight, Cell{1, 0}, Cell{0, 0})
	s.AllowAppleOnSnake = true

	next := Step(s, &seqSource{vals: []int{1, 0}})
	if next.Apple != (Cell{1, 0}) {
		t.Errorf("Expected apple placed on the snake at (1,0), got %v", next.Apple)
	}
}

func TestStep_Wraparound(t *testing.T) {
	g := classicGrid()
	w, h := g.PixelWidth(), g.PixelHeight()
	apple := Cell{X: 128, Y: 128}

	tests := []struct {
		name     string
		head     Cell
		heading  Heading
		expected Cell
	}{
		{"right past overshoot", Cell{w, 32}, HeadingRight, Cell{0, 32}},
		{"right onto overshoot column", Cell{w - 16, 32}, HeadingRight, Cell{w, 32}},
		{"left past zero", Cell{0, 32}, HeadingLeft, Cell{w, 32}},
		{"left from overshoot column", Cell{w, 32}, HeadingLeft, Cell{w - 16, 32}},
		{"down past overshoot", Cell{32, h}, HeadingDown, Cell{32, 0}},
		{"down onto overshoot row", Cell{32, h - 16}, HeadingDown, Cell{32, h}},
		{"up past zero", Cell{32, 0}, HeadingUp, Cell{32, h}},
		{"up from overshoot row", Cell{32, h}, HeadingUp, Cell{32, h - 16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := Step(runningSnapshot(g, tt.heading, apple, tt.head), &seqSource{})
			if next.Head() != tt.expected {
				t.Errorf("Expected head %v, got %v", tt.expected, next.Head())
			}
		})
	}
}

func TestStep_FullLapReturnsToStart(t *testing.T) {
	g := classicGrid()
	s := runningSnapshot(g, HeadingRight, Cell{X: 128, Y: 128}, Cell{32, 16})

	// Width cells plus the overshoot column
	for i := 0; i < g.Width+1; i++ {
		s = Step(s, &seqSource{})
	}

	if s.Head() != (Cell{32, 16}) {
		t.Errorf("Expected to be back at (32,16) after a full lap, got %v", s.Head())
	}
}

func TestStep_SelfCollisionHalts(t *testing.T) {
	g := classicGrid()
	// A hook: moving down from (32,32) lands on (32,48)
	s := runningSnapshot(g, HeadingDown, Cell{X: 200, Y: 200},
		Cell{32, 32}, Cell{48, 32}, Cell{48, 48}, Cell{32, 48}, Cell{16, 48})

	dead := Step(s, &seqSource{})

	if dead.Status != StatusDead {
		t.Fatalf("Expected status dead, got %s", dead.Status)
	}
	if !dead.Collided {
		t.Error("Expected collided flag on the terminal tick")
	}

	again := Step(dead, &seqSource{})
	if !reflect.DeepEqual(again, dead) {
		t.Errorf("Expected no mutation after the halt, got %+v", again)
	}
}

func TestStep_TailCellCountsAsCollision(t *testing.T) {
	g := classicGrid()
	// Square loop: the head moves onto the current tail
	s := runningSnapshot(g, HeadingDown, Cell{X: 200, Y: 200},
		Cell{32, 32}, Cell{48, 32}, Cell{48, 48}, Cell{32, 48})

	next := Step(s, &seqSource{})
	if next.Status != StatusDead {
		t.Errorf("Expected moving into the former tail to be fatal, got %s", next.Status)
	}
}

func TestStep_WinWhenGridFills(t *testing.T) {
	g := Geometry{CellSize: 1, Width: 2, Height: 2}
	s := runningSnapshot(g, HeadingDown, Cell{0, 1}, Cell{0, 0}, Cell{1, 0}, Cell{1, 1})

	won := Step(s, &seqSource{})

	if won.Status != StatusWon {
		t.Fatalf("Expected status won, got %s", won.Status)
	}
	if won.Length != g.CellCount() {
		t.Errorf("Expected length %d, got %d", g.CellCount(), won.Length)
	}

	again := Step(won, &seqSource{})
	if !reflect.DeepEqual(again, won) {
		t.Error("Expected a won game to stay unchanged")
	}
}

func TestStep_LengthInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := Geometry{CellSize: 16, Width: 8, Height: 8}
	apple, _ := PlaceApple(g, []Cell{{48, 48}}, false, rng)
	s := runningSnapshot(g, HeadingRight, apple, Cell{48, 48})

	for i := 0; i < 5000 && s.Status == StatusRunning; i++ {
		keys := []Key{KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight}
		s.Heading, _ = ApplyKey(s.Heading, keys[rng.Intn(len(keys))])

		before := s.Length
		next := Step(s, rng)

		if next.Length > g.CellCount() {
			t.Fatalf("tick %d: length %d exceeds cell count %d", i, next.Length, g.CellCount())
		}
		if len(next.Snake) != next.Length {
			t.Fatalf("tick %d: Length %d does not match len(Snake) %d", i, next.Length, len(next.Snake))
		}

		nearMax := before+2 >= g.CellCount()
		switch {
		case nearMax:
		case next.Ate && next.Length != before+1:
			t.Fatalf("tick %d: apple tick changed length %d -> %d", i, before, next.Length)
		case !next.Ate && next.Length != before:
			t.Fatalf("tick %d: plain tick changed length %d -> %d", i, before, next.Length)
		}

		s = next
	}
}

func TestHitsBody(t *testing.T) {
	tests := []struct {
		name     string
		snake    []Cell
		expected bool
	}{
		{"single cell", []Cell{{0, 0}}, false},
		{"no overlap", []Cell{{0, 0}, {1, 0}, {2, 0}}, false},
		{"head on tail", []Cell{{2, 0}, {1, 0}, {2, 0}}, true},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitsBody(tt.snake); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
