package engine

import "fmt"

// Status represents where a game run is in its lifecycle
type Status string

const (
	StatusRunning Status = "running"
	StatusDead    Status = "dead"
	StatusWon     Status = "won"

	// Validation constants
	MinTickRate         = 1
	MaxTickRate         = 60
	MinCellSize         = 1
	MaxCellSize         = 256
	MinGridCells        = 2
	MaxGridCells        = 128
	MaxTicksPerCall     = 500
	WebSocketBufferSize = 256
)

// Terminal reports whether no further ticks will change the game
func (s Status) Terminal() bool {
	return s == StatusDead || s == StatusWon
}

// Heading is the direction the snake travels on the next tick
type Heading int

const (
	HeadingRight Heading = iota
	HeadingLeft
	HeadingUp
	HeadingDown
)

// Headings lists every heading in a stable order
var Headings = []Heading{HeadingUp, HeadingDown, HeadingLeft, HeadingRight}

// String returns the lowercase heading name used in JSON and logs
func (h Heading) String() string {
	switch h {
	case HeadingRight:
		return "right"
	case HeadingLeft:
		return "left"
	case HeadingUp:
		return "up"
	case HeadingDown:
		return "down"
	}
	return fmt.Sprintf("heading(%d)", int(h))
}

// Opposite returns the heading pointing the other way
func (h Heading) Opposite() Heading {
	switch h {
	case HeadingRight:
		return HeadingLeft
	case HeadingLeft:
		return HeadingRight
	case HeadingUp:
		return HeadingDown
	case HeadingDown:
		return HeadingUp
	}
	return h
}

// Delta returns the unit step of the heading in grid cells.
// Screen coordinates grow downwards, so up is -y.
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case HeadingRight:
		return 1, 0
	case HeadingLeft:
		return -1, 0
	case HeadingUp:
		return 0, -1
	case HeadingDown:
		return 0, 1
	}
	return 0, 0
}

// ParseHeading converts a heading name into a Heading
func ParseHeading(name string) (Heading, error) {
	for _, h := range Headings {
		if h.String() == name {
			return h, nil
		}
	}
	return HeadingRight, fmt.Errorf("unknown heading %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (h Heading) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (h *Heading) UnmarshalText(text []byte) error {
	parsed, err := ParseHeading(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Cell is a pixel-aligned grid position. X and Y are always multiples of
// the cell size while the cell is on the visible grid.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Palette holds the hex colors used by renderers
type Palette struct {
	Snake  string `json:"snake"`
	Apple  string `json:"apple"`
	Line   string `json:"line"`
	Grass1 string `json:"grass1"`
	Grass2 string `json:"grass2"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	TickRate          int     `json:"tick_rate"`
	CellSize          int     `json:"cell_size"`
	GridWidth         int     `json:"grid_width"`
	GridHeight        int     `json:"grid_height"`
	InitialSnake      []Cell  `json:"initial_snake"`
	InitialHeading    Heading `json:"initial_heading"`
	Palette           Palette `json:"palette"`
	AllowAppleOnSnake bool    `json:"allow_apple_on_snake,omitempty"`
	Seed              int64   `json:"seed,omitempty"`
}

// Geometry returns the grid geometry described by the config
func (c *GameConfig) Geometry() Geometry {
	return Geometry{CellSize: c.CellSize, Width: c.GridWidth, Height: c.GridHeight}
}

// Snapshot is the complete state of one game run after a tick.
// Snapshots are values: Step never modifies the snapshot it was given and
// never shares the Snake slice with it.
type Snapshot struct {
	RunID       string   `json:"run_id"`
	Tick        uint64   `json:"tick"`
	Grid        Geometry `json:"grid"`
	Snake       []Cell   `json:"snake"`
	Apple       Cell     `json:"apple"`
	Heading     Heading  `json:"heading"`
	Status      Status   `json:"status"`
	Length      int      `json:"length"`
	ApplesEaten int      `json:"apples_eaten"`
	Ate         bool     `json:"ate,omitempty"`
	Collided    bool     `json:"collided,omitempty"`

	AllowAppleOnSnake bool `json:"allow_apple_on_snake,omitempty"`
}

// Head returns the first snake cell
func (s Snapshot) Head() Cell {
	if len(s.Snake) == 0 {
		return Cell{}
	}
	return s.Snake[0]
}

// Clone returns a copy that shares no memory with s
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Snake = append([]Cell(nil), s.Snake...)
	return c
}

// EventType identifies entries in a session's event history
type EventType string

const (
	EventApple     EventType = "apple"
	EventCollision EventType = "collision"
	EventWin       EventType = "win"
	EventKey       EventType = "key"
	EventReset     EventType = "reset"
)

// Event records something notable that happened during a game
type Event struct {
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Tick      uint64    `json:"tick"`
	Head      Cell      `json:"head"`
	Length    int       `json:"length"`
	Key       string    `json:"key,omitempty"`
	Accepted  bool      `json:"accepted,omitempty"`
	Timestamp int64     `json:"timestamp"`
	Number    int       `json:"number"`
}
