package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette is the grass-field palette of the classic game
var DefaultPalette = Palette{
	Snake:  "#001524",
	Apple:  "#C21010",
	Line:   "#181818",
	Grass1: "#A6CF98",
	Grass2: "#557C55",
}

// WithDefaults fills blank palette entries from DefaultPalette
func (p Palette) WithDefaults() Palette {
	if p.Snake == "" {
		p.Snake = DefaultPalette.Snake
	}
	if p.Apple == "" {
		p.Apple = DefaultPalette.Apple
	}
	if p.Line == "" {
		p.Line = DefaultPalette.Line
	}
	if p.Grass1 == "" {
		p.Grass1 = DefaultPalette.Grass1
	}
	if p.Grass2 == "" {
		p.Grass2 = DefaultPalette.Grass2
	}
	return p
}

// DefaultConfig returns the classic 16x16 configuration: 8 ticks per second,
// 16 pixel cells and a five cell snake heading right on the seventh row.
func DefaultConfig() *GameConfig {
	const size = 16
	return &GameConfig{
		Name:        "classic",
		Description: "Classic 16x16 field with wraparound edges",
		TickRate:    8,
		CellSize:    size,
		GridWidth:   16,
		GridHeight:  16,
		InitialSnake: []Cell{
			{X: size * 5, Y: size * 6},
			{X: size * 4, Y: size * 6},
			{X: size * 3, Y: size * 6},
			{X: size * 2, Y: size * 6},
			{X: size, Y: size * 6},
		},
		InitialHeading: HeadingRight,
		Palette:        DefaultPalette,
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.TickRate < MinTickRate || config.TickRate > MaxTickRate {
		return fmt.Errorf("config validation: tick_rate must be between %d and %d, got %d", MinTickRate, MaxTickRate, config.TickRate)
	}
	if config.CellSize < MinCellSize || config.CellSize > MaxCellSize {
		return fmt.Errorf("config validation: cell_size must be between %d and %d, got %d", MinCellSize, MaxCellSize, config.CellSize)
	}
	if config.GridWidth < MinGridCells || config.GridWidth > MaxGridCells {
		return fmt.Errorf("config validation: grid_width must be between %d and %d, got %d", MinGridCells, MaxGridCells, config.GridWidth)
	}
	if config.GridHeight < MinGridCells || config.GridHeight > MaxGridCells {
		return fmt.Errorf("config validation: grid_height must be between %d and %d, got %d", MinGridCells, MaxGridCells, config.GridHeight)
	}

	g := config.Geometry()
	snake := config.InitialSnake
	if len(snake) == 0 {
		return fmt.Errorf("config validation: initial_snake must contain at least one cell")
	}
	if len(snake) >= g.CellCount() {
		return fmt.Errorf("config validation: initial_snake has %d cells but the grid only holds %d", len(snake), g.CellCount())
	}

	seen := make(map[Cell]bool, len(snake))
	for i, c := range snake {
		if c.X%g.CellSize != 0 || c.Y%g.CellSize != 0 {
			return fmt.Errorf("config validation: initial_snake[%d] (%d,%d) is not aligned to cell_size %d", i, c.X, c.Y, g.CellSize)
		}
		if !g.Contains(c) {
			return fmt.Errorf("config validation: initial_snake[%d] (%d,%d) is outside the %dx%d pixel field", i, c.X, c.Y, g.PixelWidth(), g.PixelHeight())
		}
		if seen[c] {
			return fmt.Errorf("config validation: initial_snake[%d] (%d,%d) is a duplicate cell", i, c.X, c.Y)
		}
		seen[c] = true

		if i > 0 && ManhattanDistance(g, snake[i-1], c) != 1 {
			return fmt.Errorf("config validation: initial_snake[%d] (%d,%d) is not adjacent to the previous cell", i, c.X, c.Y)
		}
	}

	if len(snake) > 1 && NextHead(Snapshot{Grid: g, Snake: snake}, config.InitialHeading) == snake[1] {
		return fmt.Errorf("config validation: initial_heading %s points back into the body", config.InitialHeading)
	}

	if err := ValidatePalette(config.Palette.WithDefaults()); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	return nil
}

// ValidatePalette checks that every palette entry is a #rrggbb color
func ValidatePalette(p Palette) error {
	entries := []struct {
		name  string
		value string
	}{
		{"snake", p.Snake},
		{"apple", p.Apple},
		{"line", p.Line},
		{"grass1", p.Grass1},
		{"grass2", p.Grass2},
	}
	for _, e := range entries {
		if _, err := colorful.Hex(e.value); err != nil {
			return fmt.Errorf("palette.%s %q is not a hex color", e.name, e.value)
		}
	}
	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filepath.Base(filename), err)
	}
	return config, nil
}

// ParseGameConfig decodes and validates a JSON configuration
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	config.Palette = config.Palette.WithDefaults()

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a game configuration by name from the given directory
func LoadConfigByName(dir, configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join(dir, configName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	return LoadGameConfig(configPath)
}

// InitSnapshotFromConfig creates the first snapshot of a run. The apple is
// placed with rng, so a seeded source gives a reproducible start.
func InitSnapshotFromConfig(config *GameConfig, runID string, rng Source) Snapshot {
	if config == nil {
		config = DefaultConfig()
	}

	g := config.Geometry()
	snake := append([]Cell(nil), config.InitialSnake...)

	apple, _ := PlaceApple(g, snake, config.AllowAppleOnSnake, rng)

	return Snapshot{
		RunID:             runID,
		Grid:              g,
		Snake:             snake,
		Apple:             apple,
		Heading:           config.InitialHeading,
		Status:            StatusRunning,
		Length:            len(snake),
		AllowAppleOnSnake: config.AllowAppleOnSnake,
	}
}
