// Command validate provides a small CLI that validates game configuration JSON
// files in the ../configs directory (or the directory given as the first
// argument). It checks:
//   - JSON structure and the engine's own config rules
//   - The config name matches its file name
//   - Free cells remain for apples once the snake is placed
//   - The snake and apple colors stand out against both grass colors
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/wricardo/gridsnake/game/engine"
)

// minContrast is the smallest CIE76 Lab distance accepted between a sprite
// color and a grass color
const minContrast = 0.2

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	config, err := engine.ParseGameConfig(data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	if id := strings.TrimSuffix(result.File, ".json"); config.Name != id {
		result.fail("name %q does not match file name %q", config.Name, id)
	}

	free := validateRoom(config)
	if free <= 0 {
		result.fail("initial snake leaves no free cell for an apple")
	}

	contrast := validateContrast(config.Palette)
	if !contrast.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, contrast.Errors...)

	if result.Valid {
		g := config.Geometry()
		result.info("Name: %s", config.Name)
		result.info("Grid: %dx%d cells of %dpx", g.Width, g.Height, g.CellSize)
		result.info("Snake: %d cells heading %s", len(config.InitialSnake), config.InitialHeading)
		result.info("Free cells: %d/%d", free, g.CellCount())
		result.info("Speed: %d ticks/s", config.TickRate)
	}

	return result
}

// validateRoom returns the number of cells not covered by the initial snake
func validateRoom(config *engine.GameConfig) int {
	g := config.Geometry()
	return g.CellCount() - engine.CountOccupied(g, engine.Occupancy(config.InitialSnake))
}

// validateContrast checks that the snake and apple are distinguishable from
// both checkerboard colors
func validateContrast(p engine.Palette) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	p = p.WithDefaults()
	parse := func(name, hex string) (colorful.Color, bool) {
		c, err := colorful.Hex(hex)
		if err != nil {
			result.fail("palette.%s %q is not a hex color", name, hex)
			return colorful.Color{}, false
		}
		return c, true
	}

	snake, okSnake := parse("snake", p.Snake)
	apple, okApple := parse("apple", p.Apple)
	grass1, okGrass1 := parse("grass1", p.Grass1)
	grass2, okGrass2 := parse("grass2", p.Grass2)
	if !okSnake || !okApple || !okGrass1 || !okGrass2 {
		return result
	}

	pairs := []struct {
		sprite, grass string
		a, b          colorful.Color
	}{
		{"snake", "grass1", snake, grass1},
		{"snake", "grass2", snake, grass2},
		{"apple", "grass1", apple, grass1},
		{"apple", "grass2", apple, grass2},
	}
	lowest := 0.0
	for i, pair := range pairs {
		d := pair.a.DistanceLab(pair.b)
		if i == 0 || d < lowest {
			lowest = d
		}
		if d < minContrast {
			result.fail("palette.%s is too close to palette.%s (distance %.2f)", pair.sprite, pair.grass, d)
		}
	}

	if result.Valid {
		result.info("Contrast: lowest sprite/grass distance %.2f", lowest)
	}
	return result
}

// main scans the config directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
