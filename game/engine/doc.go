// Package engine provides the core game logic for Grid Snake.
//
// The engine package implements the game mechanics including:
//   - Grid geometry and toroidal wraparound with a one cell overshoot window
//   - The per-tick transition (move, wrap, self-collision, apple, tail trim)
//   - Mapping arrow keys to headings while rejecting reversals
//   - Apple placement and the grid-filled win condition
//   - Configuration loading and validation
//
// Core Types:
//
// Step is the pure transition function from one Snapshot to the next.
// GameEngine wraps it for a single session: it owns the heading slot written
// by input, the random source, and an event history. GameConfig defines the
// field and the starting snake and is loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("configs", "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.PressKey(engine.KeyArrowUp)
//	snap := gameEngine.Tick()
//
// Game Rules:
//
// The snake moves one cell per tick along its heading. Leaving the field on
// one side brings it back on the other. Eating the apple grows the snake by
// one cell. Running into its own body ends the run; filling the whole field
// wins it.
package engine
