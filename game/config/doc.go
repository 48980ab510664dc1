// Package config provides configuration management for Grid Snake.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Configuration validation and caching
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - Field size in cells and the pixel size of one cell
//   - Tick rate in ticks per second
//   - The initial snake (head first, pixel coordinates) and heading
//   - The palette (snake, apple, grid line and the two grass colors)
//   - Whether apples may spawn on the snake, and an optional random seed
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("wide")
//
//	// Get default configuration (classic.json, or the built-in classic field)
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// Files that fail validation are skipped by ListConfigs and reported as
// ErrInvalidConfig by LoadConfig.
package config
