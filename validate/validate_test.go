package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/gridsnake/game/engine"
)

const validConfig = `{
	"name": "test",
	"description": "Test configuration",
	"tick_rate": 8,
	"cell_size": 10,
	"grid_width": 6,
	"grid_height": 4,
	"initial_snake": [
		{"x": 20, "y": 10},
		{"x": 10, "y": 10},
		{"x": 0, "y": 10}
	],
	"initial_heading": "right",
	"palette": {
		"snake": "#001524",
		"apple": "#C21010",
		"line": "#181818",
		"grass1": "#A6CF98",
		"grass2": "#557C55"
	}
}`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, "test.json", validConfig)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}

	if result.File != "test.json" {
		t.Errorf("Expected file name test.json, got %s", result.File)
	}

	found := false
	for _, info := range result.Errors {
		if info == "✓ Free cells: 21/24" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected free cell summary, got %v", result.Errors)
	}
}

func TestValidateConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "test.json", `{"name": "test", invalid json}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid result for invalid JSON")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Invalid JSON") {
		t.Errorf("Expected 'Invalid JSON' error, got %v", result.Errors)
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Expected 'Failed to read file' error, got %v", result.Errors)
	}
}

func TestValidateConfig_EngineRules(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		want    string
	}{
		{
			name:    "zero tick rate",
			replace: [2]string{`"tick_rate": 8`, `"tick_rate": 0`},
			want:    "tick_rate",
		},
		{
			name:    "narrow grid",
			replace: [2]string{`"grid_width": 6`, `"grid_width": 1`},
			want:    "grid_width",
		},
		{
			name:    "misaligned cell",
			replace: [2]string{`{"x": 0, "y": 10}`, `{"x": 5, "y": 10}`},
			want:    "not aligned",
		},
		{
			name:    "heading into body",
			replace: [2]string{`"initial_heading": "right"`, `"initial_heading": "left"`},
			want:    "points back into the body",
		},
		{
			name:    "bad color",
			replace: [2]string{`"#A6CF98"`, `"green"`},
			want:    "grass1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(validConfig, tt.replace[0], tt.replace[1], 1)
			result := validateConfig(writeConfig(t, "test.json", content))
			if result.Valid {
				t.Fatal("Expected invalid result")
			}
			if !strings.Contains(strings.Join(result.Errors, "\n"), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateConfig_NameMismatch(t *testing.T) {
	result := validateConfig(writeConfig(t, "other.json", validConfig))
	if result.Valid {
		t.Fatal("Expected invalid result for mismatched name")
	}
	if !strings.Contains(result.Errors[0], "does not match file name") {
		t.Errorf("Unexpected errors: %v", result.Errors)
	}
}

func TestValidateRoom(t *testing.T) {
	config := engine.DefaultConfig()
	if free := validateRoom(config); free != 16*16-5 {
		t.Errorf("Expected %d free cells, got %d", 16*16-5, free)
	}
}

func TestValidateContrast(t *testing.T) {
	t.Run("default palette", func(t *testing.T) {
		result := validateContrast(engine.DefaultPalette)
		if !result.Valid {
			t.Errorf("Expected default palette to pass, got %v", result.Errors)
		}
	})

	t.Run("snake matches grass", func(t *testing.T) {
		p := engine.DefaultPalette
		p.Snake = p.Grass2
		result := validateContrast(p)
		if result.Valid {
			t.Fatal("Expected low contrast to fail")
		}
		if !strings.Contains(result.Errors[0], "palette.snake is too close to palette.grass2") {
			t.Errorf("Unexpected errors: %v", result.Errors)
		}
	})

	t.Run("blank entries use defaults", func(t *testing.T) {
		result := validateContrast(engine.Palette{})
		if !result.Valid {
			t.Errorf("Expected blank palette to fall back to defaults, got %v", result.Errors)
		}
	})
}

func TestShippedConfigs(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "configs", "*.json"))
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(files) == 0 {
		t.Skip("Skipping test - configs directory not found")
	}

	for _, file := range files {
		result := validateConfig(file)
		if !result.Valid {
			t.Errorf("%s: %v", result.File, result.Errors)
		}
	}
}
