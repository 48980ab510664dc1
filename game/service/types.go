package service

import (
	"errors"
	"time"

	"github.com/wricardo/gridsnake/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrManualOnly      = errors.New("session is driven by its timer; only manual sessions accept tick calls")
	ErrUnknownKey      = errors.New("unknown key")
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Manual         bool               `json:"manual"`
	Running        bool               `json:"running"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Snapshot       *engine.Snapshot   `json:"snapshot"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// KeyResult contains the result of a key press
type KeyResult struct {
	Key      string          `json:"key"`
	Accepted bool            `json:"accepted"`
	Heading  engine.Heading  `json:"heading"`
	Snapshot engine.Snapshot `json:"snapshot"`
	Message  string          `json:"message"`
}

// TickResult contains the result of advancing a manual session
type TickResult struct {
	TicksExecuted  int             `json:"ticks_executed"`
	RequestedTicks int             `json:"requested_ticks"`
	Truncated      bool            `json:"truncated,omitempty"`
	Limit          int             `json:"limit,omitempty"`
	Snapshot       engine.Snapshot `json:"snapshot"`
	Events         []engine.Event  `json:"events"`
	StoppedReason  string          `json:"stopped_reason,omitempty"`
	GameOver       bool            `json:"game_over"`
}

// HistoryOptions configures event history retrieval
type HistoryOptions struct {
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Order string           `json:"order"` // "asc" or "desc"
	Type  engine.EventType `json:"type,omitempty"`
}

// HistoryResponse contains paginated event history
type HistoryResponse struct {
	Events      []engine.Event `json:"events"`
	TotalEvents int            `json:"total_events"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	GridWidth   int    `json:"grid_width"`
	GridHeight  int    `json:"grid_height"`
	CellSize    int    `json:"cell_size"`
	TickRate    int    `json:"tick_rate"`
	SnakeLength int    `json:"snake_length"`
}

// NewConfigInfo summarizes a configuration stored under filename
func NewConfigInfo(filename, configID string, config *engine.GameConfig) *ConfigInfo {
	return &ConfigInfo{
		Filename:    filename,
		ConfigID:    configID,
		Name:        config.Name,
		Description: config.Description,
		GridWidth:   config.GridWidth,
		GridHeight:  config.GridHeight,
		CellSize:    config.CellSize,
		TickRate:    config.TickRate,
		SnakeLength: len(config.InitialSnake),
	}
}
