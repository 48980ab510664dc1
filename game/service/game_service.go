package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/wricardo/gridsnake/game/engine"
	"github.com/wricardo/gridsnake/game/loop"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, manual bool) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	PressKey(ctx context.Context, sessionID, key string) (*KeyResult, error)
	Tick(ctx context.Context, sessionID string, count int) (*TickResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	GetEventHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	WriteFrame(ctx context.Context, sessionID string, w io.Writer) error

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SnapshotListener receives every snapshot a session produces
type SnapshotListener func(sessionID string, snap engine.Snapshot)

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Count() int
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. Realtime sessions carry a
// Runner; manual sessions advance only through Tick calls.
type Session struct {
	ID        string
	ConfigID  string
	Engine    *engine.GameEngine
	Config    *engine.GameConfig
	Manual    bool
	Runner    *loop.Runner
	CreatedAt time.Time

	accessMu       sync.Mutex
	lastAccessedAt time.Time
}

// NewSession creates a session around an engine
func NewSession(id string, eng *engine.GameEngine, config *engine.GameConfig) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		lastAccessedAt: now,
	}
}

// Touch records an access
func (s *Session) Touch() {
	s.accessMu.Lock()
	s.lastAccessedAt = time.Now()
	s.accessMu.Unlock()
}

// LastAccessedAt returns the time of the last access
func (s *Session) LastAccessedAt() time.Time {
	s.accessMu.Lock()
	defer s.accessMu.Unlock()
	return s.lastAccessedAt
}

// Running reports whether the session's timer is active
func (s *Session) Running() bool {
	return s.Runner != nil && s.Runner.Running()
}
