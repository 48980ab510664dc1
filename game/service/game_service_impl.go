package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/gridsnake/game/engine"
	"github.com/wricardo/gridsnake/game/loop"
	"github.com/wricardo/gridsnake/render"
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithScheduler sets the scheduler that drives realtime sessions
func WithScheduler(sched loop.Scheduler) Option {
	return func(s *gameServiceImpl) {
		s.sched = sched
	}
}

// WithSnapshotListener registers a listener for every published snapshot
func WithSnapshotListener(fn SnapshotListener) Option {
	return func(s *gameServiceImpl) {
		s.listener = fn
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	sched    loop.Scheduler
	mu       sync.RWMutex

	listenerMu sync.RWMutex
	listener   SnapshotListener

	runCtx    context.Context
	runCancel context.CancelFunc
}

// Service is the concrete game service. It satisfies GameService and adds
// lifecycle methods used by the server.
type Service interface {
	GameService
	SetSnapshotListener(fn SnapshotListener)
	CleanupIdle(ctx context.Context, maxAge time.Duration) int
	Shutdown()
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &gameServiceImpl{
		sessions:  sessions,
		configs:   configs,
		runCtx:    ctx,
		runCancel: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sched == nil {
		s.sched = loop.NewTickerScheduler()
	}
	return s
}

// SetSnapshotListener replaces the snapshot listener
func (s *gameServiceImpl) SetSnapshotListener(fn SnapshotListener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listener = fn
}

func (s *gameServiceImpl) publish(sessionID string, snap engine.Snapshot) {
	s.listenerMu.RLock()
	fn := s.listener
	s.listenerMu.RUnlock()

	if fn != nil {
		fn(sessionID, snap)
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func sessionInfo(sess *Session) *SessionInfo {
	snap := sess.Engine.Snapshot()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		Manual:         sess.Manual,
		Running:        sess.Running(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
		Snapshot:       &snap,
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session. Realtime sessions start ticking
// immediately; manual sessions wait for Tick calls.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, manual bool) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.ConfigID = configName
	if sess.ConfigID == "" {
		sess.ConfigID = s.getConfigID(config.Name)
	}
	sess.Manual = manual

	logger := log.WithFields(log.Fields{"session": sess.ID, "config": sess.ConfigID})

	if !manual {
		id := sess.ID
		sess.Runner = loop.NewRunner(sess.Engine, s.sched, loop.Interval(config.TickRate), func(snap engine.Snapshot) {
			s.publish(id, snap)
		}).WithLogger(logger)

		if err := sess.Runner.Start(s.runCtx); err != nil {
			return nil, fmt.Errorf("failed to start session timer: %w", err)
		}
	}

	logger.WithField("manual", manual).Info("Session created")

	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession stops a session's timer and removes it
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}

	if sess.Runner != nil {
		sess.Runner.Stop()
	}

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.WithField("session", sess.ID).Info("Session deleted")
	return nil
}

// PressKey writes a key into the session's heading slot. It never ticks.
func (s *gameServiceImpl) PressKey(ctx context.Context, sessionID, keyName string) (*KeyResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := engine.ParseKey(keyName)
	if !ok {
		return nil, fmt.Errorf("%w: %q (use ArrowUp, ArrowDown, ArrowLeft or ArrowRight)", ErrUnknownKey, keyName)
	}

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	heading, accepted := sess.Engine.PressKey(key)

	message := fmt.Sprintf("Heading %s from the next tick", heading)
	if !accepted {
		message = fmt.Sprintf("%s ignored: the snake cannot reverse onto itself", keyName)
	}

	log.WithFields(log.Fields{
		"session":  sess.ID,
		"key":      keyName,
		"accepted": accepted,
	}).Debug("Key pressed")

	return &KeyResult{
		Key:      keyName,
		Accepted: accepted,
		Heading:  heading,
		Snapshot: sess.Engine.Snapshot(),
		Message:  message,
	}, nil
}

// Tick advances a manual session by count ticks, stopping early on a
// terminal state.
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string, count int) (*TickResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Manual {
		return nil, fmt.Errorf("session %s: %w", sess.ID, ErrManualOnly)
	}

	if count <= 0 {
		count = 1
	}
	result := &TickResult{RequestedTicks: count}
	if count > engine.MaxTicksPerCall {
		count = engine.MaxTicksPerCall
		result.Truncated = true
		result.Limit = engine.MaxTicksPerCall
	}

	eventsBefore := len(sess.Engine.GetEvents())

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			result.StoppedReason = "request cancelled"
			break
		}
		if sess.Engine.IsOver() {
			result.StoppedReason = fmt.Sprintf("game is over (%s)", sess.Engine.Status())
			break
		}
		snap := sess.Engine.Tick()
		result.TicksExecuted++
		s.publish(sess.ID, snap)
	}

	result.Snapshot = sess.Engine.Snapshot()
	result.GameOver = result.Snapshot.Status.Terminal()
	result.Events = sess.Engine.GetEvents()[eventsBefore:]
	if result.GameOver && result.StoppedReason == "" && result.TicksExecuted < count {
		result.StoppedReason = fmt.Sprintf("game is over (%s)", result.Snapshot.Status)
	}

	return result, nil
}

// Reset starts a new run in the session and restarts its timer
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	if sess.Runner != nil {
		sess.Runner.Stop()
	}

	snap := sess.Engine.Reset()

	if sess.Runner != nil {
		if err := sess.Runner.Start(s.runCtx); err != nil {
			return nil, fmt.Errorf("failed to restart session timer: %w", err)
		}
	}

	s.publish(sess.ID, snap)
	log.WithFields(log.Fields{"session": sess.ID, "run": snap.RunID}).Info("Session reset")

	return &snap, nil
}

// GetGameState returns the latest snapshot
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	snap := sess.Engine.Snapshot()
	return &snap, nil
}

// GetEventHistory returns paginated event history
func (s *gameServiceImpl) GetEventHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	history := sess.Engine.GetEvents()
	if opts.Type != "" {
		filtered := history[:0]
		for _, e := range history {
			if e.Type == opts.Type {
				filtered = append(filtered, e)
			}
		}
		history = filtered
	}
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var events []engine.Event
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			events = append(events, history[i])
		}
	} else if start < total {
		events = history[start:end]
	}

	if events == nil {
		events = []engine.Event{}
	}

	return &HistoryResponse{
		Events:      events,
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// WriteFrame renders the current snapshot as a PNG image
func (s *gameServiceImpl) WriteFrame(ctx context.Context, sessionID string, w io.Writer) error {
	s.mu.RLock()
	sess, err := s.sessions.Get(sessionID)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}

	painter, err := render.NewPainter(sess.Config.Palette)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return painter.WritePNG(w, sess.Engine.Snapshot())
}

// ListConfigs returns available configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// CleanupIdle deletes sessions not accessed within maxAge and returns how
// many were removed.
func (s *gameServiceImpl) CleanupIdle(ctx context.Context, maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	s.mu.RLock()
	var expired []string
	for _, sess := range s.sessions.List() {
		if sess.LastAccessedAt().Before(cutoff) {
			expired = append(expired, sess.ID)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range expired {
		if err := s.DeleteSession(ctx, id); err == nil {
			removed++
		}
	}
	if removed > 0 {
		log.Infof("Removed %d idle sessions", removed)
	}
	return removed
}

// Shutdown stops every session timer
func (s *gameServiceImpl) Shutdown() {
	s.runCancel()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions.List() {
		if sess.Runner != nil {
			sess.Runner.Stop()
		}
	}
}

// touch looks a session up and records the access; callers hold s.mu
func (s *gameServiceImpl) touch(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}
