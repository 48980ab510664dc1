package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// GameEngine owns one game session: the current snapshot, the heading slot
// written by input, and the random source used for apples. A tick and a key
// press never interleave.
type GameEngine struct {
	mu      sync.Mutex
	config  *GameConfig
	state   Snapshot
	heading Heading
	rng     *rand.Rand
	events  []Event
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &GameEngine{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
	e.state = InitSnapshotFromConfig(config, uuid.NewString(), e.rng)
	e.heading = e.state.Heading

	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return e
}

// Snapshot returns a copy of the current snapshot
func (e *GameEngine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Reset starts a new run from the configuration, keeping the event history
func (e *GameEngine) Reset() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = InitSnapshotFromConfig(e.config, uuid.NewString(), e.rng)
	e.heading = e.state.Heading
	e.record(EventReset, "", false)

	return e.state.Clone()
}

// IsOver reports whether the current run reached a terminal state
func (e *GameEngine) IsOver() bool {
	return e.Status().Terminal()
}

// Status returns the status of the current run
func (e *GameEngine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Status
}

// Tick advances the game by one step using the heading slot
func (e *GameEngine) Tick() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Status.Terminal() {
		return e.state.Clone()
	}

	current := e.state
	current.Heading = e.heading
	e.state = Step(current, e.rng)

	if e.state.Ate {
		e.record(EventApple, "", false)
	}
	if e.state.Collided {
		e.record(EventCollision, "", false)
	}
	if e.state.Status == StatusWon {
		e.record(EventWin, "", false)
	}

	return e.state.Clone()
}

// PressKey applies a key event to the heading slot and reports whether it
// changed the requested heading. It never advances the game.
func (e *GameEngine) PressKey(k Key) (Heading, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, accepted := ApplyKey(e.heading, k)
	e.heading = next
	if k != KeyNone {
		e.record(EventKey, k.String(), accepted)
	}
	return next, accepted
}

// Heading returns the heading the next tick will use
func (e *GameEngine) Heading() Heading {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.heading
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetEvents returns the complete event history
func (e *GameEngine) GetEvents() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Event(nil), e.events...)
}

// record appends an event; callers hold e.mu
func (e *GameEngine) record(t EventType, key string, accepted bool) {
	e.events = append(e.events, Event{
		Type:      t,
		RunID:     e.state.RunID,
		Tick:      e.state.Tick,
		Head:      e.state.Head(),
		Length:    e.state.Length,
		Key:       key,
		Accepted:  accepted,
		Timestamp: time.Now().Unix(),
		Number:    len(e.events) + 1,
	})
}
