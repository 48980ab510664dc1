package engine

import (
	"reflect"
	"sync"
	"testing"
)

func createTestConfig() *GameConfig {
	config := DefaultConfig()
	config.Name = "Engine Test Config"
	config.Seed = 42
	return config
}

func TestNewEngine(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create new engine: %v", err)
	}

	snap := engine.Snapshot()
	if snap.Status != StatusRunning {
		t.Errorf("Expected running status, got %s", snap.Status)
	}
	if snap.RunID == "" {
		t.Error("Expected a run ID")
	}
	if engine.Heading() != HeadingRight {
		t.Errorf("Expected initial heading right, got %s", engine.Heading())
	}
	if engine.IsOver() {
		t.Error("Expected game not to be over initially")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.TickRate = 0

	if _, err := NewEngine(config); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewEngine_SeedIsReproducible(t *testing.T) {
	e1, _ := NewEngine(createTestConfig())
	e2, _ := NewEngine(createTestConfig())

	if e1.Snapshot().Apple != e2.Snapshot().Apple {
		t.Errorf("Expected the same apple for the same seed, got %v and %v", e1.Snapshot().Apple, e2.Snapshot().Apple)
	}
}

func TestEngine_TickUsesHeadingSlot(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	if _, accepted := engine.PressKey(KeyArrowUp); !accepted {
		t.Fatal("Expected up to be accepted while heading right")
	}

	snap := engine.Tick()
	if snap.Head() != (Cell{80, 80}) {
		t.Errorf("Expected head to move up to (80,80), got %v", snap.Head())
	}
	if snap.Heading != HeadingUp {
		t.Errorf("Expected snapshot heading up, got %s", snap.Heading)
	}
}

func TestEngine_ReversalIgnored(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	heading, accepted := engine.PressKey(KeyArrowLeft)
	if accepted || heading != HeadingRight {
		t.Errorf("Expected left to be rejected while heading right, got %s accepted=%v", heading, accepted)
	}

	snap := engine.Tick()
	if snap.Head() != (Cell{96, 96}) {
		t.Errorf("Expected head to keep moving right to (96,96), got %v", snap.Head())
	}
}

func TestEngine_LastAcceptedKeyWins(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	engine.PressKey(KeyArrowUp)
	engine.PressKey(KeyArrowDown) // opposite of the slot, rejected
	engine.PressKey(KeyArrowRight)

	if engine.Heading() != HeadingRight {
		t.Errorf("Expected slot right, got %s", engine.Heading())
	}

	snap := engine.Tick()
	if snap.Head() != (Cell{96, 96}) {
		t.Errorf("Expected head at (96,96), got %v", snap.Head())
	}
}

func TestEngine_PressKeyDoesNotTick(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())
	before := engine.Snapshot()

	engine.PressKey(KeyArrowDown)
	engine.PressKey(KeyNone)

	after := engine.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Error("Key presses must not change the snapshot")
	}
}

func TestEngine_CollisionStopsTicking(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	// Turn back into the body: up, left, down
	engine.PressKey(KeyArrowUp)
	engine.Tick()
	engine.PressKey(KeyArrowLeft)
	engine.Tick()
	engine.PressKey(KeyArrowDown)
	snap := engine.Tick()

	if snap.Status != StatusDead {
		t.Fatalf("Expected dead after turning into the body, got %s (snake %v)", snap.Status, snap.Snake)
	}
	if !engine.IsOver() {
		t.Error("Expected IsOver after collision")
	}

	after := engine.Tick()
	if !reflect.DeepEqual(after, snap) {
		t.Error("Expected no mutation once the game is over")
	}

	events := engine.GetEvents()
	if len(events) == 0 || events[len(events)-1].Type != EventCollision {
		t.Errorf("Expected last event to be a collision, got %+v", events)
	}
}

func TestEngine_Reset(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())
	first := engine.Snapshot()

	engine.PressKey(KeyArrowDown)
	for i := 0; i < 4; i++ {
		engine.Tick()
	}

	snap := engine.Reset()
	if snap.RunID == first.RunID {
		t.Error("Expected a new run ID after reset")
	}
	if snap.Tick != 0 {
		t.Errorf("Expected tick 0 after reset, got %d", snap.Tick)
	}
	if !reflect.DeepEqual(snap.Snake, first.Snake) {
		t.Errorf("Expected initial snake after reset, got %v", snap.Snake)
	}
	if engine.Heading() != HeadingRight {
		t.Errorf("Expected heading reset to right, got %s", engine.Heading())
	}

	events := engine.GetEvents()
	if len(events) == 0 || events[len(events)-1].Type != EventReset {
		t.Errorf("Expected history to end with a reset event, got %+v", events)
	}
	if events[0].Type != EventKey {
		t.Errorf("Expected history to survive reset, first event %+v", events[0])
	}
}

func TestEngine_SnapshotIsACopy(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	snap := engine.Snapshot()
	snap.Snake[0] = Cell{X: -16, Y: -16}

	if engine.Snapshot().Head() == (Cell{X: -16, Y: -16}) {
		t.Error("Mutating a returned snapshot changed engine state")
	}
}

func TestEngine_ConcurrentKeysAndTicks(t *testing.T) {
	engine, _ := NewEngine(createTestConfig())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		keys := []Key{KeyArrowUp, KeyArrowRight, KeyArrowDown, KeyArrowRight}
		for i := 0; i < 200; i++ {
			engine.PressKey(keys[i%len(keys)])
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			engine.Tick()
		}
	}()
	wg.Wait()

	snap := engine.Snapshot()
	if len(snap.Snake) != snap.Length {
		t.Errorf("Inconsistent snapshot: len %d, Length %d", len(snap.Snake), snap.Length)
	}
}
