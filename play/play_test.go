package play

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/gridsnake/game/engine"
	"github.com/wricardo/gridsnake/game/loop"
)

func newTestGame(t *testing.T) (*Game, *loop.ManualScheduler) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)

	config := engine.DefaultConfig()
	config.Seed = 3
	sched := loop.NewManualScheduler()

	game, err := NewGame(Options{Config: config, Screen: screen, Scheduler: sched})
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	t.Cleanup(game.Close)
	return game, sched
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name   string
		ev     *tcell.EventKey
		action Action
		key    engine.Key
	}{
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ActionSteer, engine.KeyArrowUp},
		{"down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), ActionSteer, engine.KeyArrowDown},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), ActionSteer, engine.KeyArrowLeft},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), ActionSteer, engine.KeyArrowRight},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit, engine.KeyNone},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), ActionQuit, engine.KeyNone},
		{"r", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), ActionRestart, engine.KeyNone},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), ActionNone, engine.KeyNone},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionNone, engine.KeyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, key := TranslateKey(tt.ev)
			if action != tt.action || key != tt.key {
				t.Errorf("Expected (%v, %v), got (%v, %v)", tt.action, tt.key, action, key)
			}
		})
	}
}

func TestGame_SteerAndTick(t *testing.T) {
	game, sched := newTestGame(t)
	ctx := context.Background()

	if err := game.Start(ctx); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}

	game.HandleKey(ctx, tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	sched.Advance(loop.Interval(8))

	snap := game.Engine().Snapshot()
	if snap.Head() != (engine.Cell{X: 80, Y: 112}) {
		t.Errorf("Expected head to move down to (80,112), got %v", snap.Head())
	}
}

func TestGame_QuitKey(t *testing.T) {
	game, _ := newTestGame(t)

	if !game.HandleKey(context.Background(), tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("Expected q to quit")
	}
}

func TestGame_RestartOnlyAfterGameOver(t *testing.T) {
	game, sched := newTestGame(t)
	ctx := context.Background()
	game.Start(ctx)

	first := game.Engine().Snapshot().RunID
	game.HandleKey(ctx, tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if game.Engine().Snapshot().RunID != first {
		t.Fatal("Expected r to be ignored while the game is running")
	}

	// Turn back into the body: up, left, down
	for _, k := range []tcell.Key{tcell.KeyUp, tcell.KeyLeft, tcell.KeyDown} {
		game.HandleKey(ctx, tcell.NewEventKey(k, 0, tcell.ModNone))
		sched.Advance(loop.Interval(8))
	}

	if !game.Engine().IsOver() {
		t.Fatalf("Expected the game to be over, status %s", game.Engine().Status())
	}
	if game.Runner().Running() {
		t.Error("Expected the runner to stop after game over")
	}

	game.HandleKey(ctx, tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))

	snap := game.Engine().Snapshot()
	if snap.RunID == first || snap.Status != engine.StatusRunning {
		t.Errorf("Expected a fresh run after restart, got run %s status %s", snap.RunID, snap.Status)
	}
	if !game.Runner().Running() {
		t.Error("Expected the runner to restart")
	}
}

func TestRun_QuitsOnContextCancel(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{Screen: screen, Scheduler: loop.NewManualScheduler()})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}
}
