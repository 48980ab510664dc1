// Package play runs a game locally in the terminal.
package play

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/gridsnake/game/engine"
	"github.com/wricardo/gridsnake/game/loop"
	"github.com/wricardo/gridsnake/render"
	"github.com/wricardo/gridsnake/render/terminal"
	"github.com/wricardo/gridsnake/sound"
)

// Options configures a terminal game
type Options struct {
	Config *engine.GameConfig
	Sound  bool

	// Screen overrides the terminal screen; tests pass a simulation screen
	Screen tcell.Screen
	// Scheduler overrides the real time scheduler
	Scheduler loop.Scheduler
}

// Action is what a terminal key does
type Action int

const (
	ActionNone Action = iota
	ActionSteer
	ActionRestart
	ActionQuit
)

// TranslateKey maps a tcell key event to an action and, for steering, the
// game key it stands for.
func TranslateKey(ev *tcell.EventKey) (Action, engine.Key) {
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionSteer, engine.KeyArrowUp
	case tcell.KeyDown:
		return ActionSteer, engine.KeyArrowDown
	case tcell.KeyLeft:
		return ActionSteer, engine.KeyArrowLeft
	case tcell.KeyRight:
		return ActionSteer, engine.KeyArrowRight
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, engine.KeyNone
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return ActionQuit, engine.KeyNone
		case 'r', 'R':
			return ActionRestart, engine.KeyNone
		}
	}
	return ActionNone, engine.KeyNone
}

// Game is a running terminal game
type Game struct {
	engine  *engine.GameEngine
	painter *render.Painter
	surface *terminal.Surface
	screen  tcell.Screen
	runner  *loop.Runner
	player  *sound.Player

	drawMu sync.Mutex
}

// NewGame prepares a game on screen. The screen must already be initialized.
func NewGame(opts Options) (*Game, error) {
	config := opts.Config
	if config == nil {
		config = engine.DefaultConfig()
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	painter, err := render.NewPainter(config.Palette)
	if err != nil {
		return nil, fmt.Errorf("failed to create painter: %w", err)
	}

	sched := opts.Scheduler
	if sched == nil {
		sched = loop.NewTickerScheduler()
	}

	g := &Game{
		engine:  eng,
		painter: painter,
		surface: terminal.NewSurface(opts.Screen, config.CellSize, config.Geometry().PixelWidth(), config.Geometry().PixelHeight()),
		screen:  opts.Screen,
		player:  sound.NewPlayer(),
	}
	g.surface.SetOrigin(1, 1)

	if opts.Sound {
		if err := g.player.Init(); err != nil {
			log.Warnf("Audio disabled: %v", err)
		}
	}

	g.runner = loop.NewRunner(eng, sched, loop.Interval(config.TickRate), g.publish).
		WithLogger(log.WithField("component", "play"))

	return g, nil
}

// Engine returns the game engine
func (g *Game) Engine() *engine.GameEngine {
	return g.engine
}

// Runner returns the runner driving the engine
func (g *Game) Runner() *loop.Runner {
	return g.runner
}

// Start draws the first frame and starts ticking
func (g *Game) Start(ctx context.Context) error {
	g.draw(g.engine.Snapshot())
	return g.runner.Start(ctx)
}

// HandleKey applies a key event and reports whether the game should quit
func (g *Game) HandleKey(ctx context.Context, ev *tcell.EventKey) bool {
	action, key := TranslateKey(ev)
	switch action {
	case ActionSteer:
		g.engine.PressKey(key)
	case ActionRestart:
		if g.engine.IsOver() {
			g.runner.Stop()
			g.draw(g.engine.Reset())
			if err := g.runner.Start(ctx); err != nil {
				log.Errorf("Failed to restart runner: %v", err)
			}
		}
	case ActionQuit:
		return true
	}
	return false
}

// Close stops the runner and audio
func (g *Game) Close() {
	g.runner.Stop()
	g.player.Close()
}

func (g *Game) publish(snap engine.Snapshot) {
	g.player.Observe(snap)
	g.draw(snap)
}

func (g *Game) draw(snap engine.Snapshot) {
	g.drawMu.Lock()
	defer g.drawMu.Unlock()

	g.painter.Paint(g.surface, snap)

	_, oy := g.surface.Origin()
	statusY := oy + snap.Grid.Height + 1
	status := fmt.Sprintf("length %-4d apples %-4d tick %-6d", snap.Length, snap.ApplesEaten, snap.Tick)
	switch snap.Status {
	case engine.StatusDead:
		status += " game over: r restart, q quit"
	case engine.StatusWon:
		status += " field filled: r restart, q quit"
	default:
		status += " arrows steer, q quit            "
	}
	g.surface.DrawText(1, statusY, status, tcell.StyleDefault)
	g.surface.Show()
}

// Run plays a game in the terminal until the player quits or ctx is done
func Run(ctx context.Context, opts Options) error {
	screen := opts.Screen
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("failed to init screen: %w", err)
		}
		defer screen.Fini()
		opts.Screen = screen
	}
	screen.HideCursor()
	screen.Clear()

	game, err := NewGame(opts)
	if err != nil {
		return err
	}
	defer game.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := game.Start(ctx); err != nil {
		return err
	}

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if game.HandleKey(ctx, ev) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				game.draw(game.engine.Snapshot())
			}
		}
	}
}
