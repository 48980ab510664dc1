package loop

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/gridsnake/game/engine"
)

var ErrAlreadyRunning = errors.New("runner already running")

// Controller is the part of a game engine the runner drives
type Controller interface {
	Tick() engine.Snapshot
}

// PublishFunc receives every snapshot produced by the runner. It is called on
// the scheduler's goroutine after the tick completes and before the next one
// starts, so rendering from it never sees a half-applied tick.
type PublishFunc func(engine.Snapshot)

// Runner drives a Controller at a fixed interval until the game reaches a
// terminal state or its context is cancelled.
type Runner struct {
	ctrl     Controller
	sched    Scheduler
	interval time.Duration
	publish  PublishFunc
	logger   *log.Entry

	// tickMu is held for the whole of a tick so Stop can wait one out
	tickMu sync.Mutex

	mu      sync.Mutex
	handle  Handle
	gen     uint64
	running bool
	done    chan struct{}
	ticks   uint64
}

// NewRunner creates a runner. publish may be nil.
func NewRunner(ctrl Controller, sched Scheduler, interval time.Duration, publish PublishFunc) *Runner {
	if publish == nil {
		publish = func(engine.Snapshot) {}
	}
	return &Runner{
		ctrl:     ctrl,
		sched:    sched,
		interval: interval,
		publish:  publish,
		logger:   log.WithField("component", "runner"),
		done:     closedChan(),
	}
}

// WithLogger replaces the runner's log entry
func (r *Runner) WithLogger(entry *log.Entry) *Runner {
	r.logger = entry
	return r
}

// Start schedules the periodic tick. The runner stops by itself on a
// terminal snapshot and when ctx is done.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrAlreadyRunning
	}

	r.running = true
	r.gen++
	gen := r.gen
	r.done = make(chan struct{})
	done := r.done
	r.handle = r.sched.SchedulePeriodic(r.interval, func() { r.tick(gen) })

	r.logger.WithField("interval", r.interval).Debug("runner started")

	go func() {
		select {
		case <-ctx.Done():
			r.Stop()
		case <-done:
		}
	}()

	return nil
}

// Stop cancels the periodic tick and waits for a tick in progress to finish,
// so the controller is not stepped once Stop returns. Calling Stop on a
// stopped runner is a no-op. It must not be called from the publish func.
func (r *Runner) Stop() {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Runner) stopLocked() {
	if !r.running {
		return
	}
	r.sched.CancelPeriodic(r.handle)
	r.running = false
	close(r.done)
	r.logger.WithField("ticks", r.ticks).Debug("runner stopped")
}

// Running reports whether the runner is scheduled
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Done returns a channel closed when the current run stops
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Ticks returns the number of ticks driven since creation
func (r *Runner) Ticks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// tick runs one step for the run started as generation gen. A call left over
// from an earlier run does nothing.
func (r *Runner) tick(gen uint64) {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()

	r.mu.Lock()
	if !r.running || r.gen != gen {
		r.mu.Unlock()
		return
	}
	r.ticks++
	r.mu.Unlock()

	snap := r.ctrl.Tick()
	r.publish(snap)

	if !snap.Status.Terminal() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return
	}
	r.logger.WithFields(log.Fields{
		"status": snap.Status,
		"length": snap.Length,
		"tick":   snap.Tick,
	}).Info("game over, stopping runner")
	r.stopLocked()
}

func closedChan() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
