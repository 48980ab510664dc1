package loop

import (
	"sync"
	"time"
)

// Handle identifies a periodic task registered with a Scheduler
type Handle uint64

// Scheduler invokes callbacks at a fixed interval
type Scheduler interface {
	SchedulePeriodic(interval time.Duration, fn func()) Handle
	CancelPeriodic(h Handle)
}

// Interval converts a tick rate in ticks per second into a timer period
func Interval(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 1
	}
	return time.Second / time.Duration(tickRate)
}

// TickerScheduler runs every task on its own goroutine driven by a time.Ticker.
// Calls to one task's fn never overlap.
type TickerScheduler struct {
	mu    sync.Mutex
	next  Handle
	tasks map[Handle]chan struct{}
	wg    sync.WaitGroup
}

// NewTickerScheduler creates a real time scheduler
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{
		tasks: make(map[Handle]chan struct{}),
	}
}

// SchedulePeriodic starts calling fn every interval until the task is cancelled
func (s *TickerScheduler) SchedulePeriodic(interval time.Duration, fn func()) Handle {
	s.mu.Lock()
	s.next++
	h := s.next
	stop := make(chan struct{})
	s.tasks[h] = stop
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				// A cancel may race with the tick; stop wins
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return h
}

// CancelPeriodic stops a task. It is safe to call from inside the task's fn
// and to call more than once.
func (s *TickerScheduler) CancelPeriodic(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stop, ok := s.tasks[h]; ok {
		close(stop)
		delete(s.tasks, h)
	}
}

// Active returns the number of running tasks
func (s *TickerScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels every task and waits for their goroutines to exit
func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	for h, stop := range s.tasks {
		close(stop)
		delete(s.tasks, h)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

type manualTask struct {
	interval time.Duration
	elapsed  time.Duration
	fn       func()
}

// ManualScheduler fires tasks only when Advance is called. Used by tests and
// by tools that simulate games faster than real time.
type ManualScheduler struct {
	mu    sync.Mutex
	next  Handle
	tasks map[Handle]*manualTask
	order []Handle
}

// NewManualScheduler creates a scheduler driven by Advance
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{
		tasks: make(map[Handle]*manualTask),
	}
}

// SchedulePeriodic registers fn to fire every interval of simulated time
func (s *ManualScheduler) SchedulePeriodic(interval time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interval <= 0 {
		interval = time.Millisecond
	}

	s.next++
	s.tasks[s.next] = &manualTask{interval: interval, fn: fn}
	s.order = append(s.order, s.next)
	return s.next
}

// CancelPeriodic removes a task
func (s *ManualScheduler) CancelPeriodic(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[h]; !ok {
		return
	}
	delete(s.tasks, h)
	for i, id := range s.order {
		if id == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Advance moves simulated time forward by d and fires every task that came
// due, in registration order. It returns the number of calls made.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	handles := append([]Handle(nil), s.order...)
	for _, h := range handles {
		s.tasks[h].elapsed += d
	}
	s.mu.Unlock()

	fired := 0
	for _, h := range handles {
		for {
			s.mu.Lock()
			task, ok := s.tasks[h]
			if !ok || task.elapsed < task.interval {
				s.mu.Unlock()
				break
			}
			task.elapsed -= task.interval
			fn := task.fn
			s.mu.Unlock()

			fn()
			fired++
		}
	}

	return fired
}

// Pending returns the number of registered tasks
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
