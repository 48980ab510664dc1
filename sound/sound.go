// Package sound plays short audio cues for game events.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/wricardo/gridsnake/game/engine"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a sound played for a game event
type Cue int

const (
	CueNone Cue = iota
	CueApple
	CueDeath
	CueWin
)

func (c Cue) String() string {
	switch c {
	case CueApple:
		return "apple"
	case CueDeath:
		return "death"
	case CueWin:
		return "win"
	default:
		return "none"
	}
}

// CueFor returns the cue matching what happened on a tick
func CueFor(snap engine.Snapshot) Cue {
	switch {
	case snap.Status == engine.StatusWon:
		return CueWin
	case snap.Collided:
		return CueDeath
	case snap.Ate:
		return CueApple
	default:
		return CueNone
	}
}

// Player mixes cues onto the speaker. An uninitialized player is silent, so
// callers can keep using it when no audio device is available.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a silent player; call Init to open the speaker
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the speaker
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Enabled reports whether the speaker is open
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Observe plays the cue for snap, if any, and returns it
func (p *Player) Observe(snap engine.Snapshot) Cue {
	cue := CueFor(snap)
	p.Play(cue)
	return cue
}

// Play queues a cue on the mixer
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || c == CueNone {
		return
	}

	speaker.Lock()
	p.mixer.Add(streamerFor(c))
	speaker.Unlock()
}

// Close silences every queued cue
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

func streamerFor(c Cue) beep.Streamer {
	switch c {
	case CueApple:
		return beep.Seq(
			newTone(660, 50*time.Millisecond),
			newTone(880, 70*time.Millisecond),
		)
	case CueDeath:
		return beep.Seq(
			newTone(220, 120*time.Millisecond),
			newTone(147, 220*time.Millisecond),
		)
	case CueWin:
		return beep.Seq(
			newTone(523, 90*time.Millisecond),
			newTone(659, 90*time.Millisecond),
			newTone(784, 160*time.Millisecond),
		)
	default:
		return beep.Silence(0)
	}
}

// tone is a sine oscillator with a short linear fade out
type tone struct {
	freq     float64
	phase    float64
	position int
	duration int
}

func newTone(freq float64, d time.Duration) *tone {
	return &tone{freq: freq, duration: sampleRate.N(d)}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.duration {
			return i, i > 0
		}

		envelope := 1 - float64(t.position)/float64(t.duration)
		val := 0.2 * envelope * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(sampleRate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
