// Package audio plays short feedback cues for previewer actions.
// Audio is optional: when disabled or when no output device is available every
// method is a silent no-op.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	savedDuration = 120 * time.Millisecond
	errorDuration = 150 * time.Millisecond

	savedFreq = 880.0 // A5
	errorFreq = 120.0
)

// Cue identifies a feedback sound
type Cue uint8

const (
	CueSaved Cue = iota
	CueError
)

// Notifier owns the speaker mixer
type Notifier struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	enabled     bool
	volume      float64
	initialized bool
}

// NewNotifier creates a notifier. volume is clamped to 0.0-1.0.
func NewNotifier(enabled bool, volume float64) *Notifier {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	return &Notifier{
		mixer:   &beep.Mixer{},
		enabled: enabled,
		volume:  volume,
	}
}

// Initialize opens the output device. Failure leaves the notifier silent and
// is returned for logging only.
func (n *Notifier) Initialize() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled || n.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(n.mixer)
	n.initialized = true
	return nil
}

// Enabled reports whether cues will be audible
func (n *Notifier) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.initialized
}

// PlaySaved plays a short bell after a successful export
func (n *Notifier) PlaySaved() {
	n.play(CueSaved)
}

// PlayError plays a low buzz after a failed export or decode
func (n *Notifier) PlayError() {
	n.play(CueError)
}

func (n *Notifier) play(c Cue) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.initialized {
		return
	}

	s := cueStreamer(c, n.volume)
	if s == nil {
		return
	}

	speaker.Lock()
	n.mixer.Add(s)
	speaker.Unlock()
}

// Close silences pending cues. The speaker itself stays open since beep
// allows a single Init per process.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.initialized {
		return
	}

	speaker.Lock()
	n.mixer.Clear()
	speaker.Unlock()
	n.initialized = false
}
