package audio

import (
	"math"
	"testing"
)

// drain reads a streamer to completion and returns sample count and peak
func drain(t *testing.T, c Cue, vol float64) (int, float64) {
	t.Helper()
	s := cueStreamer(c, vol)
	if s == nil {
		t.Fatalf("No streamer for cue %d", c)
	}

	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok || n == 0 {
			break
		}
		if total > sampleRate.N(cueLength(c))*2 {
			t.Fatal("Streamer did not terminate")
		}
	}
	return total, peak
}

// TestCueLength verifies cues stop after their configured duration
func TestCueLength(t *testing.T) {
	tests := []struct {
		name string
		cue  Cue
	}{
		{"Saved", CueSaved},
		{"Error", CueError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, peak := drain(t, tt.cue, 1.0)
			want := sampleRate.N(cueLength(tt.cue))
			if n != want {
				t.Errorf("Expected %d samples, got %d", want, n)
			}
			if peak == 0 {
				t.Error("Expected audible samples")
			}
			if peak > 1.0 {
				t.Errorf("Expected peak <= 1.0, got %f", peak)
			}
		})
	}
}

// TestCueSilentAtZeroVolume verifies zero volume yields silence
func TestCueSilentAtZeroVolume(t *testing.T) {
	_, peak := drain(t, CueSaved, 0)
	if peak != 0 {
		t.Errorf("Expected silence, got peak %f", peak)
	}
}

// TestCueUnknown verifies unknown cues produce nothing
func TestCueUnknown(t *testing.T) {
	if s := cueStreamer(Cue(99), 1); s != nil {
		t.Error("Expected nil streamer for unknown cue")
	}
}

// TestNotifierDisabled verifies a disabled notifier never touches the device
func TestNotifierDisabled(t *testing.T) {
	n := NewNotifier(false, 0.5)

	if err := n.Initialize(); err != nil {
		t.Fatalf("Disabled Initialize should not fail: %v", err)
	}
	if n.Enabled() {
		t.Error("Disabled notifier reports enabled")
	}

	n.PlaySaved()
	n.PlayError()
	n.Close()

	// Without a device the mixer is never fed
	if l := n.mixer.Len(); l != 0 {
		t.Errorf("Expected no queued cues, got %d", l)
	}
}

// TestNotifierGracefulDegradation verifies operations without Initialize are safe
func TestNotifierGracefulDegradation(t *testing.T) {
	n := NewNotifier(true, 0.5)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Notifier panicked without initialization: %v", r)
		}
	}()

	n.PlaySaved()
	n.PlayError()
	n.Close()

	// Without a device the mixer is never fed
	if l := n.mixer.Len(); l != 0 {
		t.Errorf("Expected no queued cues, got %d", l)
	}
}

// TestNotifierInitialization verifies init and close when a device exists
func TestNotifierInitialization(t *testing.T) {
	n := NewNotifier(true, 0.5)

	// Speaker initialization fails on machines without an audio device
	if err := n.Initialize(); err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}

	if !n.Enabled() {
		t.Error("Expected enabled after Initialize")
	}

	n.PlaySaved()

	n.Close()
	if n.Enabled() {
		t.Error("Expected disabled after Close")
	}
}

// TestNewNotifierClampsVolume verifies volume is clamped to [0, 1]
func TestNewNotifierClampsVolume(t *testing.T) {
	if n := NewNotifier(true, 4); n.volume != 1 {
		t.Errorf("Expected volume 1, got %f", n.volume)
	}
	if n := NewNotifier(true, -1); n.volume != 0 {
		t.Errorf("Expected volume 0, got %f", n.volume)
	}
}
