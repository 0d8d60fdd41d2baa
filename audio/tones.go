package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// cueStreamer builds a finite streamer for a cue at the given volume
func cueStreamer(c Cue, vol float64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueSaved:
		tone, err := generators.SineTone(sampleRate, savedFreq)
		if err != nil {
			return nil
		}
		s = newFade(beep.Take(sampleRate.N(savedDuration), tone), sampleRate.N(savedDuration))
	case CueError:
		s = beep.Take(sampleRate.N(errorDuration), newBuzz(sampleRate, errorFreq))
	default:
		return nil
	}
	return newVolume(s, vol)
}

// newVolume wraps s with linear gain; zero gain is silent since log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// buzz is a harmonic-rich low tone with a short fade-in
type buzz struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func newBuzz(sr beep.SampleRate, freq float64) *buzz {
	return &buzz{sr: sr, freq: freq}
}

func (g *buzz) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		sample := 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)

		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *buzz) Err() error {
	return nil
}

// fade applies a linear release over the last quarter of total samples
type fade struct {
	streamer beep.Streamer
	pos      int
	total    int
}

func newFade(s beep.Streamer, total int) *fade {
	return &fade{streamer: s, total: total}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	release := f.total / 4
	start := f.total - release
	for i := 0; i < n; i++ {
		if f.pos >= start && release > 0 {
			vol := float64(f.total-f.pos) / float64(release)
			if vol < 0 {
				vol = 0
			}
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error {
	return f.streamer.Err()
}

// cueLength reports the duration of a cue
func cueLength(c Cue) time.Duration {
	switch c {
	case CueSaved:
		return savedDuration
	case CueError:
		return errorDuration
	default:
		return 0
	}
}
