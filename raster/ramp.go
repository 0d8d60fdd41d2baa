package raster

import (
	"fmt"
	"strings"
)

// DetailLevel selects the character ramp
type DetailLevel uint8

const (
	Low DetailLevel = iota
	Medium
	High
)

// Ramps ordered darkest to lightest
const (
	rampHigh = "@%#*+=-:. "
	rampLow  = "@%#+-. "
)

var (
	// Medium is a truncation of High, Low is an independent set
	highRamp   = []rune(rampHigh)
	mediumRamp = []rune(rampHigh[:7])
	lowRamp    = []rune(rampLow)
)

// String returns the canonical level name
func (d DetailLevel) String() string {
	switch d {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// Next cycles low → medium → high → low
func (d DetailLevel) Next() DetailLevel {
	return (d + 1) % 3
}

// ParseDetailLevel accepts canonical names and the legacy UI names
// (regular, intermediate, detailed)
func ParseDetailLevel(s string) (DetailLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "regular", "l":
		return Low, nil
	case "medium", "intermediate", "med", "m":
		return Medium, nil
	case "high", "detailed", "h":
		return High, nil
	default:
		return Medium, fmt.Errorf("unknown detail level: %q", s)
	}
}

// RampFor returns a copy of the ramp for the level, darkest glyph first.
// Unknown levels fall back to the high ramp.
func RampFor(d DetailLevel) []rune {
	var src []rune
	switch d {
	case Low:
		src = lowRamp
	case Medium:
		src = mediumRamp
	default:
		src = highRamp
	}
	out := make([]rune, len(src))
	copy(out, src)
	return out
}

// rampFor returns the shared ramp without copying; callers must not modify it
func rampFor(d DetailLevel) []rune {
	switch d {
	case Low:
		return lowRamp
	case Medium:
		return mediumRamp
	default:
		return highRamp
	}
}

// Brightness returns the arithmetic mean of the channels (0-255, no gamma)
func Brightness(c RGB) float64 {
	return float64(int(c.R)+int(c.G)+int(c.B)) / 3
}

// RampIndex returns the dark→light position of a pixel in a ramp of length n.
// floor(brightness/255 × (n-1)) is evaluated in integers to stay exact at
// bucket boundaries: (r+g+b) × (n-1) / 765.
func RampIndex(c RGB, n int, invert bool) int {
	if n <= 1 {
		return 0
	}
	sum := int(c.R) + int(c.G) + int(c.B)
	idx := sum * (n - 1) / 765
	if invert {
		idx = n - 1 - idx
	}
	return idx
}

// Glyph maps a pixel to its glyph in ramp
func Glyph(ramp []rune, c RGB, invert bool) rune {
	if len(ramp) == 0 {
		return ' '
	}
	return ramp[RampIndex(c, len(ramp), invert)]
}
