package raster

import (
	"errors"
	"fmt"
	"image"
)

// charAspect compensates for glyphs being roughly twice as tall as wide
const charAspect = 0.5

// MaxCells bounds the grid size; 200 columns leave room for 20971 rows
const MaxCells = 1 << 22

// ErrInvalidDimensions is returned for zero-sized input or output
var ErrInvalidDimensions = errors.New("invalid dimensions")

// ErrGridTooLarge is returned when the requested grid exceeds MaxCells
var ErrGridTooLarge = errors.New("grid too large")

// Config controls a single conversion. Passed by value.
type Config struct {
	Detail      DetailLevel
	OutputWidth int // Columns; callers clamp to the UI range before converting
	Colorize    bool
	Resample    ResampleMode
	Invert      bool // Map dark pixels to the light end of the ramp
}

// GridSize returns output dimensions for given parameters without converting
func GridSize(srcW, srcH, outputWidth int) (cols, rows int, err error) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, fmt.Errorf("%w: source %dx%d", ErrInvalidDimensions, srcW, srcH)
	}
	if outputWidth <= 0 {
		return 0, 0, fmt.Errorf("%w: output width %d", ErrInvalidDimensions, outputWidth)
	}
	aspectRatio := float64(srcH) / float64(srcW)
	rowsF := float64(outputWidth) * aspectRatio * charAspect
	// Checked in float space so extreme aspect ratios cannot overflow int
	if float64(outputWidth)*max(rowsF, 1) > MaxCells {
		return 0, 0, fmt.Errorf("%w: %d columns x %.0f rows exceeds %d cells", ErrGridTooLarge, outputWidth, rowsF, MaxCells)
	}
	cols = outputWidth
	rows = int(rowsF)
	if rows < 1 {
		rows = 1
	}
	return cols, rows, nil
}

// Convert resamples img to the configured grid and maps every sample to a glyph.
// img is only read. The result is a fresh grid with no ties to previous calls.
func Convert(img image.Image, cfg Config) (*Grid, error) {
	bounds := img.Bounds()
	cols, rows, err := GridSize(bounds.Dx(), bounds.Dy(), cfg.OutputWidth)
	if err != nil {
		return nil, err
	}

	samples := resample(img, cols, rows, cfg.Resample)
	ramp := rampFor(cfg.Detail)

	grid := &Grid{
		Cells:     make([]Cell, cols*rows),
		Cols:      cols,
		Rows:      rows,
		Colorized: cfg.Colorize,
	}

	for i, px := range samples {
		grid.Cells[i].Glyph = Glyph(ramp, px, cfg.Invert)
		if cfg.Colorize {
			grid.Cells[i].Color = px
		}
	}

	return grid, nil
}
