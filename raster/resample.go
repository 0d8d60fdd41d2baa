package raster

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// ResampleMode determines how source pixels are reduced to one sample per cell
type ResampleMode uint8

const (
	ResampleNearest    ResampleMode = iota // One representative pixel at the cell center
	ResampleBox                            // Mean of all source pixels covered by the cell
	ResampleBilinear                       // x/image/draw bilinear kernel
	ResampleCatmullRom                     // x/image/draw Catmull-Rom kernel
)

// String returns the mode name
func (m ResampleMode) String() string {
	switch m {
	case ResampleNearest:
		return "nearest"
	case ResampleBox:
		return "box"
	case ResampleBilinear:
		return "bilinear"
	case ResampleCatmullRom:
		return "catmullrom"
	default:
		return "unknown"
	}
}

// Next cycles through the modes
func (m ResampleMode) Next() ResampleMode {
	return (m + 1) % 4
}

// ParseResampleMode parses a mode name
func ParseResampleMode(s string) (ResampleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest", "nn":
		return ResampleNearest, nil
	case "box", "average", "avg":
		return ResampleBox, nil
	case "bilinear", "linear":
		return ResampleBilinear, nil
	case "catmullrom", "catmull-rom", "cubic":
		return ResampleCatmullRom, nil
	default:
		return ResampleNearest, fmt.Errorf("unknown resample mode: %q", s)
	}
}

// resample reduces src to outW×outH samples, row-major.
// Caller guarantees non-empty src and positive output size.
func resample(src image.Image, outW, outH int, mode ResampleMode) []RGB {
	switch mode {
	case ResampleBox:
		return resampleBox(src, outW, outH)
	case ResampleBilinear:
		return resampleKernel(src, outW, outH, draw.BiLinear)
	case ResampleCatmullRom:
		return resampleKernel(src, outW, outH, draw.CatmullRom)
	default:
		return resampleNearest(src, outW, outH)
	}
}

// resampleNearest samples the center of each cell's source region
func resampleNearest(src image.Image, outW, outH int) []RGB {
	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	out := make([]RGB, outW*outH)
	for y := 0; y < outH; y++ {
		sy := bounds.Min.Y + (y*srcH+srcH/2)/outH
		if sy >= bounds.Max.Y {
			sy = bounds.Max.Y - 1
		}
		for x := 0; x < outW; x++ {
			sx := bounds.Min.X + (x*srcW+srcW/2)/outW
			if sx >= bounds.Max.X {
				sx = bounds.Max.X - 1
			}
			out[y*outW+x] = FromColor(src.At(sx, sy))
		}
	}
	return out
}

// resampleBox averages every source pixel falling inside the cell.
// Cells narrower than one source pixel take the single pixel under them.
func resampleBox(src image.Image, outW, outH int) []RGB {
	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	out := make([]RGB, outW*outH)
	for y := 0; y < outH; y++ {
		y0, y1 := span(y, srcH, outH)
		for x := 0; x < outW; x++ {
			x0, x1 := span(x, srcW, outW)

			var sumR, sumG, sumB, n int
			for sy := y0; sy < y1; sy++ {
				for sx := x0; sx < x1; sx++ {
					c := FromColor(src.At(bounds.Min.X+sx, bounds.Min.Y+sy))
					sumR += int(c.R)
					sumG += int(c.G)
					sumB += int(c.B)
					n++
				}
			}
			out[y*outW+x] = RGB{
				R: uint8(sumR / n),
				G: uint8(sumG / n),
				B: uint8(sumB / n),
			}
		}
	}
	return out
}

// span returns the half-open source range [lo, hi) covered by output index i
func span(i, srcLen, outLen int) (int, int) {
	lo := i * srcLen / outLen
	hi := (i + 1) * srcLen / outLen
	if hi <= lo {
		hi = lo + 1
	}
	if hi > srcLen {
		hi = srcLen
		if lo >= hi {
			lo = hi - 1
		}
	}
	return lo, hi
}

// resampleKernel scales with an x/image/draw interpolator into an RGBA buffer
func resampleKernel(src image.Image, outW, outH int, k draw.Interpolator) []RGB {
	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	k.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := make([]RGB, outW*outH)
	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			out[y*outW+x] = FromColor(dst.RGBAAt(x, y))
		}
	}
	return out
}
