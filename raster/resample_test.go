package raster

import (
	"image"
	"image/color"
	"testing"
)

// TestParseResampleMode verifies resampling mode names parse
func TestParseResampleMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ResampleMode
		wantErr bool
	}{
		{"", ResampleNearest, false},
		{"nearest", ResampleNearest, false},
		{"BOX", ResampleBox, false},
		{"bilinear", ResampleBilinear, false},
		{"catmull-rom", ResampleCatmullRom, false},
		{"lanczos", ResampleNearest, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResampleMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestResampleBoxAverages verifies box resampling averages each source block
func TestResampleBoxAverages(t *testing.T) {
	// Left half black, right half white; one output cell covers both
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.Black)
	img.Set(1, 0, color.White)

	out := resampleBox(img, 1, 1)
	if len(out) != 1 {
		t.Fatalf("Expected 1 sample, got %d", len(out))
	}
	if out[0] != (RGB{127, 127, 127}) {
		t.Errorf("Expected mid gray, got %+v", out[0])
	}
}

// TestResampleNearestPicksCenter verifies nearest resampling samples block centers
func TestResampleNearestPicksCenter(t *testing.T) {
	// 3 vertical stripes: red, green, blue
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(2, 0, color.RGBA{0, 0, 255, 255})

	out := resampleNearest(img, 1, 1)
	if out[0] != (RGB{0, 255, 0}) {
		t.Errorf("Expected center green, got %+v", out[0])
	}

	out = resampleNearest(img, 3, 1)
	want := []RGB{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Sample %d: expected %+v, got %+v", i, want[i], out[i])
		}
	}
}

// TestResampleUpscale verifies every mode fills an upscaled grid from a single pixel
func TestResampleUpscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{40, 80, 120, 255})

	for _, mode := range []ResampleMode{ResampleNearest, ResampleBox, ResampleBilinear, ResampleCatmullRom} {
		out := resample(img, 5, 3, mode)
		if len(out) != 15 {
			t.Fatalf("%s: expected 15 samples, got %d", mode, len(out))
		}
		for i, c := range out {
			if c != (RGB{40, 80, 120}) {
				t.Errorf("%s: sample %d = %+v", mode, i, c)
				break
			}
		}
	}
}

// TestSpanCoversSource verifies block spans stay inside the source and are never empty
func TestSpanCoversSource(t *testing.T) {
	for _, tc := range []struct{ src, out int }{{10, 3}, {3, 10}, {7, 7}, {1, 50}, {200, 50}} {
		for i := 0; i < tc.out; i++ {
			lo, hi := span(i, tc.src, tc.out)
			if lo < 0 || hi > tc.src || hi <= lo {
				t.Errorf("span(%d, %d, %d) = [%d, %d)", i, tc.src, tc.out, lo, hi)
			}
		}
	}
}
