package raster

import (
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the zero value black color
var RGBBlack = RGB{0, 0, 0}

// FromColor converts any color.Color to 8-bit channels, undoing alpha
// premultiplication. Fully transparent pixels read as black.
func FromColor(c color.Color) RGB {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return RGBBlack
	}
	r, g, b := cf.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Cell is one glyph of the grid. Color is only meaningful when the owning
// grid is colorized.
type Cell struct {
	Glyph rune
	Color RGB
}

// Grid holds the conversion result, row-major
type Grid struct {
	Cells     []Cell
	Cols      int
	Rows      int
	Colorized bool
}

// At returns the cell at column x, row y
func (g *Grid) At(x, y int) Cell {
	return g.Cells[y*g.Cols+x]
}

// Row returns the cells of row y; the slice aliases the grid
func (g *Grid) Row(y int) []Cell {
	start := y * g.Cols
	return g.Cells[start : start+g.Cols]
}

// String renders the glyphs as plain text, one newline-terminated line per row
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.Cols + 1) * g.Rows)
	for y := 0; y < g.Rows; y++ {
		for _, c := range g.Row(y) {
			b.WriteRune(c.Glyph)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Equal reports whether two grids hold identical glyphs and colors
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.Cols != other.Cols || g.Rows != other.Rows || g.Colorized != other.Colorized {
		return false
	}
	if len(g.Cells) != len(other.Cells) {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != other.Cells[i] {
			return false
		}
	}
	return true
}
