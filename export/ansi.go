package export

import (
	"bufio"
	"io"

	"github.com/lixenwraith/ascii-mosaic/raster"
	"github.com/lixenwraith/ascii-mosaic/terminal"
)

// WriteANSI writes the grid with SGR foreground colors. A sequence is only
// emitted when the color changes within a row; every row ends with a reset.
// Monochrome grids are written as plain text.
func WriteANSI(w io.Writer, g *raster.Grid, mode terminal.ColorMode) error {
	if !g.Colorized {
		return WriteText(w, g)
	}

	bw := bufio.NewWriter(w)
	for y := 0; y < g.Rows; y++ {
		var last raster.RGB
		lastValid := false

		for _, c := range g.Row(y) {
			if !lastValid || c.Color != last {
				terminal.WriteFg(bw, mode, c.Color.R, c.Color.G, c.Color.B)
				last = c.Color
				lastValid = true
			}
			bw.WriteRune(c.Glyph)
		}
		terminal.WriteReset(bw)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
