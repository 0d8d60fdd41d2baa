package export

import (
	"bufio"
	"io"

	"github.com/lixenwraith/ascii-mosaic/raster"
)

// WriteText writes glyphs only, each row newline-terminated
func WriteText(w io.Writer, g *raster.Grid) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < g.Rows; y++ {
		for _, c := range g.Row(y) {
			bw.WriteRune(c.Glyph)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
