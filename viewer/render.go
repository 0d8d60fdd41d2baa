package viewer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/ascii-mosaic/raster"
)

// Status line palette
var (
	statusBg = colorful.Hsv(240, 0.2, 0.2)
	statusFg = colorful.Hsv(0, 0, 0.78)
	keyFg    = colorful.Hsv(210, 0.6, 1.0)
	warnFg   = colorful.Hsv(40, 0.8, 1.0)
)

const helpText = " q:quit d:detail ±:width c:color i:invert r:resample s:save "

// toTcell converts a colorful color to a tcell RGB color
func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// cellStyle returns the style for a grid cell
func cellStyle(g *raster.Grid, c raster.Cell) tcell.Style {
	style := tcell.StyleDefault.Background(tcell.ColorBlack)
	if !g.Colorized {
		return style.Foreground(tcell.ColorWhite)
	}
	return style.Foreground(tcell.NewRGBColor(int32(c.Color.R), int32(c.Color.G), int32(c.Color.B)))
}

// Draw renders the visible part of the grid and the status line
func (v *Viewer) Draw() {
	v.screen.Clear()
	termW, termH := v.screen.Size()

	if g := v.grid; g != nil {
		availH := termH - 1
		for y := 0; y < availH; y++ {
			gy := y + v.ViewportY
			if gy >= g.Rows {
				break
			}
			for x := 0; x < termW; x++ {
				gx := x + v.ViewportX
				if gx >= g.Cols {
					break
				}
				c := g.At(gx, gy)
				v.screen.SetContent(x, y, c.Glyph, nil, cellStyle(g, c))
			}
		}
	}

	v.drawStatus(termW, termH)
	v.screen.Show()
}

// StatusLine returns the left-aligned status text
func (v *Viewer) StatusLine() string {
	b := v.img.Bounds()
	var cols, rows int
	if v.grid != nil {
		cols, rows = v.grid.Cols, v.grid.Rows
	}

	name := ""
	if v.opts.Name != "" {
		name = v.opts.Name + " "
	}

	color := "mono"
	if v.cfg.Colorize {
		color = "color"
	}

	status := fmt.Sprintf(" %s%dx%d → %dx%d | %s | w%d | %s | %s",
		name, b.Dx(), b.Dy(), cols, rows,
		v.cfg.Detail, v.cfg.OutputWidth, color, v.cfg.Resample)
	if v.cfg.Invert {
		status += " | inv"
	}
	if v.pending {
		status += " | …"
	}
	if v.message != "" {
		status += " | " + v.message
	}
	return status + " "
}

func (v *Viewer) drawStatus(termW, termH int) {
	y := termH - 1
	if y < 0 {
		return
	}

	base := tcell.StyleDefault.Background(toTcell(statusBg)).Foreground(toTcell(statusFg))
	for x := 0; x < termW; x++ {
		v.screen.SetContent(x, y, ' ', nil, base)
	}

	style := base
	if v.pending {
		style = base.Foreground(toTcell(warnFg))
	}

	x := 0
	for _, r := range v.StatusLine() {
		if x >= termW {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}

	// Help keys, right-aligned when they fit
	helpStart := termW - len([]rune(helpText))
	if helpStart <= x {
		return
	}
	keyStyle := base.Foreground(toTcell(keyFg))
	x = helpStart
	for _, r := range helpText {
		st := base
		if r == ':' || (r >= 'a' && r <= 'z') {
			st = keyStyle
		}
		v.screen.SetContent(x, y, r, nil, st)
		x++
	}
}
