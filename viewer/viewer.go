// Package viewer is the interactive terminal previewer. Setting changes
// re-run the conversion in the background; only the newest result is shown.
package viewer

import (
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ascii-mosaic/config"
	"github.com/lixenwraith/ascii-mosaic/export"
	"github.com/lixenwraith/ascii-mosaic/raster"
	"github.com/lixenwraith/ascii-mosaic/terminal"
)

const widthStep = 10

// Notifier receives export outcomes; *audio.Notifier satisfies it
type Notifier interface {
	PlaySaved()
	PlayError()
}

// Options configures the previewer beyond conversion settings
type Options struct {
	Name      string // Shown in the status line
	OutputDir string
	Format    string // Export format name; "auto" follows colorize
	ColorMode terminal.ColorMode
	Notifier  Notifier
}

// result is a finished conversion waiting to be collected by the event loop
type result struct {
	gen  uint64
	grid *raster.Grid
	err  error
}

// Viewer holds previewer state. Fields other than the result holder are
// owned by the event loop goroutine.
type Viewer struct {
	screen tcell.Screen
	img    image.Image
	cfg    raster.Config
	opts   Options

	grid    *raster.Grid
	gen     uint64 // Generation of the latest request
	pending bool

	ViewportX int
	ViewportY int

	message string

	mu     sync.Mutex
	latest *result // Newest uncollected result
}

// New creates a viewer on an initialized screen
func New(screen tcell.Screen, img image.Image, cfg raster.Config, opts Options) *Viewer {
	if opts.Format == "" {
		opts.Format = "auto"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Viewer{
		screen: screen,
		img:    img,
		cfg:    cfg,
		opts:   opts,
	}
}

// Config returns the current conversion settings
func (v *Viewer) Config() raster.Config {
	return v.cfg
}

// Grid returns the displayed grid, nil before the first result arrives
func (v *Viewer) Grid() *raster.Grid {
	return v.grid
}

// Pending reports whether a requested conversion has not been shown yet
func (v *Viewer) Pending() bool {
	return v.pending
}

// Message returns the last status message
func (v *Viewer) Message() string {
	return v.message
}

// Run starts the first conversion and processes events until quit
func (v *Viewer) Run() error {
	v.Refresh()
	v.Draw()

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			// Screen finalized
			return nil
		}
		if !v.HandleEvent(ev) {
			return nil
		}
		v.Draw()
	}
}

// Refresh requests a conversion with the current settings. Earlier requests
// still in flight are superseded.
func (v *Viewer) Refresh() {
	v.gen++
	v.pending = true

	gen := v.gen
	img := v.img
	cfg := v.cfg
	screen := v.screen

	go func() {
		grid, err := raster.Convert(img, cfg)
		v.store(&result{gen: gen, grid: grid, err: err})
		// Wake-up only; with a full queue the next event of any kind collects
		if perr := screen.PostEvent(tcell.NewEventInterrupt(nil)); perr != nil {
			log.Printf("viewer: wake-up for result %d deferred: %v", gen, perr)
		}
	}()
}

// store holds r unless a newer result is already waiting
func (v *Viewer) store(r *result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.latest == nil || r.gen > v.latest.gen {
		v.latest = r
	}
}

// collect takes the held result, if any, and applies it
func (v *Viewer) collect() {
	v.mu.Lock()
	r := v.latest
	v.latest = nil
	v.mu.Unlock()

	if r != nil {
		v.applyResult(r)
	}
}

// HandleEvent applies one event; returns false when the viewer should exit
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if !v.handleKey(ev) {
			return false
		}

	case *tcell.EventResize:
		v.clampViewport()
		v.screen.Sync()
	}

	v.collect()
	return true
}

// applyResult installs a conversion result unless a newer request exists
func (v *Viewer) applyResult(r *result) {
	if r.gen != v.gen {
		return
	}
	v.pending = false

	if r.err != nil {
		v.message = fmt.Sprintf("convert failed: %v", r.err)
		return
	}
	v.grid = r.grid
	v.clampViewport()
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.Pan(-v.panStep(ev), 0)
	case tcell.KeyRight:
		v.Pan(v.panStep(ev), 0)
	case tcell.KeyUp:
		v.Pan(0, -v.panStep(ev))
	case tcell.KeyDown:
		v.Pan(0, v.panStep(ev))
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return true
}

func (v *Viewer) handleRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		return false

	case 'd', 'D':
		v.cfg.Detail = v.cfg.Detail.Next()
		v.Refresh()
	case '+', '=':
		v.setWidth(v.cfg.OutputWidth + widthStep)
	case '-', '_':
		v.setWidth(v.cfg.OutputWidth - widthStep)
	case 'c', 'C':
		v.cfg.Colorize = !v.cfg.Colorize
		v.Refresh()
	case 'i', 'I':
		v.cfg.Invert = !v.cfg.Invert
		v.Refresh()
	case 'r', 'R':
		v.cfg.Resample = v.cfg.Resample.Next()
		v.Refresh()

	case 's', 'S':
		v.Save()

	case 'h':
		v.Pan(-1, 0)
	case 'l':
		v.Pan(1, 0)
	case 'j':
		v.Pan(0, 1)
	case 'k':
		v.Pan(0, -1)
	case 'H':
		v.Pan(-widthStep, 0)
	case 'L':
		v.Pan(widthStep, 0)
	case 'J':
		v.Pan(0, widthStep)
	case 'K':
		v.Pan(0, -widthStep)
	}
	return true
}

func (v *Viewer) panStep(ev *tcell.EventKey) int {
	if ev.Modifiers()&tcell.ModShift != 0 {
		return widthStep
	}
	return 1
}

// setWidth clamps and applies a new output width, skipping no-op changes
func (v *Viewer) setWidth(w int) {
	w = config.ClampWidth(w)
	if w == v.cfg.OutputWidth {
		return
	}
	v.cfg.OutputWidth = w
	v.Refresh()
}

// Save exports the displayed grid. A save while a newer conversion is still
// pending writes the grid on screen.
func (v *Viewer) Save() {
	if v.grid == nil {
		v.message = "nothing to save yet"
		v.notify(false)
		return
	}

	f, err := export.ParseFormat(v.opts.Format, v.grid.Colorized)
	if err != nil {
		v.message = err.Error()
		v.notify(false)
		return
	}

	path, err := export.SaveFile(v.opts.OutputDir, v.grid, f, v.opts.ColorMode)
	if err != nil {
		log.Printf("viewer: save failed: %v", err)
		v.message = fmt.Sprintf("save failed: %v", err)
		v.notify(false)
		return
	}

	v.message = "saved " + path
	v.notify(true)
}

func (v *Viewer) notify(ok bool) {
	if v.opts.Notifier == nil {
		return
	}
	if ok {
		v.opts.Notifier.PlaySaved()
	} else {
		v.opts.Notifier.PlayError()
	}
}

// Pan moves the viewport by dx, dy within the grid bounds
func (v *Viewer) Pan(dx, dy int) {
	v.ViewportX += dx
	v.ViewportY += dy
	v.clampViewport()
}

func (v *Viewer) clampViewport() {
	if v.grid == nil {
		v.ViewportX = 0
		v.ViewportY = 0
		return
	}

	termW, termH := v.screen.Size()
	availH := termH - 1 // Status line

	maxX := v.grid.Cols - termW
	maxY := v.grid.Rows - availH

	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}

	if v.ViewportX < 0 {
		v.ViewportX = 0
	}
	if v.ViewportX > maxX {
		v.ViewportX = maxX
	}
	if v.ViewportY < 0 {
		v.ViewportY = 0
	}
	if v.ViewportY > maxY {
		v.ViewportY = maxY
	}
}
