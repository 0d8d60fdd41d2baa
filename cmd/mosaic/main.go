package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/ascii-mosaic/audio"
	"github.com/lixenwraith/ascii-mosaic/config"
	"github.com/lixenwraith/ascii-mosaic/export"
	"github.com/lixenwraith/ascii-mosaic/imageio"
	"github.com/lixenwraith/ascii-mosaic/raster"
	"github.com/lixenwraith/ascii-mosaic/viewer"
)

// flags overriding configured values; empty strings and negative numbers mean unset
type flags struct {
	configPath  string
	detail      string
	width       int
	color       bool
	mono        bool
	invert      bool
	resample    string
	format      string
	depth       string
	output      string
	interactive bool
	sound       bool
}

func main() {
	var f flags

	flag.StringVar(&f.configPath, "config", "", "TOML config file")
	flag.StringVar(&f.detail, "d", "", "Detail level: 'low', 'medium', or 'high'")
	flag.IntVar(&f.width, "w", -1, "Output width in characters (50-200)")
	flag.BoolVar(&f.color, "color", false, "Colorize output")
	flag.BoolVar(&f.mono, "mono", false, "Force monochrome output")
	flag.BoolVar(&f.invert, "invert", false, "Map dark pixels to light glyphs")
	flag.StringVar(&f.resample, "r", "", "Resampling: 'nearest', 'box', 'bilinear', or 'catmullrom'")
	flag.StringVar(&f.format, "f", "", "Output format: 'auto', 'text', 'html', or 'ansi'")
	flag.StringVar(&f.depth, "c", "", "ANSI color depth: 'auto', 'true', or '256'")
	flag.StringVar(&f.output, "o", "", "Output file, directory, or '-' for stdout (default: stdout)")
	flag.BoolVar(&f.interactive, "i", false, "Open the interactive previewer")
	flag.BoolVar(&f.sound, "sound", false, "Audible feedback in the previewer")
	flag.Usage = printUsage
	flag.Parse()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := applyFlags(cfg, f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	paths := flag.Args()
	if len(paths) == 0 {
		// Read paths from stdin when piped
		if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
			paths = readPaths(os.Stdin)
		}
	}
	if len(paths) == 0 {
		printUsage()
		os.Exit(1)
	}

	if f.interactive {
		if err := runViewer(paths[0], cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := validateOutput(paths, f.output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, path := range paths {
		if err := convertFile(path, cfg, f.output, len(paths) > 1); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: mosaic [options] <image>...")
	fmt.Fprintln(os.Stderr, "\nSupported formats: PNG, JPEG, GIF, BMP, TIFF, WebP")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nPreviewer controls (-i):")
	fmt.Fprintln(os.Stderr, "  q, Esc            Quit")
	fmt.Fprintln(os.Stderr, "  d                 Cycle detail level")
	fmt.Fprintln(os.Stderr, "  +, -              Width ±10")
	fmt.Fprintln(os.Stderr, "  c                 Toggle color")
	fmt.Fprintln(os.Stderr, "  i                 Toggle invert")
	fmt.Fprintln(os.Stderr, "  r                 Cycle resampling")
	fmt.Fprintln(os.Stderr, "  s                 Save export")
	fmt.Fprintln(os.Stderr, "  Arrow keys, hjkl  Pan viewport")
}

// applyFlags overlays explicitly set flags on the loaded configuration
func applyFlags(cfg *config.Config, f flags) error {
	if f.detail != "" {
		cfg.Detail = f.detail
	}
	if f.width >= 0 {
		cfg.Width = f.width
	}
	if f.color {
		cfg.Colorize = true
	}
	if f.mono {
		cfg.Colorize = false
	}
	if f.invert {
		cfg.Invert = true
	}
	if f.resample != "" {
		cfg.Resample = f.resample
	}
	if f.format != "" {
		cfg.Format = f.format
	}
	if f.depth != "" {
		cfg.ColorDepth = f.depth
	}
	if f.sound {
		cfg.Sound.Enabled = true
	}
	if isDir(f.output) {
		cfg.OutputDir = f.output
	}
	return cfg.Validate()
}

func readPaths(r io.Reader) []string {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}

// validateOutput rejects several inputs writing to one file, where each
// conversion would overwrite the last
func validateOutput(paths []string, output string) error {
	if len(paths) < 2 || output == "" || output == "-" || isDir(output) {
		return nil
	}
	return fmt.Errorf("%d inputs cannot share output file %s; use a directory or '-'", len(paths), output)
}

func convertFile(path string, cfg *config.Config, output string, multi bool) error {
	img, _, err := imageio.LoadFile(path)
	if err != nil {
		log.Printf("%v", err)
		return fmt.Errorf("%s", imageio.UserMessage)
	}

	grid, err := raster.Convert(img, cfg.Raster())
	if err != nil {
		return err
	}

	format := cfg.OutputFormat()
	mode := cfg.TerminalColorMode()

	switch {
	case output == "" || output == "-":
		_, err = export.SaveAs("-", grid, format, mode)
		return err

	case isDir(output):
		// One file per input when converting several images
		name := export.Filename(format)
		if multi {
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			name = stem + format.Extension()
		}
		written, err := export.SaveAs(filepath.Join(output, name), grid, format, mode)
		if err == nil {
			fmt.Fprintf(os.Stderr, "Saved: %s (%dx%d)\n", written, grid.Cols, grid.Rows)
		}
		return err

	default:
		written, err := export.SaveAs(output, grid, format, mode)
		if err == nil {
			fmt.Fprintf(os.Stderr, "Saved: %s (%dx%d)\n", written, grid.Cols, grid.Rows)
		}
		return err
	}
}

func isDir(path string) bool {
	if path == "" || path == "-" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func runViewer(path string, cfg *config.Config) error {
	img, _, err := imageio.LoadFile(path)
	if err != nil {
		log.Printf("%v", err)
		return fmt.Errorf("%s", imageio.UserMessage)
	}

	bounds := img.Bounds()
	fmt.Fprintf(os.Stderr, "Loaded: %s (%dx%d)\n", path, bounds.Dx(), bounds.Dy())

	notifier := audio.NewNotifier(cfg.Sound.Enabled, cfg.Sound.Volume)
	if err := notifier.Initialize(); err != nil {
		log.Printf("audio disabled: %v", err)
	}
	defer notifier.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()

	// Log output would corrupt the screen while it is active
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	v := viewer.New(screen, img, cfg.Raster(), viewer.Options{
		Name:      filepath.Base(path),
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		ColorMode: cfg.TerminalColorMode(),
		Notifier:  notifier,
	})
	return v.Run()
}
