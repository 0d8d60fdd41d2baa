package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lixenwraith/ascii-mosaic/raster"
	"github.com/lixenwraith/ascii-mosaic/terminal"
)

// Write serializes g in the requested format; mode only affects ANSI
func Write(w io.Writer, g *raster.Grid, f Format, mode terminal.ColorMode) error {
	switch f {
	case FormatText:
		return WriteText(w, g)
	case FormatHTML:
		return WriteHTML(w, g)
	case FormatANSI:
		return WriteANSI(w, g, mode)
	default:
		return fmt.Errorf("unknown output format: %d", f)
	}
}

// SaveFile writes g to dir/Filename(f), replacing any existing file, and
// returns the written path
func SaveFile(dir string, g *raster.Grid, f Format, mode terminal.ColorMode) (string, error) {
	if dir == "" {
		dir = "."
	}
	return SaveAs(filepath.Join(dir, Filename(f)), g, f, mode)
}

// SaveAs writes g to path. "-" writes to stdout. Files are written to a
// temporary name in the same directory and renamed into place, so a failed
// export leaves any previous file intact and no partial output behind.
func SaveAs(path string, g *raster.Grid, f Format, mode terminal.ColorMode) (string, error) {
	if path == "-" {
		w := bufio.NewWriter(os.Stdout)
		if err := Write(w, g, f, mode); err != nil {
			return "", err
		}
		return path, w.Flush()
	}

	file, err := os.CreateTemp(filepath.Dir(path), ".ascii-art-*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	tmp := file.Name()

	fail := func(op string, err error) (string, error) {
		file.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("%s %s: %w", op, path, err)
	}

	// CreateTemp uses 0600
	if err := file.Chmod(0o644); err != nil {
		return fail("chmod", err)
	}
	if err := Write(file, g, f, mode); err != nil {
		return fail("write", err)
	}
	if err := file.Close(); err != nil {
		return fail("close", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", path, err)
	}
	return path, nil
}
