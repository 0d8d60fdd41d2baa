// Package export serializes character grids to text, HTML and ANSI artifacts.
package export

import (
	"fmt"
	"strings"
)

// Format selects the output artifact
type Format uint8

const (
	FormatText Format = iota // Plain UTF-8 text, one line per row
	FormatHTML               // Standalone document with per-glyph color spans
	FormatANSI               // Terminal escape sequences
)

// baseName is the stem of every exported file
const baseName = "ascii-art"

// FormatFor picks HTML for colorized grids and plain text otherwise
func FormatFor(colorize bool) Format {
	if colorize {
		return FormatHTML
	}
	return FormatText
}

// ParseFormat parses a format name; "auto" and "" defer to FormatFor
func ParseFormat(s string, colorize bool) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatFor(colorize), nil
	case "text", "txt", "plain":
		return FormatText, nil
	case "html", "htm":
		return FormatHTML, nil
	case "ansi", "ans", "term":
		return FormatANSI, nil
	default:
		return FormatText, fmt.Errorf("unknown output format: %q", s)
	}
}

// String returns the format name
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatHTML:
		return "html"
	case FormatANSI:
		return "ansi"
	default:
		return "unknown"
	}
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatANSI:
		return ".ans"
	default:
		return ".txt"
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename returns the default download name for the format
func Filename(f Format) string {
	return baseName + f.Extension()
}
