// Package imageio decodes image files and streams into bitmaps for conversion.
//
// PNG, JPEG and GIF come from the standard library; BMP, TIFF and WebP are
// registered from golang.org/x/image. Any other decoder registered with the
// image package by the caller is picked up as well.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// UserMessage is shown when an image cannot be loaded
const UserMessage = "Error loading image. Please try a different file."

// ErrDecode matches every DecodeError via errors.Is
var ErrDecode = errors.New("image decode failed")

// MaxPixels bounds the decoded bitmap area; larger headers are rejected
// before any pixel memory is allocated
const MaxPixels = 1 << 26

// ErrTooLarge is returned when input exceeds the configured byte limit
var ErrTooLarge = errors.New("image exceeds size limit")

// ErrTooManyPixels is returned for images whose header declares more than
// MaxPixels. It matches ErrTooLarge via errors.Is.
var ErrTooManyPixels = fmt.Errorf("%w: too many pixels", ErrTooLarge)

// DecodeError reports a source that could not be turned into a bitmap
type DecodeError struct {
	Source string // File path or other description of the input
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("decode image: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDecode) match any DecodeError
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Decode reads a single image from r and returns it with its format name
func Decode(r io.Reader) (image.Image, string, error) {
	return decode(r, "")
}

// DecodeBytes decodes an in-memory image
func DecodeBytes(b []byte) (image.Image, string, error) {
	return decode(bytes.NewReader(b), "")
}

// DecodeLimited decodes at most limit bytes from r. Inputs longer than limit
// fail with ErrTooLarge wrapped in a DecodeError. limit <= 0 disables the check.
func DecodeLimited(r io.Reader, limit int64, source string) (image.Image, string, error) {
	if limit <= 0 {
		return decode(r, source)
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, "", &DecodeError{Source: source, Err: err}
	}
	if int64(len(data)) > limit {
		return nil, "", &DecodeError{Source: source, Err: fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)}
	}
	return decode(bytes.NewReader(data), source)
}

// LoadFile opens and decodes the image at path
func LoadFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &DecodeError{Source: path, Err: err}
	}
	defer f.Close()

	return decode(f, path)
}

// decode checks the header dimensions, then decodes the full image from the
// replayed header bytes followed by the rest of r
func decode(r io.Reader, source string) (image.Image, string, error) {
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, "", &DecodeError{Source: source, Err: err}
	}
	if err := checkPixels(cfg.Width, cfg.Height); err != nil {
		return nil, "", &DecodeError{Source: source, Err: err}
	}

	img, format, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, "", &DecodeError{Source: source, Err: err}
	}
	return img, format, nil
}

func checkPixels(w, h int) error {
	if w < 0 || h < 0 || (w > 0 && h > MaxPixels/w) {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrTooManyPixels, w, h, MaxPixels)
	}
	return nil
}
