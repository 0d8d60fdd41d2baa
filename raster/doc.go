// @focus: #core { raster }
// Package raster converts a decoded image into a grid of glyphs.
//
// Conversion is a single pure pass:
//   - Grid size from the requested column count and the source aspect ratio
//     (rows are halved to compensate for glyphs being taller than wide)
//   - Resampling of the source to one pixel per cell
//   - Brightness lookup into a fixed character ramp chosen by detail level
//   - Optional per-cell RGB for colorized output
//
// Convert holds no state between calls and may be invoked concurrently.
package raster
