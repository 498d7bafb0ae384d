// Package text rasterizes caption strings into bitmaps that the gallery uploads as textures.
package text

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrNoSurface is returned when no bitmap can be produced for a label.
var ErrNoSurface = errors.New("text: no drawing surface")

const (
	// PaddingX is added to the measured advance to get the bitmap width.
	PaddingX = 40
	// PaddingY is added to the line height to get the bitmap height.
	PaddingY = 30
	// LineHeight is the line height as a multiple of the font size.
	LineHeight = 1.4

	// MaxDimension bounds either side of the bitmap.
	MaxDimension = 8192

	shadowBlur = 4
	shadowDX   = 1
	shadowDY   = 1
)

var shadowColor = color.NRGBA{A: 128}

// Size returns the bitmap dimensions Rasterize produces for a label of the given advance width.
//
// Parameters:
//   - advance: the measured advance of the label in pixels
//   - fontSize: the font size in pixels
//
// Returns:
//   - width, height: the bitmap dimensions
func Size(advance, fontSize float64) (width, height int) {
	return int(math.Ceil(advance)) + PaddingX, int(math.Ceil(fontSize*LineHeight)) + PaddingY
}

// Measure returns the advance width of label in pixels.
//
// Parameters:
//   - label: the text to measure
//   - f: the font to measure with
//
// Returns:
//   - float64: the advance in pixels
//   - error: ErrNoSurface if the font face cannot be built
func Measure(label string, f Font) (float64, error) {
	face, err := NewFace(f)
	if err != nil {
		return 0, err
	}
	defer face.Close()
	return fixedToFloat(font.MeasureString(face, label)), nil
}

// Rasterize draws label centered on a transparent bitmap with a soft drop shadow.
// The output is deterministic for identical inputs.
//
// Parameters:
//   - label: the text to draw
//   - f: the font to draw with
//   - c: the text color
//
// Returns:
//   - *image.NRGBA: the bitmap, sized by Size
//   - error: an error wrapping ErrNoSurface when the face cannot be built or the bitmap would be empty or oversized
func Rasterize(label string, f Font, c color.NRGBA) (*image.NRGBA, error) {
	face, err := NewFace(f)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	advance := fixedToFloat(font.MeasureString(face, label))
	w, h := Size(advance, f.Size)
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d bitmap for %q", ErrNoSurface, w, h, label)
	}

	// middle baseline: the em box is vertically centered on the bitmap
	metrics := face.Metrics()
	ascent, descent := fixedToFloat(metrics.Ascent), fixedToFloat(metrics.Descent)
	x := (float64(w) - advance) / 2
	y := float64(h)/2 + (ascent-descent)/2

	shadow := image.NewRGBA(image.Rect(0, 0, w, h))
	drawString(shadow, face, label, x+shadowDX, y+shadowDY, shadowColor)
	blurred := blur.Gaussian(shadow, shadowBlur/2)

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), blurred, image.Point{}, draw.Over)
	drawString(out, face, label, x, y, c)
	return out, nil
}

// NewFace builds a font face for f at 72 DPI, so one point is one pixel. The caller closes it.
//
// Parameters:
//   - f: the font
//
// Returns:
//   - font.Face: the face
//   - error: an error wrapping ErrNoSurface for an invalid size or an unparsable font
func NewFace(f Font) (font.Face, error) {
	if f.Size <= 0 || math.IsNaN(f.Size) || math.IsInf(f.Size, 0) {
		return nil, fmt.Errorf("%w: invalid font size %v", ErrNoSurface, f.Size)
	}
	otf, err := f.resolve()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSurface, err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSurface, err)
	}
	return face, nil
}

func drawString(dst draw.Image, face font.Face, label string, x, y float64, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y)},
	}
	d.DrawString(label)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
