package view

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
	"github.com/Carmen-Shannon/oxy-gallery/engine/text"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Card metrics in logical pixels.
const (
	CardMaxWidth = 320
	CardInset    = 16
	CardPadding  = 16
	CardRadius   = 12

	// CardLiftY is the fraction of the card height it is raised above its anchor.
	CardLiftY = 1.1

	closeWidth  = 64
	closeHeight = 28
	closeRadius = 8
	lineGap     = 6
	minWidth    = 120
)

var (
	yearFont        = text.Font{Size: 12}
	captionFont     = text.Font{Size: 18, Bold: true}
	descriptionFont = text.Font{Size: 14}
	closeFont       = text.Font{Size: 13, Bold: true}

	cardBackground  = color.NRGBA{R: 18, G: 18, B: 22, A: 235}
	yearColor       = color.NRGBA{R: 255, G: 255, B: 255, A: 140}
	captionColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	descColor       = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	closeBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 36}
)

// Rect is an axis-aligned rectangle in logical pixels.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether the point lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// CardLayout places the overlay card on screen.
type CardLayout struct {
	// Rect is the card's bounds.
	Rect Rect
	// Close is the Close button's bounds.
	Close Rect

	Caption     []string
	Description []string
}

// LayoutCard sizes the card for item and positions it over the anchor. On desktop the card is centered
// on anchorX and at most CardMaxWidth wide; in compact mode it spans the screen minus CardInset on each
// side. Either way it sits CardLiftY card heights above anchorY.
//
// Parameters:
//   - item: the selected item
//   - anchorX, anchorY: the projected item center in logical pixels
//   - screenW: the screen width in logical pixels
//   - compact: whether the compact layout applies
//
// Returns:
//   - CardLayout: the layout
//   - error: an error wrapping text.ErrNoSurface if a face cannot be built
func LayoutCard(item scene.GalleryItem, anchorX, anchorY, screenW float32, compact bool) (CardLayout, error) {
	w := screenW - 2*CardInset
	if !compact {
		w = min(w, CardMaxWidth)
	}
	w = max(w, minWidth)
	inner := float64(w - 2*CardPadding)

	var l CardLayout
	var err error
	if l.Caption, err = wrapWith(captionFont, item.Text, inner); err != nil {
		return CardLayout{}, err
	}
	if l.Description, err = wrapWith(descriptionFont, item.Description, inner); err != nil {
		return CardLayout{}, err
	}

	h := float32(CardPadding)
	if item.Year != "" {
		h += lineHeight(yearFont) + lineGap
	}
	h += float32(len(l.Caption)) * lineHeight(captionFont)
	if len(l.Description) > 0 {
		h += lineGap + float32(len(l.Description))*lineHeight(descriptionFont)
	}
	h += 2*lineGap + closeHeight + CardPadding

	x := anchorX - w/2
	if compact {
		x = CardInset
	}
	l.Rect = Rect{X: x, Y: anchorY - CardLiftY*h, W: w, H: h}
	l.Close = Rect{
		X: l.Rect.X + w - CardPadding - closeWidth,
		Y: l.Rect.Y + h - CardPadding - closeHeight,
		W: closeWidth,
		H: closeHeight,
	}
	return l, nil
}

// RenderCard draws the card described by layout at scale device pixels per logical pixel.
//
// Parameters:
//   - item: the selected item
//   - layout: the layout from LayoutCard
//   - scale: the device pixel ratio
//
// Returns:
//   - *image.NRGBA: the card bitmap
//   - error: an error wrapping text.ErrNoSurface if a face cannot be built
func RenderCard(item scene.GalleryItem, layout CardLayout, scale float32) (*image.NRGBA, error) {
	if scale <= 0 {
		scale = 1
	}
	s := float64(scale)
	w := int(math.Ceil(float64(layout.Rect.W) * s))
	h := int(math.Ceil(float64(layout.Rect.H) * s))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	fillRoundedRect(img, 0, 0, float32(w), float32(h), CardRadius*scale, cardBackground)

	pad := float32(CardPadding)
	y := pad
	if item.Year != "" {
		if err := drawLine(img, yearFont, item.Year, pad, y, scale, yearColor); err != nil {
			return nil, err
		}
		y += lineHeight(yearFont) + lineGap
	}
	for _, line := range layout.Caption {
		if err := drawLine(img, captionFont, line, pad, y, scale, captionColor); err != nil {
			return nil, err
		}
		y += lineHeight(captionFont)
	}
	if len(layout.Description) > 0 {
		y += lineGap
		for _, line := range layout.Description {
			if err := drawLine(img, descriptionFont, line, pad, y, scale, descColor); err != nil {
				return nil, err
			}
			y += lineHeight(descriptionFont)
		}
	}

	cx := layout.Close.X - layout.Rect.X
	cy := layout.Close.Y - layout.Rect.Y
	fillRoundedRect(img, cx*scale, cy*scale, (cx+closeWidth)*scale, (cy+closeHeight)*scale, closeRadius*scale, closeBackground)
	labelW, err := text.Measure("Close", scaled(closeFont, scale))
	if err != nil {
		return nil, err
	}
	lx := cx + (closeWidth-float32(labelW)/scale)/2
	ly := cy + (closeHeight-lineHeight(closeFont))/2
	if err := drawLine(img, closeFont, "Close", lx, ly, scale, captionColor); err != nil {
		return nil, err
	}
	return img, nil
}

func lineHeight(f text.Font) float32 {
	return float32(math.Ceil(f.Size * text.LineHeight))
}

func scaled(f text.Font, scale float32) text.Font {
	f.Size *= float64(scale)
	return f
}

// drawLine draws one line with its em box centered in a line of lineHeight(f), top at y.
func drawLine(dst *image.NRGBA, f text.Font, line string, x, y, scale float32, c color.NRGBA) error {
	face, err := text.NewFace(scaled(f, scale))
	if err != nil {
		return err
	}
	defer face.Close()

	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64
	lh := float64(lineHeight(f) * scale)
	baseline := float64(y*scale) + (lh-(ascent+descent))/2 + ascent

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(float64(x*scale) * 64)), Y: fixed.Int26_6(math.Round(baseline * 64))},
	}
	d.DrawString(line)
	return nil
}

// wrapWith breaks s into lines no wider than maxWidth. A word wider than maxWidth gets a line of its own.
func wrapWith(f text.Font, s string, maxWidth float64) ([]string, error) {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil, nil
	}
	face, err := text.NewFace(f)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if float64(font.MeasureString(face, candidate))/64 <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	return append(lines, line), nil
}

func fillRoundedRect(dst *image.NRGBA, x0, y0, x1, y1, r float32, c color.NRGBA) {
	b := dst.Bounds()
	r = min(r, (x1-x0)/2, (y1-y0)/2)
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(x0+r, y0)
	z.LineTo(x1-r, y0)
	z.QuadTo(x1, y0, x1, y0+r)
	z.LineTo(x1, y1-r)
	z.QuadTo(x1, y1, x1-r, y1)
	z.LineTo(x0+r, y1)
	z.QuadTo(x0, y1, x0, y1-r)
	z.LineTo(x0, y0+r)
	z.QuadTo(x0, y0, x0+r, y0)
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}
