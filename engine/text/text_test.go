package text

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func TestParseFont(t *testing.T) {
	tests := []struct {
		in   string
		want Font
	}{
		{"bold 30px Figtree", Font{Family: "Figtree", Size: 30, Bold: true}},
		{"600 18px Georgia, serif", Font{Family: "Georgia, serif", Size: 18, Bold: true}},
		{"400 12.5px monospace", Font{Family: "monospace", Size: 12.5}},
		{"semibold 16px/1.2 'Open Sans'", Font{Family: "Open Sans", Size: 16, Bold: true}},
		{"Figtree", Font{Family: "Figtree", Size: DefaultSize}},
		{"", Font{Size: DefaultSize}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFont(tt.in))
		})
	}
}

func TestGenericFamily(t *testing.T) {
	assert.Equal(t, "serif", genericFamily("Georgia, serif"))
	assert.Equal(t, "sans-serif", genericFamily("'Figtree', sans-serif"))
	assert.Equal(t, "monospace", genericFamily("monospace"))
	assert.Equal(t, "", genericFamily("Figtree"))
}

func TestRasterizeSize(t *testing.T) {
	f := ParseFont("bold 30px Figtree")
	advance, err := Measure("Bridge", f)
	require.NoError(t, err)
	require.Greater(t, advance, 0.0)

	img, err := Rasterize("Bridge", f, white)
	require.NoError(t, err)

	w, h := Size(advance, 30)
	assert.Equal(t, w, img.Bounds().Dx())
	assert.Equal(t, h, img.Bounds().Dy())
	assert.Equal(t, 72, h)
}

func TestRasterizeDrawsText(t *testing.T) {
	img, err := Rasterize("Santorini", ParseFont("bold 30px Figtree"), white)
	require.NoError(t, err)

	var opaque, whitePx int
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 255 {
			opaque++
			if img.Pix[i] == 255 && img.Pix[i+1] == 255 && img.Pix[i+2] == 255 {
				whitePx++
			}
		}
	}
	assert.Positive(t, opaque)
	assert.Positive(t, whitePx)

	// the corners are margin and stay transparent
	assert.Zero(t, img.NRGBAAt(0, 0).A)
	assert.Zero(t, img.NRGBAAt(img.Bounds().Dx()-1, img.Bounds().Dy()-1).A)
}

func TestRasterizeDeterministic(t *testing.T) {
	f := ParseFont("600 24px serif")
	a, err := Rasterize("Good Boy", f, white)
	require.NoError(t, err)
	b, err := Rasterize("Good Boy", f, white)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestRasterizeEmptyLabel(t *testing.T) {
	img, err := Rasterize("", ParseFont("30px Figtree"), white)
	require.NoError(t, err)
	assert.Equal(t, PaddingX, img.Bounds().Dx())
}

func TestRasterizeNoSurface(t *testing.T) {
	_, err := Rasterize("x", Font{Size: 100000}, white)
	assert.ErrorIs(t, err, ErrNoSurface)

	_, err = Rasterize("x", Font{Size: 0}, white)
	assert.ErrorIs(t, err, ErrNoSurface)
}
