package media

import (
	"image/color"
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/engine/text"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleLayout(t *testing.T) {
	tt := NewTitle("Bridge", text.ParseFont("bold 30px Figtree"), color.NRGBA{A: 255})
	require.Greater(t, tt.Aspect(), float32(1))

	tt.Update(0, 0, 0, 0, 9)
	w, h := tt.Size()
	assert.InDelta(t, 1.08, h, 1e-5)
	assert.InDelta(t, 1.08*tt.Aspect(), w, 1e-4)

	x, y, z := tt.Position()
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, -4.5-1.08*0.6-TitleGap, y, 1e-5)
	assert.InDelta(t, titleDepthOffset, z, 1e-6)
}

func TestTitleFollowsParentRotation(t *testing.T) {
	tt := NewTitle("Coastline", text.ParseFont("bold 30px Figtree"), color.NRGBA{A: 255})
	tt.Update(2, 1, 0.5, math32.Pi/2, 9)

	offset := float32(4.5 + 1.08*0.6 + TitleGap)
	x, y, z := tt.Position()
	assert.InDelta(t, 2+offset, x, 1e-4)
	assert.InDelta(t, 1, y, 1e-4)
	assert.InDelta(t, 0.5+titleDepthOffset, z, 1e-6)
}

func TestTitleRasterFailureUsesBlank(t *testing.T) {
	tt := NewTitle("oops", text.Font{Size: 0}, color.NRGBA{A: 255})
	tex := tt.Texture()
	assert.Equal(t, uint32(1), tex.Width)
	assert.Equal(t, uint32(1), tex.Height)
	assert.Equal(t, float32(1), tt.Aspect())
}
