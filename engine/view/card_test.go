package view

import (
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
	"github.com/Carmen-Shannon/oxy-gallery/engine/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bridge = scene.GalleryItem{Text: "Bridge", Year: "2021"}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	assert.True(t, r.Contains(10, 20))
	assert.True(t, r.Contains(40, 60))
	assert.True(t, r.Contains(25, 30))
	assert.False(t, r.Contains(9.9, 30))
	assert.False(t, r.Contains(25, 60.1))
}

func TestLayoutCardDesktop(t *testing.T) {
	l, err := LayoutCard(bridge, 640, 360, 1280, false)
	require.NoError(t, err)

	assert.Equal(t, float32(CardMaxWidth), l.Rect.W)
	assert.Equal(t, float32(640-CardMaxWidth/2), l.Rect.X)
	assert.InDelta(t, 360-CardLiftY*l.Rect.H, l.Rect.Y, 1e-3)
	assert.Less(t, l.Rect.Y+l.Rect.H, float32(360), "card sits above the anchor")
	assert.Equal(t, []string{"Bridge"}, l.Caption)
	assert.Empty(t, l.Description)

	// Close sits in the bottom right corner inside the padding
	assert.Equal(t, l.Rect.X+l.Rect.W-CardPadding, l.Close.X+l.Close.W)
	assert.InDelta(t, l.Rect.Y+l.Rect.H-CardPadding, l.Close.Y+l.Close.H, 1e-3)
	assert.True(t, l.Rect.Contains(l.Close.X, l.Close.Y))
}

func TestLayoutCardCompact(t *testing.T) {
	l, err := LayoutCard(bridge, 100, 500, 600, true)
	require.NoError(t, err)
	assert.Equal(t, float32(CardInset), l.Rect.X)
	assert.Equal(t, float32(600-2*CardInset), l.Rect.W)

	narrow, err := LayoutCard(bridge, 50, 500, 100, true)
	require.NoError(t, err)
	assert.Equal(t, float32(minWidth), narrow.Rect.W)
}

func TestLayoutCardWrapsDescription(t *testing.T) {
	item := bridge
	item.Description = strings.Repeat("a quiet crossing over the river at dawn ", 8)

	l, err := LayoutCard(item, 640, 360, 1280, false)
	require.NoError(t, err)
	require.Greater(t, len(l.Description), 1)

	inner := float64(CardMaxWidth - 2*CardPadding)
	for _, line := range l.Description {
		w, err := text.Measure(line, descriptionFont)
		require.NoError(t, err)
		assert.LessOrEqual(t, w, inner, line)
	}
	assert.Equal(t, strings.Fields(item.Description), strings.Fields(strings.Join(l.Description, " ")))

	plain, err := LayoutCard(bridge, 640, 360, 1280, false)
	require.NoError(t, err)
	assert.Greater(t, l.Rect.H, plain.Rect.H)
}

func TestLayoutCardWithoutYear(t *testing.T) {
	withYear, err := LayoutCard(bridge, 640, 360, 1280, false)
	require.NoError(t, err)
	withoutYear, err := LayoutCard(scene.GalleryItem{Text: "Bridge"}, 640, 360, 1280, false)
	require.NoError(t, err)
	assert.Equal(t, lineHeight(yearFont)+lineGap, withYear.Rect.H-withoutYear.Rect.H)
}

func TestWrapKeepsLongWordWhole(t *testing.T) {
	lines, err := wrapWith(captionFont, "short Pneumonoultramicroscopicsilicovolcanoconiosis end", 80)
	require.NoError(t, err)
	assert.Contains(t, lines, "Pneumonoultramicroscopicsilicovolcanoconiosis")

	lines, err = wrapWith(captionFont, "   ", 80)
	require.NoError(t, err)
	assert.Nil(t, lines)
}

func TestRenderCard(t *testing.T) {
	l, err := LayoutCard(bridge, 640, 360, 1280, false)
	require.NoError(t, err)

	img, err := RenderCard(bridge, l, 2)
	require.NoError(t, err)
	b := img.Bounds()
	assert.Equal(t, int(math.Ceil(float64(l.Rect.W)*2)), b.Dx())
	assert.Equal(t, int(math.Ceil(float64(l.Rect.H)*2)), b.Dy())

	// rounded corner stays clear, the body is filled
	assert.Less(t, img.NRGBAAt(0, 0).A, uint8(50))
	assert.Greater(t, img.NRGBAAt(b.Dx()/2, b.Dy()/2).A, uint8(200))

	unscaled, err := RenderCard(bridge, l, 0)
	require.NoError(t, err)
	assert.Equal(t, int(math.Ceil(float64(l.Rect.W))), unscaled.Bounds().Dx())
}

func TestOverlayUniformMarshal(t *testing.T) {
	u := GPUOverlayUniform{Rect: [4]float32{-1, 1, 1, -1}, Params: [4]float32{0.5}}
	buf := u.Marshal()
	require.Len(t, buf, 32)
	assert.Equal(t, []byte{0, 0, 0x80, 0xbf}, buf[0:4])
	assert.Equal(t, []byte{0, 0, 0, 0x3f}, buf[16:20])
}
