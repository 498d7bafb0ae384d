package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/engine/text"
	"github.com/HugoSmits86/nativewebp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var colorWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func TestSlug(t *testing.T) {
	assert.Equal(t, "desk-setup", slug("Desk Setup"))
	assert.Equal(t, "new-york", slug("  New   York! "))
	assert.Equal(t, "café-2024", slug("Café (2024)"))
	assert.Equal(t, "caption", slug("!!!"))
}

func TestSnapshotWritesWebP(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	f := text.ParseFont("bold 30px Figtree")
	written, err := snapshot([]string{"Bridge", "Palm Trees"}, f, colorWhite, dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "00-bridge.webp"),
		filepath.Join(dir, "01-palm-trees.webp"),
	}, written)

	in, err := os.Open(written[0])
	require.NoError(t, err)
	defer in.Close()
	img, err := nativewebp.Decode(in)
	require.NoError(t, err)

	want, err := text.Rasterize("Bridge", f, colorWhite)
	require.NoError(t, err)
	assert.Equal(t, want.Bounds().Size(), img.Bounds().Size())
}

func TestSnapshotReportsEveryFailure(t *testing.T) {
	dir := t.TempDir()
	written, err := snapshot([]string{"Bridge", "Coastline"}, text.Font{Size: 0}, colorWhite, dir)
	require.ErrorIs(t, err, text.ErrNoSurface)
	assert.Contains(t, err.Error(), "caption 0")
	assert.Contains(t, err.Error(), "caption 1")
	assert.Empty(t, written)
}
