package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlManifest = `
[window]
title = "Travel"
width = 1024

[gallery]
bend = 0
border_radius = 0.9
font = "bold 24px serif"

[[items]]
image = "images/a.jpg"
text = "Bridge"
description = "Fog at dawn"
year = 2019

[[items]]
image = "https://example.com/b.png"
text = "Desert"
year = "circa 1990"
`

const yamlManifest = `
gallery:
  bend: 1.5
  text_color: "#000"
  scroll_ease: 0.1
items:
  - image: /abs/c.webp
    text: Coast
    year: 2021
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "gallery.toml", tomlManifest)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Items, 2)

	assert.Equal(t, "Travel", cfg.Window.Title)
	assert.Equal(t, 1024, cfg.Window.Width)
	require.NotNil(t, cfg.Gallery.Bend)
	assert.Equal(t, float32(0), *cfg.Gallery.Bend, "explicit zero bend must survive")
	assert.Equal(t, "2019", cfg.Items[0].YearString())
	assert.Equal(t, "circa 1990", cfg.Items[1].YearString())
	assert.Equal(t, filepath.Dir(path), cfg.BaseDir)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "gallery.yml", yamlManifest)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Items, 1)
	require.NotNil(t, cfg.Gallery.Bend)
	assert.InDelta(t, 1.5, *cfg.Gallery.Bend, 1e-6)
	assert.Equal(t, "#000", cfg.Gallery.TextColor)
	assert.Equal(t, "2021", cfg.Items[0].YearString())
	assert.Nil(t, cfg.Gallery.BorderRadius)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "gallery.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.toml", "[[items]]\ntext = \"no image\"\n"))
	assert.ErrorContains(t, err, "image is required")

	_, err = Load(writeFile(t, "broken.yaml", "items: [\n"))
	assert.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	assert.Equal(t, DefaultBend, *cfg.Gallery.Bend)
	assert.Equal(t, DefaultBorderRadius, *cfg.Gallery.BorderRadius)
	assert.Equal(t, DefaultTextColor, cfg.Gallery.TextColor)
	assert.Equal(t, DefaultFont, cfg.Gallery.Font)
	assert.Equal(t, DefaultScrollSpeed, cfg.Gallery.ScrollSpeed)
	assert.Equal(t, DefaultScrollEase, cfg.Gallery.ScrollEase)
	assert.Equal(t, DefaultTitle, cfg.Window.Title)
	assert.Equal(t, DefaultWidth, cfg.Window.Width)
	assert.Equal(t, DefaultHeight, cfg.Window.Height)
	assert.Equal(t, 4, cfg.Render.MSAA)
	assert.Empty(t, cfg.Items)
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	cfg, err := Load(writeFile(t, "gallery.toml", tomlManifest))
	require.NoError(t, err)

	bend := float32(-2)
	cfg.Resolve(Flags{Bend: &bend, TextColor: "#ff0000", Height: 600})

	assert.Equal(t, float32(-2), *cfg.Gallery.Bend)
	assert.Equal(t, "#ff0000", cfg.Gallery.TextColor)
	assert.Equal(t, "bold 24px serif", cfg.Gallery.Font)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, float32(0.5), *cfg.Gallery.BorderRadius, "border radius is clamped")

	assert.Equal(t, filepath.Join(cfg.BaseDir, "images", "a.jpg"), cfg.Items[0].Image)
	assert.Equal(t, "https://example.com/b.png", cfg.Items[1].Image)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "gallery.yaml", yamlManifest)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []Config
	require.NoError(t, Watch(ctx, path, func(c Config, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		got = append(got, c)
		mu.Unlock()
	}))

	updated := yamlManifest + "  - image: d.png\n    text: Harbor\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && len(got[len(got)-1].Items) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "gallery.toml"), func(Config, error) {})
	assert.Error(t, err)
}
