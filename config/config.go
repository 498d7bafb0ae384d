package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by Load when the manifest extension is not .toml, .yaml or .yml.
var ErrUnsupportedFormat = errors.New("config: unsupported manifest format")

// Defaults applied by Resolve to fields the manifest and flags leave unset.
const (
	DefaultBend         float32 = 3
	DefaultTextColor            = "#ffffff"
	DefaultBorderRadius float32 = 0.05
	DefaultFont                 = "bold 30px Figtree"
	DefaultScrollSpeed  float32 = 2
	DefaultScrollEase   float32 = 0.05
	DefaultTitle                = "Circular Gallery"
	DefaultWidth                = 1280
	DefaultHeight               = 720
)

// Item is one gallery entry as written in the manifest.
// Year accepts either a number or a string; see YearString.
type Item struct {
	Image       string `toml:"image" yaml:"image"`
	Text        string `toml:"text" yaml:"text"`
	Description string `toml:"description" yaml:"description"`
	Year        any    `toml:"year" yaml:"year"`
}

// YearString normalizes the year to its display string. Numbers print in decimal; absent years are empty.
func (i Item) YearString() string {
	switch y := i.Year.(type) {
	case nil:
		return ""
	case string:
		return y
	case float64:
		if y == float64(int64(y)) {
			return fmt.Sprintf("%d", int64(y))
		}
		return fmt.Sprint(y)
	default:
		return fmt.Sprint(y)
	}
}

// Window holds the native window settings.
type Window struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
}

// Gallery holds the construction parameters of the gallery scene.
// Bend and BorderRadius are pointers because zero is a meaningful value for both.
type Gallery struct {
	Bend         *float32 `toml:"bend" yaml:"bend"`
	TextColor    string   `toml:"text_color" yaml:"text_color"`
	BorderRadius *float32 `toml:"border_radius" yaml:"border_radius"`
	Font         string   `toml:"font" yaml:"font"`
	ScrollSpeed  float32  `toml:"scroll_speed" yaml:"scroll_speed"`
	ScrollEase   float32  `toml:"scroll_ease" yaml:"scroll_ease"`
}

// Render holds renderer and loop settings.
type Render struct {
	VSync       bool    `toml:"vsync" yaml:"vsync"`
	MSAA        int     `toml:"msaa" yaml:"msaa"`
	FrameLimit  float64 `toml:"frame_limit" yaml:"frame_limit"`
	LoadWorkers int     `toml:"load_workers" yaml:"load_workers"`
}

// Config is a gallery manifest: window, gallery parameters, render settings and items.
type Config struct {
	Window  Window  `toml:"window" yaml:"window"`
	Gallery Gallery `toml:"gallery" yaml:"gallery"`
	Render  Render  `toml:"render" yaml:"render"`
	Items   []Item  `toml:"items" yaml:"items"`

	// BaseDir is the directory relative image paths are resolved against.
	// Load sets it to the manifest's directory.
	BaseDir string `toml:"-" yaml:"-"`
}

// Flags holds CLI flag values that override manifest settings. Nil pointers and empty
// strings mean "not given on the command line".
type Flags struct {
	Bend         *float32
	BorderRadius *float32
	TextColor    string
	Font         string
	ScrollSpeed  float32
	ScrollEase   float32
	Width        int
	Height       int
	VSync        *bool
}

// Load reads a gallery manifest. The decoder is chosen by extension:
// .toml uses go-toml, .yaml and .yml use yaml.v3.
// Fields not set in the file keep their zero values until Resolve.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(path)

	return cfg, nil
}

// Parse decodes manifest bytes in the format named by ext (".toml", ".yaml" or ".yml").
func Parse(ext string, data []byte) (Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	for i, it := range cfg.Items {
		if strings.TrimSpace(it.Image) == "" {
			return Config{}, fmt.Errorf("item %d (%q): image is required", i, it.Text)
		}
	}
	return cfg, nil
}

// Resolve applies CLI overrides, then fills any unset field with its default.
// Relative image paths are rewritten against BaseDir; URLs are left alone.
func (c *Config) Resolve(flags Flags) {
	if flags.Bend != nil {
		c.Gallery.Bend = flags.Bend
	}
	if flags.BorderRadius != nil {
		c.Gallery.BorderRadius = flags.BorderRadius
	}
	if flags.TextColor != "" {
		c.Gallery.TextColor = flags.TextColor
	}
	if flags.Font != "" {
		c.Gallery.Font = flags.Font
	}
	if flags.ScrollSpeed > 0 {
		c.Gallery.ScrollSpeed = flags.ScrollSpeed
	}
	if flags.ScrollEase > 0 {
		c.Gallery.ScrollEase = flags.ScrollEase
	}
	if flags.Width > 0 {
		c.Window.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Window.Height = flags.Height
	}
	if flags.VSync != nil {
		c.Render.VSync = *flags.VSync
	}

	if c.Gallery.Bend == nil {
		b := DefaultBend
		c.Gallery.Bend = &b
	}
	if c.Gallery.BorderRadius == nil {
		r := DefaultBorderRadius
		c.Gallery.BorderRadius = &r
	}
	if *c.Gallery.BorderRadius < 0 {
		*c.Gallery.BorderRadius = 0
	}
	if *c.Gallery.BorderRadius > 0.5 {
		*c.Gallery.BorderRadius = 0.5
	}
	if c.Gallery.TextColor == "" {
		c.Gallery.TextColor = DefaultTextColor
	}
	if c.Gallery.Font == "" {
		c.Gallery.Font = DefaultFont
	}
	if c.Gallery.ScrollSpeed <= 0 {
		c.Gallery.ScrollSpeed = DefaultScrollSpeed
	}
	if c.Gallery.ScrollEase <= 0 || c.Gallery.ScrollEase > 1 {
		c.Gallery.ScrollEase = DefaultScrollEase
	}
	if c.Window.Title == "" {
		c.Window.Title = DefaultTitle
	}
	if c.Window.Width <= 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height <= 0 {
		c.Window.Height = DefaultHeight
	}
	if c.Render.MSAA != 1 && c.Render.MSAA != 4 {
		c.Render.MSAA = 4
	}

	for i := range c.Items {
		c.Items[i].Image = resolveImage(c.BaseDir, c.Items[i].Image)
	}
}

func resolveImage(baseDir, image string) string {
	if strings.Contains(image, "://") || filepath.IsAbs(image) || baseDir == "" {
		return image
	}
	return filepath.Join(baseDir, image)
}
