package media

import (
	"image/color"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/text"
)

// MediaBuilderOption is a functional option used to configure a Media during construction.
type MediaBuilderOption func(*media)

// WithRenderer uploads the plane and its caption through r. Without it the plane is CPU-only, which is
// how the controller runs headless.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - MediaBuilderOption: a function that sets the renderer
func WithRenderer(r renderer.Renderer) MediaBuilderOption {
	return func(m *media) {
		m.renderer = r
	}
}

// WithBend sets the signed bend of the belt.
//
// Parameters:
//   - bend: the bend magnitude, 0 for flat
//
// Returns:
//   - MediaBuilderOption: a function that sets the bend
func WithBend(bend float32) MediaBuilderOption {
	return func(m *media) {
		m.bend = bend
	}
}

// WithBorderRadius sets the rounded mask radius in uv units, clamped to [0, 0.5].
//
// Parameters:
//   - radius: the corner radius
//
// Returns:
//   - MediaBuilderOption: a function that sets the radius
func WithBorderRadius(radius float32) MediaBuilderOption {
	return func(m *media) {
		m.borderRadius = common.Clamp(radius, 0, 0.5)
	}
}

// WithTitle attaches a caption below the plane.
//
// Parameters:
//   - label: the caption text, empty for none
//   - font: the caption font
//   - c: the caption color
//
// Returns:
//   - MediaBuilderOption: a function that attaches the caption
func WithTitle(label string, font text.Font, c color.NRGBA) MediaBuilderOption {
	return func(m *media) {
		m.caption = &caption{label: label, font: font, color: c}
	}
}
