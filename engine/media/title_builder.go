package media

import "github.com/Carmen-Shannon/oxy-gallery/engine/renderer"

// TitleBuilderOption is a functional option used to configure a Title during construction.
type TitleBuilderOption func(*title)

// WithTitleRenderer uploads the caption through r. Without it the caption stays CPU-only.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - TitleBuilderOption: a function that sets the renderer
func WithTitleRenderer(r renderer.Renderer) TitleBuilderOption {
	return func(t *title) {
		t.renderer = r
	}
}
