package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/loader"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
)

// GalleryBuilderOption is a functional option for configuring a Gallery.
// Use the With* functions to create options.
type GalleryBuilderOption func(g *gallery)

// WithName sets the scene's identifier.
//
// Parameters:
//   - name: the identifier
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithName(name string) GalleryBuilderOption {
	return func(g *gallery) {
		g.name = name
	}
}

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithActive(active bool) GalleryBuilderOption {
	return func(g *gallery) {
		g.active = active
	}
}

// WithRenderer draws the gallery through r. Without it the gallery is headless.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) GalleryBuilderOption {
	return func(g *gallery) {
		g.renderer = r
	}
}

// WithCamera replaces the default camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithCamera(c camera.Camera) GalleryBuilderOption {
	return func(g *gallery) {
		g.camera = c
	}
}

// WithLoader supplies the image loader. The gallery takes ownership and closes it on Destroy.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithLoader(l loader.Loader) GalleryBuilderOption {
	return func(g *gallery) {
		g.loader = l
	}
}

// WithSnapScheduler replaces the timer used by the snap debounce. Defaults to time.AfterFunc.
//
// Parameters:
//   - after: the scheduling function
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithSnapScheduler(after common.AfterFunc) GalleryBuilderOption {
	return func(g *gallery) {
		g.afterFunc = after
	}
}

// WithSize resizes the gallery to the logical size once the belt is built.
//
// Parameters:
//   - width, height: the initial size in logical pixels
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithSize(width, height int) GalleryBuilderOption {
	return func(g *gallery) {
		g.initSize = [2]int{width, height}
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - GalleryBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) GalleryBuilderOption {
	return func(g *gallery) {
		if logger != nil {
			g.logger = logger
		}
	}
}
