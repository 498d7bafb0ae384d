package view

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gallery/engine/loader"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
)

// ViewBuilderOption is a functional option applied to a View during construction via NewView.
type ViewBuilderOption func(*galleryView)

// WithRenderer sets the renderer the gallery and the card draw with. Without one the view runs headless.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - ViewBuilderOption: a function that applies the renderer option to a view
func WithRenderer(r renderer.Renderer) ViewBuilderOption {
	return func(v *galleryView) {
		v.renderer = r
	}
}

// WithHost sets the host the gallery and card scenes are registered with on Mount.
//
// Parameters:
//   - host: the scene host, typically the Engine
//
// Returns:
//   - ViewBuilderOption: a function that applies the host option to a view
func WithHost(host Host) ViewBuilderOption {
	return func(v *galleryView) {
		v.host = host
	}
}

// WithLoaderOptions configures the image loader built for each mount. Passing any option makes the view
// build a loader even without a renderer.
//
// Parameters:
//   - options: the loader options
//
// Returns:
//   - ViewBuilderOption: a function that applies the loader options to a view
func WithLoaderOptions(options ...loader.LoaderBuilderOption) ViewBuilderOption {
	return func(v *galleryView) {
		v.loaderOptions = append(v.loaderOptions, options...)
	}
}

// WithGalleryOptions appends options passed to every gallery the view builds.
//
// Parameters:
//   - options: the gallery options
//
// Returns:
//   - ViewBuilderOption: a function that applies the gallery options to a view
func WithGalleryOptions(options ...scene.GalleryBuilderOption) ViewBuilderOption {
	return func(v *galleryView) {
		v.galleryOptions = append(v.galleryOptions, options...)
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ViewBuilderOption: a function that applies the logger option to a view
func WithLogger(logger *slog.Logger) ViewBuilderOption {
	return func(v *galleryView) {
		if logger != nil {
			v.logger = logger
		}
	}
}
