package loader

import (
	"io/fs"
	"net/http"
)

// LoaderBuilderOption is a functional option applied to a loader during construction via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the maximum number of concurrent decodes.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithMaxTextureSize bounds the longest side of decoded images; larger images are resized down.
// Zero disables resizing.
//
// Parameters:
//   - size: the maximum side length in pixels
//
// Returns:
//   - LoaderBuilderOption: a function that applies the size bound to a loader
func WithMaxTextureSize(size int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxSize = size
	}
}

// WithFS resolves path and file:// sources against fsys instead of the operating system.
//
// Parameters:
//   - fsys: the filesystem to read from
//
// Returns:
//   - LoaderBuilderOption: a function that applies the filesystem to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = fsys
	}
}

// WithHTTPClient sets the client used for http(s) sources.
//
// Parameters:
//   - client: the HTTP client
//
// Returns:
//   - LoaderBuilderOption: a function that applies the client to a loader
func WithHTTPClient(client *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		if client != nil {
			l.httpClient = client
		}
	}
}
