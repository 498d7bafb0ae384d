// Package loader fetches and decodes gallery images off the render goroutine.
package loader

import (
	"context"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

const (
	// DefaultWorkers is the default number of concurrent decodes.
	DefaultWorkers = 4
	// DefaultMaxTextureSize bounds the longest side of a decoded image.
	DefaultMaxTextureSize = 2048
	// maxDownloadBytes bounds remote image bodies.
	maxDownloadBytes = 64 << 20

	resultBuffer = 64
	queueSize    = 256
)

// Result is the outcome of one requested URI.
type Result struct {
	URI   string
	Image image.Image
	Err   error
}

type entry struct {
	done bool
	img  image.Image
	err  error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc

	workers    int
	maxSize    int
	fsys       fs.FS
	httpClient *http.Client

	pool    worker.DynamicWorkerPool
	backend loaderBackend
	cache   map[string]*entry
	results chan Result
	taskID  atomic.Int64
	closed  bool
}

// Loader loads images asynchronously on a worker pool and caches them by URI.
// Sources are filesystem paths, file:// URLs and http(s):// URLs.
type Loader interface {
	// Request schedules uri for loading. Each distinct URI is fetched and decoded once; requesting a URI
	// that is already pending does nothing, and requesting a finished one re-posts its cached Result.
	//
	// Parameters:
	//   - uri: the image source
	Request(uri string)

	// Results returns the channel completed loads are posted to. The channel is never closed.
	//
	// Returns:
	//   - <-chan Result: the completion channel
	Results() <-chan Result

	// Load fetches and decodes uri on the calling goroutine, bypassing the cache.
	//
	// Parameters:
	//   - ctx: cancels remote fetches
	//   - uri: the image source
	//
	// Returns:
	//   - image.Image: the decoded image
	//   - error: a fetch error, ErrUnsupportedFormat or a decode error
	Load(ctx context.Context, uri string) (image.Image, error)

	// Close cancels outstanding loads and stops the worker pool. Safe to call more than once.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a Loader and starts its worker pool.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers:    DefaultWorkers,
		maxSize:    DefaultMaxTextureSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      make(map[string]*entry),
		results:    make(chan Result, resultBuffer),
	}
	for _, option := range options {
		option(l)
	}

	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.backend = newImageLoaderBackend(l.maxSize)
	l.pool = worker.NewDynamicWorkerPool(l.workers, queueSize, time.Second)
	return l
}

func (l *loader) Request(uri string) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	if e, ok := l.cache[uri]; ok {
		l.mu.Unlock()
		if e.done {
			go l.post(Result{URI: uri, Image: e.img, Err: e.err})
		}
		return
	}
	e := &entry{}
	l.cache[uri] = e
	l.mu.Unlock()

	task := worker.Task{
		ID:      int(l.taskID.Add(1)),
		Payload: uri,
		Do: func() (any, error) {
			img, err := l.Load(l.ctx, uri)
			if err != nil {
				slog.Warn("image load failed: "+err.Error(), "component", "loader", "uri", uri)
			}

			l.mu.Lock()
			e.done, e.img, e.err = true, img, err
			l.mu.Unlock()

			l.post(Result{URI: uri, Image: img, Err: err})
			return img, err
		},
	}
	// SubmitTask blocks while the queue is full; keep Request non-blocking for the render goroutine.
	go func() {
		if l.ctx.Err() == nil {
			l.pool.SubmitTask(task)
		}
	}()
}

func (l *loader) post(r Result) {
	select {
	case l.results <- r:
	case <-l.ctx.Done():
	}
}

func (l *loader) Results() <-chan Result {
	return l.results
}

func (l *loader) Load(ctx context.Context, uri string) (image.Image, error) {
	rc, err := l.open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return l.backend.Decode(uri, rc)
}

func (l *loader) open(ctx context.Context, uri string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", uri, resp.Status)
		}
		return readCloser{Reader: io.LimitReader(resp.Body, maxDownloadBytes), Closer: resp.Body}, nil
	case strings.HasPrefix(uri, "file://"):
		u, err := url.Parse(uri)
		if err != nil {
			return nil, err
		}
		return l.openFile(u.Path)
	default:
		return l.openFile(uri)
	}
}

func (l *loader) openFile(name string) (io.ReadCloser, error) {
	if l.fsys != nil {
		return l.fsys.Open(filepath.ToSlash(strings.TrimPrefix(name, "/")))
	}
	return os.Open(name)
}

func (l *loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.cancel()
	l.pool.Stop()
}

type readCloser struct {
	io.Reader
	io.Closer
}
