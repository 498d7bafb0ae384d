package engine

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gallery/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
	"github.com/Carmen-Shannon/oxy-gallery/engine/window"
)

// surfaceRetryDelay is how long the render loop sleeps while the surface has no drawable size.
const surfaceRetryDelay = 50 * time.Millisecond

// engine implements the Engine interface.
// Coordinates the engine tick, render and window threads.
type engine struct {
	mu *sync.Mutex

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration

	scenes []scene.Scene

	renderFrameLimit time.Duration
	logger           *slog.Logger
}

// Engine is the main entry point for the engine.
// It orchestrates the tick loop, the render loop and the window. The tick loop advances every active
// scene at a fixed rate so motion does not depend on the frame rate; the render loop only draws.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene appends a scene. Scenes are updated and drawn in the order they were added, so later
	// scenes draw over earlier ones. Adding a scene twice does nothing.
	//
	// Parameters:
	//   - s: the Scene to register
	AddScene(s scene.Scene)

	// RemoveScene unregisters a scene. Once it returns the render loop no longer touches the scene,
	// so its GPU resources may be released. Must not be called from a scene's Update or Draw.
	//
	// Parameters:
	//   - s: the Scene to remove
	RemoveScene(s scene.Scene)

	// Scenes returns the registered scenes in draw order.
	//
	// Returns:
	//   - []scene.Scene: a copy of the scene list
	Scenes() []scene.Scene

	// Run starts the engine goroutines and the window message loop. Blocks until the window closes
	// or Quit is called.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// When a window is supplied its framebuffer size drives the renderers and its logical size drives the scenes.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		quitChannel:      make(chan struct{}),
		wg:               sync.WaitGroup{},
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
		logger:           slog.Default(),
	}

	for _, opt := range options {
		opt(e)
	}
	e.logger = e.logger.With("component", "engine")
	e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))

	if e.window != nil {
		e.window.SetResizeCallback(e.resizeSurface)
		e.window.SetViewportCallback(e.resizeScenes)
	}

	return e
}

// resizeSurface reconfigures every distinct renderer for a new framebuffer size.
func (e *engine) resizeSurface(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var seen []renderer.Renderer
	for _, s := range e.scenes {
		r := s.Renderer()
		if r == nil || slices.Contains(seen, r) {
			continue
		}
		seen = append(seen, r)
		r.Resize(width, height)
	}
}

// resizeScenes forwards a logical size change to every scene.
func (e *engine) resizeScenes(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.scenes {
		s.Resize(width, height)
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.handle()
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			if err := e.window.Close(); err != nil {
				e.logger.Warn("window close failed: " + err.Error())
			}
		default:
		}
	})
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate tick loop. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.tick(dt)
		}
	}
}

// tick advances every active scene by one step.
func (e *engine) tick(dt float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.scenes {
		if s.Active() {
			s.Update(dt)
		}
	}
}

// handleRender runs the render loop until quit. A panic is logged and shuts the engine down.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		frameStart := time.Now()

		if errors.Is(e.frame(), renderer.ErrSurfaceUnavailable) {
			time.Sleep(surfaceRetryDelay)
			continue
		}

		if e.profilingEnabled {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// frame draws every active scene in one render pass on the first scene renderer.
// The scene list stays locked for the whole frame so RemoveScene waits for an in-flight draw.
//
// Returns:
//   - error: renderer.ErrSurfaceUnavailable when the frame was skipped, or the frame acquisition error
func (e *engine) frame() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var active []scene.Scene
	var frameRenderer renderer.Renderer
	for _, s := range e.scenes {
		if !s.Active() {
			continue
		}
		active = append(active, s)
		if frameRenderer == nil {
			frameRenderer = s.Renderer()
		}
	}
	if frameRenderer == nil {
		return nil
	}

	if err := frameRenderer.BeginFrame(); err != nil {
		if !errors.Is(err, renderer.ErrSurfaceUnavailable) {
			e.logger.Warn("begin frame failed: " + err.Error())
		}
		return err
	}
	for _, s := range active {
		if s.Renderer() != frameRenderer {
			continue
		}
		if err := s.Draw(); err != nil {
			e.logger.Warn("scene draw failed: "+err.Error(), "scene", s.Name())
		}
	}
	frameRenderer.EndFrame()
	frameRenderer.Present()
	return nil
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) AddScene(s scene.Scene) {
	if s == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if slices.Contains(e.scenes, s) {
		return
	}
	e.scenes = append(e.scenes, s)
}

func (e *engine) RemoveScene(s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := slices.Index(e.scenes, s); i >= 0 {
		e.scenes = slices.Delete(e.scenes, i, i+1)
	}
}

func (e *engine) Scenes() []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.scenes)
}

// frameDuration converts a frame rate cap to a minimum frame duration; 0 means uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
