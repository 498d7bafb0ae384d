package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// MaxPixelRatio caps the device pixel ratio reported by PixelRatio.
const MaxPixelRatio = 2

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetViewportCallback sets the function called when the logical window size changes.
	// Pointer coordinates are expressed in the same logical units.
	//
	// Parameters:
	//   - callback: function receiving new width and height in logical pixels
	SetViewportCallback(callback func(width, height int))

	// SetInputHandler routes pointer, wheel and key events to handler. Passing nil detaches input.
	//
	// Parameters:
	//   - handler: the receiver of input events
	SetInputHandler(handler input.Handler)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// LogicalSize returns the window client area in logical pixels, the unit of pointer events.
	//
	// Returns:
	//   - int: width in logical pixels
	//   - int: height in logical pixels
	LogicalSize() (int, int)

	// PixelRatio returns framebuffer pixels per logical pixel, capped at MaxPixelRatio.
	//
	// Returns:
	//   - float32: the device pixel ratio
	PixelRatio() float32
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	title string

	minWidth  int
	minHeight int

	// width and height are the framebuffer size in pixels.
	width  int
	height int

	// logicalWidth and logicalHeight are the window size in screen coordinates.
	logicalWidth  int
	logicalHeight int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate   func()
	onResize   func(width, height int)
	onViewport func(width, height int)

	// handler is swapped from other goroutines when the view remounts.
	handlerMu sync.RWMutex
	handler   input.Handler
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured, visible window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "Circular Gallery",
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetViewportCallback(callback func(width, height int)) {
	w.onViewport = callback
}

func (w *engineWindow) SetInputHandler(handler input.Handler) {
	w.handlerMu.Lock()
	defer w.handlerMu.Unlock()
	w.handler = handler
}

func (w *engineWindow) inputHandler() input.Handler {
	w.handlerMu.RLock()
	defer w.handlerMu.RUnlock()
	return w.handler
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) LogicalSize() (int, int) {
	return w.logicalWidth, w.logicalHeight
}

func (w *engineWindow) PixelRatio() float32 {
	return pixelRatio(w.width, w.logicalWidth)
}

// pixelRatio derives the device pixel ratio from the framebuffer and logical widths.
func pixelRatio(framebufferWidth, logicalWidth int) float32 {
	if logicalWidth <= 0 || framebufferWidth <= 0 {
		return 1
	}
	return min(float32(framebufferWidth)/float32(logicalWidth), MaxPixelRatio)
}
