// Package scene holds the scenes the engine renders, chief among them the circular gallery.
package scene

import (
	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
)

// Scene is the engine-facing side of a scene. The engine calls Update then Draw once per frame on the
// render goroutine, inside a single BeginFrame/EndFrame block shared by every active scene.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is updated and drawn.
	Active() bool

	// SetActive sets whether this scene is updated and drawn.
	//
	// Parameters:
	//   - active: true to include the scene in the frame
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer, or nil for a headless scene.
	Renderer() renderer.Renderer

	// Resize adapts the scene to a new logical size. Zero sizes are ignored.
	//
	// Parameters:
	//   - width: the width in logical pixels
	//   - height: the height in logical pixels
	Resize(width, height int)

	// Update advances the scene by one tick.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Update(deltaTime float32)

	// Draw uploads the frame's uniforms and records the scene's draw calls.
	// Must be called within a BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: error if a draw call fails
	Draw() error

	// Destroy releases the scene's resources. Safe to call more than once; every later call on the
	// scene is a no-op.
	Destroy()
}
