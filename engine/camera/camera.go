package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

const (
	// DefaultFov is the vertical field of view in degrees.
	DefaultFov float32 = 45
	// DefaultDistance is the camera's distance from the z=0 plane the gallery lives on.
	DefaultDistance float32 = 20
)

type cameraImpl struct {
	mu *sync.Mutex

	position [3]float32
	up       [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix            [16]float32
	projectionMatrix      [16]float32
	viewProjectionMatrix  [16]float32
	inverseViewProjMatrix [16]float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is a fixed perspective camera looking down -Z at the origin.
// The gallery never moves the camera; only the aspect ratio changes when the viewport is resized.
type Camera interface {
	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Position returns the world-space position of the camera.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	ViewProjectionMatrix() [16]float32

	// Project maps a world-space point to normalized device coordinates.
	//
	// Parameters:
	//   - x, y, z: the world-space point
	//
	// Returns:
	//   - ndcX, ndcY: the point in [-1, 1] when on screen, +Y up
	//   - ok: false when the point is behind the camera
	Project(x, y, z float32) (ndcX, ndcY float32, ok bool)

	// Unproject casts the ray through a normalized device point and intersects it with the z = 0 plane.
	//
	// Parameters:
	//   - ndcX, ndcY: the device point, +Y up
	//
	// Returns:
	//   - x, y: the world-space hit on z = 0
	//   - ok: false when the ray is parallel to the plane
	Unproject(ndcX, ndcY float32) (x, y float32, ok bool)

	// ViewportSize returns the world-space width and height visible at z = 0.
	//
	// Returns:
	//   - width: visible width in world units
	//   - height: visible height in world units
	ViewportSize() (width, height float32)

	// Uniform returns the GPU uniform for the current matrices.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform ready to marshal
	Uniform() GPUCameraUniform

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	// Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at (0, 0, DefaultDistance) with a DefaultFov degree field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: [3]float32{0, 0, DefaultDistance},
		up:       [3]float32{0, 1, 0},
		fov:      DefaultFov * (math32.Pi / 180),
		aspect:   1,
		near:     0.1,
		far:      100,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Add(1)-1, 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position[0], c.position[1], c.position[2]
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Project(x, y, z float32) (ndcX, ndcY float32, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cx, cy, _, cw := transform(&c.viewProjectionMatrix, x, y, z)
	if cw <= 0 {
		return 0, 0, false
	}
	return cx / cw, cy / cw, true
}

func (c *cameraImpl) Unproject(ndcX, ndcY float32) (x, y float32, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// depth runs 0..1 from the near to the far plane
	nx, ny, nz, nw := transform(&c.inverseViewProjMatrix, ndcX, ndcY, 0)
	fx, fy, fz, fw := transform(&c.inverseViewProjMatrix, ndcX, ndcY, 1)
	if nw == 0 || fw == 0 {
		return 0, 0, false
	}
	nx, ny, nz = nx/nw, ny/nw, nz/nw
	fx, fy, fz = fx/fw, fy/fw, fz/fw
	if fz == nz {
		return 0, 0, false
	}
	t := -nz / (fz - nz)
	return nx + t*(fx-nx), ny + t*(fy-ny), true
}

func (c *cameraImpl) ViewportSize() (width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	height = 2 * math32.Tan(c.fov/2) * c.position[2]
	return height * c.aspect, height
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.position,
	}
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

// transform multiplies the column-major matrix m by the point (x, y, z, 1).
func transform(m *[16]float32, x, y, z float32) (float32, float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14],
		m[3]*x + m[7]*y + m[11]*z + m[15]
}

// updateMatrices recalculates the view, projection, view-projection and inverse matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.LookAt(c.viewMatrix[:],
		c.position[0], c.position[1], c.position[2],
		0, 0, 0,
		c.up[0], c.up[1], c.up[2],
	)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	common.Invert4(c.inverseViewProjMatrix[:], c.viewProjectionMatrix[:])
}
