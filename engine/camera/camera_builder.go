package camera

import (
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
)

// CameraBuilderOption is a functional option used to configure a Camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithFovDegrees sets the camera's vertical field of view.
//
// Parameters:
//   - degrees: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFovDegrees(degrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = degrees * (math32.Pi / 180)
	}
}

// WithDistance sets how far the camera sits from the z=0 plane.
//
// Parameters:
//   - z: distance along +Z
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's distance
func WithDistance(z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = [3]float32{0, 0, z}
	}
}

// WithAspect sets the camera's initial aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithBindGroupProvider replaces the camera's bind group provider.
//
// Parameters:
//   - provider: the bind group provider to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the bind group provider
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bindGroupProvider = provider
	}
}
