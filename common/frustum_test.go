package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

// galleryViewProj mirrors the gallery camera: 45 degree fov, eye at z = 20 looking at the origin.
func galleryViewProj(aspect float32) []float32 {
	var view, proj, vp [16]float32
	LookAt(view[:], 0, 0, 20, 0, 0, 0, 0, 1, 0)
	Perspective(proj[:], 45*math32.Pi/180, aspect, 0.1, 100)
	Mul4(vp[:], proj[:], view[:])
	return vp[:]
}

func TestExtractFrustumPlanesAreNormalized(t *testing.T) {
	f := ExtractFrustum(galleryViewProj(16.0 / 9))
	for i, p := range f.Planes {
		n := p.Normal
		assert.InDelta(t, 1, math32.Sqrt(n[0]*n[0]+n[1]*n[1]+n[2]*n[2]), 1e-5, "plane %d", i)
	}
}

func TestContainsSphere(t *testing.T) {
	f := ExtractFrustum(galleryViewProj(16.0 / 9))

	// half the visible height at z = 0 is 20*tan(22.5 deg), about 8.28
	halfH := 20 * math32.Tan(22.5*math32.Pi/180)
	halfW := halfH * 16 / 9

	assert.True(t, f.ContainsSphere(0, 0, 0, 1))
	assert.True(t, f.ContainsSphere(halfW+0.5, 0, 0, 1), "straddles the right edge")
	assert.False(t, f.ContainsSphere(halfW+2, 0, 0, 1))
	assert.False(t, f.ContainsSphere(-halfW-2, 0, 0, 1))
	assert.False(t, f.ContainsSphere(0, halfH+2, 0, 1))
	assert.False(t, f.ContainsSphere(0, 0, 25, 1), "behind the camera")
	assert.False(t, f.ContainsSphere(0, 0, -200, 1), "past the far plane")
}
