package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewportSizeAtOrigin(t *testing.T) {
	c := NewCamera(WithAspect(16.0 / 9.0))

	w, h := c.ViewportSize()
	wantH := 2 * math32.Tan(DefaultFov*math32.Pi/360) * DefaultDistance
	assert.InDelta(t, wantH, h, 1e-4)
	assert.InDelta(t, wantH*16/9, w, 1e-4)
}

func TestSetAspectIgnoresInvalid(t *testing.T) {
	c := NewCamera(WithAspect(2))
	before := c.ProjectionMatrix()

	c.SetAspect(0)
	c.SetAspect(-1)
	c.SetAspect(math32.NaN())

	assert.Equal(t, float32(2), c.Aspect())
	assert.Equal(t, before, c.ProjectionMatrix())
}

func TestOriginProjectsToScreenCenter(t *testing.T) {
	c := NewCamera(WithAspect(1.5))
	m := c.ViewProjectionMatrix()

	// clip = M * (0,0,0,1) is the last column
	clipX, clipY, clipW := m[12], m[13], m[15]
	require.NotZero(t, clipW)
	assert.InDelta(t, 0, clipX/clipW, 1e-6)
	assert.InDelta(t, 0, clipY/clipW, 1e-6)
	assert.InDelta(t, DefaultDistance, clipW, 1e-4)
}

func TestUniformMarshal(t *testing.T) {
	c := NewCamera()
	u := c.Uniform()

	assert.Equal(t, 80, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 80)
	_, _, z := c.Position()
	assert.Equal(t, DefaultDistance, z)
	assert.Equal(t, DefaultDistance, u.CameraPosition[2])
}

func TestBindGroupProviderNamesAreUnique(t *testing.T) {
	a := NewCamera()
	b := NewCamera()
	assert.NotEqual(t, a.BindGroupProvider().Label(), b.BindGroupProvider().Label())
}

func TestProjectUnprojectOnGalleryPlane(t *testing.T) {
	c := NewCamera(WithAspect(16.0 / 9.0))
	vw, vh := c.ViewportSize()

	for _, p := range [][2]float32{{0, 0}, {3, -2}, {-vw / 2, vh / 2}, {vw / 4, -vh / 3}} {
		ndcX, ndcY, ok := c.Project(p[0], p[1], 0)
		require.True(t, ok)
		assert.InDelta(t, 2*p[0]/vw, ndcX, 1e-4)
		assert.InDelta(t, 2*p[1]/vh, ndcY, 1e-4)

		x, y, ok := c.Unproject(ndcX, ndcY)
		require.True(t, ok)
		assert.InDelta(t, p[0], x, 1e-2)
		assert.InDelta(t, p[1], y, 1e-2)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	c := NewCamera()
	_, _, ok := c.Project(0, 0, DefaultDistance+5)
	assert.False(t, ok)
}
