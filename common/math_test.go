package common

import (
	"image/color"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLerp(t *testing.T) {
	assert.Equal(t, float32(0), Lerp(0, 10, 0))
	assert.Equal(t, float32(10), Lerp(0, 10, 1))
	assert.InDelta(t, 1.5, Lerp(0, 10, 0.15), 1e-6)
	assert.InDelta(t, -5, Lerp(5, -5, 1), 1e-6)
}

func TestLerpConverges(t *testing.T) {
	v := float32(0)
	for range 200 {
		v = Lerp(v, 1.08, 0.15)
	}
	assert.InDelta(t, 1.08, v, 1e-4)
}

func TestSignAndClamp(t *testing.T) {
	assert.Equal(t, float32(-1), Sign(-0.1))
	assert.Equal(t, float32(1), Sign(3))
	assert.Equal(t, float32(0), Sign(0))
	assert.Equal(t, float32(0.5), Clamp(0.9, 0, 0.5))
	assert.Equal(t, float32(0), Clamp(-1, 0, 0.5))
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	PlaneModelMatrix(m[:], 1, 2, 3, 0.3, 2, 4)

	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestInvert4RoundTrip(t *testing.T) {
	var m, inv, out [16]float32
	PlaneModelMatrix(m[:], -4, 1.5, 0.2, -0.7, 3, 2)
	require.True(t, Invert4(inv[:], m[:]))

	Mul4(out[:], m[:], inv[:])
	var id [16]float32
	Identity(id[:])
	for i := range out {
		assert.InDelta(t, id[i], out[i], 1e-5)
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	out[0] = 42
	assert.False(t, Invert4(out[:], zero[:]))
	assert.Equal(t, float32(42), out[0])
}

func TestPlaneModelMatrixTransformsCorner(t *testing.T) {
	var m [16]float32
	angle := math32.Pi / 2
	PlaneModelMatrix(m[:], 10, 0, 0, angle, 2, 1)

	// local (0.5, 0) -> scaled (1, 0) -> rotated (0, 1) -> translated (10, 1)
	x := m[0]*0.5 + m[12]
	y := m[1]*0.5 + m[13]
	assert.InDelta(t, 10, x, 1e-5)
	assert.InDelta(t, 1, y, 1e-5)

	rx, ry := RotateZ(1, 0, angle)
	assert.InDelta(t, 0, rx, 1e-5)
	assert.InDelta(t, 1, ry, 1e-5)
}

func TestPerspectiveMapsNearAndFar(t *testing.T) {
	var p [16]float32
	Perspective(p[:], math32.Pi/4, 1.5, 0.1, 100)

	clip := func(z float32) float32 {
		// column-major: z' = m[10]*z + m[14], w' = m[11]*z
		return (p[10]*z + p[14]) / (p[11] * z)
	}
	assert.InDelta(t, 0, clip(-0.1), 1e-4)
	assert.InDelta(t, 1, clip(-100), 1e-4)
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#ffffff":   {255, 255, 255, 255},
		"#FFF":      {255, 255, 255, 255},
		"#10203040": {0x10, 0x20, 0x30, 0x40},
		"#0008":     {0, 0, 0, 0x88},
		" black ":   {0, 0, 0, 255},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "red", "#12", "#gggggg"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}
