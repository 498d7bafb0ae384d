package common

import (
	"github.com/chewxy/math32"
)

// Lerp linearly interpolates between a and b by t.
// t is not clamped, so values outside [0, 1] extrapolate.
//
// Parameters:
//   - a: the start value
//   - b: the end value
//   - t: the interpolation factor
//
// Returns:
//   - float32: a + (b-a)*t
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Clamp restricts v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float32: v limited to [lo, hi]
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// Sign returns -1 for negative values, 1 for positive values and 0 for zero.
//
// Parameters:
//   - v: the value to inspect
//
// Returns:
//   - float32: the sign of v
func Sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 column-major matrices and stores the result in out.
// out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix mapping view depth to the WebGPU clip range [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height), must be > 0
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1 / math32.Tan(fovY/2)
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	out[15] = 0
}

// LookAt creates a view matrix transforming world coordinates into camera space.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eyeX, eyeY, eyeZ: camera position in world space
//   - centerX, centerY, centerZ: target point the camera looks at
//   - upX, upY, upZ: up vector defining camera orientation (typically 0,1,0)
func LookAt(out []float32, eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32) {
	z0, z1, z2 := normalize(eyeX-centerX, eyeY-centerY, eyeZ-centerZ)
	x0, x1, x2 := normalize(upY*z2-upZ*z1, upZ*z0-upX*z2, upX*z1-upY*z0)

	y0 := z1*x2 - z2*x1
	y1 := z2*x0 - z0*x2
	y2 := z0*x1 - z1*x0

	out[0], out[4], out[8], out[12] = x0, x1, x2, -(x0*eyeX + x1*eyeY + x2*eyeZ)
	out[1], out[5], out[9], out[13] = y0, y1, y2, -(y0*eyeX + y1*eyeY + y2*eyeZ)
	out[2], out[6], out[10], out[14] = z0, z1, z2, -(z0*eyeX + z1*eyeY + z2*eyeZ)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

func normalize(x, y, z float32) (float32, float32, float32) {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return x, y, z
	}
	return x / l, y / l, z / l
}

// PlaneModelMatrix builds a column-major model matrix for a flat quad that is scaled,
// then rotated around Z, then translated. This is the only transform a gallery plane
// needs: the arc layout bends items around the view axis and nothing else.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - posX, posY, posZ: translation in world space
//   - rotZ: rotation around the Z axis in radians
//   - scaleX, scaleY: scale factors along X and Y
func PlaneModelMatrix(out []float32, posX, posY, posZ, rotZ, scaleX, scaleY float32) {
	s, c := math32.Sincos(rotZ)

	out[0], out[1], out[2], out[3] = c*scaleX, s*scaleX, 0, 0
	out[4], out[5], out[6], out[7] = -s*scaleY, c*scaleY, 0, 0
	out[8], out[9], out[10], out[11] = 0, 0, 1, 0
	out[12], out[13], out[14], out[15] = posX, posY, posZ, 1
}

// RotateZ rotates the 2D vector (x, y) around the origin by angle radians.
//
// Parameters:
//   - x, y: the vector components
//   - angle: rotation in radians, counter-clockwise
//
// Returns:
//   - float32, float32: the rotated components
func RotateZ(x, y, angle float32) (float32, float32) {
	s, c := math32.Sincos(angle)
	return x*c - y*s, x*s + y*c
}

// Invert4 computes the inverse of a 4x4 column-major matrix. If the matrix is singular
// the output is left unchanged and the function returns false.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: true if the matrix was inverted, false if singular
func Invert4(out, m []float32) bool {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}
	inv := 1 / det

	var buf [16]float32
	buf[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * inv
	buf[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * inv
	buf[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * inv
	buf[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * inv

	buf[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * inv
	buf[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * inv
	buf[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * inv
	buf[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * inv

	buf[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * inv
	buf[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * inv
	buf[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * inv
	buf[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * inv

	buf[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * inv
	buf[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * inv
	buf[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * inv
	buf[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * inv

	copy(out, buf[:])
	return true
}
