package common

import "github.com/chewxy/math32"

// Plane is the plane Normal·p + Distance = 0. Points with a positive value lie on the inner side.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum holds the six planes of a view volume, oriented inward.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustum extracts the frustum planes of a column-major view-projection matrix with the WebGPU
// clip depth range [0, 1], using the Gribb/Hartmann method.
//
// Parameters:
//   - viewProj: the combined projection * view matrix, 16 elements
//
// Returns:
//   - Frustum: the frustum with normalized planes
func ExtractFrustum(viewProj []float32) Frustum {
	// row i of the matrix is (m[i], m[4+i], m[8+i], m[12+i])
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var f Frustum
	for i, coeffs := range [6][4]float32{
		FrustumLeft:   add(r3, r0, 1),
		FrustumRight:  add(r3, r0, -1),
		FrustumBottom: add(r3, r1, 1),
		FrustumTop:    add(r3, r1, -1),
		FrustumNear:   r2,
		FrustumFar:    add(r3, r2, -1),
	} {
		f.Planes[i] = normalizedPlane(coeffs)
	}
	return f
}

// ContainsSphere reports whether a sphere is at least partly inside the frustum.
//
// Parameters:
//   - x, y, z: the sphere center
//   - radius: the sphere radius
//
// Returns:
//   - bool: false only when the sphere lies entirely outside one plane
func (f Frustum) ContainsSphere(x, y, z, radius float32) bool {
	for _, p := range f.Planes {
		if p.Normal[0]*x+p.Normal[1]*y+p.Normal[2]*z+p.Distance < -radius {
			return false
		}
	}
	return true
}

func add(a, b [4]float32, sign float32) [4]float32 {
	return [4]float32{a[0] + sign*b[0], a[1] + sign*b[1], a[2] + sign*b[2], a[3] + sign*b[3]}
}

func normalizedPlane(c [4]float32) Plane {
	p := Plane{Normal: [3]float32{c[0], c[1], c[2]}, Distance: c[3]}
	length := math32.Sqrt(c[0]*c[0] + c[1]*c[1] + c[2]*c[2])
	if length > 0 {
		p.Normal[0] /= length
		p.Normal[1] /= length
		p.Normal[2] /= length
		p.Distance /= length
	}
	return p
}
