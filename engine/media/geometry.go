package media

import (
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group_provider"
)

const (
	// PlaneWidthSegments and PlaneHeightSegments subdivide the shared plane mesh.
	PlaneWidthSegments  = 100
	PlaneHeightSegments = 50

	// floatsPerVertex is position (3) plus uv (2).
	floatsPerVertex = 5
)

// PlaneGeometry builds a unit plane centered on the origin in the XY plane, facing +Z.
// Vertices are interleaved position and uv; v runs from 0 at the top edge to 1 at the bottom
// so that image rows map top-down without flipping.
//
// Parameters:
//   - widthSegments: the number of columns, at least 1
//   - heightSegments: the number of rows, at least 1
//
// Returns:
//   - []float32: (widthSegments+1)*(heightSegments+1) interleaved vertices
//   - []uint32: widthSegments*heightSegments*6 triangle-list indices, counter-clockwise
func PlaneGeometry(widthSegments, heightSegments int) ([]float32, []uint32) {
	widthSegments = max(1, widthSegments)
	heightSegments = max(1, heightSegments)
	cols := widthSegments + 1

	vertices := make([]float32, 0, cols*(heightSegments+1)*floatsPerVertex)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			vertices = append(vertices, u-0.5, 0.5-v, 0, u, v)
		}
	}

	indices := make([]uint32, 0, widthSegments*heightSegments*6)
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy*cols + ix)
			b := a + uint32(cols)
			// a is top-left, b bottom-left
			indices = append(indices, a, b, b+1, a, b+1, a+1)
		}
	}
	return vertices, indices
}

// NewPlaneMesh creates the provider holding the shared plane mesh. With a nil renderer the provider is
// returned without GPU buffers.
//
// Parameters:
//   - r: the renderer to upload with, may be nil
//
// Returns:
//   - bind_group_provider.BindGroupProvider: the mesh provider
func NewPlaneMesh(r renderer.Renderer) bind_group_provider.BindGroupProvider {
	provider := bind_group_provider.NewBindGroupProvider("plane_mesh")
	vertices, indices := PlaneGeometry(PlaneWidthSegments, PlaneHeightSegments)
	if r == nil {
		provider.SetIndexCount(len(indices))
		return provider
	}
	if err := r.InitMeshBuffers(provider, common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices)); err != nil {
		panic("failed to upload plane mesh: " + err.Error())
	}
	return provider
}
