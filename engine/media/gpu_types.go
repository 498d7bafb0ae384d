package media

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// Bindings within the media and title bind groups.
const (
	BindingUniform = 0
	BindingTexture = 1
	BindingSampler = 2
)

// GPUMediaUniform matches the WGSL MediaUniform struct. Size: 80 bytes.
type GPUMediaUniform struct {
	Model  [16]float32 // offset  0: model matrix
	Ratio  [2]float32  // offset 64: cover-fit uv scale
	Radius float32     // offset 72: rounded mask radius in uv units
	_pad   float32     // offset 76
}

// Size returns the size of the GPUMediaUniform struct in bytes.
func (g *GPUMediaUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUMediaUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	binary.LittleEndian.PutUint32(buf[64:], math.Float32bits(g.Ratio[0]))
	binary.LittleEndian.PutUint32(buf[68:], math.Float32bits(g.Ratio[1]))
	binary.LittleEndian.PutUint32(buf[72:], math.Float32bits(g.Radius))
	return buf
}

// GPUTitleUniform matches the WGSL TitleUniform struct. Size: 64 bytes.
type GPUTitleUniform struct {
	Model [16]float32
}

// Size returns the size of the GPUTitleUniform struct in bytes.
func (g *GPUTitleUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUTitleUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	return buf
}

// VertexLayout describes the interleaved position/uv vertices of the plane mesh.
var VertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: floatsPerVertex * 4,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
	},
}

// MediaBindGroupLayout is group 1 of the media pipeline.
var MediaBindGroupLayout = texturedLayout("Media Bind Group Layout", 80)

// TitleBindGroupLayout is group 1 of the title pipeline.
var TitleBindGroupLayout = texturedLayout("Title Bind Group Layout", 64)

func texturedLayout(label string, uniformSize uint64) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BindingUniform,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uniformSize,
				},
			},
			{
				Binding:    BindingTexture,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    BindingSampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}
