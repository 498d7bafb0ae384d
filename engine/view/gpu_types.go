package view

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-gallery/engine/media"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// OverlayPipelineKey is the pipeline the card is drawn with.
const OverlayPipelineKey = "overlay"

//go:embed assets/overlay.wgsl
var overlaySource string

// GPUOverlayUniform matches the WGSL OverlayUniform struct. Size: 32 bytes.
type GPUOverlayUniform struct {
	Rect   [4]float32 // offset  0: left, top, right, bottom in NDC
	Params [4]float32 // offset 16: opacity, unused
}

// Size returns the size of the GPUOverlayUniform struct in bytes.
func (g *GPUOverlayUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUOverlayUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Rect[i]))
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Params[i]))
	}
	return buf
}

// OverlayBindGroupLayout is group 0 of the overlay pipeline.
var OverlayBindGroupLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "Overlay Bind Group Layout",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    media.BindingUniform,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: 32,
			},
		},
		{
			Binding:    media.BindingTexture,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    media.BindingSampler,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	},
}

// NewOverlayPipeline returns the screen-space card pipeline. It ignores depth so the card always
// draws over the gallery.
//
// Returns:
//   - pipeline.Pipeline: the overlay pipeline
func NewOverlayPipeline() pipeline.Pipeline {
	vs := shader.NewShader(OverlayPipelineKey+"_vs", shader.ShaderTypeVertex, overlaySource,
		shader.WithVertexLayout(media.VertexLayout),
		shader.WithBindGroupLayout(0, OverlayBindGroupLayout),
	)
	fs := shader.NewShader(OverlayPipelineKey+"_fs", shader.ShaderTypeFragment, overlaySource,
		shader.WithBindGroupLayout(0, OverlayBindGroupLayout),
	)
	return pipeline.NewPipeline(OverlayPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithBlendEnabled(true),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	)
}
