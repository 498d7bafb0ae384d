package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithBindGroupLayout declares the layout of one bind group used by this shader.
// Entries without a visibility get the shader's own stage.
//
// Parameters:
//   - group: the @group index
//   - desc: the layout descriptor
//
// Returns:
//   - ShaderBuilderOption: a function that records the layout on the shader
func WithBindGroupLayout(group int, desc wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		entries := make([]wgpu.BindGroupLayoutEntry, len(desc.Entries))
		copy(entries, desc.Entries)
		for i := range entries {
			if entries[i].Visibility == wgpu.ShaderStageNone {
				entries[i].Visibility = Visibility(s.shaderType)
			}
		}
		desc.Entries = entries
		s.bindGroupLayoutDescriptors[group] = desc
	}
}

// WithVertexLayout appends a vertex buffer layout; the first call describes slot 0.
//
// Parameters:
//   - layout: the vertex buffer layout
//
// Returns:
//   - ShaderBuilderOption: a function that records the layout on the shader
func WithVertexLayout(layout wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = append(s.vertexLayouts, layout)
	}
}
