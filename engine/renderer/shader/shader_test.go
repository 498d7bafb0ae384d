package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
// @vertex fn commented_out() {}
/* @fragment
fn also_commented() {} */

@vertex
fn vs_main(@location(0) pos: vec3<f32>) -> @builtin(position) vec4<f32> {
	return vec4<f32>(pos, 1.0);
}

@fragment fn fs_main() -> @location(0) vec4<f32> {
	return vec4<f32>(1.0);
}
`

func TestParseEntryPoint(t *testing.T) {
	assert.Equal(t, "vs_main", parseEntryPoint(testSource, ShaderTypeVertex))
	assert.Equal(t, "fs_main", parseEntryPoint(testSource, ShaderTypeFragment))
	assert.Empty(t, parseEntryPoint("fn helper() {}", ShaderTypeVertex))
}

func TestNewShaderPanicsWithoutEntryPoint(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("broken", ShaderTypeFragment, "fn helper() {}")
	})
}

func TestBindGroupLayoutDefaultsVisibility(t *testing.T) {
	desc := wgpu.BindGroupLayoutDescriptor{
		Label: "test",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment},
		},
	}
	s := NewShader("fs", ShaderTypeFragment, testSource, WithBindGroupLayout(1, desc))

	got := s.BindGroupLayoutDescriptors()[1]
	require.Len(t, got.Entries, 2)
	assert.Equal(t, wgpu.ShaderStageFragment, got.Entries[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, got.Entries[1].Visibility)
	assert.Equal(t, wgpu.ShaderStageNone, desc.Entries[0].Visibility, "caller's descriptor is not mutated")
	assert.Empty(t, s.VertexLayouts())
}

func TestVertexLayoutsKeepOrder(t *testing.T) {
	a := wgpu.VertexBufferLayout{ArrayStride: 20}
	b := wgpu.VertexBufferLayout{ArrayStride: 8}
	s := NewShader("vs", ShaderTypeVertex, testSource, WithVertexLayout(a), WithVertexLayout(b))

	require.Len(t, s.VertexLayouts(), 2)
	assert.Equal(t, uint64(20), s.VertexLayouts()[0].ArrayStride)
	assert.Equal(t, uint64(8), s.VertexLayouts()[1].ArrayStride)
	assert.Equal(t, "vs_main", s.EntryPoint())
}
