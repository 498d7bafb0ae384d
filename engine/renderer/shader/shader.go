package shader

import (
	"fmt"
	"regexp"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage of a render pipeline.
	ShaderTypeFragment
)

var (
	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)

	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)
)

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string

	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
}

// Shader is a WGSL stage together with the bind group and vertex buffer layouts it expects.
// Layouts are declared by the Go code that owns the matching GPU structs, keeping the byte
// layout and the binding description side by side.
type Shader interface {
	// Key returns the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source returns the WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// Type returns the stage this shader is compiled for.
	//
	// Returns:
	//   - ShaderType: the shader stage
	Type() ShaderType

	// EntryPoint returns the name of the entry function for this shader's stage.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// BindGroupLayoutDescriptors returns the declared bind group layouts keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VertexLayouts returns the vertex buffer layouts in slot order. Always empty for fragment shaders.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout
}

var _ Shader = &shader{}

// NewShader creates a Shader from WGSL source. The entry point is located from the @vertex or
// @fragment attribute matching shaderType. Panics if the source has no such entry point, as a
// shader without one can never build a pipeline.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to compile for
//   - source: the WGSL source code
//   - options: functional options declaring layouts
//
// Returns:
//   - Shader: the new shader
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) Shader {
	s := &shader{
		key:                        key,
		source:                     source,
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	s.entryPoint = parseEntryPoint(source, shaderType)
	if s.entryPoint == "" {
		panic(fmt.Sprintf("shader: %s has no entry point for its stage", key))
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Type() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

// Visibility returns the shader stage flag for a ShaderType.
//
// Parameters:
//   - shaderType: the shader type
//
// Returns:
//   - wgpu.ShaderStage: the matching stage flag
func Visibility(shaderType ShaderType) wgpu.ShaderStage {
	switch shaderType {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}

// parseEntryPoint finds the first function carrying the stage attribute for shaderType.
// Comments are stripped first so commented-out entry points are ignored.
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := blockCommentRegex.ReplaceAllString(source, "")
	cleaned = lineCommentRegex.ReplaceAllString(cleaned, "")

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}
	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}
