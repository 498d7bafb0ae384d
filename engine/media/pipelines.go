package media

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
)

// Pipeline keys registered by NewPipelines.
const (
	MediaPipelineKey = "media"
	TitlePipelineKey = "title"
)

//go:embed assets/media.wgsl
var mediaSource string

//go:embed assets/title.wgsl
var titleSource string

// NewPipelines returns the media and title pipelines. Both bind the camera at group 0 and their
// own uniform, texture and sampler at group 1.
//
// Returns:
//   - []pipeline.Pipeline: the media pipeline followed by the title pipeline
func NewPipelines() []pipeline.Pipeline {
	return []pipeline.Pipeline{
		texturedPipeline(MediaPipelineKey, mediaSource, true),
		texturedPipeline(TitlePipelineKey, titleSource, false),
	}
}

func texturedPipeline(key, source string, depthWrite bool) pipeline.Pipeline {
	src := camera.GPUCameraUniformSource + "\n" + source
	layout := MediaBindGroupLayout
	if key == TitlePipelineKey {
		layout = TitleBindGroupLayout
	}

	vs := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, src,
		shader.WithVertexLayout(VertexLayout),
		shader.WithBindGroupLayout(0, camera.BindGroupLayout),
		shader.WithBindGroupLayout(1, layout),
	)
	fs := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, src,
		shader.WithBindGroupLayout(1, layout),
	)
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithBlendEnabled(true),
		pipeline.WithDepthWriteEnabled(depthWrite),
	)
}
