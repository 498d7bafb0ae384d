package media

import (
	"image/color"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-gallery/engine/text"
)

// Title layout relative to the parent plane.
const (
	TitleHeightRatio = 0.12
	TitleGap         = 0.08
	// titleDepthOffset keeps the caption in front of a plane it overlaps.
	titleDepthOffset = 0.01
)

var titleCount atomic.Uint64

type title struct {
	mu *sync.Mutex

	label string
	font  text.Font
	color color.NRGBA

	texture common.TextureStagingData
	aspect  float32

	position [3]float32
	rotation float32
	width    float32
	height   float32
	model    [16]float32

	renderer renderer.Renderer
	provider bind_group_provider.BindGroupProvider
}

// Title is a caption quad rigidly attached below a Media plane. It follows the plane's translation and
// rotation but is sized from the plane's height rather than inheriting its scale.
type Title interface {
	// Label returns the caption text.
	Label() string

	// Aspect returns the width / height ratio of the rasterized caption.
	Aspect() float32

	// Texture returns the staging data the caption was rasterized to.
	Texture() common.TextureStagingData

	// Update recomputes the caption transform from the parent plane's transform.
	//
	// Parameters:
	//   - px, py, pz: the parent's world position
	//   - rotZ: the parent's rotation around Z
	//   - parentScaleY: the parent's current height in world units
	Update(px, py, pz, rotZ, parentScaleY float32)

	// Size returns the caption quad size in world units.
	//
	// Returns:
	//   - width, height: the quad size
	Size() (width, height float32)

	// Position returns the caption quad's world position.
	Position() (x, y, z float32)

	// BindGroupProvider returns the caption's GPU resources.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// BufferWrite returns the write that uploads the current transform.
	BufferWrite() bind_group_provider.BufferWrite

	// Release releases the caption's GPU resources.
	Release()
}

var _ Title = &title{}

// NewTitle rasterizes label and, when a renderer is supplied, uploads it. A rasterization failure is
// logged and leaves a blank 1x1 texture in place.
//
// Parameters:
//   - label: the caption text
//   - font: the caption font
//   - c: the caption color
//   - opts: functional options
//
// Returns:
//   - Title: the new caption
func NewTitle(label string, font text.Font, c color.NRGBA, opts ...TitleBuilderOption) Title {
	t := &title{
		mu:    &sync.Mutex{},
		label: label,
		font:  font,
		color: c,
		provider: bind_group_provider.NewBindGroupProvider(
			"title_" + strconv.FormatUint(titleCount.Add(1)-1, 10),
		),
	}
	for _, opt := range opts {
		opt(t)
	}

	img, err := text.Rasterize(label, font, c)
	if err != nil {
		slog.Warn("caption rasterization failed: "+err.Error(), "component", "title", "label", label)
		t.texture = common.BlankTexture()
	} else {
		t.texture = common.TextureFromImage(img)
	}
	t.aspect = float32(t.texture.Width) / float32(t.texture.Height)
	common.Identity(t.model[:])

	if t.renderer != nil {
		t.initGPU()
	}
	return t
}

func (t *title) initGPU() {
	if err := t.renderer.InitTextureView(t.provider, BindingTexture, t.texture); err != nil {
		panic("failed to upload caption texture: " + err.Error())
	}
	if err := t.renderer.InitSampler(t.provider, BindingSampler, common.ClampSampler); err != nil {
		panic("failed to create caption sampler: " + err.Error())
	}
	if err := t.renderer.InitBindGroup(t.provider, TitleBindGroupLayout); err != nil {
		panic("failed to create caption bind group: " + err.Error())
	}
}

func (t *title) Label() string {
	return t.label
}

func (t *title) Aspect() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.aspect
}

func (t *title) Texture() common.TextureStagingData {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.texture
}

func (t *title) Update(px, py, pz, rotZ, parentScaleY float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.height = parentScaleY * TitleHeightRatio
	t.width = t.height * t.aspect
	localY := -parentScaleY*0.5 - t.height*0.6 - TitleGap

	ox, oy := common.RotateZ(0, localY, rotZ)
	t.position = [3]float32{px + ox, py + oy, pz + titleDepthOffset}
	t.rotation = rotZ
	common.PlaneModelMatrix(t.model[:], t.position[0], t.position[1], t.position[2], rotZ, t.width, t.height)
}

func (t *title) Size() (width, height float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

func (t *title) Position() (x, y, z float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position[0], t.position[1], t.position[2]
}

func (t *title) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return t.provider
}

func (t *title) BufferWrite() bind_group_provider.BufferWrite {
	t.mu.Lock()
	u := GPUTitleUniform{Model: t.model}
	t.mu.Unlock()
	return bind_group_provider.BufferWrite{Provider: t.provider, Binding: BindingUniform, Data: u.Marshal()}
}

func (t *title) Release() {
	t.provider.Release()
}
