package view

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/media"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
)

// CardState is a snapshot of the overlay card.
type CardState struct {
	Visible bool
	Index   int
	Item    scene.GalleryItem
	AnchorX float32
	AnchorY float32
	Layout  CardLayout
}

// cardOverlay is the screen-space scene drawing the card over the gallery.
type cardOverlay struct {
	mu *sync.Mutex

	state     CardState
	screenW   float32
	screenH   float32
	scale     float32
	dirty     bool
	destroyed bool

	pixelRatio func() float32

	renderer renderer.Renderer
	provider bind_group_provider.BindGroupProvider
	mesh     bind_group_provider.BindGroupProvider
	groups   []bind_group_provider.BindGroupProvider
	logger   *slog.Logger
}

var _ scene.Scene = &cardOverlay{}

func newCardOverlay(r renderer.Renderer, pixelRatio func() float32, logger *slog.Logger) *cardOverlay {
	if pixelRatio == nil {
		pixelRatio = func() float32 { return 1 }
	}
	o := &cardOverlay{
		mu:         &sync.Mutex{},
		pixelRatio: pixelRatio,
		renderer:   r,
		provider:   bind_group_provider.NewBindGroupProvider("overlay_card"),
		mesh:       bind_group_provider.NewBindGroupProvider("overlay_mesh"),
		logger:     logger.With("component", "overlay"),
	}
	o.groups = []bind_group_provider.BindGroupProvider{o.provider}
	if r == nil {
		return o
	}

	if err := r.RegisterPipelines(NewOverlayPipeline()); err != nil {
		panic("failed to register overlay pipeline: " + err.Error())
	}
	vertices, indices := media.PlaneGeometry(1, 1)
	if err := r.InitMeshBuffers(o.mesh, common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices)); err != nil {
		panic("failed to upload overlay mesh: " + err.Error())
	}
	if err := r.InitTextureView(o.provider, media.BindingTexture, common.BlankTexture()); err != nil {
		panic("failed to create overlay texture: " + err.Error())
	}
	if err := r.InitSampler(o.provider, media.BindingSampler, common.ClampSampler); err != nil {
		panic("failed to create overlay sampler: " + err.Error())
	}
	if err := r.InitBindGroup(o.provider, OverlayBindGroupLayout); err != nil {
		panic("failed to create overlay bind group: " + err.Error())
	}
	return o
}

func (o *cardOverlay) Name() string {
	return "overlay"
}

func (o *cardOverlay) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.destroyed
}

func (o *cardOverlay) SetActive(bool) {}

func (o *cardOverlay) Camera() camera.Camera {
	return nil
}

func (o *cardOverlay) Renderer() renderer.Renderer {
	return o.renderer
}

func (o *cardOverlay) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.screenW == float32(width) && o.screenH == float32(height) {
		return
	}
	o.screenW, o.screenH = float32(width), float32(height)
	if o.state.Visible {
		o.relayout()
	}
}

func (o *cardOverlay) Update(float32) {}

func (o *cardOverlay) show(index int, item scene.GalleryItem, x, y float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.destroyed {
		return
	}
	o.state.Visible = true
	o.state.Index, o.state.Item = index, item
	o.state.AnchorX, o.state.AnchorY = x, y
	o.relayout()
}

func (o *cardOverlay) move(x, y float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.state.Visible {
		return
	}
	dx, dy := x-o.state.AnchorX, y-o.state.AnchorY
	o.state.AnchorX, o.state.AnchorY = x, y
	// the card keeps its size while tracking, only its origin follows the anchor
	if o.screenW > 0 && o.screenW <= scene.CompactMaxWidth {
		dx = 0
	}
	o.state.Layout.Rect.X += dx
	o.state.Layout.Rect.Y += dy
	o.state.Layout.Close.X += dx
	o.state.Layout.Close.Y += dy
}

func (o *cardOverlay) hide() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = CardState{}
}

// relayout recomputes the card layout and marks the texture stale. Caller must hold the mutex.
func (o *cardOverlay) relayout() {
	compact := o.screenW > 0 && o.screenW <= scene.CompactMaxWidth
	l, err := LayoutCard(o.state.Item, o.state.AnchorX, o.state.AnchorY, o.screenW, compact)
	if err != nil {
		o.logger.Warn("card layout failed: "+err.Error(), "index", o.state.Index)
		o.state = CardState{}
		return
	}
	o.state.Layout = l
	o.dirty = true
}

func (o *cardOverlay) contains(x, y float32) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Visible && o.state.Layout.Rect.Contains(x, y)
}

func (o *cardOverlay) closeContains(x, y float32) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Visible && o.state.Layout.Close.Contains(x, y)
}

func (o *cardOverlay) snapshot() CardState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *cardOverlay) Draw() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.destroyed || o.renderer == nil || !o.state.Visible || o.screenW <= 0 || o.screenH <= 0 {
		return nil
	}

	if scale := o.pixelRatio(); scale != o.scale {
		o.scale = scale
		o.dirty = true
	}
	if o.dirty {
		img, err := RenderCard(o.state.Item, o.state.Layout, o.scale)
		if err != nil {
			o.logger.Warn("card render failed: "+err.Error(), "index", o.state.Index)
			o.state = CardState{}
			return nil
		}
		if err := o.renderer.InitTextureView(o.provider, media.BindingTexture, common.TextureFromImage(img)); err != nil {
			return err
		}
		if err := o.renderer.InitBindGroup(o.provider, OverlayBindGroupLayout); err != nil {
			return err
		}
		o.dirty = false
	}

	r := o.state.Layout.Rect
	u := GPUOverlayUniform{
		Rect: [4]float32{
			r.X/o.screenW*2 - 1,
			1 - r.Y/o.screenH*2,
			(r.X+r.W)/o.screenW*2 - 1,
			1 - (r.Y+r.H)/o.screenH*2,
		},
		Params: [4]float32{1, 0, 0, 0},
	}
	o.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: o.provider, Binding: media.BindingUniform, Data: u.Marshal()},
	})
	return o.renderer.DrawCall(OverlayPipelineKey, o.mesh, o.groups)
}

func (o *cardOverlay) Destroy() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.destroyed {
		return
	}
	o.destroyed = true
	o.state = CardState{}
	if o.renderer != nil {
		o.provider.Release()
		o.mesh.Release()
	}
}
