package view

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/loader"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
)

// Surface is the platform surface a View attaches to. window.Window satisfies it.
type Surface interface {
	// SetInputHandler routes input to handler. Nil detaches input.
	SetInputHandler(handler input.Handler)
	// LogicalSize returns the surface size in logical pixels.
	LogicalSize() (int, int)
	// PixelRatio returns the device pixel ratio.
	PixelRatio() float32
}

// Host runs scenes every frame. The Engine satisfies it.
type Host interface {
	AddScene(s scene.Scene)
	RemoveScene(s scene.Scene)
}

// View embeds a gallery in a surface and draws the selection card over it.
//
// The view is itself the surface's input handler: presses on the visible card are consumed by the card,
// everything else goes to the gallery.
type View interface {
	input.Handler

	// Mount builds a gallery from props, tearing down any previous one first. A failure during
	// construction leaves the view unmounted.
	//
	// Parameters:
	//   - props: the gallery configuration
	//
	// Returns:
	//   - error: an error if the gallery could not be built
	Mount(props scene.Props) error

	// Update rebuilds the gallery with new props. Equivalent to Teardown followed by Mount.
	//
	// Parameters:
	//   - props: the new configuration
	//
	// Returns:
	//   - error: an error if the gallery could not be built
	Update(props scene.Props) error

	// Teardown detaches input, unregisters the scenes and releases everything the mount created.
	// Safe to call repeatedly and before Mount.
	Teardown()

	// Mounted reports whether a gallery is mounted.
	Mounted() bool

	// Gallery returns the mounted gallery, or nil.
	Gallery() scene.Gallery

	// Card returns a snapshot of the selection card.
	Card() CardState
}

type galleryView struct {
	mu *sync.Mutex

	surface        Surface
	host           Host
	renderer       renderer.Renderer
	loaderOptions  []loader.LoaderBuilderOption
	galleryOptions []scene.GalleryBuilderOption
	logger         *slog.Logger

	gallery   scene.Gallery
	overlay   *cardOverlay
	cardPress bool
}

var _ View = &galleryView{}

// NewView creates an unmounted View on surface.
//
// Parameters:
//   - surface: the surface providing size and input
//   - options: functional options
//
// Returns:
//   - View: the new view
func NewView(surface Surface, options ...ViewBuilderOption) View {
	v := &galleryView{
		mu:      &sync.Mutex{},
		surface: surface,
		logger:  slog.Default(),
	}
	for _, opt := range options {
		opt(v)
	}
	v.logger = v.logger.With("component", "view")
	return v
}

func (v *galleryView) Mount(props scene.Props) (err error) {
	v.Teardown()

	var overlay *cardOverlay
	var l loader.Loader
	var g scene.Gallery
	defer func() {
		if r := recover(); r != nil {
			v.discard(g, overlay, l)
			err = fmt.Errorf("mount gallery: %v", r)
			v.logger.Error(err.Error())
		}
	}()

	w, h := v.surface.LogicalSize()
	overlay = newCardOverlay(v.renderer, v.surface.PixelRatio, v.logger)
	overlay.Resize(w, h)

	onSelect, onMove, onDeselect := props.OnItemSelect, props.OnItemMove, props.OnItemDeselect
	props.OnItemSelect = func(index int, item scene.GalleryItem, x, y float32) {
		overlay.show(index, item, x, y)
		if onSelect != nil {
			onSelect(index, item, x, y)
		}
	}
	props.OnItemMove = func(x, y float32) {
		overlay.move(x, y)
		if onMove != nil {
			onMove(x, y)
		}
	}
	props.OnItemDeselect = func() {
		overlay.hide()
		if onDeselect != nil {
			onDeselect()
		}
	}

	opts := []scene.GalleryBuilderOption{scene.WithLogger(v.logger), scene.WithSize(w, h)}
	if v.renderer != nil {
		opts = append(opts, scene.WithRenderer(v.renderer))
	}
	if v.renderer != nil || len(v.loaderOptions) > 0 {
		l = loader.NewLoader(v.loaderOptions...)
		opts = append(opts, scene.WithLoader(l))
	}
	g = scene.NewGallery(props, append(opts, v.galleryOptions...)...)

	v.mu.Lock()
	v.gallery, v.overlay = g, overlay
	v.mu.Unlock()

	if v.host != nil {
		v.host.AddScene(g)
		v.host.AddScene(overlay)
	}
	v.surface.SetInputHandler(v)
	v.logger.Info("gallery mounted", "items", len(g.Items()), "width", w, "height", h)
	return nil
}

// discard releases whatever a failed Mount managed to build. Any argument may be nil.
func (v *galleryView) discard(g scene.Gallery, overlay *cardOverlay, l loader.Loader) {
	v.mu.Lock()
	if g != nil && v.gallery == g {
		v.gallery, v.overlay, v.cardPress = nil, nil, false
	}
	v.mu.Unlock()

	if g != nil {
		if v.host != nil {
			v.host.RemoveScene(g)
		}
		g.Destroy()
	}
	if overlay != nil {
		if v.host != nil {
			v.host.RemoveScene(overlay)
		}
		overlay.Destroy()
	}
	if l != nil {
		l.Close()
	}
}

func (v *galleryView) Update(props scene.Props) error {
	return v.Mount(props)
}

func (v *galleryView) Teardown() {
	v.mu.Lock()
	g, o := v.gallery, v.overlay
	v.gallery, v.overlay, v.cardPress = nil, nil, false
	v.mu.Unlock()
	if g == nil {
		return
	}

	v.surface.SetInputHandler(nil)
	if v.host != nil {
		v.host.RemoveScene(g)
		v.host.RemoveScene(o)
	}
	g.Destroy()
	o.Destroy()
	v.logger.Debug("gallery torn down")
}

func (v *galleryView) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gallery != nil
}

func (v *galleryView) Gallery() scene.Gallery {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gallery
}

func (v *galleryView) Card() CardState {
	v.mu.Lock()
	o := v.overlay
	v.mu.Unlock()
	if o == nil {
		return CardState{}
	}
	return o.snapshot()
}

func (v *galleryView) HandlePointer(ev input.PointerEvent) {
	v.mu.Lock()
	g, o := v.gallery, v.overlay
	if g == nil {
		v.mu.Unlock()
		return
	}
	if ev.Kind == input.PointerDown && o.contains(ev.X, ev.Y) {
		v.cardPress = true
		v.mu.Unlock()
		return
	}
	if v.cardPress {
		closing := false
		if ev.Kind == input.PointerUp {
			v.cardPress = false
			closing = o.closeContains(ev.X, ev.Y)
		}
		v.mu.Unlock()
		if closing {
			g.Deselect()
		}
		return
	}
	v.mu.Unlock()
	g.HandlePointer(ev)
}

func (v *galleryView) HandleWheel(deltaY float32) {
	if g := v.Gallery(); g != nil {
		g.HandleWheel(deltaY)
	}
}

func (v *galleryView) HandleKeyDown(keyCode uint32) {
	if g := v.Gallery(); g != nil {
		g.HandleKeyDown(keyCode)
	}
}
