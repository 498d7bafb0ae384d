package scene

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/loader"
	"github.com/Carmen-Shannon/oxy-gallery/engine/media"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-gallery/engine/text"
	"github.com/chewxy/math32"
)

// Input tuning.
const (
	// SnapDelay is the quiet period after the last wheel event before the belt snaps to a slot.
	SnapDelay = 200 * time.Millisecond
	// TapThreshold is the horizontal travel in logical pixels below which a drag counts as a tap.
	TapThreshold = 5
	// CompactMaxWidth is the widest logical viewport that uses the compact layout.
	CompactMaxWidth = 768

	mouseSensitivity   = 0.025
	touchSensitivity   = 0.08
	wheelMultiplier    = 0.2
	compactWheelFactor = 0.15
)

// ScrollState is a snapshot of the belt's scroll physics.
type ScrollState struct {
	// Current is the smoothed scroll position.
	Current float32
	// Target is the position input drives toward.
	Target float32
	// Last is Current as of the previous tick.
	Last float32
	// Ease is the per-tick interpolation factor.
	Ease float32
	// Position is the drag anchor captured on pointer down.
	Position float32
}

type pointer struct {
	x, y   float32
	down   bool
	id     int
	source input.PointerSource
	startX float32
}

type drawItem struct {
	media []bind_group_provider.BindGroupProvider
	title []bind_group_provider.BindGroupProvider
}

type gallery struct {
	mu *sync.Mutex

	name   string
	active bool

	props  Props
	items  []GalleryItem
	medias []media.Media

	scroll  ScrollState
	pointer pointer

	screen   media.Size
	viewport media.Size
	compact  bool
	sized    bool

	selected     int
	hasSelection bool
	destroyed    bool

	snap      *common.Debouncer
	afterFunc common.AfterFunc

	camera   camera.Camera
	renderer renderer.Renderer
	mesh     bind_group_provider.BindGroupProvider
	draws    []drawItem
	visible  []int

	loader   loader.Loader
	byURI    map[string][]int
	logger   *slog.Logger
	initSize [2]int
}

// Gallery is the circular gallery controller. It owns the camera, the media belt, the scroll physics,
// hit-testing and the selection state, and is driven by pointer, wheel and key input.
//
// All methods are safe for concurrent use. Props callbacks run after the controller's lock is released,
// so they may call back into the Gallery.
type Gallery interface {
	Scene
	input.Handler

	// Items returns the doubled item sequence backing the belt.
	Items() []GalleryItem

	// Media returns the planes of the belt in slot order.
	Media() []media.Media

	// Scroll returns a snapshot of the scroll state.
	Scroll() ScrollState

	// Compact reports whether the compact layout is in effect.
	Compact() bool

	// Selected returns the selected index, if any.
	//
	// Returns:
	//   - int: the index into Media
	//   - bool: false when nothing is selected
	Selected() (int, bool)

	// Select focuses the item at index, unfocusing the previous selection, and emits OnItemSelect.
	// Out-of-range indices are ignored.
	//
	// Parameters:
	//   - index: the index into Media
	Select(index int)

	// Deselect clears the selection and emits OnItemDeselect. Does nothing when nothing is selected.
	Deselect()

	// HitTest finds the first plane containing the logical point. Always misses before the first resize.
	//
	// Parameters:
	//   - x, y: the point in logical pixels, origin at the top left
	//
	// Returns:
	//   - int: the index into Media
	//   - bool: true on a hit
	HitTest(x, y float32) (int, bool)

	// ScreenPosition projects the center of the plane at index into logical pixels.
	//
	// Parameters:
	//   - index: the index into Media
	//
	// Returns:
	//   - x, y: the projected point
	//   - ok: false for an out-of-range index or before the first resize
	ScreenPosition(index int) (x, y float32, ok bool)

	// Snap rounds the scroll target to the nearest slot boundary. Does nothing while dragging.
	Snap()
}

var _ Gallery = &gallery{}

// NewGallery builds the belt from props. With a renderer it registers the media pipelines, uploads the
// shared plane mesh, creates a Loader when none was supplied and requests every image. Without one the
// gallery runs headless: all state and events work, Draw does nothing.
//
// The gallery owns the loader it is given and closes it on Destroy.
//
// Parameters:
//   - props: the construction parameters
//   - options: functional options
//
// Returns:
//   - Gallery: the new gallery
func NewGallery(props Props, options ...GalleryBuilderOption) Gallery {
	g := &gallery{
		mu:     &sync.Mutex{},
		name:   "gallery",
		active: true,
		props:  props.withDefaults(),
		byURI:  make(map[string][]int),
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(g)
	}
	g.logger = g.logger.With("component", "gallery")
	g.items = doubled(g.props.Items)
	g.scroll.Ease = g.props.ScrollEase

	if g.camera == nil {
		g.camera = camera.NewCamera()
	}

	var debounceOpts []common.DebouncerOption
	if g.afterFunc != nil {
		debounceOpts = append(debounceOpts, common.WithAfterFunc(g.afterFunc))
	}
	g.snap = common.NewDebouncer(SnapDelay, g.Snap, debounceOpts...)

	// a failed GPU setup still releases whatever was created, the loader included
	defer func() {
		if r := recover(); r != nil {
			g.Destroy()
			panic(r)
		}
	}()

	if g.renderer != nil {
		if err := g.renderer.RegisterPipelines(media.NewPipelines()...); err != nil {
			panic("failed to register gallery pipelines: " + err.Error())
		}
		if err := g.renderer.InitBindGroup(g.camera.BindGroupProvider(), camera.BindGroupLayout); err != nil {
			panic("failed to create camera bind group: " + err.Error())
		}
		g.mesh = media.NewPlaneMesh(g.renderer)
		if g.loader == nil {
			g.loader = loader.NewLoader()
		}
	}

	g.buildMedia()
	g.requestImages()

	if g.initSize[0] > 0 && g.initSize[1] > 0 {
		g.Resize(g.initSize[0], g.initSize[1])
	}
	g.logger.Debug("gallery created", "items", len(g.items), "headless", g.renderer == nil)
	return g
}

func (g *gallery) buildMedia() {
	font := text.ParseFont(g.props.Font)
	count := len(g.items)
	g.medias = make([]media.Media, count)
	for i, it := range g.items {
		opts := []media.MediaBuilderOption{
			media.WithBend(g.props.Bend),
			media.WithBorderRadius(g.props.BorderRadius),
			media.WithTitle(it.Text, font, g.props.TextColor),
		}
		if g.renderer != nil {
			opts = append(opts, media.WithRenderer(g.renderer))
		}
		g.medias[i] = media.NewMedia(i, count, opts...)
	}

	if g.renderer == nil {
		return
	}
	cam := g.camera.BindGroupProvider()
	g.draws = make([]drawItem, count)
	for i, m := range g.medias {
		g.draws[i].media = []bind_group_provider.BindGroupProvider{cam, m.BindGroupProvider()}
		if t := m.Title(); t != nil {
			g.draws[i].title = []bind_group_provider.BindGroupProvider{cam, t.BindGroupProvider()}
		}
	}
}

func (g *gallery) requestImages() {
	for i, it := range g.items {
		g.byURI[it.Image] = append(g.byURI[it.Image], i)
	}
	if g.loader == nil {
		return
	}
	// the second half of the belt repeats the first, so each source is requested once
	for _, it := range g.items[:len(g.items)/2] {
		g.loader.Request(it.Image)
	}
}

func (g *gallery) Name() string {
	return g.name
}

func (g *gallery) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active && !g.destroyed
}

func (g *gallery) SetActive(active bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = active
}

func (g *gallery) Camera() camera.Camera {
	return g.camera
}

func (g *gallery) Renderer() renderer.Renderer {
	return g.renderer
}

func (g *gallery) Items() []GalleryItem {
	out := make([]GalleryItem, len(g.items))
	copy(out, g.items)
	return out
}

func (g *gallery) Media() []media.Media {
	out := make([]media.Media, len(g.medias))
	copy(out, g.medias)
	return out
}

func (g *gallery) Scroll() ScrollState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scroll
}

func (g *gallery) Compact() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.compact
}

func (g *gallery) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.destroyed {
		return
	}

	g.screen = media.Size{Width: float32(width), Height: float32(height)}
	g.camera.SetAspect(g.screen.Width / g.screen.Height)
	vw, vh := g.camera.ViewportSize()
	g.viewport = media.Size{Width: vw, Height: vh}
	g.compact = width <= CompactMaxWidth
	for _, m := range g.medias {
		m.Resize(g.screen, g.viewport, g.compact)
	}
	g.sized = true
}

// Update runs one tick: pending image uploads, scroll smoothing, the belt update and selection tracking.
// The smoothing is per tick, so deltaTime is not used.
func (g *gallery) Update(_ float32) {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	g.drainLoads()

	g.scroll.Current = common.Lerp(g.scroll.Current, g.scroll.Target, g.scroll.Ease)
	direction := media.DirectionLeft
	if g.scroll.Current > g.scroll.Last {
		direction = media.DirectionRight
	}
	for _, m := range g.medias {
		m.Update(g.scroll.Current, direction)
	}

	var events []func()
	if g.hasSelection {
		events = g.appendMove(events)
	}
	g.scroll.Last = g.scroll.Current
	g.mu.Unlock()

	dispatch(events)
}

// drainLoads applies every finished load without blocking. Caller must hold the mutex.
func (g *gallery) drainLoads() {
	if g.loader == nil {
		return
	}
	for {
		select {
		case res := <-g.loader.Results():
			g.applyLoad(res)
		default:
			return
		}
	}
}

func (g *gallery) applyLoad(res loader.Result) {
	indices := g.byURI[res.URI]
	if len(indices) == 0 {
		return
	}
	if res.Err != nil {
		g.logger.Debug("keeping placeholder", "uri", res.URI, "error", res.Err)
		return
	}
	staging := common.TextureFromImage(res.Image)
	for _, i := range indices {
		if err := g.medias[i].SetImage(staging); err != nil {
			g.logger.Warn("texture upload failed: "+err.Error(), "uri", res.URI, "index", i)
		}
	}
}

func (g *gallery) Draw() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.destroyed || g.renderer == nil {
		return nil
	}

	u := g.camera.Uniform()
	writes := make([]bind_group_provider.BufferWrite, 0, 1+2*len(g.medias))
	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: g.camera.BindGroupProvider(),
		Binding:  0,
		Data:     u.Marshal(),
	})
	for _, m := range g.medias {
		writes = append(writes, m.BufferWrites()...)
	}
	g.renderer.WriteBuffers(writes)

	vp := g.camera.ViewProjectionMatrix()
	frustum := common.ExtractFrustum(vp[:])
	visible := g.visible[:0]
	for i, m := range g.medias {
		x, y, z := m.Position()
		sx, sy := m.Scale()
		// the diagonal covers the plane at any rotation plus the caption hanging below it
		if frustum.ContainsSphere(x, y, z, math32.Hypot(sx, sy)) {
			visible = append(visible, i)
		}
	}
	g.visible = visible

	for _, i := range visible {
		if err := g.renderer.DrawCall(media.MediaPipelineKey, g.mesh, g.draws[i].media); err != nil {
			return err
		}
	}
	// captions go last so their blended edges land on the planes behind them
	for _, i := range visible {
		if g.draws[i].title == nil {
			continue
		}
		if err := g.renderer.DrawCall(media.TitlePipelineKey, g.mesh, g.draws[i].title); err != nil {
			return err
		}
	}
	return nil
}

func (g *gallery) HandlePointer(ev input.PointerEvent) {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	if g.pointer.down && ev.ID != g.pointer.id {
		g.mu.Unlock()
		return
	}
	g.pointer.x, g.pointer.y = ev.X, ev.Y

	var events []func()
	switch ev.Kind {
	case input.PointerDown:
		g.pointer.down = true
		g.pointer.id = ev.ID
		g.pointer.source = ev.Source
		g.pointer.startX = ev.X
		g.scroll.Position = g.scroll.Current

	case input.PointerMove:
		if !g.pointer.down {
			break
		}
		sensitivity := float32(mouseSensitivity)
		if g.compact || g.pointer.source == input.SourceTouch {
			sensitivity = touchSensitivity
		}
		distance := (g.pointer.startX - ev.X) * g.props.ScrollSpeed * sensitivity
		g.scroll.Target = g.scroll.Position + distance

	case input.PointerUp:
		if !g.pointer.down {
			break
		}
		g.pointer.down = false
		g.snapLocked()
		if math32.Abs(g.pointer.x-g.pointer.startX) < TapThreshold {
			if i, ok := g.hitTestLocked(g.pointer.x, g.pointer.y); ok {
				events = g.selectLocked(i, events)
			} else {
				events = g.deselectLocked(events)
			}
		}
	}
	g.mu.Unlock()

	dispatch(events)
}

func (g *gallery) HandleWheel(deltaY float32) {
	if deltaY == 0 {
		return
	}
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	multiplier := float32(wheelMultiplier)
	if g.compact {
		multiplier = compactWheelFactor
	}
	g.scroll.Target += common.Sign(deltaY) * g.props.ScrollSpeed * multiplier
	g.snap.Trigger()

	var events []func()
	if g.hasSelection {
		events = g.appendMove(events)
	}
	g.mu.Unlock()

	dispatch(events)
}

func (g *gallery) HandleKeyDown(keyCode uint32) {
	if keyCode == common.KeyEsc {
		g.Deselect()
	}
}

func (g *gallery) Snap() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.destroyed || g.pointer.down {
		return
	}
	g.snapLocked()
}

// snapLocked rounds the target to a slot boundary. Caller must hold the mutex.
func (g *gallery) snapLocked() {
	if len(g.medias) == 0 {
		return
	}
	width := g.medias[0].Width()
	if width <= 0 {
		return
	}
	idx := math32.Round(math32.Abs(g.scroll.Target) / width)
	g.scroll.Target = common.Sign(g.scroll.Target) * width * idx
}

func (g *gallery) HitTest(x, y float32) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hitTestLocked(x, y)
}

func (g *gallery) hitTestLocked(x, y float32) (int, bool) {
	if !g.sized || g.destroyed {
		return 0, false
	}
	wx, wy, ok := g.camera.Unproject(2*x/g.screen.Width-1, 1-2*y/g.screen.Height)
	if !ok {
		return 0, false
	}
	for i, m := range g.medias {
		if m.Contains(wx, wy) {
			return i, true
		}
	}
	return 0, false
}

func (g *gallery) ScreenPosition(index int) (x, y float32, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if index < 0 || index >= len(g.medias) || !g.sized {
		return 0, 0, false
	}
	x, y = g.screenPositionLocked(index)
	return x, y, true
}

// screenPositionLocked projects the center of a plane to logical screen pixels. Caller must hold the mutex.
func (g *gallery) screenPositionLocked(index int) (float32, float32) {
	wx, wy, wz := g.medias[index].Position()
	ndcX, ndcY, ok := g.camera.Project(wx, wy, wz)
	if !ok {
		return g.screen.Width / 2, g.screen.Height / 2
	}
	return (ndcX + 1) / 2 * g.screen.Width, (1 - ndcY) / 2 * g.screen.Height
}

func (g *gallery) Selected() (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected, g.hasSelection
}

func (g *gallery) Select(index int) {
	g.mu.Lock()
	if g.destroyed || index < 0 || index >= len(g.medias) {
		g.mu.Unlock()
		return
	}
	events := g.selectLocked(index, nil)
	g.mu.Unlock()

	dispatch(events)
}

func (g *gallery) Deselect() {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	events := g.deselectLocked(nil)
	g.mu.Unlock()

	dispatch(events)
}

// selectLocked moves focus to index and queues OnItemSelect. Caller must hold the mutex.
func (g *gallery) selectLocked(index int, events []func()) []func() {
	if g.hasSelection {
		g.medias[g.selected].SetFocused(false)
	}
	g.selected, g.hasSelection = index, true
	g.medias[index].SetFocused(true)

	if cb := g.props.OnItemSelect; cb != nil {
		item := g.items[index]
		var x, y float32
		if g.sized {
			x, y = g.screenPositionLocked(index)
		}
		events = append(events, func() { cb(index, item, x, y) })
	}
	return events
}

// deselectLocked clears the selection and queues OnItemDeselect. Caller must hold the mutex.
// Nothing is queued when no plane is selected, so a tap on empty space with no selection stays silent.
func (g *gallery) deselectLocked(events []func()) []func() {
	if !g.hasSelection {
		return events
	}
	g.medias[g.selected].SetFocused(false)
	g.selected, g.hasSelection = 0, false

	if cb := g.props.OnItemDeselect; cb != nil {
		events = append(events, cb)
	}
	return events
}

// appendMove queues OnItemMove for the selected plane. Caller must hold the mutex.
func (g *gallery) appendMove(events []func()) []func() {
	cb := g.props.OnItemMove
	if cb == nil || !g.sized {
		return events
	}
	x, y := g.screenPositionLocked(g.selected)
	return append(events, func() { cb(x, y) })
}

func (g *gallery) Destroy() {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	g.destroyed = true
	g.snap.Stop()
	if g.renderer != nil {
		for _, m := range g.medias {
			if m != nil {
				m.Release()
			}
		}
		if g.mesh != nil {
			g.mesh.Release()
		}
		g.camera.BindGroupProvider().Release()
	}
	l := g.loader
	g.mu.Unlock()

	if l != nil {
		l.Close()
	}
	g.logger.Debug("gallery destroyed")
}

func dispatch(events []func()) {
	for _, ev := range events {
		ev()
	}
}
