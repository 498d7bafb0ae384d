package view

import (
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	mu       sync.Mutex
	handler  input.Handler
	width    int
	height   int
	panicked bool
}

func (s *fakeSurface) SetInputHandler(handler input.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

func (s *fakeSurface) LogicalSize() (int, int) {
	if s.panicked {
		panic("surface lost")
	}
	return s.width, s.height
}

func (s *fakeSurface) PixelRatio() float32 {
	return 1
}

func (s *fakeSurface) input() input.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler
}

type fakeHost struct {
	mu     sync.Mutex
	scenes []scene.Scene
}

func (h *fakeHost) AddScene(s scene.Scene) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scenes = append(h.scenes, s)
}

func (h *fakeHost) RemoveScene(s scene.Scene) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, existing := range h.scenes {
		if existing == s {
			h.scenes = append(h.scenes[:i], h.scenes[i+1:]...)
			return
		}
	}
}

func (h *fakeHost) names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.scenes))
	for _, s := range h.scenes {
		names = append(names, s.Name())
	}
	return names
}

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

// neverSnap keeps the debounced snap from moving the scroll target during a test.
func neverSnap(time.Duration, func()) common.Timer {
	return idleTimer{}
}

func newTestView(t *testing.T) (View, *fakeSurface, *fakeHost) {
	t.Helper()
	s := &fakeSurface{width: 1280, height: 720}
	h := &fakeHost{}
	v := NewView(s, WithHost(h), WithGalleryOptions(scene.WithSnapScheduler(neverSnap)))
	t.Cleanup(v.Teardown)
	return v, s, h
}

func press(v View, x, y float32) {
	v.HandlePointer(input.PointerEvent{X: x, Y: y, Kind: input.PointerDown})
	v.HandlePointer(input.PointerEvent{X: x, Y: y, Kind: input.PointerUp})
}

func TestMountHeadless(t *testing.T) {
	v, s, h := newTestView(t)
	assert.False(t, v.Mounted())
	assert.Nil(t, v.Gallery())

	require.NoError(t, v.Mount(scene.Props{}))
	require.True(t, v.Mounted())
	assert.Len(t, v.Gallery().Items(), 24)
	assert.False(t, v.Gallery().Compact())
	assert.Equal(t, []string{"gallery", "overlay"}, h.names())
	assert.Same(t, v, s.input())
	assert.False(t, v.Card().Visible)
}

func TestSelectionDrivesCard(t *testing.T) {
	v, _, _ := newTestView(t)
	var selected []int
	var deselects int
	require.NoError(t, v.Mount(scene.Props{
		OnItemSelect:   func(index int, _ scene.GalleryItem, _, _ float32) { selected = append(selected, index) },
		OnItemDeselect: func() { deselects++ },
	}))
	g := v.Gallery()
	g.Update(0)

	press(v, 640, 360)
	card := v.Card()
	require.True(t, card.Visible)
	assert.Equal(t, 0, card.Index)
	assert.Equal(t, "Bridge", card.Item.Text)
	assert.InDelta(t, 640, card.AnchorX, 1e-3)
	assert.InDelta(t, 360, card.AnchorY, 1e-3)
	assert.Equal(t, []int{0}, selected)

	v.HandleWheel(1)
	for range 10 {
		g.Update(0)
	}
	card = v.Card()
	assert.Less(t, card.AnchorX, float32(640), "card follows the item")
	assert.InDelta(t, card.AnchorX-CardMaxWidth/2, card.Layout.Rect.X, 1e-3)

	g.Deselect()
	assert.False(t, v.Card().Visible)
	assert.Equal(t, 1, deselects)
}

func TestCardConsumesPresses(t *testing.T) {
	v, _, _ := newTestView(t)
	require.NoError(t, v.Mount(scene.Props{}))
	g := v.Gallery()
	g.Update(0)
	press(v, 640, 360)

	card := v.Card()
	require.True(t, card.Visible)
	body := card.Layout.Rect
	target := g.Scroll().Target

	press(v, body.X+4, body.Y+4)
	idx, ok := g.Selected()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	// a drag that starts on the card never reaches the belt
	v.HandlePointer(input.PointerEvent{X: body.X + 4, Y: body.Y + 4, Kind: input.PointerDown})
	v.HandlePointer(input.PointerEvent{X: body.X + 200, Y: body.Y + 4, Kind: input.PointerMove})
	v.HandlePointer(input.PointerEvent{X: body.X + 200, Y: body.Y + 4, Kind: input.PointerUp})
	assert.Equal(t, target, g.Scroll().Target)
	assert.True(t, v.Card().Visible)

	closeBtn := card.Layout.Close
	press(v, closeBtn.X+closeBtn.W/2, closeBtn.Y+closeBtn.H/2)
	_, ok = g.Selected()
	assert.False(t, ok)
	assert.False(t, v.Card().Visible)
}

func TestEscapeAndOutsideClickHideCard(t *testing.T) {
	v, _, _ := newTestView(t)
	require.NoError(t, v.Mount(scene.Props{}))
	g := v.Gallery()
	g.Update(0)

	press(v, 640, 360)
	require.True(t, v.Card().Visible)
	v.HandleKeyDown(common.KeyEsc)
	assert.False(t, v.Card().Visible)

	press(v, 640, 360)
	require.True(t, v.Card().Visible)
	press(v, 640, 10)
	assert.False(t, v.Card().Visible)
	_, ok := g.Selected()
	assert.False(t, ok)
}

func TestTeardown(t *testing.T) {
	v, s, h := newTestView(t)
	v.Teardown()

	require.NoError(t, v.Mount(scene.Props{}))
	g := v.Gallery()
	g.Update(0)
	press(v, 640, 360)

	v.Teardown()
	v.Teardown()
	assert.False(t, v.Mounted())
	assert.Nil(t, v.Gallery())
	assert.Empty(t, h.names())
	assert.Nil(t, s.input())
	assert.Equal(t, CardState{}, v.Card())
	assert.False(t, g.Active())

	// late input after teardown is dropped
	press(v, 640, 360)
	v.HandleWheel(1)
	v.HandleKeyDown(common.KeyEsc)
}

func TestUpdateRebuilds(t *testing.T) {
	v, _, h := newTestView(t)
	require.NoError(t, v.Mount(scene.Props{}))
	first := v.Gallery()
	first.Select(3)

	items := []scene.GalleryItem{{Image: "a.png", Text: "A"}, {Image: "b.png", Text: "B"}}
	require.NoError(t, v.Update(scene.Props{Items: items, Bend: 1}))
	second := v.Gallery()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Len(t, second.Items(), 4)
	assert.False(t, first.Active())

	_, ok := second.Selected()
	assert.False(t, ok)
	assert.False(t, v.Card().Visible)
	assert.Equal(t, []string{"gallery", "overlay"}, h.names())
}

func TestMountFailureLeavesViewUnmounted(t *testing.T) {
	v, s, h := newTestView(t)
	require.NoError(t, v.Mount(scene.Props{}))

	s.panicked = true
	err := v.Mount(scene.Props{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surface lost")
	assert.False(t, v.Mounted())
	assert.Empty(t, h.names())
	assert.Nil(t, s.input())
}

// overlayRefusingHost accepts the gallery and panics when the overlay is added.
type overlayRefusingHost struct {
	fakeHost
	added []scene.Scene
}

func (h *overlayRefusingHost) AddScene(s scene.Scene) {
	h.added = append(h.added, s)
	if s.Name() == "overlay" {
		panic("no room for overlay")
	}
	h.fakeHost.AddScene(s)
}

func TestMountFailureReleasesPartialMount(t *testing.T) {
	s := &fakeSurface{width: 1280, height: 720}
	h := &overlayRefusingHost{}
	v := NewView(s, WithHost(h), WithGalleryOptions(scene.WithSnapScheduler(neverSnap)))
	t.Cleanup(v.Teardown)

	err := v.Mount(scene.Props{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no room for overlay")
	assert.False(t, v.Mounted())
	assert.Empty(t, h.names(), "the gallery is taken back off the host")
	require.Len(t, h.added, 2)
	assert.False(t, h.added[0].Active(), "gallery destroyed")
	assert.False(t, h.added[1].Active(), "overlay destroyed")
}
