package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWidth  = 1280
	testHeight = 720
)

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

// manualClock holds the most recently scheduled debounce run until fire is called.
type manualClock struct {
	mu      sync.Mutex
	pending func()
}

func (c *manualClock) after(_ time.Duration, f func()) common.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = f
	return manualTimer{}
}

func (c *manualClock) fire() {
	c.mu.Lock()
	f := c.pending
	c.pending = nil
	c.mu.Unlock()
	if f != nil {
		f()
	}
}

type recorder struct {
	mu        sync.Mutex
	selects   []int
	moves     [][2]float32
	deselects int
}

func (r *recorder) props() Props {
	return Props{
		OnItemSelect: func(index int, _ GalleryItem, _, _ float32) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.selects = append(r.selects, index)
		},
		OnItemMove: func(x, y float32) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.moves = append(r.moves, [2]float32{x, y})
		},
		OnItemDeselect: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.deselects++
		},
	}
}

func newTestGallery(t *testing.T, props Props, opts ...GalleryBuilderOption) Gallery {
	t.Helper()
	opts = append([]GalleryBuilderOption{WithSize(testWidth, testHeight)}, opts...)
	g := NewGallery(props, opts...)
	t.Cleanup(g.Destroy)
	g.Update(0)
	return g
}

func pointerEvent(kind input.PointerKind, x, y float32) input.PointerEvent {
	return input.PointerEvent{X: x, Y: y, Kind: kind, Source: input.SourceMouse}
}

func focusedCount(g Gallery) int {
	n := 0
	for _, m := range g.Media() {
		if m.Focused() {
			n++
		}
	}
	return n
}

func TestPlaceholderSequenceIsDoubled(t *testing.T) {
	g := newTestGallery(t, Props{})

	items := g.Items()
	require.Len(t, items, 24)
	assert.Equal(t, "Bridge", items[0].Text)
	assert.Equal(t, "https://picsum.photos/seed/1/800/600?grayscale", items[0].Image)
	assert.Equal(t, "Palm Trees", items[11].Text)
	assert.Equal(t, items[0], items[12])
	assert.Len(t, g.Media(), 24)
	assert.Nil(t, g.Renderer())
}

func TestPropsDefaults(t *testing.T) {
	g := newTestGallery(t, Props{Items: []GalleryItem{{Image: "a.png", Text: "A"}}})
	assert.Equal(t, DefaultScrollEase, g.Scroll().Ease)
	assert.Len(t, g.Items(), 2)

	p := Props{ScrollEase: 3}.withDefaults()
	assert.Equal(t, DefaultScrollEase, p.ScrollEase)
	assert.Equal(t, DefaultTextColor, p.TextColor)
	assert.Equal(t, DefaultFont, p.Font)
	assert.Equal(t, float32(0), p.Bend)
}

func TestResizeLayout(t *testing.T) {
	g := newTestGallery(t, Props{})

	vw, vh := g.Camera().ViewportSize()
	assert.InDelta(t, 2*math.Tan(22.5*math.Pi/180)*20, vh, 1e-4)
	assert.InDelta(t, vh*testWidth/testHeight, vw, 1e-3)
	assert.False(t, g.Compact())

	g.Resize(700, 900)
	assert.True(t, g.Compact())
}

func TestSnapAfterWheelBurst(t *testing.T) {
	clock := &manualClock{}
	g := newTestGallery(t, Props{}, WithSnapScheduler(clock.after))
	width := g.Media()[0].Width()

	for range 30 {
		g.HandleWheel(1)
	}
	before := g.Scroll().Target
	assert.InDelta(t, 12, before, 1e-3)

	clock.fire()
	want := width * float32(math.Round(float64(before/width)))
	assert.InDelta(t, want, g.Scroll().Target, 1e-4)

	for range 70 {
		g.HandleWheel(-3)
	}
	before = g.Scroll().Target
	require.Less(t, before, float32(0))
	clock.fire()
	want = -width * float32(math.Round(float64(-before/width)))
	assert.InDelta(t, want, g.Scroll().Target, 1e-4)
}

func TestSnapWithRealTimer(t *testing.T) {
	g := newTestGallery(t, Props{})
	width := g.Media()[0].Width()

	for range 5 {
		g.HandleWheel(1)
	}
	require.InDelta(t, 2, g.Scroll().Target, 1e-4)

	require.Eventually(t, func() bool {
		return g.Scroll().Target == 0
	}, time.Second, 10*time.Millisecond)

	for range 25 {
		g.HandleWheel(1)
	}
	require.Eventually(t, func() bool {
		return math.Abs(float64(g.Scroll().Target-width)) < 1e-4
	}, time.Second, 10*time.Millisecond)
}

func TestSnapSkippedWhileDragging(t *testing.T) {
	clock := &manualClock{}
	g := newTestGallery(t, Props{}, WithSnapScheduler(clock.after))

	g.HandleWheel(1)
	g.HandlePointer(pointerEvent(input.PointerDown, 600, 300))
	before := g.Scroll().Target
	clock.fire()
	assert.Equal(t, before, g.Scroll().Target)
}

func TestDragMovesTarget(t *testing.T) {
	g := newTestGallery(t, Props{})

	g.HandlePointer(pointerEvent(input.PointerDown, 800, 300))
	g.HandlePointer(pointerEvent(input.PointerMove, 600, 300))
	assert.InDelta(t, 200*2*0.025, g.Scroll().Target, 1e-5)

	// a touch on the same drag would use the compact sensitivity, but a second pointer is ignored
	g.HandlePointer(input.PointerEvent{ID: 3, X: 0, Y: 0, Kind: input.PointerMove, Source: input.SourceTouch})
	assert.InDelta(t, 10, g.Scroll().Target, 1e-5)

	g.HandlePointer(pointerEvent(input.PointerUp, 600, 300))
	assert.InDelta(t, g.Media()[0].Width(), g.Scroll().Target, 1e-5, "pointer up snaps to the nearest slot")
	_, ok := g.Selected()
	assert.False(t, ok)

	g.HandlePointer(input.PointerEvent{X: 800, Y: 300, Kind: input.PointerDown, Source: input.SourceTouch})
	g.HandlePointer(input.PointerEvent{X: 700, Y: 300, Kind: input.PointerMove, Source: input.SourceTouch})
	assert.InDelta(t, 100*2*0.08, g.Scroll().Target, 1e-5)
}

func TestTapSelectsAndDragDoesNot(t *testing.T) {
	rec := &recorder{}
	g := newTestGallery(t, rec.props())

	g.HandlePointer(pointerEvent(input.PointerDown, 640, 360))
	g.HandlePointer(pointerEvent(input.PointerMove, 643, 360))
	g.HandlePointer(pointerEvent(input.PointerUp, 643, 360))

	idx, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []int{0}, rec.selects)

	// travel of exactly the threshold is a drag
	g.HandlePointer(pointerEvent(input.PointerDown, 640, 360))
	g.HandlePointer(pointerEvent(input.PointerMove, 640+TapThreshold, 360))
	g.HandlePointer(pointerEvent(input.PointerUp, 640+TapThreshold, 360))
	g.HandlePointer(pointerEvent(input.PointerDown, 640, 10))
	g.HandlePointer(pointerEvent(input.PointerMove, 700, 10))
	g.HandlePointer(pointerEvent(input.PointerUp, 700, 10))

	idx, ok = g.Selected()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []int{0}, rec.selects)
	assert.Zero(t, rec.deselects)
}

func TestTapOnEmptySpaceDeselects(t *testing.T) {
	rec := &recorder{}
	g := newTestGallery(t, rec.props())
	g.Select(0)

	g.HandlePointer(pointerEvent(input.PointerDown, 640, 10))
	g.HandlePointer(pointerEvent(input.PointerUp, 641, 10))

	_, ok := g.Selected()
	assert.False(t, ok)
	assert.Equal(t, 1, rec.deselects)
	assert.Zero(t, focusedCount(g))
}

func TestTapOnEmptySpaceWithoutSelectionIsSilent(t *testing.T) {
	rec := &recorder{}
	g := newTestGallery(t, rec.props())

	g.HandlePointer(pointerEvent(input.PointerDown, 640, 10))
	g.HandlePointer(pointerEvent(input.PointerUp, 641, 10))

	_, ok := g.Selected()
	assert.False(t, ok)
	assert.Zero(t, rec.deselects)
	assert.Empty(t, rec.selects)
}

func TestSelectionExclusivity(t *testing.T) {
	rec := &recorder{}
	props := rec.props()
	var g Gallery
	var reentrant []bool
	inner := props.OnItemSelect
	props.OnItemSelect = func(index int, item GalleryItem, x, y float32) {
		// callbacks run unlocked, so reading back must not deadlock
		_, ok := g.Selected()
		reentrant = append(reentrant, ok)
		inner(index, item, x, y)
	}
	g = newTestGallery(t, props)
	media := g.Media()

	g.Select(3)
	assert.True(t, media[3].Focused())
	assert.Equal(t, 1, focusedCount(g))

	g.Select(5)
	assert.False(t, media[3].Focused())
	assert.True(t, media[5].Focused())
	assert.Equal(t, 1, focusedCount(g))

	g.Select(99)
	g.Select(-1)
	idx, _ := g.Selected()
	assert.Equal(t, 5, idx)
	assert.Equal(t, []int{3, 5}, rec.selects)
	assert.Equal(t, []bool{true, true}, reentrant)
}

func TestEscapeDeselects(t *testing.T) {
	rec := &recorder{}
	g := newTestGallery(t, rec.props())

	g.HandleKeyDown(common.KeyEsc)
	assert.Zero(t, rec.deselects, "nothing to deselect")

	g.Select(2)
	g.HandleKeyDown(65)
	_, ok := g.Selected()
	assert.True(t, ok)

	g.HandleKeyDown(common.KeyEsc)
	_, ok = g.Selected()
	assert.False(t, ok)
	assert.Equal(t, 1, rec.deselects)
	assert.False(t, g.Media()[2].Focused())
}

func TestSelectedItemIsTracked(t *testing.T) {
	rec := &recorder{}
	g := newTestGallery(t, rec.props())
	g.Select(0)

	g.Update(0)
	require.Len(t, rec.moves, 1)
	assert.InDelta(t, testWidth/2, rec.moves[0][0], 1e-3)
	assert.InDelta(t, testHeight/2, rec.moves[0][1], 1e-3)

	g.HandleWheel(1)
	assert.Len(t, rec.moves, 2)

	x, y, ok := g.ScreenPosition(0)
	require.True(t, ok)
	assert.Equal(t, rec.moves[1], [2]float32{x, y})

	g.Deselect()
	g.Update(0)
	assert.Len(t, rec.moves, 2)
}

func TestCameraProjectionMatchesViewportMapping(t *testing.T) {
	g := newTestGallery(t, Props{})
	g.HandleWheel(3)
	for range 20 {
		g.Update(0)
	}

	vw, vh := g.Camera().ViewportSize()
	onScreen := 0
	for i, m := range g.Media() {
		wx, wy, _ := m.Position()
		wantX := (wx/vw + 0.5) * testWidth
		wantY := (-wy/vh + 0.5) * testHeight

		x, y, ok := g.ScreenPosition(i)
		require.True(t, ok)
		assert.InDelta(t, wantX, x, 0.05, "plane %d", i)
		assert.InDelta(t, wantY, y, 0.05, "plane %d", i)

		if x < 0 || x > testWidth || y < 0 || y > testHeight {
			continue
		}
		onScreen++
		hit, ok := g.HitTest(x, y)
		require.True(t, ok, "plane %d", i)
		assert.Equal(t, i, hit)
	}
	assert.Positive(t, onScreen)
}

func TestHitTestBeforeResize(t *testing.T) {
	g := NewGallery(Props{})
	defer g.Destroy()

	_, ok := g.HitTest(640, 360)
	assert.False(t, ok)

	g.Resize(0, 720)
	g.Resize(1280, 0)
	_, ok = g.HitTest(640, 360)
	assert.False(t, ok)
	_, _, ok = g.ScreenPosition(0)
	assert.False(t, ok)
}

func TestResizeStability(t *testing.T) {
	clock := &manualClock{}
	g := newTestGallery(t, Props{}, WithSnapScheduler(clock.after))
	g.HandleWheel(1)
	for range 20 {
		g.Update(0)
	}
	g.Select(4)

	scroll := g.Scroll()
	idx, ok := g.Selected()
	width := g.Media()[0].Width()

	g.Resize(testWidth, testHeight)
	assert.Equal(t, scroll, g.Scroll())
	gotIdx, gotOK := g.Selected()
	assert.Equal(t, idx, gotIdx)
	assert.Equal(t, ok, gotOK)
	assert.Equal(t, width, g.Media()[0].Width())
}

func TestTeardownStopsEverything(t *testing.T) {
	rec := &recorder{}
	clock := &manualClock{}
	g := NewGallery(rec.props(), WithSize(testWidth, testHeight), WithSnapScheduler(clock.after))
	g.Update(0)
	g.Select(1)
	g.HandleWheel(1)
	g.Update(0)

	scroll := g.Scroll()
	selects, moves := len(rec.selects), len(rec.moves)

	g.Destroy()
	g.Destroy()
	assert.False(t, g.Active())

	clock.fire()
	g.Update(0)
	g.HandleWheel(1)
	g.HandlePointer(pointerEvent(input.PointerDown, 640, 360))
	g.HandlePointer(pointerEvent(input.PointerMove, 100, 360))
	g.HandlePointer(pointerEvent(input.PointerUp, 100, 360))
	g.HandleKeyDown(common.KeyEsc)
	g.Select(3)
	g.Deselect()
	g.Resize(700, 600)

	assert.Equal(t, scroll, g.Scroll())
	idx, ok := g.Selected()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Len(t, rec.selects, selects)
	assert.Len(t, rec.moves, moves)
	assert.Zero(t, rec.deselects)
	assert.False(t, g.Compact())
	assert.NoError(t, g.Draw())
}

func TestImagesLoadIntoBothCopies(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	require.NoError(t, png.Encode(&buf, img))

	fsys := fstest.MapFS{"photos/wide.png": &fstest.MapFile{Data: buf.Bytes()}}
	items := []GalleryItem{
		{Image: "photos/wide.png", Text: "Wide"},
		{Image: "photos/missing.png", Text: "Missing"},
	}
	g := newTestGallery(t, Props{Items: items}, WithLoader(loader.NewLoader(loader.WithFS(fsys))))
	media := g.Media()
	require.Len(t, media, 4)

	require.Eventually(t, func() bool {
		g.Update(0)
		return media[0].HasImage() && media[2].HasImage()
	}, 2*time.Second, 10*time.Millisecond)

	assert.False(t, media[1].HasImage())
	assert.False(t, media[3].HasImage())
	ratio := media[0].UVRatio()
	assert.Less(t, ratio[0], float32(1))
	assert.Equal(t, float32(1), ratio[1])
}
