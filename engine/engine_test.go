package engine

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records the frame lifecycle. Methods it does not override panic through the nil embed.
type fakeRenderer struct {
	renderer.Renderer
	log        *[]string
	beginErr   error
	resizedTo  [2]int
	resizeHits int
}

func (r *fakeRenderer) BeginFrame() error {
	*r.log = append(*r.log, "begin")
	return r.beginErr
}

func (r *fakeRenderer) EndFrame() { *r.log = append(*r.log, "end") }

func (r *fakeRenderer) Present() { *r.log = append(*r.log, "present") }

func (r *fakeRenderer) Resize(width, height int) {
	r.resizedTo = [2]int{width, height}
	r.resizeHits++
}

type fakeScene struct {
	name     string
	active   bool
	renderer renderer.Renderer
	log      *[]string
	drawErr  error
	size     [2]int
}

func (s *fakeScene) Name() string {
	return s.name
}

func (s *fakeScene) Active() bool {
	return s.active
}

func (s *fakeScene) SetActive(active bool) {
	s.active = active
}

func (s *fakeScene) Camera() camera.Camera {
	return nil
}

func (s *fakeScene) Renderer() renderer.Renderer {
	return s.renderer
}

func (s *fakeScene) Resize(width, height int) {
	s.size = [2]int{width, height}
}

func (s *fakeScene) Update(float32) {
	*s.log = append(*s.log, "update "+s.name)
}

func (s *fakeScene) Destroy() {}

func (s *fakeScene) Draw() error {
	*s.log = append(*s.log, "draw "+s.name)
	return s.drawErr
}

var _ scene.Scene = &fakeScene{}

func TestFrameOrder(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log}
	back := &fakeScene{name: "gallery", active: true, renderer: r, log: &log, drawErr: errors.New("boom")}
	front := &fakeScene{name: "overlay", active: true, renderer: r, log: &log}
	idle := &fakeScene{name: "idle", renderer: r, log: &log}

	e := NewEngine(WithScene(back), WithScene(idle)).(*engine)
	e.AddScene(front)
	e.AddScene(front)
	require.Len(t, e.Scenes(), 3)

	require.NoError(t, e.frame())
	assert.Equal(t, []string{"begin", "draw gallery", "draw overlay", "end", "present"}, log)
}

func TestFrameSkippedWhileSurfaceUnavailable(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log, beginErr: renderer.ErrSurfaceUnavailable}
	s := &fakeScene{name: "gallery", active: true, renderer: r, log: &log}
	e := NewEngine(WithScene(s)).(*engine)

	err := e.frame()
	assert.ErrorIs(t, err, renderer.ErrSurfaceUnavailable)
	assert.Equal(t, []string{"begin"}, log)
}

func TestTickUpdatesActiveScenesOnly(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log}
	a := &fakeScene{name: "gallery", active: true, renderer: r, log: &log}
	b := &fakeScene{name: "overlay", active: true, log: &log}
	idle := &fakeScene{name: "idle", log: &log}
	e := NewEngine(WithScene(a), WithScene(idle), WithScene(b)).(*engine)

	e.tick(1.0 / 60)
	e.tick(1.0 / 60)
	assert.Equal(t, []string{"update gallery", "update overlay", "update gallery", "update overlay"}, log,
		"ticks never begin a frame")
}

func TestHeadlessFrameDoesNothing(t *testing.T) {
	var log []string
	s := &fakeScene{name: "gallery", active: true, log: &log}
	e := NewEngine(WithScene(s)).(*engine)

	require.NoError(t, e.frame())
	assert.Empty(t, log)
}

// countingScene counts Update calls and is safe to tick from the engine goroutine.
type countingScene struct {
	fakeScene
	updates atomic.Int64
}

func (s *countingScene) Update(float32) {
	s.updates.Add(1)
}

func TestTickLoopDrivesUpdatesAtTickRate(t *testing.T) {
	s := &countingScene{fakeScene: fakeScene{name: "gallery", active: true}}
	e := NewEngine(WithScene(s), WithTickRate(200)).(*engine)
	assert.Equal(t, 5*time.Millisecond, e.engineTickRate)

	e.wg.Add(1)
	go e.handleEngine()
	require.Eventually(t, func() bool { return s.updates.Load() >= 3 }, time.Second, time.Millisecond)

	e.Quit()
	e.wg.Wait()
	stopped := s.updates.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, s.updates.Load(), "no ticks after quit")
}

func TestTickRateDefault(t *testing.T) {
	e := NewEngine(WithTickRate(0)).(*engine)
	assert.Equal(t, time.Second/60, e.engineTickRate)
}

func TestRemoveScene(t *testing.T) {
	var log []string
	a := &fakeScene{name: "a", active: true, log: &log}
	b := &fakeScene{name: "b", active: true, log: &log}
	e := NewEngine(WithScene(a), WithScene(b))

	e.RemoveScene(a)
	e.RemoveScene(a)
	assert.Equal(t, []scene.Scene{b}, e.Scenes())
}

func TestResizeCallbacks(t *testing.T) {
	var log []string
	r := &fakeRenderer{log: &log}
	a := &fakeScene{name: "a", renderer: r, log: &log}
	b := &fakeScene{name: "b", renderer: r, log: &log}
	e := NewEngine(WithScene(a), WithScene(b)).(*engine)

	e.resizeSurface(2560, 1440)
	assert.Equal(t, 1, r.resizeHits, "a shared renderer is resized once")
	assert.Equal(t, [2]int{2560, 1440}, r.resizedTo)

	e.resizeScenes(1280, 720)
	assert.Equal(t, [2]int{1280, 720}, a.size)
	assert.Equal(t, [2]int{1280, 720}, b.size)
}

func TestFrameDuration(t *testing.T) {
	assert.Zero(t, frameDuration(0))
	assert.Zero(t, frameDuration(-5))
	assert.Equal(t, int64(16666666), int64(frameDuration(60)))
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine()
	e.Quit()
	e.Quit()
}
