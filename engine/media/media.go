// Package media implements the gallery's image planes and their captions.
package media

import (
	"image/color"
	"strconv"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-gallery/engine/text"
	"github.com/chewxy/math32"
)

// Focus animation targets and rate.
const (
	FocusScale = 1.08
	FocusDepth = 1.6
	FocusLerp  = 0.15
)

// Layout constants, in reference pixels of a 1500 px tall screen.
const (
	referenceHeight  = 1500
	referencePlaneW  = 700
	referencePlaneH  = 900
	desktopPadding   = 2
	compactPadding   = 0.2
	compactBufferMul = 0.5
)

// Direction is the scroll direction of the last frame.
type Direction int

const (
	// DirectionRight means the scroll position increased; content moves left on screen.
	DirectionRight Direction = iota
	// DirectionLeft means the scroll position did not increase.
	DirectionLeft
)

// Size is a width and height pair, in pixels for screens and world units for viewports.
type Size struct {
	Width, Height float32
}

type media struct {
	mu *sync.Mutex

	index int
	count int

	bend         float32
	borderRadius float32

	screen   Size
	viewport Size
	compact  bool
	sized    bool

	scaleX, scaleY float32
	padding        float32
	width          float32
	widthTotal     float32
	x              float32

	extra    float32
	position [3]float32
	rotation float32
	isBefore bool
	isAfter  bool

	focused      bool
	scaleCurrent float32
	scaleTarget  float32
	zCurrent     float32
	zTarget      float32

	imageW, imageH float32
	hasImage       bool
	model          [16]float32

	caption  *caption
	title    Title
	renderer renderer.Renderer
	provider bind_group_provider.BindGroupProvider
}

// Media is one image plane of the gallery belt. Its slot on the belt is fixed by its index; scrolling
// moves it along the belt, the bend places it on the arc, and wrap-around shifts it by whole belt
// lengths so the belt appears endless.
type Media interface {
	// Index returns the item's position in the belt.
	Index() int

	// Title returns the caption attached to this plane, or nil when it has none.
	Title() Title

	// Resize recomputes the plane size and slot from the screen and viewport.
	// A zero screen size leaves the previous geometry untouched.
	//
	// Parameters:
	//   - screen: the screen size in pixels
	//   - viewport: the visible size at z = 0 in world units
	//   - compact: whether the compact layout applies
	Resize(screen, viewport Size, compact bool)

	// Update advances the focus animation and places the plane for the given scroll position,
	// then wraps it by a belt length when it has left the viewport against the scroll direction.
	//
	// Parameters:
	//   - scroll: the current smoothed scroll position
	//   - direction: the direction of the last scroll change
	Update(scroll float32, direction Direction)

	// SetFocused sets the focus animation target.
	//
	// Parameters:
	//   - focused: true to grow and lift the plane toward the camera
	SetFocused(focused bool)

	// Focused reports whether the plane is focused.
	Focused() bool

	// SetImage records the image size for the cover fit and, with a renderer, swaps the texture.
	//
	// Parameters:
	//   - staging: the decoded image pixels
	//
	// Returns:
	//   - error: an error if the texture could not be uploaded
	SetImage(staging common.TextureStagingData) error

	// HasImage reports whether an image replaced the placeholder.
	HasImage() bool

	// Position returns the plane's world position.
	Position() (x, y, z float32)

	// Rotation returns the plane's rotation around Z in radians.
	Rotation() float32

	// Scale returns the plane's rendered size, including the focus animation.
	Scale() (x, y float32)

	// BaseScale returns the plane's size without the focus animation.
	BaseScale() (x, y float32)

	// Width returns the slot width (plane width plus padding).
	Width() float32

	// WidthTotal returns the length of the whole belt.
	WidthTotal() float32

	// Extra returns the accumulated wrap offset, a whole multiple of WidthTotal.
	Extra() float32

	// Contains reports whether the world point lies in the plane's axis-aligned bounds.
	//
	// Parameters:
	//   - x, y: the world point at z = 0
	//
	// Returns:
	//   - bool: true on a hit
	Contains(x, y float32) bool

	// UVRatio returns the cover-fit uv scale.
	UVRatio() [2]float32

	// BindGroupProvider returns the plane's GPU resources.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// BufferWrites returns the uniform writes for the plane and its caption.
	BufferWrites() []bind_group_provider.BufferWrite

	// Release releases the plane's and caption's GPU resources.
	Release()
}

var _ Media = &media{}

// NewMedia creates the plane at index of a belt of count planes.
//
// Parameters:
//   - index: the slot index
//   - count: the number of planes on the belt
//   - opts: functional options
//
// Returns:
//   - Media: the new plane
func NewMedia(index, count int, opts ...MediaBuilderOption) Media {
	m := &media{
		mu:           &sync.Mutex{},
		index:        index,
		count:        max(1, count),
		scaleCurrent: 1,
		scaleTarget:  1,
		borderRadius: 0.05,
		provider:     bind_group_provider.NewBindGroupProvider("media_" + strconv.Itoa(index)),
	}
	for _, opt := range opts {
		opt(m)
	}
	common.Identity(m.model[:])

	if m.renderer != nil {
		m.initGPU()
	}
	if m.caption != nil && m.caption.label != "" {
		var titleOpts []TitleBuilderOption
		if m.renderer != nil {
			titleOpts = append(titleOpts, WithTitleRenderer(m.renderer))
		}
		m.title = NewTitle(m.caption.label, m.caption.font, m.caption.color, titleOpts...)
	}
	return m
}

// caption holds the WithTitle arguments until the renderer option, if any, has been applied.
type caption struct {
	label string
	font  text.Font
	color color.NRGBA
}

func (m *media) initGPU() {
	if err := m.renderer.InitTextureView(m.provider, BindingTexture, common.BlankTexture()); err != nil {
		panic("failed to create media placeholder texture: " + err.Error())
	}
	if err := m.renderer.InitSampler(m.provider, BindingSampler, common.ClampSampler); err != nil {
		panic("failed to create media sampler: " + err.Error())
	}
	if err := m.renderer.InitBindGroup(m.provider, MediaBindGroupLayout); err != nil {
		panic("failed to create media bind group: " + err.Error())
	}
}

func (m *media) Index() int {
	return m.index
}

func (m *media) Title() Title {
	return m.title
}

func (m *media) Resize(screen, viewport Size, compact bool) {
	if screen.Width <= 0 || screen.Height <= 0 || viewport.Width <= 0 || viewport.Height <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.screen, m.viewport, m.compact = screen, viewport, compact
	scale := screen.Height / referenceHeight
	m.scaleY = viewport.Height * (referencePlaneH * scale) / screen.Height
	m.scaleX = viewport.Width * (referencePlaneW * scale) / screen.Width
	if compact {
		m.padding = m.scaleX * compactPadding
	} else {
		m.padding = desktopPadding
	}
	m.width = m.scaleX + m.padding
	m.widthTotal = m.width * float32(m.count)
	m.x = m.width * float32(m.index)
	m.sized = true
}

func (m *media) Update(scroll float32, direction Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scaleCurrent = common.Lerp(m.scaleCurrent, m.scaleTarget, FocusLerp)
	m.zCurrent = common.Lerp(m.zCurrent, m.zTarget, FocusLerp)
	if !m.sized {
		return
	}

	x := m.x - scroll - m.extra
	halfW := m.viewport.Width / 2
	bend := m.bend
	if m.compact {
		bend *= CompactBendFactor
	}
	y, rot := Bend(x, bend, halfW)
	m.position = [3]float32{x, y, m.zCurrent}
	m.rotation = rot

	sx, sy := m.scaleX*m.scaleCurrent, m.scaleY*m.scaleCurrent
	common.PlaneModelMatrix(m.model[:], x, y, m.zCurrent, rot, sx, sy)
	if m.title != nil {
		m.title.Update(x, y, m.zCurrent, rot, sy)
	}

	buffer := m.scaleX
	if m.compact {
		buffer *= compactBufferMul
	}
	planeOffset := m.scaleX / 2
	m.isBefore = x+planeOffset < -halfW-buffer
	m.isAfter = x-planeOffset > halfW+buffer
	if direction == DirectionRight && m.isBefore {
		m.extra -= m.widthTotal
		m.isBefore, m.isAfter = false, false
	}
	if direction == DirectionLeft && m.isAfter {
		m.extra += m.widthTotal
		m.isBefore, m.isAfter = false, false
	}
}

func (m *media) SetFocused(focused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = focused
	if focused {
		m.scaleTarget, m.zTarget = FocusScale, FocusDepth
	} else {
		m.scaleTarget, m.zTarget = 1, 0
	}
}

func (m *media) Focused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

func (m *media) SetImage(staging common.TextureStagingData) error {
	m.mu.Lock()
	m.imageW, m.imageH = float32(staging.Width), float32(staging.Height)
	m.hasImage = true
	m.mu.Unlock()

	if m.renderer == nil {
		return nil
	}
	if err := m.renderer.InitTextureView(m.provider, BindingTexture, staging); err != nil {
		return err
	}
	return m.renderer.InitBindGroup(m.provider, MediaBindGroupLayout)
}

func (m *media) HasImage() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasImage
}

func (m *media) Position() (x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position[0], m.position[1], m.position[2]
}

func (m *media) Rotation() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rotation
}

func (m *media) Scale() (x, y float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scaleX * m.scaleCurrent, m.scaleY * m.scaleCurrent
}

func (m *media) BaseScale() (x, y float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scaleX, m.scaleY
}

func (m *media) Width() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width
}

func (m *media) WidthTotal() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.widthTotal
}

func (m *media) Extra() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extra
}

func (m *media) Contains(x, y float32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.sized {
		return false
	}
	hw, hh := m.scaleX*m.scaleCurrent/2, m.scaleY*m.scaleCurrent/2
	return math32.Abs(x-m.position[0]) <= hw && math32.Abs(y-m.position[1]) <= hh
}

func (m *media) UVRatio() [2]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uvRatio()
}

// uvRatio is the identity until both the plane and the image size are known. Caller must hold the mutex.
func (m *media) uvRatio() [2]float32 {
	if !m.hasImage || !m.sized {
		return [2]float32{1, 1}
	}
	return CoverRatio(m.scaleX, m.scaleY, m.imageW, m.imageH)
}

func (m *media) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.provider
}

func (m *media) BufferWrites() []bind_group_provider.BufferWrite {
	m.mu.Lock()
	u := GPUMediaUniform{Model: m.model, Ratio: m.uvRatio(), Radius: m.borderRadius}
	m.mu.Unlock()

	writes := []bind_group_provider.BufferWrite{
		{Provider: m.provider, Binding: BindingUniform, Data: u.Marshal()},
	}
	if m.title != nil {
		writes = append(writes, m.title.BufferWrite())
	}
	return writes
}

func (m *media) Release() {
	m.provider.Release()
	if m.title != nil {
		m.title.Release()
	}
}
