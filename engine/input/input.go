// Package input holds the platform-neutral input events that the window layer produces and the gallery consumes.
package input

// PointerKind identifies the phase of a pointer interaction.
type PointerKind int

const (
	// PointerDown is a button press or touch start.
	PointerDown PointerKind = iota
	// PointerMove is a cursor or touch movement, pressed or not.
	PointerMove
	// PointerUp is a button release or touch end.
	PointerUp
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerSource identifies the device that produced a pointer event.
type PointerSource int

const (
	// SourceMouse is a mouse or trackpad cursor.
	SourceMouse PointerSource = iota
	// SourceTouch is a finger on a touch surface.
	SourceTouch
)

// PointerEvent is a single pointer sample in logical (window) coordinates with the origin at the top left.
type PointerEvent struct {
	// ID distinguishes simultaneous pointers. The mouse is always 0.
	ID int
	// X and Y are the pointer position in logical pixels.
	X, Y float32
	// Kind is the phase of the interaction.
	Kind PointerKind
	// Source is the producing device.
	Source PointerSource
}

// Handler receives input events from a window. Implementations must tolerate events arriving before the
// first resize and after teardown.
type Handler interface {
	// HandlePointer processes a pointer event.
	//
	// Parameters:
	//   - ev: the pointer event
	HandlePointer(ev PointerEvent)

	// HandleWheel processes a wheel or trackpad scroll.
	//
	// Parameters:
	//   - deltaY: vertical scroll amount, positive when scrolling down (away from the user)
	HandleWheel(deltaY float32)

	// HandleKeyDown processes a key press.
	//
	// Parameters:
	//   - keyCode: the platform key code, compared against common key constants
	HandleKeyDown(keyCode uint32)
}
