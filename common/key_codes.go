package common

// Virtual key codes delivered by the window layer.
// These values match GLFW key codes.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyEsc = 256 // Escape key (GLFW)
)
