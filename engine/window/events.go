package window

// KeyAction is the state change reported by a KeyEvent.
type KeyAction int

const (
	KeyPress KeyAction = iota
	KeyRelease
	KeyRepeat
)

// Event is one input or window event collected between two PollEvents calls.
// The concrete types are KeyEvent, ScrollEvent, DragEvent, ResizeEvent and CloseEvent.
type Event interface {
	windowEvent()
}

// KeyEvent reports a keyboard key changing state. Key holds a GLFW key code (see common.Key*).
type KeyEvent struct {
	Key    int
	Action KeyAction
}

// ScrollEvent reports a mouse wheel or trackpad scroll. Positive DY scrolls up.
type ScrollEvent struct {
	DX, DY float64
}

// DragEvent reports cursor motion while a mouse button is held. Button holds a
// common.MouseButton* value; DX and DY are in pixels since the previous cursor position.
type DragEvent struct {
	Button int
	DX, DY float64
}

// ResizeEvent reports a new framebuffer size in pixels.
type ResizeEvent struct {
	Width, Height int
}

// CloseEvent reports that the user asked to close the window.
type CloseEvent struct{}

func (KeyEvent) windowEvent()    {}
func (ScrollEvent) windowEvent() {}
func (DragEvent) windowEvent()   {}
func (ResizeEvent) windowEvent() {}
func (CloseEvent) windowEvent()  {}
