package window

import (
	"errors"
	"sync"
)

// ErrWindowClosed is returned by SwapBuffers once the surface has been closed.
var ErrWindowClosed = errors.New("window closed")

// Surface is what the render loop draws into: a source of input events and a framebuffer to present.
type Surface interface {
	// PollEvents processes pending platform events and returns everything collected since the last call.
	//
	// Returns:
	//   - []Event: the batch, in arrival order (may be empty)
	PollEvents() []Event

	// SwapBuffers presents the frame that was just drawn.
	//
	// Returns:
	//   - error: ErrWindowClosed if the surface is closed
	SwapBuffers() error

	// Size returns the current framebuffer size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Close releases the surface. Closing twice is a no-op.
	//
	// Returns:
	//   - error: an error if the platform window could not be destroyed
	Close() error
}

// Window is a desktop Surface backed by GLFW. Creating one makes its OpenGL 4.1 core context current
// on the calling thread, which must stay the thread that renders.
type Window interface {
	Surface

	// Title returns the window title.
	Title() string

	// IsRunning returns true until the window is closed or asked to close.
	//
	// Returns:
	//   - bool: true if the window is still open
	IsRunning() bool
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	mu *sync.Mutex

	title     string
	width     int
	height    int
	minWidth  int
	minHeight int
	maxWidth  int
	maxHeight int
	vsync     bool

	// pending collects events pushed by platform callbacks until the next PollEvents.
	pending []Event

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow *glfwWindow
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a GLFW window with an OpenGL 4.1 core, forward-compatible context and
// makes the context current.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: an error if GLFW could not be initialized or the window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		title:     "oxy-gl",
		width:     1280,
		height:    720,
		minWidth:  200,
		minHeight: 150,
		vsync:     true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

// push queues an event for the next PollEvents. Called from platform callbacks.
func (w *engineWindow) push(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, ev)
}

func (w *engineWindow) PollEvents() []Event {
	platformPollEvents(w)

	w.mu.Lock()
	defer w.mu.Unlock()
	batch := w.pending
	w.pending = nil
	return batch
}

func (w *engineWindow) SwapBuffers() error {
	return platformSwapBuffers(w)
}

func (w *engineWindow) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}
