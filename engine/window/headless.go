package window

import "sync"

// Headless is an off-screen Surface driven by a script of event batches. Each PollEvents returns the
// next scripted batch, or nothing once the script is exhausted. It is used by tests and headless runs.
type Headless struct {
	mu *sync.Mutex

	width, height int
	script        [][]Event
	frames        int
	closed        bool
}

var _ Surface = &Headless{}

// NewHeadless creates a headless surface with a fixed framebuffer size.
//
// Parameters:
//   - width: framebuffer width in pixels
//   - height: framebuffer height in pixels
//   - batches: event batches returned by successive PollEvents calls
//
// Returns:
//   - *Headless: the surface
func NewHeadless(width, height int, batches ...[]Event) *Headless {
	return &Headless{
		mu:     &sync.Mutex{},
		width:  width,
		height: height,
		script: batches,
	}
}

// Script appends batches to the event script.
func (h *Headless) Script(batches ...[]Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.script = append(h.script, batches...)
}

func (h *Headless) PollEvents() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.script) == 0 {
		return nil
	}
	batch := h.script[0]
	h.script = h.script[1:]
	for _, ev := range batch {
		if r, ok := ev.(ResizeEvent); ok {
			h.width, h.height = r.Width, r.Height
		}
	}
	return batch
}

func (h *Headless) SwapBuffers() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrWindowClosed
	}
	h.frames++
	return nil
}

func (h *Headless) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Frames returns how many frames have been presented.
func (h *Headless) Frames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}
