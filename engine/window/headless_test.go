package window

import (
	"errors"
	"testing"
)

func TestHeadlessScript(t *testing.T) {
	h := NewHeadless(640, 480,
		[]Event{KeyEvent{Key: 87, Action: KeyPress}},
		[]Event{ResizeEvent{Width: 1024, Height: 768}, ScrollEvent{DY: 1}},
	)

	if got := h.PollEvents(); len(got) != 1 {
		t.Fatalf("first batch: got %d events, want 1", len(got))
	}
	if w, hh := h.Size(); w != 640 || hh != 480 {
		t.Errorf("size before resize: got %dx%d", w, hh)
	}
	if got := h.PollEvents(); len(got) != 2 {
		t.Fatalf("second batch: got %d events, want 2", len(got))
	}
	if w, hh := h.Size(); w != 1024 || hh != 768 {
		t.Errorf("size after resize: got %dx%d, want 1024x768", w, hh)
	}
	if got := h.PollEvents(); got != nil {
		t.Errorf("exhausted script: got %v, want nil", got)
	}

	h.Script([]Event{CloseEvent{}})
	if got := h.PollEvents(); len(got) != 1 {
		t.Errorf("appended batch: got %d events, want 1", len(got))
	}
}

func TestHeadlessSwapBuffers(t *testing.T) {
	h := NewHeadless(1, 1)
	for range 3 {
		if err := h.SwapBuffers(); err != nil {
			t.Fatalf("SwapBuffers: %v", err)
		}
	}
	if h.Frames() != 3 {
		t.Errorf("frames: got %d, want 3", h.Frames())
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := h.SwapBuffers(); !errors.Is(err, ErrWindowClosed) {
		t.Errorf("SwapBuffers after Close: got %v, want ErrWindowClosed", err)
	}
	if h.Frames() != 3 {
		t.Errorf("closed surface presented a frame")
	}
}
