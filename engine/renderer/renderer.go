package renderer

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width, height int
	sizeDirty     bool
	clearColor    mgl32.Vec4
	depthTest     bool
}

// Renderer owns the graphics backend and the per-frame framebuffer state shared by every Program drawn into it.
//
// A frame is started with BeginFrame, which applies a pending viewport change, enables depth
// testing and clears the framebuffer. Programs then issue their draws against Backend().
type Renderer interface {
	// Backend returns the graphics command surface used by Programs, meshes and uniform stores.
	//
	// Returns:
	//   - RendererBackend: the backend selected at construction
	Backend() RendererBackend

	// BackendType returns the kind of backend in use.
	//
	// Returns:
	//   - RendererBackendType: BackendTypeGL or BackendTypeHeadless
	BackendType() RendererBackendType

	// Resize records a new framebuffer size. The viewport is updated on the next BeginFrame.
	//
	// Parameters:
	//   - width: the new framebuffer width in pixels
	//   - height: the new framebuffer height in pixels
	Resize(width, height int)

	// Size returns the current framebuffer size.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	Size() (int, int)

	// AspectRatio returns width divided by height, or 1 when the height is zero.
	//
	// Returns:
	//   - float32: the framebuffer aspect ratio
	AspectRatio() float32

	// SetClearColor sets the color the framebuffer is cleared to at the start of each frame.
	//
	// Parameters:
	//   - color: RGBA clear color
	SetClearColor(color mgl32.Vec4)

	// ClearColor returns the current clear color.
	//
	// Returns:
	//   - mgl32.Vec4: RGBA clear color
	ClearColor() mgl32.Vec4

	// BeginFrame applies a pending viewport change, enables depth testing when configured and clears the framebuffer.
	BeginFrame()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer backed by the requested backend type.
// For BackendTypeGL a GL context must already be current on the calling thread.
//
// Parameters:
//   - backendType: the kind of backend to create (BackendTypeGL or BackendTypeHeadless)
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if the backend could not be created
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		width:       800,
		height:      600,
		clearColor:  mgl32.Vec4{0.05, 0.05, 0.08, 1},
		depthTest:   true,
	}

	for _, opt := range options {
		opt(r)
	}
	r.sizeDirty = true

	if r.backend == nil {
		b, err := NewRendererBackend(backendType)
		if err != nil {
			return nil, err
		}
		r.backend = b
	}
	r.backendType = r.backend.Type()
	return r, nil
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.sizeDirty = true
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) AspectRatio() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

func (r *renderer) SetClearColor(color mgl32.Vec4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearColor = color
}

func (r *renderer) ClearColor() mgl32.Vec4 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clearColor
}

func (r *renderer) BeginFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sizeDirty {
		r.backend.Viewport(int32(r.width), int32(r.height))
		r.sizeDirty = false
	}
	if r.depthTest {
		r.backend.EnableDepthTest()
	}
	r.backend.Clear(r.clearColor)
}
