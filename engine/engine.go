package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/input"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"go.uber.org/zap"
)

// engine implements the Engine interface.
type engine struct {
	surface  window.Surface
	renderer renderer.Renderer
	programs []program.Program

	quitChannel chan struct{}
	quitOnce    sync.Once

	profiler         *profiler.Profiler
	profilingEnabled bool

	updateCallback   func(deltaTime float32) error
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	frames    int
	lastStats program.FrameStats
}

// Engine is the render loop. Each frame it polls the surface, translates input into camera events,
// updates and draws every program in order, presents the frame and ticks the profiler.
//
// The loop runs on the calling goroutine, which must own the GL context.
type Engine interface {
	// Surface returns the surface the engine presents to.
	Surface() window.Surface

	// Renderer returns the renderer whose frame the programs draw into.
	Renderer() renderer.Renderer

	// Programs returns the programs drawn each frame, in draw order.
	Programs() []program.Program

	// AddProgram appends a program to the draw order.
	AddProgram(p program.Program)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetUpdateCallback registers a function called once per frame after drawing and before
	// presenting. A non-nil error stops the loop and is returned from Run.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetUpdateCallback(callback func(deltaTime float32) error)

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run loops until the user closes the surface or Quit is called.
	//
	// Returns:
	//   - error: nil on a requested close, otherwise the error that aborted the loop
	Run() error

	// RunFrames runs at most n frames.
	//
	// Parameters:
	//   - n: the frame budget
	//
	// Returns:
	//   - error: as for Run
	RunFrames(n int) error

	// Frames returns the number of frames presented so far.
	Frames() int

	// LastStats returns the draw statistics of the last frame.
	LastStats() program.FrameStats

	// Quit asks the loop to stop before its next frame. Safe to call from any goroutine and more
	// than once.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine drawing p into r and presenting to surface.
//
// Parameters:
//   - surface: the window or headless surface
//   - r: the renderer owning the framebuffer state
//   - p: the first program to draw
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(surface window.Surface, r renderer.Renderer, p program.Program, options ...EngineBuilderOption) Engine {
	e := &engine{
		surface:     surface,
		renderer:    r,
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(),
	}
	if p != nil {
		e.programs = append(e.programs, p)
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) Surface() window.Surface {
	return e.surface
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Programs() []program.Program {
	return append([]program.Program(nil), e.programs...)
}

func (e *engine) AddProgram(p program.Program) {
	e.programs = append(e.programs, p)
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetUpdateCallback(callback func(deltaTime float32) error) {
	e.updateCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run() error {
	return e.loop(-1)
}

func (e *engine) RunFrames(n int) error {
	return e.loop(n)
}

func (e *engine) Frames() int {
	return e.frames
}

func (e *engine) LastStats() program.FrameStats {
	return e.lastStats
}

// Quit closes the quit channel. sync.Once makes repeated calls no-ops.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// loop runs frames until the budget is spent (budget < 0 means unbounded), a close is requested or
// a frame fails.
func (e *engine) loop(budget int) error {
	lastFrame := time.Now()
	for i := 0; budget < 0 || i < budget; i++ {
		select {
		case <-e.quitChannel:
			return nil
		default:
		}

		frameStart := time.Now()
		dt := float32(frameStart.Sub(lastFrame).Seconds())
		lastFrame = frameStart

		done, err := e.frame(dt)
		if err != nil {
			if errors.Is(err, window.ErrWindowClosed) {
				return nil
			}
			logger.Log.Error("frame failed", zap.Int("frame", e.frames), zap.Error(err))
			return err
		}
		if done {
			logger.Log.Debug("close requested", zap.Int("frames", e.frames))
			return nil
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
	return nil
}

// frame runs one iteration: poll, translate, update, draw, present.
func (e *engine) frame(dt float32) (bool, error) {
	events, shouldClose := input.Translate(e.surface.PollEvents())
	if shouldClose {
		return true, nil
	}

	e.renderer.Resize(e.surface.Size())
	// programs may share a camera; each camera sees the batch once
	updated := make(map[camera.Camera]bool, len(e.programs))
	for _, p := range e.programs {
		cam := p.Camera()
		if updated[cam] {
			continue
		}
		updated[cam] = true
		p.Update(events)
	}

	e.renderer.BeginFrame()
	var stats program.FrameStats
	for _, p := range e.programs {
		s, err := p.Draw()
		if err != nil {
			return false, err
		}
		stats.Meshes += s.Meshes
		stats.Instances += s.Instances
	}

	if e.updateCallback != nil {
		if err := e.updateCallback(dt); err != nil {
			return false, err
		}
	}

	if err := e.surface.SwapBuffers(); err != nil {
		return false, err
	}
	e.frames++
	e.lastStats = stats

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(stats)
	}
	return false, nil
}
