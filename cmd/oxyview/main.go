// Command oxyview renders a YAML scene in a window, or off-screen with -headless.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

type options struct {
	scenePath string
	headless  bool
	frames    int
	debug     bool
	profile   bool
	workers   int
	fpsLimit  float64
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("oxyview", flag.ContinueOnError)
	fs.StringVar(&o.scenePath, "scene", "", "path to a YAML scene file")
	fs.BoolVar(&o.headless, "headless", false, "render off-screen without a window or GL context")
	fs.IntVar(&o.frames, "frames", 0, "stop after this many frames (0 = until closed; headless defaults to 1)")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&o.profile, "profile", false, "log frame statistics every second")
	fs.IntVar(&o.workers, "workers", 4, "number of meshes loaded in parallel")
	fs.Float64Var(&o.fpsLimit, "fps", 0, "frame rate cap (0 = uncapped)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.scenePath == "" {
		return options{}, fmt.Errorf("-scene is required")
	}
	if o.frames < 0 {
		return options{}, fmt.Errorf("-frames must not be negative")
	}
	if o.headless && o.frames == 0 {
		o.frames = 1
	}
	return o, nil
}

func run(o options) error {
	desc, err := scene.Load(o.scenePath)
	if err != nil {
		return err
	}

	meshes, err := loadMeshes(desc, o.workers)
	if err != nil {
		return err
	}

	var (
		surface     window.Surface
		backendType = renderer.BackendTypeHeadless
	)
	if o.headless {
		surface = window.NewHeadless(desc.Window.Width, desc.Window.Height)
	} else {
		w, err := window.NewWindow(
			window.WithTitle(desc.Window.Title),
			window.WithSize(desc.Window.Width, desc.Window.Height),
		)
		if err != nil {
			return err
		}
		surface = w
		backendType = renderer.BackendTypeGL
	}
	defer surface.Close()

	width, height := surface.Size()
	r, err := renderer.NewRenderer(backendType,
		renderer.WithSize(width, height),
		renderer.WithClearColor(desc.ClearColorVec()),
	)
	if err != nil {
		return err
	}

	p, err := program.NewProgram(r,
		program.WithName(desc.Window.Title),
		program.WithShading(desc.ShadingModel()),
		program.WithCamera(desc.NewCamera(r.AspectRatio())),
		program.WithMagicUniforms(true),
	)
	if err != nil {
		return err
	}
	defer p.Release()

	if err := desc.Apply(p, meshes); err != nil {
		return err
	}

	options := []engine.EngineBuilderOption{
		engine.WithProfiling(o.profile),
		engine.WithRenderFrameLimit(o.fpsLimit),
	}
	anim, err := desc.Animator()
	if err != nil {
		return err
	}
	if anim.Len() > 0 {
		options = append(options, engine.WithUpdateCallback(func(deltaTime float32) error {
			anim.PrepareFrame(deltaTime)
			_, err := anim.Flush(p)
			return err
		}))
	}
	e := engine.NewEngine(surface, r, p, options...)
	if o.frames > 0 {
		err = e.RunFrames(o.frames)
	} else {
		err = e.Run()
	}
	logger.Log.Info("stopped", zap.Int("frames", e.Frames()))
	return err
}

// loadMeshes loads every mesh the scene declares in parallel behind a progress bar.
func loadMeshes(desc scene.Description, workers int) (map[string]*mesh.Mesh, error) {
	bar := progressbar.Default(int64(len(desc.Meshes)), "loading meshes")
	defer bar.Close()

	l := loader.NewLoader(loader.WithWorkers(workers))
	meshes, err := l.LoadAll(desc.Meshes, func() {
		_ = bar.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("load meshes: %w", err)
	}
	return meshes, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := logger.Init(o.debug); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(o); err != nil {
		logger.Log.Error("oxyview failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
