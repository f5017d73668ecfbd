package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/program"
	"go.uber.org/zap"
)

// Report is one interval's worth of statistics.
type Report struct {
	Frames    int
	FPS       float64
	Instances float64 // average instances drawn per frame
	DrawCalls float64 // average mesh draw calls per frame
	HeapMB    float64
	AllocRate float64 // MB allocated per second
	GCCount   uint32
	MaxPause  time.Duration
}

// Profiler tracks frame rate, draw statistics and memory usage. It logs a Report through zap at a
// configurable interval.
type Profiler struct {
	now            func() time.Time
	updateInterval time.Duration
	readMem        bool

	frameCount     int
	instances      int
	drawCalls      int
	lastTime       time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Report
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		now:            time.Now,
		updateInterval: time.Second,
		readMem:        true,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame with that frame's draw statistics.
// Logs a Report when the update interval has elapsed.
//
// Parameters:
//   - stats: what the frame drew
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats program.FrameStats) bool {
	p.frameCount++
	p.instances += stats.Instances
	p.drawCalls += stats.Meshes

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	frames := float64(p.frameCount)
	r := Report{
		Frames:    p.frameCount,
		FPS:       frames / elapsed.Seconds(),
		Instances: float64(p.instances) / frames,
		DrawCalls: float64(p.drawCalls) / frames,
	}
	if p.readMem {
		p.readMemStats(&r, elapsed)
	}

	logger.Log.Info("frame stats",
		zap.Float64("fps", r.FPS),
		zap.Float64("instances", r.Instances),
		zap.Float64("draw_calls", r.DrawCalls),
		zap.Float64("heap_mb", r.HeapMB),
		zap.Float64("alloc_mb_per_s", r.AllocRate),
		zap.Uint32("gc", r.GCCount),
		zap.Duration("gc_max_pause", r.MaxPause),
	)

	p.last = r
	p.frameCount, p.instances, p.drawCalls = 0, 0, 0
	p.lastTime = currentTime
	return true
}

// Last returns the most recently logged Report.
func (p *Profiler) Last() Report {
	return p.last
}

func (p *Profiler) readMemStats(r *Report, elapsed time.Duration) {
	runtime.ReadMemStats(&p.memStats)
	r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	r.AllocRate = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	var maxPause uint64
	for i := startIdx; i < gcCount; i++ {
		maxPause = max(maxPause, p.memStats.PauseNs[i%256])
	}
	r.GCCount = gcCount
	r.MaxPause = time.Duration(maxPause)

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}
