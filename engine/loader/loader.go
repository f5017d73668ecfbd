package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"go.uber.org/zap"
)

const defaultWorkers = 4

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	// meshCache holds one unattached master copy per path. Callers always receive clones.
	meshCache map[string]*mesh.Mesh

	backends []loaderBackend
	workers  int
}

// Loader reads model files into unattached meshes and caches them by path.
//
// Every returned mesh is a fresh clone of the cached master, so callers may attach it to a program
// without affecting later loads of the same file.
type Loader interface {
	// LoadMesh reads a model file, or clones the cached copy if the path was loaded before.
	// The mesh is named after the file name without its extension.
	//
	// Parameters:
	//   - path: the model file path
	//
	// Returns:
	//   - *mesh.Mesh: an unattached mesh
	//   - error: an *UnsupportedFileFormatError, *ParseFailureError or I/O error
	LoadMesh(path string) (*mesh.Mesh, error)

	// LoadReader parses a model from a stream and caches it under name.
	//
	// Parameters:
	//   - name: the mesh name and cache key
	//   - ext: the format extension, e.g. ".obj"
	//   - r: the model source
	//
	// Returns:
	//   - *mesh.Mesh: an unattached mesh
	//   - error: an *UnsupportedFileFormatError or *ParseFailureError
	LoadReader(name, ext string, r io.Reader) (*mesh.Mesh, error)

	// LoadAll loads every file concurrently on a worker pool and waits for all of them.
	//
	// Parameters:
	//   - paths: mesh name to file path
	//   - onDone: called once per finished file from a worker goroutine (may be nil)
	//
	// Returns:
	//   - map[string]*mesh.Mesh: the meshes that loaded, keyed and named by mesh name
	//   - error: every failure joined, or nil
	LoadAll(paths map[string]string, onDone func()) (map[string]*mesh.Mesh, error)

	// Cached returns the cached keys in sorted order.
	Cached() []string
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the OBJ backend registered.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		meshCache: make(map[string]*mesh.Mesh),
		backends:  []loaderBackend{newOBJLoaderBackend()},
		workers:   defaultWorkers,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) LoadMesh(path string) (*mesh.Mesh, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if m, ok := l.cached(path, name); ok {
		return m, nil
	}

	backend, err := l.resolveBackend(path, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	defer f.Close()

	m, err := backend.Load(name, path, f)
	if err != nil {
		return nil, err
	}
	return l.store(path, m)
}

func (l *loader) LoadReader(name, ext string, r io.Reader) (*mesh.Mesh, error) {
	if m, ok := l.cached(name, name); ok {
		return m, nil
	}
	backend, err := l.resolveBackend(name, ext)
	if err != nil {
		return nil, err
	}
	m, err := backend.Load(name, name, r)
	if err != nil {
		return nil, err
	}
	return l.store(name, m)
}

func (l *loader) LoadAll(paths map[string]string, onDone func()) (map[string]*mesh.Mesh, error) {
	if len(paths) == 0 {
		return map[string]*mesh.Mesh{}, nil
	}
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	slices.Sort(names)

	pool := worker.NewDynamicWorkerPool(min(l.workers, len(names)), len(names), time.Second)
	defer pool.Stop()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		out    = make(map[string]*mesh.Mesh, len(names))
		failed = make(map[string]error)
	)
	start := time.Now()
	for i, name := range names {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: paths[name],
			Do: func() (any, error) {
				defer wg.Done()
				m, err := l.LoadMesh(paths[name])
				if err == nil {
					m, err = m.Clone(name)
				}
				mu.Lock()
				if err != nil {
					failed[name] = err
				} else {
					out[name] = m
				}
				mu.Unlock()
				if onDone != nil {
					onDone()
				}
				return m, err
			},
		})
	}
	wg.Wait()

	errs := make([]error, 0, len(failed))
	for _, name := range names {
		if err, ok := failed[name]; ok {
			errs = append(errs, fmt.Errorf("mesh %q: %w", name, err))
		}
	}
	logger.Log.Debug("mesh batch loaded",
		zap.Int("requested", len(names)),
		zap.Int("loaded", len(out)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, errors.Join(errs...)
}

func (l *loader) Cached() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.meshCache))
	for k := range l.meshCache {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// cached returns a clone of the cached master for key, named name.
func (l *loader) cached(key, name string) (*mesh.Mesh, bool) {
	l.mu.RLock()
	master, ok := l.meshCache[key]
	l.mu.RUnlock()
	if !ok {
		return nil, false
	}
	m, err := master.Clone(name)
	if err != nil {
		return nil, false
	}
	return m, true
}

// store caches m as the master for key and returns a clone for the caller.
func (l *loader) store(key string, m *mesh.Mesh) (*mesh.Mesh, error) {
	l.mu.Lock()
	l.meshCache[key] = m
	l.mu.Unlock()

	logger.Log.Debug("mesh loaded",
		zap.String("source", key),
		zap.Int("vertices", len(m.Vertices())),
		zap.Int("indices", len(m.Indices())),
	)
	return m.Clone("")
}

// resolveBackend selects the backend registered for ext.
func (l *loader) resolveBackend(path, ext string) (loaderBackend, error) {
	ext = strings.ToLower(ext)
	for _, b := range l.backends {
		if slices.Contains(b.Extensions(), ext) {
			return b, nil
		}
	}
	return nil, &UnsupportedFileFormatError{Path: path, Ext: ext}
}
