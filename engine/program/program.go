package program

import (
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene_object"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Magic uniform names, uploaded every frame when enabled with WithMagicUniforms.
const (
	TimeUniform       = "time"
	ResolutionUniform = "resolution"
)

// FrameStats summarizes one Draw call.
type FrameStats struct {
	Meshes    int // meshes that issued a draw call
	Instances int // instances drawn across all meshes
}

type program struct {
	name           string
	shading        shader.Shading
	vertexSource   string
	fragmentSource string
	magicUniforms  bool

	r        renderer.Renderer
	b        renderer.RendererBackend
	pipeline pipeline.Pipeline
	uniforms uniform.Store
	camera   camera.Camera
	material material.Material
	start    time.Time

	meshes    map[string]mesh.Attached
	meshOrder []string
	objects   scene_object.Registry

	lights         []light.LightSource
	lightsBlock    uniform.Block
	cameraDeclared map[string]bool
}

// Program owns one linked shader pipeline and everything drawn with it: its uniforms, the meshes
// attached to it, the scene objects instancing those meshes, the dynamic lights and the camera.
//
// The program strongly owns its meshes and objects. Meshes only observe the objects instancing
// them, so removing an object never leaves a dangling instance.
type Program interface {
	// ID returns the linked program object id.
	ID() uint32

	// Pipeline returns the linked pipeline.
	Pipeline() pipeline.Pipeline

	// Uniforms returns the program's uniform store.
	Uniforms() uniform.Store

	// Camera returns the program's camera.
	Camera() camera.Camera

	// WithProgramBound makes the program current for the duration of body and restores the
	// previously current program afterwards.
	//
	// Parameters:
	//   - body: the work that needs this program current
	//
	// Returns:
	//   - error: the error returned by body
	WithProgramBound(body func() error) error

	// AddMesh attaches m to this program under m.Name().
	//
	// Parameters:
	//   - m: an unattached mesh
	//
	// Returns:
	//   - mesh.Attached: the attached mesh
	//   - error: a *MeshAlreadyAttachedError, *mesh.AlreadyAttachedError or *attribute.NotFoundError
	AddMesh(m *mesh.Mesh) (mesh.Attached, error)

	// Mesh returns an attached mesh by name.
	Mesh(name string) (mesh.Attached, bool)

	// MeshNames returns attached mesh names in the order they were added.
	MeshNames() []string

	// AddObject creates a scene object instancing an attached mesh.
	//
	// Parameters:
	//   - name: the unique object name
	//   - meshName: the attached mesh to instance
	//   - transform: the model-to-world matrix
	//   - options: scene object options such as scene_object.WithEnabled
	//
	// Returns:
	//   - scene_object.SceneObject: the created object
	//   - error: a *MeshNotFoundError or *ObjectExistsError
	AddObject(name, meshName string, transform mgl32.Mat4, options ...scene_object.SceneObjectBuilderOption) (scene_object.SceneObject, error)

	// Object returns a scene object by name.
	Object(name string) (scene_object.SceneObject, bool)

	// ReplaceObject swaps a scene object for a new one with the same name, mesh, ID and enabled flag
	// but a new transform, so its normal transform is derived again. The replacement keeps the
	// old object's place in its mesh's draw order.
	//
	// Parameters:
	//   - name: the object to replace
	//   - transform: the new model-to-world matrix
	//
	// Returns:
	//   - scene_object.SceneObject: the replacement
	//   - error: an *ObjectNotFoundError if no such object exists
	ReplaceObject(name string, transform mgl32.Mat4) (scene_object.SceneObject, error)

	// RemoveObject drops a scene object. Its mesh stops drawing it from the next frame.
	//
	// Returns:
	//   - bool: false if no such object exists
	RemoveObject(name string) bool

	// ClearObjects drops every scene object.
	ClearObjects()

	// Objects returns the number of scene objects.
	Objects() int

	// CreateUniform creates a uniform with an initial value.
	//
	// Returns:
	//   - uniform.Handle: a weak handle for later updates
	//   - error: a *uniform.NotFoundError if the shader does not declare the uniform
	CreateUniform(name string, v uniform.Value) (uniform.Handle, error)

	// UpdateUniform updates a created uniform.
	//
	// Returns:
	//   - error: a *uniform.NotAttachedError if the uniform was never created
	UpdateUniform(name string, v uniform.Value) error

	// AddLight appends a point light, re-uploads the whole Lights block and sets num_lights.
	//
	// Parameters:
	//   - position: world-space light position
	//   - color: the clamped light color and intensity
	//
	// Returns:
	//   - error: a *light.CapacityError once light.MaxLights lights exist, a
	//     *uniform.BlockIndexNotFoundError or *uniform.NotFoundError if the shader declares no lights
	AddLight(position mgl32.Vec3, color light.LightColor) error

	// Lights returns a copy of the light list.
	Lights() []light.LightSource

	// SetAmbientLight sets the ambient light color.
	//
	// Returns:
	//   - error: a *uniform.NotFoundError if the shader does not declare ambient_light_color
	SetAmbientLight(color light.LightColor) error

	// SetMaterial replaces the surface material and uploads its uniforms.
	//
	// Parameters:
	//   - m: the new material
	//
	// Returns:
	//   - error: a *uniform.NotFoundError if the shader does not include the material block
	SetMaterial(m material.Material) error

	// Material returns the current material. Programs whose shader includes the material block
	// start with a default one; other programs return nil until one is configured.
	Material() material.Material

	// Update applies camera events in order.
	//
	// Parameters:
	//   - events: the frame's camera events
	Update(events []camera.Event)

	// Draw uploads the camera and magic uniforms, then draws every attached mesh once.
	//
	// Returns:
	//   - FrameStats: what was drawn
	//   - error: the first error raised while drawing
	Draw() (FrameStats, error)

	// Release deletes every GPU object owned by the program.
	Release()
}

var _ Program = &program{}

// NewProgram compiles and links the program's shaders on r's backend.
//
// Parameters:
//   - r: the renderer providing the backend and framebuffer size
//   - options: functional options to configure the program
//
// Returns:
//   - Program: the linked program
//   - error: a *shader.CompileError, *pipeline.LinkError or preset error
func NewProgram(r renderer.Renderer, options ...ProgramBuilderOption) (Program, error) {
	p := &program{
		shading:        shader.ShadingBlinnPhong,
		r:              r,
		b:              r.Backend(),
		start:          time.Now(),
		meshes:         make(map[string]mesh.Attached),
		objects:        scene_object.NewRegistry(),
		cameraDeclared: make(map[string]bool),
	}
	for _, option := range options {
		option(p)
	}
	p.name = common.Coalesce(p.name, "program")
	if p.camera == nil {
		p.camera = camera.NewCamera(camera.WithProjection(
			camera.DefaultPerspective().WithAspectRatio(r.AspectRatio()),
		))
	}

	vs, fs := p.vertexSource, p.fragmentSource
	if vs == "" || fs == "" {
		var err error
		if vs, fs, err = shader.Preset(p.shading); err != nil {
			return nil, err
		}
	}
	pl, err := pipeline.FromSources(p.name, p.b, vs, fs)
	if err != nil {
		return nil, err
	}
	p.pipeline = pl
	p.uniforms = uniform.NewStore(p.b, pl.ProgramID())
	for _, name := range []string{camera.MVPUniform, camera.MVUniform, camera.MVNUniform} {
		p.cameraDeclared[name] = p.uniforms.Declared(name)
	}
	if p.uniforms.Declared(material.DiffuseUniform) {
		if p.material == nil {
			p.material = p.defaultMaterial()
		}
		if err := p.uploadMaterial(); err != nil {
			pl.Release()
			return nil, err
		}
	}

	logger.Log.Info("program ready",
		zap.String("program", p.name),
		zap.Uint32("id", pl.ProgramID()),
		zap.Bool("magic_uniforms", p.magicUniforms),
	)
	return p, nil
}

func (p *program) ID() uint32 {
	return p.pipeline.ProgramID()
}

func (p *program) Pipeline() pipeline.Pipeline {
	return p.pipeline
}

func (p *program) Uniforms() uniform.Store {
	return p.uniforms
}

func (p *program) Camera() camera.Camera {
	return p.camera
}

func (p *program) WithProgramBound(body func() error) error {
	prev := p.b.CurrentProgram()
	p.b.UseProgram(p.ID())
	defer func() {
		if prev != 0 && prev != p.ID() {
			p.b.UseProgram(prev)
		}
	}()
	return body()
}

func (p *program) AddMesh(m *mesh.Mesh) (mesh.Attached, error) {
	if _, exists := p.meshes[m.Name()]; exists {
		return nil, &MeshAlreadyAttachedError{Name: m.Name()}
	}
	am, err := m.Attach(p.b, p.ID())
	if err != nil {
		return nil, err
	}
	p.meshes[m.Name()] = am
	p.meshOrder = append(p.meshOrder, m.Name())
	return am, nil
}

func (p *program) Mesh(name string) (mesh.Attached, bool) {
	am, ok := p.meshes[name]
	return am, ok
}

func (p *program) MeshNames() []string {
	return slices.Clone(p.meshOrder)
}

func (p *program) AddObject(name, meshName string, transform mgl32.Mat4, options ...scene_object.SceneObjectBuilderOption) (scene_object.SceneObject, error) {
	am, ok := p.meshes[meshName]
	if !ok {
		return nil, &MeshNotFoundError{Name: meshName}
	}
	obj := scene_object.NewSceneObject(name, meshName, transform, options...)
	ref, ok := p.objects.Insert(obj)
	if !ok {
		return nil, &ObjectExistsError{Name: name}
	}
	am.AddInstance(ref)
	return obj, nil
}

func (p *program) Object(name string) (scene_object.SceneObject, bool) {
	return p.objects.Get(name)
}

func (p *program) ReplaceObject(name string, transform mgl32.Mat4) (scene_object.SceneObject, error) {
	old, ok := p.objects.Get(name)
	if !ok {
		return nil, &ObjectNotFoundError{Name: name}
	}
	obj := scene_object.NewSceneObject(name, old.MeshName(), transform,
		scene_object.WithID(old.ID()),
		scene_object.WithEnabled(old.Enabled()),
	)
	p.objects.Replace(obj)
	return obj, nil
}

func (p *program) RemoveObject(name string) bool {
	return p.objects.Remove(name)
}

func (p *program) ClearObjects() {
	p.objects.Clear()
}

func (p *program) Objects() int {
	return p.objects.Len()
}

func (p *program) CreateUniform(name string, v uniform.Value) (uniform.Handle, error) {
	return p.uniforms.Create(name, v)
}

func (p *program) UpdateUniform(name string, v uniform.Value) error {
	return p.uniforms.Update(name, v)
}

func (p *program) Update(events []camera.Event) {
	p.camera.Update(camera.NewEventQueue(events...))
}

func (p *program) Draw() (FrameStats, error) {
	var stats FrameStats
	err := p.WithProgramBound(func() error {
		if err := p.uploadFrameUniforms(); err != nil {
			return err
		}
		if p.lightsBlock != nil {
			p.lightsBlock.Bind()
		}
		for _, name := range p.meshOrder {
			n, err := p.meshes[name].Draw(p.objects)
			if err != nil {
				return err
			}
			if n > 0 {
				stats.Meshes++
				stats.Instances += n
			}
		}
		return nil
	})
	return stats, err
}

// uploadFrameUniforms writes the camera transforms and, when enabled, the magic uniforms.
// Only uniforms the shader declares are written.
func (p *program) uploadFrameUniforms() error {
	u := p.camera.Uniforms()
	values := map[string]uniform.Value{
		camera.MVPUniform: uniform.Mat4(u.MVP),
		camera.MVUniform:  uniform.Mat4(u.MV),
		camera.MVNUniform: uniform.Mat3(u.MVN),
	}
	for name, v := range values {
		if !p.cameraDeclared[name] {
			continue
		}
		if _, err := p.uniforms.Create(name, v); err != nil {
			return err
		}
	}

	if !p.magicUniforms {
		return nil
	}
	w, h := p.r.Size()
	magic := map[string]uniform.Value{
		TimeUniform:       uniform.Float(time.Since(p.start).Seconds()),
		ResolutionUniform: uniform.Vec2{float32(w), float32(h)},
	}
	for name, v := range magic {
		if !p.uniforms.Declared(name) {
			continue
		}
		if _, err := p.uniforms.Create(name, v); err != nil {
			return err
		}
	}
	return nil
}

func (p *program) Release() {
	for _, name := range p.meshOrder {
		p.meshes[name].Release()
	}
	clear(p.meshes)
	p.meshOrder = nil
	p.objects.Clear()
	p.uniforms.Release()
	p.lightsBlock = nil
	p.lights = nil
	p.pipeline.Release()
}
