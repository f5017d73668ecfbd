package mesh

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/attribute"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene_object"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// requiredAttributes are the inputs every mesh program declares, see GPUInstanceInputSource.
var requiredAttributes = []string{
	VerticesAttribute,
	NormalsAttribute,
	ModelTransformsAttribute,
	NormalTransformsAttribute,
}

type attachedMesh struct {
	b         renderer.RendererBackend
	name      string
	programID uint32

	vao           uint32
	elementBuffer uint32
	indexCount    int32
	binder        attribute.Binder
	boundaries    [8]mgl32.Vec3

	instances []scene_object.Ref

	// scratch buffers reused across draws
	transforms       attribute.Mat4s
	normalTransforms attribute.Mat3s
}

// Attached is a mesh whose geometry lives on the GPU for one program. It observes the scene
// objects instancing it through weak refs and draws all enabled ones with a single instanced call.
type Attached interface {
	// Name returns the mesh name.
	Name() string

	// ProgramID returns the program the mesh is attached to.
	ProgramID() uint32

	// VAO returns the vertex array holding the mesh's attribute configuration.
	VAO() uint32

	// IndexCount returns the number of indices drawn per instance.
	IndexCount() int32

	// Boundaries returns the corners of the mesh's axis-aligned bounding box.
	Boundaries() [8]mgl32.Vec3

	// Binder returns the attribute binder of the mesh's vertex array.
	Binder() attribute.Binder

	// AddInstance registers a weak observer of a scene object instancing this mesh.
	//
	// Parameters:
	//   - ref: the scene object's registry reference
	AddInstance(ref scene_object.Ref)

	// Instances returns the number of observed instances, dead ones included until the next Draw.
	Instances() int

	// Draw resolves every observed instance, drops dead ones, and draws the enabled ones in
	// registration order. Both instance buffers are fully replaced before the draw. When no enabled
	// instance remains Draw issues no backend call at all.
	//
	// Parameters:
	//   - resolver: resolves the weak refs, normally the program's scene object registry
	//
	// Returns:
	//   - int: the number of instances drawn
	//   - error: an error if an instance buffer could not be uploaded
	Draw(resolver scene_object.Resolver) (int, error)

	// Release deletes the vertex array and every buffer of the mesh.
	Release()
}

var _ Attached = &attachedMesh{}

func attach(b renderer.RendererBackend, programID uint32, m *Mesh) (*attachedMesh, error) {
	for _, name := range requiredAttributes {
		if b.AttribLocation(programID, name) < 0 {
			return nil, &attribute.NotFoundError{Name: name}
		}
	}

	b.UseProgram(programID)
	vao := b.GenVertexArray()
	b.BindVertexArray(vao)

	eb := b.GenBuffer()
	b.BindBuffer(renderer.BufferTargetElementArray, eb)
	b.BufferData(renderer.BufferTargetElementArray, common.SliceToBytes(m.indices), renderer.BufferUsageStatic)

	am := &attachedMesh{
		b:             b,
		name:          m.name,
		programID:     programID,
		vao:           vao,
		elementBuffer: eb,
		indexCount:    int32(len(m.indices)),
		binder:        attribute.NewBinder(b, programID, vao),
		boundaries:    m.boundaries,
	}

	binds := []struct {
		name      string
		data      attribute.Data
		usage     renderer.BufferUsage
		instanced bool
	}{
		{VerticesAttribute, attribute.Vec3s(m.vertices), renderer.BufferUsageStatic, false},
		{NormalsAttribute, attribute.Vec3s(m.normals), renderer.BufferUsageStatic, false},
		{ModelTransformsAttribute, attribute.Mat4s{mgl32.Ident4()}, renderer.BufferUsageDynamic, true},
		{NormalTransformsAttribute, attribute.Mat3s{mgl32.Ident3()}, renderer.BufferUsageDynamic, true},
	}
	for _, bind := range binds {
		if _, err := am.binder.Bind(bind.name, bind.data, bind.usage, bind.instanced); err != nil {
			am.Release()
			return nil, err
		}
	}

	logger.Log.Debug("mesh attached",
		zap.String("mesh", m.name),
		zap.Uint32("program", programID),
		zap.Uint32("vao", vao),
		zap.Int32("indices", am.indexCount),
	)
	return am, nil
}

func (am *attachedMesh) Name() string {
	return am.name
}

func (am *attachedMesh) ProgramID() uint32 {
	return am.programID
}

func (am *attachedMesh) VAO() uint32 {
	return am.vao
}

func (am *attachedMesh) IndexCount() int32 {
	return am.indexCount
}

func (am *attachedMesh) Boundaries() [8]mgl32.Vec3 {
	return am.boundaries
}

func (am *attachedMesh) Binder() attribute.Binder {
	return am.binder
}

func (am *attachedMesh) AddInstance(ref scene_object.Ref) {
	am.instances = append(am.instances, ref)
}

func (am *attachedMesh) Instances() int {
	return len(am.instances)
}

func (am *attachedMesh) Draw(resolver scene_object.Resolver) (int, error) {
	am.transforms = am.transforms[:0]
	am.normalTransforms = am.normalTransforms[:0]

	live := am.instances[:0]
	for _, ref := range am.instances {
		obj, ok := resolver.Resolve(ref)
		if !ok {
			continue
		}
		live = append(live, ref)
		if !obj.Enabled() {
			continue
		}
		am.transforms = append(am.transforms, obj.ModelTransform())
		am.normalTransforms = append(am.normalTransforms, obj.NormalTransform())
	}
	clear(am.instances[len(live):])
	am.instances = live

	count := len(am.transforms)
	if count == 0 {
		return 0, nil
	}
	if err := am.binder.Upload(ModelTransformsAttribute, am.transforms, renderer.BufferUsageDynamic); err != nil {
		return 0, err
	}
	if err := am.binder.Upload(NormalTransformsAttribute, am.normalTransforms, renderer.BufferUsageDynamic); err != nil {
		return 0, err
	}
	am.b.UseProgram(am.programID)
	am.b.BindVertexArray(am.vao)
	am.b.DrawElementsInstanced(am.indexCount, int32(count))
	return count, nil
}

func (am *attachedMesh) Release() {
	am.binder.Release()
	if am.elementBuffer != 0 {
		am.b.DeleteBuffer(am.elementBuffer)
		am.elementBuffer = 0
	}
	if am.vao != 0 {
		am.b.DeleteVertexArray(am.vao)
		am.vao = 0
	}
	am.instances = nil
}
