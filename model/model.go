package model

import (
	"unsafe"

	glm "github.com/go-gl/mathgl/mgl32"
)

// Object represents the engine supported model
type Object interface {

	// Name returns the name the object was imported under
	Name() string

	// Vertices returns the vertices for Renderer use,
	// so it has to match the vertex layout exactly
	Vertices() []Vertex

	// Bounds returns the axis aligned bounding box of the object
	Bounds() (min, max glm.Vec3)
}

// Vertex is a model vertex
type Vertex struct {
	Pos    glm.Vec3
	Normal glm.Vec3
	Color  glm.Vec4
}

// VertexStride is the size of a single vertex in a vertex buffer
const VertexStride = uint32(unsafe.Sizeof(Vertex{}))

// Uniform defines a model-view-projection object
type Uniform struct {
	Model      glm.Mat4
	View       glm.Mat4
	Projection glm.Mat4
}

// NewUniform creates a uniform with every matrix set to identity
func NewUniform() Uniform {
	return Uniform{
		Model:      glm.Ident4(),
		View:       glm.Ident4(),
		Projection: glm.Ident4(),
	}
}

// MVP returns the combined model-view-projection matrix
func (u Uniform) MVP() glm.Mat4 {
	return u.Projection.Mul4(u.View).Mul4(u.Model)
}

// Mesh is an Object held in memory
type Mesh struct {
	name     string
	vertices []Vertex
}

// NewMesh creates an in-memory object from vertices
func NewMesh(name string, vertices []Vertex) *Mesh {
	return &Mesh{
		name:     name,
		vertices: vertices,
	}
}

// Name implements interface
func (m *Mesh) Name() string {
	return m.name
}

// Vertices implements interface
func (m *Mesh) Vertices() []Vertex {
	return m.vertices
}

// Bounds implements interface
func (m *Mesh) Bounds() (min, max glm.Vec3) {
	if len(m.vertices) == 0 {
		return
	}
	min, max = m.vertices[0].Pos, m.vertices[0].Pos
	for _, v := range m.vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Pos[i] < min[i] {
				min[i] = v.Pos[i]
			}
			if v.Pos[i] > max[i] {
				max[i] = v.Pos[i]
			}
		}
	}
	return
}

// Release drops the vertex data
func (m *Mesh) Release() {
	m.vertices = nil
}

// Quad returns a unit quad in the XY plane, used when no asset
// is available
func Quad(name string) *Mesh {
	normal := glm.Vec3{0, 0, 1}
	white := glm.Vec4{1, 1, 1, 1}
	corners := []glm.Vec3{
		{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0},
		{-0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0},
	}
	vertices := make([]Vertex, len(corners))
	for i, pos := range corners {
		vertices[i] = Vertex{Pos: pos, Normal: normal, Color: white}
	}
	return NewMesh(name, vertices)
}
