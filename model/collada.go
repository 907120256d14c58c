package model

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/devblok/chili/util/collada"
	glm "github.com/go-gl/mathgl/mgl32"
)

// errors returned while importing
var (
	ErrNoGeometry = errors.New("collada document has no geometry")
	ErrBadIndex   = errors.New("triangle index out of range")
)

// ImportColladaObject reads given file and converts the first Collada
// geometry to engine's internal object
func ImportColladaObject(name string, fileContents []byte) (*Mesh, error) {
	var colladaModel collada.Collada
	if err := xml.Unmarshal(fileContents, &colladaModel); err != nil {
		return nil, err
	}
	if len(colladaModel.Geometries) == 0 {
		return nil, ErrNoGeometry
	}

	mesh := colladaModel.Geometries[0].Mesh
	positions, err := findSource(mesh.Source, "positions")
	if err != nil {
		return nil, err
	}
	// normals are optional
	normals, _ := findSource(mesh.Source, "normals")

	stride := mesh.Triangles.Stride()
	vertexOffset, normalOffset := -1, -1
	for _, in := range mesh.Triangles.Inputs {
		switch in.Semantic {
		case "VERTEX":
			vertexOffset = int(in.Offset)
		case "NORMAL":
			normalOffset = int(in.Offset)
		}
	}
	if vertexOffset < 0 {
		return nil, fmt.Errorf("%s: triangles have no VERTEX input", name)
	}

	color := glm.Vec4{1.0, 1.0, 1.0, 1.0}
	count := len(mesh.Triangles.Index) / stride
	vertices := make([]Vertex, 0, count)
	for idx := 0; idx < count; idx++ {
		indices := mesh.Triangles.Index[stride*idx : stride*idx+stride]

		var vert Vertex
		if vert.Pos, err = vec3At(positions.Floats.Data, indices[vertexOffset]); err != nil {
			return nil, err
		}
		if normalOffset >= 0 && len(normals.Floats.Data) > 0 {
			if vert.Normal, err = vec3At(normals.Floats.Data, indices[normalOffset]); err != nil {
				return nil, err
			}
		}
		vert.Color = color
		vertices = append(vertices, vert)
	}
	return NewMesh(name, vertices), nil
}

func vec3At(data []float32, idx int) (glm.Vec3, error) {
	if idx < 0 || 3*idx+2 >= len(data) {
		return glm.Vec3{}, ErrBadIndex
	}
	return glm.Vec3{data[3*idx], data[3*idx+1], data[3*idx+2]}, nil
}

func findSource(sources []collada.Source, dataType string) (collada.Source, error) {
	for _, s := range sources {
		if strings.HasSuffix(s.ID, fmt.Sprintf("-%s", dataType)) {
			return s, nil
		}
	}
	return collada.Source{}, fmt.Errorf("source type %q not found", dataType)
}
