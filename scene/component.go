// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scene

import (
	"fmt"

	"github.com/devblok/chili/diag"
	"github.com/devblok/chili/gfx"
	"github.com/devblok/chili/model"
	glm "github.com/go-gl/mathgl/mgl32"
)

// MeshConstants is the per instance constant buffer of a mesh.
type MeshConstants struct {
	Uniform model.Uniform
}

// LightConstants is the per instance constant buffer of a light.
type LightConstants struct {
	Position glm.Vec3
	Color    glm.Vec3
}

// DrawComponent is something a renderer draws. Meshes share their
// geometry through a cached resource, constants are always unique.
type DrawComponent struct {
	kind ComponentKind
	name string
	env  Env

	mesh      gfx.Key
	constants gfx.Key

	transform glm.Mat4
}

// NewMeshComponent creates a mesh draw component. The geometry is
// cached under meshTag, load is only called for the first component
// using the tag.
func NewMeshComponent(env Env, name, meshTag string, load func() (model.Object, error)) (*DrawComponent, error) {
	dc := &DrawComponent{
		kind:      MeshComponent,
		name:      name,
		env:       env,
		transform: glm.Ident4(),
	}

	var err error
	dc.mesh, err = env.Storage.Cached(meshTag, func() (interface{}, error) {
		obj, err := load()
		if err != nil {
			return nil, err
		}
		dc.record(diag.Create)
		return obj, nil
	})
	if err != nil {
		return nil, fmt.Errorf("mesh component %s: %w", name, err)
	}

	if dc.constants, err = env.Storage.Loaded(func() (interface{}, error) {
		return &MeshConstants{Uniform: model.NewUniform()}, nil
	}); err != nil {
		return nil, err
	}
	dc.record(diag.Create)
	return dc, nil
}

// NewLightComponent creates a point light component.
func NewLightComponent(env Env, name string, color glm.Vec3) (*DrawComponent, error) {
	dc := &DrawComponent{
		kind:      LightComponent,
		name:      name,
		env:       env,
		transform: glm.Ident4(),
	}

	var err error
	if dc.constants, err = env.Storage.Loaded(func() (interface{}, error) {
		return &LightConstants{Color: color}, nil
	}); err != nil {
		return nil, err
	}
	dc.record(diag.Create)
	return dc, nil
}

// Kind returns the component kind
func (dc *DrawComponent) Kind() ComponentKind {
	return dc.kind
}

// Name returns the component name
func (dc *DrawComponent) Name() string {
	return dc.name
}

// MeshKey returns the key of the shared geometry, zero for lights.
func (dc *DrawComponent) MeshKey() gfx.Key {
	return dc.mesh
}

// ConstantsKey returns the key of the per instance constants.
func (dc *DrawComponent) ConstantsKey() gfx.Key {
	return dc.constants
}

// SetTransform sets the component's model matrix.
func (dc *DrawComponent) SetTransform(m glm.Mat4) {
	dc.transform = m
}

// Translate moves the component by v.
func (dc *DrawComponent) Translate(v glm.Vec3) {
	dc.transform = glm.Translate3D(v.X(), v.Y(), v.Z()).Mul4(dc.transform)
}

// Transform returns the component's model matrix.
func (dc *DrawComponent) Transform() glm.Mat4 {
	return dc.transform
}

func (dc *DrawComponent) record(t diag.CMDType) {
	dc.env.Diag.Record(t, diag.DrawComponentSource, dc)
}

// bind uploads the constants and binds the component's resources.
func (dc *DrawComponent) bind(view glm.Mat4) error {
	h, ok := dc.env.Storage.Handle(dc.constants)
	if !ok {
		return fmt.Errorf("%s constants: %w", dc.name, gfx.ErrVacant)
	}

	switch dc.kind {
	case MeshComponent:
		consts, err := gfx.Lookup[*MeshConstants](dc.env.Storage, h)
		if err != nil {
			return err
		}
		consts.Uniform.Model = dc.transform
		consts.Uniform.View = view

		mh, ok := dc.env.Storage.Handle(dc.mesh)
		if !ok {
			return fmt.Errorf("%s mesh: %w", dc.name, gfx.ErrVacant)
		}
		if _, err := gfx.Lookup[model.Object](dc.env.Storage, mh); err != nil {
			return err
		}
		dc.record(diag.Bind)
	case LightComponent:
		consts, err := gfx.Lookup[*LightConstants](dc.env.Storage, h)
		if err != nil {
			return err
		}
		consts.Position = dc.transform.Col(3).Vec3()
	}
	dc.record(diag.Bind)
	return nil
}

// draw issues the draw call of a mesh component.
func (dc *DrawComponent) draw() {
	if dc.kind == MeshComponent {
		dc.record(diag.Draw)
	}
}
