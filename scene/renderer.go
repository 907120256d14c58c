// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scene

import (
	"fmt"

	"github.com/devblok/chili/diag"
	"github.com/devblok/chili/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
)

// NewRenderer creates a renderer of the given kind. Renderers of the
// same kind share one shader.
func NewRenderer(env Env, kind RendererKind) (*Renderer, error) {
	r := &Renderer{
		kind: kind,
		env:  env,
		view: glm.Ident4(),
	}

	var err error
	r.shader, err = env.Storage.Cached("shader:"+kind.String(), func() (interface{}, error) {
		r.record(diag.Create)
		return &Shader{
			Kind: kind,
			Code: &gfx.Blob{Name: kind.String()},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Renderer draws the components submitted to it.
type Renderer struct {
	kind RendererKind
	env  Env

	shader gfx.Key
	view   glm.Mat4

	meshes []*DrawComponent
	lights []*DrawComponent
}

// Kind returns the renderer kind
func (r *Renderer) Kind() RendererKind {
	return r.kind
}

// ShaderKey returns the key of the renderer's shader
func (r *Renderer) ShaderKey() gfx.Key {
	return r.shader
}

// SetView sets the view matrix used for every component.
func (r *Renderer) SetView(view glm.Mat4) {
	r.view = view
}

// Submit adds a component to the renderer.
func (r *Renderer) Submit(dc *DrawComponent) error {
	if !r.kind.Accepts(dc.Kind()) {
		return fmt.Errorf("%s renderer, %s component: %w", r.kind, dc.Kind(), ErrUnsupportedComponent)
	}
	switch dc.Kind() {
	case MeshComponent:
		r.meshes = append(r.meshes, dc)
	case LightComponent:
		r.lights = append(r.lights, dc)
	}
	return nil
}

// Components returns every submitted component, lights first.
func (r *Renderer) Components() []*DrawComponent {
	out := make([]*DrawComponent, 0, len(r.lights)+len(r.meshes))
	out = append(out, r.lights...)
	return append(out, r.meshes...)
}

// Render binds the shader, then binds and draws every component.
// A phong renderer finishes with a lighting pass if it has lights.
func (r *Renderer) Render() error {
	h, ok := r.env.Storage.Handle(r.shader)
	if !ok {
		return fmt.Errorf("%s shader: %w", r.kind, gfx.ErrVacant)
	}
	if _, err := gfx.Lookup[*Shader](r.env.Storage, h); err != nil {
		return err
	}
	r.record(diag.Bind)

	for _, light := range r.lights {
		if err := light.bind(r.view); err != nil {
			return err
		}
	}
	for _, mesh := range r.meshes {
		if err := mesh.bind(r.view); err != nil {
			return err
		}
		mesh.draw()
	}

	if r.kind == PhongRenderer && len(r.lights) > 0 {
		r.record(diag.Draw)
	}
	return nil
}

func (r *Renderer) record(t diag.CMDType) {
	r.env.Diag.Record(t, diag.RendererSource, r)
}
