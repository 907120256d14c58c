// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package scene holds the renderers and draw components that issue
// graphics commands. Resources live in a gfx.Storage, every command
// is recorded in the diagnostics context.
package scene

import (
	"errors"
	"fmt"

	"github.com/devblok/chili/diag"
	"github.com/devblok/chili/gfx"
)

// package errors
var (
	ErrUnsupportedComponent = errors.New("renderer does not support component kind")
)

// Env is what renderers and draw components need to create and
// bind resources.
type Env struct {
	Storage *gfx.Storage
	Diag    *diag.Context
}

// RendererKind identifies a renderer implementation
type RendererKind int

// Available renderers
const (
	SolidRenderer RendererKind = iota
	PhongRenderer
)

func (k RendererKind) String() string {
	switch k {
	case SolidRenderer:
		return "solid"
	case PhongRenderer:
		return "phong"
	}
	return fmt.Sprintf("RendererKind(%d)", int(k))
}

// ComponentKind identifies a draw component implementation
type ComponentKind int

// Available draw components
const (
	MeshComponent ComponentKind = iota
	LightComponent
)

func (k ComponentKind) String() string {
	switch k {
	case MeshComponent:
		return "mesh"
	case LightComponent:
		return "light"
	}
	return fmt.Sprintf("ComponentKind(%d)", int(k))
}

// Accepts reports whether renderers of kind k can draw components
// of kind c.
func (k RendererKind) Accepts(c ComponentKind) bool {
	switch k {
	case SolidRenderer:
		return c == MeshComponent
	case PhongRenderer:
		return c == MeshComponent || c == LightComponent
	}
	return false
}

// Shader is the compiled program a renderer binds.
type Shader struct {
	Kind RendererKind
	Code *gfx.Blob
}

// Release implements gfx.Releasable
func (s *Shader) Release() {
	if s.Code != nil {
		s.Code.Release()
	}
}
