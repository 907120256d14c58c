package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/chili/core"
	"github.com/devblok/chili/diag"
	"github.com/devblok/chili/model"
	"github.com/devblok/chili/scene"
)

func newEngine(c *qt.C) (*core.Engine, int, int) {
	cfg := core.DefaultConfiguration
	cfg.Time.FramesPerSecond = 0
	cfg.Diagnostics = diag.Configuration{FrameWindow: 8}
	e := core.NewEngine(cfg, nil)

	rid, _, err := e.AddRenderer(scene.PhongRenderer)
	c.Assert(err, qt.IsNil)
	light, err := scene.NewLightComponent(e.Env(), "sun", glm.Vec3{1, 1, 1})
	c.Assert(err, qt.IsNil)
	_, err = e.AddComponent(rid, light)
	c.Assert(err, qt.IsNil)
	mesh, err := scene.NewMeshComponent(e.Env(), "floor", "mesh:quad", func() (model.Object, error) {
		return model.Quad("quad"), nil
	})
	c.Assert(err, qt.IsNil)
	mid, err := e.AddComponent(rid, mesh)
	c.Assert(err, qt.IsNil)
	return e, rid, mid
}

func value(c *qt.C, e *core.Engine, p diag.Phenomenon) diag.Value {
	for _, l := range e.Overlay().Lines() {
		if l.Phenomenon == p {
			return l.Value
		}
	}
	c.Fatalf("%s not displayed", p)
	return diag.Value{}
}

func TestEngineFrame(t *testing.T) {
	c := qt.New(t)
	e, rid, mid := newEngine(c)
	defer e.Close()

	c.Assert(e.SelectRenderer(rid), qt.IsNil)
	c.Assert(e.SelectDrawComponent(mid), qt.IsNil)
	for idx := 0; idx < 3; idx++ {
		c.Assert(e.Frame(), qt.IsNil)
	}
	c.Assert(e.FrameID(), qt.Equals, 3)

	// the first frame also holds the creates made while building the scene
	c.Assert(value(c, e, diag.TotalBindCount).Int, qt.Equals, 12)
	c.Assert(value(c, e, diag.TotalBindFloatCount).Float, qt.Equals, 4.0)
	c.Assert(value(c, e, diag.TotalDrawCount).Int, qt.Equals, 6)
	c.Assert(value(c, e, diag.RendererBindCount).Int, qt.Equals, 3)
	c.Assert(value(c, e, diag.RendererDrawFloatCount).Float, qt.Equals, 1.0)
	c.Assert(value(c, e, diag.DrawComponentBindCount).Int, qt.Equals, 6)
	c.Assert(value(c, e, diag.DrawComponentDrawCount).Int, qt.Equals, 3)
	c.Assert(value(c, e, diag.TotalCreateCount).Int, qt.Equals, 4)
}

func TestEngineScopeChange(t *testing.T) {
	c := qt.New(t)
	e, rid, mid := newEngine(c)
	defer e.Close()

	c.Assert(e.SelectDrawComponent(mid), qt.IsNil)
	c.Assert(e.Frame(), qt.IsNil)
	c.Assert(value(c, e, diag.DrawComponentBindCount).Int, qt.Equals, 2)
	c.Assert(value(c, e, diag.RendererBindCount).Int, qt.Equals, 0)

	// the light sits between the renderer and the mesh
	c.Assert(e.SelectDrawComponent(rid+1), qt.IsNil)
	c.Assert(e.SelectRenderer(rid), qt.IsNil)
	c.Assert(e.Frame(), qt.IsNil)
	c.Assert(value(c, e, diag.DrawComponentBindCount).Int, qt.Equals, 2)
	c.Assert(value(c, e, diag.DrawComponentDrawCount).Int, qt.Equals, 0)
	c.Assert(value(c, e, diag.RendererBindCount).Int, qt.Equals, 2)
}

func TestEngineAddComponentErrors(t *testing.T) {
	c := qt.New(t)
	e := core.NewEngine(core.DefaultConfiguration, nil)

	light, err := scene.NewLightComponent(e.Env(), "sun", glm.Vec3{1, 1, 1})
	c.Assert(err, qt.IsNil)
	_, err = e.AddComponent(42, light)
	c.Assert(errors.Is(err, core.ErrUnknownRenderer), qt.Equals, true)

	rid, _, err := e.AddRenderer(scene.SolidRenderer)
	c.Assert(err, qt.IsNil)
	_, err = e.AddComponent(rid, light)
	c.Assert(errors.Is(err, scene.ErrUnsupportedComponent), qt.Equals, true)
}

func TestEngineRun(t *testing.T) {
	c := qt.New(t)
	e, _, _ := newEngine(c)
	defer e.Close()

	var seen []int
	e.OnFrame(func(id int) {
		seen = append(seen, id)
	})
	c.Assert(e.Run(context.Background(), 5), qt.IsNil)
	c.Assert(e.FrameID(), qt.Equals, 5)
	c.Assert(seen, qt.DeepEquals, []int{1, 2, 3, 4, 5})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := e.Run(ctx, 0)
	c.Assert(errors.Is(err, context.DeadlineExceeded), qt.Equals, true)
}

func TestEngineClose(t *testing.T) {
	c := qt.New(t)
	e, _, _ := newEngine(c)
	c.Assert(e.Storage().Len(), qt.Equals, 4)
	e.Close()
	c.Assert(e.Storage().Len(), qt.Equals, 0)
	c.Assert(e.Frame(), qt.Not(qt.IsNil))
}
