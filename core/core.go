// Package core drives frames: it owns the resource storage, the
// diagnostics context and the renderers, and refreshes the overlay
// once every frame is closed.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/devblok/chili/assets"
	"github.com/devblok/chili/diag"
	"github.com/devblok/chili/gfx"
	"github.com/devblok/chili/overlay"
	"github.com/devblok/chili/scene"
)

// ErrUnknownRenderer is returned for ids not handed out by AddRenderer.
var ErrUnknownRenderer = errors.New("unknown renderer id")

// NewEngine creates an engine with no renderers.
func NewEngine(cfg Configuration, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	storage := gfx.NewStorage(log)
	width, height := float32(cfg.Renderer.ScreenWidth), float32(cfg.Renderer.ScreenHeight)
	if height == 0 {
		height = 1
	}
	return &Engine{
		cfg:        cfg,
		log:        log.WithField("component", "engine"),
		storage:    storage,
		diag:       diag.NewContext(cfg.Diagnostics, log),
		loader:     assets.NewLoader(storage, log),
		overlay:    overlay.NewView(),
		renderers:  make(map[int]*scene.Renderer),
		components: make(map[int]*scene.DrawComponent),
		view:       glm.LookAtV(glm.Vec3{0, 0, 5}, glm.Vec3{}, glm.Vec3{0, 1, 0}),
		projection: glm.Perspective(glm.DegToRad(45), width/height, 0.1, 100),
	}
}

// Engine runs the frame loop.
type Engine struct {
	cfg Configuration
	log logrus.FieldLogger

	storage *gfx.Storage
	diag    *diag.Context
	loader  *assets.Loader
	overlay *overlay.View

	renderers  map[int]*scene.Renderer
	components map[int]*scene.DrawComponent
	nextID     int
	frame      int
	onFrame    func(id int)

	view       glm.Mat4
	projection glm.Mat4
}

// Env returns the environment scene objects are created in.
func (e *Engine) Env() scene.Env {
	return scene.Env{Storage: e.storage, Diag: e.diag}
}

// Storage returns the engine's resource storage.
func (e *Engine) Storage() *gfx.Storage {
	return e.storage
}

// Diagnostics returns the engine's diagnostics context.
func (e *Engine) Diagnostics() *diag.Context {
	return e.diag
}

// Loader returns the asset loader feeding the storage.
func (e *Engine) Loader() *assets.Loader {
	return e.loader
}

// Overlay returns the diagnostic overlay refreshed every frame.
func (e *Engine) Overlay() *overlay.View {
	return e.overlay
}

// FrameID returns the id of the last frame.
func (e *Engine) FrameID() int {
	return e.frame
}

// SetView moves the camera of every renderer.
func (e *Engine) SetView(view glm.Mat4) {
	e.view = view
	for _, r := range e.renderers {
		r.SetView(e.projection.Mul4(view))
	}
}

// AddRenderer creates a renderer of kind and returns its id.
func (e *Engine) AddRenderer(kind scene.RendererKind) (int, *scene.Renderer, error) {
	r, err := scene.NewRenderer(e.Env(), kind)
	if err != nil {
		return 0, nil, err
	}
	r.SetView(e.projection.Mul4(e.view))

	e.nextID++
	if err := e.diag.Summarizer.MapRenderer(e.nextID, r); err != nil {
		return 0, nil, err
	}
	e.renderers[e.nextID] = r
	e.log.WithFields(logrus.Fields{"id": e.nextID, "kind": kind}).Debug("renderer added")
	return e.nextID, r, nil
}

// AddComponent submits dc to the renderer with the given id and
// returns the id of the component.
func (e *Engine) AddComponent(renderer int, dc *scene.DrawComponent) (int, error) {
	r, ok := e.renderers[renderer]
	if !ok {
		return 0, fmt.Errorf("renderer %d: %w", renderer, ErrUnknownRenderer)
	}
	if err := r.Submit(dc); err != nil {
		return 0, err
	}

	e.nextID++
	if err := e.diag.Summarizer.MapDrawComponent(e.nextID, dc); err != nil {
		return 0, err
	}
	e.components[e.nextID] = dc
	e.log.WithFields(logrus.Fields{"id": e.nextID, "name": dc.Name(), "renderer": renderer}).Debug("component added")
	return e.nextID, nil
}

// SelectRenderer scopes the renderer counts of the overlay to id.
func (e *Engine) SelectRenderer(id int) error {
	return e.diag.Summarizer.Select(diag.IDRenderer, id)
}

// SelectDrawComponent scopes the draw component counts of the
// overlay to id.
func (e *Engine) SelectDrawComponent(id int) error {
	return e.diag.Summarizer.Select(diag.IDDrawComponent, id)
}

// Frame renders a single frame and refreshes the overlay.
func (e *Engine) Frame() error {
	e.frame++
	e.diag.BeginFrame(e.frame)

	ids := make([]int, 0, len(e.renderers))
	for id := range e.renderers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var renderErr error
	for _, id := range ids {
		if err := e.renderers[id].Render(); err != nil {
			renderErr = fmt.Errorf("frame %d, renderer %d: %w", e.frame, id, err)
			break
		}
	}
	e.diag.EndFrame()
	if renderErr != nil {
		return renderErr
	}
	return e.overlay.Refresh(e.diag.Summarizer)
}

// Run renders frames at the configured rate until frames were rendered,
// ctx is done or a frame fails. With frames <= 0 it runs until ctx
// is done.
func (e *Engine) Run(ctx context.Context, frames int) error {
	t := NewTime(e.cfg.Time)
	defer t.Stop()

	for n := 0; frames <= 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.FpsTicker().C:
		}
		if err := e.Frame(); err != nil {
			return err
		}
		if e.onFrame != nil {
			e.onFrame(e.frame)
		}
	}
	return nil
}

// OnFrame sets fn to be called by Run after every rendered frame.
func (e *Engine) OnFrame(fn func(id int)) {
	e.onFrame = fn
}

// Close releases every resource and logs the final diagnostics.
func (e *Engine) Close() {
	e.storage.Release()
	e.diag.Close()
	e.log.WithField("frames", e.frame).Info("engine closed")
}
