// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package overlay_test

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/chili/diag"
	"github.com/devblok/chili/overlay"
)

type renderer struct{ id int }

func TestRefresh(t *testing.T) {
	c := qt.New(t)
	ctx := diag.NewContext(diag.Configuration{FrameWindow: 4}, nil)
	r := &renderer{1}
	c.Assert(ctx.Summarizer.MapRenderer(1, r), qt.IsNil)

	view := overlay.NewView(diag.TotalDrawCount, diag.TotalDrawFloatCount, diag.RendererDrawCount)
	for frame := 1; frame <= 3; frame++ {
		ctx.BeginFrame(frame)
		c.Assert(ctx.Summarizer.Select(diag.IDRenderer, 1), qt.IsNil)
		for idx := 0; idx < frame; idx++ {
			ctx.Record(diag.Draw, diag.RendererSource, r)
		}
		ctx.EndFrame()
		c.Assert(view.Refresh(ctx.Summarizer), qt.IsNil)
	}

	lines := view.Lines()
	c.Assert(len(lines), qt.Equals, 3)
	c.Assert(lines[0].Value.Int, qt.Equals, 6)
	c.Assert(lines[1].Value.Float, qt.Equals, 2.0)
	c.Assert(lines[2].Value.Int, qt.Equals, 6)

	text := view.Text()
	c.Assert(strings.HasPrefix(text[1], "TotalDrawFloatCount"), qt.Equals, true)
	c.Assert(strings.HasSuffix(text[1], "2.00"), qt.Equals, true)
}

func TestRefreshSameFrame(t *testing.T) {
	c := qt.New(t)
	ctx := diag.NewContext(diag.Configuration{FrameWindow: 4}, nil)
	r := &renderer{1}
	c.Assert(ctx.Summarizer.MapRenderer(1, r), qt.IsNil)
	c.Assert(ctx.Summarizer.Select(diag.IDRenderer, 1), qt.IsNil)

	view := overlay.NewView()
	c.Assert(view.Refresh(ctx.Summarizer), qt.IsNil)

	// new data without a frame change, scoped values change first
	ctx.Record(diag.Create, diag.RendererSource, r)
	ctx.EndFrame()
	c.Assert(view.Refresh(ctx.Summarizer), qt.IsNil)
	c.Assert(len(view.Lines()), qt.Equals, 18)
	for _, l := range view.Lines() {
		if l.Phenomenon == diag.TotalCreateCount || l.Phenomenon == diag.RendererCreateCount {
			c.Assert(l.Value.Int, qt.Equals, 1)
		}
	}
}

func TestDraw(t *testing.T) {
	c := qt.New(t)
	ctx := diag.NewContext(diag.DefaultConfiguration, nil)
	ctx.BeginFrame(1)
	ctx.EndFrame()

	view := overlay.NewView(diag.TotalBindCount, diag.TotalBindFloatCount)
	c.Assert(view.Refresh(ctx.Summarizer), qt.IsNil)

	bounds := view.Bounds()
	c.Assert(bounds.Dy(), qt.Equals, 30)
	c.Assert(bounds.Dx() > 0, qt.Equals, true)

	dst := image.NewRGBA(bounds)
	view.Draw(dst, image.Point{})

	var lit int
	for idx := 3; idx < len(dst.Pix); idx += 4 {
		if dst.Pix[idx] != 0 {
			lit++
		}
	}
	c.Assert(lit > 0, qt.Equals, true)
	c.Assert(view.Color, qt.Equals, color.Color(color.White))
}

func TestLineFormat(t *testing.T) {
	c := qt.New(t)
	ctx := diag.NewContext(diag.Configuration{FrameWindow: 4}, nil)
	ctx.BeginFrame(1)
	ctx.EndFrame()

	view := overlay.NewView(diag.TotalDrawCount, diag.TotalDrawFloatCount, diag.RendererBindFloatCount)
	c.Assert(view.Refresh(ctx.Summarizer), qt.IsNil)

	text := view.Text()
	c.Assert(strings.HasSuffix(text[0], " 0"), qt.Equals, true)
	c.Assert(strings.HasSuffix(text[1], "0.00"), qt.Equals, true)
	c.Assert(strings.HasSuffix(text[2], "0.00"), qt.Equals, true)
	c.Assert(overlay.Line{Phenomenon: diag.TotalBindFloatCount, Value: diag.Value{Float: 1.5}}.String(),
		qt.Equals, "TotalBindFloatCount                1.50")
}

func TestRefreshSelectorFails(t *testing.T) {
	c := qt.New(t)
	ctx := diag.NewContext(diag.Configuration{FrameWindow: 4}, nil)

	view := overlay.NewView(diag.TotalDrawCount, diag.IDFrame)
	err := view.Refresh(ctx.Summarizer)
	c.Assert(errors.Is(err, diag.ErrSelector), qt.Equals, true)
}
