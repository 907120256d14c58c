// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package overlay presents the command summary as text lines and can
// rasterize them onto an image for the in-engine diagnostic overlay.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/devblok/chili/diag"
)

// lineHeight of basicfont.Face7x13 plus spacing
const lineHeight = 15

// Line is a single displayed value.
type Line struct {
	Phenomenon diag.Phenomenon
	Value      diag.Value
}

func (l Line) String() string {
	value := fmt.Sprintf("%d", l.Value.Int)
	if l.Phenomenon.Float() {
		value = fmt.Sprintf("%.2f", l.Value.Float)
	}
	return fmt.Sprintf("%-30s %8s", l.Phenomenon, value)
}

// NewView creates a view displaying the given count phenomena.
// With none given it displays every count phenomenon.
func NewView(phenomena ...diag.Phenomenon) *View {
	if len(phenomena) == 0 {
		phenomena = diag.Counts()
	}
	return &View{
		phenomena: phenomena,
		Color:     color.White,
	}
}

// View pulls values from a summarizer once per frame.
type View struct {
	phenomena []diag.Phenomenon
	lines     []Line

	// Color of the rasterized text
	Color color.Color
}

// Refresh updates and reads every displayed phenomenon. Selectors of
// the frame must have been set before.
func (v *View) Refresh(s *diag.Summarizer) error {
	v.lines = v.lines[:0]
	for _, p := range v.phenomena {
		if err := s.Update(p); err != nil {
			return err
		}
	}
	// a changed value may have cleared one updated earlier, updating
	// a stale phenomenon never invalidates so one more pass suffices
	for _, p := range v.phenomena {
		if !s.Stale(p) {
			continue
		}
		if err := s.Update(p); err != nil {
			return err
		}
	}
	for _, p := range v.phenomena {
		val, err := s.Get(p)
		if err != nil {
			return err
		}
		v.lines = append(v.lines, Line{Phenomenon: p, Value: val})
	}
	return nil
}

// Lines returns the lines of the last refresh.
func (v *View) Lines() []Line {
	return v.lines
}

// Text returns the lines of the last refresh as strings.
func (v *View) Text() []string {
	out := make([]string, len(v.lines))
	for i, l := range v.lines {
		out[i] = l.String()
	}
	return out
}

// Bounds returns the size needed to draw the current lines.
func (v *View) Bounds() image.Rectangle {
	var width int
	for _, s := range v.Text() {
		w := font.MeasureString(basicfont.Face7x13, s).Ceil()
		if w > width {
			width = w
		}
	}
	return image.Rect(0, 0, width, len(v.lines)*lineHeight)
}

// Draw rasterizes the lines onto dst with the top left corner at.
func (v *View) Draw(dst draw.Image, at image.Point) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(v.Color),
		Face: basicfont.Face7x13,
	}
	for i, s := range v.Text() {
		d.Dot = fixed.P(at.X, at.Y+(i+1)*lineHeight-2)
		d.DrawString(s)
	}
}
