// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package diag

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// package errors
var (
	ErrStale         = errors.New("phenomenon read before update")
	ErrSelector      = errors.New("phenomenon is a selector")
	ErrNotSelector   = errors.New("phenomenon is not a selector")
	ErrUnknown       = errors.New("unknown phenomenon")
	ErrDuplicateID   = errors.New("id already mapped")
	ErrInvalidSample = errors.New("frame sample must be at least 1")
)

// Value is the cached value of a phenomenon. Count phenomena set
// Int, float count phenomena set Float, selectors set Int.
type Value struct {
	Int   int
	Float float64
}

func (v Value) String() string {
	if v.Float != 0 {
		return fmt.Sprintf("%.2f", v.Float)
	}
	return fmt.Sprintf("%d", v.Int)
}

// NewSummarizer creates a Summarizer that aggregates over l.
func NewSummarizer(l *Logger, log logrus.FieldLogger) *Summarizer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Summarizer{
		logger:         l,
		log:            log.WithField("component", "diag.summarizer"),
		renderers:      make(map[int]interface{}),
		drawComponents: make(map[int]interface{}),
	}
}

// Summarizer caches aggregated Logger queries. Count phenomena are
// computed only on Update and stay cached until a selector or a
// related count changes value.
type Summarizer struct {
	logger *Logger
	log    logrus.FieldLogger

	values [numPhenomena]Value
	fresh  [numPhenomena]bool

	renderers      map[int]interface{}
	drawComponents map[int]interface{}

	// currently selected scopes, nil when unset
	renderer      interface{}
	drawComponent interface{}
}

// MapRenderer registers a renderer under id.
func (s *Summarizer) MapRenderer(id int, ref interface{}) error {
	return mapID(s.renderers, id, ref)
}

// MapDrawComponent registers a draw component under id.
func (s *Summarizer) MapDrawComponent(id int, ref interface{}) error {
	return mapID(s.drawComponents, id, ref)
}

func mapID(m map[int]interface{}, id int, ref interface{}) error {
	if _, ok := m[id]; ok {
		return fmt.Errorf("id %d: %w", id, ErrDuplicateID)
	}
	m[id] = ref
	return nil
}

// UnmapRenderer removes the renderer mapped under id. If it is the
// selected renderer, the renderer scope becomes unset.
func (s *Summarizer) UnmapRenderer(id int) {
	delete(s.renderers, id)
	if s.fresh[IDRenderer] && s.values[IDRenderer].Int == id && s.renderer != nil {
		s.renderer = nil
		s.invalidate(IDRenderer)
	}
}

// UnmapDrawComponent removes the draw component mapped under id. If it
// is the selected draw component, the scope becomes unset.
func (s *Summarizer) UnmapDrawComponent(id int) {
	delete(s.drawComponents, id)
	if s.fresh[IDDrawComponent] && s.values[IDDrawComponent].Int == id && s.drawComponent != nil {
		s.drawComponent = nil
		s.invalidate(IDDrawComponent)
	}
}

// Renderer returns the selected renderer, nil when unset.
func (s *Summarizer) Renderer() interface{} {
	return s.renderer
}

// DrawComponent returns the selected draw component, nil when unset.
func (s *Summarizer) DrawComponent() interface{} {
	return s.drawComponent
}

// Select sets selector p to v. When p already held a different
// value, the phenomena depending on it are invalidated.
// Selectors must be set before the counts of the frame are updated.
func (s *Summarizer) Select(p Phenomenon, v int) error {
	if !p.Valid() {
		return ErrUnknown
	}
	if !p.Selector() {
		return fmt.Errorf("select %s: %w", p, ErrNotSelector)
	}
	if p == NFrameSample && v < 1 {
		return fmt.Errorf("select %s to %d: %w", p, v, ErrInvalidSample)
	}

	next := Value{Int: v}
	changed := s.fresh[p] && s.values[p] != next

	// a scope change invalidates even when the id alone does not
	switch p {
	case IDRenderer:
		ref := s.resolve(p, s.renderers, v)
		changed = changed || ref != s.renderer
		s.renderer = ref
	case IDDrawComponent:
		ref := s.resolve(p, s.drawComponents, v)
		changed = changed || ref != s.drawComponent
		s.drawComponent = ref
	}

	if changed {
		s.invalidate(p)
	}
	s.values[p] = next
	s.fresh[p] = true
	return nil
}

func (s *Summarizer) resolve(p Phenomenon, m map[int]interface{}, id int) interface{} {
	ref, ok := m[id]
	if !ok {
		s.log.WithFields(logrus.Fields{"selector": p, "id": id}).Debug("unmapped id, scope unset")
		return nil
	}
	return ref
}

// Deselect clears selector p, leaving it unset. Dependents of p
// are invalidated if it was set.
func (s *Summarizer) Deselect(p Phenomenon) error {
	if !p.Selector() {
		return fmt.Errorf("deselect %s: %w", p, ErrNotSelector)
	}
	if s.fresh[p] {
		s.invalidate(p)
	}
	s.fresh[p] = false
	s.values[p] = Value{}
	switch p {
	case IDRenderer:
		s.renderer = nil
	case IDDrawComponent:
		s.drawComponent = nil
	}
	return nil
}

// Update recomputes count phenomenon p. If p held a value before and
// the new one differs, the phenomena depending on p are invalidated.
func (s *Summarizer) Update(p Phenomenon) error {
	if !p.Valid() {
		return ErrUnknown
	}
	if p.Selector() {
		return fmt.Errorf("update %s: %w", p, ErrSelector)
	}

	prev, had := s.values[p], s.fresh[p]
	next := s.compute(p)
	s.values[p] = next
	s.fresh[p] = true

	if had && prev != next {
		s.invalidate(p)
	}
	return nil
}

// UpdateAll recomputes every count phenomenon.
func (s *Summarizer) UpdateAll() {
	for p := Phenomenon(0); p < numCounts; p++ {
		s.Update(p)
	}
}

func (s *Summarizer) compute(p Phenomenon) Value {
	var src Source
	switch p.scope() {
	case rendererScope:
		if s.renderer == nil {
			return Value{}
		}
		src = Source{Kind: RendererSource, Ref: s.renderer}
	case drawComponentScope:
		if s.drawComponent == nil {
			return Value{}
		}
		src = Source{Kind: DrawComponentSource, Ref: s.drawComponent}
	}

	n := s.logger.Frames()
	if s.fresh[NFrameSample] {
		n = s.values[NFrameSample].Int
	}

	t := p.CMDType()
	scoped := p.scope() != totalScope
	switch {
	case p.Float() && scoped:
		return Value{Float: s.logger.CMDCountFSourceN(t, src, n)}
	case p.Float():
		return Value{Float: s.logger.CMDCountFN(t, n)}
	case scoped:
		return Value{Int: s.logger.CMDCountSourceN(t, src, n)}
	}
	return Value{Int: s.logger.CMDCountN(t, n)}
}

// invalidate clears every phenomenon depending on p.
func (s *Summarizer) invalidate(p Phenomenon) {
	deps := dependents[p]
	for _, d := range deps {
		s.fresh[d] = false
	}
	s.log.WithFields(logrus.Fields{"phenomenon": p, "cleared": len(deps)}).Debug("invalidated dependents")
}

// Stale reports whether p must be updated before it can be read.
func (s *Summarizer) Stale(p Phenomenon) bool {
	return !p.Valid() || !s.fresh[p]
}

// Get returns the cached value of p. Reading a phenomenon that was not
// updated since its last invalidation is a usage error.
func (s *Summarizer) Get(p Phenomenon) (Value, error) {
	if !p.Valid() {
		return Value{}, ErrUnknown
	}
	if !s.fresh[p] {
		return Value{}, fmt.Errorf("get %s: %w", p, ErrStale)
	}
	return s.values[p], nil
}

// MustGet is like Get but panics when p is stale.
func (s *Summarizer) MustGet(p Phenomenon) Value {
	v, err := s.Get(p)
	if err != nil {
		panic(err)
	}
	return v
}
