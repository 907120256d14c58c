// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package diag

import "fmt"

// Phenomenon is a quantity tracked by the Summarizer.
type Phenomenon int

// Count phenomena, cached and invalidated by the Summarizer.
const (
	TotalCreateCount Phenomenon = iota
	TotalCreateFloatCount
	TotalBindCount
	TotalBindFloatCount
	TotalDrawCount
	TotalDrawFloatCount

	RendererCreateCount
	RendererCreateFloatCount
	RendererBindCount
	RendererBindFloatCount
	RendererDrawCount
	RendererDrawFloatCount

	DrawComponentCreateCount
	DrawComponentCreateFloatCount
	DrawComponentBindCount
	DrawComponentBindFloatCount
	DrawComponentDrawCount
	DrawComponentDrawFloatCount

	numCounts
)

// Selector phenomena, set by the frame driver.
const (
	IDFrame Phenomenon = iota + numCounts
	IDRenderer
	IDDrawComponent
	NFrameSample

	numPhenomena
)

// scope of a count phenomenon
type scope int

const (
	totalScope scope = iota
	rendererScope
	drawComponentScope
)

// Counts returns every count phenomenon.
func Counts() []Phenomenon {
	out := make([]Phenomenon, 0, numCounts)
	for p := Phenomenon(0); p < numCounts; p++ {
		out = append(out, p)
	}
	return out
}

// Selector reports whether p is a selector phenomenon.
func (p Phenomenon) Selector() bool {
	return p >= numCounts && p < numPhenomena
}

// Valid reports whether p is a known phenomenon.
func (p Phenomenon) Valid() bool {
	return p >= 0 && p < numPhenomena
}

// Float reports whether p is a per-frame mean rather than a sum.
func (p Phenomenon) Float() bool {
	return !p.Selector() && p%2 == 1
}

// CMDType returns the command type a count phenomenon aggregates.
func (p Phenomenon) CMDType() CMDType {
	return CMDType((p % 6) / 2)
}

func (p Phenomenon) scope() scope {
	return scope(p / 6)
}

// pair returns the other member of the count/float count pair.
func (p Phenomenon) pair() Phenomenon {
	return p ^ 1
}

// in returns the counterpart of p in scope sc.
func (p Phenomenon) in(sc scope) Phenomenon {
	return Phenomenon(int(sc)*6) + p%6
}

var phenomenonNames = [...]string{
	"TotalCreateCount", "TotalCreateFloatCount",
	"TotalBindCount", "TotalBindFloatCount",
	"TotalDrawCount", "TotalDrawFloatCount",
	"RendererCreateCount", "RendererCreateFloatCount",
	"RendererBindCount", "RendererBindFloatCount",
	"RendererDrawCount", "RendererDrawFloatCount",
	"DrawComponentCreateCount", "DrawComponentCreateFloatCount",
	"DrawComponentBindCount", "DrawComponentBindFloatCount",
	"DrawComponentDrawCount", "DrawComponentDrawFloatCount",
	"IDFrame", "IDRenderer", "IDDrawComponent", "NFrameSample",
}

func (p Phenomenon) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phenomenon(%d)", int(p))
	}
	return phenomenonNames[p]
}

// dependents is the static invalidation table. When a phenomenon
// changes value, every phenomenon listed for it is cleared.
var dependents = buildDependents()

func buildDependents() map[Phenomenon][]Phenomenon {
	deps := make(map[Phenomenon][]Phenomenon, numPhenomena)
	for p := Phenomenon(0); p < numCounts; p++ {
		list := []Phenomenon{p.pair()}
		switch p.scope() {
		case totalScope:
			for _, sc := range []scope{rendererScope, drawComponentScope} {
				q := p.in(sc)
				list = append(list, q&^1, q|1)
			}
		case rendererScope, drawComponentScope:
			q := p.in(totalScope)
			list = append(list, q&^1, q|1)
		}
		deps[p] = list
	}

	all := Counts()
	deps[IDFrame] = all
	deps[NFrameSample] = all
	for p := RendererCreateCount; p <= RendererDrawFloatCount; p++ {
		deps[IDRenderer] = append(deps[IDRenderer], p)
	}
	for p := DrawComponentCreateCount; p <= DrawComponentDrawFloatCount; p++ {
		deps[IDDrawComponent] = append(deps[IDDrawComponent], p)
	}
	return deps
}

// Dependents returns the phenomena invalidated when p changes.
func Dependents(p Phenomenon) []Phenomenon {
	deps := dependents[p]
	out := make([]Phenomenon, len(deps))
	copy(out, deps)
	return out
}
