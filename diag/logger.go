// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package diag

import "fmt"

// CMDType is the kind of a recorded graphics command.
type CMDType int

// Recorded command types
const (
	Create CMDType = iota
	Bind
	Draw

	numCMDTypes
)

func (t CMDType) String() string {
	switch t {
	case Create:
		return "create"
	case Bind:
		return "bind"
	case Draw:
		return "draw"
	}
	return fmt.Sprintf("CMDType(%d)", int(t))
}

// SourceKind tells which category a command source belongs to.
type SourceKind int

// Known source categories
const (
	RendererSource SourceKind = iota
	DrawComponentSource
)

// Source identifies who issued a command. Ref must be a pointer,
// it is only compared by identity and never dereferenced.
type Source struct {
	Kind SourceKind
	Ref  interface{}
}

type scopedKey struct {
	typ CMDType
	src Source
}

// frame holds the counts of a single frame.
type frame struct {
	totals [numCMDTypes]int
	scoped map[scopedKey]int
}

func newFrame() frame {
	return frame{scoped: make(map[scopedKey]int)}
}

// NewLogger creates a Logger that retains the last capacity frames.
func NewLogger(capacity int) *Logger {
	if capacity < 1 {
		capacity = 1
	}
	return &Logger{
		capacity: capacity,
		frames:   make([]frame, 0, capacity),
		current:  newFrame(),
	}
}

// Logger counts graphics commands per frame over a rolling
// window. Commands recorded in the open frame become visible
// to queries once AdvanceFrame closes it.
type Logger struct {
	capacity int

	// frames is a ring, head points at the oldest frame once full
	frames []frame
	head   int

	current frame
}

// Record counts a command of type t issued by src in the open frame.
// Unknown command types are ignored. src.Ref has to be comparable,
// which any pointer is.
func (l *Logger) Record(t CMDType, src Source) {
	if t < 0 || t >= numCMDTypes {
		return
	}
	l.current.totals[t]++
	l.current.scoped[scopedKey{typ: t, src: src}]++
}

// AdvanceFrame closes the open frame and pushes it into the window,
// evicting the oldest frame when the window is full.
func (l *Logger) AdvanceFrame() {
	if len(l.frames) < l.capacity {
		l.frames = append(l.frames, l.current)
	} else {
		l.frames[l.head] = l.current
		l.head = (l.head + 1) % l.capacity
	}
	l.current = newFrame()
}

// Capacity returns the size of the rolling window.
func (l *Logger) Capacity() int {
	return l.capacity
}

// Frames returns the number of retained frames.
func (l *Logger) Frames() int {
	return len(l.frames)
}

// CMDCount returns the number of commands of type t across the
// retained window.
func (l *Logger) CMDCount(t CMDType) int {
	return l.CMDCountN(t, len(l.frames))
}

// CMDCountN returns the number of commands of type t across the
// last n frames.
func (l *Logger) CMDCountN(t CMDType, n int) int {
	var sum int
	l.each(n, func(f *frame) {
		sum += f.totals[t]
	})
	return sum
}

// CMDCountSource returns the number of commands of type t issued by
// src across the retained window.
func (l *Logger) CMDCountSource(t CMDType, src Source) int {
	return l.CMDCountSourceN(t, src, len(l.frames))
}

// CMDCountSourceN returns the number of commands of type t issued by
// src across the last n frames.
func (l *Logger) CMDCountSourceN(t CMDType, src Source, n int) int {
	key := scopedKey{typ: t, src: src}
	var sum int
	l.each(n, func(f *frame) {
		sum += f.scoped[key]
	})
	return sum
}

// CMDCountF returns the mean number of commands of type t per frame.
func (l *Logger) CMDCountF(t CMDType) float64 {
	return l.CMDCountFN(t, len(l.frames))
}

// CMDCountFN returns the mean number of commands of type t per frame
// over the last n frames.
func (l *Logger) CMDCountFN(t CMDType, n int) float64 {
	return mean(l.CMDCountN(t, n), l.clamp(n))
}

// CMDCountFSource is CMDCountF scoped to a single source.
func (l *Logger) CMDCountFSource(t CMDType, src Source) float64 {
	return l.CMDCountFSourceN(t, src, len(l.frames))
}

// CMDCountFSourceN is CMDCountFN scoped to a single source.
func (l *Logger) CMDCountFSourceN(t CMDType, src Source, n int) float64 {
	return mean(l.CMDCountSourceN(t, src, n), l.clamp(n))
}

func (l *Logger) clamp(n int) int {
	switch {
	case n < 0:
		return 0
	case n > len(l.frames):
		return len(l.frames)
	}
	return n
}

// each visits the last n frames, newest first.
func (l *Logger) each(n int, fn func(*frame)) {
	n = l.clamp(n)
	size := len(l.frames)
	newest := size - 1
	if size == l.capacity {
		newest = (l.head + size - 1) % size
	}
	for idx := 0; idx < n; idx++ {
		fn(&l.frames[(newest-idx+size)%size])
	}
}

func mean(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
