// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "reflect"

// cell is the owned part of a Res.
type cell struct {
	typ reflect.Type
	val interface{}
}

// vacant is shared by every empty Res and is never written to.
var vacant = &cell{}

// Res is a single generational resource slot. The zero value is
// vacant and ready to use.
type Res struct {
	gen  uint64
	cell *cell
}

// Generation returns the slot's current generation.
func (r *Res) Generation() uint64 {
	return r.gen
}

// Empty reports whether the slot holds no resource.
func (r *Res) Empty() bool {
	return r.cell == nil || r.cell == vacant
}

// Type returns the runtime type of the stored resource,
// nil when empty.
func (r *Res) Type() reflect.Type {
	if r.Empty() {
		return nil
	}
	return r.cell.typ
}

// Value returns the stored resource, nil when empty.
func (r *Res) Value() interface{} {
	if r.Empty() {
		return nil
	}
	return r.cell.val
}

// Take moves the resource out of r. The returned Res carries
// the payload and generation. r is left vacant and its generation
// bumped, so handles to the moved payload go stale.
func (r *Res) Take() Res {
	moved := Res{gen: r.gen, cell: r.cell}
	if moved.cell == nil {
		moved.cell = vacant
	}
	r.gen++
	r.cell = vacant
	return moved
}

// store replaces the payload, releasing the previous one.
func (r *Res) store(v interface{}) {
	r.release()
	r.gen++
	r.cell = &cell{
		typ: reflect.TypeOf(v),
		val: v,
	}
}

// clear vacates the slot, releasing the payload.
func (r *Res) clear() {
	r.release()
	r.gen++
	r.cell = vacant
}

func (r *Res) release() {
	if r.Empty() {
		return
	}
	if rel, ok := r.cell.val.(Releasable); ok {
		rel.Release()
	}
}
