// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines rendering resources and the storage that owns them.
// Resources are kept in generational slots, callers only ever hold
// non-owning handles that are validated before every access.
package gfx

import "errors"

// package errors
var (
	ErrUnknownKey   = errors.New("key was never issued by this storage")
	ErrVacant       = errors.New("slot holds no resource")
	ErrStaleHandle  = errors.New("handle generation does not match the slot")
	ErrTypeMismatch = errors.New("resource is stored as a different type")
)

// Releasable defines any memory-occupying item that can be freed.
type Releasable interface {

	// Release releases memory occupied by the implementing structure.
	Release()
}

// Factory constructs the payload of a new resource.
type Factory func() (interface{}, error)

// Loader describes a resource loader mechanism.
type Loader interface {

	// Load tries to find and load the resource asociated with the
	// provided id, returning the key it was stored under.
	Load(id string) (Key, error)
}

// Blob is an opaque chunk of resource data, such as compiled
// shader bytecode.
type Blob struct {
	Name string
	Data []byte
}

// Len returns the size of the blob in bytes.
func (b *Blob) Len() int {
	return len(b.Data)
}

// Release drops the reference to the blob's data.
func (b *Blob) Release() {
	b.Data = nil
}
