// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Key identifies a slot in a Storage. Keys are never reused.
type Key uint64

// Handle is a non-owning reference to a resource. It is only
// valid while its generation matches the slot's.
type Handle struct {
	Key Key
	Gen uint64
}

// NewStorage creates an empty Storage. If log is nil the
// standard logrus logger is used.
func NewStorage(log logrus.FieldLogger) *Storage {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Storage{
		log:   log.WithField("component", "gfx.storage"),
		slots: make(map[Key]*Res),
		tags:  make(map[string]Key),
	}
}

// Storage owns every resource stored in it. Resources are created
// either cached, deduplicated by a tag, or loaded, always unique.
// It is not safe for concurrent use; mutation is expected during
// setup and loading only.
type Storage struct {
	log logrus.FieldLogger

	next  Key
	slots map[Key]*Res
	tags  map[string]Key
}

// Cached returns the key that was created for tag, invoking
// factory only if the tag was not seen before or its slot was
// vacated since. A vacated slot is refilled under the same key.
func (s *Storage) Cached(tag string, factory Factory) (Key, error) {
	if key, ok := s.tags[tag]; ok {
		res := s.slots[key]
		if !res.Empty() {
			return key, nil
		}
		v, err := factory()
		if err != nil {
			return 0, fmt.Errorf("cached %q: %w", tag, err)
		}
		res.store(v)
		s.log.WithFields(logrus.Fields{"tag": tag, "key": key, "generation": res.gen}).Debug("cached resource refilled")
		return key, nil
	}
	key, err := s.create(factory)
	if err != nil {
		return 0, fmt.Errorf("cached %q: %w", tag, err)
	}
	s.tags[tag] = key
	s.log.WithFields(logrus.Fields{"tag": tag, "key": key}).Debug("cached resource created")
	return key, nil
}

// Loaded always creates a new resource under a fresh key.
func (s *Storage) Loaded(factory Factory) (Key, error) {
	key, err := s.create(factory)
	if err != nil {
		return 0, fmt.Errorf("loaded: %w", err)
	}
	s.log.WithField("key", key).Debug("loaded resource created")
	return key, nil
}

func (s *Storage) create(factory Factory) (Key, error) {
	v, err := factory()
	if err != nil {
		return 0, err
	}
	s.next++
	res := &Res{}
	res.store(v)
	s.slots[s.next] = res
	return s.next, nil
}

// Tagged returns the key a tag was cached under. It fails softly
// when the tag is unknown or its slot was vacated.
func (s *Storage) Tagged(tag string) (Key, bool) {
	key, ok := s.tags[tag]
	if !ok || s.slots[key].Empty() {
		return 0, false
	}
	return key, true
}

// Get returns the slot for key. It fails softly when the key is
// unknown or the slot is vacant.
func (s *Storage) Get(key Key) (*Res, bool) {
	res, ok := s.slots[key]
	if !ok || res.Empty() {
		return nil, false
	}
	return res, true
}

// Handle returns a handle to the current occupant of key.
func (s *Storage) Handle(key Key) (Handle, bool) {
	res, ok := s.Get(key)
	if !ok {
		return Handle{}, false
	}
	return Handle{Key: key, Gen: res.gen}, true
}

// Replace stores v in an existing slot, bumping its generation.
// Handles issued before the call become stale.
func (s *Storage) Replace(key Key, v interface{}) error {
	res, ok := s.slots[key]
	if !ok {
		return ErrUnknownKey
	}
	res.store(v)
	s.log.WithFields(logrus.Fields{"key": key, "generation": res.gen}).Debug("resource replaced")
	return nil
}

// Clear vacates the slot of key, bumping its generation.
// The key stays valid and can be filled again with Replace.
func (s *Storage) Clear(key Key) error {
	res, ok := s.slots[key]
	if !ok {
		return ErrUnknownKey
	}
	res.clear()
	return nil
}

// Len returns the number of occupied slots.
func (s *Storage) Len() int {
	var n int
	for _, res := range s.slots {
		if !res.Empty() {
			n++
		}
	}
	return n
}

// Release vacates every slot, releasing what they hold.
// Keys and tags stay issued, Cached refills a released tag.
func (s *Storage) Release() {
	for _, res := range s.slots {
		if !res.Empty() {
			res.clear()
		}
	}
	s.log.Info("storage released")
}

func (s *Storage) resolve(h Handle) (*Res, error) {
	res, ok := s.slots[h.Key]
	if !ok {
		return nil, fmt.Errorf("key %d: %w", h.Key, ErrUnknownKey)
	}
	if res.gen != h.Gen {
		return nil, fmt.Errorf("key %d generation %d, slot at %d: %w", h.Key, h.Gen, res.gen, ErrStaleHandle)
	}
	if res.Empty() {
		return nil, fmt.Errorf("key %d: %w", h.Key, ErrVacant)
	}
	return res, nil
}

// Lookup returns the resource h refers to as a T. It fails when the
// handle is stale or the resource was stored as another type.
func Lookup[T any](s *Storage, h Handle) (T, error) {
	var zero T
	res, err := s.resolve(h)
	if err != nil {
		return zero, err
	}
	v, ok := res.cell.val.(T)
	if !ok {
		return zero, fmt.Errorf("key %d holds %v: %w", h.Key, res.cell.typ, ErrTypeMismatch)
	}
	return v, nil
}

// MustLookup is like Lookup but panics on failure. Use it where a
// failing lookup can only mean a programming error.
func MustLookup[T any](s *Storage, h Handle) T {
	v, err := Lookup[T](s, h)
	if err != nil {
		panic(err)
	}
	return v
}
