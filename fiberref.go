// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "sync"

// fiberRefStore is the task-local variable table carried by every
// execContext. Fork clones it (copy-on-write): the child gets an
// independent map seeded with the parent's current values, so later
// mutations in either fiber are invisible to the other.
type fiberRefStore struct {
	mu     sync.Mutex
	values map[any]any
}

func newFiberRefStore() *fiberRefStore {
	return &fiberRefStore{values: map[any]any{}}
}

func (s *fiberRefStore) clone() *fiberRefStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[any]any, len(s.values))
	for k, v := range s.values {
		cp[k] = v
	}
	return &fiberRefStore{values: cp}
}

func (s *fiberRefStore) get(key any) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *fiberRefStore) set(key any, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
}

// FiberRef[T] is a task-local variable: each fiber sees its own value,
// inherited from its parent at fork time and thereafter independent.
type FiberRef[T any] struct {
	initial T
}

// NewFiberRef creates a FiberRef with the given default value, seen by
// any fiber that never calls Set.
func NewFiberRef[T any](initial T) *FiberRef[T] {
	return &FiberRef[T]{initial: initial}
}

// Get lifts a read into an Effect.
func (r *FiberRef[T]) Get() Effect[any, T] {
	return Effect[any, T]{run: func(ec *execContext) (T, *Cause[any]) {
		if v, ok := ec.fstore.get(r); ok {
			return v.(T), nil
		}
		return r.initial, nil
	}}
}

// Set lifts a write into an Effect, visible to this fiber and any fiber
// it forks afterward, but never to its parent or siblings.
func (r *FiberRef[T]) Set(v T) Effect[any, struct{}] {
	return Effect[any, struct{}]{run: func(ec *execContext) (struct{}, *Cause[any]) {
		ec.fstore.set(r, v)
		return struct{}{}, nil
	}}
}

// GetFiberRef reads ref, typed to a caller-chosen error channel E so it
// composes with the rest of an Effect[E, A] pipeline without a MapError.
func GetFiberRef[E, T any](ref *FiberRef[T]) Effect[E, T] {
	return Effect[E, T]{run: func(ec *execContext) (T, *Cause[E]) {
		if v, ok := ec.fstore.get(ref); ok {
			return v.(T), nil
		}
		return ref.initial, nil
	}}
}

// SetFiberRef writes ref, typed to a caller-chosen error channel E.
func SetFiberRef[E, T any](ref *FiberRef[T], v T) Effect[E, struct{}] {
	return Effect[E, struct{}]{run: func(ec *execContext) (struct{}, *Cause[E]) {
		ec.fstore.set(ref, v)
		return struct{}{}, nil
	}}
}
