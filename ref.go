// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "sync"

// Ref[T] is a single mutable cell with internal locking, safe for
// concurrent access from multiple fibers.
type Ref[T any] struct {
	mu    sync.Mutex
	value T
}

// NewRef creates a Ref holding the initial value.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{value: initial}
}

// Get reads the current value.
func (r *Ref[T]) Get() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Set overwrites the current value.
func (r *Ref[T]) Set(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = v
}

// Update atomically applies f to the current value.
func (r *Ref[T]) Update(f func(T) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = f(r.value)
}

// GetAndUpdate atomically applies f, returning the value as it was
// before the update.
func (r *Ref[T]) GetAndUpdate(f func(T) T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.value
	r.value = f(old)
	return old
}

// GetEffect lifts Get into an Effect for use inside effect pipelines.
func GetEffect[E, T any](r *Ref[T]) Effect[E, T] {
	return Sync[E, T](r.Get)
}

// SetEffect lifts Set into an Effect.
func SetEffect[E, T any](r *Ref[T], v T) Effect[E, struct{}] {
	return Sync[E, struct{}](func() struct{} { r.Set(v); return struct{}{} })
}

// UpdateEffect lifts Update into an Effect.
func UpdateEffect[E, T any](r *Ref[T], f func(T) T) Effect[E, struct{}] {
	return Sync[E, struct{}](func() struct{} { r.Update(f); return struct{}{} })
}
