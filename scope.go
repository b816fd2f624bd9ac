// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// Finalizer is a zero-argument cleanup action. Its own failure is
// swallowed by Scope so that sibling finalizers still run; see
// Scope.Close.
type Finalizer func(ctx context.Context) error

// Scope is an ordered LIFO stack of finalizers with an idempotent Close.
// Once closed, newly added finalizers run immediately instead of queuing.
// Scope is safe for concurrent use; it is mutated only by its owner in
// practice, but AddFinalizer/Close both take a lock so that a fiber
// registering cleanup concurrently with the owner closing never races.
type Scope struct {
	mu         sync.Mutex
	finalizers []Finalizer
	closed     bool
	logger     Logger
}

// NewScope creates an open Scope. A nil logger disables boundary logging
// of swallowed finalizer failures.
func NewScope(logger Logger) *Scope {
	return &Scope{logger: logger}
}

// AddFinalizer registers fin to run on Close, in LIFO order relative to
// other registrations. If the Scope is already closed, fin runs
// immediately instead.
func (s *Scope) AddFinalizer(ctx context.Context, fin Finalizer) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.runOne(ctx, fin)
		return
	}
	s.finalizers = append(s.finalizers, fin)
	s.mu.Unlock()
}

// Close drains the finalizer stack in LIFO order. Close is idempotent:
// calling it again is a no-op. An individual finalizer's error never
// prevents the others from running; all swallowed errors are combined
// with multierr and logged at the boundary if a logger is present.
func (s *Scope) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	fins := s.finalizers
	s.finalizers = nil
	s.mu.Unlock()

	var errs error
	for i := len(fins) - 1; i >= 0; i-- {
		if err := s.runOne(ctx, fins[i]); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (s *Scope) runOne(ctx context.Context, fin Finalizer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if s.logger != nil {
				s.logger.Error(ctx, "effect: finalizer panicked", Field{Key: "panic", Value: r})
			}
		}
	}()
	err = fin(ctx)
	if err != nil && s.logger != nil {
		s.logger.Error(ctx, "effect: finalizer failed", Field{Key: "error", Value: err.Error()})
	}
	return err
}

// Closed reports whether Close has already run.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
