// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "go.uber.org/multierr"

// Validated[A] is an accumulating-errors result, distinct from Cause:
// where a Cause records one already-realized failure for a single
// computation, Validated collects every independent failure from
// sibling computations that all ran to completion. Layer's Par ("⊕")
// uses this to report both sides' acquire failures together instead of
// discarding one arbitrarily.
type Validated[A any] struct {
	value  A
	errors []error
	ok     bool
}

// Valid builds a successful Validated.
func Valid[A any](a A) Validated[A] { return Validated[A]{value: a, ok: true} }

// Invalid builds a failed Validated carrying one or more errors.
func Invalid[A any](errs ...error) Validated[A] { return Validated[A]{errors: errs} }

// IsValid reports success.
func (v Validated[A]) IsValid() bool { return v.ok }

// Value returns the success value and true, or the zero value and false.
func (v Validated[A]) Value() (A, bool) { return v.value, v.ok }

// Errors returns the accumulated errors; empty when valid.
func (v Validated[A]) Errors() []error { return v.errors }

// Err joins every accumulated error into one via multierr, or nil when
// valid.
func (v Validated[A]) Err() error {
	var err error
	for _, e := range v.errors {
		err = multierr.Append(err, e)
	}
	return err
}

// Combine2 applicatively combines two Validated values with f. If both
// are valid, f runs and the result is valid. If either is invalid, every
// error from both sides accumulates into one Invalid rather than
// short-circuiting on the first.
func Combine2[A, B, C any](a Validated[A], b Validated[B], f func(A, B) C) Validated[C] {
	if a.ok && b.ok {
		return Valid(f(a.value, b.value))
	}
	errs := make([]error, 0, len(a.errors)+len(b.errors))
	errs = append(errs, a.errors...)
	errs = append(errs, b.errors...)
	return Invalid[C](errs...)
}
