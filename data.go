// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Never is an uninhabited marker error type: an Effect[Never, A] is one
// whose typed Fail channel has been statically eliminated (e.g. by
// Fold). Nothing ever constructs a Cause[Never] Fail leaf.
type Never struct{}

// Pair is a simple two-element tuple, used by ZipEffect and ZipPar, which
// must return two values from one Effect.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Option represents an optional value, returned by Timeout (None on
// deadline expiry) and by HeadSink.
type Option[A any] struct {
	value   A
	present bool
}

// Some wraps a present value.
func Some[A any](a A) Option[A] { return Option[A]{value: a, present: true} }

// None is the absent value.
func None[A any]() Option[A] { return Option[A]{} }

// IsSome reports whether the Option holds a value.
func (o Option[A]) IsSome() bool { return o.present }

// Get returns the wrapped value and true, or the zero value and false.
func (o Option[A]) Get() (A, bool) { return o.value, o.present }
