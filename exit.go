// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Exit is the completion record of a fiber or an explicit Effect
// evaluation: either Success(A) or Failure(Cause[E]).
type Exit[E, A any] struct {
	ok    bool
	value A
	cause *Cause[E]
}

// SucceedExit builds a successful Exit.
func SucceedExit[E, A any](a A) Exit[E, A] { return Exit[E, A]{ok: true, value: a} }

// FailExit builds a failed Exit from a Cause.
func FailExit[E, A any](c *Cause[E]) Exit[E, A] { return Exit[E, A]{ok: false, cause: c} }

// IsSuccess reports whether the Exit completed successfully.
func (e Exit[E, A]) IsSuccess() bool { return e.ok }

// IsFailure reports whether the Exit terminated in a Cause.
func (e Exit[E, A]) IsFailure() bool { return !e.ok }

// Value returns the success value and true, or the zero value and false.
func (e Exit[E, A]) Value() (A, bool) { return e.value, e.ok }

// Cause returns the failure Cause and true, or nil and false.
func (e Exit[E, A]) Cause() (*Cause[E], bool) {
	if e.ok {
		return nil, false
	}
	return e.cause, true
}
