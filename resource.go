// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// AcquireRelease is the resource bracket: acquire runs uninterruptibly,
// use runs interruptibly, and release runs uninterruptibly exactly once
// no matter how use terminates (success, fail, die, or interrupt).
// release's own failure is swallowed so the original outcome of use
// (or of acquire, if acquire itself failed) is always what's returned.
func AcquireRelease[E, R, A any](
	acquire Effect[E, R],
	release func(R) Effect[any, struct{}],
	use func(R) Effect[E, A],
) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		var zero A
		acquireEc := ec.withInterruptible(false)
		r, c := runEffect(acquire, acquireEc)
		if c != nil {
			return zero, c
		}

		a, useCause := runEffect(use(r), ec)

		releaseEc := ec.withInterruptible(false)
		_, _ = runEffect(release(r), releaseEc)

		return a, useCause
	}}
}

// OnErrorCleanup runs cleanup only when body fails with Fail or Die (not
// Interrupt — see OnInterrupt for that case), then re-raises the original
// cause; it never swallows the original failure. A thin rename of
// OnError kept for readers coming from kont's Bracket/OnError vocabulary.
func OnErrorCleanup[E, A any](body Effect[E, A], cleanup func(*Cause[E]) Effect[any, struct{}]) Effect[E, A] {
	return OnError(body, cleanup)
}
