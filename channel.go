// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "context"

// ErrChannelClosed is raised by Send on a closed Channel.
type ErrChannelClosed struct{}

func (ErrChannelClosed) Error() string { return "channel closed" }

// Channel is Queue's simpler sibling used by Stream pipeline stages: a
// small-bounded (or unbounded, capacity <= 0) rendezvous primitive. Unlike
// Queue, Receive on a closed-and-drained Channel returns (zero, false)
// rather than an error — the idiomatic Go "ok" pattern pipeline stages
// expect, since a stage's own for-range-until-closed loop is its
// termination condition, not a failure.
type Channel[A any] struct {
	q *Queue[A]
}

// NewChannel builds a Channel with the given capacity.
func NewChannel[A any](capacity int) *Channel[A] {
	return &Channel[A]{q: NewQueue[A](capacity)}
}

// Send enqueues x; fails with ErrChannelClosed if the channel is closed.
func (c *Channel[A]) Send(ctx context.Context, x A) error {
	if err := c.q.Send(ctx, x); err != nil {
		if _, ok := err.(ErrQueueClosed); ok {
			return ErrChannelClosed{}
		}
		return err
	}
	return nil
}

// Receive dequeues the next item. ok is false once the channel is closed
// and fully drained; ctx cancellation also yields ok == false.
func (c *Channel[A]) Receive(ctx context.Context) (v A, ok bool) {
	x, err := c.q.Receive(ctx)
	if err != nil {
		var zero A
		return zero, false
	}
	return x, true
}

// Close closes the channel; further Sends fail, Receives drain remaining
// items then return ok == false.
func (c *Channel[A]) Close() { c.q.Close() }
