// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync"
)

// ErrQueueClosed is the sentinel failure for operations against a closed
// Queue: subsequent sends always raise it; receives raise it only once
// every buffered item has been drained.
type ErrQueueClosed struct{}

func (ErrQueueClosed) Error() string { return "queue closed" }

// Queue is a bounded FIFO; capacity 0 means unbounded. Send blocks when
// full, receive blocks when empty. Close is idempotent, wakes every
// waiter, and after it fires sends fail immediately while receives keep
// draining remaining items before failing too. FIFO order is preserved
// per producer; order across producers is unspecified, matching a plain
// channel's behavior under concurrent senders.
type Queue[A any] struct {
	mu       sync.Mutex
	items    []A
	cap      int
	closed   bool
	notEmpty chan struct{}
	notFull  chan struct{}
}

// NewQueue builds a Queue with the given capacity; capacity <= 0 means
// unbounded (Send never blocks on fullness).
func NewQueue[A any](capacity int) *Queue[A] {
	return &Queue[A]{cap: capacity, notEmpty: make(chan struct{}), notFull: make(chan struct{})}
}

func (q *Queue[A]) broadcast(ch *chan struct{}) {
	close(*ch)
	*ch = make(chan struct{})
}

// Send enqueues x, blocking while the queue is full and open. Returns
// ErrQueueClosed if the queue is or becomes closed before room frees up.
func (q *Queue[A]) Send(ctx context.Context, x A) error {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return ErrQueueClosed{}
		}
		if q.cap <= 0 || len(q.items) < q.cap {
			q.items = append(q.items, x)
			q.broadcast(&q.notEmpty)
			q.mu.Unlock()
			return nil
		}
		wait := q.notFull
		q.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Receive dequeues the oldest item, blocking while the queue is empty and
// open. Once closed and drained, it returns ErrQueueClosed.
func (q *Queue[A]) Receive(ctx context.Context) (A, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			x := q.items[0]
			q.items = q.items[1:]
			q.broadcast(&q.notFull)
			q.mu.Unlock()
			return x, nil
		}
		if q.closed {
			q.mu.Unlock()
			var zero A
			return zero, ErrQueueClosed{}
		}
		wait := q.notEmpty
		q.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			var zero A
			return zero, ctx.Err()
		}
	}
}

// Close marks the queue closed, waking every blocked sender and receiver.
// Idempotent.
func (q *Queue[A]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.broadcast(&q.notEmpty)
	q.broadcast(&q.notFull)
}

// Len reports the number of items currently buffered.
func (q *Queue[A]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// SendEffect lifts Send into an Effect, racing against the fiber's own
// cancellation the same way every other blocking primitive in this
// package does.
func SendEffect[E, A any](q *Queue[A], x A, onClosed func(error) E) Effect[E, struct{}] {
	return Effect[E, struct{}]{run: func(ec *execContext) (struct{}, *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return struct{}{}, ic
		}
		if err := q.Send(ec.std, x); err != nil {
			if ec.std.Err() != nil {
				return struct{}{}, InterruptCause[E]()
			}
			return struct{}{}, FailCause[E](onClosed(err))
		}
		return struct{}{}, nil
	}}
}

// ReceiveEffect lifts Receive into an Effect.
func ReceiveEffect[E, A any](q *Queue[A], onClosed func(error) E) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		var zero A
		if ic := checkInterrupt[E](ec); ic != nil {
			return zero, ic
		}
		v, err := q.Receive(ec.std)
		if err != nil {
			if ec.std.Err() != nil {
				return zero, InterruptCause[E]()
			}
			return zero, FailCause[E](onClosed(err))
		}
		return v, nil
	}}
}
