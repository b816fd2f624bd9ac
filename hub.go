// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync"
)

// ErrHubClosed is raised by Publish and Subscribe once a Hub is closed.
type ErrHubClosed struct{}

func (ErrHubClosed) Error() string { return "hub closed" }

// Subscription is a Hub subscriber's dedicated inbound Queue.
type Subscription[A any] struct {
	queue *Queue[A]
	hub   *Hub[A]
}

// Receive dequeues the next broadcast item for this subscription.
func (s *Subscription[A]) Receive(ctx context.Context) (A, error) {
	return s.queue.Receive(ctx)
}

// Unsubscribe removes this subscription from its Hub and closes only its
// own queue, leaving every other subscriber and the Hub itself open —
// mirrors original_source/effectpy/hub.py's Subscription.close(), which
// calls back into the Hub to drop just the one subscriber.
func (s *Subscription[A]) Unsubscribe() {
	s.hub.unsubscribe(s.queue)
}

// Hub is a multi-subscriber broadcast primitive: each Subscribe call gets
// its own Queue; Publish snapshots the subscriber list under a lock, then
// sends to each outside the lock, so one slow subscriber's backpressure
// cannot stall the snapshot (but does stall Publish's own completion,
// matching spec.md §4.5).
type Hub[A any] struct {
	mu     sync.Mutex
	subs   []*Queue[A]
	closed bool
}

// NewHub builds an empty, open Hub.
func NewHub[A any]() *Hub[A] {
	return &Hub[A]{}
}

// Subscribe registers a new subscriber with a dedicated Queue of the given
// capacity. Returns ErrHubClosed if the hub is already closed.
func (h *Hub[A]) Subscribe(capacity int) (*Subscription[A], error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed{}
	}
	q := NewQueue[A](capacity)
	h.subs = append(h.subs, q)
	return &Subscription[A]{queue: q, hub: h}, nil
}

// unsubscribe drops q from the subscriber set so future Publish calls no
// longer snapshot it, then closes only q. A no-op once the Hub itself is
// closed, since Close already closed every queue including this one.
func (h *Hub[A]) unsubscribe(q *Queue[A]) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	for i, sub := range h.subs {
		if sub == q {
			h.subs = append(h.subs[:i], h.subs[i+1:]...)
			break
		}
	}
	h.mu.Unlock()
	q.Close()
}

// Publish snapshots the current subscriber list and sends x to each,
// outside the lock. Blocks on whichever subscriber queue is currently
// full longest, since every send must complete before Publish returns.
func (h *Hub[A]) Publish(ctx context.Context, x A) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed{}
	}
	snapshot := make([]*Queue[A], len(h.subs))
	copy(snapshot, h.subs)
	h.mu.Unlock()

	for _, q := range snapshot {
		if err := q.Send(ctx, x); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every subscriber's queue and refuses future subscriptions.
func (h *Hub[A]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, q := range h.subs {
		q.Close()
	}
}

// PublishEffect lifts Publish into an Effect.
func PublishEffect[E, A any](h *Hub[A], x A, onClosed func(error) E) Effect[E, struct{}] {
	return Effect[E, struct{}]{run: func(ec *execContext) (struct{}, *Cause[E]) {
		if ic := checkInterrupt[E](ec); ic != nil {
			return struct{}{}, ic
		}
		if err := h.Publish(ec.std, x); err != nil {
			if ec.std.Err() != nil {
				return struct{}{}, InterruptCause[E]()
			}
			return struct{}{}, FailCause[E](onClosed(err))
		}
		return struct{}{}, nil
	}}
}

// SubscriptionReceiveEffect lifts Subscription.Receive into an Effect.
func SubscriptionReceiveEffect[E, A any](s *Subscription[A], onClosed func(error) E) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		var zero A
		if ic := checkInterrupt[E](ec); ic != nil {
			return zero, ic
		}
		v, err := s.Receive(ec.std)
		if err != nil {
			if ec.std.Err() != nil {
				return zero, InterruptCause[E]()
			}
			return zero, FailCause[E](onClosed(err))
		}
		return v, nil
	}}
}
