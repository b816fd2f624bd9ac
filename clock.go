// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync"
	"time"
)

// Clock is the virtualizable time service (spec §6). SleepEffect, Retry
// and Repeat consult Clock rather than time.Sleep directly so tests can
// swap in TestClock.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// LiveClock is the real wall-clock implementation.
type LiveClock struct{}

func (LiveClock) Now() time.Time { return time.Now() }

func (LiveClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TestClock is a logical clock whose time moves only through Advance.
// Sleep does not move the clock and takes no real time of its own: it
// registers a deadline d past the current logical time and blocks until
// Advance reaches that deadline or ctx is done.
type TestClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*clockWaiter
}

type clockWaiter struct {
	deadline time.Time
	ch       chan struct{}
}

// NewTestClock builds a TestClock starting at the given time.
func NewTestClock(start time.Time) *TestClock {
	return &TestClock{now: start}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *TestClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	c.mu.Lock()
	deadline := c.now.Add(d)
	w := &clockWaiter{deadline: deadline, ch: make(chan struct{})}
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Advance moves the logical clock forward by d and wakes every waiter
// whose deadline has now passed.
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	remaining := c.waiters[:0]
	var woken []*clockWaiter
	for _, w := range c.waiters {
		if !w.deadline.After(c.now) {
			woken = append(woken, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	c.waiters = remaining
	c.mu.Unlock()
	for _, w := range woken {
		close(w.ch)
	}
}
