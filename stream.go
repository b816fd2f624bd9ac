// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Stream[A] is a lazy dataflow description: Build writes every element it
// produces into out and closes out exactly once, successfully or not
// (spec.md §4.6). StreamE[A] below is the error-channel variant.
type Stream[A any] struct {
	build func(out *Queue[A]) Effect[any, struct{}]
}

// NewStream wraps a build function as a Stream.
func NewStream[A any](build func(out *Queue[A]) Effect[any, struct{}]) Stream[A] {
	return Stream[A]{build: build}
}

// Build runs the stream's producer against out.
func (s Stream[A]) Build(out *Queue[A]) Effect[any, struct{}] { return s.build(out) }

// FromIterable emits each element of xs in order, then closes.
func FromIterable[A any](xs []A) Stream[A] {
	return NewStream(func(out *Queue[A]) Effect[any, struct{}] {
		return Effect[any, struct{}]{run: func(ec *execContext) (struct{}, *Cause[any]) {
			defer out.Close()
			for _, x := range xs {
				if ic := checkInterrupt[any](ec); ic != nil {
					return struct{}{}, ic
				}
				if err := out.Send(ec.std, x); err != nil {
					return struct{}{}, nil
				}
			}
			return struct{}{}, nil
		}}
	})
}

// runUpstream forks upstream's Build on its own goroutine against a fresh
// Queue and a child std context derived from ec, so a downstream stage can
// cancel it independently (termination rule 2) without affecting ec's own
// caller.
func runUpstream[A any](ec *execContext, upstream Stream[A], capacity int) (*Queue[A], context.CancelFunc) {
	upQ := NewQueue[A](capacity)
	childStd, cancel := context.WithCancel(ec.std)
	childEc := ec.withStd(childStd)
	go func() {
		defer upQ.Close()
		_, _ = runEffect(upstream.build(upQ), childEc)
	}()
	return upQ, cancel
}

// MapStream applies f to each element with up to workers concurrent
// workers; order is preserved only when workers == 1.
func MapStream[A, B any](upstream Stream[A], f func(A) B, workers int) Stream[B] {
	if workers < 1 {
		workers = 1
	}
	return NewStream(func(out *Queue[B]) Effect[any, struct{}] {
		return Effect[any, struct{}]{run: func(ec *execContext) (struct{}, *Cause[any]) {
			upQ, cancelUp := runUpstream(ec, upstream, 0)
			defer cancelUp()

			var wg sync.WaitGroup
			remaining := int32(workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for {
						v, err := upQ.Receive(ec.std)
						if err != nil {
							break
						}
						if sendErr := out.Send(ec.std, f(v)); sendErr != nil {
							cancelUp()
							break
						}
					}
					if atomic.AddInt32(&remaining, -1) == 0 {
						out.Close()
					}
				}()
			}
			wg.Wait()
			return struct{}{}, nil
		}}
	})
}

// FilterStream keeps only elements for which p returns true.
func FilterStream[A any](upstream Stream[A], p func(A) bool, workers int) Stream[A] {
	if workers < 1 {
		workers = 1
	}
	return NewStream(func(out *Queue[A]) Effect[any, struct{}] {
		return Effect[any, struct{}]{run: func(ec *execContext) (struct{}, *Cause[any]) {
			upQ, cancelUp := runUpstream(ec, upstream, 0)
			defer cancelUp()

			var wg sync.WaitGroup
			remaining := int32(workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for {
						v, err := upQ.Receive(ec.std)
						if err != nil {
							break
						}
						if !p(v) {
							continue
						}
						if sendErr := out.Send(ec.std, v); sendErr != nil {
							cancelUp()
							break
						}
					}
					if atomic.AddInt32(&remaining, -1) == 0 {
						out.Close()
					}
				}()
			}
			wg.Wait()
			return struct{}{}, nil
		}}
	})
}

// TakeStream emits at most the first n elements, then closes both ends.
func TakeStream[A any](upstream Stream[A], n int) Stream[A] {
	return NewStream(func(out *Queue[A]) Effect[any, struct{}] {
		return Effect[any, struct{}]{run: func(ec *execContext) (struct{}, *Cause[any]) {
			upQ, cancelUp := runUpstream(ec, upstream, 0)
			defer cancelUp()
			defer out.Close()
			count := 0
			for count < n {
				v, err := upQ.Receive(ec.std)
				if err != nil {
					break
				}
				if sendErr := out.Send(ec.std, v); sendErr != nil {
					break
				}
				count++
			}
			return struct{}{}, nil
		}}
	})
}

// BufferStream interposes an intermediate Queue of the given capacity
// between upstream and downstream, decoupling their backpressure.
func BufferStream[A any](upstream Stream[A], capacity int) Stream[A] {
	return NewStream(func(out *Queue[A]) Effect[any, struct{}] {
		return Effect[any, struct{}]{run: func(ec *execContext) (struct{}, *Cause[any]) {
			upQ, cancelUp := runUpstream(ec, upstream, capacity)
			defer cancelUp()
			defer out.Close()
			for {
				v, err := upQ.Receive(ec.std)
				if err != nil {
					break
				}
				if sendErr := out.Send(ec.std, v); sendErr != nil {
					break
				}
			}
			return struct{}{}, nil
		}}
	})
}

// ThrottleStream paces emission to at most one element per period.
func ThrottleStream[A any](upstream Stream[A], period time.Duration) Stream[A] {
	limiter := rate.NewLimiter(rate.Every(period), 1)
	return NewStream(func(out *Queue[A]) Effect[any, struct{}] {
		return Effect[any, struct{}]{run: func(ec *execContext) (struct{}, *Cause[any]) {
			upQ, cancelUp := runUpstream(ec, upstream, 0)
			defer cancelUp()
			defer out.Close()
			for {
				v, err := upQ.Receive(ec.std)
				if err != nil {
					break
				}
				if werr := limiter.Wait(ec.std); werr != nil {
					break
				}
				if sendErr := out.Send(ec.std, v); sendErr != nil {
					break
				}
			}
			return struct{}{}, nil
		}}
	})
}

// TimeoutStream terminates the stream if no upstream element arrives
// within d of the previous one (or of start).
func TimeoutStream[A any](upstream Stream[A], d time.Duration) Stream[A] {
	return NewStream(func(out *Queue[A]) Effect[any, struct{}] {
		return Effect[any, struct{}]{run: func(ec *execContext) (struct{}, *Cause[any]) {
			upQ, cancelUp := runUpstream(ec, upstream, 0)
			defer cancelUp()
			defer out.Close()
			type res struct {
				v   A
				err error
			}
			for {
				ch := make(chan res, 1)
				go func() {
					v, err := upQ.Receive(ec.std)
					ch <- res{v: v, err: err}
				}()
				select {
				case r := <-ch:
					if r.err != nil {
						return struct{}{}, nil
					}
					if sendErr := out.Send(ec.std, r.v); sendErr != nil {
						return struct{}{}, nil
					}
				case <-time.After(d):
					return struct{}{}, nil
				case <-ec.std.Done():
					return struct{}{}, InterruptCause[any]()
				}
			}
		}}
	})
}

// MergeStream concurrently unions a and b; both upstreams' closes must be
// observed before downstream closes.
func MergeStream[A any](a, b Stream[A]) Stream[A] {
	return NewStream(func(out *Queue[A]) Effect[any, struct{}] {
		return Effect[any, struct{}]{run: func(ec *execContext) (struct{}, *Cause[any]) {
			upA, cancelA := runUpstream(ec, a, 0)
			upB, cancelB := runUpstream(ec, b, 0)
			defer cancelA()
			defer cancelB()

			var wg sync.WaitGroup
			remaining := int32(2)
			drain := func(q *Queue[A]) {
				defer wg.Done()
				for {
					v, err := q.Receive(ec.std)
					if err != nil {
						break
					}
					if sendErr := out.Send(ec.std, v); sendErr != nil {
						cancelA()
						cancelB()
						break
					}
				}
				if atomic.AddInt32(&remaining, -1) == 0 {
					out.Close()
				}
			}
			wg.Add(2)
			go drain(upA)
			go drain(upB)
			wg.Wait()
			return struct{}{}, nil
		}}
	})
}

// ViaAcquireRelease runs workers concurrent workers, each acquiring its
// own resource before entering the loop and releasing it on termination,
// whether normal, on error, or because downstream closed.
func ViaAcquireRelease[A, R, B any](upstream Stream[A], acquire func() (R, error), release func(R), f func(R, A) B, workers int) Stream[B] {
	if workers < 1 {
		workers = 1
	}
	return NewStream(func(out *Queue[B]) Effect[any, struct{}] {
		return Effect[any, struct{}]{run: func(ec *execContext) (struct{}, *Cause[any]) {
			upQ, cancelUp := runUpstream(ec, upstream, 0)
			defer cancelUp()

			var wg sync.WaitGroup
			remaining := int32(workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					r, err := acquire()
					if err != nil {
						cancelUp()
						if atomic.AddInt32(&remaining, -1) == 0 {
							out.Close()
						}
						return
					}
					defer release(r)
					for {
						v, rerr := upQ.Receive(ec.std)
						if rerr != nil {
							break
						}
						if sendErr := out.Send(ec.std, f(r, v)); sendErr != nil {
							cancelUp()
							break
						}
					}
					if atomic.AddInt32(&remaining, -1) == 0 {
						out.Close()
					}
				}()
			}
			wg.Wait()
			return struct{}{}, nil
		}}
	})
}

// StreamE[A] is Stream's error-channel variant: the producer pushes an
// exception to errs and closes out to terminate on error.
type StreamE[A any] struct {
	build func(out *Queue[A], errs *Queue[error]) Effect[any, struct{}]
}

// NewStreamE wraps a build function as a StreamE.
func NewStreamE[A any](build func(out *Queue[A], errs *Queue[error]) Effect[any, struct{}]) StreamE[A] {
	return StreamE[A]{build: build}
}

// Build runs the stream's producer against out and errs.
func (s StreamE[A]) Build(out *Queue[A], errs *Queue[error]) Effect[any, struct{}] {
	return s.build(out, errs)
}

// LiftStreamE adapts a plain, never-failing Stream into a StreamE whose
// error Queue is never written to.
func LiftStreamE[A any](s Stream[A]) StreamE[A] {
	return NewStreamE(func(out *Queue[A], _ *Queue[error]) Effect[any, struct{}] {
		return s.build(out)
	})
}
