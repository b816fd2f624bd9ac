// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync"
)

// Sink[A, R] consumes a stream's values and errors and yields a final
// result R.
type Sink[A, R any] struct {
	run func(ctx context.Context, vals *Queue[A], errs *Queue[error]) (R, error)
}

type sinkEvent[A any] struct {
	value A
	err   error
	isErr bool
}

// mergeSinkSources fans vals and errs into one channel, tagged by source.
// Each source goroutine exits as soon as its queue closes; a Sink that
// abandons the channel early (HeadSink) must Close both queues itself so
// these goroutines don't block forever on a Receive nobody drains.
func mergeSinkSources[A any](ctx context.Context, vals *Queue[A], errs *Queue[error]) <-chan sinkEvent[A] {
	out := make(chan sinkEvent[A])
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for {
			v, err := vals.Receive(ctx)
			if err != nil {
				return
			}
			select {
			case out <- sinkEvent[A]{value: v}:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			e, err := errs.Receive(ctx)
			if err != nil {
				return
			}
			select {
			case out <- sinkEvent[A]{err: e, isErr: true}:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() { wg.Wait(); close(out) }()
	return out
}

// FoldSink accumulates every value with f starting from init. An exception
// observed on the error queue surfaces as the Sink's own failure, even if
// values remain unconsumed.
func FoldSink[A, R any](init R, f func(R, A) R) Sink[A, R] {
	return Sink[A, R]{run: func(ctx context.Context, vals *Queue[A], errs *Queue[error]) (R, error) {
		acc := init
		for ev := range mergeSinkSources(ctx, vals, errs) {
			if ev.isErr {
				return acc, ev.err
			}
			acc = f(acc, ev.value)
		}
		return acc, nil
	}}
}

// HeadSink returns the first value, or None if the stream closes empty.
// It closes both queues once it has its answer, signaling the producer to
// stop (termination rule 2: downstream abandoning output closes upstream).
func HeadSink[A any]() Sink[A, Option[A]] {
	return Sink[A, Option[A]]{run: func(ctx context.Context, vals *Queue[A], errs *Queue[error]) (Option[A], error) {
		for ev := range mergeSinkSources(ctx, vals, errs) {
			vals.Close()
			errs.Close()
			if ev.isErr {
				return None[A](), ev.err
			}
			return Some(ev.value), nil
		}
		return None[A](), nil
	}}
}

// DrainSink consumes and discards every value, surfacing only a failure
// if one appears on the error queue.
func DrainSink[A any]() Sink[A, struct{}] {
	return Sink[A, struct{}]{run: func(ctx context.Context, vals *Queue[A], errs *Queue[error]) (struct{}, error) {
		for ev := range mergeSinkSources(ctx, vals, errs) {
			if ev.isErr {
				return struct{}{}, ev.err
			}
		}
		return struct{}{}, nil
	}}
}

// RunStream wires stream's producer and sink's consumer together
// concurrently, over fresh value and error queues, and returns the sink's
// result as the Effect's success value, or its error as a Fail[error]
// (the error queue carries exceptions, not typed domain failures, so
// there is no E to map it into — callers wanting a typed failure should
// use RefineOrDie downstream).
func RunStream[A, R any](stream StreamE[A], sink Sink[A, R]) Effect[error, R] {
	return Effect[error, R]{run: func(ec *execContext) (R, *Cause[error]) {
		var zero R
		if ic := checkInterrupt[error](ec); ic != nil {
			return zero, ic
		}
		out := NewQueue[A](0)
		errs := NewQueue[error](0)
		childStd, cancel := context.WithCancel(ec.std)
		defer cancel()
		childEc := ec.withStd(childStd)

		go func() { _, _ = runEffect(stream.build(out, errs), childEc) }()

		r, err := sink.run(childStd, out, errs)
		if err != nil {
			return zero, FailCause[error](err)
		}
		return r, nil
	}}
}

// RunPlainStream is RunStream for a Stream with no error channel.
func RunPlainStream[A, R any](stream Stream[A], sink Sink[A, R]) Effect[error, R] {
	return RunStream[A, R](LiftStreamE(stream), sink)
}
