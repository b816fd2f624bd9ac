// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package effect provides a Go effect system: lazy, composable
// asynchronous computations with explicit success/failure channels,
// structured concurrency, resource-safe acquisition, and backpressured
// streaming.
//
// # Core Type
//
// [Effect] describes a computation without running it. Interpreting one,
// via [RunSync] or a [Runtime], yields success A, a typed failure E
// ([Fail]), an unexpected defect ([Die]), or cancellation ([Interrupt]).
// The three are unified in [Cause], a small tagged tree composed with
// [ThenCause] (sequential) and [BothCause] (concurrent).
//
//   - [Succeed], [Fail], [FailCauseEffect]: lift a value or failure
//   - [Sync], [Async], [Attempt]: lift Go functions, recovering panics as Die
//   - [Map], [FlatMap], [ZipWith], [ZipEffect]: sequence and combine
//   - [CatchAll], [Fold], [FoldEffect], [MapError], [RefineOrDie]: recover
//   - [Ensuring], [OnError], [OnInterrupt], [Annotate], [Timeout]: guards
//
// # Context, Layer, Scope
//
// [Context] is an immutable, type-keyed service registry. [Layer] builds
// Context fragments and registers their teardown; [Then] composes layers
// sequentially, [Par] concurrently (their dependents are built against
// the layer's own contribution, memoized per [Layer] identity across one
// composite [BuildLayer]). [Scope] is the LIFO finalizer stack every
// Layer teardown and resource release ultimately registers with.
//
// # Fiber, Runtime, Supervisor
//
// A [Fiber] is a handle to a running Effect with lifecycle and
// interruption ([Fiber.Interrupt]); [FiberHandle] adds the typed [Exit]
// materialized on completion. [Runtime] forks fibers independent of their
// forker ([Fork], [ForkEffect]) and notifies a [Supervisor] of lifecycle
// events. Combinators in parallel.go ([ZipPar], [Race], [RaceAll],
// [ForEachPar], [MergeAll]) instead cancel their children on first
// failure — the structured-concurrency half of spec.md §5.
//
// Unlike kont's synchronous, defunctionalized CPS trampoline, this
// package's interpreter runs each forked Effect on its own goroutine,
// coordinated through context.Context cancellation and channels — the
// native Go expression of the asyncio-style structured concurrency this
// package's semantics were distilled from.
//
// # Queue, Hub, Channel
//
// [Queue] is a bounded (or unbounded) FIFO; [Hub] is multi-subscriber
// broadcast over per-subscriber Queues; [Channel] is Queue's simpler
// sibling for Stream pipeline stages.
//
// # Stream and Sink
//
// A [Stream] writes elements into an output [Queue] and closes it exactly
// once ([FromIterable], [MapStream], [FilterStream], [TakeStream],
// [BufferStream], [ThrottleStream], [TimeoutStream], [MergeStream],
// [ViaAcquireRelease]). [StreamE] adds a parallel error Queue. A [Sink]
// consumes both and yields one result ([FoldSink], [HeadSink],
// [DrainSink]); [RunStream] wires a StreamE and a Sink together.
//
// # Schedule
//
// [Schedule] is a small state machine driving [Retry] and [Repeat]:
// [Recurs], [Spaced], [Exponential], and the [Jittered] decorator.
//
// # Ref, Deferred, FiberRef
//
// [Ref] is a mutex-guarded cell. [Deferred] is a single-assignment
// future, using the same one-shot-resume idiom kont's Affine enforced
// for continuations. [FiberRef] is a task-local variable, inherited by a
// forked fiber and thereafter independent (copy-on-write).
//
// # Services
//
// [Clock], [Random], [Logger], [Metrics], and [Tracer] are looked up in
// Context by type. [Instrument] wraps an Effect to log its start/end,
// open a trace span around it, and record its duration into a histogram.
package effect
