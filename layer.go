// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"context"
	"sync"
)

// Layer builds a fragment of a Context and registers the matching
// teardown. Layers compose sequentially (Then, "+") and in parallel
// (Par, "⊕"); within one composite Build, a leaf layer's acquire runs at
// most once no matter how many times it's referenced, memoized by the
// Layer's own identity.
type Layer struct {
	build func(parent *Context, memo *layerMemo) (added *Context, err error)
}

// layerMemo is shared across one composite Build call: it deduplicates
// acquires by *Layer identity and accumulates every teardown into a
// single Scope closed in reverse build order.
type layerMemo struct {
	mu    sync.Mutex
	once  map[*Layer]*sync.Once
	cache map[*Layer]layerBuildResult
	scope *Scope
}

type layerBuildResult struct {
	added *Context
	err   error
}

func newLayerMemo(scope *Scope) *layerMemo {
	return &layerMemo{once: map[*Layer]*sync.Once{}, cache: map[*Layer]layerBuildResult{}, scope: scope}
}

func (m *layerMemo) buildOnce(l *Layer, fn func() (*Context, error)) (*Context, error) {
	m.mu.Lock()
	once, ok := m.once[l]
	if !ok {
		once = &sync.Once{}
		m.once[l] = once
	}
	m.mu.Unlock()

	once.Do(func() {
		added, err := fn()
		m.mu.Lock()
		m.cache[l] = layerBuildResult{added: added, err: err}
		m.mu.Unlock()
	})

	m.mu.Lock()
	res := m.cache[l]
	m.mu.Unlock()
	return res.added, res.err
}

// NewLayer builds a leaf Layer. acquire receives the parent Context (for
// reading dependencies) and returns ONLY the new entries it contributes
// (not merged with parent). release tears those entries down; pass nil
// if there is nothing to release.
func NewLayer(acquire func(parent *Context) (*Context, error), release func(built *Context) error) *Layer {
	l := &Layer{}
	l.build = func(parent *Context, memo *layerMemo) (*Context, error) {
		return memo.buildOnce(l, func() (*Context, error) {
			added, err := acquire(parent)
			if err != nil {
				return nil, err
			}
			if release != nil {
				built := Merge(parent, added)
				memo.scope.AddFinalizer(context.Background(), func(context.Context) error {
					return release(built)
				})
			}
			return added, nil
		})
	}
	return l
}

// Then composes a and b sequentially ("+" in spec.md): a is acquired,
// then b is acquired against a's enriched context. If b's acquire fails,
// a is still registered for teardown (via the shared scope) before the
// error surfaces to the caller of BuildLayer/BuildLayerScoped.
func Then(a, b *Layer) *Layer {
	return &Layer{build: func(parent *Context, memo *layerMemo) (*Context, error) {
		addedA, err := a.build(parent, memo)
		if err != nil {
			return nil, err
		}
		addedB, err := b.build(Merge(parent, addedA), memo)
		if err != nil {
			return nil, err
		}
		return Merge(addedA, addedB), nil
	}}
}

// Par composes a and b concurrently ("⊕" in spec.md). On key collision
// between the two sides' contributions, b's entry wins — spec.md's
// Open Question on ⊕ collisions is resolved as "later-added wins",
// deterministically, matching Context.Merge's own rule (see DESIGN.md).
// If both sides fail, both errors are reported together via Validated
// instead of one being silently dropped.
func Par(a, b *Layer) *Layer {
	return &Layer{build: func(parent *Context, memo *layerMemo) (*Context, error) {
		var addedA, addedB *Context
		var errA, errB error
		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); addedA, errA = a.build(parent, memo) }()
		go func() { defer wg.Done(); addedB, errB = b.build(parent, memo) }()
		wg.Wait()

		va := Valid(addedA)
		if errA != nil {
			va = Invalid[*Context](errA)
		}
		vb := Valid(addedB)
		if errB != nil {
			vb = Invalid[*Context](errB)
		}
		merged := Combine2(va, vb, func(a, b *Context) *Context { return Merge(a, b) })
		if !merged.IsValid() {
			return nil, merged.Err()
		}
		result, _ := merged.Value()
		return result, nil
	}}
}

// BuildLayer runs l against parent in a fresh, ephemeral Scope and
// returns the enriched Context together with that Scope so the caller
// can tear it down explicitly. On acquire failure the Scope is closed
// before the error is returned, so every resource successfully acquired
// up to that point is released.
func BuildLayer(parent *Context, l *Layer) (*Context, *Scope, error) {
	scope := NewScope(NopLogger())
	memo := newLayerMemo(scope)
	added, err := l.build(parent, memo)
	if err != nil {
		_ = scope.Close(context.Background())
		return nil, nil, err
	}
	return Merge(parent, added), scope, nil
}

// BuildLayerScoped runs l against parent, registering teardown with the
// caller-owned scope instead of an ephemeral one — this is what lets a
// built resource outlive the Effect invocation that provisioned it.
func BuildLayerScoped(parent *Context, l *Layer, scope *Scope) (*Context, error) {
	memo := newLayerMemo(scope)
	added, err := l.build(parent, memo)
	if err != nil {
		return nil, err
	}
	return Merge(parent, added), nil
}

// Provide builds l, runs e against the enriched Context, and guarantees
// teardown runs afterward regardless of e's outcome.
func Provide[E, A any](e Effect[E, A], l *Layer) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		var zero A
		childEnv, scope, err := BuildLayer(ec.env, l)
		if err != nil {
			return zero, DieCause[E](err, "")
		}
		a, c := runEffect(e, ec.withEnv(childEnv))
		_ = scope.Close(ec.std)
		return a, c
	}}
}

// ProvideScoped builds l, registering teardown with scope instead of
// running it inline, so the enriched services may outlive this Effect.
func ProvideScoped[E, A any](e Effect[E, A], l *Layer, scope *Scope) Effect[E, A] {
	return Effect[E, A]{run: func(ec *execContext) (A, *Cause[E]) {
		var zero A
		childEnv, err := BuildLayerScoped(ec.env, l, scope)
		if err != nil {
			return zero, DieCause[E](err, "")
		}
		return runEffect(e, ec.withEnv(childEnv))
	}}
}
