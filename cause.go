// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"fmt"
	"strings"
)

// causeKind tags the five node shapes a Cause tree can take.
type causeKind int

const (
	causeFail causeKind = iota
	causeDie
	causeInterrupt
	causeThen
	causeBoth
)

// Cause is the structured failure tree produced by a non-successful Effect.
// Leaves are Fail(E), Die(defect), and Interrupt; Then and Both compose two
// sub-causes sequentially or concurrently. Cause is immutable: every
// constructor and Annotate returns a new value, never mutates in place.
type Cause[E any] struct {
	kind        causeKind
	err         E
	defect      any
	stack       string
	left, right *Cause[E]
	annotations []string
}

// FailCause builds a leaf carrying a typed, expected error.
func FailCause[E any](err E) *Cause[E] {
	return &Cause[E]{kind: causeFail, err: err}
}

// DieCause builds a leaf carrying an unexpected defect (a recovered panic
// value or any other exceptional Go value).
func DieCause[E any](defect any, stack string) *Cause[E] {
	return &Cause[E]{kind: causeDie, defect: defect, stack: stack}
}

// InterruptCause builds the zero-argument cancellation leaf.
func InterruptCause[E any]() *Cause[E] {
	return &Cause[E]{kind: causeInterrupt}
}

// ThenCause sequences two causes: right was caused by (occurred after) left.
func ThenCause[E any](l, r *Cause[E]) *Cause[E] {
	return &Cause[E]{kind: causeThen, left: l, right: r}
}

// BothCause composes two causes that failed concurrently; order carries no
// semantic weight.
func BothCause[E any](l, r *Cause[E]) *Cause[E] {
	return &Cause[E]{kind: causeBoth, left: l, right: r}
}

// IsFail reports whether c is a Fail leaf.
func (c *Cause[E]) IsFail() bool { return c != nil && c.kind == causeFail }

// IsDie reports whether c is a Die leaf.
func (c *Cause[E]) IsDie() bool { return c != nil && c.kind == causeDie }

// IsInterrupt reports whether c's tree contains only Interrupt leaves,
// i.e. the failure is pure cancellation with no Fail or Die mixed in.
func (c *Cause[E]) IsInterrupt() bool {
	if c == nil {
		return false
	}
	switch c.kind {
	case causeInterrupt:
		return true
	case causeThen, causeBoth:
		return c.left.IsInterrupt() && c.right.IsInterrupt()
	default:
		return false
	}
}

// Failures collects, in pre-order, every typed error carried by Fail leaves.
func (c *Cause[E]) Failures() []E {
	var out []E
	c.walk(func(n *Cause[E]) {
		if n.kind == causeFail {
			out = append(out, n.err)
		}
	})
	return out
}

// Defects collects every defect carried by Die leaves, in pre-order.
func (c *Cause[E]) Defects() []any {
	var out []any
	c.walk(func(n *Cause[E]) {
		if n.kind == causeDie {
			out = append(out, n.defect)
		}
	})
	return out
}

func (c *Cause[E]) walk(f func(*Cause[E])) {
	if c == nil {
		return
	}
	switch c.kind {
	case causeThen, causeBoth:
		c.left.walk(f)
		c.right.walk(f)
	default:
		f(c)
	}
}

// Annotate returns a new Cause identical to c except note is appended to
// its own annotation list. Annotate never descends into left/right: a note
// attached at one tree node does not propagate to its children.
func (c *Cause[E]) Annotate(note string) *Cause[E] {
	if c == nil {
		return nil
	}
	cp := *c
	cp.annotations = append(append([]string(nil), c.annotations...), note)
	return &cp
}

// Render produces a deterministic, indented pre-order rendering of the
// cause tree: annotations first (each prefixed "@ "), then the leaf or
// operator, then children.
func (c *Cause[E]) Render() string {
	var b strings.Builder
	c.render(&b, 0)
	return b.String()
}

func (c *Cause[E]) render(b *strings.Builder, depth int) {
	if c == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	for _, a := range c.annotations {
		fmt.Fprintf(b, "%s@ %s\n", indent, a)
	}
	switch c.kind {
	case causeFail:
		fmt.Fprintf(b, "%sFail(%v)\n", indent, c.err)
	case causeDie:
		fmt.Fprintf(b, "%sDie(%v)\n", indent, c.defect)
		if c.stack != "" {
			fmt.Fprintf(b, "%s%s\n", indent, c.stack)
		}
	case causeInterrupt:
		fmt.Fprintf(b, "%sInterrupt\n", indent)
	case causeThen:
		fmt.Fprintf(b, "%sThen\n", indent)
		c.left.render(b, depth+1)
		c.right.render(b, depth+1)
	case causeBoth:
		fmt.Fprintf(b, "%sBoth\n", indent)
		c.left.render(b, depth+1)
		c.right.render(b, depth+1)
	}
}

// MapCauseError transforms the typed error carried by every Fail leaf,
// leaving Die, Interrupt, and tree structure untouched.
func MapCauseError[E, F any](c *Cause[E], f func(E) F) *Cause[F] {
	if c == nil {
		return nil
	}
	switch c.kind {
	case causeFail:
		return &Cause[F]{kind: causeFail, err: f(c.err), annotations: c.annotations}
	case causeDie:
		return &Cause[F]{kind: causeDie, defect: c.defect, stack: c.stack, annotations: c.annotations}
	case causeInterrupt:
		return &Cause[F]{kind: causeInterrupt, annotations: c.annotations}
	case causeThen:
		return &Cause[F]{kind: causeThen, left: MapCauseError(c.left, f), right: MapCauseError(c.right, f), annotations: c.annotations}
	default:
		return &Cause[F]{kind: causeBoth, left: MapCauseError(c.left, f), right: MapCauseError(c.right, f), annotations: c.annotations}
	}
}
