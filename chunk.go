// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Chunk[A] is an immutable batched slice. It is a standalone type:
// Stream operators and MergeAll do not use it. Append always copies, so a
// Chunk handed to one consumer is never mutated by a later Append on
// the same lineage.
type Chunk[A any] struct {
	items []A
}

// EmptyChunk returns a Chunk with no elements.
func EmptyChunk[A any]() Chunk[A] { return Chunk[A]{} }

// ChunkOf builds a Chunk from the given elements, copying them so the
// caller's backing array can be reused safely.
func ChunkOf[A any](items ...A) Chunk[A] {
	cp := make([]A, len(items))
	copy(cp, items)
	return Chunk[A]{items: cp}
}

// Append returns a new Chunk with x added, leaving the receiver untouched.
func (c Chunk[A]) Append(x A) Chunk[A] {
	next := make([]A, len(c.items)+1)
	copy(next, c.items)
	next[len(c.items)] = x
	return Chunk[A]{items: next}
}

// Len reports the number of elements.
func (c Chunk[A]) Len() int { return len(c.items) }

// ToSlice returns a copy of the Chunk's elements as a plain slice.
func (c Chunk[A]) ToSlice() []A {
	out := make([]A, len(c.items))
	copy(out, c.items)
	return out
}

// At returns the element at index i.
func (c Chunk[A]) At(i int) A { return c.items[i] }
