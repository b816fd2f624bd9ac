// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"math/rand"
	"sync"
)

// Random is the virtualizable randomness service (spec §6). A seeded
// implementation must be reproducible.
type Random interface {
	NextFloat() float64
	NextInt(bound int) int
	Choice(n int) int // index in [0,n)
}

// LiveRandom draws from the process-global, unseeded source.
type LiveRandom struct{}

func (LiveRandom) NextFloat() float64 { return rand.Float64() }
func (LiveRandom) NextInt(bound int) int {
	if bound <= 0 {
		return 0
	}
	return rand.Intn(bound)
}
func (LiveRandom) Choice(n int) int { return LiveRandom{}.NextInt(n) }

// SeededRandom is a reproducible Random backed by a private *rand.Rand.
type SeededRandom struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewSeededRandom builds a Random that reproduces the same sequence for
// the same seed.
func NewSeededRandom(seed int64) *SeededRandom {
	return &SeededRandom{src: rand.New(rand.NewSource(seed))}
}

func (r *SeededRandom) NextFloat() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

func (r *SeededRandom) NextInt(bound int) int {
	if bound <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(bound)
}

func (r *SeededRandom) Choice(n int) int { return r.NextInt(n) }
