// Package history holds the rolling window of samples behind one panel graph.
package history

import (
	"sync"
	"time"
)

// Sample is one timestamped observation
type Sample struct {
	Time  time.Time
	Value float64
}

// Buffer is a fixed-capacity circular sample window
// One goroutine pushes, another snapshots; the mutex only guards index bookkeeping
type Buffer struct {
	mu    sync.Mutex
	ring  []Sample
	head  int // index of oldest sample
	count int
}

// New creates a buffer holding at most capacity samples
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{ring: make([]Sample, capacity)}
}

// Push appends a sample, evicting the oldest when full
func (b *Buffer) Push(s Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := len(b.ring)
	if c == 0 {
		return
	}
	if b.count < c {
		b.ring[(b.head+b.count)%c] = s
		b.count++
		return
	}
	// Full: overwrite oldest and advance
	b.ring[b.head] = s
	b.head = (b.head + 1) % c
}

// Resize changes capacity, dropping the oldest samples on shrink
// Growth keeps contents unchanged, no backfill
func (b *Buffer) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if capacity == len(b.ring) {
		return
	}

	keep := min(b.count, capacity)
	next := make([]Sample, capacity)
	// Copy the newest `keep` samples in chronological order
	skip := b.count - keep
	b.copyOrdered(next, skip, keep)

	b.ring = next
	b.head = 0
	b.count = keep
}

// Snapshot returns an oldest-first copy of the current contents
func (b *Buffer) Snapshot() []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Sample, b.count)
	b.copyOrdered(out, 0, b.count)
	return out
}

// Values returns an oldest-first copy of the sample values
func (b *Buffer) Values() []float64 {
	snap := b.Snapshot()
	out := make([]float64, len(snap))
	for i, s := range snap {
		out[i] = s.Value
	}
	return out
}

// Last returns the newest sample
func (b *Buffer) Last() (Sample, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return Sample{}, false
	}
	return b.ring[(b.head+b.count-1)%len(b.ring)], true
}

// Len returns the number of stored samples
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Cap returns the current capacity
func (b *Buffer) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ring)
}

// copyOrdered copies n samples starting at logical offset skip into dst, caller holds mu
func (b *Buffer) copyOrdered(dst []Sample, skip, n int) {
	c := len(b.ring)
	if n == 0 || c == 0 {
		return
	}
	start := (b.head + skip) % c
	first := min(n, c-start)
	copy(dst, b.ring[start:start+first])
	copy(dst[first:], b.ring[:n-first])
}
