package delay

import (
	"sort"
	"sync"
	"time"
)

// Ring is a fixed-capacity buffer of time-stamped values. Pushing past
// capacity evicts the oldest entry. Push times are expected to be
// non-decreasing; lookups binary search on them.
type Ring[T any] struct {
	mu    sync.RWMutex
	buf   []entry[T]
	start int
	n     int
}

type entry[T any] struct {
	at time.Time
	v  T
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]entry[T], capacity)}
}

// at returns the i-th entry counting from the oldest. Callers hold mu.
func (r *Ring[T]) at(i int) entry[T] {
	return r.buf[(r.start+i)%len(r.buf)]
}

// Push appends v and reports the entry it evicted, if any.
func (r *Ring[T]) Push(at time.Time, v T) (evicted T, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := entry[T]{at: at, v: v}
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = e
		r.n++
		return evicted, false
	}
	evicted = r.buf[r.start].v
	r.buf[r.start] = e
	r.start = (r.start + 1) % len(r.buf)
	return evicted, true
}

// AtOrBefore returns the newest entry stamped at or before t.
func (r *Ring[T]) AtOrBefore(t time.Time) (T, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// first index stamped after t
	i := sort.Search(r.n, func(i int) bool { return r.at(i).at.After(t) })
	if i == 0 {
		var zero T
		return zero, time.Time{}, false
	}
	e := r.at(i - 1)
	return e.v, e.at, true
}

// After returns the oldest entry stamped strictly after t.
func (r *Ring[T]) After(t time.Time) (T, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := sort.Search(r.n, func(i int) bool { return r.at(i).at.After(t) })
	if i == r.n {
		var zero T
		return zero, time.Time{}, false
	}
	e := r.at(i)
	return e.v, e.at, true
}

func (r *Ring[T]) Oldest() (T, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.n == 0 {
		var zero T
		return zero, time.Time{}, false
	}
	e := r.at(0)
	return e.v, e.at, true
}

func (r *Ring[T]) Newest() (T, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.n == 0 {
		var zero T
		return zero, time.Time{}, false
	}
	e := r.at(r.n - 1)
	return e.v, e.at, true
}

// Prune drops entries stamped before t and returns how many it dropped.
func (r *Ring[T]) Prune(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	var zero entry[T]
	for r.n > 0 && r.buf[r.start].at.Before(before) {
		r.buf[r.start] = zero
		r.start = (r.start + 1) % len(r.buf)
		r.n--
		dropped++
	}
	return dropped
}

func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.n
}

func (r *Ring[T]) Cap() int { return len(r.buf) }
