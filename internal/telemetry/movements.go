package telemetry

import (
	"slices"
)

const DefaultCapacity = 10

// PushBounded returns a new slice with item at the front followed by at
// most capacity-1 elements of buf. buf is never modified.
func PushBounded[T any](buf []T, item T, capacity int) []T {
	if capacity < 1 {
		return nil
	}
	n := min(len(buf)+1, capacity)
	out := make([]T, n)
	out[0] = item
	copy(out[1:], buf[:n-1])
	return out
}

// Movements is a bounded, newest-first sequence of points. A Movements
// value is never modified after construction; every operation returns a
// new value.
type Movements struct {
	points   []Point
	capacity int
}

// NewMovements sorts points newest-first and keeps the newest capacity of
// them.
func NewMovements(points []Point, capacity int) Movements {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	sorted := SortNewestFirst(points)
	if len(sorted) > capacity {
		sorted = sorted[:capacity]
	}
	return Movements{points: sorted, capacity: capacity}
}

func (m Movements) Len() int { return len(m.points) }

func (m Movements) Cap() int { return m.capacity }

// Head returns the newest point.
func (m Movements) Head() (Point, bool) {
	if len(m.points) == 0 {
		return Point{}, false
	}
	return m.points[0], true
}

// Push prepends p and evicts the oldest point beyond capacity. A point
// whose timestamp equals the current head is a repeat of the last
// incremental fetch and is ignored.
func (m Movements) Push(p Point) Movements {
	if head, ok := m.Head(); ok && head.Timestamp.Equal(p.Timestamp) {
		return m
	}
	capacity := m.capacity
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return Movements{points: PushBounded(m.points, p, capacity), capacity: capacity}
}

// PushAll pushes points oldest to newest so the newest ends up at the head.
func (m Movements) PushAll(points []Point) Movements {
	sorted := SortNewestFirst(points)
	for _, p := range slices.Backward(sorted) {
		m = m.Push(p)
	}
	return m
}

// Points returns a copy of the sequence in the requested order.
func (m Movements) Points(order Order) []Point {
	out := slices.Clone(m.points)
	if order == OldestFirst {
		slices.Reverse(out)
	}
	return out
}
