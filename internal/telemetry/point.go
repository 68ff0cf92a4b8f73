package telemetry

import (
	"cmp"
	"slices"
	"time"
)

// Point is one sampled position of the hamster in canvas pixel space.
type Point struct {
	X         float64
	Y         float64
	Timestamp time.Time

	// Optional durations reported alongside some samples, in minutes.
	EatingDuration   *float64
	DrinkingDuration *float64
}

// Order is the sequence order a renderer consumes points in.
type Order string

const (
	OldestFirst Order = "oldest_first"
	NewestFirst Order = "newest_first"
)

func newestFirst(a, b Point) int {
	return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
}

// SortNewestFirst returns a sorted copy of points. Points with equal
// timestamps keep their relative order.
func SortNewestFirst(points []Point) []Point {
	out := slices.Clone(points)
	slices.SortStableFunc(out, newestFirst)
	return out
}
