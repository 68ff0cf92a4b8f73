package trail

import "time"

const DefaultAgeWindow = 10 * time.Second

// RankRatio is the normalized position of index i in a sequence of n
// points. A single point has ratio 0.
func RankRatio(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return clamp01(float64(i) / float64(n-1))
}

// AgeRatio maps an age onto [0,1], reaching 1 once age hits window.
func AgeRatio(age, window time.Duration) float64 {
	if window <= 0 {
		window = DefaultAgeWindow
	}
	return clamp01(age.Seconds() / window.Seconds())
}

func clamp01(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
