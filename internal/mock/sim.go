package mock

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// metersPerPixel converts arena pixels to distance. The arena maps onto a
// cage roughly 1.6m across.
const metersPerPixel = 0.0025

type Activity string

const (
	ActivityRoaming  Activity = "roaming"
	ActivityEating   Activity = "eating"
	ActivityDrinking Activity = "drinking"
	ActivitySleeping Activity = "sleeping"
)

// Sample is one simulated position report.
type Sample struct {
	X, Y     float64
	At       time.Time
	Activity Activity
	// Minutes spent on the activity since the previous sample.
	EatingMinutes   float64
	DrinkingMinutes float64
}

// Totals accumulates the day's activity.
type Totals struct {
	DistanceMeters float64
	DietMinutes    float64
	WaterMinutes   float64
	SleepSeconds   float64
}

// Simulator is a random walk of one hamster around a rectangular arena,
// switching between activities.
type Simulator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	width    float64
	height   float64
	x, y     float64
	heading  float64
	activity Activity
	last     time.Time
}

func NewSimulator(width, height float64, seed uint64) *Simulator {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &Simulator{
		rng:      rng,
		width:    width,
		height:   height,
		x:        width / 2,
		y:        height / 2,
		heading:  rng.Float64() * 2 * math.Pi,
		activity: ActivityRoaming,
	}
}

// Step advances the walk to now and returns the new sample plus the
// activity it adds to the day's totals.
func (s *Simulator) Step(now time.Time) (Sample, Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := time.Second
	if !s.last.IsZero() {
		elapsed = max(now.Sub(s.last), 0)
	}
	s.last = now

	s.activity = s.nextActivity()

	var delta Totals
	sample := Sample{At: now, Activity: s.activity}
	switch s.activity {
	case ActivityRoaming:
		s.heading += (s.rng.Float64() - 0.5) * math.Pi / 2
		step := 4 + s.rng.Float64()*12
		nx := s.x + math.Cos(s.heading)*step
		ny := s.y + math.Sin(s.heading)*step
		// bounce off the walls
		if nx < 0 || nx > s.width {
			s.heading = math.Pi - s.heading
			nx = clamp(nx, 0, s.width)
		}
		if ny < 0 || ny > s.height {
			s.heading = -s.heading
			ny = clamp(ny, 0, s.height)
		}
		delta.DistanceMeters = math.Hypot(nx-s.x, ny-s.y) * metersPerPixel
		s.x, s.y = nx, ny
	case ActivityEating:
		sample.EatingMinutes = elapsed.Minutes()
		delta.DietMinutes = elapsed.Minutes()
	case ActivityDrinking:
		sample.DrinkingMinutes = elapsed.Minutes()
		delta.WaterMinutes = elapsed.Minutes()
	case ActivitySleeping:
		delta.SleepSeconds = elapsed.Seconds()
	}

	sample.X, sample.Y = s.x, s.y
	return sample, delta
}

// nextActivity keeps the current activity most of the time. Callers hold mu.
func (s *Simulator) nextActivity() Activity {
	if s.rng.Float64() < 0.8 {
		return s.activity
	}
	switch r := s.rng.Float64(); {
	case r < 0.55:
		return ActivityRoaming
	case r < 0.7:
		return ActivityEating
	case r < 0.8:
		return ActivityDrinking
	default:
		return ActivitySleeping
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
