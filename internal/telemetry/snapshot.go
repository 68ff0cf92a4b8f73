package telemetry

import (
	"fmt"
	"time"
)

// Snapshot holds the metrics of one successful poll. Snapshots are
// replaced wholesale and never edited.
type Snapshot struct {
	ID        string
	FetchedAt time.Time

	TotalDistanceMeters        float64
	AvgDistancePast7DaysMeters float64
	TotalDietMinutes           float64
	AvgDietMinutes             float64
	TotalWaterMinutes          float64
	AvgWaterMinutes            float64
	TotalSleepSeconds          float64
	AvgSleepSeconds            float64
}

// Display is a Snapshot converted to display strings.
type Display struct {
	Distance    string
	AvgDistance string
	Diet        string
	AvgDiet     string
	Water       string
	AvgWater    string
	Sleep       string
	AvgSleep    string
}

func FormatMeters(m float64) string { return fmt.Sprintf("%.2fm", m) }

func FormatMinutes(m float64) string { return fmt.Sprintf("%.0f min", m) }

func FormatHours(seconds float64) string { return fmt.Sprintf("%.1fh", seconds/3600) }

func (s Snapshot) Display() Display {
	return Display{
		Distance:    FormatMeters(s.TotalDistanceMeters),
		AvgDistance: FormatMeters(s.AvgDistancePast7DaysMeters),
		Diet:        FormatMinutes(s.TotalDietMinutes),
		AvgDiet:     FormatMinutes(s.AvgDietMinutes),
		Water:       FormatMinutes(s.TotalWaterMinutes),
		AvgWater:    FormatMinutes(s.AvgWaterMinutes),
		Sleep:       FormatHours(s.TotalSleepSeconds),
		AvgSleep:    FormatHours(s.AvgSleepSeconds),
	}
}

// Cards returns the four InfoCards in display order.
func (s Snapshot) Cards() []Card {
	d := s.Display()
	return []Card{
		{Emoji: "📍", Label: "Tracking", Current: d.Distance, Standard: d.AvgDistance},
		{Emoji: "🍽️", Label: "Eating", Current: d.Diet, Standard: d.AvgDiet},
		{Emoji: "🥤", Label: "Drinking", Current: d.Water, Standard: d.AvgWater},
		{Emoji: "🛏️", Label: "Sleeping", Current: d.Sleep, Standard: d.AvgSleep},
	}
}

// Recommendation compares today's distance with the 7-day standard, both
// as displayed.
func (s Snapshot) Recommendation() string {
	d := s.Display()
	return Recommend(ExtractMagnitude(d.Distance), ExtractMagnitude(d.AvgDistance))
}

func Recommend(current, standard float64) string {
	verdict := "higher, so rest is recommended."
	if current < standard {
		verdict = "lower, so exercise is recommended."
	}
	return fmt.Sprintf("Compared with the standard (%.2fm), today's tracking (%.2fm) is %s", standard, current, verdict)
}
