package mock

import (
	"fmt"
	"strings"
)

// Standards are the 7-day averages the mock reports next to today's totals.
type Standards struct {
	DistanceMeters float64
	DietMinutes    float64
	WaterMinutes   float64
	SleepSeconds   float64
}

func DefaultStandards() Standards {
	return Standards{
		DistanceMeters: 8,
		DietMinutes:    30,
		WaterMinutes:   10,
		SleepSeconds:   12 * 3600,
	}
}

// Advise writes a short care note comparing today with the standards.
func Advise(today Totals, std Standards) string {
	var notes []string
	if today.DistanceMeters < std.DistanceMeters/2 {
		notes = append(notes, "activity is well below average; try a new tunnel or a fresh wheel session")
	}
	if today.DietMinutes < std.DietMinutes/2 {
		notes = append(notes, "eating time is low, so check the food bowl and offer a favorite seed")
	}
	if today.WaterMinutes < std.WaterMinutes/2 {
		notes = append(notes, "make sure the water bottle is flowing")
	}
	if today.SleepSeconds > std.SleepSeconds*1.5 {
		notes = append(notes, "unusually long sleep; keep the room warm and quiet")
	}
	if len(notes) == 0 {
		return fmt.Sprintf("Your hamster is on track today (%.2fm moved). Keep the routine steady.", today.DistanceMeters)
	}
	return "Heads up: " + strings.Join(notes, "; ") + "."
}
