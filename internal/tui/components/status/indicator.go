package status

import (
	"time"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ham/internal/tui/theme"
)

const statusDot = "●"

// Indicator shows the health of the telemetry poll.
type Indicator struct {
	Polled bool
	Loaded bool
	Failed bool
	At     time.Time
}

func (i Indicator) Render() string {
	switch {
	case !i.Polled:
		return lipgloss.NewStyle().
			Foreground(theme.ColorBgLight).
			Render(statusDot + " loading...")
	case !i.Loaded:
		return lipgloss.NewStyle().
			Foreground(theme.ColorFailed).
			Render(statusDot + " load failed")
	case i.Failed:
		return lipgloss.NewStyle().
			Foreground(theme.ColorStale).
			Render(statusDot + " stale since " + i.At.Format(time.TimeOnly))
	default:
		return lipgloss.NewStyle().
			Foreground(theme.ColorLive).
			Render(statusDot + " live " + i.At.Format(time.TimeOnly))
	}
}
