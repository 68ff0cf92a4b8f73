package card

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/tui/theme"
)

const (
	barFull  = "█"
	barEmpty = "░"

	// Width is the rendered width of a card including its border.
	Width = 32
)

// Card renders one InfoCard. A zero Card with Placeholder set renders the
// loading or failure state instead of numbers.
type Card struct {
	telemetry.Card
	Placeholder string
}

// New wraps a loaded InfoCard.
func New(c telemetry.Card) Card {
	return Card{Card: c}
}

// Pending renders label with placeholder text in place of the values.
func Pending(emoji, label, placeholder string) Card {
	return Card{
		Card:        telemetry.Card{Emoji: emoji, Label: label},
		Placeholder: placeholder,
	}
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBgLight).
			Padding(0, 1).
			Width(Width)
	titleStyle   = lipgloss.NewStyle().Foreground(theme.ColorWhite).Bold(true)
	captionStyle = lipgloss.NewStyle().Foreground(theme.ColorDim)
	emptyStyle   = lipgloss.NewStyle().Foreground(theme.ColorBgLight)
)

func (c Card) Render() string {
	inner := Width - 4 // border and padding
	if c.Placeholder != "" {
		return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(fmt.Sprintf("%s %s: %s", c.Emoji, c.Label, c.Placeholder)),
			captionStyle.Render("Standard: -"),
			Bar(0, inner, telemetry.BandLow),
			captionStyle.Render("-"),
		))
	}

	pct := c.Percentage()
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(c.Title()),
		captionStyle.Render("Standard: "+c.Standard),
		Bar(pct, inner, c.Band()),
		captionStyle.Render(c.Caption()),
	))
}

// Bar draws a width-cell progress bar filled to pct percent.
func Bar(pct float64, width int, band telemetry.Band) string {
	if width <= 0 {
		return ""
	}
	filled := int(pct / 100 * float64(width))
	filled = min(max(filled, 0), width)

	fill := lipgloss.NewStyle().Foreground(theme.BandColor(band))
	return fill.Render(strings.Repeat(barFull, filled)) +
		emptyStyle.Render(strings.Repeat(barEmpty, width-filled))
}
