package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ham/internal/telemetry"
)

type Theme struct {
	background color.Color
	foreground color.Color
	base       lipgloss.Style
}

func New() Theme {
	var t Theme

	t.background = ColorBgDark
	t.foreground = ColorWhite
	t.base = lipgloss.NewStyle().Foreground(t.foreground)

	return t
}

func (t Theme) Base() lipgloss.Style {
	return t.base
}

func (t Theme) TextAccent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorAnchor).Bold(true)
}

func (t Theme) TextDim() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorDim)
}

// Box frames a titled panel such as the advice or recommendation text.
func (t Theme) Box(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBgLight).
		Foreground(t.foreground).
		Padding(0, 1).
		Width(width)
}

func (t Theme) Background() color.Color {
	return t.background
}

func (t Theme) Foreground() color.Color {
	return t.foreground
}

// BandColor maps an InfoCard band to its bar color.
func BandColor(b telemetry.Band) color.Color {
	return lipgloss.Color(b.Color())
}
