//go:build !release

package footer

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ham/internal/tui/theme"
	"github.com/garrettladley/ham/internal/version"
)

var (
	devBadgeStyle = lipgloss.NewStyle().
			Foreground(theme.ColorBlack).
			Background(theme.ColorStale).
			Padding(0, 1)
	devVersionStyle = lipgloss.NewStyle().Foreground(theme.ColorDim)
)

// dev builds show a badge ahead of the version
func (f Footer) leftContent() string {
	return devBadgeStyle.Render("DEV") + " " + devVersionStyle.Render(version.Get())
}
