//go:build release

package footer

import (
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ham/internal/tui/theme"
	"github.com/garrettladley/ham/internal/version"
)

func (f Footer) leftContent() string {
	return lipgloss.NewStyle().Foreground(theme.ColorDim).Render("ham " + version.Get())
}
