package footer

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ham/internal/tui/theme"
)

var statusStyle = lipgloss.NewStyle().Foreground(theme.ColorDim)

// Footer is the bottom bar: build info on the left, feed status on the right.
type Footer struct {
	status  string
	width   int
	padding int
}

func New(status string, width int) Footer {
	return Footer{
		status:  status,
		width:   width,
		padding: 2,
	}
}

func (f Footer) Render() string {
	left := f.leftContent()
	right := statusStyle.Render(f.status)

	gap := max(f.width-lipgloss.Width(left)-lipgloss.Width(right)-f.padding*2, 1)

	return lipgloss.NewStyle().
		PaddingLeft(f.padding).
		PaddingRight(f.padding).
		Render(left + strings.Repeat(" ", gap) + right)
}
