package theme

import "charm.land/lipgloss/v2"

var (
	ColorBlack = lipgloss.Color("#000000")
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorDim   = lipgloss.Color("#666666")
)

var (
	ColorAnchor = lipgloss.Color("#FF4500") // trail anchor dot, logo
	ColorFailed = lipgloss.Color("#F44336") // poll status: never loaded
	ColorLive   = lipgloss.Color("#16EC06") // poll status: fresh data
	ColorStale  = lipgloss.Color("#FFDE00") // poll status: last poll failed
)

var (
	ColorBgDark  = lipgloss.Color("#101518")
	ColorBgLight = lipgloss.Color("#283339")
)
