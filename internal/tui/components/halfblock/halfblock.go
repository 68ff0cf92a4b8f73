package halfblock

import (
	"image"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ham/internal/trail"
)

const upperHalf = "▀"

// Render draws img into cols×rows cells, two pixels per cell: the upper
// half block takes the top pixel as foreground and the bottom pixel as
// background.
func Render(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	scaled := trail.ScaleNearest(img, cols, rows*2)

	lines := make([]string, rows)
	for y := range rows {
		var b strings.Builder
		for x := range cols {
			top := scaled.RGBAAt(x, 2*y)
			bottom := scaled.RGBAAt(x, 2*y+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(opaque(top)).
				Background(opaque(bottom)).
				Render(upperHalf))
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func opaque(c color.RGBA) color.Color {
	c.A = 0xff
	return c
}
