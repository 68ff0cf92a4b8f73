package braille

import (
	"math"

	drawille "github.com/exrook/drawille-go"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/ham/internal/trail"
)

// bayer is a 4×4 ordered-dither matrix. A dot is raised when the disc's
// opacity exceeds the threshold at its position, so fainter discs come
// out sparser.
var bayer = [4][4]float64{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

func threshold(x, y int) float64 {
	return (bayer[y&3][x&3] + 0.5) / 16
}

// Trail draws discs onto a cols×rows grid. Arena coordinates are mapped
// onto the grid's dots, so an arenaW×arenaH canvas fills it exactly.
// Later discs are drawn on top.
func Trail(discs []trail.Disc, anchorRadius float64, arenaW, arenaH, cols, rows int) *Grid {
	g := NewGrid(cols, rows)
	if len(discs) == 0 || arenaW <= 0 || arenaH <= 0 {
		return g
	}
	sx := float64(g.DotsWidth()) / float64(arenaW)
	sy := float64(g.DotsHeight()) / float64(arenaH)

	for _, d := range discs {
		canvas := drawille.NewCanvas()
		fillEllipse(&canvas, d.X*sx, d.Y*sy, d.Radius*sx, d.Radius*sy, d.Opacity, g.DotsWidth(), g.DotsHeight())
		g.Draw(&canvas, lipgloss.Color(hex(d.Color.R, d.Color.G, d.Color.B)))
	}

	anchor := lipgloss.Color(hex(trail.AnchorColor.R, trail.AnchorColor.G, trail.AnchorColor.B))
	canvas := drawille.NewCanvas()
	for _, d := range discs {
		fillEllipse(&canvas, d.X*sx, d.Y*sy, anchorRadius*sx, anchorRadius*sy, 1, g.DotsWidth(), g.DotsHeight())
		// the anchor stays visible however small the grid
		setClipped(&canvas, int(math.Round(d.X*sx)), int(math.Round(d.Y*sy)), g.DotsWidth(), g.DotsHeight())
	}
	g.Draw(&canvas, anchor)
	return g
}

func fillEllipse(canvas *drawille.Canvas, cx, cy, rx, ry, density float64, w, h int) {
	if rx <= 0 || ry <= 0 || density <= 0 {
		return
	}
	x0, x1 := max(int(math.Floor(cx-rx)), 0), min(int(math.Ceil(cx+rx)), w-1)
	y0, y1 := max(int(math.Floor(cy-ry)), 0), min(int(math.Ceil(cy+ry)), h-1)
	for y := y0; y <= y1; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		for x := x0; x <= x1; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			if dx*dx+dy*dy > 1 {
				continue
			}
			if density < 1 && density <= threshold(x, y) {
				continue
			}
			canvas.Set(x, y)
		}
	}
}

func setClipped(canvas *drawille.Canvas, x, y, w, h int) {
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	canvas.Set(x, y)
}

const hexDigits = "0123456789ABCDEF"

func hex(r, g, b uint8) string {
	return string([]byte{'#',
		hexDigits[r>>4], hexDigits[r&0xf],
		hexDigits[g>>4], hexDigits[g&0xf],
		hexDigits[b>>4], hexDigits[b&0xf],
	})
}
