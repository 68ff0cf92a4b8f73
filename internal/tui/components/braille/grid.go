package braille

import (
	"image/color"
	"strings"

	drawille "github.com/exrook/drawille-go"

	"charm.land/lipgloss/v2"
)

const (
	emptyBraille rune = '⠀'

	// each braille cell is 2 dots wide and 4 dots tall
	dotsPerCol = 2
	dotsPerRow = 4
)

// Grid is a cols×rows block of braille cells built up from layers. A cell
// shows the union of every layer's dots in the color of the last layer that
// touched it.
type Grid struct {
	cols, rows int
	cells      [][]rune
	colors     [][]color.Color
}

func NewGrid(cols, rows int) *Grid {
	cols, rows = max(cols, 0), max(rows, 0)
	g := &Grid{
		cols:   cols,
		rows:   rows,
		cells:  make([][]rune, rows),
		colors: make([][]color.Color, rows),
	}
	for i := range rows {
		g.cells[i] = make([]rune, cols)
		g.colors[i] = make([]color.Color, cols)
		for j := range cols {
			g.cells[i][j] = emptyBraille
		}
	}
	return g
}

func (g *Grid) DotsWidth() int { return g.cols * dotsPerCol }

func (g *Grid) DotsHeight() int { return g.rows * dotsPerRow }

// Draw merges canvas onto the grid as a layer colored c.
func (g *Grid) Draw(canvas *drawille.Canvas, c color.Color) {
	if g.cols == 0 || g.rows == 0 {
		return
	}
	rows := canvas.Rows(0, 0, g.DotsWidth(), g.DotsHeight())
	for i := 0; i < g.rows && i < len(rows); i++ {
		j := 0
		for _, r := range rows[i] {
			if j >= g.cols {
				break
			}
			if isBraille(r) && r != emptyBraille {
				g.cells[i][j] = combineBraille(g.cells[i][j], r)
				g.colors[i][j] = c
			}
			j++
		}
	}
}

// Dots counts the raised dots in the grid.
func (g *Grid) Dots() int {
	var n int
	for _, row := range g.cells {
		for _, r := range row {
			n += popcount(uint8(r - emptyBraille))
		}
	}
	return n
}

// ColorAt is the color of the cell at col, row, or nil if it is blank.
func (g *Grid) ColorAt(col, row int) color.Color {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return nil
	}
	return g.colors[row][col]
}

// Render writes the grid with one style per run of same-colored cells.
func (g *Grid) Render() string {
	lines := make([]string, g.rows)
	for i := range g.rows {
		var b strings.Builder
		var run strings.Builder
		var runColor color.Color

		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == nil {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(run.String()))
			}
			run.Reset()
		}

		for j := range g.cols {
			c := g.colors[i][j]
			if c != runColor {
				flush()
				runColor = c
			}
			if g.cells[i][j] == emptyBraille {
				run.WriteRune(' ')
			} else {
				run.WriteRune(g.cells[i][j])
			}
		}
		flush()
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// isBraille returns true if the rune is a braille character (U+2800 to U+28FF)
func isBraille(r rune) bool {
	return r >= 0x2800 && r <= 0x28FF
}

// combineBraille ORs the dots of two braille characters together
func combineBraille(a, b rune) rune {
	return emptyBraille + ((a - emptyBraille) | (b - emptyBraille))
}

func popcount(b uint8) int {
	var n int
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}
