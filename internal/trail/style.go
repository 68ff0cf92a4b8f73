package trail

import (
	"image/color"
	"math"
	"time"

	"github.com/garrettladley/ham/internal/telemetry"
)

type Mode string

const (
	// ModeRank decays by position in the sequence.
	ModeRank Mode = "rank"
	// ModeAge decays by wall-clock age of each point.
	ModeAge Mode = "age"
)

// AnchorColor marks the exact center of every disc.
var AnchorColor = color.NRGBA{R: 0xff, G: 0x45, B: 0x00, A: 0xff}

type Params struct {
	Mode         Mode
	Base         float64
	Growth       float64
	OpacityFloor float64
	AnchorRadius float64
	// Scale maps backend coordinates onto the canvas.
	Scale     float64
	AgeWindow time.Duration
}

func DefaultParams() Params {
	return Params{
		Mode:         ModeRank,
		Base:         20,
		Growth:       40,
		OpacityFloor: 0.5,
		AnchorRadius: 2,
		Scale:        1,
		AgeWindow:    DefaultAgeWindow,
	}
}

type Style struct {
	Radius  float64
	Opacity float64
	Color   color.NRGBA
}

// Style maps a ratio in [0,1] to a disc: ratio 0 is red, small and most
// opaque; ratio 1 is green, large and faintest.
func (p Params) Style(ratio float64) Style {
	ratio = clamp01(ratio)
	floor := clamp01(p.OpacityFloor)
	opacity := floor + (1-floor)*(1-ratio)
	return Style{
		Radius:  p.Base + p.Growth*ratio,
		Opacity: opacity,
		Color: color.NRGBA{
			R: uint8(math.Round(255 * (1 - ratio))),
			G: uint8(math.Round(255 * ratio)),
			B: 0,
			A: uint8(math.Round(255 * opacity)),
		},
	}
}

type Disc struct {
	X, Y  float64
	Ratio float64
	Style
}

// Layout returns one disc per point, in the order given.
func (p Params) Layout(points []telemetry.Point, now time.Time) []Disc {
	if len(points) == 0 {
		return nil
	}
	scale := p.Scale
	if scale <= 0 {
		scale = 1
	}

	discs := make([]Disc, len(points))
	for i, pt := range points {
		var ratio float64
		switch p.Mode {
		case ModeAge:
			ratio = AgeRatio(now.Sub(pt.Timestamp), p.AgeWindow)
		default:
			ratio = RankRatio(i, len(points))
		}
		discs[i] = Disc{
			X:     pt.X * scale,
			Y:     pt.Y * scale,
			Ratio: ratio,
			Style: p.Style(ratio),
		}
	}
	return discs
}
