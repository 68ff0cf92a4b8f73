package telemetry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExtractMagnitude keeps only the digits and dots of s and parses the
// result. Anything unparsable yields 0.
func ExtractMagnitude(s string) float64 {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	return leadingFloat(digits)
}

// leadingFloat parses the longest prefix of s holding at most one dot, so
// "1.2.3" reads as 1.2.
func leadingFloat(s string) float64 {
	end := 0
	seenDot := false
	for end < len(s) {
		if s[end] == '.' {
			if seenDot {
				break
			}
			seenDot = true
		}
		end++
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Percentage returns current as a share of standard, capped at 100. A
// non-positive standard, or any result that is not a finite non-negative
// number, yields 0.
func Percentage(current, standard float64) float64 {
	if standard <= 0 {
		return 0
	}
	p := current / standard * 100
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0
	}
	return min(p, 100)
}

type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh
)

// BandOf classifies a percentage: [0,30) low, [30,70) mid, [70,100] high.
func BandOf(p float64) Band {
	switch {
	case p < 30:
		return BandLow
	case p < 70:
		return BandMid
	default:
		return BandHigh
	}
}

func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMid:
		return "mid"
	case BandHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Color is the progress bar fill for the band.
func (b Band) Color() string {
	switch b {
	case BandLow:
		return "#f44336"
	case BandMid:
		return "#4caf50"
	default:
		return "#ff9800"
	}
}

// Card is a current value against a standard, both as display strings.
type Card struct {
	Emoji    string
	Label    string
	Current  string
	Standard string
}

func (c Card) Percentage() float64 {
	return Percentage(ExtractMagnitude(c.Current), ExtractMagnitude(c.Standard))
}

func (c Card) Band() Band { return BandOf(c.Percentage()) }

func (c Card) Title() string { return fmt.Sprintf("%s %s: %s", c.Emoji, c.Label, c.Current) }

func (c Card) Caption() string {
	return fmt.Sprintf("%.1f%% of standard (%s)", c.Percentage(), c.Standard)
}
