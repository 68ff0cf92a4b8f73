package feed

import (
	"context"
	"image"
	"image/color"
	"math"
	"time"
)

// Source yields the most recent live frame.
type Source interface {
	// Latest returns the newest frame, or false before the first one.
	Latest() (image.Image, bool)
	// Run drives the source until ctx is done.
	Run(ctx context.Context) error
}

const (
	SyntheticWidth  = 160
	SyntheticHeight = 120
)

// Synthetic renders a moving test pattern in place of a camera. Frames are
// small; consumers stretch them to the canvas.
type Synthetic struct {
	width, height int
	now           func() time.Time
}

func NewSynthetic(width, height int) *Synthetic {
	if width <= 0 {
		width = SyntheticWidth
	}
	if height <= 0 {
		height = SyntheticHeight
	}
	return &Synthetic{width: width, height: height, now: time.Now}
}

func (s *Synthetic) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Latest draws a frame for the current instant: a dim background with a
// bright square sweeping across it once every four seconds.
func (s *Synthetic) Latest() (image.Image, bool) {
	return s.frame(s.now()), true
}

func (s *Synthetic) frame(now time.Time) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	const period = 4 * time.Second
	phase := float64(now.UnixNano()%int64(period)) / float64(period)

	for y := range s.height {
		shade := uint8(30 + 40*float64(y)/float64(max(s.height, 1)))
		for x := range s.width {
			img.SetRGBA(x, y, color.RGBA{R: shade / 2, G: shade / 2, B: shade, A: 0xff})
		}
	}

	size := max(s.width, s.height) / 8
	cx := int(phase * float64(s.width))
	cy := s.height/2 + int(float64(s.height)/4*math.Sin(phase*2*math.Pi))
	for y := cy - size/2; y < cy+size/2; y++ {
		for x := cx - size/2; x < cx+size/2; x++ {
			if image.Pt(x, y).In(img.Bounds()) {
				img.SetRGBA(x, y, color.RGBA{R: 0xe6, G: 0xc1, B: 0x37, A: 0xff})
			}
		}
	}
	return img
}
