package trail

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"time"

	"github.com/garrettladley/ham/internal/telemetry"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Raster paints trails onto a reusable RGBA canvas.
type Raster struct {
	params Params
	canvas *image.RGBA
}

func NewRaster(params Params, width, height int) *Raster {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Raster{
		params: params,
		canvas: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (r *Raster) Params() Params { return r.params }

// Bounds is the canvas size in arena coordinates.
func (r *Raster) Bounds() image.Rectangle { return r.canvas.Bounds() }

// Render clears the canvas and paints the trail. The returned image is
// reused by the next call.
func (r *Raster) Render(points []telemetry.Point, now time.Time) *image.RGBA {
	draw.Draw(r.canvas, r.canvas.Bounds(), image.Transparent, image.Point{}, draw.Src)
	Paint(r.canvas, r.params.Layout(points, now), r.params.AnchorRadius)
	return r.canvas
}

// Paint draws each disc then its anchor dot over dst.
func Paint(dst draw.Image, discs []Disc, anchorRadius float64) {
	for _, d := range discs {
		fillCircle(dst, d.X, d.Y, d.Radius, d.Color)
		if anchorRadius > 0 {
			fillCircle(dst, d.X, d.Y, anchorRadius, AnchorColor)
		}
	}
}

// Composite returns a new image holding background, if any, stretched to
// the canvas with a freshly rendered trail on top.
func (r *Raster) Composite(background image.Image, points []telemetry.Point, now time.Time) *image.RGBA {
	out := image.NewRGBA(r.canvas.Bounds())
	draw.Draw(out, out.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)
	if background != nil {
		if background.Bounds().Size() != out.Bounds().Size() {
			background = ScaleNearest(background, out.Bounds().Dx(), out.Bounds().Dy())
		}
		draw.Draw(out, out.Bounds(), background, background.Bounds().Min, draw.Src)
	}
	draw.Draw(out, out.Bounds(), r.Render(points, now), image.Point{}, draw.Over)
	return out
}

func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}

// circle is an alpha mask for a filled disc.
type circle struct {
	cx, cy, r float64
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(c.cx-c.r)),
		int(math.Floor(c.cy-c.r)),
		int(math.Ceil(c.cx+c.r))+1,
		int(math.Ceil(c.cy+c.r))+1,
	)
}

func (c *circle) At(x, y int) color.Color {
	dx := float64(x) + 0.5 - c.cx
	dy := float64(y) + 0.5 - c.cy
	if dx*dx+dy*dy <= c.r*c.r {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

func fillCircle(dst draw.Image, cx, cy, r float64, col color.NRGBA) {
	if r <= 0 {
		return
	}
	mask := &circle{cx: cx, cy: cy, r: r}
	rect := mask.Bounds().Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	draw.DrawMask(dst, rect, &image.Uniform{col}, image.Point{}, mask, rect.Min, draw.Over)
}
