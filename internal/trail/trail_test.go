package trail

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/ham/internal/telemetry"
)

var epoch = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func TestRankRatio(t *testing.T) {
	t.Parallel()

	for _, n := range []int{2, 3, 10, 37} {
		prev := -1.0
		for i := range n {
			r := RankRatio(i, n)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				t.Fatalf("RankRatio(%d, %d) = %v", i, n, r)
			}
			if r <= prev {
				t.Errorf("RankRatio(%d, %d) = %v, not increasing from %v", i, n, r, prev)
			}
			if want := float64(i) / float64(n-1); r != want {
				t.Errorf("RankRatio(%d, %d) = %v, want %v", i, n, r, want)
			}
			prev = r
		}
		if RankRatio(0, n) != 0 || RankRatio(n-1, n) != 1 {
			t.Errorf("RankRatio endpoints for n=%d = %v, %v", n, RankRatio(0, n), RankRatio(n-1, n))
		}
	}

	if got := RankRatio(0, 1); got != 0 {
		t.Errorf("RankRatio(0, 1) = %v, want 0", got)
	}
	if got := RankRatio(0, 0); got != 0 {
		t.Errorf("RankRatio(0, 0) = %v, want 0", got)
	}
}

func TestAgeRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		age    time.Duration
		window time.Duration
		want   float64
	}{
		{name: "fresh", age: 0, window: 10 * time.Second, want: 0},
		{name: "half", age: 5 * time.Second, window: 10 * time.Second, want: 0.5},
		{name: "expired", age: 30 * time.Second, window: 10 * time.Second, want: 1},
		{name: "future timestamp", age: -time.Second, window: 10 * time.Second, want: 0},
		{name: "default window", age: 5 * time.Second, window: 0, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AgeRatio(tt.age, tt.window); got != tt.want {
				t.Errorf("AgeRatio(%s, %s) = %v, want %v", tt.age, tt.window, got, tt.want)
			}
		})
	}
}

func TestStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params Params
		ratio  float64
		want   Style
	}{
		{
			name:   "oldest",
			params: DefaultParams(),
			ratio:  0,
			want:   Style{Radius: 20, Opacity: 1, Color: color.NRGBA{R: 255, G: 0, B: 0, A: 255}},
		},
		{
			name:   "newest",
			params: DefaultParams(),
			ratio:  1,
			want:   Style{Radius: 60, Opacity: 0.5, Color: color.NRGBA{R: 0, G: 255, B: 0, A: 128}},
		},
		{
			name:   "midpoint",
			params: DefaultParams(),
			ratio:  0.5,
			want:   Style{Radius: 40, Opacity: 0.75, Color: color.NRGBA{R: 128, G: 128, B: 0, A: 191}},
		},
		{
			name:   "wide variant",
			params: Params{Base: 20, Growth: 60, OpacityFloor: 0.2},
			ratio:  1,
			want:   Style{Radius: 80, Opacity: 0.2, Color: color.NRGBA{R: 0, G: 255, B: 0, A: 51}},
		},
		{
			name:   "ratio clamped",
			params: DefaultParams(),
			ratio:  2,
			want:   Style{Radius: 60, Opacity: 0.5, Color: color.NRGBA{R: 0, G: 255, B: 0, A: 128}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, tt.params.Style(tt.ratio)); diff != "" {
				t.Errorf("Style(%v) mismatch (-want +got):\n%s", tt.ratio, diff)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	t.Parallel()

	points := []telemetry.Point{
		{X: 10, Y: 20, Timestamp: epoch},
		{X: 30, Y: 40, Timestamp: epoch.Add(5 * time.Second)},
		{X: 50, Y: 60, Timestamp: epoch.Add(10 * time.Second)},
	}

	t.Run("rank with scale", func(t *testing.T) {
		t.Parallel()
		p := DefaultParams()
		p.Scale = 4
		discs := p.Layout(points, epoch)
		if len(discs) != 3 {
			t.Fatalf("Layout() returned %d discs, want 3", len(discs))
		}
		if discs[0].X != 40 || discs[0].Y != 80 {
			t.Errorf("disc 0 center = (%v, %v), want (40, 80)", discs[0].X, discs[0].Y)
		}
		if got := []float64{discs[0].Ratio, discs[1].Ratio, discs[2].Ratio}; !cmp.Equal(got, []float64{0, 0.5, 1}) {
			t.Errorf("ratios = %v, want [0 0.5 1]", got)
		}
	})

	t.Run("age", func(t *testing.T) {
		t.Parallel()
		p := DefaultParams()
		p.Mode = ModeAge
		discs := p.Layout(points, epoch.Add(10*time.Second))
		if got := []float64{discs[0].Ratio, discs[1].Ratio, discs[2].Ratio}; !cmp.Equal(got, []float64{1, 0.5, 0}) {
			t.Errorf("ratios = %v, want [1 0.5 0]", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		if discs := DefaultParams().Layout(nil, epoch); discs != nil {
			t.Errorf("Layout(nil) = %v, want nil", discs)
		}
	})
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestRasterRender(t *testing.T) {
	t.Parallel()

	r := NewRaster(DefaultParams(), 0, 0)

	img := r.Render([]telemetry.Point{
		{X: 100, Y: 100, Timestamp: epoch},
		{X: 300, Y: 300, Timestamp: epoch.Add(time.Second)},
	}, epoch)
	if got := img.Bounds(); got != image.Rect(0, 0, DefaultWidth, DefaultHeight) {
		t.Fatalf("Bounds() = %v", got)
	}

	if got := rgbaAt(img, 100, 100); got != (color.RGBA{R: 0xff, G: 0x45, B: 0, A: 0xff}) {
		t.Errorf("anchor pixel = %v, want orange", got)
	}
	if got := rgbaAt(img, 110, 100); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("oldest disc pixel = %v, want opaque red", got)
	}
	if got := rgbaAt(img, 330, 300); got.R != 0 || got.G != 128 || got.A != 128 {
		t.Errorf("newest disc pixel = %v, want half-opaque green", got)
	}
	if got := rgbaAt(img, 200, 20); got != (color.RGBA{}) {
		t.Errorf("background pixel = %v, want transparent", got)
	}

	cleared := r.Render(nil, epoch)
	if got := rgbaAt(cleared, 100, 100); got != (color.RGBA{}) {
		t.Errorf("Render(nil) left pixel %v, want cleared canvas", got)
	}
}

func TestRasterClipsOffCanvas(t *testing.T) {
	t.Parallel()

	r := NewRaster(DefaultParams(), 64, 48)
	img := r.Render([]telemetry.Point{{X: -500, Y: -500, Timestamp: epoch}, {X: 63, Y: 47, Timestamp: epoch}}, epoch)
	if got := rgbaAt(img, 63, 47); got.A == 0 {
		t.Error("disc at canvas edge was not painted")
	}
}

func TestCompositeAndEncode(t *testing.T) {
	t.Parallel()

	r := NewRaster(DefaultParams(), 64, 48)
	bg := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := range 48 {
		for x := range 64 {
			bg.SetRGBA(x, y, color.RGBA{B: 200, A: 255})
		}
	}

	out := r.Composite(bg, []telemetry.Point{{X: 10, Y: 10, Timestamp: epoch}}, epoch)
	if got := rgbaAt(out, 60, 40); got != (color.RGBA{B: 200, A: 255}) {
		t.Errorf("background pixel = %v, want blue", got)
	}
	if got := rgbaAt(out, 10, 10); got != (color.RGBA{R: 0xff, G: 0x45, A: 0xff}) {
		t.Errorf("anchor pixel = %v, want orange", got)
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, out); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if decoded.Bounds() != out.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), out.Bounds())
	}
}

func TestScaleNearest(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	src.SetRGBA(1, 1, color.RGBA{G: 255, A: 255})

	dst := ScaleNearest(src, 4, 4)
	if got := dst.RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("top-left quadrant = %v, want red", got)
	}
	if got := dst.RGBAAt(3, 3); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("bottom-right quadrant = %v, want green", got)
	}
	if got := dst.RGBAAt(3, 0); got != (color.RGBA{}) {
		t.Errorf("top-right quadrant = %v, want transparent", got)
	}
}
