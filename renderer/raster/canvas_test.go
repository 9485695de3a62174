package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/flowfield/config"
	"github.com/pthm-cable/flowfield/systems"
)

func init() {
	config.MustInit("")
}

var _ systems.Canvas = (*Canvas)(nil)

func TestRasterClearAndFade(t *testing.T) {
	c := NewCanvas(40, 30)
	c.Clear(color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	if got := c.Image().RGBAAt(5, 5); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("unexpected clear color %v", got)
	}

	// A full-canvas translucent white rect lightens every pixel a little.
	c.FillRect(0, 0, 40, 30, color.NRGBA{R: 255, G: 255, B: 255, A: 64})
	got := c.Image().RGBAAt(39, 29)
	if got.R <= 10 || got.R >= 255 || got.A != 255 {
		t.Errorf("expected partially blended pixel, got %v", got)
	}
}

func TestRasterLineCoversSegmentOnly(t *testing.T) {
	c := NewCanvas(50, 50)
	c.Clear(color.Black)
	c.Line(5, 25, 45, 25, 3, color.White)

	img := c.Image()
	if px := img.RGBAAt(25, 25); px.R < 200 {
		t.Errorf("expected line pixel lit, got %v", px)
	}
	if px := img.RGBAAt(25, 10); px.R != 0 {
		t.Errorf("expected pixel away from line untouched, got %v", px)
	}
	if px := img.RGBAAt(48, 25); px.R != 0 {
		t.Errorf("expected nothing past the round cap, got %v", px)
	}
}

func TestRasterZeroLengthLineDrawsDot(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Clear(color.Black)
	c.Line(10, 10, 10, 10, 4, color.White)

	if px := c.Image().RGBAAt(10, 10); px.R == 0 {
		t.Error("expected a dot for a zero-length stroke")
	}
}

func TestRasterEllipses(t *testing.T) {
	c := NewCanvas(60, 60)
	c.Clear(color.Black)
	c.FillEllipse(30, 30, 20, 10, color.White)

	img := c.Image()
	if img.RGBAAt(30, 30).R < 200 {
		t.Error("expected ellipse center filled")
	}
	if img.RGBAAt(30, 40).R != 0 {
		t.Error("expected point outside the short axis empty")
	}

	c.Clear(color.Black)
	c.StrokeEllipse(30, 30, 40, 40, 2, color.White)
	if img := c.Image(); img.RGBAAt(30, 30).R != 0 {
		t.Error("expected ring center empty")
	}
	if img := c.Image(); img.RGBAAt(50, 30).R < 100 {
		t.Errorf("expected ring edge lit, got %v", img.RGBAAt(50, 30))
	}
}

func TestRasterText(t *testing.T) {
	c := NewCanvas(120, 40)
	c.Clear(color.Black)
	c.Text(60, 25, "flow", color.White)

	lit := 0
	img := c.Image()
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			if img.RGBAAt(x, y).R > 0 {
				lit++
				if x < 40 || x > 80 {
					t.Fatalf("glyph pixel at x=%d is not centered on 60", x)
				}
			}
		}
	}
	if lit == 0 {
		t.Error("expected text pixels")
	}
}

func TestRasterEmptyCanvas(t *testing.T) {
	c := NewCanvas(0, 0)
	c.Clear(color.White)
	c.FillRect(0, 0, 10, 10, color.White)
	c.Line(0, 0, 5, 5, 1, color.White)
	c.Text(0, 0, "x", color.White)

	if w, h := c.Size(); w != 0 || h != 0 {
		t.Errorf("expected 0x0, got %dx%d", w, h)
	}

	c.Resize(8, 6)
	if w, h := c.Size(); w != 8 || h != 6 {
		t.Errorf("expected 8x6 after resize, got %dx%d", w, h)
	}
}

func TestRasterPNG(t *testing.T) {
	c := NewCanvas(16, 9)
	c.Clear(systems.HSBA(0, 100, 100, 1))

	var buf bytes.Buffer
	if err := c.WritePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 9 {
		t.Errorf("unexpected bounds %v", b)
	}
	r, g, _, _ := img.At(3, 3).RGBA()
	if r>>8 != 255 || g>>8 != 0 {
		t.Errorf("expected pure red, got r=%d g=%d", r>>8, g>>8)
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := c.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	if err := c.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRasterStrokesAwayFromOrigin(t *testing.T) {
	c := NewCanvas(120, 100)
	c.Clear(color.Black)
	c.Line(100, 80, 110, 80, 2, color.White)
	c.FillEllipse(20, 70, 10, 10, color.White)

	img := c.Image()
	tests := []struct {
		x, y int
		lit  bool
	}{
		{105, 80, true},
		{105, 70, false},
		{95, 80, false},
		{20, 70, true},
		{20, 60, false},
		{5, 5, false},
	}
	for _, tt := range tests {
		if lit := img.RGBAAt(tt.x, tt.y).R > 100; lit != tt.lit {
			t.Errorf("pixel (%d,%d) lit=%v, want %v", tt.x, tt.y, lit, tt.lit)
		}
	}
}

func TestRasterClipsAtEdges(t *testing.T) {
	c := NewCanvas(30, 20)
	c.Clear(color.Black)
	c.Line(-10, 5, 10, 5, 2, color.White)
	c.Line(25, 15, 45, 15, 2, color.White)
	c.FillRect(-100, -100, 50, 50, color.White)
	c.Line(math.NaN(), 0, 5, 5, 2, color.White)

	img := c.Image()
	if img.RGBAAt(2, 5).R < 200 {
		t.Error("expected left-clipped line visible at the edge")
	}
	if img.RGBAAt(29, 15).R < 200 {
		t.Error("expected right-clipped line visible at the edge")
	}
	if img.RGBAAt(15, 10).R != 0 {
		t.Error("expected the middle untouched")
	}
}

func TestPixelBox(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)
	tests := []struct {
		name           string
		x0, y0, x1, y1 float64
		want           image.Rectangle
	}{
		{"inside", 10.5, 10.5, 20.2, 12, image.Rect(9, 9, 22, 13)},
		{"reversed corners", 20.2, 12, 10.5, 10.5, image.Rect(9, 9, 22, 13)},
		{"clipped", -20, -5, 120, 60, bounds},
		{"outside", 200, 10, 300, 20, image.Rectangle{}},
		{"nan collapses", math.NaN(), 0, 5, 5, image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pixelBox(tt.x0, tt.y0, tt.x1, tt.y1, bounds)
			if got != tt.want && !(got.Empty() && tt.want.Empty()) {
				t.Errorf("pixelBox = %v, want %v", got, tt.want)
			}
		})
	}
}

// A full-size frame is thousands of short strokes; each must cost its own
// area, not the canvas.
func TestRasterFullSizeFrameTime(t *testing.T) {
	cfg := config.Cfg()
	w, h := cfg.Screen.Width, cfg.Screen.Height

	rng := systems.NewRandomStream(42, systems.DefaultNoiseOptions())
	sim := systems.NewSimulation(rng, systems.NewSimulationParams(cfg))
	t.Cleanup(sim.Close)
	sim.Configure(
		systems.RandomFieldParams(rng, cfg.Field, true),
		systems.PickPalette(rng),
		systems.RandomBackground(rng, cfg.Background),
	)
	sim.Setup(w, h)

	c := NewCanvas(w, h)
	c.Clear(sim.Background())

	const frames = 3
	start := time.Now()
	for i := 0; i < frames; i++ {
		sim.Step(systems.RenderContext{Width: w, Height: h, Frame: int64(i)}, c)
	}
	perFrame := time.Since(start) / frames

	if n := len(sim.Agents()); n != cfg.Particles.Max {
		t.Fatalf("expected a full pool of %d agents, got %d", cfg.Particles.Max, n)
	}
	if perFrame > 2*time.Second {
		t.Errorf("raster frame at %dx%d took %v, want under 2s", w, h, perFrame)
	}
}
