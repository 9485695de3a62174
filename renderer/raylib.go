package renderer

import (
	"fmt"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowfield/renderer/raster"
	"github.com/pthm-cable/flowfield/systems"
)

// textSize is the raylib default font size used for captions.
const textSize = 20

// RaylibCanvas draws into an off-screen render texture so trails persist
// between frames. Draw calls must happen between Begin and End, and the window
// must already exist.
type RaylibCanvas struct {
	target        rl.RenderTexture2D
	width, height int
	loaded        bool
}

// NewRaylibCanvas creates a canvas backed by a render texture.
func NewRaylibCanvas(width, height int) *RaylibCanvas {
	c := &RaylibCanvas{}
	c.Resize(width, height)
	return c
}

// RaylibSurface is a SurfaceFactory for RaylibCanvas.
func RaylibSurface(_ string, width, height int) (systems.Canvas, error) {
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("raylib surface: window not initialized")
	}
	return NewRaylibCanvas(width, height), nil
}

func (c *RaylibCanvas) Size() (int, int) {
	return c.width, c.height
}

// Resize recreates the render texture, discarding its contents. Resizing to
// the current size keeps the texture.
func (c *RaylibCanvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if c.loaded && width == c.width && height == c.height {
		return
	}
	c.Unload()
	c.width, c.height = width, height
	if c.width == 0 || c.height == 0 {
		return
	}
	c.target = rl.LoadRenderTexture(int32(c.width), int32(c.height))
	c.loaded = true
}

// Begin redirects raylib drawing into the canvas texture.
func (c *RaylibCanvas) Begin() {
	if c.loaded {
		rl.BeginTextureMode(c.target)
	}
}

// End restores drawing to the window.
func (c *RaylibCanvas) End() {
	if c.loaded {
		rl.EndTextureMode()
	}
}

// Present draws the canvas texture onto the window at the origin.
func (c *RaylibCanvas) Present() {
	if !c.loaded {
		return
	}
	// Render textures are stored bottom-up.
	src := rl.Rectangle{Width: float32(c.width), Height: -float32(c.height)}
	rl.DrawTextureRec(c.target.Texture, src, rl.Vector2{}, rl.White)
}

func (c *RaylibCanvas) Clear(col color.Color) {
	rl.ClearBackground(rlColor(col))
}

func (c *RaylibCanvas) FillRect(x, y, w, h float64, col color.Color) {
	rl.DrawRectangleRec(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}, rlColor(col))
}

func (c *RaylibCanvas) FillEllipse(cx, cy, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	rl.DrawEllipse(int32(cx), int32(cy), float32(w/2), float32(h/2), rlColor(col))
}

// StrokeEllipse draws the outline as thick segments; raylib's own ellipse
// outline is always one pixel wide.
func (c *RaylibCanvas) StrokeEllipse(cx, cy, w, h, weight float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	rc := rlColor(col)
	pts := raster.EllipsePoints(cx, cy, w, h, raster.EllipseSegments(w, h), false)
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		rl.DrawLineEx(
			rl.Vector2{X: float32(p[0]), Y: float32(p[1])},
			rl.Vector2{X: float32(q[0]), Y: float32(q[1])},
			float32(weight), rc)
	}
}

func (c *RaylibCanvas) Line(x0, y0, x1, y1, weight float64, col color.Color) {
	rl.DrawLineEx(
		rl.Vector2{X: float32(x0), Y: float32(y0)},
		rl.Vector2{X: float32(x1), Y: float32(y1)},
		float32(math.Max(weight, 0.5)), rlColor(col))
}

func (c *RaylibCanvas) Text(x, y float64, s string, col color.Color) {
	w := rl.MeasureText(s, textSize)
	rl.DrawText(s, int32(x)-w/2, int32(y)-textSize, textSize, rlColor(col))
}

// SavePNG exports the canvas texture to path.
func (c *RaylibCanvas) SavePNG(path string) error {
	if !c.loaded {
		return fmt.Errorf("saving %s: canvas is empty", path)
	}
	img := rl.LoadImageFromTexture(c.target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("saving %s: export failed", path)
	}
	return nil
}

// Unload frees the render texture.
func (c *RaylibCanvas) Unload() {
	if c.loaded {
		rl.UnloadRenderTexture(c.target)
		c.loaded = false
	}
}

func rlColor(col color.Color) rl.Color {
	n := toNRGBA(col)
	return rl.NewColor(n.R, n.G, n.B, n.A)
}
