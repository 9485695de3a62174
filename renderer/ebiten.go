package renderer

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/pthm-cable/flowfield/renderer/raster"
	"github.com/pthm-cable/flowfield/systems"
)

// debugGlyphW and debugGlyphH are the ebitenutil debug font cell size.
const (
	debugGlyphW = 6
	debugGlyphH = 16
)

var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// EbitenCanvas draws into an off-screen ebiten image that persists between
// frames.
type EbitenCanvas struct {
	img *ebiten.Image
}

// NewEbitenCanvas creates a canvas of the given size.
func NewEbitenCanvas(width, height int) *EbitenCanvas {
	c := &EbitenCanvas{}
	c.Resize(width, height)
	return c
}

// EbitenSurface is a SurfaceFactory for EbitenCanvas.
func EbitenSurface(_ string, width, height int) (systems.Canvas, error) {
	return NewEbitenCanvas(width, height), nil
}

// Image returns the backing image, nil for an empty canvas.
func (c *EbitenCanvas) Image() *ebiten.Image {
	return c.img
}

func (c *EbitenCanvas) Size() (int, int) {
	if c.img == nil {
		return 0, 0
	}
	return c.img.Bounds().Dx(), c.img.Bounds().Dy()
}

// Resize replaces the backing image. Previous contents are discarded.
func (c *EbitenCanvas) Resize(width, height int) {
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
	if width > 0 && height > 0 {
		c.img = ebiten.NewImage(width, height)
	}
}

func (c *EbitenCanvas) Clear(col color.Color) {
	if c.img != nil {
		c.img.Fill(col)
	}
}

func (c *EbitenCanvas) FillRect(x, y, w, h float64, col color.Color) {
	if c.img != nil {
		vector.DrawFilledRect(c.img, float32(x), float32(y), float32(w), float32(h), col, false)
	}
}

func (c *EbitenCanvas) FillEllipse(cx, cy, w, h float64, col color.Color) {
	if c.img == nil || w <= 0 || h <= 0 {
		return
	}
	if w == h {
		vector.DrawFilledCircle(c.img, float32(cx), float32(cy), float32(w/2), col, true)
		return
	}

	var path vector.Path
	pts := raster.EllipsePoints(cx, cy, w, h, raster.EllipseSegments(w, h), false)
	path.MoveTo(float32(pts[0][0]), float32(pts[0][1]))
	for _, p := range pts[1:] {
		path.LineTo(float32(p[0]), float32(p[1]))
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	n := toNRGBA(col)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(n.R) / 255
		vs[i].ColorG = float32(n.G) / 255
		vs[i].ColorB = float32(n.B) / 255
		vs[i].ColorA = float32(n.A) / 255
	}
	c.img.DrawTriangles(vs, is, whitePixel, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func (c *EbitenCanvas) StrokeEllipse(cx, cy, w, h, weight float64, col color.Color) {
	if c.img == nil || w <= 0 || h <= 0 {
		return
	}
	pts := raster.EllipsePoints(cx, cy, w, h, raster.EllipseSegments(w, h), false)
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		vector.StrokeLine(c.img, float32(p[0]), float32(p[1]), float32(q[0]), float32(q[1]), float32(weight), col, true)
	}
}

func (c *EbitenCanvas) Line(x0, y0, x1, y1, weight float64, col color.Color) {
	if c.img != nil {
		vector.StrokeLine(c.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(weight), col, true)
	}
}

// Text uses the ebitenutil debug font, which is always white.
func (c *EbitenCanvas) Text(x, y float64, s string, _ color.Color) {
	if c.img == nil {
		return
	}
	w := len(s) * debugGlyphW
	ebitenutil.DebugPrintAt(c.img, s, int(x)-w/2, int(y)-debugGlyphH)
}
