// Package raster is the software Canvas: an in-memory RGBA image drawn with
// an anti-aliased scanline rasterizer. It needs no window or GPU.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/pthm-cable/flowfield/systems"
)

// Canvas draws into an in-memory RGBA image. It backs the headless renderer.
type Canvas struct {
	img *image.RGBA
	ras *vector.Rasterizer
}

// NewCanvas creates a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{ras: &vector.Rasterizer{}}
	c.Resize(width, height)
	return c
}

// Surface is a surface factory for Canvas.
func Surface(_ string, width, height int) (systems.Canvas, error) {
	return NewCanvas(width, height), nil
}

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize replaces the backing image. Previous contents are discarded.
func (c *Canvas) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

func (c *Canvas) empty() bool {
	w, h := c.Size()
	return w == 0 || h == 0
}

func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	c.fill(col, x, y, x+w, y+h, func(p boxPath) {
		p.polygon([][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}})
	})
}

func (c *Canvas) FillEllipse(cx, cy, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.fill(col, cx-w/2, cy-h/2, cx+w/2, cy+h/2, func(p boxPath) {
		p.polygon(EllipsePoints(cx, cy, w, h, EllipseSegments(w, h), false))
	})
}

// StrokeEllipse fills the ring between two ellipses weight apart. The inner
// contour winds the other way, which cuts it out.
func (c *Canvas) StrokeEllipse(cx, cy, w, h, weight float64, col color.Color) {
	if w <= 0 || h <= 0 || weight <= 0 {
		return
	}
	ow, oh := w+weight, h+weight
	n := EllipseSegments(ow, oh)
	c.fill(col, cx-ow/2, cy-oh/2, cx+ow/2, cy+oh/2, func(p boxPath) {
		p.polygon(EllipsePoints(cx, cy, ow, oh, n, false))
		if iw, ih := w-weight, h-weight; iw > 0 && ih > 0 {
			p.polygon(EllipsePoints(cx, cy, iw, ih, n, true))
		}
	})
}

// Line strokes a segment with round caps. Caps and body share one coverage
// pass so translucent strokes do not double up at the joints.
func (c *Canvas) Line(x0, y0, x1, y1, weight float64, col color.Color) {
	if weight <= 0 {
		return
	}
	half := weight / 2
	minX, maxX := math.Min(x0, x1)-half, math.Max(x0, x1)+half
	minY, maxY := math.Min(y0, y1)-half, math.Max(y0, y1)+half
	c.fill(col, minX, minY, maxX, maxY, func(p boxPath) {
		dx, dy := x1-x0, y1-y0
		if l := math.Hypot(dx, dy); l > 0 {
			nx, ny := -dy/l*half, dx/l*half
			p.polygon([][2]float64{
				{x0 + nx, y0 + ny},
				{x1 + nx, y1 + ny},
				{x1 - nx, y1 - ny},
				{x0 - nx, y0 - ny},
			})
		}
		segs := EllipseSegments(weight, weight)
		p.polygon(EllipsePoints(x0, y0, weight, weight, segs, false))
		p.polygon(EllipsePoints(x1, y1, weight, weight, segs, false))
	})
}

// Text draws s with a fixed 7x13 bitmap face.
func (c *Canvas) Text(x, y float64, s string, col color.Color) {
	if c.empty() || s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(s)
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(x*64) - width/2,
		Y: fixed.Int26_6(y * 64),
	}
	d.DrawString(s)
}

// fill rasterizes path over the pixel box covering [x0,x1]x[y0,y1] only, so a
// small stroke costs its own area rather than the whole image.
func (c *Canvas) fill(col color.Color, x0, y0, x1, y1 float64, path func(p boxPath)) {
	if c.empty() {
		return
	}
	box := pixelBox(x0, y0, x1, y1, c.img.Bounds())
	if box.Empty() {
		return
	}
	c.ras.Reset(box.Dx(), box.Dy())
	c.ras.DrawOp = draw.Over
	path(boxPath{r: c.ras, ox: float64(box.Min.X), oy: float64(box.Min.Y)})

	dst := c.img.SubImage(box).(*image.RGBA)
	c.ras.Draw(dst, box, image.NewUniform(col), image.Point{})
}

// pixelBox returns the integer rectangle around [x0,x1]x[y0,y1] with one pixel
// of anti-aliasing margin, clipped to bounds.
func pixelBox(x0, y0, x1, y1 float64, bounds image.Rectangle) image.Rectangle {
	clip := func(v float64, lo, hi int) float64 {
		// Written so NaN lands on lo.
		if !(v > float64(lo)) {
			return float64(lo)
		}
		return math.Min(v, float64(hi))
	}
	minX := clip(math.Min(x0, x1)-1, bounds.Min.X, bounds.Max.X)
	minY := clip(math.Min(y0, y1)-1, bounds.Min.Y, bounds.Max.Y)
	maxX := clip(math.Max(x0, x1)+1, bounds.Min.X, bounds.Max.X)
	maxY := clip(math.Max(y0, y1)+1, bounds.Min.Y, bounds.Max.Y)

	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	return r.Intersect(bounds)
}

// boxPath feeds canvas-space contours to a rasterizer whose origin sits at
// (ox, oy).
type boxPath struct {
	r      *vector.Rasterizer
	ox, oy float64
}

func (p boxPath) polygon(pts [][2]float64) {
	if len(pts) < 3 {
		return
	}
	p.r.MoveTo(float32(pts[0][0]-p.ox), float32(pts[0][1]-p.oy))
	for _, q := range pts[1:] {
		p.r.LineTo(float32(q[0]-p.ox), float32(q[1]-p.oy))
	}
	p.r.ClosePath()
}

// WritePNG encodes the canvas as PNG.
func (c *Canvas) WritePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SavePNG writes the canvas to path.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := c.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
