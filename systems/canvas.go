package systems

import (
	"image/color"
	"time"
)

// Canvas is the raster surface scenes draw onto. Implementations live in
// renderer/raster (software) and renderer (raylib render texture, ebiten image).
//
// Calls composite with source-over alpha blending; nothing is cleared between
// frames unless Clear is called, which is what makes trails persist.
type Canvas interface {
	Size() (width, height int)
	Resize(width, height int)
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	FillEllipse(cx, cy, w, h float64, c color.Color)
	StrokeEllipse(cx, cy, w, h, weight float64, c color.Color)
	Line(x0, y0, x1, y1, weight float64, c color.Color)
	// Text draws s horizontally centered on x with its baseline at y.
	Text(x, y float64, s string, c color.Color)
}

// RenderContext carries the per-frame host state a scene may read.
type RenderContext struct {
	Width, Height      int
	Frame              int64 // Frames rendered since the scene started
	Elapsed            time.Duration
	PointerX, PointerY float64
}

// Empty reports whether the surface has no drawable area.
func (ctx RenderContext) Empty() bool {
	return ctx.Width <= 0 || ctx.Height <= 0
}
