package systems

import (
	"image/color"

	"github.com/crazy3lf/colorconv"
)

// Color is a hue/saturation/brightness/alpha color.
// H is in degrees [0, 360), S and B in [0, 100], A in [0, 1].
type Color struct {
	H, S, B, A float64
}

// HSBA builds a Color, wrapping the hue and clamping the other channels.
func HSBA(h, s, b, a float64) Color {
	return Color{
		H: wrapHue(h),
		S: clampFloat(s, 0, 100),
		B: clampFloat(b, 0, 100),
		A: clampFloat(a, 0, 1),
	}
}

// WithAlpha returns a copy of c with a different alpha.
func (c Color) WithAlpha(a float64) Color {
	c.A = clampFloat(a, 0, 1)
	return c
}

// NRGBA converts to a non-premultiplied 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	r, g, b, err := colorconv.HSVToRGB(wrapHue(c.H), clampFloat(c.S, 0, 100)/100, clampFloat(c.B, 0, 100)/100)
	if err != nil {
		// Inputs are clamped above; treat a conversion failure as black.
		r, g, b = 0, 0, 0
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clampFloat(c.A, 0, 1)*255 + 0.5)}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}
