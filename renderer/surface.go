// Package renderer provides the windowed Canvas implementations for the raylib
// and ebiten hosts. The software canvas lives in renderer/raster.
package renderer

import (
	"image/color"
	"log/slog"

	"github.com/pthm-cable/flowfield/systems"
)

// SurfaceFactory creates a drawing surface of the given size. containerID names
// the host element the surface belongs to; hosts without one may ignore it.
type SurfaceFactory func(containerID string, width, height int) (systems.Canvas, error)

// CreateSurface calls factory and logs the new surface.
func CreateSurface(factory SurfaceFactory, containerID string, width, height int) (systems.Canvas, error) {
	c, err := factory(containerID, max(width, 0), max(height, 0))
	if err != nil {
		return nil, err
	}
	slog.Info("surface created", "container", containerID, "width", width, "height", height)
	return c, nil
}

// toNRGBA converts any color to non-premultiplied 8-bit RGBA.
func toNRGBA(c color.Color) color.NRGBA {
	if n, ok := c.(color.NRGBA); ok {
		return n
	}
	if sc, ok := c.(systems.Color); ok {
		return sc.NRGBA()
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
