package renderer

import (
	"testing"

	"github.com/pthm-cable/flowfield/renderer/raster"
)

func TestCreateSurface(t *testing.T) {
	c, err := CreateSurface(raster.Surface, "p5-canvas", 30, 20)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := c.Size(); w != 30 || h != 20 {
		t.Errorf("expected 30x20, got %dx%d", w, h)
	}

	c, err = CreateSurface(raster.Surface, "", -5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := c.Size(); w != 0 || h != 10 {
		t.Errorf("expected negative width clamped to 0, got %dx%d", w, h)
	}
}
