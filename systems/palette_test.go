package systems

import (
	"math"
	"sort"
	"testing"
)

func sortedHues(p Palette) []float64 {
	hues := make([]float64, 0, PaletteSize)
	for _, c := range p.Colors {
		hues = append(hues, c.H)
	}
	sort.Float64s(hues)
	return hues
}

func TestCuratedPalettes(t *testing.T) {
	tests := []struct {
		mode  PaletteMode
		hues  []float64
		alpha float64
	}{
		{PaletteCool, []float64{195, 210, 230, 260}, 0.8},
		{PaletteWarm, []float64{5, 15, 35, 345}, 0.85},
		{PaletteCandy, []float64{50, 200, 280, 330}, 0.85},
		{PaletteOcean, []float64{160, 180, 200, 220}, 0.85},
		{PaletteNeon, []float64{40, 120, 200, 300}, 0.9},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p := GeneratePalette(tt.mode, NewRandomStream(5, DefaultNoiseOptions()))
			if p.Mode != tt.mode {
				t.Errorf("expected mode %s, got %s", tt.mode, p.Mode)
			}
			got := sortedHues(p)
			for i := range got {
				if got[i] != tt.hues[i] {
					t.Fatalf("expected hues %v, got %v", tt.hues, got)
				}
			}
			for _, c := range p.Colors {
				if c.A != tt.alpha {
					t.Errorf("expected alpha %.2f, got %.2f", tt.alpha, c.A)
				}
			}
		})
	}
}

func TestHarmonyPaletteDeterminism(t *testing.T) {
	a := GeneratePalette(PaletteHarmony, NewRandomStream(1234, DefaultNoiseOptions()))
	b := GeneratePalette(PaletteHarmony, NewRandomStream(1234, DefaultNoiseOptions()))

	if a != b {
		t.Errorf("same seed produced different palettes:\n%v\n%v", a, b)
	}
}

func TestHarmonyPaletteOffsets(t *testing.T) {
	seed := int64(77)
	// The base hue is the first draw of the stream.
	base := NewRandomStream(seed, DefaultNoiseOptions()).Uniform(0, 360)
	p := GeneratePalette(PaletteHarmony, NewRandomStream(seed, DefaultNoiseOptions()))

	want := map[float64]bool{}
	for _, off := range []float64{0, 30, -30, 180} {
		want[math.Round(wrapHue(base+off)*1e6)/1e6] = true
	}
	for _, c := range p.Colors {
		h := math.Round(c.H*1e6) / 1e6
		if !want[h] {
			t.Errorf("hue %v is not base %v plus a harmony offset", c.H, base)
		}
		if c.S < 45 || c.S >= 85 {
			t.Errorf("saturation %v outside [45,85)", c.S)
		}
		if c.B < 80 || c.B >= 98 {
			t.Errorf("brightness %v outside [80,98)", c.B)
		}
		if c.A != 0.85 {
			t.Errorf("expected alpha 0.85, got %v", c.A)
		}
	}
}

func TestUnknownModeFallsBackToHarmony(t *testing.T) {
	p := GeneratePalette("sepia", NewRandomStream(1, DefaultNoiseOptions()))
	if p.Mode != PaletteHarmony {
		t.Errorf("expected harmony fallback, got %s", p.Mode)
	}
}

func TestParsePaletteMode(t *testing.T) {
	if m, ok := ParsePaletteMode("neon"); !ok || m != PaletteNeon {
		t.Errorf("expected neon, got %q %v", m, ok)
	}
	if _, ok := ParsePaletteMode(""); ok {
		t.Error("expected empty name to be unknown")
	}
}

func TestColorConversion(t *testing.T) {
	c := HSBA(0, 100, 100, 1).NRGBA()
	if c.R != 255 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("expected pure red, got %+v", c)
	}

	dark := HSBA(240, 25, 0, 0.5).NRGBA()
	if dark.R != 0 || dark.G != 0 || dark.B != 0 {
		t.Errorf("expected black at zero brightness, got %+v", dark)
	}
	if dark.A != 128 {
		t.Errorf("expected alpha 128, got %d", dark.A)
	}

	if h := HSBA(-30, 50, 50, 1).H; h != 330 {
		t.Errorf("expected hue to wrap to 330, got %v", h)
	}
}
