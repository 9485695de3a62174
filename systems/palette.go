package systems

// PaletteMode names a palette generation strategy.
type PaletteMode string

const (
	PaletteCool    PaletteMode = "cool"
	PaletteWarm    PaletteMode = "warm"
	PaletteCandy   PaletteMode = "candy"
	PaletteOcean   PaletteMode = "ocean"
	PaletteNeon    PaletteMode = "neon"
	PaletteHarmony PaletteMode = "harmony"
)

// PaletteModes lists every mode in draw order for random selection.
var PaletteModes = []PaletteMode{
	PaletteCool, PaletteWarm, PaletteCandy, PaletteOcean, PaletteNeon, PaletteHarmony,
}

// PaletteSize is the number of colors in every palette.
const PaletteSize = 4

// Palette is an ordered set of colors. The order is shuffled on generation and
// carries no meaning.
type Palette struct {
	Mode   PaletteMode
	Colors [PaletteSize]Color
}

// curated holds the fixed modes as (hue, saturation, brightness) triples plus alpha.
var curated = map[PaletteMode]struct {
	alpha float64
	hsb   [PaletteSize][3]float64
}{
	PaletteCool:  {0.8, [PaletteSize][3]float64{{210, 60, 85}, {195, 45, 90}, {230, 50, 80}, {260, 40, 85}}},
	PaletteWarm:  {0.85, [PaletteSize][3]float64{{15, 70, 95}, {35, 80, 95}, {5, 80, 95}, {345, 70, 90}}},
	PaletteCandy: {0.85, [PaletteSize][3]float64{{330, 70, 95}, {280, 60, 95}, {200, 60, 95}, {50, 70, 95}}},
	PaletteOcean: {0.85, [PaletteSize][3]float64{{180, 60, 90}, {200, 70, 85}, {160, 50, 80}, {220, 40, 85}}},
	PaletteNeon:  {0.9, [PaletteSize][3]float64{{120, 80, 95}, {200, 80, 95}, {300, 80, 95}, {40, 90, 95}}},
}

// harmonyOffsets are base, two analogs and the complement.
var harmonyOffsets = [PaletteSize]float64{0, 30, -30, 180}

// ParsePaletteMode returns the mode for name and whether it is known.
func ParsePaletteMode(name string) (PaletteMode, bool) {
	for _, m := range PaletteModes {
		if string(m) == name {
			return m, true
		}
	}
	return "", false
}

// GeneratePalette builds a palette for mode using draws from rng.
// Unknown modes generate a harmony palette.
func GeneratePalette(mode PaletteMode, rng *RandomStream) Palette {
	p := Palette{Mode: mode}

	if set, ok := curated[mode]; ok {
		for i, c := range set.hsb {
			p.Colors[i] = HSBA(c[0], c[1], c[2], set.alpha)
		}
	} else {
		p.Mode = PaletteHarmony
		h := rng.Uniform(0, 360)
		for i, off := range harmonyOffsets {
			s := rng.Uniform(45, 85)
			b := rng.Uniform(80, 98)
			p.Colors[i] = HSBA(h+off+360, s, b, 0.85)
		}
	}

	// Shuffle for variety
	rng.Shuffle(PaletteSize, func(i, j int) {
		p.Colors[i], p.Colors[j] = p.Colors[j], p.Colors[i]
	})
	return p
}

// PickPalette draws a random mode and generates its palette.
func PickPalette(rng *RandomStream) Palette {
	return GeneratePalette(Pick(rng, PaletteModes), rng)
}

// Random returns a uniformly chosen palette color.
func (p Palette) Random(rng *RandomStream) Color {
	return p.Colors[rng.Intn(PaletteSize)]
}
