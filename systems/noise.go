package systems

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Noise backends
const (
	NoisePerlin  = "perlin"
	NoiseSimplex = "simplex"
)

// NoiseOptions configures the coherent noise source of a RandomStream.
type NoiseOptions struct {
	Backend string  // NoisePerlin or NoiseSimplex
	Alpha   float64 // Perlin amplitude falloff per octave
	Beta    float64 // Perlin frequency gain per octave
	Octaves int
}

// DefaultNoiseOptions returns four-octave Perlin noise with halving amplitude.
func DefaultNoiseOptions() NoiseOptions {
	return NoiseOptions{Backend: NoisePerlin, Alpha: 2, Beta: 2, Octaves: 4}
}

// NoiseSource generates coherent noise values in [0, 1].
type NoiseSource interface {
	Noise3(x, y, z float64) float64
}

// newNoiseSource builds a seeded noise generator for the configured backend.
func newNoiseSource(opts NoiseOptions, seed int64) NoiseSource {
	switch opts.Backend {
	case NoiseSimplex:
		return simplexNoise{noise: opensimplex.NewNormalized(seed)}
	default:
		alpha, beta, octaves := opts.Alpha, opts.Beta, opts.Octaves
		if alpha <= 0 {
			alpha = 2
		}
		if beta <= 0 {
			beta = 2
		}
		if octaves < 1 {
			octaves = 1
		}
		return perlinNoise{noise: perlin.NewPerlin(alpha, beta, int32(octaves), seed)}
	}
}

// perlinNoise wraps fractal Perlin noise, remapping [-1, 1] to [0, 1].
type perlinNoise struct {
	noise *perlin.Perlin
}

func (p perlinNoise) Noise3(x, y, z float64) float64 {
	return clampFloat((p.noise.Noise3D(x, y, z)+1)*0.5, 0, 1)
}

// simplexNoise wraps normalized OpenSimplex noise, already in [0, 1].
type simplexNoise struct {
	noise opensimplex.Noise
}

func (s simplexNoise) Noise3(x, y, z float64) float64 {
	return clampFloat(s.noise.Eval3(x, y, z), 0, 1)
}
