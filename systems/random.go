package systems

import (
	"math"
	"math/rand"
)

// RandomStream is the seedable source of uniform draws and coherent noise shared
// by every component of one run. Reseeding with the same value replays the same
// sequence of draws and the same noise field.
type RandomStream struct {
	seed  int64
	opts  NoiseOptions
	rng   *rand.Rand
	noise NoiseSource
}

// NewRandomStream creates a stream seeded with seed.
func NewRandomStream(seed int64, opts NoiseOptions) *RandomStream {
	r := &RandomStream{opts: opts}
	r.Seed(seed)
	return r
}

// Seed resets the uniform stream and the noise source deterministically.
func (r *RandomStream) Seed(seed int64) {
	r.seed = seed
	r.rng = rand.New(rand.NewSource(seed))
	r.noise = newNoiseSource(r.opts, seed)
}

// CurrentSeed returns the seed the stream was last reset with.
func (r *RandomStream) CurrentSeed() int64 {
	return r.seed
}

// Float64 returns a value in [0, 1).
func (r *RandomStream) Float64() float64 {
	return r.rng.Float64()
}

// Uniform returns a value between a and b, computed as a + f*(b-a) with f in [0, 1).
// Argument order does not need to be ascending.
func (r *RandomStream) Uniform(a, b float64) float64 {
	return a + r.rng.Float64()*(b-a)
}

// Intn returns an int in [0, n). Returns 0 when n <= 0.
func (r *RandomStream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.Intn(n)
}

// Chance reports true with probability p.
func (r *RandomStream) Chance(p float64) bool {
	return r.rng.Float64() < p
}

// Shuffle permutes n elements using swap.
func (r *RandomStream) Shuffle(n int, swap func(i, j int)) {
	r.rng.Shuffle(n, swap)
}

// Direction returns a random unit vector as (x, y).
func (r *RandomStream) Direction() (float64, float64) {
	a := r.rng.Float64() * 2 * math.Pi
	return math.Cos(a), math.Sin(a)
}

// Noise3 returns smooth coherent noise in [0, 1].
func (r *RandomStream) Noise3(x, y, z float64) float64 {
	return r.noise.Noise3(x, y, z)
}

// Pick returns a uniformly chosen element of set, or the zero value if set is empty.
func Pick[T any](r *RandomStream, set []T) T {
	var zero T
	if len(set) == 0 {
		return zero
	}
	return set[r.rng.Intn(len(set))]
}
