package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultCurl is the number of full rotations the field angle sweeps as the
// noise value spans [0, 1]. Higher values give tighter swirls.
const DefaultCurl = 4.0

// NoiseSampler provides coherent noise in [0, 1]. Implemented by RandomStream.
type NoiseSampler interface {
	Noise3(x, y, z float64) float64
}

// VectorField is a cols x rows grid of unit direction vectors. The grid storage
// persists across ticks and is overwritten in place by Recompute.
type VectorField struct {
	cols, rows int
	cellSize   float64
	curl       float64
	vectors    []r2.Vec
}

// GridDims returns floor(width/cellSize)+1 by floor(height/cellSize)+1, at least 1x1.
// A non-positive cell size is treated as 1.
func GridDims(width, height int, cellSize float64) (cols, rows int) {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols = int(math.Floor(float64(max(width, 0))/cellSize)) + 1
	rows = int(math.Floor(float64(max(height, 0))/cellSize)) + 1
	return cols, rows
}

// NewVectorField allocates a field covering a width x height canvas.
func NewVectorField(width, height int, cellSize float64) *VectorField {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols, rows := GridDims(width, height, cellSize)
	f := &VectorField{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		curl:     DefaultCurl,
		vectors:  make([]r2.Vec, cols*rows),
	}
	// Point east until the first Recompute
	for i := range f.vectors {
		f.vectors[i] = r2.Vec{X: 1}
	}
	return f
}

// SetCurl overrides the curliness multiplier.
func (f *VectorField) SetCurl(curl float64) {
	f.curl = curl
}

// Dims returns the grid dimensions.
func (f *VectorField) Dims() (cols, rows int) {
	return f.cols, f.rows
}

// CellSize returns the side length of one cell in pixels.
func (f *VectorField) CellSize() float64 {
	return f.cellSize
}

// Recompute fills every cell with the unit vector at angle
// noise(x*inc, y*inc, timeOffset) * 2π * curl.
func (f *VectorField) Recompute(noise NoiseSampler, timeOffset, inc float64) {
	f.RecomputeWith(nil, noise, timeOffset, inc)
}

// RecomputeWith is Recompute spread over a worker pool. noise must be safe for
// concurrent reads. A nil pool runs serially.
func (f *VectorField) RecomputeWith(pool *WorkerPool, noise NoiseSampler, timeOffset, inc float64) {
	scale := 2 * math.Pi * f.curl
	pool.Run(len(f.vectors), func(start, end int) {
		for i := start; i < end; i++ {
			x, y := i%f.cols, i/f.cols
			angle := noise.Noise3(float64(x)*inc, float64(y)*inc, timeOffset) * scale
			f.vectors[i] = r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
		}
	})
}

// At returns the vector at cell (x, y), clamping each index into the grid.
func (f *VectorField) At(x, y int) r2.Vec {
	x = clampInt(x, 0, f.cols-1)
	y = clampInt(y, 0, f.rows-1)
	return f.vectors[x+y*f.cols]
}

// Lookup returns the vector of the cell containing pixel position (px, py).
// Positions outside the canvas resolve to the nearest edge cell.
func (f *VectorField) Lookup(px, py float64) r2.Vec {
	return f.At(cellIndex(px, f.cellSize), cellIndex(py, f.cellSize))
}

// cellIndex floors p/cellSize into an int, saturating on non-finite input.
func cellIndex(p, cellSize float64) int {
	v := math.Floor(p / cellSize)
	switch {
	case math.IsNaN(v), v < math.MinInt32:
		return 0
	case v > math.MaxInt32:
		return math.MaxInt32
	}
	return int(v)
}
