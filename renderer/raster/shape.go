package raster

import "math"

// EllipseSegments picks a polygon resolution for an ellipse of the given size.
func EllipseSegments(w, h float64) int {
	r := math.Max(math.Abs(w), math.Abs(h)) / 2
	n := int(r * 1.5)
	return min(max(n, 12), 96)
}

// EllipsePoints returns n points around an ellipse. reverse flips the winding.
func EllipsePoints(cx, cy, w, h float64, n int, reverse bool) [][2]float64 {
	pts := make([][2]float64, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		if reverse {
			a = -a
		}
		pts[i] = [2]float64{cx + math.Cos(a)*w/2, cy + math.Sin(a)*h/2}
	}
	return pts
}
