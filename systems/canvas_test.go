package systems

import "image/color"

// drawCall is one recorded Canvas operation.
type drawCall struct {
	op                 string
	x0, y0, x1, y1, wt float64
	text               string
	c                  color.Color
}

// recordingCanvas records draw calls instead of rasterizing them.
type recordingCanvas struct {
	w, h  int
	calls []drawCall
}

func newRecordingCanvas(w, h int) *recordingCanvas {
	return &recordingCanvas{w: w, h: h}
}

func (r *recordingCanvas) Size() (int, int) { return r.w, r.h }
func (r *recordingCanvas) Resize(w, h int)  { r.w, r.h = w, h }

func (r *recordingCanvas) Clear(c color.Color) {
	r.calls = append(r.calls, drawCall{op: "clear", c: c})
}

func (r *recordingCanvas) FillRect(x, y, w, h float64, c color.Color) {
	r.calls = append(r.calls, drawCall{op: "rect", x0: x, y0: y, x1: x + w, y1: y + h, c: c})
}

func (r *recordingCanvas) FillEllipse(cx, cy, w, h float64, c color.Color) {
	r.calls = append(r.calls, drawCall{op: "ellipse", x0: cx, y0: cy, x1: w, y1: h, c: c})
}

func (r *recordingCanvas) StrokeEllipse(cx, cy, w, h, weight float64, c color.Color) {
	r.calls = append(r.calls, drawCall{op: "ring", x0: cx, y0: cy, x1: w, y1: h, wt: weight, c: c})
}

func (r *recordingCanvas) Line(x0, y0, x1, y1, weight float64, c color.Color) {
	r.calls = append(r.calls, drawCall{op: "line", x0: x0, y0: y0, x1: x1, y1: y1, wt: weight, c: c})
}

func (r *recordingCanvas) Text(x, y float64, s string, c color.Color) {
	r.calls = append(r.calls, drawCall{op: "text", x0: x, y0: y, text: s, c: c})
}

// count returns how many calls of op were recorded.
func (r *recordingCanvas) count(op string) int {
	n := 0
	for _, c := range r.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (r *recordingCanvas) reset() {
	r.calls = r.calls[:0]
}
