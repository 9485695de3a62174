package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput polls raylib for typed keys, clicks and window resizes.
func (w *Window) handleInput() {
	w.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	for r := rl.GetCharPressed(); r != 0; r = rl.GetCharPressed() {
		w.key(KeyFromRune(rune(r)))
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		w.key(KeyScene)
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		pos := rl.GetMousePosition()
		if !w.controls.Contains(int32(rl.GetScreenWidth()), pos.X, pos.Y) {
			w.apply(w.g.OnPointerDown)
		}
	}
}

// handleResize rebuilds the canvas when the window size changes.
func (w *Window) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	width, height := rl.GetScreenWidth(), rl.GetScreenHeight()
	if cw, ch := w.canvas.Size(); cw == width && ch == height {
		return
	}
	// Swap textures outside texture mode, then clear and set up inside it.
	w.canvas.Resize(width, height)
	w.apply(func() { w.g.OnResize(width, height) })
}
