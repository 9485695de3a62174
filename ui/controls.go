package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Action is a control panel request. The host maps it onto its own key actions.
type Action int

const (
	ActionNone Action = iota
	ActionReshuffle
	ActionToggleFade
	ActionClear
	ActionSave
	ActionToggleAudio
	ActionScene
)

var buttons = []struct {
	action Action
	label  string
}{
	{ActionReshuffle, "Reshuffle"},
	{ActionToggleFade, "Fade"},
	{ActionClear, "Clear"},
	{ActionSave, "Save"},
	{ActionToggleAudio, "Audio"},
	{ActionScene, "Scene"},
}

const (
	buttonW   = 90
	buttonH   = 26
	buttonGap = 6
)

// Controls draws a row of raygui buttons along the top-right edge.
type Controls struct {
	visible bool
}

// NewControls creates a visible control row.
func NewControls() *Controls {
	return &Controls{visible: true}
}

// SetVisible shows or hides the row.
func (c *Controls) SetVisible(visible bool) {
	c.visible = visible
}

// Bounds returns the area covered by the row on a screen of the given width.
func (c *Controls) Bounds(screenWidth int32) rl.Rectangle {
	w := float32(len(buttons)*(buttonW+buttonGap) - buttonGap)
	return rl.Rectangle{X: float32(screenWidth) - w - 10, Y: 10, Width: w, Height: buttonH}
}

// Contains reports whether a point falls on the row, so hosts can skip
// treating that click as a canvas press.
func (c *Controls) Contains(screenWidth int32, x, y float32) bool {
	return c.visible && rl.CheckCollisionPointRec(rl.Vector2{X: x, Y: y}, c.Bounds(screenWidth))
}

// Draw renders the buttons and returns the action clicked this frame.
func (c *Controls) Draw(screenWidth int32) Action {
	if !c.visible {
		return ActionNone
	}
	b := c.Bounds(screenWidth)
	clicked := ActionNone
	for i, btn := range buttons {
		r := rl.Rectangle{
			X:      b.X + float32(i*(buttonW+buttonGap)),
			Y:      b.Y,
			Width:  buttonW,
			Height: buttonH,
		}
		if gui.Button(r, btn.label) {
			clicked = btn.action
		}
	}
	return clicked
}
