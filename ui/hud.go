package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the overlay shows for one frame.
type HUDData struct {
	Title    string
	Scene    string
	Seed     int64
	Frame    int64
	FPS      int32
	Agents   int
	Grid     [2]int // cols, rows
	CellSize float64
	Fade     bool
	Audio    bool
	Palette  string
	Colors   []rl.Color

	AvgTick  time.Duration
	PhasePct map[string]float64
	Phases   []string // Display order for PhasePct
}

// HUD renders the run panel in the top-left corner.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), x: 10, y: 10, width: 230}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	lh := r.Theme.LineHeight
	pad := r.Theme.Padding

	rows := int32(9 + len(data.Phases))
	r.DrawPanel(h.x, h.y, h.width, rows*lh+pad*3+r.Theme.TitleFontSize)

	x := h.x + pad
	y := h.y + pad
	rl.DrawText(data.Title, x, y, r.Theme.TitleFontSize, rl.White)
	y += r.Theme.TitleFontSize + 6

	y = r.DrawLabelValue(x, y, "Scene", data.Scene)
	y = r.DrawLabelValue(x, y, "Seed", fmt.Sprintf("%d", data.Seed))
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d  (%d fps)", data.Frame, data.FPS))
	y = r.DrawLabelValue(x, y, "Agents", fmt.Sprintf("%d", data.Agents))
	y = r.DrawLabelValue(x, y, "Grid", fmt.Sprintf("%dx%d @ %.0fpx", data.Grid[0], data.Grid[1], data.CellSize))
	y = r.DrawLabelValue(x, y, "Fade", onOff(data.Fade))
	y = r.DrawLabelValue(x, y, "Audio", onOff(data.Audio))
	y = r.DrawSwatches(x, y, data.Palette, data.Colors)

	y += 4
	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Frame %s", data.AvgTick.Round(time.Microsecond)))
	for _, phase := range data.Phases {
		y = r.DrawPercentBar(x, y, phase, data.PhasePct[phase], h.width-pad*2)
	}
}

// DrawLegend renders the key bindings along the bottom edge.
func (h *HUD) DrawLegend(screenHeight int32) {
	const legend = "[S] save  [C] clear  [F] fade  [R] reset  [M] audio  [H] hud  [Tab] scene  click: reshuffle"
	rl.DrawText(legend, 10, screenHeight-22, 14, rl.Gray)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
