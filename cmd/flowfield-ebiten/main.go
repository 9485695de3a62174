// Command flowfield-ebiten runs the flow field in an ebiten window.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/pthm-cable/flowfield/audio"
	"github.com/pthm-cable/flowfield/config"
	"github.com/pthm-cable/flowfield/game"
	"github.com/pthm-cable/flowfield/renderer"
)

// host adapts a game.Game to ebiten.Game.
type host struct {
	g      *game.Game
	canvas *renderer.EbitenCanvas

	// Layout runs outside Update, so size changes are applied on the next tick.
	pendingW, pendingH int
}

func (h *host) Update() error {
	if w, ht := h.canvas.Size(); h.pendingW > 0 && (h.pendingW != w || h.pendingH != ht) {
		h.g.OnResize(h.pendingW, h.pendingH)
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if k := game.KeyFromRune(r); k != game.KeyNone {
			h.g.OnKey(k)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		h.g.OnKey(game.KeyScene)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		h.g.OnPointerDown()
	}

	mx, my := ebiten.CursorPosition()
	h.g.Step(float64(mx), float64(my))
	h.g.Perf().RecordFrame()
	return nil
}

func (h *host) Draw(screen *ebiten.Image) {
	if img := h.canvas.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
	if h.g.HUDVisible() {
		sim := h.g.Simulation()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"seed %d  %s  fps %.0f\nagents %d  fade %v  palette %s\n[s]ave [c]lear [f]ade [r]eset [m]usic [h]ud [tab] scene",
			h.g.Seed(), h.g.Scene(), ebiten.ActualFPS(),
			len(sim.Agents()), sim.Fading(), sim.Palette().Mode,
		))
	}
}

func (h *host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.pendingW, h.pendingH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// savePNG writes the canvas to name.png in the working directory.
func savePNG(c *renderer.EbitenCanvas, name string) error {
	w, h := c.Size()
	if w == 0 || h == 0 {
		return fmt.Errorf("empty canvas")
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c.Image().ReadPixels(img.Pix)

	f, err := os.Create(name + ".png")
	if err != nil {
		return fmt.Errorf("creating frame file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding frame: %w", err)
	}
	return f.Close()
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = random)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Screen.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Screen.TargetFPS)

	surface, err := renderer.CreateSurface(renderer.EbitenSurface, cfg.Screen.Container,
		cfg.Screen.Width, cfg.Screen.Height)
	if err != nil {
		slog.Error("failed to create surface", "error", err)
		os.Exit(1)
	}
	canvas := surface.(*renderer.EbitenCanvas)

	opts := game.Options{
		Config:    cfg,
		Canvas:    canvas,
		Seed:      *seed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		FrameSaver: game.FrameSaverFunc(func(name string) error {
			return savePNG(canvas, name)
		}),
	}
	if cfg.Audio.Enabled {
		opts.Audio = audio.NewAmbient(cfg.Audio, audio.SpeakerOutput())
	}

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	if err := ebiten.RunGame(&host{g: g, canvas: canvas}); err != nil {
		slog.Error("ebiten exited", "error", err)
	}
}
