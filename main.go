package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ncruces/zenity"

	"github.com/pthm-cable/flowfield/audio"
	"github.com/pthm-cable/flowfield/config"
	"github.com/pthm-cable/flowfield/game"
	"github.com/pthm-cable/flowfield/renderer"
	"github.com/pthm-cable/flowfield/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = random)")
	scene := flag.String("scene", "", "Initial scene: flowfield or starfield (empty = use config)")
	headless := flag.Bool("headless", false, "Render to an image without opening a window")
	frames := flag.Int("frames", 600, "Frames to render in headless mode")
	outDir := flag.String("out", ".", "Directory for the headless PNG")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for run snapshots saved on bookmarks")
	snapshotPath := flag.String("snapshot", "", "Replay the run recorded in a snapshot file")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	maxFrames := flag.Int("max-frames", 0, "Close the window after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *scene != "" {
		if *scene != string(game.SceneFlowField) && *scene != string(game.SceneStarfield) {
			slog.Error("unknown scene", "scene", *scene)
			os.Exit(2)
		}
		cfg.Scene = *scene
	}

	opts := game.Options{
		Config:      cfg,
		Seed:        *seed,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
		LogStats:    *logStats,
	}

	if *snapshotPath != "" {
		snap, err := telemetry.LoadSnapshot(*snapshotPath)
		if err != nil {
			slog.Error("failed to load snapshot", "error", err)
			os.Exit(1)
		}
		// Seed, scene and fade rebuild the run; it replays from its first frame.
		opts.Seed = snap.Seed
		cfg.Fade.Enabled = snap.Fade
		if snap.Scene == string(game.SceneFlowField) || snap.Scene == string(game.SceneStarfield) {
			cfg.Scene = snap.Scene
		}
		slog.Info("replaying snapshot", "path", *snapshotPath, "seed", snap.Seed, "frame", snap.Frame)
	}

	if *headless {
		if err := runHeadless(opts, *frames, *outDir); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runWindow(opts, *maxFrames); err != nil {
		slog.Error("window run failed", "error", err)
		os.Exit(1)
	}
}

func runWindow(opts game.Options, maxFrames int) error {
	cfg := opts.Config

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	surface, err := renderer.CreateSurface(renderer.RaylibSurface, cfg.Screen.Container,
		rl.GetScreenWidth(), rl.GetScreenHeight())
	if err != nil {
		return err
	}
	canvas := surface.(*renderer.RaylibCanvas)
	defer canvas.Unload()

	opts.Canvas = canvas
	opts.FrameSaver = game.FrameSaverFunc(func(name string) error {
		return saveFrameDialog(canvas, name)
	})
	if cfg.Audio.Enabled {
		opts.Audio = audio.NewAmbient(cfg.Audio, audio.SpeakerOutput())
	}

	// The first reset clears the canvas, so it runs in texture mode.
	canvas.Begin()
	g, err := game.NewGame(opts)
	canvas.End()
	if err != nil {
		return err
	}
	defer g.Close()

	w := game.NewWindow(g, canvas, cfg.Screen.Title)
	slog.Info("starting", "seed", g.Seed(), "scene", g.Scene(),
		"width", rl.GetScreenWidth(), "height", rl.GetScreenHeight(),
		"workers", g.Simulation().Workers())

	for !rl.WindowShouldClose() {
		w.Update()
		w.Draw()

		if maxFrames > 0 && g.Frame() >= int64(maxFrames) {
			slog.Info("max frames reached", "frame", g.Frame())
			break
		}
	}
	return nil
}

// saveFrameDialog asks where to write the PNG. Cancelling is not an error.
func saveFrameDialog(canvas *renderer.RaylibCanvas, name string) error {
	path, err := zenity.SelectFileSave(
		zenity.Title("Save Frame"),
		zenity.Filename(name+".png"),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "PNG image",
			Patterns: []string{"*.png"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			slog.Info("save cancelled", "name", name)
			return nil
		}
		return fmt.Errorf("save dialog: %w", err)
	}
	return canvas.SavePNG(path)
}
