// Command designer opens a scene folder in a live viewer. Object, material, shader, and camera
// files are loaded as they appear and edits on disk are applied to the running scene.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/oxy-designer/engine"
	"github.com/Carmen-Shannon/oxy-designer/engine/assets"
	"github.com/Carmen-Shannon/oxy-designer/engine/camera"
	"github.com/Carmen-Shannon/oxy-designer/engine/registry"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-designer/engine/scene"
	"github.com/Carmen-Shannon/oxy-designer/engine/window"
	"github.com/Carmen-Shannon/oxy-designer/internal/config"
)

var (
	configPath = flag.String("config", config.DefaultPath, "path to the designer config file")
	assetsDir  = flag.String("assets", "", "asset root, overrides assets_dir from the config file")
	headless   = flag.Bool("headless", false, "run without a window using the recording renderer")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "designer: %v\n", err)
		os.Exit(1)
	}
	if *assetsDir != "" {
		cfg.AssetsDir = *assetsDir
	}
	cfg.Headless = cfg.Headless || *headless

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("[Designer] exiting", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// ── Window ──────────────────────────────────────────────────────────
	// GLFW must be initialised on the main thread, before anything else touches it.
	var win window.Window
	if !cfg.Headless {
		win = window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
	}

	// ── Assets ──────────────────────────────────────────────────────────
	srv := assets.NewServer(
		assets.WithRoot(cfg.AssetsDir),
		assets.WithLogger(logger),
		assets.WithWorkers(cfg.LoadWorkers),
		assets.WithMaxTextureSize(cfg.MaxTextureSize),
	)
	defer srv.Close()

	// ── Renderer ────────────────────────────────────────────────────────
	reg := registry.NewNameRegistry()
	backend, surface := renderer.BackendTypeWGPU, renderer.Surface(win)
	if cfg.Headless {
		backend, surface = renderer.BackendTypeHeadless, nil
	}
	r := renderer.NewRenderer(backend, surface,
		renderer.WithRegistry(reg),
		renderer.WithTextureSource(srv),
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)
	defer r.Release()

	// ── Scene ───────────────────────────────────────────────────────────
	aspect := float32(cfg.Window.Width) / float32(max(cfg.Window.Height, 1))
	sc := scene.NewScene(cfg.AssetsDir, srv, r, reg,
		scene.WithLogger(logger),
		scene.WithObjectsDir(cfg.ObjectsDir),
		scene.WithCameraFile(cfg.CameraFile),
		scene.WithCamera(camera.NewCamera(camera.WithAspect(aspect))),
	)
	if _, err := sc.LoadObjects(); err != nil {
		return fmt.Errorf("load objects: %w", err)
	}
	if cfg.WatchEnabled() {
		if err := srv.Watch(ctx); err != nil {
			return fmt.Errorf("watch %s: %w", cfg.AssetsDir, err)
		}
	}

	// ── Engine ──────────────────────────────────────────────────────────
	// Without vsync to pace it, a headless render loop would spin; cap it at the tick rate.
	frameLimit := cfg.FrameLimit
	if cfg.Headless && frameLimit == 0 {
		frameLimit = cfg.TickRate
	}
	options := []engine.EngineBuilderOption{
		engine.WithScene(sc),
		engine.WithLogger(logger),
		engine.WithTickRate(cfg.TickRate),
		engine.WithRenderFrameLimit(frameLimit),
		engine.WithProfiling(cfg.Profiling),
		engine.WithProfileInterval(cfg.ProfileInterval),
	}
	if win != nil {
		options = append(options, engine.WithWindow(win))
	}
	return engine.NewEngine(options...).Run(ctx)
}
