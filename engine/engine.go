package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-designer/common"
	"github.com/Carmen-Shannon/oxy-designer/engine/assets"
	"github.com/Carmen-Shannon/oxy-designer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-designer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-designer/engine/scene"
	"github.com/Carmen-Shannon/oxy-designer/engine/window"
)

// ErrAlreadyStarted is returned by Run when the engine has been run before.
var ErrAlreadyStarted = errors.New("engine already started")

// engine implements the Engine interface.
// Coordinates the tick, render, and window threads of one scene.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	scene  scene.Scene
	logger *slog.Logger

	profiler         *profiler.Profiler
	profileInterval  time.Duration
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastDrawErr      string

	titleRefresh time.Time
}

// Engine runs a scene: a fixed-rate tick loop that drives its systems, a render loop that draws
// it, and the window message loop when a window is attached.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil when running headless
	Window() window.Window

	// Scene returns the scene the engine drives.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called after each scene tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each render frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the tick and render loops and blocks until the window closes, ctx is
	// cancelled, or Quit is called. An engine can only be run once.
	//
	// Parameters:
	//   - ctx: cancelling it shuts the engine down
	//
	// Returns:
	//   - error: ErrAlreadyStarted if Run was called before
	Run(ctx context.Context) error

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine for the scene supplied with WithScene.
// Panics if no scene is supplied.
//
// Parameters:
//   - options: functional options for engine configuration (scene, window, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		logger:          slog.Default(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.scene == nil {
		panic("engine: a scene is required")
	}

	e.profiler = profiler.NewProfiler(
		profiler.WithLogger(e.logger),
		profiler.WithInterval(e.profileInterval),
		profiler.WithSource(e.sceneStats),
	)

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.scene.Renderer().Resize(width, height)
			if height > 0 {
				e.scene.Camera().SetAspect(float32(width) / float32(height))
			}
		})
		e.window.SetKeyDownCallback(e.handleKey)
		e.window.SetDropCallback(func(paths []string) { e.handleDrop(paths) })
		e.scene.Camera().SetAspect(float32(e.window.Width()) / float32(max(e.window.Height(), 1)))
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	e.logger.Info("[Engine] starting", "scene", e.scene.Name(), "tick_rate", e.engineTickRate, "headless", e.window == nil)
	e.handle(ctx)

	if e.window != nil {
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				e.window.RequestClose()
			default:
				e.refreshTitle()
			}
		})
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}

	e.wg.Wait()
	if e.window != nil {
		if err := e.window.Close(); err != nil {
			e.logger.Warn("[Engine] failed to close window", "error", err)
		}
	}
	e.logger.Info("[Engine] stopped", "scene", e.scene.Name(), "ticks", e.scene.Ticks())
	return nil
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle(ctx context.Context) {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit(ctx)
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Ticks the scene at the configured rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.scene.Tick()
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("[Engine] render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.reportDrawError(e.scene.Draw())

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled.Load() {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed or ctx is cancelled.
func (e *engine) handleQuit(ctx context.Context) {
	defer e.wg.Done()
	select {
	case <-ctx.Done():
		e.signalQuit()
	case <-e.quitChannel:
	}
}

// reportDrawError logs frame errors once per distinct message so a persistent failure does not
// flood the log at frame rate.
func (e *engine) reportDrawError(err error) {
	if err == nil {
		if e.lastDrawErr != "" {
			e.logger.Info("[Engine] frames drawing again")
			e.lastDrawErr = ""
		}
		return
	}
	if msg := err.Error(); msg != e.lastDrawErr {
		e.logger.Warn("[Engine] frame failed", "error", err)
		e.lastDrawErr = msg
	}
}

func (e *engine) handleKey(keyCode uint32) {
	switch keyCode {
	case common.KeyEsc:
		e.Quit()
	case common.KeyR:
		ids, err := e.scene.LoadObjects()
		if err != nil {
			e.logger.Warn("[Engine] rescan failed", "error", err)
			return
		}
		e.logger.Info("[Engine] rescanned objects", "count", len(ids))
	}
}

// handleDrop spawns an entity for every dropped .object file that lives under the asset root.
// It returns the IDs of the entities spawned.
func (e *engine) handleDrop(paths []string) []uint64 {
	root, err := filepath.Abs(e.scene.Assets().Root())
	if err != nil {
		e.logger.Warn("[Engine] cannot resolve asset root", "error", err)
		return nil
	}
	var ids []uint64
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			e.logger.Warn("[Engine] dropped file is outside the asset root", "path", p, "root", root)
			continue
		}
		if assets.Extension(rel) != assets.ExtObject {
			e.logger.Warn("[Engine] dropped file is not an object", "path", p)
			continue
		}
		id := e.scene.Spawn(rel)
		e.logger.Info("[Engine] spawned dropped object", "entity", id, "source", filepath.ToSlash(rel))
		ids = append(ids, id)
	}
	return ids
}

// statusTitle is the window title summarising how many entities have spawned.
func (e *engine) statusTitle(base string) string {
	stages := e.scene.StageCounts()
	live := stages[game_object.StageSpawned] + stages[game_object.StageNeedsUpdate]
	return fmt.Sprintf("%s | %s | %d/%d spawned", base, e.scene.Name(), live, e.scene.Count())
}

// refreshTitle rewrites the window title at most twice a second. It runs on the window thread.
func (e *engine) refreshTitle() {
	now := time.Now()
	if now.Before(e.titleRefresh) {
		return
	}
	e.titleRefresh = now.Add(500 * time.Millisecond)
	e.window.SetTitle(e.statusTitle(e.window.Title()))
}

// sceneStats is the profiler source describing the scene and its renderer.
func (e *engine) sceneStats() []any {
	stages := e.scene.StageCounts()
	counters := e.scene.Counters()
	stats := e.scene.Renderer().Stats()
	return []any{
		"entities", e.scene.Count(),
		"spawned", stages[game_object.StageSpawned],
		"staging", e.scene.Count() - stages[game_object.StageSpawned],
		"ticks", e.scene.Ticks(),
		"pipelines", stats.Pipelines,
		"draw_calls", stats.DrawCalls,
		"restages", counters.Restages,
		"shader_reloads", counters.ShaderReloads,
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}
	// Non-blocking send; a pending value is replaced
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
