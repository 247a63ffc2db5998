package engine

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-designer/engine/assets"
	"github.com/Carmen-Shannon/oxy-designer/engine/registry"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-designer/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadlessScene(t *testing.T, logger *slog.Logger) scene.Scene {
	t.Helper()
	srv := assets.NewServer(assets.WithRoot(t.TempDir()), assets.WithSynchronousLoads(true), assets.WithLogger(logger))
	t.Cleanup(srv.Close)
	reg := registry.NewNameRegistry()
	r := renderer.NewRenderer(renderer.BackendTypeHeadless, nil, renderer.WithRegistry(reg))
	t.Cleanup(r.Release)
	return scene.NewScene("engine-test", srv, r, reg, scene.WithLogger(logger))
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunTicksAndDrawsUntilCancelled(t *testing.T) {
	s := newHeadlessScene(t, discard())
	e := NewEngine(WithScene(s), WithTickRate(500), WithRenderFrameLimit(500), WithLogger(discard()))

	var rendered atomic.Int64
	e.SetRenderCallback(func(float32) { rendered.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, e.Run(ctx))

	assert.Positive(t, s.Ticks())
	assert.Positive(t, s.Renderer().Stats().Frames)
	assert.Positive(t, rendered.Load())
	assert.ErrorIs(t, e.Run(context.Background()), ErrAlreadyStarted)
}

func TestQuitFromTickCallback(t *testing.T) {
	s := newHeadlessScene(t, discard())
	e := NewEngine(WithScene(s), WithTickRate(1000), WithRenderFrameLimit(100), WithLogger(discard()))

	var ticks atomic.Int64
	e.SetTickCallback(func(dt float32) {
		if ticks.Add(1) == 3 {
			e.Quit()
			e.Quit()
		}
	})

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after Quit")
	}
	assert.GreaterOrEqual(t, s.Ticks(), uint64(3))
}

func TestSetTickRateWhileRunning(t *testing.T) {
	s := newHeadlessScene(t, discard())
	e := NewEngine(WithScene(s), WithTickRate(1), WithRenderFrameLimit(100), WithLogger(discard()))

	var once sync.Once
	e.SetRenderCallback(func(float32) {
		once.Do(func() { e.SetTickRate(1000) })
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, e.Run(ctx))
	assert.Greater(t, s.Ticks(), uint64(5))
}

func TestProfilerReportsSceneStats(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := newHeadlessScene(t, discard())
	e := NewEngine(
		WithScene(s),
		WithLogger(logger),
		WithProfiling(true),
		WithProfileInterval(10*time.Millisecond),
		WithRenderFrameLimit(200),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, e.Run(ctx))

	out := buf.String()
	assert.Contains(t, out, "[Profiler] stats")
	assert.Contains(t, out, "entities=0")
	assert.Contains(t, out, "[Engine] stopped")
}

func TestDroppedObjectsSpawnUnderAssetRoot(t *testing.T) {
	s := newHeadlessScene(t, discard())
	e := NewEngine(WithScene(s), WithLogger(discard())).(*engine)
	root := s.Assets().Root()

	assert.Equal(t, "Oxy Designer | engine-test | 0/0 spawned", e.statusTitle("Oxy Designer"))

	ids := e.handleDrop([]string{
		filepath.Join(root, "objects", "crate.object"),
		filepath.Join(root, "notes.txt"),
		filepath.Join(filepath.Dir(root), "elsewhere.object"),
		filepath.Join(root, "objects", "BARREL.OBJECT"),
	})
	require.Len(t, ids, 2)

	obj, ok := s.Lookup("objects/crate.object")
	require.True(t, ok)
	assert.Equal(t, ids[0], obj.ID())
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, "Oxy Designer | engine-test | 0/2 spawned", e.statusTitle("Oxy Designer"))
}

func TestNewEngineRequiresScene(t *testing.T) {
	assert.Panics(t, func() { NewEngine() })
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes of the engine goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
