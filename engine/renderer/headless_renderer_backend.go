package renderer

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/pipeline"
)

// headlessRendererBackend creates no GPU objects. It validates draw calls the way the GPU backend
// would and keeps the last frame's calls for inspection.
type headlessRendererBackend struct {
	mu *sync.Mutex

	width, height int
	presentMode   PresentMode

	pipelines map[string]pipeline.Pipeline
	released  []string

	inFrame    bool
	frame      []DrawCall
	lastFrame  []DrawCall
	uploads    map[uint64]uint64
	slotCounts map[int]struct{}
}

var _ RendererBackend = &headlessRendererBackend{}

func newHeadlessRendererBackend() *headlessRendererBackend {
	return &headlessRendererBackend{
		mu:        &sync.Mutex{},
		pipelines: make(map[string]pipeline.Pipeline),
		uploads:   make(map[uint64]uint64),
	}
}

func (b *headlessRendererBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

func (b *headlessRendererBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *headlessRendererBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pipelines[p.PipelineKey()] = p
	return nil
}

func (b *headlessRendererBackend) ReleasePipeline(p pipeline.Pipeline) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = append(b.released, p.PipelineKey())
}

func (b *headlessRendererBackend) BeginFrame(viewProj [16]float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inFrame {
		return errors.New("previous frame not ended")
	}
	b.inFrame = true
	b.frame = b.frame[:0]
	b.slotCounts = make(map[int]struct{})
	return nil
}

func (b *headlessRendererBackend) Draw(call DrawCall) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inFrame {
		return errors.New("draw outside of a frame")
	}
	if call.Pipeline == nil || call.Model == nil || call.Material == nil {
		return errors.New("incomplete draw call")
	}
	b.slotCounts[call.Material.Len()] = struct{}{}
	if len(b.slotCounts) > 1 {
		return ErrResourceCount
	}
	b.uploads[call.ID] = call.Model.Generation()
	b.frame = append(b.frame, call)
	return nil
}

func (b *headlessRendererBackend) Forget(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.uploads, id)
}

func (b *headlessRendererBackend) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFrame = false
	b.lastFrame = append(b.lastFrame[:0], b.frame...)
}

func (b *headlessRendererBackend) Present() {}

func (b *headlessRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pipelines = make(map[string]pipeline.Pipeline)
	b.uploads = make(map[uint64]uint64)
}

// LastFrame returns the draw calls recorded by the last completed frame.
func (b *headlessRendererBackend) LastFrame() []DrawCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]DrawCall, len(b.lastFrame))
	copy(out, b.lastFrame)
	return out
}
