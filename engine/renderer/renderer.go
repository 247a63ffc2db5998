package renderer

import (
	"fmt"
	"image"
	"maps"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-designer/engine/model"
	"github.com/Carmen-Shannon/oxy-designer/engine/registry"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is the window the WGPU backend presents to.
type Surface interface {
	// SurfaceDescriptor returns the platform surface descriptor.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the surface width in pixels.
	//
	// Returns:
	//   - int: the width
	Width() int

	// Height returns the surface height in pixels.
	//
	// Returns:
	//   - int: the height
	Height() int
}

// TextureSource resolves texture asset paths to decoded pixels.
type TextureSource interface {
	// Texture returns the decoded image of a texture asset.
	//
	// Parameters:
	//   - path: the texture asset path
	//
	// Returns:
	//   - *image.RGBA: the pixels
	//   - bool: false if the texture is not loaded yet
	Texture(path string) (*image.RGBA, bool)
}

// Stats is a snapshot of the renderer's counters.
type Stats struct {
	Pipelines int
	Frames    uint64
	DrawCalls int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	registry      registry.NameRegistry
	pipelineCache map[string]pipeline.Pipeline
	textures      TextureSource

	backendType RendererBackendType
	backend     RendererBackend

	frames        uint64
	lastDrawCalls int
	drawCalls     int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer compiles material pipelines, binds live materials, and draws spawned entities.
//
// The Renderer owns a cache of pipelines keyed by pipeline.KeyFor and a backend that performs the
// GPU work. Binding enforces that every material exposes exactly one resource per registered
// parameter name, so all materials in a frame share one buffer layout.
type Renderer interface {
	// Resize reconfigures the render targets after a window resize.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode changes the surface present mode.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// CompilePipeline pre-processes the shader sources with the given flags, builds a pipeline,
	// creates its backend objects, and caches it under key. A pipeline already cached under the
	// key is replaced and released.
	//
	// Parameters:
	//   - key: the cache key, normally pipeline.KeyFor of the sources and flags
	//   - vertex: the vertex shader source
	//   - fragment: the fragment shader source, or nil for a depth-only pipeline
	//   - flags: the shader defines to enable
	//   - opts: additional pipeline options
	//
	// Returns:
	//   - pipeline.Pipeline: the compiled pipeline
	//   - error: an error if pre-processing, parsing, or backend creation fails
	CompilePipeline(key string, vertex shader.Source, fragment *shader.Source, flags []string, opts ...pipeline.PipelineBuilderOption) (pipeline.Pipeline, error)

	// Pipeline retrieves the cached Pipeline associated with the given key.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns the keys of every cached pipeline, sorted.
	//
	// Returns:
	//   - []string: the pipeline keys
	Pipelines() []string

	// BindMaterial walks every global slot of a material and produces its resource list.
	//
	// Parameters:
	//   - mat: the live material
	//
	// Returns:
	//   - *MaterialBinding: the slot-ordered resources
	//   - error: ErrResourceCount if the material's length differs from the registry count
	BindMaterial(mat material.Material) (*MaterialBinding, error)

	// BeginFrame starts a frame.
	//
	// Parameters:
	//   - viewProj: the camera's column-major view-projection matrix
	//
	// Returns:
	//   - error: an error if the frame cannot start
	BeginFrame(viewProj [16]float32) error

	// Draw binds the material and records a draw of one entity.
	//
	// Parameters:
	//   - id: the entity ID
	//   - p: the pipeline to draw with
	//   - mdl: the entity's model
	//   - mat: the entity's live material
	//   - modelMatrix: the entity's column-major model matrix
	//
	// Returns:
	//   - error: an error if binding or recording fails
	Draw(id uint64, p pipeline.Pipeline, mdl model.Model, mat material.Material, modelMatrix [16]float32) error

	// Forget releases the cached GPU resources of an entity.
	//
	// Parameters:
	//   - id: the entity ID
	Forget(id uint64)

	// EndFrame submits the frame.
	EndFrame()

	// Present presents the submitted frame.
	Present()

	// Stats returns the renderer's counters.
	//
	// Returns:
	//   - Stats: pipelines cached, frames submitted, and draw calls in the last frame
	Stats() Stats

	// Release frees every cached pipeline and backend resource.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer. A NameRegistry must be provided via WithRegistry.
// The WGPU backend needs a surface to present to; the headless backend ignores it.
//
// Parameters:
//   - backendType: the backend to use
//   - win: the window the surface is created for, may be nil for BackendTypeHeadless
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer instance
func NewRenderer(backendType RendererBackendType, win Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	if r.registry == nil {
		panic("renderer: a NameRegistry must be provided via WithRegistry")
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	width, height := 0, 0
	switch backendType {
	case BackendTypeHeadless:
		r.backend = newHeadlessRendererBackend()
	case BackendTypeWGPU:
		fallthrough
	default:
		if win == nil {
			panic("renderer: the WGPU backend requires a window")
		}
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.textures)
		width, height = win.Width(), win.Height()
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(width, height)
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) CompilePipeline(key string, vertex shader.Source, fragment *shader.Source, flags []string, opts ...pipeline.PipelineBuilderOption) (pipeline.Pipeline, error) {
	vs, err := shader.NewShader(vertex.Path, shader.ShaderTypeVertex, vertex.Text, flags...)
	if err != nil {
		return nil, fmt.Errorf("compile pipeline %s: %w", key, err)
	}
	options := []pipeline.PipelineBuilderOption{pipeline.WithVertexShader(vs)}
	if fragment != nil {
		fs, err := shader.NewShader(fragment.Path, shader.ShaderTypeFragment, fragment.Text, flags...)
		if err != nil {
			return nil, fmt.Errorf("compile pipeline %s: %w", key, err)
		}
		options = append(options, pipeline.WithFragmentShader(fs))
	}
	p := pipeline.NewPipeline(key, append(options, opts...)...)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return nil, fmt.Errorf("compile pipeline %s: %w", key, err)
	}
	if old, ok := r.pipelineCache[key]; ok {
		r.backend.ReleasePipeline(old)
	}
	r.pipelineCache[key] = p
	return p, nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.pipelineCache))
}

func (r *renderer) BindMaterial(mat material.Material) (*MaterialBinding, error) {
	count := r.registry.Count()
	n := mat.ResourceLen()
	if n != count {
		return nil, fmt.Errorf("%w: %s reports %d, registry has %d", ErrResourceCount, mat.Label(), n, count)
	}
	b := &MaterialBinding{
		Label:     mat.Label(),
		Version:   mat.Version(),
		Resources: make([]BoundResource, n),
		Flags:     mat.ShaderFlags(),
	}
	for slot := 0; slot < n; slot++ {
		name, populated := mat.NameAt(slot)
		if !populated {
			name, _ = r.registry.Name(slot)
		}
		b.Resources[slot] = BoundResource{
			Slot:      slot,
			Name:      name,
			Resource:  mat.ResourceAt(slot),
			Populated: populated,
		}
	}
	return b, nil
}

func (r *renderer) BeginFrame(viewProj [16]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawCalls = 0
	return r.backend.BeginFrame(viewProj)
}

func (r *renderer) Draw(id uint64, p pipeline.Pipeline, mdl model.Model, mat material.Material, modelMatrix [16]float32) error {
	binding, err := r.BindMaterial(mat)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.backend.Draw(DrawCall{
		ID:          id,
		Pipeline:    p,
		Model:       mdl,
		Material:    binding,
		ModelMatrix: modelMatrix,
	}); err != nil {
		return err
	}
	r.drawCalls++
	return nil
}

func (r *renderer) Forget(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Forget(id)
}

func (r *renderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.EndFrame()
	r.frames++
	r.lastDrawCalls = r.drawCalls
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Pipelines: len(r.pipelineCache),
		Frames:    r.frames,
		DrawCalls: r.lastDrawCalls,
	}
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		r.backend.ReleasePipeline(p)
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
}
