package renderer

import (
	"github.com/Carmen-Shannon/oxy-designer/engine/model"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/pipeline"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects a backend that records pipelines and draw calls without a GPU.
	BackendTypeHeadless
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// DrawCall is one entity submitted to the backend within a frame.
type DrawCall struct {
	// ID identifies the entity across frames so backends can cache its GPU resources.
	ID uint64

	Pipeline    pipeline.Pipeline
	Model       model.Model
	Material    *MaterialBinding
	ModelMatrix [16]float32
}

// RendererBackend is the GPU API behind a Renderer.
type RendererBackend interface {
	// ConfigureSurface (re)creates the render targets for the given size.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used on the next surface configuration.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the backend objects of a pipeline.
	//
	// Parameters:
	//   - p: the pipeline to create
	//
	// Returns:
	//   - error: an error if creation fails
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// ReleasePipeline frees the backend objects of a pipeline that was replaced.
	//
	// Parameters:
	//   - p: the pipeline to release
	ReleasePipeline(p pipeline.Pipeline)

	// BeginFrame starts recording a frame.
	//
	// Parameters:
	//   - viewProj: the column-major view-projection matrix of the frame
	//
	// Returns:
	//   - error: an error if the surface texture cannot be acquired
	BeginFrame(viewProj [16]float32) error

	// Draw records one entity draw in the current frame.
	//
	// Parameters:
	//   - call: the draw call
	//
	// Returns:
	//   - error: an error if the entity's resources cannot be bound
	Draw(call DrawCall) error

	// Forget releases the cached resources of an entity that left the scene.
	//
	// Parameters:
	//   - id: the entity ID
	Forget(id uint64)

	// EndFrame finishes recording and submits the frame.
	EndFrame()

	// Present presents the submitted frame.
	Present()

	// Release frees every backend resource.
	Release()
}
