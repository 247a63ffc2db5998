package pipeline

import (
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// vertexShader is always set; fragmentShader is nil for depth-only material types
	vertexShader, fragmentShader shader.Shader

	// renderPipeline is the backend object, nil until a GPU backend creates it
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline defines the interface for a render pipeline compiled from a material type's shaders.
// It holds the specialized shader stages and all fixed-function state required for creation.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for the given stage.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader, or nil if the stage is not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// HasFragment reports whether the pipeline has a fragment stage.
	//
	// Returns:
	//   - bool: true if a fragment shader is set
	HasFragment() bool

	// Flags returns the shader defines the stages were specialized with.
	//
	// Returns:
	//   - []string: the defines of the vertex stage
	Flags() []string

	// RenderPipeline returns the backend pipeline object, or nil if no GPU backend created one.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the backend pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline sets the backend pipeline object.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// PrimitiveState returns the primitive assembly state for pipeline creation.
	//
	// Returns:
	//   - wgpu.PrimitiveState: topology, winding, and culling
	PrimitiveState() wgpu.PrimitiveState

	// DepthStencilState returns the depth state for pipeline creation.
	//
	// Parameters:
	//   - format: the depth texture format of the render target
	//
	// Returns:
	//   - *wgpu.DepthStencilState: the depth state
	DepthStencilState(format wgpu.TextureFormat) *wgpu.DepthStencilState

	// ColorTarget returns the color target state for pipeline creation.
	//
	// Parameters:
	//   - format: the surface texture format
	//
	// Returns:
	//   - wgpu.ColorTargetState: the color target with blending applied when enabled
	ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new render Pipeline. A vertex shader must be provided via WithVertexShader.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeBack,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.vertexShader == nil {
		panic("pipeline: " + pipelineKey + " must have a vertex shader provided via WithVertexShader")
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) HasFragment() bool {
	return p.fragmentShader != nil
}

func (p *pipeline) Flags() []string {
	return p.vertexShader.Flags()
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) PrimitiveState() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  p.topology,
		FrontFace: p.frontFace,
		CullMode:  p.cullMode,
	}
}

func (p *pipeline) DepthStencilState(format wgpu.TextureFormat) *wgpu.DepthStencilState {
	depthCompare := wgpu.CompareFunctionLess
	if !p.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}
	return &wgpu.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: p.depthWriteEnabled,
		DepthCompare:      depthCompare,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

func (p *pipeline) ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState {
	state := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		state.Blend = p.blendState
	}
	return state
}

// KeyFor derives the cache key of a pipeline specialized from the given shader assets and flags.
// Flag order does not affect the key.
//
// Parameters:
//   - vertex: the vertex shader asset path
//   - fragment: the fragment shader asset path, empty for none
//   - flags: the shader defines
//
// Returns:
//   - string: the pipeline key
func KeyFor(vertex, fragment string, flags []string) string {
	sorted := slices.Clone(flags)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return vertex + "|" + fragment + "|" + strings.Join(sorted, ",")
}
