package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertexSource = `@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position, 1.0);
}`

func TestNewPipelineDefaults(t *testing.T) {
	vs, err := shader.NewShader("basic.vert", shader.ShaderTypeVertex, vertexSource, "ALBEDO")
	require.NoError(t, err)

	p := NewPipeline("basic", WithVertexShader(vs))
	assert.Equal(t, "basic", p.PipelineKey())
	assert.False(t, p.HasFragment())
	assert.Nil(t, p.Shader(shader.ShaderTypeFragment))
	assert.Equal(t, vs, p.Shader(shader.ShaderTypeVertex))
	assert.Equal(t, []string{"ALBEDO"}, p.Flags())
	assert.Nil(t, p.RenderPipeline())

	prim := p.PrimitiveState()
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, prim.Topology)
	assert.Equal(t, wgpu.CullModeBack, prim.CullMode)

	depth := p.DepthStencilState(wgpu.TextureFormatDepth24Plus)
	assert.Equal(t, wgpu.CompareFunctionLess, depth.DepthCompare)
	assert.True(t, depth.DepthWriteEnabled)

	assert.Nil(t, p.ColorTarget(wgpu.TextureFormatBGRA8Unorm).Blend)
}

func TestPipelineOptions(t *testing.T) {
	vs, err := shader.NewShader("basic.vert", shader.ShaderTypeVertex, vertexSource)
	require.NoError(t, err)

	p := NewPipeline("lines",
		WithVertexShader(vs),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithCullMode(wgpu.CullModeNone),
		WithDepthTestEnabled(false),
		WithBlendEnabled(true),
	)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.PrimitiveState().Topology)
	assert.Equal(t, wgpu.CullModeNone, p.PrimitiveState().CullMode)
	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthStencilState(wgpu.TextureFormatDepth24Plus).DepthCompare)
	assert.NotNil(t, p.ColorTarget(wgpu.TextureFormatBGRA8Unorm).Blend)
}

func TestNewPipelineRequiresVertexShader(t *testing.T) {
	assert.Panics(t, func() { NewPipeline("empty") })
}

func TestKeyForIgnoresFlagOrder(t *testing.T) {
	a := KeyFor("basic.vert.wgsl", "basic.frag.wgsl", []string{"TINT", "ALBEDO"})
	b := KeyFor("basic.vert.wgsl", "basic.frag.wgsl", []string{"ALBEDO", "TINT", "ALBEDO"})
	assert.Equal(t, a, b)
	assert.Equal(t, "basic.vert.wgsl|basic.frag.wgsl|ALBEDO,TINT", a)
	assert.NotEqual(t, a, KeyFor("basic.vert.wgsl", "", []string{"ALBEDO", "TINT"}))
}
