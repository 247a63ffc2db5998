package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-designer/engine/model"
	"github.com/Carmen-Shannon/oxy-designer/engine/registry"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	vertexSource = shader.Source{Path: "shaders/basic.vert.wgsl", Text: `
@group(0) @binding(0) var<uniform> frame: mat4x4<f32>;
@group(1) @binding(0) var<uniform> object: mat4x4<f32>;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return frame * object * vec4<f32>(position, 1.0);
}`}

	fragmentSource = shader.Source{Path: "shaders/basic.frag.wgsl", Text: `
#ifdef ALBEDO
@group(2) @binding(0) var<uniform> albedo: vec4<f32>;
#endif

@fragment
fn fs_main() -> @location(0) vec4<f32> {
#ifdef ALBEDO
    return albedo;
#else
    return vec4<f32>(1.0);
#endif
}`}
)

type shortMaterial struct {
	material.Material
}

func (m shortMaterial) ResourceLen() int {
	return m.Material.ResourceLen() - 1
}

func newHeadless(t *testing.T, reg registry.NameRegistry) *renderer {
	t.Helper()
	r := NewRenderer(BackendTypeHeadless, nil, WithRegistry(reg))
	return r.(*renderer)
}

func TestCompilePipelineSpecializesShaders(t *testing.T) {
	r := newHeadless(t, registry.NewNameRegistry())

	key := pipeline.KeyFor(vertexSource.Path, fragmentSource.Path, []string{"ALBEDO"})
	p, err := r.CompilePipeline(key, vertexSource, &fragmentSource, []string{"ALBEDO"})
	require.NoError(t, err)
	assert.Same(t, p, r.Pipeline(key))
	assert.Equal(t, []string{key}, r.Pipelines())

	fs := p.Shader(shader.ShaderTypeFragment)
	require.NotNil(t, fs)
	_, ok := fs.Binding("albedo")
	assert.True(t, ok)

	plain, err := r.CompilePipeline("plain", vertexSource, &fragmentSource, nil)
	require.NoError(t, err)
	_, ok = plain.Shader(shader.ShaderTypeFragment).Binding("albedo")
	assert.False(t, ok)
	assert.Equal(t, 2, r.Stats().Pipelines)
}

func TestCompilePipelineReplacesByKey(t *testing.T) {
	r := newHeadless(t, registry.NewNameRegistry())
	first, err := r.CompilePipeline("basic", vertexSource, nil, nil)
	require.NoError(t, err)
	second, err := r.CompilePipeline("basic", vertexSource, &fragmentSource, nil)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Same(t, second, r.Pipeline("basic"))
	assert.Equal(t, []string{"basic"}, r.backend.(*headlessRendererBackend).released)
}

func TestCompilePipelineRejectsBadSource(t *testing.T) {
	r := newHeadless(t, registry.NewNameRegistry())
	_, err := r.CompilePipeline("broken", shader.Source{Path: "x.wgsl", Text: "fn nope() {}"}, nil, nil)
	assert.Error(t, err)
	assert.Nil(t, r.Pipeline("broken"))
}

func TestBindMaterialCoversEverySlot(t *testing.T) {
	reg := registry.NewNameRegistry()
	r := newHeadless(t, reg)

	a := material.NewMaterial(material.WithRegistry(reg), material.WithLabel("a"))
	b := material.NewMaterial(material.WithRegistry(reg), material.WithLabel("b"))
	a.Insert("albedo", material.Resource{Kind: material.ResourceKindColor, Color: [4]float32{1, 0, 0, 1}})
	b.Insert("glow", material.Resource{Kind: material.ResourceKindColor, Color: [4]float32{0, 1, 0, 1}})
	b.Insert("albedo_texture", material.Resource{Kind: material.ResourceKindTexture, Texture: "checker.png"})

	ab, err := r.BindMaterial(a)
	require.NoError(t, err)
	bb, err := r.BindMaterial(b)
	require.NoError(t, err)
	assert.Equal(t, 3, ab.Len())
	assert.Equal(t, ab.Len(), bb.Len())

	glow, ok := ab.Lookup("glow")
	require.True(t, ok, "unpopulated slots still carry the registered name")
	assert.False(t, glow.Populated)
	assert.True(t, glow.Resource.IsNone())

	albedo, ok := ab.Lookup("albedo")
	require.True(t, ok)
	assert.True(t, albedo.Populated)
	assert.Equal(t, 0, albedo.Slot)

	assert.Len(t, ab.ColorData(), 3*16)
}

func TestBindMaterialRejectsShortResourceList(t *testing.T) {
	reg := registry.NewNameRegistry()
	r := newHeadless(t, reg)
	m := material.NewMaterial(material.WithRegistry(reg))
	m.Insert("albedo", material.Resource{Kind: material.ResourceKindColor})

	_, err := r.BindMaterial(shortMaterial{m})
	assert.ErrorIs(t, err, ErrResourceCount)
}

func TestDrawRecordsFrame(t *testing.T) {
	reg := registry.NewNameRegistry()
	r := newHeadless(t, reg)
	p, err := r.CompilePipeline("basic", vertexSource, &fragmentSource, []string{"ALBEDO"})
	require.NoError(t, err)

	mdl := model.NewModel(model.WithName("cube"), model.WithMesh(model.NewBox(1, 1, 1)))
	m := material.NewMaterial(material.WithRegistry(reg))
	m.Insert("albedo", material.Resource{Kind: material.ResourceKindColor, Color: [4]float32{1, 0, 0, 1}})

	require.NoError(t, r.BeginFrame([16]float32{}))
	require.NoError(t, r.Draw(1, p, mdl, m, [16]float32{}))
	r.EndFrame()
	r.Present()

	frame := r.backend.(*headlessRendererBackend).LastFrame()
	require.Len(t, frame, 1)
	assert.Equal(t, uint64(1), frame[0].ID)
	assert.Equal(t, 1, frame[0].Material.Len())
	assert.Equal(t, Stats{Pipelines: 1, Frames: 1, DrawCalls: 1}, r.Stats())

	assert.Error(t, r.Draw(1, p, mdl, m, [16]float32{}), "draws outside a frame fail")
}

func TestNewRendererRequiresRegistry(t *testing.T) {
	assert.Panics(t, func() {
		NewRenderer(BackendTypeHeadless, nil)
	})
	assert.Panics(t, func() {
		NewRenderer(BackendTypeWGPU, nil, WithRegistry(registry.NewNameRegistry()))
	})
}
