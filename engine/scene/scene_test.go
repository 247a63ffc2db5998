package scene

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/core/base/ordmap"
	"github.com/Carmen-Shannon/oxy-designer/engine/assets"
	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/Carmen-Shannon/oxy-designer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-designer/engine/registry"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	basicTypePath = "materials/basic.material_type"
	otherTypePath = "materials/other.material_type"
	vertexPath    = "shaders/basic.vert.wgsl"
	fragmentPath  = "shaders/basic.frag.wgsl"
	flatPath      = "shaders/flat.frag.wgsl"

	vertexWGSL = `
@group(0) @binding(0) var<uniform> frame: mat4x4<f32>;
@group(1) @binding(0) var<uniform> object: mat4x4<f32>;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return frame * object * vec4<f32>(position, 1.0);
}`

	fragmentWGSL = `
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
}`

	flatWGSL = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.5);
}`
)

var (
	red  = description.ColorResource(1, 0, 0, 1)
	blue = description.ColorResource(0, 0, 1, 1)
)

type param struct {
	name  string
	value description.MaterialResource
}

type fixture struct {
	srv assets.Server
	reg registry.NameRegistry
	r   renderer.Renderer
	s   Scene
}

func newFixture(t *testing.T, options ...SceneBuilderOption) *fixture {
	t.Helper()
	return newFixtureAt(t, t.TempDir(), options...)
}

func newFixtureAt(t *testing.T, root string, options ...SceneBuilderOption) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := assets.NewServer(assets.WithRoot(root), assets.WithSynchronousLoads(true), assets.WithLogger(logger))
	t.Cleanup(srv.Close)
	reg := registry.NewNameRegistry()
	r := renderer.NewRenderer(renderer.BackendTypeHeadless, nil, renderer.WithRegistry(reg), renderer.WithTextureSource(srv))
	t.Cleanup(r.Release)
	s := NewScene("test", srv, r, reg, append([]SceneBuilderOption{WithLogger(logger)}, options...)...)
	return &fixture{srv: srv, reg: reg, r: r, s: s}
}

func (f *fixture) tick(n int) {
	for range n {
		f.s.Tick()
	}
}

func (f *fixture) setBasicType() {
	f.srv.Set(basicTypePath, materialType("Basic", fragmentPath, "albedo"))
	f.srv.Set(vertexPath, shader.Source{Path: vertexPath, Text: vertexWGSL})
	f.srv.Set(fragmentPath, shader.Source{Path: fragmentPath, Text: fragmentWGSL})
}

func (f *fixture) entity(t *testing.T, path string) game_object.GameObject {
	t.Helper()
	obj, ok := f.s.Lookup(path)
	require.True(t, ok, "no entity for %s", path)
	return obj
}

func materialType(name, fragment string, colors ...string) *description.MaterialType {
	res := ordmap.New[string, description.ResourceKind]()
	for _, c := range colors {
		res.Add(c, description.ResourceKindColor)
	}
	return &description.MaterialType{
		Name:      name,
		Pipeline:  description.MaterialPipeline{Vertex: vertexPath, Fragment: fragment},
		Resources: res,
	}
}

func settings(typePath string, params ...param) description.MaterialSettings {
	ms := description.NewMaterialSettings(typePath)
	for _, p := range params {
		ms.Resources.Add(p.name, p.value)
	}
	return ms
}

func object(shape description.Shape, translation [3]float32, ms description.MaterialSettings) *description.Object {
	return &description.Object{Shape: shape, Translation: translation, Material: ms}
}

func redCube(size float32) *description.Object {
	return object(description.Cube{Size: size}, [3]float32{}, settings(basicTypePath, param{"albedo", red}))
}

func TestStagesAdvanceOncePerTick(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/cube.object", redCube(1))

	var stages []game_object.Stage
	for range 4 {
		f.s.Tick()
		stages = append(stages, f.entity(t, "objects/cube.object").Stage())
	}
	assert.Equal(t, []game_object.Stage{
		game_object.StageAwaitingMaterialType,
		game_object.StageAwaitingShaders,
		game_object.StagePipelineReady,
		game_object.StageSpawned,
	}, stages)

	obj := f.entity(t, "objects/cube.object")
	assert.True(t, obj.Renderable())
	assert.Equal(t, "Basic", obj.Schema().Name())
	assert.Equal(t, 1, f.s.Counters().Spawned)
	assert.Equal(t, 1, f.s.Counters().PipelinesCompiled)
	assert.Contains(t, obj.Pipeline().PipelineKey(), "ALBEDO")

	require.NoError(t, f.s.Draw())
	assert.Equal(t, 1, f.r.Stats().DrawCalls)
}

func TestUnresolvedMaterialTypeParksForever(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/lost.object", object(description.Cube{Size: 1}, [3]float32{}, settings("materials/missing.material_type")))
	f.srv.Set("objects/cube.object", redCube(1))

	f.tick(50)

	lost := f.entity(t, "objects/lost.object")
	assert.Equal(t, game_object.StageAwaitingMaterialType, lost.Stage())
	assert.False(t, lost.Renderable())
	assert.Nil(t, lost.Model())
	assert.Equal(t, game_object.StageSpawned, f.entity(t, "objects/cube.object").Stage())
	assert.Equal(t, 1, f.s.Counters().Spawned)
	assert.Equal(t, map[game_object.Stage]int{
		game_object.StageAwaitingMaterialType: 1,
		game_object.StageSpawned:              1,
	}, f.s.StageCounts())
}

func TestShadersGateSpawn(t *testing.T) {
	f := newFixture(t)
	f.srv.Set(basicTypePath, materialType("Basic", fragmentPath, "albedo"))
	f.srv.Set(vertexPath, shader.Source{Path: vertexPath, Text: vertexWGSL})
	f.srv.Set("objects/cube.object", redCube(1))

	f.tick(10)
	assert.Equal(t, game_object.StageAwaitingShaders, f.entity(t, "objects/cube.object").Stage())

	f.srv.Set(fragmentPath, shader.Source{Path: fragmentPath, Text: fragmentWGSL})
	f.tick(2)
	assert.Equal(t, game_object.StageSpawned, f.entity(t, "objects/cube.object").Stage())
}

func TestReconcilerWritesOnlyChangedFields(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/cube.object", redCube(1))
	f.tick(4)
	obj := f.entity(t, "objects/cube.object")
	mdl := obj.Model()
	gen := mdl.Generation()

	moved := redCube(1)
	moved.Translation = [3]float32{0, 2, 0}
	f.srv.Set("objects/cube.object", moved)
	f.tick(1)
	assert.Equal(t, Counters{Spawned: 1, Moves: 1, PipelinesCompiled: 1}, f.s.Counters())
	assert.Equal(t, [3]float32{0, 2, 0}, obj.Translation())
	assert.Equal(t, gen, mdl.Generation())

	recolored := moved.Clone()
	recolored.Material = settings(basicTypePath, param{"albedo", blue})
	f.srv.Set("objects/cube.object", recolored)
	f.tick(1)
	assert.Equal(t, Counters{Spawned: 1, Moves: 1, MaterialUpdates: 1, PipelinesCompiled: 1}, f.s.Counters())
	slot, ok := f.reg.Slot("albedo")
	require.True(t, ok)
	assert.Equal(t, blue.Color, obj.Material().ResourceAt(slot).Color)
	assert.Equal(t, gen, mdl.Generation())

	reshaped := recolored.Clone()
	reshaped.Shape = description.Box{X: 1, Y: 2, Z: 3}
	f.srv.Set("objects/cube.object", reshaped)
	f.tick(1)
	assert.Equal(t, Counters{Spawned: 1, Moves: 1, MaterialUpdates: 1, ShapeUpdates: 1, PipelinesCompiled: 1}, f.s.Counters())
	assert.Same(t, mdl, obj.Model())
	assert.Greater(t, mdl.Generation(), gen)
	assert.Equal(t, game_object.StageSpawned, obj.Stage())
	assert.True(t, reshaped.Equal(obj.Description()))
}

func TestUnchangedEditTouchesNothing(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/cube.object", redCube(1))
	f.tick(4)

	f.srv.Set("objects/cube.object", redCube(1))
	f.tick(1)
	assert.Equal(t, Counters{Spawned: 1, PipelinesCompiled: 1}, f.s.Counters())
	assert.Equal(t, game_object.StageSpawned, f.entity(t, "objects/cube.object").Stage())
}

func TestBasicInstancesShareSlots(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/a.object", object(description.Cube{Size: 1}, [3]float32{}, settings(basicTypePath, param{"albedo", red})))
	f.srv.Set("objects/b.object", object(description.Cube{Size: 1}, [3]float32{2, 0, 0}, settings(basicTypePath, param{"albedo", blue}, param{"glow", red})))
	f.tick(4)

	a := f.entity(t, "objects/a.object").Material()
	b := f.entity(t, "objects/b.object").Material()
	require.NotNil(t, a)
	require.NotNil(t, b)

	assert.Equal(t, 1, a.Populated())
	assert.Equal(t, 1, b.Populated())
	assert.Equal(t, a.ResourceLen(), b.ResourceLen())
	assert.Equal(t, f.reg.Count(), a.ResourceLen())

	slot, ok := f.reg.Slot("albedo")
	require.True(t, ok)
	nameA, _ := a.NameAt(slot)
	nameB, _ := b.NameAt(slot)
	assert.Equal(t, "albedo", nameA)
	assert.Equal(t, "albedo", nameB)
	assert.Equal(t, red.Color, a.ResourceAt(slot).Color)
	assert.Equal(t, blue.Color, b.ResourceAt(slot).Color)
	_, glowRegistered := f.reg.Slot("glow")
	assert.False(t, glowRegistered)

	require.NoError(t, f.s.Draw())
	assert.Equal(t, 2, f.r.Stats().DrawCalls)
}

func TestCubeResizeRebuildsMesh(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/cube.object", redCube(1))
	f.tick(4)
	mdl := f.entity(t, "objects/cube.object").Model()
	before := mdl.BoundingRadius()

	f.srv.Set("objects/cube.object", redCube(2))
	f.tick(1)

	assert.Equal(t, 1, f.s.Counters().ShapeUpdates)
	assert.Same(t, mdl, f.entity(t, "objects/cube.object").Model())
	assert.InDelta(t, before*2, mdl.BoundingRadius(), 1e-5)
}

func TestNewFileSpawnsAtRuntime(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/a.object", redCube(1))
	f.tick(4)
	require.Equal(t, 1, f.s.Count())

	f.srv.Set("objects/b.object", redCube(1))
	f.tick(4)
	assert.Equal(t, 2, f.s.Count())
	assert.Equal(t, game_object.StageSpawned, f.entity(t, "objects/b.object").Stage())
	assert.Equal(t, 1, f.s.Counters().PipelinesCompiled, "the second object reuses the cached pipeline")
}

func TestEditDuringStagingIsApplied(t *testing.T) {
	f := newFixture(t)
	f.srv.Set(basicTypePath, materialType("Basic", fragmentPath, "albedo"))
	f.srv.Set("objects/cube.object", redCube(1))
	f.tick(3)
	obj := f.entity(t, "objects/cube.object")
	require.Equal(t, game_object.StageAwaitingShaders, obj.Stage())

	moved := redCube(1)
	moved.Translation = [3]float32{5, 0, 0}
	f.srv.Set("objects/cube.object", moved)
	f.srv.Set(vertexPath, shader.Source{Path: vertexPath, Text: vertexWGSL})
	f.srv.Set(fragmentPath, shader.Source{Path: fragmentPath, Text: fragmentWGSL})

	f.tick(2)
	assert.Equal(t, game_object.StageNeedsUpdate, obj.Stage())
	assert.Equal(t, [3]float32{}, obj.Translation())

	f.tick(1)
	assert.Equal(t, game_object.StageSpawned, obj.Stage())
	assert.Equal(t, [3]float32{5, 0, 0}, obj.Translation())
	assert.Equal(t, 1, f.s.Counters().Moves)
}

func TestEditsApplyInArrivalOrder(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/cube.object", redCube(1))
	f.tick(4)

	for _, x := range []float32{1, 2, 3} {
		moved := redCube(1)
		moved.Translation = [3]float32{x, 0, 0}
		f.srv.Set("objects/cube.object", moved)
	}
	f.tick(1)

	assert.Equal(t, 3, f.s.Counters().Moves)
	assert.Equal(t, [3]float32{3, 0, 0}, f.entity(t, "objects/cube.object").Translation())
}

func TestMaterialFileReference(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	ms := settings(basicTypePath, param{"albedo", red})
	f.srv.Set("materials/red.material", &ms)
	f.srv.Set("objects/cube.object", &description.Object{
		Shape:        description.Cube{Size: 1},
		MaterialFile: "materials/red.material",
	})

	f.tick(1)
	obj := f.entity(t, "objects/cube.object")
	assert.Equal(t, game_object.StageAwaitingMaterialInstance, obj.Stage())
	f.tick(4)
	require.Equal(t, game_object.StageSpawned, obj.Stage())

	slot, ok := f.reg.Slot("albedo")
	require.True(t, ok)
	assert.Equal(t, red.Color, obj.Material().ResourceAt(slot).Color)

	edited := settings(basicTypePath, param{"albedo", blue})
	f.srv.Set("materials/red.material", &edited)
	f.tick(1)
	assert.Equal(t, 1, f.s.Counters().MaterialUpdates)
	assert.Equal(t, blue.Color, obj.Material().ResourceAt(slot).Color)
	assert.Equal(t, game_object.StageSpawned, obj.Stage())
}

func TestEditsSavedByRenameAreApplied(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	ms := settings(basicTypePath, param{"albedo", red})
	f.srv.Set("materials/red.material", &ms)
	f.srv.Set("objects/cube.object", &description.Object{
		Shape:        description.Cube{Size: 1},
		MaterialFile: "materials/red.material",
	})
	f.tick(5)
	obj := f.entity(t, "objects/cube.object")
	require.Equal(t, game_object.StageSpawned, obj.Stage())
	old := obj.Pipeline()

	// Editors that write a temp file and rename it over the original produce Remove then Create.
	edited := settings(basicTypePath, param{"albedo", blue})
	f.srv.Remove("materials/red.material")
	f.srv.Set("materials/red.material", &edited)
	f.tick(1)

	slot, ok := f.reg.Slot("albedo")
	require.True(t, ok)
	assert.Equal(t, 1, f.s.Counters().MaterialUpdates)
	assert.Equal(t, blue.Color, obj.Material().ResourceAt(slot).Color)
	assert.Equal(t, game_object.StageSpawned, obj.Stage())

	f.srv.Remove(fragmentPath)
	f.srv.Set(fragmentPath, shader.Source{Path: fragmentPath, Text: fragmentWGSL + "\n// edited"})
	f.tick(1)

	assert.Equal(t, 1, f.s.Counters().ShaderReloads)
	assert.NotSame(t, old, obj.Pipeline())
	assert.Equal(t, old.PipelineKey(), obj.Pipeline().PipelineKey())
}

func TestMaterialTypeChangeRestages(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set(otherTypePath, materialType("Other", flatPath, "tint"))
	f.srv.Set(flatPath, shader.Source{Path: flatPath, Text: flatWGSL})
	f.srv.Set("objects/cube.object", redCube(1))
	f.tick(4)
	obj := f.entity(t, "objects/cube.object")
	mdl, mat := obj.Model(), obj.Material()

	other := object(description.Cube{Size: 1}, [3]float32{}, settings(otherTypePath, param{"tint", blue}))
	f.srv.Set("objects/cube.object", other)
	f.tick(1)
	assert.Equal(t, game_object.StageAwaitingMaterialType, obj.Stage())
	assert.Equal(t, 1, f.s.Counters().Restages)

	f.tick(3)
	assert.Equal(t, game_object.StageSpawned, obj.Stage())
	assert.Equal(t, "Other", obj.Schema().Name())
	assert.Same(t, mdl, obj.Model())
	assert.Same(t, mat, obj.Material())
	assert.True(t, strings.HasPrefix(obj.Pipeline().PipelineKey(), vertexPath+"|"+flatPath))
	assert.Equal(t, f.reg.Count(), mat.ResourceLen())
}

func TestShaderHotReload(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/a.object", redCube(1))
	f.srv.Set("objects/b.object", redCube(2))
	f.tick(4)
	a := f.entity(t, "objects/a.object")
	old := a.Pipeline()

	f.srv.Set(fragmentPath, shader.Source{Path: fragmentPath, Text: fragmentWGSL + "\n// edited"})
	f.tick(1)

	assert.Equal(t, 1, f.s.Counters().ShaderReloads)
	assert.NotSame(t, old, a.Pipeline())
	assert.Equal(t, old.PipelineKey(), a.Pipeline().PipelineKey())
	assert.Same(t, a.Pipeline(), f.entity(t, "objects/b.object").Pipeline())
	assert.Same(t, a.Pipeline(), f.r.Pipeline(old.PipelineKey()))
}

func TestBrokenShaderParksUntilFixed(t *testing.T) {
	f := newFixture(t)
	f.srv.Set(basicTypePath, materialType("Basic", fragmentPath, "albedo"))
	f.srv.Set(vertexPath, shader.Source{Path: vertexPath, Text: vertexWGSL})
	f.srv.Set(fragmentPath, shader.Source{Path: fragmentPath, Text: "fn broken() {}"})
	f.srv.Set("objects/cube.object", redCube(1))

	f.tick(10)
	obj := f.entity(t, "objects/cube.object")
	assert.Equal(t, game_object.StageAwaitingShaders, obj.Stage())
	assert.Equal(t, 0, f.s.Counters().PipelinesCompiled)

	f.srv.Set(fragmentPath, shader.Source{Path: fragmentPath, Text: fragmentWGSL})
	f.tick(3)
	assert.Equal(t, game_object.StageSpawned, obj.Stage())
}

func TestCameraSettingsFile(t *testing.T) {
	f := newFixture(t, WithCameraFile("settings.camera"))
	f.srv.Set("settings.camera", &description.CameraSettings{Translation: [3]float32{3, 5, -8}, FovDegrees: 60})
	f.srv.Set("other.camera", &description.CameraSettings{Translation: [3]float32{9, 9, 9}, FovDegrees: 30})
	f.tick(1)

	assert.Equal(t, [3]float32{3, 5, -8}, f.s.Camera().Translation())
	assert.InDelta(t, 1.0471976, f.s.Camera().Fov(), 1e-5)

	f.srv.Remove("settings.camera")
	f.tick(1)
	assert.Equal(t, [3]float32{3, 5, -8}, f.s.Camera().Translation(), "removals are ignored")
}

func TestRemovedObjectFilesKeepEntity(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/cube.object", redCube(1))
	f.tick(4)

	f.srv.Remove("objects/cube.object")
	f.tick(1)
	assert.Equal(t, game_object.StageSpawned, f.entity(t, "objects/cube.object").Stage())

	id := f.entity(t, "objects/cube.object").ID()
	f.s.Remove(id)
	assert.Nil(t, f.s.Get(id))
	assert.Zero(t, f.s.Count())
}

func TestLoadObjectsFromDisk(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"objects/cube.object": `translation = [0.0, 0.5, 0.0]
[shape]
kind = "Cube"
size = 1.0
[material]
material_type = "materials/basic.material_type"
[material.resources.albedo]
color = "#ff0000"
`,
		"objects/ball.object": `material_file = "materials/blue.material"
[shape]
kind = "Icosphere"
radius = 0.5
subdivisions = 2
`,
		"materials/blue.material": `material_type = "materials/basic.material_type"
[resources.albedo]
color = [0.0, 0.0, 1.0, 1.0]
`,
		"materials/basic.material_type": `name = "Basic"
[pipeline]
vertex = "shaders/basic.vert.wgsl"
fragment = "shaders/basic.frag.wgsl"
[[resources]]
name = "albedo"
kind = "Color"
`,
		"settings.camera": `translation = [3.0, 5.0, -8.0]
fov_degrees = 45.0
`,
		vertexPath:   vertexWGSL,
		fragmentPath: fragmentWGSL,
	}
	for path, contents := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
	}

	f := newFixtureAt(t, root, WithObjectsDir("objects"), WithCameraFile("settings.camera"))
	ids, err := f.s.LoadObjects()
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "objects/ball.object", f.s.Get(ids[0]).Source())

	f.tick(6)
	for _, id := range ids {
		assert.Equal(t, game_object.StageSpawned, f.s.Get(id).Stage(), f.s.Get(id).Source())
	}
	assert.Equal(t, [3]float32{3, 5, -8}, f.s.Camera().Translation())
	assert.Equal(t, [3]float32{0, 0.5, 0}, f.entity(t, "objects/cube.object").Translation())
	assert.Equal(t, 1, f.s.Counters().PipelinesCompiled)

	require.NoError(t, f.s.Draw())
	assert.Equal(t, 2, f.r.Stats().DrawCalls)
}

func TestNewSceneRequiresCollaborators(t *testing.T) {
	srv := assets.NewServer(assets.WithSynchronousLoads(true))
	defer srv.Close()
	reg := registry.NewNameRegistry()
	r := renderer.NewRenderer(renderer.BackendTypeHeadless, nil, renderer.WithRegistry(reg))

	assert.Panics(t, func() { NewScene("x", nil, r, reg) })
	assert.Panics(t, func() { NewScene("x", srv, nil, reg) })
	assert.Panics(t, func() { NewScene("x", srv, r, nil) })
	assert.NotPanics(t, func() { NewScene("x", srv, r, reg) })
}

func TestDrawSkipsObjectsOutsideFrustum(t *testing.T) {
	f := newFixture(t)
	f.setBasicType()
	f.srv.Set("objects/front.object", redCube(1))
	f.srv.Set("objects/behind.object", object(description.Cube{Size: 1}, [3]float32{0, 0, 40}, settings(basicTypePath, param{"albedo", red})))
	f.tick(4)
	require.Equal(t, 2, f.s.StageCounts()[game_object.StageSpawned])

	require.NoError(t, f.s.Draw())
	assert.Equal(t, 1, f.r.Stats().DrawCalls)

	f.s.Camera().SetTranslation([3]float32{0, 0, 60})
	require.NoError(t, f.s.Draw())
	assert.Equal(t, 2, f.r.Stats().DrawCalls)
}

func TestSampleAssetsSpawn(t *testing.T) {
	f := newFixtureAt(t, filepath.Join("..", "..", "assets"), WithCameraFile("settings.camera"))
	ids, err := f.s.LoadObjects()
	require.NoError(t, err)
	require.Len(t, ids, 3)

	f.tick(6)
	assert.Equal(t, map[game_object.Stage]int{game_object.StageSpawned: 3}, f.s.StageCounts())
	assert.Equal(t, 2, f.s.Counters().PipelinesCompiled)
	assert.Equal(t, [3]float32{3, 4, 8}, f.s.Camera().Translation())

	floor := f.entity(t, "objects/floor.object").Material()
	slot, ok := f.reg.Slot("albedo_map")
	require.True(t, ok)
	assert.Equal(t, "textures/checker.png", floor.ResourceAt(slot).Texture)
	assert.ElementsMatch(t, []string{"ALBEDO", "ALBEDO_MAP"}, floor.ShaderFlags())

	require.NoError(t, f.s.Draw())
	assert.Equal(t, 3, f.r.Stats().DrawCalls)
}
