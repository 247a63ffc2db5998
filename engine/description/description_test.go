package description

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeObject = `
translation = [0.0, 0.5, 0]

[shape]
kind = "Cube"
size = 1

[material]
material_type = "materials/basic.material_type"

[material.resources.albedo]
color = [1.0, 0.0, 0.0]

[material.resources.checker]
texture = "textures/checker.png"
`

func TestDecodeObject(t *testing.T) {
	obj, err := DecodeObject([]byte(cubeObject))
	require.NoError(t, err)

	assert.Equal(t, Cube{Size: 1}, obj.Shape)
	assert.Equal(t, [3]float32{0, 0.5, 0}, obj.Translation)
	assert.Equal(t, "materials/basic.material_type", obj.Material.MaterialType)
	require.Equal(t, 2, obj.Material.Len())

	albedo, ok := obj.Material.Resources.ValueByKeyTry("albedo")
	require.True(t, ok)
	assert.Equal(t, ColorResource(1, 0, 0, 1), albedo)

	checker, ok := obj.Material.Resources.ValueByKeyTry("checker")
	require.True(t, ok)
	assert.Equal(t, TextureResource("textures/checker.png"), checker)
}

func TestDecodeObjectMaterialFile(t *testing.T) {
	obj, err := DecodeObject([]byte(`
material_file = "materials/red.material"
[shape]
kind = "Plane"
size = 4.0
`))
	require.NoError(t, err)
	assert.Equal(t, "materials/red.material", obj.MaterialFile)
	assert.Equal(t, Plane{Size: 4}, obj.Shape)
	assert.Equal(t, 0, obj.Material.Len())
}

func TestDecodeObjectErrors(t *testing.T) {
	cases := map[string]string{
		"missing shape": `
[material]
material_type = "a.material_type"`,
		"unknown shape": `
[shape]
kind = "Teapot"
[material]
material_type = "a.material_type"`,
		"invalid cube": `
[shape]
kind = "Cube"
size = -1.0
[material]
material_type = "a.material_type"`,
		"missing material": `
[shape]
kind = "Cube"
size = 1.0`,
		"both materials": `
material_file = "a.material"
[shape]
kind = "Cube"
size = 1.0
[material]
material_type = "a.material_type"`,
		"bad translation": `
translation = [1.0, 2.0]
[shape]
kind = "Cube"
size = 1.0
[material]
material_type = "a.material_type"`,
		"not toml": `[shape`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeObject([]byte(src))
			assert.Error(t, err)
		})
	}

	_, err := DecodeObject([]byte(`
[shape]
kind = "Teapot"
[material]
material_type = "a.material_type"`))
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestDecodeObjectRejectsOutOfRangeShapes(t *testing.T) {
	shapes := map[string]string{
		"huge grid":           "kind = \"Grid\"\nsize = 1.0\nsubdivisions = 9000000000000",
		"grid over budget":    "kind = \"Grid\"\nsize = 1.0\nsubdivisions = 1024",
		"huge capsule rings":  "kind = \"Capsule\"\nrings = 9000000000000",
		"huge capsule lons":   "kind = \"Capsule\"\nlongitudes = 100000",
		"capsule over budget": "kind = \"Capsule\"\nlatitudes = 1024\nlongitudes = 1024",
		"huge torus":          "kind = \"Torus\"\nsubdivisions_segments = 9000000000000",
		"torus over budget":   "kind = \"Torus\"\nsubdivisions_segments = 1024\nsubdivisions_sides = 1024",
		"nan cube":            "kind = \"Cube\"\nsize = nan",
		"inf plane":           "kind = \"Plane\"\nsize = inf",
		"nan box":             "kind = \"Box\"\nx = 1.0\ny = nan\nz = 1.0",
		"nan capsule depth":   "kind = \"Capsule\"\ndepth = nan",
		"nan torus radius":    "kind = \"Torus\"\nring_radius = nan",
		"nan quad":            "kind = \"Quad\"\nsize = [nan, 1.0]",
	}
	for name, shape := range shapes {
		t.Run(name, func(t *testing.T) {
			src := "[shape]\n" + shape + "\n[material]\nmaterial_type = \"a.material_type\"\n"
			_, err := DecodeObject([]byte(src))
			assert.ErrorIs(t, err, ErrInvalidShape)
		})
	}
}

func TestShapeLimitsAcceptLargeMeshes(t *testing.T) {
	assert.NoError(t, Grid{Size: 1, Subdivisions: 1000}.Validate())
	assert.NoError(t, Torus{Radius: 1, RingRadius: 0.5, SubdivisionsSegments: 512, SubdivisionsSides: 512}.Validate())
	assert.NoError(t, Capsule{Radius: 0.5, Latitudes: 512, Longitudes: 1024}.Validate())
}

func TestDecodeShapes(t *testing.T) {
	cases := []struct {
		src  string
		want Shape
	}{
		{`kind = "Box"
x = 1
y = 2.0
z = 3`, Box{X: 1, Y: 2, Z: 3}},
		{`kind = "Capsule"
radius = 0.25
rings = 2
uv_profile = "Fixed"`, Capsule{Radius: 0.25, Rings: 2, Depth: 1, Latitudes: 16, Longitudes: 32, UVProfile: CapsuleUVProfileFixed}},
		{`kind = "Grid"
size = 10.0
subdivisions = 4`, Grid{Size: 10, Subdivisions: 4}},
		{`kind = "Icosphere"
radius = 2.0
subdivisions = 3`, Icosphere{Radius: 2, Subdivisions: 3}},
		{`kind = "Quad"
size = [2.0, 1.0]
flip = true`, Quad{Size: [2]float32{2, 1}, Flip: true}},
		{`kind = "Torus"
radius = 1.5
ring_radius = 0.25`, Torus{Radius: 1.5, RingRadius: 0.25, SubdivisionsSegments: 32, SubdivisionsSides: 24}},
	}
	for _, tc := range cases {
		t.Run(string(tc.want.Kind()), func(t *testing.T) {
			tbl, err := parseTable([]byte(tc.src))
			require.NoError(t, err)
			got, err := decodeShape(tbl)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeMaterialType(t *testing.T) {
	mt, err := DecodeMaterialType([]byte(`
name = "Basic"
[pipeline]
vertex = "shaders/basic.vert"
fragment = "shaders/basic.frag"

[[resources]]
name = "tint"
kind = "Color"

[[resources]]
name = "albedo"
kind = "Texture"
`))
	require.NoError(t, err)
	assert.Equal(t, "Basic", mt.Name)
	assert.Equal(t, "shaders/basic.vert", mt.Pipeline.Vertex)
	assert.True(t, mt.Pipeline.HasFragment())
	assert.Equal(t, []string{"tint", "albedo"}, mt.Resources.Keys())
	assert.Equal(t, []ResourceKind{ResourceKindColor, ResourceKindTexture}, mt.Resources.Values())
}

func TestDecodeMaterialTypeRejectsDuplicates(t *testing.T) {
	_, err := DecodeMaterialType([]byte(`
name = "Basic"
[pipeline]
vertex = "a.vert"
[[resources]]
name = "tint"
kind = "Color"
[[resources]]
name = "tint"
kind = "Texture"
`))
	assert.Error(t, err)
}

func TestDecodeMaterialSettingsHexColor(t *testing.T) {
	m, err := DecodeMaterialSettings([]byte(`
material_type = "materials/basic.material_type"
[resources.albedo]
color = "#ff0000"
`))
	require.NoError(t, err)
	albedo := m.Resources.ValueByKey("albedo")
	assert.Equal(t, ResourceKindColor, albedo.Kind)
	assert.InDelta(t, 1.0, albedo.Color[0], 1e-6)
	assert.InDelta(t, 0.0, albedo.Color[1], 1e-6)
	assert.InDelta(t, 1.0, albedo.Color[3], 1e-6)
}

func TestDecodeCameraSettings(t *testing.T) {
	c, err := DecodeCameraSettings([]byte(`
translation = [3.0, 5.0, -8.0]
fov_degrees = 45
`))
	require.NoError(t, err)
	assert.Equal(t, [3]float32{3, 5, -8}, c.Translation)
	assert.Equal(t, float32(45), c.FovDegrees)

	_, err = DecodeCameraSettings([]byte(`translation = [0.0, 0.0, 0.0]`))
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestShapeChangeDetection(t *testing.T) {
	a := &Object{Shape: Cube{Size: 1}}
	b := &Object{Shape: Cube{Size: 2}}
	c := &Object{Shape: Box{X: 1, Y: 1, Z: 1}}

	assert.True(t, a.ShapeChanged(b))
	assert.True(t, a.ShapeChanged(c), "different variants are never equal")
	assert.False(t, a.ShapeChanged(&Object{Shape: Cube{Size: 1}}))
	assert.False(t, a.TranslationChanged(b))
	assert.False(t, a.MaterialChanged(b))
}

func TestMaterialSettingsEqual(t *testing.T) {
	a := NewMaterialSettings("basic.material_type")
	a.Resources.Add("albedo", ColorResource(1, 0, 0, 1))
	a.Resources.Add("glow", ColorResource(0, 1, 0, 1))

	b := NewMaterialSettings("basic.material_type")
	b.Resources.Add("glow", ColorResource(0, 1, 0, 1))
	b.Resources.Add("albedo", ColorResource(1, 0, 0, 1))
	assert.True(t, a.Equal(b), "order is not significant")

	b.Resources.Add("albedo", ColorResource(0, 0, 1, 1))
	assert.False(t, a.Equal(b))

	c := NewMaterialSettings("other.material_type")
	assert.False(t, NewMaterialSettings("basic.material_type").Equal(c))
	assert.True(t, MaterialSettings{MaterialType: "x"}.Equal(NewMaterialSettings("x")))
}

func TestObjectCloneIsIndependent(t *testing.T) {
	obj, err := DecodeObject([]byte(cubeObject))
	require.NoError(t, err)
	clone := obj.Clone()
	require.True(t, obj.Equal(clone))

	clone.Material.Resources.Add("albedo", ColorResource(0, 0, 1, 1))
	assert.False(t, obj.Equal(clone))
	assert.Equal(t, ColorResource(1, 0, 0, 1), obj.Material.Resources.ValueByKey("albedo"))
}
