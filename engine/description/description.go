// Package description holds the declarative values parsed from the designer's asset files:
// object descriptions, material types, material instances, and camera settings.
// Values are plain data compared structurally; change detection in the scene relies on it.
package description

import (
	"cogentcore.org/core/base/ordmap"
)

// ResourceKind is the declared kind of a material parameter.
type ResourceKind int

const (
	// ResourceKindColor is an RGBA color parameter.
	ResourceKindColor ResourceKind = iota

	// ResourceKindTexture is a texture file parameter.
	ResourceKindTexture
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceKindColor:
		return "Color"
	case ResourceKindTexture:
		return "Texture"
	default:
		return "Unknown"
	}
}

// MaterialResource is a concrete material parameter value, either a Color literal or a Texture path.
// The struct is comparable so resource maps can be checked for structural equality.
type MaterialResource struct {
	// Kind selects which of Color or Texture is meaningful.
	Kind ResourceKind

	// Color is the RGBA value for ResourceKindColor.
	Color [4]float32

	// Texture is the texture asset path for ResourceKindTexture.
	Texture string
}

// ColorResource returns a Color MaterialResource.
func ColorResource(r, g, b, a float32) MaterialResource {
	return MaterialResource{Kind: ResourceKindColor, Color: [4]float32{r, g, b, a}}
}

// TextureResource returns a Texture MaterialResource referencing the given asset path.
func TextureResource(path string) MaterialResource {
	return MaterialResource{Kind: ResourceKindTexture, Texture: path}
}

// MaterialPipeline references the shader sources of a material type.
type MaterialPipeline struct {
	// Vertex is the vertex shader asset path. Always required.
	Vertex string

	// Fragment is the fragment shader asset path. Empty when the type declares no fragment stage.
	Fragment string
}

// HasFragment reports whether the pipeline declares a fragment shader.
func (p MaterialPipeline) HasFragment() bool {
	return p.Fragment != ""
}

// MaterialType is the schema of a material: its shader pipeline and the ordered set of
// parameter names instances may set, with their declared kinds.
type MaterialType struct {
	Name      string
	Pipeline  MaterialPipeline
	Resources *ordmap.Map[string, ResourceKind]
}

// MaterialSettings is a material instance: a material type reference plus concrete parameter values.
type MaterialSettings struct {
	// MaterialType is the asset path of the referenced material type.
	MaterialType string

	// Resources maps parameter names to values, in file order.
	Resources *ordmap.Map[string, MaterialResource]
}

// NewMaterialSettings creates MaterialSettings for the given type path with an empty resource map.
func NewMaterialSettings(materialType string) MaterialSettings {
	return MaterialSettings{
		MaterialType: materialType,
		Resources:    ordmap.New[string, MaterialResource](),
	}
}

// Len returns the number of parameters set on the instance.
func (m MaterialSettings) Len() int {
	if m.Resources == nil {
		return 0
	}
	return m.Resources.Len()
}

// Equal reports whether two material instances reference the same type and set the same
// parameters to the same values. Parameter order is not significant.
//
// Parameters:
//   - other: the settings to compare against
//
// Returns:
//   - bool: true if both instances are structurally equal
func (m MaterialSettings) Equal(other MaterialSettings) bool {
	if m.MaterialType != other.MaterialType || m.Len() != other.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	for _, kv := range m.Resources.Order {
		v, ok := other.Resources.ValueByKeyTry(kv.Key)
		if !ok || v != kv.Value {
			return false
		}
	}
	return true
}

// Clone returns a copy of the settings whose resource map can be mutated independently.
func (m MaterialSettings) Clone() MaterialSettings {
	c := m
	if m.Resources != nil {
		c.Resources = ordmap.New[string, MaterialResource]()
		c.Resources.Copy(m.Resources)
	}
	return c
}

// Object is an object description: one shape, a translation, and a material instance.
// When MaterialFile is set the material instance lives in a separate .material asset and
// Material is filled in by the scene once that asset resolves.
type Object struct {
	Shape        Shape
	Translation  [3]float32
	Material     MaterialSettings
	MaterialFile string
}

// TranslationChanged reports whether the translation differs from other's.
func (o *Object) TranslationChanged(other *Object) bool {
	return o.Translation != other.Translation
}

// MaterialChanged reports whether the material instance or its file reference differs from other's.
func (o *Object) MaterialChanged(other *Object) bool {
	return o.MaterialFile != other.MaterialFile || !o.Material.Equal(other.Material)
}

// ShapeChanged reports whether the shape variant or any of its fields differ from other's.
func (o *Object) ShapeChanged(other *Object) bool {
	return !ShapesEqual(o.Shape, other.Shape)
}

// Equal reports full structural equality of two object descriptions.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	return !o.TranslationChanged(other) && !o.MaterialChanged(other) && !o.ShapeChanged(other)
}

// Clone returns a copy of the object whose resource map can be mutated independently.
func (o *Object) Clone() *Object {
	c := *o
	c.Material = o.Material.Clone()
	return &c
}

// CameraSettings positions the viewer camera.
type CameraSettings struct {
	Translation [3]float32
	FovDegrees  float32
}
