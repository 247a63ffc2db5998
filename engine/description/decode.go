package description

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"cogentcore.org/core/base/ordmap"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// ErrMissingField is returned when a required key is absent from a description file.
var ErrMissingField = errors.New("missing field")

// ErrFieldType is returned when a key holds a value of the wrong TOML type.
var ErrFieldType = errors.New("wrong field type")

// DecodeObject parses an object description file.
//
// Parameters:
//   - data: the TOML file contents
//
// Returns:
//   - *Object: the parsed description
//   - error: an error if the file is malformed or a field is invalid
func DecodeObject(data []byte) (*Object, error) {
	t, err := parseTable(data)
	if err != nil {
		return nil, err
	}
	obj := &Object{}

	shapeTable, ok, err := t.table("shape")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("object: %w: shape", ErrMissingField)
	}
	if obj.Shape, err = decodeShape(shapeTable); err != nil {
		return nil, fmt.Errorf("object: %w", err)
	}

	if obj.Translation, _, err = t.vec3("translation"); err != nil {
		return nil, fmt.Errorf("object: %w", err)
	}

	if obj.MaterialFile, _, err = t.str("material_file"); err != nil {
		return nil, fmt.Errorf("object: %w", err)
	}
	matTable, hasMaterial, err := t.table("material")
	if err != nil {
		return nil, fmt.Errorf("object: %w", err)
	}
	switch {
	case hasMaterial && obj.MaterialFile != "":
		return nil, fmt.Errorf("object: material and material_file are mutually exclusive")
	case hasMaterial:
		if obj.Material, err = decodeMaterialSettings(matTable); err != nil {
			return nil, fmt.Errorf("object: %w", err)
		}
	case obj.MaterialFile == "":
		return nil, fmt.Errorf("object: %w: material or material_file", ErrMissingField)
	}
	return obj, nil
}

// DecodeMaterialSettings parses a standalone material instance file.
//
// Parameters:
//   - data: the TOML file contents
//
// Returns:
//   - *MaterialSettings: the parsed material instance
//   - error: an error if the file is malformed
func DecodeMaterialSettings(data []byte) (*MaterialSettings, error) {
	t, err := parseTable(data)
	if err != nil {
		return nil, err
	}
	m, err := decodeMaterialSettings(t)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeMaterialType parses a material type file.
//
// Parameters:
//   - data: the TOML file contents
//
// Returns:
//   - *MaterialType: the parsed material type
//   - error: an error if the file is malformed
func DecodeMaterialType(data []byte) (*MaterialType, error) {
	t, err := parseTable(data)
	if err != nil {
		return nil, err
	}
	mt := &MaterialType{Resources: ordmap.New[string, ResourceKind]()}

	if mt.Name, _, err = t.str("name"); err != nil {
		return nil, fmt.Errorf("material type: %w", err)
	}
	pipeline, ok, err := t.table("pipeline")
	if err != nil {
		return nil, fmt.Errorf("material type: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("material type: %w: pipeline", ErrMissingField)
	}
	if mt.Pipeline.Vertex, ok, err = pipeline.str("vertex"); err != nil || !ok {
		return nil, fmt.Errorf("material type: pipeline: %w", coalesceErr(err, ErrMissingField, "vertex"))
	}
	if mt.Pipeline.Fragment, _, err = pipeline.str("fragment"); err != nil {
		return nil, fmt.Errorf("material type: pipeline: %w", err)
	}

	params, err := t.tables("resources")
	if err != nil {
		return nil, fmt.Errorf("material type: %w", err)
	}
	for i, p := range params {
		name, ok, err := p.str("name")
		if err != nil || !ok {
			return nil, fmt.Errorf("material type: resources[%d]: %w", i, coalesceErr(err, ErrMissingField, "name"))
		}
		kindName, _, err := p.str("kind")
		if err != nil {
			return nil, fmt.Errorf("material type: resources[%d]: %w", i, err)
		}
		kind, err := parseResourceKind(kindName)
		if err != nil {
			return nil, fmt.Errorf("material type: resources[%d]: %w", i, err)
		}
		if _, dup := mt.Resources.ValueByKeyTry(name); dup {
			return nil, fmt.Errorf("material type: resources[%d]: duplicate parameter %q", i, name)
		}
		mt.Resources.Add(name, kind)
	}
	return mt, nil
}

// DecodeCameraSettings parses a camera settings file.
//
// Parameters:
//   - data: the TOML file contents
//
// Returns:
//   - *CameraSettings: the parsed settings
//   - error: an error if the file is malformed
func DecodeCameraSettings(data []byte) (*CameraSettings, error) {
	t, err := parseTable(data)
	if err != nil {
		return nil, err
	}
	c := &CameraSettings{}
	var ok bool
	if c.Translation, ok, err = t.vec3("translation"); err != nil || !ok {
		return nil, fmt.Errorf("camera: %w", coalesceErr(err, ErrMissingField, "translation"))
	}
	if c.FovDegrees, ok, err = t.float("fov_degrees"); err != nil || !ok {
		return nil, fmt.Errorf("camera: %w", coalesceErr(err, ErrMissingField, "fov_degrees"))
	}
	if c.FovDegrees <= 0 || c.FovDegrees >= 180 {
		return nil, fmt.Errorf("camera: fov_degrees must be in (0, 180), got %g", c.FovDegrees)
	}
	return c, nil
}

func decodeMaterialSettings(t table) (MaterialSettings, error) {
	typePath, ok, err := t.str("material_type")
	if err != nil || !ok {
		return MaterialSettings{}, fmt.Errorf("material: %w", coalesceErr(err, ErrMissingField, "material_type"))
	}
	m := NewMaterialSettings(typePath)

	resources, _, err := t.table("resources")
	if err != nil {
		return MaterialSettings{}, fmt.Errorf("material: %w", err)
	}
	// TOML tables are unordered; keys are added in sorted order so repeated loads agree.
	for _, name := range resources.keys() {
		res, ok, err := resources.table(name)
		if err != nil || !ok {
			return MaterialSettings{}, fmt.Errorf("material: resources.%s: %w", name, coalesceErr(err, ErrFieldType, "expected table"))
		}
		value, err := decodeResource(res)
		if err != nil {
			return MaterialSettings{}, fmt.Errorf("material: resources.%s: %w", name, err)
		}
		m.Resources.Add(name, value)
	}
	return m, nil
}

func decodeResource(t table) (MaterialResource, error) {
	_, hasColor := t["color"]
	tex, hasTexture, err := t.str("texture")
	if err != nil {
		return MaterialResource{}, err
	}
	switch {
	case hasColor && hasTexture:
		return MaterialResource{}, fmt.Errorf("color and texture are mutually exclusive")
	case hasTexture:
		return TextureResource(tex), nil
	case hasColor:
		c, err := t.color("color")
		if err != nil {
			return MaterialResource{}, err
		}
		return MaterialResource{Kind: ResourceKindColor, Color: c}, nil
	default:
		return MaterialResource{}, fmt.Errorf("%w: color or texture", ErrMissingField)
	}
}

func parseResourceKind(name string) (ResourceKind, error) {
	switch name {
	case "Color":
		return ResourceKindColor, nil
	case "Texture":
		return ResourceKindTexture, nil
	default:
		return 0, fmt.Errorf("unknown resource kind %q", name)
	}
}

func decodeShape(t table) (Shape, error) {
	kind, ok, err := t.str("kind")
	if err != nil || !ok {
		return nil, fmt.Errorf("shape: %w", coalesceErr(err, ErrMissingField, "kind"))
	}

	var s Shape
	switch ShapeKind(kind) {
	case ShapeKindBox:
		var b Box
		if b.X, err = t.requireFloat("x"); err != nil {
			break
		}
		if b.Y, err = t.requireFloat("y"); err != nil {
			break
		}
		b.Z, err = t.requireFloat("z")
		s = b
	case ShapeKindCapsule:
		c := Capsule{Radius: 0.5, Depth: 1, Latitudes: 16, Longitudes: 32}
		var profile string
		err = firstErr(
			t.optFloat("radius", &c.Radius),
			t.optInt("rings", &c.Rings),
			t.optFloat("depth", &c.Depth),
			t.optInt("latitudes", &c.Latitudes),
			t.optInt("longitudes", &c.Longitudes),
			t.optStr("uv_profile", &profile),
		)
		if err == nil {
			c.UVProfile, err = ParseCapsuleUVProfile(profile)
		}
		s = c
	case ShapeKindCube:
		var c Cube
		c.Size, err = t.requireFloat("size")
		s = c
	case ShapeKindGrid:
		g := Grid{Subdivisions: 10}
		if g.Size, err = t.requireFloat("size"); err == nil {
			err = t.optInt("subdivisions", &g.Subdivisions)
		}
		s = g
	case ShapeKindIcosphere:
		ico := Icosphere{Radius: 1, Subdivisions: 5}
		err = firstErr(t.optFloat("radius", &ico.Radius), t.optInt("subdivisions", &ico.Subdivisions))
		s = ico
	case ShapeKindPlane:
		var p Plane
		p.Size, err = t.requireFloat("size")
		s = p
	case ShapeKindQuad:
		var q Quad
		if q.Size, err = t.requireVec2("size"); err == nil {
			err = t.optBool("flip", &q.Flip)
		}
		s = q
	case ShapeKindTorus:
		tor := Torus{Radius: 1, RingRadius: 0.5, SubdivisionsSegments: 32, SubdivisionsSides: 24}
		err = firstErr(
			t.optFloat("radius", &tor.Radius),
			t.optFloat("ring_radius", &tor.RingRadius),
			t.optInt("subdivisions_segments", &tor.SubdivisionsSegments),
			t.optInt("subdivisions_sides", &tor.SubdivisionsSides),
		)
		s = tor
	default:
		return nil, fmt.Errorf("shape: %w: %q", ErrUnknownShape, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("shape %s: %w", kind, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("shape: %w", err)
	}
	return s, nil
}

// table is a decoded TOML table with typed accessors that accept both integer and float literals.
type table map[string]any

func parseTable(data []byte) (table, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return table(raw), nil
}

func (t table) keys() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (t table) table(key string) (table, bool, error) {
	v, ok := t[key]
	if !ok {
		return nil, false, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s must be a table", ErrFieldType, key)
	}
	return table(m), true, nil
}

func (t table) tables(key string) ([]table, error) {
	v, ok := t[key]
	if !ok {
		return nil, nil
	}
	switch arr := v.(type) {
	case []map[string]any:
		out := make([]table, len(arr))
		for i, m := range arr {
			out[i] = table(m)
		}
		return out, nil
	case []any:
		out := make([]table, len(arr))
		for i, item := range arr {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s[%d] must be a table", ErrFieldType, key, i)
			}
			out[i] = table(m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be an array of tables", ErrFieldType, key)
	}
}

func (t table) str(key string) (string, bool, error) {
	v, ok := t[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s must be a string", ErrFieldType, key)
	}
	return s, true, nil
}

func (t table) float(key string) (float32, bool, error) {
	v, ok := t[key]
	if !ok {
		return 0, false, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return f, true, nil
}

func (t table) requireFloat(key string) (float32, error) {
	f, ok, err := t.float(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	return f, nil
}

func (t table) optFloat(key string, dst *float32) error {
	f, ok, err := t.float(key)
	if ok {
		*dst = f
	}
	return err
}

func (t table) optInt(key string, dst *int) error {
	v, ok := t[key]
	if !ok {
		return nil
	}
	i, ok := v.(int64)
	if !ok {
		return fmt.Errorf("%w: %s must be an integer", ErrFieldType, key)
	}
	*dst = int(i)
	return nil
}

func (t table) optBool(key string, dst *bool) error {
	v, ok := t[key]
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("%w: %s must be a boolean", ErrFieldType, key)
	}
	*dst = b
	return nil
}

func (t table) optStr(key string, dst *string) error {
	s, ok, err := t.str(key)
	if ok {
		*dst = s
	}
	return err
}

func (t table) floats(key string, n ...int) ([]float32, bool, error) {
	v, ok := t[key]
	if !ok {
		return nil, false, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s must be an array", ErrFieldType, key)
	}
	lenOK := len(n) == 0
	for _, want := range n {
		if len(arr) == want {
			lenOK = true
		}
	}
	if !lenOK {
		return nil, false, fmt.Errorf("%w: %s has %d components, want %v", ErrFieldType, key, len(arr), n)
	}
	out := make([]float32, len(arr))
	for i, item := range arr {
		f, err := toFloat(item)
		if err != nil {
			return nil, false, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out[i] = f
	}
	return out, true, nil
}

func (t table) vec3(key string) ([3]float32, bool, error) {
	f, ok, err := t.floats(key, 3)
	if err != nil || !ok {
		return [3]float32{}, ok, err
	}
	return [3]float32{f[0], f[1], f[2]}, true, nil
}

func (t table) requireVec2(key string) ([2]float32, error) {
	f, ok, err := t.floats(key, 2)
	if err != nil {
		return [2]float32{}, err
	}
	if !ok {
		return [2]float32{}, fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	return [2]float32{f[0], f[1]}, nil
}

// color accepts [r, g, b], [r, g, b, a] or a "#rrggbb" hex string.
func (t table) color(key string) ([4]float32, error) {
	if s, ok := t[key].(string); ok {
		c, err := colorful.Hex(strings.TrimSpace(s))
		if err != nil {
			return [4]float32{}, fmt.Errorf("%s: %w", key, err)
		}
		return [4]float32{float32(c.R), float32(c.G), float32(c.B), 1}, nil
	}
	f, _, err := t.floats(key, 3, 4)
	if err != nil {
		return [4]float32{}, err
	}
	out := [4]float32{0, 0, 0, 1}
	copy(out[:], f)
	return out, nil
}

func toFloat(v any) (float32, error) {
	switch n := v.(type) {
	case float64:
		return float32(n), nil
	case int64:
		return float32(n), nil
	default:
		return 0, fmt.Errorf("%w: expected a number, got %T", ErrFieldType, v)
	}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// coalesceErr returns err when set, otherwise a sentinel wrapped with the field name.
func coalesceErr(err, sentinel error, field string) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", sentinel, field)
}
