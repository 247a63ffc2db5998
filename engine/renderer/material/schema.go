package material

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-designer/engine/description"
)

// Param is one declared parameter of a material type schema.
type Param struct {
	// Name is the parameter name as written in the material type file.
	Name string

	// Kind is the declared resource kind.
	Kind description.ResourceKind

	// Flag is the shader define token enabled when the parameter is bound.
	Flag string
}

// Parameter is a concrete named value taken from a material instance.
type Parameter struct {
	Name  string
	Value description.MaterialResource
}

// Schema is the immutable, derived form of a material type. It is built once when the type
// finishes loading and shared by every material that references the type.
type Schema struct {
	name     string
	pipeline description.MaterialPipeline
	params   []Param
	index    map[string]int
}

// DeriveSchema builds the schema of a material type, computing the shader flag token of every
// declared parameter. The result does not alias the type's resource map.
//
// Parameters:
//   - mt: the loaded material type
//
// Returns:
//   - *Schema: the derived schema
func DeriveSchema(mt *description.MaterialType) *Schema {
	s := &Schema{
		name:     mt.Name,
		pipeline: mt.Pipeline,
		index:    make(map[string]int),
	}
	if mt.Resources == nil {
		return s
	}
	s.params = make([]Param, 0, mt.Resources.Len())
	for _, kv := range mt.Resources.Order {
		s.index[kv.Key] = len(s.params)
		s.params = append(s.params, Param{
			Name: kv.Key,
			Kind: kv.Value,
			Flag: FlagFor(kv.Key),
		})
	}
	return s
}

// FlagFor returns the shader define token for a parameter name.
func FlagFor(name string) string {
	return strings.ToUpper(name)
}

// Name returns the material type name.
func (s *Schema) Name() string {
	return s.name
}

// Pipeline returns the shader sources declared by the material type.
func (s *Schema) Pipeline() description.MaterialPipeline {
	return s.pipeline
}

// Len returns the number of declared parameters.
func (s *Schema) Len() int {
	return len(s.params)
}

// Params returns a copy of the declared parameters in declaration order.
func (s *Schema) Params() []Param {
	out := make([]Param, len(s.params))
	copy(out, s.params)
	return out
}

// Flag returns the shader define token for a declared parameter.
//
// Parameters:
//   - name: the parameter name
//
// Returns:
//   - string: the flag token
//   - bool: false if the schema does not declare the parameter
func (s *Schema) Flag(name string) (string, bool) {
	i, ok := s.index[name]
	if !ok {
		return "", false
	}
	return s.params[i].Flag, true
}

// ResourceIndexFor returns the declaration index of a parameter in the schema. The index is only
// used to check presence; materials store values under the global registry slot.
//
// Parameters:
//   - s: the schema to search
//   - name: the parameter name
//
// Returns:
//   - int: the declaration index, or -1 if absent
//   - bool: true if the schema declares the parameter
func ResourceIndexFor(s *Schema, name string) (int, bool) {
	if s == nil {
		return -1, false
	}
	i, ok := s.index[name]
	if !ok {
		return -1, false
	}
	return i, true
}

// Validate partitions the parameters of a material instance by presence in the schema.
// Accepted parameters keep the instance's order; rejected ones are returned for reporting.
//
// Parameters:
//   - instance: the material instance to check
//   - s: the schema of the referenced material type
//
// Returns:
//   - []Parameter: parameters declared by the schema
//   - []Parameter: parameters the schema does not declare
func Validate(instance description.MaterialSettings, s *Schema) (accepted, rejected []Parameter) {
	if instance.Resources == nil {
		return nil, nil
	}
	for _, kv := range instance.Resources.Order {
		p := Parameter{Name: kv.Key, Value: kv.Value}
		if _, ok := ResourceIndexFor(s, kv.Key); ok {
			accepted = append(accepted, p)
		} else {
			rejected = append(rejected, p)
		}
	}
	return accepted, rejected
}
