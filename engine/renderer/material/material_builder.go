package material

import (
	"github.com/Carmen-Shannon/oxy-designer/engine/registry"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithRegistry is an option builder that sets the name registry the material allocates slots from.
// Every material in a process must share the same registry.
//
// Parameters:
//   - r: the shared NameRegistry
//
// Returns:
//   - MaterialBuilderOption: a function that applies the registry option to a material
func WithRegistry(r registry.NameRegistry) MaterialBuilderOption {
	return func(m *material) {
		m.registry = r
	}
}

// WithLabel is an option builder that sets the debug label of the material.
//
// Parameters:
//   - label: the label, usually the source file of the owning object
//
// Returns:
//   - MaterialBuilderOption: a function that applies the label option to a material
func WithLabel(label string) MaterialBuilderOption {
	return func(m *material) {
		m.label = label
	}
}

// WithSchema is an option builder that sets the initial material type schema.
//
// Parameters:
//   - s: the derived schema
//
// Returns:
//   - MaterialBuilderOption: a function that applies the schema option to a material
func WithSchema(s *Schema) MaterialBuilderOption {
	return func(m *material) {
		m.schema = s
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key for the material.
//
// Parameters:
//   - key: the pipeline key to associate with the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}
