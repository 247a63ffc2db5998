package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/Carmen-Shannon/oxy-designer/engine/registry"
)

// ResourceKind identifies the variant held by a Resource.
type ResourceKind int

const (
	// ResourceKindNone is the inert value reported for slots a material never populated.
	ResourceKindNone ResourceKind = iota

	// ResourceKindColor is an RGBA color bound as a uniform.
	ResourceKindColor

	// ResourceKindTexture is a texture asset bound as a sampled texture.
	ResourceKindTexture
)

// Resource is the render-facing value stored in a material slot.
type Resource struct {
	Kind    ResourceKind
	Color   [4]float32
	Texture string
}

// IsNone reports whether the resource is the inert value.
func (r Resource) IsNone() bool {
	return r.Kind == ResourceKindNone
}

// ResourceFrom converts a material instance value into a render resource.
func ResourceFrom(v description.MaterialResource) Resource {
	switch v.Kind {
	case description.ResourceKindColor:
		return Resource{Kind: ResourceKindColor, Color: v.Color}
	case description.ResourceKindTexture:
		return Resource{Kind: ResourceKindTexture, Texture: v.Texture}
	default:
		return Resource{}
	}
}

type slotEntry struct {
	name  string
	value Resource
}

// material is the implementation of the Material interface.
type material struct {
	mu *sync.RWMutex

	label       string
	registry    registry.NameRegistry
	schema      *Schema
	pipelineKey string

	slots   map[int]slotEntry
	version uint64
}

// Material is the live, render-facing realization of a material instance. Values are stored under
// the global slot of their parameter name, and every material reports the same resource count,
// the number of names ever registered, regardless of how many parameters it populated.
//
// Materials are mutated by the scene tick and read by the renderer, so all methods are safe for
// concurrent use.
type Material interface {
	// Label returns the debug label of the material.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Schema returns the schema of the material type the material was last populated against.
	//
	// Returns:
	//   - *Schema: the schema, or nil if the material was never populated
	Schema() *Schema

	// SetSchema sets the schema used to resolve shader flags.
	//
	// Parameters:
	//   - s: the schema of the referenced material type
	SetSchema(s *Schema)

	// PipelineKey returns the key of the render pipeline this material is drawn with.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key
	SetPipelineKey(key string)

	// Insert stores a value under the global slot of the given name, registering the name if needed.
	// An existing value at the slot is overwritten.
	//
	// Parameters:
	//   - name: the parameter name
	//   - value: the resource value
	//
	// Returns:
	//   - int: the global slot the value was stored at
	Insert(name string, value Resource) int

	// ResourceLen returns the number of slots the material exposes, which always equals the
	// registry's count.
	//
	// Returns:
	//   - int: the resource list length
	ResourceLen() int

	// ResourceAt returns the value at a global slot. Slots the material never populated, and slots
	// outside the registered range, return the inert ResourceKindNone value.
	//
	// Parameters:
	//   - slot: the global slot index
	//
	// Returns:
	//   - Resource: the stored value or the inert value
	ResourceAt(slot int) Resource

	// NameAt returns the parameter name stored at a global slot.
	//
	// Parameters:
	//   - slot: the global slot index
	//
	// Returns:
	//   - string: the parameter name
	//   - bool: false if this material never populated the slot
	NameAt(slot int) (string, bool)

	// ShaderFlagAt returns the shader define token for the parameter stored at a global slot,
	// resolved through the material type's schema.
	//
	// Parameters:
	//   - slot: the global slot index
	//
	// Returns:
	//   - string: the flag token
	//   - bool: false if the slot holds no name or the schema has no flag for it
	ShaderFlagAt(slot int) (string, bool)

	// ShaderFlags returns every defined shader flag in slot order.
	//
	// Returns:
	//   - []string: the flag tokens
	ShaderFlags() []string

	// Populated returns the number of slots this material holds a value for.
	//
	// Returns:
	//   - int: the populated slot count
	Populated() int

	// Version returns a counter incremented whenever a slot value changes.
	//
	// Returns:
	//   - uint64: the version
	Version() uint64
}

var _ Material = &material{}

// NewMaterial creates an empty live material bound to a name registry.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:    &sync.RWMutex{},
		slots: make(map[int]slotEntry),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.registry == nil {
		panic("material: a NameRegistry must be provided via WithRegistry")
	}
	return m
}

func (m *material) Label() string {
	return m.label
}

func (m *material) Schema() *Schema {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.schema
}

func (m *material) SetSchema(s *Schema) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.schema != s {
		m.schema = s
		m.version++
	}
}

func (m *material) PipelineKey() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pipelineKey
}

func (m *material) SetPipelineKey(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelineKey = key
}

func (m *material) Insert(name string, value Resource) int {
	slot := m.registry.Register(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.slots[slot]
	if ok && prev.value == value {
		return slot
	}
	m.slots[slot] = slotEntry{name: name, value: value}
	m.version++
	return slot
}

func (m *material) ResourceLen() int {
	return m.registry.Count()
}

func (m *material) ResourceAt(slot int) Resource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[slot].value
}

func (m *material) NameAt(slot int) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.slots[slot]
	if !ok {
		return "", false
	}
	return e.name, true
}

func (m *material) ShaderFlagAt(slot int) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flagAt(slot)
}

func (m *material) ShaderFlags() []string {
	n := m.registry.Count()
	m.mu.RLock()
	defer m.mu.RUnlock()
	var flags []string
	for slot := 0; slot < n; slot++ {
		if f, ok := m.flagAt(slot); ok {
			flags = append(flags, f)
		}
	}
	return flags
}

func (m *material) Populated() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots)
}

func (m *material) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// flagAt must be called with m.mu held.
func (m *material) flagAt(slot int) (string, bool) {
	e, ok := m.slots[slot]
	if !ok || m.schema == nil {
		return "", false
	}
	return m.schema.Flag(e.name)
}

// Populate validates a material instance against a schema and writes every accepted parameter into
// the material. Parameters present in an earlier population but absent now keep their old value.
//
// Parameters:
//   - m: the live material to write into
//   - instance: the material instance values
//   - s: the schema of the instance's material type
//
// Returns:
//   - []Parameter: the parameters written
//   - []Parameter: the parameters rejected by the schema
func Populate(m Material, instance description.MaterialSettings, s *Schema) (accepted, rejected []Parameter) {
	m.SetSchema(s)
	accepted, rejected = Validate(instance, s)
	for _, p := range accepted {
		m.Insert(p.Name, ResourceFrom(p.Value))
	}
	return accepted, rejected
}
