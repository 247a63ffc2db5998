package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is written for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Stage returns the wgpu visibility flag of the shader type.
func (t ShaderType) Stage() wgpu.ShaderStage {
	switch t {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}

// Source is the raw text of a shader asset, as loaded from disk.
type Source struct {
	// Path is the asset path the text was read from.
	Path string

	// Text is the unprocessed WGSL source.
	Text string
}

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and material binding.
type shader struct {
	key        string
	raw        string
	source     string
	shaderType ShaderType
	flags      []string
	entryPoint string
	bindings   []Binding
	module     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a pre-processed WGSL shader. It exposes the shader's key,
// processed source, entry point, declared bindings, and the module descriptor used for
// pipeline creation.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the type of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Flags returns the defines the source was pre-processed with, sorted.
	//
	// Returns:
	//   - []string: the defined flags
	Flags() []string

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Bindings returns the @group/@binding declarations that survived pre-processing, ordered by
	// group and binding.
	//
	// Returns:
	//   - []Binding: the declared resource bindings
	Bindings() []Binding

	// Binding looks up a declared binding by its variable name.
	//
	// Parameters:
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - Binding: the binding declaration
	//   - bool: true if the shader declares the variable
	Binding(name string) (Binding, bool)

	// BindGroupLayoutDescriptor builds the layout descriptor of one bind group from the declared bindings.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, empty if the group declares nothing
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// Specialize pre-processes the original source again with the given flags defined.
	//
	// Parameters:
	//   - flags: the defines to enable
	//
	// Returns:
	//   - Shader: a new shader built from the same source
	//   - error: an error if pre-processing fails
	Specialize(flags ...string) (Shader, error)
}

var _ Shader = &shader{}

// NewShader pre-processes WGSL source with the given flags and parses its entry point and bindings.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage the shader is written for
//   - source: the raw WGSL source
//   - flags: the defines to enable while pre-processing
//
// Returns:
//   - Shader: a new Shader instance
//   - error: an error if pre-processing fails or the source has no entry point for the stage
func NewShader(key string, shaderType ShaderType, source string, flags ...string) (Shader, error) {
	pp := NewPreProcessor(flags...)
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	s := &shader{
		key:        key,
		raw:        source,
		source:     processed,
		shaderType: shaderType,
		flags:      pp.Defined(),
	}
	s.entryPoint = parseEntryPoint(processed, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no @%s entry point", key, shaderType)
	}
	s.bindings = parseBindings(processed)
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: processed,
		},
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Flags() []string {
	out := make([]string, len(s.flags))
	copy(out, s.flags)
	return out
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Bindings() []Binding {
	out := make([]Binding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

func (s *shader) Binding(name string) (Binding, bool) {
	for _, b := range s.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	var entries []wgpu.BindGroupLayoutEntry
	for _, b := range s.bindings {
		if b.Group == group {
			entries = append(entries, b.layoutEntry(s.shaderType.Stage()))
		}
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   fmt.Sprintf("%s:group%d", s.key, group),
		Entries: entries,
	}
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Specialize(flags ...string) (Shader, error) {
	return NewShader(s.key, s.shaderType, s.raw, flags...)
}
