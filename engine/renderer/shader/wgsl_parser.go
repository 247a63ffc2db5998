package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// BindingKind classifies a declared resource binding.
type BindingKind int

const (
	// BindingKindUnknown is a declaration whose type is not recognized.
	BindingKindUnknown BindingKind = iota

	// BindingKindUniform is a var<uniform> buffer.
	BindingKindUniform

	// BindingKindStorage is a var<storage> buffer.
	BindingKindStorage

	// BindingKindTexture is a sampled texture.
	BindingKindTexture

	// BindingKindSampler is a sampler.
	BindingKindSampler
)

// Binding is one @group(N) @binding(M) declaration of a WGSL shader.
type Binding struct {
	Group   int
	Binding int
	Name    string
	Type    string
	Kind    BindingKind
}

var (
	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> camera: CameraUniform;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseEntryPoint extracts the entry point function name for the given shader type.
// Returns an empty string if no matching entry point attribute is found.
func parseEntryPoint(source string, shaderType ShaderType) string {
	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}
	if match := re.FindStringSubmatch(stripComments(source)); match != nil {
		return match[1]
	}
	return ""
}

// parseBindings extracts all resource declarations, sorted by group then binding.
func parseBindings(source string) []Binding {
	matches := bindGroupDeclRegex.FindAllStringSubmatch(stripComments(source), -1)
	out := make([]Binding, 0, len(matches))
	for _, m := range matches {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		addressSpace := strings.TrimSpace(m[3])
		typeName := strings.TrimSpace(m[5])
		out = append(out, Binding{
			Group:   group,
			Binding: binding,
			Name:    m[4],
			Type:    typeName,
			Kind:    classify(addressSpace, typeName),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Binding < out[j].Binding
	})
	return out
}

func classify(addressSpace, typeName string) BindingKind {
	switch {
	case addressSpace == "uniform":
		return BindingKindUniform
	case strings.HasPrefix(addressSpace, "storage"):
		return BindingKindStorage
	case typeName == "sampler" || typeName == "sampler_comparison":
		return BindingKindSampler
	case strings.HasPrefix(typeName, "texture_"):
		return BindingKindTexture
	default:
		return BindingKindUnknown
	}
}

func (b Binding) layoutEntry(visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    uint32(b.Binding),
		Visibility: visibility,
	}
	switch b.Kind {
	case BindingKindUniform:
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case BindingKindStorage:
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	case BindingKindSampler:
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case BindingKindTexture:
		entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	}
	return entry
}

// stripComments removes // line comments and /* */ block comments, including nested blocks.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
