// pre_processor.go implements the conditional-compilation pass run over WGSL sources before
// they reach the GPU. Material parameters enable code paths by name: a material that binds
// "albedo_texture" compiles its shaders with ALBEDO_TEXTURE defined.
//
// Supported directives, each on its own line:
//
//	#define NAME
//	#ifdef NAME
//	#ifndef NAME
//	#else
//	#endif
//
// Blocks nest. Directive lines are removed from the output; lines in disabled blocks are
// replaced with empty lines so compiler diagnostics keep their line numbers.
package shader

import (
	"fmt"
	"slices"
	"strings"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	defines map[string]struct{}
}

// PreProcessor evaluates #ifdef-style directives in shader source against a set of defines.
type PreProcessor interface {
	// Process returns the source with directives evaluated. #define lines add to the define set
	// for the remainder of the source and for later calls.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code
	//
	// Returns:
	//   - string: the processed WGSL shader source code
	//   - error: an error on an unbalanced or malformed directive
	Process(source string) (string, error)

	// Defined returns the current define set, sorted.
	//
	// Returns:
	//   - []string: the defined names
	Defined() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the given names defined.
//
// Parameters:
//   - defines: the names to define up front
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(defines ...string) PreProcessor {
	p := &preProcessor{defines: make(map[string]struct{}, len(defines))}
	for _, d := range defines {
		p.defines[d] = struct{}{}
	}
	return p
}

type conditional struct {
	// parent is whether the enclosing block emits lines
	parent bool
	// taken is whether this block's current branch emits lines
	taken   bool
	hasElse bool
	line    int
}

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	var stack []conditional
	active := true

	for i, line := range lines {
		directive, arg, ok := parseDirective(line)
		if !ok {
			if active {
				out = append(out, line)
			} else {
				out = append(out, "")
			}
			continue
		}
		out = append(out, "")

		switch directive {
		case "define":
			if arg == "" {
				return "", fmt.Errorf("line %d: #define requires a name", i+1)
			}
			if active {
				p.defines[arg] = struct{}{}
			}
		case "ifdef", "ifndef":
			if arg == "" {
				return "", fmt.Errorf("line %d: #%s requires a name", i+1, directive)
			}
			_, defined := p.defines[arg]
			cond := defined == (directive == "ifdef")
			stack = append(stack, conditional{parent: active, taken: cond, line: i + 1})
			active = active && cond
		case "else":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: #else without #ifdef", i+1)
			}
			top := &stack[len(stack)-1]
			if top.hasElse {
				return "", fmt.Errorf("line %d: duplicate #else for block opened on line %d", i+1, top.line)
			}
			top.hasElse = true
			top.taken = !top.taken
			active = top.parent && top.taken
		case "endif":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: #endif without #ifdef", i+1)
			}
			active = stack[len(stack)-1].parent
			stack = stack[:len(stack)-1]
		default:
			return "", fmt.Errorf("line %d: unknown directive #%s", i+1, directive)
		}
	}
	if len(stack) > 0 {
		return "", fmt.Errorf("line %d: conditional block is never closed with #endif", stack[len(stack)-1].line)
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Defined() []string {
	out := make([]string, 0, len(p.defines))
	for d := range p.defines {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// parseDirective splits a "#name arg" line. Lines not starting with '#' are not directives.
func parseDirective(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	fields := strings.Fields(trimmed[1:])
	if len(fields) == 0 {
		return "", "", false
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	return fields[0], arg, true
}
