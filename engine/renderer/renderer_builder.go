package renderer

import (
	"github.com/Carmen-Shannon/oxy-designer/engine/registry"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithRegistry sets the name registry the renderer checks material resource counts against.
//
// Parameters:
//   - reg: the process-wide parameter name registry
//
// Returns:
//   - RendererBuilderOption: a function that applies the registry option to a renderer
func WithRegistry(reg registry.NameRegistry) RendererBuilderOption {
	return func(r *renderer) {
		r.registry = reg
	}
}

// WithTextureSource sets where texture parameters are resolved to pixels.
//
// Parameters:
//   - src: the texture source, normally the asset server
//
// Returns:
//   - RendererBuilderOption: a function that applies the texture source option to a renderer
func WithTextureSource(src TextureSource) RendererBuilderOption {
	return func(r *renderer) {
		r.textures = src
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceFallbackAdapter forces the WGPU backend onto a software adapter.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the fallback option to a renderer
func WithForceFallbackAdapter(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
