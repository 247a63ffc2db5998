package renderer

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-designer/common"
	"github.com/Carmen-Shannon/oxy-designer/engine/model"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group convention of material shaders:
//
//	@group(0) @binding(0) var<uniform> frame: mat4x4<f32>;   view-projection
//	@group(1) @binding(0) var<uniform> object: mat4x4<f32>;  model matrix
//	@group(2) ...                                            one binding per material parameter
//
// A group 2 uniform binds the color of the parameter with the same name, a texture binds the
// texture of that parameter, and a sampler named <param>_sampler binds a linear sampler.
const (
	frameGroup    = 0
	objectGroup   = 1
	materialGroup = 2
	groupCount    = 3
)

type wgpuPipelineState struct {
	layouts []*wgpu.BindGroupLayout
	layout  *wgpu.PipelineLayout
}

type wgpuEntityState struct {
	mesh       bind_group_provider.BindGroupProvider
	generation uint64

	groups          [groupCount]bind_group_provider.BindGroupProvider
	pipelineKey     string
	materialVersion uint64
	missingTextures bool
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	textures       TextureSource
	textureCache   map[string]*wgpu.TextureView
	fallbackView   *wgpu.TextureView
	linearSampler  *wgpu.Sampler
	frameBuffer    *wgpu.Buffer
	pipelineStates map[string]*wgpuPipelineState
	entities       map[uint64]*wgpuEntityState

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, textures TextureSource) *wgpuRendererBackendImpl {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:             &sync.Mutex{},
		instance:       wgpu.CreateInstance(nil),
		presentMode:    wgpu.PresentModeFifo,
		sampleCount:    sampleCount,
		textures:       textures,
		textureCache:   make(map[string]*wgpu.TextureView),
		pipelineStates: make(map[string]*wgpuPipelineState),
		entities:       make(map[uint64]*wgpuEntityState),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Designer Device",
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	b.frameBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniform Buffer",
		Size:  64,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	b.linearSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Material Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		panic(err)
	}
	white := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(white.Pix, []byte{255, 255, 255, 255})
	b.fallbackView, err = b.uploadTexture("fallback", white)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	} else {
		b.msaaTextureView = nil
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue: wgpu.Color{
					R: 0.1, G: 0.1, B: 0.1, A: 1.0,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return err
	}

	var stages []shader.Shader
	stages = append(stages, vertexShader)
	if fragmentShader != nil {
		stages = append(stages, fragmentShader)
	}

	state := &wgpuPipelineState{layouts: make([]*wgpu.BindGroupLayout, groupCount)}
	for g := 0; g < groupCount; g++ {
		desc := mergeBindGroupLayouts(g, stages)
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		state.layouts[g] = layout
	}

	state.layout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: state.layouts,
	})
	if err != nil {
		return err
	}

	descriptor := &wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: state.layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    []wgpu.VertexBufferLayout{model.GPUVertexLayout()},
		},
		Primitive: p.PrimitiveState(),
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: p.DepthStencilState(wgpu.TextureFormatDepth24Plus),
	}
	if fragmentShader != nil {
		fs, err := b.device.CreateShaderModule(fragmentShader.Module())
		if err != nil {
			return err
		}
		descriptor.Fragment = &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{p.ColorTarget(*b.surfaceFormat)},
		}
	}

	created, err := b.device.CreateRenderPipeline(descriptor)
	if err != nil {
		return err
	}
	p.SetRenderPipeline(created)
	b.pipelineStates[p.PipelineKey()] = state
	return nil
}

func (b *wgpuRendererBackendImpl) ReleasePipeline(p pipeline.Pipeline) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if rp := p.RenderPipeline(); rp != nil {
		rp.Release()
		p.SetRenderPipeline(nil)
	}
	state, ok := b.pipelineStates[p.PipelineKey()]
	if !ok {
		return
	}
	state.layout.Release()
	for _, l := range state.layouts {
		l.Release()
	}
	delete(b.pipelineStates, p.PipelineKey())
}

func (b *wgpuRendererBackendImpl) BeginFrame(viewProj [16]float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A surface texture still held from the previous frame cannot be acquired again.
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	b.queue.WriteBuffer(b.frameBuffer, 0, matrixBytes(viewProj))

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) Draw(call DrawCall) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("draw outside of a frame")
	}
	renderPipeline := call.Pipeline.RenderPipeline()
	state, ok := b.pipelineStates[call.Pipeline.PipelineKey()]
	if renderPipeline == nil || !ok {
		return fmt.Errorf("pipeline %s was not registered", call.Pipeline.PipelineKey())
	}

	es, ok := b.entities[call.ID]
	if !ok {
		es = &wgpuEntityState{}
		b.entities[call.ID] = es
	}
	if err := b.syncMesh(call.ID, es, call.Model); err != nil {
		return err
	}
	if err := b.syncBindGroups(call, es, state); err != nil {
		return err
	}

	if buf := es.groups[objectGroup].Buffer(0); buf != nil {
		b.queue.WriteBuffer(buf, 0, matrixBytes(call.ModelMatrix))
	}
	b.writeMaterialColors(call, es.groups[materialGroup])

	b.framePass.SetPipeline(renderPipeline)
	for i, bg := range es.groups {
		b.framePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}
	b.framePass.SetVertexBuffer(0, es.mesh.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(es.mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(es.mesh.IndexCount()), 1, 0, 0, 0)
	return nil
}

// syncMesh re-uploads the vertex and index buffers whenever the model generation moved.
func (b *wgpuRendererBackendImpl) syncMesh(id uint64, es *wgpuEntityState, mdl model.Model) error {
	gen := mdl.Generation()
	if es.mesh != nil && es.generation == gen {
		return nil
	}
	if es.mesh != nil {
		es.mesh.Release()
	}
	provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s#%d", mdl.Name(), id))

	vertexData, indexData := mdl.VertexData(), mdl.IndexData()
	if len(vertexData) == 0 || len(indexData) == 0 {
		return fmt.Errorf("model %s has no geometry", mdl.Name())
	}
	vbuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(vbuf, 0, vertexData)
	provider.SetVertexBuffer(vbuf)

	ibuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(ibuf, 0, indexData)
	provider.SetIndexBuffer(ibuf)
	provider.SetIndexCount(mdl.IndexCount())

	es.mesh = provider
	es.generation = gen
	return nil
}

// syncBindGroups rebuilds the entity's bind groups when its pipeline or material changed, or
// when a texture that was missing last frame may have finished loading.
func (b *wgpuRendererBackendImpl) syncBindGroups(call DrawCall, es *wgpuEntityState, state *wgpuPipelineState) error {
	if es.groups[0] != nil && es.pipelineKey == call.Pipeline.PipelineKey() &&
		es.materialVersion == call.Material.Version && !es.missingTextures {
		return nil
	}
	for i, g := range es.groups {
		if g != nil {
			g.Release()
			es.groups[i] = nil
		}
	}
	es.missingTextures = false

	stages := []shader.Shader{call.Pipeline.Shader(shader.ShaderTypeVertex)}
	if fs := call.Pipeline.Shader(shader.ShaderTypeFragment); fs != nil {
		stages = append(stages, fs)
	}

	for g := 0; g < groupCount; g++ {
		provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s#%d group %d", call.Material.Label, call.ID, g))
		desc := mergeBindGroupLayouts(g, stages)
		entries := make([]wgpu.BindGroupEntry, 0, len(desc.Entries))
		for _, entry := range desc.Entries {
			decl := declarationAt(stages, g, int(entry.Binding))
			be := wgpu.BindGroupEntry{Binding: entry.Binding}
			switch decl.Kind {
			case shader.BindingKindTexture:
				view, ok := b.textureFor(call.Material, decl.Name)
				if !ok {
					es.missingTextures = true
				}
				be.TextureView = view
			case shader.BindingKindSampler:
				be.Sampler = b.linearSampler
			default:
				buf, err := b.uniformFor(g, provider, decl)
				if err != nil {
					return err
				}
				be.Buffer = buf
				be.Size = wgpu.WholeSize
			}
			entries = append(entries, be)
		}
		bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   provider.Label() + " Bind Group",
			Layout:  state.layouts[g],
			Entries: entries,
		})
		if err != nil {
			return err
		}
		provider.SetBindGroup(bindGroup)
		es.groups[g] = provider
	}
	es.pipelineKey = call.Pipeline.PipelineKey()
	es.materialVersion = call.Material.Version
	return nil
}

func (b *wgpuRendererBackendImpl) uniformFor(group int, provider bind_group_provider.BindGroupProvider, decl shader.Binding) (*wgpu.Buffer, error) {
	if group == frameGroup {
		return b.frameBuffer, nil
	}
	size := uint64(64)
	if group == materialGroup {
		var p material.GPUColorParam
		size = uint64(p.Size())
	}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " " + decl.Name,
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	provider.SetBuffer(decl.Binding, buf)
	return buf, nil
}

func (b *wgpuRendererBackendImpl) writeMaterialColors(call DrawCall, provider bind_group_provider.BindGroupProvider) {
	for _, s := range []shader.Shader{call.Pipeline.Shader(shader.ShaderTypeVertex), call.Pipeline.Shader(shader.ShaderTypeFragment)} {
		if s == nil {
			continue
		}
		for _, decl := range s.Bindings() {
			if decl.Group != materialGroup || decl.Kind != shader.BindingKindUniform {
				continue
			}
			buf := provider.Buffer(decl.Binding)
			if buf == nil {
				continue
			}
			var p material.GPUColorParam
			if r, ok := call.Material.Lookup(decl.Name); ok && r.Resource.Kind == material.ResourceKindColor {
				p.Color = r.Resource.Color
			}
			b.queue.WriteBuffer(buf, 0, p.Marshal())
		}
	}
}

// textureFor resolves the texture bound to a parameter, falling back to a white pixel when the
// parameter is unset or its image is still loading.
func (b *wgpuRendererBackendImpl) textureFor(binding *MaterialBinding, name string) (*wgpu.TextureView, bool) {
	r, ok := binding.Lookup(name)
	if !ok || r.Resource.Kind != material.ResourceKindTexture {
		return b.fallbackView, true
	}
	path := r.Resource.Texture
	if view, ok := b.textureCache[path]; ok {
		return view, true
	}
	if b.textures == nil {
		return b.fallbackView, true
	}
	img, ok := b.textures.Texture(path)
	if !ok {
		return b.fallbackView, false
	}
	view, err := b.uploadTexture(path, img)
	if err != nil {
		return b.fallbackView, true
	}
	b.textureCache[path] = view
	return view, true
}

func (b *wgpuRendererBackendImpl) uploadTexture(label string, img *image.RGBA) (*wgpu.TextureView, error) {
	width, height := uint32(img.Rect.Dx()), uint32(img.Rect.Dy())
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		img.Pix,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride),
			RowsPerImage: height,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)

	return tex.CreateView(nil)
}

func (b *wgpuRendererBackendImpl) Forget(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	es, ok := b.entities[id]
	if !ok {
		return
	}
	es.release()
	delete(b.entities, id)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, es := range b.entities {
		es.release()
		delete(b.entities, id)
	}
	for path, view := range b.textureCache {
		view.Release()
		delete(b.textureCache, path)
	}
	b.fallbackView.Release()
	b.linearSampler.Release()
	b.frameBuffer.Release()
}

func (es *wgpuEntityState) release() {
	if es.mesh != nil {
		es.mesh.Release()
	}
	for _, g := range es.groups {
		if g != nil {
			g.Release()
		}
	}
}

// mergeBindGroupLayouts combines one group's declarations across shader stages, OR-ing the
// visibility of bindings both stages declare.
func mergeBindGroupLayouts(group int, stages []shader.Shader) wgpu.BindGroupLayoutDescriptor {
	entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
	label := ""
	for _, s := range stages {
		desc := s.BindGroupLayoutDescriptor(group)
		if label == "" {
			label = desc.Label
		}
		for _, e := range desc.Entries {
			if existing, ok := entryMap[e.Binding]; ok {
				existing.Visibility |= e.Visibility
				entryMap[e.Binding] = existing
			} else {
				entryMap[e.Binding] = e
			}
		}
	}

	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
	for _, e := range entryMap {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Binding < entries[j].Binding
	})
	return wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: entries,
	}
}

func declarationAt(stages []shader.Shader, group, binding int) shader.Binding {
	for _, s := range stages {
		for _, decl := range s.Bindings() {
			if decl.Group == group && decl.Binding == binding {
				return decl
			}
		}
	}
	return shader.Binding{Group: group, Binding: binding}
}

// matrixBytes returns the raw bytes of a column-major matrix for a uniform upload.
func matrixBytes(m [16]float32) []byte {
	return common.SliceToBytes(m[:])
}
