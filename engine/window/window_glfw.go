package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow owns the GLFW handle behind an engineWindow.
type glfwWindow struct {
	handle  *glfw.Window
	closing bool
}

// openGLFWWindow initialises GLFW and creates a window without a client API, since WebGPU
// brings its own. Input callbacks are forwarded to w.
func openGLFWWindow(w *engineWindow) (*glfwWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create glfw window: %w", err)
	}
	l := w.limits
	handle.SetSizeLimits(l.minWidth, l.minHeight, l.maxWidth, l.maxHeight)

	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press || action == glfw.Repeat {
			w.keyDown(uint32(key))
		}
	})
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resized(width, height)
	})
	handle.SetDropCallback(func(_ *glfw.Window, names []string) {
		w.dropped(names)
	})

	// The framebuffer can be larger than the requested size on high-DPI displays.
	w.width, w.height = handle.GetFramebufferSize()
	return &glfwWindow{handle: handle}, nil
}

func (g *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.handle)
}

func (g *glfwWindow) running() bool {
	return !g.closing && !g.handle.ShouldClose()
}

func (g *glfwWindow) setTitle(title string) {
	g.handle.SetTitle(title)
}

func (g *glfwWindow) requestClose() {
	g.closing = true
	g.handle.SetShouldClose(true)
}

func (g *glfwWindow) poll() {
	glfw.PollEvents()
}

func (g *glfwWindow) destroy() {
	g.requestClose()
	g.handle.Destroy()
	glfw.Terminate()
}
