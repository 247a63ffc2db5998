package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-designer/common"
	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/chewxy/math32"
)

type cameraImpl struct {
	mu *sync.Mutex

	translation [3]float32
	target      [3]float32
	up          [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
}

// Camera defines the interface for the viewer camera.
// The camera sits at a translation, looks at a target point, and recomputes its
// view and projection matrices whenever one of its settings changes.
type Camera interface {
	// Translation returns the camera's world-space position.
	//
	// Returns:
	//   - [3]float32: the position
	Translation() [3]float32

	// SetTranslation moves the camera.
	//
	// Parameters:
	//   - t: the world-space position
	SetTranslation(t [3]float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - [3]float32: the world-space target
	Target() [3]float32

	// SetTarget sets the look-at point.
	//
	// Parameters:
	//   - t: the world-space target
	SetTarget(t [3]float32)

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - [3]float32: the up vector
	Up() [3]float32

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// SetFov sets the vertical field of view.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio, normally after a window resize.
	//
	// Parameters:
	//   - aspect: width divided by height
	SetAspect(aspect float32)

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Apply positions the camera from a camera settings file: it moves to the settings'
	// translation, looks at the origin with +Y up, and converts the field of view to radians.
	//
	// Parameters:
	//   - settings: the decoded camera settings
	Apply(settings *description.CameraSettings)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera looking at the origin from (0, 0, 5) with a 45 degree field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		translation: [3]float32{0, 0, 5},
		up:          [3]float32{0, 1, 0},
		fov:         Radians(45),
		aspect:      1.0,
		near:        0.1,
		far:         100.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

// Radians converts degrees to radians.
func Radians(degrees float32) float32 {
	return degrees * math32.Pi / 180
}

func (c *cameraImpl) Translation() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.translation
}

func (c *cameraImpl) SetTranslation(t [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.translation = t
	c.updateMatrices()
}

func (c *cameraImpl) Target() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) SetTarget(t [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
	c.updateMatrices()
}

func (c *cameraImpl) Up() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Apply(settings *description.CameraSettings) {
	if settings == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.translation = settings.Translation
	c.target = [3]float32{}
	c.up = [3]float32{0, 1, 0}
	c.fov = Radians(settings.FovDegrees)
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection, and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.LookAt(c.viewMatrix[:],
		c.translation[0], c.translation[1], c.translation[2],
		c.target[0], c.target[1], c.target[2],
		c.up[0], c.up[1], c.up[2],
	)

	common.Perspective(c.projectionMatrix[:],
		c.fov, c.aspect, c.near, c.far,
	)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
