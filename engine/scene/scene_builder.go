package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-designer/engine/camera"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLogger sets the logger the scene systems report to.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCamera sets the scene's camera. Defaults to camera.NewCamera().
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithObjectsDir sets the folder LoadObjects scans for .object files. Defaults to "objects".
//
// Parameters:
//   - dir: the folder, relative to the asset root
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjectsDir(dir string) SceneBuilderOption {
	return func(s *scene) {
		s.objectsDir = dir
	}
}

// WithCameraFile sets the .camera asset that positions the scene's camera.
//
// Parameters:
//   - path: the camera settings asset path
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCameraFile(path string) SceneBuilderOption {
	return func(s *scene) {
		s.cameraFile = path
	}
}
