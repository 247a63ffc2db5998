package game_object

import (
	"github.com/Carmen-Shannon/oxy-designer/engine/description"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithSource sets the asset path of the .object file the GameObject is created for.
//
// Parameters:
//   - path: the object file's asset path
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the source
func WithSource(path string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.source = path
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithDescription sets the initial description snapshot and translation of the GameObject.
//
// Parameters:
//   - desc: the decoded object description
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the description
func WithDescription(desc *description.Object) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.desc = desc
		if desc != nil {
			obj.translation = desc.Translation
		}
	}
}

// WithStage sets the starting stage of the GameObject, bypassing the transition table.
//
// Parameters:
//   - stage: the initial stage
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the stage
func WithStage(stage Stage) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.stage = stage
	}
}
