package scene

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-designer/engine/assets"
	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/Carmen-Shannon/oxy-designer/engine/game_object"
)

// processEvents applies the asset events queued since the last tick in arrival order.
// Caller must hold the mutex.
func (s *scene) processEvents() {
	for _, ev := range s.assets.DrainEvents() {
		if ev.Kind == assets.EventRemoved {
			s.removed[ev.Path] = struct{}{}
			s.logger.Debug("[Scene] ignoring removed asset", "path", ev.Path)
			continue
		}
		if _, ok := s.removed[ev.Path]; ok {
			delete(s.removed, ev.Path)
			ev.Kind = assets.EventModified
		}

		switch ext := assets.Extension(ev.Path); {
		case ext == assets.ExtObject:
			if obj, ok := ev.Value.(*description.Object); ok {
				s.objectChanged(ev, obj)
			}
		case ext == assets.ExtMaterial:
			if ms, ok := ev.Value.(*description.MaterialSettings); ok && ev.Kind == assets.EventModified {
				s.materialFileChanged(ev.Path, ms)
			}
		case ext == assets.ExtMaterialType:
			if _, derived := s.schemas[ev.Path]; derived && ev.Kind == assets.EventModified {
				s.logger.Warn("[Scene] material type schemas are fixed once loaded, edit ignored", "path", ev.Path)
			}
		case ext == assets.ExtCamera:
			if cs, ok := ev.Value.(*description.CameraSettings); ok && ev.Path == s.cameraFile {
				s.cam.Apply(cs)
				s.logger.Info("[Scene] camera settings applied", "translation", cs.Translation, "fov_degrees", cs.FovDegrees)
			}
		case slices.Contains(assets.ShaderExtensions, ext):
			if ev.Kind == assets.EventModified && !slices.Contains(s.changedShaders, ev.Path) {
				s.changedShaders = append(s.changedShaders, ev.Path)
			}
		}
	}
}

// objectChanged routes a decoded object file to its entity, creating one for files that
// appeared after startup.
func (s *scene) objectChanged(ev assets.Event, obj *description.Object) {
	id, ok := s.bySource[ev.Path]
	if !ok {
		s.spawnLocked(ev.Path)
		return
	}

	entity := s.objects[id]
	switch entity.Stage() {
	case game_object.StageUnloaded:
		// Picked up by loadDescriptions from the latest loaded value.
	case game_object.StageSpawned:
		entity.EnqueueUpdate(obj)
		s.transition(entity, game_object.StageNeedsUpdate)
	default:
		entity.EnqueueUpdate(obj)
	}
}

// materialFileChanged queues a snapshot with the new material instance for every entity that
// references the edited .material file and has already taken its previous value.
func (s *scene) materialFileChanged(path string, ms *description.MaterialSettings) {
	for _, id := range slices.Sorted(maps.Keys(s.objects)) {
		entity := s.objects[id]
		stage := entity.Stage()
		if stage == game_object.StageUnloaded || stage == game_object.StageAwaitingMaterialInstance {
			continue
		}
		latest := entity.LatestDescription()
		if latest == nil || latest.MaterialFile != path {
			continue
		}

		next := latest.Clone()
		next.Material = ms.Clone()
		entity.EnqueueUpdate(next)
		if stage == game_object.StageSpawned {
			s.transition(entity, game_object.StageNeedsUpdate)
		}
	}
}
