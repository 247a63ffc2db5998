package scene

import (
	"maps"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-designer/engine/assets"
	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/Carmen-Shannon/oxy-designer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-designer/engine/model"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/pipeline"
)

// reconcile applies each entity's queued snapshots in arrival order, diffing every snapshot
// against the one applied before it. Translation, material, and shape are compared
// independently and only the fields that changed are written.
func (s *scene) reconcile(batch []game_object.GameObject) {
	for _, obj := range batch {
		updates := obj.DrainUpdates()
		restaged := false
		for i, snapshot := range updates {
			cur := obj.Description()
			next := s.resolveSnapshot(snapshot)

			if needsRestage(cur, next) {
				s.applyTransform(obj, cur, next)
				s.applyShape(obj, cur, next)
				obj.SetDescription(next)
				for _, rest := range updates[i+1:] {
					obj.EnqueueUpdate(rest)
				}
				if s.awaitMaterial(obj, next) {
					s.counters.Restages++
					s.logger.Info("[Scene] material type changed, restaging", "entity", obj.ID(), "source", obj.Source())
				}
				restaged = true
				break
			}

			s.applyTransform(obj, cur, next)
			s.applyMaterial(obj, cur, next)
			s.applyShape(obj, cur, next)
			obj.SetDescription(next)
		}
		if !restaged {
			s.transition(obj, game_object.StageSpawned)
		}
	}
}

// resolveSnapshot copies a queued snapshot and fills in the instance of a referenced .material
// file when the snapshot came straight from the object file.
func (s *scene) resolveSnapshot(snapshot *description.Object) *description.Object {
	next := snapshot.Clone()
	if next.MaterialFile != "" && next.Material.MaterialType == "" {
		if ms, ok := assets.Get[*description.MaterialSettings](s.assets, next.MaterialFile); ok {
			next.Material = ms.Clone()
		}
	}
	return next
}

// needsRestage reports whether next can only be applied by resolving a different material type.
func needsRestage(cur, next *description.Object) bool {
	if next.MaterialFile != cur.MaterialFile {
		return true
	}
	if next.MaterialFile != "" && next.Material.MaterialType == "" {
		return true
	}
	return next.Material.MaterialType != cur.Material.MaterialType
}

func (s *scene) applyTransform(obj game_object.GameObject, cur, next *description.Object) {
	if !next.TranslationChanged(cur) {
		return
	}
	obj.SetTranslation(next.Translation)
	s.counters.Moves++
	s.logger.Info("[Scene] move object", "entity", obj.ID(), "source", obj.Source(), "translation", next.Translation)
}

func (s *scene) applyMaterial(obj game_object.GameObject, cur, next *description.Object) {
	if !next.MaterialChanged(cur) {
		return
	}
	mat := obj.Material()
	s.populate(obj, mat, next.Material, obj.Schema())
	s.counters.MaterialUpdates++
	s.logger.Info("[Scene] update material", "entity", obj.ID(), "source", obj.Source(), "parameters", next.Material.Len())

	sources := obj.Schema().Pipeline()
	flags := mat.ShaderFlags()
	if pipeline.KeyFor(sources.Vertex, sources.Fragment, flags) == obj.Pipeline().PipelineKey() {
		return
	}
	if p, ok := s.ensurePipeline(obj.Schema(), flags); ok {
		obj.SetPipeline(p)
		mat.SetPipelineKey(p.PipelineKey())
	}
}

func (s *scene) applyShape(obj game_object.GameObject, cur, next *description.Object) {
	if !next.ShapeChanged(cur) {
		return
	}
	mesh, err := model.Build(next.Shape)
	if err != nil {
		s.logger.Warn("[Scene] failed to rebuild mesh", "entity", obj.ID(), "source", obj.Source(), "error", err)
		return
	}
	obj.Model().SetMesh(mesh)
	s.counters.ShapeUpdates++
	s.logger.Info("[Scene] update shape", "entity", obj.ID(), "source", obj.Source(), "shape", next.Shape.Kind(), "vertices", mesh.VertexCount())
}

// reloadShaders recompiles every pipeline built from a shader whose source changed and swaps
// the new pipeline into the entities using it. A failed compile keeps the old pipeline.
func (s *scene) reloadShaders() {
	if len(s.changedShaders) == 0 {
		return
	}
	changed := s.changedShaders
	s.changedShaders = nil

	for key := range s.failedPipelines {
		if keyUsesAny(key, changed) {
			delete(s.failedPipelines, key)
		}
	}

	users := make(map[string][]game_object.GameObject)
	for _, id := range slices.Sorted(maps.Keys(s.objects)) {
		obj := s.objects[id]
		p := obj.Pipeline()
		if p == nil || !keyUsesAny(p.PipelineKey(), changed) {
			continue
		}
		users[p.PipelineKey()] = append(users[p.PipelineKey()], obj)
	}

	for _, key := range slices.Sorted(maps.Keys(users)) {
		objs := users[key]
		vs, fs, ok := s.shaderSources(objs[0].Schema())
		if !ok {
			continue
		}
		p, err := s.r.CompilePipeline(key, vs, fs, objs[0].Pipeline().Flags())
		if err != nil {
			s.logger.Warn("[Scene] shader reload failed, keeping previous pipeline", "key", key, "error", err)
			continue
		}
		for _, obj := range objs {
			obj.SetPipeline(p)
		}
		s.counters.PipelinesCompiled++
		s.counters.ShaderReloads++
		s.logger.Info("[Scene] reloaded shaders", "key", key, "entities", len(objs))
	}
}

// keyUsesAny reports whether a pipeline key was built from any of the shader paths.
func keyUsesAny(key string, paths []string) bool {
	parts := strings.SplitN(key, "|", 3)
	for _, part := range parts[:min(2, len(parts))] {
		if part != "" && slices.Contains(paths, part) {
			return true
		}
	}
	return false
}
