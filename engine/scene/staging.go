package scene

import (
	"github.com/Carmen-Shannon/oxy-designer/engine/assets"
	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/Carmen-Shannon/oxy-designer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-designer/engine/model"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/shader"
)

// loadDescriptions moves entities whose object file has decoded into the material stages.
func (s *scene) loadDescriptions(batch []game_object.GameObject) {
	for _, obj := range batch {
		desc, ok := assets.Get[*description.Object](s.assets, obj.Source())
		if !ok {
			continue
		}
		obj.SetDescription(desc.Clone())
		s.awaitMaterial(obj, obj.Description())
	}
}

// awaitMaterial requests the first dependency of desc and moves obj to the stage that waits for it.
func (s *scene) awaitMaterial(obj game_object.GameObject, desc *description.Object) bool {
	if desc.MaterialFile != "" {
		s.assets.Load(desc.MaterialFile)
		return s.transition(obj, game_object.StageAwaitingMaterialInstance)
	}
	s.assets.Load(desc.Material.MaterialType)
	return s.transition(obj, game_object.StageAwaitingMaterialType)
}

// resolveMaterialInstances fills in the material of objects that reference a .material file.
func (s *scene) resolveMaterialInstances(batch []game_object.GameObject) {
	for _, obj := range batch {
		desc := obj.Description()
		ms, ok := assets.Get[*description.MaterialSettings](s.assets, desc.MaterialFile)
		if !ok {
			continue
		}
		next := desc.Clone()
		next.Material = ms.Clone()
		obj.SetDescription(next)
		s.assets.Load(next.Material.MaterialType)
		s.transition(obj, game_object.StageAwaitingMaterialType)
	}
}

// resolveMaterialTypes attaches the schema of a loaded material type and requests its shaders.
func (s *scene) resolveMaterialTypes(batch []game_object.GameObject) {
	for _, obj := range batch {
		path := obj.Description().Material.MaterialType
		mt, ok := assets.Get[*description.MaterialType](s.assets, path)
		if !ok {
			continue
		}
		schema := s.schemaFor(path, mt)
		obj.SetSchema(schema)

		p := schema.Pipeline()
		s.assets.Load(p.Vertex)
		if p.HasFragment() {
			s.assets.Load(p.Fragment)
		}
		s.transition(obj, game_object.StageAwaitingShaders)
	}
}

// resolveShaders compiles the pipeline of entities whose shader sources have all loaded.
func (s *scene) resolveShaders(batch []game_object.GameObject) {
	for _, obj := range batch {
		schema := obj.Schema()
		accepted, _ := material.Validate(obj.Description().Material, schema)
		flags := make([]string, 0, len(accepted))
		for _, param := range accepted {
			if flag, ok := schema.Flag(param.Name); ok {
				flags = append(flags, flag)
			}
		}

		p, ok := s.ensurePipeline(schema, flags)
		if !ok {
			continue
		}
		obj.SetPipeline(p)
		s.transition(obj, game_object.StagePipelineReady)
	}
}

// spawnReady builds the mesh and live material of entities with a compiled pipeline.
// Entities coming back through staging keep their mesh and repopulate their material in place.
func (s *scene) spawnReady(batch []game_object.GameObject) {
	for _, obj := range batch {
		desc := obj.Description()

		if obj.Model() == nil {
			mesh, err := model.Build(desc.Shape)
			if err != nil {
				s.logger.Warn("[Scene] failed to build mesh", "entity", obj.ID(), "source", obj.Source(), "error", err)
				continue
			}
			obj.SetModel(model.NewModel(model.WithName(obj.Source()), model.WithMesh(mesh)))
		}

		mat := obj.Material()
		if mat == nil {
			mat = material.NewMaterial(
				material.WithRegistry(s.registry),
				material.WithLabel(obj.Source()),
			)
			obj.SetMaterial(mat)
		}
		s.populate(obj, mat, desc.Material, obj.Schema())
		mat.SetPipelineKey(obj.Pipeline().PipelineKey())
		obj.SetTranslation(desc.Translation)

		if obj.HasPendingUpdates() {
			s.transition(obj, game_object.StageNeedsUpdate)
		} else {
			s.transition(obj, game_object.StageSpawned)
		}
		s.counters.Spawned++
		s.logger.Info("[Scene] spawned", "entity", obj.ID(), "source", obj.Source(), "shape", desc.Shape.Kind(), "material", obj.Schema().Name())
	}
}

// populate writes an instance into a live material and reports rejected parameters.
func (s *scene) populate(obj game_object.GameObject, mat material.Material, instance description.MaterialSettings, schema *material.Schema) {
	_, rejected := material.Populate(mat, instance, schema)
	for _, param := range rejected {
		s.logger.Warn("[Scene] parameter not declared by material type, dropped",
			"entity", obj.ID(), "source", obj.Source(), "type", schema.Name(), "parameter", param.Name)
	}
}

// ensurePipeline returns the cached pipeline for a schema's shaders and flags, compiling it
// once both shader sources are loaded.
func (s *scene) ensurePipeline(schema *material.Schema, flags []string) (pipeline.Pipeline, bool) {
	sources := schema.Pipeline()
	key := pipeline.KeyFor(sources.Vertex, sources.Fragment, flags)
	if p := s.r.Pipeline(key); p != nil {
		return p, true
	}
	if _, failed := s.failedPipelines[key]; failed {
		return nil, false
	}

	vs, fs, ok := s.shaderSources(schema)
	if !ok {
		return nil, false
	}
	p, err := s.r.CompilePipeline(key, vs, fs, flags)
	if err != nil {
		s.failedPipelines[key] = struct{}{}
		s.logger.Warn("[Scene] failed to compile pipeline", "key", key, "error", err)
		return nil, false
	}
	s.counters.PipelinesCompiled++
	s.logger.Info("[Scene] compiled pipeline", "key", key)
	return p, true
}

// shaderSources returns the loaded vertex and optional fragment source of a schema.
func (s *scene) shaderSources(schema *material.Schema) (shader.Source, *shader.Source, bool) {
	sources := schema.Pipeline()
	vs, ok := assets.Get[shader.Source](s.assets, sources.Vertex)
	if !ok {
		return shader.Source{}, nil, false
	}
	if !sources.HasFragment() {
		return vs, nil, true
	}
	fs, ok := assets.Get[shader.Source](s.assets, sources.Fragment)
	if !ok {
		return shader.Source{}, nil, false
	}
	return vs, &fs, true
}
