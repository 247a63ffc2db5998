package scene

import (
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-designer/common"
	"github.com/Carmen-Shannon/oxy-designer/engine/assets"
	"github.com/Carmen-Shannon/oxy-designer/engine/camera"
	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/Carmen-Shannon/oxy-designer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-designer/engine/registry"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/material"
)

// Counters tallies what the scene systems have done since the scene was created.
type Counters struct {
	// Spawned counts entities that finished staging.
	Spawned int

	// Moves counts translation writes made by the reconciler.
	Moves int

	// MaterialUpdates counts in-place material repopulations made by the reconciler.
	MaterialUpdates int

	// ShapeUpdates counts mesh rebuilds made by the reconciler.
	ShapeUpdates int

	// Restages counts spawned entities sent back through staging after a material type change.
	Restages int

	// PipelinesCompiled counts successful pipeline compilations, hot reloads included.
	PipelinesCompiled int

	// ShaderReloads counts pipelines swapped after a shader source changed.
	ShaderReloads int
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name   string
	logger *slog.Logger

	assets   assets.Server
	r        renderer.Renderer
	registry registry.NameRegistry
	cam      camera.Camera

	objectsDir string
	cameraFile string

	objects  map[uint64]game_object.GameObject
	bySource map[string]uint64
	nextID   uint64

	schemas         map[string]*material.Schema
	failedPipelines map[string]struct{}
	changedShaders  []string

	// removed holds asset paths whose file went away; a later Created for one is an edit saved by rename.
	removed map[string]struct{}

	counters Counters
	ticks    uint64
}

// Scene turns object description files into renderable entities and keeps them in sync with
// later edits.
//
// Every call to Tick drains the asset server's event queue and then runs the staging systems
// once: each entity waits, without blocking, in one stage until the asset that stage needs has
// loaded, then moves exactly one stage forward. Spawned entities that receive edits are patched
// in place by the reconciler. Tick and Draw may be called from different goroutines.
type Scene interface {
	// Name returns the scene's identifier.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Registry returns the parameter name registry shared by every material of the scene.
	//
	// Returns:
	//   - registry.NameRegistry: the registry
	Registry() registry.NameRegistry

	// Assets returns the asset server the scene reads from.
	//
	// Returns:
	//   - assets.Server: the server
	Assets() assets.Server

	// LoadObjects requests the camera file and every object file under the objects folder and
	// creates an Unloaded entity per object file.
	//
	// Returns:
	//   - []uint64: the IDs of the entities created, in path order
	//   - error: error if the objects folder cannot be read
	LoadObjects() ([]uint64, error)

	// Spawn creates an Unloaded entity for an object file and requests its load. A path that
	// already has an entity returns the existing ID.
	//
	// Parameters:
	//   - path: the object asset path
	//
	// Returns:
	//   - uint64: the entity ID
	Spawn(path string) uint64

	// Get retrieves an entity by ID.
	//
	// Parameters:
	//   - id: the entity ID
	//
	// Returns:
	//   - game_object.GameObject: the entity, or nil if not found
	Get(id uint64) game_object.GameObject

	// Lookup retrieves the entity created for an object file.
	//
	// Parameters:
	//   - path: the object asset path
	//
	// Returns:
	//   - game_object.GameObject: the entity
	//   - bool: false if the path has no entity
	Lookup(path string) (game_object.GameObject, bool)

	// Objects returns the IDs of every entity, sorted.
	//
	// Returns:
	//   - []uint64: the entity IDs
	Objects() []uint64

	// Count returns the number of entities.
	//
	// Returns:
	//   - int: the entity count
	Count() int

	// StageCounts returns how many entities are in each stage.
	//
	// Returns:
	//   - map[game_object.Stage]int: entity counts keyed by stage
	StageCounts() map[game_object.Stage]int

	// Counters returns what the systems have done so far.
	//
	// Returns:
	//   - Counters: the tallies
	Counters() Counters

	// Ticks returns the number of completed ticks.
	//
	// Returns:
	//   - uint64: the tick count
	Ticks() uint64

	// Tick drains asset events and runs every system once.
	Tick()

	// Draw renders every renderable entity inside the camera frustum.
	//
	// Returns:
	//   - error: the joined errors of the frame, if any
	Draw() error

	// Remove drops an entity and releases its GPU resources.
	//
	// Parameters:
	//   - id: the entity ID
	Remove(id uint64)
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene. The asset server, renderer, and registry are all required and
// NewScene panics if any of them is nil. The renderer must check materials against the same
// registry the scene builds them with.
//
// Parameters:
//   - name: the name of the scene
//   - srv: the asset server to read descriptions from
//   - r: the renderer to compile pipelines and draw with
//   - reg: the parameter name registry shared by every material
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, srv assets.Server, r renderer.Renderer, reg registry.NameRegistry, options ...SceneBuilderOption) Scene {
	if srv == nil {
		panic("scene: NewScene requires a non-nil asset Server")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}
	if reg == nil {
		panic("scene: NewScene requires a non-nil NameRegistry")
	}

	s := &scene{
		mu:              &sync.RWMutex{},
		name:            name,
		logger:          slog.Default(),
		assets:          srv,
		r:               r,
		registry:        reg,
		objectsDir:      "objects",
		objects:         make(map[uint64]game_object.GameObject),
		bySource:        make(map[string]uint64),
		nextID:          1,
		schemas:         make(map[string]*material.Schema),
		failedPipelines: make(map[string]struct{}),
		removed:         make(map[string]struct{}),
	}

	for _, option := range options {
		option(s)
	}

	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Registry() registry.NameRegistry {
	return s.registry
}

func (s *scene) Assets() assets.Server {
	return s.assets
}

func (s *scene) LoadObjects() ([]uint64, error) {
	if s.cameraFile != "" {
		s.assets.Load(s.cameraFile)
	}
	paths, err := s.assets.LoadFolder(s.objectsDir, assets.ExtObject)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint64, 0, len(paths))
	for _, p := range paths {
		ids = append(ids, s.spawnLocked(p))
	}
	s.logger.Info("[Scene] objects found", "scene", s.name, "folder", s.objectsDir, "count", len(ids))
	return ids, nil
}

func (s *scene) Spawn(path string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnLocked(assets.CleanPath(path))
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[id]
}

func (s *scene) Lookup(path string) (game_object.GameObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySource[assets.CleanPath(path)]
	if !ok {
		return nil, false
	}
	return s.objects[id], true
}

func (s *scene) Objects() []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.objects))
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *scene) StageCounts() map[game_object.Stage]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[game_object.Stage]int)
	for _, obj := range s.objects {
		counts[obj.Stage()]++
	}
	return counts
}

func (s *scene) Counters() Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters
}

func (s *scene) Ticks() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticks
}

func (s *scene) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processEvents()

	// Each system only sees entities that were in its stage once events were applied,
	// so an entity moves at most one stage per tick.
	batches := s.stageBatches()
	s.loadDescriptions(batches[game_object.StageUnloaded])
	s.resolveMaterialInstances(batches[game_object.StageAwaitingMaterialInstance])
	s.resolveMaterialTypes(batches[game_object.StageAwaitingMaterialType])
	s.resolveShaders(batches[game_object.StageAwaitingShaders])
	s.spawnReady(batches[game_object.StagePipelineReady])
	s.reconcile(batches[game_object.StageNeedsUpdate])
	s.reloadShaders()

	s.ticks++
}

func (s *scene) Draw() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	viewProj := s.cam.ViewProjectionMatrix()
	frustum := common.ExtractFrustumFromMatrix(viewProj[:])
	if err := s.r.BeginFrame(viewProj); err != nil {
		return err
	}
	var errs []error
	for _, id := range slices.Sorted(maps.Keys(s.objects)) {
		obj := s.objects[id]
		if !obj.Renderable() || !frustum.ContainsSphere(obj.Translation(), obj.Model().BoundingRadius()) {
			continue
		}
		if err := s.r.Draw(id, obj.Pipeline(), obj.Model(), obj.Material(), obj.ModelMatrix()); err != nil {
			errs = append(errs, err)
		}
	}
	s.r.EndFrame()
	s.r.Present()
	return errors.Join(errs...)
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return
	}
	delete(s.objects, id)
	delete(s.bySource, obj.Source())
	s.r.Forget(id)
	s.logger.Info("[Scene] removed object", "entity", id, "source", obj.Source())
}

// spawnLocked creates an Unloaded entity for path. Caller must hold the mutex.
func (s *scene) spawnLocked(path string) uint64 {
	if id, ok := s.bySource[path]; ok {
		return id
	}
	id := s.nextID
	s.nextID++
	obj := game_object.NewGameObject(
		game_object.WithID(id),
		game_object.WithSource(path),
	)
	s.objects[id] = obj
	s.bySource[path] = id
	s.assets.Load(path)
	s.logger.Debug("[Scene] new object", "entity", id, "source", path)
	return id
}

// stageBatches groups entities by their current stage, each batch sorted by ID.
func (s *scene) stageBatches() map[game_object.Stage][]game_object.GameObject {
	batches := make(map[game_object.Stage][]game_object.GameObject)
	for _, id := range slices.Sorted(maps.Keys(s.objects)) {
		obj := s.objects[id]
		batches[obj.Stage()] = append(batches[obj.Stage()], obj)
	}
	return batches
}

// transition moves obj to the given stage, logging illegal moves instead of failing the tick.
func (s *scene) transition(obj game_object.GameObject, to game_object.Stage) bool {
	from := obj.Stage()
	if err := obj.Transition(to); err != nil {
		s.logger.Error("[Scene] rejected stage transition", "entity", obj.ID(), "source", obj.Source(), "error", err)
		return false
	}
	s.logger.Debug("[Scene] stage", "entity", obj.ID(), "source", obj.Source(), "from", from, "to", to)
	return true
}

// schemaFor derives the schema of a material type the first time the type resolves and reuses it afterwards.
func (s *scene) schemaFor(path string, mt *description.MaterialType) *material.Schema {
	if schema, ok := s.schemas[path]; ok {
		return schema
	}
	schema := material.DeriveSchema(mt)
	s.schemas[path] = schema
	s.logger.Info("[Scene] material type loaded", "type", schema.Name(), "path", path, "parameters", schema.Len())
	return schema
}
