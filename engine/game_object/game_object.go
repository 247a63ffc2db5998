package game_object

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-designer/common"
	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/Carmen-Shannon/oxy-designer/engine/model"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/pipeline"
)

// ErrIllegalTransition is returned by Transition when the stage table does not allow the move.
var ErrIllegalTransition = errors.New("illegal stage transition")

// Stage is the position of an entity in the loading pipeline.
type Stage int

const (
	// StageUnloaded is held by entities created for a file whose description has not been decoded yet.
	StageUnloaded Stage = iota

	// StageAwaitingMaterialInstance waits for the .material file an object references.
	StageAwaitingMaterialInstance

	// StageAwaitingMaterialType waits for the material type the instance references.
	StageAwaitingMaterialType

	// StageAwaitingShaders waits for the vertex and optional fragment shader sources.
	StageAwaitingShaders

	// StagePipelineReady has a compiled pipeline and waits to build its mesh and material.
	StagePipelineReady

	// StageSpawned is renderable and in sync with its description.
	StageSpawned

	// StageNeedsUpdate is renderable with queued description snapshots to apply.
	StageNeedsUpdate
)

func (s Stage) String() string {
	switch s {
	case StageUnloaded:
		return "Unloaded"
	case StageAwaitingMaterialInstance:
		return "AwaitingMaterialInstance"
	case StageAwaitingMaterialType:
		return "AwaitingMaterialType"
	case StageAwaitingShaders:
		return "AwaitingShaders"
	case StagePipelineReady:
		return "PipelineReady"
	case StageSpawned:
		return "Spawned"
	case StageNeedsUpdate:
		return "NeedsUpdate"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Staging reports whether the stage lies before the entity's first spawn.
func (s Stage) Staging() bool {
	return s < StageSpawned
}

var transitions = map[Stage][]Stage{
	StageUnloaded:                 {StageAwaitingMaterialInstance, StageAwaitingMaterialType},
	StageAwaitingMaterialInstance: {StageAwaitingMaterialType},
	StageAwaitingMaterialType:     {StageAwaitingShaders},
	StageAwaitingShaders:          {StagePipelineReady},
	StagePipelineReady:            {StageSpawned, StageNeedsUpdate},
	StageSpawned:                  {StageNeedsUpdate},
	StageNeedsUpdate:              {StageSpawned, StageAwaitingMaterialInstance, StageAwaitingMaterialType},
}

// CanTransition reports whether an entity may move from one stage to another.
//
// Parameters:
//   - from: the current stage
//   - to: the requested stage
//
// Returns:
//   - bool: true if the transition is in the stage table
func CanTransition(from, to Stage) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type gameObject struct {
	mu *sync.RWMutex

	id      uint64
	source  string
	enabled atomic.Bool
	stage   Stage

	desc    *description.Object
	schema  *material.Schema
	pending []*description.Object

	mdl         model.Model
	mat         material.Material
	pipe        pipeline.Pipeline
	translation [3]float32
}

// GameObject is a render entity materialized from one .object file. It carries its explicit
// loading stage, the last applied description snapshot, queued snapshots waiting for the
// reconciler, and once spawned its model, material, pipeline, and translation.
//
// The scene tick is the only writer; the renderer reads concurrently.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Source returns the asset path of the .object file this entity was created for.
	//
	// Returns:
	//   - string: the source path
	Source() string

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Stage returns the current loading stage.
	//
	// Returns:
	//   - Stage: the stage
	Stage() Stage

	// Transition moves the entity to another stage.
	//
	// Parameters:
	//   - to: the requested stage
	//
	// Returns:
	//   - error: ErrIllegalTransition if the stage table forbids the move
	Transition(to Stage) error

	// Description returns the last applied description snapshot.
	//
	// Returns:
	//   - *description.Object: the snapshot, or nil before the file was decoded
	Description() *description.Object

	// SetDescription replaces the applied description snapshot.
	//
	// Parameters:
	//   - desc: the new snapshot
	SetDescription(desc *description.Object)

	// Schema returns the schema of the resolved material type.
	//
	// Returns:
	//   - *material.Schema: the schema, or nil before the type resolved
	Schema() *material.Schema

	// SetSchema sets the schema of the resolved material type.
	//
	// Parameters:
	//   - s: the derived schema
	SetSchema(s *material.Schema)

	// EnqueueUpdate appends a description snapshot for the reconciler. Snapshots are kept in
	// arrival order.
	//
	// Parameters:
	//   - desc: the edited description
	EnqueueUpdate(desc *description.Object)

	// DrainUpdates removes and returns all queued snapshots in arrival order.
	//
	// Returns:
	//   - []*description.Object: the queued snapshots
	DrainUpdates() []*description.Object

	// LatestDescription returns the newest queued snapshot, or the applied one when nothing is queued.
	//
	// Returns:
	//   - *description.Object: the newest known description
	LatestDescription() *description.Object

	// HasPendingUpdates reports whether snapshots are queued.
	//
	// Returns:
	//   - bool: true if at least one snapshot is queued
	HasPendingUpdates() bool

	// Model returns the mesh slot of the entity, or nil before it spawned.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model

	// SetModel assigns the mesh slot.
	//
	// Parameters:
	//   - m: the model
	SetModel(m model.Model)

	// Material returns the live material, or nil before it spawned.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// SetMaterial assigns the live material.
	//
	// Parameters:
	//   - m: the material
	SetMaterial(m material.Material)

	// Pipeline returns the render pipeline the entity draws with.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline, or nil before one was compiled
	Pipeline() pipeline.Pipeline

	// SetPipeline assigns the render pipeline.
	//
	// Parameters:
	//   - p: the compiled pipeline
	SetPipeline(p pipeline.Pipeline)

	// Translation returns the world translation of the entity.
	//
	// Returns:
	//   - [3]float32: the translation
	Translation() [3]float32

	// SetTranslation writes the world translation of the entity.
	//
	// Parameters:
	//   - t: the translation
	SetTranslation(t [3]float32)

	// ModelMatrix builds the column-major model matrix from the translation.
	//
	// Returns:
	//   - [16]float32: the model matrix
	ModelMatrix() [16]float32

	// Renderable reports whether the entity holds everything a draw call needs.
	//
	// Returns:
	//   - bool: true if enabled with a model, material, and pipeline
	Renderable() bool
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject in StageUnloaded, enabled for rendering.
//
// Parameters:
//   - options: variadic list of GameObjectBuilderOption functions to configure the object
//
// Returns:
//   - GameObject: a new GameObject instance
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:    &sync.RWMutex{},
		stage: StageUnloaded,
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Source() string {
	return g.source
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Stage() Stage {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.stage
}

func (g *gameObject) Transition(to Stage) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !CanTransition(g.stage, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, g.stage, to)
	}
	g.stage = to
	return nil
}

func (g *gameObject) Description() *description.Object {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.desc
}

func (g *gameObject) SetDescription(desc *description.Object) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.desc = desc
}

func (g *gameObject) Schema() *material.Schema {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.schema
}

func (g *gameObject) SetSchema(s *material.Schema) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.schema = s
}

func (g *gameObject) EnqueueUpdate(desc *description.Object) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = append(g.pending, desc)
}

func (g *gameObject) DrainUpdates() []*description.Object {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := g.pending
	g.pending = nil
	return out
}

func (g *gameObject) LatestDescription() *description.Object {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if n := len(g.pending); n > 0 {
		return g.pending[n-1]
	}
	return g.desc
}

func (g *gameObject) HasPendingUpdates() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.pending) > 0
}

func (g *gameObject) Model() model.Model {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mdl
}

func (g *gameObject) SetModel(m model.Model) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mdl = m
}

func (g *gameObject) Material() material.Material {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mat
}

func (g *gameObject) SetMaterial(m material.Material) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mat = m
}

func (g *gameObject) Pipeline() pipeline.Pipeline {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pipe
}

func (g *gameObject) SetPipeline(p pipeline.Pipeline) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pipe = p
}

func (g *gameObject) Translation() [3]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.translation
}

func (g *gameObject) SetTranslation(t [3]float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.translation = t
}

func (g *gameObject) ModelMatrix() [16]float32 {
	t := g.Translation()
	var m [16]float32
	common.Translation(m[:], t[0], t[1], t[2])
	return m
}

func (g *gameObject) Renderable() bool {
	if !g.Enabled() {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mdl != nil && g.mat != nil && g.pipe != nil
}
