package model

import (
	"sync"
)

// model is the implementation of the Model interface.
type model struct {
	mu *sync.RWMutex

	name       string
	mesh       *Mesh
	generation uint64

	vertexData []byte
	indexData  []byte
}

// Model is the mesh slot of a render entity. The Model keeps its identity for the lifetime of the
// entity; shape edits swap the geometry inside it and bump its generation so the renderer knows
// to re-upload the buffers.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the name of the model
	Name() string

	// Mesh retrieves the current geometry.
	//
	// Returns:
	//   - *Mesh: the mesh, or nil if none was set
	Mesh() *Mesh

	// SetMesh replaces the geometry in place and re-encodes the vertex and index buffers.
	//
	// Parameters:
	//   - mesh: the new geometry
	SetMesh(mesh *Mesh)

	// Generation returns a counter incremented on every SetMesh.
	//
	// Returns:
	//   - uint64: the generation
	Generation() uint64

	// VertexData retrieves the encoded vertex buffer of the current mesh.
	//
	// Returns:
	//   - []byte: the vertex bytes in GPUVertex layout
	VertexData() []byte

	// IndexData retrieves the encoded index buffer of the current mesh.
	//
	// Returns:
	//   - []byte: the uint32 index bytes
	IndexData() []byte

	// IndexCount returns the number of indices of the current mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the bounding radius of the current mesh.
	//
	// Returns:
	//   - float32: the radius, 0 without a mesh
	BoundingRadius() float32
}

var _ Model = &model{}

// NewModel creates a new Model configured with the provided options.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{mu: &sync.RWMutex{}}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Mesh() *Mesh {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mesh
}

func (m *model) SetMesh(mesh *Mesh) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setMesh(mesh)
}

func (m *model) setMesh(mesh *Mesh) {
	m.mesh = mesh
	m.generation++
	if mesh == nil {
		m.vertexData, m.indexData = nil, nil
		return
	}
	m.vertexData = mesh.VertexData()
	m.indexData = mesh.IndexData()
}

func (m *model) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

func (m *model) VertexData() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vertexData
}

func (m *model) IndexData() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexData
}

func (m *model) IndexCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.mesh == nil {
		return 0
	}
	return m.mesh.IndexCount()
}

func (m *model) BoundingRadius() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.mesh == nil {
		return 0
	}
	return m.mesh.BoundingRadius()
}
