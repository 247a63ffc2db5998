package model

import (
	"encoding/binary"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// Mesh is a CPU-side geometry buffer produced by a shape builder.
// Positions, Normals and UVs are parallel slices indexed by vertex.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32
	Topology  wgpu.PrimitiveTopology
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// Bounds returns the axis-aligned bounding box of the mesh positions.
//
// Returns:
//   - [3]float32: the minimum corner
//   - [3]float32: the maximum corner
func (m *Mesh) Bounds() ([3]float32, [3]float32) {
	if len(m.Positions) == 0 {
		return [3]float32{}, [3]float32{}
	}
	lo, hi := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math32.Min(lo[i], p[i])
			hi[i] = math32.Max(hi[i], p[i])
		}
	}
	return lo, hi
}

// BoundingRadius returns the distance from the origin to the farthest vertex.
func (m *Mesh) BoundingRadius() float32 {
	var r float32
	for _, p := range m.Positions {
		r = math32.Max(r, math32.Sqrt(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]))
	}
	return r
}

// VertexData interleaves the vertex attributes into GPUVertex layout.
//
// Returns:
//   - []byte: the vertex buffer contents
func (m *Mesh) VertexData() []byte {
	var v GPUVertex
	stride := v.Size()
	buf := make([]byte, stride*len(m.Positions))
	for i := range m.Positions {
		v = GPUVertex{Position: m.Positions[i]}
		if i < len(m.Normals) {
			v.Normal = m.Normals[i]
		}
		if i < len(m.UVs) {
			v.TexCoord = m.UVs[i]
		}
		v.put(buf[i*stride : (i+1)*stride])
	}
	return buf
}

// IndexData encodes the indices as little-endian uint32 values.
//
// Returns:
//   - []byte: the index buffer contents
func (m *Mesh) IndexData() []byte {
	buf := make([]byte, 4*len(m.Indices))
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// meshBuilder accumulates vertices and triangles for the shape builders.
type meshBuilder struct {
	mesh *Mesh
}

func newMeshBuilder(vertices, indices int) *meshBuilder {
	return &meshBuilder{mesh: &Mesh{
		Positions: make([][3]float32, 0, vertices),
		Normals:   make([][3]float32, 0, vertices),
		UVs:       make([][2]float32, 0, vertices),
		Indices:   make([]uint32, 0, indices),
		Topology:  wgpu.PrimitiveTopologyTriangleList,
	}}
}

func (b *meshBuilder) vertex(pos, normal [3]float32, uv [2]float32) uint32 {
	b.mesh.Positions = append(b.mesh.Positions, pos)
	b.mesh.Normals = append(b.mesh.Normals, normal)
	b.mesh.UVs = append(b.mesh.UVs, uv)
	return uint32(len(b.mesh.Positions) - 1)
}

func (b *meshBuilder) triangle(a, c, d uint32) {
	b.mesh.Indices = append(b.mesh.Indices, a, c, d)
}

// quad adds two counter-clockwise triangles for corners given in counter-clockwise order.
func (b *meshBuilder) quad(a, c, d, e uint32) {
	b.triangle(a, c, d)
	b.triangle(a, d, e)
}

// grid connects rows of (cols+1) vertices starting at base into a strip of quads.
// Row r+1 lies after row r in winding order.
func (b *meshBuilder) grid(base uint32, rows, cols int) {
	stride := uint32(cols + 1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := base + uint32(r)*stride + uint32(c)
			b.quad(i, i+stride, i+stride+1, i+1)
		}
	}
}
