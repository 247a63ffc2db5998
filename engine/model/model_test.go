package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allShapes() []description.Shape {
	return []description.Shape{
		description.Box{X: 1, Y: 2, Z: 3},
		description.Capsule{Radius: 0.5, Rings: 2, Depth: 1, Latitudes: 8, Longitudes: 12},
		description.Cube{Size: 1},
		description.Grid{Size: 4, Subdivisions: 4},
		description.Icosphere{Radius: 1, Subdivisions: 2},
		description.Plane{Size: 2},
		description.Quad{Size: [2]float32{2, 1}},
		description.Torus{Radius: 1, RingRadius: 0.25, SubdivisionsSegments: 16, SubdivisionsSides: 8},
	}
}

func TestBuildAllShapes(t *testing.T) {
	for _, s := range allShapes() {
		t.Run(string(s.Kind()), func(t *testing.T) {
			m, err := Build(s)
			require.NoError(t, err)
			require.NotZero(t, m.VertexCount())
			assert.Len(t, m.Normals, m.VertexCount())
			assert.Len(t, m.UVs, m.VertexCount())
			assert.Zero(t, m.IndexCount()%3)
			for _, idx := range m.Indices {
				assert.Less(t, int(idx), m.VertexCount())
			}
			for _, n := range m.Normals {
				l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
				assert.InDelta(t, 1, l, 1e-4)
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	for _, s := range allShapes() {
		a, err := Build(s)
		require.NoError(t, err)
		b, err := Build(s)
		require.NoError(t, err)
		assert.Equal(t, a, b, "%s", s.Kind())
	}
}

func TestLargerCubeHasLargerBounds(t *testing.T) {
	small, err := Build(description.Cube{Size: 1})
	require.NoError(t, err)
	large, err := Build(description.Cube{Size: 2})
	require.NoError(t, err)

	smin, smax := small.Bounds()
	lmin, lmax := large.Bounds()
	assert.Equal(t, [3]float32{-0.5, -0.5, -0.5}, smin)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, smax)
	assert.Equal(t, [3]float32{-1, -1, -1}, lmin)
	assert.Equal(t, [3]float32{1, 1, 1}, lmax)
	assert.NotEqual(t, small.VertexData(), large.VertexData())
}

func TestBoxFacesWindOutward(t *testing.T) {
	m := NewBox(1, 2, 3)
	require.Equal(t, 24, m.VertexCount())
	require.Equal(t, 36, m.IndexCount())
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Positions[m.Indices[i]], m.Positions[m.Indices[i+1]], m.Positions[m.Indices[i+2]]
		n := m.Normals[m.Indices[i]]
		assert.Greater(t, dot(cross(sub(b, a), sub(c, a)), n), float32(0))
	}
}

func TestGridAndPlane(t *testing.T) {
	g := NewGrid(4, 4)
	assert.Equal(t, 25, g.VertexCount())
	assert.Equal(t, 96, g.IndexCount())
	lo, hi := g.Bounds()
	assert.Equal(t, [3]float32{-2, 0, -2}, lo)
	assert.Equal(t, [3]float32{2, 0, 2}, hi)

	a, b, c := g.Positions[g.Indices[0]], g.Positions[g.Indices[1]], g.Positions[g.Indices[2]]
	assert.Greater(t, cross(sub(b, a), sub(c, a))[1], float32(0), "grid faces +Y")

	p, err := Build(description.Plane{Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, p.VertexCount())
	assert.Equal(t, 6, p.IndexCount())
}

func TestQuadFlipMirrorsUVs(t *testing.T) {
	q := NewQuad([2]float32{2, 1}, false)
	f := NewQuad([2]float32{2, 1}, true)
	assert.Equal(t, q.Positions, f.Positions)
	for i := range q.UVs {
		assert.Equal(t, 1-q.UVs[i][0], f.UVs[i][0])
		assert.Equal(t, q.UVs[i][1], f.UVs[i][1])
	}
}

func TestIcosphereVertexCount(t *testing.T) {
	for n := 0; n <= 3; n++ {
		m := NewIcosphere(2, n)
		assert.Equal(t, 10*(1<<(2*n))+2, m.VertexCount())
		assert.Equal(t, 20*(1<<(2*n))*3, m.IndexCount())
		assert.InDelta(t, 2, m.BoundingRadius(), 1e-4)
	}
}

func TestCapsuleUVProfiles(t *testing.T) {
	base := description.Capsule{Radius: 0.5, Rings: 1, Depth: 2, Latitudes: 4, Longitudes: 8}
	for _, p := range []description.CapsuleUVProfile{
		description.CapsuleUVProfileAspect,
		description.CapsuleUVProfileUniform,
		description.CapsuleUVProfileFixed,
	} {
		c := base
		c.UVProfile = p
		m := NewCapsule(c)
		// 3 rows per hemisphere plus one cylinder ring, 9 vertices per row
		require.Equal(t, 7*9, m.VertexCount(), p.String())
		assert.Equal(t, float32(0), m.UVs[0][1])
		assert.InDelta(t, 1, m.UVs[len(m.UVs)-1][1], 1e-6)

		lo, hi := m.Bounds()
		assert.InDelta(t, -1.5, lo[1], 1e-5)
		assert.InDelta(t, 1.5, hi[1], 1e-5)
	}

	fixed := base
	fixed.UVProfile = description.CapsuleUVProfileFixed
	m := NewCapsule(fixed)
	// the top equator row ends the first third
	assert.InDelta(t, 1.0/3, m.UVs[2*9][1], 1e-6)
}

func TestTorusBounds(t *testing.T) {
	m := NewTorus(description.Torus{Radius: 1, RingRadius: 0.25, SubdivisionsSegments: 32, SubdivisionsSides: 16})
	assert.Equal(t, 33*17, m.VertexCount())
	lo, hi := m.Bounds()
	assert.InDelta(t, 1.25, hi[0], 1e-4)
	assert.InDelta(t, -1.25, lo[2], 1e-4)
	assert.InDelta(t, 0.25, hi[1], 1e-4)
}

func TestBuildRejectsInvalidShapes(t *testing.T) {
	_, err := Build(description.Cube{Size: 0})
	assert.ErrorIs(t, err, description.ErrInvalidShape)
	_, err = Build(nil)
	assert.ErrorIs(t, err, description.ErrInvalidShape)
	_, err = Build(description.Icosphere{Radius: 1, Subdivisions: 9})
	assert.ErrorIs(t, err, description.ErrInvalidShape)
}

func TestModelSetMeshKeepsIdentity(t *testing.T) {
	small := NewBox(1, 1, 1)
	m := NewModel(WithName("cube.object"), WithMesh(small))
	require.Equal(t, uint64(1), m.Generation())
	assert.Equal(t, "cube.object", m.Name())
	assert.Len(t, m.VertexData(), 24*32)
	assert.Len(t, m.IndexData(), 36*4)

	m.SetMesh(NewBox(2, 2, 2))
	assert.Equal(t, uint64(2), m.Generation())
	assert.InDelta(t, math32.Sqrt(3), m.BoundingRadius(), 1e-5)
	assert.Equal(t, 36, m.IndexCount())

	// first vertex x coordinate is re-encoded
	x := math.Float32frombits(binary.LittleEndian.Uint32(m.VertexData()[0:4]))
	assert.Equal(t, float32(1), math32.Abs(x))
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
