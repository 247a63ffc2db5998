package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/chewxy/math32"
)

// Build generates the mesh of a shape description. Builders are deterministic: equal shapes
// always produce identical meshes.
//
// Parameters:
//   - shape: the shape variant and its fields
//
// Returns:
//   - *Mesh: the generated geometry
//   - error: an error if the shape is invalid or of an unknown variant
func Build(shape description.Shape) (*Mesh, error) {
	if shape == nil {
		return nil, fmt.Errorf("model: %w: nil shape", description.ErrInvalidShape)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	switch s := shape.(type) {
	case description.Box:
		return NewBox(s.X, s.Y, s.Z), nil
	case description.Capsule:
		return NewCapsule(s), nil
	case description.Cube:
		return NewBox(s.Size, s.Size, s.Size), nil
	case description.Grid:
		return NewGrid(s.Size, s.Subdivisions), nil
	case description.Icosphere:
		return NewIcosphere(s.Radius, s.Subdivisions), nil
	case description.Plane:
		return NewGrid(s.Size, 1), nil
	case description.Quad:
		return NewQuad(s.Size, s.Flip), nil
	case description.Torus:
		return NewTorus(s), nil
	default:
		return nil, fmt.Errorf("model: %w: %s", description.ErrUnknownShape, shape.Kind())
	}
}

// boxFaces lists each face as (normal, s, t) with s × t = normal, so corners
// c-s-t, c+s-t, c+s+t, c-s+t wind counter-clockwise seen from outside.
var boxFaces = [6][3][3]float32{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// NewBox builds an axis-aligned cuboid of the given full extents centered on the origin.
func NewBox(x, y, z float32) *Mesh {
	b := newMeshBuilder(24, 36)
	half := [3]float32{x / 2, y / 2, z / 2}
	for _, f := range boxFaces {
		n, s, t := f[0], f[1], f[2]
		corner := func(ss, tt float32) [3]float32 {
			var p [3]float32
			for i := 0; i < 3; i++ {
				p[i] = (n[i] + ss*s[i] + tt*t[i]) * half[i]
			}
			return p
		}
		a := b.vertex(corner(-1, -1), n, [2]float32{0, 1})
		c := b.vertex(corner(1, -1), n, [2]float32{1, 1})
		d := b.vertex(corner(1, 1), n, [2]float32{1, 0})
		e := b.vertex(corner(-1, 1), n, [2]float32{0, 0})
		b.quad(a, c, d, e)
	}
	return b.mesh
}

// NewGrid builds a square of the given size in the XZ plane facing +Y, split into
// subdivisions × subdivisions cells.
func NewGrid(size float32, subdivisions int) *Mesh {
	n := subdivisions
	b := newMeshBuilder((n+1)*(n+1), n*n*6)
	half := size / 2
	for r := 0; r <= n; r++ {
		v := float32(r) / float32(n)
		for c := 0; c <= n; c++ {
			u := float32(c) / float32(n)
			b.vertex([3]float32{-half + u*size, 0, -half + v*size}, [3]float32{0, 1, 0}, [2]float32{u, v})
		}
	}
	b.grid(0, n, n)
	return b.mesh
}

// NewQuad builds a rectangle in the XY plane facing +Z. Flip mirrors the texture horizontally.
func NewQuad(size [2]float32, flip bool) *Mesh {
	b := newMeshBuilder(4, 6)
	hx, hy := size[0]/2, size[1]/2
	n := [3]float32{0, 0, 1}
	u0, u1 := float32(0), float32(1)
	if flip {
		u0, u1 = 1, 0
	}
	a := b.vertex([3]float32{-hx, -hy, 0}, n, [2]float32{u0, 1})
	c := b.vertex([3]float32{hx, -hy, 0}, n, [2]float32{u1, 1})
	d := b.vertex([3]float32{hx, hy, 0}, n, [2]float32{u1, 0})
	e := b.vertex([3]float32{-hx, hy, 0}, n, [2]float32{u0, 0})
	b.quad(a, c, d, e)
	return b.mesh
}

// NewTorus builds a ring around the Y axis.
func NewTorus(t description.Torus) *Mesh {
	segs, sides := t.SubdivisionsSegments, t.SubdivisionsSides
	b := newMeshBuilder((segs+1)*(sides+1), segs*sides*6)
	for i := 0; i <= segs; i++ {
		theta := 2 * math32.Pi * float32(i) / float32(segs)
		st, ct := math32.Sincos(theta)
		for j := 0; j <= sides; j++ {
			phi := 2 * math32.Pi * float32(j) / float32(sides)
			sp, cp := math32.Sincos(phi)
			normal := [3]float32{cp * st, sp, cp * ct}
			pos := [3]float32{
				t.Radius*st + t.RingRadius*normal[0],
				t.RingRadius * normal[1],
				t.Radius*ct + t.RingRadius*normal[2],
			}
			b.vertex(pos, normal, [2]float32{float32(i) / float32(segs), float32(j) / float32(sides)})
		}
	}
	b.grid(0, segs, sides)
	return b.mesh
}

// capsuleRow is one ring of a capsule profile, from the top pole downwards.
type capsuleRow struct {
	y, radius float32
	// center is the y of the sphere the normal is taken from; NaN for the cylinder
	center float32
	// arc is the distance along the profile from the top pole
	arc float32
	// section is 0 for the top hemisphere, 1 for the cylinder, 2 for the bottom hemisphere
	section int
	// progress is the position within the section in [0, 1]
	progress float32
}

// NewCapsule builds a Y-aligned capsule: two hemispheres of latitudes/2 rings each joined by
// a cylinder of the given depth with rings interior rings.
func NewCapsule(c description.Capsule) *Mesh {
	halfLats := c.Latitudes / 2
	if halfLats < 1 {
		halfLats = 1
	}
	halfDepth := c.Depth / 2
	quarter := math32.Pi / 2 * c.Radius

	rows := make([]capsuleRow, 0, 2*(halfLats+1)+c.Rings)
	for i := 0; i <= halfLats; i++ {
		p := float32(i) / float32(halfLats)
		s, co := math32.Sincos(p * math32.Pi / 2)
		rows = append(rows, capsuleRow{y: halfDepth + c.Radius*co, radius: c.Radius * s, center: halfDepth, arc: p * quarter, section: 0, progress: p})
	}
	for j := 1; j <= c.Rings; j++ {
		p := float32(j) / float32(c.Rings+1)
		rows = append(rows, capsuleRow{y: halfDepth - p*c.Depth, radius: c.Radius, center: math32.NaN(), arc: quarter + p*c.Depth, section: 1, progress: p})
	}
	for i := 0; i <= halfLats; i++ {
		p := float32(i) / float32(halfLats)
		s, co := math32.Sincos(p * math32.Pi / 2)
		rows = append(rows, capsuleRow{y: -halfDepth - c.Radius*s, radius: c.Radius * co, center: -halfDepth, arc: quarter + c.Depth + p*quarter, section: 2, progress: p})
	}
	total := 2*quarter + c.Depth

	lons := c.Longitudes
	b := newMeshBuilder(len(rows)*(lons+1), (len(rows)-1)*lons*6)
	for ri, row := range rows {
		var v float32
		switch c.UVProfile {
		case description.CapsuleUVProfileUniform:
			v = float32(ri) / float32(len(rows)-1)
		case description.CapsuleUVProfileFixed:
			v = (float32(row.section) + row.progress) / 3
		default:
			v = row.arc / total
		}
		for k := 0; k <= lons; k++ {
			u := float32(k) / float32(lons)
			st, ct := math32.Sincos(2 * math32.Pi * u)
			pos := [3]float32{row.radius * st, row.y, row.radius * ct}
			var normal [3]float32
			if math32.IsNaN(row.center) {
				normal = [3]float32{st, 0, ct}
			} else {
				normal = normalize([3]float32{pos[0], pos[1] - row.center, pos[2]})
			}
			b.vertex(pos, normal, [2]float32{u, v})
		}
	}
	b.grid(0, len(rows)-1, lons)
	return b.mesh
}

// icosahedron corners and counter-clockwise faces, scaled onto the unit sphere by NewIcosphere.
var (
	icoT     = (1 + math32.Sqrt(5)) / 2
	icoVerts = [12][3]float32{
		{-1, icoT, 0}, {1, icoT, 0}, {-1, -icoT, 0}, {1, -icoT, 0},
		{0, -1, icoT}, {0, 1, icoT}, {0, -1, -icoT}, {0, 1, -icoT},
		{icoT, 0, -1}, {icoT, 0, 1}, {-icoT, 0, -1}, {-icoT, 0, 1},
	}
	icoFaces = [20][3]uint32{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// NewIcosphere builds a sphere by splitting each icosahedron face into four, subdivisions times.
// The result has 10·4^subdivisions + 2 vertices.
func NewIcosphere(radius float32, subdivisions int) *Mesh {
	points := make([][3]float32, 0, 10*(1<<(2*subdivisions))+2)
	for _, v := range icoVerts {
		points = append(points, normalize(v))
	}
	faces := icoFaces[:]

	for level := 0; level < subdivisions; level++ {
		midpoints := make(map[[2]uint32]uint32)
		mid := func(a, b uint32) uint32 {
			key := [2]uint32{min(a, b), max(a, b)}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			pa, pb := points[a], points[b]
			points = append(points, normalize([3]float32{pa[0] + pb[0], pa[1] + pb[1], pa[2] + pb[2]}))
			idx := uint32(len(points) - 1)
			midpoints[key] = idx
			return idx
		}
		next := make([][3]uint32, 0, len(faces)*4)
		for _, f := range faces {
			ab, bc, ca := mid(f[0], f[1]), mid(f[1], f[2]), mid(f[2], f[0])
			next = append(next,
				[3]uint32{f[0], ab, ca},
				[3]uint32{f[1], bc, ab},
				[3]uint32{f[2], ca, bc},
				[3]uint32{ab, bc, ca},
			)
		}
		faces = next
	}

	b := newMeshBuilder(len(points), len(faces)*3)
	for _, n := range points {
		u := 0.5 + math32.Atan2(n[2], n[0])/(2*math32.Pi)
		v := 0.5 - math32.Asin(n[1])/math32.Pi
		b.vertex([3]float32{n[0] * radius, n[1] * radius, n[2] * radius}, n, [2]float32{u, v})
	}
	for _, f := range faces {
		b.triangle(f[0], f[1], f[2])
	}
	return b.mesh
}

func normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
