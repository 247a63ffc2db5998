package description

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownShape is returned when a shape table names a kind that is not supported.
var ErrUnknownShape = errors.New("unknown shape kind")

// ErrInvalidShape is returned when a shape's fields are out of range.
var ErrInvalidShape = errors.New("invalid shape")

const (
	// maxIcosphereSubdivisions bounds icosphere subdivision; the vertex count grows by 4x per level.
	maxIcosphereSubdivisions = 8

	// maxShapeSegments bounds every other subdivision, ring, latitude and longitude count.
	maxShapeSegments = 1024

	// maxShapeVertices bounds the vertex count of one generated mesh, well inside uint32 indices.
	maxShapeVertices = 1 << 20
)

// positive reports whether x is a finite number greater than zero. NaN fails.
func positive(x float32) bool {
	return x > 0 && !math.IsInf(float64(x), 1)
}

// segments checks that a count lies in [lo, maxShapeSegments].
func segments(shape, field string, n, lo int) error {
	if n < lo || n > maxShapeSegments {
		return fmt.Errorf("%w: %s %s must be in [%d, %d], got %d", ErrInvalidShape, shape, field, lo, maxShapeSegments, n)
	}
	return nil
}

// vertexBudget rejects meshes with more than maxShapeVertices vertices. Counts are bounded by
// segments first, so the product cannot overflow.
func vertexBudget(shape string, vertices int) error {
	if vertices > maxShapeVertices {
		return fmt.Errorf("%w: %s would have %d vertices, limit is %d", ErrInvalidShape, shape, vertices, maxShapeVertices)
	}
	return nil
}

// ShapeKind names a shape variant.
type ShapeKind string

const (
	ShapeKindBox       ShapeKind = "Box"
	ShapeKindCapsule   ShapeKind = "Capsule"
	ShapeKindCube      ShapeKind = "Cube"
	ShapeKindGrid      ShapeKind = "Grid"
	ShapeKindIcosphere ShapeKind = "Icosphere"
	ShapeKindPlane     ShapeKind = "Plane"
	ShapeKindQuad      ShapeKind = "Quad"
	ShapeKindTorus     ShapeKind = "Torus"
)

// Shape is the tagged union of object shape variants. Every variant is a comparable struct,
// so two shapes are structurally equal exactly when the interface values compare equal.
type Shape interface {
	// Kind returns the variant tag.
	//
	// Returns:
	//   - ShapeKind: the shape variant
	Kind() ShapeKind

	// Validate checks the shape's fields.
	//
	// Returns:
	//   - error: an ErrInvalidShape-wrapped error describing the bad field, or nil
	Validate() error
}

// ShapesEqual reports whether two shapes are the same variant with identical fields.
func ShapesEqual(a, b Shape) bool {
	return a == b
}

// CapsuleUVProfile selects how texture coordinates are distributed over a capsule.
type CapsuleUVProfile int

const (
	// CapsuleUVProfileAspect spreads V proportionally to the height of each section.
	CapsuleUVProfileAspect CapsuleUVProfile = iota

	// CapsuleUVProfileUniform gives every ring the same V interval.
	CapsuleUVProfileUniform

	// CapsuleUVProfileFixed gives each hemisphere one third of V and the cylinder the middle third.
	CapsuleUVProfileFixed
)

func (p CapsuleUVProfile) String() string {
	switch p {
	case CapsuleUVProfileAspect:
		return "Aspect"
	case CapsuleUVProfileUniform:
		return "Uniform"
	case CapsuleUVProfileFixed:
		return "Fixed"
	default:
		return "Unknown"
	}
}

// ParseCapsuleUVProfile parses a UV profile name. An empty name selects Aspect.
func ParseCapsuleUVProfile(name string) (CapsuleUVProfile, error) {
	switch name {
	case "", "Aspect":
		return CapsuleUVProfileAspect, nil
	case "Uniform":
		return CapsuleUVProfileUniform, nil
	case "Fixed":
		return CapsuleUVProfileFixed, nil
	default:
		return 0, fmt.Errorf("%w: unknown capsule uv_profile %q", ErrInvalidShape, name)
	}
}

// Box is an axis-aligned cuboid centered on the origin.
type Box struct {
	X, Y, Z float32
}

// Capsule is a cylinder capped with two hemispheres, aligned on the Y axis.
type Capsule struct {
	Radius     float32
	Rings      int
	Depth      float32
	Latitudes  int
	Longitudes int
	UVProfile  CapsuleUVProfile
}

// Cube is a Box with equal sides.
type Cube struct {
	Size float32
}

// Grid is a subdivided square in the XZ plane.
type Grid struct {
	Size         float32
	Subdivisions int
}

// Icosphere is a subdivided icosahedron projected onto a sphere.
type Icosphere struct {
	Radius       float32
	Subdivisions int
}

// Plane is a single square in the XZ plane.
type Plane struct {
	Size float32
}

// Quad is a rectangle in the XY plane, optionally flipped to face -Z.
type Quad struct {
	Size [2]float32
	Flip bool
}

// Torus is a ring around the Y axis.
type Torus struct {
	Radius               float32
	RingRadius           float32
	SubdivisionsSegments int
	SubdivisionsSides    int
}

var (
	_ Shape = Box{}
	_ Shape = Capsule{}
	_ Shape = Cube{}
	_ Shape = Grid{}
	_ Shape = Icosphere{}
	_ Shape = Plane{}
	_ Shape = Quad{}
	_ Shape = Torus{}
)

func (Box) Kind() ShapeKind       { return ShapeKindBox }
func (Capsule) Kind() ShapeKind   { return ShapeKindCapsule }
func (Cube) Kind() ShapeKind      { return ShapeKindCube }
func (Grid) Kind() ShapeKind      { return ShapeKindGrid }
func (Icosphere) Kind() ShapeKind { return ShapeKindIcosphere }
func (Plane) Kind() ShapeKind     { return ShapeKindPlane }
func (Quad) Kind() ShapeKind      { return ShapeKindQuad }
func (Torus) Kind() ShapeKind     { return ShapeKindTorus }

func (s Box) Validate() error {
	if !positive(s.X) || !positive(s.Y) || !positive(s.Z) {
		return fmt.Errorf("%w: box dimensions must be positive, got (%g, %g, %g)", ErrInvalidShape, s.X, s.Y, s.Z)
	}
	return nil
}

func (s Capsule) Validate() error {
	switch {
	case !positive(s.Radius):
		return fmt.Errorf("%w: capsule radius must be positive, got %g", ErrInvalidShape, s.Radius)
	case s.Depth != 0 && !positive(s.Depth):
		return fmt.Errorf("%w: capsule depth must not be negative, got %g", ErrInvalidShape, s.Depth)
	}
	if err := segments("capsule", "rings", s.Rings, 0); err != nil {
		return err
	}
	if err := segments("capsule", "latitudes", s.Latitudes, 2); err != nil {
		return err
	}
	if err := segments("capsule", "longitudes", s.Longitudes, 3); err != nil {
		return err
	}
	rows := 2*(s.Latitudes/2+1) + s.Rings
	return vertexBudget("capsule", rows*(s.Longitudes+1))
}

func (s Cube) Validate() error {
	if !positive(s.Size) {
		return fmt.Errorf("%w: cube size must be positive, got %g", ErrInvalidShape, s.Size)
	}
	return nil
}

func (s Grid) Validate() error {
	if !positive(s.Size) {
		return fmt.Errorf("%w: grid size must be positive, got %g", ErrInvalidShape, s.Size)
	}
	if err := segments("grid", "subdivisions", s.Subdivisions, 1); err != nil {
		return err
	}
	return vertexBudget("grid", (s.Subdivisions+1)*(s.Subdivisions+1))
}

func (s Icosphere) Validate() error {
	if !positive(s.Radius) {
		return fmt.Errorf("%w: icosphere radius must be positive, got %g", ErrInvalidShape, s.Radius)
	}
	if s.Subdivisions < 0 || s.Subdivisions > maxIcosphereSubdivisions {
		return fmt.Errorf("%w: icosphere subdivisions must be in [0, %d], got %d", ErrInvalidShape, maxIcosphereSubdivisions, s.Subdivisions)
	}
	return nil
}

func (s Plane) Validate() error {
	if !positive(s.Size) {
		return fmt.Errorf("%w: plane size must be positive, got %g", ErrInvalidShape, s.Size)
	}
	return nil
}

func (s Quad) Validate() error {
	if !positive(s.Size[0]) || !positive(s.Size[1]) {
		return fmt.Errorf("%w: quad size must be positive, got (%g, %g)", ErrInvalidShape, s.Size[0], s.Size[1])
	}
	return nil
}

func (s Torus) Validate() error {
	if !positive(s.Radius) || !positive(s.RingRadius) {
		return fmt.Errorf("%w: torus radii must be positive, got (%g, %g)", ErrInvalidShape, s.Radius, s.RingRadius)
	}
	if err := segments("torus", "segment subdivisions", s.SubdivisionsSegments, 3); err != nil {
		return err
	}
	if err := segments("torus", "side subdivisions", s.SubdivisionsSides, 3); err != nil {
		return err
	}
	return vertexBudget("torus", (s.SubdivisionsSegments+1)*(s.SubdivisionsSides+1))
}
