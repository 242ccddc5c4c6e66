// Package mesh builds indexed triangle meshes for parametric solids:
// rounded-rect prisms, chamfered cylinders, toruses, cones and UV spheres.
//
// Every builder is a pure function returning fresh Buffers. Geometric
// parameters are clamped to the nearest valid value so construction never
// fails; only the vertex hard limit of BuildMesh is reported as an error.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Vertex is an interleaved mesh vertex ready for GPU upload.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// IndexFormat is the storage width consumers should use for the index list.
type IndexFormat int

const (
	// Index16 means every index fits in an unsigned 16-bit integer.
	Index16 IndexFormat = iota
	// Index32 is selected when the vertex count exceeds the 16-bit range.
	Index32
)

func (f IndexFormat) String() string {
	if f == Index32 {
		return "uint32"
	}
	return "uint16"
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Size returns the box extent on each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the box center.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Buffers owns the four parallel sequences describing a solid.
// Buffers are immutable once built; rebuild instead of editing in place.
type Buffers struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32

	Format IndexFormat
	Bounds Bounds
}

// Kind identifies a primitive family.
type Kind string

const (
	KindPrism    Kind = "prism"
	KindCylinder Kind = "cylinder"
	KindTorus    Kind = "torus"
	KindCone     Kind = "cone"
	KindSphere   Kind = "sphere"
)

// Kinds lists every primitive family in a stable order.
var Kinds = []Kind{KindPrism, KindCylinder, KindTorus, KindCone, KindSphere}

const (
	// MaxSegments caps any single segment count passed to a builder.
	MaxSegments = 1024

	// DefaultMaxVertices is the hard vertex limit used by BuildMesh.
	DefaultMaxVertices = 1 << 20

	minExtent = 1e-3
)

var (
	// ErrVertexLimit is returned when a configuration would exceed the vertex limit.
	ErrVertexLimit = errors.New("mesh: vertex limit exceeded")
	// ErrKindMismatch is returned when params do not describe the requested kind.
	ErrKindMismatch = errors.New("mesh: params do not match kind")
	// ErrUnknownKind is returned for an unrecognized primitive name.
	ErrUnknownKind = errors.New("mesh: unknown kind")
	// ErrInvalid is returned by Validate for broken buffers.
	ErrInvalid = errors.New("mesh: invalid buffers")
)

// ParseKind converts a primitive name to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}
