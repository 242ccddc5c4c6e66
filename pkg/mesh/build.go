package mesh

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/propforge/pkg/outline"
)

// Params describes one primitive configuration.
type Params interface {
	Kind() Kind
	// VertexCount is an upper bound on the vertex count after clamping.
	VertexCount() int
	build() *Buffers
}

// PrismParams configures RoundedRectPrism.
type PrismParams struct {
	Width        float32 `yaml:"width"`
	Depth        float32 `yaml:"depth"`
	Height       float32 `yaml:"height"`
	CornerRadius float32 `yaml:"corner_radius"`
	Segments     int     `yaml:"segments"`
}

func (PrismParams) Kind() Kind { return KindPrism }

func (p PrismParams) VertexCount() int {
	n := clampSegmentsTo(p.Segments, 1, outline.MaxCornerSegments)
	return prismVertexCount(4 * (n + 1))
}

func (p PrismParams) build() *Buffers {
	return RoundedRectPrism(p.Width, p.Depth, p.Height, p.CornerRadius, p.Segments)
}

// CylinderParams configures ChamferedCylinder.
type CylinderParams struct {
	Radius   float32 `yaml:"radius"`
	Height   float32 `yaml:"height"`
	Chamfer  float32 `yaml:"chamfer"`
	Segments int     `yaml:"segments"`
}

func (CylinderParams) Kind() Kind { return KindCylinder }

func (p CylinderParams) VertexCount() int {
	return cylinderVertexCount(clampSegments(p.Segments, 3))
}

func (p CylinderParams) build() *Buffers {
	return ChamferedCylinder(p.Radius, p.Height, p.Chamfer, p.Segments)
}

// TorusParams configures Torus.
type TorusParams struct {
	MajorRadius   float32 `yaml:"major_radius"`
	MinorRadius   float32 `yaml:"minor_radius"`
	MajorSegments int     `yaml:"major_segments"`
	MinorSegments int     `yaml:"minor_segments"`
}

func (TorusParams) Kind() Kind { return KindTorus }

func (p TorusParams) VertexCount() int {
	return clampSegments(p.MajorSegments, 3) * clampSegments(p.MinorSegments, 3)
}

func (p TorusParams) build() *Buffers {
	return Torus(p.MajorRadius, p.MinorRadius, p.MajorSegments, p.MinorSegments)
}

// ConeParams configures Cone.
type ConeParams struct {
	RadiusBottom float32 `yaml:"radius_bottom"`
	RadiusTop    float32 `yaml:"radius_top"`
	Height       float32 `yaml:"height"`
	Segments     int     `yaml:"segments"`
	CapBottom    bool    `yaml:"cap_bottom"`
}

func (ConeParams) Kind() Kind { return KindCone }

func (p ConeParams) VertexCount() int {
	return coneVertexCount(clampSegments(p.Segments, 3), p.CapBottom && p.RadiusBottom > 0)
}

func (p ConeParams) build() *Buffers {
	return Cone(p.RadiusBottom, p.RadiusTop, p.Height, p.Segments, p.CapBottom)
}

// SphereParams configures UVSphere.
type SphereParams struct {
	Radius            float32 `yaml:"radius"`
	LongitudeSegments int     `yaml:"longitude_segments"`
	LatitudeSegments  int     `yaml:"latitude_segments"`
}

func (SphereParams) Kind() Kind { return KindSphere }

func (p SphereParams) VertexCount() int {
	return (clampSegments(p.LatitudeSegments, 2) + 1) * (clampSegments(p.LongitudeSegments, 3) + 1)
}

func (p SphereParams) build() *Buffers {
	return UVSphere(p.Radius, p.LongitudeSegments, p.LatitudeSegments)
}

// Builder builds meshes under a vertex hard limit.
type Builder struct {
	MaxVertices int
}

// NewBuilder returns a Builder with the given limit. A non-positive limit
// selects DefaultMaxVertices.
func NewBuilder(maxVertices int) *Builder {
	if maxVertices <= 0 {
		maxVertices = DefaultMaxVertices
	}
	return &Builder{MaxVertices: maxVertices}
}

// Build builds params after checking the kind and the predicted vertex count.
func (bl *Builder) Build(kind Kind, params Params) (*Buffers, error) {
	if params == nil {
		return nil, errors.Wrapf(ErrKindMismatch, "nil params for %s", kind)
	}
	if params.Kind() != kind {
		return nil, errors.Wrapf(ErrKindMismatch, "want %s, got %s", kind, params.Kind())
	}
	if n := params.VertexCount(); n > bl.MaxVertices {
		return nil, errors.Wrapf(ErrVertexLimit, "%s needs %d vertices, limit %d", kind, n, bl.MaxVertices)
	}
	return params.build(), nil
}

// BuildMesh builds params with the default vertex limit.
func BuildMesh(kind Kind, params Params) (*Buffers, error) {
	return NewBuilder(DefaultMaxVertices).Build(kind, params)
}

func clampSegmentsTo(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
