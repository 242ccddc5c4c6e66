package mesh

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/propforge/pkg/outline"
)

// requireOutwardWinding checks that every non-degenerate triangle winds
// counter-clockwise seen from the side its vertex normals point to.
func requireOutwardWinding(t *testing.T, b *Buffers) {
	t.Helper()
	for i := 0; i+2 < len(b.Indices); i += 3 {
		i0, i1, i2 := b.Indices[i], b.Indices[i+1], b.Indices[i+2]
		p0, p1, p2 := b.Positions[i0], b.Positions[i1], b.Positions[i2]
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		if face.Len() < 1e-6 {
			continue
		}
		avg := b.Normals[i0].Add(b.Normals[i1]).Add(b.Normals[i2])
		require.Greater(t, face.Dot(avg), float32(0), "triangle %d (%d,%d,%d) faces inward", i/3, i0, i1, i2)
	}
}

func TestRoundedRectPrismProperties(t *testing.T) {
	for _, w := range []float32{0.5, 1, 3} {
		for _, d := range []float32{0.5, 2} {
			for _, r := range []float32{0, 0.1, 0.3, 5} {
				for _, s := range []int{1, 2, 8} {
					b := RoundedRectPrism(w, d, 0.4, r, s)
					require.NoError(t, b.Validate())
					assert.Zero(t, len(b.Indices)%3)
					requireOutwardWinding(t, b)

					n := len(outline.RoundedRect(w, d, r, s))
					for i := 0; i < 2*n; i++ {
						p := b.Positions[i]
						radial := mgl32.Vec3{p[0], 0, p[2]}
						assert.Greater(t, b.Normals[i].Dot(radial), float32(0))
					}
				}
			}
		}
	}
}

func TestRoundedRectPrismClampLaw(t *testing.T) {
	var b *Buffers
	require.NotPanics(t, func() {
		b = RoundedRectPrism(1, 1, 1, 10, 8)
	})
	require.NoError(t, b.Validate())
	n := 4*(8+1) - 1
	assert.Equal(t, prismVertexCount(n), b.VertexCount())
	assert.InDelta(t, 1.0, b.Bounds.Size()[0], 1e-4)
	assert.InDelta(t, 1.0, b.Bounds.Size()[1], 1e-6)
}

func TestRoundedRectPrismCaps(t *testing.T) {
	b := RoundedRectPrism(2, 1, 0.5, 0.2, 4)
	var up, down int
	for i, n := range b.Normals {
		switch n {
		case mgl32.Vec3{0, 1, 0}:
			up++
			assert.Equal(t, float32(0.5), b.Positions[i][1])
		case mgl32.Vec3{0, -1, 0}:
			down++
			assert.Equal(t, float32(0), b.Positions[i][1])
		}
	}
	n := len(outline.RoundedRect(2, 1, 0.2, 4))
	assert.Equal(t, n+1, up)
	assert.Equal(t, n+1, down)
	assert.Equal(t, 4*n, b.TriangleCount())
}

func TestRoundedRectPrismSideUVsDoNotWrap(t *testing.T) {
	tests := []struct {
		name                 string
		width, depth, radius float32
		segments             int
	}{
		{"deck", 2.4, 1.6, 0.3, 4},
		{"plinth", 1.8, 1.8, 0.2, 4},
		{"clamped", 1, 1, 10, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := RoundedRectPrism(tt.width, tt.depth, 0.5, tt.radius, tt.segments)
			n := len(outline.RoundedRect(tt.width, tt.depth, tt.radius, tt.segments))

			assert.Equal(t, float32(0), b.UVs[0][0])
			for i := 1; i <= n; i++ {
				assert.GreaterOrEqual(t, b.UVs[2*i][0], b.UVs[2*i-2][0], "u decreases at side point %d", i)
				assert.Equal(t, b.UVs[2*i][0], b.UVs[2*i+1][0])
			}
			assert.Equal(t, float32(1), b.UVs[2*n][0])
			assert.Equal(t, b.Positions[0], b.Positions[2*n])
			assert.Equal(t, b.Positions[1], b.Positions[2*n+1])

			// No side triangle spans more than one outline edge in u.
			for i := 0; i < 2*n*3; i += 3 {
				u0, u1, u2 := b.UVs[b.Indices[i]][0], b.UVs[b.Indices[i+1]][0], b.UVs[b.Indices[i+2]][0]
				span := math32.Max(u0, math32.Max(u1, u2)) - math32.Min(u0, math32.Min(u1, u2))
				assert.Less(t, span, float32(0.5), "side triangle %d", i/3)
			}
		})
	}
}

func TestChamferedCylinder(t *testing.T) {
	b := ChamferedCylinder(1, 2, 0.2, 16)
	require.NoError(t, b.Validate())
	requireOutwardWinding(t, b)
	assert.Equal(t, cylinderVertexCount(16), b.VertexCount())

	stride := 17
	radiusAt := func(i int) float32 {
		p := b.Positions[i]
		return math32.Sqrt(p[0]*p[0] + p[2]*p[2])
	}
	assert.InDelta(t, 1.0, radiusAt(0), 1e-5)
	assert.InDelta(t, 0.8, radiusAt(stride), 1e-5)
	assert.InDelta(t, 0.8, radiusAt(2*stride), 1e-5)
	assert.InDelta(t, 1.0, radiusAt(3*stride), 1e-5)

	// Chamfer rings tilt toward +Y at the bottom and -Y at the top.
	assert.Greater(t, b.Normals[stride][1], float32(0))
	assert.Less(t, b.Normals[2*stride][1], float32(0))
	assert.Equal(t, float32(0), b.Normals[0][1])
}

func TestChamferedCylinderClampsChamfer(t *testing.T) {
	b := ChamferedCylinder(1, 0.5, 3, 8)
	require.NoError(t, b.Validate())
	// Chamfer rings must stay ordered in height.
	assert.LessOrEqual(t, b.Positions[9][1], b.Positions[18][1])

	flat := ChamferedCylinder(1, 1, -1, 8)
	require.NoError(t, flat.Validate())
	requireOutwardWinding(t, flat)
}

func TestTorusDistanceFromMajorCircle(t *testing.T) {
	cases := []struct {
		major, minor float32
		ms, ns       int
	}{
		{1, 0.25, 24, 12},
		{2, 0.5, 7, 5},
		{0.5, 0.1, 64, 3},
	}
	for _, tc := range cases {
		b := Torus(tc.major, tc.minor, tc.ms, tc.ns)
		require.NoError(t, b.Validate())
		requireOutwardWinding(t, b)
		assert.Equal(t, tc.ms*tc.ns, b.VertexCount())
		for _, p := range b.Positions {
			flat := mgl32.Vec3{p[0], 0, p[2]}
			nearest := flat.Normalize().Mul(tc.major)
			assert.InDelta(t, tc.minor, p.Sub(nearest).Len(), 1e-4)
		}
	}
}

func TestTorusClampsMinorRadius(t *testing.T) {
	b := Torus(1, 5, 8, 8)
	require.NoError(t, b.Validate())
	for _, p := range b.Positions {
		assert.Greater(t, mgl32.Vec3{p[0], 0, p[2]}.Len(), float32(0))
	}
}

func TestConeNormalsFollowSlant(t *testing.T) {
	b := Cone(1, 0.5, 2, 12, true)
	require.NoError(t, b.Validate())
	requireOutwardWinding(t, b)

	want := mgl32.Vec3{1, 0.25, 0}.Normalize()
	assert.InDelta(t, want[0], b.Normals[0][0], 1e-5)
	assert.InDelta(t, want[1], b.Normals[0][1], 1e-5)
	assert.InDelta(t, -1.0, b.Bounds.Min[1], 1e-6)
	assert.InDelta(t, 1.0, b.Bounds.Max[1], 1e-6)
}

func TestConeApexAndCaps(t *testing.T) {
	flame := Cone(0.5, 0, 1, 8, false)
	require.NoError(t, flame.Validate())
	requireOutwardWinding(t, flame)
	assert.Equal(t, 8, flame.TriangleCount())

	capped := Cone(0.5, 0, 1, 8, true)
	assert.Equal(t, 16, capped.TriangleCount())

	// A zero bottom radius never gets a cap.
	inverted := Cone(0, 0.5, 1, 8, true)
	assert.Equal(t, 8, inverted.TriangleCount())
	requireOutwardWinding(t, inverted)
}

func TestUVSphere(t *testing.T) {
	b := UVSphere(2, 16, 8)
	require.NoError(t, b.Validate())
	requireOutwardWinding(t, b)
	for i, p := range b.Positions {
		assert.InDelta(t, 2.0, p.Len(), 1e-5)
		n := b.Normals[i]
		assert.InDelta(t, p[0]/2, n[0], 1e-5)
		assert.InDelta(t, p[1]/2, n[1], 1e-5)
		assert.InDelta(t, p[2]/2, n[2], 1e-5)
	}
	// Pole rows contribute one triangle per segment.
	assert.Equal(t, 16*(2*8-2), b.TriangleCount())
}

func TestIndexFormatSelection(t *testing.T) {
	small := UVSphere(1, 32, 16)
	assert.Equal(t, Index16, small.Format)
	idx, ok := small.Indices16()
	require.True(t, ok)
	assert.Len(t, idx, len(small.Indices))

	large := UVSphere(1, 300, 300)
	assert.Greater(t, large.VertexCount(), math.MaxUint16+1)
	assert.Equal(t, Index32, large.Format)
	_, ok = large.Indices16()
	assert.False(t, ok)
	require.NoError(t, large.Validate())
}

func TestBuildersStayFiniteOnBadInput(t *testing.T) {
	nan := math32.NaN()
	meshes := []*Buffers{
		RoundedRectPrism(-1, nan, 0, -2, -5),
		ChamferedCylinder(nan, -1, nan, 0),
		Torus(0, 0, 0, 0),
		Cone(-1, -1, nan, 1, true),
		UVSphere(-3, 0, 0),
	}
	for i, b := range meshes {
		assert.NoError(t, b.Validate(), "mesh %d", i)
		assert.NotZero(t, b.TriangleCount(), "mesh %d", i)
	}
}

func TestBuildMesh(t *testing.T) {
	b, err := BuildMesh(KindTorus, TorusParams{MajorRadius: 1, MinorRadius: 0.2, MajorSegments: 16, MinorSegments: 8})
	require.NoError(t, err)
	assert.Equal(t, 128, b.VertexCount())

	_, err = BuildMesh(KindSphere, TorusParams{})
	assert.True(t, errors.Is(err, ErrKindMismatch))

	_, err = BuildMesh(KindSphere, nil)
	assert.True(t, errors.Is(err, ErrKindMismatch))

	_, err = BuildMesh(KindSphere, SphereParams{Radius: 1, LongitudeSegments: 1024, LatitudeSegments: 1024})
	assert.True(t, errors.Is(err, ErrVertexLimit))
}

func TestBuilderLimit(t *testing.T) {
	bl := NewBuilder(100)
	_, err := bl.Build(KindCone, ConeParams{RadiusBottom: 1, Height: 1, Segments: 64, CapBottom: true})
	assert.True(t, errors.Is(err, ErrVertexLimit))

	b, err := bl.Build(KindCone, ConeParams{RadiusBottom: 1, Height: 1, Segments: 16, CapBottom: true})
	require.NoError(t, err)
	assert.LessOrEqual(t, b.VertexCount(), 100)
}

func TestParamsVertexCountIsUpperBound(t *testing.T) {
	params := []Params{
		PrismParams{Width: 1, Depth: 1, Height: 1, CornerRadius: 10, Segments: 8},
		PrismParams{Width: 3, Depth: 1, Height: 1, CornerRadius: 0.2, Segments: 3},
		CylinderParams{Radius: 1, Height: 1, Chamfer: 0.1, Segments: 20},
		TorusParams{MajorRadius: 1, MinorRadius: 0.1, MajorSegments: 10, MinorSegments: 6},
		ConeParams{RadiusBottom: 1, Height: 1, Segments: 9, CapBottom: true},
		SphereParams{Radius: 1, LongitudeSegments: 12, LatitudeSegments: 6},
	}
	for _, p := range params {
		b, err := BuildMesh(p.Kind(), p)
		require.NoError(t, err)
		assert.LessOrEqual(t, b.VertexCount(), p.VertexCount(), "%s", p.Kind())
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("cone")
	require.NoError(t, err)
	assert.Equal(t, KindCone, k)

	_, err = ParseKind("teapot")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestTransformMirrorKeepsOutwardWinding(t *testing.T) {
	b := ChamferedCylinder(1, 1, 0.1, 12)
	mirrored := b.Transform(mgl32.Scale3D(-1, 1, 1))
	require.NoError(t, mirrored.Validate())
	requireOutwardWinding(t, mirrored)

	moved := b.Transform(mgl32.Translate3D(0, 5, 0).Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(30))))
	require.NoError(t, moved.Validate())
	requireOutwardWinding(t, moved)
	assert.InDelta(t, 5.0, moved.Bounds.Center()[1], 0.6)
}

func TestMerge(t *testing.T) {
	a := UVSphere(1, 8, 4)
	c := Cone(1, 0, 1, 8, true)
	m := Merge(a, nil, c)
	require.NoError(t, m.Validate())
	assert.Equal(t, a.VertexCount()+c.VertexCount(), m.VertexCount())
	assert.Equal(t, a.TriangleCount()+c.TriangleCount(), m.TriangleCount())
	assert.Equal(t, uint32(a.VertexCount())+c.Indices[0], m.Indices[len(a.Indices)])
}

func TestInterleave(t *testing.T) {
	b := Torus(1, 0.2, 4, 4)
	v := b.Interleave()
	require.Len(t, v, b.VertexCount())
	assert.Equal(t, b.Positions[5], v[5].Position)
	assert.Equal(t, b.UVs[5], v[5].TexCoord)
}

func TestValidateDetectsBrokenBuffers(t *testing.T) {
	b := Torus(1, 0.2, 4, 4)
	b.Indices = append(b.Indices, 0, 1, 999)
	assert.True(t, errors.Is(b.Validate(), ErrInvalid))
}
