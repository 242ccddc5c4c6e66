package outline

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundedRectPointCountSeamMerged(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 16} {
		// Radius clamped to the full half extent collapses the seam edge.
		o := RoundedRect(1, 1, 10, n)
		assert.Len(t, o, 4*(n+1)-1, "segments=%d", n)
	}
}

func TestRoundedRectPointCountOpenSeam(t *testing.T) {
	o := RoundedRect(4, 2, 0.25, 6)
	assert.Len(t, o, 4*(6+1))
}

func TestRoundedRectSeamMergesOnDepthSide(t *testing.T) {
	// The seam lies on the +X edge, whose straight length is depth-2r.
	o := RoundedRect(5, 1, 3, 4)
	assert.Len(t, o, 4*5-1)
}

func TestRoundedRectClampLaw(t *testing.T) {
	o := RoundedRect(1, 1, 10, 8)
	require.NotEmpty(t, o)
	assert.False(t, selfIntersects(o), "outline must be simple")
	for _, p := range o {
		assert.LessOrEqual(t, math32.Abs(p[0]), float32(0.5)+1e-5)
		assert.LessOrEqual(t, math32.Abs(p[2]), float32(0.5)+1e-5)
	}
	r := ClampCornerRadius(1, 1, 10)
	assert.Less(t, r, float32(0.5))
	assert.Greater(t, r, float32(0))
}

func TestRoundedRectCounterClockwise(t *testing.T) {
	cases := []struct {
		w, d, r float32
		n       int
	}{
		{1, 1, 0.2, 4},
		{3, 1, 0.4, 8},
		{1, 3, 5, 2},
		{2, 2, 0, 3},
	}
	for _, tc := range cases {
		o := RoundedRect(tc.w, tc.d, tc.r, tc.n)
		assert.Greater(t, o.SignedArea(), float32(0), "%+v", tc)
		assert.False(t, selfIntersects(o), "%+v", tc)
	}
}

func TestRoundedRectFirstCornerStartsOnPositiveX(t *testing.T) {
	o := RoundedRect(2, 2, 0.5, 4)
	assert.InDelta(t, 1.0, o[0][0], 1e-6)
	assert.InDelta(t, -0.5, o[0][2], 1e-6)
	assert.Equal(t, float32(0), o[0][1])
}

func TestRoundedRectUniformCornerDensity(t *testing.T) {
	n := 6
	o := RoundedRect(3, 2, 0.5, n)
	step := o[1].Sub(o[0]).Len()
	for c := 0; c < 4; c++ {
		for i := 0; i < n; i++ {
			a := o[c*(n+1)+i]
			b := o[c*(n+1)+i+1]
			assert.InDelta(t, step, b.Sub(a).Len(), 1e-5)
		}
	}
}

func TestRoundedRectDegenerateInputs(t *testing.T) {
	o := RoundedRect(-1, 0, -3, 0)
	require.GreaterOrEqual(t, len(o), 4*2-1)
	require.LessOrEqual(t, len(o), 4*2)
	for _, p := range o {
		assert.False(t, math32.IsNaN(p[0]) || math32.IsNaN(p[2]))
	}
}

func TestCircular(t *testing.T) {
	o := Circular(2, 1, 8)
	require.Len(t, o, 8)
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, o[0])
	assert.InDelta(t, -1.0, o[2][2], 1e-6)
	assert.Greater(t, o.SignedArea(), float32(0))

	assert.Len(t, Circular(1, 1, 0), 3)
	assert.Len(t, Circular(1, 1, 1<<20), MaxRingPoints)
}

func TestCircularAngle(t *testing.T) {
	o := Circular(1, 1, 4)
	assert.InDelta(t, 0, o.Angle(0), 1e-6)
	assert.InDelta(t, math32.Pi/2, o.Angle(1), 1e-6)
}

func TestPerimeter(t *testing.T) {
	o := Circular(1, 1, 512)
	assert.InDelta(t, 2*math32.Pi, o.Perimeter(), 1e-3)
}

func selfIntersects(o Outline) bool {
	n := len(o)
	for i := 0; i < n; i++ {
		a1, a2 := o[i], o[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			b1, b2 := o[j], o[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(p1, p2, q1, q2 mgl32.Vec3) bool {
	orient := func(a, b, c mgl32.Vec3) float32 {
		return (b[0]-a[0])*(c[2]-a[2]) - (b[2]-a[2])*(c[0]-a[0])
	}
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
