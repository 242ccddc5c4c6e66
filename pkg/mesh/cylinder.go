package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ChamferedCylinder builds a drum from four stacked rings: bottom-outer at
// y=0, bottom-chamfer at y=chamferDepth, top-chamfer at y=height-chamferDepth
// and top-outer at y=height. Outer rings use the full radius, chamfer rings
// radius-chamferDepth, and chamfer ring normals tilt toward ±Y to suggest the
// bevel. Caps are fanned from the outer rings.
//
// chamferDepth is clamped to [0, min(radius, height/2)) so the rings never
// cross; a zero chamfer yields a plain cylinder.
func ChamferedCylinder(radius, height, chamferDepth float32, segments int) *Buffers {
	radius = clampExtent(radius)
	height = clampExtent(height)
	s := clampSegments(segments, 3)
	c := clampChamfer(radius, height, chamferDepth)

	type ring struct {
		y, r float32
		tilt float32 // signed Y component added to the radial normal
	}
	var tilt float32
	if c > minExtent*0.5 {
		tilt = math32.Sqrt(0.5)
	}
	rings := [4]ring{
		{0, radius, 0},
		{c, radius - c, tilt},
		{height - c, radius - c, -tilt},
		{height, radius, 0},
	}

	b := newBuffers(cylinderVertexCount(s), 3*s*6+2*s*3)
	stride := uint32(s + 1)
	for _, rg := range rings {
		for i := 0; i <= s; i++ {
			theta := 2 * math32.Pi * float32(i) / float32(s)
			cos, sin := math32.Cos(theta), math32.Sin(theta)
			radial := mgl32.Vec3{cos, 0, sin}
			nrm := safeNormalize(radial.Mul(1+math32.Abs(rg.tilt)).Add(mgl32.Vec3{0, rg.tilt, 0}), radial)
			b.add(
				mgl32.Vec3{rg.r * cos, rg.y, rg.r * sin},
				nrm,
				mgl32.Vec2{float32(i) / float32(s), rg.y / height},
			)
		}
	}
	for k := uint32(0); k < 3; k++ {
		lower := k * stride
		upper := (k + 1) * stride
		for i := uint32(0); i < uint32(s); i++ {
			b.tri(lower+i, upper+i, lower+i+1)
			b.tri(lower+i+1, upper+i, upper+i+1)
		}
	}

	addDiscCap(b, radius, 0, s, false)
	addDiscCap(b, radius, height, s, true)
	return b.finish()
}

func clampChamfer(radius, height, chamfer float32) float32 {
	if chamfer != chamfer || chamfer < 0 {
		return 0
	}
	hi := math32.Min(radius, height/2) * 0.99
	if chamfer > hi {
		return hi
	}
	return chamfer
}

func cylinderVertexCount(s int) int {
	return 4*(s+1) + 2*(s+1)
}

// addDiscCap fans a disc of the given radius at height y. Rings are
// parameterized as (cos θ, sin θ), which runs clockwise seen from +Y.
func addDiscCap(b *Buffers, radius, y float32, s int, up bool) {
	nrm := mgl32.Vec3{0, -1, 0}
	if up {
		nrm = mgl32.Vec3{0, 1, 0}
	}
	center := b.add(mgl32.Vec3{0, y, 0}, nrm, mgl32.Vec2{0.5, 0.5})
	ring := uint32(len(b.Positions))
	for i := 0; i < s; i++ {
		theta := 2 * math32.Pi * float32(i) / float32(s)
		cos, sin := math32.Cos(theta), math32.Sin(theta)
		b.add(
			mgl32.Vec3{radius * cos, y, radius * sin},
			nrm,
			mgl32.Vec2{0.5 + 0.5*cos, 0.5 + 0.5*sin},
		)
	}
	for i := 0; i < s; i++ {
		a := ring + uint32(i)
		c := ring + uint32((i+1)%s)
		if up {
			b.tri(center, c, a)
		} else {
			b.tri(center, a, c)
		}
	}
}
