package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Torus builds a ring lying in the XZ plane around the Y axis.
// position = majorCenter(u) + minorOffset(u,v)·minorRadius, and the normal is
// the minor offset direction. The grid wraps in both u and v, so there are
// no duplicated seam vertices.
//
// minorRadius is clamped below majorRadius to keep the surface from
// self-intersecting.
func Torus(majorRadius, minorRadius float32, majorSegments, minorSegments int) *Buffers {
	majorRadius = clampExtent(majorRadius)
	minorRadius = clampExtent(minorRadius)
	if hi := majorRadius * 0.99; minorRadius > hi {
		minorRadius = hi
	}
	ms := clampSegments(majorSegments, 3)
	ns := clampSegments(minorSegments, 3)

	b := newBuffers(ms*ns, ms*ns*6)
	for i := 0; i < ms; i++ {
		u := 2 * math32.Pi * float32(i) / float32(ms)
		radial := mgl32.Vec3{math32.Cos(u), 0, math32.Sin(u)}
		center := radial.Mul(majorRadius)
		for j := 0; j < ns; j++ {
			v := 2 * math32.Pi * float32(j) / float32(ns)
			offset := radial.Mul(math32.Cos(v)).Add(mgl32.Vec3{0, math32.Sin(v), 0})
			b.add(
				center.Add(offset.Mul(minorRadius)),
				safeNormalize(offset, radial),
				mgl32.Vec2{float32(i) / float32(ms), float32(j) / float32(ns)},
			)
		}
	}

	at := func(i, j int) uint32 {
		return uint32((i%ms)*ns + j%ns)
	}
	for i := 0; i < ms; i++ {
		for j := 0; j < ns; j++ {
			a, bb := at(i, j), at(i, j+1)
			c, d := at(i+1, j), at(i+1, j+1)
			b.tri(a, bb, c)
			b.tri(bb, d, c)
		}
	}
	return b.finish()
}
