package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Cone builds a frustum centered on the origin, with the bottom ring at
// y=-height/2 and the top ring at y=+height/2. The side normal follows the
// slant, (cosθ, (radiusBottom-radiusTop)/height, sinθ) normalized.
//
// The bottom is capped only when capBottom is set and radiusBottom > 0; the
// top is never capped, which suits flames and nose cones that taper to a point.
func Cone(radiusBottom, radiusTop, height float32, segments int, capBottom bool) *Buffers {
	radiusBottom = clampRadius(radiusBottom)
	radiusTop = clampRadius(radiusTop)
	if radiusBottom == 0 && radiusTop == 0 {
		radiusBottom = minExtent
	}
	height = clampExtent(height)
	s := clampSegments(segments, 3)

	b := newBuffers(coneVertexCount(s, capBottom), s*6+s*3)
	slope := (radiusBottom - radiusTop) / height
	half := height / 2
	for k, rg := range [2]struct{ y, r float32 }{{-half, radiusBottom}, {half, radiusTop}} {
		for i := 0; i <= s; i++ {
			theta := 2 * math32.Pi * float32(i) / float32(s)
			cos, sin := math32.Cos(theta), math32.Sin(theta)
			b.add(
				mgl32.Vec3{rg.r * cos, rg.y, rg.r * sin},
				safeNormalize(mgl32.Vec3{cos, slope, sin}, mgl32.Vec3{0, 1, 0}),
				mgl32.Vec2{float32(i) / float32(s), float32(k)},
			)
		}
	}

	stride := uint32(s + 1)
	for i := uint32(0); i < uint32(s); i++ {
		bi, bj := i, i+1
		ti, tj := stride+i, stride+i+1
		// Skip triangles collapsed onto an apex.
		if radiusBottom > 0 {
			b.tri(bi, ti, bj)
		}
		if radiusTop > 0 {
			b.tri(bj, ti, tj)
		}
	}

	if capBottom && radiusBottom > 0 {
		addDiscCap(b, radiusBottom, -half, s, false)
	}
	return b.finish()
}

func clampRadius(r float32) float32 {
	if r != r || r < 0 {
		return 0
	}
	return r
}

func coneVertexCount(s int, capBottom bool) int {
	n := 2 * (s + 1)
	if capBottom {
		n += s + 1
	}
	return n
}
