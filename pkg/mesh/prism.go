package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/propforge/pkg/outline"
)

// RoundedRectPrism extrudes the rounded-rect outline from y=0 to y=height and
// caps both ends with a fan around a center vertex.
//
// Side normals are the outward radial direction of each outline point with
// the height ignored. Side UVs run along the perimeter from u=0 to u=1; the
// first outline point is repeated at the end so the last quad does not wrap
// the texture. Caps are planar.
func RoundedRectPrism(width, depth, height, cornerRadius float32, segments int) *Buffers {
	height = clampExtent(height)
	ol := outline.RoundedRect(width, depth, cornerRadius, segments)
	n := len(ol)

	b := newBuffers(prismVertexCount(n), 12*n)

	// Side: two positions per outline point, plus a seam pair at u=1.
	perimeter := ol.Perimeter()
	var run float32
	for i := 0; i <= n; i++ {
		p := ol[i%n]
		nrm := safeNormalize(mgl32.Vec3{p[0], 0, p[2]}, mgl32.Vec3{1, 0, 0})
		u := run / perimeter
		if i == n {
			u = 1
		}
		b.add(p, nrm, mgl32.Vec2{u, 0})
		b.add(mgl32.Vec3{p[0], height, p[2]}, nrm, mgl32.Vec2{u, 1})
		run += ol[(i+1)%n].Sub(p).Len()
	}
	for i := 0; i < n; i++ {
		bi, ti := uint32(2*i), uint32(2*i+1)
		bj, tj := uint32(2*i+2), uint32(2*i+3)
		b.tri(bi, bj, tj)
		b.tri(bi, tj, ti)
	}

	ext := boundsOf(ol)
	size := ext.Size()
	planarUV := func(p mgl32.Vec3) mgl32.Vec2 {
		return mgl32.Vec2{
			clamp01((p[0]-ext.Min[0])/size[0]),
			clamp01((p[2]-ext.Min[2])/size[2]),
		}
	}

	// Bottom cap faces -Y.
	down := mgl32.Vec3{0, -1, 0}
	center := b.add(mgl32.Vec3{}, down, mgl32.Vec2{0.5, 0.5})
	ring := uint32(len(b.Positions))
	for _, p := range ol {
		b.add(p, down, planarUV(p))
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		b.tri(center, ring+uint32(j), ring+uint32(i))
	}

	// Top cap faces +Y.
	up := mgl32.Vec3{0, 1, 0}
	center = b.add(mgl32.Vec3{0, height, 0}, up, mgl32.Vec2{0.5, 0.5})
	ring = uint32(len(b.Positions))
	for _, p := range ol {
		b.add(mgl32.Vec3{p[0], height, p[2]}, up, planarUV(p))
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		b.tri(center, ring+uint32(i), ring+uint32(j))
	}

	return b.finish()
}

func prismVertexCount(outlinePoints int) int {
	return 4 * (outlinePoints + 1)
}

func clamp01(v float32) float32 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
