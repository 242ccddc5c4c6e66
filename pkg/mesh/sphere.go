package mesh

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// UVSphere builds a sphere centered on the origin. Rows run from the +Y pole
// (latitude 0) to the -Y pole; the normal is the normalized position.
func UVSphere(radius float32, longitudeSegments, latitudeSegments int) *Buffers {
	radius = clampExtent(radius)
	lon := clampSegments(longitudeSegments, 3)
	lat := clampSegments(latitudeSegments, 2)

	b := newBuffers((lat+1)*(lon+1), lat*lon*6)
	for r := 0; r <= lat; r++ {
		phi := math32.Pi * float32(r) / float32(lat)
		sinPhi, cosPhi := math32.Sin(phi), math32.Cos(phi)
		for s := 0; s <= lon; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(lon)
			n := mgl32.Vec3{sinPhi * math32.Cos(theta), cosPhi, sinPhi * math32.Sin(theta)}
			n = safeNormalize(n, mgl32.Vec3{0, 1, 0})
			b.add(n.Mul(radius), n, mgl32.Vec2{float32(s) / float32(lon), float32(r) / float32(lat)})
		}
	}

	stride := uint32(lon + 1)
	for r := 0; r < lat; r++ {
		for s := 0; s < lon; s++ {
			a := uint32(r)*stride + uint32(s)
			bb := a + 1
			c := a + stride
			d := c + 1
			if r != 0 {
				b.tri(a, bb, c)
			}
			if r != lat-1 {
				b.tri(bb, d, c)
			}
		}
	}
	return b.finish()
}
