package mesh

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func newBuffers(vertexCap, indexCap int) *Buffers {
	return &Buffers{
		Positions: make([]mgl32.Vec3, 0, vertexCap),
		Normals:   make([]mgl32.Vec3, 0, vertexCap),
		UVs:       make([]mgl32.Vec2, 0, vertexCap),
		Indices:   make([]uint32, 0, indexCap),
	}
}

// add appends a vertex and returns its index.
func (b *Buffers) add(p, n mgl32.Vec3, uv mgl32.Vec2) uint32 {
	b.Positions = append(b.Positions, p)
	b.Normals = append(b.Normals, n)
	b.UVs = append(b.UVs, uv)
	return uint32(len(b.Positions) - 1)
}

func (b *Buffers) tri(i0, i1, i2 uint32) {
	b.Indices = append(b.Indices, i0, i1, i2)
}

// finish selects the index format and computes bounds.
func (b *Buffers) finish() *Buffers {
	b.Format = formatFor(len(b.Positions))
	b.Bounds = boundsOf(b.Positions)
	return b
}

func formatFor(vertexCount int) IndexFormat {
	if vertexCount > math.MaxUint16+1 {
		return Index32
	}
	return Index16
}

func boundsOf(ps []mgl32.Vec3) Bounds {
	if len(ps) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: ps[0], Max: ps[0]}
	for _, p := range ps[1:] {
		for a := 0; a < 3; a++ {
			if p[a] < b.Min[a] {
				b.Min[a] = p[a]
			}
			if p[a] > b.Max[a] {
				b.Max[a] = p[a]
			}
		}
	}
	return b
}

// VertexCount returns the number of vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Positions)
}

// TriangleCount returns the number of triangles.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// Indices16 returns the index list narrowed to 16 bits.
// The second result is false when Format is Index32.
func (b *Buffers) Indices16() ([]uint16, bool) {
	if b.Format != Index16 {
		return nil, false
	}
	out := make([]uint16, len(b.Indices))
	for i, idx := range b.Indices {
		out[i] = uint16(idx)
	}
	return out, true
}

// Interleave packs the parallel sequences into a vertex slice.
func (b *Buffers) Interleave() []Vertex {
	out := make([]Vertex, len(b.Positions))
	for i := range out {
		out[i] = Vertex{Position: b.Positions[i], Normal: b.Normals[i], TexCoord: b.UVs[i]}
	}
	return out
}

// Transform returns a copy of b with m applied to positions and the inverse
// transpose of m applied to normals. Mirroring transforms reverse the
// triangle winding so faces keep pointing outward.
func (b *Buffers) Transform(m mgl32.Mat4) *Buffers {
	out := &Buffers{
		Positions: make([]mgl32.Vec3, len(b.Positions)),
		Normals:   make([]mgl32.Vec3, len(b.Normals)),
		UVs:       append([]mgl32.Vec2(nil), b.UVs...),
		Indices:   append([]uint32(nil), b.Indices...),
	}

	m3 := m.Mat3()
	det := m3.Det()
	nm := m3
	if math32.Abs(det) > 1e-12 {
		nm = m3.Inv().Transpose()
	}

	for i, p := range b.Positions {
		out.Positions[i] = m.Mul4x1(p.Vec4(1)).Vec3()
	}
	for i, n := range b.Normals {
		out.Normals[i] = safeNormalize(nm.Mul3x1(n), n)
	}

	// Reverse winding for negative-determinant transforms.
	if det < 0 {
		for i := 0; i+2 < len(out.Indices); i += 3 {
			out.Indices[i+1], out.Indices[i+2] = out.Indices[i+2], out.Indices[i+1]
		}
	}
	return out.finish()
}

// Merge concatenates parts into a single mesh, offsetting indices.
func Merge(parts ...*Buffers) *Buffers {
	var nv, ni int
	for _, p := range parts {
		if p == nil {
			continue
		}
		nv += len(p.Positions)
		ni += len(p.Indices)
	}

	out := newBuffers(nv, ni)
	for _, p := range parts {
		if p == nil {
			continue
		}
		base := uint32(len(out.Positions))
		out.Positions = append(out.Positions, p.Positions...)
		out.Normals = append(out.Normals, p.Normals...)
		out.UVs = append(out.UVs, p.UVs...)
		for _, idx := range p.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out.finish()
}

// Validate checks the structural invariants of b.
func (b *Buffers) Validate() error {
	n := len(b.Positions)
	if len(b.Normals) != n || len(b.UVs) != n {
		return errors.Wrapf(ErrInvalid, "attribute lengths differ: %d positions, %d normals, %d uvs",
			n, len(b.Normals), len(b.UVs))
	}
	if len(b.Indices)%3 != 0 {
		return errors.Wrapf(ErrInvalid, "index count %d is not a multiple of 3", len(b.Indices))
	}
	for i, idx := range b.Indices {
		if int(idx) >= n {
			return errors.Wrapf(ErrInvalid, "index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	if b.Format == Index16 && n > math.MaxUint16+1 {
		return errors.Wrapf(ErrInvalid, "16-bit format with %d vertices", n)
	}
	for i := range b.Positions {
		if !finite3(b.Positions[i]) || !finite3(b.Normals[i]) {
			return errors.Wrapf(ErrInvalid, "non-finite vertex %d", i)
		}
		if l := b.Normals[i].Len(); math32.Abs(l-1) > 1e-3 {
			return errors.Wrapf(ErrInvalid, "normal %d has length %f", i, l)
		}
		uv := b.UVs[i]
		if uv[0] < 0 || uv[0] > 1 || uv[1] < 0 || uv[1] > 1 {
			return errors.Wrapf(ErrInvalid, "uv %d out of range: %v", i, uv)
		}
	}
	return nil
}

func finite3(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// safeNormalize returns v scaled to unit length, or fallback when v is
// too short to normalize.
func safeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-8 {
		return fallback
	}
	return v.Mul(1 / l)
}

func clampExtent(v float32) float32 {
	if v != v || v < minExtent {
		return minExtent
	}
	return v
}

func clampSegments(v, lo int) int {
	if v < lo {
		return lo
	}
	if v > MaxSegments {
		return MaxSegments
	}
	return v
}
