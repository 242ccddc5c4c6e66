// Package outline generates closed boundary polygons used as extrusion
// cross-sections and as ring-placement guides for lights and beacons.
package outline

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Outline is a closed polygon in the XZ plane (Y = 0).
// Points run counter-clockwise when seen from +Y and the first point is
// never repeated at the end.
type Outline []mgl32.Vec3

const (
	// SeamTolerance is the squared distance under which the last generated
	// point is treated as the first one and dropped.
	SeamTolerance = 1e-6

	// MaxCornerSegments caps the arc resolution of a single corner.
	MaxCornerSegments = 256

	// MaxRingPoints caps the point count of a circular outline.
	MaxRingPoints = 4096

	minExtent = 1e-3
)

// RoundedRect returns the outline of a width×depth rectangle centered on the
// origin with rounded corners. Each corner is swept with segmentsPerCorner+1
// points starting at 0°, 90°, 180° and 270° respectively.
//
// Parameters are clamped rather than rejected: non-positive extents become a
// small positive size, the radius is kept strictly inside (0, min(w,d)/2) and
// the segment count is kept in [1, MaxCornerSegments].
func RoundedRect(width, depth, cornerRadius float32, segmentsPerCorner int) Outline {
	width = clampExtent(width)
	depth = clampExtent(depth)
	r := ClampCornerRadius(width, depth, cornerRadius)
	n := clampInt(segmentsPerCorner, 1, MaxCornerSegments)

	hw, hd := width/2, depth/2
	centers := [4][2]float32{
		{hw - r, -(hd - r)},
		{-(hw - r), -(hd - r)},
		{-(hw - r), hd - r},
		{hw - r, hd - r},
	}

	pts := make(Outline, 0, 4*(n+1))
	step := (math32.Pi / 2) / float32(n)
	for c, center := range centers {
		start := float32(c) * math32.Pi / 2
		for i := 0; i <= n; i++ {
			a := start + float32(i)*step
			pts = append(pts, mgl32.Vec3{
				center[0] + r*math32.Cos(a),
				0,
				center[1] - r*math32.Sin(a),
			})
		}
	}

	if len(pts) > 1 {
		last := pts[len(pts)-1]
		if d := last.Sub(pts[0]); d.Dot(d) <= SeamTolerance {
			pts = pts[:len(pts)-1]
		}
	}
	return pts
}

// ClampCornerRadius returns cornerRadius limited to the open interval
// (0, min(width, depth)/2), which keeps the rounded rectangle simple.
func ClampCornerRadius(width, depth, cornerRadius float32) float32 {
	half := math32.Min(width, depth) / 2
	lo := half * 1e-3
	hi := half - math32.Min(1e-4, half*0.01)
	if cornerRadius != cornerRadius || cornerRadius < lo {
		return lo
	}
	if cornerRadius > hi {
		return hi
	}
	return cornerRadius
}

// Circular returns count points on an ellipse with the given X and Z radii.
// It is meant for placing instances around a ring, not for extrusion.
func Circular(radiusX, radiusZ float32, count int) Outline {
	radiusX = math32.Abs(radiusX)
	radiusZ = math32.Abs(radiusZ)
	count = clampInt(count, 3, MaxRingPoints)

	pts := make(Outline, count)
	for i := range pts {
		a := 2 * math32.Pi * float32(i) / float32(count)
		pts[i] = mgl32.Vec3{radiusX * math32.Cos(a), 0, -radiusZ * math32.Sin(a)}
	}
	return pts
}

// SignedArea returns the polygon area seen from +Y.
// It is positive for counter-clockwise outlines.
func (o Outline) SignedArea() float32 {
	var sum float32
	for i := range o {
		a, b := o[i], o[(i+1)%len(o)]
		// Screen axes seen from +Y are (X, -Z).
		sum += a[0]*(-b[2]) - b[0]*(-a[2])
	}
	return sum / 2
}

// Perimeter returns the closed length of the outline.
func (o Outline) Perimeter() float32 {
	var p float32
	for i := range o {
		p += o[(i+1)%len(o)].Sub(o[i]).Len()
	}
	return p
}

// Angle returns the polar angle of point i measured counter-clockwise from +X
// as seen from +Y, in radians. Useful for orienting instances placed on a ring.
func (o Outline) Angle(i int) float32 {
	p := o[i]
	return math32.Atan2(-p[2], p[0])
}

func clampExtent(v float32) float32 {
	if v != v || v < minExtent {
		return minExtent
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
