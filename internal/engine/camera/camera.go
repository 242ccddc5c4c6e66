// Package camera provides the orbit camera used by the prop preview.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/propforge/pkg/mesh"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center mgl32.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Projection
	FOV  float32 // Vertical field of view, radians
	Near float32
	Far  float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
// Distances are in meters.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        6,
		RotationX:       0.45,
		RotationY:       0.6,
		MinDistance:     0.5,
		MaxDistance:     100,
		MinPitch:        -1.2,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FOV:             mgl32.DegToRad(45),
		Near:            0.05,
		Far:             500,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cosX := math32.Cos(c.RotationX)
	return c.Center.Add(mgl32.Vec3{
		c.Distance * cosX * math32.Sin(c.RotationY),
		c.Distance * math32.Sin(c.RotationX),
		c.Distance * cosX * math32.Cos(c.RotationY),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns a perspective projection for the given aspect.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if !(aspect > 0) {
		aspect = 1
	}
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clampDistance()
}

func (c *OrbitCamera) clampDistance() {
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FitToBounds centers the camera on b and backs off until the bounding
// sphere fills the vertical field of view.
func (c *OrbitCamera) FitToBounds(b mesh.Bounds) {
	c.Center = b.Center()

	radius := b.Size().Len() / 2
	if radius < 0.1 {
		radius = 0.1
	}
	c.Distance = radius / math32.Sin(c.FOV/2) * 1.1
	c.clampDistance()

	c.RotationX = 0.45
	c.RotationY = 0.6
}
