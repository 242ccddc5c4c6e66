package anim

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Handle is an opaque render-surface identifier issued by the scene.
type Handle uint32

// NoHandle is never issued.
const NoHandle Handle = 0

// Param names a per-instance shader parameter the driver may override.
type Param uint8

const (
	ParamEmissive Param = iota // rgb = color·intensity, a = intensity
	ParamUVOffset              // xy = texture offset
	ParamTint                  // rgba multiplier
	NumParams
)

func (p Param) String() string {
	switch p {
	case ParamEmissive:
		return "emissive"
	case ParamUVOffset:
		return "uv_offset"
	case ParamTint:
		return "tint"
	}
	return "unknown"
}

// Sink receives the driver's writes. Implementations apply overrides per
// instance and must not fold them into a shared material. SetOverride returns
// an error when the instance cannot take the parameter; the driver then skips
// that channel and keeps animating the rest.
type Sink interface {
	SetTransform(h Handle, position mgl32.Vec3, rotation mgl32.Quat) error
	SetOverride(h Handle, p Param, v mgl32.Vec4) error
}

// State is the animation record of one object: its base transform captured at
// construction and the channels layered on top.
type State struct {
	Name         string
	Target       Handle
	BasePosition mgl32.Vec3
	BaseRotation mgl32.Quat

	Bob         *Bob
	Tilt        *Tilt
	Reciprocate *Reciprocate
	Spins       []Spin
	Emissive    []Emissive
	Scroll      []Scroll
}

// NewState captures the base transform of target.
func NewState(name string, target Handle, position mgl32.Vec3, rotation mgl32.Quat) *State {
	return &State{
		Name:         name,
		Target:       target,
		BasePosition: position,
		BaseRotation: rotation,
	}
}

// Position returns the animated position at time t.
func (s *State) Position(t float32) mgl32.Vec3 {
	p := s.BasePosition
	if s.Bob != nil {
		p[1] += s.Bob.Offset(t)
	}
	if s.Reciprocate != nil {
		p = p.Add(s.Reciprocate.Axis.Mul(s.Reciprocate.Offset(t)))
	}
	return p
}

// rotation returns the animated rotation, with spin angles either
// accumulated or derived from t.
func (s *State) rotation(t float32, absolute bool) mgl32.Quat {
	r := s.BaseRotation
	if s.Tilt != nil {
		r = r.Mul(s.Tilt.Rotation(t))
	}
	for i := range s.Spins {
		sp := &s.Spins[i]
		deg := sp.angle
		if absolute {
			deg = sp.AbsoluteAngle(t)
		}
		r = r.Mul(sp.rotation(deg))
	}
	return r
}

// Animated reports whether the state moves its target.
func (s *State) Animated() bool {
	return s.Bob != nil || s.Tilt != nil || s.Reciprocate != nil || len(s.Spins) > 0
}

// ChannelCount returns the number of channels on s.
func (s *State) ChannelCount() int {
	n := len(s.Spins) + len(s.Emissive) + len(s.Scroll)
	if s.Bob != nil {
		n++
	}
	if s.Tilt != nil {
		n++
	}
	if s.Reciprocate != nil {
		n++
	}
	return n
}
