// Package anim drives procedural prop animation. Every visual channel is a
// closed-form function of elapsed time, except spin which integrates frame
// deltas. The driver writes through a Sink keyed by render-surface handle and
// never touches geometry.
package anim

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Bob moves an object up and down: Y += Amplitude·sin(t·Speed + Phase).
type Bob struct {
	Amplitude float32
	Speed     float32
	Phase     float32
}

// Offset returns the vertical offset at time t.
func (b Bob) Offset(t float32) float32 {
	return b.Amplitude * math32.Sin(t*b.Speed+b.Phase)
}

// Tilt rocks an object by small angles (radians) around X and Z.
type Tilt struct {
	AmplitudeX float32
	AmplitudeZ float32
	Speed      float32
	Phase      float32
}

// Angles returns the X and Z rotation at time t. The axes run a quarter
// period apart so the motion traces an ellipse instead of a line.
func (tl Tilt) Angles(t float32) (x, z float32) {
	a := t*tl.Speed + tl.Phase
	return tl.AmplitudeX * math32.Sin(a), tl.AmplitudeZ * math32.Cos(a)
}

// Rotation returns the tilt as a quaternion.
func (tl Tilt) Rotation(t float32) mgl32.Quat {
	x, z := tl.Angles(t)
	return mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0}).Mul(mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1}))
}

// Reciprocate slides a part along Axis between 0 and Travel:
// offset = Travel·(0.5 + 0.5·sin(t·Speed + Phase)). Mirror negates the offset
// for the right-hand rod of a left/right pair.
type Reciprocate struct {
	Axis   mgl32.Vec3
	Travel float32
	Speed  float32
	Phase  float32
	Mirror bool
}

// Offset returns the signed slide distance at time t.
func (r Reciprocate) Offset(t float32) float32 {
	o := r.Travel * (0.5 + 0.5*math32.Sin(t*r.Speed+r.Phase))
	if r.Mirror {
		return -o
	}
	return o
}

// Spin rotates around a fixed local axis at DegreesPerSecond.
type Spin struct {
	Axis             mgl32.Vec3
	DegreesPerSecond float32

	angle float32 // accumulated degrees
}

// Advance accumulates one frame. Non-finite or negative deltas are ignored,
// so a paused host that reports dt=0 freezes the spin.
func (s *Spin) Advance(dt float32) {
	if !(dt > 0) || math32.IsInf(dt, 0) {
		return
	}
	s.angle = math32.Mod(s.angle+s.DegreesPerSecond*dt, 360)
}

// Angle returns the accumulated angle in degrees.
func (s *Spin) Angle() float32 { return s.angle }

// AbsoluteAngle is the accumulate-free formulation: DegreesPerSecond·t.
func (s *Spin) AbsoluteAngle(t float32) float32 {
	return math32.Mod(s.DegreesPerSecond*t, 360)
}

// Reset zeroes the accumulated angle.
func (s *Spin) Reset() { s.angle = 0 }

func (s *Spin) rotation(deg float32) mgl32.Quat {
	axis := s.Axis
	if axis.Len() < 1e-6 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return mgl32.QuatRotate(mgl32.DegToRad(deg), axis.Normalize())
}

// Pattern selects an emissive intensity function.
type Pattern uint8

const (
	PatternChase Pattern = iota
	PatternPulse
	PatternBlink
)

func (p Pattern) String() string {
	switch p {
	case PatternChase:
		return "chase"
	case PatternPulse:
		return "pulse"
	case PatternBlink:
		return "blink"
	}
	return "unknown"
}

// Emissive animates the emissive override of one render instance.
type Emissive struct {
	Target  Handle
	Pattern Pattern
	Color   mgl32.Vec3
	Min     float32
	Max     float32
	Speed   float32

	// Chase: instance Index lags by Index·PhaseStep radians; the raw wave is
	// raised to Sharpness.
	Index     int
	PhaseStep float32
	Sharpness float32

	// Pulse: an optional faster sinusoid added on top.
	FlickerAmplitude float32
	FlickerSpeed     float32

	// Blink: bright while sin(t·Speed + Phase) > Threshold.
	Threshold float32
	Phase     float32

	skipped bool
}

// Intensity returns the scalar emissive intensity at time t.
func (e *Emissive) Intensity(t float32) float32 {
	switch e.Pattern {
	case PatternChase:
		return ChaseIntensity(t, e.Speed, e.Index, e.PhaseStep, e.Sharpness, e.Min, e.Max)
	case PatternPulse:
		return PulseIntensity(t, e.Speed, e.Phase, e.FlickerAmplitude, e.FlickerSpeed, e.Min, e.Max)
	case PatternBlink:
		return BlinkIntensity(t, e.Speed, e.Phase, e.Threshold, e.Min, e.Max)
	}
	return e.Min
}

// ChaseIntensity is lerp(min, max, pow(0.5+0.5·sin(t·speed − i·phaseStep), sharpness)).
func ChaseIntensity(t, speed float32, i int, phaseStep, sharpness, min, max float32) float32 {
	w := 0.5 + 0.5*math32.Sin(t*speed-float32(i)*phaseStep)
	if sharpness <= 0 {
		sharpness = 1
	}
	return lerp(min, max, clamp01(math32.Pow(clamp01(w), sharpness)))
}

// PulseIntensity is a shared sinusoid between min and max, optionally
// summed with a faster flicker wave. The result stays within [min, max].
func PulseIntensity(t, speed, phase, flickerAmp, flickerSpeed, min, max float32) float32 {
	w := 0.5 + 0.5*math32.Sin(t*speed+phase)
	if flickerAmp != 0 {
		w += flickerAmp * math32.Sin(t*flickerSpeed)
	}
	return lerp(min, max, clamp01(w))
}

// BlinkIntensity is max while sin(t·speed + phase) exceeds threshold and min
// otherwise.
func BlinkIntensity(t, speed, phase, threshold, min, max float32) float32 {
	if math32.Sin(t*speed+phase) > threshold {
		return max
	}
	return min
}

// Scroll sets one texture-coordinate axis of the target to t·Speed.
type Scroll struct {
	Target Handle
	Axis   int // 0 = u, 1 = v
	Speed  float32

	skipped bool
}

// Offset returns the UV offset at time t. It depends on t alone.
func (s *Scroll) Offset(t float32) mgl32.Vec2 {
	var o mgl32.Vec2
	o[s.Axis&1] = t * s.Speed
	return o
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
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
