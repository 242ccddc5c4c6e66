package anim

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Driver advances every registered State once per frame. A tick only
// evaluates closed-form channels and writes value types through the Sink, so
// the steady-state path does not allocate.
type Driver struct {
	sink         Sink
	log          *zap.Logger
	states       []*State
	absoluteSpin bool
	skipped      int
	ticks        uint64
}

// NewDriver returns a driver writing to sink. A nil logger disables logging.
func NewDriver(sink Sink, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{sink: sink, log: log}
}

// Add registers s. Its spin angles start from their current values.
func (d *Driver) Add(s *State) {
	if s == nil {
		return
	}
	d.states = append(d.states, s)
}

// Clear drops every state and resets the counters. Handles held by the
// dropped states must not be used afterwards.
func (d *Driver) Clear() {
	for i := range d.states {
		d.states[i] = nil
	}
	d.states = d.states[:0]
	d.skipped = 0
	d.ticks = 0
}

// Len returns the number of registered states.
func (d *Driver) Len() int { return len(d.states) }

// States returns the registered states in registration order.
func (d *Driver) States() []*State { return d.states }

// SetAbsoluteSpin switches spin channels between accumulation (the default:
// pausing freezes spin) and the replayable angle = degreesPerSecond·t form.
func (d *Driver) SetAbsoluteSpin(on bool) { d.absoluteSpin = on }

// AbsoluteSpin reports the spin formulation in use.
func (d *Driver) AbsoluteSpin() bool { return d.absoluteSpin }

// Skipped returns how many writes the sink refused since the last Clear.
func (d *Driver) Skipped() int { return d.skipped }

// Ticks returns the number of ticks since the last Clear.
func (d *Driver) Ticks() uint64 { return d.ticks }

// Tick evaluates all channels at elapsed seconds. delta is the frame time
// and only feeds accumulated spin. A write the sink refuses is skipped for
// that instance; it never aborts the tick.
func (d *Driver) Tick(elapsed, delta float32) {
	if elapsed != elapsed || math32.IsInf(elapsed, 0) {
		elapsed = 0
	}
	d.ticks++

	for _, s := range d.states {
		if !d.absoluteSpin {
			for i := range s.Spins {
				s.Spins[i].Advance(delta)
			}
		}

		if s.Animated() {
			pos := s.Position(elapsed)
			rot := s.rotation(elapsed, d.absoluteSpin)
			if err := d.sink.SetTransform(s.Target, pos, rot); err != nil {
				d.skipped++
			}
		}

		for i := range s.Emissive {
			e := &s.Emissive[i]
			k := e.Intensity(elapsed)
			v := mgl32.Vec4{e.Color[0] * k, e.Color[1] * k, e.Color[2] * k, k}
			if err := d.sink.SetOverride(e.Target, ParamEmissive, v); err != nil {
				d.skipped++
				if !e.skipped {
					e.skipped = true
					d.log.Debug("emissive channel skipped",
						zap.String("state", s.Name),
						zap.Uint32("handle", uint32(e.Target)),
						zap.Error(err))
				}
			}
		}

		for i := range s.Scroll {
			sc := &s.Scroll[i]
			uv := sc.Offset(elapsed)
			if err := d.sink.SetOverride(sc.Target, ParamUVOffset, mgl32.Vec4{uv[0], uv[1], 0, 0}); err != nil {
				d.skipped++
				if !sc.skipped {
					sc.skipped = true
					d.log.Debug("scroll channel skipped",
						zap.String("state", s.Name),
						zap.Uint32("handle", uint32(sc.Target)),
						zap.Error(err))
				}
			}
		}
	}
}

// ResetSpins zeroes every accumulated spin angle.
func (d *Driver) ResetSpins() {
	for _, s := range d.states {
		for i := range s.Spins {
			s.Spins[i].Reset()
		}
	}
}
