package props

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/internal/config"
	"github.com/Faultbox/propforge/internal/scene"
	"github.com/Faultbox/propforge/pkg/mesh"
	"github.com/Faultbox/propforge/pkg/outline"
)

// reactor is a glowing drum core on a plinth, circled by tilted spinning rings,
// topped by a fan and flanked by blinking warning beacons.
type reactor struct {
	cfg config.ReactorConfig
}

func (r *reactor) name() string { return "reactor" }

const plinthHeight = 0.3

func (r *reactor) build(k *kit) error {
	c := r.cfg
	root := k.scene.Root

	outer := c.RingRadius + float32(max(c.RingCount-1, 0))*c.RingSpacing
	steel := opaque("steel", mgl32.Vec4{0.28, 0.3, 0.33, 1}, nil)

	k.surface(root, "plinth", k.mesh(mesh.PrismParams{
		Width:        2*outer + 0.3,
		Depth:        2*outer + 0.3,
		Height:       plinthHeight,
		CornerRadius: outer * 0.5,
		Segments:     8,
	}), steel, mgl32.Vec3{})

	coreMat := glowing("core", c.CoreColor.Vec3(), c.PulseMin, k.energy(c.EnergyFrequency, c.EnergyOctaves), false)
	core := k.surface(root, "core", k.mesh(mesh.CylinderParams{
		Radius:   c.CoreRadius,
		Height:   c.CoreHeight,
		Chamfer:  c.CoreChamfer,
		Segments: c.CoreSegments,
	}), coreMat, mgl32.Vec3{0, plinthHeight, 0})
	if core != nil {
		st := k.animate(core)
		st.Emissive = []anim.Emissive{{
			Target:           core.Handle,
			Pattern:          anim.PatternPulse,
			Color:            c.CoreColor.Vec3(),
			Min:              c.PulseMin,
			Max:              c.PulseMax,
			Speed:            c.PulseSpeed,
			FlickerAmplitude: c.FlickerAmplitude,
			FlickerSpeed:     c.FlickerSpeed,
		}}
		st.Scroll = []anim.Scroll{{Target: core.Handle, Axis: 1, Speed: c.ScrollSpeed}}
	}

	r.rings(k, root)
	r.fan(k, root, steel)
	r.beacons(k, root, outer)

	return k.err
}

// rings stacks concentric tori, each tilted on alternating axes and spinning
// the other way from its neighbour.
func (r *reactor) rings(k *kit, root *scene.Node) {
	c := r.cfg
	group := k.group(root, "rings", mgl32.Vec3{0, plinthHeight + c.CoreHeight/2, 0})
	mat := opaque("ring", c.RingColor.Vec4(1), nil)

	for i := 0; i < c.RingCount; i++ {
		m := k.mesh(mesh.TorusParams{
			MajorRadius:   c.RingRadius + float32(i)*c.RingSpacing,
			MinorRadius:   c.RingThickness,
			MajorSegments: 48,
			MinorSegments: 12,
		})
		n := k.surface(group, fmt.Sprintf("ring-%d", i), m, mat, mgl32.Vec3{})
		if n == nil {
			return
		}
		axis := mgl32.Vec3{1, 0, 0}
		if i%2 == 1 {
			axis = mgl32.Vec3{0, 0, 1}
		}
		n.Rotation = mgl32.QuatRotate(mgl32.DegToRad(20+25*float32(i)), axis)

		dir := float32(1)
		if i%2 == 1 {
			dir = -1
		}
		st := k.animate(n)
		st.Spins = []anim.Spin{{
			Axis:             mgl32.Vec3{0, 1, 0},
			DegreesPerSecond: dir * c.RingSpin * (1 + 0.5*float32(i)),
		}}
	}
}

// fan bakes every blade into one mesh so the rotor is a single draw.
func (r *reactor) fan(k *kit, root *scene.Node, steel *scene.Material) {
	c := r.cfg
	top := plinthHeight + c.CoreHeight

	k.surface(root, "fan-hub", k.mesh(mesh.CylinderParams{Radius: 0.12, Height: 0.1, Chamfer: 0.02, Segments: 16}), steel, mgl32.Vec3{0, top, 0})

	blade := k.mesh(mesh.PrismParams{Width: c.FanRadius, Depth: 0.16, Height: 0.03, CornerRadius: 0.05, Segments: 3})
	// Pitch about the blade's own long axis, then move it out from the hub.
	place := mgl32.Translate3D(c.FanRadius/2+0.08, 0, 0).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(15)))

	rotor := k.surface(root, "fan", k.ring(blade, c.FanBlades, place), steel, mgl32.Vec3{0, top + 0.05, 0})
	st := k.animate(rotor)
	st.Spins = []anim.Spin{{Axis: mgl32.Vec3{0, 1, 0}, DegreesPerSecond: c.FanSpin}}
}

// beacons sit on the plinth rim and blink in sequence.
func (r *reactor) beacons(k *kit, root *scene.Node, outer float32) {
	c := r.cfg
	if c.BeaconCount < 1 {
		return
	}
	mat := glowing("warning", c.BeaconColor.Vec3(), 0, nil, false)
	bulb := k.mesh(mesh.SphereParams{Radius: 0.07, LongitudeSegments: 12, LatitudeSegments: 6})

	group := k.group(root, "beacons", mgl32.Vec3{0, plinthHeight + 0.07, 0})
	st := k.animate(group)

	pts := outline.Circular(outer+0.05, outer+0.05, c.BeaconCount)
	st.Emissive = make([]anim.Emissive, 0, len(pts))
	for i, p := range pts {
		n := k.surface(group, fmt.Sprintf("beacon-%d", i), bulb, mat, p)
		if n == nil {
			return
		}
		st.Emissive = append(st.Emissive, anim.Emissive{
			Target:    n.Handle,
			Pattern:   anim.PatternBlink,
			Color:     c.BeaconColor.Vec3(),
			Min:       0,
			Max:       3,
			Speed:     c.BlinkSpeed,
			Threshold: c.BlinkThreshold,
			Phase:     2 * math32.Pi * float32(i) / float32(len(pts)),
		})
	}
}
