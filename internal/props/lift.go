package props

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/internal/config"
	"github.com/Faultbox/propforge/internal/scene"
	"github.com/Faultbox/propforge/pkg/mesh"
	"github.com/Faultbox/propforge/pkg/outline"
)

// lift is a hovering deck on four piston housings with a chase of LEDs round
// its rim, a pair of reciprocating side rods and a spinning beacon on top.
type lift struct {
	cfg config.LiftConfig
}

func (l *lift) name() string { return "lift" }

const liftBaseHeight = 0.15

func (l *lift) build(k *kit) error {
	c := l.cfg
	root := k.scene.Root

	steel := opaque("steel", mgl32.Vec4{0.32, 0.34, 0.37, 1}, nil)
	deckMat := opaque("deck", c.DeckColor.Vec4(1), k.stripe())

	radius := outline.ClampCornerRadius(c.DeckWidth, c.DeckDepth, c.CornerRadius)
	k.surface(root, "base", k.mesh(mesh.PrismParams{
		Width:        c.DeckWidth + 0.4,
		Depth:        c.DeckDepth + 0.4,
		Height:       liftBaseHeight,
		CornerRadius: radius + 0.2,
		Segments:     c.CornerSegments,
	}), steel, mgl32.Vec3{})

	housing := k.mesh(mesh.CylinderParams{
		Radius:   c.PistonRadius,
		Height:   c.RestHeight,
		Chamfer:  c.PistonChamfer,
		Segments: c.PistonSegments,
	})
	px := c.DeckWidth/2 - radius - c.PistonRadius
	pz := c.DeckDepth/2 - radius - c.PistonRadius
	for i, corner := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		k.surface(root, pistonNames[i], housing, steel, mgl32.Vec3{corner[0] * px, liftBaseHeight, corner[1] * pz})
	}

	l.rods(k, root, steel)

	platform := k.group(root, "platform", mgl32.Vec3{0, liftBaseHeight + c.RestHeight, 0})
	st := k.animate(platform)
	st.Bob = &anim.Bob{Amplitude: c.BobAmplitude, Speed: c.BobSpeed}
	st.Tilt = &anim.Tilt{
		AmplitudeX: mgl32.DegToRad(c.TiltDegrees),
		AmplitudeZ: mgl32.DegToRad(c.TiltDegrees) * 0.6,
		Speed:      c.TiltSpeed,
	}

	k.surface(platform, "deck", k.mesh(mesh.PrismParams{
		Width:        c.DeckWidth,
		Depth:        c.DeckDepth,
		Height:       c.DeckHeight,
		CornerRadius: c.CornerRadius,
		Segments:     c.CornerSegments,
	}), deckMat, mgl32.Vec3{})

	l.leds(k, platform)
	l.beacon(k, platform, steel)

	return k.err
}

var pistonNames = [4]string{"piston-fl", "piston-fr", "piston-br", "piston-bl"}

// rods places a left/right pair of sliding rods in sleeves beside the deck.
// The right rod mirrors the left, so one rises while the other sinks.
func (l *lift) rods(k *kit, root *scene.Node, steel *scene.Material) {
	c := l.cfg
	chrome := opaque("chrome", mgl32.Vec4{0.8, 0.82, 0.85, 1}, nil)

	sleeveHeight := c.RodLength * 0.5
	sleeve := k.mesh(mesh.CylinderParams{Radius: c.RodRadius * 1.8, Height: sleeveHeight, Chamfer: 0.01, Segments: 16})
	rod := k.mesh(mesh.CylinderParams{Radius: c.RodRadius, Height: c.RodLength, Chamfer: c.RodRadius * 0.3, Segments: 12})

	x := c.DeckWidth/2 + 0.25
	for _, side := range []struct {
		name   string
		x      float32
		mirror bool
	}{
		{"left", -x, false},
		{"right", x, true},
	} {
		k.surface(root, "sleeve-"+side.name, sleeve, steel, mgl32.Vec3{side.x, liftBaseHeight, 0})

		y := liftBaseHeight + sleeveHeight - c.RodLength*0.5
		if side.mirror {
			y += c.RodTravel
		}
		n := k.surface(root, "rod-"+side.name, rod, chrome, mgl32.Vec3{side.x, y, 0})
		st := k.animate(n)
		st.Reciprocate = &anim.Reciprocate{
			Axis:   mgl32.Vec3{0, 1, 0},
			Travel: c.RodTravel,
			Speed:  c.RodSpeed,
			Mirror: side.mirror,
		}
	}
}

// leds rings the deck rim with small emissive spheres. They share one mesh
// and one material; the chase writes a per-instance emissive override.
func (l *lift) leds(k *kit, platform *scene.Node) {
	c := l.cfg
	if c.LEDCount < 1 {
		return
	}
	mat := glowing("led", c.LEDColor.Vec3(), c.ChaseMin, nil, false)
	bulb := k.mesh(mesh.SphereParams{Radius: 0.05, LongitudeSegments: 12, LatitudeSegments: 6})

	group := k.group(platform, "leds", mgl32.Vec3{0, c.DeckHeight + 0.03, 0})
	st := k.animate(group)
	st.Emissive = make([]anim.Emissive, 0, c.LEDCount)

	rim := outline.Circular(c.DeckWidth/2-0.12, c.DeckDepth/2-0.12, c.LEDCount)
	for i, p := range rim {
		n := k.surface(group, fmt.Sprintf("led-%02d", i), bulb, mat, p)
		if n == nil {
			break
		}
		st.Emissive = append(st.Emissive, anim.Emissive{
			Target:    n.Handle,
			Pattern:   anim.PatternChase,
			Color:     c.LEDColor.Vec3(),
			Min:       c.ChaseMin,
			Max:       c.ChaseMax,
			Speed:     c.ChaseSpeed,
			Index:     i,
			PhaseStep: c.ChasePhaseStep,
			Sharpness: c.ChaseSharpness,
		})
	}
}

// beacon mounts a pulsing dome and a spinning rotor carrying two reflector
// cones baked into a single mesh.
func (l *lift) beacon(k *kit, platform *scene.Node, steel *scene.Material) {
	c := l.cfg
	group := k.group(platform, "beacon", mgl32.Vec3{0, c.DeckHeight, 0})

	k.surface(group, "mount", k.mesh(mesh.CylinderParams{Radius: 0.12, Height: 0.1, Chamfer: 0.02, Segments: 16}), steel, mgl32.Vec3{})

	domeMat := glowing("beacon-dome", c.BeaconColor.Vec3(), 1, nil, false)
	dome := k.surface(group, "dome", k.mesh(mesh.SphereParams{Radius: 0.1, LongitudeSegments: 16, LatitudeSegments: 8}), domeMat, mgl32.Vec3{0, 0.18, 0})
	if dome != nil {
		st := k.animate(dome)
		st.Emissive = []anim.Emissive{{
			Target:  dome.Handle,
			Pattern: anim.PatternPulse,
			Color:   c.BeaconColor.Vec3(),
			Min:     0.4,
			Max:     1.6,
			Speed:   c.BeaconSpin * 0.02,
		}}
	}

	// Reflector lies along +X with its mouth facing out; the second copy is
	// its mirror image.
	cone := k.mesh(mesh.ConeParams{RadiusBottom: 0.09, RadiusTop: 0.02, Height: 0.12, Segments: 12, CapBottom: true})
	place := mgl32.Translate3D(0.1, 0, 0).Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(90)))
	front := k.bake(cone, place)
	back := k.bake(front, mgl32.Scale3D(-1, 1, 1))
	reflectors := mesh.Merge(front, back)
	if front == nil {
		reflectors = nil
	}

	rotorMat := glowing("beacon-reflector", c.BeaconColor.Vec3(), 2, nil, false)
	rotor := k.surface(group, "rotor", reflectors, rotorMat, mgl32.Vec3{0, 0.18, 0})
	st := k.animate(rotor)
	st.Spins = []anim.Spin{{Axis: mgl32.Vec3{0, 1, 0}, DegreesPerSecond: c.BeaconSpin}}
}
