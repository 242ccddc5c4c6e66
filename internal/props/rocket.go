package props

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/internal/config"
	"github.com/Faultbox/propforge/internal/scene"
	"github.com/Faultbox/propforge/pkg/mesh"
)

// rocket hovers over its launch pad on a flickering exhaust flame.
type rocket struct {
	cfg config.RocketConfig
}

func (r *rocket) name() string { return "rocket" }

func (r *rocket) build(k *kit) error {
	c := r.cfg
	root := k.scene.Root

	steel := opaque("steel", mgl32.Vec4{0.3, 0.3, 0.32, 1}, nil)
	hull := opaque("hull", c.BodyColor.Vec4(1), k.stripe())
	trim := opaque("trim", mgl32.Vec4{0.75, 0.12, 0.1, 1}, nil)

	k.surface(root, "pad", k.mesh(mesh.PrismParams{Width: 1.6, Depth: 1.6, Height: 0.1, CornerRadius: 0.5, Segments: 8}), steel, mgl32.Vec3{})

	body := k.group(root, "rocket", mgl32.Vec3{0, c.HoverHeight, 0})
	st := k.animate(body)
	st.Bob = &anim.Bob{Amplitude: c.BobAmplitude, Speed: c.BobSpeed}
	st.Tilt = &anim.Tilt{
		AmplitudeX: mgl32.DegToRad(c.TiltDegrees),
		AmplitudeZ: mgl32.DegToRad(c.TiltDegrees),
		Speed:      c.TiltSpeed,
		Phase:      0.7,
	}

	k.surface(body, "hull", k.mesh(mesh.CylinderParams{
		Radius:   c.BodyRadius,
		Height:   c.BodyHeight,
		Chamfer:  0.05,
		Segments: c.Segments,
	}), hull, mgl32.Vec3{})

	k.surface(body, "nose", k.mesh(mesh.ConeParams{
		RadiusBottom: c.BodyRadius,
		Height:       c.NoseHeight,
		Segments:     c.Segments,
	}), trim, mgl32.Vec3{0, c.BodyHeight + c.NoseHeight/2, 0})

	if c.FinCount > 0 {
		fin := k.mesh(mesh.PrismParams{Width: c.FinSpan, Depth: 0.05, Height: c.FinHeight, CornerRadius: 0.02, Segments: 2})
		place := mgl32.Translate3D(c.BodyRadius+c.FinSpan/2-0.02, 0, 0)
		k.surface(body, "fins", k.ring(fin, c.FinCount, place), trim, mgl32.Vec3{})
	}

	r.exhaust(k, body)
	r.navLights(k, body)

	return k.err
}

// exhaust hangs an additive flame cone under the hull with a stack of flat
// horizontal glow discs below it, shrinking with distance.
func (r *rocket) exhaust(k *kit, body *scene.Node) {
	c := r.cfg
	color := c.FlameColor.Vec3()

	flameMat := glowing("flame", color, 1, k.energy(6, 3), true)
	cone := k.mesh(mesh.ConeParams{RadiusBottom: c.BodyRadius * 0.7, Height: c.FlameLength, Segments: c.Segments})
	// Flip so the apex points down.
	flame := k.surface(body, "flame", k.bake(cone, mgl32.HomogRotate3DX(math32.Pi)), flameMat, mgl32.Vec3{0, -c.FlameLength / 2, 0})
	if flame != nil {
		st := k.animate(flame)
		st.Emissive = []anim.Emissive{{
			Target:           flame.Handle,
			Pattern:          anim.PatternPulse,
			Color:            color,
			Min:              0.8,
			Max:              2.2,
			Speed:            c.FlamePulseSpeed,
			FlickerAmplitude: 0.25,
			FlickerSpeed:     c.FlickerSpeed,
		}}
		st.Scroll = []anim.Scroll{{Target: flame.Handle, Axis: 1, Speed: c.FlameScroll}}
	}

	if c.GlowCount < 1 {
		return
	}
	glowMat := glowing("glow", color, 1, k.radial(), true)
	group := k.group(body, "glow", mgl32.Vec3{})
	st := k.animate(group)
	st.Emissive = make([]anim.Emissive, 0, c.GlowCount)
	for i := 0; i < c.GlowCount; i++ {
		size := c.BodyRadius * (2.4 - 0.5*float32(i))
		disc := k.mesh(mesh.PrismParams{Width: size, Depth: size, Height: 0.002, CornerRadius: size / 2, Segments: 8})
		y := -c.FlameLength * (0.3 + 0.35*float32(i))
		n := k.surface(group, fmt.Sprintf("glow-%d", i), disc, glowMat, mgl32.Vec3{0, y, 0})
		if n == nil {
			return
		}
		st.Emissive = append(st.Emissive, anim.Emissive{
			Target:           n.Handle,
			Pattern:          anim.PatternPulse,
			Color:            color,
			Min:              0.3,
			Max:              1.2 - 0.25*float32(i),
			Speed:            c.FlamePulseSpeed,
			Phase:            0.9 * float32(i),
			FlickerAmplitude: 0.1,
			FlickerSpeed:     c.FlickerSpeed,
		})
	}
}

// navLights puts a red light on the port side and a green one on starboard,
// blinking half a period apart.
func (r *rocket) navLights(k *kit, body *scene.Node) {
	c := r.cfg
	bulb := k.mesh(mesh.SphereParams{Radius: 0.04, LongitudeSegments: 10, LatitudeSegments: 6})
	y := c.BodyHeight * 0.8
	x := c.BodyRadius + 0.02

	for i, nav := range []struct {
		name  string
		x     float32
		color mgl32.Vec3
	}{
		{"port", -x, mgl32.Vec3{1, 0.1, 0.05}},
		{"starboard", x, mgl32.Vec3{0.1, 1, 0.2}},
	} {
		mat := glowing("nav-"+nav.name, nav.color, 0, nil, false)
		n := k.surface(body, "nav-"+nav.name, bulb, mat, mgl32.Vec3{nav.x, y, 0})
		if n == nil {
			return
		}
		st := k.animate(n)
		st.Emissive = []anim.Emissive{{
			Target:    n.Handle,
			Pattern:   anim.PatternBlink,
			Color:     nav.color,
			Max:       2.5,
			Speed:     c.BlinkSpeed,
			Threshold: 0.7,
			Phase:     math32.Pi * float32(i),
		}}
	}
}
