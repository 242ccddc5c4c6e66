package props

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/internal/config"
	"github.com/Faultbox/propforge/internal/scene"
)

func build(t *testing.T, name string, cfg *config.Config) *Rig {
	t.Helper()
	r, err := New(name, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, r.Build())
	return r
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"lift", "reactor", "rocket"}, Names())
}

func TestUnknownProp(t *testing.T) {
	_, err := New("teapot", nil, nil)
	assert.True(t, errors.Is(err, ErrUnknownProp))
}

func TestEveryPropBuildsAndTicks(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r := build(t, name, nil)
			assert.True(t, r.Built())
			assert.Equal(t, name, r.Name())

			st := r.Scene.Stats()
			assert.Greater(t, st.Surfaces, 3)
			assert.Greater(t, st.Triangles, 0)
			assert.Greater(t, r.Driver.Len(), 0)

			for _, n := range r.Scene.Nodes() {
				if n.IsSurface() {
					assert.NoError(t, n.Mesh.Validate(), n.Path())
				}
			}

			var elapsed float32
			for i := 0; i < 120; i++ {
				elapsed += 1.0 / 60
				r.Tick(elapsed, 1.0/60)
			}
			assert.Zero(t, r.Driver.Skipped(), "every channel targets an accepting material")
			assert.Equal(t, uint64(120), r.Driver.Ticks())
		})
	}
}

func TestRebuildReleasesPreviousBuild(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r := build(t, name, nil)
			first := r.Scene.Stats()
			states := r.Driver.Len()
			stale := r.Scene.Nodes()[0].Handle

			require.NoError(t, r.Build())
			require.NoError(t, r.Build())

			assert.Equal(t, first, r.Scene.Stats())
			assert.Equal(t, states, r.Driver.Len())

			_, err := r.Scene.Node(stale)
			assert.True(t, errors.Is(err, scene.ErrUnknownHandle))
		})
	}
}

func TestClear(t *testing.T) {
	r := build(t, "reactor", nil)
	r.Clear()

	assert.False(t, r.Built())
	assert.Zero(t, r.Scene.Len())
	assert.Zero(t, r.Driver.Len())

	r.Tick(1, 0.1)
	assert.Zero(t, r.Driver.Ticks())
}

func TestTexturesSurviveRebuild(t *testing.T) {
	r := build(t, "rocket", nil)
	n := r.Textures.Len()
	require.Greater(t, n, 0)

	require.NoError(t, r.Build())
	assert.Equal(t, n, r.Textures.Len())
	hits, _ := r.Textures.Stats()
	assert.GreaterOrEqual(t, hits, n)
}

func TestBuildFailureLeavesRigCleared(t *testing.T) {
	cfg := config.Default()
	cfg.Mesh.MaxVertices = 10

	r, err := New("lift", cfg, nil)
	require.NoError(t, err)
	assert.Error(t, r.Build())
	assert.False(t, r.Built())
	assert.Zero(t, r.Scene.Len())
	assert.Zero(t, r.Driver.Len())
}

func TestLiftChase(t *testing.T) {
	r := build(t, "lift", nil)
	cfg := config.Default().Lift

	group := r.Scene.Find("platform/leds")
	require.NotNil(t, group)
	require.Len(t, group.Children, cfg.LEDCount)

	shared := group.Children[0].Material
	before := *shared

	const at = 0.4
	r.Tick(at, 0.016)
	for i, led := range group.Children {
		assert.Same(t, shared, led.Material)
		k := anim.ChaseIntensity(at, cfg.ChaseSpeed, i, cfg.ChasePhaseStep, cfg.ChaseSharpness, cfg.ChaseMin, cfg.ChaseMax)
		got, ok := r.Scene.Override(led.Handle, anim.ParamEmissive)
		require.True(t, ok)
		assert.InDelta(t, k, got[3], 1e-5)
		assert.InDelta(t, cfg.LEDColor.G*k, got[1], 1e-5)
	}
	assert.Equal(t, before, *shared)
}

func TestLiftRodsMirror(t *testing.T) {
	r := build(t, "lift", nil)
	cfg := config.Default().Lift

	left := r.Scene.Find("rod-left")
	right := r.Scene.Find("rod-right")
	require.NotNil(t, left)
	require.NotNil(t, right)
	leftBase, rightBase := left.Position[1], right.Position[1]
	assert.InDelta(t, cfg.RodTravel, rightBase-leftBase, 1e-6)

	const at = 0.9
	r.Tick(at, 0.016)
	o := cfg.RodTravel * (0.5 + 0.5*math32.Sin(at*cfg.RodSpeed))
	assert.InDelta(t, o, left.Position[1]-leftBase, 1e-5)
	assert.InDelta(t, -o, right.Position[1]-rightBase, 1e-5)
}

func TestReactorSpinAndScroll(t *testing.T) {
	r := build(t, "reactor", nil)
	cfg := config.Default().Reactor

	fan := r.Scene.Find("fan")
	core := r.Scene.Find("core")
	require.NotNil(t, fan)
	require.NotNil(t, core)

	r.Tick(0.5, 0.5)
	want := mgl32.QuatRotate(mgl32.DegToRad(cfg.FanSpin*0.5), mgl32.Vec3{0, 1, 0})
	assert.True(t, fan.Rotation.ApproxEqualThreshold(want, 1e-4), "fan rotation %v", fan.Rotation)

	uv := r.Scene.Effective(core.Handle, anim.ParamUVOffset)
	assert.InDelta(t, 0.5*cfg.ScrollSpeed, uv[1], 1e-6)

	rings := r.Scene.Find("rings")
	require.NotNil(t, rings)
	assert.Len(t, rings.Children, cfg.RingCount)
}

func TestTimeScale(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.TimeScale = 2
	r := build(t, "rocket", cfg)

	body := r.Scene.Find("rocket")
	require.NotNil(t, body)

	r.Tick(0.5, 0.1)
	bob := anim.Bob{Amplitude: cfg.Rocket.BobAmplitude, Speed: cfg.Rocket.BobSpeed}
	assert.InDelta(t, cfg.Rocket.HoverHeight+bob.Offset(1), body.Position[1], 1e-5)
}

func TestRocketGlowDiscsAreFlat(t *testing.T) {
	cfg := config.Default()
	r := build(t, "rocket", cfg)

	group := r.Scene.Find("rocket/glow")
	require.NotNil(t, group)
	require.Len(t, group.Children, cfg.Rocket.GlowCount)

	for _, n := range group.Children {
		require.True(t, n.IsSurface(), n.Path())
		size := n.Mesh.Bounds.Size()
		assert.Less(t, size[1], size[0]/100, "%s is a horizontal disc", n.Path())
		assert.InDelta(t, size[0], size[2], 1e-4)
		assert.True(t, n.Rotation.ApproxEqual(mgl32.QuatIdent()), "%s is not billboarded", n.Path())
	}
}

func TestAbsoluteSpinFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.AbsoluteSpin = true
	r := build(t, "lift", cfg)
	assert.True(t, r.Driver.AbsoluteSpin())

	rotor := r.Scene.Find("platform/beacon/rotor")
	require.NotNil(t, rotor)

	// Delta is ignored; the angle follows elapsed time alone.
	r.Tick(0.25, 0)
	want := mgl32.QuatRotate(mgl32.DegToRad(cfg.Lift.BeaconSpin*0.25), mgl32.Vec3{0, 1, 0})
	assert.True(t, rotor.Rotation.ApproxEqualThreshold(want, 1e-4))
}

func TestRunTo(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		ticks   int
	}{
		{"zero settles once", 0, 1},
		{"whole frames", 1.5, 90},
		{"decimal frames", 0.1, 6},
		{"partial tail", 1.51, 91},
		{"long run", 1000, 60000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := build(t, "rocket", nil)
			n, err := r.RunTo(tt.seconds)
			require.NoError(t, err)
			assert.Equal(t, tt.ticks, n)
			assert.Equal(t, uint64(tt.ticks), r.Driver.Ticks())
		})
	}
}

func TestRunToLandsOnTarget(t *testing.T) {
	cfg := config.Default()
	r := build(t, "rocket", cfg)
	body := r.Scene.Find("rocket")
	require.NotNil(t, body)

	_, err := r.RunTo(1.51)
	require.NoError(t, err)
	bob := anim.Bob{Amplitude: cfg.Rocket.BobAmplitude, Speed: cfg.Rocket.BobSpeed}
	assert.InDelta(t, cfg.Rocket.HoverHeight+bob.Offset(1.51), body.Position[1], 1e-5)
}

func TestRunToRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
	}{
		{"negative", -1},
		{"not a number", math.NaN()},
		{"infinite", math.Inf(1)},
		{"past the cap", MaxRunSeconds + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := build(t, "lift", nil)
			n, err := r.RunTo(tt.seconds)
			assert.True(t, errors.Is(err, ErrRunTooLong))
			assert.Zero(t, n)
			assert.Zero(t, r.Driver.Ticks())
		})
	}

	r, err := New("lift", nil, nil)
	require.NoError(t, err)
	n, err := r.RunTo(MaxRunSeconds)
	require.NoError(t, err)
	assert.Zero(t, n, "an unbuilt rig does not tick")
}
