// Package props assembles the procedural props. A Rig owns one generator
// together with the scene it fills, the animation driver that moves it and
// the texture cache shared across rebuilds.
package props

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/internal/config"
	"github.com/Faultbox/propforge/internal/scene"
	"github.com/Faultbox/propforge/pkg/mesh"
	"github.com/Faultbox/propforge/pkg/texture"
)

// ErrUnknownProp is returned for a generator name that is not registered.
var ErrUnknownProp = errors.New("props: unknown prop")

// ErrRunTooLong is returned by RunTo for a time that is negative, not a
// number or past MaxRunSeconds.
var ErrRunTooLong = errors.New("props: run time out of range")

const (
	// StepRate is the fixed frame rate RunTo steps at, matching the preview.
	StepRate = 60
	// MaxRunSeconds bounds RunTo to one hour of animation.
	MaxRunSeconds = 3600
)

type generator interface {
	name() string
	build(k *kit) error
}

var generators = map[string]func(cfg *config.Config) generator{
	"lift":    func(cfg *config.Config) generator { return &lift{cfg: cfg.Lift} },
	"reactor": func(cfg *config.Config) generator { return &reactor{cfg: cfg.Reactor} },
	"rocket":  func(cfg *config.Config) generator { return &rocket{cfg: cfg.Rocket} },
}

// Names lists the registered props in alphabetical order.
func Names() []string {
	out := make([]string, 0, len(generators))
	for n := range generators {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Rig is one prop ready to be built, cleared and ticked.
type Rig struct {
	Scene    *scene.Scene
	Driver   *anim.Driver
	Textures *texture.Cache

	gen         generator
	meshes      *mesh.Builder
	textureSize int
	timeScale   float32
	log         *zap.Logger
	built       bool
}

// New returns an unbuilt rig for the named prop. A nil logger disables
// logging.
func New(name string, cfg *config.Config, log *zap.Logger) (*Rig, error) {
	mk, ok := generators[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownProp, "%q (have %v)", name, Names())
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("prop", name))

	sc := scene.New(name, log)
	r := &Rig{
		Scene:       sc,
		Driver:      anim.NewDriver(sc, log),
		Textures:    texture.NewCache(),
		gen:         mk(cfg),
		meshes:      mesh.NewBuilder(cfg.Mesh.MaxVertices),
		textureSize: cfg.Texture.Size,
		timeScale:   cfg.Animation.TimeScale,
		log:         log,
	}
	if !(r.timeScale > 0) {
		r.timeScale = 1
	}
	r.Driver.SetAbsoluteSpin(cfg.Animation.AbsoluteSpin)
	return r, nil
}

// Name returns the generator name.
func (r *Rig) Name() string { return r.gen.name() }

// Built reports whether the scene currently holds a build.
func (r *Rig) Built() bool { return r.built }

// Clear releases every node, handle and animation state of the current
// build. Cached textures survive; they are pure functions of their
// parameters.
func (r *Rig) Clear() {
	r.Driver.Clear()
	r.Scene.Clear()
	r.built = false
}

// Build constructs the prop from scratch. A previous build is cleared first,
// so Build may be called any number of times. On error the rig is left
// cleared.
func (r *Rig) Build() error {
	if r.built {
		r.Clear()
	}
	k := &kit{
		scene:       r.Scene,
		driver:      r.Driver,
		textures:    r.Textures,
		meshes:      r.meshes,
		textureSize: r.textureSize,
	}
	if err := r.gen.build(k); err != nil {
		r.Clear()
		return errors.Wrapf(err, "building %s", r.gen.name())
	}
	r.built = true

	st := r.Scene.Stats()
	r.log.Info("prop built",
		zap.Int("nodes", st.Nodes),
		zap.Int("surfaces", st.Surfaces),
		zap.Int("vertices", st.Vertices),
		zap.Int("triangles", st.Triangles),
		zap.Int("states", r.Driver.Len()))
	return nil
}

// Tick advances the animation by one frame.
func (r *Rig) Tick(elapsed, delta float32) {
	if !r.built {
		return
	}
	r.Driver.Tick(elapsed*r.timeScale, delta*r.timeScale)
}

// SetAbsoluteSpin switches the spin formulation of the driver.
func (r *Rig) SetAbsoluteSpin(on bool) { r.Driver.SetAbsoluteSpin(on) }

// RunTo advances a freshly built rig to seconds of animation in fixed
// 1/StepRate frames, so accumulated spins match the preview. Frame times are
// computed from the integer frame index and never accumulate. A trailing
// partial frame lands exactly on seconds. It returns the number of ticks.
func (r *Rig) RunTo(seconds float64) (int, error) {
	if !(seconds >= 0) || seconds > MaxRunSeconds {
		return 0, errors.Wrapf(ErrRunTooLong, "%g s (max %d s)", seconds, MaxRunSeconds)
	}
	if !r.built {
		return 0, nil
	}

	const step = 1.0 / StepRate
	frames := int(math.Floor(seconds * StepRate))
	for i := 1; i <= frames; i++ {
		r.Tick(float32(float64(i)/StepRate), step)
	}
	ticks := frames

	rest := seconds - float64(frames)/StepRate
	if rest > 1e-9 || frames == 0 {
		r.Tick(float32(seconds), float32(rest))
		ticks++
	}
	return ticks, nil
}
