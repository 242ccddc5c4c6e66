package props

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/internal/scene"
	"github.com/Faultbox/propforge/pkg/mesh"
	"github.com/Faultbox/propforge/pkg/texture"
)

// kit is the assembly context of one build. The first failure sticks in err
// and turns the remaining calls into no-ops, so generators read top to
// bottom and check once at the end.
type kit struct {
	scene       *scene.Scene
	driver      *anim.Driver
	textures    *texture.Cache
	meshes      *mesh.Builder
	textureSize int
	err         error
}

func (k *kit) mesh(p mesh.Params) *mesh.Buffers {
	if k.err != nil {
		return nil
	}
	b, err := k.meshes.Build(p.Kind(), p)
	if err != nil {
		k.err = errors.Wrapf(err, "mesh %s", p.Kind())
		return nil
	}
	return b
}

// bake returns b transformed by m.
func (k *kit) bake(b *mesh.Buffers, m mgl32.Mat4) *mesh.Buffers {
	if b == nil {
		return nil
	}
	return b.Transform(m)
}

// ring bakes count copies of b rotated evenly around Y and merges them.
func (k *kit) ring(b *mesh.Buffers, count int, place mgl32.Mat4) *mesh.Buffers {
	if b == nil || count < 1 {
		return nil
	}
	parts := make([]*mesh.Buffers, count)
	for i := range parts {
		rot := mgl32.HomogRotate3DY(2 * mgl32.DegToRad(180) * float32(i) / float32(count))
		parts[i] = b.Transform(rot.Mul4(place))
	}
	return mesh.Merge(parts...)
}

func (k *kit) stripe() *texture.Bitmap {
	return k.textures.Get(texture.DefaultStripe(k.textureSize))
}

func (k *kit) energy(freq, octaves int) *texture.Bitmap {
	return k.textures.Get(texture.EnergyParams{Size: k.textureSize, Frequency: freq, Octaves: octaves})
}

func (k *kit) radial() *texture.Bitmap {
	size := k.textureSize / 2
	if size < 16 {
		size = 16
	}
	return k.textures.Get(texture.RadialParams{Size: size})
}

func (k *kit) group(parent *scene.Node, name string, pos mgl32.Vec3) *scene.Node {
	if k.err != nil {
		return nil
	}
	n := k.scene.Add(parent, name)
	if n == nil {
		k.err = errors.Errorf("scene full at %q", name)
		return nil
	}
	n.Position = pos
	return n
}

func (k *kit) surface(parent *scene.Node, name string, m *mesh.Buffers, mat *scene.Material, pos mgl32.Vec3) *scene.Node {
	if k.err != nil {
		return nil
	}
	n := k.scene.AddSurface(parent, name, m, mat)
	if n == nil {
		k.err = errors.Errorf("scene full at %q", name)
		return nil
	}
	n.Position = pos
	return n
}

// animate captures the node's current transform as the base of a new state
// and registers it with the driver.
func (k *kit) animate(n *scene.Node) *anim.State {
	if n == nil {
		return &anim.State{}
	}
	s := anim.NewState(n.Path(), n.Handle, n.Position, n.Rotation)
	k.driver.Add(s)
	return s
}

func opaque(name string, color mgl32.Vec4, tex *texture.Bitmap) *scene.Material {
	m := scene.NewMaterial(name, color)
	m.Texture = tex
	return m
}

// glowing returns an unlit material that accepts emissive, UV offset and tint
// overrides.
func glowing(name string, color mgl32.Vec3, strength float32, tex *texture.Bitmap, additive bool) *scene.Material {
	m := scene.NewMaterial(name, color.Vec4(1))
	m.Emissive = color
	m.EmissiveStrength = strength
	m.Texture = tex
	m.Unlit = true
	m.Accepts = scene.Params(anim.ParamEmissive, anim.ParamUVOffset, anim.ParamTint)
	if additive {
		m.Blend = scene.BlendAdditive
	}
	return m
}
