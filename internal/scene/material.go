package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/pkg/texture"
)

// ParamSet is the set of per-instance parameters a material accepts.
type ParamSet uint8

// Params builds a ParamSet.
func Params(ps ...anim.Param) ParamSet {
	var s ParamSet
	for _, p := range ps {
		s |= 1 << p
	}
	return s
}

// Has reports whether p is in the set.
func (s ParamSet) Has(p anim.Param) bool {
	return p < anim.NumParams && s&(1<<p) != 0
}

// Blend selects how a surface composites.
type Blend uint8

const (
	BlendOpaque Blend = iota
	BlendAdditive
)

// Material is a shared surface definition. Many nodes may point at one
// Material; per-instance values live in the scene's override table and are
// never written here.
type Material struct {
	Name             string
	BaseColor        mgl32.Vec4
	Emissive         mgl32.Vec3
	EmissiveStrength float32
	Texture          *texture.Bitmap
	UVScale          mgl32.Vec2
	Blend            Blend
	Unlit            bool
	Accepts          ParamSet
}

// NewMaterial returns an opaque material of the given color that accepts
// emissive and tint overrides.
func NewMaterial(name string, color mgl32.Vec4) *Material {
	return &Material{
		Name:      name,
		BaseColor: color,
		UVScale:   mgl32.Vec2{1, 1},
		Accepts:   Params(anim.ParamEmissive, anim.ParamTint),
	}
}

// Supports reports whether instances of m can override p.
func (m *Material) Supports(p anim.Param) bool {
	return m != nil && m.Accepts.Has(p)
}

// Default returns the value an instance shows for p when nothing overrides it.
func (m *Material) Default(p anim.Param) mgl32.Vec4 {
	switch p {
	case anim.ParamEmissive:
		e := m.Emissive.Mul(m.EmissiveStrength)
		return mgl32.Vec4{e[0], e[1], e[2], m.EmissiveStrength}
	case anim.ParamTint:
		return mgl32.Vec4{1, 1, 1, 1}
	}
	return mgl32.Vec4{}
}
