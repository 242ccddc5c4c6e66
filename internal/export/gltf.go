// Package export writes built props to disk: scenes as glTF 2.0 (JSON or
// binary) and synthesized bitmaps as PNG.
package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/internal/scene"
	"github.com/Faultbox/propforge/pkg/mesh"
	"github.com/Faultbox/propforge/pkg/texture"
)

const unlitExtension = "KHR_materials_unlit"

// ErrEmptyScene is returned when a scene has no visible surface.
var ErrEmptyScene = errors.New("export: scene has no surfaces")

// materialKey identifies one exported material. Emissive overrides are baked
// per instance, so two nodes sharing a scene material but glowing at
// different strengths export as two materials.
type materialKey struct {
	mat      *scene.Material
	emissive mgl32.Vec4
	tint     mgl32.Vec4
}

type converter struct {
	doc       *gltf.Document
	sc        *scene.Scene
	log       *zap.Logger
	geoms     map[*mesh.Buffers]geometry
	meshes    map[meshKey]uint32
	materials map[materialKey]uint32
	textures  map[*texture.Bitmap]uint32
	unlit     bool
}

// Document converts the current state of s into a glTF document. Per-instance
// emissive and tint overrides are baked into the materials, so the result is
// a snapshot of the frame last written by the animation driver.
func Document(s *scene.Scene, log *zap.Logger) (*gltf.Document, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &converter{
		doc:       gltf.NewDocument(),
		sc:        s,
		log:       log,
		geoms:     make(map[*mesh.Buffers]geometry),
		meshes:    make(map[meshKey]uint32),
		materials: make(map[materialKey]uint32),
		textures:  make(map[*texture.Bitmap]uint32),
	}
	c.doc.Asset.Generator = "propforge"
	c.doc.Scenes[0].Name = s.Name

	for _, child := range s.Root.Children {
		idx, ok, err := c.node(child)
		if err != nil {
			return nil, err
		}
		if ok {
			c.doc.Scenes[0].Nodes = append(c.doc.Scenes[0].Nodes, idx)
		}
	}
	if len(c.doc.Meshes) == 0 {
		return nil, ErrEmptyScene
	}
	if c.unlit {
		c.doc.ExtensionsUsed = append(c.doc.ExtensionsUsed, unlitExtension)
	}

	log.Debug("scene converted",
		zap.String("scene", s.Name),
		zap.Int("nodes", len(c.doc.Nodes)),
		zap.Int("meshes", len(c.doc.Meshes)),
		zap.Int("materials", len(c.doc.Materials)),
		zap.Int("images", len(c.doc.Images)))
	return c.doc, nil
}

func (c *converter) node(n *scene.Node) (uint32, bool, error) {
	if n.Hidden {
		return 0, false, nil
	}
	gn := &gltf.Node{
		Name:        n.Name,
		Translation: [3]float32(n.Position),
		Rotation:    [4]float32{n.Rotation.V[0], n.Rotation.V[1], n.Rotation.V[2], n.Rotation.W},
		Scale:       [3]float32(n.Scale),
	}
	if n.IsSurface() {
		m, err := c.mesh(n)
		if err != nil {
			return 0, false, errors.Wrapf(err, "node %s", n.Path())
		}
		gn.Mesh = gltf.Index(m)
	}

	idx := uint32(len(c.doc.Nodes))
	c.doc.Nodes = append(c.doc.Nodes, gn)
	for _, child := range n.Children {
		ci, ok, err := c.node(child)
		if err != nil {
			return 0, false, err
		}
		if ok {
			gn.Children = append(gn.Children, ci)
		}
	}
	return idx, true, nil
}

type geometry struct {
	attributes map[string]uint32
	indices    uint32
}

type meshKey struct {
	buf *mesh.Buffers
	mat uint32
}

// mesh returns the glTF mesh for a surface node. Accessors are written once
// per distinct buffer; each buffer and material pair gets its own mesh entry.
func (c *converter) mesh(n *scene.Node) (uint32, error) {
	mat, err := c.material(n)
	if err != nil {
		return 0, err
	}
	key := meshKey{n.Mesh, mat}
	if idx, ok := c.meshes[key]; ok {
		return idx, nil
	}

	geom, ok := c.geoms[n.Mesh]
	if !ok {
		if err := n.Mesh.Validate(); err != nil {
			return 0, err
		}
		geom = c.writeGeometry(n.Mesh)
		c.geoms[n.Mesh] = geom
	}

	idx := uint32(len(c.doc.Meshes))
	c.doc.Meshes = append(c.doc.Meshes, &gltf.Mesh{
		Name: n.Path(),
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(geom.indices),
			Attributes: geom.attributes,
			Material:   gltf.Index(mat),
		}},
	})
	c.meshes[key] = idx
	return idx, nil
}

func (c *converter) writeGeometry(b *mesh.Buffers) geometry {
	positions := make([][3]float32, len(b.Positions))
	for i, p := range b.Positions {
		positions[i] = p
	}
	normals := make([][3]float32, len(b.Normals))
	for i, nrm := range b.Normals {
		normals[i] = nrm
	}
	uvs := make([][2]float32, len(b.UVs))
	for i, uv := range b.UVs {
		uvs[i] = uv
	}

	var indices uint32
	if small, ok := b.Indices16(); ok {
		indices = modeler.WriteIndices(c.doc, small)
	} else {
		indices = modeler.WriteIndices(c.doc, b.Indices)
	}

	return geometry{
		attributes: map[string]uint32{
			"POSITION":   modeler.WritePosition(c.doc, positions),
			"NORMAL":     modeler.WriteNormal(c.doc, normals),
			"TEXCOORD_0": modeler.WriteTextureCoord(c.doc, uvs),
		},
		indices: indices,
	}
}

func (c *converter) material(n *scene.Node) (uint32, error) {
	m := n.Material
	key := materialKey{
		mat:      m,
		emissive: c.sc.Effective(n.Handle, anim.ParamEmissive),
		tint:     c.sc.Effective(n.Handle, anim.ParamTint),
	}
	if idx, ok := c.materials[key]; ok {
		return idx, nil
	}

	base := [4]float32{
		m.BaseColor[0] * key.tint[0],
		m.BaseColor[1] * key.tint[1],
		m.BaseColor[2] * key.tint[2],
		m.BaseColor[3] * key.tint[3],
	}
	metallic, roughness := float32(0.1), float32(0.6)
	gm := &gltf.Material{
		Name: m.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
		EmissiveFactor: emissiveFactor(key.emissive),
	}
	if m.Blend == scene.BlendAdditive {
		gm.AlphaMode = gltf.AlphaBlend
	}
	if m.Unlit {
		gm.Extensions = gltf.Extensions{unlitExtension: struct{}{}}
		c.unlit = true
	}
	if m.Texture != nil {
		tex, err := c.texture(m.Name, m.Texture)
		if err != nil {
			return 0, errors.Wrapf(err, "material %s", m.Name)
		}
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: tex}
	}

	idx := uint32(len(c.doc.Materials))
	c.doc.Materials = append(c.doc.Materials, gm)
	c.materials[key] = idx
	return idx, nil
}

// emissiveFactor maps an (rgb·k, k) override into the [0,1] factor glTF
// allows. Intensities above one are normalized by the brightest channel.
func emissiveFactor(v mgl32.Vec4) [3]float32 {
	f := [3]float32{v[0], v[1], v[2]}
	peak := f[0]
	for _, x := range f[1:] {
		if x > peak {
			peak = x
		}
	}
	if peak > 1 {
		for i := range f {
			f[i] /= peak
		}
	}
	for i := range f {
		if !(f[i] > 0) {
			f[i] = 0
		}
	}
	return f
}

func (c *converter) texture(name string, bm *texture.Bitmap) (uint32, error) {
	if idx, ok := c.textures[bm]; ok {
		return idx, nil
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, bm); err != nil {
		return 0, err
	}
	img, err := modeler.WriteImage(c.doc, name+"_image", "image/png", &buf)
	if err != nil {
		return 0, errors.Wrap(err, "writing image")
	}

	sampler := &gltf.Sampler{
		Name:      name + "_sampler",
		MagFilter: gltf.MagLinear,
		MinFilter: gltf.MinLinear,
		WrapS:     gltf.WrapRepeat,
		WrapT:     gltf.WrapRepeat,
	}
	if bm.Filter == texture.FilterPoint {
		sampler.MagFilter = gltf.MagNearest
		sampler.MinFilter = gltf.MinNearest
	}
	if bm.Wrap == texture.WrapClamp {
		sampler.WrapS = gltf.WrapClampToEdge
		sampler.WrapT = gltf.WrapClampToEdge
	}
	samplerIdx := uint32(len(c.doc.Samplers))
	c.doc.Samplers = append(c.doc.Samplers, sampler)

	idx := uint32(len(c.doc.Textures))
	c.doc.Textures = append(c.doc.Textures, &gltf.Texture{
		Name:    name,
		Sampler: gltf.Index(samplerIdx),
		Source:  gltf.Index(img),
	})
	c.textures[bm] = idx
	return idx, nil
}

// Encode writes s to w as glTF. binary selects the GLB container.
func Encode(w io.Writer, s *scene.Scene, binary bool, log *zap.Logger) error {
	doc, err := Document(s, log)
	if err != nil {
		return err
	}
	if !binary {
		// A lone .gltf carries its geometry as data URIs.
		for _, b := range doc.Buffers {
			if b.URI == "" {
				b.EmbeddedResource()
			}
		}
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = binary
	return errors.Wrap(enc.Encode(doc), "encoding gltf")
}

// SaveScene writes s into dir as <scene name>.glb or .gltf and returns the
// path written.
func SaveScene(s *scene.Scene, dir string, binary bool, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ext := ".gltf"
	if binary {
		ext = ".glb"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "creating export directory")
	}
	path := filepath.Join(dir, fileName(s.Name)+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating export file")
	}
	if err := Encode(f, s, binary, log); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "closing export file")
	}

	log.Info("scene exported", zap.String("scene", s.Name), zap.String("path", path))
	return path, nil
}

func fileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "prop"
	}
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, name)
}
