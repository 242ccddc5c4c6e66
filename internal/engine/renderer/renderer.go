// Package renderer draws prop scenes with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/internal/engine/shader"
	"github.com/Faultbox/propforge/internal/logger"
	"github.com/Faultbox/propforge/internal/scene"
	"github.com/Faultbox/propforge/pkg/mesh"
	"github.com/Faultbox/propforge/pkg/texture"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// gpuMesh is one uploaded mesh.Buffers.
type gpuMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	indexType  uint32
}

type drawItem struct {
	node  *scene.Node
	world mgl32.Mat4
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	program *shader.Program

	// Uniform locations
	locMVP        int32
	locModel      int32
	locUVOffset   int32
	locUVScale    int32
	locBaseColor  int32
	locTint       int32
	locEmissive   int32
	locUnlit      int32
	locHasTexture int32
	locTexture    int32
	locLightDir   int32
	locCameraPos  int32

	meshes   map[*mesh.Buffers]*gpuMesh
	textures map[*texture.Bitmap]uint32

	// Reused between frames
	opaque   []drawItem
	additive []drawItem

	LightDir mgl32.Vec3
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		log:      logger.Named("renderer"),
		meshes:   make(map[*mesh.Buffers]*gpuMesh),
		textures: make(map[*texture.Bitmap]uint32),
		LightDir: mgl32.Vec3{-0.4, -1, -0.3}.Normalize(),
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	r.log.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	// Setup default OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background

	program, err := shader.Compile(propVertexShader, propFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("prop shader: %w", err)
	}
	r.program = program
	if missing := program.Missing("uMVP", "uModel", "uBaseColor", "uEmissive"); len(missing) > 0 {
		r.log.Warn("inactive uniforms", zap.Strings("names", missing))
	}

	r.locMVP = program.Uniform("uMVP")
	r.locModel = program.Uniform("uModel")
	r.locUVOffset = program.Uniform("uUVOffset")
	r.locUVScale = program.Uniform("uUVScale")
	r.locBaseColor = program.Uniform("uBaseColor")
	r.locTint = program.Uniform("uTint")
	r.locEmissive = program.Uniform("uEmissive")
	r.locUnlit = program.Uniform("uUnlit")
	r.locHasTexture = program.Uniform("uHasTexture")
	r.locTexture = program.Uniform("uTexture")
	r.locLightDir = program.Uniform("uLightDir")
	r.locCameraPos = program.Uniform("uCameraPos")

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.Release()
	if r.program != nil {
		r.program.Delete()
	}
}

// Release frees every uploaded mesh and texture. Call it after a rebuild;
// the next Draw uploads the new buffers.
func (r *Renderer) Release() {
	for _, m := range r.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	for _, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
	}
	r.log.Debug("gpu resources released",
		zap.Int("meshes", len(r.meshes)),
		zap.Int("textures", len(r.textures)))
	clear(r.meshes)
	clear(r.textures)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// Draw renders every visible surface of s. Opaque surfaces go first; additive
// ones follow with depth writes off.
func (r *Renderer) Draw(s *scene.Scene, view, proj mgl32.Mat4, cameraPos mgl32.Vec3) {
	r.opaque = r.opaque[:0]
	r.additive = r.additive[:0]
	s.Walk(func(n *scene.Node, world mgl32.Mat4) {
		if !n.IsSurface() {
			return
		}
		if n.Material.Blend == scene.BlendAdditive {
			r.additive = append(r.additive, drawItem{n, world})
		} else {
			r.opaque = append(r.opaque, drawItem{n, world})
		}
	})

	r.program.Use()
	gl.Uniform3fv(r.locLightDir, 1, &r.LightDir[0])
	gl.Uniform3fv(r.locCameraPos, 1, &cameraPos[0])
	gl.Uniform1i(r.locTexture, 0)

	viewProj := proj.Mul4(view)
	for _, it := range r.opaque {
		r.drawNode(s, it, viewProj)
	}

	if len(r.additive) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		gl.DepthMask(false)
		gl.Disable(gl.CULL_FACE)
		for _, it := range r.additive {
			r.drawNode(s, it, viewProj)
		}
		gl.Enable(gl.CULL_FACE)
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) drawNode(s *scene.Scene, it drawItem, viewProj mgl32.Mat4) {
	n := it.node
	m := r.upload(n.Mesh)
	mat := n.Material

	mvp := viewProj.Mul4(it.world)
	gl.UniformMatrix4fv(r.locMVP, 1, false, &mvp[0])
	gl.UniformMatrix4fv(r.locModel, 1, false, &it.world[0])

	uv := s.Effective(n.Handle, anim.ParamUVOffset)
	tint := s.Effective(n.Handle, anim.ParamTint)
	emissive := s.Effective(n.Handle, anim.ParamEmissive)
	scale := mat.UVScale
	if scale == (mgl32.Vec2{}) {
		scale = mgl32.Vec2{1, 1}
	}
	gl.Uniform2f(r.locUVOffset, uv[0], uv[1])
	gl.Uniform2f(r.locUVScale, scale[0], scale[1])
	gl.Uniform4fv(r.locBaseColor, 1, &mat.BaseColor[0])
	gl.Uniform4fv(r.locTint, 1, &tint[0])
	gl.Uniform4fv(r.locEmissive, 1, &emissive[0])
	gl.Uniform1i(r.locUnlit, boolToInt(mat.Unlit))

	if mat.Texture != nil {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.texture(mat.Texture))
		gl.Uniform1i(r.locHasTexture, 1)
	} else {
		gl.Uniform1i(r.locHasTexture, 0)
	}

	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, m.indexType, nil)
}

// upload creates the VAO for b on first use.
func (r *Renderer) upload(b *mesh.Buffers) *gpuMesh {
	if m, ok := r.meshes[b]; ok {
		return m
	}
	m := &gpuMesh{indexCount: int32(len(b.Indices))}
	vertices := b.Interleave()

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	stride := int32(unsafe.Sizeof(mesh.Vertex{}))
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(stride), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	}

	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)
	// TexCoord (location = 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 24)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if small, ok := b.Indices16(); ok {
		m.indexType = gl.UNSIGNED_SHORT
		if len(small) > 0 {
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(small)*2, unsafe.Pointer(&small[0]), gl.STATIC_DRAW)
		}
	} else {
		m.indexType = gl.UNSIGNED_INT
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(b.Indices)*4, unsafe.Pointer(&b.Indices[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	r.meshes[b] = m
	r.log.Debug("mesh uploaded",
		zap.Int("vertices", len(vertices)),
		zap.Int32("indices", m.indexCount),
		zap.Stringer("format", b.Format))
	return m
}

// texture uploads bm on first use, honouring its wrap and filter modes.
func (r *Renderer) texture(bm *texture.Bitmap) uint32 {
	if tex, ok := r.textures[bm]; ok {
		return tex
	}
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(bm.Width), int32(bm.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&bm.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	wrap := int32(gl.REPEAT)
	if bm.Wrap == texture.WrapClamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)

	if bm.Filter == texture.FilterPoint {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}

	r.textures[bm] = tex
	return tex
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
