// Package scene holds the prop hierarchy the generators assemble: nodes,
// shared materials, render-surface handles and the per-instance override
// side table the animation driver writes into.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/propforge/internal/anim"
	"github.com/Faultbox/propforge/pkg/mesh"
)

// Handle identifies a node for the lifetime of one build.
type Handle = anim.Handle

var (
	ErrUnknownHandle    = errors.New("scene: unknown handle")
	ErrUnsupportedParam = errors.New("scene: parameter not supported by material")
)

// Handles carry the build generation in the high bits so that a handle
// from before Clear never resolves to a node of the next build.
const (
	indexBits = 20
	indexMask = 1<<indexBits - 1
	genMask   = 1<<(32-indexBits) - 1

	// MaxNodes is the node capacity of one build.
	MaxNodes = indexMask - 1
)

type overrideSlot struct {
	value mgl32.Vec4
	set   bool
}

// Scene owns the nodes of one prop. It implements anim.Sink.
type Scene struct {
	Name string
	Root *Node

	log       *zap.Logger
	gen       uint32
	nodes     []*Node
	overrides [][anim.NumParams]overrideSlot
}

var _ anim.Sink = (*Scene)(nil)

// New returns an empty scene. A nil logger disables logging.
func New(name string, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Scene{Name: name, log: log, gen: 1}
	s.Root = newNode(name)
	return s
}

// Add creates a child of parent (the root when nil) and registers a handle
// for it. The override slots of the handle are allocated here, not on the
// per-frame path.
func (s *Scene) Add(parent *Node, name string) *Node {
	if parent == nil {
		parent = s.Root
	}
	if len(s.nodes) >= MaxNodes {
		s.log.Warn("node capacity reached", zap.String("node", name))
		return nil
	}
	n := newNode(name)
	n.Parent = parent
	n.Handle = s.handleFor(len(s.nodes))
	parent.Children = append(parent.Children, n)
	s.nodes = append(s.nodes, n)
	s.overrides = append(s.overrides, [anim.NumParams]overrideSlot{})
	return n
}

// AddSurface creates a render-surface node drawing m with mat.
func (s *Scene) AddSurface(parent *Node, name string, m *mesh.Buffers, mat *Material) *Node {
	n := s.Add(parent, name)
	if n != nil {
		n.Mesh = m
		n.Material = mat
	}
	return n
}

func (s *Scene) handleFor(i int) Handle {
	return Handle(s.gen<<indexBits | uint32(i+1))
}

func (s *Scene) index(h Handle) (int, bool) {
	if uint32(h)>>indexBits != s.gen {
		return 0, false
	}
	i := int(uint32(h)&indexMask) - 1
	if i < 0 || i >= len(s.nodes) {
		return 0, false
	}
	return i, true
}

// Node resolves a handle.
func (s *Scene) Node(h Handle) (*Node, error) {
	i, ok := s.index(h)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownHandle, "%#x", uint32(h))
	}
	return s.nodes[i], nil
}

// Find returns the node at a slash-separated path, or nil.
func (s *Scene) Find(path string) *Node {
	for _, n := range s.nodes {
		if n.Path() == path {
			return n
		}
	}
	return nil
}

// Nodes returns every registered node in creation order.
func (s *Scene) Nodes() []*Node { return s.nodes }

// Len returns the number of registered nodes.
func (s *Scene) Len() int { return len(s.nodes) }

// SetTransform moves the node behind h.
func (s *Scene) SetTransform(h Handle, position mgl32.Vec3, rotation mgl32.Quat) error {
	i, ok := s.index(h)
	if !ok {
		return ErrUnknownHandle
	}
	n := s.nodes[i]
	n.Position = position
	n.Rotation = rotation
	return nil
}

// SetOverride records a per-instance parameter value for h. The shared
// material is left untouched.
func (s *Scene) SetOverride(h Handle, p anim.Param, v mgl32.Vec4) error {
	i, ok := s.index(h)
	if !ok {
		return ErrUnknownHandle
	}
	if !s.nodes[i].Material.Supports(p) {
		return ErrUnsupportedParam
	}
	s.overrides[i][p] = overrideSlot{value: v, set: true}
	return nil
}

// Override returns the override recorded for h, if any.
func (s *Scene) Override(h Handle, p anim.Param) (mgl32.Vec4, bool) {
	i, ok := s.index(h)
	if !ok || p >= anim.NumParams {
		return mgl32.Vec4{}, false
	}
	slot := s.overrides[i][p]
	return slot.value, slot.set
}

// Effective returns the value to draw h with: the override when present,
// the material default otherwise.
func (s *Scene) Effective(h Handle, p anim.Param) mgl32.Vec4 {
	if v, ok := s.Override(h, p); ok {
		return v
	}
	n, err := s.Node(h)
	if err != nil || n.Material == nil {
		return mgl32.Vec4{}
	}
	return n.Material.Default(p)
}

// ResetOverrides drops every per-instance value but keeps the nodes.
func (s *Scene) ResetOverrides() {
	for i := range s.overrides {
		s.overrides[i] = [anim.NumParams]overrideSlot{}
	}
}

// Clear releases every node, handle and override. Handles issued before
// Clear stop resolving.
func (s *Scene) Clear() {
	released := len(s.nodes)
	for i := range s.nodes {
		s.nodes[i].Parent = nil
		s.nodes[i].Children = nil
		s.nodes[i] = nil
	}
	s.nodes = s.nodes[:0]
	s.overrides = s.overrides[:0]
	s.Root = newNode(s.Name)

	s.gen = (s.gen + 1) & genMask
	if s.gen == 0 {
		s.gen = 1
	}
	s.log.Debug("scene cleared", zap.String("scene", s.Name), zap.Int("nodes", released))
}

// Walk visits visible nodes depth first with their world matrix.
func (s *Scene) Walk(fn func(n *Node, world mgl32.Mat4)) {
	var visit func(n *Node, parent mgl32.Mat4)
	visit = func(n *Node, parent mgl32.Mat4) {
		if n.Hidden {
			return
		}
		world := parent.Mul4(n.Local())
		if n != s.Root {
			fn(n, world)
		}
		for _, c := range n.Children {
			visit(c, world)
		}
	}
	visit(s.Root, mgl32.Ident4())
}

// Stats summarizes a scene.
type Stats struct {
	Nodes     int
	Surfaces  int
	Materials int
	Vertices  int
	Triangles int
	Meshes    int
}

// Stats counts nodes, surfaces and distinct shared meshes and materials.
func (s *Scene) Stats() Stats {
	st := Stats{Nodes: len(s.nodes)}
	mats := make(map[*Material]struct{})
	meshes := make(map[*mesh.Buffers]struct{})
	for _, n := range s.nodes {
		if !n.IsSurface() {
			continue
		}
		st.Surfaces++
		mats[n.Material] = struct{}{}
		if _, seen := meshes[n.Mesh]; !seen {
			meshes[n.Mesh] = struct{}{}
			st.Vertices += n.Mesh.VertexCount()
			st.Triangles += n.Mesh.TriangleCount()
		}
	}
	st.Materials = len(mats)
	st.Meshes = len(meshes)
	return st
}

// Bounds returns the world-space box of every visible surface.
func (s *Scene) Bounds() mesh.Bounds {
	var out mesh.Bounds
	first := true
	s.Walk(func(n *Node, world mgl32.Mat4) {
		if !n.IsSurface() {
			return
		}
		b := n.Mesh.Bounds
		for c := 0; c < 8; c++ {
			p := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
			if c&1 != 0 {
				p[0] = b.Max[0]
			}
			if c&2 != 0 {
				p[1] = b.Max[1]
			}
			if c&4 != 0 {
				p[2] = b.Max[2]
			}
			w := world.Mul4x1(p.Vec4(1)).Vec3()
			if first {
				out = mesh.Bounds{Min: w, Max: w}
				first = false
				continue
			}
			for a := 0; a < 3; a++ {
				out.Min[a] = min(out.Min[a], w[a])
				out.Max[a] = max(out.Max[a], w[a])
			}
		}
	})
	return out
}
