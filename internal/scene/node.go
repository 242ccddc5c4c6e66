package scene

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/propforge/pkg/mesh"
)

// Node is one element of the prop hierarchy. A node with a Mesh and a
// Material is a render surface; a node without one only groups children.
type Node struct {
	Name     string
	Handle   Handle
	Parent   *Node
	Children []*Node

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	Mesh     *mesh.Buffers
	Material *Material
	Hidden   bool
}

func newNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// IsSurface reports whether the node draws anything.
func (n *Node) IsSurface() bool {
	return n.Mesh != nil && n.Material != nil
}

// Local returns translate·rotate·scale.
func (n *Node) Local() mgl32.Mat4 {
	return mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2]).
		Mul4(n.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

// World composes the local transforms up to the root.
func (n *Node) World() mgl32.Mat4 {
	m := n.Local()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.Local().Mul4(m)
	}
	return m
}

// Path returns the slash-separated names from the root's first child down.
func (n *Node) Path() string {
	var parts []string
	for p := n; p != nil && p.Parent != nil; p = p.Parent {
		parts = append(parts, p.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
