// Package label3d keeps a scene graph of 3D labels in sync with the store
// and turns pointer rays into gizmo edits of the selected labels.
package label3d

import (
	"slices"
	"sync/atomic"

	"github.com/philipparndt/golabel/pkg/geometry"
)

var nodeIDs atomic.Int64

// Node is a scene graph node with a local transform relative to its parent
type Node struct {
	id       int
	local    geometry.Transform
	parent   *Node
	children []*Node
}

// NewNode creates a detached node with an identity transform
func NewNode() *Node {
	return &Node{id: int(nodeIDs.Add(1)), local: geometry.IdentityTransform()}
}

func (n *Node) ID() int                           { return n.id }
func (n *Node) Parent() *Node                     { return n.parent }
func (n *Node) Children() []*Node                 { return n.children }
func (n *Node) Transform() geometry.Transform     { return n.local }
func (n *Node) SetTransform(t geometry.Transform) { n.local = t }

// Add makes child a child of n, keeping its local transform
func (n *Node) Add(child *Node) {
	if child == nil || child == n || child.parent == n {
		return
	}
	child.Detach()
	child.parent = n
	n.children = append(n.children, child)
}

// Attach makes child a child of n, keeping its world transform
func (n *Node) Attach(child *Node) {
	world := child.WorldTransform()
	n.Add(child)
	child.local = n.WorldTransform().Relative(world)
}

// Detach removes n from its parent
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// WorldTransform composes the transforms from the root down to n
func (n *Node) WorldTransform() geometry.Transform {
	if n.parent == nil {
		return n.local
	}
	return n.parent.WorldTransform().Compose(n.local)
}

// Walk visits n and its descendants depth first
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}
