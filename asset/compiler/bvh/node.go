package bvh

import (
	"fmt"

	"github.com/achilleasa/prism/scene"
)

// Node is an entry of the flattened tree. Nodes reference their children and
// primitives by index so the whole tree lives in two slices:
//
// - internal nodes have Left/Right >= 0 pointing at their children and Prim = -1
// - leaves have Left = Right = -1 and Prim pointing into the tree primitive list
//
// A leaf built from an empty primitive list has Prim = -1 and an empty box.
type Node struct {
	BBox scene.AABB

	Left, Right int32
	Prim        int32
}

// Create a leaf node for the primitive at index prim.
func newLeaf(bbox scene.AABB, prim int32) Node {
	return Node{BBox: bbox, Left: -1, Right: -1, Prim: prim}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Left < 0
}

// Set left and right child node indices.
func (n *Node) SetChildNodes(left, right int32) {
	n.Left = left
	n.Right = right
	n.Prim = -1
}

func (n Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("leaf(prim: %d, %v)", n.Prim, n.BBox)
	}
	return fmt.Sprintf("node(left: %d, right: %d, %v)", n.Left, n.Right, n.BBox)
}
