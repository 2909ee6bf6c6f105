package bvh

import (
	"github.com/achilleasa/prism/scene"
	"github.com/achilleasa/prism/types"
)

// Tree is an immutable bounding volume hierarchy. Once built it may be
// queried concurrently by any number of goroutines.
type Tree struct {
	// Flattened node list; the root is always at index 0.
	nodes []Node

	// Primitives referenced by leaves.
	prims []scene.Primitive

	stats Stats
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node at the given index.
func (t *Tree) Node(index int) Node {
	return t.nodes[index]
}

// Primitives returns the primitive list that leaves index into. The returned
// slice must not be modified.
func (t *Tree) Primitives() []scene.Primitive {
	return t.prims
}

// Bounds returns the bbox of the root node.
func (t *Tree) Bounds() scene.AABB {
	return t.nodes[0].BBox
}

// Stats returns the statistics collected while building the tree.
func (t *Tree) Stats() Stats {
	return t.stats
}

// Intersect returns the nearest hit along r whose ray parameter lies inside
// rayT.
func (t *Tree) Intersect(r types.Ray, rayT types.Interval) (scene.HitRecord, bool) {
	return t.traverse(0, r, rayT, nil)
}

// IntersectCounted behaves like Intersect and also records every box and
// primitive test in counter.
func (t *Tree) IntersectCounted(r types.Ray, rayT types.Interval, counter *scene.HitCounter) (scene.HitRecord, bool) {
	return t.traverse(0, r, rayT, counter)
}

// Visit the subtree rooted at nodeIndex. Subtrees whose box misses the ray
// are pruned. After a hit in the left subtree the interval is clipped to
// that hit so the right subtree can only report a closer surface.
func (t *Tree) traverse(nodeIndex int32, r types.Ray, rayT types.Interval, counter *scene.HitCounter) (scene.HitRecord, bool) {
	node := &t.nodes[nodeIndex]

	counter.CountBox()
	if !node.BBox.Hit(r, rayT) {
		return scene.HitRecord{}, false
	}

	if node.IsLeaf() {
		if node.Prim < 0 {
			return scene.HitRecord{}, false
		}
		counter.CountPrimitive()
		return t.prims[node.Prim].Intersect(r, rayT)
	}

	leftRec, hitLeft := t.traverse(node.Left, r, rayT, counter)
	if hitLeft {
		rayT.Max = leftRec.T
	}

	if rightRec, hitRight := t.traverse(node.Right, r, rayT, counter); hitRight {
		return rightRec, true
	}
	return leftRec, hitLeft
}
