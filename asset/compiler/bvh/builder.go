package bvh

import (
	"time"

	"github.com/achilleasa/prism/log"
	"github.com/achilleasa/prism/scene"
)

type builder struct {
	logger log.Logger

	// Bvh nodes stored as a contiguous list
	nodes []Node

	// The split strategy to use.
	strategy SplitStrategy

	// Stats
	stats    Stats
	depthSum int
}

// Build constructs a BVH over prims using a median split along the longest
// axis of each node. See BuildWithStrategy.
func Build(prims []scene.Primitive) *Tree {
	return BuildWithStrategy(prims, MedianSplit)
}

// BuildWithStrategy constructs a BVH over prims. Each leaf holds exactly one
// primitive so a tree built from N > 0 primitives has 2N-1 nodes. An empty
// primitive list yields a single leaf with an empty bbox that no ray can hit.
//
// The tree keeps its own copy of the primitive list and leaves index into
// that copy, so the caller may reuse or discard the prims slice once Build
// returns. The copy is shallow: leaves alias the caller's Sphere, Triangle
// and Quad structs, which must not be mutated while the tree is in use.
func BuildWithStrategy(prims []scene.Primitive, strategy SplitStrategy) *Tree {
	b := &builder{
		logger:   log.New("bvh"),
		strategy: strategy,
		stats: Stats{
			Primitives: len(prims),
			Strategy:   strategy.Name(),
		},
	}

	tree := &Tree{
		prims: make([]scene.Primitive, len(prims)),
	}
	copy(tree.prims, prims)

	start := time.Now()
	if len(prims) == 0 {
		b.nodes = []Node{newLeaf(scene.EmptyAABB(), -1)}
		b.stats.Leaves = 1
	} else {
		b.nodes = make([]Node, 0, 2*len(prims)-1)
		workList := make([]primRef, len(prims))
		for index, prim := range tree.prims {
			bbox := prim.BBox()
			workList[index] = primRef{
				index:    int32(index),
				bbox:     bbox,
				centroid: bbox.Centroid(),
			}
		}
		b.partition(workList, 0)
	}
	b.stats.Nodes = len(b.nodes)
	if b.stats.Leaves > 0 {
		b.stats.AvgLeafDepth = float64(b.depthSum) / float64(b.stats.Leaves)
	}
	b.stats.BuildTime = time.Since(start)

	b.logger.Debugf(
		"BVH tree build time: %d ms, strategy: %s, maxDepth: %d, nodes: %d, leafs: %d",
		b.stats.BuildTime.Nanoseconds()/1e6,
		b.stats.Strategy, b.stats.MaxDepth, b.stats.Nodes, b.stats.Leaves,
	)

	tree.nodes = b.nodes
	tree.stats = b.stats
	return tree
}

// Partition worklist and return node index.
func (b *builder) partition(workList []primRef, depth int) int32 {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	// Calculate bounding box for node
	bbox := scene.EmptyAABB()
	for _, item := range workList {
		bbox = bbox.Union(item.bbox)
	}

	if len(workList) == 1 {
		return b.createLeaf(bbox, workList[0], depth)
	}

	splitIndex := b.strategy.Partition(workList, bbox)
	if splitIndex <= 0 || splitIndex >= len(workList) {
		splitIndex = len(workList) / 2
	}

	// Add node to list
	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, Node{BBox: bbox, Left: -1, Right: -1, Prim: -1})

	// Partition children and update node indices
	leftNodeIndex := b.partition(workList[:splitIndex], depth+1)
	rightNodeIndex := b.partition(workList[splitIndex:], depth+1)
	b.nodes[nodeIndex].SetChildNodes(leftNodeIndex, rightNodeIndex)

	return nodeIndex
}

// Append a leaf for a single item and return its index in the node list.
func (b *builder) createLeaf(bbox scene.AABB, item primRef, depth int) int32 {
	nodeIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes, newLeaf(bbox, item.index))

	b.stats.Leaves++
	b.depthSum += depth

	return nodeIndex
}
