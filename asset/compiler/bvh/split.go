package bvh

import (
	"math"
	"sort"

	"github.com/achilleasa/prism/scene"
)

var (
	// Sort primitives by centroid along the longest axis of the node bbox
	// and split at the median index.
	MedianSplit = medianSplit{}

	// Sort primitives by centroid along each axis and pick the split index
	// with the lowest surface area heuristic cost.
	SurfaceAreaHeuristic = surfaceAreaHeuristic{}
)

// The bvh builder stores precomputed bounds for each primitive it partitions.
type primRef struct {
	index    int32
	bbox     scene.AABB
	centroid [3]float64
}

// A split strategy reorders a work list and returns the index at which it
// should be split. The returned index must satisfy 0 < index < len(workList).
type SplitStrategy interface {
	Name() string
	Partition(workList []primRef, bounds scene.AABB) int
}

// Sort work list items by their centroid along axis. Ties keep their
// relative order so builds are reproducible.
func sortByCentroid(workList []primRef, axis int) {
	sort.SliceStable(workList, func(i, j int) bool {
		return workList[i].centroid[axis] < workList[j].centroid[axis]
	})
}

type medianSplit struct{}

func (medianSplit) Name() string {
	return "median"
}

func (medianSplit) Partition(workList []primRef, bounds scene.AABB) int {
	sortByCentroid(workList, bounds.LongestAxis())
	return len(workList) / 2
}

type surfaceAreaHeuristic struct{}

func (surfaceAreaHeuristic) Name() string {
	return "sah"
}

// Score each possible split position using the formula (lower is better):
//
// left count * left BBOX area + right count * right BBOX area.
//
// The three axes are scored independently and the axis with the lowest cost
// wins; ties resolve to the lower axis. If no candidate yields a finite cost
// (e.g. unbounded primitives) the work list is split at the median instead.
func (h surfaceAreaHeuristic) Partition(workList []primRef, bounds scene.AABB) int {
	bestAxis, bestSplit := -1, 0
	bestScore := math.Inf(1)

	scratch := make([]primRef, len(workList))
	for axis := 0; axis < 3; axis++ {
		copy(scratch, workList)
		sortByCentroid(scratch, axis)
		split, score := h.scoreAxis(scratch)
		if score < bestScore {
			bestAxis, bestSplit, bestScore = axis, split, score
		}
	}

	if bestAxis == -1 {
		return MedianSplit.Partition(workList, bounds)
	}

	sortByCentroid(workList, bestAxis)
	return bestSplit
}

// Sweep a sorted work list and return the split index with the lowest cost.
func (h surfaceAreaHeuristic) scoreAxis(sorted []primRef) (split int, score float64) {
	count := len(sorted)

	// rightArea[i] holds the area of the box enclosing sorted[i:]
	rightArea := make([]float64, count)
	box := scene.EmptyAABB()
	for i := count - 1; i > 0; i-- {
		box = box.Union(sorted[i].bbox)
		rightArea[i] = box.SurfaceArea()
	}

	score = math.Inf(1)
	box = scene.EmptyAABB()
	for i := 1; i < count; i++ {
		box = box.Union(sorted[i-1].bbox)
		cost := float64(i)*box.SurfaceArea() + float64(count-i)*rightArea[i]
		if cost < score {
			split, score = i, cost
		}
	}

	return split, score
}
