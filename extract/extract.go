// Package extract turns the obstacles inside a bake volume into triangulation
// input: a vertex set anchored on the volume boundary and one closed hole
// loop per obstacle.
package extract

import (
	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/obstacle"
)

// Result is the input handed to the triangulator.
type Result struct {
	Vertices []geom.Vec2
	Holes    []geom.Edge
	// Obstacles is the number of shapes that produced a hole loop.
	Obstacles int
}

// Extractor scans obstacles under Filter and inflates them by Thickness.
type Extractor struct {
	Query     obstacle.Query
	Filter    obstacle.Filter
	Thickness float32
}

// Extract builds the vertex set and hole edges for volume.
func (e Extractor) Extract(volume geom.Rect) Result {
	var res Result
	seen := make(map[geom.Vec2]struct{})
	add := func(p geom.Vec2) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		res.Vertices = append(res.Vertices, p)
	}

	for _, p := range Anchors(volume) {
		add(p)
	}
	if e.Query == nil {
		return res
	}

	for _, o := range e.Query.Overlap(volume, e.Filter) {
		inflated := o.Bounds.Expand(e.Thickness)
		corners := inflated.Corners()
		bottomLeft, bottomRight, topRight, topLeft := corners[0], corners[1], corners[2], corners[3]
		for _, c := range []geom.Vec2{bottomLeft, bottomRight, topRight, topLeft} {
			if e.acceptCorner(volume, c, o) {
				add(c)
			}
		}
		res.Holes = append(res.Holes,
			geom.Edge{A: topRight, B: bottomRight},
			geom.Edge{A: bottomRight, B: bottomLeft},
			geom.Edge{A: bottomLeft, B: topLeft},
			geom.Edge{A: topLeft, B: topRight},
		)
		res.Obstacles++
	}
	return res
}

// acceptCorner drops corners that land on another obstacle or leave the
// volume. Only the failing corner is dropped; the hole loop is kept whole.
// Obstacles are told apart by value, so shapes without IDs or sharing an ID
// still block each other.
func (e Extractor) acceptCorner(volume geom.Rect, p geom.Vec2, self obstacle.Obstacle) bool {
	if !volume.Contains(p) {
		return false
	}
	for _, hit := range e.Query.OverlapPoint(p, e.Filter) {
		if hit != self {
			return false
		}
	}
	return true
}

// Anchors returns the six boundary points every triangulation starts from:
// min, max, bottom-right, top-left, bottom-middle, top-middle.
func Anchors(volume geom.Rect) [6]geom.Vec2 {
	ext := volume.Extents()
	return [6]geom.Vec2{
		volume.Min,
		volume.Max,
		{volume.Min[0] + ext[0]*2, volume.Min[1]},
		{volume.Max[0] - ext[0]*2, volume.Max[1]},
		{volume.Min[0] + ext[0], volume.Min[1]},
		{volume.Max[0] - ext[0], volume.Max[1]},
	}
}
