// Package obstacle models the shapes a bake carves out of the navigable
// surface, and the overlap queries the extractor runs against them.
package obstacle

import (
	"github.com/pdrpinto/navmesh2d/geom"
)

// Obstacle is an axis-aligned blocking shape on a layer.
type Obstacle struct {
	ID     string
	Bounds geom.Rect
	Layer  int
}

// Filter selects obstacles by layer.
type Filter struct {
	LayerMask uint32
}

// AllLayers matches every obstacle.
var AllLayers = Filter{LayerMask: ^uint32(0)}

// Layers builds a filter matching the given layers.
func Layers(layers ...int) Filter {
	var f Filter
	for _, l := range layers {
		f.LayerMask |= 1 << uint(l)
	}
	return f
}

func (f Filter) Match(o Obstacle) bool {
	if o.Layer < 0 || o.Layer > 31 {
		return false
	}
	return f.LayerMask&(1<<uint(o.Layer)) != 0
}

// Query is the broad-phase capability the extractor consumes.
type Query interface {
	// Overlap returns the obstacles matching f whose bounds overlap r.
	Overlap(r geom.Rect, f Filter) []Obstacle
	// OverlapPoint returns the obstacles matching f that contain p.
	OverlapPoint(p geom.Vec2, f Filter) []Obstacle
}

// Set is an in-memory Query over a fixed list, answered in insertion order.
type Set struct {
	obstacles []Obstacle
}

func NewSet(obstacles ...Obstacle) *Set {
	s := &Set{obstacles: make([]Obstacle, 0, len(obstacles))}
	s.obstacles = append(s.obstacles, obstacles...)
	return s
}

func (s *Set) Add(o Obstacle) {
	s.obstacles = append(s.obstacles, o)
}

func (s *Set) Len() int { return len(s.obstacles) }

func (s *Set) Overlap(r geom.Rect, f Filter) []Obstacle {
	var out []Obstacle
	for _, o := range s.obstacles {
		if f.Match(o) && o.Bounds.Overlaps(r) {
			out = append(out, o)
		}
	}
	return out
}

func (s *Set) OverlapPoint(p geom.Vec2, f Filter) []Obstacle {
	var out []Obstacle
	for _, o := range s.obstacles {
		if f.Match(o) && o.Bounds.Contains(p) {
			out = append(out, o)
		}
	}
	return out
}
