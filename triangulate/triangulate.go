// Package triangulate produces the navigable triangles for a bake from a
// vertex set and a list of hole loops.
//
// Triangulator is the contract the baker depends on. Delaunay is the
// implementation shipped with the module: a Bowyer-Watson triangulation whose
// constraint segments (volume boundary and hole edges) are recovered by
// midpoint refinement, after which triangles outside the boundary or inside
// a hole are discarded.
package triangulate

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdrpinto/navmesh2d/geom"
)

var (
	ErrMalformedInput = errors.New("malformed triangulation input")
	ErrRefineLimit    = errors.New("constraint recovery did not converge")
)

// Input is one bake's triangulation request.
type Input struct {
	Vertices []geom.Vec2
	Holes    []geom.Edge
}

// Triangulator turns a point set plus closed hole boundaries into triangles
// covering the boundary minus the holes. No output edge crosses a hole edge.
// Triangles may use vertices that were not in the input, such as the
// midpoints added while recovering a constraint.
type Triangulator interface {
	Triangulate(in Input) ([]geom.Triangle, error)
}

// DefaultMaxRefine bounds the constraint recovery rounds.
const DefaultMaxRefine = 48

// Delaunay is a conforming Delaunay triangulator.
type Delaunay struct {
	MaxRefine int
}

type point [2]float64

type segment [2]int

// Triangulate implements Triangulator.
func (d Delaunay) Triangulate(in Input) ([]geom.Triangle, error) {
	maxRefine := d.MaxRefine
	if maxRefine <= 0 {
		maxRefine = DefaultMaxRefine
	}

	bounds, err := validate(in)
	if err != nil {
		return nil, err
	}
	loops := holeLoops(in.Holes)

	b := newBuilder(bounds)
	for _, v := range in.Vertices {
		b.add(toPoint(v))
	}
	raw := boundaryEdges(bounds)
	for _, h := range in.Holes {
		raw = append(raw, [2]point{toPoint(h.A), toPoint(h.B)})
	}
	b.addIntersections(raw)
	segs := b.splitSegments(raw)

	var tris [][3]int
	for round := 0; ; round++ {
		tris = bowyerWatson(b.points)
		edges := edgeSet(tris)
		missing := segs[:0:0]
		kept := segs[:0:0]
		for _, s := range segs {
			if _, ok := edges[key(s[0], s[1])]; ok {
				kept = append(kept, s)
			} else {
				missing = append(missing, s)
			}
		}
		if len(missing) == 0 {
			break
		}
		if round >= maxRefine {
			return nil, fmt.Errorf("%w: %d segments missing after %d rounds", ErrRefineLimit, len(missing), round)
		}
		for _, s := range missing {
			a, c := b.points[s[0]], b.points[s[1]]
			m := b.add(point{(a[0] + c[0]) / 2, (a[1] + c[1]) / 2})
			kept = append(kept, segment{s[0], m}, segment{m, s[1]})
		}
		segs = kept
	}

	out := make([]geom.Triangle, 0, len(tris))
	for _, t := range tris {
		tri := geom.Triangle{A: toVec(b.points[t[0]]), B: toVec(b.points[t[1]]), C: toVec(b.points[t[2]])}
		if area2(b.points[t[0]], b.points[t[1]], b.points[t[2]]) <= b.tol*b.tol {
			continue
		}
		c := tri.Centroid()
		if !bounds.Contains(c) {
			continue
		}
		if insideAny(loops, c) {
			continue
		}
		out = append(out, tri)
	}
	return out, nil
}

func validate(in Input) (geom.Rect, error) {
	distinct := make(map[geom.Vec2]struct{}, len(in.Vertices))
	var bounds geom.Rect
	for i, v := range in.Vertices {
		if !geom.Finite(v) {
			return bounds, fmt.Errorf("%w: vertex %d is not finite", ErrMalformedInput, i)
		}
		if i == 0 {
			bounds = geom.Rect{Min: v, Max: v}
		}
		bounds.Min = geom.Vec2{min(bounds.Min[0], v[0]), min(bounds.Min[1], v[1])}
		bounds.Max = geom.Vec2{max(bounds.Max[0], v[0]), max(bounds.Max[1], v[1])}
		distinct[v] = struct{}{}
	}
	if len(distinct) < 3 {
		return bounds, fmt.Errorf("%w: %d distinct vertices", ErrMalformedInput, len(distinct))
	}
	size := bounds.Size()
	if size[0] <= 0 || size[1] <= 0 {
		return bounds, fmt.Errorf("%w: vertices span no area", ErrMalformedInput)
	}
	for i, h := range in.Holes {
		if !geom.Finite(h.A) || !geom.Finite(h.B) {
			return bounds, fmt.Errorf("%w: hole edge %d is not finite", ErrMalformedInput, i)
		}
		if h.Degenerate() {
			return bounds, fmt.Errorf("%w: hole edge %d has zero length", ErrMalformedInput, i)
		}
	}
	return bounds, nil
}

// holeLoops chains consecutive edges into closed polygons.
func holeLoops(holes []geom.Edge) [][]geom.Vec2 {
	var loops [][]geom.Vec2
	var cur []geom.Vec2
	for i, h := range holes {
		if len(cur) > 0 && holes[i-1].B != h.A {
			cur = nil
		}
		if len(cur) == 0 {
			cur = append(cur, h.A)
		}
		if h.B == cur[0] {
			loops = append(loops, cur)
			cur = nil
			continue
		}
		cur = append(cur, h.B)
	}
	return loops
}

func insideAny(loops [][]geom.Vec2, p geom.Vec2) bool {
	for _, l := range loops {
		if geom.InsidePolygon(l, p) {
			return true
		}
	}
	return false
}

func boundaryEdges(r geom.Rect) [][2]point {
	c := r.Corners()
	return [][2]point{
		{toPoint(c[0]), toPoint(c[1])},
		{toPoint(c[1]), toPoint(c[2])},
		{toPoint(c[2]), toPoint(c[3])},
		{toPoint(c[3]), toPoint(c[0])},
	}
}

type builder struct {
	points []point
	index  map[point]int
	tol    float64
}

func newBuilder(bounds geom.Rect) *builder {
	size := bounds.Size()
	scale := math.Hypot(float64(size[0]), float64(size[1]))
	return &builder{index: make(map[point]int), tol: 1e-9 * (1 + scale)}
}

func (b *builder) add(p point) int {
	if i, ok := b.index[p]; ok {
		return i
	}
	b.points = append(b.points, p)
	b.index[p] = len(b.points) - 1
	return len(b.points) - 1
}

// addIntersections inserts every crossing between two constraint segments.
func (b *builder) addIntersections(raw [][2]point) {
	for i := 0; i < len(raw); i++ {
		for j := i + 1; j < len(raw); j++ {
			if p, ok := intersect(raw[i], raw[j]); ok {
				b.add(p)
			}
		}
	}
}

// splitSegments breaks every constraint at the points lying on its interior.
func (b *builder) splitSegments(raw [][2]point) []segment {
	var segs []segment
	seen := make(map[segment]struct{})
	for _, r := range raw {
		a, c := r[0], r[1]
		b.add(a)
		b.add(c)
		dx, dy := c[0]-a[0], c[1]-a[1]
		length2 := dx*dx + dy*dy
		type stop struct {
			t   float64
			idx int
		}
		stops := []stop{{0, b.index[a]}, {1, b.index[c]}}
		for i, p := range b.points {
			if p == a || p == c {
				continue
			}
			cross := dx*(p[1]-a[1]) - dy*(p[0]-a[0])
			if math.Abs(cross) > b.tol*math.Sqrt(length2) {
				continue
			}
			t := (dx*(p[0]-a[0]) + dy*(p[1]-a[1])) / length2
			if t > 0 && t < 1 {
				stops = append(stops, stop{t, i})
			}
		}
		for i := 1; i < len(stops); i++ {
			for j := i; j > 0 && stops[j].t < stops[j-1].t; j-- {
				stops[j], stops[j-1] = stops[j-1], stops[j]
			}
		}
		for i := 1; i < len(stops); i++ {
			s := segment{stops[i-1].idx, stops[i].idx}
			if s[0] == s[1] {
				continue
			}
			k := key(s[0], s[1])
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			segs = append(segs, s)
		}
	}
	return segs
}

func intersect(s1, s2 [2]point) (point, bool) {
	p, r := s1[0], point{s1[1][0] - s1[0][0], s1[1][1] - s1[0][1]}
	q, s := s2[0], point{s2[1][0] - s2[0][0], s2[1][1] - s2[0][1]}
	den := r[0]*s[1] - r[1]*s[0]
	if math.Abs(den) < 1e-12 {
		return point{}, false
	}
	qp := point{q[0] - p[0], q[1] - p[1]}
	t := (qp[0]*s[1] - qp[1]*s[0]) / den
	u := (qp[0]*r[1] - qp[1]*r[0]) / den
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return point{}, false
	}
	return point{p[0] + t*r[0], p[1] + t*r[1]}, true
}

func key(a, b int) segment {
	if a > b {
		a, b = b, a
	}
	return segment{a, b}
}

func edgeSet(tris [][3]int) map[segment]struct{} {
	edges := make(map[segment]struct{}, len(tris)*3)
	for _, t := range tris {
		edges[key(t[0], t[1])] = struct{}{}
		edges[key(t[1], t[2])] = struct{}{}
		edges[key(t[2], t[0])] = struct{}{}
	}
	return edges
}

func toPoint(v geom.Vec2) point { return point{float64(v[0]), float64(v[1])} }
func toVec(p point) geom.Vec2   { return geom.Vec2{float32(p[0]), float32(p[1])} }

func area2(a, b, c point) float64 {
	return math.Abs((b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0]))
}
