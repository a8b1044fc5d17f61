// Package geom holds the 2D primitives shared by the bake pipeline and the search.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec2 is a point or direction in world space.
type Vec2 = mgl32.Vec2

// Epsilon is the tolerance used by the containment tests.
const Epsilon float32 = 1e-5

// Rect is an axis-aligned box.
type Rect struct {
	Min Vec2 `msgpack:"min" json:"min"`
	Max Vec2 `msgpack:"max" json:"max"`
}

// RectFromCenter builds a box from its center and full size.
func RectFromCenter(center, size Vec2) Rect {
	half := size.Mul(0.5)
	return Rect{Min: center.Sub(half), Max: center.Add(half)}
}

func (r Rect) Size() Vec2    { return r.Max.Sub(r.Min) }
func (r Rect) Extents() Vec2 { return r.Size().Mul(0.5) }
func (r Rect) Center() Vec2  { return r.Min.Add(r.Extents()) }

// Expand grows the box by d on every side.
func (r Rect) Expand(d float32) Rect {
	return Rect{Min: Vec2{r.Min[0] - d, r.Min[1] - d}, Max: Vec2{r.Max[0] + d, r.Max[1] + d}}
}

// Contains reports whether p lies inside the box, border included.
func (r Rect) Contains(p Vec2) bool {
	return p[0] >= r.Min[0] && p[0] <= r.Max[0] && p[1] >= r.Min[1] && p[1] <= r.Max[1]
}

// Overlaps reports whether the two boxes share at least one point.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min[0] <= o.Max[0] && o.Min[0] <= r.Max[0] && r.Min[1] <= o.Max[1] && o.Min[1] <= r.Max[1]
}

// Corners returns bottom-left, bottom-right, top-right, top-left.
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{r.Min[0], r.Min[1]},
		{r.Max[0], r.Min[1]},
		{r.Max[0], r.Max[1]},
		{r.Min[0], r.Max[1]},
	}
}

// Edge is an ordered segment.
type Edge struct {
	A Vec2 `msgpack:"a" json:"a"`
	B Vec2 `msgpack:"b" json:"b"`
}

func (e Edge) Degenerate() bool { return e.A == e.B }

// Triangle is three points with no guaranteed winding.
type Triangle struct {
	A Vec2 `msgpack:"a" json:"a"`
	B Vec2 `msgpack:"b" json:"b"`
	C Vec2 `msgpack:"c" json:"c"`
}

// Centroid returns the average of the three corners.
func (t Triangle) Centroid() Vec2 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

// Offset returns the triangle translated by -o.
func (t Triangle) Offset(o Vec2) Triangle {
	return Triangle{A: t.A.Sub(o), B: t.B.Sub(o), C: t.C.Sub(o)}
}

// Contains reports whether p lies inside the triangle or on its border.
// Works for either winding.
func (t Triangle) Contains(p Vec2) bool {
	d1 := Cross(t.A, t.B, p)
	d2 := Cross(t.B, t.C, p)
	d3 := Cross(t.C, t.A, p)
	hasNeg := d1 < -Epsilon || d2 < -Epsilon || d3 < -Epsilon
	hasPos := d1 > Epsilon || d2 > Epsilon || d3 > Epsilon
	return !(hasNeg && hasPos)
}

// Cross is the z component of (b-a) x (p-a).
func Cross(a, b, p Vec2) float32 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

// Finite reports whether both components are real numbers.
func Finite(p Vec2) bool {
	for _, c := range p {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// InsidePolygon is an even-odd ray cast against a closed loop.
func InsidePolygon(loop []Vec2, p Vec2) bool {
	inside := false
	for i, j := 0, len(loop)-1; i < len(loop); j, i = i, i+1 {
		a, b := loop[i], loop[j]
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1]) + a[0]
			if p[0] < x {
				inside = !inside
			}
		}
	}
	return inside
}
