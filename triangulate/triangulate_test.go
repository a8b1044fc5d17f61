package triangulate

import (
	"errors"
	"math"
	"testing"

	"github.com/pdrpinto/navmesh2d/geom"
)

func anchors(w, h float32) []geom.Vec2 {
	return []geom.Vec2{{0, 0}, {w, h}, {w, 0}, {0, h}, {w / 2, 0}, {w / 2, h}}
}

func square(minX, minY, maxX, maxY float32) ([]geom.Vec2, []geom.Edge) {
	bl, br, tr, tl := geom.Vec2{minX, minY}, geom.Vec2{maxX, minY}, geom.Vec2{maxX, maxY}, geom.Vec2{minX, maxY}
	return []geom.Vec2{bl, br, tr, tl}, []geom.Edge{{A: tr, B: br}, {A: br, B: bl}, {A: bl, B: tl}, {A: tl, B: tr}}
}

func totalArea(tris []geom.Triangle) float64 {
	var sum float64
	for _, t := range tris {
		sum += math.Abs(float64(geom.Cross(t.A, t.B, t.C))) / 2
	}
	return sum
}

func TestOpenRectangle(t *testing.T) {
	tris, err := Delaunay{}.Triangulate(Input{Vertices: anchors(20, 10)})
	if err != nil {
		t.Fatal(err)
	}
	if got := totalArea(tris); math.Abs(got-200) > 1e-3 {
		t.Fatalf("area = %v, want 200", got)
	}
	for _, p := range []geom.Vec2{{1, 1}, {19, 9}, {10, 5}} {
		if !covered(tris, p) {
			t.Errorf("%v not covered", p)
		}
	}
}

func TestHoleIsCarved(t *testing.T) {
	verts, holes := square(8, 3, 11, 6)
	tris, err := Delaunay{}.Triangulate(Input{Vertices: append(anchors(20, 10), verts...), Holes: holes})
	if err != nil {
		t.Fatal(err)
	}
	if got := totalArea(tris); math.Abs(got-(200-9)) > 1e-3 {
		t.Fatalf("area = %v, want 191", got)
	}
	if covered(tris, geom.Vec2{9.5, 4.5}) {
		t.Error("hole interior is navigable")
	}
	if !covered(tris, geom.Vec2{2, 2}) {
		t.Error("open area not navigable")
	}
	assertNoCrossing(t, tris, holes)
}

func TestHoleCrossingBoundaryIsClipped(t *testing.T) {
	// Right half of this hole lies outside the boundary and its outer
	// corners are not part of the vertex set.
	verts, holes := square(18, 4, 22, 6)
	tris, err := Delaunay{}.Triangulate(Input{Vertices: append(anchors(20, 10), verts[0], verts[3]), Holes: holes})
	if err != nil {
		t.Fatal(err)
	}
	if got := totalArea(tris); math.Abs(got-(200-4)) > 1e-3 {
		t.Fatalf("area = %v, want 196", got)
	}
	for _, tri := range tris {
		for _, p := range []geom.Vec2{tri.A, tri.B, tri.C} {
			if p[0] > 20+1e-4 {
				t.Fatalf("triangle %v leaves the boundary", tri)
			}
		}
	}
	assertNoCrossing(t, tris, holes)
}

func TestMalformedInput(t *testing.T) {
	nan := float32(math.NaN())
	cases := map[string]Input{
		"too few":    {Vertices: []geom.Vec2{{0, 0}, {1, 1}}},
		"collinear":  {Vertices: []geom.Vec2{{0, 0}, {1, 0}, {2, 0}}},
		"nan":        {Vertices: []geom.Vec2{{0, 0}, {1, 0}, {nan, 1}}},
		"zero edge":  {Vertices: anchors(4, 4), Holes: []geom.Edge{{A: geom.Vec2{1, 1}, B: geom.Vec2{1, 1}}}},
		"duplicates": {Vertices: []geom.Vec2{{0, 0}, {0, 0}, {1, 1}}},
	}
	for name, in := range cases {
		if _, err := (Delaunay{}).Triangulate(in); !errors.Is(err, ErrMalformedInput) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestDeterministic(t *testing.T) {
	verts, holes := square(3, 3, 5, 7)
	in := Input{Vertices: append(anchors(12, 10), verts...), Holes: holes}
	first, err := Delaunay{}.Triangulate(in)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := Delaunay{}.Triangulate(in)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: %d triangles, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: triangle %d differs", i, j)
			}
		}
	}
}

func TestHoleLoops(t *testing.T) {
	_, a := square(0, 0, 1, 1)
	_, b := square(5, 5, 6, 6)
	loops := holeLoops(append(a, b...))
	if len(loops) != 2 || len(loops[0]) != 4 || len(loops[1]) != 4 {
		t.Fatalf("loops = %v", loops)
	}
}

func covered(tris []geom.Triangle, p geom.Vec2) bool {
	for _, t := range tris {
		if t.Contains(p) {
			return true
		}
	}
	return false
}

func assertNoCrossing(t *testing.T, tris []geom.Triangle, holes []geom.Edge) {
	t.Helper()
	for _, tri := range tris {
		for _, e := range [][2]geom.Vec2{{tri.A, tri.B}, {tri.B, tri.C}, {tri.C, tri.A}} {
			for _, h := range holes {
				if _, ok := intersect([2]point{toPoint(e[0]), toPoint(e[1])}, [2]point{toPoint(h.A), toPoint(h.B)}); ok {
					t.Fatalf("edge %v crosses hole edge %v", e, h)
				}
			}
		}
	}
}
