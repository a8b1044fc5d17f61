package extract

import (
	"testing"

	"github.com/pdrpinto/navmesh2d/geom"
	"github.com/pdrpinto/navmesh2d/obstacle"
)

var volume = geom.Rect{Min: geom.Vec2{0, 0}, Max: geom.Vec2{20, 10}}

func box(id string, minX, minY, maxX, maxY float32) obstacle.Obstacle {
	return obstacle.Obstacle{ID: id, Bounds: geom.Rect{Min: geom.Vec2{minX, minY}, Max: geom.Vec2{maxX, maxY}}}
}

func TestNoObstaclesYieldsAnchorsOnly(t *testing.T) {
	res := Extractor{Query: obstacle.NewSet(), Filter: obstacle.AllLayers, Thickness: 1}.Extract(volume)
	want := []geom.Vec2{{0, 0}, {20, 10}, {20, 0}, {0, 10}, {10, 0}, {10, 10}}
	if len(res.Vertices) != len(want) {
		t.Fatalf("vertices = %v", res.Vertices)
	}
	for i := range want {
		if res.Vertices[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, res.Vertices[i], want[i])
		}
	}
	if len(res.Holes) != 0 || res.Obstacles != 0 {
		t.Fatalf("holes = %v", res.Holes)
	}
}

func TestSingleObstacleClosedLoop(t *testing.T) {
	const thickness = 0.5
	raw := box("rock", 4, 3, 6, 5)
	res := Extractor{Query: obstacle.NewSet(raw), Filter: obstacle.AllLayers, Thickness: thickness}.Extract(volume)

	if len(res.Holes) != 4 {
		t.Fatalf("holes = %d, want 4", len(res.Holes))
	}
	for i, e := range res.Holes {
		next := res.Holes[(i+1)%4]
		if e.B != next.A {
			t.Fatalf("edge %d does not connect to edge %d: %v -> %v", i, (i+1)%4, e, next)
		}
	}
	topRight := geom.Vec2{6 + thickness, 5 + thickness}
	bottomRight := geom.Vec2{6 + thickness, 3 - thickness}
	bottomLeft := geom.Vec2{4 - thickness, 3 - thickness}
	topLeft := geom.Vec2{4 - thickness, 5 + thickness}
	want := []geom.Edge{
		{A: topRight, B: bottomRight},
		{A: bottomRight, B: bottomLeft},
		{A: bottomLeft, B: topLeft},
		{A: topLeft, B: topRight},
	}
	for i := range want {
		if res.Holes[i] != want[i] {
			t.Errorf("hole %d = %v, want %v", i, res.Holes[i], want[i])
		}
	}
	if len(res.Vertices) != 10 {
		t.Fatalf("vertices = %v", res.Vertices)
	}
}

func TestCornerOnAnotherObstacleIsSkipped(t *testing.T) {
	// b covers a's inflated bottom-right corner (7,2).
	a := box("a", 3, 3, 6, 6)
	b := box("b", 7, 1, 9, 2.5)
	res := Extractor{Query: obstacle.NewSet(a, b), Filter: obstacle.AllLayers, Thickness: 1}.Extract(volume)

	for _, v := range res.Vertices {
		if v == (geom.Vec2{7, 2}) {
			t.Fatal("occupied corner was accepted")
		}
	}
	// a's other three corners are still present and both loops are emitted.
	for _, p := range []geom.Vec2{{2, 2}, {7, 7}, {2, 7}} {
		if !hasVertex(res.Vertices, p) {
			t.Errorf("corner %v missing", p)
		}
	}
	if len(res.Holes) != 8 || res.Obstacles != 2 {
		t.Fatalf("holes = %d obstacles = %d", len(res.Holes), res.Obstacles)
	}
}

func TestCornerOutsideVolumeIsSkipped(t *testing.T) {
	edge := box("edge", 18, 4, 19.5, 6)
	res := Extractor{Query: obstacle.NewSet(edge), Filter: obstacle.AllLayers, Thickness: 1}.Extract(volume)
	for _, v := range res.Vertices {
		if !volume.Contains(v) {
			t.Fatalf("vertex %v outside volume", v)
		}
	}
	if len(res.Holes) != 4 {
		t.Fatalf("holes = %d", len(res.Holes))
	}
}

func TestFilterExcludesLayers(t *testing.T) {
	o := box("ghost", 4, 3, 6, 5)
	o.Layer = 3
	res := Extractor{Query: obstacle.NewSet(o), Filter: obstacle.Layers(0), Thickness: 1}.Extract(volume)
	if len(res.Holes) != 0 || len(res.Vertices) != 6 {
		t.Fatalf("filtered obstacle contributed geometry: %+v", res)
	}
}

func hasVertex(vs []geom.Vec2, p geom.Vec2) bool {
	for _, v := range vs {
		if v == p {
			return true
		}
	}
	return false
}

func TestCornerOnUnnamedObstacleSkipped(t *testing.T) {
	outer := box("", 2, 2, 6, 6)
	inner := box("", 3, 3, 4, 4)
	set := obstacle.NewSet(outer, inner)
	res := Extractor{Query: set, Filter: obstacle.AllLayers, Thickness: 0.5}.Extract(volume)

	if len(res.Holes) != 8 {
		t.Fatalf("holes = %d, want 8", len(res.Holes))
	}
	for _, v := range res.Vertices {
		if outer.Bounds.Contains(v) {
			t.Errorf("vertex %v lies inside the outer obstacle", v)
		}
	}
	// anchors plus the four outer corners
	if len(res.Vertices) != 10 {
		t.Fatalf("vertices = %v", res.Vertices)
	}
}

func TestSharedIDStillBlocks(t *testing.T) {
	set := obstacle.NewSet(box("crate", 2, 2, 6, 6), box("crate", 3, 3, 4, 4))
	res := Extractor{Query: set, Filter: obstacle.AllLayers, Thickness: 0.5}.Extract(volume)
	for _, v := range res.Vertices {
		if v == (geom.Vec2{2.5, 2.5}) {
			t.Fatalf("corner %v inside the other crate was accepted", v)
		}
	}
}
