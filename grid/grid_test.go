package grid

import (
	"testing"

	"github.com/pdrpinto/navmesh2d/geom"
)

func TestFlatIndexInjective(t *testing.T) {
	d := NewData(geom.Vec2{7, 4}, geom.Vec2{-3, 2}, geom.Vec2{1, 1}, Square)
	if d.Size != (Coord{7, 4}) {
		t.Fatalf("size = %v", d.Size)
	}
	seen := make(map[int]Coord, d.CellCount())
	for y := 0; y < d.Size.Y; y++ {
		for x := 0; x < d.Size.X; x++ {
			c := d.Coordinate(d.CellCenter(Coord{x, y}))
			if c != (Coord{x, y}) {
				t.Fatalf("coordinate(center(%d,%d)) = %v", x, y, c)
			}
			i := d.FlatIndex(c)
			if prev, ok := seen[i]; ok {
				t.Fatalf("index %d shared by %v and %v", i, prev, c)
			}
			if i < 0 || i >= d.CellCount() {
				t.Fatalf("index %d out of range", i)
			}
			seen[i] = c
		}
	}
}

func TestCoordinate(t *testing.T) {
	d := NewData(geom.Vec2{10, 10}, geom.Vec2{0, 0}, geom.Vec2{2, 2}, Square)
	cases := []struct {
		p    geom.Vec2
		want Coord
	}{
		{geom.Vec2{0.5, 0.5}, Coord{0, 0}},
		{geom.Vec2{2, 3.9}, Coord{1, 1}},
		{geom.Vec2{9.99, 0}, Coord{4, 0}},
		{geom.Vec2{-0.1, 0}, Coord{-1, 0}},
	}
	for _, c := range cases {
		if got := d.Coordinate(c.p); got != c.want {
			t.Errorf("Coordinate(%v) = %v, want %v", c.p, got, c.want)
		}
	}
	if d.InBounds(Coord{5, 0}) || d.InBounds(Coord{-1, 0}) || !d.InBounds(Coord{4, 4}) {
		t.Error("InBounds disagrees with size")
	}
	if got := d.CellCenter(Coord{1, 2}); got != (geom.Vec2{3, 5}) {
		t.Errorf("CellCenter = %v", got)
	}
}

func TestNewDataFloorsPartialCells(t *testing.T) {
	d := NewData(geom.Vec2{5.9, 3.1}, geom.Vec2{}, geom.Vec2{1, 1}, Square)
	if d.Size != (Coord{5, 3}) {
		t.Fatalf("size = %v", d.Size)
	}
}

func TestParseType(t *testing.T) {
	if ty, err := ParseType("HEX"); err != nil || ty != Hex {
		t.Fatalf("ParseType(HEX) = %v, %v", ty, err)
	}
	if _, err := ParseType("triangle"); err == nil {
		t.Fatal("expected error")
	}
}
