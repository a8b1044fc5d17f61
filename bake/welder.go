package bake

import (
	"math"

	"github.com/pdrpinto/navmesh2d/geom"
)

func hash(x, y int, bucketCount int) int {
	h1 := 0x8da6b343 // large multiplicative constants,
	h2 := 0xd8163841 // arbitrarily chosen primes
	n := h1*x + h2*y
	return n & (bucketCount - 1)
}

// vertexWelder merges vertices closer than weldThr while appending to verts.
type vertexWelder struct {
	weldThr     float32
	verts       *[]geom.Vec2
	next        []int
	first       []int
	bucketCount int
}

// newVertexWelder expects bucketCount to be a power of two.
func newVertexWelder(bucketCount int, verts *[]geom.Vec2, weldThr float32) *vertexWelder {
	w := &vertexWelder{
		weldThr:     weldThr,
		verts:       verts,
		first:       make([]int, bucketCount),
		bucketCount: bucketCount,
	}
	for i := range w.first {
		w.first[i] = -1
	}
	return w
}

func (w *vertexWelder) cellSize() float32 {
	return w.weldThr * 10
}

func (w *vertexWelder) push(pt geom.Vec2) int {
	cs := w.cellSize()
	x := floorToInt(pt[0] / cs)
	y := floorToInt(pt[1] / cs)
	h := hash(x, y, w.bucketCount)
	*w.verts = append(*w.verts, pt)
	// verts and next grow together; only push appends to verts.
	w.next = append(w.next, -1)
	idx := len(*w.verts) - 1
	w.next[idx] = w.first[h]
	w.first[h] = idx
	return idx
}

// addUnique returns the index of a vertex within weldThr of pt, adding pt
// when there is none.
func (w *vertexWelder) addUnique(pt geom.Vec2) int {
	verts := *w.verts
	cs := w.cellSize()
	minx := floorToInt((pt[0] - w.weldThr) / cs)
	maxx := floorToInt((pt[0] + w.weldThr) / cs)
	miny := floorToInt((pt[1] - w.weldThr) / cs)
	maxy := floorToInt((pt[1] + w.weldThr) / cs)
	bestIndex := -1
	bestDistSq := w.weldThr * w.weldThr
	for y := miny; y <= maxy; y++ {
		for x := minx; x <= maxx; x++ {
			h := hash(x, y, w.bucketCount)
			for i := w.first[h]; i != -1; i = w.next[i] {
				d := verts[i].Sub(pt)
				if distSq := d.Dot(d); distSq < bestDistSq {
					bestDistSq = distSq
					bestIndex = i
				}
			}
		}
	}
	if bestIndex != -1 {
		return bestIndex
	}
	return w.push(pt)
}

func floorToInt(v float32) int {
	return int(math.Floor(float64(v)))
}
