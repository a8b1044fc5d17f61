package bake

import (
	"github.com/pdrpinto/navmesh2d/geom"
)

// CollisionShape holds one closed path per navigable triangle, in the
// instance's local space.
type CollisionShape struct {
	Paths [][]geom.Vec2
}

// Mesh is the render mesh rebuilt from a collision shape: welded vertices
// and a triangle index list.
type Mesh struct {
	Vertices []geom.Vec2
	Indices  []int
}

func (m Mesh) TriangleCount() int { return len(m.Indices) / 3 }

const (
	weldThreshold   = 1e-4
	weldBucketCount = 1024
)

// collisionShape offsets every triangle by position.
func collisionShape(tris []geom.Triangle, position geom.Vec2) CollisionShape {
	shape := CollisionShape{Paths: make([][]geom.Vec2, 0, len(tris))}
	for _, t := range tris {
		local := t.Offset(position)
		shape.Paths = append(shape.Paths, []geom.Vec2{local.A, local.B, local.C})
	}
	return shape
}

// renderMesh welds the path vertices and fans each path into triangles.
func renderMesh(shape CollisionShape) Mesh {
	var m Mesh
	w := newVertexWelder(weldBucketCount, &m.Vertices, weldThreshold)
	for _, path := range shape.Paths {
		if len(path) < 3 {
			continue
		}
		first := w.addUnique(path[0])
		prev := w.addUnique(path[1])
		for _, p := range path[2:] {
			cur := w.addUnique(p)
			m.Indices = append(m.Indices, first, prev, cur)
			prev = cur
		}
	}
	return m
}
