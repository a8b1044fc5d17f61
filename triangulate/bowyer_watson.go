package triangulate

import "math"

type circumTri struct {
	v  [3]int
	cx float64
	cy float64
	r2 float64
}

// bowyerWatson triangulates pts incrementally and returns CCW index triples.
func bowyerWatson(pts []point) [][3]int {
	n := len(pts)
	if n < 3 {
		return nil
	}
	minX, minY := pts[0][0], pts[0][1]
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	dmax := math.Max(maxX-minX, maxY-minY)
	if dmax == 0 {
		return nil
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	all := make([]point, n, n+3)
	copy(all, pts)
	all = append(all,
		point{midX - 20*dmax, midY - dmax},
		point{midX + 20*dmax, midY - dmax},
		point{midX, midY + 20*dmax},
	)

	tris := []circumTri{newCircumTri(all, n, n+1, n+2)}
	for i := 0; i < n; i++ {
		p := all[i]
		var bad []int
		for j, t := range tris {
			if inCircle(all, t, p) {
				bad = append(bad, j)
			}
		}
		if len(bad) == 0 {
			continue
		}

		type edge struct{ a, b int }
		counts := make(map[segment]int, len(bad)*3)
		var boundary []edge
		for _, j := range bad {
			v := tris[j].v
			for k := 0; k < 3; k++ {
				counts[key(v[k], v[(k+1)%3])]++
			}
		}
		for _, j := range bad {
			v := tris[j].v
			for k := 0; k < 3; k++ {
				a, b := v[k], v[(k+1)%3]
				if counts[key(a, b)] == 1 {
					boundary = append(boundary, edge{a, b})
				}
			}
		}

		kept := tris[:0]
		bi := 0
		for j, t := range tris {
			if bi < len(bad) && bad[bi] == j {
				bi++
				continue
			}
			kept = append(kept, t)
		}
		tris = kept
		for _, e := range boundary {
			tris = append(tris, newCircumTri(all, e.a, e.b, i))
		}
	}

	out := make([][3]int, 0, len(tris))
	for _, t := range tris {
		if t.v[0] >= n || t.v[1] >= n || t.v[2] >= n {
			continue
		}
		out = append(out, t.v)
	}
	return out
}

func newCircumTri(pts []point, a, b, c int) circumTri {
	pa, pb, pc := pts[a], pts[b], pts[c]
	if orient(pa, pb, pc) < 0 {
		b, c = c, b
		pb, pc = pc, pb
	}
	ax, ay := pa[0], pa[1]
	bx, by := pb[0]-ax, pb[1]-ay
	cx, cy := pc[0]-ax, pc[1]-ay
	d := 2 * (bx*cy - by*cx)
	t := circumTri{v: [3]int{a, b, c}}
	if d == 0 {
		t.r2 = math.Inf(1)
		t.cx, t.cy = ax, ay
		return t
	}
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	t.cx, t.cy = ax+ux, ay+uy
	t.r2 = ux*ux + uy*uy
	return t
}

// inCircle uses the determinant form; the circumcircle cache only rejects
// far points early.
func inCircle(pts []point, t circumTri, p point) bool {
	dx, dy := p[0]-t.cx, p[1]-t.cy
	if dx*dx+dy*dy > t.r2*(1+1e-6) {
		return false
	}
	a, b, c := pts[t.v[0]], pts[t.v[1]], pts[t.v[2]]
	adx, ady := a[0]-p[0], a[1]-p[1]
	bdx, bdy := b[0]-p[0], b[1]-p[1]
	cdx, cdy := c[0]-p[0], c[1]-p[1]
	det := (adx*adx+ady*ady)*(bdx*cdy-cdx*bdy) -
		(bdx*bdx+bdy*bdy)*(adx*cdy-cdx*ady) +
		(cdx*cdx+cdy*cdy)*(adx*bdy-bdx*ady)
	return det > 1e-12*(t.r2+1)
}

func orient(a, b, c point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}
