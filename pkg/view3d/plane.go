package view3d

import (
	"math"

	"github.com/taigrr/view3d/pkg/math3d"
)

// Plane is the set of points X with Normal·X = D. Dir1 and Dir2 span the
// plane; their cross product is parallel to Normal.
type Plane struct {
	Normal math3d.Vec3
	D      float64
	Dir1   math3d.Vec3
	Dir2   math3d.Vec3
}

// NewPlane creates the plane through point spanned by dir1 and dir2.
func NewPlane(point, dir1, dir2 math3d.Vec3) Plane {
	n := dir1.Cross(dir2)
	return Plane{Normal: n, D: n.Dot(point), Dir1: dir1, Dir2: dir2}
}

// WithOffset returns the plane moved to Normal·X = d.
func (p Plane) WithOffset(d float64) Plane {
	p.D = d
	return p
}

// SignedDistance returns the signed Euclidean distance of x from the plane.
func (p Plane) SignedDistance(x math3d.Vec3) float64 {
	l := p.Normal.Len()
	if l == 0 {
		return math.NaN()
	}
	return (p.Normal.Dot(x) - p.D) / l
}

// ClippedLine is a line clipped against a Box. Each endpoint carries a flag
// telling whether the clip found a point inside the box in that direction.
type ClippedLine struct {
	Ends   [2]math3d.Vec3
	Inside [2]bool
}

// Valid reports whether both endpoints were found.
func (c ClippedLine) Valid() bool {
	return c.Inside[0] && c.Inside[1]
}

// meetPlanes returns the common point of three planes.
func meetPlanes(n1 math3d.Vec3, d1 float64, n2 math3d.Vec3, d2 float64, n3 math3d.Vec3, d3 float64) (math3d.Vec3, error) {
	return math3d.Solve3(n1, n2, n3, math3d.V3(d1, d2, d3))
}

// IntersectPlanes returns the segment in which planes a and b meet inside
// the box. Parallel planes yield a ClippedLine with both flags false.
func (b Box) IntersectPlanes(a, c Plane) ClippedLine {
	var out ClippedLine
	p, err := meetPlanes(a.Normal, a.D, c.Normal, c.D, a.Normal.Cross(c.Normal), 0)
	if err != nil {
		return out
	}
	dir := a.Dir1.Cross(a.Dir2).Cross(c.Dir1.Cross(c.Dir2))
	for i, limit := range [2]float64{math.Inf(1), math.Inf(-1)} {
		r := b.IntersectLine(p, dir, limit)
		if math.IsInf(r, 0) || math.IsNaN(r) {
			continue
		}
		q := p.Add(dir.Scale(r))
		out.Ends[i] = q
		out.Inside[i] = b.Contains(q)
	}
	return out
}
