package view3d

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/taigrr/view3d/pkg/math3d"
)

// ErrSectionOpen is reported when the face segments of a plane section do
// not join into a closed polygon.
var ErrSectionOpen = errors.New("view3d: section polygon is not closed")

// Polyhedron is an indexed face set. Faces list vertex indices in boundary
// order; faces with fewer than three vertices are ignored.
type Polyhedron struct {
	Vertices []math3d.Vec3
	Faces    [][]int
}

// FacePlane returns the supporting plane of face i. The normal comes from
// Newell's method so slightly non-planar faces still get a stable plane.
// ok is false for degenerate faces.
func (ph *Polyhedron) FacePlane(i int) (pl Plane, ok bool) {
	face := ph.Faces[i]
	if len(face) < 3 {
		return Plane{}, false
	}
	var n, centroid math3d.Vec3
	for k, idx := range face {
		cur := ph.Vertices[idx]
		next := ph.Vertices[face[(k+1)%len(face)]]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
		centroid = centroid.Add(cur)
	}
	if n.Len() == 0 {
		return Plane{}, false
	}
	centroid = centroid.Scale(1 / float64(len(face)))
	dir1 := ph.Vertices[face[1]].Sub(ph.Vertices[face[0]])
	return Plane{Normal: n, D: n.Dot(centroid), Dir1: dir1, Dir2: n.Cross(dir1)}, true
}

// Section is the polygon cut from a polyhedron by a plane.
type Section struct {
	// Points are the distinct polygon vertices in boundary order.
	Points []math3d.Vec3
	Closed bool
	// Err is non-nil when stitching failed; Points then holds the partial
	// chain.
	Err error
}

// Coords returns the x, y and z coordinate arrays of the polygon. A closed
// polygon repeats its first vertex at the end.
func (s Section) Coords() (xs, ys, zs []float64) {
	n := len(s.Points)
	if s.Closed && n > 0 {
		n++
	}
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	zs = make([]float64, 0, n)
	for i := range n {
		p := s.Points[i%len(s.Points)]
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
		zs = append(zs, p.Z)
	}
	return xs, ys, zs
}

// IntersectPlaneFace returns the points where plane pl crosses the edges of
// face i. The line in which pl meets the face plane is written as p + s·dir
// and each edge as v0 + t·e. Two random combinations of the three
// coordinate equations give a 2×2 system for (s, t); the random weights
// make an accidental singular pairing unlikely. Edge hits with t inside
// [0, 1] up to math3d.Eps are kept.
func IntersectPlaneFace(pl Plane, ph *Polyhedron, i int, rng *rand.Rand) []math3d.Vec3 {
	fp, ok := ph.FacePlane(i)
	if !ok {
		return nil
	}
	p, err := meetPlanes(pl.Normal, pl.D, fp.Normal, fp.D, pl.Normal.Cross(fp.Normal), 0)
	if err != nil {
		return nil
	}
	dir := pl.Normal.Cross(fp.Normal)

	face := ph.Faces[i]
	var out []math3d.Vec3
	for k, idx := range face {
		v0 := ph.Vertices[idx]
		e := ph.Vertices[face[(k+1)%len(face)]].Sub(v0)
		// Edges along the cut line are picked up through their neighbours.
		if e.Cross(dir).Len() <= math3d.Eps*e.Len()*dir.Len() {
			continue
		}
		w := v0.Sub(p)

		x1, x2, y1, y2 := rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()
		row := func(a, b float64) (float64, float64, float64) {
			c := 1 - a - b
			return a*dir.X + b*dir.Y + c*dir.Z,
				-(a*e.X + b*e.Y + c*e.Z),
				a*w.X + b*w.Y + c*w.Z
		}
		a11, a12, r1 := row(x1, y1)
		a21, a22, r2 := row(x2, y2)
		_, t, err := math3d.Solve2(a11, a12, a21, a22, r1, r2)
		if err != nil || math.IsNaN(t) {
			continue
		}
		if t > -math3d.Eps && t < 1+math3d.Eps {
			out = append(out, v0.Add(e.Scale(t)))
		}
	}
	return out
}

// IntersectPlanePolyhedron cuts ph with plane pl. Every face contributes at
// most one segment; coincident segments (shared edges lying in pl) are
// counted once, and the segments are chained into a polygon by matching
// endpoints. A nil rng uses a fixed seed.
func IntersectPlanePolyhedron(pl Plane, ph *Polyhedron, rng *rand.Rand) Section {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 2))
	}
	tol := sectionTolerance(ph)

	var segs [][2]math3d.Vec3
	for i := range ph.Faces {
		if len(ph.Faces[i]) < 3 {
			continue
		}
		pts := dedupePoints(IntersectPlaneFace(pl, ph, i, rng), tol)
		if len(pts) < 2 {
			continue
		}
		seg := [2]math3d.Vec3{pts[0], pts[len(pts)-1]}
		if !containsSegment(segs, seg, tol) {
			segs = append(segs, seg)
		}
	}
	if len(segs) == 0 {
		return Section{}
	}
	return stitch(segs, tol)
}

func stitch(segs [][2]math3d.Vec3, tol float64) Section {
	used := make([]bool, len(segs))
	used[0] = true
	pts := []math3d.Vec3{segs[0][0], segs[0][1]}
	cur := segs[0][1]
	for {
		if len(pts) > 2 && cur.Distance(pts[0]) < tol {
			return Section{Points: pts[:len(pts)-1], Closed: true}
		}
		next := -1
		for i, s := range segs {
			if used[i] {
				continue
			}
			if s[0].Distance(cur) < tol {
				next, cur = i, s[1]
				break
			}
			if s[1].Distance(cur) < tol {
				next, cur = i, s[0]
				break
			}
		}
		if next < 0 {
			return Section{
				Points: pts,
				Err:    fmt.Errorf("%w: chain stops after %d of %d segments", ErrSectionOpen, len(pts)-1, len(segs)),
			}
		}
		used[next] = true
		pts = append(pts, cur)
	}
}

func sectionTolerance(ph *Polyhedron) float64 {
	var scale float64
	for _, v := range ph.Vertices {
		scale = math.Max(scale, math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z))))
	}
	return 1e-9 * (1 + scale)
}

func dedupePoints(pts []math3d.Vec3, tol float64) []math3d.Vec3 {
	out := pts[:0]
next:
	for _, p := range pts {
		for _, q := range out {
			if p.Distance(q) < tol {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

func containsSegment(segs [][2]math3d.Vec3, s [2]math3d.Vec3, tol float64) bool {
	for _, t := range segs {
		if t[0].Distance(s[0]) < tol && t[1].Distance(s[1]) < tol {
			return true
		}
		if t[0].Distance(s[1]) < tol && t[1].Distance(s[0]) < tol {
			return true
		}
	}
	return false
}
