package view3d

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/view3d/pkg/math3d"
)

// cubeFaces are the faces of unitBox().Corners() as quads.
var cubeFaces = [][]int{
	{0, 2, 3, 1}, {4, 5, 7, 6},
	{0, 1, 5, 4}, {2, 6, 7, 3},
	{0, 4, 6, 2}, {1, 3, 7, 5},
}

func cubePolyhedron() *Polyhedron {
	c := unitBox().Corners()
	return &Polyhedron{Vertices: c[:], Faces: cubeFaces}
}

func triangulatedCube() *Polyhedron {
	ph := cubePolyhedron()
	var faces [][]int
	for _, f := range ph.Faces {
		faces = append(faces, []int{f[0], f[1], f[2]}, []int{f[0], f[2], f[3]})
	}
	ph.Faces = faces
	return ph
}

func onCubeBoundary(p math3d.Vec3) bool {
	m := math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z)))
	return math.Abs(m-1) < 1e-9
}

func TestIntersectPlanePolyhedronSquare(t *testing.T) {
	pl := NewPlane(math3d.V3(0, 0, 0), axisX, axisY)
	sec := IntersectPlanePolyhedron(pl, cubePolyhedron(), rand.New(rand.NewPCG(3, 4)))

	if sec.Err != nil {
		t.Fatalf("unexpected error: %v", sec.Err)
	}
	if !sec.Closed {
		t.Fatal("section not closed")
	}
	if len(sec.Points) != 4 {
		t.Fatalf("got %d points, want 4: %v", len(sec.Points), sec.Points)
	}
	for _, p := range sec.Points {
		if math.Abs(math.Abs(p.X)-1) > 1e-9 || math.Abs(math.Abs(p.Y)-1) > 1e-9 || math.Abs(p.Z) > 1e-9 {
			t.Errorf("point %v is not a corner of the square", p)
		}
	}
	// Neighbours in boundary order share a side of length 2.
	for i, p := range sec.Points {
		q := sec.Points[(i+1)%len(sec.Points)]
		if d := p.Distance(q); math.Abs(d-2) > 1e-9 {
			t.Errorf("side %d has length %v, want 2", i, d)
		}
	}
}

func TestIntersectPlanePolyhedronHexagon(t *testing.T) {
	pl := NewPlane(math3d.V3(0, 0, 0), math3d.V3(1, -1, 0), math3d.V3(1, 1, -2))
	sec := IntersectPlanePolyhedron(pl, cubePolyhedron(), nil)

	if sec.Err != nil || !sec.Closed {
		t.Fatalf("section = %+v, want closed", sec)
	}
	if len(sec.Points) != 6 {
		t.Fatalf("got %d points, want 6", len(sec.Points))
	}
	for _, p := range sec.Points {
		if math.Abs(p.X+p.Y+p.Z) > 1e-9 || !onCubeBoundary(p) {
			t.Errorf("point %v not on plane and cube", p)
		}
	}
}

func TestIntersectPlanePolyhedronTriangles(t *testing.T) {
	pl := NewPlane(math3d.V3(0, 0, 0.5), axisX, axisY)
	ph := triangulatedCube()
	// Degenerate faces are ignored.
	ph.Faces = append(ph.Faces, []int{0, 1})

	sec := IntersectPlanePolyhedron(pl, ph, rand.New(rand.NewPCG(5, 6)))
	if sec.Err != nil || !sec.Closed {
		t.Fatalf("section = %+v, want closed", sec)
	}
	if len(sec.Points) < 4 {
		t.Fatalf("got %d points, want at least 4", len(sec.Points))
	}
	for _, p := range sec.Points {
		if math.Abs(p.Z-0.5) > 1e-9 || !onCubeBoundary(p) {
			t.Errorf("point %v not on plane and cube", p)
		}
	}
}

func TestIntersectPlanePolyhedronMiss(t *testing.T) {
	pl := NewPlane(math3d.V3(0, 0, 5), axisX, axisY)
	sec := IntersectPlanePolyhedron(pl, cubePolyhedron(), nil)

	if len(sec.Points) != 0 || sec.Closed || sec.Err != nil {
		t.Errorf("section = %+v, want empty", sec)
	}
	xs, ys, zs := sec.Coords()
	if len(xs) != 0 || len(ys) != 0 || len(zs) != 0 {
		t.Error("coordinates of empty section not empty")
	}
}

func TestIntersectPlanePolyhedronOpen(t *testing.T) {
	square := &Polyhedron{
		Vertices: []math3d.Vec3{
			math3d.V3(-1, -1, 0), math3d.V3(1, -1, 0),
			math3d.V3(1, 1, 0), math3d.V3(-1, 1, 0),
		},
		Faces: [][]int{{0, 1, 2, 3}},
	}
	pl := NewPlane(math3d.V3(0, 0, 0), axisY, axisZ)
	sec := IntersectPlanePolyhedron(pl, square, nil)

	if !errors.Is(sec.Err, ErrSectionOpen) {
		t.Fatalf("err = %v, want ErrSectionOpen", sec.Err)
	}
	if sec.Closed {
		t.Error("open chain reported closed")
	}
	if len(sec.Points) != 2 {
		t.Errorf("partial chain has %d points, want 2", len(sec.Points))
	}
}

func TestSectionCoords(t *testing.T) {
	sec := Section{
		Points: []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		Closed: true,
	}
	xs, ys, zs := sec.Coords()
	if len(xs) != 4 || len(ys) != 4 || len(zs) != 4 {
		t.Fatalf("lengths = %d, %d, %d; want 4", len(xs), len(ys), len(zs))
	}
	if xs[3] != xs[0] || ys[3] != ys[0] {
		t.Error("closed polygon does not repeat its first point")
	}

	sec.Closed = false
	if xs, _, _ := sec.Coords(); len(xs) != 3 {
		t.Errorf("open polygon has %d coordinates, want 3", len(xs))
	}
}

func TestIntersectPlaneFace(t *testing.T) {
	ph := cubePolyhedron()
	pl := NewPlane(math3d.V3(0, 0, 0), axisX, axisY)
	rng := rand.New(rand.NewPCG(1, 1))

	// Face 0 lies in z = -1, parallel to the plane.
	if pts := IntersectPlaneFace(pl, ph, 0, rng); len(pts) != 0 {
		t.Errorf("parallel face gave %v", pts)
	}
	// Face 2 lies in y = -1 and crosses z = 0 on two edges.
	pts := IntersectPlaneFace(pl, ph, 2, rng)
	if len(pts) != 2 {
		t.Fatalf("got %d points, want 2", len(pts))
	}
	for _, p := range pts {
		if math.Abs(p.Z) > 1e-9 || math.Abs(p.Y+1) > 1e-9 {
			t.Errorf("point %v not on edge crossing", p)
		}
	}
}
