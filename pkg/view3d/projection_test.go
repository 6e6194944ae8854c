package view3d

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/view3d/pkg/math3d"
)

func testParams(typ ProjectionType, a Angles) ProjectionParams {
	return ProjectionParams{
		Type:     typ,
		Box:      unitBox(),
		Corner:   math3d.V2(-5, -3),
		Size:     math3d.V2(10, 6),
		Rotation: RotationFromAngles(a),
		Angles:   a,
		FOV:      2 * math.Pi / 5,
		Distance: AutoDistance(),
	}
}

func near2(a, b math3d.Vec2, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func near3(a, b math3d.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func randomInBox(rng *rand.Rand, b Box) math3d.Vec3 {
	s := b.Size()
	return math3d.V3(
		b.Min.X+rng.Float64()*s.X,
		b.Min.Y+rng.Float64()*s.Y,
		b.Min.Z+rng.Float64()*s.Z,
	)
}

func TestParseProjectionType(t *testing.T) {
	tests := []struct {
		in      string
		want    ProjectionType
		wantErr bool
	}{
		{"parallel", Parallel, false},
		{"Central", Central, false},
		{"", Parallel, false},
		{"fisheye", Parallel, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseProjectionType(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownProjection) {
				t.Errorf("err = %v, want ErrUnknownProjection", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParallelFrontView(t *testing.T) {
	p := BuildProjection(testParams(Parallel, Angles{}))

	if got := p.Project(math3d.V3(0, 0, 0)); !near2(got, math3d.V2(0, 0), 1e-12) {
		t.Errorf("center projects to %v, want view center (0, 0)", got)
	}
	// Half the box width covers half the view width.
	got := p.Project(math3d.V3(1, 0, 0))
	if !near2(got, math3d.V2(-5, 0), 1e-12) {
		t.Errorf("(1, 0, 0) projects to %v, want (-5, 0)", got)
	}
	if got := p.Project(math3d.V3(0, 0, 1)); !near2(got, math3d.V2(0, 3), 1e-12) {
		t.Errorf("(0, 0, 1) projects to %v, want (0, 3)", got)
	}
}

func TestParallelIsAffine(t *testing.T) {
	p := BuildProjection(testParams(Parallel, Angles{Az: 2.3, El: 0.4, Bank: -0.6}))
	rng := rand.New(rand.NewPCG(21, 22))

	for range 20 {
		a := rng.Float64()*4 - 2
		x := randomInBox(rng, p.Box)
		y := randomInBox(rng, p.Box)
		got := p.Project(x.Scale(a).Add(y.Scale(1 - a)))
		want := p.Project(x).Scale(a).Add(p.Project(y).Scale(1 - a))
		if !near2(got, want, 1e-9) {
			t.Errorf("blend %v: got %v, want %v", a, got, want)
		}
	}
}

func TestCentralProjection(t *testing.T) {
	params := testParams(Central, Angles{Az: 1, El: 0.3})
	params.FOV = math.Pi / 2
	p := BuildProjection(params)

	if math.Abs(p.FocalDistance-1) > 1e-12 {
		t.Errorf("focal distance = %v, want 1", p.FocalDistance)
	}
	if want := 1.01 * 2 * math.Sqrt(3); math.Abs(p.Radius-want) > 1e-12 {
		t.Errorf("radius = %v, want %v", p.Radius, want)
	}
	if got := p.Project(math3d.V3(0, 0, 0)); !near2(got, math3d.V2(0, 0), 1e-12) {
		t.Errorf("center projects to %v, want (0, 0)", got)
	}

	// The corner farthest from the camera lands inside the view.
	corners := p.Box.Corners()
	far := corners[0]
	for _, c := range corners[1:] {
		if p.RotShift.MulPoint(c).Z < p.RotShift.MulPoint(far).Z {
			far = c
		}
	}
	got := p.Project(far)
	if math.IsNaN(got.X) || math.IsNaN(got.Y) {
		t.Fatalf("far corner %v projects to NaN", far)
	}
	if got.X < -5 || got.X > 5 || got.Y < -3 || got.Y > 3 {
		t.Errorf("far corner %v projects to %v, outside the view", far, got)
	}
}

func TestCentralFixedDistance(t *testing.T) {
	params := testParams(Central, Angles{})
	params.Distance = FixedDistance(7)
	p := BuildProjection(params)

	if p.Radius != 7 {
		t.Errorf("radius = %v, want 7", p.Radius)
	}
	if got := p.BoxToCamera.Get(2, 3); got != -7 {
		t.Errorf("camera offset = %v, want -7", got)
	}
	// Farther points look smaller.
	near := p.Project(math3d.V3(1, 1, 0))
	far := p.Project(math3d.V3(1, -1, 0))
	if math.Abs(near.X) <= math.Abs(far.X) {
		t.Errorf("near x %v not wider than far x %v", near.X, far.X)
	}
}

func TestPlanePickInverse(t *testing.T) {
	normals := []math3d.Vec3{
		math3d.V3(0, 0, 1),
		math3d.V3(1, 0, 0),
		math3d.V3(0.3, 0.4, 0.5),
	}

	for _, typ := range []ProjectionType{Parallel, Central} {
		t.Run(typ.String(), func(t *testing.T) {
			p := BuildProjection(testParams(typ, Angles{Az: 1, El: 0.3, Bank: 0.1}))
			rng := rand.New(rand.NewPCG(31, 32))
			for range 20 {
				x := randomInBox(rng, p.Box)
				for _, n := range normals {
					got := p.PlanePick(p.Project(x), n, x)
					if math.Abs(got.W-1) > 1e-9 || !near3(got.Vec3(), x, 1e-7) {
						t.Errorf("pick of %v on plane %v = %v", x, n, got)
					}
				}
			}
		})
	}
}

func TestPlanePickEdgeOn(t *testing.T) {
	p := BuildProjection(testParams(Parallel, Angles{Az: 1}))
	got := p.PlanePick(math3d.V2(1, 0), math3d.V3(0, 0, 1), math3d.V3(0, 0, 0))
	if got.IsNaN() || math.Abs(got.W-1) > 1e-6 {
		t.Errorf("edge-on pick = %v, want a finite point", got)
	}
}

func TestPlanePickFailure(t *testing.T) {
	p := BuildProjection(testParams(Parallel, Angles{Az: 1, El: 0.3}))
	got := p.PlanePick(math3d.V2(0, 0), math3d.Vec3{}, math3d.V3(0, 0, 0))
	if !math.IsNaN(got.X) || got.W != 0 {
		t.Errorf("zero normal pick = %v, want NaN with W = 0", got)
	}
}

func TestSegmentPick(t *testing.T) {
	e0, e1 := math3d.V3(-1, -0.5, 0.2), math3d.V3(0.8, 1, -0.6)

	for _, typ := range []ProjectionType{Parallel, Central} {
		t.Run(typ.String(), func(t *testing.T) {
			p := BuildProjection(testParams(typ, Angles{Az: 1, El: 0.3}))

			for _, s := range []float64{0, 0.3, 0.5, 0.85, 1} {
				want := e0.Lerp(e1, s)
				got := p.SegmentPick(p.Project(want), e0, e1)
				if got.W != 1 || !near3(got.Vec3(), want, 1e-9) {
					t.Errorf("pick at %v = %v, want %v", s, got, want)
				}
			}

			a, b := p.Project(e0), p.Project(e1)
			dir := b.Sub(a)
			if got := p.SegmentPick(b.Add(dir.Scale(100)), e0, e1); !near3(got.Vec3(), e1, 1e-12) {
				t.Errorf("pick past end = %v, want %v", got, e1)
			}
			if got := p.SegmentPick(a.Sub(dir.Scale(100)), e0, e1); !near3(got.Vec3(), e0, 1e-12) {
				t.Errorf("pick before start = %v, want %v", got, e0)
			}
		})
	}
}

func TestSegmentPickDegenerate(t *testing.T) {
	p := BuildProjection(testParams(Parallel, Angles{Az: 1, El: 0.3}))
	e := math3d.V3(0.1, 0.2, 0.3)
	if got := p.SegmentPick(math3d.V2(4, 4), e, e); got.Vec3() != e {
		t.Errorf("got %v, want %v", got, e)
	}
}

func TestVerticalPick(t *testing.T) {
	p := BuildProjection(testParams(Parallel, Angles{Az: 1, El: 0.3}))
	want := math3d.V3(0.2, -0.4, 0.6)
	got := p.VerticalPick(p.Project(want), math3d.V3(0.2, -0.4, -5))
	if !near3(got.Vec3(), want, 1e-9) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Above the box the pick stops at the top face.
	got = p.VerticalPick(p.Project(math3d.V3(0.2, -0.4, 10)), want)
	if math.Abs(got.Z-1) > 1e-12 {
		t.Errorf("clamped z = %v, want 1", got.Z)
	}
}

func TestMesh(t *testing.T) {
	p := BuildProjection(testParams(Parallel, Angles{Az: 1, El: 0.3}))
	flat := func(u, v float64) math3d.Vec3 { return math3d.V3(u, v, 0) }

	xs, ys := p.Mesh(flat, Range{-1, 1}, 2, Range{-1, 1}, 3)
	// 3 rows of 4 samples, then 4 columns of 3 samples, each with a break.
	if len(xs) != 31 || len(ys) != 31 {
		t.Fatalf("lengths = %d, %d; want 31", len(xs), len(ys))
	}
	for i, x := range xs {
		wantBreak := i == 4 || i == 9 || i == 14 || i == 18 || i == 22 || i == 26 || i == 30
		if math.IsNaN(x) != wantBreak || math.IsNaN(ys[i]) != wantBreak {
			t.Errorf("index %d: NaN = %v, want %v", i, math.IsNaN(x), wantBreak)
		}
	}
	first := p.Project(flat(-1, -1))
	if xs[0] != first.X || ys[0] != first.Y || xs[15] != first.X {
		t.Error("rows and columns do not start at the first sample")
	}

	if xs, ys := p.Mesh(flat, Range{0, 1}, 0, Range{0, 1}, 2); xs != nil || ys != nil {
		t.Error("zero steps should give no mesh")
	}
}

func BenchmarkBuildProjection(b *testing.B) {
	params := testParams(Central, Angles{Az: 1, El: 0.3, Bank: 0.2})
	for b.Loop() {
		_ = BuildProjection(params)
	}
}

func BenchmarkPlanePick(b *testing.B) {
	p := BuildProjection(testParams(Central, Angles{Az: 1, El: 0.3}))
	screen := p.Project(math3d.V3(0.2, 0.1, 0))
	n := math3d.V3(0, 0, 1)
	for b.Loop() {
		_ = p.PlanePick(screen, n, math3d.Vec3{})
	}
}
