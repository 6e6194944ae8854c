package view3d

import (
	"math"

	"github.com/taigrr/view3d/pkg/math3d"
)

// failedPick is the result of an inverse mapping without a solution.
var failedPick = math3d.Vec4{X: math.NaN(), Y: math.NaN(), Z: math.NaN(), W: 0}

// Project maps a box point to board coordinates.
func (p *Projection) Project(x math3d.Vec3) math3d.Vec2 {
	v := p.Matrix3D.MulPoint(x)
	if p.Type == Central {
		return p.Viewport.Apply(math3d.V2(v.X/v.W, v.Y/v.W))
	}
	return math3d.V2(v.X, v.Y)
}

// PlanePick returns the homogeneous point on the plane through foot with
// the given normal that projects to the board point screen. When no unique
// point exists the result has NaN coordinates and W == 0.
func (p *Projection) PlanePick(screen math3d.Vec2, normal, foot math3d.Vec3) math3d.Vec4 {
	n := normal.Normalize()
	if n == (math3d.Vec3{}) {
		return failedPick
	}
	d := n.Dot(foot)
	if p.Type == Central {
		return p.centralPlanePick(screen, n, d)
	}

	m := p.Matrix3D
	m.SetRow(2, math3d.V4FromV3(n, 0))
	// Looking exactly along the horizon makes the screen y row parallel to
	// horizontal planes.
	if p.Rotation.Get(1, 2) == 1 {
		m.Set(1, 0, math3d.Eps*0.001)
		m.Set(1, 1, math3d.Eps*0.001)
	}
	sol, err := math3d.Solve4(m, math3d.V4(screen.X, screen.Y, d, 1))
	if err != nil || sol.IsNaN() {
		return failedPick
	}
	return sol
}

// centralPlanePick inverts the viewport, then finds the homogeneous scale
// w0 and clip depth z0 for which the clip point (u·w0, v·w0, z0, w0) maps
// back onto the plane n·X = d with X.W == 1.
func (p *Projection) centralPlanePick(screen math3d.Vec2, n math3d.Vec3, d float64) math3d.Vec4 {
	uv := p.Viewport.Invert(screen)
	a, err := math3d.Solve4(p.Matrix3D, math3d.V4(uv.X, uv.Y, 0, 1))
	if err != nil {
		return failedPick
	}
	b, err := math3d.Solve4(p.Matrix3D, math3d.V4(0, 0, 1, 0))
	if err != nil {
		return failedPick
	}
	w0, z0, err := math3d.Solve2(a.W, b.W, n.Dot(a.Vec3()), n.Dot(b.Vec3()), 1, d)
	if err != nil {
		return failedPick
	}
	sol, err := math3d.Solve4(p.Matrix3D, math3d.V4(uv.X*w0, uv.Y*w0, z0, w0))
	if err != nil || sol.W == 0 || sol.IsNaN() {
		return failedPick
	}
	return math3d.V4FromV3(sol.PerspectiveDivide(), 1)
}

// VerticalPick returns the point on the vertical line through base, limited
// to the box height, whose projection is closest to screen.
func (p *Projection) VerticalPick(screen math3d.Vec2, base math3d.Vec3) math3d.Vec4 {
	return p.SegmentPick(screen,
		math3d.V3(base.X, base.Y, p.Box.Min.Z),
		math3d.V3(base.X, base.Y, p.Box.Max.Z))
}

// SegmentPick returns the point of segment [end0, end1] whose projection is
// closest to screen. Under central projection the screen parameter is
// corrected for foreshortening with the Möbius map fixing 0 and 1 and
// sending the projected midpoint to 1/2. The result never leaves the
// segment.
func (p *Projection) SegmentPick(screen math3d.Vec2, end0, end1 math3d.Vec3) math3d.Vec4 {
	e0 := p.Project(end0)
	dir := p.Project(end1).Sub(e0)
	nsq := dir.Dot(dir)

	var t float64
	if nsq > 0 {
		s := math3d.Clamp(screen.Sub(e0).Dot(dir)/nsq, 0, 1)
		t = s
		if p.Type == Central {
			m := p.Project(end0.Lerp(end1, 0.5)).Sub(e0).Dot(dir) / nsq
			t = (1 - m) * s / ((1-2*m)*s + m)
		}
	}
	if math.IsNaN(t) {
		t = 0
	}
	t = math3d.Clamp(t, 0, 1)
	return math3d.V4FromV3(end0.Lerp(end1, t), 1)
}
