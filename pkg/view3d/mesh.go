package view3d

import (
	"math"

	"github.com/taigrr/view3d/pkg/math3d"
)

// SurfaceFunc is a parametric surface.
type SurfaceFunc func(u, v float64) math3d.Vec3

// Mesh samples f on a (uSteps+1)×(vSteps+1) grid and returns the projected
// wireframe as two coordinate arrays: first every row of constant u, then
// every column of constant v, each followed by a NaN break.
func (p *Projection) Mesh(f SurfaceFunc, u Range, uSteps int, v Range, vSteps int) (xs, ys []float64) {
	if uSteps <= 0 || vSteps <= 0 {
		return nil, nil
	}
	du := (u.Max - u.Min) / float64(uSteps)
	dv := (v.Max - v.Min) / float64(vSteps)

	n := 2*(uSteps+1)*(vSteps+1) + (uSteps + 1) + (vSteps + 1)
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	emit := func(i, j int) {
		q := p.Project(f(u.Min+float64(i)*du, v.Min+float64(j)*dv))
		xs = append(xs, q.X)
		ys = append(ys, q.Y)
	}
	brk := func() {
		xs = append(xs, math.NaN())
		ys = append(ys, math.NaN())
	}

	for i := 0; i <= uSteps; i++ {
		for j := 0; j <= vSteps; j++ {
			emit(i, j)
		}
		brk()
	}
	for j := 0; j <= vSteps; j++ {
		for i := 0; i <= uSteps; i++ {
			emit(i, j)
		}
		brk()
	}
	return xs, ys
}
