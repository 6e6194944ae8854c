package math3d

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when a linear system has no unique solution.
var ErrSingular = errors.New("math3d: singular system")

// Solve4 solves m·x = b. Ill-conditioned but nonsingular systems are
// solved anyway; only exactly singular ones report ErrSingular.
func Solve4(m Mat4, b Vec4) (Vec4, error) {
	a := mat.NewDense(4, 4, nil)
	for row := range 4 {
		for col := range 4 {
			a.Set(row, col, m.Get(row, col))
		}
	}
	x, err := solve(a, []float64{b.X, b.Y, b.Z, b.W})
	if err != nil {
		return Vec4{}, err
	}
	return Vec4{x[0], x[1], x[2], x[3]}, nil
}

// Solve3 solves the system whose rows are r0, r1, r2 for right-hand side b.
func Solve3(r0, r1, r2, b Vec3) (Vec3, error) {
	a := mat.NewDense(3, 3, []float64{
		r0.X, r0.Y, r0.Z,
		r1.X, r1.Y, r1.Z,
		r2.X, r2.Y, r2.Z,
	})
	x, err := solve(a, []float64{b.X, b.Y, b.Z})
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{x[0], x[1], x[2]}, nil
}

// Solve2 solves [a b; c d]·x = (e, f) by Cramer's rule.
func Solve2(a, b, c, d, e, f float64) (x, y float64, err error) {
	det := a*d - b*c
	if det == 0 || math.IsNaN(det) {
		return 0, 0, ErrSingular
	}
	return (e*d - b*f) / det, (a*f - e*c) / det, nil
}

func solve(a *mat.Dense, b []float64) ([]float64, error) {
	var x mat.VecDense
	if err := x.SolveVec(a, mat.NewVecDense(len(b), b)); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, ErrSingular
		}
	}
	out := make([]float64, len(b))
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}
