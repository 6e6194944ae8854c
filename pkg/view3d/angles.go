package view3d

import (
	"math"

	"github.com/taigrr/view3d/pkg/math3d"
)

// bankEps is the length below which the bank angle cannot be read from a
// rotation matrix (the view axis is vertical).
const bankEps = 1e-10

// Angles are the camera orientation angles in radians. Az runs around the
// z axis, El tilts the view up from the xy plane and Bank rolls the screen.
type Angles struct {
	Az, El, Bank float64
}

// RotationFromAngles builds the rotation that maps box coordinates (after
// centring) to camera coordinates: screen x, screen y and depth toward
// the viewer.
func RotationFromAngles(a Angles) math3d.Mat4 {
	sa, ca := math.Sincos(a.Az)
	se, ce := math.Sincos(a.El)
	azEl := math3d.FromRows(
		[4]float64{-ca, sa, 0, 0},
		[4]float64{-se * sa, -se * ca, ce, 0},
		[4]float64{ce * sa, ce * ca, se, 0},
		[4]float64{0, 0, 0, 1},
	)
	return math3d.RotateZ(-a.Bank).Mul(azEl)
}

// AnglesFromRotation recovers the angles of a rotation built by
// RotationFromAngles or composed from one by trackball drags. The result
// has Az in [0, 2π), El in [-π/2, π/2] and Bank in (-π, π]. When the view
// axis is vertical the bank is not determined and prevBank is kept.
func AnglesFromRotation(m math3d.Mat4, prevBank float64) Angles {
	var sb, cb float64
	if r := math.Hypot(m.Get(0, 2), m.Get(1, 2)); r > bankEps {
		sb, cb = m.Get(0, 2)/r, m.Get(1, 2)/r
	} else {
		sb, cb = math.Sincos(prevBank)
	}
	bank := math.Atan2(sb, cb)
	rem := math3d.RotateZ(bank).Mul(m)

	el := math.Atan2(rem.Get(2, 2), rem.Get(1, 2))
	rem = math3d.RotateX(-el).Mul(rem)

	az := math.Atan2(rem.Get(2, 0), -rem.Get(0, 0))
	if az < 0 {
		az += 2 * math.Pi
	}
	return Angles{Az: az, El: el, Bank: bank}
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min, Max float64
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return 0.5 * (r.Min + r.Max)
}

// Contains reports whether t lies in the range.
func (r Range) Contains(t float64) bool {
	return t >= r.Min && t <= r.Max
}

// loss is the distance of t from the range, zero inside.
func (r Range) loss(t float64) float64 {
	switch {
	case t < r.Min:
		return r.Min - t
	case t > r.Max:
		return t - r.Max
	}
	return 0
}

// Bounds holds the admissible range of each angle.
type Bounds struct {
	Az, El, Bank Range
}

// TrackballBounds are the ranges used while the trackball is active. They
// cover every orientation exactly once.
func TrackballBounds() Bounds {
	return Bounds{
		Az:   Range{0, 2 * math.Pi},
		El:   Range{-0.5 * math.Pi, 0.5 * math.Pi},
		Bank: Range{-math.Pi, math.Pi},
	}
}

// FitAngles moves a into b without changing the orientation when that is
// possible. The triple (az, el, bank) describes the same rotation as
// (az+π, π-el, bank+π), so an elevation outside its range may be folded
// back by flipping the other two angles. With trackball set elevation is
// folded into [-π/2, π/2] and azimuth and bank are wrapped into their
// full-turn ranges; otherwise elevation picks whichever of the two
// equivalents is closer to its range and all angles are then clamped.
func FitAngles(a Angles, b Bounds, trackball bool) Angles {
	if trackball {
		// Elevation lands in the closed [-π/2, π/2]; both poles are kept.
		switch cover := math3d.Wrap(a.El, -0.5*math.Pi, 1.5*math.Pi); {
		case b.El.Contains(a.El):
		case cover <= 0.5*math.Pi:
			a.El = cover
		default:
			a.El = math.Pi - cover
			a.Az += math.Pi
			a.Bank += math.Pi
		}
		a.Az = math3d.Wrap(a.Az, b.Az.Min, b.Az.Max)
		a.Bank = math3d.Wrap(a.Bank, b.Bank.Min, b.Bank.Max)
		return a
	}

	mid := b.El.Mid()
	equiv := math3d.Wrap(a.El, mid-math.Pi, mid+math.Pi)
	flip := math3d.Wrap(math.Pi-a.El, mid-math.Pi, mid+math.Pi)
	if b.El.loss(equiv) <= b.El.loss(flip) {
		a.El = math3d.Clamp(equiv, b.El.Min, b.El.Max)
	} else {
		a.El = math3d.Clamp(flip, b.El.Min, b.El.Max)
		a.Az = math3d.Wrap(a.Az+math.Pi, b.Az.Min, b.Az.Max)
		a.Bank = math3d.Wrap(a.Bank+math.Pi, b.Bank.Min, b.Bank.Max)
	}
	a.Az = math3d.WrapAndClamp(a.Az, b.Az.Min, b.Az.Max, 2*math.Pi)
	a.Bank = math3d.WrapAndClamp(a.Bank, b.Bank.Min, b.Bank.Max, 2*math.Pi)
	return a
}
