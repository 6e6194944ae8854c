package view3d

import (
	"math"

	"github.com/taigrr/view3d/pkg/math3d"
)

// TrackballDrag is one pointer step of a trackball rotation, in board user
// units relative to the view center with y pointing up.
type TrackballDrag struct {
	X, Y   float64 // current pointer position
	DX, DY float64 // movement since the previous event
}

// projectToSphere lifts (x, y) onto a sphere of radius r that blends into a
// hyperbolic sheet away from the center.
func projectToSphere(r, x, y float64) float64 {
	d := math.Hypot(x, y)
	if d < r*math.Sqrt2/2 {
		return math.Sqrt(r*r - d*d)
	}
	t := r / math.Sqrt2
	return t * t / d
}

// TrackballRotation applies drag to current. The previous and current
// pointer positions are lifted onto the trackball; the rotation turns one
// into the other about their common normal. A negligible movement returns
// current unchanged.
func TrackballRotation(current math3d.Mat4, drag TrackballDrag, radius float64) math3d.Mat4 {
	if drag.DX*drag.DX+drag.DY*drag.DY <= math3d.Eps || radius <= 0 {
		return current
	}
	x0, y0 := drag.X-drag.DX, drag.Y-drag.DY
	p1 := math3d.V3(x0, y0, projectToSphere(radius, x0, y0))
	p2 := math3d.V3(drag.X, drag.Y, projectToSphere(radius, drag.X, drag.Y))

	axis := p1.Cross(p2)
	if axis.Len() == 0 {
		return current
	}
	t := math3d.Clamp(p2.Distance(p1)/(2*radius), -1, 1)
	return math3d.Rotate(axis.Normalize(), 2*math.Asin(t)).Mul(current)
}
