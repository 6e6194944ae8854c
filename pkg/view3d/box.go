package view3d

import (
	"math"

	"github.com/taigrr/view3d/pkg/math3d"
)

// Box is the axis-aligned world cuboid a view displays.
type Box struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewBox creates a Box from the three coordinate intervals
// [x1, x2], [y1, y2], [z1, z2]. Every interval must have nonzero extent.
func NewBox(x, y, z [2]float64) Box {
	return Box{
		Min: math3d.V3(x[0], y[0], z[0]),
		Max: math3d.V3(x[1], y[1], z[1]),
	}
}

// Center returns the center of the box.
func (b Box) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b Box) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Diagonal returns the length of the space diagonal.
func (b Box) Diagonal() float64 {
	return b.Size().Len()
}

// Interval returns the bounds of axis i (0 = x, 1 = y, 2 = z).
func (b Box) Interval(i int) (lo, hi float64) {
	return b.Min.At(i), b.Max.At(i)
}

// Clamp moves p onto the closest point of the box. The second result
// reports whether p was outside.
func (b Box) Clamp(p math3d.Vec3) (math3d.Vec3, bool) {
	q := math3d.V3(
		math3d.Clamp(p.X, b.Min.X, b.Max.X),
		math3d.Clamp(p.Y, b.Min.Y, b.Max.Y),
		math3d.Clamp(p.Z, b.Min.Z, b.Max.Z),
	)
	return q, q != p
}

// Contains reports whether p lies inside the box, allowing math3d.Eps slack
// on every face.
func (b Box) Contains(p math3d.Vec3) bool {
	const eps = math3d.Eps
	return p.X > b.Min.X-eps && p.X < b.Max.X+eps &&
		p.Y > b.Min.Y-eps && p.Y < b.Max.Y+eps &&
		p.Z > b.Min.Z-eps && p.Z < b.Max.Z+eps
}

// ContainsHomogeneous is Contains for a homogeneous point. Points at
// infinity (W == 0) are never inside.
func (b Box) ContainsHomogeneous(q math3d.Vec4) bool {
	if q.W == 0 || q.IsNaN() {
		return false
	}
	return b.Contains(q.PerspectiveDivide())
}

// IntersectLine returns the parameter r at which the line p + r·d leaves
// the box. The sign of limit picks the direction of the scan: a positive
// limit (usually +Inf) finds the exit in direction d, a negative one the
// exit in direction -d. Axes with d == 0 do not constrain the result.
func (b Box) IntersectLine(p, d math3d.Vec3, limit float64) float64 {
	r := limit
	for i := range 3 {
		di := d.At(i)
		if di == 0 {
			continue
		}
		lo, hi := b.Interval(i)
		r0 := (lo - p.At(i)) / di
		r1 := (hi - p.At(i)) / di
		if limit < 0 {
			r = math.Max(r, math.Min(r0, r1))
		} else {
			r = math.Min(r, math.Max(r0, r1))
		}
	}
	return r
}

// Corners returns the eight corners of the box; corner i takes the max
// bound on axis k when bit k of i is set.
func (b Box) Corners() [8]math3d.Vec3 {
	var out [8]math3d.Vec3
	for i := range out {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out[i] = c
	}
	return out
}

// Edges lists the twelve box edges as index pairs into Corners.
var Edges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}
