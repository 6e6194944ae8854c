package view3d

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/view3d/pkg/math3d"
)

// ErrUnknownProjection is returned when a projection name is neither
// "parallel" nor "central".
var ErrUnknownProjection = errors.New("view3d: unknown projection type")

// ProjectionType selects how the box is mapped to the screen.
type ProjectionType int

const (
	Parallel ProjectionType = iota
	Central
)

func (t ProjectionType) String() string {
	if t == Central {
		return "central"
	}
	return "parallel"
}

// ParseProjectionType parses "parallel" or "central" (case-insensitive).
func ParseProjectionType(s string) (ProjectionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "parallel", "":
		return Parallel, nil
	case "central":
		return Central, nil
	}
	return Parallel, fmt.Errorf("%w: %q", ErrUnknownProjection, s)
}

func (t ProjectionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ProjectionType) UnmarshalText(b []byte) error {
	v, err := ParseProjectionType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Clip planes and screen frame of the central projection, in camera units.
const (
	nearPlane    = 8.0
	farPlane     = 20.0
	centralFrame = 0.8

	// parallelDistance is the camera distance used by the parallel stretch;
	// -1 makes the stretch the identity.
	parallelDistance = -1.0

	// autoDistanceFactor scales the box diagonal for an automatic distance.
	autoDistanceFactor = 1.01
)

// Viewport is the 2D scale and shift taking perspective-divided clip
// coordinates to board coordinates.
type Viewport struct {
	ScaleX, ScaleY float64
	ShiftX, ShiftY float64
}

// Apply maps clip coordinates to board coordinates.
func (vp Viewport) Apply(p math3d.Vec2) math3d.Vec2 {
	return math3d.V2(vp.ScaleX*p.X+vp.ShiftX, vp.ScaleY*p.Y+vp.ShiftY)
}

// Invert maps board coordinates back to clip coordinates.
func (vp Viewport) Invert(p math3d.Vec2) math3d.Vec2 {
	return math3d.V2((p.X-vp.ShiftX)/vp.ScaleX, (p.Y-vp.ShiftY)/vp.ScaleY)
}

// ProjectionParams is everything BuildProjection depends on.
type ProjectionParams struct {
	Type     ProjectionType
	Box      Box
	Corner   math3d.Vec2 // lower-left corner of the view in board units
	Size     math3d.Vec2 // width and height of the view in board units
	Rotation math3d.Mat4
	Angles   Angles
	FOV      float64
	Distance Distance
}

// Projection is the immutable result of one projection build. Dependent
// elements read its matrices; nothing mutates it after BuildProjection.
type Projection struct {
	Type   ProjectionType
	Box    Box
	Corner math3d.Vec2
	Size   math3d.Vec2
	Angles Angles

	Rotation math3d.Mat4
	// Shift moves the box center to the origin.
	Shift math3d.Mat4
	// BoxToCamera is Rotation with the camera distance in its depth row.
	BoxToCamera math3d.Mat4
	// Matrix3D maps homogeneous box points to board points (parallel) or
	// to clip space (central).
	Matrix3D math3d.Mat4
	// RotShift is Rotation·Shift, used for depth ordering.
	RotShift math3d.Mat4
	Viewport Viewport

	Radius        float64
	FocalDistance float64
}

// BuildProjection composes the box-to-screen transform for p. The box must
// have nonzero extent on every axis.
func BuildProjection(p ProjectionParams) *Projection {
	shift := math3d.Translate(p.Box.Center().Negate())
	out := &Projection{
		Type:          p.Type,
		Box:           p.Box,
		Corner:        p.Corner,
		Size:          p.Size,
		Angles:        p.Angles,
		Rotation:      p.Rotation,
		Shift:         shift,
		BoxToCamera:   p.Rotation,
		RotShift:      p.Rotation.Mul(shift),
		Radius:        p.Distance.Resolve(p.Box),
		FocalDistance: 1 / math.Tan(0.5*p.FOV),
	}

	if p.Type == Central {
		out.BoxToCamera.Set(2, 3, -out.Radius)
		f := out.FocalDistance
		clip := math3d.FromRows(
			[4]float64{f, 0, 0, 0},
			[4]float64{0, f, 0, 0},
			[4]float64{0, 0, (farPlane + nearPlane) / (nearPlane - farPlane), 2 * farPlane * nearPlane / (nearPlane - farPlane)},
			[4]float64{0, 0, -1, 0},
		)
		out.Matrix3D = clip.Mul(out.BoxToCamera).Mul(shift)
		out.Viewport = Viewport{
			ScaleX: p.Size.X / centralFrame,
			ScaleY: p.Size.Y / centralFrame,
			ShiftX: p.Corner.X + 0.5*p.Size.X,
			ShiftY: p.Corner.Y + 0.5*p.Size.Y,
		}
		return out
	}

	ext := p.Box.Size()
	sx, sy := p.Size.X/ext.X, p.Size.Y/ext.Y
	viewport := math3d.FromRows(
		[4]float64{sx, 0, 0, p.Corner.X + 0.5*p.Size.X},
		[4]float64{0, sy, 0, p.Corner.Y + 0.5*p.Size.Y},
		[4]float64{0, 0, 0, 0},
		[4]float64{0, 0, 0, 1},
	)
	r := parallelDistance
	stretch := math3d.Scale(math3d.V3(-r, -r, 1))
	out.Matrix3D = viewport.Mul(p.Rotation).Mul(stretch).Mul(shift)
	out.Viewport = Viewport{ScaleX: 1, ScaleY: 1}
	return out
}
