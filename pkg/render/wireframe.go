package render

import (
	"math"

	"github.com/taigrr/view3d/pkg/math3d"
	"github.com/taigrr/view3d/pkg/view3d"
)

// Projector maps box coordinates to board coordinates. A
// *view3d.Projection snapshot satisfies it.
type Projector interface {
	Project(p math3d.Vec3) math3d.Vec2
}

// Wireframe draws projected 3D geometry into a framebuffer. Board
// coordinates are framebuffer pixels with y pointing up.
type Wireframe struct {
	proj Projector
	fb   *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(proj Projector, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		proj: proj,
		fb:   fb,
	}
}

// ToPixel converts a board point to framebuffer pixel coordinates.
func (w *Wireframe) ToPixel(p math3d.Vec2) (x, y float64) {
	return p.X, float64(w.fb.Height-1) - p.Y
}

// DrawLine2D draws a line between two board points.
func (w *Wireframe) DrawLine2D(a, b math3d.Vec2, color Color) {
	x0, y0 := w.ToPixel(a)
	x1, y1 := w.ToPixel(b)
	w.fb.DrawLineF(x0, y0, x1, y1, color)
}

// DrawLine3D draws a line in 3D space. Projection is projective, so the
// image of a segment is the segment between the projected endpoints.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	w.DrawLine2D(w.proj.Project(p1), w.proj.Project(p2), color)
}

// DrawBox draws the 12 edges of a box.
func (w *Wireframe) DrawBox(b view3d.Box, color Color) {
	corners := b.Corners()
	for _, e := range view3d.Edges {
		w.DrawLine3D(corners[e[0]], corners[e[1]], color)
	}
}

// DrawAxes draws the three box edges leaving the minimum corner in red,
// green and blue.
func (w *Wireframe) DrawAxes(b view3d.Box) {
	o := b.Min
	w.DrawLine3D(o, math3d.V3(b.Max.X, o.Y, o.Z), ColorRed)
	w.DrawLine3D(o, math3d.V3(o.X, b.Max.Y, o.Z), ColorGreen)
	w.DrawLine3D(o, math3d.V3(o.X, o.Y, b.Max.Z), ColorBlue)
}

// DrawEdges draws indexed edges over a vertex list.
func (w *Wireframe) DrawEdges(vertices []math3d.Vec3, edges [][2]int, color Color) {
	projected := make([]math3d.Vec2, len(vertices))
	for i, v := range vertices {
		projected[i] = w.proj.Project(v)
	}
	for _, e := range edges {
		w.DrawLine2D(projected[e[0]], projected[e[1]], color)
	}
}

// DrawPolyline draws a line strip through board points. A NaN coordinate
// ends the current strip, which is how surface meshes separate their
// rows and columns.
func (w *Wireframe) DrawPolyline(xs, ys []float64, color Color) {
	n := min(len(xs), len(ys))
	for i := 1; i < n; i++ {
		if math.IsNaN(xs[i-1]) || math.IsNaN(xs[i]) || math.IsNaN(ys[i-1]) || math.IsNaN(ys[i]) {
			continue
		}
		w.DrawLine2D(math3d.V2(xs[i-1], ys[i-1]), math3d.V2(xs[i], ys[i]), color)
	}
}

// DrawSection draws a plane section polygon. Open sections are drawn as
// far as they were stitched.
func (w *Wireframe) DrawSection(s view3d.Section, color Color) {
	n := len(s.Points)
	if n < 2 {
		return
	}
	for i := 1; i < n; i++ {
		w.DrawLine3D(s.Points[i-1], s.Points[i], color)
	}
	if s.Closed {
		w.DrawLine3D(s.Points[n-1], s.Points[0], color)
	}
}

// DrawClippedLine draws the visible part of a plane-plane intersection.
func (w *Wireframe) DrawClippedLine(l view3d.ClippedLine, color Color) {
	if !l.Valid() {
		return
	}
	w.DrawLine3D(l.Ends[0], l.Ends[1], color)
}

// DrawPoint draws a point as a small 2D cross of the given pixel radius.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, radius int, color Color) {
	x, y := w.ToPixel(w.proj.Project(pos))
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	px, py := int(math.Round(x)), int(math.Round(y))
	w.fb.DrawLine(px-radius, py, px+radius, py, color)
	w.fb.DrawLine(px, py-radius, px, py+radius, color)
}
