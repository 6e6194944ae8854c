package main

import (
	"fmt"

	"github.com/taigrr/view3d/pkg/math3d"
	"github.com/taigrr/view3d/pkg/models"
	"github.com/taigrr/view3d/pkg/render"
	"github.com/taigrr/view3d/pkg/view3d"
)

const (
	sectionStep  = 0.1
	surfaceSteps = 12
	modelFill    = 0.8
)

var (
	colorBackground = render.RGB(20, 20, 28)
	colorBox        = render.ColorDim
	colorModel      = render.RGB(0, 200, 128)
	colorSurface    = render.RGB(90, 90, 160)
	colorSection    = render.ColorYellow
	colorSectionCut = render.ColorCyan
	colorPick       = render.ColorMagenta
)

// scene is what the viewer and the snapshot command draw inside the box.
type scene struct {
	box      view3d.Box
	mesh     *models.Mesh
	poly     *view3d.Polyhedron
	edges    [][2]int
	sectionZ float64
	surface  bool
}

func newScene(model string) (*scene, error) {
	mesh, err := models.Load(model)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	box := view3d.NewBox([2]float64{-1, 1}, [2]float64{-1, 1}, [2]float64{-1, 1})
	mesh.FitTo(box, modelFill)
	return &scene{
		box:   box,
		mesh:  mesh,
		poly:  mesh.Polyhedron(),
		edges: mesh.Edges(),
	}, nil
}

// sectionPlane is the horizontal plane cutting the model.
func (s *scene) sectionPlane() view3d.Plane {
	return view3d.NewPlane(math3d.V3(0, 0, s.sectionZ), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
}

// moveSection shifts the section plane, keeping it inside the box.
func (s *scene) moveSection(steps int) {
	s.sectionZ = math3d.Clamp(s.sectionZ+float64(steps)*sectionStep, s.box.Min.Z, s.box.Max.Z)
}

// saddle is the surface drawn when the surface overlay is on.
func (s *scene) saddle(u, v float64) math3d.Vec3 {
	return math3d.V3(u, v, 0.6*u*v)
}

// frame is the result of drawing one frame.
type frame struct {
	section view3d.Section
	pick    math3d.Vec4
	hasPick bool
}

// draw renders the scene as seen through v into fb. hover is the pointer
// position in board coordinates, if any.
func (s *scene) draw(fb *render.Framebuffer, v *view3d.View, hover *math3d.Vec2) frame {
	fb.Clear(colorBackground)
	proj := v.Projection()
	w := render.NewWireframe(proj, fb)

	w.DrawBox(s.box, colorBox)
	w.DrawAxes(s.box)

	if s.surface {
		r := view3d.Range{Min: s.box.Min.X, Max: s.box.Max.X}
		xs, ys := proj.Mesh(s.saddle, r, surfaceSteps, r, surfaceSteps)
		w.DrawPolyline(xs, ys, colorSurface)
	}

	w.DrawEdges(s.mesh.Positions, s.edges, colorModel)

	plane := s.sectionPlane()
	var out frame
	out.section = v.IntersectionPlanePolyhedron(plane, s.poly)
	w.DrawSection(out.section, colorSection)

	// The section plane meets the plane x = center here.
	upright := view3d.NewPlane(s.box.Center(), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1))
	w.DrawClippedLine(v.IntersectionPlanePlane(plane, upright), colorSectionCut)

	if hover != nil {
		p := v.Project2DTo3DPlane(*hover, plane.Normal, math3d.V3(0, 0, s.sectionZ))
		if v.IsInCube(p) {
			out.pick, out.hasPick = p, true
			w.DrawPoint(p.PerspectiveDivide(), 2, colorPick)
		}
	}
	return out
}

// axisLabels places the axis names just past the end of each axis.
func (s *scene) axisLabels(v *view3d.View, fb *render.Framebuffer) []render.Label {
	w := render.NewWireframe(v.Projection(), fb)
	o := s.box.Min
	ends := []struct {
		name  string
		p     math3d.Vec3
		color render.Color
	}{
		{"x", math3d.V3(s.box.Max.X, o.Y, o.Z), render.ColorRed},
		{"y", math3d.V3(o.X, s.box.Max.Y, o.Z), render.ColorGreen},
		{"z", math3d.V3(o.X, o.Y, s.box.Max.Z), render.ColorBlue},
	}
	labels := make([]render.Label, 0, len(ends))
	for _, e := range ends {
		x, y := w.ToPixel(v.Project3DTo2D(e.p))
		labels = append(labels, render.Label{X: x + 1, Y: y, Text: e.name, Color: e.color})
	}
	return labels
}
