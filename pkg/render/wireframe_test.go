package render

import (
	"math"
	"testing"

	"github.com/taigrr/view3d/pkg/math3d"
	"github.com/taigrr/view3d/pkg/view3d"
)

// flatProjector drops z, so board coordinates equal box x and y.
type flatProjector struct{}

func (flatProjector) Project(p math3d.Vec3) math3d.Vec2 { return math3d.V2(p.X, p.Y) }

func TestWireframeLine3D(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	w := NewWireframe(flatProjector{}, fb)
	w.DrawLine3D(math3d.V3(1, 1, 5), math3d.V3(5, 1, -5), ColorWhite)

	// Board y=1 is the second row from the bottom.
	for x := 1; x <= 5; x++ {
		if fb.GetPixel(x, 8) != ColorWhite {
			t.Errorf("pixel (%d, 8) not drawn", x)
		}
	}
	if n := countColor(fb, ColorWhite); n != 5 {
		t.Errorf("drew %d pixels, want 5", n)
	}
}

func TestWireframePolylineBreaks(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	w := NewWireframe(flatProjector{}, fb)
	nan := math.NaN()
	xs := []float64{0, 3, nan, 6, 9}
	ys := []float64{0, 0, nan, 0, 0}
	w.DrawPolyline(xs, ys, ColorCyan)

	if fb.GetPixel(4, 9) == ColorCyan || fb.GetPixel(5, 9) == ColorCyan {
		t.Error("strip continued across the NaN separator")
	}
	if n := countColor(fb, ColorCyan); n != 8 {
		t.Errorf("drew %d pixels, want 8", n)
	}
}

func TestWireframeSection(t *testing.T) {
	sq := view3d.Section{
		Points: []math3d.Vec3{{X: 1, Y: 1}, {X: 4, Y: 1}, {X: 4, Y: 4}, {X: 1, Y: 4}},
		Closed: true,
	}
	fb := NewFramebuffer(10, 10)
	w := NewWireframe(flatProjector{}, fb)
	w.DrawSection(sq, ColorYellow)
	if n := countColor(fb, ColorYellow); n != 12 {
		t.Errorf("closed square drew %d pixels, want 12", n)
	}

	sq.Closed = false
	fb.Clear(Color{})
	w.DrawSection(sq, ColorYellow)
	if fb.GetPixel(1, 7) != (Color{}) {
		t.Error("open section drew its closing edge")
	}
}

func TestWireframeBox(t *testing.T) {
	box := view3d.NewBox([2]float64{-1, 1}, [2]float64{-1, 1}, [2]float64{-1, 1})
	a := view3d.Angles{Az: 0.75 * math.Pi, El: 0.25 * math.Pi}
	proj := view3d.BuildProjection(view3d.ProjectionParams{
		Type:     view3d.Central,
		Box:      box,
		Corner:   math3d.V2(0, 0),
		Size:     math3d.V2(80, 80),
		Rotation: view3d.RotationFromAngles(a),
		Angles:   a,
		FOV:      2 * math.Pi / 5,
		Distance: view3d.AutoDistance(),
	})

	fb := NewFramebuffer(80, 80)
	w := NewWireframe(proj, fb)
	w.DrawBox(box, ColorWhite)
	w.DrawAxes(box)
	w.DrawPoint(box.Center(), 2, ColorMagenta)

	if countColor(fb, ColorWhite) == 0 {
		t.Error("box edges not drawn")
	}
	for _, c := range []Color{ColorRed, ColorGreen, ColorBlue, ColorMagenta} {
		if countColor(fb, c) == 0 {
			t.Errorf("color %v missing", c)
		}
	}
}
