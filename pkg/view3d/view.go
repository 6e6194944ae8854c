// Package view3d maintains the orientation and projection of a 3D view:
// a world box seen under parallel or central projection, oriented by
// azimuth, elevation and bank angles or by a virtual trackball.
//
// The numeric work is done by pure functions (RotationFromAngles,
// AnglesFromRotation, FitAngles, TrackballRotation, BuildProjection) and
// by the immutable Projection snapshot they produce. View is the thin
// stateful layer that wires sliders, input events and the board update
// cycle around them.
package view3d

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/taigrr/view3d/pkg/math3d"
)

// Board is the drawing surface hosting a view.
type Board interface {
	// Update schedules a redraw. It is called without the view lock held
	// but must not block on the view.
	Update()
	// UnitX and UnitY are screen pixels per user unit.
	UnitX() float64
	UnitY() float64
	// CanvasSize is the size of the drawing area in screen pixels.
	CanvasSize() (width, height float64)
	// UserToScreen converts user coordinates to screen pixels.
	UserToScreen(p math3d.Vec2) math3d.Vec2
	// DragActive reports whether the board is dragging an element, which
	// suppresses view rotation.
	DragActive() bool
}

// Element3D is an object registered with a view.
type Element3D interface {
	ID() string
}

// Anchored elements take part in depth ordering.
type Anchored interface {
	Element3D
	Anchor() math3d.Vec3
}

// Detacher elements are told when the view is closed.
type Detacher interface {
	Element3D
	Detach()
}

// Option configures a View.
type Option func(*View)

// WithSliders replaces the built-in sliders with host widgets. Their
// ranges are reset from the configuration.
func WithSliders(s Sliders) Option {
	return func(v *View) { v.sliders = s }
}

// WithRand sets the random source used by polyhedron sections.
func WithRand(r *rand.Rand) Option {
	return func(v *View) { v.rng = r }
}

// View is a 3D view placed on a board. All methods are safe for concurrent
// use.
type View struct {
	mu sync.Mutex

	board  Board
	corner math3d.Vec2
	size   math3d.Vec2
	box    Box
	cfg    Config

	sliders  Sliders
	angles   Angles
	rotation math3d.Mat4
	distance Distance
	proj     *Projection

	trackballEnabled bool
	needsUpdate      bool
	notify           bool

	active ActiveInput
	drag   *TrackballDrag

	currentView int
	glide       *Glide
	azTimer     *time.Timer
	azGen       uint64

	objects []Element3D
	rng     *rand.Rand
}

// NewView creates a view of box placed at corner with the given size, both
// in board user units. The first projection is built before returning.
func NewView(board Board, corner, size math3d.Vec2, box Box, cfg Config, opts ...Option) (*View, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v := &View{
		board:    board,
		corner:   corner,
		size:     size,
		box:      box,
		cfg:      cfg,
		distance: cfg.R,
		rng:      rand.New(rand.NewPCG(1, 2)),
	}
	v.sliders = Sliders{
		Az:   NewRangeSlider("az", cfg.Az.Slider.Min, cfg.Az.Slider.Max, cfg.Az.Slider.Start),
		El:   NewRangeSlider("el", cfg.El.Slider.Min, cfg.El.Slider.Max, cfg.El.Slider.Start),
		Bank: NewRangeSlider("bank", cfg.Bank.Slider.Min, cfg.Bank.Slider.Max, cfg.Bank.Slider.Start),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.sliders.ready() {
		v.sliders.setBounds(cfg.sliderBounds())
		v.angles = v.sliders.angles()
	}
	v.rotation = RotationFromAngles(v.angles)
	if len(cfg.Values) > 0 {
		v.currentView = int(math3d.Mod(float64(cfg.CurrentView), float64(len(cfg.Values))))
	}
	v.glide = NewGlide(cfg.Transition)
	v.needsUpdate = true
	v.update()
	return v, nil
}

// unlock releases the lock and then forwards a pending redraw request to
// the board.
func (v *View) unlock() {
	notify := v.notify
	v.notify = false
	v.mu.Unlock()
	if notify {
		v.board.Update()
	}
}

// invalidate marks the projection stale and asks the board to redraw.
func (v *View) invalidate() {
	v.needsUpdate = true
	v.notify = true
}

// Invalidate marks the projection stale. Hosts call it after changing
// slider widgets directly.
func (v *View) Invalidate() {
	v.mu.Lock()
	defer v.unlock()
	v.invalidate()
}

// Update rebuilds the projection if anything changed since the last
// build. Boards call it once per frame before drawing.
func (v *View) Update() {
	v.mu.Lock()
	defer v.unlock()
	v.update()
}

func (v *View) update() {
	if !v.sliders.ready() || !v.needsUpdate {
		return
	}
	v.needsUpdate = false

	if v.trackballEnabled != v.cfg.Trackball.Enabled {
		v.updateAngleSliderBounds()
	}

	switch {
	case v.drag != nil:
		v.rotation = TrackballRotation(v.rotation, *v.drag, v.trackballRadius())
		v.drag = nil
		v.angles = AnglesFromRotation(v.rotation, v.angles.Bank)
		v.sliders.set(v.angles)
	case v.anglesHaveMoved():
		v.angles = v.sliders.angles()
		v.rotation = RotationFromAngles(v.angles)
	}

	v.proj = BuildProjection(ProjectionParams{
		Type:     v.cfg.Projection,
		Box:      v.box,
		Corner:   v.corner,
		Size:     v.size,
		Rotation: v.rotation,
		Angles:   v.angles,
		FOV:      v.cfg.FOV,
		Distance: v.distance,
	})
}

// updateAngleSliderBounds switches the slider ranges between the
// configured ones and the full-turn trackball ranges and refits the
// current orientation into them.
func (v *View) updateAngleSliderBounds() {
	v.trackballEnabled = v.cfg.Trackball.Enabled
	b := v.cfg.sliderBounds()
	if v.trackballEnabled {
		b = TrackballBounds()
	}
	v.sliders.setBounds(b)
	v.angles = FitAngles(v.angles, b, v.trackballEnabled)
	if !v.trackballEnabled {
		v.rotation = RotationFromAngles(v.angles)
	}
	v.sliders.set(v.angles)
}

func (v *View) anglesHaveMoved() bool {
	if v.active.Kind == InputAngles {
		return true
	}
	s := v.sliders.angles()
	return math.Abs(s.Az-v.angles.Az) > math3d.Eps ||
		math.Abs(s.El-v.angles.El) > math3d.Eps ||
		math.Abs(s.Bank-v.angles.Bank) > math3d.Eps
}

func (v *View) trackballRadius() float64 {
	return (v.size.X*v.board.UnitX() + v.size.Y*v.board.UnitY()) / 4
}

// Projection returns the latest projection snapshot.
func (v *View) Projection() *Projection {
	v.mu.Lock()
	defer v.unlock()
	return v.proj
}

// Angles returns the current orientation.
func (v *View) Angles() Angles {
	v.mu.Lock()
	defer v.unlock()
	return v.angles
}

// ActiveInput returns the pointer interaction in progress.
func (v *View) ActiveInput() ActiveInput {
	v.mu.Lock()
	defer v.unlock()
	return v.active
}

// Config returns the view configuration.
func (v *View) Config() Config {
	v.mu.Lock()
	defer v.unlock()
	return v.cfg
}

// SetConfig replaces the configuration. Slider ranges follow on the next
// Update when the trackball mode changes.
func (v *View) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.unlock()
	prev := v.cfg
	v.cfg = cfg
	if cfg.R != prev.R {
		v.distance = cfg.R
	}
	if !cfg.Trackball.Enabled && !v.trackballEnabled && cfg.sliderBounds() != prev.sliderBounds() {
		// Slider ranges changed under the same mode.
		v.updateAngleSliderBounds()
	}
	v.glide = NewGlide(cfg.Transition)
	v.invalidate()
	return nil
}

// Sliders returns the sliders driving the angles.
func (v *View) Sliders() Sliders {
	v.mu.Lock()
	defer v.unlock()
	return v.sliders
}

// SetView turns the view to azimuth az and elevation el. An optional
// distance r changes the camera distance in the same update.
func (v *View) SetView(az, el float64, r ...Distance) {
	v.mu.Lock()
	defer v.unlock()
	if len(r) > 0 && !r[0].IsZero() {
		v.distance = r[0]
	}
	v.setView(az, el)
}

func (v *View) setView(az, el float64) {
	v.glide.Stop()
	v.sliders.Az.SetValue(az)
	v.sliders.El.SetValue(el)
	v.invalidate()
}

// SetDistance sets the camera distance of the central projection.
func (v *View) SetDistance(d Distance) {
	v.mu.Lock()
	defer v.unlock()
	v.distance = d
	v.invalidate()
}

// SetGeometry moves and resizes the view on its board.
func (v *View) SetGeometry(corner, size math3d.Vec2) {
	v.mu.Lock()
	defer v.unlock()
	v.corner, v.size = corner, size
	v.invalidate()
}

// Distance returns the configured camera distance.
func (v *View) Distance() Distance {
	v.mu.Lock()
	defer v.unlock()
	return v.distance
}

// NextView moves to the next preset view.
func (v *View) NextView() {
	v.mu.Lock()
	defer v.unlock()
	v.setCurrentView(v.currentView + 1)
}

// PreviousView moves to the previous preset view.
func (v *View) PreviousView() {
	v.mu.Lock()
	defer v.unlock()
	v.setCurrentView(v.currentView - 1)
}

// SetCurrentView moves to preset n, counted modulo the number of presets.
func (v *View) SetCurrentView(n int) {
	v.mu.Lock()
	defer v.unlock()
	v.setCurrentView(n)
}

// CurrentView returns the index of the last selected preset.
func (v *View) CurrentView() int {
	v.mu.Lock()
	defer v.unlock()
	return v.currentView
}

func (v *View) setCurrentView(n int) {
	k := len(v.cfg.Values)
	if k == 0 {
		return
	}
	n = ((n % k) + k) % k
	v.currentView = n
	p := v.cfg.Values[n]
	if !p.R.IsZero() {
		v.distance = p.R
	}
	if v.cfg.Transition.Enabled {
		v.glide.Start(v.angles, p.Az, p.El)
		v.invalidate()
		return
	}
	v.setView(p.Az, p.El)
}

// Add registers an element with the view.
func (v *View) Add(el Element3D) {
	v.mu.Lock()
	defer v.unlock()
	v.objects = append(v.objects, el)
}

// Remove unregisters the element with the given id.
func (v *View) Remove(id string) bool {
	v.mu.Lock()
	defer v.unlock()
	i := slices.IndexFunc(v.objects, func(el Element3D) bool { return el.ID() == id })
	if i < 0 {
		return false
	}
	v.objects = slices.Delete(v.objects, i, i+1)
	return true
}

// Objects returns the registered elements in registration order.
func (v *View) Objects() []Element3D {
	v.mu.Lock()
	defer v.unlock()
	return slices.Clone(v.objects)
}

// DepthOrder returns the registered elements back to front when depth
// ordering is enabled, otherwise in registration order. Elements without
// an anchor are drawn first.
func (v *View) DepthOrder() []Element3D {
	v.mu.Lock()
	defer v.unlock()
	out := slices.Clone(v.objects)
	if !v.cfg.DepthOrder.Enabled || v.proj == nil {
		return out
	}
	rs := v.proj.RotShift
	depth := func(el Element3D) float64 {
		a, ok := el.(Anchored)
		if !ok {
			return math.Inf(-1)
		}
		return rs.MulPoint(a.Anchor()).Z
	}
	slices.SortStableFunc(out, func(a, b Element3D) int {
		return cmp.Compare(depth(a), depth(b))
	})
	return out
}

// Close stops the azimuth animation and detaches every registered element.
func (v *View) Close() {
	v.mu.Lock()
	defer v.unlock()
	v.stopAzimuth()
	v.glide.Stop()
	for _, el := range v.objects {
		if d, ok := el.(Detacher); ok {
			d.Detach()
		}
	}
	v.objects = nil
}

// The methods below evaluate against the latest projection snapshot.

// Project3DTo2D projects a box point to board coordinates.
func (v *View) Project3DTo2D(p math3d.Vec3) math3d.Vec2 {
	return v.Projection().Project(p)
}

// Project2DTo3DPlane picks the point of a plane under a board point.
func (v *View) Project2DTo3DPlane(screen math3d.Vec2, normal, foot math3d.Vec3) math3d.Vec4 {
	return v.Projection().PlanePick(screen, normal, foot)
}

// Project2DTo3DVertical picks the point of the vertical through base.
func (v *View) Project2DTo3DVertical(screen math3d.Vec2, base math3d.Vec3) math3d.Vec4 {
	return v.Projection().VerticalPick(screen, base)
}

// ProjectScreenToSegment picks the point of a segment under a board point.
func (v *View) ProjectScreenToSegment(screen math3d.Vec2, end0, end1 math3d.Vec3) math3d.Vec4 {
	return v.Projection().SegmentPick(screen, end0, end1)
}

// Project3DToCube clamps p into the box.
func (v *View) Project3DToCube(p math3d.Vec3) (math3d.Vec3, bool) {
	return v.box.Clamp(p)
}

// IsInCube reports whether a homogeneous point lies inside the box.
func (v *View) IsInCube(q math3d.Vec4) bool {
	return v.box.ContainsHomogeneous(q)
}

// IntersectionLineCube returns where p + r·d leaves the box.
func (v *View) IntersectionLineCube(p, d math3d.Vec3, limit float64) float64 {
	return v.box.IntersectLine(p, d, limit)
}

// IntersectionPlanePlane clips the meet of two planes to the box.
func (v *View) IntersectionPlanePlane(a, b Plane) ClippedLine {
	return v.box.IntersectPlanes(a, b)
}

// IntersectionPlanePolyhedron cuts a polyhedron with a plane.
func (v *View) IntersectionPlanePolyhedron(pl Plane, ph *Polyhedron) Section {
	v.mu.Lock()
	defer v.unlock()
	return IntersectPlanePolyhedron(pl, ph, v.rng)
}

// GetMesh projects a sampled parametric surface.
func (v *View) GetMesh(f SurfaceFunc, u Range, uSteps int, vr Range, vSteps int) (xs, ys []float64) {
	return v.Projection().Mesh(f, u, uSteps, vr, vSteps)
}

// Box returns the world box of the view.
func (v *View) Box() Box {
	return v.box
}
