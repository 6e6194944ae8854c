package view3d

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/view3d/pkg/math3d"
)

// Azimuth animation steps.
const (
	azimuthInterval = 200 * time.Millisecond
	azimuthStep     = 0.1
)

// StartAzimuthAnimation turns the azimuth by a fixed step every 200ms until
// StopAzimuthAnimation or Close. Past the slider maximum it restarts at
// the minimum.
func (v *View) StartAzimuthAnimation() {
	v.mu.Lock()
	defer v.unlock()
	v.startAzimuth()
}

func (v *View) startAzimuth() {
	if v.azTimer != nil {
		return
	}
	v.azGen++
	v.scheduleAzimuth(v.azGen)
}

// scheduleAzimuth arms the next step of animation chain gen.
func (v *View) scheduleAzimuth(gen uint64) {
	v.azTimer = time.AfterFunc(azimuthInterval, func() { v.animateAzimuth(gen) })
}

// StopAzimuthAnimation cancels the azimuth animation.
func (v *View) StopAzimuthAnimation() {
	v.mu.Lock()
	defer v.unlock()
	v.stopAzimuth()
}

// Animating reports whether the azimuth animation is running.
func (v *View) Animating() bool {
	v.mu.Lock()
	defer v.unlock()
	return v.azTimer != nil
}

func (v *View) stopAzimuth() {
	if v.azTimer != nil {
		v.azTimer.Stop()
		v.azTimer = nil
	}
}

// animateAzimuth runs one step of chain gen. A step from a chain that was
// stopped, possibly restarted since, does nothing.
func (v *View) animateAzimuth(gen uint64) {
	v.mu.Lock()
	defer v.unlock()
	if v.azTimer == nil || gen != v.azGen {
		return
	}
	s := v.sliders.Az
	az := s.Value() + azimuthStep
	if az > s.Max() {
		az = s.Min()
	}
	s.SetValue(az)
	v.invalidate()
	v.scheduleAzimuth(gen)
}

// Tick advances a preset-view transition by one frame and reports whether
// it is still running. Boards call it at the transition frame rate.
func (v *View) Tick() bool {
	v.mu.Lock()
	defer v.unlock()
	if !v.glide.Active() {
		return false
	}
	az, el, done := v.glide.Step()
	if !done && v.cfg.Az.Continuous {
		az = math3d.Wrap(az, v.sliders.Az.Min(), v.sliders.Az.Max())
	}
	v.sliders.Az.SetValue(az)
	v.sliders.El.SetValue(el)
	v.invalidate()
	return !done
}

// settleTolerance ends a glide once position and velocity are this small.
const settleTolerance = 1e-4

type springAxis struct {
	pos, vel, target float64
}

func (a *springAxis) settled() bool {
	return math.Abs(a.pos-a.target) < settleTolerance && math.Abs(a.vel) < settleTolerance
}

// Glide eases azimuth and elevation toward a preset view with critically
// damped springs.
type Glide struct {
	spring harmonica.Spring
	az, el springAxis
	// goalAz is the preset azimuth as configured; az.target may differ from
	// it by whole turns.
	goalAz float64
	active bool
}

// NewGlide creates a glide from the transition settings.
func NewGlide(cfg TransitionConfig) *Glide {
	fps := cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	freq, damp := cfg.Frequency, cfg.Damping
	if freq <= 0 {
		freq = 6
	}
	if damp <= 0 {
		damp = 1
	}
	return &Glide{spring: harmonica.NewSpring(harmonica.FPS(fps), freq, damp)}
}

// Start begins a glide from the orientation from to (az, el). The azimuth
// takes the shorter way round.
func (g *Glide) Start(from Angles, az, el float64) {
	g.goalAz = az
	g.az = springAxis{pos: from.Az, target: from.Az + math3d.Wrap(az-from.Az, -math.Pi, math.Pi)}
	g.el = springAxis{pos: from.El, target: el}
	g.active = true
}

// Step advances the springs one frame. When they settle it returns the
// exact goal and done == true.
func (g *Glide) Step() (az, el float64, done bool) {
	g.az.pos, g.az.vel = g.spring.Update(g.az.pos, g.az.vel, g.az.target)
	g.el.pos, g.el.vel = g.spring.Update(g.el.pos, g.el.vel, g.el.target)
	if g.az.settled() && g.el.settled() {
		g.active = false
		return g.goalAz, g.el.target, true
	}
	return g.az.pos, g.el.pos, false
}

// Stop abandons the glide.
func (g *Glide) Stop() { g.active = false }

// Active reports whether a glide is in progress.
func (g *Glide) Active() bool { return g.active }
