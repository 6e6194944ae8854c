package view3d

import (
	"math"
	"strings"

	"github.com/taigrr/view3d/pkg/math3d"
)

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Key names understood by KeyDown.
const (
	KeyLeft     = "left"
	KeyRight    = "right"
	KeyUp       = "up"
	KeyDown     = "down"
	KeyPageUp   = "pgup"
	KeyPageDown = "pgdown"
)

// PointerEvent is a pointer press or move in screen pixels (y down).
type PointerEvent struct {
	X, Y                 float64
	MovementX, MovementY float64
	Button               int
	Mod                  Modifiers
	// Inside reports whether the pointer is over the view's container.
	Inside bool
}

// WheelEvent is a wheel step; positive DeltaY scrolls down.
type WheelEvent struct {
	DeltaY float64
	Mod    Modifiers
	Inside bool
}

// KeyEvent is a key press.
type KeyEvent struct {
	Key string
	Mod Modifiers
}

// Channel is a set of angle controls driven by the pointer.
type Channel uint8

const (
	ChannelAz Channel = 1 << iota
	ChannelEl
	ChannelBank
)

// InputKind tells which pointer interaction is in progress.
type InputKind int

const (
	InputNone InputKind = iota
	InputTrackball
	InputAngles
)

func (k InputKind) String() string {
	switch k {
	case InputTrackball:
		return "trackball"
	case InputAngles:
		return "angles"
	}
	return "none"
}

// ActiveInput is the pointer interaction started by the last pointer-down.
// Channels is only set for InputAngles. A trackball drag and the angle
// channels never run together.
type ActiveInput struct {
	Kind     InputKind
	Channels Channel
}

// Has reports whether the angle channel c is active.
func (a ActiveInput) Has(c Channel) bool {
	return a.Kind == InputAngles && a.Channels&c != 0
}

func (a ActiveInput) String() string {
	if a.Kind != InputAngles {
		return a.Kind.String()
	}
	var names []string
	for _, c := range []struct {
		ch   Channel
		name string
	}{{ChannelAz, "az"}, {ChannelEl, "el"}, {ChannelBank, "bank"}} {
		if a.Channels&c.ch != 0 {
			names = append(names, c.name)
		}
	}
	return "angles(" + strings.Join(names, ",") + ")"
}

// keyMatches checks a configured modifier requirement against mod.
func keyMatches(key string, mod Modifiers) bool {
	key = strings.ToLower(key)
	if key == "" || strings.Contains(key, "none") {
		return true
	}
	if strings.Contains(key, "shift") && mod&ModShift != 0 {
		return true
	}
	if strings.Contains(key, "ctrl") && mod&ModCtrl != 0 {
		return true
	}
	return false
}

func buttonMatches(want, got int) bool {
	return want == ButtonAny || want == got
}

// step moves val by delta inside r, wrapping or clamping at the ends.
func step(val, delta float64, r Range, continuous bool) float64 {
	val += delta
	if continuous {
		return math3d.Wrap(val, r.Min, r.Max)
	}
	return math3d.Clamp(val, r.Min, r.Max)
}

// PointerDown starts a pointer interaction. The trackball, when enabled,
// takes every drag; otherwise each matching angle channel joins.
func (v *View) PointerDown(ev PointerEvent) {
	v.mu.Lock()
	defer v.unlock()
	v.active = ActiveInput{}
	if v.board.DragActive() {
		return
	}

	if tb := v.cfg.Trackball; tb.Enabled {
		if buttonMatches(tb.Button, ev.Button) && keyMatches(tb.Key, ev.Mod) {
			v.active = ActiveInput{Kind: InputTrackball}
		}
		return
	}

	var ch Channel
	for _, a := range v.axes() {
		p := a.cfg.Pointer
		if p.Enabled && buttonMatches(p.Button, ev.Button) && keyMatches(p.Key, ev.Mod) {
			ch |= a.ch
		}
	}
	if ch != 0 {
		v.active = ActiveInput{Kind: InputAngles, Channels: ch}
	}
}

// PointerMove feeds a drag step to the active interaction.
func (v *View) PointerMove(ev PointerEvent) {
	v.mu.Lock()
	defer v.unlock()

	switch v.active.Kind {
	case InputTrackball:
		if !ev.Inside && !v.cfg.Trackball.Outside {
			return
		}
		c := v.board.UserToScreen(math3d.V2(v.corner.X+0.5*v.size.X, v.corner.Y+0.5*v.size.Y))
		drag := TrackballDrag{
			X:  ev.X - c.X,
			Y:  -(ev.Y - c.Y),
			DX: ev.MovementX,
			DY: -ev.MovementY,
		}
		if v.drag != nil {
			drag.DX += v.drag.DX
			drag.DY += v.drag.DY
		}
		v.drag = &drag
		v.invalidate()

	case InputAngles:
		w, h := v.board.CanvasSize()
		moved := false
		if v.active.Has(ChannelAz) && (ev.Inside || v.cfg.Az.Pointer.Outside) {
			s := v.sliders.Az
			delta := (s.Max() - s.Min()) / w * v.cfg.Az.Pointer.Speed * ev.MovementX
			s.SetValue(step(s.Value(), delta, Range{s.Min(), s.Max()}, v.cfg.Az.Continuous))
			moved = true
		}
		if v.active.Has(ChannelEl) && (ev.Inside || v.cfg.El.Pointer.Outside) {
			s := v.sliders.El
			delta := (s.Max() - s.Min()) / h * v.cfg.El.Pointer.Speed * ev.MovementY
			s.SetValue(step(s.Value(), delta, Range{s.Min(), s.Max()}, v.cfg.El.Continuous))
			moved = true
		}
		if moved {
			v.invalidate()
		}
	}
}

// Wheel turns the bank angle while the bank channel is active.
func (v *View) Wheel(ev WheelEvent) {
	v.mu.Lock()
	defer v.unlock()
	if !v.active.Has(ChannelBank) || (!ev.Inside && !v.cfg.Bank.Pointer.Outside) {
		return
	}
	_, h := v.board.CanvasSize()
	s := v.sliders.Bank
	delta := (s.Max() - s.Min()) / h * v.cfg.Bank.Pointer.Speed * ev.DeltaY
	s.SetValue(step(s.Value(), delta, Range{s.Min(), s.Max()}, v.cfg.Bank.Continuous))
	v.invalidate()
}

// PointerUp ends the current interaction. A trackball step not yet
// applied is still applied by the next Update.
func (v *View) PointerUp() {
	v.mu.Lock()
	defer v.unlock()
	v.active = ActiveInput{}
}

// KeyDown handles a key press and reports whether it was consumed.
// Arrow keys move azimuth and elevation, "<" "," and ">" "." the bank,
// and page up / page down step through the preset views.
func (v *View) KeyDown(ev KeyEvent) bool {
	v.mu.Lock()
	defer v.unlock()

	consumed := false
	for _, a := range v.axes() {
		k := a.cfg.Keyboard
		if !k.Enabled || !keyMatches(k.Key, ev.Mod) {
			continue
		}
		sign, ok := keyDirection(a.ch, ev.Key)
		if !ok {
			continue
		}
		delta := sign * k.Step * math.Pi / 180
		a.slider.SetValue(step(a.slider.Value(), delta, Range{a.slider.Min(), a.slider.Max()}, a.cfg.Continuous))
		consumed = true
	}

	switch ev.Key {
	case KeyPageUp:
		v.setCurrentView(v.currentView + 1)
		consumed = true
	case KeyPageDown:
		v.setCurrentView(v.currentView - 1)
		consumed = true
	}
	if consumed {
		v.invalidate()
	}
	return consumed
}

// keyDirection maps a key to the step direction of channel ch.
func keyDirection(ch Channel, key string) (float64, bool) {
	switch ch {
	case ChannelAz:
		switch key {
		case KeyRight:
			return 1, true
		case KeyLeft:
			return -1, true
		}
	case ChannelEl:
		switch key {
		case KeyUp:
			return -1, true
		case KeyDown:
			return 1, true
		}
	case ChannelBank:
		switch key {
		case "<", ",":
			return -1, true
		case ">", ".":
			return 1, true
		}
	}
	return 0, false
}

type axis struct {
	ch     Channel
	cfg    AxisConfig
	slider Slider
}

func (v *View) axes() [3]axis {
	return [3]axis{
		{ChannelAz, v.cfg.Az, v.sliders.Az},
		{ChannelEl, v.cfg.El, v.sliders.El},
		{ChannelBank, v.cfg.Bank, v.sliders.Bank},
	}
}
