package view3d

import (
	"math"
	"testing"

	"github.com/taigrr/view3d/pkg/math3d"
)

func TestKeyMatches(t *testing.T) {
	tests := []struct {
		key  string
		mod  Modifiers
		want bool
	}{
		{"none", 0, true},
		{"none", ModShift, true},
		{"", ModCtrl, true},
		{"shift", 0, false},
		{"shift", ModShift, true},
		{"ctrl", ModShift, false},
		{"Ctrl", ModCtrl | ModAlt, true},
	}

	for _, tc := range tests {
		if got := keyMatches(tc.key, tc.mod); got != tc.want {
			t.Errorf("keyMatches(%q, %v) = %v, want %v", tc.key, tc.mod, got, tc.want)
		}
	}
}

func TestPointerDownSelectsInput(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Config)
		ev    PointerEvent
		drag  bool
		want  ActiveInput
	}{
		{
			name: "all angle channels",
			ev:   PointerEvent{Button: ButtonLeft},
			want: ActiveInput{Kind: InputAngles, Channels: ChannelAz | ChannelEl | ChannelBank},
		},
		{
			name:  "trackball takes over",
			setup: func(c *Config) { c.Trackball.Enabled = true },
			ev:    PointerEvent{Button: ButtonLeft},
			want:  ActiveInput{Kind: InputTrackball},
		},
		{
			name: "trackball button mismatch",
			setup: func(c *Config) {
				c.Trackball.Enabled = true
				c.Trackball.Button = ButtonLeft
			},
			ev:   PointerEvent{Button: ButtonRight},
			want: ActiveInput{},
		},
		{
			name:  "modifier gates a channel",
			setup: func(c *Config) { c.Az.Pointer.Key = "shift" },
			ev:    PointerEvent{Button: ButtonLeft},
			want:  ActiveInput{Kind: InputAngles, Channels: ChannelEl | ChannelBank},
		},
		{
			name:  "modifier held",
			setup: func(c *Config) { c.Az.Pointer.Key = "shift" },
			ev:    PointerEvent{Button: ButtonLeft, Mod: ModShift},
			want:  ActiveInput{Kind: InputAngles, Channels: ChannelAz | ChannelEl | ChannelBank},
		},
		{
			name: "all channels disabled",
			setup: func(c *Config) {
				c.Az.Pointer.Enabled = false
				c.El.Pointer.Enabled = false
				c.Bank.Pointer.Enabled = false
			},
			ev:   PointerEvent{Button: ButtonLeft},
			want: ActiveInput{},
		},
		{
			name: "board drag blocks",
			ev:   PointerEvent{Button: ButtonLeft},
			drag: true,
			want: ActiveInput{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tc.setup != nil {
				tc.setup(&cfg)
			}
			v, board := newTestView(t, cfg)
			board.drag = tc.drag

			v.PointerDown(tc.ev)
			if got := v.ActiveInput(); got != tc.want {
				t.Errorf("active = %v, want %v", got, tc.want)
			}
			v.PointerUp()
			if got := v.ActiveInput(); got.Kind != InputNone {
				t.Errorf("after pointer up active = %v", got)
			}
		})
	}
}

func TestPointerMoveAngles(t *testing.T) {
	v, _ := newTestView(t, DefaultConfig())

	v.PointerDown(PointerEvent{Button: ButtonLeft, Inside: true})
	v.PointerMove(PointerEvent{MovementX: 40, MovementY: 20, Inside: true})
	v.Update()

	a := v.Angles()
	// The full slider range spans the canvas: 400 px for 2π and π/2.
	if want := 1 + 2*math.Pi/400*40; math.Abs(a.Az-want) > 1e-12 {
		t.Errorf("az = %v, want %v", a.Az, want)
	}
	if want := 0.3 + math.Pi/2/400*20; math.Abs(a.El-want) > 1e-12 {
		t.Errorf("el = %v, want %v", a.El, want)
	}
	if !v.Projection().Rotation.ApproxEqual(RotationFromAngles(a), 1e-15) {
		t.Error("rotation not rebuilt from slider angles")
	}
}

func TestPointerMoveOutside(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Az.Pointer.Outside = false
	v, _ := newTestView(t, cfg)

	v.PointerDown(PointerEvent{Button: ButtonLeft, Inside: true})
	v.PointerMove(PointerEvent{MovementX: 40, MovementY: 20, Inside: false})
	v.Update()

	a := v.Angles()
	if a.Az != 1 {
		t.Errorf("az moved outside the view: %v", a.Az)
	}
	if a.El == 0.3 {
		t.Error("el did not move although outside tracking is on")
	}
}

func TestPointerMoveWrapsAndClamps(t *testing.T) {
	tests := []struct {
		name       string
		continuous bool
		want       float64
	}{
		// 0.3 + π/2 · 1.5 wraps back by π/2.
		{"continuous", true, 0.3 + math.Pi/4},
		{"bounded", false, math.Pi / 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.El.Continuous = tc.continuous
			v, _ := newTestView(t, cfg)

			v.PointerDown(PointerEvent{Button: ButtonLeft})
			v.PointerMove(PointerEvent{MovementY: 600, Inside: true})
			v.Update()
			if got := v.Angles().El; math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("el = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWheelBank(t *testing.T) {
	v, _ := newTestView(t, DefaultConfig())

	// Without an active bank channel the wheel does nothing.
	v.Wheel(WheelEvent{DeltaY: 100, Inside: true})
	v.Update()
	if b := v.Angles().Bank; b != 0 {
		t.Fatalf("bank = %v without a pointer press", b)
	}

	v.PointerDown(PointerEvent{Button: ButtonLeft})
	v.Wheel(WheelEvent{DeltaY: 100, Inside: true})
	v.Update()
	if want := 2 * math.Pi / 400 * 0.08 * 100; math.Abs(v.Angles().Bank-want) > 1e-12 {
		t.Errorf("bank = %v, want %v", v.Angles().Bank, want)
	}
}

func TestTrackballDragUpdatesAngles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trackball.Enabled = true
	v, board := newTestView(t, cfg)
	before := v.Projection().Rotation

	v.PointerDown(PointerEvent{Button: ButtonLeft, Inside: true})
	if v.ActiveInput().Kind != InputTrackball {
		t.Fatal("trackball not active")
	}

	// A zero-length move leaves the rotation alone.
	v.PointerMove(PointerEvent{X: 200, Y: 200, Inside: true})
	v.Update()
	if got := v.Projection().Rotation; got != before {
		t.Error("zero drag changed the rotation")
	}

	updates := board.updates.Load()
	v.PointerMove(PointerEvent{X: 230, Y: 190, MovementX: 30, MovementY: -10, Inside: true})
	if board.updates.Load() == updates {
		t.Error("drag did not request a redraw")
	}
	v.Update()

	after := v.Projection().Rotation
	if after.ApproxEqual(before, 1e-6) {
		t.Fatal("drag did not rotate the view")
	}
	// The sliders and stored angles describe the new rotation.
	a := v.Angles()
	if !RotationFromAngles(a).ApproxEqual(after, 1e-9) {
		t.Errorf("angles %+v do not match the trackball rotation", a)
	}
	s := v.Sliders()
	if s.Az.Value() != a.Az || s.El.Value() != a.El || s.Bank.Value() != a.Bank {
		t.Error("sliders not synced to trackball rotation")
	}

	// The applied step is consumed.
	v.Invalidate()
	v.Update()
	if got := v.Projection().Rotation; got != after {
		t.Error("trackball step applied twice")
	}
	v.PointerUp()
}

func TestKeyDown(t *testing.T) {
	step := 10 * math.Pi / 180

	tests := []struct {
		name     string
		setup    func(*Config)
		ev       KeyEvent
		consumed bool
		want     Angles
	}{
		{"right", nil, KeyEvent{Key: KeyRight}, true, Angles{Az: 1 + step, El: 0.3}},
		{"left", nil, KeyEvent{Key: KeyLeft}, true, Angles{Az: 1 - step, El: 0.3}},
		{"up", nil, KeyEvent{Key: KeyUp}, true, Angles{Az: 1, El: 0.3 - step}},
		{"down", nil, KeyEvent{Key: KeyDown}, true, Angles{Az: 1, El: 0.3 + step}},
		{"bank left", nil, KeyEvent{Key: "<"}, true, Angles{Az: 1, El: 0.3, Bank: -step}},
		{"bank right", nil, KeyEvent{Key: "."}, true, Angles{Az: 1, El: 0.3, Bank: step}},
		{"unbound key", nil, KeyEvent{Key: "x"}, false, Angles{Az: 1, El: 0.3}},
		{
			"modifier required",
			func(c *Config) { c.Az.Keyboard.Key = "ctrl" },
			KeyEvent{Key: KeyRight}, false, Angles{Az: 1, El: 0.3},
		},
		{
			"modifier held",
			func(c *Config) { c.Az.Keyboard.Key = "ctrl" },
			KeyEvent{Key: KeyRight, Mod: ModCtrl}, true, Angles{Az: 1 + step, El: 0.3},
		},
		{
			"keyboard disabled",
			func(c *Config) { c.El.Keyboard.Enabled = false },
			KeyEvent{Key: KeyUp}, false, Angles{Az: 1, El: 0.3},
		},
		{
			"coarser step",
			func(c *Config) { c.Az.Keyboard.Step = 30 },
			KeyEvent{Key: KeyRight}, true, Angles{Az: 1 + math.Pi/6, El: 0.3},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tc.setup != nil {
				tc.setup(&cfg)
			}
			v, _ := newTestView(t, cfg)

			if got := v.KeyDown(tc.ev); got != tc.consumed {
				t.Errorf("consumed = %v, want %v", got, tc.consumed)
			}
			v.Update()
			a := v.Angles()
			if math.Abs(a.Az-tc.want.Az) > 1e-12 || math.Abs(a.El-tc.want.El) > 1e-12 || math.Abs(a.Bank-tc.want.Bank) > 1e-12 {
				t.Errorf("angles = %+v, want %+v", a, tc.want)
			}
		})
	}
}

func TestKeyDownWrapsElevation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.El.Slider.Start = 0.05
	v, _ := newTestView(t, cfg)

	v.KeyDown(KeyEvent{Key: KeyUp})
	v.Update()
	want := math3d.Wrap(0.05-10*math.Pi/180, 0, math.Pi/2)
	if got := v.Angles().El; math.Abs(got-want) > 1e-12 {
		t.Errorf("el = %v, want %v", got, want)
	}
}

func TestKeyDownPagesViews(t *testing.T) {
	v, _ := newTestView(t, DefaultConfig())

	if !v.KeyDown(KeyEvent{Key: KeyPageUp}) {
		t.Fatal("page up not consumed")
	}
	if got := v.CurrentView(); got != 1 {
		t.Errorf("current view = %d, want 1", got)
	}
	v.KeyDown(KeyEvent{Key: KeyPageDown})
	v.KeyDown(KeyEvent{Key: KeyPageDown})
	if got := v.CurrentView(); got != 3 {
		t.Errorf("current view = %d, want 3", got)
	}
	v.Update()
	want := DefaultConfig().Values[3]
	if a := v.Angles(); math.Abs(a.Az-want.Az) > 1e-12 || math.Abs(a.El-want.El) > 1e-12 {
		t.Errorf("angles = %+v, want preset %+v", a, want)
	}
}

func TestActiveInputString(t *testing.T) {
	tests := []struct {
		in   ActiveInput
		want string
	}{
		{ActiveInput{}, "none"},
		{ActiveInput{Kind: InputTrackball}, "trackball"},
		{ActiveInput{Kind: InputAngles, Channels: ChannelAz | ChannelBank}, "angles(az,bank)"},
	}
	for _, tc := range tests {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
