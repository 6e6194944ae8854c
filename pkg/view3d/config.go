package view3d

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Distance is the camera distance of a central projection: either a fixed
// value or derived from the box diagonal. In JSON it is the string "auto"
// or a number.
type Distance struct {
	Auto  bool
	Value float64
}

// AutoDistance returns the automatic distance.
func AutoDistance() Distance { return Distance{Auto: true} }

// FixedDistance returns a fixed camera distance.
func FixedDistance(r float64) Distance { return Distance{Value: r} }

// IsZero reports whether d is unset.
func (d Distance) IsZero() bool { return !d.Auto && d.Value == 0 }

// Resolve returns the distance for box b.
func (d Distance) Resolve(b Box) float64 {
	if d.Auto {
		return autoDistanceFactor * b.Diagonal()
	}
	return d.Value
}

func (d Distance) String() string {
	if d.Auto {
		return "auto"
	}
	return fmt.Sprintf("%g", d.Value)
}

func (d Distance) MarshalJSON() ([]byte, error) {
	if d.Auto {
		return []byte(`"auto"`), nil
	}
	return json.Marshal(d.Value)
}

func (d *Distance) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return d.Set(s)
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("distance: %w", err)
	}
	*d = FixedDistance(v)
	return nil
}

// Set parses "auto" or a number. It lets Distance serve as a flag value.
func (d *Distance) Set(s string) error {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") {
		*d = AutoDistance()
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("distance: want \"auto\" or a number, got %q", s)
	}
	*d = FixedDistance(v)
	return nil
}

// Type names the flag value type.
func (d *Distance) Type() string { return "distance" }

// Button numbers follow the DOM convention; ButtonAny matches every button.
const (
	ButtonAny    = -1
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2
)

// SliderConfig is the range and start value of one angle slider.
type SliderConfig struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Start float64 `json:"start"`
}

// PointerConfig binds pointer drags (or the wheel, for bank) to an angle.
type PointerConfig struct {
	Enabled bool    `json:"enabled"`
	Speed   float64 `json:"speed"`
	Button  int     `json:"button"`
	// Key is the required modifier: "none", "shift" or "ctrl".
	Key string `json:"key"`
	// Outside keeps the channel tracking while the pointer leaves the view.
	Outside bool `json:"outside"`
}

// KeyboardConfig binds keys to an angle. Step is in degrees.
type KeyboardConfig struct {
	Enabled bool    `json:"enabled"`
	Step    float64 `json:"step"`
	Key     string  `json:"key"`
}

// AxisConfig configures one of the az, el or bank controls.
type AxisConfig struct {
	Slider   SliderConfig   `json:"slider"`
	Pointer  PointerConfig  `json:"pointer"`
	Keyboard KeyboardConfig `json:"keyboard"`
	// Continuous wraps the value at the slider ends instead of clamping.
	Continuous bool `json:"continuous"`
}

// TrackballConfig configures the virtual trackball.
type TrackballConfig struct {
	Enabled bool   `json:"enabled"`
	Button  int    `json:"button"`
	Key     string `json:"key"`
	Outside bool   `json:"outside"`
}

// DepthOrderConfig enables back-to-front ordering of registered elements.
type DepthOrderConfig struct {
	Enabled bool `json:"enabled"`
}

// TransitionConfig configures spring-animated moves between preset views.
type TransitionConfig struct {
	Enabled   bool    `json:"enabled"`
	FPS       int     `json:"fps"`
	Frequency float64 `json:"frequency"`
	Damping   float64 `json:"damping"`
}

// Preset is a named view: azimuth, elevation and optionally a distance.
// In JSON it is written as [az, el] or [az, el, r].
type Preset struct {
	Az, El float64
	R      Distance
}

func (p Preset) MarshalJSON() ([]byte, error) {
	if p.R.IsZero() {
		return json.Marshal([]float64{p.Az, p.El})
	}
	return json.Marshal([]any{p.Az, p.El, p.R})
}

func (p *Preset) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	if len(raw) < 2 || len(raw) > 3 {
		return fmt.Errorf("preset: want [az, el] or [az, el, r], got %d values", len(raw))
	}
	var out Preset
	if err := json.Unmarshal(raw[0], &out.Az); err != nil {
		return fmt.Errorf("preset az: %w", err)
	}
	if err := json.Unmarshal(raw[1], &out.El); err != nil {
		return fmt.Errorf("preset el: %w", err)
	}
	if len(raw) == 3 {
		if err := json.Unmarshal(raw[2], &out.R); err != nil {
			return fmt.Errorf("preset r: %w", err)
		}
	}
	*p = out
	return nil
}

// Config is the complete configuration of a View.
type Config struct {
	Projection  ProjectionType   `json:"projection"`
	FOV         float64          `json:"fov"`
	R           Distance         `json:"r"`
	Trackball   TrackballConfig  `json:"trackball"`
	Az          AxisConfig       `json:"az"`
	El          AxisConfig       `json:"el"`
	Bank        AxisConfig       `json:"bank"`
	Values      []Preset         `json:"values"`
	CurrentView int              `json:"current_view"`
	DepthOrder  DepthOrderConfig `json:"depth_order"`
	Transition  TransitionConfig `json:"transition"`
}

// DefaultConfig returns the stock view configuration.
func DefaultConfig() Config {
	axis := func(lo, hi, start, speed float64) AxisConfig {
		return AxisConfig{
			Slider:     SliderConfig{Min: lo, Max: hi, Start: start},
			Pointer:    PointerConfig{Enabled: true, Speed: speed, Button: ButtonAny, Key: "none", Outside: true},
			Keyboard:   KeyboardConfig{Enabled: true, Step: 10, Key: "none"},
			Continuous: true,
		}
	}
	return Config{
		Projection: Parallel,
		FOV:        2 * math.Pi / 5,
		R:          AutoDistance(),
		Trackball:  TrackballConfig{Button: ButtonAny, Key: "none", Outside: true},
		Az:         axis(0, 2*math.Pi, 1.0, 1),
		El:         axis(0, 0.5*math.Pi, 0.3, 1),
		Bank:       axis(-math.Pi, math.Pi, 0, 0.08),
		Values: []Preset{
			{Az: 0.75 * math.Pi, El: 0.25 * math.Pi},
			{Az: 0, El: 0},
			{Az: 0.5 * math.Pi, El: 0},
			{Az: 0, El: 0.5 * math.Pi},
		},
		Transition: TransitionConfig{FPS: 60, Frequency: 6, Damping: 1},
	}
}

// LoadConfig reads a JSON config file over DefaultConfig. Fields absent
// from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the ranges a View relies on.
func (c Config) Validate() error {
	var errs []error
	if !(c.FOV > 0 && c.FOV < math.Pi) {
		errs = append(errs, fmt.Errorf("fov %g outside (0, π)", c.FOV))
	}
	if !c.R.Auto && c.R.Value <= 0 {
		errs = append(errs, fmt.Errorf("camera distance %g must be positive", c.R.Value))
	}
	for _, a := range []struct {
		name string
		cfg  AxisConfig
	}{{"az", c.Az}, {"el", c.El}, {"bank", c.Bank}} {
		if !(a.cfg.Slider.Min < a.cfg.Slider.Max) {
			errs = append(errs, fmt.Errorf("%s slider: min %g not below max %g", a.name, a.cfg.Slider.Min, a.cfg.Slider.Max))
		}
	}
	if c.Transition.Enabled && c.Transition.FPS <= 0 {
		errs = append(errs, fmt.Errorf("transition fps %d must be positive", c.Transition.FPS))
	}
	return errors.Join(errs...)
}

// sliderBounds returns the configured slider ranges.
func (c Config) sliderBounds() Bounds {
	return Bounds{
		Az:   Range{c.Az.Slider.Min, c.Az.Slider.Max},
		El:   Range{c.El.Slider.Min, c.El.Slider.Max},
		Bank: Range{c.Bank.Slider.Min, c.Bank.Slider.Max},
	}
}
