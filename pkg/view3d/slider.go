package view3d

import (
	"fmt"

	"github.com/taigrr/view3d/pkg/math3d"
)

// Slider is a bounded numeric control driving one angle. Hosts with their
// own widgets can supply implementations through WithSliders.
type Slider interface {
	Value() float64
	SetValue(v float64)
	Min() float64
	Max() float64
	SetRange(lo, hi float64)
}

// RangeSlider is the default in-memory Slider. Values are kept inside the
// range.
type RangeSlider struct {
	name     string
	min, max float64
	value    float64
}

// NewRangeSlider creates a slider with the given range and start value.
func NewRangeSlider(name string, lo, hi, start float64) *RangeSlider {
	s := &RangeSlider{name: name, min: lo, max: hi}
	s.SetValue(start)
	return s
}

func (s *RangeSlider) Value() float64 { return s.value }
func (s *RangeSlider) Min() float64   { return s.min }
func (s *RangeSlider) Max() float64   { return s.max }

func (s *RangeSlider) SetValue(v float64) {
	s.value = math3d.Clamp(v, s.min, s.max)
}

func (s *RangeSlider) SetRange(lo, hi float64) {
	s.min, s.max = lo, hi
	s.value = math3d.Clamp(s.value, lo, hi)
}

func (s *RangeSlider) String() string {
	return fmt.Sprintf("%s=%.4f [%.4f, %.4f]", s.name, s.value, s.min, s.max)
}

// Sliders groups the three angle sliders of a view.
type Sliders struct {
	Az, El, Bank Slider
}

func (s Sliders) ready() bool {
	return s.Az != nil && s.El != nil && s.Bank != nil
}

func (s Sliders) angles() Angles {
	return Angles{Az: s.Az.Value(), El: s.El.Value(), Bank: s.Bank.Value()}
}

func (s Sliders) set(a Angles) {
	s.Az.SetValue(a.Az)
	s.El.SetValue(a.El)
	s.Bank.SetValue(a.Bank)
}

func (s Sliders) setBounds(b Bounds) {
	s.Az.SetRange(b.Az.Min, b.Az.Max)
	s.El.SetRange(b.El.Min, b.El.Max)
	s.Bank.SetRange(b.Bank.Min, b.Bank.Max)
}
