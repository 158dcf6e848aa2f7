package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider edits a float in [Min, Max] by dragging across its bar.
type Slider struct {
	Rect
	Label    string
	Value    float64
	Min, Max float64
	Step     float64 // 0 means continuous
}

// NewSlider creates a slider of width w, the value is clamped into range.
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Rect:  Rect{X: x, Y: y, W: w, H: 14},
		Label: label,
		Min:   min,
		Max:   max,
	}
	s.Value = s.snap(value)
	return s
}

// ValueAt maps a horizontal screen position to a slider value.
func (s *Slider) ValueAt(x float64) float64 {
	p := (x - s.X) / s.W
	return s.snap(s.Min + p*(s.Max-s.Min))
}

func (s *Slider) snap(v float64) float64 {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Int returns the value rounded to the nearest integer.
func (s *Slider) Int() int {
	return int(math.Round(s.Value))
}

func (s *Slider) Update(in Input) {
	if in.Pressed && s.Contains(in.X, in.Y) {
		s.Value = s.ValueAt(in.X)
	}
}

func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}

func (s *Slider) Height() float64 { return s.H + 25 } // bar + caption

func (s *Slider) Text() string {
	if s.Step >= 1 {
		return fmt.Sprintf("%s: %d", s.Label, s.Int())
	}
	return fmt.Sprintf("%s: %.2f", s.Label, s.Value)
}

func (s *Slider) moveTo(y float64) { s.Y = y }
