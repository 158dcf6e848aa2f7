package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox toggles a boolean, once per click.
type Checkbox struct {
	Rect
	Label string
	Value bool
}

func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Rect:  Rect{X: x, Y: y, W: 16, H: 16},
		Label: label,
		Value: value,
	}
}

func (c *Checkbox) Update(in Input) {
	if in.JustPressed && c.Contains(in.X, in.Y) {
		c.Value = !c.Value
	}
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.W), float32(c.H),
		2,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		true)

	if c.Value {
		vector.FillRect(screen,
			float32(c.X+2), float32(c.Y+2),
			float32(c.W-4), float32(c.H-4),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
}

func (c *Checkbox) Height() float64 { return c.H + 20 }

func (c *Checkbox) Text() string { return c.Label }

func (c *Checkbox) moveTo(y float64) { c.Y = y }
