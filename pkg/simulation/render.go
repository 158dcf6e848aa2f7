package simulation

import (
	"image/color"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
)

// Renderer is the display the world draws itself on, once per tick.
type Renderer interface {
	Fill(c color.Color)
	DrawAgent(pos geometry.Vector2D, heading float64, c color.Color)
	DrawFood(pos geometry.Vector2D, size float64, c color.Color)
	// Present shows the frame and reports whether the display is still open.
	Present() bool
}

// Palette colours
var (
	BackgroundColor = color.RGBA{R: 0x0B, G: 0x18, B: 0x2A, A: 0xFF}
	HighlightColor  = color.RGBA{R: 0xF8, G: 0x70, B: 0x60, A: 0xFF}
	FoodColor       = color.RGBA{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}
	AccentColors    = []color.RGBA{
		{R: 0xEF, G: 0xC7, B: 0xC2, A: 0xFF},
		{R: 0xCD, G: 0xD7, B: 0xD6, A: 0xFF},
		{R: 0xFF, G: 0xE5, B: 0xD4, A: 0xFF},
	}
)
