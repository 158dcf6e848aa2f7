package render

import (
	"image/color"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
)

// Headless is a display that draws nothing. It counts what the world asked it to
// draw. World.Run presents once before every tick, so a Headless closes after
// MaxTicks ticks (0 means never).
type Headless struct {
	MaxTicks uint64

	frames uint64
	agents int
	food   int
}

func NewHeadless(maxTicks uint64) *Headless {
	return &Headless{MaxTicks: maxTicks}
}

func (h *Headless) Fill(color.Color) {
	h.agents, h.food = 0, 0
}

func (h *Headless) DrawAgent(geometry.Vector2D, float64, color.Color) { h.agents++ }

func (h *Headless) DrawFood(geometry.Vector2D, float64, color.Color) { h.food++ }

func (h *Headless) Present() bool {
	h.frames++
	return h.MaxTicks == 0 || h.frames <= h.MaxTicks
}

// Frames is the number of presented frames.
func (h *Headless) Frames() uint64 { return h.frames }

// LastFrame returns how many agents and food items the last frame held.
func (h *Headless) LastFrame() (agents, food int) { return h.agents, h.food }
