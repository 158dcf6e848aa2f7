package simulation

import (
	"slices"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
)

// Snapshot is an immutable copy of the world state, safe to hand to another goroutine.
type Snapshot struct {
	Tick    uint64
	SimTime float64
	Size    geometry.Vector2D
	Agents  []Agent
	Food    []FoodItem
	Eaten   int
	Feeding int // agents currently attracted by food
}

// Snapshot copies the current state.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Tick:    w.ticks,
		SimTime: w.simTime,
		Size:    w.bounds.Size(),
		Agents:  slices.Clone(w.agents),
		Food:    slices.Clone(w.food.Items()),
		Eaten:   w.eaten,
	}
	for i := range s.Agents {
		if s.Agents[i].Feeding {
			s.Feeding++
		}
	}
	return s
}

// Draw renders the snapshot exactly like World.Draw would have at that tick.
func (s *Snapshot) Draw(r Renderer) bool {
	return drawScene(r, s.Agents, s.Food)
}
