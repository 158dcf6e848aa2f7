package game

import (
	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/ui"
)

// controls are the panel widgets the game reads back.
type controls struct {
	separation, alignment, cohesion, food *ui.Slider

	viewDistance, numNeighbors *ui.Slider
	countNeighbors             *ui.Checkbox

	numAgents *ui.Slider
	highlight *ui.Checkbox
	wrap      *ui.Checkbox
	sprinkle  *ui.Checkbox
}

func newPanel(cfg *simulation.Config, restart func()) (*ui.UIPanel, controls) {
	panel := ui.NewUIPanel(10, 10, 280, float64(cfg.Height)-20)
	var c controls

	panel.AddSection("Flocking Weights (Restart Required)")
	c.separation = panel.AddSlider("Separation", 0, 5, cfg.SeparationWeight)
	c.alignment = panel.AddSlider("Alignment", 0, 5, cfg.AlignmentWeight)
	c.cohesion = panel.AddSlider("Cohesion", 0, 5, cfg.CohesionWeight)
	c.food = panel.AddSlider("Food", 0, 5, cfg.FoodWeight)
	panel.EndSection()

	panel.AddSection("Neighbours (Restart Required)")
	c.countNeighbors = panel.AddCheckbox("Nearest N instead of radius", cfg.NeighborPolicy == simulation.NeighborCount)
	c.viewDistance = panel.AddSlider("View Distance", 10, 400, cfg.ViewDistance)
	c.numNeighbors = panel.AddIntSlider("Neighbours", 1, 50, cfg.NumNeighbors)
	panel.EndSection()

	panel.AddSection("Population (Restart Required)")
	c.numAgents = panel.AddIntSlider("Agents", 1, 1000, cfg.NumAgents)
	c.highlight = panel.AddCheckbox("Highlight one agent", cfg.Highlight)
	c.wrap = panel.AddCheckbox("Wrap at the edges", cfg.EdgePolicy == simulation.EdgeWrap)
	c.sprinkle = panel.AddCheckbox("Sprinkle food", cfg.Food.SpawnPolicy == simulation.SpawnSprinkle)
	panel.AddButton("Restart", restart)
	panel.EndSection()

	return panel, c
}

// apply returns a validated copy of base carrying every panel value.
func (c controls) apply(base *simulation.Config) (*simulation.Config, error) {
	cfg := base.Clone()
	cfg.SeparationWeight = c.separation.Value
	cfg.AlignmentWeight = c.alignment.Value
	cfg.CohesionWeight = c.cohesion.Value
	cfg.FoodWeight = c.food.Value

	cfg.NeighborPolicy = simulation.NeighborRadius
	if c.countNeighbors.Value {
		cfg.NeighborPolicy = simulation.NeighborCount
	}
	cfg.ViewDistance = c.viewDistance.Value
	cfg.NumNeighbors = c.numNeighbors.Int()

	cfg.NumAgents = c.numAgents.Int()
	cfg.Highlight = c.highlight.Value
	cfg.EdgePolicy = simulation.EdgeAvoid
	if c.wrap.Value {
		cfg.EdgePolicy = simulation.EdgeWrap
	}
	cfg.Food.SpawnPolicy = simulation.SpawnLeastDense
	if c.sprinkle.Value {
		cfg.Food.SpawnPolicy = simulation.SpawnSprinkle
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
