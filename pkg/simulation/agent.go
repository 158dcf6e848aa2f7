package simulation

import (
	"image/color"
	"math"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
)

// Kinematics holds the motion constants an Agent is created with.
type Kinematics struct {
	BaseSpeed      float64
	TurnSpeed      float64 // radians per second
	MaxSpeedFactor float64
	SpeedRamp      float64 // 0 means the speed jumps to its target
}

// Agent is one fosh. Agents live in a flat slice owned by World and are referred
// to by their index, ID always equals that index.
type Agent struct {
	ID      int
	Pos     geometry.Vector2D
	Heading float64 // always in [0, 2π)
	Speed   float64
	Color   color.RGBA

	Kin Kinematics

	// Feeding is true while the agent is attracted by food.
	Feeding bool
	// sated counts down the seconds during which food is ignored.
	sated float64
}

// NewAgent creates an agent moving at the base speed.
func NewAgent(id int, pos geometry.Vector2D, heading float64, kin Kinematics, clr color.RGBA) Agent {
	return Agent{
		ID:      id,
		Pos:     pos,
		Heading: geometry.NormalizeAngle(heading),
		Speed:   kin.BaseSpeed,
		Color:   clr,
		Kin:     kin,
	}
}

// Direction is the unit vector of the current heading.
func (a *Agent) Direction() geometry.Vector2D {
	return geometry.FromAngle(a.Heading)
}

// Velocity is Speed times Direction.
func (a *Agent) Velocity() geometry.Vector2D {
	return a.Direction().Mul(a.Speed)
}

// DistanceTo gives the cartesian distance from this agent to p.
func (a *Agent) DistanceTo(p geometry.Vector2D) float64 {
	return a.Pos.DistanceTo(p)
}

// Sated reports whether the agent is still digesting its last meal.
func (a *Agent) Sated() bool {
	return a.sated > 0
}

// TurnBy rotates by delta, clamped to ±TurnSpeed·dt.
func (a *Agent) TurnBy(delta, dt float64) {
	limit := a.Kin.TurnSpeed * dt
	delta = math.Max(-limit, math.Min(limit, delta))
	a.Heading = geometry.NormalizeAngle(a.Heading + delta)
}

// TurnTo rotates toward target along the shorter arc, still bounded by TurnBy.
func (a *Agent) TurnTo(target, dt float64) {
	a.TurnBy(shortestTurn(a.Heading, target), dt)
}

// shortestTurn returns the signed rotation from heading to target with the smallest
// magnitude. On a tie the positive candidate wins.
func shortestTurn(heading, target float64) float64 {
	ccw := geometry.NormalizeAngle(target - heading)
	cw := ccw - geometry.TwoPi
	if math.Abs(cw) < math.Abs(ccw) {
		return cw
	}
	return ccw
}

// Advance integrates the position over dt.
func (a *Agent) Advance(dt float64) {
	a.Pos = a.Pos.Add(a.Velocity().Mul(dt))
}

// approachSpeed moves the speed toward target, either at once or ramped.
func (a *Agent) approachSpeed(target, dt float64) {
	if a.Kin.SpeedRamp <= 0 {
		a.Speed = target
		return
	}
	step := a.Kin.SpeedRamp * a.Kin.BaseSpeed * dt
	switch {
	case a.Speed < target:
		a.Speed = math.Min(target, a.Speed+step)
	case a.Speed > target:
		a.Speed = math.Max(target, a.Speed-step)
	}
}

// digest runs the satiety countdown.
func (a *Agent) digest(dt float64) {
	if a.sated > 0 {
		a.sated = math.Max(0, a.sated-dt)
	}
}
