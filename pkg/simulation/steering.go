package simulation

import (
	"math"
	"slices"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
)

// Frame is the read-only view of the world every agent decides from during one tick.
// Agents and Food are copies taken before anybody moved.
type Frame struct {
	Agents []Agent
	Food   []FoodItem
	Size   geometry.Vector2D

	grid *spatialGrid
}

// NewFrame copies agents and food and indexes the agents.
func NewFrame(agents []Agent, food []FoodItem, size geometry.Vector2D, cellSize float64) *Frame {
	f := &Frame{grid: newSpatialGrid(cellSize)}
	f.reset(agents, food, size)
	return f
}

func (f *Frame) reset(agents []Agent, food []FoodItem, size geometry.Vector2D) {
	f.Agents = append(f.Agents[:0], agents...)
	f.Food = append(f.Food[:0], food...)
	f.Size = size
	f.grid.rebuild(f.Agents)
}

// Forces are the individual steering contributions for one agent, each already
// normalized (or zero).
type Forces struct {
	Cohesion   geometry.Vector2D
	Alignment  geometry.Vector2D
	Separation geometry.Vector2D
	Crowding   geometry.Vector2D
	Walls      geometry.Vector2D
	Food       geometry.Vector2D

	Neighbors int
	HasFood   bool // at least one food item exists
	Attracted bool // nearest food is within attraction distance
}

// Decision is what an agent wants to do this tick.
type Decision struct {
	Heading float64
	Speed   float64
	Feeding bool
}

// Steering combines the flocking rules into a desired heading.
type Steering struct {
	cfg   *Config
	query NeighborQuery
}

func NewSteering(cfg *Config) *Steering {
	return &Steering{cfg: cfg, query: NewNeighborQuery(cfg)}
}

// Reorient computes the decision for the agent at index i. The frame is not modified.
func (s *Steering) Reorient(i int, f *Frame) Decision {
	a := &f.Agents[i]
	forces := s.Forces(i, f)

	d := Decision{
		Heading: a.Heading,
		Speed:   a.Kin.BaseSpeed,
		Feeding: forces.Attracted,
	}
	if forces.Attracted {
		d.Speed = a.Kin.BaseSpeed * a.Kin.MaxSpeedFactor
	}

	sum := s.Combine(forces)
	if !sum.IsZero() {
		d.Heading = geometry.NormalizeAngle(sum.Angle())
	}
	return d
}

// Combine weighs the forces and returns the normalized steering direction.
func (s *Steering) Combine(fc Forces) geometry.Vector2D {
	sum := fc.Walls.
		Add(fc.Separation.Mul(s.cfg.SeparationWeight)).
		Add(fc.Cohesion.Mul(s.cfg.CohesionWeight)).
		Add(fc.Alignment.Mul(s.cfg.AlignmentWeight)).
		Add(fc.Crowding)
	if fc.HasFood {
		sum = sum.Add(fc.Food.Mul(s.cfg.FoodWeight))
	}
	return sum.Normalize()
}

// Forces evaluates every rule for the agent at index i.
func (s *Steering) Forces(i int, f *Frame) Forces {
	a := &f.Agents[i]
	var fc Forces

	neighbors := s.query.Neighbors(i, f)
	fc.Neighbors = len(neighbors)
	if len(neighbors) > 0 {
		var avgPos, avgDir, avoid geometry.Vector2D
		for n, j := range neighbors {
			other := &f.Agents[j]
			diff := other.Pos.Sub(a.Pos)
			k := float64(n + 1)
			avgPos = avgPos.Add(diff.Sub(avgPos).Mul(1 / k))
			avgDir = avgDir.Add(other.Direction().Sub(avgDir).Mul(1 / k))
			avoid = avoid.Add(separationPush(diff))
		}
		fc.Cohesion = avgPos.Normalize()
		fc.Alignment = avgDir.Normalize()
		fc.Separation = avoid.Normalize()
	}

	fc.Crowding = s.crowding(i, f)

	if s.cfg.EdgePolicy == EdgeAvoid {
		fc.Walls = s.walls(a.Pos, f.Size).Normalize()
	}

	if len(f.Food) > 0 {
		fc.HasFood = true
		if !a.Sated() {
			if food, ok := nearestFood(f.Food, a.Pos); ok && a.DistanceTo(food.Pos) <= s.cfg.Food.AttractionDistance {
				fc.Food = food.Pos.Sub(a.Pos).Normalize()
				fc.Attracted = true
			}
		}
	}
	return fc
}

// separationPush is the inverse square repulsion from a neighbour at offset diff.
// Coincident neighbours give no direction and push nothing.
func separationPush(diff geometry.Vector2D) geometry.Vector2D {
	d2 := diff.Dot(diff)
	if d2 <= geometry.Epsilon {
		return geometry.Vector2D{}
	}
	return diff.Mul(-1 / d2)
}

// crowding pushes away from the centroid of the local crowd when it is too large.
func (s *Steering) crowding(i int, f *Frame) geometry.Vector2D {
	a := &f.Agents[i]
	crowd := f.grid.inRadius(nil, f.Agents, a.Pos, s.cfg.CrowdingRadius, i)
	if len(crowd) <= s.cfg.MaxFlockSize {
		return geometry.Vector2D{}
	}
	var centroid geometry.Vector2D
	for _, j := range crowd {
		centroid = centroid.Add(f.Agents[j].Pos)
	}
	centroid = centroid.Mul(1 / float64(len(crowd)))
	return a.Pos.Sub(centroid).Normalize()
}

// walls is the raw hyperbolic repulsion from the bounds closer than the view distance.
func (s *Steering) walls(p, size geometry.Vector2D) geometry.Vector2D {
	view := s.cfg.ViewDistance
	push := func(coord, half float64) float64 {
		var v float64
		if d := coord + half; d < view {
			v += 1 / math.Max(math.Abs(d), geometry.Epsilon)
		}
		if d := half - coord; d < view {
			v -= 1 / math.Max(math.Abs(d), geometry.Epsilon)
		}
		return v
	}
	return geometry.Vector2D{X: push(p.X, size.X), Y: push(p.Y, size.Y)}
}

// nearestFood returns the closest item, the first one wins on equal distance.
func nearestFood(items []FoodItem, p geometry.Vector2D) (FoodItem, bool) {
	if len(items) == 0 {
		return FoodItem{}, false
	}
	best := slices.MinFunc(items, func(x, y FoodItem) int {
		dx, dy := x.Pos.DistanceSquaredTo(p), y.Pos.DistanceSquaredTo(p)
		switch {
		case dx < dy:
			return -1
		case dx > dy:
			return 1
		}
		return 0
	})
	return best, true
}
