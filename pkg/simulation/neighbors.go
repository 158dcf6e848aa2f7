package simulation

import (
	"cmp"
	"math"
	"slices"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
)

// minCellSize keeps the grid from degenerating into tiny cells.
const minCellSize = 10.0

type gridKey struct {
	x, y int
}

// spatialGrid is a uniform spatial hash of agent indices.
// Queries return exactly what a full scan would, in ascending index order.
type spatialGrid struct {
	cellSize float64
	cells    map[gridKey][]int
}

func newSpatialGrid(cellSize float64) *spatialGrid {
	return &spatialGrid{
		cellSize: math.Max(cellSize, minCellSize),
		cells:    make(map[gridKey][]int),
	}
}

func (g *spatialGrid) rebuild(agents []Agent) {
	// Reset slices to length 0 but keep their capacity, the arrays are reused every tick.
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	for i := range agents {
		key := g.cellOf(agents[i].Pos)
		g.cells[key] = append(g.cells[key], i)
	}
}

// cellOf uses floor so that cells left of and below the origin do not collapse into cell 0.
func (g *spatialGrid) cellOf(p geometry.Vector2D) gridKey {
	return gridKey{
		x: int(math.Floor(p.X / g.cellSize)),
		y: int(math.Floor(p.Y / g.cellSize)),
	}
}

// inRadius appends to dst the indices of agents strictly closer than radius to p,
// skipping exclude. The appended part is sorted by index.
func (g *spatialGrid) inRadius(dst []int, agents []Agent, p geometry.Vector2D, radius float64, exclude int) []int {
	start := len(dst)
	radiusSq := radius * radius

	lo := g.cellOf(p.Sub(geometry.Vector2D{X: radius, Y: radius}))
	hi := g.cellOf(p.Add(geometry.Vector2D{X: radius, Y: radius}))

	visit := func(indices []int) {
		for _, i := range indices {
			if i == exclude {
				continue
			}
			if agents[i].Pos.DistanceSquaredTo(p) < radiusSq {
				dst = append(dst, i)
			}
		}
	}

	span := float64(hi.x-lo.x+1) * float64(hi.y-lo.y+1)
	if span > float64(len(g.cells)) {
		// Radius larger than the populated area, scanning the occupied cells is cheaper.
		for _, indices := range g.cells {
			visit(indices)
		}
	} else {
		for gx := lo.x; gx <= hi.x; gx++ {
			for gy := lo.y; gy <= hi.y; gy++ {
				if indices, ok := g.cells[gridKey{x: gx, y: gy}]; ok {
					visit(indices)
				}
			}
		}
	}

	slices.Sort(dst[start:])
	return dst
}

// NeighborQuery selects the agents that influence a subject agent.
type NeighborQuery struct {
	Policy       NeighborPolicy
	ViewDistance float64
	NumNeighbors int
}

// NewNeighborQuery builds the query described by cfg.
func NewNeighborQuery(cfg *Config) NeighborQuery {
	return NeighborQuery{
		Policy:       cfg.NeighborPolicy,
		ViewDistance: cfg.ViewDistance,
		NumNeighbors: cfg.NumNeighbors,
	}
}

// Neighbors returns the indices of the agents seen by subject in frame.
// The subject itself is never part of the result.
func (q NeighborQuery) Neighbors(subject int, f *Frame) []int {
	switch q.Policy {
	case NeighborCount:
		return q.nearest(subject, f.Agents)
	default:
		return f.grid.inRadius(nil, f.Agents, f.Agents[subject].Pos, q.ViewDistance, subject)
	}
}

// nearest returns the NumNeighbors closest agents, ascending by distance with ties kept
// in population order.
func (q NeighborQuery) nearest(subject int, agents []Agent) []int {
	if len(agents) <= 1 || q.NumNeighbors <= 0 {
		return nil
	}
	origin := agents[subject].Pos
	distSq := make([]float64, len(agents))
	candidates := make([]int, 0, len(agents)-1)
	for i := range agents {
		if i == subject {
			continue
		}
		distSq[i] = agents[i].Pos.DistanceSquaredTo(origin)
		candidates = append(candidates, i)
	}
	slices.SortStableFunc(candidates, func(a, b int) int {
		return cmp.Compare(distSq[a], distSq[b])
	})
	if len(candidates) > q.NumNeighbors {
		candidates = candidates[:q.NumNeighbors]
	}
	return candidates
}
