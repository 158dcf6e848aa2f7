package simulation

import (
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
	"github.com/tochemey/goakt/v3/log"
)

// FoodItem is a single piece of food lying in the world.
type FoodItem struct {
	ID    uint64
	Pos   geometry.Vector2D
	Size  float64
	Color color.RGBA
}

// Consumption records that an agent ate a food item during a tick.
type Consumption struct {
	Agent int
	Food  FoodItem
}

// FoodField owns the food items and decides when and where new ones appear.
type FoodField struct {
	cfg    FoodConfig
	color  color.RGBA
	rng    *rand.Rand
	logger log.Logger

	items     []FoodItem
	nextID    uint64
	lastSpawn time.Time
}

// NewFoodField creates an empty field whose spawn cadence starts counting at start.
func NewFoodField(cfg FoodConfig, clr color.RGBA, rng *rand.Rand, logger log.Logger, start time.Time) *FoodField {
	return &FoodField{
		cfg:       cfg,
		color:     clr,
		rng:       rng,
		logger:    logger,
		lastSpawn: start,
	}
}

// Items returns the live items. The slice must not be modified.
func (ff *FoodField) Items() []FoodItem { return ff.items }

func (ff *FoodField) Len() int { return len(ff.items) }

// Add places an item at pos and returns it.
func (ff *FoodField) Add(pos geometry.Vector2D) FoodItem {
	ff.nextID++
	item := FoodItem{ID: ff.nextID, Pos: pos, Size: ff.cfg.Size, Color: ff.color}
	ff.items = append(ff.items, item)
	return item
}

// TrySpawn spawns food when at least SpawnInterval elapsed since the last spawn.
// It returns the new items, nil when nothing spawned.
func (ff *FoodField) TrySpawn(now time.Time, agents []Agent, size geometry.Vector2D) []FoodItem {
	if now.Sub(ff.lastSpawn).Seconds() < ff.cfg.SpawnInterval {
		return nil
	}
	ff.lastSpawn = now

	switch ff.cfg.SpawnPolicy {
	case SpawnSprinkle:
		return ff.sprinkle(agents, size)
	default:
		item := ff.Add(LeastDenseCell(agents, size, ff.cfg.CellSize))
		ff.logger.Debugf("food %d spawned at %s", item.ID, item.Pos)
		return []FoodItem{item}
	}
}

// LeastDenseCell partitions [-size, size] into square cells and returns the centre of the
// first cell (x-major scan) holding the fewest agents. Agents outside the bounds count for
// the nearest border cell.
func LeastDenseCell(agents []Agent, size geometry.Vector2D, cellSize float64) geometry.Vector2D {
	nx := max(1, int(math.Floor(2*size.X/cellSize)))
	ny := max(1, int(math.Floor(2*size.Y/cellSize)))
	counts := make([]int, nx*ny)

	for i := range agents {
		cx := clampIndex(int(math.Floor((agents[i].Pos.X+size.X)/cellSize)), nx)
		cy := clampIndex(int(math.Floor((agents[i].Pos.Y+size.Y)/cellSize)), ny)
		counts[cx*ny+cy]++
	}

	best := 0
	for idx, c := range counts {
		if c < counts[best] {
			best = idx
		}
	}
	bx, by := best/ny, best%ny
	return geometry.Vector2D{
		X: -size.X + (float64(bx)+0.5)*cellSize,
		Y: -size.Y + (float64(by)+0.5)*cellSize,
	}
}

func clampIndex(i, n int) int {
	return max(0, min(i, n-1))
}

// sprinkle looks for a free spot with rejection sampling inside the inner 1-margin share of
// the bounds, then scatters a cluster around it.
func (ff *FoodField) sprinkle(agents []Agent, size geometry.Vector2D) []FoodItem {
	inner := size.Mul(1 - ff.cfg.SprinkleMargin)
	var spot geometry.Vector2D
	found := false
	for attempt := 0; attempt < ff.cfg.SprinkleMaxAttempts; attempt++ {
		spot = geometry.Vector2D{
			X: math.Round(inner.X * (2*ff.rng.Float64() - 1)),
			Y: math.Round(inner.Y * (2*ff.rng.Float64() - 1)),
		}
		if ff.clear(spot, agents) {
			found = true
			break
		}
	}
	if !found {
		ff.logger.Warnf("no free food spot after %d attempts, using %s", ff.cfg.SprinkleMaxAttempts, spot)
	}

	var spawned []FoodItem
	for range ff.cfg.SprinkleCount {
		if ff.rng.Float64() >= ff.cfg.SprinkleChance {
			continue
		}
		offset := geometry.Vector2D{
			X: ff.cfg.SprinkleSpread * (2*ff.rng.Float64() - 1),
			Y: ff.cfg.SprinkleSpread * (2*ff.rng.Float64() - 1),
		}
		spawned = append(spawned, ff.Add(spot.Add(offset)))
	}
	ff.logger.Debugf("sprinkled %d food items around %s", len(spawned), spot)
	return spawned
}

func (ff *FoodField) clear(p geometry.Vector2D, agents []Agent) bool {
	for i := range agents {
		if agents[i].DistanceTo(p) < ff.cfg.SprinkleClearance {
			return false
		}
	}
	return true
}

// Consume lets every agent, in population order, eat the first item closer than the
// consumption radius. An agent eats at most one item per call and an eaten item is gone
// for the agents after it.
func (ff *FoodField) Consume(agents []Agent) []Consumption {
	var eaten []Consumption
	for i := range agents {
		for _, item := range ff.items {
			if agents[i].DistanceTo(item.Pos) < ff.cfg.ConsumptionRadius && ff.Remove(item.ID) {
				eaten = append(eaten, Consumption{Agent: i, Food: item})
				break
			}
		}
	}
	return eaten
}

// Remove deletes the item with the given id and reports whether it was present.
func (ff *FoodField) Remove(id uint64) bool {
	for k := range ff.items {
		if ff.items[k].ID == id {
			ff.items = append(ff.items[:k], ff.items[k+1:]...)
			return true
		}
	}
	return false
}
