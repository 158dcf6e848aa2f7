package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
	"github.com/tochemey/goakt/v3/log"
)

var testSize = geometry.Vector2D{X: 960, Y: 540}

func newTestFoodField(cfg FoodConfig, start time.Time) *FoodField {
	return NewFoodField(cfg, FoodColor, newTestRand(), log.DiscardLogger, start)
}

func TestFoodField_TrySpawnInterval(t *testing.T) {
	start := newFakeClock().Now()
	ff := newTestFoodField(DefaultConfig().Food, start)

	if got := ff.TrySpawn(start.Add(2900*time.Millisecond), nil, testSize); got != nil {
		t.Fatalf("spawned %v before the interval elapsed", got)
	}
	if got := ff.TrySpawn(start.Add(3*time.Second), nil, testSize); len(got) != 1 {
		t.Fatalf("spawned %d items at the interval; want 1", len(got))
	}
	if got := ff.TrySpawn(start.Add(4*time.Second), nil, testSize); got != nil {
		t.Errorf("spawned again only one second later: %v", got)
	}
	if got := ff.TrySpawn(start.Add(6*time.Second), nil, testSize); len(got) != 1 {
		t.Errorf("spawned %d items at the second interval; want 1", len(got))
	}
	if ff.Len() != 2 {
		t.Errorf("Len = %d; want 2", ff.Len())
	}
}

func TestLeastDenseCell(t *testing.T) {
	tests := []struct {
		name   string
		agents []Agent
		want   geometry.Vector2D
	}{
		{"empty world", nil, geometry.Vector2D{X: -910, Y: -490}},
		{"first cell taken", []Agent{testAgent(0, -900, -500, 0)}, geometry.Vector2D{X: -910, Y: -390}},
		{"outside agents clamp to the border cell", []Agent{testAgent(0, -5000, -5000, 0)}, geometry.Vector2D{X: -910, Y: -390}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LeastDenseCell(tt.agents, testSize, 100); !got.Eq(tt.want) {
				t.Errorf("LeastDenseCell = %v; want %v", got, tt.want)
			}
		})
	}

	t.Run("world smaller than a cell", func(t *testing.T) {
		got := LeastDenseCell(nil, geometry.Vector2D{X: 20, Y: 20}, 100)
		if !got.Eq(geometry.Vector2D{X: 30, Y: 30}) {
			t.Errorf("LeastDenseCell = %v; want (30, 30)", got)
		}
	})
}

func TestLeastDenseCell_FillsEmptiestCell(t *testing.T) {
	// Every cell of a 2x2 grid is occupied except the last one.
	size := geometry.Vector2D{X: 100, Y: 100}
	agents := []Agent{
		testAgent(0, -50, -50, 0),
		testAgent(1, -50, 50, 0),
		testAgent(2, 50, -50, 0),
		testAgent(3, 50, -60, 0),
	}
	if got := LeastDenseCell(agents, size, 100); !got.Eq(geometry.Vector2D{X: 50, Y: 50}) {
		t.Errorf("LeastDenseCell = %v; want (50, 50)", got)
	}
}

func TestFoodField_Consume(t *testing.T) {
	t.Run("one item per agent", func(t *testing.T) {
		ff := newTestFoodField(DefaultConfig().Food, time.Time{})
		first := ff.Add(geometry.Vector2D{X: 5, Y: 0})
		ff.Add(geometry.Vector2D{X: 0, Y: 6})

		eaten := ff.Consume([]Agent{testAgent(0, 0, 0, 0)})

		if len(eaten) != 1 || eaten[0].Food.ID != first.ID || eaten[0].Agent != 0 {
			t.Fatalf("eaten = %+v; want only item %d by agent 0", eaten, first.ID)
		}
		if ff.Len() != 1 {
			t.Errorf("Len = %d; want 1", ff.Len())
		}
	})

	t.Run("item cannot be eaten twice", func(t *testing.T) {
		ff := newTestFoodField(DefaultConfig().Food, time.Time{})
		ff.Add(geometry.Vector2D{X: 1, Y: 1})

		eaten := ff.Consume([]Agent{testAgent(0, 0, 0, 0), testAgent(1, 2, 2, 0)})
		if len(eaten) != 1 || eaten[0].Agent != 0 {
			t.Fatalf("eaten = %+v; want a single meal for agent 0", eaten)
		}
		if again := ff.Consume([]Agent{testAgent(0, 0, 0, 0)}); len(again) != 0 {
			t.Errorf("second Consume ate %+v", again)
		}
	})

	t.Run("consumption radius is exclusive", func(t *testing.T) {
		ff := newTestFoodField(DefaultConfig().Food, time.Time{})
		ff.Add(geometry.Vector2D{X: 10, Y: 0})
		if eaten := ff.Consume([]Agent{testAgent(0, 0, 0, 0)}); len(eaten) != 0 {
			t.Errorf("ate food exactly at the radius: %+v", eaten)
		}
	})
}

func TestFoodField_RemoveIsIdempotent(t *testing.T) {
	ff := newTestFoodField(DefaultConfig().Food, time.Time{})
	item := ff.Add(geometry.Vector2D{X: 1, Y: 2})

	if !ff.Remove(item.ID) {
		t.Fatal("first Remove should report the item")
	}
	if ff.Remove(item.ID) {
		t.Error("second Remove should be a no-op")
	}
	if ff.Len() != 0 {
		t.Errorf("Len = %d; want 0", ff.Len())
	}
}

func TestNearestFood(t *testing.T) {
	ff := newTestFoodField(DefaultConfig().Food, time.Time{})
	if _, ok := nearestFood(ff.Items(), geometry.Vector2D{}); ok {
		t.Fatal("nearestFood on an empty field should report nothing")
	}
	ff.Add(geometry.Vector2D{X: 100, Y: 0})
	near := ff.Add(geometry.Vector2D{X: -10, Y: 10})
	ff.Add(geometry.Vector2D{X: 10, Y: -10}) // same distance, added later
	if got, _ := nearestFood(ff.Items(), geometry.Vector2D{}); got.ID != near.ID {
		t.Errorf("nearestFood = %+v; want item %d", got, near.ID)
	}
}

func sprinkleConfig() FoodConfig {
	cfg := DefaultConfig().Food
	cfg.SpawnPolicy = SpawnSprinkle
	cfg.SpawnInterval = 0
	return cfg
}

func TestFoodField_Sprinkle(t *testing.T) {
	t.Run("every roll succeeds", func(t *testing.T) {
		cfg := sprinkleConfig()
		cfg.SprinkleChance = 1
		ff := newTestFoodField(cfg, time.Time{})

		items := ff.TrySpawn(time.Time{}, nil, testSize)
		if len(items) != cfg.SprinkleCount {
			t.Fatalf("spawned %d items; want %d", len(items), cfg.SprinkleCount)
		}
		limit := testSize.Mul(1 - cfg.SprinkleMargin).Add(geometry.Vector2D{X: cfg.SprinkleSpread, Y: cfg.SprinkleSpread})
		for _, it := range items {
			if math.Abs(it.Pos.X) > limit.X || math.Abs(it.Pos.Y) > limit.Y {
				t.Errorf("item at %v outside %v", it.Pos, limit)
			}
		}
		// All items belong to one cluster.
		for _, it := range items[1:] {
			if d := it.Pos.Sub(items[0].Pos).Abs(); d.X > 2*cfg.SprinkleSpread || d.Y > 2*cfg.SprinkleSpread {
				t.Errorf("item %v too far from %v", it.Pos, items[0].Pos)
			}
		}
	})

	t.Run("no roll succeeds", func(t *testing.T) {
		cfg := sprinkleConfig()
		cfg.SprinkleChance = 0
		ff := newTestFoodField(cfg, time.Time{})
		if items := ff.TrySpawn(time.Time{}, nil, testSize); len(items) != 0 {
			t.Errorf("spawned %d items with zero chance", len(items))
		}
	})

	t.Run("search exhaustion falls back to the last spot", func(t *testing.T) {
		cfg := sprinkleConfig()
		cfg.SprinkleChance = 1
		cfg.SprinkleClearance = 1e9
		cfg.SprinkleMaxAttempts = 5
		ff := newTestFoodField(cfg, time.Time{})

		items := ff.TrySpawn(time.Time{}, []Agent{testAgent(0, 0, 0, 0)}, testSize)
		if len(items) != cfg.SprinkleCount {
			t.Errorf("spawned %d items; want %d despite exhaustion", len(items), cfg.SprinkleCount)
		}
	})
}

func TestFoodField_SprinkleKeepsClearance(t *testing.T) {
	cfg := sprinkleConfig()
	cfg.SprinkleChance = 1
	cfg.SprinkleCount = 1
	cfg.SprinkleSpread = 0
	cfg.SprinkleClearance = 50
	ff := newTestFoodField(cfg, time.Time{})
	agents := []Agent{testAgent(0, 0, 0, 0), testAgent(1, 200, 100, 0), testAgent(2, -300, -200, 0)}

	for range 20 {
		items := ff.TrySpawn(time.Time{}, agents, testSize)
		for _, it := range items {
			for i := range agents {
				if d := agents[i].DistanceTo(it.Pos); d < cfg.SprinkleClearance {
					t.Fatalf("food at %v only %v from agent %d", it.Pos, d, i)
				}
			}
			if it.Pos.X != math.Round(it.Pos.X) || it.Pos.Y != math.Round(it.Pos.Y) {
				t.Errorf("spot %v is not grid aligned", it.Pos)
			}
		}
	}
}

func TestFoodField_SprinkleCoversInnerArea(t *testing.T) {
	cfg := sprinkleConfig()
	cfg.SprinkleChance = 1
	cfg.SprinkleCount = 1
	cfg.SprinkleSpread = 0
	ff := newTestFoodField(cfg, time.Time{})

	var maxX, maxY float64
	for range 5000 {
		for _, it := range ff.TrySpawn(time.Time{}, nil, testSize) {
			maxX = math.Max(maxX, math.Abs(it.Pos.X))
			maxY = math.Max(maxY, math.Abs(it.Pos.Y))
		}
	}
	inner := testSize.Mul(1 - cfg.SprinkleMargin)
	if maxX > inner.X || maxY > inner.Y {
		t.Errorf("spots reach (%v, %v); want within %v", maxX, maxY, inner)
	}
	// the margin is only trimmed once, spots must go beyond 80% of the bounds
	if maxX <= 0.8*testSize.X || maxY <= 0.8*testSize.Y {
		t.Errorf("spots only reach (%v, %v) of %v", maxX, maxY, testSize)
	}
}
