package simulation

import (
	"image/color"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
	"github.com/tochemey/goakt/v3/log"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// fakeClock only moves when told to.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 42))
}

// newTestWorld builds an empty world with deterministic randomness and a frozen clock.
func newTestWorld(t testing.TB, cfg *Config) (*World, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	w, err := NewWorld(cfg, nil,
		WithRand(newTestRand()),
		WithClock(clock),
		WithLogger(log.DiscardLogger),
	)
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w, clock
}

// newTestFrame builds a frame with the default view and crowding radii.
func newTestFrame(agents []Agent, food []FoodItem) *Frame {
	return NewFrame(agents, food, geometry.Vector2D{X: 960, Y: 540}, 150)
}

func testAgent(id int, x, y, heading float64) Agent {
	return NewAgent(id, geometry.Vector2D{X: x, Y: y}, heading, DefaultConfig().Kinematics(), AccentColors[0])
}

// countingRenderer records what it was asked to draw and closes after limit frames.
type countingRenderer struct {
	limit  int
	frames int
	agents int
	food   int
	fills  int
}

func (r *countingRenderer) Fill(color.Color) { r.fills++ }

func (r *countingRenderer) DrawAgent(geometry.Vector2D, float64, color.Color) { r.agents++ }

func (r *countingRenderer) DrawFood(geometry.Vector2D, float64, color.Color) { r.food++ }

func (r *countingRenderer) Present() bool {
	r.frames++
	return r.frames <= r.limit
}
