package simulation

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
	"github.com/tochemey/goakt/v3/log"
)

// Clock is the time source of the food spawn cadence.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Observer is notified after every tick of World.Run.
type Observer interface {
	AfterTick(w *World) error
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(w *World) error

func (f ObserverFunc) AfterTick(w *World) error { return f(w) }

// Option configures a World at construction.
type Option func(*World)

// WithRand sets the random source used for placement and food spawning.
func WithRand(r *rand.Rand) Option {
	return func(w *World) { w.rng = r }
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(w *World) { w.clock = c }
}

func WithLogger(l log.Logger) Option {
	return func(w *World) { w.logger = l }
}

// World owns the agents and the food and advances them in fixed steps.
type World struct {
	cfg    *Config
	bounds Bounds
	rng    *rand.Rand
	clock  Clock
	logger log.Logger

	agents    []Agent
	food      *FoodField
	steering  *Steering
	frame     *Frame
	decisions []Decision

	start     time.Time
	ticks     uint64
	simTime   float64
	eaten     int
	lastMeals []Consumption
}

// NewWorld validates cfg and creates an empty world. A nil bounds uses the size derived
// from the configured resolution.
func NewWorld(cfg *Config, bounds Bounds, opts ...Option) (*World, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	if bounds == nil {
		bounds = FixedBounds(cfg.WorldSize())
	}

	w := &World{
		cfg:    cfg,
		bounds: bounds,
		clock:  wallClock{},
		logger: log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		seed := uint64(cfg.Seed)
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		w.rng = rand.New(rand.NewPCG(seed, seed))
	}

	w.start = w.clock.Now()
	w.food = NewFoodField(cfg.Food, FoodColor, w.rng, w.logger, w.start)
	w.steering = NewSteering(cfg)
	w.frame = NewFrame(nil, nil, bounds.Size(), max(cfg.ViewDistance, cfg.CrowdingRadius))
	return w, nil
}

// AddAgent appends an agent and returns its index.
func (w *World) AddAgent(pos geometry.Vector2D, heading float64, clr color.RGBA) int {
	id := len(w.agents)
	w.agents = append(w.agents, NewAgent(id, pos, heading, w.cfg.Kinematics(), clr))
	return id
}

// AddRandomAgent places an agent anywhere in the bounds with a random heading and accent colour.
func (w *World) AddRandomAgent() int {
	size := w.bounds.Size()
	pos := geometry.Vector2D{
		X: size.X * (1 - 2*w.rng.Float64()),
		Y: size.Y * (1 - 2*w.rng.Float64()),
	}
	heading := geometry.TwoPi * w.rng.Float64()
	clr := AccentColors[w.rng.IntN(len(AccentColors))]
	return w.AddAgent(pos, heading, clr)
}

// Populate adds the configured number of agents. With Highlight set the first one sits
// at the origin in the highlight colour and counts toward the total.
func (w *World) Populate() {
	n := w.cfg.NumAgents
	if w.cfg.Highlight && n > 0 {
		w.AddAgent(geometry.Vector2D{}, geometry.TwoPi*w.rng.Float64(), HighlightColor)
		n--
	}
	for range n {
		w.AddRandomAgent()
	}
	w.logger.Infof("world populated with %d agents in %s", len(w.agents), w.bounds.Size())
}

// Tick advances the world by one fixed step of 1/FPS seconds.
func (w *World) Tick() {
	dt := w.cfg.Dt()
	size := w.bounds.Size()

	w.food.TrySpawn(w.now(), w.agents, size)

	w.frame.reset(w.agents, w.food.Items(), size)
	w.decisions = w.decisions[:0]
	for i := range w.frame.Agents {
		w.decisions = append(w.decisions, w.steering.Reorient(i, w.frame))
	}

	for i := range w.agents {
		a := &w.agents[i]
		d := w.decisions[i]
		if w.cfg.EdgePolicy == EdgeWrap {
			a.Pos = WrapPosition(a.Pos, size)
		}
		a.Feeding = d.Feeding
		a.approachSpeed(d.Speed, dt)
		a.TurnTo(d.Heading, dt)
		a.Advance(dt)
		a.digest(dt)
	}

	w.lastMeals = w.food.Consume(w.agents)
	if w.cfg.SatietyDuration > 0 {
		for _, m := range w.lastMeals {
			w.agents[m.Agent].sated = w.cfg.SatietyDuration
		}
	}
	w.eaten += len(w.lastMeals)

	w.ticks++
	w.simTime = float64(w.ticks) * dt
}

// WrapPosition maps p back into [-size, size) on both axes.
func WrapPosition(p, size geometry.Vector2D) geometry.Vector2D {
	return p.Add(size).Mod(size.Mul(2)).Sub(size)
}

func (w *World) now() time.Time {
	if w.cfg.Food.Clock == ClockSim {
		return w.start.Add(time.Duration(math.Round(w.simTime * float64(time.Second))))
	}
	return w.clock.Now()
}

// Draw renders the current state and reports whether the display is still open.
func (w *World) Draw(r Renderer) bool {
	return drawScene(r, w.agents, w.food.Items())
}

func drawScene(r Renderer, agents []Agent, food []FoodItem) bool {
	r.Fill(BackgroundColor)
	for i := range agents {
		r.DrawAgent(agents[i].Pos, agents[i].Heading, agents[i].Color)
	}
	for _, f := range food {
		r.DrawFood(f.Pos, f.Size, f.Color)
	}
	return r.Present()
}

// Run draws then ticks until the display closes or ctx is done. Observers are called
// after every tick, the first observer error stops the loop.
func (w *World) Run(ctx context.Context, r Renderer, observers ...Observer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !w.Draw(r) {
			return nil
		}
		w.Tick()
		for _, o := range observers {
			if err := o.AfterTick(w); err != nil {
				return fmt.Errorf("observer failed at tick %d: %w", w.ticks, err)
			}
		}
	}
}

func (w *World) Config() *Config { return w.cfg }

// Agents exposes the population. Callers must treat it as read-only.
func (w *World) Agents() []Agent { return w.agents }

func (w *World) Food() *FoodField { return w.food }

func (w *World) Size() geometry.Vector2D { return w.bounds.Size() }

// TickCount is the number of completed ticks.
func (w *World) TickCount() uint64 { return w.ticks }

// SimTime is the simulated time in seconds.
func (w *World) SimTime() float64 { return w.simTime }

// Eaten is the number of food items consumed since the start.
func (w *World) Eaten() int { return w.eaten }

// LastMeals lists the consumptions of the last tick.
func (w *World) LastMeals() []Consumption { return w.lastMeals }
