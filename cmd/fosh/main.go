package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	stdlog "log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/internal/game"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/internal/render"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/internal/telemetry"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
)

// options holds the command line. Config overrides are only applied for flags that were set.
type options struct {
	configPath     string
	headless       bool
	maxTicks       uint64
	stepsPerUpdate uint
	telemetryPath  string
	telemetryEvery uint64
	debug          bool

	numAgents  int
	fps        float64
	resolution string
	highlight  bool
	cohesion   float64
	alignment  float64
	separation float64
	food       float64
	edge       string
	dist       float64
	count      int
	spawn      string
	seed       int64

	set map[string]bool
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	o := &options{set: map[string]bool{}}
	fs := flag.NewFlagSet("fosh", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.configPath, "config", "", "config file, .json or .yaml (empty = defaults)")
	fs.BoolVar(&o.headless, "headless", false, "run without a window")
	fs.Uint64Var(&o.maxTicks, "max-ticks", 0, "stop after that many ticks (0 = never)")
	fs.UintVar(&o.stepsPerUpdate, "steps-per-update", 1, "ticks requested per displayed frame")
	fs.StringVar(&o.telemetryPath, "telemetry", "", "write telemetry CSV to this file")
	fs.Uint64Var(&o.telemetryEvery, "telemetry-every", 30, "ticks between telemetry rows")
	fs.BoolVar(&o.debug, "debug", false, "debug logging")

	fs.IntVar(&o.numAgents, "n", 0, "number of agents")
	fs.Float64Var(&o.fps, "fps", 0, "frames (ticks) per second")
	fs.StringVar(&o.resolution, "res", "", "resolution as WIDTHxHEIGHT")
	fs.BoolVar(&o.highlight, "highlight", false, "highlight the first agent")
	fs.Float64Var(&o.cohesion, "c", 0, "cohesion weight")
	fs.Float64Var(&o.alignment, "a", 0, "alignment weight")
	fs.Float64Var(&o.separation, "s", 0, "separation weight")
	fs.Float64Var(&o.food, "f", 0, "food weight")
	fs.StringVar(&o.edge, "e", "", "edge policy: avoid or wrap")
	fs.Float64Var(&o.dist, "dist", 0, "neighbours within this view distance")
	fs.IntVar(&o.count, "count", 0, "neighbours are the N nearest agents")
	fs.StringVar(&o.spawn, "spawn", "", "food spawn policy: least-dense or sprinkle")
	fs.Int64Var(&o.seed, "seed", 0, "random seed (0 = time based)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	if o.set["dist"] && o.set["count"] {
		return nil, errors.New("-dist and -count are mutually exclusive")
	}
	return o, nil
}

// config loads the base configuration and applies the overrides.
func (o *options) config() (*simulation.Config, error) {
	cfg := simulation.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}

	if o.set["n"] {
		cfg.NumAgents = o.numAgents
	}
	if o.set["fps"] {
		cfg.FPS = o.fps
	}
	if o.set["res"] {
		w, h, err := parseResolution(o.resolution)
		if err != nil {
			return nil, err
		}
		cfg.Width, cfg.Height = w, h
	}
	if o.set["highlight"] {
		cfg.Highlight = o.highlight
	}
	if o.set["c"] {
		cfg.CohesionWeight = o.cohesion
	}
	if o.set["a"] {
		cfg.AlignmentWeight = o.alignment
	}
	if o.set["s"] {
		cfg.SeparationWeight = o.separation
	}
	if o.set["f"] {
		cfg.FoodWeight = o.food
	}
	if o.set["e"] {
		cfg.EdgePolicy = simulation.EdgePolicy(o.edge)
	}
	if o.set["dist"] {
		cfg.NeighborPolicy = simulation.NeighborRadius
		cfg.ViewDistance = o.dist
	}
	if o.set["count"] {
		cfg.NeighborPolicy = simulation.NeighborCount
		cfg.NumNeighbors = o.count
	}
	if o.set["spawn"] {
		cfg.Food.SpawnPolicy = simulation.SpawnPolicy(o.spawn)
	}
	if o.set["seed"] {
		cfg.Seed = o.seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseResolution(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("resolution %q is not WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("resolution %q: bad width: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("resolution %q: bad height: %w", s, err)
	}
	return w, h, nil
}

// ticksPerSecond rounds fps to the whole TPS ebiten accepts, never below one.
func ticksPerSecond(fps float64) int {
	return max(1, int(math.Round(fps)))
}

func newLogger(debug bool) log.Logger {
	if debug {
		return log.New(log.DebugLevel, os.Stdout)
	}
	return log.New(log.InfoLevel, os.Stdout)
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		stdlog.Fatal(err)
	}
	cfg, err := opts.config()
	if err != nil {
		stdlog.Fatal(err)
	}
	logger := newLogger(opts.debug)

	var observers []simulation.Observer
	if opts.telemetryPath != "" {
		rec, err := telemetry.CreateRecorder(opts.telemetryPath, opts.telemetryEvery)
		if err != nil {
			stdlog.Fatal(err)
		}
		defer rec.Close()
		observers = append(observers, rec)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opts.headless {
		err = runHeadless(ctx, cfg, opts.maxTicks, logger, observers)
	} else {
		err = runWindow(ctx, cfg, opts, logger, observers)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		stdlog.Fatal(err)
	}
}

func runHeadless(ctx context.Context, cfg *simulation.Config, maxTicks uint64, logger log.Logger, observers []simulation.Observer) error {
	world, err := simulation.NewWorld(cfg, nil, simulation.WithLogger(logger))
	if err != nil {
		return err
	}
	world.Populate()
	err = world.Run(ctx, render.NewHeadless(maxTicks), observers...)
	logger.Infof("headless run finished after %d ticks (%.1fs simulated), %d food eaten",
		world.TickCount(), world.SimTime(), world.Eaten())
	return err
}

func runWindow(ctx context.Context, cfg *simulation.Config, opts *options, logger log.Logger, observers []simulation.Observer) error {
	system, err := actor.NewActorSystem("FoshSimulation", actor.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("failed to start actor system: %w", err)
	}
	defer system.Stop(context.Background())

	g, err := game.NewGame(ctx, cfg, system, uint32(opts.stepsPerUpdate), observers...)
	if err != nil {
		return err
	}
	g.StopAfter(opts.maxTicks)

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Fosh: flocking with food")
	ebiten.SetTPS(ticksPerSecond(cfg.FPS))
	ebiten.SetWindowClosingHandled(true)
	return ebiten.RunGame(g)
}
