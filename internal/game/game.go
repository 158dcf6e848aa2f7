package game

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/internal/render"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Game is the ebiten front end. The world lives in a WorldActor, the game only sends it
// tick requests and draws the snapshots it publishes.
type Game struct {
	ctx       context.Context
	System    actor.ActorSystem
	logger    log.Logger
	cfg       *simulation.Config
	observers []simulation.Observer
	steps     uint32
	maxTicks  uint64

	worldPID   *actor.PID
	generation int
	snapshotCh chan *simulation.Snapshot
	lastState  *simulation.Snapshot

	canvas   *render.Canvas
	panel    *ui.UIPanel
	controls controls
	paused   bool
	quit     bool

	// Timing instrumentation
	updateAvg float64 // rolling average in ms
	drawAvg   float64
}

// NewGame spawns the first world. steps is the number of ticks requested per frame.
func NewGame(ctx context.Context, cfg *simulation.Config, system actor.ActorSystem, steps uint32, observers ...simulation.Observer) (*Game, error) {
	g := &Game{
		ctx:       ctx,
		System:    system,
		logger:    system.Logger(),
		cfg:       cfg.Clone(),
		observers: observers,
		steps:     max(steps, 1),
		canvas:    render.NewCanvas(cfg.Width, cfg.Height, cfg.Scale, cfg.NoseLength),
	}
	g.panel, g.controls = newPanel(g.cfg, g.Restart)
	if err := g.spawnWorld(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) spawnWorld() error {
	world, err := simulation.NewWorld(g.cfg, nil, simulation.WithLogger(g.logger))
	if err != nil {
		return err
	}
	world.Populate()

	g.generation++
	g.snapshotCh = make(chan *simulation.Snapshot, 10) // buffer to avoid blocking the actor
	g.lastState = world.Snapshot()
	pid, err := g.System.Spawn(g.ctx, fmt.Sprintf("world-%d", g.generation), simulation.NewWorldActor(world, g.snapshotCh, g.observers...))
	if err != nil {
		return fmt.Errorf("failed to spawn world: %w", err)
	}
	g.worldPID = pid
	return nil
}

// Restart replaces the running world by a fresh one built from the panel values.
func (g *Game) Restart() {
	next, err := g.controls.apply(g.cfg)
	if err != nil {
		g.logger.Warnf("restart refused: %v", err)
		return
	}
	if g.worldPID != nil {
		if err := g.System.Kill(g.ctx, g.worldPID.Name()); err != nil {
			g.logger.Errorf("failed to stop %s: %v", g.worldPID.Name(), err)
		}
	}
	g.cfg = next
	if err := g.spawnWorld(); err != nil {
		g.logger.Errorf("restart failed: %v", err)
		return
	}
	g.logger.Infof("restarted as %s with %d agents", g.worldPID.Name(), g.cfg.NumAgents)
}

// StopAfter makes the game quit once the world reached n ticks, 0 never quits.
func (g *Game) StopAfter(n uint64) { g.maxTicks = n }

// Generation counts the worlds spawned so far.
func (g *Game) Generation() int { return g.generation }

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	if ebiten.IsWindowBeingClosed() || g.ctx.Err() != nil || g.finished() {
		g.quit = true
	}
	g.handleKeys()
	if g.quit {
		g.canvas.Close()
		return ebiten.Termination
	}
	return g.step(ui.PollInput())
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.quit = true
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.panel.Visible = !g.panel.Visible
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.Restart()
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	}
}

func (g *Game) finished() bool {
	return g.maxTicks > 0 && g.lastState.Tick >= g.maxTicks
}

// step runs the input independent part of a frame.
func (g *Game) step(in ui.Input) error {
	g.panel.Update(in)

	// latest state, non blocking
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
	}

	var msg proto.Message = wrapperspb.UInt32(g.steps)
	if g.paused {
		msg = &emptypb.Empty{}
	}
	if err := actor.Tell(g.ctx, g.worldPID, msg); err != nil {
		return fmt.Errorf("failed to request tick: %w", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.canvas.Begin(screen)
	g.lastState.Draw(g.canvas)

	g.panel.Draw(screen)
	drawFeedingBar(screen, g.lastState)

	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", g.cfg.Width/2-20, 10)
	}
	ebitenutil.DebugPrintAt(screen, g.hudText(), g.cfg.Width-180, 50)
}

func (g *Game) hudText() string {
	return hudText(g.lastState, ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg)
}

func (g *Game) Layout(w, h int) (int, int) { return g.cfg.Width, g.cfg.Height }
