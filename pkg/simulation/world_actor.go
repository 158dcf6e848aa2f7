package simulation

import (
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor owns a World and advances it on request. The world is only touched from
// the actor's mailbox loop, the outside sees Snapshot copies pushed on snapshotCh.
//
// Messages:
//   - *wrapperspb.UInt32Value: run that many ticks (at least one) then publish a snapshot
//   - *emptypb.Empty: publish a snapshot without ticking
type WorldActor struct {
	world      *World
	snapshotCh chan<- *Snapshot
	observers  []Observer

	// --- Benchmark Stats ---
	ticksSinceLog int
	lastLogTime   time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

func NewWorldActor(world *World, snapshotCh chan<- *Snapshot, observers ...Observer) *WorldActor {
	return &WorldActor{
		world:       world,
		snapshotCh:  snapshotCh,
		observers:   observers,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("%s: %d agents in a %s world", ctx.ActorName(), len(w.world.Agents()), w.world.Size())
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("%s started", ctx.Self().Name())
		w.pushSnapshot()

	case *wrapperspb.UInt32Value:
		for range max(msg.GetValue(), 1) {
			w.world.Tick()
			w.ticksSinceLog++
			for _, o := range w.observers {
				if err := o.AfterTick(w.world); err != nil {
					ctx.Logger().Errorf("observer failed at tick %d: %v", w.world.TickCount(), err)
				}
			}
		}
		w.logBenchmarks(ctx)
		w.pushSnapshot()

	case *emptypb.Empty:
		w.pushSnapshot()

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if elapsed := time.Since(w.lastLogTime); elapsed >= time.Second {
		ctx.Logger().Infof("📊 TICK RATE: %.1f/sec | Tick: %d | Agents: %d | Food: %d | Eaten: %d",
			float64(w.ticksSinceLog)/elapsed.Seconds(), w.world.TickCount(),
			len(w.world.Agents()), w.world.Food().Len(), w.world.Eaten())
		w.ticksSinceLog = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.world.Snapshot():
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("%s stopped after %d ticks", ctx.ActorName(), w.world.TickCount())
	return nil
}
