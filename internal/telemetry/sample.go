package telemetry

import (
	"math"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/simulation"
	"gonum.org/v1/gonum/stat"
)

// Sample is one telemetry.csv row.
type Sample struct {
	Tick    uint64  `csv:"tick"`
	SimTime float64 `csv:"sim_time"`

	Agents  int `csv:"agents"`
	Food    int `csv:"food"`
	Eaten   int `csv:"eaten"`
	Feeding int `csv:"feeding"`

	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	// Polarization is the length of the mean heading vector, 1 when every agent is aligned.
	Polarization float64 `csv:"polarization"`
	// Spread is the mean distance to the centroid of the population.
	Spread float64 `csv:"spread"`
}

// Measure summarizes the world after its last tick.
func Measure(w *simulation.World) Sample {
	s := measureAgents(w.Agents())
	s.Tick = w.TickCount()
	s.SimTime = w.SimTime()
	s.Food = w.Food().Len()
	s.Eaten = w.Eaten()
	return s
}

// MeasureSnapshot is Measure for a published snapshot.
func MeasureSnapshot(snap *simulation.Snapshot) Sample {
	s := measureAgents(snap.Agents)
	s.Tick = snap.Tick
	s.SimTime = snap.SimTime
	s.Food = len(snap.Food)
	s.Eaten = snap.Eaten
	return s
}

func measureAgents(agents []simulation.Agent) Sample {
	s := Sample{Agents: len(agents)}
	if len(agents) == 0 {
		return s
	}

	n := len(agents)
	speeds := make([]float64, n)
	cos := make([]float64, n)
	sin := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range agents {
		a := &agents[i]
		speeds[i] = a.Speed
		cos[i], sin[i] = math.Cos(a.Heading), math.Sin(a.Heading)
		xs[i], ys[i] = a.Pos.X, a.Pos.Y
		if a.Feeding {
			s.Feeding++
		}
	}

	if n > 1 {
		s.SpeedMean, s.SpeedStd = stat.MeanStdDev(speeds, nil)
	} else {
		s.SpeedMean = speeds[0]
	}
	s.Polarization = math.Hypot(stat.Mean(cos, nil), stat.Mean(sin, nil))

	cx, cy := stat.Mean(xs, nil), stat.Mean(ys, nil)
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Hypot(xs[i]-cx, ys[i]-cy)
	}
	s.Spread = stat.Mean(dist, nil)
	return s
}
