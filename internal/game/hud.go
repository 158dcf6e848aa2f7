package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/internal/telemetry"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/simulation"
)

var (
	feedingColor = color.RGBA{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}
	roamingColor = color.RGBA{R: 0xCD, G: 0xD7, B: 0xD6, A: 0xFF}
)

func hudText(s *simulation.Snapshot, fps, tps, updateMs, drawMs float64) string {
	m := telemetry.MeasureSnapshot(s)
	return fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nTick:   %d\nTime:   %.1fs\nAgents: %d\nFood:   %d\nEaten:  %d\nAlign:  %.2f\nSpread: %.0f\n\nUpdate: %.2fms\nDraw:   %.2fms\nTotal:  %.2fms",
		fps, tps,
		m.Tick, m.SimTime, m.Agents, m.Food, m.Eaten, m.Polarization, m.Spread,
		updateMs, drawMs, updateMs+drawMs)
}

// feedingRatio is the share of agents currently chasing food.
func feedingRatio(s *simulation.Snapshot) float32 {
	if len(s.Agents) == 0 {
		return 0
	}
	return float32(s.Feeding) / float32(len(s.Agents))
}

// drawFeedingBar shows feeding versus roaming agents in the top right corner.
func drawFeedingBar(screen *ebiten.Image, s *simulation.Snapshot) {
	if len(s.Agents) == 0 {
		return
	}
	const (
		barWidth  = float32(200.0)
		barHeight = float32(12.0)
		margin    = float32(10.0)
	)
	x := float32(screen.Bounds().Dx()) - barWidth - margin
	y := margin

	fedW := barWidth * feedingRatio(s)
	vector.FillRect(screen, x, y, fedW, barHeight, feedingColor, true)
	vector.FillRect(screen, x+fedW, y, barWidth-fedW, barHeight, roamingColor, true)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("feeding %d/%d", s.Feeding, len(s.Agents)), int(x), int(y+barHeight+4))
}
