package render

import (
	"math"

	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
)

// AgentPolygon returns the arrow outline of an agent in world coordinates:
// tip, left fin, centre and right fin. The centre notch gives the tail its chevron.
func AgentPolygon(pos geometry.Vector2D, heading, noseLength float64) [4]geometry.Vector2D {
	return [4]geometry.Vector2D{
		pos.Add(geometry.NewVectorPolar(noseLength, heading)),
		pos.Add(geometry.NewVectorPolar(noseLength/2, heading+2*math.Pi/3)),
		pos,
		pos.Add(geometry.NewVectorPolar(noseLength/2, heading-2*math.Pi/3)),
	}
}

// FoodPolygon returns a diamond whose half diagonal is size: top, right, bottom, left.
func FoodPolygon(pos geometry.Vector2D, size float64) [4]geometry.Vector2D {
	return [4]geometry.Vector2D{
		pos.Add(geometry.Vector2D{X: 0, Y: size}),
		pos.Add(geometry.Vector2D{X: size, Y: 0}),
		pos.Add(geometry.Vector2D{X: 0, Y: -size}),
		pos.Add(geometry.Vector2D{X: -size, Y: 0}),
	}
}

// Viewport maps world coordinates (origin at the centre, y up) to screen pixels
// (origin top left, y down).
type Viewport struct {
	Width, Height int
	Scale         float64 // pixels per world unit
}

func (v Viewport) ToScreen(p geometry.Vector2D) (float32, float32) {
	return float32(p.X*v.Scale + float64(v.Width)/2), float32(-p.Y*v.Scale + float64(v.Height)/2)
}

// ToWorld is the inverse of ToScreen.
func (v Viewport) ToWorld(x, y float64) geometry.Vector2D {
	return geometry.Vector2D{
		X: (x - float64(v.Width)/2) / v.Scale,
		Y: -(y - float64(v.Height)/2) / v.Scale,
	}
}
