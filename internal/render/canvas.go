package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/geometry"
)

// whiteImage is the 1-pixel-source texture for DrawTriangles, vertex colours tint it.
var whiteImage *ebiten.Image

// Canvas batches agents and food as triangles and flushes them onto an ebiten screen.
// It implements simulation.Renderer.
type Canvas struct {
	Viewport
	NoseLength float64

	screen   *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
	closed   bool
}

func NewCanvas(width, height int, scale, noseLength float64) *Canvas {
	return &Canvas{
		Viewport:   Viewport{Width: width, Height: height, Scale: scale},
		NoseLength: noseLength,
	}
}

// Begin targets the screen handed to Game.Draw for the next frame.
func (c *Canvas) Begin(screen *ebiten.Image) {
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	}
	c.screen = screen
	c.vertices = c.vertices[:0]
	c.indices = c.indices[:0]
}

func (c *Canvas) Fill(clr color.Color) {
	if c.screen != nil {
		c.screen.Fill(clr)
	}
}

func (c *Canvas) DrawAgent(pos geometry.Vector2D, heading float64, clr color.Color) {
	// tip, left, centre, right: the notch at the centre needs two triangles
	c.quad(AgentPolygon(pos, heading, c.NoseLength), clr, [6]uint16{0, 1, 2, 0, 2, 3})
}

func (c *Canvas) DrawFood(pos geometry.Vector2D, size float64, clr color.Color) {
	c.quad(FoodPolygon(pos, size), clr, [6]uint16{0, 1, 2, 0, 2, 3})
}

// Present flushes the batch. It reports false once the canvas was closed.
func (c *Canvas) Present() bool {
	c.flush()
	return !c.closed
}

// Close makes the next Present report a closed display.
func (c *Canvas) Close() { c.closed = true }

func (c *Canvas) Closed() bool { return c.closed }

func (c *Canvas) quad(poly [4]geometry.Vector2D, clr color.Color, tris [6]uint16) {
	if len(c.vertices)+len(poly) > math.MaxUint16 {
		c.flush()
	}
	r, g, b, a := clr.RGBA()
	base := uint16(len(c.vertices))
	for _, p := range poly {
		x, y := c.ToScreen(p)
		c.vertices = append(c.vertices, ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: 1, SrcY: 1,
			ColorR: float32(r) / 0xffff,
			ColorG: float32(g) / 0xffff,
			ColorB: float32(b) / 0xffff,
			ColorA: float32(a) / 0xffff,
		})
	}
	for _, i := range tris {
		c.indices = append(c.indices, base+i)
	}
}

func (c *Canvas) flush() {
	if c.screen != nil && len(c.indices) > 0 {
		op := &ebiten.DrawTrianglesOptions{}
		c.screen.DrawTriangles(c.vertices, c.indices, whiteImage, op)
	}
	c.vertices = c.vertices[:0]
	c.indices = c.indices[:0]
}
