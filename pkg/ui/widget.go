package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is the pointer state widgets react to, sampled once per frame.
type Input struct {
	X, Y        float64
	Pressed     bool // left button held
	JustPressed bool // left button went down this frame
	Wheel       float64
}

// PollInput reads the current mouse state from ebiten.
func PollInput() Input {
	mx, my := ebiten.CursorPosition()
	_, dy := ebiten.Wheel()
	return Input{
		X:           float64(mx),
		Y:           float64(my),
		Pressed:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Wheel:       dy,
	}
}

// Widget is anything the Panel can lay out.
type Widget interface {
	Update(in Input)
	Draw(screen *ebiten.Image)
	// Height is the vertical space the widget takes, margins included.
	Height() float64
	// Text is the caption drawn above the widget.
	Text() string
	moveTo(y float64)
}

// Rect is an axis aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) is inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}
