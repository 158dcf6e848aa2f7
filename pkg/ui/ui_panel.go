package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	captionHeight = 15.0
	scrollStep    = 20.0
)

// PanelSection groups the widgets added between AddSection and EndSection.
type PanelSection struct {
	Title      string
	StartIndex int
	EndIndex   int // exclusive
}

// UIPanel lays out widgets in titled sections inside a scrollable box.
type UIPanel struct {
	Rect
	Title        string
	Visible      bool
	ScrollOffset float64

	Widgets  []Widget
	sections []PanelSection
	captionY []float64 // per widget, filled by layout
	headerY  []float64 // per section, filled by layout

	BGColor     color.RGBA
	BorderColor color.RGBA
}

func NewUIPanel(x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Rect:        Rect{X: x, Y: y, W: width, H: height},
		Title:       "Configuration",
		Visible:     true,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section, widgets added afterwards belong to it.
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   len(p.Widgets),
	})
	p.layout()
}

// EndSection closes the current section.
func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
}

func (p *UIPanel) add(w Widget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	p.Widgets = append(p.Widgets, w)
	p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	p.layout()
}

func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.W-20, label, min, max, value)
	p.add(s)
	return s
}

// AddIntSlider adds a slider snapping to whole numbers.
func (p *UIPanel) AddIntSlider(label string, min, max, value int) *Slider {
	s := NewSlider(p.X+10, 0, p.W-20, label, float64(min), float64(max), float64(value))
	s.Step = 1
	p.add(s)
	return s
}

func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(c)
	return c
}

func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.W-20, 24, label, onClick)
	p.add(b)
	return b
}

// ContentHeight is the height of everything in the panel, ignoring scrolling.
func (p *UIPanel) ContentHeight() float64 {
	h := titleHeight + float64(len(p.sections))*sectionHeight
	for _, w := range p.Widgets {
		h += captionHeight + w.Height()
	}
	return h
}

// MaxScroll is how far the content can scroll up.
func (p *UIPanel) MaxScroll() float64 {
	return math.Max(0, p.ContentHeight()-p.H+10)
}

// Scroll moves the content by dy wheel notches.
func (p *UIPanel) Scroll(dy float64) {
	p.ScrollOffset = math.Max(0, math.Min(p.MaxScroll(), p.ScrollOffset-dy*scrollStep))
	p.layout()
}

// layout places every widget according to the current scroll offset.
func (p *UIPanel) layout() {
	p.captionY = p.captionY[:0]
	p.headerY = p.headerY[:0]
	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		p.headerY = append(p.headerY, y)
		y += sectionHeight
		for i := s.StartIndex; i < s.EndIndex; i++ {
			p.captionY = append(p.captionY, y)
			p.Widgets[i].moveTo(y + captionHeight)
			y += captionHeight + p.Widgets[i].Height()
		}
	}
}

// inView reports whether a widget caption at y is inside the panel box.
func (p *UIPanel) inView(y float64) bool {
	return y >= p.Y+titleHeight-captionHeight && y <= p.Y+p.H-captionHeight
}

func (p *UIPanel) Update(in Input) {
	if !p.Visible {
		return
	}
	if in.Wheel != 0 && p.Contains(in.X, in.Y) {
		p.Scroll(in.Wheel)
	}
	for i, w := range p.Widgets {
		if p.inView(p.captionY[i]) {
			w.Update(in)
		}
	}
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	if !p.Visible {
		return
	}
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.W), float32(p.H), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.W), float32(p.H), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	for i, s := range p.sections {
		if s.Title != "" && p.inView(p.headerY[i]) {
			vector.FillRect(screen, float32(p.X+5), float32(p.headerY[i]), float32(p.W-10), 20,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, s.Title, int(p.X+10), int(p.headerY[i]+3))
		}
	}
	for i, w := range p.Widgets {
		if !p.inView(p.captionY[i]) {
			continue
		}
		if text := w.Text(); text != "" {
			ebitenutil.DebugPrintAt(screen, text, int(p.X+10), int(p.captionY[i]))
		}
		w.Draw(screen)
	}
}
