package ui

import "testing"

func TestSlider_ValueAt(t *testing.T) {
	s := NewSlider(10, 0, 100, "Speed", 0, 50, 25)

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"left edge", 10, 0},
		{"middle", 60, 25},
		{"right edge", 110, 50},
		{"left of the bar", -40, 0},
		{"right of the bar", 500, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ValueAt(tt.x); got != tt.want {
				t.Errorf("ValueAt(%v) = %v; want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestSlider_Step(t *testing.T) {
	s := NewSlider(0, 0, 100, "Agents", 0, 10, 3)
	s.Step = 1
	if got := s.ValueAt(34); got != 3 {
		t.Errorf("ValueAt(34) = %v; want 3", got)
	}
	if got := s.ValueAt(36); got != 4 {
		t.Errorf("ValueAt(36) = %v; want 4", got)
	}
	s.Value = s.ValueAt(71)
	if s.Int() != 7 || s.Text() != "Agents: 7" {
		t.Errorf("Int = %d Text = %q", s.Int(), s.Text())
	}
}

func TestSlider_InitialValueClamped(t *testing.T) {
	if s := NewSlider(0, 0, 100, "w", 0, 5, 9); s.Value != 5 {
		t.Errorf("Value = %v; want 5", s.Value)
	}
}

func TestSlider_Update(t *testing.T) {
	s := NewSlider(0, 100, 100, "w", 0, 1, 0.5)

	s.Update(Input{X: 80, Y: 105})
	if s.Value != 0.5 {
		t.Errorf("hover without press changed the value to %v", s.Value)
	}
	s.Update(Input{X: 80, Y: 300, Pressed: true})
	if s.Value != 0.5 {
		t.Errorf("press outside the bar changed the value to %v", s.Value)
	}
	s.Update(Input{X: 80, Y: 105, Pressed: true})
	if s.Value != 0.8 {
		t.Errorf("Value = %v; want 0.8", s.Value)
	}
}

func TestCheckbox_TogglesOncePerClick(t *testing.T) {
	c := NewCheckbox(0, 0, "Pause", false)

	c.Update(Input{X: 5, Y: 5, Pressed: true, JustPressed: true})
	c.Update(Input{X: 5, Y: 5, Pressed: true}) // still held
	if !c.Value {
		t.Fatal("checkbox should be checked after one click")
	}
	c.Update(Input{X: 50, Y: 50, Pressed: true, JustPressed: true})
	if !c.Value {
		t.Error("click outside toggled the checkbox")
	}
}

func TestButton_Click(t *testing.T) {
	clicks := 0
	b := NewButton(0, 0, 80, 20, "Restart", func() { clicks++ })

	b.Update(Input{X: 10, Y: 10, Pressed: true, JustPressed: true})
	b.Update(Input{X: 10, Y: 10, Pressed: true})
	b.Update(Input{X: 100, Y: 10, Pressed: true, JustPressed: true})

	if clicks != 1 {
		t.Errorf("clicks = %d; want 1", clicks)
	}
}

func TestUIPanel_Layout(t *testing.T) {
	p := NewUIPanel(10, 10, 200, 1000)
	p.AddSection("Weights")
	cohesion := p.AddSlider("Cohesion", 0, 5, 1)
	separation := p.AddSlider("Separation", 0, 5, 1)
	p.EndSection()
	p.AddSection("Run")
	pause := p.AddCheckbox("Pause", false)
	p.EndSection()

	// title + header, then the caption
	if want := 10 + titleHeight + sectionHeight + captionHeight; cohesion.Y != want {
		t.Errorf("first slider at %v; want %v", cohesion.Y, want)
	}
	if want := cohesion.Y + cohesion.Height() + captionHeight; separation.Y != want {
		t.Errorf("second slider at %v; want %v", separation.Y, want)
	}
	if want := separation.Y + separation.Height() + sectionHeight + captionHeight; pause.Y != want {
		t.Errorf("checkbox at %v; want %v", pause.Y, want)
	}
	if cohesion.X != 20 || cohesion.W != 180 {
		t.Errorf("slider box %+v; want x=20 w=180", cohesion.Rect)
	}
}

func TestUIPanel_Scroll(t *testing.T) {
	p := NewUIPanel(0, 0, 200, 120)
	p.AddSection("Many")
	first := p.AddSlider("a", 0, 1, 0)
	for range 9 {
		p.AddSlider("b", 0, 1, 0)
	}
	startY := first.Y

	p.Scroll(1) // wheel up, nothing above
	if p.ScrollOffset != 0 {
		t.Errorf("ScrollOffset = %v; want 0", p.ScrollOffset)
	}
	p.Scroll(-2)
	if p.ScrollOffset != 2*scrollStep || first.Y != startY-2*scrollStep {
		t.Errorf("ScrollOffset = %v first.Y = %v", p.ScrollOffset, first.Y)
	}
	p.Scroll(-1000)
	if p.ScrollOffset != p.MaxScroll() {
		t.Errorf("ScrollOffset = %v; want max %v", p.ScrollOffset, p.MaxScroll())
	}
}

func TestUIPanel_HiddenIgnoresInput(t *testing.T) {
	p := NewUIPanel(0, 0, 200, 400)
	c := p.AddCheckbox("Pause", false)
	p.Visible = false

	p.Update(Input{X: c.X + 1, Y: c.Y + 1, Pressed: true, JustPressed: true})
	if c.Value {
		t.Error("hidden panel forwarded a click")
	}
}
