package hud

import (
	"image"
	"image/color"
	"log"

	"golang.org/x/image/math/f32"
)

// Gravity is a control's horizontal packing rule.
type Gravity uint8

const (
	Near Gravity = iota
	Zero
	Far
)

// State is the interaction state of a control.
type State uint8

const (
	StateHovered State = 1 << iota
	StateActive
)

// Control is an element of the toolbar.
type Control interface {
	Base() *ControlBase
	HitTest(p f32.Vec2) bool
	Draw(c Canvas)
	Dispose()
}

// ControlBase holds what every control has in common. Location[2] is the
// paint and hit-test order; it does not affect geometry.
type ControlBase struct {
	Name     string
	Location f32.Vec3
	Size     f32.Vec2
	Gravity  Gravity
	State    State
	Enabled  bool
	Tidbit   string
	Action   func()

	toolbar *Toolbar
	tip     *Tidbit
}

func (b *ControlBase) Base() *ControlBase { return b }

func (b *ControlBase) Z() float32 { return b.Location[2] }

func (b *ControlBase) origin() f32.Vec2 { return f32.Vec2{b.Location[0], b.Location[1]} }

// Rect is the control's bounding box in toolbar coordinates.
func (b *ControlBase) Rect() image.Rectangle {
	x, y := int(b.Location[0]), int(b.Location[1])
	return image.Rect(x, y, x+int(b.Size[0]), y+int(b.Size[1]))
}

func (b *ControlBase) HitTest(p f32.Vec2) bool {
	return b.Enabled && rectContains(b.origin(), b.Size, p)
}

func (b *ControlBase) Is(s State) bool { return b.State&s != 0 }

// refresh shows the control's tidbit while hovered.
func (b *ControlBase) refresh() {
	if b.toolbar == nil {
		return
	}
	if b.Is(StateHovered) && b.Tidbit != "" {
		if b.tip == nil || b.tip.Disposed() {
			t, err := NewTidbit(b.toolbar.info, Forever)
			if err != nil {
				log.Printf("TOOLBAR: %s tidbit: %v", b.Name, err)
				return
			}
			t.SetShowIcon(false)
			t.SetAccent(transparent)
			b.tip = t
		}
		b.tip.SetContent(b.Tidbit)
		b.tip.SetVisible(true)
	} else if b.tip != nil && !b.tip.Disposed() {
		b.tip.SetVisible(false)
	}
}

func (b *ControlBase) Dispose() {
	if b.tip != nil {
		b.tip.Dispose()
		b.tip = nil
	}
}

func (b *ControlBase) iconRect() image.Rectangle {
	r := b.Rect()
	c := r.Min.Add(r.Size().Div(2))
	half := image.Pt(IconSize/2, IconSize/2)
	return image.Rectangle{Min: c.Sub(half), Max: c.Add(half)}
}

// Button is a rectangular clickable control with an icon.
type Button struct {
	ControlBase
	Icon         Icon
	ShowIcon     bool
	Background   color.NRGBA
	HoveredColor color.NRGBA
	ActiveColor  color.NRGBA
}

func NewButton(name string, icon Icon) *Button {
	return &Button{
		ControlBase:  ControlBase{Name: name, Enabled: true, Size: f32.Vec2{ToolbarHeight, ToolbarHeight}},
		Icon:         icon,
		ShowIcon:     true,
		HoveredColor: buttonHovered,
		ActiveColor:  buttonActive,
	}
}

func (b *Button) fill() color.NRGBA {
	switch {
	case b.Is(StateActive):
		return b.ActiveColor
	case b.Is(StateHovered):
		return b.HoveredColor
	default:
		return b.Background
	}
}

func (b *Button) Draw(c Canvas) {
	if fill := b.fill(); fill.A > 0 {
		c.FillRect(b.Rect(), fill)
	}
	if b.ShowIcon && b.Icon != IconNone {
		if err := c.DrawIcon(b.Icon, b.iconRect(), 1, false); err != nil {
			log.Printf("TOOLBAR: draw %s: %v", b.Name, err)
		}
	}
}

// Image draws an icon and never takes input.
type Image struct {
	ControlBase
	Icon    Icon
	Opacity float32
}

func NewImage(name string, icon Icon) *Image {
	return &Image{ControlBase: ControlBase{Name: name, Enabled: true}, Icon: icon, Opacity: 1}
}

func (*Image) HitTest(f32.Vec2) bool { return false }

func (i *Image) Draw(c Canvas) {
	if err := c.DrawIcon(i.Icon, i.iconRect(), i.Opacity, false); err != nil {
		log.Printf("TOOLBAR: draw %s: %v", i.Name, err)
	}
}

// TextControl renders centered text and never takes input.
type TextControl struct {
	ControlBase
	Content string
}

func NewTextControl(name, content string) *TextControl {
	return &TextControl{ControlBase: ControlBase{Name: name, Enabled: true}, Content: content}
}

func (*TextControl) HitTest(f32.Vec2) bool { return false }

func (t *TextControl) Draw(c Canvas) {
	c.DrawText([]TextRun{{Text: t.Content}}, t.Rect(), AlignCenter, controlText)
}

// PrimaryButton is the hexagonal record button floating over the bar.
type PrimaryButton struct {
	Button
	invert bool
}

func NewPrimaryButton(name string) *PrimaryButton {
	p := &PrimaryButton{Button: *NewButton(name, IconRecord)}
	p.Gravity = Zero
	p.Size = f32.Vec2{64, 64}
	p.Location = f32.Vec3{(ToolbarWidth - 64) / 2, -16, 64}
	p.refreshColors(nil)
	return p
}

// hexagon is the button outline: flat top and bottom, pointed sides.
func (p *PrimaryButton) hexagon() []f32.Vec2 {
	x, y := p.Location[0], p.Location[1]
	w, h := p.Size[0], p.Size[1]
	return []f32.Vec2{
		{x, y + h/2},
		{x + w/3, y},
		{x + w - w/3, y},
		{x + w, y + h/2},
		{x + w - w/3, y + h},
		{x + w/3, y + h},
	}
}

func (p *PrimaryButton) HitTest(pt f32.Vec2) bool {
	return p.Enabled && pointInPolygon(pt, p.hexagon())
}

// refreshColors themes the button from the accent color. Light accents get
// an inverted icon.
func (p *PrimaryButton) refreshColors(accent AccentSource) {
	if accent != nil {
		if c, ok := accent(); ok {
			c.A = 255
			p.Background = c
			p.invert = yiq(c) > 0x7F
			hovered := adjustContrast(adjustSaturation(c, 1), 4)
			p.HoveredColor = hovered
			p.ActiveColor = adjustContrast(adjustSaturation(hovered, .75), .5)
			return
		}
	}
	p.Background = primaryFallback
	p.HoveredColor = primaryFallbackHovered
	p.ActiveColor = primaryFallbackActive
	p.invert = false
}

func (p *PrimaryButton) Draw(c Canvas) {
	hex := p.hexagon()
	c.FillPolygon(hex, p.Background)
	if fill := p.fill(); fill != p.Background && fill.A > 0 {
		c.FillPolygon(hex, fill)
	}
	if !p.ShowIcon || p.Icon == IconNone {
		return
	}
	opacity := float32(1)
	if !p.Enabled {
		opacity = 0.5
	}
	if p.invert {
		err := c.DrawIcon(p.Icon, p.iconRect(), opacity, true)
		if err == nil {
			return
		}
		log.Printf("TOOLBAR: error inverting icon: %v", err)
	}
	if err := c.DrawIcon(p.Icon, p.iconRect(), opacity, false); err != nil {
		log.Printf("TOOLBAR: draw %s: %v", p.Name, err)
	}
}
