package hud

import (
	"image"
	"image/color"
	"log"
	"time"
)

// Status selects a tidbit's default icon and accent.
type Status uint8

const (
	StatusInformation Status = iota
	StatusSuccess
	StatusWarning
	StatusError
)

func (s Status) accent() color.NRGBA {
	switch s {
	case StatusSuccess:
		return color.NRGBA{0, 255, 128, 255}
	case StatusWarning:
		return color.NRGBA{255, 255, 0, 255}
	case StatusError:
		return color.NRGBA{255, 0, 0, 255}
	default:
		return color.NRGBA{0, 128, 255, 255}
	}
}

func (s Status) icon() Icon {
	switch s {
	case StatusSuccess:
		return IconSuccess
	case StatusWarning:
		return IconWarning
	case StatusError:
		return IconError
	default:
		return IconInfo
	}
}

const (
	tidbitPadding = 6
	tidbitMaxText = 256
	tidbitMaxLine = 32
)

// Lifetimes accepted by NewTidbit.
const (
	DefaultTimeout time.Duration = 0
	Forever        time.Duration = -1
)

// Tidbit is a small tooltip that follows the cursor while visible.
type Tidbit struct {
	*component

	status   Status
	content  string
	runs     []TextRun
	icon     Icon
	accent   *color.NRGBA
	showIcon bool
	visible  bool
	cancel   func()
}

// NewTidbit creates a visible tidbit. A DefaultTimeout tidbit disposes itself
// after the container's TidbitTimeout; a Forever tidbit lives until it is
// disposed.
func NewTidbit(info *ContainerInfo, timeout time.Duration) (*Tidbit, error) {
	t := &Tidbit{showIcon: true}
	c, err := newComponent(info, SurfaceOptions{Name: "tidbit", PassThrough: true}, t.draw)
	if err != nil {
		return nil, err
	}
	t.component = c
	t.relayout()
	t.SetVisible(true)

	if timeout == DefaultTimeout {
		timeout = info.TidbitTimeout
	}
	if timeout > 0 && info.Schedule != nil {
		t.cancel = info.Schedule(timeout, t.Dispose)
	}
	return t, nil
}

func (t *Tidbit) Visible() bool { return t.visible }

// SetVisible shows or hides the tidbit and keeps it registered with the
// container's TidbitManager only while shown.
func (t *Tidbit) SetVisible(v bool) {
	if t.visible == v || (v && t.disposed) {
		return
	}
	t.component.SetVisible(v)
	t.visible = v
	if t.info.Tidbits == nil {
		return
	}
	if v {
		t.info.Tidbits.Register(t)
	} else {
		t.info.Tidbits.Unregister(t)
	}
}

func (t *Tidbit) Location() image.Point { return t.Bounds().Min }

func (t *Tidbit) SetLocation(p image.Point) {
	t.SetBounds(image.Rectangle{Min: p, Max: p.Add(t.Size())})
}

func (t *Tidbit) Size() image.Point { return t.Bounds().Size() }

func (t *Tidbit) Content() string { return t.content }

// SetContent replaces the text. Markup is stripped into styled runs.
func (t *Tidbit) SetContent(s string) {
	t.content = s
	t.runs = ParseMarkup(s)
	t.relayout()
}

func (t *Tidbit) Status() Status { return t.status }

func (t *Tidbit) SetStatus(s Status) {
	t.status = s
	t.relayout()
}

// SetIcon overrides the status icon. IconNone restores it.
func (t *Tidbit) SetIcon(icon Icon) {
	t.icon = icon
	t.relayout()
}

func (t *Tidbit) SetShowIcon(v bool) {
	t.showIcon = v
	t.relayout()
}

// SetAccent overrides the status accent. A fully transparent accent removes
// the left border.
func (t *Tidbit) SetAccent(c color.NRGBA) {
	t.accent = &c
	t.relayout()
}

func (t *Tidbit) accentColor() color.NRGBA {
	if t.accent != nil {
		return *t.accent
	}
	return t.status.accent()
}

func (t *Tidbit) borderWidth() int {
	if t.accentColor().A == 0 {
		return 0
	}
	return 2
}

func (t *Tidbit) currentIcon() Icon {
	if !t.showIcon {
		return IconNone
	}
	if t.icon != IconNone {
		return t.icon
	}
	return t.status.icon()
}

func (t *Tidbit) iconWidth() int {
	if t.currentIcon() == IconNone {
		return 0
	}
	return IconSize
}

// relayout resizes the tidbit to fit its content, keeping its location.
func (t *Tidbit) relayout() {
	text := t.info.measurer().MeasureText(t.runs, image.Pt(tidbitMaxText, tidbitMaxLine))
	size := image.Pt(
		text.X+4*tidbitPadding+t.borderWidth()+t.iconWidth(),
		text.Y+2*tidbitPadding,
	)
	loc := t.Location()
	t.SetBounds(image.Rectangle{Min: loc, Max: loc.Add(size)})
}

func (t *Tidbit) draw(c Canvas) {
	size := c.Size()
	c.Clear(transparent)
	c.FillRect(image.Rect(0, 0, size.X, size.Y), tidbitBackground)

	border := t.borderWidth()
	if border > 0 {
		c.FillRect(image.Rect(0, 0, border, size.Y), t.accentColor())
	}
	if icon := t.currentIcon(); icon != IconNone {
		x, y := border+tidbitPadding, (size.Y-IconSize)/2
		if err := c.DrawIcon(icon, image.Rect(x, y, x+IconSize, y+IconSize), 1, false); err != nil {
			log.Printf("TIDBIT: draw icon: %v", err)
		}
	}
	x := border + t.iconWidth() + 2*tidbitPadding
	c.DrawText(t.runs, image.Rect(x, tidbitPadding, size.X, size.Y), AlignLeading, tidbitText)
}

// Dispose hides the tidbit, cancels its timeout and releases the surface.
func (t *Tidbit) Dispose() {
	if t.disposed {
		return
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.SetVisible(false)
	t.dispose()
}
