package hud

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"slices"
	"time"

	"golang.org/x/image/math/f32"

	"screen-hud/src/hook"
	"screen-hud/src/logutil"
)

// Toolbar dimensions.
const (
	ToolbarWidth  = 256
	ToolbarHeight = 32
)

// RecordingIntent is what the primary button asks for.
type RecordingIntent uint8

const (
	IntentStart RecordingIntent = iota
	IntentStop
	IntentPause
	IntentResume
)

func (i RecordingIntent) String() string {
	switch i {
	case IntentStop:
		return "stop"
	case IntentPause:
		return "pause"
	case IntentResume:
		return "resume"
	default:
		return "start"
	}
}

// OptionsRequest tells which options button was pressed.
type OptionsRequest uint8

const (
	OptionsGeneric OptionsRequest = iota
	OptionsAudio
	OptionsRegion
)

func (o OptionsRequest) String() string {
	switch o {
	case OptionsAudio:
		return "audio"
	case OptionsRegion:
		return "region"
	default:
		return "generic"
	}
}

// ErrUnsupportedIntent is returned for intents the primary button cannot show.
var ErrUnsupportedIntent = errors.New("unsupported recording intent")

// Toolbar is the floating control strip.
type Toolbar struct {
	*component

	controls []Control
	index    map[string]int

	primary *PrimaryButton
	grip    *Image
	timer   *TextControl

	nextIntent  RecordingIntent
	mouseLocked bool

	// OnRecordingIntent receives the primary button intent.
	OnRecordingIntent func(RecordingIntent)
	// OnOptionsRequested receives options button presses.
	OnOptionsRequested func(OptionsRequest)
}

// NewToolbar creates the toolbar with its default controls.
func NewToolbar(info *ContainerInfo) (*Toolbar, error) {
	t := &Toolbar{index: make(map[string]int)}
	comp, err := newComponent(info, SurfaceOptions{Name: "toolbar", BlurBehind: true}, t.draw)
	if err != nil {
		return nil, err
	}
	t.component = comp

	if ps, ok := t.surface.(PointerSurface); ok {
		ps.SetPointerHandler(t)
	}
	if t.surface != nil {
		t.surface.SetPassThrough(false)
	}

	// Hovering buttons shows and hides tidbits constantly; holding the mouse
	// lock for the toolbar lifetime keeps the hook installed meanwhile.
	if info.Mouse != nil {
		if err := info.Mouse.RequestLock(); err != nil {
			log.Printf("TOOLBAR: %v", err)
		} else {
			t.mouseLocked = true
		}
	}

	t.SetBounds(image.Rect(320, 320, 320+ToolbarWidth, 320+ToolbarHeight))
	t.buildControls()
	return t, nil
}

func (t *Toolbar) buildControls() {
	t.timer = NewTextControl("timerText", "00:00")
	t.timer.Size = f32.Vec2{1.5 * ToolbarHeight, ToolbarHeight}
	t.Add(t.timer)

	options := NewButton("optionsButton", IconOptions)
	options.Tidbit = "Options"
	options.Action = func() { t.requestOptions(OptionsGeneric) }
	t.Add(options)

	t.grip = NewImage("grip", IconGrip)
	t.grip.Size = f32.Vec2{0.5 * ToolbarHeight, ToolbarHeight}
	t.grip.Opacity = 0.5
	t.Add(t.grip)

	t.primary = NewPrimaryButton("primaryButton")
	t.primary.Tidbit = "Start recording"
	t.primary.Action = func() {
		if t.OnRecordingIntent != nil {
			t.OnRecordingIntent(t.nextIntent)
		}
	}
	t.primary.refreshColors(t.info.Accent)
	t.Add(t.primary)

	mic := NewButton("microphoneButton", IconMicrophone)
	mic.Gravity = Far
	mic.Tidbit = "Audio options"
	mic.Action = func() { t.requestOptions(OptionsAudio) }
	t.Add(mic)

	region := NewButton("regionButton", IconRegion)
	region.Gravity = Far
	region.Tidbit = "Region options"
	region.Action = func() { t.requestOptions(OptionsRegion) }
	t.Add(region)

	closeButton := NewButton("closeButton", IconClose)
	closeButton.Gravity = Far
	closeButton.Tidbit = "Close"
	closeButton.HoveredColor = closeHovered
	closeButton.ActiveColor = closeActive
	closeButton.Action = t.Dispose
	t.Add(closeButton)
}

func (t *Toolbar) requestOptions(o OptionsRequest) {
	if t.OnOptionsRequested != nil {
		t.OnOptionsRequested(o)
	}
}

// Add appends c to the collection, replacing any control with the same name
// in place.
func (t *Toolbar) Add(c Control) {
	b := c.Base()
	b.toolbar = t
	if i, ok := t.index[b.Name]; ok {
		t.controls[i].Dispose()
		t.controls[i] = c
	} else {
		t.index[b.Name] = len(t.controls)
		t.controls = append(t.controls, c)
	}
	t.layout()
	t.Invalidate()
}

// Control returns the control registered under name, or nil.
func (t *Toolbar) Control(name string) Control {
	if i, ok := t.index[name]; ok {
		return t.controls[i]
	}
	return nil
}

// Controls returns the controls in collection order.
func (t *Toolbar) Controls() []Control { return t.controls }

// layout packs Near controls from the left and Far controls from the right.
// A Near control sits after every Near control that follows it in the
// collection; a Far control sits before every Far control that follows it.
func (t *Toolbar) layout() {
	for i, c := range t.controls {
		b := c.Base()
		switch b.Gravity {
		case Near:
			var x float32
			for _, later := range t.controls[i+1:] {
				if lb := later.Base(); lb.Gravity == Near {
					x += lb.Size[0]
				}
			}
			b.Location[0] = x
		case Far:
			x := b.Size[0]
			for _, later := range t.controls[i+1:] {
				if lb := later.Base(); lb.Gravity == Far {
					x += lb.Size[0]
				}
			}
			b.Location[0] = ToolbarWidth - x
		}
	}
}

// byZ returns the controls ordered by ascending z. Equal z keeps collection
// order.
func (t *Toolbar) byZ() []Control {
	sorted := slices.Clone(t.controls)
	slices.SortStableFunc(sorted, func(a, b Control) int {
		za, zb := a.Base().Z(), b.Base().Z()
		switch {
		case za < zb:
			return -1
		case za > zb:
			return 1
		}
		return 0
	})
	return sorted
}

// HitTestControls returns the topmost control under p, or nil.
func (t *Toolbar) HitTestControls(p image.Point) Control {
	v := vec(p)
	sorted := t.byZ()
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].HitTest(v) {
			return sorted[i]
		}
	}
	return nil
}

func (t *Toolbar) active() Control {
	for _, c := range t.controls {
		if c.Base().Is(StateActive) {
			return c
		}
	}
	return nil
}

// HandleMouseMove hovers the topmost control under p and unhovers the rest.
func (t *Toolbar) HandleMouseMove(p image.Point) {
	hit := t.HitTestControls(p)
	for _, c := range t.controls {
		if b := c.Base(); c != hit && b.Is(StateHovered) {
			b.State &^= StateHovered
			b.refresh()
		}
	}
	if hit != nil {
		if b := hit.Base(); !b.Is(StateHovered) {
			b.State |= StateHovered
			b.refresh()
		}
	}
	t.Invalidate()
}

// HandleMouseDown activates the control under p. While another control is
// active the press is ignored.
func (t *Toolbar) HandleMouseDown(p image.Point, btn hook.Button) {
	if btn != hook.ButtonLeft {
		return
	}
	if a := t.active(); a != nil {
		logutil.Tracef("TOOLBAR: %s is already active - ignoring press", a.Base().Name)
		return
	}
	hit := t.HitTestControls(p)
	if hit == nil {
		return
	}
	b := hit.Base()
	b.State |= StateActive
	b.refresh()
	t.Invalidate()
}

// HandleMouseUp releases the active control and runs its action when the
// release happens over it.
func (t *Toolbar) HandleMouseUp(p image.Point, btn hook.Button) {
	if btn != hook.ButtonLeft {
		return
	}
	a := t.active()
	if a == nil {
		return
	}
	b := a.Base()
	b.State &^= StateActive
	b.refresh()
	t.Invalidate()
	if a.HitTest(vec(p)) && b.Action != nil {
		log.Printf("TOOLBAR: %s activated", b.Name)
		b.Action()
	}
}

// HandleMouseLeave clears every hover state.
func (t *Toolbar) HandleMouseLeave() {
	for _, c := range t.controls {
		if b := c.Base(); b.Is(StateHovered) {
			b.State &^= StateHovered
			b.refresh()
		}
	}
	t.Invalidate()
}

// HitTestCaption lets an unlocked toolbar be dragged by any point that is
// not over a control.
func (t *Toolbar) HitTestCaption(p image.Point) bool {
	if t.Locked() {
		return false
	}
	v := vec(p)
	for _, c := range t.controls {
		if c.HitTest(v) {
			return false
		}
	}
	return true
}

// Locked is derived from the grip opacity.
func (t *Toolbar) Locked() bool {
	return math.Abs(float64(t.grip.Opacity)) < 0.5
}

func (t *Toolbar) SetLocked(v bool) {
	if v {
		t.grip.Opacity = 0.125
	} else {
		t.grip.Opacity = 0.5
	}
	t.Invalidate()
}

// SetPrimaryIntent sets what the primary button sends when pressed.
func (t *Toolbar) SetPrimaryIntent(intent RecordingIntent) error {
	switch intent {
	case IntentStart:
		t.primary.Icon = IconRecord
		t.primary.Tidbit = "Start recording"
	case IntentStop:
		t.primary.Icon = IconStop
		t.primary.Tidbit = "Stop recording"
	default:
		return fmt.Errorf("primary button: %w: %s", ErrUnsupportedIntent, intent)
	}
	t.nextIntent = intent
	t.primary.refresh()
	t.Invalidate()
	return nil
}

func (t *Toolbar) PrimaryIntent() RecordingIntent { return t.nextIntent }

func (t *Toolbar) SetPrimaryEnabled(v bool) {
	t.primary.Enabled = v
	if !v {
		t.primary.State = 0
		t.primary.refresh()
	}
	t.Invalidate()
}

// SetElapsed updates the timer text as mm:ss.
func (t *Toolbar) SetElapsed(d time.Duration) {
	secs := int(d / time.Second)
	t.timer.Content = fmt.Sprintf("%02d:%02d", secs/60, secs%60)
	t.Invalidate()
}

// RefreshAccent re-themes the primary button, e.g. after the system accent
// color changed.
func (t *Toolbar) RefreshAccent() {
	t.primary.refreshColors(t.info.Accent)
	t.Invalidate()
}

func (t *Toolbar) draw(c Canvas) {
	c.Clear(toolbarBackground)
	t.layout()
	for _, ctl := range t.byZ() {
		ctl.Draw(c)
	}
}

// Dispose releases the mouse lock and destroys the controls in collection
// order.
func (t *Toolbar) Dispose() {
	if t.disposed {
		return
	}
	if t.mouseLocked {
		t.info.Mouse.RequestUnlock()
		t.mouseLocked = false
	}
	for _, c := range t.controls {
		c.Dispose()
	}
	t.controls = nil
	t.index = map[string]int{}
	t.dispose()
}
