package hud

import (
	"image"
	"log"

	"screen-hud/src/hook"
	"screen-hud/src/logutil"
)

// Mode is the Clipper interaction mode.
type Mode uint8

const (
	// Pick selects a brand-new region by dragging or by snapping to a window.
	Pick Mode = iota
	// Rescale resizes or moves the current region through the native chrome.
	Rescale
)

func (m Mode) String() string {
	if m == Rescale {
		return "rescale"
	}
	return "pick"
}

// Smallest region the Clipper accepts.
const (
	MinimumWidth  = 38
	MinimumHeight = 38
)

func (m Mode) padding() int {
	if m == Rescale {
		return 5
	}
	return 1
}

// Clipper lets the user select a screen region. It starts Locked in
// Rescale mode; Unlock enters an interactive mode and Lock commits.
type Clipper struct {
	*component

	mode          Mode
	locked        bool
	padding       int
	initial       *image.Point
	window        uintptr
	altDown       bool
	allowAdvanced bool

	tidbit  *Tidbit
	toolbar *Toolbar
	gate    *latch

	subs     []hook.Subscription
	kbLocked bool
	msLocked bool
}

// NewClipper creates a locked, hidden Clipper.
func NewClipper(info *ContainerInfo) (*Clipper, error) {
	c := &Clipper{mode: Rescale, locked: true, allowAdvanced: true}
	comp, err := newComponent(info, SurfaceOptions{Name: "clipper", Resizable: true}, c.draw)
	if err != nil {
		return nil, err
	}
	c.component = comp
	c.refreshLayout()
	if c.surface != nil {
		c.surface.OnBoundsChanged(c.updateAttachedToolbar)
	}
	return c, nil
}

func (c *Clipper) Mode() Mode   { return c.mode }
func (c *Clipper) Locked() bool { return c.locked }

// WindowHandle is the window snapped during the last Pick, or zero.
func (c *Clipper) WindowHandle() uintptr { return c.window }

// Area is the selected region: Bounds without the mode padding.
func (c *Clipper) Area() image.Rectangle {
	return c.Bounds().Inset(c.padding)
}

// SetArea moves the Clipper so that its Area is r.
func (c *Clipper) SetArea(r image.Rectangle) {
	c.SetBounds(r.Inset(-c.padding))
	c.updateAttachedToolbar()
}

func (c *Clipper) hide() {
	c.SetBounds(OffScreen)
}

func (c *Clipper) refreshLayout() {
	area := c.Area()
	c.padding = c.mode.padding()
	c.SetArea(area)
}

// Unlock enters mode and returns a channel that is closed once the Clipper
// locks again, either by commit or by disposal. Pick mode starts from a
// hidden, empty area; Rescale keeps the current one. Unlocking again in the
// same mode returns an already-closed channel.
func (c *Clipper) Unlock(mode Mode, allowAdvancedSelection bool) <-chan struct{} {
	if c.disposed {
		return closedChan
	}
	if !c.locked && c.mode == mode {
		logutil.Tracef("CLIPPER: already unlocked in %s mode - ignoring", mode)
		return closedChan
	}

	log.Printf("CLIPPER: unlocking (%s)", mode)
	c.allowAdvanced = allowAdvancedSelection
	if c.gate != nil {
		c.gate.Release()
	}
	c.gate = newLatch()

	if mode == Pick {
		c.hide()
	}
	c.initial = nil
	c.window = 0
	c.altDown = false
	c.mode = mode
	c.refreshLayout()

	if c.locked {
		c.acquireHooks()
	}
	c.locked = false

	if c.surface != nil {
		c.surface.SetPassThrough(mode == Pick)
		if mode == Pick {
			c.surface.SetMinimumSize(image.Point{})
		}
	}
	c.refreshTidbit()
	return c.gate.Done()
}

// Lock commits the current area and releases the input hooks.
func (c *Clipper) Lock() {
	if c.locked {
		logutil.Tracef("CLIPPER: already locked - ignoring")
		return
	}

	log.Printf("CLIPPER: locking at %v", c.Area())
	c.mode = Rescale
	c.locked = true
	c.refreshLayout()
	if c.tidbit != nil {
		c.tidbit.Dispose()
		c.tidbit = nil
	}
	if c.gate != nil {
		c.gate.Release()
	}

	if c.surface != nil {
		c.surface.SetPassThrough(false)
		c.surface.SetMinimumSize(image.Pt(MinimumWidth+2*c.padding, MinimumHeight+2*c.padding))
	}
	c.releaseHooks()
}

// Dispose locks the Clipper if needed and tears it down.
func (c *Clipper) Dispose() {
	if c.disposed {
		return
	}
	c.Lock()
	c.dispose()
}

// AttachToolbar makes t follow the selected area.
func (c *Clipper) AttachToolbar(t *Toolbar) {
	c.toolbar = t
	t.SetLocked(true)
	c.updateAttachedToolbar()
}

// updateAttachedToolbar centers the toolbar under the area, or above it when
// there is no room below.
func (c *Clipper) updateAttachedToolbar() {
	if c.toolbar == nil || c.toolbar.Disposed() {
		return
	}
	b := c.Bounds()
	size := c.toolbar.Bounds().Size()
	vb := c.info.VirtualBounds

	below := b.Max.Y + size.Y/2
	x := clamp(b.Min.X+(b.Dx()-size.X)/2, vb.Min.X, vb.Max.X-size.X)
	y := clamp(below, vb.Min.Y, vb.Max.Y-size.Y)
	if y < below {
		y = b.Min.Y - size.Y*3/2
	}
	p := image.Pt(x, y)
	c.toolbar.SetBounds(image.Rectangle{Min: p, Max: p.Add(size)})
}

func (c *Clipper) acquireHooks() {
	if ms := c.info.Mouse; ms != nil {
		if err := ms.RequestLock(); err != nil {
			log.Printf("CLIPPER: %v", err)
		} else {
			c.msLocked = true
		}
		c.subs = append(c.subs,
			ms.OnMouseDown(c.onMouseDown),
			ms.OnMouseMove(c.onMouseMove),
			ms.OnMouseUp(c.onMouseUp))
	}
	if kb := c.info.Keyboard; kb != nil {
		if err := kb.RequestLock(); err != nil {
			log.Printf("CLIPPER: %v", err)
		} else {
			c.kbLocked = true
		}
		c.subs = append(c.subs, kb.OnKeyDown(c.onKeyDown), kb.OnKeyUp(c.onKeyUp))
	}
}

func (c *Clipper) releaseHooks() {
	for _, s := range c.subs {
		s.Unbind()
	}
	c.subs = nil
	if c.msLocked {
		c.info.Mouse.RequestUnlock()
		c.msLocked = false
	}
	if c.kbLocked {
		c.info.Keyboard.RequestUnlock()
		c.kbLocked = false
	}
}

func (c *Clipper) onMouseDown(e *hook.MouseEvent) {
	if c.mode != Pick {
		return
	}
	if c.window != 0 {
		logutil.Tracef("CLIPPER: window region selected - ignoring %s button", e.Button)
		e.Handled = true
		return
	}
	if e.Button != hook.ButtonLeft {
		c.Lock()
		return
	}
	p := e.Position
	c.initial = &p
	c.SetArea(image.Rectangle{Min: p, Max: p})
	e.Handled = true
	c.refreshTidbit()
}

func (c *Clipper) onMouseMove(e *hook.MouseEvent) {
	if c.mode != Pick {
		return
	}
	if c.initial != nil {
		c.SetArea(image.Rectangle{Min: *c.initial, Max: e.Position}.Canon())
		c.refreshTidbit()
		return
	}
	if c.altDown && c.allowAdvanced && c.info.Kind == Desktop && c.info.Windows != nil {
		c.snapWindow(e.Position)
		return
	}
	c.hide()
}

func (c *Clipper) snapWindow(p image.Point) {
	w, ok := c.info.Windows.WindowAt(p)
	if !ok || w.Handle == 0 || w.Bounds.Empty() {
		c.window = 0
		c.hide()
		return
	}
	c.window = w.Handle
	c.SetArea(w.Bounds)
}

func (c *Clipper) onMouseUp(e *hook.MouseEvent) {
	area := c.Area()
	if area.Dx() < MinimumWidth || area.Dy() < MinimumHeight {
		log.Printf("CLIPPER: area %v too small - disposing", area)
		c.Dispose()
		return
	}
	c.initial = nil
	e.Handled = true
	c.Lock()
}

func (c *Clipper) onKeyDown(e *hook.KeyEvent) {
	if !e.IsAlt() {
		log.Printf("CLIPPER: dismissing capture")
		c.Dispose()
		return
	}
	if c.altDown {
		return
	}
	c.altDown = true
	c.onMouseMove(&hook.MouseEvent{Position: c.info.cursorPosition()})
	c.refreshTidbit()
}

func (c *Clipper) onKeyUp(e *hook.KeyEvent) {
	if !e.IsAlt() || !c.altDown {
		return
	}
	c.altDown = false
	c.window = 0
	if c.initial == nil {
		c.hide()
	}
	c.refreshTidbit()
}

// refreshTidbit shows Pick mode guidance next to the cursor.
func (c *Clipper) refreshTidbit() {
	if c.mode != Pick || c.locked || c.disposed {
		return
	}
	if c.tidbit == nil || c.tidbit.Disposed() {
		t, err := NewTidbit(c.info, Forever)
		if err != nil {
			log.Printf("CLIPPER: %v", err)
			return
		}
		c.tidbit = t
	}

	t := c.tidbit
	area := c.Area()
	switch {
	case c.altDown && c.allowAdvanced:
		t.SetStatus(StatusInformation)
		t.SetContent("Click the window to be captured")
		t.SetIcon(IconPickWindow)
		t.SetAccent(pickWindowAccent)
		t.SetVisible(true)
	case area.Dx() == 0 || area.Dy() == 0:
		t.SetStatus(StatusInformation)
		t.SetContent("Select the region you want to capture")
		t.SetIcon(IconPickRegion)
		t.SetAccent(pickRegionAccent)
		t.SetVisible(true)
	case area.Dx() < MinimumWidth || area.Dy() < MinimumHeight:
		t.SetStatus(StatusError)
		t.SetContent("This region is too small")
		t.SetIcon(IconNone)
		t.SetAccent(errorAccent)
		t.SetVisible(true)
	default:
		t.SetVisible(false)
	}
}

func (c *Clipper) draw(cv Canvas) {
	size := cv.Size()
	full := image.Rect(0, 0, size.X, size.Y)
	if !c.locked {
		cv.Clear(clipperShade)
		cv.StrokeRect(full, c.padding, clipperPickBorder)
		return
	}

	cv.Clear(transparent)
	cv.StrokeRect(full.Inset(1), 3, clipperOuterBorder)
	c.drawCorners(cv, full)
	cv.StrokeRect(full.Inset(c.padding), 1, clipperInnerBorder)
}

// drawCorners paints an L-shaped bracket at each corner of r.
func (c *Clipper) drawCorners(cv Canvas, r image.Rectangle) {
	const arm, thick = 12, 3
	if r.Dx() < 2*arm || r.Dy() < 2*arm {
		return
	}
	for _, corner := range []struct {
		at     image.Point
		dx, dy int
	}{
		{r.Min, 1, 1},
		{image.Pt(r.Max.X, r.Min.Y), -1, 1},
		{image.Pt(r.Min.X, r.Max.Y), 1, -1},
		{r.Max, -1, -1},
	} {
		h := image.Rectangle{Min: corner.at, Max: corner.at.Add(image.Pt(corner.dx*arm, corner.dy*thick))}.Canon()
		v := image.Rectangle{Min: corner.at, Max: corner.at.Add(image.Pt(corner.dx*thick, corner.dy*arm))}.Canon()
		cv.FillRect(h, clipperCorner)
		cv.FillRect(v, clipperCorner)
	}
}
