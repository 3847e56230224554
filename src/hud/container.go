// Package hud implements the on-screen overlay components: the region
// clipper, the floating toolbar and the cursor tidbits. Every component is
// driven from a single event loop goroutine and draws through the Canvas
// supplied by its Surface.
package hud

import (
	"image"
	"image/color"
	"time"

	"screen-hud/src/hook"
)

// ContainerKind describes where HUD components are hosted.
type ContainerKind uint8

const (
	// Desktop components own a top-level overlay window each.
	Desktop ContainerKind = iota
	// RemoteSurface components have no window of their own; their bounds are
	// cached locally and input arrives through the hook arbiters only.
	RemoteSurface
)

func (k ContainerKind) String() string {
	if k == RemoteSurface {
		return "remote"
	}
	return "desktop"
}

// Window is a top-level window found under the cursor.
type Window struct {
	Handle uintptr
	Bounds image.Rectangle
}

// WindowFinder locates the topmost window at a screen position.
type WindowFinder interface {
	WindowAt(p image.Point) (Window, bool)
}

// CursorSource reports the pointer position and the size of its glyph.
type CursorSource interface {
	Position() image.Point
	Size() image.Point
}

// AccentSource returns the system accent color, if there is one.
type AccentSource func() (color.NRGBA, bool)

// Scheduler runs fn on the event loop after d has elapsed. The returned
// function cancels the call if it has not run yet.
type Scheduler func(d time.Duration, fn func()) (cancel func())

// TextMeasurer reports the laid-out size of styled text.
type TextMeasurer interface {
	MeasureText(runs []TextRun, max image.Point) image.Point
}

// ContainerInfo is shared by every component living in one container. It
// must not be modified once components have been built from it.
type ContainerInfo struct {
	Kind          ContainerKind
	Keyboard      *hook.Keyboard
	Mouse         *hook.Mouse
	Tidbits       *TidbitManager
	VirtualBounds image.Rectangle

	Surfaces SurfaceFactory
	Windows  WindowFinder
	Cursor   CursorSource
	Accent   AccentSource
	Text     TextMeasurer
	Schedule Scheduler

	// TidbitTimeout is the lifetime of tidbits created with DefaultTimeout.
	TidbitTimeout time.Duration
}

// NewContainer returns container info with a fresh TidbitManager bound to
// the given arbiters. Optional collaborators are filled in by the caller.
func NewContainer(kind ContainerKind, kb *hook.Keyboard, ms *hook.Mouse, bounds image.Rectangle) *ContainerInfo {
	info := &ContainerInfo{
		Kind:          kind,
		Keyboard:      kb,
		Mouse:         ms,
		VirtualBounds: bounds,
		TidbitTimeout: 2 * time.Second,
	}
	info.Tidbits = NewTidbitManager(info)
	return info
}

func (info *ContainerInfo) cursorPosition() image.Point {
	if info.Cursor != nil {
		return info.Cursor.Position()
	}
	if info.Mouse != nil {
		return info.Mouse.Position()
	}
	return image.Point{}
}

func (info *ContainerInfo) cursorHalfSize() image.Point {
	if info.Cursor == nil {
		return image.Point{}
	}
	return info.Cursor.Size().Div(2)
}

// fixedMetrics approximates a 7x13 bitmap font when no measurer is wired.
type fixedMetrics struct{}

func (fixedMetrics) MeasureText(runs []TextRun, max image.Point) image.Point {
	n := 0
	for _, r := range runs {
		n += len([]rune(r.Text))
	}
	size := image.Pt(7*n, 13)
	if max.X > 0 && size.X > max.X {
		size.X = max.X
	}
	if max.Y > 0 && size.Y > max.Y {
		size.Y = max.Y
	}
	return size
}

func (info *ContainerInfo) measurer() TextMeasurer {
	if info.Text != nil {
		return info.Text
	}
	return fixedMetrics{}
}
