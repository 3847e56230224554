package hud

import (
	"image"
	"image/color"

	"golang.org/x/image/math/f32"

	"screen-hud/src/hook"
)

// SurfaceOptions configures a new overlay surface.
type SurfaceOptions struct {
	Name        string
	Resizable   bool
	PassThrough bool
	BlurBehind  bool
}

// SurfaceFactory creates overlay surfaces for Desktop containers.
type SurfaceFactory interface {
	NewSurface(opts SurfaceOptions) (Surface, error)
}

// Surface is a borderless, topmost, non-activating overlay window.
type Surface interface {
	Bounds() image.Rectangle
	SetBounds(r image.Rectangle)
	Visible() bool
	SetVisible(v bool)
	PassThrough() bool
	SetPassThrough(v bool)
	SetMinimumSize(size image.Point)

	// SetPaintHandler registers the function called whenever the surface
	// needs to be redrawn.
	SetPaintHandler(fn func())
	// OnBoundsChanged registers a callback for moves and resizes made
	// through the native window chrome.
	OnBoundsChanged(fn func())
	Invalidate()

	NewCanvas(size image.Point) (Canvas, error)
	Present(c Canvas) error
	Close()
}

// PointerHandler receives window-level mouse input in surface coordinates.
type PointerHandler interface {
	HandleMouseMove(p image.Point)
	HandleMouseDown(p image.Point, b hook.Button)
	HandleMouseUp(p image.Point, b hook.Button)
	HandleMouseLeave()
	// HitTestCaption reports whether p should drag the surface around.
	HitTestCaption(p image.Point) bool
}

// PointerSurface is a Surface that delivers its own mouse events.
type PointerSurface interface {
	Surface
	SetPointerHandler(h PointerHandler)
}

// Icon names a built-in glyph.
type Icon uint8

const (
	IconNone Icon = iota
	IconOptions
	IconGrip
	IconRecord
	IconStop
	IconMicrophone
	IconRegion
	IconClose
	IconPickWindow
	IconPickRegion
	IconSuccess
	IconInfo
	IconWarning
	IconError
)

// IconSize is the edge length of every built-in glyph.
const IconSize = 16

// Align is the horizontal alignment of text inside its box.
type Align uint8

const (
	AlignLeading Align = iota
	AlignCenter
)

// TextRun is a span of text sharing one style.
type TextRun struct {
	Text   string
	Bold   bool
	Italic bool
}

// Canvas is the drawing target of one surface. Coordinates are local to
// the surface.
type Canvas interface {
	Size() image.Point
	BeginDraw()
	EndDraw() error
	Clear(c color.Color)
	FillRect(r image.Rectangle, c color.Color)
	StrokeRect(r image.Rectangle, width int, c color.Color)
	FillPolygon(pts []f32.Vec2, c color.Color)
	// DrawIcon fails only when invert is requested and cannot be applied.
	DrawIcon(icon Icon, r image.Rectangle, opacity float32, invert bool) error
	DrawText(runs []TextRun, r image.Rectangle, align Align, c color.Color)
	Release()
}
