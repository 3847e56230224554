package hud

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"screen-hud/src/hook"
)

type countingBackend struct {
	installs, uninstalls int
}

func (b *countingBackend) Install() error { b.installs++; return nil }
func (b *countingBackend) Uninstall()     { b.uninstalls++ }

type fakeSurface struct {
	opts        SurfaceOptions
	bounds      image.Rectangle
	visible     bool
	passThrough bool
	minSize     image.Point
	paint       func()
	moved       func()
	pointer     PointerHandler
	invalidated int
	presented   int
	closed      bool
}

func (s *fakeSurface) Bounds() image.Rectangle            { return s.bounds }
func (s *fakeSurface) SetBounds(r image.Rectangle)        { s.bounds = r }
func (s *fakeSurface) Visible() bool                      { return s.visible }
func (s *fakeSurface) SetVisible(v bool)                  { s.visible = v }
func (s *fakeSurface) PassThrough() bool                  { return s.passThrough }
func (s *fakeSurface) SetPassThrough(v bool)              { s.passThrough = v }
func (s *fakeSurface) SetMinimumSize(p image.Point)       { s.minSize = p }
func (s *fakeSurface) SetPaintHandler(fn func())          { s.paint = fn }
func (s *fakeSurface) OnBoundsChanged(fn func())          { s.moved = fn }
func (s *fakeSurface) Invalidate()                        { s.invalidated++ }
func (s *fakeSurface) SetPointerHandler(h PointerHandler) { s.pointer = h }
func (s *fakeSurface) Close()                             { s.closed = true }

func (s *fakeSurface) NewCanvas(size image.Point) (Canvas, error) {
	return &recordingCanvas{size: size}, nil
}

func (s *fakeSurface) Present(Canvas) error {
	s.presented++
	return nil
}

type fakeFactory struct {
	surfaces []*fakeSurface
}

func (f *fakeFactory) NewSurface(opts SurfaceOptions) (Surface, error) {
	s := &fakeSurface{opts: opts, visible: true, passThrough: opts.PassThrough}
	f.surfaces = append(f.surfaces, s)
	return s, nil
}

func (f *fakeFactory) named(name string) []*fakeSurface {
	var out []*fakeSurface
	for _, s := range f.surfaces {
		if s.opts.Name == name {
			out = append(out, s)
		}
	}
	return out
}

type drawCall struct {
	op     string
	rect   image.Rectangle
	icon   Icon
	invert bool
	text   string
}

type recordingCanvas struct {
	size       image.Point
	calls      []drawCall
	failInvert bool
	released   bool
}

func (c *recordingCanvas) Size() image.Point { return c.size }
func (c *recordingCanvas) BeginDraw()        { c.calls = nil }
func (c *recordingCanvas) EndDraw() error    { return nil }
func (c *recordingCanvas) Release()          { c.released = true }

func (c *recordingCanvas) Clear(color.Color) {
	c.calls = append(c.calls, drawCall{op: "clear"})
}

func (c *recordingCanvas) FillRect(r image.Rectangle, _ color.Color) {
	c.calls = append(c.calls, drawCall{op: "fill", rect: r})
}

func (c *recordingCanvas) StrokeRect(r image.Rectangle, _ int, _ color.Color) {
	c.calls = append(c.calls, drawCall{op: "stroke", rect: r})
}

func (c *recordingCanvas) FillPolygon([]f32.Vec2, color.Color) {
	c.calls = append(c.calls, drawCall{op: "polygon"})
}

func (c *recordingCanvas) DrawIcon(icon Icon, r image.Rectangle, _ float32, invert bool) error {
	if invert && c.failInvert {
		return errInvertTest
	}
	c.calls = append(c.calls, drawCall{op: "icon", rect: r, icon: icon, invert: invert})
	return nil
}

func (c *recordingCanvas) DrawText(runs []TextRun, r image.Rectangle, _ Align, _ color.Color) {
	c.calls = append(c.calls, drawCall{op: "text", rect: r, text: PlainText(runs)})
}

type testError string

func (e testError) Error() string { return string(e) }

const errInvertTest = testError("invert unavailable")

type fakeWindows struct {
	windows map[image.Point]Window
}

func (f fakeWindows) WindowAt(p image.Point) (Window, bool) {
	w, ok := f.windows[p]
	return w, ok
}

type fakeCursor struct {
	pos, size image.Point
}

func (c *fakeCursor) Position() image.Point { return c.pos }
func (c *fakeCursor) Size() image.Point     { return c.size }

type harness struct {
	info    *ContainerInfo
	kb      *hook.Keyboard
	ms      *hook.Mouse
	kbHook  *countingBackend
	msHook  *countingBackend
	factory *fakeFactory
	cursor  *fakeCursor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		kbHook:  &countingBackend{},
		msHook:  &countingBackend{},
		factory: &fakeFactory{},
		cursor:  &fakeCursor{},
	}
	h.kb = hook.NewKeyboard(h.kbHook)
	h.ms = hook.NewMouse(h.msHook)
	h.info = NewContainer(Desktop, h.kb, h.ms, image.Rect(0, 0, 1920, 1080))
	h.info.Surfaces = h.factory
	h.info.Cursor = h.cursor
	return h
}

func (h *harness) newClipper(t *testing.T) *Clipper {
	t.Helper()
	c, err := NewClipper(h.info)
	require.NoError(t, err)
	return c
}

func (h *harness) newToolbar(t *testing.T) *Toolbar {
	t.Helper()
	tb, err := NewToolbar(h.info)
	require.NoError(t, err)
	return tb
}

func (h *harness) down(p image.Point, b hook.Button) bool {
	return h.ms.DispatchMouseDown(hook.MouseEvent{Position: p, Button: b})
}

func (h *harness) move(p image.Point) bool {
	h.cursor.pos = p
	return h.ms.DispatchMouseMove(hook.MouseEvent{Position: p})
}

func (h *harness) up(p image.Point, b hook.Button) bool {
	return h.ms.DispatchMouseUp(hook.MouseEvent{Position: p, Button: b})
}

func (h *harness) key(raw uint16, down bool) {
	if down {
		h.kb.DispatchKeyDown(hook.KeyEvent{Rawcode: raw})
	} else {
		h.kb.DispatchKeyUp(hook.KeyEvent{Rawcode: raw})
	}
}
