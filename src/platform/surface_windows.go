//go:build windows

package platform

import (
	"fmt"
	"image"
	"log"
	"unsafe"

	"github.com/lxn/win"

	"screen-hud/src/hook"
	"screen-hud/src/hud"
	"screen-hud/src/logutil"
	"screen-hud/src/render"
)

// surface is a layered popup window implementing hud.PointerSurface.
type surface struct {
	host    *Host
	hwnd    win.HWND
	opts    hud.SurfaceOptions
	bounds  image.Rectangle
	minSize image.Point
	dirty   bool

	paint    func()
	moved    func()
	pointer  hud.PointerHandler
	tracking bool

	dib dibSection
}

var _ hud.PointerSurface = (*surface)(nil)

func (s *surface) Bounds() image.Rectangle { return s.bounds }

func (s *surface) SetBounds(r image.Rectangle) {
	if r == s.bounds {
		return
	}
	s.bounds = r
	if s.hwnd == 0 {
		return
	}
	win.SetWindowPos(s.hwnd, win.HWND_TOPMOST,
		int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()),
		win.SWP_NOACTIVATE)
	s.dirty = true
}

func (s *surface) Visible() bool { return s.hwnd != 0 && win.IsWindowVisible(s.hwnd) }

func (s *surface) SetVisible(v bool) {
	if s.hwnd == 0 {
		return
	}
	if v {
		win.ShowWindow(s.hwnd, win.SW_SHOWNOACTIVATE)
		s.dirty = true
	} else {
		win.ShowWindow(s.hwnd, win.SW_HIDE)
	}
}

func (s *surface) PassThrough() bool {
	return s.hwnd != 0 && win.GetWindowLong(s.hwnd, win.GWL_EXSTYLE)&win.WS_EX_TRANSPARENT != 0
}

func (s *surface) SetPassThrough(v bool) {
	if s.hwnd == 0 {
		return
	}
	style := win.GetWindowLong(s.hwnd, win.GWL_EXSTYLE)
	if v {
		style |= win.WS_EX_TRANSPARENT
	} else {
		style &^= win.WS_EX_TRANSPARENT
	}
	win.SetWindowLong(s.hwnd, win.GWL_EXSTYLE, style)
}

func (s *surface) SetMinimumSize(size image.Point)        { s.minSize = size }
func (s *surface) SetPaintHandler(fn func())              { s.paint = fn }
func (s *surface) OnBoundsChanged(fn func())              { s.moved = fn }
func (s *surface) SetPointerHandler(h hud.PointerHandler) { s.pointer = h }
func (s *surface) Invalidate()                            { s.dirty = true }

func (s *surface) NewCanvas(size image.Point) (hud.Canvas, error) {
	return render.NewImageCanvas(size), nil
}

// Present pushes the canvas pixels to the layered window at its current
// bounds.
func (s *surface) Present(c hud.Canvas) error {
	ic, ok := c.(*render.ImageCanvas)
	if !ok {
		return fmt.Errorf("%s: present: unsupported canvas %T", s.opts.Name, c)
	}
	if s.hwnd == 0 {
		return fmt.Errorf("%s: present: surface closed", s.opts.Name)
	}
	img := ic.Image()
	size := img.Rect.Size()
	if err := s.dib.ensure(size); err != nil {
		return fmt.Errorf("%s: present: %w", s.opts.Name, err)
	}
	copyBGRA(s.dib.pixels(), 4*size.X, img)

	screen := win.GetDC(0)
	defer win.ReleaseDC(0, screen)
	dst := win.POINT{X: int32(s.bounds.Min.X), Y: int32(s.bounds.Min.Y)}
	sz := win.SIZE{CX: int32(size.X), CY: int32(size.Y)}
	var src win.POINT
	blend := blendFunction{SourceConstantAlpha: 255, AlphaFormat: acSrcAlpha}
	r1, _, err := procUpdateLayeredWindow.Call(
		uintptr(s.hwnd), uintptr(screen),
		uintptr(unsafe.Pointer(&dst)), uintptr(unsafe.Pointer(&sz)),
		uintptr(s.dib.dc), uintptr(unsafe.Pointer(&src)),
		0, uintptr(unsafe.Pointer(&blend)), ulwAlpha,
	)
	if r1 == 0 {
		return fmt.Errorf("%s: UpdateLayeredWindow: %w", s.opts.Name, err)
	}
	return nil
}

func (s *surface) Close() {
	if s.hwnd == 0 {
		return
	}
	delete(s.host.surfaces, s.hwnd)
	s.dib.release()
	win.DestroyWindow(s.hwnd)
	log.Printf("OVERLAY: destroyed %s surface", s.opts.Name)
	s.hwnd = 0
}

func (s *surface) local(screen image.Point) image.Point { return screen.Sub(s.bounds.Min) }

func clientPoint(lParam uintptr) image.Point {
	return image.Pt(int(win.GET_X_LPARAM(lParam)), int(win.GET_Y_LPARAM(lParam)))
}

// handle processes one window message. It reports false for messages left
// to DefWindowProc.
func (s *surface) handle(msg uint32, wParam, lParam uintptr) (uintptr, bool) {
	switch msg {
	case win.WM_MOUSEACTIVATE:
		return maNoActivate, true

	case win.WM_NCHITTEST:
		p := s.local(clientPoint(lParam))
		if s.pointer != nil {
			if s.pointer.HitTestCaption(p) {
				return win.HTCAPTION, true
			}
			return win.HTCLIENT, true
		}
		if s.opts.Resizable {
			return uintptr(hitTestCode(ResizeEdge(p, s.bounds.Size()))), true
		}
		return win.HTCLIENT, true

	case win.WM_MOUSEMOVE:
		if s.pointer == nil {
			return 0, false
		}
		if !s.tracking {
			tme := win.TRACKMOUSEEVENT{DwFlags: win.TME_LEAVE, HwndTrack: s.hwnd}
			tme.CbSize = uint32(unsafe.Sizeof(tme))
			s.tracking = win.TrackMouseEvent(&tme)
		}
		s.pointer.HandleMouseMove(clientPoint(lParam))
		return 0, true

	case win.WM_MOUSELEAVE:
		s.tracking = false
		if s.pointer != nil {
			s.pointer.HandleMouseLeave()
		}
		return 0, true

	case win.WM_LBUTTONDOWN, win.WM_RBUTTONDOWN, win.WM_MBUTTONDOWN:
		if s.pointer == nil {
			return 0, false
		}
		win.SetCapture(s.hwnd)
		s.pointer.HandleMouseDown(clientPoint(lParam), buttonOf(msg))
		return 0, true

	case win.WM_LBUTTONUP, win.WM_RBUTTONUP, win.WM_MBUTTONUP:
		if s.pointer == nil {
			return 0, false
		}
		win.ReleaseCapture()
		s.pointer.HandleMouseUp(clientPoint(lParam), buttonOf(msg))
		return 0, true

	case win.WM_GETMINMAXINFO:
		if s.minSize != (image.Point{}) {
			mmi := (*win.MINMAXINFO)(unsafe.Pointer(lParam))
			mmi.PtMinTrackSize = win.POINT{X: int32(s.minSize.X), Y: int32(s.minSize.Y)}
			return 0, true
		}
		return 0, false

	case win.WM_WINDOWPOSCHANGED:
		wp := (*win.WINDOWPOS)(unsafe.Pointer(lParam))
		r := image.Rect(int(wp.X), int(wp.Y), int(wp.X+wp.Cx), int(wp.Y+wp.Cy))
		if wp.Flags&(win.SWP_NOMOVE|win.SWP_NOSIZE) == 0 && r != s.bounds {
			logutil.Tracef("OVERLAY: %s moved natively to %v", s.opts.Name, r)
			s.bounds = r
			s.dirty = true
			if s.moved != nil {
				s.moved()
			}
		}
		return 0, true

	case wmDWMColorizationChanged:
		for _, fn := range s.host.accentFns {
			fn()
		}
		return 0, true
	}
	return 0, false
}

func buttonOf(msg uint32) hook.Button {
	switch msg {
	case win.WM_RBUTTONDOWN, win.WM_RBUTTONUP:
		return hook.ButtonRight
	case win.WM_MBUTTONDOWN, win.WM_MBUTTONUP:
		return hook.ButtonMiddle
	}
	return hook.ButtonLeft
}

func hitTestCode(e Edge) int32 {
	switch e {
	case EdgeLeft:
		return win.HTLEFT
	case EdgeRight:
		return win.HTRIGHT
	case EdgeTop:
		return win.HTTOP
	case EdgeBottom:
		return win.HTBOTTOM
	case EdgeTopLeft:
		return win.HTTOPLEFT
	case EdgeTopRight:
		return win.HTTOPRIGHT
	case EdgeBottomLeft:
		return win.HTBOTTOMLEFT
	case EdgeBottomRight:
		return win.HTBOTTOMRIGHT
	}
	return win.HTCAPTION
}

// dibSection is the top-down 32-bit bitmap layered windows are updated from.
type dibSection struct {
	dc     win.HDC
	bitmap win.HBITMAP
	old    win.HGDIOBJ
	bits   unsafe.Pointer
	size   image.Point
}

func (d *dibSection) ensure(size image.Point) error {
	if d.bitmap != 0 && d.size == size {
		return nil
	}
	d.release()

	d.dc = win.CreateCompatibleDC(0)
	if d.dc == 0 {
		return lastError("CreateCompatibleDC")
	}
	bmi := win.BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
		BiWidth:       int32(size.X),
		BiHeight:      -int32(size.Y),
		BiPlanes:      1,
		BiBitCount:    32,
		BiCompression: win.BI_RGB,
	}
	d.bitmap = win.CreateDIBSection(d.dc, &bmi, win.DIB_RGB_COLORS, &d.bits, 0, 0)
	if d.bitmap == 0 {
		win.DeleteDC(d.dc)
		d.dc = 0
		return lastError("CreateDIBSection")
	}
	d.old = win.SelectObject(d.dc, win.HGDIOBJ(d.bitmap))
	d.size = size
	return nil
}

func (d *dibSection) pixels() []byte {
	return unsafe.Slice((*byte)(d.bits), 4*d.size.X*d.size.Y)
}

// release frees the bitmap, then the DC it was selected into.
func (d *dibSection) release() {
	if d.bitmap != 0 {
		win.SelectObject(d.dc, d.old)
		win.DeleteObject(win.HGDIOBJ(d.bitmap))
		d.bitmap = 0
	}
	if d.dc != 0 {
		win.DeleteDC(d.dc)
		d.dc = 0
	}
	d.bits = nil
	d.size = image.Point{}
}
