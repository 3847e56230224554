//go:build windows

package platform

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"screen-hud/src/hud"
	"screen-hud/src/logutil"
)

const (
	wmDWMColorizationChanged = 0x0320
	maNoActivate             = 3
	gaRoot                   = 2
	ulwAlpha                 = 0x00000002
	acSrcAlpha               = 0x01
	dwmBBEnable              = 0x00000001
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procUpdateLayeredWindow = user32.NewProc("UpdateLayeredWindow")
	dwmapi                  = windows.NewLazySystemDLL("dwmapi.dll")
	procDwmEnableBlurBehind = dwmapi.NewProc("DwmEnableBlurBehindWindow")
)

type blendFunction struct {
	BlendOp             byte
	BlendFlags          byte
	SourceConstantAlpha byte
	AlphaFormat         byte
}

type dwmBlurBehind struct {
	Flags                 uint32
	Enable                int32
	RgnBlur               uintptr
	TransitionOnMaximized int32
}

// active routes window messages to their surfaces. Every surface lives on
// the event loop thread, so it is never touched concurrently.
var active *Host

// Host owns the window class and every surface created from it. All of its
// methods must be called from the thread that called New.
type Host struct {
	instance  win.HINSTANCE
	className *uint16
	surfaces  map[win.HWND]*surface
	accentFns []func()
}

var _ hud.SurfaceFactory = (*Host)(nil)

// New registers the overlay window class on the calling thread.
func New() (*Host, error) {
	if active != nil {
		return nil, fmt.Errorf("platform: host already running")
	}
	h := &Host{
		instance: win.GetModuleHandle(nil),
		surfaces: make(map[win.HWND]*surface),
	}
	h.className = syscall.StringToUTF16Ptr(fmt.Sprintf("ScreenHUDSurface_%d", time.Now().UnixNano()))
	wc := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		LpfnWndProc:   syscall.NewCallback(wndProc),
		HInstance:     h.instance,
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_ARROW)),
		LpszClassName: h.className,
	}
	if win.RegisterClassEx(&wc) == 0 {
		return nil, lastError("register window class")
	}
	active = h
	return h, nil
}

// Pump dispatches every queued window message, then repaints the surfaces
// invalidated meanwhile. It returns the number of messages handled.
func (h *Host) Pump() int {
	n := 0
	var msg win.MSG
	for win.PeekMessage(&msg, 0, 0, 0, win.PM_REMOVE) {
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
		n++
	}
	h.flush()
	return n
}

func (h *Host) flush() {
	for _, s := range h.surfaces {
		if s.dirty && s.paint != nil {
			s.dirty = false
			s.paint()
		}
	}
}

// OnAccentChanged registers fn to run when the system accent color changes.
func (h *Host) OnAccentChanged(fn func()) { h.accentFns = append(h.accentFns, fn) }

// Close destroys the remaining surfaces and unregisters the window class.
func (h *Host) Close() {
	for _, s := range h.surfaces {
		s.Close()
	}
	win.UnregisterClass(h.className)
	if active == h {
		active = nil
	}
}

// NewSurface creates a shown overlay window parked off-screen.
func (h *Host) NewSurface(opts hud.SurfaceOptions) (hud.Surface, error) {
	exStyle := uint32(win.WS_EX_TOOLWINDOW | win.WS_EX_LAYERED | win.WS_EX_NOACTIVATE | win.WS_EX_TOPMOST)
	if opts.PassThrough {
		exStyle |= win.WS_EX_TRANSPARENT
	}
	off := hud.OffScreen
	hwnd := win.CreateWindowEx(
		exStyle,
		h.className,
		syscall.StringToUTF16Ptr(opts.Name),
		win.WS_POPUP,
		int32(off.Min.X), int32(off.Min.Y), 1, 1,
		0, 0, h.instance, nil,
	)
	if hwnd == 0 {
		return nil, lastError("create window")
	}
	s := &surface{host: h, hwnd: hwnd, opts: opts, bounds: off}
	h.surfaces[hwnd] = s
	if opts.BlurBehind {
		enableBlurBehind(hwnd)
	}
	win.ShowWindow(hwnd, win.SW_SHOWNOACTIVATE)
	log.Printf("OVERLAY: created %s surface, hwnd: %v", opts.Name, hwnd)
	return s, nil
}

// WindowAt returns the top-level window under p, skipping HUD surfaces.
func (h *Host) WindowAt(p image.Point) (hud.Window, bool) {
	hwnd := win.WindowFromPoint(win.POINT{X: int32(p.X), Y: int32(p.Y)})
	if hwnd == 0 {
		return hud.Window{}, false
	}
	root := win.GetAncestor(hwnd, gaRoot)
	if root == 0 {
		root = hwnd
	}
	if _, ours := h.surfaces[root]; ours {
		return hud.Window{}, false
	}
	var rc win.RECT
	if !win.GetWindowRect(root, &rc) {
		return hud.Window{}, false
	}
	return hud.Window{
		Handle: uintptr(root),
		Bounds: image.Rect(int(rc.Left), int(rc.Top), int(rc.Right), int(rc.Bottom)),
	}, true
}

// Position is the pointer position in virtual-desktop coordinates.
func (h *Host) Position() image.Point {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return image.Point{}
	}
	return image.Pt(int(pt.X), int(pt.Y))
}

// Size is the system cursor size.
func (h *Host) Size() image.Point {
	return image.Pt(int(win.GetSystemMetrics(win.SM_CXCURSOR)), int(win.GetSystemMetrics(win.SM_CYCURSOR)))
}

// AccentColor reads the DWM colorization color of the current user.
func (h *Host) AccentColor() (color.NRGBA, bool) {
	k, err := registry.OpenKey(registry.CURRENT_USER, `Software\Microsoft\Windows\DWM`, registry.QUERY_VALUE)
	if err != nil {
		logutil.Tracef("OVERLAY: accent color unavailable: %v", err)
		return color.NRGBA{}, false
	}
	defer k.Close()
	v, _, err := k.GetIntegerValue("ColorizationColor")
	if err != nil {
		logutil.Tracef("OVERLAY: accent color unavailable: %v", err)
		return color.NRGBA{}, false
	}
	return AccentFromColorization(uint32(v)), true
}

func wndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	if active == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}
	s, ok := active.surfaces[hwnd]
	if !ok {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}
	if r, handled := s.handle(msg, wParam, lParam); handled {
		return r
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

func enableBlurBehind(hwnd win.HWND) {
	bb := dwmBlurBehind{Flags: dwmBBEnable, Enable: 1}
	if err := procDwmEnableBlurBehind.Find(); err != nil {
		logutil.Tracef("OVERLAY: blur behind unavailable: %v", err)
		return
	}
	if hr, _, _ := procDwmEnableBlurBehind.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&bb))); hr != 0 {
		log.Printf("OVERLAY: DwmEnableBlurBehindWindow failed: 0x%x", hr)
	}
}

func lastError(op string) error {
	if err := windows.GetLastError(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s failed", op)
}
