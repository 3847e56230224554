//go:build windows

package hook

import (
	"errors"
	"fmt"
	"image"
	"log"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")

	keyboardProc = syscall.NewCallback(keyboardHook)
	mouseProc    = syscall.NewCallback(mouseHook)
)

// active receives the hook callbacks. Only one LowLevel is installed per
// process.
var active *LowLevel

type kbdLLHookStruct struct {
	VkCode    uint32
	ScanCode  uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

type msLLHookStruct struct {
	X         int32
	Y         int32
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// LowLevel installs WH_KEYBOARD_LL and WH_MOUSE_LL hooks on the calling
// thread. Windows calls the hook procs while that thread pumps messages,
// so events reach the arbiters synchronously and a handled mouse event is
// swallowed before any window sees it. Install must run on the event loop
// thread.
type LowLevel struct {
	filter *Filter
	hooks  [2]uintptr
}

func NewLowLevel() *LowLevel { return &LowLevel{} }

// Bind sets the arbiters the hook procs route to.
func (l *LowLevel) Bind(kb *Keyboard, ms *Mouse) { l.filter = NewFilter(kb, ms) }

// Backend returns the installer for one kind of hook.
func (l *LowLevel) Backend(kind Kind) Backend {
	return &lowLevelBackend{ll: l, kind: kind}
}

type lowLevelBackend struct {
	ll   *LowLevel
	kind Kind
}

func (b *lowLevelBackend) Install() error { return b.ll.install(b.kind) }
func (b *lowLevelBackend) Uninstall()     { b.ll.uninstall(b.kind) }

func (l *LowLevel) install(kind Kind) error {
	if l.hooks[kind] != 0 {
		return nil
	}
	if l.filter == nil {
		return errors.New("low-level hook: no arbiters bound")
	}
	if active != nil && active != l {
		return errors.New("low-level hook: another hook set is active")
	}
	id, proc := uintptr(whKeyboardLL), keyboardProc
	if kind == KindMouse {
		id, proc = whMouseLL, mouseProc
	}
	var mod windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &mod); err != nil {
		return fmt.Errorf("low-level hook: module handle: %w", err)
	}
	h, _, err := procSetWindowsHookExW.Call(id, proc, uintptr(mod), 0)
	if h == 0 {
		return fmt.Errorf("%w: SetWindowsHookEx(%s): %v", ErrHookUnavailable, kind, err)
	}
	l.hooks[kind] = h
	active = l
	log.Printf("HOOK: low-level %s hook set", kind)
	return nil
}

func (l *LowLevel) uninstall(kind Kind) {
	h := l.hooks[kind]
	if h == 0 {
		return
	}
	if r, _, err := procUnhookWindowsHookEx.Call(h); r == 0 {
		log.Printf("HOOK: UnhookWindowsHookEx(%s) failed: %v", kind, err)
	}
	l.hooks[kind] = 0
	if l.hooks[KindKeyboard] == 0 && l.hooks[KindMouse] == 0 && active == l {
		active = nil
	}
}

func keyboardHook(code, wParam, lParam uintptr) uintptr {
	if int32(code) >= 0 && active != nil {
		k := (*kbdLLHookStruct)(unsafe.Pointer(lParam))
		route(func() bool { return active.filter.Key(wParam, k.VkCode, k.ScanCode, k.Flags) })
	}
	r, _, _ := procCallNextHookEx.Call(0, code, wParam, lParam)
	return r
}

func mouseHook(code, wParam, lParam uintptr) uintptr {
	if int32(code) >= 0 && active != nil {
		m := (*msLLHookStruct)(unsafe.Pointer(lParam))
		pt := image.Pt(int(m.X), int(m.Y))
		if route(func() bool { return active.filter.Mouse(wParam, pt, m.MouseData) }) {
			return 1
		}
	}
	r, _, _ := procCallNextHookEx.Call(0, code, wParam, lParam)
	return r
}

// route keeps a listener panic from unwinding through the OS callback.
func route(fn func() bool) (consumed bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hook proc: %v", r)
			consumed = false
		}
	}()
	return fn()
}
