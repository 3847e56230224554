package hook

import "image"

// Window messages delivered to WH_KEYBOARD_LL and WH_MOUSE_LL procs.
const (
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmSysKeyDown  = 0x0104
	wmSysKeyUp    = 0x0105
	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmXButtonDown = 0x020B
	wmXButtonUp   = 0x020C

	llkhfExtended = 0x01
)

// Filter routes low-level hook messages straight to the arbiters and tells
// the hook proc whether to swallow them. It runs on the thread that
// installed the hook, which is the event loop thread.
type Filter struct {
	kb   *Keyboard
	ms   *Mouse
	keys map[uint16]bool
}

func NewFilter(kb *Keyboard, ms *Mouse) *Filter {
	return &Filter{kb: kb, ms: ms, keys: make(map[uint16]bool)}
}

// Key routes a keyboard message. Keys are never swallowed.
func (f *Filter) Key(msg uintptr, vk, scan, flags uint32) bool {
	ev := KeyEvent{Rawcode: uint16(vk), Keycode: uint16(scan)}
	if flags&llkhfExtended != 0 {
		ev.Keycode |= 0x0E00
	}
	switch msg {
	case wmKeyDown, wmSysKeyDown:
		if f.keys[ev.Rawcode] {
			return false
		}
		f.keys[ev.Rawcode] = true
		return Event{Type: KeyDown, Key: ev}.Route(f.kb, f.ms)
	case wmKeyUp, wmSysKeyUp:
		delete(f.keys, ev.Rawcode)
		return Event{Type: KeyUp, Key: ev}.Route(f.kb, f.ms)
	}
	return false
}

// Mouse routes a mouse message and reports whether a listener consumed it.
// mouseData carries the X button number in its high word.
func (f *Filter) Mouse(msg uintptr, pt image.Point, mouseData uint32) bool {
	t, btn, ok := mouseMessage(msg, mouseData)
	if !ok {
		return false
	}
	return Event{Type: t, Mouse: MouseEvent{Position: pt, Button: btn}}.Route(f.kb, f.ms)
}

func mouseMessage(msg uintptr, mouseData uint32) (EventType, Button, bool) {
	switch msg {
	case wmMouseMove:
		return MouseMove, ButtonNone, true
	case wmLButtonDown:
		return MouseDown, ButtonLeft, true
	case wmLButtonUp:
		return MouseUp, ButtonLeft, true
	case wmRButtonDown:
		return MouseDown, ButtonRight, true
	case wmRButtonUp:
		return MouseUp, ButtonRight, true
	case wmMButtonDown:
		return MouseDown, ButtonMiddle, true
	case wmMButtonUp:
		return MouseUp, ButtonMiddle, true
	case wmXButtonDown, wmXButtonUp:
		t := MouseDown
		if msg == wmXButtonUp {
			t = MouseUp
		}
		if mouseData>>16 == 2 {
			return t, ButtonX2, true
		}
		return t, ButtonX1, true
	}
	return 0, ButtonNone, false
}
