// Package hook arbitrates shared access to the global keyboard and mouse
// hooks. Components request a lock while they need input; the underlying OS
// hook is installed on the first request and removed on the last release.
//
// Arbiters are not safe for concurrent use. They are driven from the event
// loop goroutine, which also receives the events forwarded by a Source.
package hook

import "image"

// Button identifies a mouse button.
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
	ButtonX1
	ButtonX2
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonX1:
		return "x1"
	case ButtonX2:
		return "x2"
	default:
		return "none"
	}
}

// KeyEvent is a hooked key press or release.
// Rawcode is the platform virtual key code, Keycode the portable scan code.
type KeyEvent struct {
	Rawcode uint16
	Keycode uint16
	Keychar rune
}

// IsAlt reports whether the event refers to either Alt key.
func (e KeyEvent) IsAlt() bool {
	if e.Keycode == keycodeAltL || e.Keycode == keycodeAltR {
		return true
	}
	for _, rc := range altRawcodes {
		if e.Rawcode == rc {
			return true
		}
	}
	return false
}

// MouseEvent is a hooked mouse event in virtual desktop coordinates.
// A listener sets Handled to keep the event from reaching the window
// underneath the cursor. Only the Windows low-level hook can honor it; the
// gohook Source sees events after the OS has delivered them.
type MouseEvent struct {
	Position image.Point
	Button   Button
	Handled  bool
}

type (
	KeyHandler   func(*KeyEvent)
	MouseHandler func(*MouseEvent)
)

// Subscription unbinds a listener. Unbinding twice is harmless.
type Subscription struct {
	unbind func()
}

// Unbind removes the listener from its arbiter.
func (s Subscription) Unbind() {
	if s.unbind != nil {
		s.unbind()
	}
}
