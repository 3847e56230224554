package hotkey

import (
	"fmt"
	"log"

	"screen-hud/src/hook"
	"screen-hud/src/logutil"
)

// Listener fires a callback when every key of a combination is held. It
// keeps the keyboard hook installed for as long as it is bound.
type Listener struct {
	combo    hook.Combo
	pressed  []bool
	callback func()

	kb     *hook.Keyboard
	down   hook.Subscription
	up     hook.Subscription
	locked bool
}

// Listen parses hotkeyConfig and binds it to kb. The callback runs on the
// goroutine that dispatches keyboard events.
func Listen(kb *hook.Keyboard, hotkeyConfig string, callback func()) (*Listener, error) {
	combo, err := hook.ParseCombo(hotkeyConfig)
	if err != nil {
		return nil, err
	}
	if err := kb.RequestLock(); err != nil {
		return nil, fmt.Errorf("hotkey %s: %w", combo, err)
	}
	l := &Listener{
		combo:    combo,
		pressed:  make([]bool, len(combo.Names)),
		callback: callback,
		kb:       kb,
		locked:   true,
	}
	l.down = kb.OnKeyDown(l.onKeyDown)
	l.up = kb.OnKeyUp(l.onKeyUp)
	log.Printf("Hotkey listener configured for: %s", combo)
	return l, nil
}

// Combo returns the parsed combination.
func (l *Listener) Combo() hook.Combo { return l.combo }

func (l *Listener) onKeyDown(e *hook.KeyEvent) {
	i := l.combo.Index(e.Rawcode)
	if i < 0 {
		return
	}
	l.pressed[i] = true
	logutil.Tracef("HOTKEY: %s pressed", l.combo.Names[i])
	for _, p := range l.pressed {
		if !p {
			return
		}
	}
	log.Printf("HOTKEY: combination detected: %s", l.combo)
	clear(l.pressed)
	if l.callback != nil {
		l.callback()
	}
}

func (l *Listener) onKeyUp(e *hook.KeyEvent) {
	if i := l.combo.Index(e.Rawcode); i >= 0 {
		l.pressed[i] = false
	}
}

// Close unbinds the listener and releases its keyboard lock. Closing twice
// is harmless.
func (l *Listener) Close() {
	if l == nil || !l.locked {
		return
	}
	l.down.Unbind()
	l.up.Unbind()
	l.kb.RequestUnlock()
	l.locked = false
}
