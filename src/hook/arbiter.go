package hook

import (
	"fmt"
	"image"
	"log"

	"screen-hud/src/logutil"
)

// Backend installs and removes one OS-level input hook.
type Backend interface {
	Install() error
	Uninstall()
}

// gate is the reference-counted guard shared by both arbiters.
type gate struct {
	name    string
	backend Backend
	refs    int
}

func (g *gate) requestLock() error {
	if g.refs == 0 && g.backend != nil {
		if err := g.backend.Install(); err != nil {
			return fmt.Errorf("%s hook: install: %w", g.name, err)
		}
		log.Printf("HOOK: %s hook installed", g.name)
	}
	g.refs++
	logutil.Tracef("HOOK: %s lock requested (refs=%d)", g.name, g.refs)
	return nil
}

func (g *gate) requestUnlock() {
	if g.refs == 0 {
		logutil.Tracef("HOOK: %s unlock requested with no lock held - ignoring", g.name)
		return
	}
	g.refs--
	logutil.Tracef("HOOK: %s lock released (refs=%d)", g.name, g.refs)
	if g.refs == 0 && g.backend != nil {
		g.backend.Uninstall()
		log.Printf("HOOK: %s hook removed", g.name)
	}
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// listeners keeps handlers in bind order.
type listeners[T any] struct {
	next  uint64
	items []listener[T]
}

func (l *listeners[T]) add(fn func(T)) Subscription {
	l.next++
	id := l.next
	l.items = append(l.items, listener[T]{id: id, fn: fn})
	return Subscription{unbind: func() { l.remove(id) }}
}

func (l *listeners[T]) remove(id uint64) {
	for i, it := range l.items {
		if it.id == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) len() int { return len(l.items) }

// dispatch calls a snapshot of the list so handlers may unbind themselves.
func (l *listeners[T]) dispatch(v T) {
	if len(l.items) == 0 {
		return
	}
	snapshot := make([]listener[T], len(l.items))
	copy(snapshot, l.items)
	for _, it := range snapshot {
		it.fn(v)
	}
}

// Keyboard arbitrates the global keyboard hook.
type Keyboard struct {
	gate
	down listeners[*KeyEvent]
	up   listeners[*KeyEvent]
}

// NewKeyboard returns a keyboard arbiter over backend. A nil backend is
// allowed for containers that feed events by other means.
func NewKeyboard(backend Backend) *Keyboard {
	return &Keyboard{gate: gate{name: "keyboard", backend: backend}}
}

// RequestLock takes a reference on the keyboard hook.
func (k *Keyboard) RequestLock() error { return k.requestLock() }

// RequestUnlock drops a reference on the keyboard hook.
func (k *Keyboard) RequestUnlock() { k.requestUnlock() }

// Refs returns the current reference count.
func (k *Keyboard) Refs() int { return k.refs }

// Installed reports whether the OS hook is active.
func (k *Keyboard) Installed() bool { return k.refs > 0 }

func (k *Keyboard) OnKeyDown(fn KeyHandler) Subscription { return k.down.add(fn) }
func (k *Keyboard) OnKeyUp(fn KeyHandler) Subscription   { return k.up.add(fn) }

// DispatchKeyDown fans a key press out to the bound listeners.
// Events are dropped while no lock is held.
func (k *Keyboard) DispatchKeyDown(ev KeyEvent) {
	if k.refs == 0 {
		return
	}
	k.down.dispatch(&ev)
}

// DispatchKeyUp fans a key release out to the bound listeners.
func (k *Keyboard) DispatchKeyUp(ev KeyEvent) {
	if k.refs == 0 {
		return
	}
	k.up.dispatch(&ev)
}

// Mouse arbitrates the global mouse hook.
type Mouse struct {
	gate
	down listeners[*MouseEvent]
	up   listeners[*MouseEvent]
	move listeners[*MouseEvent]
	last image.Point
}

// NewMouse returns a mouse arbiter over backend.
func NewMouse(backend Backend) *Mouse {
	return &Mouse{gate: gate{name: "mouse", backend: backend}}
}

// RequestLock takes a reference on the mouse hook.
func (m *Mouse) RequestLock() error { return m.requestLock() }

// RequestUnlock drops a reference on the mouse hook.
func (m *Mouse) RequestUnlock() { m.requestUnlock() }

// Refs returns the current reference count.
func (m *Mouse) Refs() int { return m.refs }

// Installed reports whether the OS hook is active.
func (m *Mouse) Installed() bool { return m.refs > 0 }

// Position returns the last position seen by the hook.
func (m *Mouse) Position() image.Point { return m.last }

func (m *Mouse) OnMouseDown(fn MouseHandler) Subscription { return m.down.add(fn) }
func (m *Mouse) OnMouseUp(fn MouseHandler) Subscription   { return m.up.add(fn) }
func (m *Mouse) OnMouseMove(fn MouseHandler) Subscription { return m.move.add(fn) }

// DispatchMouseDown delivers a button press and reports whether a listener
// consumed it.
func (m *Mouse) DispatchMouseDown(ev MouseEvent) bool { return m.dispatch(&m.down, ev) }

// DispatchMouseUp delivers a button release.
func (m *Mouse) DispatchMouseUp(ev MouseEvent) bool { return m.dispatch(&m.up, ev) }

// DispatchMouseMove delivers a cursor movement.
func (m *Mouse) DispatchMouseMove(ev MouseEvent) bool { return m.dispatch(&m.move, ev) }

func (m *Mouse) dispatch(l *listeners[*MouseEvent], ev MouseEvent) bool {
	if m.refs == 0 {
		return false
	}
	m.last = ev.Position
	ev.Handled = false
	l.dispatch(&ev)
	return ev.Handled
}
