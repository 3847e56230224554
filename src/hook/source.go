package hook

import (
	"errors"
	"image"
	"log"
	"sync"

	gohook "github.com/robotn/gohook"

	"screen-hud/src/logutil"
)

// Kind selects which half of the global hook a Backend controls.
type Kind uint8

const (
	KindKeyboard Kind = iota
	KindMouse
)

func (k Kind) String() string {
	if k == KindMouse {
		return "mouse"
	}
	return "keyboard"
}

// EventType tells the arbiters which list an Event belongs to.
type EventType uint8

const (
	KeyDown EventType = iota + 1
	KeyUp
	MouseDown
	MouseUp
	MouseMove
)

// Event is a translated hook event waiting to be routed on the event loop.
type Event struct {
	Type  EventType
	Key   KeyEvent
	Mouse MouseEvent
}

// Route hands the event to the matching arbiter and reports whether a mouse
// listener marked it handled.
func (e Event) Route(kb *Keyboard, ms *Mouse) bool {
	switch {
	case e.Type <= KeyUp && kb == nil, e.Type >= MouseDown && ms == nil:
		return false
	}
	switch e.Type {
	case KeyDown:
		kb.DispatchKeyDown(e.Key)
	case KeyUp:
		kb.DispatchKeyUp(e.Key)
	case MouseDown:
		return ms.DispatchMouseDown(e.Mouse)
	case MouseUp:
		return ms.DispatchMouseUp(e.Mouse)
	case MouseMove:
		return ms.DispatchMouseMove(e.Mouse)
	}
	return false
}

const eventBuffer = 256

// ErrHookUnavailable is returned when the hook library fails to start.
var ErrHookUnavailable = errors.New("global input hook unavailable")

// Source owns the process-wide gohook session. The keyboard and mouse
// backends it hands out share that session: it starts with the first
// install and stops when both are removed.
type Source struct {
	mu        sync.Mutex
	installed [2]bool
	running   bool
	events    chan Event
	done      chan struct{}

	start func() chan gohook.Event
	end   func()
}

// NewSource returns a Source backed by gohook.
func NewSource() *Source {
	return &Source{
		events: make(chan Event, eventBuffer),
		start:  gohook.Start,
		end:    gohook.End,
	}
}

// Events delivers translated events. The channel is never closed.
func (s *Source) Events() <-chan Event { return s.events }

// Backend returns the installer for one kind of hook.
func (s *Source) Backend(kind Kind) Backend {
	return &sourceBackend{src: s, kind: kind}
}

// Installed reports whether the given kind is currently forwarded.
func (s *Source) Installed(kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installed[kind]
}

type sourceBackend struct {
	src  *Source
	kind Kind
}

func (b *sourceBackend) Install() error { return b.src.install(b.kind) }
func (b *sourceBackend) Uninstall()     { b.src.uninstall(b.kind) }

func (s *Source) install(kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		ch := s.start()
		if ch == nil {
			return ErrHookUnavailable
		}
		s.running = true
		s.done = make(chan struct{})
		log.Printf("HOOK: gohook session started")
		go s.forward(ch, s.done)
	}
	s.installed[kind] = true
	return nil
}

func (s *Source) uninstall(kind Kind) {
	s.mu.Lock()
	s.installed[kind] = false
	stop := s.running && !s.installed[KindKeyboard] && !s.installed[KindMouse]
	var done chan struct{}
	if stop {
		s.running = false
		done = s.done
	}
	s.mu.Unlock()

	if stop {
		s.end()
		close(done)
		log.Printf("HOOK: gohook session stopped")
	}
}

func (s *Source) forward(ch chan gohook.Event, done chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hook forwarder: %v", r)
		}
	}()
	tr := newTranslator()
	for {
		select {
		case <-done:
			return
		case raw, ok := <-ch:
			if !ok {
				logutil.Tracef("HOOK: gohook channel closed")
				return
			}
			ev, ok := tr.translate(raw)
			if !ok || !s.wants(ev.Type) {
				continue
			}
			s.publish(ev)
		}
	}
}

func (s *Source) wants(t EventType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == KeyDown || t == KeyUp {
		return s.installed[KindKeyboard]
	}
	return s.installed[KindMouse]
}

// publish never blocks the hook thread. Moves are dropped when the loop
// falls behind; presses and releases wait their turn.
func (s *Source) publish(ev Event) {
	if ev.Type == MouseMove {
		select {
		case s.events <- ev:
		default:
		}
		return
	}
	s.events <- ev
}

// translator folds gohook's libuiohook event kinds into press, release and
// move. Key repeats and the extra click event after a release are dropped.
type translator struct {
	keys    map[uint16]bool
	buttons map[Button]bool
}

func newTranslator() *translator {
	return &translator{keys: make(map[uint16]bool), buttons: make(map[Button]bool)}
}

func (s *translator) translate(raw gohook.Event) (Event, bool) {
	switch raw.Kind {
	case gohook.KeyHold, gohook.KeyDown:
		if s.keys[raw.Rawcode] {
			return Event{}, false
		}
		s.keys[raw.Rawcode] = true
		return Event{Type: KeyDown, Key: keyEvent(raw)}, true
	case gohook.KeyUp:
		delete(s.keys, raw.Rawcode)
		return Event{Type: KeyUp, Key: keyEvent(raw)}, true
	case gohook.MouseHold:
		btn := mouseButton(raw.Button)
		s.buttons[btn] = true
		return Event{Type: MouseDown, Mouse: mouseEvent(raw, btn)}, true
	case gohook.MouseDown, gohook.MouseUp:
		btn := mouseButton(raw.Button)
		if !s.buttons[btn] {
			return Event{}, false
		}
		delete(s.buttons, btn)
		return Event{Type: MouseUp, Mouse: mouseEvent(raw, btn)}, true
	case gohook.MouseMove, gohook.MouseDrag:
		return Event{Type: MouseMove, Mouse: mouseEvent(raw, ButtonNone)}, true
	}
	return Event{}, false
}

func keyEvent(raw gohook.Event) KeyEvent {
	return KeyEvent{Rawcode: raw.Rawcode, Keycode: raw.Keycode, Keychar: raw.Keychar}
}

func mouseEvent(raw gohook.Event, btn Button) MouseEvent {
	return MouseEvent{Position: image.Pt(int(raw.X), int(raw.Y)), Button: btn}
}

func mouseButton(b uint16) Button {
	switch b {
	case 1:
		return ButtonLeft
	case 2:
		return ButtonRight
	case 3:
		return ButtonMiddle
	case 4:
		return ButtonX1
	case 5:
		return ButtonX2
	}
	return ButtonNone
}
