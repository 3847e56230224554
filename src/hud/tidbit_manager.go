package hud

import (
	"image"
	"log"

	"screen-hud/src/hook"
	"screen-hud/src/logutil"
)

// tidbitGap separates stacked tidbits vertically.
const tidbitGap = 4

// Stackable is anything the TidbitManager can position.
type Stackable interface {
	Size() image.Point
	Location() image.Point
	SetLocation(p image.Point)
}

// TidbitManager stacks the visible tidbits of one container under the
// cursor. It holds the mouse lock and a single move subscription while at
// least one tidbit is registered. It never disposes tidbits.
type TidbitManager struct {
	info    *ContainerInfo
	tidbits []Stackable
	sub     hook.Subscription
	locked  bool
}

func NewTidbitManager(info *ContainerInfo) *TidbitManager {
	return &TidbitManager{info: info}
}

// Len returns the number of registered tidbits.
func (m *TidbitManager) Len() int { return len(m.tidbits) }

// Register places t below the already registered tidbits and starts
// tracking it.
func (m *TidbitManager) Register(t Stackable) {
	if m.indexOf(t) >= 0 {
		return
	}
	if len(m.tidbits) == 0 {
		m.bind()
	}
	offset := 0
	for _, other := range m.tidbits {
		offset += other.Size().Y + tidbitGap
	}
	t.SetLocation(m.anchor(m.info.cursorPosition(), offset))
	m.tidbits = append(m.tidbits, t)
}

// Unregister stops tracking t and pulls the tidbits below it up by its slot.
func (m *TidbitManager) Unregister(t Stackable) {
	idx := m.indexOf(t)
	if idx < 0 {
		return
	}
	// The slot includes the gap so the stack stays packed at tidbitGap.
	shift := t.Size().Y + tidbitGap
	for _, other := range m.tidbits[idx+1:] {
		other.SetLocation(other.Location().Sub(image.Pt(0, shift)))
	}
	m.tidbits = append(m.tidbits[:idx], m.tidbits[idx+1:]...)
	if len(m.tidbits) == 0 {
		m.unbind()
	}
}

func (m *TidbitManager) indexOf(t Stackable) int {
	for i, other := range m.tidbits {
		if other == t {
			return i
		}
	}
	return -1
}

func (m *TidbitManager) bind() {
	ms := m.info.Mouse
	if ms == nil {
		return
	}
	if err := ms.RequestLock(); err != nil {
		log.Printf("TIDBIT: tidbits will not follow the cursor: %v", err)
	} else {
		m.locked = true
	}
	m.sub = ms.OnMouseMove(m.onMouseMove)
	logutil.Tracef("TIDBIT: bound cursor tracking")
}

func (m *TidbitManager) unbind() {
	m.sub.Unbind()
	m.sub = hook.Subscription{}
	if m.locked {
		m.info.Mouse.RequestUnlock()
		m.locked = false
	}
	logutil.Tracef("TIDBIT: released cursor tracking")
}

// onMouseMove re-flows every tidbit since any of them may have been resized.
func (m *TidbitManager) onMouseMove(e *hook.MouseEvent) {
	offset := 0
	for _, t := range m.tidbits {
		t.SetLocation(m.anchor(e.Position, offset))
		offset += t.Size().Y + tidbitGap
	}
}

func (m *TidbitManager) anchor(cursor image.Point, offset int) image.Point {
	return cursor.Add(m.info.cursorHalfSize()).Add(image.Pt(0, offset))
}
