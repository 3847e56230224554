package hook

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLockedFilter(t *testing.T) (*Filter, *Keyboard, *Mouse) {
	t.Helper()
	kb := NewKeyboard(&fakeBackend{})
	ms := NewMouse(&fakeBackend{})
	require.NoError(t, kb.RequestLock())
	require.NoError(t, ms.RequestLock())
	return NewFilter(kb, ms), kb, ms
}

func TestFilterConsumesHandledMouseDown(t *testing.T) {
	f, _, ms := newLockedFilter(t)
	var got []MouseEvent
	ms.OnMouseDown(func(e *MouseEvent) {
		got = append(got, *e)
		e.Handled = true
	})

	consumed := f.Mouse(wmLButtonDown, image.Pt(120, 80), 0)

	assert.True(t, consumed, "handled press must be swallowed by the hook proc")
	require.Len(t, got, 1)
	assert.Equal(t, ButtonLeft, got[0].Button)
	assert.Equal(t, image.Pt(120, 80), got[0].Position)
	assert.Equal(t, image.Pt(120, 80), ms.Position())
}

func TestFilterPassesUnhandledMouse(t *testing.T) {
	f, _, ms := newLockedFilter(t)
	moves := 0
	ms.OnMouseMove(func(*MouseEvent) { moves++ })

	assert.False(t, f.Mouse(wmMouseMove, image.Pt(3, 4), 0))
	assert.False(t, f.Mouse(wmLButtonDown, image.Pt(3, 4), 0))
	assert.Equal(t, 1, moves)
}

func TestFilterPassesEverythingWhenUnlocked(t *testing.T) {
	f, _, ms := newLockedFilter(t)
	ms.OnMouseDown(func(e *MouseEvent) { e.Handled = true })
	ms.RequestUnlock()

	assert.False(t, f.Mouse(wmLButtonDown, image.Pt(1, 1), 0))
}

func TestFilterMouseButtons(t *testing.T) {
	tests := []struct {
		msg  uintptr
		data uint32
		typ  EventType
		btn  Button
	}{
		{wmRButtonDown, 0, MouseDown, ButtonRight},
		{wmRButtonUp, 0, MouseUp, ButtonRight},
		{wmMButtonDown, 0, MouseDown, ButtonMiddle},
		{wmXButtonDown, 1 << 16, MouseDown, ButtonX1},
		{wmXButtonUp, 2 << 16, MouseUp, ButtonX2},
	}
	for _, tt := range tests {
		typ, btn, ok := mouseMessage(tt.msg, tt.data)
		require.True(t, ok, "msg %#x", tt.msg)
		assert.Equal(t, tt.typ, typ, "msg %#x", tt.msg)
		assert.Equal(t, tt.btn, btn, "msg %#x", tt.msg)
	}

	_, _, ok := mouseMessage(0x020A, 0)
	assert.False(t, ok, "wheel is not routed")
}

func TestFilterKeysNeverConsumedAndRepeatsDropped(t *testing.T) {
	f, kb, _ := newLockedFilter(t)
	var downs []KeyEvent
	ups := 0
	kb.OnKeyDown(func(e *KeyEvent) { downs = append(downs, *e) })
	kb.OnKeyUp(func(*KeyEvent) { ups++ })

	assert.False(t, f.Key(wmSysKeyDown, uint32(RawLAlt), 0x38, 0))
	assert.False(t, f.Key(wmSysKeyDown, uint32(RawLAlt), 0x38, 0), "auto-repeat")
	assert.False(t, f.Key(wmSysKeyUp, uint32(RawLAlt), 0x38, 0))
	assert.False(t, f.Key(wmKeyDown, uint32(RawEscape), 0x01, 0))

	require.Len(t, downs, 2)
	assert.True(t, downs[0].IsAlt())
	assert.Equal(t, uint16(RawEscape), downs[1].Rawcode)
	assert.Equal(t, 1, ups)
}

func TestFilterExtendedKeycode(t *testing.T) {
	f, kb, _ := newLockedFilter(t)
	var got KeyEvent
	kb.OnKeyDown(func(e *KeyEvent) { got = *e })

	f.Key(wmKeyDown, 165, 0x38, llkhfExtended)

	assert.Equal(t, uint16(keycodeAltR), got.Keycode)
}
