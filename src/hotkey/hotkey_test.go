package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-hud/src/hook"
)

func press(kb *hook.Keyboard, codes ...uint16) {
	for _, c := range codes {
		kb.DispatchKeyDown(hook.KeyEvent{Rawcode: c})
	}
}

func release(kb *hook.Keyboard, codes ...uint16) {
	for _, c := range codes {
		kb.DispatchKeyUp(hook.KeyEvent{Rawcode: c})
	}
}

func TestCombinationFires(t *testing.T) {
	tests := []struct {
		config string
		keys   []uint16
	}{
		{"Ctrl+Alt+R", []uint16{hook.RawLCtrl, hook.RawRAlt, 82}},
		{"Ctrl+Shift+F13", []uint16{hook.RawRCtrl, hook.RawLShift, 124}},
		{"Win+Shift+S", []uint16{92, hook.RawRShift, 83}},
		{"Alt+F4", []uint16{hook.RawLAlt, 115}},
	}
	for _, tt := range tests {
		t.Run(tt.config, func(t *testing.T) {
			kb := hook.NewKeyboard(nil)
			fired := 0
			l, err := Listen(kb, tt.config, func() { fired++ })
			require.NoError(t, err)
			defer l.Close()

			press(kb, tt.keys[:len(tt.keys)-1]...)
			assert.Zero(t, fired)
			press(kb, tt.keys[len(tt.keys)-1])
			assert.Equal(t, 1, fired)
		})
	}
}

func TestReleasedKeyBreaksCombination(t *testing.T) {
	kb := hook.NewKeyboard(nil)
	fired := 0
	l, err := Listen(kb, "Ctrl+Alt+R", func() { fired++ })
	require.NoError(t, err)
	defer l.Close()

	press(kb, hook.RawLCtrl, hook.RawLAlt)
	release(kb, hook.RawLAlt)
	press(kb, 82)
	assert.Zero(t, fired)

	press(kb, hook.RawLAlt)
	assert.Equal(t, 1, fired)
}

func TestStatesResetAfterFiring(t *testing.T) {
	kb := hook.NewKeyboard(nil)
	fired := 0
	l, err := Listen(kb, "Ctrl+R", func() { fired++ })
	require.NoError(t, err)
	defer l.Close()

	press(kb, hook.RawLCtrl, 82)
	press(kb, 82)
	assert.Equal(t, 1, fired)
	press(kb, hook.RawLCtrl)
	assert.Equal(t, 2, fired)
}

func TestListenerHoldsKeyboardLock(t *testing.T) {
	kb := hook.NewKeyboard(nil)
	l, err := Listen(kb, "Ctrl+Alt+R", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, kb.Refs())
	assert.Equal(t, "ctrl+alt+r", l.Combo().String())

	l.Close()
	l.Close()
	assert.Zero(t, kb.Refs())

	press(kb, hook.RawLCtrl, hook.RawLAlt, 82)
}

func TestInvalidHotkey(t *testing.T) {
	kb := hook.NewKeyboard(nil)
	for _, cfg := range []string{"Ctrl++R", "Ctrl+Hyper"} {
		_, err := Listen(kb, cfg, nil)
		assert.Error(t, err, cfg)
	}
	assert.Zero(t, kb.Refs())
}
