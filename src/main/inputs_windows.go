//go:build windows

package main

import "screen-hud/src/hook"

// newInputs installs low-level hooks that run on the loop thread and can
// swallow the mouse events the HUD handles.
func newInputs() (*hook.Keyboard, *hook.Mouse, <-chan hook.Event) {
	ll := hook.NewLowLevel()
	kb := hook.NewKeyboard(ll.Backend(hook.KindKeyboard))
	ms := hook.NewMouse(ll.Backend(hook.KindMouse))
	ll.Bind(kb, ms)
	return kb, ms, nil
}
