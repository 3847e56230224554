//go:build !windows

package main

import "screen-hud/src/hook"

func newInputs() (*hook.Keyboard, *hook.Mouse, <-chan hook.Event) {
	src := hook.NewSource()
	kb := hook.NewKeyboard(src.Backend(hook.KindKeyboard))
	ms := hook.NewMouse(src.Backend(hook.KindMouse))
	return kb, ms, src.Events()
}
