package overlay

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-hud/src/eventloop"
	"screen-hud/src/hook"
	"screen-hud/src/hud"
	"screen-hud/src/screenshot"
)

type fixture struct {
	loop *eventloop.Loop
	kb   *hook.Keyboard
	ms   *hook.Mouse
	sel  *Selector
	ctx  context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kb, ms := hook.NewKeyboard(nil), hook.NewMouse(nil)
	info := hud.NewContainer(hud.RemoteSurface, kb, ms, image.Rect(0, 0, 1920, 1080))
	loop := eventloop.New(eventloop.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = loop.Run(ctx, nil)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return &fixture{loop: loop, kb: kb, ms: ms, sel: NewSelector(loop, info, true), ctx: ctx}
}

// onLoop runs fn on the event loop and waits for it.
func (f *fixture) onLoop(t *testing.T, fn func()) {
	t.Helper()
	require.NoError(t, f.loop.Call(f.ctx, fn))
}

func (f *fixture) waitForHooks(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		var refs int
		f.onLoop(t, func() { refs = f.ms.Refs() })
		return refs > 0
	}, time.Second, time.Millisecond)
}

type selection struct {
	region    screenshot.Region
	cancelled bool
	err       error
}

func (f *fixture) selectAsync(ctx context.Context) <-chan selection {
	out := make(chan selection, 1)
	go func() {
		r, cancelled, err := f.sel.Select(ctx)
		out <- selection{r, cancelled, err}
	}()
	return out
}

func await(t *testing.T, ch <-chan selection) selection {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("selection did not finish")
		return selection{}
	}
}

func TestSelectDrag(t *testing.T) {
	f := newFixture(t)
	res := f.selectAsync(context.Background())
	f.waitForHooks(t)

	f.onLoop(t, func() {
		f.ms.DispatchMouseDown(hook.MouseEvent{Position: image.Pt(400, 300), Button: hook.ButtonLeft})
		f.ms.DispatchMouseMove(hook.MouseEvent{Position: image.Pt(100, 100)})
		f.ms.DispatchMouseUp(hook.MouseEvent{Position: image.Pt(100, 100), Button: hook.ButtonLeft})
	})

	s := await(t, res)
	require.NoError(t, s.err)
	assert.False(t, s.cancelled)
	assert.Equal(t, screenshot.Region{X: 100, Y: 100, Width: 300, Height: 200}, s.region)

	f.onLoop(t, func() {
		assert.Nil(t, f.sel.Clipper())
		assert.Zero(t, f.ms.Refs())
		assert.Zero(t, f.kb.Refs())
	})
}

func TestSelectEscapeCancels(t *testing.T) {
	f := newFixture(t)
	res := f.selectAsync(context.Background())
	f.waitForHooks(t)

	f.onLoop(t, func() { f.kb.DispatchKeyDown(hook.KeyEvent{Rawcode: hook.RawEscape}) })

	s := await(t, res)
	require.NoError(t, s.err)
	assert.True(t, s.cancelled)
}

func TestSelectTooSmallCancels(t *testing.T) {
	f := newFixture(t)
	res := f.selectAsync(context.Background())
	f.waitForHooks(t)

	f.onLoop(t, func() {
		f.ms.DispatchMouseDown(hook.MouseEvent{Position: image.Pt(10, 10), Button: hook.ButtonLeft})
		f.ms.DispatchMouseMove(hook.MouseEvent{Position: image.Pt(20, 20)})
		f.ms.DispatchMouseUp(hook.MouseEvent{Position: image.Pt(20, 20), Button: hook.ButtonLeft})
	})

	assert.True(t, await(t, res).cancelled)
}

func TestSelectContextCancelDisposes(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	res := f.selectAsync(ctx)
	f.waitForHooks(t)

	cancel()
	s := await(t, res)
	assert.ErrorIs(t, s.err, context.Canceled)

	require.Eventually(t, func() bool {
		var refs int
		f.onLoop(t, func() { refs = f.ms.Refs() + f.kb.Refs() })
		return refs == 0
	}, time.Second, time.Millisecond)
}

func TestPickKeepsClipperForRescale(t *testing.T) {
	f := newFixture(t)
	done := make(chan bool, 1)
	var err error
	f.onLoop(t, func() {
		err = f.sel.Pick(hud.Pick, func(c *hud.Clipper, ok bool) { done <- ok })
	})
	require.NoError(t, err)
	f.waitForHooks(t)

	f.onLoop(t, func() {
		f.ms.DispatchMouseDown(hook.MouseEvent{Position: image.Pt(0, 0), Button: hook.ButtonLeft})
		f.ms.DispatchMouseMove(hook.MouseEvent{Position: image.Pt(200, 100)})
		f.ms.DispatchMouseUp(hook.MouseEvent{Position: image.Pt(200, 100), Button: hook.ButtonLeft})
	})

	select {
	case ok := <-done:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("pick did not finish")
	}
	var (
		locked bool
		area   image.Rectangle
	)
	f.onLoop(t, func() {
		if c := f.sel.Clipper(); c != nil {
			locked, area = c.Locked(), c.Area()
		}
	})
	assert.True(t, locked)
	assert.Equal(t, image.Rect(0, 0, 200, 100), area)
}

func TestRepeatedPickKeepsRunningSelection(t *testing.T) {
	f := newFixture(t)
	calls := make(chan bool, 2)
	onDone := func(_ *hud.Clipper, ok bool) { calls <- ok }
	var first, second error
	f.onLoop(t, func() {
		first = f.sel.Pick(hud.Pick, onDone)
		second = f.sel.Pick(hud.Pick, onDone)
	})
	require.NoError(t, first)
	require.NoError(t, second)

	f.onLoop(t, func() {
		f.ms.DispatchMouseDown(hook.MouseEvent{Position: image.Pt(0, 0), Button: hook.ButtonLeft})
		f.ms.DispatchMouseMove(hook.MouseEvent{Position: image.Pt(100, 100)})
		f.ms.DispatchMouseUp(hook.MouseEvent{Position: image.Pt(100, 100), Button: hook.ButtonLeft})
	})

	select {
	case ok := <-calls:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("pick did not finish")
	}
	f.onLoop(t, func() {})
	assert.Empty(t, calls)
}

func TestSupersededPickDropsStaleResult(t *testing.T) {
	f := newFixture(t)
	committed := make(chan bool, 1)
	var err error
	f.onLoop(t, func() {
		err = f.sel.Pick(hud.Pick, func(_ *hud.Clipper, ok bool) { committed <- ok })
	})
	require.NoError(t, err)
	f.waitForHooks(t)
	f.onLoop(t, func() {
		f.ms.DispatchMouseDown(hook.MouseEvent{Position: image.Pt(0, 0), Button: hook.ButtonLeft})
		f.ms.DispatchMouseMove(hook.MouseEvent{Position: image.Pt(200, 200)})
		f.ms.DispatchMouseUp(hook.MouseEvent{Position: image.Pt(200, 200), Button: hook.ButtonLeft})
	})
	select {
	case ok := <-committed:
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("pick did not finish")
	}

	stale := make(chan bool, 1)
	fresh := make(chan bool, 1)
	var rescaleErr, pickErr error
	f.onLoop(t, func() {
		rescaleErr = f.sel.Pick(hud.Rescale, func(c *hud.Clipper, ok bool) {
			if !ok {
				c.Dispose()
			}
			stale <- ok
		})
		pickErr = f.sel.Pick(hud.Pick, func(_ *hud.Clipper, ok bool) { fresh <- ok })
	})
	require.NoError(t, rescaleErr)
	require.NoError(t, pickErr)

	assert.Never(t, func() bool { return len(stale) > 0 }, 100*time.Millisecond, 5*time.Millisecond)
	var (
		running bool
		mode    hud.Mode
	)
	f.onLoop(t, func() {
		if c := f.sel.Clipper(); c != nil {
			running, mode = !c.Locked(), c.Mode()
		}
	})
	assert.True(t, running, "the new pick must still be running")
	assert.Equal(t, hud.Pick, mode)

	f.onLoop(t, func() {
		f.ms.DispatchMouseDown(hook.MouseEvent{Position: image.Pt(10, 10), Button: hook.ButtonLeft})
		f.ms.DispatchMouseMove(hook.MouseEvent{Position: image.Pt(300, 300)})
		f.ms.DispatchMouseUp(hook.MouseEvent{Position: image.Pt(300, 300), Button: hook.ButtonLeft})
	})
	select {
	case ok := <-fresh:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("new pick did not finish")
	}
	assert.Empty(t, stale)
}
