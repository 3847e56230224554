package eventloop

import (
	"context"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-hud/src/hook"
)

type countingPump struct{ n atomic.Int32 }

func (p *countingPump) Pump() int {
	p.n.Add(1)
	return 0
}

func startLoop(t *testing.T, opts Options, start func(*Loop) error) (*Loop, <-chan error) {
	t.Helper()
	l := New(opts)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- l.Run(ctx, func() error {
			if start != nil {
				return start(l)
			}
			return nil
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-l.done
	})
	return l, errc
}

func TestPostRunsInOrder(t *testing.T) {
	l, _ := startLoop(t, Options{}, nil)

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, l.Post(func() { got = append(got, i) }))
	}
	require.NoError(t, l.Call(context.Background(), func() {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestCallWaitsForCompletion(t *testing.T) {
	l, _ := startLoop(t, Options{}, nil)
	ran := false
	require.NoError(t, l.Call(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestCallHonorsContext(t *testing.T) {
	l, _ := startLoop(t, Options{}, nil)
	release := make(chan struct{})
	l.Post(func() { <-release })
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Call(ctx, func() {}), context.DeadlineExceeded)
}

func TestPanicInPostedCallIsRecovered(t *testing.T) {
	l, _ := startLoop(t, Options{}, nil)
	l.Post(func() { panic("boom") })
	assert.NoError(t, l.Call(context.Background(), func() {}))
}

func TestAfterFunc(t *testing.T) {
	l, _ := startLoop(t, Options{}, nil)

	fired := make(chan struct{})
	l.AfterFunc(5*time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled call never ran")
	}

	var late atomic.Bool
	cancel := l.AfterFunc(5*time.Millisecond, func() { late.Store(true) })
	cancel()
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, l.Call(context.Background(), func() {}))
	assert.False(t, late.Load())
}

func TestHookEventsReachArbiters(t *testing.T) {
	events := make(chan hook.Event, 4)
	kb, ms := hook.NewKeyboard(nil), hook.NewMouse(nil)
	l, _ := startLoop(t, Options{Events: events, Keyboard: kb, Mouse: ms}, nil)

	var keys []uint16
	var moves []image.Point
	require.NoError(t, l.Call(context.Background(), func() {
		assert.NoError(t, kb.RequestLock())
		assert.NoError(t, ms.RequestLock())
		kb.OnKeyDown(func(e *hook.KeyEvent) { keys = append(keys, e.Rawcode) })
		ms.OnMouseMove(func(e *hook.MouseEvent) { moves = append(moves, e.Position) })
	}))

	events <- hook.Event{Type: hook.KeyDown, Key: hook.KeyEvent{Rawcode: hook.RawEscape}}
	events <- hook.Event{Type: hook.MouseMove, Mouse: hook.MouseEvent{Position: image.Pt(3, 4)}}

	assert.Eventually(t, func() bool {
		var n int
		_ = l.Call(context.Background(), func() { n = len(keys) + len(moves) })
		return n == 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, l.Call(context.Background(), func() {
		assert.Equal(t, []uint16{hook.RawEscape}, keys)
		assert.Equal(t, []image.Point{{3, 4}}, moves)
	}))
}

func TestClosedEventStreamKeepsLoopAlive(t *testing.T) {
	events := make(chan hook.Event)
	close(events)
	l, _ := startLoop(t, Options{Events: events}, nil)
	time.Sleep(10 * time.Millisecond)
	assert.NoError(t, l.Call(context.Background(), func() {}))
}

func TestPumpIsServiced(t *testing.T) {
	pump := &countingPump{}
	startLoop(t, Options{Interval: time.Millisecond}, func(l *Loop) error {
		l.SetPump(pump)
		return nil
	})
	assert.Eventually(t, func() bool { return pump.n.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestStartErrorStopsLoop(t *testing.T) {
	l := New(Options{})
	err := l.Run(context.Background(), func() error { return ErrStopped })
	assert.ErrorIs(t, err, ErrStopped)
	assert.False(t, l.Post(func() {}))
	assert.ErrorIs(t, l.Call(context.Background(), func() {}), ErrStopped)
}

func TestRunReturnsContextError(t *testing.T) {
	l := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx, nil) }()
	assert.Eventually(t, l.Running, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	assert.False(t, l.Running())
}
