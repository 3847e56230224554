// Package eventloop runs the single goroutine that owns every HUD
// component, the hook arbiters and the native message pump.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"screen-hud/src/hook"
	"screen-hud/src/logutil"
)

// DefaultPumpInterval is how often the native message pump is serviced when
// nothing else happens.
const DefaultPumpInterval = 8 * time.Millisecond

// ErrStopped is returned for work posted after the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// Pump dispatches pending native messages and repaints dirty surfaces.
type Pump interface {
	Pump() int
}

// Options wires the loop. Every field is optional.
type Options struct {
	// Events are routed to Keyboard and Mouse on the loop goroutine. They
	// come from an observing hook, so a handled event cannot be withdrawn.
	// Leave it nil when the hooks call the arbiters directly.
	Events   <-chan hook.Event
	Keyboard *hook.Keyboard
	Mouse    *hook.Mouse
	// Interval overrides DefaultPumpInterval.
	Interval time.Duration
}

// Loop is the single-threaded coordinator. Other goroutines talk to it by
// posting closures.
type Loop struct {
	calls    chan func()
	events   <-chan hook.Event
	kb       *hook.Keyboard
	ms       *hook.Mouse
	pump     Pump
	interval time.Duration
	done     chan struct{}
	running  atomic.Bool
}

func New(opts Options) *Loop {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPumpInterval
	}
	return &Loop{
		calls:    make(chan func(), 64),
		events:   opts.Events,
		kb:       opts.Keyboard,
		ms:       opts.Mouse,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// SetPump installs the native message pump. Call it from the loop
// goroutine, typically from the start function given to Run.
func (l *Loop) SetPump(p Pump) { l.pump = p }

// Post queues fn to run on the loop goroutine. It reports false once the
// loop has exited.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.calls <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop goroutine and waits for it to return. It must
// not be called from the loop goroutine itself.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc runs fn on the loop goroutine once d has elapsed. The returned
// function cancels it; a cancelled fn never runs even if its timer already
// fired.
func (l *Loop) AfterFunc(d time.Duration, fn func()) (cancel func()) {
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		l.Post(func() {
			if !cancelled.Load() {
				fn()
			}
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// Running reports whether Run is executing.
func (l *Loop) Running() bool { return l.running.Load() }

// Run pins the calling goroutine to its OS thread, runs start and then
// processes posted calls, hook events and pump ticks until ctx is done.
// Native windows must be created from start or from posted calls so that
// their messages arrive on this thread.
func (l *Loop) Run(ctx context.Context, start func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)

	l.running.Store(true)
	defer l.running.Store(false)

	if start != nil {
		if err := start(); err != nil {
			return fmt.Errorf("event loop start: %w", err)
		}
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("LOOP: stopping: %v", ctx.Err())
			return ctx.Err()
		case fn := <-l.calls:
			l.run(fn)
		case e, ok := <-l.events:
			if !ok {
				log.Printf("LOOP: hook event stream closed")
				l.events = nil
				continue
			}
			if e.Route(l.kb, l.ms) {
				logutil.Tracef("LOOP: event %d handled after the OS delivered it", e.Type)
			}
		case <-ticker.C:
			if l.pump != nil {
				l.pump.Pump()
			}
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("LOOP: recovered from panic in posted call: %v", r)
		}
	}()
	fn()
}
