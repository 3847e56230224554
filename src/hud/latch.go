package hud

import "sync"

// latch is a one-shot signal. Release may run before anyone waits, and
// may run on the goroutine that is about to wait; either way Done is closed.
type latch struct {
	once sync.Once
	ch   chan struct{}
}

func newLatch() *latch {
	return &latch{ch: make(chan struct{})}
}

func (l *latch) Release() {
	l.once.Do(func() { close(l.ch) })
}

func (l *latch) Done() <-chan struct{} { return l.ch }

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()
