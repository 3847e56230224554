package worker

import (
	"context"
	"log"
	"runtime"
	"sync"

	"screen-hud/src/screenshot"
)

// WorkFunc produces the encoded snapshot of a region.
type WorkFunc func(ctx context.Context, region screenshot.Region) ([]byte, error)

// ResultCallback is invoked on completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the event loop safely.
type ResultCallback func(data []byte, err error)

// Pool is a fixed-size capture worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	jobs chan job
	work WorkFunc
	wg   sync.WaitGroup
	once sync.Once
}

type job struct {
	ctx    context.Context
	region screenshot.Region
	cb     ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0 and work
// defaults to a PNG capture of the region. Queue is 1 slot.
func New(size int, work WorkFunc) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if work == nil {
		work = Capture
	}
	p := &Pool{jobs: make(chan job, 1), work: work}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				p.run(j)
			}
		}()
	}
}

func (p *Pool) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in capture worker: %v", r)
		}
	}()
	log.Printf("Worker: starting capture for region %s", j.region)
	data, err := runWithContext(j.ctx, j.region, p.work)
	log.Printf("Worker: capture completed, bytes=%d, err=%v", len(data), err)
	if j.cb != nil {
		j.cb(data, err)
	}
}

// Submit enqueues a job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, region screenshot.Region, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, region: region, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work. Closing twice is harmless.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}

// Capture encodes region as PNG.
func Capture(_ context.Context, region screenshot.Region) ([]byte, error) {
	return screenshot.CaptureRegion(region)
}

// runWithContext honors the job deadline even when work does not.
func runWithContext(ctx context.Context, region screenshot.Region, work WorkFunc) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		return work(ctx, region)
	}
	type result struct {
		data []byte
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		data, err := work(ctx, region)
		resCh <- result{data, err}
	}()
	select {
	case r := <-resCh:
		return r.data, r.err
	case <-ctx.Done():
		// The capture may finish in the background; its result is dropped.
		return nil, ctx.Err()
	}
}
