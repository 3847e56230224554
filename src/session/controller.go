package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"screen-hud/src/hud"
	"screen-hud/src/logutil"
	"screen-hud/src/screenshot"
	"screen-hud/src/worker"
)

const snapshotDeadline = 5 * time.Second

// Picker runs interactive selections on the event loop.
type Picker interface {
	Pick(mode hud.Mode, onDone func(c *hud.Clipper, ok bool)) error
	Clipper() *hud.Clipper
	Dispose()
}

// Snapshotter captures regions off the event loop.
type Snapshotter interface {
	Submit(ctx context.Context, region screenshot.Region, cb worker.ResultCallback) bool
}

type ControllerOptions struct {
	Info   *hud.ContainerInfo
	Picker Picker
	// Snapshots is optional; without it stopping a session captures nothing.
	Snapshots Snapshotter
	Target    ResultTarget
	// Post runs fn on the event loop.
	Post        func(fn func()) bool
	DefaultMode hud.Mode
	Now         func() time.Time
}

// Controller ties the clipper and the toolbar into a capture session. All
// methods must be called on the event loop.
type Controller struct {
	opts ControllerOptions

	toolbar     *hud.Toolbar
	recording   bool
	started     time.Time
	cancelTimer func()
	busy        bool
	closing     bool
}

func NewController(opts ControllerOptions) *Controller {
	if opts.Target == nil {
		opts.Target = ClipboardTarget{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{opts: opts}
}

// Toolbar returns the live toolbar, or nil.
func (s *Controller) Toolbar() *hud.Toolbar {
	if s.toolbar == nil || s.toolbar.Disposed() {
		return nil
	}
	return s.toolbar
}

func (s *Controller) Recording() bool { return s.recording }

// Elapsed is the running time of the current session.
func (s *Controller) Elapsed() time.Duration {
	if !s.recording {
		return 0
	}
	return s.opts.Now().Sub(s.started)
}

// Begin starts a selection in the default mode. Rescale needs an existing
// area and falls back to Pick without one.
func (s *Controller) Begin() {
	mode := s.opts.DefaultMode
	if mode == hud.Rescale && s.opts.Picker.Clipper() == nil {
		mode = hud.Pick
	}
	s.pick(mode)
}

func (s *Controller) pick(mode hud.Mode) {
	s.closing = false
	log.Printf("Session: starting %s selection", mode)
	if err := s.opts.Picker.Pick(mode, s.onSelected); err != nil {
		log.Printf("Session: selection failed: %v", err)
		s.notify(hud.StatusError, "Selection unavailable")
		_ = s.opts.Target.OnFailure(err)
	}
}

func (s *Controller) onSelected(c *hud.Clipper, ok bool) {
	if !ok {
		log.Printf("Session: %v", ErrSelectionCancelled)
		_ = s.opts.Target.OnFailure(ErrSelectionCancelled)
		s.Close()
		return
	}
	tb, err := s.ensureToolbar()
	if err != nil {
		log.Printf("Session: %v", err)
		return
	}
	c.AttachToolbar(tb)
	log.Printf("Session: region %v selected", c.Area())
}

func (s *Controller) ensureToolbar() (*hud.Toolbar, error) {
	if tb := s.Toolbar(); tb != nil {
		return tb, nil
	}
	tb, err := hud.NewToolbar(s.opts.Info)
	if err != nil {
		return nil, fmt.Errorf("create toolbar: %w", err)
	}
	tb.OnRecordingIntent = s.onIntent
	tb.OnOptionsRequested = s.onOptions
	tb.OnDispose(s.onToolbarClosed)
	s.toolbar = tb
	return tb, nil
}

func (s *Controller) onIntent(intent hud.RecordingIntent) {
	switch intent {
	case hud.IntentStart:
		s.start()
	case hud.IntentStop:
		s.stop()
	default:
		log.Printf("Session: %v: %s", hud.ErrUnsupportedIntent, intent)
	}
}

func (s *Controller) start() {
	if s.recording {
		logutil.Tracef("Session: already running - ignoring start")
		return
	}
	s.recording = true
	s.started = s.opts.Now()
	if tb := s.Toolbar(); tb != nil {
		_ = tb.SetPrimaryIntent(hud.IntentStop)
		tb.SetElapsed(0)
	}
	s.scheduleTick()
}

func (s *Controller) scheduleTick() {
	if s.opts.Info.Schedule == nil {
		return
	}
	s.cancelTimer = s.opts.Info.Schedule(time.Second, s.tick)
}

func (s *Controller) tick() {
	s.cancelTimer = nil
	if !s.recording {
		return
	}
	if tb := s.Toolbar(); tb != nil {
		tb.SetElapsed(s.Elapsed())
	}
	s.scheduleTick()
}

func (s *Controller) stopTimer() {
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}

func (s *Controller) stop() {
	if !s.recording {
		logutil.Tracef("Session: not running - ignoring stop")
		return
	}
	log.Printf("Session: stopped after %s", s.Elapsed().Round(time.Second))
	s.recording = false
	s.stopTimer()
	if tb := s.Toolbar(); tb != nil {
		_ = tb.SetPrimaryIntent(hud.IntentStart)
	}
	s.snapshot()
}

func (s *Controller) snapshot() {
	c := s.opts.Picker.Clipper()
	if c == nil || s.opts.Snapshots == nil {
		return
	}
	if s.busy {
		log.Printf("Session: snapshot already in progress - dropping")
		return
	}
	region := screenshot.RegionOf(c.Area())
	ctx, cancel := context.WithTimeout(context.Background(), snapshotDeadline)
	ok := s.opts.Snapshots.Submit(ctx, region, func(data []byte, err error) {
		cancel()
		s.opts.Post(func() { s.onSnapshot(region, data, err) })
	})
	if !ok {
		cancel()
		log.Printf("Session: capture workers busy - dropping snapshot")
		s.notify(hud.StatusWarning, "Capture busy")
		return
	}
	s.busy = true
	if tb := s.Toolbar(); tb != nil {
		tb.SetPrimaryEnabled(false)
	}
}

func (s *Controller) onSnapshot(region screenshot.Region, data []byte, err error) {
	s.busy = false
	if tb := s.Toolbar(); tb != nil {
		tb.SetPrimaryEnabled(true)
	}
	if err != nil {
		log.Printf("Session: snapshot of %s failed: %v", region, err)
		_ = s.opts.Target.OnFailure(err)
		s.notify(hud.StatusError, "Capture failed")
		return
	}
	if err := s.opts.Target.OnSuccess(Result{Region: region, PNG: data}); err != nil {
		log.Printf("Session: delivering snapshot failed: %v", err)
		_ = s.opts.Target.OnFailure(err)
		s.notify(hud.StatusError, "Capture failed")
		return
	}
	s.notify(hud.StatusSuccess, fmt.Sprintf("Captured **%dx%d**", region.Width, region.Height))
}

func (s *Controller) onOptions(o hud.OptionsRequest) {
	switch o {
	case hud.OptionsRegion:
		s.pick(hud.Rescale)
	default:
		log.Printf("Session: no %s options", o)
		s.notify(hud.StatusInformation, "No options available")
	}
}

// AccentChanged re-themes the toolbar.
func (s *Controller) AccentChanged() {
	if tb := s.Toolbar(); tb != nil {
		tb.RefreshAccent()
	}
}

func (s *Controller) onToolbarClosed() {
	s.toolbar = nil
	s.Close()
}

// Close ends the session and disposes the clipper and the toolbar. Closing
// twice is harmless.
func (s *Controller) Close() {
	if s.closing {
		return
	}
	s.closing = true
	s.recording = false
	s.stopTimer()
	if tb := s.Toolbar(); tb != nil {
		tb.Dispose()
	}
	s.toolbar = nil
	s.opts.Picker.Dispose()
}

func (s *Controller) notify(status hud.Status, text string) {
	t, err := hud.NewTidbit(s.opts.Info, hud.DefaultTimeout)
	if err != nil {
		log.Printf("Session: %v", err)
		return
	}
	t.SetStatus(status)
	t.SetContent(text)
}
