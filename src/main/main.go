package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"screen-hud/src/clipboard"
	"screen-hud/src/config"
	"screen-hud/src/eventloop"
	"screen-hud/src/hook"
	"screen-hud/src/hotkey"
	"screen-hud/src/hud"
	"screen-hud/src/logutil"
	"screen-hud/src/overlay"
	"screen-hud/src/platform"
	"screen-hud/src/render"
	"screen-hud/src/screenshot"
	"screen-hud/src/session"
	"screen-hud/src/tray"
	"screen-hud/src/worker"
)

const (
	appTitle        = "Screen HUD"
	shutdownTimeout = 2 * time.Second
)

// app holds everything that is wired before the event loop starts. Fields
// set by start belong to the loop goroutine.
type app struct {
	cfg  *config.Config
	kb   *hook.Keyboard
	ms   *hook.Mouse
	loop *eventloop.Loop

	host     *platform.Host
	info     *hud.ContainerInfo
	selector *overlay.Selector
}

func newApp(cfg *config.Config) *app {
	kb, ms, events := newInputs()
	return &app{
		cfg:  cfg,
		kb:   kb,
		ms:   ms,
		loop: eventloop.New(eventloop.Options{Events: events, Keyboard: kb, Mouse: ms}),
	}
}

// start creates the native host and the HUD container on the loop thread.
func (a *app) start() error {
	host, err := platform.New()
	if err != nil {
		return fmt.Errorf("platform: %w", err)
	}
	bounds, err := screenshot.VirtualBounds()
	if err != nil {
		host.Close()
		return err
	}
	a.host = host
	a.loop.SetPump(host)

	info := hud.NewContainer(hud.Desktop, a.kb, a.ms, bounds)
	info.Surfaces = host
	info.Windows = host
	info.Cursor = host
	info.Accent = host.AccentColor
	info.Text = render.NewMeasurer()
	info.Schedule = a.loop.AfterFunc
	info.TidbitTimeout = a.cfg.TidbitTimeout
	a.info = info
	a.selector = overlay.NewSelector(a.loop, info, a.cfg.AllowWindowPick)
	log.Printf("HUD container ready on virtual desktop %v", bounds)
	return nil
}

func (a *app) shutdown() {
	if a.selector != nil {
		a.selector.Dispose()
	}
	if a.host != nil {
		a.host.Close()
	}
}

func main() {
	// Ensure DPI awareness before creating any windows or querying metrics
	enableDPIAwareness()

	pick := flag.Bool("pick", false, "Select a region once, print it as WxH+X+Y and exit")
	envPath := flag.String("config", "", "Path to a .env file")
	mode := flag.String("mode", "", "Default selection mode: pick or rescale")
	flag.Parse()

	cfg, err := config.LoadWithOptions(config.LoadOptions{EnvPathOverride: *envPath, DefaultModeOverride: *mode})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)
	logMonitorConfiguration()

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable, snapshots disabled: %v", err)
		cfg.ClipboardSnapshot = false
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := newApp(cfg)
	if *pick {
		os.Exit(runPick(ctx, a, os.Stdout))
	}
	if err := runResident(ctx, a); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("event loop stopped: %v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	logutil.Setup(cfg.EnableFileLogging)
	logutil.SetTrace(cfg.Trace)
	log.Printf("%s starting (hotkey %s, default mode %s)", appTitle, cfg.Hotkey, cfg.DefaultMode)
}

func hudMode(s string) hud.Mode {
	if s == config.DefaultModeRescale {
		return hud.Rescale
	}
	return hud.Pick
}

// pickOptions describes a one-shot selection that prints the region and,
// when enabled, copies a snapshot of it.
func pickOptions(cfg *config.Config, sel session.RegionSelectorFunc, out io.Writer) session.Options {
	opts := session.Options{SelectRegion: sel, Target: session.StdoutTarget{Writer: out}}
	if cfg.ClipboardSnapshot {
		opts.Capture = worker.Capture
		opts.Target = session.MultiTarget{opts.Target, session.ClipboardTarget{}}
	}
	return opts
}

// runPick runs a single selection and returns the process exit code.
func runPick(ctx context.Context, a *app, out io.Writer) int {
	loopCtx, stopLoop := context.WithCancel(ctx)
	ready := make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		errc <- a.loop.Run(loopCtx, func() error {
			if err := a.start(); err != nil {
				return err
			}
			close(ready)
			return nil
		})
	}()

	select {
	case <-ready:
	case err := <-errc:
		stopLoop()
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}

	_, err := session.Execute(ctx, pickOptions(a.cfg, a.selector.Select, out))

	callCtx, cancelCall := context.WithTimeout(context.Background(), shutdownTimeout)
	_ = a.loop.Call(callCtx, a.shutdown)
	cancelCall()
	stopLoop()
	<-errc

	switch {
	case err == nil:
		return 0
	case errors.Is(err, session.ErrSelectionCancelled):
		log.Printf("Pick cancelled")
		return 2
	default:
		fmt.Fprintf(os.Stderr, "Selection failed: %v\n", err)
		return 1
	}
}

// runResident keeps the HUD alive behind the hotkey and the tray icon.
func runResident(ctx context.Context, a *app) error {
	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()

	pool := worker.New(1, nil)
	defer pool.Close()

	var (
		ctl      *session.Controller
		hk       *hotkey.Listener
		quitOnce sync.Once
	)
	quit := make(chan struct{})
	begin := func() {
		if ctl != nil {
			ctl.Begin()
		}
	}
	start := func() error {
		if err := a.start(); err != nil {
			return err
		}
		opts := session.ControllerOptions{
			Info:        a.info,
			Picker:      a.selector,
			Target:      session.ClipboardTarget{},
			Post:        a.loop.Post,
			DefaultMode: hudMode(a.cfg.DefaultMode),
		}
		if a.cfg.ClipboardSnapshot {
			opts.Snapshots = pool
		}
		ctl = session.NewController(opts)
		a.host.OnAccentChanged(ctl.AccentChanged)

		var err error
		hk, err = hotkey.Listen(a.kb, a.cfg.Hotkey, begin)
		if err != nil {
			log.Printf("Hotkey disabled: %v", err)
		}
		return nil
	}

	trayIcon, err := tray.New(tray.Config{
		Title:    appTitle,
		Tooltip:  fmt.Sprintf("%s - Press %s to select a region", appTitle, a.cfg.Hotkey),
		Hotkey:   a.cfg.Hotkey,
		OnSelect: func() { a.loop.Post(begin) },
		OnExit:   func() { quitOnce.Do(func() { close(quit) }) },
	})
	if err != nil {
		log.Printf("Tray disabled: %v", err)
	} else {
		go trayIcon.Run()
		defer trayIcon.Destroy()
	}

	errc := make(chan error, 1)
	go func() { errc <- a.loop.Run(loopCtx, start) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	case <-quit:
		log.Printf("Quit requested from tray")
	}
	callCtx, cancelCall := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelCall()
	_ = a.loop.Call(callCtx, func() {
		hk.Close()
		if ctl != nil {
			ctl.Close()
		}
		a.shutdown()
	})
	stopLoop()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
