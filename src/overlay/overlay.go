// Package overlay drives region selection through the HUD clipper from code
// that does not live on the event loop.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"screen-hud/src/hud"
	"screen-hud/src/logutil"
	"screen-hud/src/screenshot"
)

// ErrLoopStopped is returned when the event loop refuses a posted call.
var ErrLoopStopped = errors.New("event loop is not accepting calls")

// Loop is the part of the event loop the selector needs.
type Loop interface {
	Post(fn func()) bool
	Call(ctx context.Context, fn func()) error
}

// Selector owns the clipper used for interactive selection. Its methods
// other than Select must run on the event loop.
type Selector struct {
	loop            Loop
	info            *hud.ContainerInfo
	allowWindowPick bool

	clipper *hud.Clipper

	// pick counts Pick calls. A completion from an earlier call is dropped.
	pick uint64
}

func NewSelector(loop Loop, info *hud.ContainerInfo, allowWindowPick bool) *Selector {
	return &Selector{loop: loop, info: info, allowWindowPick: allowWindowPick}
}

// Clipper returns the live clipper, or nil.
func (s *Selector) Clipper() *hud.Clipper {
	if s.clipper == nil || s.clipper.Disposed() {
		return nil
	}
	return s.clipper
}

func (s *Selector) ensureClipper() (*hud.Clipper, error) {
	if c := s.Clipper(); c != nil {
		return c, nil
	}
	c, err := hud.NewClipper(s.info)
	if err != nil {
		return nil, err
	}
	s.clipper = c
	return c, nil
}

// Pick unlocks the clipper in mode and calls onDone on the event loop once
// it locks again. ok is false when the selection was dismissed or too small.
// A Pick already running in the same mode keeps its original callback. A
// Pick started in another mode supersedes the running one, whose onDone is
// never called.
func (s *Selector) Pick(mode hud.Mode, onDone func(c *hud.Clipper, ok bool)) error {
	c, err := s.ensureClipper()
	if err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	if !c.Locked() && c.Mode() == mode {
		logutil.Tracef("OVERLAY: %s selection already running - ignoring", mode)
		return nil
	}
	s.pick++
	gen := s.pick
	done := c.Unlock(mode, s.allowWindowPick)
	go func() {
		<-done
		finish := func() {
			if gen != s.pick {
				logutil.Tracef("OVERLAY: %s selection superseded - dropping its result", mode)
				return
			}
			onDone(c, selected(c))
		}
		if !s.loop.Post(finish) {
			log.Printf("OVERLAY: selection finished after the event loop stopped")
		}
	}()
	return nil
}

func selected(c *hud.Clipper) bool {
	if c.Disposed() {
		return false
	}
	area := c.Area()
	return area.Dx() >= hud.MinimumWidth && area.Dy() >= hud.MinimumHeight
}

// Select runs a Pick and blocks until it completes. It must not be called
// from the event loop. The clipper is disposed before Select returns.
// Returns (region, cancelled, error).
func (s *Selector) Select(ctx context.Context) (screenshot.Region, bool, error) {
	type outcome struct {
		area image.Rectangle
		ok   bool
	}
	result := make(chan outcome, 1)

	var pickErr error
	err := s.loop.Call(ctx, func() {
		pickErr = s.Pick(hud.Pick, func(c *hud.Clipper, ok bool) {
			area := c.Area()
			c.Dispose()
			result <- outcome{area: area, ok: ok}
		})
	})
	if err != nil {
		return screenshot.Region{}, false, err
	}
	if pickErr != nil {
		return screenshot.Region{}, false, pickErr
	}

	select {
	case r := <-result:
		if !r.ok {
			log.Printf("OVERLAY: selection cancelled")
			return screenshot.Region{}, true, nil
		}
		log.Printf("OVERLAY: selected %v", r.area)
		return screenshot.RegionOf(r.area), false, nil
	case <-ctx.Done():
		if !s.loop.Post(s.Dispose) {
			return screenshot.Region{}, false, ErrLoopStopped
		}
		return screenshot.Region{}, false, ctx.Err()
	}
}

// Dispose tears the clipper down. Disposing twice is harmless.
func (s *Selector) Dispose() {
	if s.clipper != nil {
		s.clipper.Dispose()
	}
}
