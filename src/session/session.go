package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"screen-hud/src/clipboard"
	"screen-hud/src/screenshot"
)

var ErrSelectionCancelled = errors.New("selection cancelled")

type RegionSelectorFunc func(ctx context.Context) (screenshot.Region, bool, error)

// CaptureFunc encodes the pixels of a selected region.
type CaptureFunc func(ctx context.Context, region screenshot.Region) ([]byte, error)

type ResultTarget interface {
	OnSuccess(res Result) error
	OnFailure(err error) error
}

type Options struct {
	Deadline     time.Duration
	SelectRegion RegionSelectorFunc
	// Capture is optional; without it only the region is reported.
	Capture CaptureFunc
	Target  ResultTarget
}

type Result struct {
	Region screenshot.Region
	PNG    []byte
}

// Execute runs one selection and hands the result to the target.
func Execute(ctx context.Context, opts Options) (Result, error) {
	if opts.SelectRegion == nil {
		return Result{}, errors.New("SelectRegion is required")
	}
	if opts.Target == nil {
		return Result{}, errors.New("Target is required")
	}

	region, cancelled, err := opts.SelectRegion(ctx)
	if err != nil {
		_ = opts.Target.OnFailure(err)
		return Result{}, err
	}
	if cancelled {
		_ = opts.Target.OnFailure(ErrSelectionCancelled)
		return Result{}, ErrSelectionCancelled
	}

	res := Result{Region: region}
	if opts.Capture != nil {
		deadline := opts.Deadline
		if deadline <= 0 {
			deadline = 5 * time.Second
		}
		jobCtx, cancel := context.WithTimeout(ctx, deadline)
		defer cancel()

		data, err := opts.Capture(jobCtx, region)
		if err != nil {
			err = fmt.Errorf("capture %s: %w", region, err)
			_ = opts.Target.OnFailure(err)
			return Result{}, err
		}
		res.PNG = data
	}

	if err := opts.Target.OnSuccess(res); err != nil {
		_ = opts.Target.OnFailure(err)
		return Result{}, err
	}
	return res, nil
}

// ClipboardTarget copies the captured image, or the region text when
// nothing was captured.
type ClipboardTarget struct{}

func (ClipboardTarget) OnSuccess(res Result) error {
	if len(res.PNG) > 0 {
		return clipboard.WritePNG(res.PNG)
	}
	return clipboard.Write(res.Region.String())
}

func (ClipboardTarget) OnFailure(err error) error {
	return nil
}

// StdoutTarget prints the region as WxH+X+Y.
type StdoutTarget struct {
	Writer io.Writer
}

func (t StdoutTarget) OnSuccess(res Result) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintln(w, res.Region)
	return err
}

func (t StdoutTarget) OnFailure(err error) error {
	return nil
}

// MultiTarget fans a result out to several targets and reports the first
// error.
type MultiTarget []ResultTarget

func (m MultiTarget) OnSuccess(res Result) error {
	var first error
	for _, t := range m {
		if err := t.OnSuccess(res); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m MultiTarget) OnFailure(err error) error {
	for _, t := range m {
		_ = t.OnFailure(err)
	}
	return nil
}
