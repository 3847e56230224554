package screenshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/kbinani/screenshot"
)

// ErrNoDisplay is returned when no active display is attached.
var ErrNoDisplay = errors.New("no active displays found")

var (
	numDisplays   = screenshot.NumActiveDisplays
	displayBounds = screenshot.GetDisplayBounds
	captureRect   = screenshot.CaptureRect
)

// Region is a rectangle in virtual-desktop coordinates.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RegionOf converts a canonical rectangle into a Region.
func RegionOf(r image.Rectangle) Region {
	r = r.Canon()
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

func (r Region) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// VirtualBounds is the union of every active display. It may start at
// negative coordinates when a display sits left of or above the primary.
func VirtualBounds() (image.Rectangle, error) {
	n := numDisplays()
	if n == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	union := displayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(displayBounds(i))
	}
	return union, nil
}

// Capture captures the entire virtual screen across all active displays.
func Capture() (*image.RGBA, error) {
	union, err := VirtualBounds()
	if err != nil {
		return nil, err
	}
	return captureRect(union)
}

// CaptureImage captures region, clipped to the virtual desktop.
func CaptureImage(region Region) (*image.RGBA, error) {
	if region.Empty() {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", region.Width, region.Height)
	}
	bounds := region.Rect()
	if union, err := VirtualBounds(); err == nil {
		bounds = bounds.Intersect(union)
		if bounds.Empty() {
			return nil, fmt.Errorf("region %s is outside the virtual desktop %v", region, union)
		}
	}
	img, err := captureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %w", err)
	}
	return img, nil
}

// CaptureRegion captures region and encodes it as PNG.
func CaptureRegion(region Region) ([]byte, error) {
	img, err := CaptureImage(region)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// GetDisplayBounds returns the bounds of the primary display.
func GetDisplayBounds() (image.Rectangle, error) {
	if numDisplays() == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	return displayBounds(0), nil
}
