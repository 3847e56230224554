package screenshot

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDisplays(t *testing.T, displays ...image.Rectangle) *[]image.Rectangle {
	t.Helper()
	oldN, oldB, oldC := numDisplays, displayBounds, captureRect
	t.Cleanup(func() { numDisplays, displayBounds, captureRect = oldN, oldB, oldC })

	var captured []image.Rectangle
	numDisplays = func() int { return len(displays) }
	displayBounds = func(i int) image.Rectangle { return displays[i] }
	captureRect = func(r image.Rectangle) (*image.RGBA, error) {
		captured = append(captured, r)
		return image.NewRGBA(r), nil
	}
	return &captured
}

func TestVirtualBoundsUnion(t *testing.T) {
	fakeDisplays(t, image.Rect(0, 0, 1920, 1080), image.Rect(-1280, 200, 0, 1224))
	b, err := VirtualBounds()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(-1280, 0, 1920, 1224), b)
}

func TestNoDisplay(t *testing.T) {
	fakeDisplays(t)
	_, err := VirtualBounds()
	assert.ErrorIs(t, err, ErrNoDisplay)
	_, err = GetDisplayBounds()
	assert.ErrorIs(t, err, ErrNoDisplay)
}

func TestCaptureRegionClipsToDesktop(t *testing.T) {
	captured := fakeDisplays(t, image.Rect(0, 0, 100, 100))

	data, err := CaptureRegion(Region{X: 80, Y: -10, Width: 50, Height: 30})
	require.NoError(t, err)
	require.Len(t, *captured, 1)
	assert.Equal(t, image.Rect(80, 0, 100, 20), (*captured)[0])

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(20, 20), img.Bounds().Size())
}

func TestCaptureRegionErrors(t *testing.T) {
	fakeDisplays(t, image.Rect(0, 0, 100, 100))

	_, err := CaptureRegion(Region{Width: 0, Height: 10})
	assert.Error(t, err)

	_, err = CaptureRegion(Region{X: 500, Y: 500, Width: 10, Height: 10})
	assert.ErrorContains(t, err, "outside the virtual desktop")

	boom := errors.New("boom")
	captureRect = func(image.Rectangle) (*image.RGBA, error) { return nil, boom }
	_, err = CaptureImage(Region{Width: 10, Height: 10})
	assert.ErrorIs(t, err, boom)
}

func TestRegionConversions(t *testing.T) {
	r := RegionOf(image.Rect(30, 40, 10, 20))
	assert.Equal(t, Region{X: 10, Y: 20, Width: 20, Height: 20}, r)
	assert.Equal(t, image.Rect(10, 20, 30, 40), r.Rect())
	assert.Equal(t, "20x20+10+20", r.String())
	assert.True(t, Region{Width: 5}.Empty())
}
