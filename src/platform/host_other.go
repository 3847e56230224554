//go:build !windows

package platform

import (
	"image"
	"image/color"

	"screen-hud/src/hud"
)

// Host is unavailable off Windows; New always fails.
type Host struct{}

func New() (*Host, error) { return nil, ErrUnsupported }

func (*Host) Pump() int                                          { return 0 }
func (*Host) OnAccentChanged(func())                             {}
func (*Host) Close()                                             {}
func (*Host) NewSurface(hud.SurfaceOptions) (hud.Surface, error) { return nil, ErrUnsupported }
func (*Host) WindowAt(image.Point) (hud.Window, bool)            { return hud.Window{}, false }
func (*Host) Position() image.Point                              { return image.Point{} }
func (*Host) Size() image.Point                                  { return image.Point{} }
func (*Host) AccentColor() (color.NRGBA, bool)                   { return color.NRGBA{}, false }
