// Package platform hosts HUD surfaces in native overlay windows. On Windows
// every surface is a layered, topmost, non-activating popup fed with
// premultiplied pixels; elsewhere New reports ErrUnsupported.
package platform

import (
	"errors"
	"image"
	"image/color"
)

// ErrUnsupported is returned where no native overlay backend exists.
var ErrUnsupported = errors.New("platform: overlay windows are not supported on this OS")

// ResizeHandleSize is the thickness of the resize chrome of resizable
// surfaces.
const ResizeHandleSize = 24

// Edge is the part of a resizable surface under the pointer.
type Edge uint8

const (
	EdgeCaption Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
	EdgeTopLeft
	EdgeTopRight
	EdgeBottomLeft
	EdgeBottomRight
)

// ResizeEdge classifies p, local to a surface of the given size. Corners
// win over edges and the interior drags the whole surface.
func ResizeEdge(p, size image.Point) Edge {
	near := func(v int) bool { return v <= ResizeHandleSize }
	far := func(v, extent int) bool { return v >= extent-ResizeHandleSize }
	switch {
	case near(p.X) && near(p.Y):
		return EdgeTopLeft
	case far(p.X, size.X) && far(p.Y, size.Y):
		return EdgeBottomRight
	case near(p.X) && far(p.Y, size.Y):
		return EdgeBottomLeft
	case far(p.X, size.X) && near(p.Y):
		return EdgeTopRight
	case near(p.X):
		return EdgeLeft
	case far(p.X, size.X):
		return EdgeRight
	case near(p.Y):
		return EdgeTop
	case far(p.Y, size.Y):
		return EdgeBottom
	}
	return EdgeCaption
}

// AccentFromColorization converts a DWM colorization value (0xAARRGGBB)
// into an opaque accent color.
func AccentFromColorization(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// copyBGRA writes the premultiplied pixels of img into a top-down 32-bit
// BGRA buffer with the given row stride.
func copyBGRA(dst []byte, stride int, img *image.RGBA) {
	b := img.Rect
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+4*b.Dx()]
		row := dst[y*stride : y*stride+4*b.Dx()]
		for x := 0; x < len(src); x += 4 {
			row[x+0] = src[x+2]
			row[x+1] = src[x+1]
			row[x+2] = src[x+0]
			row[x+3] = src[x+3]
		}
	}
}
