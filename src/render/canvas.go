// Package render draws HUD frames into premultiplied RGBA buffers. Shapes
// and icons are rasterized with golang.org/x/image/vector and text uses the
// 7x13 bitmap face from golang.org/x/image/font/basicfont.
package render

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"

	"screen-hud/src/hud"
)

var (
	ErrNotDrawing = errors.New("canvas: EndDraw without BeginDraw")
	ErrReleased   = errors.New("canvas: released")
)

// ImageCanvas is a hud.Canvas backed by an *image.RGBA.
type ImageCanvas struct {
	img      *image.RGBA
	face     font.Face
	drawing  bool
	released bool
}

var _ hud.Canvas = (*ImageCanvas)(nil)

// NewImageCanvas allocates a transparent canvas of the given size.
func NewImageCanvas(size image.Point) *ImageCanvas {
	return &ImageCanvas{
		img:  image.NewRGBA(image.Rectangle{Max: size}),
		face: basicfont.Face7x13,
	}
}

func (c *ImageCanvas) Size() image.Point { return c.img.Rect.Size() }

// Image is the frame buffer. Pixels are premultiplied by alpha, which is
// what layered windows expect.
func (c *ImageCanvas) Image() *image.RGBA { return c.img }

func (c *ImageCanvas) BeginDraw() { c.drawing = true }

func (c *ImageCanvas) EndDraw() error {
	if c.released {
		return ErrReleased
	}
	if !c.drawing {
		return ErrNotDrawing
	}
	c.drawing = false
	return nil
}

func (c *ImageCanvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Rect, image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *ImageCanvas) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r.Intersect(c.img.Rect), image.NewUniform(col), image.Point{}, draw.Over)
}

// StrokeRect draws a border of the given width inside r.
func (c *ImageCanvas) StrokeRect(r image.Rectangle, width int, col color.Color) {
	if width <= 0 || r.Empty() {
		return
	}
	if 2*width >= r.Dx() || 2*width >= r.Dy() {
		c.FillRect(r, col)
		return
	}
	c.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), col)
	c.FillRect(image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), col)
	c.FillRect(image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width), col)
	c.FillRect(image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width), col)
}

func (c *ImageCanvas) FillPolygon(pts []f32.Vec2, col color.Color) {
	if len(pts) < 3 || c.released {
		return
	}
	size := c.Size()
	z := vector.NewRasterizer(size.X, size.Y)
	addPath(z, pts, 1, 1)
	c.fillMask(z, c.img.Rect, col)
}

// DrawIcon rasterizes a built-in glyph scaled to r. Inverted glyphs are
// drawn black instead of white.
func (c *ImageCanvas) DrawIcon(icon hud.Icon, r image.Rectangle, opacity float32, invert bool) error {
	if c.released {
		return ErrReleased
	}
	paths, ok := glyphs[icon]
	if !ok || r.Empty() {
		return nil
	}
	col := iconColor
	if invert {
		col = invertedIconColor
	}
	col.A = uint8(float32(col.A) * clamp01(opacity))
	if col.A == 0 {
		return nil
	}

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	sx := float32(r.Dx()) / hud.IconSize
	sy := float32(r.Dy()) / hud.IconSize
	for _, p := range paths {
		addPath(z, p, sx, sy)
	}
	c.fillMask(z, r, col)
	return nil
}

// Release drops the frame buffer. The canvas is unusable afterwards.
func (c *ImageCanvas) Release() {
	c.released = true
	c.img = &image.RGBA{}
}

// fillMask paints col through the rasterized coverage placed at r. The
// composite is clipped to the canvas.
func (c *ImageCanvas) fillMask(z *vector.Rasterizer, r image.Rectangle, col color.Color) {
	mask := image.NewAlpha(image.Rectangle{Max: r.Size()})
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(c.img, r, image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
}

// addPath adds a closed sub-path with every point scaled by (sx, sy).
func addPath(z *vector.Rasterizer, pts []f32.Vec2, sx, sy float32) {
	z.MoveTo(pts[0][0]*sx, pts[0][1]*sy)
	for _, p := range pts[1:] {
		z.LineTo(p[0]*sx, p[1]*sy)
	}
	z.ClosePath()
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
