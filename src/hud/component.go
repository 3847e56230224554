package hud

import (
	"fmt"
	"image"
	"log"

	"screen-hud/src/logutil"
)

// OffScreen is where hidden components are parked.
var OffScreen = image.Rect(-0x7FFF, -0x7FFF, -0x7FFF, -0x7FFF)

// Component is the capability set shared by every overlay type.
type Component interface {
	Bounds() image.Rectangle
	Visible() bool
	Render() error
	Dispose()
	Disposed() bool
}

// component owns one surface and the canvas drawn onto it. Overlay types
// embed a pointer to it and supply their own draw function.
type component struct {
	info    *ContainerInfo
	name    string
	surface Surface
	canvas  Canvas

	bounds   image.Rectangle
	visible  bool
	disposed bool

	draw      func(Canvas)
	onDispose []func()
}

func newComponent(info *ContainerInfo, opts SurfaceOptions, draw func(Canvas)) (*component, error) {
	c := &component{
		info:    info,
		name:    opts.Name,
		bounds:  OffScreen,
		visible: true,
		draw:    draw,
	}
	if info.Kind == Desktop && info.Surfaces != nil {
		s, err := info.Surfaces.NewSurface(opts)
		if err != nil {
			return nil, fmt.Errorf("%s: create surface: %w", opts.Name, err)
		}
		s.SetBounds(c.bounds)
		s.SetPaintHandler(c.paint)
		c.surface = s
	}
	return c, nil
}

// Bounds is proxied to the surface when there is one.
func (c *component) Bounds() image.Rectangle {
	if c.surface != nil {
		return c.surface.Bounds()
	}
	return c.bounds
}

func (c *component) SetBounds(r image.Rectangle) {
	c.bounds = r
	if c.surface != nil {
		c.surface.SetBounds(r)
	}
	c.Invalidate()
}

func (c *component) Visible() bool {
	if c.surface != nil {
		return c.surface.Visible()
	}
	return c.visible
}

func (c *component) SetVisible(v bool) {
	c.visible = v
	if c.surface != nil {
		c.surface.SetVisible(v)
	}
}

func (c *component) Disposed() bool { return c.disposed }

// OnDispose registers fn to run once the component has been torn down.
func (c *component) OnDispose(fn func()) {
	c.onDispose = append(c.onDispose, fn)
}

func (c *component) Invalidate() {
	if c.surface != nil && !c.disposed {
		c.surface.Invalidate()
	}
}

// Render draws one frame and presents it. Components without a surface
// have nothing to draw to.
func (c *component) Render() error {
	if c.disposed || c.surface == nil {
		return nil
	}
	size := c.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil
	}
	if c.canvas == nil || c.canvas.Size() != size {
		if c.canvas != nil {
			c.canvas.Release()
			c.canvas = nil
		}
		canvas, err := c.surface.NewCanvas(size)
		if err != nil {
			return fmt.Errorf("%s: allocate canvas: %w", c.name, err)
		}
		c.canvas = canvas
	}

	c.canvas.BeginDraw()
	c.draw(c.canvas)
	if err := c.canvas.EndDraw(); err != nil {
		return fmt.Errorf("%s: end draw: %w", c.name, err)
	}
	return c.surface.Present(c.canvas)
}

func (c *component) paint() {
	if err := c.Render(); err != nil {
		log.Printf("OVERLAY: render failed: %v", err)
	}
}

// dispose releases the canvas, then the surface. Calling it again is a no-op.
func (c *component) dispose() {
	if c.disposed {
		logutil.Tracef("OVERLAY: %s already disposed - ignoring", c.name)
		return
	}
	c.SetVisible(false)
	c.disposed = true

	if c.canvas != nil {
		c.canvas.Release()
		c.canvas = nil
	}
	if c.surface != nil {
		c.surface.Close()
		c.surface = nil
	}
	for _, fn := range c.onDispose {
		fn()
	}
	c.onDispose = nil
}
