package render

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"screen-hud/src/hud"
)

// italicSlant is the horizontal shift, in pixels per row, of italic runs.
const italicSlant = 4

// Measurer implements hud.TextMeasurer with the same metrics ImageCanvas
// draws with.
type Measurer struct {
	Face font.Face
}

var _ hud.TextMeasurer = Measurer{}

func NewMeasurer() Measurer { return Measurer{Face: basicfont.Face7x13} }

func (m Measurer) MeasureText(runs []hud.TextRun, max image.Point) image.Point {
	size := textSize(m.Face, splitLines(runs))
	if max.X > 0 && size.X > max.X {
		size.X = max.X
	}
	if max.Y > 0 && size.Y > max.Y {
		size.Y = max.Y
	}
	return size
}

// DrawText lays runs out line by line inside r. Centered text is centered
// on both axes; leading text starts at the top-left corner. Anything
// outside r is clipped.
func (c *ImageCanvas) DrawText(runs []hud.TextRun, r image.Rectangle, align hud.Align, col color.Color) {
	if c.released || r.Empty() {
		return
	}
	lines := splitLines(runs)
	lh := lineHeight(c.face)
	total := textSize(c.face, lines)

	y := r.Min.Y
	if align == hud.AlignCenter {
		y += (r.Dy() - total.Y) / 2
	}
	for _, line := range lines {
		x := r.Min.X
		if align == hud.AlignCenter {
			x += (r.Dx() - lineWidth(c.face, line)) / 2
		}
		for _, run := range line {
			w := runWidth(c.face, run)
			c.drawRun(run, image.Rect(x, y, x+w, y+lh).Intersect(r), image.Pt(x, y), col)
			x += w
		}
		y += lh
	}
}

func (c *ImageCanvas) drawRun(run hud.TextRun, clip image.Rectangle, at image.Point, col color.Color) {
	if clip.Empty() {
		return
	}
	mask := runMask(c.face, run)
	draw.DrawMask(c.img, clip, image.NewUniform(col), image.Point{}, mask, clip.Min.Sub(at), draw.Over)
}

// runMask renders run into an alpha mask. Bold is a second pass one pixel
// to the right; italic shears the rows.
func runMask(face font.Face, run hud.TextRun) *image.Alpha {
	lh := lineHeight(face)
	mask := image.NewAlpha(image.Rect(0, 0, runWidth(face, run), lh))
	d := font.Drawer{Dst: mask, Src: image.Opaque, Face: face}
	ascent := face.Metrics().Ascent

	slant := 0
	if run.Italic {
		slant = lh / italicSlant
	}
	d.Dot = fixed.Point26_6{X: fixed.I(0), Y: ascent}
	d.DrawString(run.Text)
	if run.Bold {
		d.Dot = fixed.Point26_6{X: fixed.I(1), Y: ascent}
		d.DrawString(run.Text)
	}
	if slant == 0 {
		return mask
	}

	sheared := image.NewAlpha(mask.Rect)
	for y := 0; y < lh; y++ {
		shift := (lh - y) / italicSlant
		row := mask.Pix[y*mask.Stride : y*mask.Stride+mask.Rect.Dx()]
		dst := sheared.Pix[y*sheared.Stride : y*sheared.Stride+sheared.Rect.Dx()]
		if shift < len(dst) {
			copy(dst[shift:], row)
		}
	}
	return sheared
}

// splitLines breaks runs at newlines, keeping each piece's style.
func splitLines(runs []hud.TextRun) [][]hud.TextRun {
	lines := [][]hud.TextRun{nil}
	for _, run := range runs {
		for i, part := range strings.Split(run.Text, "\n") {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				run.Text = part
				lines[len(lines)-1] = append(lines[len(lines)-1], run)
			}
		}
	}
	return lines
}

func textSize(face font.Face, lines [][]hud.TextRun) image.Point {
	var size image.Point
	for _, line := range lines {
		size.X = max(size.X, lineWidth(face, line))
	}
	if size.X > 0 {
		size.Y = len(lines) * lineHeight(face)
	}
	return size
}

func lineWidth(face font.Face, line []hud.TextRun) int {
	w := 0
	for _, run := range line {
		w += runWidth(face, run)
	}
	return w
}

// runWidth is the advance of the run plus the pixels bold and italic spill
// over it.
func runWidth(face font.Face, run hud.TextRun) int {
	w := font.MeasureString(face, run.Text).Ceil()
	if run.Bold {
		w++
	}
	if run.Italic {
		w += lineHeight(face) / italicSlant
	}
	return w
}

func lineHeight(face font.Face) int { return face.Metrics().Height.Ceil() }
