package render

import (
	"image/color"
	"math"
	"slices"

	"golang.org/x/image/math/f32"

	"screen-hud/src/hud"
)

var (
	iconColor         = color.NRGBA{255, 255, 255, 255}
	invertedIconColor = color.NRGBA{0, 0, 0, 255}
)

// glyphs holds every built-in icon as closed sub-paths on a 16x16 grid.
// Sub-paths wound against their enclosing shape cut holes.
var glyphs = map[hud.Icon][][]f32.Vec2{
	hud.IconOptions: {
		rect(2, 3, 14, 5),
		rect(2, 7, 14, 9),
		rect(2, 11, 14, 13),
	},
	hud.IconGrip: {
		rect(5, 3, 7, 5), rect(9, 3, 11, 5),
		rect(5, 7, 7, 9), rect(9, 7, 11, 9),
		rect(5, 11, 7, 13), rect(9, 11, 11, 13),
	},
	hud.IconRecord: {circle(8, 8, 5)},
	hud.IconStop:   {rect(4, 4, 12, 12)},
	hud.IconMicrophone: {
		rect(6, 1, 10, 10),
		rect(3, 7, 4, 10), rect(12, 7, 13, 10),
		rect(3, 10, 13, 11),
		rect(7, 11, 9, 14),
		rect(4, 14, 12, 15),
	},
	hud.IconRegion: {
		rect(1, 1, 6, 2), rect(1, 2, 2, 6),
		rect(10, 1, 15, 2), rect(14, 2, 15, 6),
		rect(1, 14, 6, 15), rect(1, 10, 2, 14),
		rect(10, 14, 15, 15), rect(14, 10, 15, 14),
	},
	hud.IconClose: {cross(8, 8, 5, 1)},
	hud.IconPickWindow: {
		rect(1, 2, 15, 14),
		hole(rect(2, 5, 14, 13)),
	},
	hud.IconPickRegion: {
		rect(7, 1, 9, 6), rect(7, 10, 9, 15),
		rect(1, 7, 6, 9), rect(10, 7, 15, 9),
	},
	hud.IconSuccess: {
		circle(8, 8, 7),
		hole([]f32.Vec2{{4, 8}, {5.5, 6.5}, {7, 8}, {10.5, 4.5}, {12, 6}, {7, 11}}),
	},
	hud.IconInfo: {
		circle(8, 8, 7),
		hole(rect(7, 3, 9, 5)),
		hole(rect(7, 6, 9, 13)),
	},
	hud.IconWarning: {
		{{8, 1}, {15, 15}, {1, 15}},
		hole(rect(7, 5, 9, 11)),
		hole(rect(7, 12, 9, 14)),
	},
	hud.IconError: {
		circle(8, 8, 7),
		hole(cross(8, 8, 4, 1)),
	},
}

// rect is wound clockwise on screen.
func rect(x0, y0, x1, y1 float32) []f32.Vec2 {
	return []f32.Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func circle(cx, cy, r float32) []f32.Vec2 {
	const n = 24
	pts := make([]f32.Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / n
		pts[i] = f32.Vec2{cx + r*float32(math.Cos(a)), cy + r*float32(math.Sin(a))}
	}
	return pts
}

// cross is an X reaching k from the center with arms t wide along each
// axis.
func cross(cx, cy, k, t float32) []f32.Vec2 {
	return []f32.Vec2{
		{cx - k, cy - k + t}, {cx - k + t, cy - k}, {cx, cy - t},
		{cx + k - t, cy - k}, {cx + k, cy - k + t}, {cx + t, cy},
		{cx + k, cy + k - t}, {cx + k - t, cy + k}, {cx, cy + t},
		{cx - k + t, cy + k}, {cx - k, cy + k - t}, {cx - t, cy},
	}
}

func hole(pts []f32.Vec2) []f32.Vec2 {
	out := slices.Clone(pts)
	slices.Reverse(out)
	return out
}
