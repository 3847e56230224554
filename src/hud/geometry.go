package hud

import (
	"image"

	"golang.org/x/image/math/f32"
)

func vec(p image.Point) f32.Vec2 {
	return f32.Vec2{float32(p.X), float32(p.Y)}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// rectContains treats the rectangle at origin with the given size as
// half-open on its far edges.
func rectContains(origin, size, p f32.Vec2) bool {
	return p[0] >= origin[0] && p[1] >= origin[1] &&
		p[0] < origin[0]+size[0] && p[1] < origin[1]+size[1]
}

// pointInPolygon is an even-odd ray cast.
func pointInPolygon(p f32.Vec2, poly []f32.Vec2) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		xi, yi := poly[i][0], poly[i][1]
		xj, yj := poly[j][0], poly[j][1]
		if (yi > p[1]) != (yj > p[1]) && p[0] < (xj-xi)*(p[1]-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
