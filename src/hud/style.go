package hud

import (
	"image/color"
	"math"
)

var (
	transparent = color.NRGBA{}

	clipperShade       = color.NRGBA{128, 128, 128, 64}
	clipperPickBorder  = color.NRGBA{128, 128, 128, 191}
	clipperOuterBorder = color.NRGBA{0, 0, 0, 64}
	clipperInnerBorder = color.NRGBA{128, 128, 128, 255}
	clipperCorner      = color.NRGBA{255, 255, 255, 230}

	toolbarBackground = color.NRGBA{32, 32, 32, 191}
	controlText       = color.NRGBA{255, 255, 255, 191}

	buttonHovered = color.NRGBA{255, 255, 255, 0x20}
	buttonActive  = color.NRGBA{255, 255, 255, 0x40}
	closeHovered  = color.NRGBA{232, 17, 35, 255}
	closeActive   = color.NRGBA{231, 16, 34, 153}

	primaryFallback        = color.NRGBA{76, 29, 33, 255}
	primaryFallbackHovered = color.NRGBA{109, 32, 38, 255}
	primaryFallbackActive  = color.NRGBA{138, 44, 52, 255}

	tidbitBackground = color.NRGBA{0, 0, 0, 192}
	tidbitText       = color.NRGBA{255, 255, 255, 191}

	pickWindowAccent = color.NRGBA{0x28, 0xD6, 0x9C, 255}
	pickRegionAccent = color.NRGBA{255, 255, 255, 255}
	errorAccent      = color.NRGBA{255, 0, 0, 255}
)

// yiq is the perceived brightness of c on a 0-255 scale.
func yiq(c color.NRGBA) int {
	return (200*int(c.R) + 586*int(c.G) + 114*int(c.B)) / 1000
}

func mapChannels(c color.NRGBA, fn func(v, grey float64) float64) color.NRGBA {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	grey := r*0.2125 + g*0.7154 + b*0.0721
	ch := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, fn(v, grey))) * 255))
	}
	return color.NRGBA{ch(r), ch(g), ch(b), c.A}
}

// adjustSaturation moves each channel away from (s > 1) or towards (s < 1)
// the luminance of c.
func adjustSaturation(c color.NRGBA, s float64) color.NRGBA {
	return mapChannels(c, func(v, grey float64) float64 { return grey + s*(v-grey) })
}

// adjustContrast scales each channel around mid-grey.
func adjustContrast(c color.NRGBA, k float64) color.NRGBA {
	return mapChannels(c, func(v, _ float64) float64 { return 0.5 + k*(v-0.5) })
}
