package hud

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYIQ(t *testing.T) {
	tests := []struct {
		c    color.NRGBA
		want int
	}{
		{color.NRGBA{0, 0, 0, 255}, 0},
		{color.NRGBA{255, 255, 255, 255}, 229},
		{color.NRGBA{255, 0, 0, 255}, 51},
		{color.NRGBA{0, 255, 0, 255}, 149},
		{color.NRGBA{0, 0, 255, 255}, 29},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, yiq(tt.c), "%v", tt.c)
	}
}

func TestAdjustIdentity(t *testing.T) {
	c := color.NRGBA{12, 99, 201, 77}
	assert.Equal(t, c, adjustSaturation(c, 1))
	assert.Equal(t, c, adjustContrast(c, 1))
}

func TestAdjustSaturationToGrey(t *testing.T) {
	g := adjustSaturation(color.NRGBA{200, 40, 40, 255}, 0)
	assert.Equal(t, g.R, g.G)
	assert.Equal(t, g.G, g.B)
	assert.Equal(t, uint8(255), g.A)
}

func TestAdjustContrastClamps(t *testing.T) {
	assert.Equal(t, color.NRGBA{128, 128, 128, 255}, adjustContrast(color.NRGBA{0, 90, 255, 255}, 0))
	assert.Equal(t, color.NRGBA{0, 255, 0, 10}, adjustContrast(color.NRGBA{10, 240, 100, 10}, 100))
}
