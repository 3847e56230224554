package platform

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResizeEdge(t *testing.T) {
	size := image.Pt(200, 100)
	tests := []struct {
		p    image.Point
		want Edge
	}{
		{image.Pt(0, 0), EdgeTopLeft},
		{image.Pt(24, 24), EdgeTopLeft},
		{image.Pt(199, 99), EdgeBottomRight},
		{image.Pt(5, 90), EdgeBottomLeft},
		{image.Pt(190, 5), EdgeTopRight},
		{image.Pt(5, 50), EdgeLeft},
		{image.Pt(190, 50), EdgeRight},
		{image.Pt(100, 3), EdgeTop},
		{image.Pt(100, 80), EdgeBottom},
		{image.Pt(100, 50), EdgeCaption},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResizeEdge(tt.p, size), "%v", tt.p)
	}
}

func TestAccentFromColorization(t *testing.T) {
	assert.Equal(t, color.NRGBA{0x12, 0x34, 0x56, 255}, AccentFromColorization(0x80123456))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, AccentFromColorization(0))
}

func TestCopyBGRA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{1, 2, 3, 4})
	img.SetRGBA(1, 1, color.RGBA{10, 20, 30, 40})

	stride := 12
	dst := make([]byte, 2*stride)
	copyBGRA(dst, stride, img)

	assert.Equal(t, []byte{3, 2, 1, 4}, dst[0:4])
	assert.Equal(t, []byte{30, 20, 10, 40}, dst[stride+4:stride+8])
	assert.Equal(t, []byte{0, 0, 0, 0}, dst[8:12], "row padding untouched")
}

func TestCopyBGRAFromSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(2, 2, color.RGBA{9, 8, 7, 6})
	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)

	dst := make([]byte, 16)
	copyBGRA(dst, 8, sub)
	assert.Equal(t, []byte{7, 8, 9, 6}, dst[0:4])
}
