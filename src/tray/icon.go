package tray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"runtime"

	"screen-hud/src/hud"
	"screen-hud/src/render"
)

const iconSize = 32

var iconBackground = color.NRGBA{0, 120, 212, 255}

// IconPNG draws the tray icon: the region glyph on an accent tile.
func IconPNG(size int) ([]byte, error) {
	cv := render.NewImageCanvas(image.Pt(size, size))
	defer cv.Release()

	cv.BeginDraw()
	cv.Clear(color.Transparent)
	cv.FillRect(image.Rect(1, 1, size-1, size-1), iconBackground)
	inset := size / 6
	if err := cv.DrawIcon(hud.IconRegion, image.Rect(inset, inset, size-inset, size-inset), 1, false); err != nil {
		return nil, fmt.Errorf("draw tray icon: %w", err)
	}
	if err := cv.EndDraw(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cv.Image()); err != nil {
		return nil, fmt.Errorf("encode tray icon: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapICO embeds a PNG in a single-image ICO container.
func wrapICO(pngData []byte, size int) []byte {
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}
	var buf bytes.Buffer
	// ICONDIR
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{dim, dim, 0, 0})
	_ = binary.Write(&buf, binary.LittleEndian, struct {
		Planes, BitCount uint16
		BytesInRes       uint32
		ImageOffset      uint32
	}{1, 32, uint32(len(pngData)), 6 + 16})
	buf.Write(pngData)
	return buf.Bytes()
}

// iconBytes returns the icon in the format systray expects on this platform.
func iconBytes() ([]byte, error) {
	data, err := IconPNG(iconSize)
	if err != nil {
		return nil, err
	}
	if runtime.GOOS == "windows" {
		return wrapICO(data, iconSize), nil
	}
	return data, nil
}
