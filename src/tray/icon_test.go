package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconPNG(t *testing.T) {
	data, err := IconPNG(iconSize)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(iconSize, iconSize), img.Bounds().Size())

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a, "corner stays transparent")
	_, _, _, a = img.At(iconSize/2, 2).RGBA()
	assert.NotZero(t, a)
}

func TestWrapICO(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	ico := wrapICO(payload, 32)
	require.Len(t, ico, 22+len(payload))

	le := binary.LittleEndian
	assert.Equal(t, uint16(0), le.Uint16(ico[0:]))
	assert.Equal(t, uint16(1), le.Uint16(ico[2:]))
	assert.Equal(t, uint16(1), le.Uint16(ico[4:]))
	assert.Equal(t, byte(32), ico[6])
	assert.Equal(t, byte(32), ico[7])
	assert.Equal(t, uint16(32), le.Uint16(ico[12:]))
	assert.Equal(t, uint32(len(payload)), le.Uint32(ico[14:]))
	assert.Equal(t, uint32(22), le.Uint32(ico[18:]))
	assert.Equal(t, payload, ico[22:])

	assert.Equal(t, byte(0), wrapICO(payload, 256)[6])
}

func TestAboutTextNamesHotkey(t *testing.T) {
	assert.Contains(t, aboutText("Screen HUD", "Ctrl+Alt+R"), "Press Ctrl+Alt+R")
}
