package clipboard

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.design/x/clipboard"
)

type written struct {
	format clipboard.Format
	data   []byte
}

func fakeClipboard(t *testing.T) *[]written {
	t.Helper()
	old := write
	t.Cleanup(func() { write = old })
	var got []written
	write = func(f clipboard.Format, b []byte) <-chan struct{} {
		got = append(got, written{f, b})
		return nil
	}
	return &got
}

func TestWriteText(t *testing.T) {
	got := fakeClipboard(t)
	require.NoError(t, Write("test text"))
	require.Len(t, *got, 1)
	assert.Equal(t, clipboard.FmtText, (*got)[0].format)
	assert.Equal(t, "test text", string((*got)[0].data))
}

func TestWriteImage(t *testing.T) {
	got := fakeClipboard(t)
	require.NoError(t, WriteImage(image.NewRGBA(image.Rect(0, 0, 4, 3))))
	require.Len(t, *got, 1)
	assert.Equal(t, clipboard.FmtImage, (*got)[0].format)

	img, err := png.Decode(bytes.NewReader((*got)[0].data))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4, 3), img.Bounds().Size())
}

func TestWritePNGRejectsEmpty(t *testing.T) {
	got := fakeClipboard(t)
	assert.Error(t, WritePNG(nil))
	assert.Empty(t, *got)
}
