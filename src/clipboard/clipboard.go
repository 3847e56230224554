package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"golang.design/x/clipboard"
)

var (
	writeMu sync.Mutex
	write   = clipboard.Write
)

func Init() error {
	return clipboard.Init()
}

// Write performs a mutex-guarded clipboard write to prevent corruption under parallel writes.
func Write(text string) error {
	return put(clipboard.FmtText, []byte(text))
}

// WriteImage places img on the clipboard as PNG.
func WriteImage(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return WritePNG(buf.Bytes())
}

// WritePNG places already-encoded PNG bytes on the clipboard.
func WritePNG(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty clipboard image")
	}
	return put(clipboard.FmtImage, data)
}

func put(format clipboard.Format, data []byte) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	write(format, data)
	return nil
}
