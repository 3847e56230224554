package hook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRawcodes(t *testing.T) {
	tests := []struct {
		name string
		want []uint16
	}{
		{"ctrl", []uint16{162, 163}},
		{"Alt", []uint16{164, 165}},
		{"win", []uint16{91, 92}},
		{"a", []uint16{65}},
		{"Z", []uint16{90}},
		{"0", []uint16{48}},
		{"9", []uint16{57}},
		{"f1", []uint16{112}},
		{"F24", []uint16{135}},
		{"escape", []uint16{27}},
		{"PgDn", []uint16{34}},
		{"f25", nil},
		{"unknown", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyRawcodes(tt.name))
		})
	}
}

func TestParseCombo(t *testing.T) {
	c, err := ParseCombo("Ctrl + Alt + R")
	require.NoError(t, err)
	assert.Equal(t, "ctrl+alt+r", c.String())
	assert.Equal(t, 0, c.Index(163))
	assert.Equal(t, 2, c.Index(82))
	assert.Equal(t, -1, c.Index(27))

	_, err = ParseCombo("Ctrl++R")
	assert.Error(t, err)
	_, err = ParseCombo("Ctrl+Hyper")
	assert.Error(t, err)
}
