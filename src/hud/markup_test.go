package hud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []TextRun
	}{
		{"plain", "plain text", []TextRun{{Text: "plain text"}}},
		{"empty", "", nil},
		{"bold", "a **b** c", []TextRun{{Text: "a "}, {Text: "b", Bold: true}, {Text: " c"}}},
		{"italic", "__x__", []TextRun{{Text: "x", Italic: true}}},
		{"nested", "**bold __both__**", []TextRun{
			{Text: "bold ", Bold: true},
			{Text: "both", Bold: true, Italic: true},
		}},
		{"adjacent same style merges", "**a****b**", []TextRun{{Text: "ab", Bold: true}}},
		{"unclosed stays literal", "**a", []TextRun{{Text: "**a"}}},
		{"empty markers vanish", "x****y", []TextRun{{Text: "xy"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMarkup(tt.in))
		})
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Click the window or hold Alt", PlainText(ParseMarkup("**Click** the window or hold __Alt__")))
	assert.Equal(t, "", PlainText(nil))
}
