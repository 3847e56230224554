package hud

import (
	"regexp"
	"strings"
)

var markupPattern = regexp.MustCompile(`\*\*(.*?)\*\*|__(.*?)__`)

// ParseMarkup splits text into styled runs. "**x**" is bold and "__x__" is
// italic; the two may nest.
func ParseMarkup(text string) []TextRun {
	return appendRuns(nil, text, false, false)
}

func appendRuns(runs []TextRun, text string, bold, italic bool) []TextRun {
	last := 0
	for _, m := range markupPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			runs = appendRun(runs, TextRun{Text: text[last:m[0]], Bold: bold, Italic: italic})
		}
		if m[2] >= 0 {
			runs = appendRuns(runs, text[m[2]:m[3]], true, italic)
		} else {
			runs = appendRuns(runs, text[m[4]:m[5]], bold, true)
		}
		last = m[1]
	}
	if last < len(text) {
		runs = appendRun(runs, TextRun{Text: text[last:], Bold: bold, Italic: italic})
	}
	return runs
}

// appendRun merges r into the previous run when they share a style.
func appendRun(runs []TextRun, r TextRun) []TextRun {
	if r.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].Bold == r.Bold && runs[n-1].Italic == r.Italic {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}

// PlainText joins the runs without styling.
func PlainText(runs []TextRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}
