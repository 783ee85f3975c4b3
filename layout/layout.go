// Package layout breaks text into lines and places them on a baseline grid.
package layout

import (
	"strings"
	"unicode/utf8"
)

// DefaultWrapWidth is the line length, in characters, used when Wrap is
// given a non-positive width.
const DefaultWrapWidth = 140

// Wrap splits text on newlines and wraps each paragraph to at most width
// characters. A blank paragraph yields one empty line so paragraph
// separators survive.
func Wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, WrapParagraph(para, width)...)
	}
	return lines
}

// WrapParagraph greedily fills lines with whitespace-separated words joined
// by single spaces. Widths count runes. A word longer than width is placed
// alone on its line without being split.
func WrapParagraph(para string, width int) []string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	words := strings.Fields(para)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	curLen := 0
	for _, w := range words {
		wl := utf8.RuneCountInString(w)
		if curLen > 0 && curLen+1+wl > width {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(w)
		curLen += wl
	}
	return append(lines, cur.String())
}

// Line is one placed line of text; Y is its baseline.
type Line struct {
	Text string
	X, Y float64
}

// Flow places consecutive lines downward from a first baseline.
type Flow struct {
	X, Y    float64
	Leading float64
}

// Place positions lines and returns the baseline the next line would use.
func (f Flow) Place(lines []string) ([]Line, float64) {
	out := make([]Line, 0, len(lines))
	y := f.Y
	for _, l := range lines {
		out = append(out, Line{Text: l, X: f.X, Y: y})
		y -= f.Leading
	}
	return out, y
}
