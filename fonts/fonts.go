// Package fonts provides metrics for the standard 14 Helvetica family so
// text can be measured without embedding a font program.
package fonts

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

const (
	Helvetica            = "Helvetica"
	HelveticaBold        = "Helvetica-Bold"
	HelveticaBoldOblique = "Helvetica-BoldOblique"
)

// Metrics holds advance widths in 1/1000 em.
type Metrics struct {
	Name    string
	ascii   [95]int // 0x20..0x7E
	extra   map[rune]int
	Missing int
}

var standard = map[string]*Metrics{
	Helvetica:            helvetica,
	HelveticaBold:        helveticaBold,
	HelveticaBoldOblique: helveticaBoldOblique,
}

// Lookup returns metrics for a standard font name.
func Lookup(name string) (*Metrics, bool) {
	m, ok := standard[name]
	return m, ok
}

// Standard returns a non-embedded Type1 font using WinAnsiEncoding. Unknown
// names fall back to Helvetica.
func Standard(name string) *semantic.Font {
	if _, ok := standard[name]; !ok {
		name = Helvetica
	}
	return &semantic.Font{
		Subtype:  "Type1",
		BaseFont: name,
		Encoding: "WinAnsiEncoding",
	}
}

// RuneWidth returns the advance width of r. Accented letters without their
// own entry use the width of their base letter.
func (m *Metrics) RuneWidth(r rune) int {
	if w, ok := m.direct(r); ok {
		return w
	}
	if d := norm.NFD.String(string(r)); d != "" {
		base, _ := utf8.DecodeRuneInString(d)
		if base != r {
			if w, ok := m.direct(base); ok {
				return w
			}
		}
	}
	return m.Missing
}

func (m *Metrics) direct(r rune) (int, bool) {
	if r >= 0x20 && r <= 0x7E {
		return m.ascii[r-0x20], true
	}
	if w, ok := m.extra[r]; ok {
		return w, true
	}
	return 0, false
}

// StringWidth returns the width of s in points at the given size.
func (m *Metrics) StringWidth(s string, size float64) float64 {
	total := 0
	for _, r := range s {
		total += m.RuneWidth(r)
	}
	return float64(total) * size / 1000
}

// Width measures s in the named standard font; unknown names use Helvetica.
func Width(font, s string, size float64) float64 {
	m, ok := Lookup(font)
	if !ok {
		m = helvetica
	}
	return m.StringWidth(s, size)
}
