package fonts

import (
	"math"
	"testing"
)

func TestStringWidth(t *testing.T) {
	tests := []struct {
		font string
		text string
		size float64
		want float64
	}{
		{Helvetica, "Hello", 10, 22.78},
		{HelveticaBold, "No.", 11, (722 + 611 + 278) * 11.0 / 1000},
		{Helvetica, "", 12, 0},
		{HelveticaBoldOblique, "AB", 13, (722 + 722) * 13.0 / 1000},
	}
	for _, tt := range tests {
		got := Width(tt.font, tt.text, tt.size)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("Width(%q, %q, %v) = %v, want %v", tt.font, tt.text, tt.size, got, tt.want)
		}
	}
}

func TestAccentedFallsBackToBase(t *testing.T) {
	m, _ := Lookup(HelveticaBold)
	pairs := map[rune]rune{'Á': 'A', 'É': 'E', 'Í': 'I', 'Ó': 'O', 'Ú': 'U', 'Ñ': 'N', 'é': 'e', 'ñ': 'n'}
	for accented, base := range pairs {
		if got, want := m.RuneWidth(accented), m.RuneWidth(base); got != want {
			t.Fatalf("RuneWidth(%q) = %d, want %d", accented, got, want)
		}
	}
}

func TestMissingGlyph(t *testing.T) {
	m, _ := Lookup(Helvetica)
	if got := m.RuneWidth('漢'); got != 556 {
		t.Fatalf("RuneWidth(missing) = %d, want 556", got)
	}
	if got := m.RuneWidth('¿'); got != 611 {
		t.Fatalf("RuneWidth(¿) = %d, want 611", got)
	}
}

func TestStandardFallback(t *testing.T) {
	f := Standard("Courier-Nope")
	if f.BaseFont != Helvetica || f.Encoding != "WinAnsiEncoding" || f.Subtype != "Type1" {
		t.Fatalf("unexpected font %+v", f)
	}
	if got := Standard(HelveticaBold).BaseFont; got != HelveticaBold {
		t.Fatalf("BaseFont = %q", got)
	}
}
