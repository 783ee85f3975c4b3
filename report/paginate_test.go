package report

import (
	"errors"
	"math"
	"testing"
)

func TestCapacity(t *testing.T) {
	l := DefaultLayout()
	tests := []struct {
		rowsTop float64
		want    int
	}{
		{90, 0},
		{121.99, 0},
		{122, 1},
		{463.89, 11},
		{669.89, 18},
		{50, 0},
	}
	for _, tt := range tests {
		if got := l.Capacity(tt.rowsTop); got != tt.want {
			t.Fatalf("Capacity(%v) = %d, want %d", tt.rowsTop, got, tt.want)
		}
	}
}

func TestNeedsBreakMatchesCapacity(t *testing.T) {
	l := DefaultLayout()
	for _, top := range []float64{100, 200.5, 463.89, 669.89, 800} {
		cur := Cursor{Y: top}
		placed := 0
		for !l.NeedsBreak(cur) {
			cur = l.Advance(cur)
			placed++
		}
		if want := l.Capacity(top); placed != want {
			t.Fatalf("rowsTop %v: placed %d rows, capacity %d", top, placed, want)
		}
		if cur.Y < l.BreakThreshold {
			t.Fatalf("rowsTop %v: last row bottom %v below threshold", top, cur.Y)
		}
	}
}

func TestRowsTop(t *testing.T) {
	l := DefaultLayout()
	if got := l.FullHeaderRowsTop(7); math.Abs(got-463.89) > 1e-9 {
		t.Fatalf("FullHeaderRowsTop(7) = %v, want 463.89", got)
	}
	if got := l.ShortHeaderRowsTop(7); math.Abs(got-669.89) > 1e-9 {
		t.Fatalf("ShortHeaderRowsTop(7) = %v, want 669.89", got)
	}
}

func TestPageCount(t *testing.T) {
	l := DefaultLayout()
	tests := []struct {
		rows, want int
	}{
		{1, 1},
		{11, 1},
		{12, 2},
		{29, 2},
		{30, 3},
	}
	for _, tt := range tests {
		got, err := l.PageCount(tt.rows, 7)
		if err != nil {
			t.Fatalf("PageCount(%d): %v", tt.rows, err)
		}
		if got != tt.want {
			t.Fatalf("PageCount(%d) = %d, want %d", tt.rows, got, tt.want)
		}
	}
	if _, err := l.PageCount(100, 80); !errors.Is(err, ErrLayoutOverflow) {
		t.Fatalf("expected ErrLayoutOverflow, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	long := "María Fernanda Rodríguez Gómez de la Peña"
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"corto", 30, "corto"},
		{"", 30, ""},
		{"abcdefghijklmnopqrstuvwxyz0123", 30, "abcdefghijklmnopqrstuvwxyz0123"},
		{"abcdefghijklmnopqrstuvwxyz01234", 30, "abcdefghijklmnopqrstuvwxyz0123"},
		{long, 30, "María Fernanda Rodríguez Gómez"},
		{"ÁÉÍ", 2, "ÁÉ"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
