package layout

import (
	"strings"
	"testing"
	"unicode/utf8"
)

const legal = "Autorización de tratamiento de información personal: El firmante autoriza a Ismocol SA para que realice el tratamiento de su información personal de conformidad con el Manual de Políticas y Procedimientos para la Protección de Datos Personales ICA-GRAL-M-05. Ismocol SA realizará un tratamiento responsable y seguro de los datos suministrados conforme a las previsiones de la Ley 1581 de 2012 y las normas que la reglamentan.\n\nManifiesto que he recibido y entendido en todo su alcance el tema tratado y me comprometo a cumplir con el procedimiento o contenido de los temas y responsabilidades a mi asignadas. En constancia firmo."

func TestWrapBoundsAndReconstruction(t *testing.T) {
	for _, width := range []int{10, 40, 80, 140} {
		lines := Wrap(legal, width)
		var words []string
		for _, l := range lines {
			if utf8.RuneCountInString(l) > width && strings.Contains(l, " ") {
				t.Fatalf("width %d: line %q exceeds bound", width, l)
			}
			words = append(words, strings.Fields(l)...)
		}
		if got, want := strings.Join(words, " "), strings.Join(strings.Fields(legal), " "); got != want {
			t.Fatalf("width %d: words not reconstructed", width)
		}
	}
}

func TestWrapKeepsParagraphSeparator(t *testing.T) {
	lines := Wrap(legal, 140)
	blank := -1
	for i, l := range lines {
		if l == "" {
			if blank >= 0 {
				t.Fatalf("expected a single blank line, got another at %d", i)
			}
			blank = i
		}
	}
	if blank <= 0 || blank == len(lines)-1 {
		t.Fatalf("blank separator at %d of %d lines", blank, len(lines))
	}
	if !strings.HasPrefix(lines[blank+1], "Manifiesto") {
		t.Fatalf("second paragraph should start after separator, got %q", lines[blank+1])
	}
}

func TestWrapLongWordUnsplit(t *testing.T) {
	lines := WrapParagraph("a supercalifragilistico b", 5)
	want := []string{"a", "supercalifragilistico", "b"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("lines = %q, want %q", lines, want)
		}
	}
}

func TestWrapCountsRunes(t *testing.T) {
	// "ÁÉÍÓÚ" is 5 runes but 10 bytes.
	lines := WrapParagraph("ÁÉÍÓÚ ñ", 7)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", lines)
	}
}

func TestWrapDefaultsAndEmpty(t *testing.T) {
	if got := WrapParagraph("   ", 10); got != nil {
		t.Fatalf("blank paragraph = %q, want nil", got)
	}
	long := strings.Repeat("palabra ", 40)
	for _, l := range WrapParagraph(long, 0) {
		if utf8.RuneCountInString(l) > DefaultWrapWidth {
			t.Fatalf("line exceeds default width: %d", utf8.RuneCountInString(l))
		}
	}
	if got := Wrap("", 10); len(got) != 1 || got[0] != "" {
		t.Fatalf("Wrap(\"\") = %q", got)
	}
}

func TestFlowPlace(t *testing.T) {
	lines, next := Flow{X: 40, Y: 500, Leading: 10}.Place([]string{"a", "", "b"})
	if len(lines) != 3 || lines[2].Y != 480 || lines[1].X != 40 {
		t.Fatalf("lines = %+v", lines)
	}
	if next != 470 {
		t.Fatalf("next = %v, want 470", next)
	}
}

func TestMarkdownParagraphs(t *testing.T) {
	src := "# Aviso\n\nEl **firmante** autoriza\na *Ismocol SA*.\n\n- uno\n- dos\n"
	got := MarkdownParagraphs(src)
	want := []string{"Aviso", "El firmante autoriza a Ismocol SA.", "uno", "dos"}
	if len(got) != len(want) {
		t.Fatalf("paragraphs = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paragraph %d = %q, want %q", i, got[i], want[i])
		}
	}
	if text := MarkdownText("uno\n\ndos"); text != "uno\n\ndos" {
		t.Fatalf("MarkdownText = %q", text)
	}
}
