package builder

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/fonts"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

func TestBuilder_DrawTextPopulatesResourcesAndOps(t *testing.T) {
	b := NewBuilder()
	font := fonts.Standard(fonts.HelveticaBold)
	b.RegisterFont("F2", font)

	b.NewPage(200, 200).
		DrawText("CÉDULA", 10, 20, TextOptions{
			Font:     "F2",
			FontSize: 11,
			Color:    Color{R: 0.1, G: 0.2, B: 0.3},
		}).
		Finish()
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("build doc: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected one page, got %d", len(doc.Pages))
	}
	page := doc.Pages[0]
	if page.Resources == nil || page.Resources.Fonts["F2"] != font {
		t.Fatalf("font not registered on page resources")
	}
	ops := page.Contents[0].Operations
	expectOperators := []string{"BT", "Tf", "Tm", "rg", "Tj", "ET"}
	if len(ops) != len(expectOperators) {
		t.Fatalf("got %d operations, want %d", len(ops), len(expectOperators))
	}
	for i, op := range expectOperators {
		if ops[i].Operator != op {
			t.Fatalf("operation %d = %s, want %s", i, ops[i].Operator, op)
		}
	}
	if tm := ops[2].Operands; tm[4].(semantic.NumberOperand).Value != 10 || tm[5].(semantic.NumberOperand).Value != 20 {
		t.Fatalf("Tm coordinates not set: %+v", tm)
	}
	if tj := ops[4].Operands[0].(semantic.StringOperand); string(tj.Value) != "C\xc9DULA" {
		t.Fatalf("Tj text mismatch: %q", tj.Value)
	}
}

func TestBuilder_DefaultFontIsHelvetica(t *testing.T) {
	b := NewBuilder()
	b.NewPage(100, 100).DrawText("x", 1, 1, TextOptions{}).Finish()
	doc, _ := b.Build()
	f := doc.Pages[0].Resources.Fonts["F1"]
	if f == nil || f.BaseFont != fonts.Helvetica {
		t.Fatalf("default font = %+v", f)
	}
	if tf := doc.Pages[0].Contents[0].Operations[1].Operands[1].(semantic.NumberOperand); tf.Value != 12 {
		t.Fatalf("default size = %v", tf.Value)
	}
}

func TestBuilder_DrawShapesAndImages(t *testing.T) {
	b := NewBuilder()
	img := &semantic.Image{Width: 4, Height: 2, BitsPerComponent: 8, Data: make([]byte, 24)}
	b.NewPage(300, 300).
		DrawRectangle(40, 100, 515, 32, RectOptions{}).
		DrawLine(50, 20, 300, 20, LineOptions{LineWidth: 0.5}).
		DrawImage(img, 480, 105, 90, 22, ImageOptions{}).
		DrawImage(img, 480, 205, 90, 22, ImageOptions{}).
		Finish()
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	page := doc.Pages[0]
	if len(page.Resources.XObjects) != 1 {
		t.Fatalf("same image should share one XObject, got %d", len(page.Resources.XObjects))
	}
	if xo := page.Resources.XObjects["Im1"]; xo.Subtype != "Image" || xo.Width != 4 {
		t.Fatalf("unexpected xobject %+v", xo)
	}
	var got []string
	for _, op := range page.Contents[0].Operations {
		got = append(got, op.Operator)
	}
	want := []string{"q", "re", "S", "Q", "q", "w", "m", "l", "S", "Q", "q", "cm", "Do", "Q", "q", "cm", "Do", "Q"}
	if len(got) != len(want) {
		t.Fatalf("operators = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("operators = %v, want %v", got, want)
		}
	}
	cm := page.Contents[0].Operations[11].Operands
	if cm[0].(semantic.NumberOperand).Value != 90 || cm[3].(semantic.NumberOperand).Value != 22 || cm[4].(semantic.NumberOperand).Value != 480 {
		t.Fatalf("cm operands = %+v", cm)
	}
}

func TestBuilder_NilImageFailsBuild(t *testing.T) {
	b := NewBuilder()
	b.NewPage(10, 10).DrawImage(nil, 0, 0, 1, 1, ImageOptions{}).Finish()
	if _, err := b.Build(); !errors.Is(err, ErrNilImage) {
		t.Fatalf("expected ErrNilImage, got %v", err)
	}
}

func TestEncodeWinAnsi(t *testing.T) {
	if got := string(EncodeWinAnsi("Revisión No. 5 €")); got != "Revisi\xf3n No. 5 \x80" {
		t.Fatalf("EncodeWinAnsi = %q", got)
	}
	if got := string(EncodeWinAnsi("a漢b")); got != "a?b" {
		t.Fatalf("unsupported rune not replaced: %q", got)
	}
}

func TestFromImageAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.Set(1, 0, color.NRGBA{R: 40, G: 50, B: 60, A: 0})
	img := FromImage(src)
	if img.Width != 2 || img.Height != 1 || len(img.Data) != 6 {
		t.Fatalf("unexpected image %+v", img)
	}
	if img.Data[0] != 10 || img.Data[3] != 40 {
		t.Fatalf("rgb data = %v", img.Data)
	}
	if img.SMask == nil || img.SMask.Data[0] != 255 || img.SMask.Data[1] != 0 {
		t.Fatalf("expected soft mask, got %+v", img.SMask)
	}

	opaque := image.NewRGBA(image.Rect(5, 5, 7, 6))
	for x := 5; x < 7; x++ {
		opaque.Set(x, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	}
	if img := FromImage(opaque); img.SMask != nil || img.Data[0] != 1 {
		t.Fatalf("opaque image should have no mask: %+v", img)
	}
}
