package contentstream

import (
	"math"
	"testing"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

func TestParseEscapesAndArrays(t *testing.T) {
	ops, err := Parse([]byte("(a\\(b\\) \\351) Tj [1 2 /N] d 0.5 w"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("len(ops) = %d, want 3", len(ops))
	}
	s := ops[0].Operands[0].(semantic.StringOperand)
	if string(s.Value) != "a(b) \xe9" {
		t.Fatalf("string = %q", s.Value)
	}
	arr := ops[1].Operands[0].(semantic.ArrayOperand)
	if len(arr.Values) != 3 || arr.Values[2].(semantic.NameOperand).Value != "N" {
		t.Fatalf("array = %+v", arr)
	}
	if ops[2].Operator != "w" || ops[2].Operands[0].(semantic.NumberOperand).Value != 0.5 {
		t.Fatalf("op = %+v", ops[2])
	}
}

func TestParseDanglingOperands(t *testing.T) {
	if _, err := Parse([]byte("1 2 re 3")); err == nil {
		t.Fatalf("expected dangling operand error")
	}
	if _, err := Parse([]byte("(open Tj")); err == nil {
		t.Fatalf("expected unterminated string error")
	}
}

func TestTracer(t *testing.T) {
	ops, err := Parse([]byte("40 100 515.27 32 re S\n50 20 m 300 20 l S\nq 90 0 0 22 480 105 cm /Im1 Do Q\nBT /F1 10 Tf 45 110 Td (Hello) Tj ET"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res := &semantic.Resources{
		Fonts:    map[string]*semantic.Font{"F1": {BaseFont: "Helvetica"}},
		XObjects: map[string]semantic.XObject{"Im1": {Subtype: "Image"}},
	}
	boxes, err := NewTracer().Trace(ops, res)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(boxes) != 4 {
		t.Fatalf("len(boxes) = %d, want 4", len(boxes))
	}
	if r := boxes[0].Rect; r.LLX != 40 || r.LLY != 100 || r.URY != 132 {
		t.Fatalf("re box = %+v", r)
	}
	if r := boxes[1].Rect; r.LLX != 50 || r.URX != 300 || r.LLY != 20 {
		t.Fatalf("line box = %+v", r)
	}
	if r := boxes[2].Rect; r.LLX != 480 || r.LLY != 105 || r.URX != 570 || r.URY != 127 {
		t.Fatalf("image box = %+v", r)
	}
	if r := boxes[3].Rect; r.LLX != 45 || math.Abs(r.URX-(45+22.78)) > 1e-9 || r.URY != 120 {
		t.Fatalf("text box = %+v", r)
	}
}
