package contentstream

import (
	"errors"

	"golang.org/x/text/encoding/charmap"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/coords"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/fonts"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

// OpBBox represents the bounding box of an operation.
type OpBBox struct {
	OpIndex  int
	Operator string
	Rect     semantic.Rectangle
}

type graphicsState struct {
	ctm   coords.Matrix
	stack []coords.Matrix
}

func (gs *graphicsState) save() { gs.stack = append(gs.stack, gs.ctm) }

func (gs *graphicsState) restore() error {
	n := len(gs.stack)
	if n == 0 {
		return errors.New("state stack empty")
	}
	gs.ctm = gs.stack[n-1]
	gs.stack = gs.stack[:n-1]
	return nil
}

type textState struct {
	font       string
	size       float64
	lineMatrix coords.Matrix
}

// Tracer calculates the bounding boxes of marking operations: rectangles,
// stroked line segments, shown text and XObject placements.
type Tracer struct{}

func NewTracer() *Tracer { return &Tracer{} }

// Trace executes the operations virtually and returns their bounding boxes.
func (t *Tracer) Trace(ops []semantic.Operation, resources *semantic.Resources) ([]OpBBox, error) {
	bboxes := make([]OpBBox, 0, len(ops))
	gs := &graphicsState{ctm: coords.Identity()}
	ts := &textState{lineMatrix: coords.Identity()}
	var cur coords.Point

	for i, op := range ops {
		var points []coords.Point
		switch op.Operator {
		case "q":
			gs.save()
		case "Q":
			if err := gs.restore(); err != nil {
				return nil, err
			}
		case "cm":
			if len(op.Operands) == 6 {
				gs.ctm = operandToMatrix(op.Operands).Multiply(gs.ctm)
			}
		case "BT":
			ts.lineMatrix = coords.Identity()
		case "Tf":
			if len(op.Operands) == 2 {
				if name, ok := op.Operands[0].(semantic.NameOperand); ok && resources != nil {
					if f, ok := resources.Fonts[name.Value]; ok && f != nil {
						ts.font = f.BaseFont
					}
				}
				ts.size = operandToFloat(op.Operands[1])
			}
		case "Tm":
			if len(op.Operands) == 6 {
				ts.lineMatrix = operandToMatrix(op.Operands)
			}
		case "Td":
			if len(op.Operands) == 2 {
				m := coords.Translate(operandToFloat(op.Operands[0]), operandToFloat(op.Operands[1]))
				ts.lineMatrix = m.Multiply(ts.lineMatrix)
			}
		case "Tj":
			if len(op.Operands) == 1 {
				if s, ok := op.Operands[0].(semantic.StringOperand); ok {
					points = textPoints(s.Value, ts, gs)
				}
			}
		case "m":
			if len(op.Operands) == 2 {
				cur = coords.Point{X: operandToFloat(op.Operands[0]), Y: operandToFloat(op.Operands[1])}
			}
		case "l":
			if len(op.Operands) == 2 {
				next := coords.Point{X: operandToFloat(op.Operands[0]), Y: operandToFloat(op.Operands[1])}
				points = []coords.Point{gs.ctm.Transform(cur), gs.ctm.Transform(next)}
				cur = next
			}
		case "re":
			if len(op.Operands) == 4 {
				x := operandToFloat(op.Operands[0])
				y := operandToFloat(op.Operands[1])
				w := operandToFloat(op.Operands[2])
				h := operandToFloat(op.Operands[3])
				points = []coords.Point{
					gs.ctm.Transform(coords.Point{X: x, Y: y}),
					gs.ctm.Transform(coords.Point{X: x + w, Y: y}),
					gs.ctm.Transform(coords.Point{X: x, Y: y + h}),
					gs.ctm.Transform(coords.Point{X: x + w, Y: y + h}),
				}
			}
		case "Do":
			if len(op.Operands) == 1 {
				if name, ok := op.Operands[0].(semantic.NameOperand); ok && resources != nil {
					if _, ok := resources.XObjects[name.Value]; ok {
						// Images paint the unit square under the CTM.
						points = []coords.Point{
							gs.ctm.Transform(coords.Point{X: 0, Y: 0}),
							gs.ctm.Transform(coords.Point{X: 1, Y: 0}),
							gs.ctm.Transform(coords.Point{X: 0, Y: 1}),
							gs.ctm.Transform(coords.Point{X: 1, Y: 1}),
						}
					}
				}
			}
		}
		if len(points) > 0 {
			llx, lly, urx, ury := coords.Bounds(points...)
			bboxes = append(bboxes, OpBBox{
				OpIndex:  i,
				Operator: op.Operator,
				Rect:     semantic.Rectangle{LLX: llx, LLY: lly, URX: urx, URY: ury},
			})
		}
	}
	return bboxes, nil
}

func operandToMatrix(ops []semantic.Operand) coords.Matrix {
	var m coords.Matrix
	for i := range m {
		m[i] = operandToFloat(ops[i])
	}
	return m
}

func operandToFloat(op semantic.Operand) float64 {
	if n, ok := op.(semantic.NumberOperand); ok {
		return n.Value
	}
	return 0
}

// textPoints covers the baseline-to-size box of the shown string.
func textPoints(text []byte, ts *textState, gs *graphicsState) []coords.Point {
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(text)
	if err != nil {
		decoded = text
	}
	width := fonts.Width(ts.font, string(decoded), ts.size)
	m := ts.lineMatrix.Multiply(gs.ctm)
	return []coords.Point{
		m.Transform(coords.Point{X: 0, Y: 0}),
		m.Transform(coords.Point{X: width, Y: 0}),
		m.Transform(coords.Point{X: 0, Y: ts.size}),
		m.Transform(coords.Point{X: width, Y: ts.size}),
	}
}
