// Package contentstream reads serialized page content back into
// operations and traces where they land on the page.
package contentstream

import (
	"fmt"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

// Parse decodes an unfiltered content stream into operations.
func Parse(stream []byte) ([]semantic.Operation, error) {
	tokens, err := tokenize(stream)
	if err != nil {
		return nil, err
	}
	var ops []semantic.Operation
	var operands []semantic.Operand
	for _, tok := range tokens {
		if tok.kind == tokOperand {
			operands = append(operands, tok.operand)
			continue
		}
		ops = append(ops, semantic.Operation{Operator: tok.op, Operands: operands})
		operands = nil
	}
	if len(operands) > 0 {
		return nil, fmt.Errorf("dangling operands: %d", len(operands))
	}
	return ops, nil
}
