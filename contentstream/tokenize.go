package contentstream

import (
	"fmt"
	"strconv"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

type tokenKind int

const (
	tokOperand tokenKind = iota
	tokOperator
)

type token struct {
	kind    tokenKind
	operand semantic.Operand
	op      string
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// tokenize splits a content stream into operands and operators. Literal
// strings, names, numbers and arrays are recognised; dictionaries and
// inline images are not produced by this module's builder.
func tokenize(src []byte) ([]token, error) {
	var out []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case isWhite(c):
			i++
		case c == '%':
			for i < len(src) && src[i] != '\n' && src[i] != '\r' {
				i++
			}
		case c == '[':
			arr, n, err := readArray(src[i+1:])
			if err != nil {
				return nil, err
			}
			out = append(out, token{kind: tokOperand, operand: arr})
			i += n + 1
		default:
			operand, n, err := readOperand(src[i:])
			if err != nil {
				return nil, err
			}
			if operand != nil {
				out = append(out, token{kind: tokOperand, operand: operand})
			} else {
				out = append(out, token{kind: tokOperator, op: string(src[i : i+n])})
			}
			i += n
		}
	}
	return out, nil
}

// readOperand reads one token at the start of src. A nil operand with n>0
// means a bare keyword (operator).
func readOperand(src []byte) (semantic.Operand, int, error) {
	c := src[0]
	switch {
	case c == '(':
		s, n, err := readLiteral(src)
		if err != nil {
			return nil, 0, err
		}
		return semantic.StringOperand{Value: s}, n, nil
	case c == '/':
		j := 1
		for j < len(src) && !isWhite(src[j]) && !isDelim(src[j]) {
			j++
		}
		return semantic.NameOperand{Value: string(src[1:j])}, j, nil
	case c == ']' || c == ')' || c == '<' || c == '>' || c == '{' || c == '}':
		return nil, 0, fmt.Errorf("unexpected %q", c)
	}
	j := 0
	for j < len(src) && !isWhite(src[j]) && !isDelim(src[j]) {
		j++
	}
	word := string(src[:j])
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return semantic.NumberOperand{Value: f}, j, nil
	}
	return nil, j, nil
}

func readArray(src []byte) (semantic.ArrayOperand, int, error) {
	var arr semantic.ArrayOperand
	i := 0
	for i < len(src) {
		c := src[i]
		if isWhite(c) {
			i++
			continue
		}
		if c == ']' {
			return arr, i + 1, nil
		}
		if c == '[' {
			inner, n, err := readArray(src[i+1:])
			if err != nil {
				return arr, 0, err
			}
			arr.Values = append(arr.Values, inner)
			i += n + 1
			continue
		}
		operand, n, err := readOperand(src[i:])
		if err != nil {
			return arr, 0, err
		}
		if operand == nil {
			return arr, 0, fmt.Errorf("operator %q inside array", src[i:i+n])
		}
		arr.Values = append(arr.Values, operand)
		i += n
	}
	return arr, 0, fmt.Errorf("unterminated array")
}

func readLiteral(src []byte) ([]byte, int, error) {
	var out []byte
	depth := 0
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '(':
			if depth > 0 {
				out = append(out, c)
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out, i + 1, nil
			}
			out = append(out, c)
		case '\\':
			i++
			if i >= len(src) {
				return nil, 0, fmt.Errorf("unterminated escape")
			}
			switch e := src[i]; e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := 0
				k := 0
				for ; k < 3 && i+k < len(src) && src[i+k] >= '0' && src[i+k] <= '7'; k++ {
					v = v*8 + int(src[i+k]-'0')
				}
				out = append(out, byte(v))
				i += k - 1
			default:
				out = append(out, e)
			}
		default:
			out = append(out, c)
		}
	}
	return nil, 0, fmt.Errorf("unterminated string")
}
