package writer

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"golang.org/x/crypto/blake2b"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/raw"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

func pdfVersion(cfg Config) string {
	if cfg.Version == "" {
		return string(PDF17)
	}
	return string(cfg.Version)
}

func fileID(doc *semantic.Document, cfg Config) [2][]byte {
	seed := deterministicIDSeed(doc, cfg)
	if cfg.Deterministic {
		return [2][]byte{seed, seed}
	}
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		id = seed
	}
	return [2][]byte{seed, id}
}

// deterministicIDSeed hashes everything that ends up on the page, so two
// documents share an ID only when their content matches.
func deterministicIDSeed(doc *semantic.Document, cfg Config) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(pdfVersion(cfg)))
	if doc.Info != nil {
		for _, s := range []string{doc.Info.Title, doc.Info.Author, doc.Info.Subject, doc.Info.Creator, doc.Info.Producer, strings.Join(doc.Info.Keywords, ",")} {
			h.Write([]byte(s))
			h.Write([]byte{0})
		}
		if !doc.Info.CreationDate.IsZero() {
			h.Write([]byte(formatDate(doc.Info.CreationDate)))
		}
	}
	fmt.Fprintf(h, "%d", len(doc.Pages))
	for _, p := range doc.Pages {
		fmt.Fprintf(h, "%s-%s-%s-%s", formatNumber(p.MediaBox.LLX), formatNumber(p.MediaBox.LLY), formatNumber(p.MediaBox.URX), formatNumber(p.MediaBox.URY))
		for _, cs := range p.Contents {
			h.Write(serializeContentStream(cs))
		}
		if p.Resources != nil {
			for _, name := range sortedKeys(p.Resources.XObjects) {
				xo := p.Resources.XObjects[name]
				h.Write([]byte(name))
				h.Write(xo.Data)
			}
		}
	}
	return h.Sum(nil)
}

func rectArray(r semantic.Rectangle) *raw.ArrayObj {
	return raw.NewArray(
		raw.Float(r.LLX),
		raw.Float(r.LLY),
		raw.Float(r.URX),
		raw.Float(r.URY),
	)
}

func pickContentFilter(cfg Config) ContentFilter {
	if cfg.ContentFilter != FilterNone {
		return cfg.ContentFilter
	}
	if cfg.Compression != 0 {
		return FilterFlate
	}
	return FilterNone
}

func encodeWidths(widths map[int]int) (first, last int, arr *raw.ArrayObj) {
	if len(widths) == 0 {
		return 0, 0, raw.NewArray()
	}
	first = math.MaxInt32
	last = -1
	for k := range widths {
		if k < first {
			first = k
		}
		if k > last {
			last = k
		}
	}
	arr = raw.NewArray()
	for i := first; i <= last; i++ {
		arr.Append(raw.Int(int64(widths[i])))
	}
	return first, last, arr
}

func serializeContentStream(cs semantic.ContentStream) []byte {
	if len(cs.RawBytes) > 0 {
		return cs.RawBytes
	}
	if len(cs.Operations) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for _, op := range cs.Operations {
		for i, operand := range op.Operands {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.Write(serializeOperand(operand))
		}
		if len(op.Operands) > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func serializeOperand(op semantic.Operand) []byte {
	switch v := op.(type) {
	case semantic.NumberOperand:
		return []byte(formatNumber(v.Value))
	case semantic.NameOperand:
		return []byte("/" + v.Value)
	case semantic.StringOperand:
		return escapeLiteralString(v.Value)
	case semantic.ArrayOperand:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, it := range v.Values {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.Write(serializeOperand(it))
		}
		buf.WriteByte(']')
		return buf.Bytes()
	default:
		return []byte("null")
	}
}

// formatNumber writes reals in plain decimal notation rounded to 4 places;
// PDF has no exponent syntax.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(math.Round(v*10000)/10000, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}

func escapeLiteralString(rawBytes []byte) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, ch := range rawBytes {
		switch ch {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(ch)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		case '\b':
			b.WriteString("\\b")
		case '\f':
			b.WriteString("\\f")
		default:
			if ch < 0x20 || ch >= 0x80 {
				fmt.Fprintf(&b, "\\%03o", ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte(')')
	return b.Bytes()
}

// textString encodes s for the Info dictionary: ASCII as-is, anything else
// as UTF-16BE with a byte order mark.
func textString(s string) []byte {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return []byte(s)
	}
	units := utf16.Encode([]rune(s))
	out := make([]byte, 2, 2+2*len(units))
	out[0], out[1] = 0xFE, 0xFF
	for _, u := range units {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func formatDate(t time.Time) string {
	_, offset := t.Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	h := offset / 3600
	m := (offset % 3600) / 60
	if offset == 0 {
		return fmt.Sprintf("D:%04d%02d%02d%02d%02d%02dZ",
			t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("D:%04d%02d%02d%02d%02d%02d%c%02d'%02d'",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), sign, h, m)
}

func buildTrailer(size int, catalogRef raw.ObjectRef, infoRef *raw.ObjectRef, ids [2][]byte) *raw.DictObj {
	trailer := raw.Dict()
	trailer.Set("Size", raw.Int(int64(size)))
	trailer.Set("Root", raw.Ref(catalogRef))
	if infoRef != nil {
		trailer.Set("Info", raw.Ref(*infoRef))
	}
	trailer.Set("ID", raw.NewArray(raw.HexStr(ids[0]), raw.HexStr(ids[1])))
	return trailer
}

func serializePrimitive(o raw.Object) []byte {
	switch v := o.(type) {
	case raw.NameObj:
		return []byte("/" + v.Value())
	case raw.NumberObj:
		if v.IsInteger() {
			return []byte(strconv.FormatInt(v.Int(), 10))
		}
		return []byte(formatNumber(v.Float()))
	case raw.BoolObj:
		if v.Value() {
			return []byte("true")
		}
		return []byte("false")
	case raw.NullObj:
		return []byte("null")
	case raw.StringObj:
		if v.IsHex() {
			return []byte("<" + strings.ToUpper(hex.EncodeToString(v.Value())) + ">")
		}
		return escapeLiteralString(v.Value())
	case *raw.ArrayObj:
		var b bytes.Buffer
		b.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.Write(serializePrimitive(it))
		}
		b.WriteByte(']')
		return b.Bytes()
	case *raw.DictObj:
		var b bytes.Buffer
		b.WriteString("<<")
		keys := make([]string, 0, len(v.KV))
		for k := range v.KV {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("/" + k + " ")
			b.Write(serializePrimitive(v.KV[k]))
		}
		b.WriteString(">>")
		return b.Bytes()
	case *raw.StreamObj:
		var b bytes.Buffer
		b.Write(serializePrimitive(v.Dict))
		b.WriteString("\nstream\n")
		b.Write(v.Data)
		b.WriteString("\nendstream")
		return b.Bytes()
	case raw.RefObj:
		return []byte(v.Ref().String())
	default:
		return []byte("null")
	}
}
