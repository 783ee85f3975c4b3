package writer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/raw"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

type impl struct{ interceptors []Interceptor }

func (w *impl) SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d obj\n", ref.Num, ref.Gen)
	switch o := obj.(type) {
	case *raw.DictObj, *raw.ArrayObj, raw.NameObj, raw.NumberObj, raw.BoolObj, raw.NullObj, raw.StringObj, *raw.StreamObj, raw.RefObj:
		buf.Write(serializePrimitive(o))
		buf.WriteString("\n")
	default:
		return nil, fmt.Errorf("object %s: unsupported type %T", ref, obj)
	}
	buf.WriteString("endobj\n")
	return buf.Bytes(), nil
}

func (w *impl) Write(ctx Context, doc *semantic.Document, out WriterAt, cfg Config) error {
	if doc == nil || len(doc.Pages) == 0 {
		return ErrNoPages
	}
	ids := fileID(doc, cfg)
	objects, catalogRef, infoRef, err := newObjectBuilder(ctx, doc, cfg, 1).Build()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-" + pdfVersion(cfg) + "\n%\xE2\xE3\xCF\xD3\n")
	offsets := make(map[int]int64, len(objects))

	ordered := make([]raw.ObjectRef, 0, len(objects))
	for ref := range objects {
		ordered = append(ordered, ref)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Num < ordered[j].Num })
	for _, ref := range ordered {
		if canceled(ctx) {
			return ErrCanceled
		}
		obj := objects[ref]
		for _, ic := range w.interceptors {
			if err := ic.BeforeWrite(ctx, ref, obj); err != nil {
				return err
			}
		}
		serialized, err := w.SerializeObject(ref, obj)
		if err != nil {
			return err
		}
		offsets[ref.Num] = int64(buf.Len())
		buf.Write(serialized)
		for _, ic := range w.interceptors {
			if err := ic.AfterWrite(ctx, ref, int64(len(serialized))); err != nil {
				return err
			}
		}
	}

	xrefOffset := buf.Len()
	maxObjNum := ordered[len(ordered)-1].Num
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxObjNum+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxObjNum; i++ {
		if off, ok := offsets[i]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}
	trailer := buildTrailer(maxObjNum+1, catalogRef, infoRef, ids)
	buf.WriteString("trailer\n")
	buf.Write(serializePrimitive(trailer))
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	_, err = out.Write(buf.Bytes())
	return err
}
