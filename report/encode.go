package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/builder"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/fonts"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/writer"
)

// fontResources maps template fonts to page resource names.
var fontResources = map[string]string{
	FontRegular:     "F1",
	FontBold:        "F2",
	FontBoldOblique: "F3",
}

// Document converts a rendered document to the semantic page model.
func (r *Renderer) Document(doc *RenderedDocument) (*semantic.Document, error) {
	b := builder.NewBuilder()
	for name, res := range fontResources {
		b.RegisterFont(res, fonts.Standard(name))
	}
	created := r.opts.Clock().In(r.zone())
	b.SetInfo(&semantic.DocumentInfo{
		Title:        Title,
		Subject:      r.opts.FormCode,
		Creator:      "asistencia",
		Producer:     "asistencia",
		CreationDate: created,
	})
	for _, p := range doc.Pages {
		pb := b.NewPage(doc.Width, doc.Height)
		for _, op := range p.Ops {
			switch op.Kind {
			case OpRect:
				pb.DrawRectangle(op.X, op.Y, op.W, op.H, builder.RectOptions{})
			case OpLine:
				pb.DrawLine(op.X, op.Y, op.X2, op.Y2, builder.LineOptions{})
			case OpText:
				res, ok := fontResources[op.Font]
				if !ok {
					res = fontResources[FontRegular]
				}
				pb.DrawText(op.Text, op.X, op.Y, builder.TextOptions{Font: res, FontSize: op.Size})
			case OpImage:
				pb.DrawImage(op.Image, op.X, op.Y, op.W, op.H, builder.ImageOptions{DropMask: !op.Mask})
			default:
				return nil, fmt.Errorf("report: unknown draw op %v", op.Kind)
			}
		}
		pb.Finish()
	}
	return b.Build()
}

// Encode serializes a rendered document. Output depends only on doc and
// the renderer clock.
func (r *Renderer) Encode(ctx context.Context, doc *RenderedDocument) ([]byte, error) {
	sdoc, err := r.Document(doc)
	if err != nil {
		return nil, err
	}
	cfg := writer.Config{
		Version:       writer.PDF14,
		Compression:   r.opts.Compress,
		Deterministic: true,
	}
	var buf bytes.Buffer
	w := (&writer.WriterBuilder{}).Build()
	if r.opts.Interceptor != nil {
		w = (&writer.WriterBuilder{}).WithInterceptor(r.opts.Interceptor).Build()
	}
	if err := w.Write(ctx, sdoc, &buf, cfg); err != nil {
		return nil, fmt.Errorf("encode pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) zone() *time.Location {
	return time.FixedZone("", int(r.opts.UTCOffset/time.Second))
}
