package builder

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/coords"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/fonts"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

// PDFBuilder provides a fluent API for PDF construction.
type PDFBuilder interface {
	NewPage(width, height float64) PageBuilder
	SetInfo(info *semantic.DocumentInfo) PDFBuilder
	RegisterFont(name string, font *semantic.Font) PDFBuilder
	Build() (*semantic.Document, error)
}

// PageBuilder provides a fluent API for page construction.
type PageBuilder interface {
	DrawText(text string, x, y float64, opts TextOptions) PageBuilder
	DrawImage(img *semantic.Image, x, y, width, height float64, opts ImageOptions) PageBuilder
	DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder
	DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder
	Finish() PDFBuilder
}

// TextOptions configures text drawing. Font is a resource name passed to
// RegisterFont.
type TextOptions struct {
	Font     string
	FontSize float64
	Color    Color
}

// RectOptions configures rectangle drawing (defaults to stroke if neither fill nor stroke is set).
type RectOptions struct {
	StrokeColor Color
	FillColor   Color
	LineWidth   float64
	Fill        bool
	Stroke      bool
}

// LineOptions configures line drawing.
type LineOptions struct {
	StrokeColor Color
	LineWidth   float64
}

// ImageOptions configures image drawing.
type ImageOptions struct {
	Interpolate bool
	// DropMask draws the image without its soft mask.
	DropMask bool
}

// Color represents an RGB color (alpha is ignored for now).
type Color struct {
	R, G, B float64
	A       float64
}

var ErrNilImage = errors.New("builder: nil image")

type builderImpl struct {
	pages        []*semantic.Page
	info         *semantic.DocumentInfo
	fonts        map[string]*semantic.Font
	defaultFont  string
	xobjectCount int
	xobjectNames map[*semantic.Image]string
	err          error
}

type pageBuilderImpl struct {
	parent *builderImpl
	page   *semantic.Page
}

const (
	defaultFontResource = "F1"
	defaultFontSize     = 12
)

// NewBuilder constructs a PDFBuilder.
func NewBuilder() PDFBuilder { return &builderImpl{defaultFont: defaultFontResource} }

func (b *builderImpl) NewPage(w, h float64) PageBuilder {
	p := &semantic.Page{MediaBox: semantic.Rectangle{LLX: 0, LLY: 0, URX: w, URY: h}}
	b.pages = append(b.pages, p)
	return &pageBuilderImpl{parent: b, page: p}
}

func (b *builderImpl) SetInfo(info *semantic.DocumentInfo) PDFBuilder {
	b.info = info
	return b
}

func (b *builderImpl) RegisterFont(name string, font *semantic.Font) PDFBuilder {
	if font == nil {
		return b
	}
	if b.fonts == nil {
		b.fonts = make(map[string]*semantic.Font)
	}
	b.fonts[name] = font
	return b
}

func (b *builderImpl) Build() (*semantic.Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	for i, p := range b.pages {
		p.Index = i
	}
	return &semantic.Document{Pages: b.pages, Info: b.info}, nil
}

func (p *pageBuilderImpl) DrawText(text string, x, y float64, opts TextOptions) PageBuilder {
	ops := p.ensureContentOps()
	res := p.ensureResources()

	font, fontName := p.parent.fontForName(opts.Font)
	if _, ok := res.Fonts[fontName]; !ok {
		res.Fonts[fontName] = font
	}
	size := opts.FontSize
	if size <= 0 {
		size = defaultFontSize
	}

	*ops = append(*ops, semantic.Operation{Operator: "BT"})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tf",
		Operands: []semantic.Operand{semantic.NameOperand{Value: fontName}, semantic.NumberOperand{Value: size}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tm",
		Operands: numbers(1, 0, 0, 1, x, y),
	})
	p.appendColorOp(ops, opts.Color, false)
	*ops = append(*ops, semantic.Operation{
		Operator: "Tj",
		Operands: []semantic.Operand{semantic.StringOperand{Value: EncodeWinAnsi(text)}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "ET"})
	return p
}

func (p *pageBuilderImpl) DrawImage(img *semantic.Image, x, y, width, height float64, opts ImageOptions) PageBuilder {
	if img == nil {
		p.parent.err = ErrNilImage
		return p
	}
	res := p.ensureResources()

	name := p.parent.imageName(img)
	if _, exists := res.XObjects[name]; !exists {
		xobj := semantic.XObject(*img)
		xobj.Subtype = "Image"
		if opts.Interpolate {
			xobj.Interpolate = true
		}
		if opts.DropMask {
			xobj.SMask = nil
		}
		res.XObjects[name] = xobj
	}
	w := width
	if w == 0 {
		w = float64(img.Width)
	}
	h := height
	if h == 0 {
		h = float64(img.Height)
	}

	m := coords.Place(x, y, w, h)
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	*ops = append(*ops, semantic.Operation{
		Operator: "cm",
		Operands: numbers(m[:]...),
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "Do",
		Operands: []semantic.Operand{semantic.NameOperand{Value: name}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) DrawRectangle(x, y, width, height float64, opts RectOptions) PageBuilder {
	po := opts
	if !po.Stroke && !po.Fill {
		po.Stroke = true
	}
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	p.applyPathState(ops, po)
	*ops = append(*ops, semantic.Operation{
		Operator: "re",
		Operands: numbers(x, y, width, height),
	})
	*ops = append(*ops, semantic.Operation{Operator: paintOperator(po.Fill, po.Stroke)})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder {
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	p.applyPathState(ops, RectOptions{StrokeColor: opts.StrokeColor, LineWidth: opts.LineWidth, Stroke: true})
	*ops = append(*ops, semantic.Operation{Operator: "m", Operands: numbers(x1, y1)})
	*ops = append(*ops, semantic.Operation{Operator: "l", Operands: numbers(x2, y2)})
	*ops = append(*ops, semantic.Operation{Operator: "S"})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) Finish() PDFBuilder { return p.parent }

func (b *builderImpl) fontForName(name string) (*semantic.Font, string) {
	if name == "" {
		name = b.defaultFont
	}
	if f, ok := b.fonts[name]; ok {
		return f, name
	}
	font := fonts.Standard(fonts.Helvetica)
	b.RegisterFont(name, font)
	return font, name
}

func (b *builderImpl) imageName(img *semantic.Image) string {
	if b.xobjectNames == nil {
		b.xobjectNames = make(map[*semantic.Image]string)
	}
	if name, ok := b.xobjectNames[img]; ok {
		return name
	}
	b.xobjectCount++
	name := fmt.Sprintf("Im%d", b.xobjectCount)
	b.xobjectNames[img] = name
	return name
}

// EncodeWinAnsi maps text to WinAnsiEncoding bytes; runes outside the code
// page become '?'.
func EncodeWinAnsi(text string) []byte {
	buf := make([]byte, 0, len(text))
	for _, r := range text {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			buf = append(buf, c)
			continue
		}
		buf = append(buf, '?')
	}
	return buf
}

func (p *pageBuilderImpl) ensureResources() *semantic.Resources {
	if p.page.Resources == nil {
		p.page.Resources = &semantic.Resources{}
	}
	if p.page.Resources.Fonts == nil {
		p.page.Resources.Fonts = make(map[string]*semantic.Font)
	}
	if p.page.Resources.XObjects == nil {
		p.page.Resources.XObjects = make(map[string]semantic.XObject)
	}
	return p.page.Resources
}

func (p *pageBuilderImpl) ensureContentOps() *[]semantic.Operation {
	if len(p.page.Contents) == 0 {
		p.page.Contents = append(p.page.Contents, semantic.ContentStream{})
	}
	return &p.page.Contents[0].Operations
}

func (p *pageBuilderImpl) appendColorOp(ops *[]semantic.Operation, c Color, stroking bool) {
	if isZeroColor(c) {
		return
	}
	op := "rg"
	if stroking {
		op = "RG"
	}
	*ops = append(*ops, semantic.Operation{
		Operator: op,
		Operands: numbers(c.R, c.G, c.B),
	})
}

func (p *pageBuilderImpl) applyPathState(ops *[]semantic.Operation, opts RectOptions) {
	if opts.Fill {
		p.appendColorOp(ops, opts.FillColor, false)
	}
	if opts.Stroke {
		p.appendColorOp(ops, opts.StrokeColor, true)
		if opts.LineWidth > 0 {
			*ops = append(*ops, semantic.Operation{Operator: "w", Operands: numbers(opts.LineWidth)})
		}
	}
}

func isZeroColor(c Color) bool {
	return c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0
}

func numbers(vals ...float64) []semantic.Operand {
	out := make([]semantic.Operand, len(vals))
	for i, v := range vals {
		out[i] = semantic.NumberOperand{Value: v}
	}
	return out
}

func paintOperator(fill, stroke bool) string {
	switch {
	case fill && stroke:
		return "B"
	case fill:
		return "f"
	default:
		return "S"
	}
}
