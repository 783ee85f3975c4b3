package report

import (
	"errors"
	"fmt"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/fonts"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

// OpKind identifies a recorded drawing operation.
type OpKind int

const (
	OpRect OpKind = iota
	OpLine
	OpText
	OpImage
)

func (k OpKind) String() string {
	switch k {
	case OpRect:
		return "rect"
	case OpLine:
		return "line"
	case OpText:
		return "text"
	case OpImage:
		return "image"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// DrawOp is one recorded drawing operation. Rect and Image use X, Y, W, H;
// Line runs from (X, Y) to (X2, Y2); Text sets Text at baseline (X, Y).
type DrawOp struct {
	Kind   OpKind
	X, Y   float64
	W, H   float64
	X2, Y2 float64
	Text   string
	Font   string
	Size   float64
	Image  *semantic.Image
	Mask   bool
}

// PageKind tells which header a page carries.
type PageKind int

const (
	PageFullHeader PageKind = iota
	PageShortHeader
)

func (k PageKind) String() string {
	if k == PageShortHeader {
		return "short-header"
	}
	return "full-header"
}

// Page is the ordered drawing of one output page. Rows lists the 1-based
// attendee indices placed on it.
type Page struct {
	Kind PageKind
	Rows []int
	Ops  []DrawOp
}

// Degradation records a signature that could not be drawn. Row is the
// 1-based attendee index, zero for the facilitator.
type Degradation struct {
	Page      int
	Row       int
	SubjectID string
	Err       error
}

// RenderedDocument is the device-independent result of composition.
type RenderedDocument struct {
	Width, Height float64
	Pages         []*Page
	Degradations  []Degradation
}

// ErrImageDraw is returned by Canvas.Image for a nil handle or an empty box.
var ErrImageDraw = errors.New("report: image draw failed")

// Canvas records drawing operations page by page. Only Image can fail.
type Canvas struct {
	doc *RenderedDocument
	cur *Page
}

// NewCanvas returns a canvas with no pages.
func NewCanvas(width, height float64) *Canvas {
	return &Canvas{doc: &RenderedDocument{Width: width, Height: height}}
}

// NewPage starts a page and makes it current.
func (c *Canvas) NewPage(kind PageKind) int {
	c.cur = &Page{Kind: kind}
	c.doc.Pages = append(c.doc.Pages, c.cur)
	return len(c.doc.Pages) - 1
}

func (c *Canvas) record(op DrawOp) {
	if c.cur == nil {
		c.NewPage(PageFullHeader)
	}
	c.cur.Ops = append(c.cur.Ops, op)
}

func (c *Canvas) Rect(x, y, w, h float64) {
	c.record(DrawOp{Kind: OpRect, X: x, Y: y, W: w, H: h})
}

func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	c.record(DrawOp{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2})
}

func (c *Canvas) Text(x, y float64, s, font string, size float64) {
	c.record(DrawOp{Kind: OpText, X: x, Y: y, Text: s, Font: font, Size: size})
}

// TextWidth measures s with the standard metrics of font.
func (c *Canvas) TextWidth(s, font string, size float64) float64 {
	return fonts.Width(font, s, size)
}

// Image places img scaled into the box. mask keeps the alpha soft mask.
func (c *Canvas) Image(img *semantic.Image, x, y, w, h float64, mask bool) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Data) == 0 {
		return fmt.Errorf("%w: invalid image handle", ErrImageDraw)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: box %gx%g", ErrImageDraw, w, h)
	}
	c.record(DrawOp{Kind: OpImage, X: x, Y: y, W: w, H: h, Image: img, Mask: mask})
	return nil
}

// MarkRow notes that attendee index was placed on the current page.
func (c *Canvas) MarkRow(index int) {
	if c.cur != nil {
		c.cur.Rows = append(c.cur.Rows, index)
	}
}

// Degrade appends a degradation to the document.
func (c *Canvas) Degrade(d Degradation) {
	c.doc.Degradations = append(c.doc.Degradations, d)
}

// PageIndex is the zero-based index of the current page, -1 before the first.
func (c *Canvas) PageIndex() int { return len(c.doc.Pages) - 1 }

// Document returns the recorded document.
func (c *Canvas) Document() *RenderedDocument { return c.doc }
