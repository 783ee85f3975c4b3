// Package semantic is the page-level document model the builder produces
// and the writer serializes: pages, content stream operations and the
// resources (fonts, image XObjects) they reference.
package semantic

import "time"

// Document is the root of a composed PDF.
type Document struct {
	Pages []*Page
	Info  *DocumentInfo
}

// DocumentInfo populates the trailer /Info dictionary.
type DocumentInfo struct {
	Title        string
	Author       string
	Subject      string
	Creator      string
	Producer     string
	Keywords     []string
	CreationDate time.Time
}

// Page holds one page's geometry, resources and drawing operations.
type Page struct {
	Index     int
	MediaBox  Rectangle
	Resources *Resources
	Contents  []ContentStream
}

// Rectangle is a PDF rectangle in default user space.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

func (r Rectangle) Width() float64  { return r.URX - r.LLX }
func (r Rectangle) Height() float64 { return r.URY - r.LLY }

// ContentStream is a sequence of operations; RawBytes, when set, wins.
type ContentStream struct {
	Operations []Operation
	RawBytes   []byte
}

// Operation is a single content stream operator with its operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Operand is implemented by the operand kinds a content stream can carry.
type Operand interface {
	operand()
	Type() string
}

type NumberOperand struct{ Value float64 }

func (NumberOperand) operand()     {}
func (NumberOperand) Type() string { return "number" }

type NameOperand struct{ Value string }

func (NameOperand) operand()     {}
func (NameOperand) Type() string { return "name" }

type StringOperand struct{ Value []byte }

func (StringOperand) operand()     {}
func (StringOperand) Type() string { return "string" }

type ArrayOperand struct{ Values []Operand }

func (ArrayOperand) operand()     {}
func (ArrayOperand) Type() string { return "array" }

// Resources maps resource names used by content streams to objects.
type Resources struct {
	Fonts    map[string]*Font
	XObjects map[string]XObject
}

// Font describes a simple (non-embedded) font.
type Font struct {
	Subtype  string // Type1 (default)
	BaseFont string
	Encoding string
	Widths   map[int]int // character code -> width in 1/1000 em
}

// ColorSpace names the color space of image samples.
type ColorSpace interface {
	ColorSpaceName() string
}

// DeviceColorSpace is one of DeviceGray, DeviceRGB, DeviceCMYK.
type DeviceColorSpace struct {
	Name string
}

func (cs DeviceColorSpace) ColorSpaceName() string { return cs.Name }

// XObject describes an image XObject. Data holds unencoded samples; the
// writer applies the stream filter.
type XObject struct {
	Subtype string
	Width   int
	Height  int
	ColorSpace
	BitsPerComponent int
	Data             []byte
	Interpolate      bool
	SMask            *XObject
}

// Image is an alias for XObject for image convenience APIs.
type Image = XObject
