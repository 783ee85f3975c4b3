package writer

import (
	"errors"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/raw"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
)

type PDFVersion string

const (
	PDF14 PDFVersion = "1.4"
	PDF17 PDFVersion = "1.7"
)

type ContentFilter int

const (
	FilterNone ContentFilter = iota
	FilterFlate
	FilterASCIIHex
)

// Config controls serialization. Compression is a zlib level; a non-zero
// value implies FilterFlate when ContentFilter is unset. Deterministic
// derives the file ID from document content instead of random bytes.
type Config struct {
	Version       PDFVersion
	Compression   int
	ContentFilter ContentFilter
	Deterministic bool
}

var (
	ErrNoPages  = errors.New("writer: document has no pages")
	ErrCanceled = errors.New("writer: canceled")
)

type Writer interface {
	Write(ctx Context, doc *semantic.Document, w WriterAt, cfg Config) error
	SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error)
}

// Interceptor observes each indirect object as it is written.
type Interceptor interface {
	BeforeWrite(ctx Context, ref raw.ObjectRef, obj raw.Object) error
	AfterWrite(ctx Context, ref raw.ObjectRef, bytesWritten int64) error
}

type WriterBuilder struct{ interceptors []Interceptor }

func (b *WriterBuilder) WithInterceptor(i Interceptor) *WriterBuilder {
	b.interceptors = append(b.interceptors, i)
	return b
}
func (b *WriterBuilder) Build() Writer { return &impl{interceptors: b.interceptors} }

type WriterAt interface {
	Write(p []byte) (n int, err error)
}

type Context interface{ Done() <-chan struct{} }

func canceled(ctx Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
