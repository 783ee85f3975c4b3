package filters

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Encoder applies one PDF stream filter in the encode direction.
type Encoder interface {
	Name() string
	Encode(ctx context.Context, input []byte) ([]byte, error)
}

// Decoder reverses an Encoder. Only used to verify written streams.
type Decoder interface {
	Name() string
	Decode(ctx context.Context, input []byte) ([]byte, error)
}

type Pipeline struct {
	encoders []Encoder
	limits   Limits
}

// NewPipeline constructs a pipeline with provided encoders and limits.
func NewPipeline(encoders []Encoder, limits Limits) *Pipeline {
	return &Pipeline{encoders: encoders, limits: limits}
}

type Limits struct {
	MaxEncodedSize int64
}

var ErrSizeLimit = errors.New("encoded size exceeds limit")

// Names returns the filter names in /Filter order. Encoders run in reverse
// so that a reader decoding left to right recovers the input.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.encoders))
	for _, e := range p.encoders {
		names = append(names, e.Name())
	}
	return names
}

func (p *Pipeline) Encode(ctx context.Context, input []byte) ([]byte, error) {
	data := input
	for i := len(p.encoders) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := p.encoders[i].Encode(ctx, data)
		if err != nil {
			return nil, err
		}
		if p.limits.MaxEncodedSize > 0 && int64(len(out)) > p.limits.MaxEncodedSize {
			return nil, ErrSizeLimit
		}
		data = out
	}
	return data, nil
}

type flateFilter struct{ level int }

func (flateFilter) Name() string { return "FlateDecode" }

// NewFlateEncoder returns a FlateDecode encoder at the given zlib level.
// Level 0 selects the default compression.
func NewFlateEncoder(level int) Encoder {
	if level == 0 {
		level = zlib.DefaultCompression
	}
	return flateFilter{level: level}
}

func NewFlateDecoder() Decoder { return flateFilter{} }

func (f flateFilter) Encode(ctx context.Context, in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, f.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (flateFilter) Decode(ctx context.Context, in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

type asciiHexFilter struct{}

func (asciiHexFilter) Name() string { return "ASCIIHexDecode" }
func NewASCIIHexEncoder() Encoder   { return asciiHexFilter{} }

func (asciiHexFilter) Encode(ctx context.Context, in []byte) ([]byte, error) {
	dst := make([]byte, hex.EncodedLen(len(in)), hex.EncodedLen(len(in))+1)
	hex.Encode(dst, in)
	return append(dst, '>'), nil
}
