// Package raw models the PDF object graph the writer serializes: names,
// numbers, strings, arrays, dictionaries, streams and indirect references.
package raw

import "fmt"

// ObjectRef uniquely identifies an indirect PDF object.
type ObjectRef struct {
	Num int
	Gen int
}

func (r ObjectRef) String() string { return fmt.Sprintf("%d %d R", r.Num, r.Gen) }

// Object is the base interface for all raw PDF objects.
type Object interface {
	Type() string
}

// Name object
type NameObj struct{ Val string }

func (n NameObj) Type() string  { return "name" }
func (n NameObj) Value() string { return n.Val }

// Number object
type NumberObj struct {
	I     int64
	F     float64
	IsInt bool
}

func (n NumberObj) Type() string { return "number" }
func (n NumberObj) Int() int64   { return n.I }
func (n NumberObj) Float() float64 {
	if n.IsInt {
		return float64(n.I)
	}
	return n.F
}
func (n NumberObj) IsInteger() bool { return n.IsInt }

// Boolean object
type BoolObj struct{ V bool }

func (b BoolObj) Type() string { return "boolean" }
func (b BoolObj) Value() bool  { return b.V }

// Null object
type NullObj struct{}

func (NullObj) Type() string { return "null" }

// StringObj is a literal or hexadecimal string.
type StringObj struct {
	Bytes []byte
	Hex   bool
}

func (s StringObj) Type() string  { return "string" }
func (s StringObj) Value() []byte { return s.Bytes }
func (s StringObj) IsHex() bool   { return s.Hex }

// Array object
type ArrayObj struct{ Items []Object }

func (a *ArrayObj) Type() string    { return "array" }
func (a *ArrayObj) Len() int        { return len(a.Items) }
func (a *ArrayObj) Append(o Object) { a.Items = append(a.Items, o) }

// DictObj is a dictionary keyed by name value (without the leading slash).
type DictObj struct{ KV map[string]Object }

func (d *DictObj) Type() string { return "dict" }
func (d *DictObj) Get(key string) (Object, bool) {
	o, ok := d.KV[key]
	return o, ok
}
func (d *DictObj) Set(key string, value Object) {
	if d.KV == nil {
		d.KV = make(map[string]Object)
	}
	d.KV[key] = value
}
func (d *DictObj) Len() int { return len(d.KV) }

// StreamObj pairs a dictionary with its (already encoded) payload.
type StreamObj struct {
	Dict *DictObj
	Data []byte
}

func (s *StreamObj) Type() string { return "stream" }

// RefObj points at an indirect object.
type RefObj struct{ R ObjectRef }

func (r RefObj) Type() string   { return "ref" }
func (r RefObj) Ref() ObjectRef { return r.R }

// Helpers
func Name(v string) NameObj                        { return NameObj{Val: v} }
func Int(i int64) NumberObj                        { return NumberObj{I: i, IsInt: true} }
func Float(f float64) NumberObj                    { return NumberObj{F: f} }
func Bool(v bool) BoolObj                          { return BoolObj{V: v} }
func Str(b []byte) StringObj                       { return StringObj{Bytes: b} }
func HexStr(b []byte) StringObj                    { return StringObj{Bytes: b, Hex: true} }
func NewArray(items ...Object) *ArrayObj           { return &ArrayObj{Items: items} }
func Dict() *DictObj                               { return &DictObj{KV: make(map[string]Object)} }
func NewStream(d *DictObj, data []byte) *StreamObj { return &StreamObj{Dict: d, Data: data} }
func Ref(r ObjectRef) RefObj                       { return RefObj{R: r} }
