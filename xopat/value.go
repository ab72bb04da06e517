package xopat

import (
	"math"
	"strconv"

	"github.com/xoplog/xopscope/xoputil"
)

type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt64
	KindUint64
	KindFloat64
	KindBool
	KindString
)

// Value is one stored field value. The zero Value is invalid and
// encodes as null.
type Value struct {
	kind Kind
	n    uint64
	s    string
}

func Int64Value(v int64) Value     { return Value{kind: KindInt64, n: uint64(v)} }
func Uint64Value(v uint64) Value   { return Value{kind: KindUint64, n: v} }
func Float64Value(v float64) Value { return Value{kind: KindFloat64, n: math.Float64bits(v)} }
func StringValue(v string) Value   { return Value{kind: KindString, s: v} }

func BoolValue(v bool) Value {
	if v {
		return Value{kind: KindBool, n: 1}
	}
	return Value{kind: KindBool}
}

func (v Value) Kind() Kind         { return v.kind }
func (v Value) IsValid() bool      { return v.kind != KindInvalid }
func (v Value) Int64() int64       { return int64(v.n) }
func (v Value) Uint64() uint64     { return v.n }
func (v Value) Float64() float64   { return math.Float64frombits(v.n) }
func (v Value) Bool() bool         { return v.n != 0 }
func (v Value) StringBody() string { return v.s }

// Str returns the value if it holds a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Any returns the value as int64, uint64, float64, bool, string, or nil.
func (v Value) Any() interface{} {
	switch v.kind {
	case KindInt64:
		return v.Int64()
	case KindUint64:
		return v.Uint64()
	case KindFloat64:
		return v.Float64()
	case KindBool:
		return v.Bool()
	case KindString:
		return v.s
	default:
		return nil
	}
}

// String formats the value for humans. Strings are not quoted.
func (v Value) String() string {
	switch v.kind {
	case KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case KindUint64:
		return strconv.FormatUint(v.n, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindString:
		return v.s
	default:
		return "<invalid>"
	}
}

// AppendJSON adds the JSON encoding of the value.
func (v Value) AppendJSON(b *xoputil.JBuilder) {
	switch v.kind {
	case KindInt64:
		b.AddInt64(v.Int64())
	case KindUint64:
		b.AddUint64(v.n)
	case KindFloat64:
		b.AddFloat64(v.Float64())
	case KindBool:
		b.AddBool(v.Bool())
	case KindString:
		b.AddString(v.s)
	default:
		b.AddNull()
	}
}
