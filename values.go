package xopscope

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// Visitor receives typed field values. Each KeyValue calls exactly
// one of the methods.
type Visitor interface {
	RecordInt64(key string, v int64)
	RecordUint64(key string, v uint64)
	RecordFloat64(key string, v float64)
	RecordBool(key string, v bool)
	RecordString(key string, v string)
	// RecordAny receives values that have no specific method. The
	// visitor decides how to render them.
	RecordAny(key string, v interface{})
}

type valueType uint8

const (
	typeAny valueType = iota
	typeInt64
	typeUint64
	typeFloat64
	typeBool
	typeString
)

// KeyValue is one field given at a call site.
type KeyValue struct {
	Key string
	typ valueType
	i   int64
	u   uint64
	f   float64
	b   bool
	s   string
	a   interface{}
}

func Int64(k string, v int64) KeyValue     { return KeyValue{Key: k, typ: typeInt64, i: v} }
func Int(k string, v int) KeyValue         { return Int64(k, int64(v)) }
func Uint64(k string, v uint64) KeyValue   { return KeyValue{Key: k, typ: typeUint64, u: v} }
func Float64(k string, v float64) KeyValue { return KeyValue{Key: k, typ: typeFloat64, f: v} }
func Bool(k string, v bool) KeyValue       { return KeyValue{Key: k, typ: typeBool, b: v} }
func String(k string, v string) KeyValue   { return KeyValue{Key: k, typ: typeString, s: v} }

// Any is for values that are not one of the basic types. Visitors
// usually render them with fmt.
func Any(k string, v interface{}) KeyValue { return KeyValue{Key: k, typ: typeAny, a: v} }

// Err records an error under the key "error".
func Err(err error) KeyValue { return Any("error", err) }

// Stringer records the String() of v at the time of the call.
func Stringer(k string, v fmt.Stringer) KeyValue { return String(k, v.String()) }

// Record hands the value to the matching Visitor method.
func (kv KeyValue) Record(v Visitor) {
	switch kv.typ {
	case typeInt64:
		v.RecordInt64(kv.Key, kv.i)
	case typeUint64:
		v.RecordUint64(kv.Key, kv.u)
	case typeFloat64:
		v.RecordFloat64(kv.Key, kv.f)
	case typeBool:
		v.RecordBool(kv.Key, kv.b)
	case typeString:
		v.RecordString(kv.Key, kv.s)
	default:
		v.RecordAny(kv.Key, kv.a)
	}
}

// Value returns the value as a plain Go value.
func (kv KeyValue) Value() interface{} {
	switch kv.typ {
	case typeInt64:
		return kv.i
	case typeUint64:
		return kv.u
	case typeFloat64:
		return kv.f
	case typeBool:
		return kv.b
	case typeString:
		return kv.s
	default:
		return kv.a
	}
}

// ValueSet is the set of fields given to one call.
type ValueSet []KeyValue

// Record visits each value in order.
func (vs ValueSet) Record(v Visitor) {
	for _, kv := range vs {
		kv.Record(v)
	}
}

func (vs ValueSet) Len() int { return len(vs) }

// Get returns the last value recorded under k.
func (vs ValueSet) Get(k string) (KeyValue, bool) {
	for i := len(vs) - 1; i >= 0; i-- {
		if vs[i].Key == k {
			return vs[i], true
		}
	}
	return KeyValue{}, false
}

// deepCopied returns a ValueSet whose Any values do not share memory
// with the caller's values. Errors are kept as-is because their
// unexported fields cannot be copied.
func (vs ValueSet) deepCopied() ValueSet {
	var n ValueSet
	for i, kv := range vs {
		if kv.typ != typeAny || kv.a == nil {
			continue
		}
		if _, ok := kv.a.(error); ok {
			continue
		}
		if n == nil {
			n = make(ValueSet, len(vs))
			copy(n, vs)
		}
		n[i].a = deepcopy.Copy(kv.a)
	}
	if n == nil {
		return vs
	}
	return n
}
