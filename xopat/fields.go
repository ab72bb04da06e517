package xopat

import (
	"fmt"
	"sort"
)

// Fields is an ordered store of field values for one scope or one
// event. It is not safe for concurrent use: the host engine serializes
// access to the Fields attached to a scope.
type Fields struct {
	keys   []string // sorted
	values map[string]Value
}

func NewFields() *Fields {
	return &Fields{
		values: make(map[string]Value),
	}
}

// Record stores v under k after applying NormalizeKey.  An existing
// value under the same key is replaced.
func (f *Fields) Record(k string, v Value) {
	k, ok := NormalizeKey(k)
	if !ok {
		return
	}
	f.set(k, v)
}

// Merge copies the values of other into f. Keys in other were
// normalized when they were recorded and are not normalized again.
func (f *Fields) Merge(other *Fields) {
	for _, k := range other.keys {
		f.set(k, other.values[k])
	}
}

func (f *Fields) set(k string, v Value) {
	if f.values == nil {
		f.values = make(map[string]Value)
	}
	if _, exists := f.values[k]; !exists {
		i := sort.SearchStrings(f.keys, k)
		f.keys = append(f.keys, "")
		copy(f.keys[i+1:], f.keys[i:])
		f.keys[i] = k
	}
	f.values[k] = v
}

func (f *Fields) Get(k string) (Value, bool) {
	v, ok := f.values[k]
	return v, ok
}

func (f *Fields) Len() int { return len(f.keys) }

// Keys returns the keys in sorted order.  Do not modify the slice.
func (f *Fields) Keys() []string { return f.keys }

// Range calls fn for each field in key order until fn returns false.
func (f *Fields) Range(fn func(k string, v Value) bool) {
	for _, k := range f.keys {
		if !fn(k, f.values[k]) {
			return
		}
	}
}

// Snapshot returns an independent copy.
func (f *Fields) Snapshot() *Fields {
	n := &Fields{
		keys:   make([]string, len(f.keys)),
		values: make(map[string]Value, len(f.values)),
	}
	copy(n.keys, f.keys)
	for k, v := range f.values {
		n.values[k] = v
	}
	return n
}

// Map returns the fields as plain Go values.
func (f *Fields) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(f.values))
	for k, v := range f.values {
		m[k] = v.Any()
	}
	return m
}

func (f *Fields) RecordInt64(k string, v int64)     { f.Record(k, Int64Value(v)) }
func (f *Fields) RecordUint64(k string, v uint64)   { f.Record(k, Uint64Value(v)) }
func (f *Fields) RecordFloat64(k string, v float64) { f.Record(k, Float64Value(v)) }
func (f *Fields) RecordBool(k string, v bool)       { f.Record(k, BoolValue(v)) }
func (f *Fields) RecordString(k string, v string)   { f.Record(k, StringValue(v)) }

// RecordAny stores the %+v rendering of v.
func (f *Fields) RecordAny(k string, v interface{}) {
	f.Record(k, StringValue(fmt.Sprintf("%+v", v)))
}
