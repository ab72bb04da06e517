package xopscope

import "reflect"

// Extensions holds per-scope data owned by layers, one slot per Go
// type. Layers should use unexported types so that slots never collide.
//
// An Extensions is only reachable inside SpanRef.Extensions and must
// not be retained after that callback returns.
type Extensions struct {
	slots map[reflect.Type]interface{}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Insert stores v, replacing any earlier value of the same type.
func Insert[T any](e *Extensions, v T) {
	if e.slots == nil {
		e.slots = make(map[reflect.Type]interface{})
	}
	e.slots[typeOf[T]()] = v
}

// Get returns the value of type T if one has been stored.
func Get[T any](e *Extensions) (T, bool) {
	v, ok := e.slots[typeOf[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Remove deletes and returns the value of type T.
func Remove[T any](e *Extensions) (T, bool) {
	v, ok := Get[T](e)
	if ok {
		delete(e.slots, typeOf[T]())
	}
	return v, ok
}

func (e *Extensions) Len() int { return len(e.slots) }

func (e *Extensions) clear() { e.slots = nil }
