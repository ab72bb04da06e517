package xopscope

import "fmt"

// Context is handed to every Layer callback. It gives access to the
// scope table and to the scope that was current for the goroutine
// that triggered the callback.
type Context struct {
	lookup  LookupSpan
	current ID
}

// Span looks up a live scope.
func (c Context) Span(id ID) (SpanRef, bool) {
	if c.lookup == nil || id == 0 {
		return SpanRef{}, false
	}
	return c.lookup.Span(id)
}

// MustSpan looks up a scope that the caller knows to be live.
func (c Context) MustSpan(id ID) SpanRef {
	span, ok := c.Span(id)
	if !ok {
		panic(fmt.Sprintf("span %d not found, this is a bug", id))
	}
	return span
}

// LookupCurrent returns the current scope if there is one.
func (c Context) LookupCurrent() (SpanRef, bool) {
	return c.Span(c.current)
}

// EventScope returns the scope an event belongs to: its explicit
// parent if it has one, otherwise the current scope.
func (c Context) EventScope(event *Event) (SpanRef, bool) {
	if event.Parent != 0 {
		return c.Span(event.Parent)
	}
	return c.LookupCurrent()
}
