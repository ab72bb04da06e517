package xopjson

import (
	"context"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopat"
)

// withContext is handed out through xopscope.Downcast so that
// GetStored can reach the field stores without knowing which
// subscriber the Layer is attached to.
type withContext func(d xopscope.Dispatch, id xopscope.ID, key string) (xopat.Value, bool)

// Downcast hands out the Layer itself and its field lookup.
func (l *Layer) Downcast(want interface{}) (interface{}, bool) {
	switch want.(type) {
	case *withContext:
		return l.withContext, true
	case **Layer:
		return l, true
	}
	return nil, false
}

func getStored(d xopscope.Dispatch, id xopscope.ID, key string) (xopat.Value, bool) {
	lookup, ok := d.Subscriber().(xopscope.LookupSpan)
	if !ok {
		panic("xopjson.Layer used with a subscriber that cannot look up spans, this is a bug")
	}
	span, ok := lookup.Span(id)
	if !ok {
		return xopat.Value{}, false
	}
	for _, s := range span.Scope() {
		var v xopat.Value
		var found bool
		s.Extensions(func(e *xopscope.Extensions) {
			if fields, ok := xopscope.Get[*scopeFields](e); ok {
				v, found = fields.Get(key)
			}
		})
		if found {
			return v, true
		}
	}
	return xopat.Value{}, false
}

// GetStored looks for a field on the scope that is current in ctx
// and then on its ancestors, nearest first. It returns false if no
// scope in the chain has the field or if the dispatch in ctx does not
// include a Layer.
func GetStored(ctx context.Context, key string) (xopat.Value, bool) {
	return lookup(xopscope.FromContextOrDefault(ctx), xopscope.CurrentSpan(ctx), key)
}

// GetStoredFromSpan is GetStored starting from a specific scope.
func GetStoredFromSpan(span *xopscope.Span, key string) (xopat.Value, bool) {
	return lookup(span.Dispatch(), span.ID(), key)
}

func lookup(d xopscope.Dispatch, id xopscope.ID, key string) (xopat.Value, bool) {
	if id == 0 {
		return xopat.Value{}, false
	}
	key, ok := xopat.NormalizeKey(key)
	if !ok {
		return xopat.Value{}, false
	}
	f, ok := xopscope.Downcast[withContext](d)
	if !ok {
		return xopat.Value{}, false
	}
	return f(d, id, key)
}
