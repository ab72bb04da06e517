package xopjson

import (
	"time"

	"github.com/xoplog/xopscope"
)

// startTime is when a scope was first entered. It carries a monotonic
// clock reading.
type startTime time.Time

// attachIfAbsent records the start time on the first enter only.
func attachIfAbsent(span xopscope.SpanRef) {
	span.Extensions(func(e *xopscope.Extensions) {
		if _, ok := xopscope.Get[startTime](e); !ok {
			xopscope.Insert(e, startTime(time.Now()))
		}
	})
}

// elapsedSinceStart panics if the span was never entered.
func elapsedSinceStart(span xopscope.SpanRef) time.Duration {
	var start startTime
	var ok bool
	span.Extensions(func(e *xopscope.Extensions) {
		start, ok = xopscope.Get[startTime](e)
	})
	if !ok {
		panic("span " + span.Name() + " closed without having been entered, this is a bug")
	}
	return time.Since(time.Time(start))
}
