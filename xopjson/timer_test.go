package xopjson

import (
	"context"
	"testing"
	"time"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopbytes"
	"github.com/xoplog/xopscope/xopnum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTimeAttachedOnce(t *testing.T) {
	r := xopscope.NewRegistry(xopscope.WithLayer(New("timer", xopbytes.Discard())))
	ctx := xopscope.NewDispatch(r).IntoContext(context.Background())
	span := xopscope.NewSpan(ctx, xopnum.InfoLevel, "timed")
	ref, ok := r.Span(span.ID())
	require.True(t, ok)

	start := func() (startTime, bool) {
		var st startTime
		var ok bool
		ref.Extensions(func(e *xopscope.Extensions) {
			st, ok = xopscope.Get[startTime](e)
		})
		return st, ok
	}

	_, ok = start()
	assert.False(t, ok, "not entered yet")
	assert.Panics(t, func() { elapsedSinceStart(ref) })

	_, e1 := span.Enter(ctx)
	first, ok := start()
	require.True(t, ok)
	e1.Exit()

	time.Sleep(2 * time.Millisecond)
	_, e2 := span.Enter(ctx)
	second, ok := start()
	require.True(t, ok)
	e2.Exit()
	assert.True(t, time.Time(first).Equal(time.Time(second)), "re-entry keeps the first start")
	assert.GreaterOrEqual(t, elapsedSinceStart(ref), 2*time.Millisecond)

	span.Close()
}

func TestBuilderPoolDropsLargeBuffers(t *testing.T) {
	l := New("pool", xopbytes.Discard())
	b := l.builder()
	b.AppendBytes(make([]byte, maxBufferToKeep+1))
	b.reclaim()
	b = l.builder()
	assert.Empty(t, b.B)
	assert.Nil(t, b.Err)
	b.reclaim()
}
