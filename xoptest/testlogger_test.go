package xoptest_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopjson"
	"github.com/xoplog/xopscope/xoprecorder"
	"github.com/xoplog/xopscope/xoptest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

type fakeT struct {
	name     string
	mu       sync.Mutex
	logged   []string
	cleanups []func()
}

func (f *fakeT) Log(args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var parts []string
	for _, a := range args {
		if s, ok := a.(string); ok {
			parts = append(parts, s)
		} else {
			parts = append(parts, "?")
		}
	}
	f.logged = append(f.logged, strings.Join(parts, " "))
}
func (f *fakeT) Name() string      { return f.name }
func (f *fakeT) Cleanup(fn func()) { f.cleanups = append(f.cleanups, fn) }

func TestLoggerWritesJSONToT(t *testing.T) {
	ft := &fakeT{name: "fake"}
	tlog := xoptest.New(ft)
	ctx := tlog.Context(context.Background())
	sctx, span := xopscope.StartSpan(ctx, "request", xopscope.String("path", "/yak"))
	xopscope.Info(sctx, "shaving")
	span.End()

	require.Len(t, ft.logged, 3)
	for _, line := range ft.logged {
		assert.False(t, strings.HasSuffix(line, "\n"))
		v, err := fastjson.Parse(line)
		require.NoError(t, err, line)
		assert.Equal(t, "fake", string(v.GetStringBytes("source.name")))
		assert.Equal(t, "/yak", string(v.GetStringBytes("path")))
	}
	assert.Equal(t, 1, tlog.CountLines(xoprecorder.MessageEquals("shaving")))
	assert.Len(t, tlog.FindLines(xoprecorder.TextContains("shaving")), 1)

	v, ok := xopjson.GetStored(sctx, "path")
	require.True(t, ok)
	assert.Equal(t, "/yak", v.StringBody())
	assert.Empty(t, tlog.Errors())

	for _, fn := range ft.cleanups {
		fn()
	}
	assert.Len(t, ft.logged, 3, "nothing left open")
}

func TestLoggerReportsDroppedRecords(t *testing.T) {
	tlog := xoptest.New(t)
	ctx := tlog.Context(context.Background())
	xopscope.Info(ctx, "bad", xopscope.String("s", "\xff"))
	assert.Len(t, tlog.Errors(), 1)
	assert.Equal(t, 1, tlog.CountLines(xoprecorder.MessageEquals("bad")), "recorder still has it")
}

func TestLoggerExtraLayers(t *testing.T) {
	extra := xoprecorder.New()
	tlog := xoptest.New(t, extra)
	tlog.CustomEvent("hello %s", "there")
	ctx := tlog.Context(context.Background())
	xopscope.Debug(ctx, "both")
	assert.Len(t, extra.FindLines(xoprecorder.MessageEquals("both")), 1)
	assert.Len(t, tlog.Recorder().CopyEvents(), 2)
	layer, ok := xopscope.Downcast[*xopjson.Layer](tlog.Dispatch())
	assert.True(t, ok)
	assert.Same(t, tlog.JSON(), layer)
	assert.Equal(t, 0, tlog.Registry().Len())
}
