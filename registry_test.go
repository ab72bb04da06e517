package xopscope_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopnum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type callLog struct {
	xopscope.NopLayer
	mu     sync.Mutex
	calls  []string
	events []*xopscope.Event
	keep   bool
	attrs  map[xopscope.ID]*xopscope.Attributes
}

func (c *callLog) add(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

func (c *callLog) name(ctx xopscope.Context, id xopscope.ID) string {
	return ctx.MustSpan(id).Name()
}

func (c *callLog) OnNewSpan(attrs *xopscope.Attributes, id xopscope.ID, ctx xopscope.Context) {
	c.mu.Lock()
	if c.attrs == nil {
		c.attrs = make(map[xopscope.ID]*xopscope.Attributes)
	}
	c.attrs[id] = attrs
	c.mu.Unlock()
	c.add("new %s", attrs.Metadata.Name)
}

func (c *callLog) OnRecord(id xopscope.ID, values xopscope.ValueSet, ctx xopscope.Context) {
	c.add("record %s %d", c.name(ctx, id), values.Len())
}

func (c *callLog) OnEnter(id xopscope.ID, ctx xopscope.Context) {
	c.add("enter %s", c.name(ctx, id))
}

func (c *callLog) OnExit(id xopscope.ID, ctx xopscope.Context) {
	c.add("exit %s", c.name(ctx, id))
}

func (c *callLog) OnEvent(event *xopscope.Event, ctx xopscope.Context) {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
	scope := "none"
	if span, ok := ctx.EventScope(event); ok {
		scope = span.Name()
	}
	c.add("event in %s", scope)
}

func (c *callLog) OnClose(id xopscope.ID, ctx xopscope.Context) {
	c.add("close %s", c.name(ctx, id))
}

func (c *callLog) ReferencesKept() bool { return c.keep }

func setup(layers ...xopscope.Layer) (context.Context, *xopscope.Registry) {
	opts := make([]xopscope.RegistryOption, len(layers))
	for i, l := range layers {
		opts[i] = xopscope.WithLayer(l)
	}
	r := xopscope.NewRegistry(opts...)
	return xopscope.NewDispatch(r).IntoContext(context.Background()), r
}

func TestLifecycleOrder(t *testing.T) {
	cl := &callLog{}
	ctx, r := setup(cl)
	octx, outer := xopscope.StartSpan(ctx, "outer", xopscope.Int("a", 2))
	xopscope.Info(octx, "pre")
	ictx, inner := xopscope.StartSpan(octx, "inner")
	inner.Record(ictx, xopscope.Int("b", 3), xopscope.Bool("skipped", false))
	xopscope.Info(ictx, "during")
	outer.End()
	assert.Equal(t, 2, r.Len(), "outer waits for inner")
	inner.End()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, []string{
		"new outer",
		"enter outer",
		"event in outer",
		"new inner",
		"enter inner",
		"record inner 2",
		"event in inner",
		"exit outer",
		"exit inner",
		"close inner",
		"close outer",
	}, cl.calls)
}

func TestParentResolution(t *testing.T) {
	cl := &callLog{}
	ctx, r := setup(cl)
	octx, outer := xopscope.StartSpan(ctx, "outer")
	defer outer.End()

	child := xopscope.NewSpan(octx, xopnum.DebugLevel, "child")
	defer child.Close()
	root := xopscope.NewRootSpan(octx, xopnum.DebugLevel, "root")
	defer root.Close()
	explicit := xopscope.NewSpanWithMetadata(ctx, xopscope.NewMetadata(xopscope.KindSpan, xopnum.InfoLevel, "explicit", 0), child.ID())
	defer explicit.Close()

	ref, ok := r.Span(child.ID())
	require.True(t, ok)
	assert.Equal(t, outer.ID(), ref.ParentID())
	assert.Equal(t, xopnum.DebugLevel, ref.Metadata().Level)

	ref, ok = r.Span(root.ID())
	require.True(t, ok)
	assert.Equal(t, xopscope.ID(0), ref.ParentID())

	ref, ok = r.Span(explicit.ID())
	require.True(t, ok)
	assert.Equal(t, child.ID(), ref.ParentID())
	assert.Equal(t, child.ID(), cl.attrs[explicit.ID()].Parent, "layers see the resolved parent")

	var names []string
	for _, s := range ref.ScopeFromRoot() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"outer", "child", "explicit"}, names)
	names = nil
	for _, s := range ref.Scope() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"explicit", "child", "outer"}, names)
}

func TestEventMetadata(t *testing.T) {
	cl := &callLog{}
	ctx, _ := setup(cl)
	xopscope.Warn(ctx, "careful", xopscope.String("k", "v"))
	require.Len(t, cl.events, 1)
	ev := cl.events[0]
	assert.Equal(t, xopnum.WarnLevel, ev.Metadata.Level)
	assert.Equal(t, "registry_test.go", filepath.Base(ev.Metadata.File))
	assert.NotZero(t, ev.Metadata.Line)
	assert.Equal(t, "github.com/xoplog/xopscope_test", ev.Metadata.Target)
	assert.True(t, ev.Metadata.IsEvent())
	msg, ok := ev.Values.Get(xopscope.MessageKey)
	require.True(t, ok)
	assert.Equal(t, "careful", msg.Value())
	assert.Equal(t, []string{"event in none"}, cl.calls)
}

func TestExplicitEventParent(t *testing.T) {
	cl := &callLog{}
	ctx, _ := setup(cl)
	other := xopscope.NewSpan(ctx, xopnum.InfoLevel, "other")
	defer other.Close()
	octx, outer := xopscope.StartSpan(ctx, "outer")
	defer outer.End()
	other.Event(octx, xopnum.InfoLevel, "hi")
	assert.Equal(t, "event in other", cl.calls[len(cl.calls)-1])
}

func TestCloseIdempotent(t *testing.T) {
	cl := &callLog{}
	ctx, r := setup(cl)
	s := xopscope.NewSpan(ctx, xopnum.InfoLevel, "once")
	s.Close()
	s.Close()
	assert.Equal(t, []string{"new once", "close once"}, cl.calls)
	assert.Equal(t, 0, r.Len())
}

func TestUseAfterClose(t *testing.T) {
	cl := &callLog{}
	ctx, _ := setup(cl)
	s := xopscope.NewSpan(ctx, xopnum.InfoLevel, "gone")
	s.Close()
	assert.NotPanics(t, func() {
		s.Record(ctx, xopscope.Int("late", 1))
		s.Event(ctx, xopnum.InfoLevel, "late")
		ectx, entered := s.Enter(ctx)
		xopscope.Info(ectx, "orphan")
		entered.Exit()
		s.End()
	})
	assert.Equal(t, []string{"new gone", "close gone", "event in none"}, cl.calls)
}

func TestUnknownSpanPanics(t *testing.T) {
	ctx, r := setup(&callLog{})
	assert.Panics(t, func() { r.Record(ctx, 12345, nil) })
	assert.Panics(t, func() { r.Close(ctx, 12345) })
}

func TestDiscardingDispatch(t *testing.T) {
	ctx := xopscope.Dispatch{}.IntoContext(context.Background())
	ctx, span := xopscope.StartSpan(ctx, "nothing")
	assert.Equal(t, xopscope.ID(0), span.ID())
	xopscope.Info(ctx, "dropped")
	span.Record(ctx, xopscope.Int("x", 1))
	span.End()
}

func TestExtensions(t *testing.T) {
	type slotA struct{ n int }
	type slotB string
	ctx, r := setup(&callLog{})
	s := xopscope.NewSpan(ctx, xopnum.InfoLevel, "ext")
	defer s.Close()
	ref, ok := r.Span(s.ID())
	require.True(t, ok)
	ref.Extensions(func(e *xopscope.Extensions) {
		_, ok := xopscope.Get[*slotA](e)
		assert.False(t, ok)
		xopscope.Insert(e, &slotA{n: 1})
		xopscope.Insert(e, slotB("b"))
	})
	ref.Extensions(func(e *xopscope.Extensions) {
		a, ok := xopscope.Get[*slotA](e)
		require.True(t, ok)
		assert.Equal(t, 1, a.n)
		b, ok := xopscope.Remove[slotB](e)
		assert.True(t, ok)
		assert.Equal(t, slotB("b"), b)
		assert.Equal(t, 1, e.Len())
	})
}

type answerLayer struct {
	xopscope.NopLayer
}

type answerFunc func() int

func (answerLayer) Downcast(want interface{}) (interface{}, bool) {
	if _, ok := want.(*answerFunc); ok {
		return answerFunc(func() int { return 42 }), true
	}
	return nil, false
}

func TestDowncast(t *testing.T) {
	ctx, r := setup(&callLog{}, answerLayer{})
	d := xopscope.FromContextOrPanic(ctx)

	reg, ok := xopscope.Downcast[*xopscope.Registry](d)
	assert.True(t, ok)
	assert.Same(t, r, reg)

	_, ok = xopscope.Downcast[xopscope.LookupSpan](d)
	assert.True(t, ok)

	f, ok := xopscope.Downcast[answerFunc](d)
	require.True(t, ok)
	assert.Equal(t, 42, f())

	_, ok = xopscope.Downcast[func() string](d)
	assert.False(t, ok)

	_, ok = xopscope.Downcast[*xopscope.Registry](xopscope.Dispatch{})
	assert.False(t, ok)
}

func TestReferencesKept(t *testing.T) {
	cl := &callLog{keep: true}
	ctx, _ := setup(cl)
	m := map[string]int{"a": 1}
	xopscope.Info(ctx, "copy", xopscope.Any("m", m))
	m["a"] = 2
	v, ok := cl.events[0].Values.Get("m")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"a": 1}, v.Value())
}

func TestConcurrentChildren(t *testing.T) {
	cl := &callLog{}
	ctx, r := setup(cl)
	pctx, parent := xopscope.StartSpan(ctx, "parent")
	children := make([]*xopscope.Span, 20)
	for i := range children {
		children[i] = xopscope.NewSpan(pctx, xopnum.DebugLevel, "child", xopscope.Int("i", i))
	}
	parent.End()
	var wg sync.WaitGroup
	for _, child := range children {
		wg.Add(1)
		go func(child *xopscope.Span) {
			defer wg.Done()
			cctx, entered := child.Enter(pctx)
			xopscope.Debug(cctx, "working")
			entered.Exit()
			child.Close()
		}(child)
	}
	wg.Wait()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, "close parent", cl.calls[len(cl.calls)-1])
}

// parentCheck fails when a new scope is linked to a parent that has
// already closed.
type parentCheck struct {
	xopscope.NopLayer
	dead int32
}

func (p *parentCheck) OnNewSpan(attrs *xopscope.Attributes, id xopscope.ID, ctx xopscope.Context) {
	if attrs.Parent == 0 {
		return
	}
	if _, ok := ctx.Span(attrs.Parent); !ok {
		atomic.AddInt32(&p.dead, 1)
	}
}

func TestChildStartRacingParentEnd(t *testing.T) {
	pc := &parentCheck{}
	ctx, r := setup(pc)
	for i := 0; i < 500; i++ {
		pctx, parent := xopscope.StartSpan(ctx, "parent")
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			cctx, child := xopscope.StartSpan(pctx, "child")
			xopscope.Debug(cctx, "working")
			child.End()
		}()
		go func() {
			defer wg.Done()
			parent.End()
		}()
		wg.Wait()
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&pc.dead))
	assert.Equal(t, 0, r.Len())
}
