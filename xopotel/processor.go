package xopotel

import (
	"context"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopnum"

	"github.com/muir/gwrap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	// ExceptionEvent is the OTEL semantic convention name for
	// recorded errors. Such events are logged at ErrorLevel.
	ExceptionEvent = "exception"
)

var _ sdktrace.SpanProcessor = &SpanProcessor{}

type SpanProcessor struct {
	dispatch xopscope.Dispatch
	level    xopnum.Level
	ids      bool
	live     gwrap.SyncMap[oteltrace.SpanID, *liveSpan]
}

type liveSpan struct {
	span    *xopscope.Span
	entered *xopscope.Entered
	ctx     context.Context
}

type Option func(*SpanProcessor)

// WithLevel sets the level of scopes and of span events that are
// not exceptions. The default is InfoLevel.
func WithLevel(level xopnum.Level) Option {
	return func(p *SpanProcessor) {
		p.level = level
	}
}

// WithIDs controls adding "trace.id" and "span.id" fields to each
// scope. The default is true.
func WithIDs(b bool) Option {
	return func(p *SpanProcessor) {
		p.ids = b
	}
}

func NewSpanProcessor(d xopscope.Dispatch, opts ...Option) *SpanProcessor {
	p := &SpanProcessor{
		dispatch: d,
		level:    xopnum.InfoLevel,
		ids:      true,
	}
	for _, f := range opts {
		f(p)
	}
	return p
}

func (p *SpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	ctx := p.dispatch.IntoContext(parent)
	var parentID xopscope.ID
	if s.Parent().IsValid() {
		if ps, ok := p.live.Load(s.Parent().SpanID()); ok {
			parentID = ps.span.ID()
		}
	}
	attrs := s.Attributes()
	kv := make([]xopscope.KeyValue, 0, len(attrs)+3)
	if p.ids {
		sc := s.SpanContext()
		kv = append(kv,
			xopscope.String("trace.id", sc.TraceID().String()),
			xopscope.String("span.id", sc.SpanID().String()))
	}
	if kind := s.SpanKind(); kind != oteltrace.SpanKindUnspecified && kind != oteltrace.SpanKindInternal {
		kv = append(kv, xopscope.String("span.kind", kind.String()))
	}
	for _, a := range attrs {
		kv = append(kv, convert(a))
	}
	md := &xopscope.Metadata{
		Name:   s.Name(),
		Target: s.InstrumentationScope().Name,
		Level:  p.level,
		Kind:   xopscope.KindSpan,
	}
	span := xopscope.NewSpanWithMetadata(ctx, md, parentID, kv...)
	ctx, entered := span.Enter(ctx)
	p.live.Store(s.SpanContext().SpanID(), &liveSpan{
		span:    span,
		entered: entered,
		ctx:     ctx,
	})
}

func (p *SpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	id := s.SpanContext().SpanID()
	ls, ok := p.live.Load(id)
	if !ok {
		return
	}
	p.live.Delete(id)

	attrs := s.Attributes()
	kv := make([]xopscope.KeyValue, 0, len(attrs)+2)
	for _, a := range attrs {
		kv = append(kv, convert(a))
	}
	if status := s.Status(); status.Code != codes.Unset {
		kv = append(kv, xopscope.String("status.code", status.Code.String()))
		if status.Description != "" {
			kv = append(kv, xopscope.String("status.description", status.Description))
		}
	}
	if len(kv) != 0 {
		ls.span.Record(ls.ctx, kv...)
	}

	target := s.InstrumentationScope().Name
	for _, ev := range s.Events() {
		level := p.level
		if ev.Name == ExceptionEvent {
			level = xopnum.ErrorLevel
		}
		values := make(xopscope.ValueSet, 0, len(ev.Attributes)+1)
		values = append(values, xopscope.String(xopscope.MessageKey, ev.Name))
		for _, a := range ev.Attributes {
			values = append(values, convert(a))
		}
		xopscope.EmitEvent(ls.ctx, &xopscope.Event{
			Metadata: &xopscope.Metadata{
				Name:   ev.Name,
				Target: target,
				Level:  level,
				Kind:   xopscope.KindEvent,
			},
			Values: values,
			Parent: ls.span.ID(),
		})
	}
	ls.entered.Exit()
	ls.span.Close()
}

// Shutdown closes the scopes of OTEL spans that never ended.
func (p *SpanProcessor) Shutdown(context.Context) error {
	p.live.Range(func(id oteltrace.SpanID, ls *liveSpan) bool {
		p.live.Delete(id)
		ls.entered.Exit()
		ls.span.Close()
		return true
	})
	return nil
}

func (p *SpanProcessor) ForceFlush(context.Context) error { return nil }

func convert(a attribute.KeyValue) xopscope.KeyValue {
	k := string(a.Key)
	switch a.Value.Type() {
	case attribute.BOOL:
		return xopscope.Bool(k, a.Value.AsBool())
	case attribute.INT64:
		return xopscope.Int64(k, a.Value.AsInt64())
	case attribute.FLOAT64:
		return xopscope.Float64(k, a.Value.AsFloat64())
	case attribute.STRING:
		return xopscope.String(k, a.Value.AsString())
	default:
		return xopscope.String(k, a.Value.Emit())
	}
}
