package xopscope

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/xoplog/xopscope/xopnum"
)

// Span is the instrumentation handle for one scope. A Span created
// while the Dispatch discards everything has a zero ID and all of its
// methods do nothing.
type Span struct {
	dispatch Dispatch
	id       ID
	closer   sync.Once
	closed   atomic.Bool
	started  *Entered
}

// NewSpan creates a scope as a child of the scope current in ctx.
// The scope is not entered.
func NewSpan(ctx context.Context, level xopnum.Level, name string, kv ...KeyValue) *Span {
	return newSpan(ctx, NewMetadata(KindSpan, level, name, 1), 0, false, kv)
}

// NewRootSpan creates a scope with no parent.
func NewRootSpan(ctx context.Context, level xopnum.Level, name string, kv ...KeyValue) *Span {
	return newSpan(ctx, NewMetadata(KindSpan, level, name, 1), 0, true, kv)
}

// NewSpanWithMetadata is for bridges that describe their own call
// sites. The parent may be zero.
func NewSpanWithMetadata(ctx context.Context, md *Metadata, parent ID, kv ...KeyValue) *Span {
	return newSpan(ctx, md, parent, false, kv)
}

func newSpan(ctx context.Context, md *Metadata, parent ID, root bool, kv []KeyValue) *Span {
	d := FromContextOrDefault(ctx)
	return &Span{
		dispatch: d,
		id: d.newSpan(ctx, &Attributes{
			Metadata: md,
			Values:   kv,
			Parent:   parent,
			Root:     root,
		}),
	}
}

// StartSpan creates an Info level scope, enters it, and returns a
// context in which it is current. Call End when done.
//
//	ctx, span := xopscope.StartSpan(ctx, "fetch", xopscope.String("url", u))
//	defer span.End()
func StartSpan(ctx context.Context, name string, kv ...KeyValue) (context.Context, *Span) {
	s := newSpan(ctx, NewMetadata(KindSpan, xopnum.InfoLevel, name, 1), 0, false, kv)
	ctx, s.started = s.Enter(ctx)
	return ctx, s
}

func (s *Span) ID() ID             { return s.id }
func (s *Span) Dispatch() Dispatch { return s.dispatch }

// Context returns a context in which s is current without entering
// it. Events logged with that context are attributed to s.
func (s *Span) Context(ctx context.Context) context.Context {
	if s.id.IsZero() {
		return ctx
	}
	return withCurrent(s.dispatch.IntoContext(ctx), s.id)
}

// Enter marks the scope active. A scope may be entered many times,
// including concurrently. Each Enter must be matched by an Exit.
// Entering a closed handle does nothing.
func (s *Span) Enter(ctx context.Context) (context.Context, *Entered) {
	ctx = s.Context(ctx)
	if s.closed.Load() {
		return ctx, &Entered{span: s, ctx: ctx}
	}
	s.dispatch.enter(ctx, s.id)
	return ctx, &Entered{span: s, ctx: ctx}
}

// Record adds fields to the scope. It does nothing once the handle
// is closed.
func (s *Span) Record(ctx context.Context, kv ...KeyValue) {
	if s.closed.Load() {
		return
	}
	s.dispatch.record(ctx, s.id, kv)
}

// Event logs an event whose parent is s regardless of what is
// current in ctx.
func (s *Span) Event(ctx context.Context, level xopnum.Level, msg string, kv ...KeyValue) {
	if s.id.IsZero() || s.closed.Load() {
		return
	}
	logEvent(ctx, s.dispatch, s.id, level, msg, kv)
}

// Close releases the handle. Closing twice is harmless. The scope
// closes for good once its children have closed too.
func (s *Span) Close() {
	s.closer.Do(func() {
		s.closed.Store(true)
		s.dispatch.close(context.Background(), s.id)
	})
}

// End exits the scope if it was entered by StartSpan, then closes it.
func (s *Span) End() {
	if s.started != nil {
		s.started.Exit()
	}
	s.Close()
}

// Entered is returned by Span.Enter.
type Entered struct {
	span *Span
	ctx  context.Context
	once sync.Once
}

// Exit marks the scope inactive for this entry. Exiting after the
// handle is closed does nothing.
func (e *Entered) Exit() {
	e.once.Do(func() {
		if e.span.closed.Load() {
			return
		}
		e.span.dispatch.exit(e.ctx, e.span.id)
	})
}

// Log records an event in the scope that is current in ctx.
func Log(ctx context.Context, level xopnum.Level, msg string, kv ...KeyValue) {
	logEvent(ctx, FromContextOrDefault(ctx), 0, level, msg, kv)
}

func Trace(ctx context.Context, msg string, kv ...KeyValue) {
	logEvent(ctx, FromContextOrDefault(ctx), 0, xopnum.TraceLevel, msg, kv)
}

func Debug(ctx context.Context, msg string, kv ...KeyValue) {
	logEvent(ctx, FromContextOrDefault(ctx), 0, xopnum.DebugLevel, msg, kv)
}

func Info(ctx context.Context, msg string, kv ...KeyValue) {
	logEvent(ctx, FromContextOrDefault(ctx), 0, xopnum.InfoLevel, msg, kv)
}

func Warn(ctx context.Context, msg string, kv ...KeyValue) {
	logEvent(ctx, FromContextOrDefault(ctx), 0, xopnum.WarnLevel, msg, kv)
}

func Error(ctx context.Context, msg string, kv ...KeyValue) {
	logEvent(ctx, FromContextOrDefault(ctx), 0, xopnum.ErrorLevel, msg, kv)
}

// MessageKey is the field that holds an event's message.
const MessageKey = "message"

func logEvent(ctx context.Context, d Dispatch, parent ID, level xopnum.Level, msg string, kv []KeyValue) {
	if d.IsNone() {
		return
	}
	values := make(ValueSet, 0, len(kv)+1)
	if msg != "" {
		values = append(values, String(MessageKey, msg))
	}
	values = append(values, kv...)
	d.event(ctx, &Event{
		Metadata: NewMetadata(KindEvent, level, "", 2),
		Values:   values,
		Parent:   parent,
	})
}

// EmitEvent is for bridges that describe their own call sites.
func EmitEvent(ctx context.Context, event *Event) {
	FromContextOrDefault(ctx).event(ctx, event)
}
