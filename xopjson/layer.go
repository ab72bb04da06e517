package xopjson

import (
	"strings"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopat"
	"github.com/xoplog/xopscope/xopbytes"
	"github.com/xoplog/xopscope/xoputil"

	"github.com/google/uuid"
)

const (
	maxBufferToKeep = 1024 * 10
	minBuffer       = 1024
)

// scopeFields is the per-scope field store kept in the scope's
// extensions.
type scopeFields struct {
	xopat.Fields
}

// New creates a Layer that writes to w. The name is included in
// every record as "source.name".
func New(name string, w xopbytes.MakeWriter, opts ...Option) *Layer {
	l := &Layer{
		name:          strings.ToValidUTF8(name, "\uFFFD"),
		writer:        w,
		id:            uuid.New(),
		elapsed:       true,
		spanRecords:   true,
		pid:           defaultPID(),
		errorReporter: func(error) {},
	}
	for _, f := range opts {
		f(l)
	}
	l.buildStatic(xoputil.NewPrealloc(l.preallocatedKeys[:]))
	l.builderPool.New = func() interface{} {
		return &builder{
			JBuilder: xoputil.JBuilder{
				B: make([]byte, 0, minBuffer),
			},
			layer: l,
		}
	}
	l.withContext = getStored
	return l
}

func (l *Layer) ID() string                  { return l.id.String() }
func (l *Layer) Name() string                { return l.name }
func (l *Layer) Writer() xopbytes.MakeWriter { return l.writer }

func (l *Layer) OnNewSpan(attrs *xopscope.Attributes, id xopscope.ID, ctx xopscope.Context) {
	span := ctx.MustSpan(id)
	fields := &scopeFields{}
	attrs.Values.Record(&fields.Fields)
	span.Extensions(func(e *xopscope.Extensions) {
		xopscope.Insert(e, fields)
	})
	if l.spanRecords {
		l.lifecycle(span, typeStart, 0)
	}
}

func (l *Layer) OnRecord(id xopscope.ID, values xopscope.ValueSet, ctx xopscope.Context) {
	span := ctx.MustSpan(id)
	// formatting Any values can run user code that logs in this scope
	var recorded xopat.Fields
	values.Record(&recorded)
	span.Extensions(func(e *xopscope.Extensions) {
		fields, ok := xopscope.Get[*scopeFields](e)
		if !ok {
			panic("fields missing from span " + id.String() + ", this is a bug")
		}
		fields.Merge(&recorded)
	})
}

func (l *Layer) OnEnter(id xopscope.ID, ctx xopscope.Context) {
	attachIfAbsent(ctx.MustSpan(id))
}

func (l *Layer) OnExit(xopscope.ID, xopscope.Context) {}

func (l *Layer) OnEvent(event *xopscope.Event, ctx xopscope.Context) {
	var own xopat.Fields
	event.Values.Record(&own)
	title := event.Metadata.Name
	if msg, ok := own.Get(xopscope.MessageKey); ok {
		if str, ok := msg.Str(); ok {
			title = str
		}
	}

	b := l.builder()
	defer b.reclaim()
	b.header(event.Metadata, title, typeEvent)
	parent, hasParent := ctx.EventScope(event)
	if hasParent {
		b.AddUncheckedKey("span")
		b.AddString(parent.Name())
	}
	b.source(event.Metadata)
	if hasParent {
		b.ancestors(parent.ScopeFromRoot())
	}
	own.Range(func(k string, v xopat.Value) bool {
		if k != xopscope.MessageKey {
			b.field(k, v)
		}
		return true
	})
	b.AppendBytes([]byte{'}', '\n'})
	l.write(b)
}

func (l *Layer) OnClose(id xopscope.ID, ctx xopscope.Context) {
	span := ctx.MustSpan(id)
	elapsed := elapsedSinceStart(span)
	if l.spanRecords {
		l.lifecycle(span, typeEnd, elapsed)
	}
}
