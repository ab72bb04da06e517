/*
Package xoprecorder provides an introspective xopscope.Layer. All
scopes and events are saved to memory and can be examined. Memory is
only freed when the recorder is cleaned up with garbage collection.
*/
package xoprecorder

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/internal/util/generic"
	"github.com/xoplog/xopscope/xopnum"

	"github.com/google/uuid"
	"github.com/muir/list"
)

type EventType int

const (
	LineEvent   EventType = iota // line
	SpanStart                    // spanStart
	SpanEnter                    // spanEnter
	SpanExit                     // spanExit
	SpanRecord                   // spanRecord
	SpanDone                     // spanDone
	CustomEvent                  // custom
)

var eventTypeNames = []string{"line", "spanStart", "spanEnter", "spanExit", "spanRecord", "spanDone", "custom"}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return fmt.Sprintf("EventType(%d)", int(t))
	}
	return eventTypeNames[t]
}

var (
	_ xopscope.Layer           = &Recorder{}
	_ xopscope.ReferenceKeeper = &Recorder{}
)

func New() *Recorder {
	return &Recorder{
		id:        "xoprecorder-" + uuid.New().String(),
		SpanIndex: make(map[xopscope.ID]*Span),
	}
}

type Recorder struct {
	lock      sync.Mutex
	Spans     []*Span
	Lines     []*Line
	Events    []*Event
	SpanIndex map[xopscope.ID]*Span // live and closed spans
	id        string
}

type Span struct {
	ID         xopscope.ID
	Parent     *Span // nil for root spans
	Name       string
	Metadata   *xopscope.Metadata
	Data       map[string]interface{}
	Spans      []*Span
	Lines      []*Line
	StartTime  time.Time
	EndTime    time.Time
	EnterCount int
	Closed     bool
}

type Line struct {
	Span      *Span // nil for events outside of any scope
	Level     xopnum.Level
	Metadata  *xopscope.Metadata
	Message   string
	Data      map[string]interface{}
	Timestamp time.Time
}

// Copy returns a Line whose Data can be modified independently.
func (l Line) Copy() Line {
	l.Data = generic.CopyMap(l.Data)
	return l
}

// Text is the message followed by the data in key order.
func (l Line) Text() string {
	var b strings.Builder
	b.WriteString(l.Message)
	for _, k := range generic.SortedKeys(l.Data) {
		fmt.Fprintf(&b, " %s=%v", k, l.Data[k])
	}
	return b.String()
}

type Event struct {
	Type   EventType
	Line   *Line
	Span   *Span
	Msg    string
	Values xopscope.ValueSet
}

// dataVisitor stores values as plain Go values.
type dataVisitor map[string]interface{}

func (d dataVisitor) RecordInt64(k string, v int64)     { d[k] = v }
func (d dataVisitor) RecordUint64(k string, v uint64)   { d[k] = v }
func (d dataVisitor) RecordFloat64(k string, v float64) { d[k] = v }
func (d dataVisitor) RecordBool(k string, v bool)       { d[k] = v }
func (d dataVisitor) RecordString(k string, v string)   { d[k] = v }
func (d dataVisitor) RecordAny(k string, v interface{}) { d[k] = v }

// WithLock is provided for thread-safe introspection of the recorder
func (rec *Recorder) WithLock(f func(*Recorder) error) error {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	return f(rec)
}

func (rec *Recorder) CustomEvent(msg string, args ...interface{}) {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	rec.Events = append(rec.Events, &Event{
		Type: CustomEvent,
		Msg:  fmt.Sprintf(msg, args...),
	})
}

func (rec *Recorder) ID() string { return rec.id }

// ReferencesKept is true: Any values are kept as given.
func (rec *Recorder) ReferencesKept() bool { return true }

// CopyLines returns a snapshot of the lines recorded so far. The
// Data of each copy can be modified independently.
func (rec *Recorder) CopyLines() []*Line {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	lines := make([]*Line, len(rec.Lines))
	for i, line := range rec.Lines {
		c := line.Copy()
		lines[i] = &c
	}
	return lines
}

// CopyEvents returns a snapshot of the events recorded so far.
func (rec *Recorder) CopyEvents() []*Event {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	return list.Copy(rec.Events)
}

func (rec *Recorder) OnNewSpan(attrs *xopscope.Attributes, id xopscope.ID, _ xopscope.Context) {
	data := make(dataVisitor)
	attrs.Values.Record(data)
	s := &Span{
		ID:        id,
		Name:      attrs.Metadata.Name,
		Metadata:  attrs.Metadata,
		Data:      data,
		StartTime: time.Now(),
	}
	rec.lock.Lock()
	defer rec.lock.Unlock()
	if parent, ok := rec.SpanIndex[attrs.Parent]; ok && attrs.Parent != 0 {
		s.Parent = parent
		parent.Spans = append(parent.Spans, s)
	}
	rec.Spans = append(rec.Spans, s)
	rec.SpanIndex[id] = s
	rec.Events = append(rec.Events, &Event{
		Type:   SpanStart,
		Span:   s,
		Values: attrs.Values,
	})
}

func (rec *Recorder) span(id xopscope.ID) *Span {
	s, ok := rec.SpanIndex[id]
	if !ok {
		panic(fmt.Sprintf("xoprecorder: span %d was not recorded, this is a bug", id))
	}
	return s
}

func (rec *Recorder) OnRecord(id xopscope.ID, values xopscope.ValueSet, _ xopscope.Context) {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	s := rec.span(id)
	values.Record(dataVisitor(s.Data))
	rec.Events = append(rec.Events, &Event{
		Type:   SpanRecord,
		Span:   s,
		Values: values,
	})
}

func (rec *Recorder) OnEnter(id xopscope.ID, _ xopscope.Context) {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	s := rec.span(id)
	s.EnterCount++
	rec.Events = append(rec.Events, &Event{
		Type: SpanEnter,
		Span: s,
	})
}

func (rec *Recorder) OnExit(id xopscope.ID, _ xopscope.Context) {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	rec.Events = append(rec.Events, &Event{
		Type: SpanExit,
		Span: rec.span(id),
	})
}

func (rec *Recorder) OnEvent(event *xopscope.Event, ctx xopscope.Context) {
	data := make(dataVisitor)
	event.Values.Record(data)
	line := &Line{
		Level:     event.Metadata.Level,
		Metadata:  event.Metadata,
		Data:      data,
		Timestamp: time.Now(),
	}
	if msg, ok := event.Values.Get(xopscope.MessageKey); ok {
		line.Message = fmt.Sprint(msg.Value())
		delete(data, xopscope.MessageKey)
	}
	rec.lock.Lock()
	defer rec.lock.Unlock()
	if scope, ok := ctx.EventScope(event); ok {
		line.Span = rec.span(scope.ID())
		line.Span.Lines = append(line.Span.Lines, line)
	}
	rec.Lines = append(rec.Lines, line)
	rec.Events = append(rec.Events, &Event{
		Type:   LineEvent,
		Line:   line,
		Span:   line.Span,
		Values: event.Values,
	})
}

func (rec *Recorder) OnClose(id xopscope.ID, _ xopscope.Context) {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	s := rec.span(id)
	s.EndTime = time.Now()
	s.Closed = true
	rec.Events = append(rec.Events, &Event{
		Type: SpanDone,
		Span: s,
	})
}
