package xopscope

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Subscriber receives everything the instrumentation surface
// produces. Registry is the usual implementation.
type Subscriber interface {
	NewSpan(ctx context.Context, attrs *Attributes) ID
	Record(ctx context.Context, id ID, values ValueSet)
	Enter(ctx context.Context, id ID)
	Exit(ctx context.Context, id ID)
	Event(ctx context.Context, event *Event)
	Close(ctx context.Context, id ID) bool
}

// Dispatch is the handle that instrumented code logs through. The
// zero Dispatch discards everything.
type Dispatch struct {
	sub Subscriber
}

func NewDispatch(sub Subscriber) Dispatch {
	return Dispatch{sub: sub}
}

// Subscriber is nil for the zero Dispatch.
func (d Dispatch) Subscriber() Subscriber { return d.sub }
func (d Dispatch) IsNone() bool           { return d.sub == nil }

func (d Dispatch) newSpan(ctx context.Context, attrs *Attributes) ID {
	if d.sub == nil {
		return 0
	}
	return d.sub.NewSpan(ctx, attrs)
}

func (d Dispatch) record(ctx context.Context, id ID, values ValueSet) {
	if d.sub == nil || id == 0 {
		return
	}
	d.sub.Record(ctx, id, values)
}

func (d Dispatch) enter(ctx context.Context, id ID) {
	if d.sub == nil || id == 0 {
		return
	}
	d.sub.Enter(ctx, id)
}

func (d Dispatch) exit(ctx context.Context, id ID) {
	if d.sub == nil || id == 0 {
		return
	}
	d.sub.Exit(ctx, id)
}

func (d Dispatch) event(ctx context.Context, event *Event) {
	if d.sub == nil {
		return
	}
	d.sub.Event(ctx, event)
}

func (d Dispatch) close(ctx context.Context, id ID) {
	if d.sub == nil || id == 0 {
		return
	}
	d.sub.Close(ctx, id)
}

type dispatchKeyType struct{}
type currentKeyType struct{}

var (
	dispatchKey = dispatchKeyType{}
	currentKey  = currentKeyType{}
)

var globalDefault atomic.Pointer[Dispatch]

// ErrDefaultAlreadySet is returned by a second SetGlobalDefault.
var ErrDefaultAlreadySet = errors.New("global default dispatch has already been set")

// SetGlobalDefault installs the Dispatch used when a context.Context
// does not carry one. It can be called once per process.
func SetGlobalDefault(d Dispatch) error {
	if !globalDefault.CompareAndSwap(nil, &d) {
		return ErrDefaultAlreadySet
	}
	return nil
}

// IntoContext returns a context that carries d. The current scope is
// not changed.
func (d Dispatch) IntoContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, dispatchKey, d)
}

func FromContext(ctx context.Context) (Dispatch, bool) {
	v := ctx.Value(dispatchKey)
	if v == nil {
		return Dispatch{}, false
	}
	return v.(Dispatch), true
}

// FromContextOrDefault falls back to the global default, which
// discards everything unless SetGlobalDefault was called.
func FromContextOrDefault(ctx context.Context) Dispatch {
	d, ok := FromContext(ctx)
	if ok {
		return d
	}
	if g := globalDefault.Load(); g != nil {
		return *g
	}
	return Dispatch{}
}

func FromContextOrPanic(ctx context.Context) Dispatch {
	d, ok := FromContext(ctx)
	if !ok {
		panic("Could not find dispatch in context")
	}
	return d
}

// CurrentSpan returns the id of the scope entered by ctx, if any.
func CurrentSpan(ctx context.Context) ID {
	v := ctx.Value(currentKey)
	if v == nil {
		return 0
	}
	return v.(ID)
}

func withCurrent(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, currentKey, id)
}
