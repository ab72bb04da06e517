package xopscope

// Attributes describe a scope at creation.
type Attributes struct {
	Metadata *Metadata
	Values   ValueSet
	// Parent is the explicit parent. When it is zero and Root is
	// false, the current scope of the creating context is the parent.
	Parent ID
	Root   bool
}

// Event is a single occurrence that is not a scope.
type Event struct {
	Metadata *Metadata
	Values   ValueSet
	// Parent is the explicit parent. When it is zero the current
	// scope of the logging context is used.
	Parent ID
}

// Layer receives the scope lifecycle from a Registry. Callbacks are
// invoked synchronously by whichever goroutine drives the scope.
//
// Scope ids passed to callbacks are always live: looking them up with
// Context.Span will succeed.
type Layer interface {
	OnNewSpan(attrs *Attributes, id ID, ctx Context)
	OnRecord(id ID, values ValueSet, ctx Context)
	OnEnter(id ID, ctx Context)
	OnExit(id ID, ctx Context)
	OnEvent(event *Event, ctx Context)
	// OnClose is called once per scope, after all of its children
	// have closed. The scope is still live during the call.
	OnClose(id ID, ctx Context)
}

// Downcaster is implemented by subscribers and layers that can hand
// out a value of a type unknown to this package. See Downcast.
type Downcaster interface {
	Downcast(want interface{}) (interface{}, bool)
}

// ReferenceKeeper is implemented by layers that hold on to values
// after the callback returns instead of serializing them.
type ReferenceKeeper interface {
	ReferencesKept() bool
}

// NopLayer ignores all callbacks. Embed it to implement only some of
// the Layer methods.
type NopLayer struct{}

var _ Layer = NopLayer{}

func (NopLayer) OnNewSpan(*Attributes, ID, Context) {}
func (NopLayer) OnRecord(ID, ValueSet, Context)     {}
func (NopLayer) OnEnter(ID, Context)                {}
func (NopLayer) OnExit(ID, Context)                 {}
func (NopLayer) OnEvent(*Event, Context)            {}
func (NopLayer) OnClose(ID, Context)                {}
