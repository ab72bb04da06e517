package xopscope

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/muir/gwrap"
)

// Registry is the standard Subscriber. It keeps the table of live
// scopes with their parent links and per-scope Extensions, and it
// drives a stack of Layers.
//
// A scope stays live until its handle is closed and all of its
// children have closed. Layers therefore see a parent's OnClose after
// the OnClose of every child.
type Registry struct {
	spans    gwrap.SyncMap[ID, *spanData]
	lastID   uint64
	layer    Layer
	keepRefs bool
}

var (
	_ Subscriber = &Registry{}
	_ LookupSpan = &Registry{}
	_ Downcaster = &Registry{}
)

type spanData struct {
	id       ID
	metadata *Metadata
	parent   ID
	refs     int32
	mu       sync.Mutex
	ext      Extensions
}

type RegistryOption func(*registryConfig)

type registryConfig struct {
	layers []Layer
}

// WithLayer adds a layer. Layers are called in the order they are added.
func WithLayer(layer Layer) RegistryOption {
	return func(c *registryConfig) {
		c.layers = append(c.layers, layer)
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	var c registryConfig
	for _, f := range opts {
		f(&c)
	}
	layer := CombineLayers(c.layers...)
	r := &Registry{
		layer: layer,
	}
	if rk, ok := layer.(ReferenceKeeper); ok {
		r.keepRefs = rk.ReferencesKept()
	}
	return r
}

// Layer returns the combined layer stack.
func (r *Registry) Layer() Layer { return r.layer }

func (r *Registry) lctx(ctx context.Context) Context {
	return Context{
		lookup:  r,
		current: CurrentSpan(ctx),
	}
}

func (r *Registry) data(id ID) *spanData {
	sd, ok := r.spans.Load(id)
	if !ok {
		panic(fmt.Sprintf("span %d does not exist, this is a bug", id))
	}
	return sd
}

func (r *Registry) NewSpan(ctx context.Context, attrs *Attributes) ID {
	parent := attrs.Parent
	if parent == 0 && !attrs.Root {
		parent = CurrentSpan(ctx)
	}
	if parent != 0 {
		pd, ok := r.spans.Load(parent)
		if !ok || !pd.retain() {
			parent = 0
		}
	}
	id := ID(atomic.AddUint64(&r.lastID, 1))
	r.spans.Store(id, &spanData{
		id:       id,
		metadata: attrs.Metadata,
		parent:   parent,
		refs:     1,
	})
	if attrs.Parent != parent {
		// the layers see the resolved parent
		a := *attrs
		a.Parent = parent
		attrs = &a
	}
	if r.keepRefs {
		a := *attrs
		a.Values = a.Values.deepCopied()
		attrs = &a
	}
	r.layer.OnNewSpan(attrs, id, r.lctx(ctx))
	return id
}

func (r *Registry) Record(ctx context.Context, id ID, values ValueSet) {
	_ = r.data(id)
	if r.keepRefs {
		values = values.deepCopied()
	}
	r.layer.OnRecord(id, values, r.lctx(ctx))
}

func (r *Registry) Enter(ctx context.Context, id ID) {
	_ = r.data(id)
	r.layer.OnEnter(id, r.lctx(ctx))
}

func (r *Registry) Exit(ctx context.Context, id ID) {
	_ = r.data(id)
	r.layer.OnExit(id, r.lctx(ctx))
}

func (r *Registry) Event(ctx context.Context, event *Event) {
	if event.Parent != 0 {
		_ = r.data(event.Parent)
	}
	if r.keepRefs {
		e := *event
		e.Values = e.Values.deepCopied()
		event = &e
	}
	r.layer.OnEvent(event, r.lctx(ctx))
}

// retain adds a reference unless the scope has already been released
// by its last holder.
func (sd *spanData) retain() bool {
	for {
		refs := atomic.LoadInt32(&sd.refs)
		if refs <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt32(&sd.refs, refs, refs+1) {
			return true
		}
	}
}

// Close releases the reference held by the scope handle. It returns
// true if the scope is now closed.
func (r *Registry) Close(ctx context.Context, id ID) bool {
	lctx := r.lctx(ctx)
	closed := false
	for id != 0 {
		sd := r.data(id)
		if atomic.AddInt32(&sd.refs, -1) != 0 {
			break
		}
		r.layer.OnClose(id, lctx)
		r.spans.Delete(id)
		sd.mu.Lock()
		sd.ext.clear()
		sd.mu.Unlock()
		closed = true
		id = sd.parent
	}
	return closed
}

// Span looks up a live scope.
func (r *Registry) Span(id ID) (SpanRef, bool) {
	sd, ok := r.spans.Load(id)
	if !ok {
		return SpanRef{}, false
	}
	return SpanRef{registry: r, data: sd}, true
}

// Len is the number of live scopes.
func (r *Registry) Len() int {
	var n int
	r.spans.Range(func(ID, *spanData) bool {
		n++
		return true
	})
	return n
}

// Downcast asks the layers.
func (r *Registry) Downcast(want interface{}) (interface{}, bool) {
	if d, ok := r.layer.(Downcaster); ok {
		return d.Downcast(want)
	}
	return nil, false
}
