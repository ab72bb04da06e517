package xopscope

// LookupSpan is implemented by subscribers that keep a scope table.
type LookupSpan interface {
	Span(id ID) (SpanRef, bool)
}

// SpanRef is a handle to a live scope. It is only valid until the
// scope closes.
type SpanRef struct {
	registry *Registry
	data     *spanData
}

func (s SpanRef) ID() ID              { return s.data.id }
func (s SpanRef) Metadata() *Metadata { return s.data.metadata }
func (s SpanRef) Name() string        { return s.data.metadata.Name }

// ParentID is zero for root scopes.
func (s SpanRef) ParentID() ID { return s.data.parent }

// Parent returns the parent scope. A parent is live while any of its
// children is live.
func (s SpanRef) Parent() (SpanRef, bool) {
	if s.data.parent == 0 {
		return SpanRef{}, false
	}
	return s.registry.Span(s.data.parent)
}

// Extensions runs f with exclusive access to the scope's extension
// slots.
func (s SpanRef) Extensions(f func(*Extensions)) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	f(&s.data.ext)
}

// Scope returns this scope followed by its ancestors, nearest first.
func (s SpanRef) Scope() []SpanRef {
	var scope []SpanRef
	for cur, ok := s, true; ok; cur, ok = cur.Parent() {
		scope = append(scope, cur)
	}
	return scope
}

// ScopeFromRoot returns the root scope first and this scope last.
func (s SpanRef) ScopeFromRoot() []SpanRef {
	scope := s.Scope()
	for i, j := 0, len(scope)-1; i < j; i, j = i+1, j-1 {
		scope[i], scope[j] = scope[j], scope[i]
	}
	return scope
}
