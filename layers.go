package xopscope

// Layers fans each callback out to every member in order.
type Layers []Layer

var (
	_ Layer           = Layers{}
	_ Downcaster      = Layers{}
	_ ReferenceKeeper = Layers{}
)

// CombineLayers returns a single Layer for a list of layers.
func CombineLayers(layers ...Layer) Layer {
	switch len(layers) {
	case 0:
		return NopLayer{}
	case 1:
		return layers[0]
	default:
		return Layers(layers)
	}
}

func (l Layers) OnNewSpan(attrs *Attributes, id ID, ctx Context) {
	for _, layer := range l {
		layer.OnNewSpan(attrs, id, ctx)
	}
}

func (l Layers) OnRecord(id ID, values ValueSet, ctx Context) {
	for _, layer := range l {
		layer.OnRecord(id, values, ctx)
	}
}

func (l Layers) OnEnter(id ID, ctx Context) {
	for _, layer := range l {
		layer.OnEnter(id, ctx)
	}
}

func (l Layers) OnExit(id ID, ctx Context) {
	for _, layer := range l {
		layer.OnExit(id, ctx)
	}
}

func (l Layers) OnEvent(event *Event, ctx Context) {
	for _, layer := range l {
		layer.OnEvent(event, ctx)
	}
}

func (l Layers) OnClose(id ID, ctx Context) {
	for _, layer := range l {
		layer.OnClose(id, ctx)
	}
}

// Downcast asks each member in order.
func (l Layers) Downcast(want interface{}) (interface{}, bool) {
	for _, layer := range l {
		if d, ok := layer.(Downcaster); ok {
			if v, ok := d.Downcast(want); ok {
				return v, true
			}
		}
	}
	return nil, false
}

func (l Layers) ReferencesKept() bool {
	for _, layer := range l {
		if rk, ok := layer.(ReferenceKeeper); ok && rk.ReferencesKept() {
			return true
		}
	}
	return false
}
