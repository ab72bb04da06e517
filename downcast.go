package xopscope

// Downcast recovers a value of type T from a Dispatch without the
// caller knowing the concrete subscriber. The subscriber itself is
// tried first. Then a subscriber that implements Downcaster is asked
// with a nil *T, which is how Registry reaches its layers.
func Downcast[T any](d Dispatch) (T, bool) {
	var zero T
	if d.sub == nil {
		return zero, false
	}
	if v, ok := d.sub.(T); ok {
		return v, true
	}
	dc, ok := d.sub.(Downcaster)
	if !ok {
		return zero, false
	}
	v, ok := dc.Downcast((*T)(nil))
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
