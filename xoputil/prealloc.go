package xoputil

// Prealloc hands out slices of one backing array so that long-lived
// byte strings built at setup time share an allocation. When the
// remaining space is too small, the input is returned unchanged.
type Prealloc struct {
	b []byte
}

func NewPrealloc(backing []byte) *Prealloc {
	return &Prealloc{b: backing}
}

// Pack copies n into the backing array.
func (p *Prealloc) Pack(n []byte) []byte {
	if len(n) > len(p.b) {
		return n
	}
	c := p.b[:len(n):len(n)]
	p.b = p.b[len(n):]
	copy(c, n)
	return c
}

func (p *Prealloc) PackString(s string) []byte {
	if len(s) > len(p.b) {
		return []byte(s)
	}
	c := p.b[:len(s):len(s)]
	p.b = p.b[len(s):]
	copy(c, s)
	return c
}

// Remaining is the unused space.
func (p *Prealloc) Remaining() int { return len(p.b) }
