package xoputil

import (
	"bytes"
	"sync"
)

// Buffer is a bytes.Buffer that is safe for concurrent use. It is
// mostly useful as a sink in tests.
type Buffer struct {
	lock sync.Mutex
	b    bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.b.Write(p)
}

func (b *Buffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.b.String()
}

func (b *Buffer) Bytes() []byte {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]byte(nil), b.b.Bytes()...)
}

func (b *Buffer) Reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.b.Reset()
}
