package xopbytes

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

var (
	ErrQueueFull = errors.New("non-blocking writer queue is full, record dropped")
	ErrClosed    = errors.New("writer is closed")
)

type queued struct {
	b       []byte
	flushed chan struct{}
}

// NonBlockingWriter moves writes to a background goroutine. When the
// queue is full, records are dropped rather than blocking the caller.
type NonBlockingWriter struct {
	under   MakeWriter
	queue   chan queued
	done    chan struct{}
	lock    sync.RWMutex
	closed  bool
	dropped uint64
	onError func(error)
}

var _ MakeWriter = &NonBlockingWriter{}

// NonBlocking wraps a MakeWriter.  The bufferSize argument controls
// how many records can be in-flight at once. Anything above that
// limit will be dropped.
//
// NonBlocking bufferSize must be at least 10 and 500 is suggested.
// Errors from the underlying writer go to onError, which may be nil.
func NonBlocking(under MakeWriter, bufferSize int, onError func(error)) *NonBlockingWriter {
	if bufferSize < 10 {
		bufferSize = 10
	}
	if onError == nil {
		onError = func(error) {}
	}
	n := &NonBlockingWriter{
		under:   under,
		queue:   make(chan queued, bufferSize),
		done:    make(chan struct{}),
		onError: onError,
	}
	go n.receive()
	return n
}

func (n *NonBlockingWriter) receive() {
	defer close(n.done)
	for msg := range n.queue {
		if msg.flushed != nil {
			close(msg.flushed)
			continue
		}
		_, err := n.under.MakeWriter().Write(msg.b)
		if err != nil {
			n.onError(errors.Wrap(err, "non-blocking write"))
		}
	}
}

func (n *NonBlockingWriter) MakeWriter() io.Writer { return n }

// Write queues a copy of b.
func (n *NonBlockingWriter) Write(b []byte) (int, error) {
	n.lock.RLock()
	defer n.lock.RUnlock()
	if n.closed {
		return 0, ErrClosed
	}
	c := make([]byte, len(b))
	copy(c, b)
	select {
	case n.queue <- queued{b: c}:
		return len(b), nil
	default:
		atomic.AddUint64(&n.dropped, 1)
		return 0, ErrQueueFull
	}
}

// Dropped is the number of records dropped so far.
func (n *NonBlockingWriter) Dropped() uint64 {
	return atomic.LoadUint64(&n.dropped)
}

// Flush waits until everything queued before the call is written.
// Unlike Write, Flush blocks.
func (n *NonBlockingWriter) Flush() {
	n.lock.RLock()
	if n.closed {
		n.lock.RUnlock()
		return
	}
	flushed := make(chan struct{})
	n.queue <- queued{flushed: flushed}
	n.lock.RUnlock()
	<-flushed
}

// Close drains the queue and stops the background goroutine. It does
// not close the underlying writer.
func (n *NonBlockingWriter) Close() error {
	n.lock.Lock()
	if n.closed {
		n.lock.Unlock()
		return nil
	}
	n.closed = true
	close(n.queue)
	n.lock.Unlock()
	<-n.done
	return nil
}
