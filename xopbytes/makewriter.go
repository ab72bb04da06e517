/*
Package xopbytes has the byte sinks that xopjson writes records to.

A sink is a MakeWriter. It is asked for an io.Writer once per record
and each record is handed over in a single Write call that includes
the trailing newline. Writers must not retain the slice passed to
Write.
*/
package xopbytes

import (
	"io"
	"os"
	"sync"
)

type MakeWriter interface {
	MakeWriter() io.Writer
}

// MakeWriterFunc adapts a function to MakeWriter.
type MakeWriterFunc func() io.Writer

func (f MakeWriterFunc) MakeWriter() io.Writer { return f() }

var _ MakeWriter = &IOWriter{}

// IOWriter serializes writes to an io.Writer so that records from
// different goroutines never interleave.
type IOWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func WriteToIOWriter(w io.Writer) *IOWriter {
	return &IOWriter{
		w: w,
	}
}

func (iow *IOWriter) MakeWriter() io.Writer { return iow }

func (iow *IOWriter) Write(b []byte) (int, error) {
	iow.mu.Lock()
	defer iow.mu.Unlock()
	return iow.w.Write(b)
}

// Close closes the underlying writer if it is an io.Closer.
func (iow *IOWriter) Close() error {
	iow.mu.Lock()
	defer iow.mu.Unlock()
	if wc, ok := iow.w.(io.Closer); ok {
		return wc.Close()
	}
	return nil
}

var stdout = WriteToIOWriter(os.Stdout)

// Stdout writes to os.Stdout.
func Stdout() MakeWriter { return stdout }

// Discard drops everything.
func Discard() MakeWriter {
	return MakeWriterFunc(func() io.Writer { return io.Discard })
}
