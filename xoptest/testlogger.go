/*
Package xoptest wires a xopscope Registry for use in tests. Records
are formatted by xopjson and sent to t.Log so they only show up for
failing tests (or with -v). Everything is also captured by a
xoprecorder.Recorder for assertions.
*/
package xoptest

import (
	"context"
	"io"
	"sync"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopbytes"
	"github.com/xoplog/xopscope/xopjson"
	"github.com/xoplog/xopscope/xoprecorder"
)

type testingT interface {
	Log(...interface{})
	Name() string
	Cleanup(func())
}

type Logger struct {
	recorder *xoprecorder.Recorder
	json     *xopjson.Layer
	registry *xopscope.Registry
	dispatch xopscope.Dispatch
	t        testingT
	lock     sync.Mutex
	errors   []error
}

type tPassthrough struct{ t testingT }

func (t tPassthrough) Write(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if b[len(b)-1] == '\n' {
		t.t.Log(string(b[0 : len(b)-1]))
	} else {
		t.t.Log(string(b))
	}
	return len(b), nil
}

// New creates a Logger. Extra layers see callbacks after the recorder
// and the JSON layer.
func New(t testingT, layers ...xopscope.Layer) *Logger {
	log := &Logger{
		t:        t,
		recorder: xoprecorder.New(),
	}
	log.json = xopjson.New(t.Name(),
		xopbytes.MakeWriterFunc(func() io.Writer { return tPassthrough{t} }),
		xopjson.WithErrorReporter(log.reportError))
	opts := []xopscope.RegistryOption{
		xopscope.WithLayer(log.recorder),
		xopscope.WithLayer(log.json),
	}
	for _, layer := range layers {
		opts = append(opts, xopscope.WithLayer(layer))
	}
	log.registry = xopscope.NewRegistry(opts...)
	log.dispatch = xopscope.NewDispatch(log.registry)
	t.Cleanup(func() {
		if n := log.registry.Len(); n != 0 {
			t.Log("spans still open at end of test:", n)
		}
	})
	return log
}

func (log *Logger) reportError(err error) {
	log.t.Log("xopjson:", err)
	log.lock.Lock()
	defer log.lock.Unlock()
	log.errors = append(log.errors, err)
}

// Context returns a context carrying the Logger's Dispatch.
func (log *Logger) Context(ctx context.Context) context.Context {
	return log.dispatch.IntoContext(ctx)
}

func (log *Logger) Dispatch() xopscope.Dispatch     { return log.dispatch }
func (log *Logger) Registry() *xopscope.Registry    { return log.registry }
func (log *Logger) Recorder() *xoprecorder.Recorder { return log.recorder }
func (log *Logger) JSON() *xopjson.Layer            { return log.json }

// Errors returns the records the JSON layer dropped and why.
func (log *Logger) Errors() []error {
	log.lock.Lock()
	defer log.lock.Unlock()
	return append([]error(nil), log.errors...)
}

func (log *Logger) FindLines(predicates ...xoprecorder.LinePredicate) []*xoprecorder.Line {
	return log.recorder.FindLines(predicates...)
}

func (log *Logger) CountLines(predicates ...xoprecorder.LinePredicate) int {
	return log.recorder.CountLines(predicates...)
}

func (log *Logger) CustomEvent(msg string, args ...interface{}) {
	log.recorder.CustomEvent(msg, args...)
}
