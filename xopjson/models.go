package xopjson

import (
	"os"
	"strconv"
	"sync"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopbytes"
	"github.com/xoplog/xopscope/xoputil"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

var (
	_ xopscope.Layer      = &Layer{}
	_ xopscope.Downcaster = &Layer{}
)

type Option func(*Layer)

type Layer struct {
	name             string
	writer           xopbytes.MakeWriter
	id               uuid.UUID
	elapsed          bool
	spanRecords      bool
	pid              int
	version          *semver.Version
	errorReporter    func(error)
	builderPool      sync.Pool // filled with *builder
	preallocatedKeys [200]byte
	static           []byte
	withContext      withContext
}

type builder struct {
	xoputil.JBuilder
	layer *Layer
}

// occurrence is the "type" of a record
type occurrence string

const (
	typeEvent occurrence = "event"
	typeStart occurrence = "start"
	typeEnd   occurrence = "end"
)

// WithElapsed controls the "elapsed" field on end records. It
// defaults to true.
func WithElapsed(b bool) Option {
	return func(l *Layer) {
		l.elapsed = b
	}
}

// WithSpanRecords controls the start and end records. When false,
// only events are written. Fields of enclosing scopes are still
// included in events. It defaults to true.
func WithSpanRecords(b bool) Option {
	return func(l *Layer) {
		l.spanRecords = b
	}
}

// WithVersion adds "source.version" to every record.
func WithVersion(v *semver.Version) Option {
	return func(l *Layer) {
		l.version = v
	}
}

// WithPID overrides the process id. It is mostly useful for
// producing stable output in tests.
func WithPID(pid int) Option {
	return func(l *Layer) {
		l.pid = pid
	}
}

// WithErrorReporter receives dropped records and write failures.
// The default discards them.
func WithErrorReporter(f func(error)) Option {
	return func(l *Layer) {
		l.errorReporter = f
	}
}

func defaultPID() int { return os.Getpid() }

// buildStatic pre-encodes the fields that are the same in every
// record.
func (l *Layer) buildStatic(p *xoputil.Prealloc) {
	b := xoputil.JBuilder{
		B: make([]byte, 0, len(l.preallocatedKeys)),
	}
	b.AppendBytes(xoputil.BuildKey("source.pid"))
	b.AddSafeString(strconv.Itoa(l.pid))
	if l.name != "" {
		b.AppendBytes(xoputil.BuildKey("source.name"))
		b.AddString(l.name)
	}
	if l.version != nil {
		b.AppendBytes(xoputil.BuildKey("source.version"))
		b.AddString(l.version.String())
	}
	l.static = p.Pack(b.B)
}
