package xopscope

import (
	"path"
	"runtime"
	"strconv"
	"strings"

	"github.com/xoplog/xopscope/xopnum"
)

// ID identifies a live scope within one Registry. The zero ID means
// "no scope".
type ID uint64

func (id ID) IsZero() bool   { return id == 0 }
func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

type Kind uint8

const (
	KindSpan Kind = iota + 1
	KindEvent
)

func (k Kind) String() string {
	switch k {
	case KindSpan:
		return "span"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Metadata is the static description of a call site. It is shared by
// every scope or event created from that call site and must not be
// modified after it is first used.
type Metadata struct {
	Name   string
	Target string
	Level  xopnum.Level
	File   string // empty if unknown
	Line   int    // zero if unknown
	Kind   Kind
}

// NewMetadata describes the caller's call site. Skip is the number
// of additional stack frames to skip, as for runtime.Caller.
func NewMetadata(kind Kind, level xopnum.Level, name string, skip int) *Metadata {
	m := &Metadata{
		Name:  name,
		Level: level,
		Kind:  kind,
	}
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return m
	}
	m.File = file
	m.Line = line
	if fn := runtime.FuncForPC(pc); fn != nil {
		m.Target = packagePath(fn.Name())
	}
	if m.Name == "" && kind == KindEvent {
		m.Name = "event " + path.Base(file) + ":" + strconv.Itoa(line)
	}
	return m
}

// packagePath trims the function name from a fully qualified
// function name like "github.com/a/b.(*T).Method".
func packagePath(funcName string) string {
	slash := strings.LastIndexByte(funcName, '/')
	dot := strings.IndexByte(funcName[slash+1:], '.')
	if dot == -1 {
		return funcName
	}
	return funcName[:slash+1+dot]
}


// IsEvent is true for event metadata.
func (m *Metadata) IsEvent() bool { return m.Kind == KindEvent }
