package xopjson

import (
	"time"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopat"
	"github.com/xoplog/xopscope/xoputil"

	"github.com/pkg/errors"
)

func (l *Layer) builder() *builder {
	return l.builderPool.Get().(*builder)
}

func (b *builder) reclaim() {
	if cap(b.B) > maxBufferToKeep {
		return
	}
	b.Reset()
	b.layer.builderPool.Put(b)
}

func (l *Layer) lifecycle(span xopscope.SpanRef, typ occurrence, elapsed time.Duration) {
	md := span.Metadata()
	b := l.builder()
	defer b.reclaim()
	b.header(md, md.Name, typ)
	b.source(md)
	b.ancestors(span.ScopeFromRoot())
	if typ == typeEnd && l.elapsed {
		b.AddUncheckedKey("elapsed")
		b.AddSafeString(xoputil.FormatDuration(elapsed))
	}
	b.AppendBytes([]byte{'}', '\n'})
	l.write(b)
}

// write drops the record if it could not be encoded faithfully.
func (l *Layer) write(b *builder) {
	if b.Err != nil {
		l.errorReporter(errors.Wrap(b.Err, "xopjson record dropped"))
		return
	}
	_, err := l.writer.MakeWriter().Write(b.B)
	if err != nil {
		l.errorReporter(errors.Wrap(err, "xopjson write"))
	}
}

func (b *builder) header(md *xopscope.Metadata, title string, typ occurrence) {
	b.AppendBytes([]byte(`{"level":`))
	b.AddSafeString(md.Level.String())
	b.AddUncheckedKey("title")
	b.AddString(title)
	b.AddUncheckedKey("type")
	b.AddSafeString(string(typ))
}

func (b *builder) source(md *xopscope.Metadata) {
	b.AddUncheckedKey("source.filename")
	if md.File == "" {
		b.AddNull()
	} else {
		b.AddString(md.File)
	}
	b.AddUncheckedKey("source.line")
	if md.Line == 0 {
		b.AddNull()
	} else {
		b.AddInt64(int64(md.Line))
	}
	b.AddUncheckedKey("source.target")
	b.AddString(md.Target)
	b.AppendBytes(b.layer.static)
}

// ancestors adds the fields of each scope in order.
func (b *builder) ancestors(scope []xopscope.SpanRef) {
	for _, span := range scope {
		span.Extensions(func(e *xopscope.Extensions) {
			fields, ok := xopscope.Get[*scopeFields](e)
			if !ok {
				return
			}
			fields.Range(func(k string, v xopat.Value) bool {
				b.field(k, v)
				return true
			})
		})
	}
}

func (b *builder) field(k string, v xopat.Value) {
	if kj := xopat.K(k).JSON(); kj != nil {
		b.Comma()
		b.AppendBytes(kj)
		b.AppendByte(':')
	} else {
		b.AddKey(k)
	}
	v.AppendJSON(&b.JBuilder)
}
