package xoprecorder

import (
	"strings"

	"github.com/xoplog/xopscope/xopnum"
)

type LinePredicate struct {
	f    func(*Line) bool
	desc string
}

type Predicates []LinePredicate

func (p LinePredicate) String() string { return p.desc }

func (p SpanPredicate) LinePredicate() LinePredicate {
	return LinePredicate{
		f: func(line *Line) bool {
			return line.Span != nil && p.f(line.Span)
		},
		desc: "span " + p.String(),
	}
}

func MessageEquals(msg string) LinePredicate {
	return LinePredicate{
		f: func(line *Line) bool {
			return line.Message == msg
		},
		desc: "message equals " + msg,
	}
}

func TextContains(msg string) LinePredicate {
	return LinePredicate{
		f: func(line *Line) bool {
			return strings.Contains(line.Text(), msg)
		},
		desc: "text contains " + msg,
	}
}

func LevelEquals(level xopnum.Level) LinePredicate {
	return LinePredicate{
		f: func(line *Line) bool {
			return line.Level == level
		},
		desc: "level equals " + level.String(),
	}
}

func (rec *Recorder) FindLines(predicates ...LinePredicate) []*Line {
	rec.lock.Lock()
	defer rec.lock.Unlock()
	var found []*Line
Line:
	for _, line := range rec.Lines {
		for _, predicate := range predicates {
			if !predicate.f(line) {
				continue Line
			}
		}
		found = append(found, line)
	}
	return found
}

func (rec *Recorder) CountLines(predicates ...LinePredicate) int {
	return len(rec.FindLines(predicates...))
}

// FindSpanByLine returns nil unless there is exactly one span that
// has lines that match the predicate.
func (rec *Recorder) FindSpanByLine(predicates ...LinePredicate) *Span {
	matching := rec.FindLines(predicates...)
	if len(matching) == 0 {
		return nil
	}
	span := matching[0].Span
	for _, m := range matching {
		if m.Span != span {
			return nil
		}
	}
	return span
}

type SpanPredicate struct {
	f    func(*Span) bool
	desc string
}

type SpanPredicates []SpanPredicate

func (p SpanPredicate) String() string { return p.desc }

func NameEquals(name string) SpanPredicate {
	return SpanPredicate{
		f: func(span *Span) bool {
			return span.Name == name
		},
		desc: "name equals " + name,
	}
}

func IsClosed() SpanPredicate {
	return SpanPredicate{
		f: func(span *Span) bool {
			return span.Closed
		},
		desc: "is closed",
	}
}

func (rec *Recorder) FindSpan(predicates ...SpanPredicate) *Span {
	rec.lock.Lock()
	defer rec.lock.Unlock()
Span:
	for _, span := range rec.Spans {
		for _, predicate := range predicates {
			if !predicate.f(span) {
				continue Span
			}
		}
		return span
	}
	return nil
}
