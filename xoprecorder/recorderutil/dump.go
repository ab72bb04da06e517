package recorderutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/xoplog/xopscope/xoprecorder"
)

func DumpEvents(t testing.TB, rec *xoprecorder.Recorder) {
	var o []string
	_ = rec.WithLock(func(rec *xoprecorder.Recorder) error {
		for _, event := range rec.Events {
			switch event.Type {
			case xoprecorder.LineEvent:
				o = append(o, fmt.Sprintf("line: %s", event.Line.Text()))
			case xoprecorder.SpanStart, xoprecorder.SpanEnter, xoprecorder.SpanExit, xoprecorder.SpanDone:
				o = append(o, fmt.Sprintf("%s: %s (%d)", event.Type, event.Span.Name, event.Span.ID))
			case xoprecorder.SpanRecord:
				o = append(o, fmt.Sprintf("record on %s: %d values", event.Span.Name, event.Values.Len()))
			case xoprecorder.CustomEvent:
				o = append(o, "Custom: "+event.Msg)
			default:
				o = append(o, "unknown event")
			}
		}
		return nil
	})
	t.Logf("log events:\n%s", strings.Join(o, "\n"))
}
