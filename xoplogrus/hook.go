/*
Package xoplogrus forwards logrus entries to xopscope as events.

Entries logged with a context (logrus.WithContext) are attributed to
the scope that is current in that context and pick up its fields.

	logger.AddHook(xoplogrus.NewHook(dispatch))
	logger.WithContext(ctx).Info("shaving yaks")

The hook describes each event with the entry's caller when the logger
has ReportCaller set. It also attaches the same information as
"log.file", "log.line", and "log.target" fields for layers that want
the raw values; xopjson drops those because they repeat the metadata.
*/
package xoplogrus

import (
	"context"
	"path"
	"strconv"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopnum"

	"github.com/sirupsen/logrus"
)

const defaultTarget = "logrus"

var _ logrus.Hook = &Hook{}

type Hook struct {
	dispatch xopscope.Dispatch
	levels   []logrus.Level
}

type Option func(*Hook)

// WithLevels limits the entry levels that are forwarded. The
// default is all levels.
func WithLevels(levels ...logrus.Level) Option {
	return func(h *Hook) {
		h.levels = levels
	}
}

// NewHook creates a hook that sends entries to d unless the entry's
// context carries its own Dispatch.
func NewHook(d xopscope.Dispatch, opts ...Option) *Hook {
	h := &Hook{
		dispatch: d,
		levels:   logrus.AllLevels,
	}
	for _, f := range opts {
		f(h)
	}
	return h
}

func (h *Hook) Levels() []logrus.Level { return h.levels }

func (h *Hook) Fire(entry *logrus.Entry) error {
	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := xopscope.FromContext(ctx); !ok {
		ctx = h.dispatch.IntoContext(ctx)
	}

	md := &xopscope.Metadata{
		Target: defaultTarget,
		Level:  Level(entry.Level),
		Kind:   xopscope.KindEvent,
	}
	values := make(xopscope.ValueSet, 0, len(entry.Data)+4)
	values = append(values, xopscope.String(xopscope.MessageKey, entry.Message))
	if entry.Caller != nil {
		md.File = entry.Caller.File
		md.Line = entry.Caller.Line
		if pkg := packageOf(entry.Caller.Function); pkg != "" {
			md.Target = pkg
		}
		values = append(values,
			xopscope.String("log.file", md.File),
			xopscope.Int("log.line", md.Line))
	}
	values = append(values, xopscope.String("log.target", md.Target))
	if md.File != "" {
		md.Name = "event " + path.Base(md.File) + ":" + strconv.Itoa(md.Line)
	} else {
		md.Name = "logrus entry"
	}
	for k, v := range entry.Data {
		values = append(values, convert(k, v))
	}
	xopscope.EmitEvent(ctx, &xopscope.Event{
		Metadata: md,
		Values:   values,
	})
	return nil
}

// Level maps logrus levels onto xopnum levels. Panic and Fatal are
// both AlertLevel.
func Level(level logrus.Level) xopnum.Level {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return xopnum.AlertLevel
	case logrus.ErrorLevel:
		return xopnum.ErrorLevel
	case logrus.WarnLevel:
		return xopnum.WarnLevel
	case logrus.InfoLevel:
		return xopnum.InfoLevel
	case logrus.DebugLevel:
		return xopnum.DebugLevel
	default:
		return xopnum.TraceLevel
	}
}

func packageOf(function string) string {
	slash := -1
	for i := len(function) - 1; i >= 0; i-- {
		if function[i] == '/' {
			slash = i
			break
		}
	}
	for i := slash + 1; i < len(function); i++ {
		if function[i] == '.' {
			return function[:i]
		}
	}
	return function
}

func convert(k string, v interface{}) xopscope.KeyValue {
	switch t := v.(type) {
	case string:
		return xopscope.String(k, t)
	case bool:
		return xopscope.Bool(k, t)
	case int:
		return xopscope.Int(k, t)
	case int8:
		return xopscope.Int64(k, int64(t))
	case int16:
		return xopscope.Int64(k, int64(t))
	case int32:
		return xopscope.Int64(k, int64(t))
	case int64:
		return xopscope.Int64(k, t)
	case uint:
		return xopscope.Uint64(k, uint64(t))
	case uint8:
		return xopscope.Uint64(k, uint64(t))
	case uint16:
		return xopscope.Uint64(k, uint64(t))
	case uint32:
		return xopscope.Uint64(k, uint64(t))
	case uint64:
		return xopscope.Uint64(k, t)
	case float32:
		return xopscope.Float64(k, float64(t))
	case float64:
		return xopscope.Float64(k, t)
	default:
		return xopscope.Any(k, v)
	}
}
