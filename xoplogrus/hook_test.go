package xoplogrus_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopbytes"
	"github.com/xoplog/xopscope/xopjson"
	"github.com/xoplog/xopscope/xoplogrus"
	"github.com/xoplog/xopscope/xopnum"
	"github.com/xoplog/xopscope/xoprecorder"
	"github.com/xoplog/xopscope/xoputil"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

func setup(opts ...xoplogrus.Option) (context.Context, *logrus.Logger, *xoputil.Buffer, *xoprecorder.Recorder) {
	var buf xoputil.Buffer
	rec := xoprecorder.New()
	d := xopscope.NewDispatch(xopscope.NewRegistry(
		xopscope.WithLayer(rec),
		xopscope.WithLayer(xopjson.New("logrus-test", xopbytes.WriteToIOWriter(&buf), xopjson.WithPID(1))),
	))
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.TraceLevel)
	logger.AddHook(xoplogrus.NewHook(d, opts...))
	return d.IntoContext(context.Background()), logger, &buf, rec
}

func TestHookInsideScope(t *testing.T) {
	ctx, logger, buf, _ := setup()
	logger.SetReportCaller(true)
	sctx, span := xopscope.StartSpan(ctx, "request", xopscope.String("path", "/yak"))
	logger.WithContext(sctx).WithField("count", 3).WithError(errors.New("dull razor")).Warn("shaving")
	span.End()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	v, err := fastjson.Parse(lines[1])
	require.NoError(t, err)
	assert.Equal(t, "shaving", string(v.GetStringBytes("title")))
	assert.Equal(t, "WARN", string(v.GetStringBytes("level")))
	assert.Equal(t, "request", string(v.GetStringBytes("span")))
	assert.Equal(t, "/yak", string(v.GetStringBytes("path")))
	assert.Equal(t, 3, v.GetInt("count"))
	assert.True(t, strings.HasPrefix(string(v.GetStringBytes("error")), "dull razor"))
	assert.True(t, strings.HasSuffix(string(v.GetStringBytes("source.filename")), "hook_test.go"))
	assert.Equal(t, "github.com/xoplog/xopscope/xoplogrus_test", string(v.GetStringBytes("source.target")))
	assert.NotZero(t, v.GetInt("source.line"))
	assert.Nil(t, v.Get("log.file"), "bridge metadata fields are dropped")
	assert.Nil(t, v.Get("log.target"))
}

func TestHookWithoutCaller(t *testing.T) {
	ctx, logger, buf, rec := setup()
	logger.WithContext(ctx).Info("plain")
	logger.Error("no context")
	require.Len(t, rec.CopyLines(), 2)
	line := rec.FindLines(xoprecorder.MessageEquals("plain"))[0]
	assert.Equal(t, "logrus", line.Metadata.Target)
	assert.Equal(t, "logrus", line.Data["log.target"])
	assert.Nil(t, line.Span)
	assert.Equal(t, xopnum.ErrorLevel, rec.FindLines(xoprecorder.MessageEquals("no context"))[0].Level)

	v, err := fastjson.Parse(strings.Split(buf.String(), "\n")[0])
	require.NoError(t, err)
	assert.Equal(t, fastjson.TypeNull, v.Get("source.filename").Type())
}

func TestHookLevels(t *testing.T) {
	_, logger, _, rec := setup(xoplogrus.WithLevels(logrus.ErrorLevel))
	logger.Info("skipped")
	logger.Error("kept")
	assert.Equal(t, 0, rec.CountLines(xoprecorder.MessageEquals("skipped")))
	assert.Equal(t, 1, rec.CountLines(xoprecorder.MessageEquals("kept")))

	assert.Equal(t, xopnum.AlertLevel, xoplogrus.Level(logrus.FatalLevel))
	assert.Equal(t, xopnum.TraceLevel, xoplogrus.Level(logrus.TraceLevel))
	assert.Equal(t, xopnum.DebugLevel, xoplogrus.Level(logrus.DebugLevel))
}
