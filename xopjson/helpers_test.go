package xopjson_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/xoplog/xopscope"
	"github.com/xoplog/xopscope/xopbytes"
	"github.com/xoplog/xopscope/xopjson"
	"github.com/xoplog/xopscope/xoputil"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
)

const testPID = 77

type record struct {
	raw    string
	keys   []string // in order, duplicates included
	fields map[string]*fastjson.Value
	folded map[string]interface{} // last value wins
}

func (r record) str(k string) string {
	v, ok := r.fields[k]
	if !ok {
		return "<missing>"
	}
	return string(v.GetStringBytes())
}

func (r record) has(k string) bool {
	_, ok := r.fields[k]
	return ok
}

func (r record) count(k string) int {
	var n int
	for _, key := range r.keys {
		if key == k {
			n++
		}
	}
	return n
}

func setup(t *testing.T, opts ...xopjson.Option) (context.Context, *xoputil.Buffer, *xopjson.Layer) {
	var buf xoputil.Buffer
	opts = append([]xopjson.Option{xopjson.WithPID(testPID)}, opts...)
	layer := xopjson.New("test", xopbytes.WriteToIOWriter(&buf), opts...)
	r := xopscope.NewRegistry(xopscope.WithLayer(layer))
	return xopscope.NewDispatch(r).IntoContext(context.Background()), &buf, layer
}

func parse(t *testing.T, buf *xoputil.Buffer) []record {
	data := buf.Bytes()
	if len(data) == 0 {
		return nil
	}
	require.Equal(t, byte('\n'), data[len(data)-1], "records end with newline")
	var records []record
	for _, line := range bytes.Split(data[:len(data)-1], []byte("\n")) {
		v, err := fastjson.ParseBytes(line)
		require.NoErrorf(t, err, "parse %s", string(line))
		o, err := v.Object()
		require.NoError(t, err)
		r := record{
			raw:    string(line),
			fields: make(map[string]*fastjson.Value),
		}
		o.Visit(func(key []byte, v *fastjson.Value) {
			r.keys = append(r.keys, string(key))
			r.fields[string(key)] = v
		})
		require.NoError(t, json.Unmarshal(line, &r.folded))
		records = append(records, r)
	}
	return records
}
