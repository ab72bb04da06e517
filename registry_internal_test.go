package xopscope

import (
	"context"
	"testing"

	"github.com/xoplog/xopscope/xopnum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetainAfterRelease(t *testing.T) {
	r := NewRegistry()
	ctx := NewDispatch(r).IntoContext(context.Background())
	parent := NewSpan(ctx, xopnum.InfoLevel, "parent")

	// a NewSpan that loaded the parent just before its last Close
	sd, ok := r.spans.Load(parent.ID())
	require.True(t, ok)
	parent.Close()
	assert.False(t, sd.retain())

	child := NewSpanWithMetadata(ctx, NewMetadata(KindSpan, xopnum.InfoLevel, "child", 0), parent.ID())
	ref, ok := r.Span(child.ID())
	require.True(t, ok)
	assert.Equal(t, ID(0), ref.ParentID())
	assert.NotPanics(t, child.Close)
	assert.Equal(t, 0, r.Len())
}

func TestRetainLive(t *testing.T) {
	sd := &spanData{refs: 1}
	assert.True(t, sd.retain())
	assert.Equal(t, int32(2), sd.refs)
	sd.refs = 0
	assert.False(t, sd.retain())
	assert.Equal(t, int32(0), sd.refs)
}
