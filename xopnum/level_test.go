package xopnum_test

import (
	"testing"

	"github.com/xoplog/xopscope/xopnum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "INFO", xopnum.InfoLevel.String())
	assert.Equal(t, "TRACE", xopnum.Level(0).String())
	assert.Equal(t, "DEBUG", xopnum.Level(7).String())
	assert.Equal(t, "WARN", xopnum.Level(14).String())
	assert.Equal(t, "ALERT", xopnum.Level(99).String())
}

func TestParseLevel(t *testing.T) {
	level, err := xopnum.LevelString("warn")
	require.NoError(t, err)
	assert.Equal(t, xopnum.WarnLevel, level)
	_, err = xopnum.LevelString("loud")
	assert.Error(t, err)
}
