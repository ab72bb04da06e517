package xopbytes

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateConfig describes a size-rotated log file.
type RotateConfig struct {
	Filename   string `yaml:"filename"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	MaxBackups int    `yaml:"maxBackups"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"localTime"`
}

// RotatingFile writes to a file that is rotated by size.
func RotatingFile(c RotateConfig) *IOWriter {
	return WriteToIOWriter(&lumberjack.Logger{
		Filename:   c.Filename,
		MaxSize:    c.MaxSizeMB,
		MaxAge:     c.MaxAgeDays,
		MaxBackups: c.MaxBackups,
		Compress:   c.Compress,
		LocalTime:  c.LocalTime,
	})
}
