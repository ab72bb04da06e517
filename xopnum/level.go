// xopnum provides the severity levels used across xopscope
package xopnum

import (
	"strings"

	"github.com/pkg/errors"
)

type Level int32

const (
	// Open Telemetry puts tracing as lower level than debugging.  Why?
	// https://github.com/open-telemetry/opentelemetry-proto/blob/main/opentelemetry/proto/logs/v1/logs.proto
	// Most of the levels correspond to OTEl's levels, but
	//   TraceLevel is OTEL's "Trace2"
	//   AlertLevel is OTEL's "Error4"
	TraceLevel Level = 2  // TRACE
	DebugLevel Level = 5  // DEBUG
	InfoLevel  Level = 9  // INFO
	WarnLevel  Level = 13 // WARN
	ErrorLevel Level = 17 // ERROR
	AlertLevel Level = 20 // ALERT
)

var levelNames = map[Level]string{
	TraceLevel: "TRACE",
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
	AlertLevel: "ALERT",
}

// String returns the upper-case name that is written as "level"
// in every record. Levels between the named ones round down.
func (level Level) String() string {
	if s, ok := levelNames[level]; ok {
		return s
	}
	switch {
	case level < DebugLevel:
		return levelNames[TraceLevel]
	case level < InfoLevel:
		return levelNames[DebugLevel]
	case level < WarnLevel:
		return levelNames[InfoLevel]
	case level < ErrorLevel:
		return levelNames[WarnLevel]
	case level < AlertLevel:
		return levelNames[ErrorLevel]
	default:
		return levelNames[AlertLevel]
	}
}

// LevelString parses a level name, ignoring case.
func LevelString(s string) (Level, error) {
	u := strings.ToUpper(s)
	for level, name := range levelNames {
		if name == u {
			return level, nil
		}
	}
	return 0, errors.Errorf("%q is not a valid level", s)
}
