package xoputil

import (
	"math/bits"
	"strconv"
	"time"
)

// FormatDuration renders d using the coarsest unit that keeps
// the number readable: ns below a microsecond, then us, ms, and s.
// Fractional values always show at least three significant digits.
// Negative durations are rendered as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return formatDuration(uint64(d/time.Second), uint32(d%time.Second))
}

func formatDuration(secs uint64, subsecNanos uint32) string {
	hi, secsPart := bits.Mul64(secs, uint64(time.Second))
	if hi != 0 {
		return strconv.FormatUint(secs, 10) + "s"
	}
	ns, carry := bits.Add64(secsPart, uint64(subsecNanos), 0)
	if carry != 0 {
		return strconv.FormatUint(secs, 10) + "s"
	}
	switch {
	case ns < 1_000:
		return strconv.FormatUint(ns, 10) + "ns"
	case ns < 1_000_000:
		return formatFraction(float64(ns)/1e3, "us")
	case ns < 1_000_000_000:
		return formatFraction(float64(ns)/1e6, "ms")
	default:
		return formatFraction(float64(ns)/1e9, "s")
	}
}

func formatFraction(v float64, unit string) string {
	var prec int
	switch {
	case v < 10:
		prec = 3
	case v < 100:
		prec = 2
	case v < 1000:
		prec = 1
	}
	return strconv.FormatFloat(v, 'f', prec, 64) + unit
}
