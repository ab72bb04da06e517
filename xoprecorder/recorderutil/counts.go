package recorderutil

import (
	"github.com/xoplog/xopscope/xoprecorder"
)

// EventCounts tallies the recorded events by type.
func EventCounts(rec *xoprecorder.Recorder) map[xoprecorder.EventType]int {
	counts := make(map[xoprecorder.EventType]int)
	_ = rec.WithLock(func(rec *xoprecorder.Recorder) error {
		for _, event := range rec.Events {
			counts[event.Type]++
		}
		return nil
	})
	return counts
}

// EventCount is the number of events of any of the given types.
func EventCount(rec *xoprecorder.Recorder, types ...xoprecorder.EventType) int {
	counts := EventCounts(rec)
	var got int
	for _, typ := range types {
		got += counts[typ]
	}
	return got
}
