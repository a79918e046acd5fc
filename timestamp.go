package videostream

import (
	"time"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

// bestEffortTimestamp prefers the display order timestamp and falls back to
// the decode order one. Reordering beyond that is not corrected.
func bestEffortTimestamp(frame codec.Frame) (int64, bool) {
	if pts := frame.PTS(); pts != codec.NoTimestamp {
		return pts, true
	}
	if dts := frame.DTS(); dts != codec.NoTimestamp {
		return dts, true
	}
	return 0, false
}

// relativeTimestamp converts stream ticks to a playback position, truncated
// toward zero to whole milliseconds. An undeclared start time counts as zero.
func relativeTimestamp(ts, startTime int64, timeBase codec.Rational) time.Duration {
	if startTime == codec.NoTimestamp {
		startTime = 0
	}
	ms := (ts - startTime) * 1000 * timeBase.Num / timeBase.Den
	return time.Duration(ms) * time.Millisecond
}

// resolveTimestamp records when the frame just decoded should be displayed.
// A frame without any timestamp leaves the previous value in place.
func (s *VideoStream) resolveTimestamp() {
	ts, ok := bestEffortTimestamp(s.frame)
	if !ok {
		s.log.Debug("decoded frame carries no timestamp")
		return
	}

	s.lastDecoded = relativeTimestamp(ts, s.params.StartTime, s.params.TimeBase)
	s.stats.lastTimestamp.Store(int64(s.lastDecoded))
}
