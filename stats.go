package videostream

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time copy of the stream counters.
type Stats struct {
	Ticks          int64
	Decoded        int64
	Published      int64
	DecodeFailures int64
	Starved        int64
	LastGap        time.Duration
	LastTimestamp  time.Duration
}

// streamStats is written on the polling goroutine and may be read from any other.
type streamStats struct {
	ticks          atomic.Int64
	decoded        atomic.Int64
	published      atomic.Int64
	decodeFailures atomic.Int64
	starved        atomic.Int64
	lastGap        atomic.Int64
	lastTimestamp  atomic.Int64
}

func (s *streamStats) snapshot() Stats {
	return Stats{
		Ticks:          s.ticks.Load(),
		Decoded:        s.decoded.Load(),
		Published:      s.published.Load(),
		DecodeFailures: s.decodeFailures.Load(),
		Starved:        s.starved.Load(),
		LastGap:        time.Duration(s.lastGap.Load()),
		LastTimestamp:  time.Duration(s.lastTimestamp.Load()),
	}
}
