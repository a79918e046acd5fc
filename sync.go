package videostream

import "time"

// SynchronizationGap is the last decoded timestamp minus the playback
// offset. Negative means the picture on screen is already late.
func (s *VideoStream) SynchronizationGap() time.Duration {
	return s.lastDecoded - s.clock.Offset()
}

// dueForDecode holds while the current picture is still ahead of the clock.
func (s *VideoStream) dueForDecode() bool {
	gap := s.SynchronizationGap()
	s.stats.lastGap.Store(int64(gap))

	return gap < 0
}
