package surface

import (
	"errors"
	"log/slog"
	"time"

	"github.com/pion/webrtc/v4"
)

type TrackOption = func(*TrackSurface) error

func WithH264Track(clockrate uint32) TrackOption {
	return withVideoCapability(webrtc.MimeTypeH264, clockrate)
}

func WithVP8Track(clockrate uint32) TrackOption {
	return withVideoCapability(webrtc.MimeTypeVP8, clockrate)
}

func withVideoCapability(mimeType string, clockrate uint32) TrackOption {
	return func(s *TrackSurface) error {
		if s.codecCapability != nil {
			return errors.New("multiple tracks are not supported on single surface")
		}
		s.codecCapability = &webrtc.RTPCodecCapability{MimeType: mimeType, ClockRate: clockrate}
		return nil
	}
}

func WithStreamID(id string) TrackOption {
	return func(s *TrackSurface) error {
		s.streamID = id
		return nil
	}
}

// WithSampleWriter sends samples to writer instead of a new local track.
func WithSampleWriter(writer SampleWriter) TrackOption {
	return func(s *TrackSurface) error {
		s.writer = writer
		return nil
	}
}

func WithTrackLogger(log *slog.Logger) TrackOption {
	return func(s *TrackSurface) error {
		if log == nil {
			return errors.New("nil logger")
		}
		s.log = log
		return nil
	}
}

func withNow(now func() time.Time) TrackOption {
	return func(s *TrackSurface) error {
		s.now = now
		return nil
	}
}
