package surface

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

// PictureEncoder compresses one picture into a sample payload. An empty
// payload means the encoder buffered the picture and has nothing to send yet.
type PictureEncoder interface {
	Encode(picture *codec.Picture) ([]byte, error)
}

type SampleWriter interface {
	WriteSample(sample media.Sample) error
}

// TrackSurface encodes published pictures and writes them to a WebRTC track.
type TrackSurface struct {
	encoder         PictureEncoder
	writer          SampleWriter
	local           *webrtc.TrackLocalStaticSample
	codecCapability *webrtc.RTPCodecCapability
	label           string
	streamID        string

	now  func() time.Time
	last time.Time
	log  *slog.Logger
	mux  sync.Mutex
}

func CreateTrackSurface(label string, encoder PictureEncoder, options ...TrackOption) (*TrackSurface, error) {
	if encoder == nil {
		return nil, ErrorMissingEncoder
	}

	s := &TrackSurface{
		encoder:  encoder,
		label:    label,
		streamID: "videostream",
		now:      time.Now,
		log:      slog.Default(),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	s.log = s.log.With("component", "track-surface", "track", label)

	if s.writer == nil {
		if s.codecCapability == nil {
			return nil, ErrorMissingTrack
		}

		local, err := webrtc.NewTrackLocalStaticSample(*s.codecCapability, label, s.streamID)
		if err != nil {
			return nil, err
		}
		s.local, s.writer = local, local
	}

	return s, nil
}

// Track is the local track to add to a peer connection. It is nil when a
// custom sample writer was given.
func (s *TrackSurface) Track() *webrtc.TrackLocalStaticSample {
	return s.local
}

// Publish encodes the picture and writes it with the wall time elapsed since
// the previous sample as its duration.
func (s *TrackSurface) Publish(picture *codec.Picture) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	payload, err := s.encoder.Encode(picture)
	if err != nil {
		return fmt.Errorf("error encoding picture: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}

	now := s.now()
	var duration time.Duration
	if !s.last.IsZero() {
		duration = now.Sub(s.last)
	}
	s.last = now

	if err := s.writer.WriteSample(media.Sample{Data: payload, Duration: duration, Timestamp: now}); err != nil {
		s.log.Debug("sample write failed", "error", err)
		return err
	}

	return nil
}

// Close releases the encoder when it holds native resources.
func (s *TrackSurface) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()

	if closer, ok := s.encoder.(interface{ Close() }); ok {
		closer.Close()
	}
}
