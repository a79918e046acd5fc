// Package videostream decodes one video elementary stream and keeps it in
// step with a shared playback clock. A VideoStream is polled once per display
// tick; when the picture on screen has fallen behind the clock it decodes the
// next frame, converts it to the display pixel format and publishes it.
//
// The stream does no work on its own goroutines. All calls except Stats must
// come from the same goroutine.
package videostream

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/clock"
	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

var _ clock.Observer = (*VideoStream)(nil)

// defaultScalerFactory is set by builds that link the FFmpeg scaler.
var defaultScalerFactory codec.ScalerFactory

type VideoStream struct {
	id      string
	decoder codec.Decoder
	supply  PacketSupply
	clock   PlaybackClock
	surface PresentationSurface
	params  codec.Parameters

	frame   codec.Frame
	picture *codec.Picture
	scaler  codec.Scaler

	displayWidth   int
	displayHeight  int
	pixelFormat    codec.PixelFormat
	scaleAlgorithm codec.ScaleAlgorithm
	scalerFactory  codec.ScalerFactory

	lastDecoded time.Duration
	err         error
	closed      bool

	stats streamStats
	log   *slog.Logger
	once  sync.Once
}

// NewVideoStream allocates the decoded frame, the display picture and the
// conversion plan for the stream described by decoder. Either everything is
// allocated or nothing is kept.
func NewVideoStream(decoder codec.Decoder, supply PacketSupply, playback PlaybackClock, surface PresentationSurface, options ...StreamOption) (*VideoStream, error) {
	switch {
	case decoder == nil:
		return nil, ErrorMissingDecoder
	case supply == nil:
		return nil, ErrorMissingSupply
	case playback == nil:
		return nil, ErrorMissingClock
	case surface == nil:
		return nil, ErrorMissingSurface
	}

	s := &VideoStream{
		decoder:        decoder,
		supply:         supply,
		clock:          playback,
		surface:        surface,
		params:         decoder.Parameters(),
		pixelFormat:    DefaultPixelFormat,
		scaleAlgorithm: DefaultScaleAlgorithm,
		scalerFactory:  defaultScalerFactory,
		log:            slog.Default(),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.log = s.log.With("component", "video-stream", "stream", s.id)

	if err := s.init(); err != nil {
		s.log.Error("cannot create video stream", "error", err)
		return nil, err
	}

	s.log.Info("video stream ready", "source", s.params.String(),
		"display", fmt.Sprintf("%dx%d %s", s.displayWidth, s.displayHeight, s.pixelFormat), "scale", s.scaleAlgorithm)

	return s, nil
}

func (s *VideoStream) init() error {
	if s.params.Width <= 0 || s.params.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrorInvalidParameters, s.params.Width, s.params.Height)
	}
	if !s.params.TimeBase.Valid() {
		return fmt.Errorf("%w: time base %s", ErrorInvalidParameters, s.params.TimeBase)
	}
	if s.scalerFactory == nil {
		return ErrorMissingScaler
	}
	if s.displayWidth == 0 || s.displayHeight == 0 {
		s.displayWidth, s.displayHeight = s.params.Width, s.params.Height
	}

	frame, err := s.decoder.AllocFrame()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrorAllocateFrame, err)
	}

	picture, err := codec.NewPicture(s.pixelFormat, s.displayWidth, s.displayHeight)
	if err != nil {
		frame.Free()
		return fmt.Errorf("%w: %v", ErrorAllocatePicture, err)
	}

	scaler, err := s.scalerFactory(s.params, s.displayWidth, s.displayHeight, s.pixelFormat, s.scaleAlgorithm)
	if err != nil {
		frame.Free()
		return fmt.Errorf("%w: %v", ErrorAllocateScaler, err)
	}

	s.frame, s.picture, s.scaler = frame, picture, scaler
	return nil
}

func (s *VideoStream) ID() string {
	return s.id
}

func (s *VideoStream) Kind() MediaType {
	return MediaTypeVideo
}

func (s *VideoStream) IsVideo() bool {
	return s.Kind() == MediaTypeVideo
}

func (s *VideoStream) Stats() Stats {
	return s.stats.snapshot()
}

// UpdateIfDue is the per-tick entry point. It decodes and publishes at most
// one frame, and only when the current picture is already late.
func (s *VideoStream) UpdateIfDue() error {
	if err := s.usable(); err != nil {
		return err
	}
	s.stats.ticks.Add(1)

	if !s.dueForDecode() {
		return nil
	}

	return s.decodeNext()
}

// Preload decodes and publishes one frame regardless of the clock, so there
// is something on screen before playback starts.
func (s *VideoStream) Preload() error {
	if err := s.usable(); err != nil {
		return err
	}

	return s.decodeNext()
}

func (s *VideoStream) WillPlay() {
	if err := s.Preload(); err != nil {
		s.log.Warn("preload failed", "error", err)
	}
}

func (s *VideoStream) DidPlay(_ clock.Status) {}

func (s *VideoStream) DidPause(_ clock.Status) {}

// DidStop drops the codec's reference frames so the next play starts from a clean decoder.
func (s *VideoStream) DidStop(previous clock.Status) {
	if s.closed {
		return
	}
	if err := s.decoder.Flush(); err != nil {
		s.log.Warn("decoder reset failed", "previous", previous, "error", err)
		return
	}
	s.log.Debug("decoder flushed", "previous", previous)
}

// Close frees the decoded frame and the conversion plan. The decoder, the
// supply and the surface belong to the caller and are left alone.
func (s *VideoStream) Close() error {
	s.once.Do(func() {
		s.closed = true
		if s.scaler != nil {
			s.scaler.Close()
		}
		if s.frame != nil {
			s.frame.Free()
		}
	})

	return nil
}

func (s *VideoStream) usable() error {
	if s.closed {
		return ErrorStreamClosed
	}
	return s.err
}

// fail records an error the stream cannot recover from.
func (s *VideoStream) fail(err error) error {
	s.err = fmt.Errorf("%w: %w", ErrorStreamFailed, err)
	s.log.Error("video stream stopped", "error", err)
	return s.err
}
