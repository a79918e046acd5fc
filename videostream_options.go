package videostream

import (
	"errors"
	"log/slog"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

type StreamOption = func(*VideoStream) error

func WithLogger(log *slog.Logger) StreamOption {
	return func(stream *VideoStream) error {
		if log == nil {
			return errors.New("nil logger")
		}
		stream.log = log
		return nil
	}
}

func WithID(id string) StreamOption {
	return func(stream *VideoStream) error {
		stream.id = id
		return nil
	}
}

// WithDisplaySize scales pictures to width x height instead of the coded size.
func WithDisplaySize(width, height int) StreamOption {
	return func(stream *VideoStream) error {
		if width <= 0 || height <= 0 {
			return codec.ErrorInvalidDimensions
		}
		stream.displayWidth = width
		stream.displayHeight = height
		return nil
	}
}

func WithPixelFormat(format codec.PixelFormat) StreamOption {
	return func(stream *VideoStream) error {
		if _, err := codec.PictureSize(format, 1, 1); err != nil {
			return err
		}
		stream.pixelFormat = format
		return nil
	}
}

func WithScaleAlgorithm(algorithm codec.ScaleAlgorithm) StreamOption {
	return func(stream *VideoStream) error {
		stream.scaleAlgorithm = algorithm
		return nil
	}
}

func WithScalerFactory(factory codec.ScalerFactory) StreamOption {
	return func(stream *VideoStream) error {
		if factory == nil {
			return ErrorMissingScaler
		}
		stream.scalerFactory = factory
		return nil
	}
}
