package videostream

import (
	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeVideo
	MediaTypeAudio
	MediaTypeSubtitle
)

func (m MediaType) String() string {
	switch m {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeSubtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

const (
	DefaultPixelFormat    = codec.PixelFormatRGBA
	DefaultScaleAlgorithm = codec.ScaleBilinear
)
