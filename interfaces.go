package videostream

import (
	"time"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

// PacketSupply hands out the compressed packets of the stream in decode
// order. PopNext must not block: false means no packet is available yet.
type PacketSupply interface {
	PopNext() (*codec.Packet, bool)
	// Prepend returns a partially consumed packet to the front of the supply.
	Prepend(*codec.Packet)
	// Discard releases a packet that will not be offered again.
	Discard(*codec.Packet)
}

// PlaybackClock reports the shared playback position. Offset may be called
// from several stream goroutines at once.
type PlaybackClock interface {
	Offset() time.Duration
}

// PresentationSurface displays converted pictures. Publish is synchronous
// and must be done with the picture when it returns.
type PresentationSurface interface {
	Publish(picture *codec.Picture) error
}
