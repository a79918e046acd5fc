package codec

import "fmt"

// Outcome is the result of offering a packet to a decoder once.
type Outcome int

const (
	// Decoded means a full frame is available in the frame slot.
	Decoded Outcome = iota
	// ConsumedNoFrame means bytes were taken but the codec needs more input before it can output.
	ConsumedNoFrame
	// Failed means the codec rejected the packet.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Decoded:
		return "decoded"
	case ConsumedNoFrame:
		return "consumed-no-frame"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result reports what one decode call did with a packet. Err is set only for Failed.
type Result struct {
	Outcome  Outcome
	Consumed int
	Err      error
}

// Parameters is the immutable description of a video stream and its codec.
type Parameters struct {
	Width       int
	Height      int
	PixelFormat PixelFormat
	TimeBase    Rational
	StartTime   int64
}

func (p Parameters) String() string {
	return fmt.Sprintf("%dx%d %s tb=%s", p.Width, p.Height, p.PixelFormat, p.TimeBase)
}

// Frame is a decoded picture owned by whoever allocated it. Its content is only
// valid until the next decode call that uses it.
type Frame interface {
	Width() int
	Height() int
	PixelFormat() PixelFormat
	// PTS is the display order timestamp, NoTimestamp when the codec has none.
	PTS() int64
	// DTS is the decode order timestamp of the packet that produced the frame.
	DTS() int64
	Free()
}

type CanDescribeStream interface {
	Parameters() Parameters
}

type CanAllocFrame interface {
	AllocFrame() (Frame, error)
}

type CanFlush interface {
	// Flush drops reference frames and buffered input so decoding restarts cleanly.
	Flush() error
}

type Decoder interface {
	CanDescribeStream
	CanAllocFrame
	CanFlush
	// Decode offers the unconsumed bytes of packet and writes any output into frame.
	Decode(packet *Packet, frame Frame) Result
}

type Scaler interface {
	// Scale converts frame into picture in place.
	Scale(frame Frame, picture *Picture) error
	Close()
}

// ScalerFactory builds the conversion plan for one fixed source and destination geometry.
type ScalerFactory = func(src Parameters, dstWidth, dstHeight int, dstFormat PixelFormat, algorithm ScaleAlgorithm) (Scaler, error)
