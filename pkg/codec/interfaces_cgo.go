//go:build cgo_enabled

package codec

import (
	"github.com/asticode/go-astiav"
)

type CanDescribeTimeBase interface {
	TimeBase() astiav.Rational
}

type CanDescribeMediaPacket interface {
	MediaType() astiav.MediaType
	CodecID() astiav.CodecID
	GetCodecParameters() *astiav.CodecParameters
	// StartTime is the declared first timestamp of the stream, astiav.NoPtsValue when unknown.
	StartTime() int64
	CanDescribeTimeBase
}

type CanProvideNativeFrame interface {
	Native() *astiav.Frame
}

type CanSetMediaPacket interface {
	FillContextContent(CanDescribeMediaPacket) error
	SetCodec(CanDescribeMediaPacket) error
	SetTimeBase(CanDescribeTimeBase)
}
