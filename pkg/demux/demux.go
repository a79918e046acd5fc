// Package demux reads a container and feeds the compressed packets of its
// first video stream to a packet sink.
package demux

import (
	"context"
	"errors"
)

var (
	ErrorAllocateFormatContext    = errors.New("error allocating format context")
	ErrorAllocatePacket           = errors.New("error allocating packet")
	ErrorGeneralAllocate          = errors.New("error allocating general object")
	ErrorNoStreamFound            = errors.New("no stream info found")
	ErrorNoVideoStreamFound       = errors.New("no video stream found")
	ErrorInputFormatDoesNotExists = errors.New("input format does not exist")
)

// PacketSink accepts compressed packets. It copies data before returning.
type PacketSink interface {
	PushData(ctx context.Context, data []byte, pts, dts int64) error
}
