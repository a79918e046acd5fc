//go:build cgo_enabled

package codec

import (
	"github.com/asticode/go-astiav"
)

// AVFrame is a Frame backed by an FFmpeg AVFrame.
type AVFrame struct {
	frame *astiav.Frame
}

func AllocAVFrame() (*AVFrame, error) {
	frame := astiav.AllocFrame()
	if frame == nil {
		return nil, ErrorAllocateFrame
	}
	return &AVFrame{frame: frame}, nil
}

func (f *AVFrame) Native() *astiav.Frame {
	return f.frame
}

func (f *AVFrame) Width() int {
	return f.frame.Width()
}

func (f *AVFrame) Height() int {
	return f.frame.Height()
}

func (f *AVFrame) PixelFormat() PixelFormat {
	return PixelFormatFromAV(f.frame.PixelFormat())
}

func (f *AVFrame) PTS() int64 {
	return fromAVTimestamp(f.frame.Pts())
}

func (f *AVFrame) DTS() int64 {
	return fromAVTimestamp(f.frame.PktDts())
}

func (f *AVFrame) Free() {
	if f.frame != nil {
		f.frame.Free()
		f.frame = nil
	}
}

func fromAVTimestamp(ts int64) int64 {
	if ts == astiav.NoPtsValue {
		return NoTimestamp
	}
	return ts
}

func toAVTimestamp(ts int64) int64 {
	if ts == NoTimestamp {
		return astiav.NoPtsValue
	}
	return ts
}
