//go:build cgo_enabled

package codec

import (
	"errors"
	"testing"

	"github.com/asticode/go-astiav"
)

const (
	rawWidth  = 16
	rawHeight = 16
	rawSize   = rawWidth*rawHeight + 2*(rawWidth/2)*(rawHeight/2)
)

// rawStream describes an uncompressed yuv420p stream, which every FFmpeg
// build can decode.
type rawStream struct {
	params *astiav.CodecParameters
}

func newRawStream(t *testing.T) *rawStream {
	t.Helper()

	params := astiav.AllocCodecParameters()
	if params == nil {
		t.Fatal("could not allocate codec parameters")
	}
	t.Cleanup(params.Free)

	params.SetCodecID(astiav.CodecIDRawvideo)
	params.SetMediaType(astiav.MediaTypeVideo)
	params.SetWidth(rawWidth)
	params.SetHeight(rawHeight)
	params.SetPixelFormat(astiav.PixelFormatYuv420P)

	return &rawStream{params: params}
}

func (s *rawStream) MediaType() astiav.MediaType                 { return astiav.MediaTypeVideo }
func (s *rawStream) CodecID() astiav.CodecID                     { return astiav.CodecIDRawvideo }
func (s *rawStream) GetCodecParameters() *astiav.CodecParameters { return s.params }
func (s *rawStream) StartTime() int64                            { return astiav.NoPtsValue }
func (s *rawStream) TimeBase() astiav.Rational                   { return astiav.NewRational(1, 1000) }

func newRawDecoder(t *testing.T, options ...DecoderOption) (*GeneralDecoder, Frame) {
	t.Helper()

	decoder, err := CreateGeneralDecoder(newRawStream(t), options...)
	if err != nil {
		t.Fatalf("CreateGeneralDecoder: %v", err)
	}
	t.Cleanup(decoder.Close)

	frame, err := decoder.AllocFrame()
	if err != nil {
		t.Fatalf("AllocFrame: %v", err)
	}
	t.Cleanup(frame.Free)

	return decoder, frame
}

func rawPacket(pts int64) *Packet {
	return NewPacket(make([]byte, rawSize), pts, pts)
}

func TestDecoderOutcomes(t *testing.T) {
	t.Parallel()

	decoder, frame := newRawDecoder(t, WithDecoderThreads(1))

	if res := decoder.Decode(nil, frame); res.Outcome != ConsumedNoFrame || res.Consumed != 0 {
		t.Fatalf("idle decoder: got %s consumed %d, want consumed-no-frame 0", res.Outcome, res.Consumed)
	}

	packet := rawPacket(40)
	res := decoder.Decode(packet, frame)
	if res.Outcome != Decoded || res.Consumed != rawSize {
		t.Fatalf("first packet: got %s consumed %d err %v", res.Outcome, res.Consumed, res.Err)
	}
	if frame.PTS() != 40 || frame.Width() != rawWidth || frame.PixelFormat() != PixelFormatYUV420P {
		t.Errorf("frame: pts %d width %d format %s", frame.PTS(), frame.Width(), frame.PixelFormat())
	}

	if err := decoder.decoderContext.SendPacket(nil); err != nil {
		t.Fatalf("entering drain mode: %v", err)
	}
	if res := decoder.Decode(nil, frame); res.Outcome != ConsumedNoFrame {
		t.Errorf("drained decoder: got %s err %v, want consumed-no-frame", res.Outcome, res.Err)
	}
}

func TestDecoderRefusedSendConsumesNothing(t *testing.T) {
	t.Parallel()

	decoder, frame := newRawDecoder(t)

	native := astiav.AllocPacket()
	if native == nil {
		t.Fatal("could not allocate packet")
	}
	defer native.Free()

	// Fill the codec until it asks for output to be drained first.
	full := false
	for i := 0; i < 16 && !full; i++ {
		if err := native.FromData(make([]byte, rawSize)); err != nil {
			t.Fatal(err)
		}
		err := decoder.decoderContext.SendPacket(native)
		native.Unref()
		switch {
		case errors.Is(err, astiav.ErrEagain):
			full = true
		case err != nil:
			t.Fatalf("SendPacket: %v", err)
		}
	}
	if !full {
		t.Fatal("codec never refused input")
	}

	packet := rawPacket(80)
	res := decoder.Decode(packet, frame)
	if res.Consumed != 0 {
		t.Errorf("refused send consumed %d bytes", res.Consumed)
	}
	if res.Outcome != Decoded {
		t.Errorf("buffered frame: got %s err %v, want decoded", res.Outcome, res.Err)
	}
	if packet.Remaining() != rawSize {
		t.Errorf("packet remaining: got %d, want %d", packet.Remaining(), rawSize)
	}
}

func TestDecoderFlushRestarts(t *testing.T) {
	t.Parallel()

	decoder, frame := newRawDecoder(t, WithDecoderThreads(1), WithDecoderFlags(map[string]string{"threads": "1"}))
	before := decoder.Parameters()

	if res := decoder.Decode(rawPacket(0), frame); res.Outcome != Decoded {
		t.Fatalf("before flush: got %s err %v", res.Outcome, res.Err)
	}
	if err := decoder.decoderContext.SendPacket(nil); err != nil {
		t.Fatalf("entering drain mode: %v", err)
	}

	if err := decoder.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if after := decoder.Parameters(); after != before {
		t.Errorf("parameters changed across flush: %s != %s", after, before)
	}

	res := decoder.Decode(rawPacket(120), frame)
	if res.Outcome != Decoded || res.Consumed != rawSize {
		t.Fatalf("after flush: got %s consumed %d err %v", res.Outcome, res.Consumed, res.Err)
	}
	if frame.PTS() != 120 {
		t.Errorf("pts after flush: got %d, want 120", frame.PTS())
	}
}

func TestDecoderOptionErrors(t *testing.T) {
	t.Parallel()

	stream := newRawStream(t)

	if _, err := CreateGeneralDecoder(stream, WithDecoderThreads(-1)); !errors.Is(err, ErrorInvalidThreadCount) {
		t.Errorf("negative threads: got %v", err)
	}
	if _, err := CreateGeneralDecoder(stream, WithDecoderFlags(map[string]string{"": "1"})); !errors.Is(err, ErrorInvalidCodecFlag) {
		t.Errorf("empty flag key: got %v", err)
	}
}
