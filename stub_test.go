package videostream

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

// --- Test collaborators ---

type stubFrame struct {
	width, height int
	format        codec.PixelFormat
	pts, dts      int64
	freed         int
}

func (f *stubFrame) Width() int                     { return f.width }
func (f *stubFrame) Height() int                    { return f.height }
func (f *stubFrame) PixelFormat() codec.PixelFormat { return f.format }
func (f *stubFrame) PTS() int64                     { return f.pts }
func (f *stubFrame) DTS() int64                     { return f.dts }
func (f *stubFrame) Free()                          { f.freed++ }

// decodeStep scripts one Decode call. consume < 0 takes every remaining byte.
type decodeStep struct {
	consume int
	outcome codec.Outcome
	pts     int64
	dts     int64
	width   int
	height  int
	err     error
}

func full(pts int64) decodeStep {
	return decodeStep{consume: -1, outcome: codec.Decoded, pts: pts, dts: codec.NoTimestamp}
}

// stubCodec replays decode steps and tracks reference frames the way a real
// codec keeps them between calls until it is flushed.
type stubCodec struct {
	params   codec.Parameters
	steps    []decodeStep
	next     func(call int) decodeStep
	allocErr error
	flushErr error

	calls       int
	allocs      int
	flushes     int
	references  int
	refsAtStart []int
	offered     []*codec.Packet
	frame       *stubFrame
}

func newStubCodec(steps ...decodeStep) *stubCodec {
	return &stubCodec{
		params: codec.Parameters{
			Width:       4,
			Height:      2,
			PixelFormat: codec.PixelFormatYUV420P,
			TimeBase:    codec.NewRational(1, 1000),
			StartTime:   codec.NoTimestamp,
		},
		steps: steps,
	}
}

func (c *stubCodec) Parameters() codec.Parameters {
	return c.params
}

func (c *stubCodec) AllocFrame() (codec.Frame, error) {
	if c.allocErr != nil {
		return nil, c.allocErr
	}
	c.allocs++
	c.frame = &stubFrame{pts: codec.NoTimestamp, dts: codec.NoTimestamp}
	return c.frame, nil
}

func (c *stubCodec) Flush() error {
	if c.flushErr != nil {
		return c.flushErr
	}
	c.flushes++
	c.references = 0
	return nil
}

func (c *stubCodec) Decode(packet *codec.Packet, frame codec.Frame) codec.Result {
	var step decodeStep
	switch {
	case c.calls < len(c.steps):
		step = c.steps[c.calls]
	case c.next != nil:
		step = c.next(c.calls)
	default:
		step = decodeStep{outcome: codec.Failed, err: errors.New("script exhausted")}
	}
	c.calls++
	c.offered = append(c.offered, packet)
	c.refsAtStart = append(c.refsAtStart, c.references)

	consumed := step.consume
	if consumed < 0 {
		consumed = packet.Remaining()
	}

	if step.outcome != codec.Decoded {
		return codec.Result{Outcome: step.outcome, Consumed: consumed, Err: step.err}
	}

	c.references++
	f := frame.(*stubFrame)
	f.width, f.height, f.format = c.params.Width, c.params.Height, c.params.PixelFormat
	if step.width != 0 {
		f.width, f.height = step.width, step.height
	}
	f.pts, f.dts = step.pts, step.dts

	return codec.Result{Outcome: codec.Decoded, Consumed: consumed}
}

type discardRecord struct {
	packet    *codec.Packet
	remaining int
}

type stubSupply struct {
	packets   []*codec.Packet
	generate  func() *codec.Packet
	discards  []discardRecord
	prepends  int
	doubleRel int
}

func newSupply(sizes ...int) *stubSupply {
	s := &stubSupply{}
	for i, size := range sizes {
		s.packets = append(s.packets, codec.NewPacket(make([]byte, size), int64(i), int64(i)))
	}
	return s
}

func (s *stubSupply) PopNext() (*codec.Packet, bool) {
	if len(s.packets) == 0 {
		if s.generate != nil {
			return s.generate(), true
		}
		return nil, false
	}
	p := s.packets[0]
	s.packets = s.packets[1:]
	return p, true
}

func (s *stubSupply) Prepend(p *codec.Packet) {
	s.prepends++
	s.packets = append([]*codec.Packet{p}, s.packets...)
}

func (s *stubSupply) Discard(p *codec.Packet) {
	if err := p.Release(); err != nil {
		s.doubleRel++
	}
	s.discards = append(s.discards, discardRecord{packet: p, remaining: p.Remaining()})
}

func (s *stubSupply) released(p *codec.Packet) bool {
	for _, d := range s.discards {
		if d.packet == p {
			return true
		}
	}
	return false
}

type stubClock struct {
	offset time.Duration
}

func (c *stubClock) Offset() time.Duration { return c.offset }

type stubSurface struct {
	published int
	pictures  map[*codec.Picture]int
	err       error
}

func (s *stubSurface) Publish(picture *codec.Picture) error {
	if s.err != nil {
		return s.err
	}
	if s.pictures == nil {
		s.pictures = make(map[*codec.Picture]int)
	}
	s.published++
	s.pictures[picture]++
	return nil
}

type stubScaler struct {
	scales int
	closes int
	err    error
}

func (s *stubScaler) Scale(_ codec.Frame, picture *codec.Picture) error {
	if s.err != nil {
		return s.err
	}
	s.scales++
	picture.Bytes()[0] = byte(s.scales)
	return nil
}

func (s *stubScaler) Close() { s.closes++ }

type scalerFactory struct {
	created int
	scaler  *stubScaler
	err     error
}

func (f *scalerFactory) create(_ codec.Parameters, _, _ int, _ codec.PixelFormat, _ codec.ScaleAlgorithm) (codec.Scaler, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created++
	f.scaler = &stubScaler{}
	return f.scaler, nil
}

// --- Harness ---

type harness struct {
	codec   *stubCodec
	supply  *stubSupply
	clock   *stubClock
	surface *stubSurface
	factory *scalerFactory
	stream  *VideoStream
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, c *stubCodec, supply *stubSupply, options ...StreamOption) *harness {
	t.Helper()

	h := &harness{
		codec:   c,
		supply:  supply,
		clock:   &stubClock{},
		surface: &stubSurface{},
		factory: &scalerFactory{},
	}

	options = append([]StreamOption{WithScalerFactory(h.factory.create), WithLogger(quietLogger())}, options...)

	stream, err := NewVideoStream(h.codec, h.supply, h.clock, h.surface, options...)
	if err != nil {
		t.Fatalf("NewVideoStream: %v", err)
	}
	t.Cleanup(func() { _ = stream.Close() })

	h.stream = stream
	return h
}
