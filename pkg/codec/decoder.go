//go:build cgo_enabled

package codec

import (
	"errors"
	"sync"

	"github.com/asticode/go-astiav"
)

type codecFlag struct {
	key, value string
}

// GeneralDecoder drives an FFmpeg video decoder synchronously. The codec
// context belongs to the decoder; frames are allocated by the caller through
// AllocFrame and stay owned by the caller.
type GeneralDecoder struct {
	decoderContext *astiav.CodecContext
	codec          *astiav.Codec
	stream         CanDescribeMediaPacket
	flags          []codecFlag
	threads        int
	packet         *astiav.Packet
	timeBase       astiav.Rational
	startTime      int64
	params         Parameters

	once sync.Once
}

func CreateGeneralDecoder(stream CanDescribeMediaPacket, options ...DecoderOption) (*GeneralDecoder, error) {
	if stream.MediaType() != astiav.MediaTypeVideo {
		return nil, ErrorUnsupportedMedia
	}

	decoder := &GeneralDecoder{
		startTime: fromAVTimestamp(stream.StartTime()),
	}

	options = append([]DecoderOption{withVideoSetDecoderContext(stream)}, options...)

	for _, option := range options {
		if err := option(decoder); err != nil {
			decoder.Close()
			return nil, err
		}
	}

	if decoder.packet = astiav.AllocPacket(); decoder.packet == nil {
		decoder.Close()
		return nil, ErrorAllocatePacket
	}

	decoderContext, err := decoder.openContext()
	if err != nil {
		decoder.Close()
		return nil, err
	}
	decoder.decoderContext = decoderContext

	decoder.params = Parameters{
		Width:       decoderContext.Width(),
		Height:      decoderContext.Height(),
		PixelFormat: PixelFormatFromAV(decoderContext.PixelFormat()),
		TimeBase:    RationalFromAV(decoder.timeBase),
		StartTime:   decoder.startTime,
	}

	return decoder, nil
}

// openContext builds a codec context from the stream parameters and the
// recorded options. The flags dictionary is rebuilt on every call because
// opening the codec removes the entries it consumed.
func (d *GeneralDecoder) openContext() (*astiav.CodecContext, error) {
	decoderContext := astiav.AllocCodecContext(d.codec)
	if decoderContext == nil {
		return nil, ErrorAllocateCodecContext
	}

	if err := d.stream.GetCodecParameters().ToCodecContext(decoderContext); err != nil {
		decoderContext.Free()
		return nil, err
	}
	decoderContext.SetTimeBase(d.timeBase)
	if d.threads > 0 {
		decoderContext.SetThreadCount(d.threads)
	}

	flags := astiav.NewDictionary()
	defer flags.Free()
	for _, flag := range d.flags {
		if err := flags.Set(flag.key, flag.value, 0); err != nil {
			decoderContext.Free()
			return nil, err
		}
	}

	if err := decoderContext.Open(d.codec, flags); err != nil {
		decoderContext.Free()
		return nil, err
	}

	return decoderContext, nil
}

// Decode sends the unconsumed bytes of packet and tries to receive one frame.
// A send accepted by the codec consumes the whole remaining span; a send
// refused with EAGAIN consumes nothing because a frame has to be received
// first, so the caller offers the same bytes again.
func (d *GeneralDecoder) Decode(packet *Packet, frame Frame) Result {
	native, ok := frame.(CanProvideNativeFrame)
	if !ok {
		return Result{Outcome: Failed, Err: ErrorInterfaceMismatch}
	}

	consumed := 0
	if packet != nil && packet.Remaining() > 0 {
		if err := d.packet.FromData(packet.Bytes()); err != nil {
			return Result{Outcome: Failed, Err: err}
		}
		d.packet.SetPts(toAVTimestamp(packet.PTS()))
		d.packet.SetDts(toAVTimestamp(packet.DTS()))

		err := d.decoderContext.SendPacket(d.packet)
		d.packet.Unref()

		switch {
		case err == nil:
			consumed = packet.Remaining()
		case errors.Is(err, astiav.ErrEagain):
		default:
			return Result{Outcome: Failed, Err: err}
		}
	}

	if err := d.decoderContext.ReceiveFrame(native.Native()); err != nil {
		if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
			return Result{Outcome: ConsumedNoFrame, Consumed: consumed}
		}
		return Result{Outcome: Failed, Consumed: consumed, Err: err}
	}

	return Result{Outcome: Decoded, Consumed: consumed}
}

func (d *GeneralDecoder) AllocFrame() (Frame, error) {
	return AllocAVFrame()
}

// Flush restarts the decoder from the stream parameters, dropping reference
// frames and buffered input. The current context stays in use when the
// replacement cannot be opened.
func (d *GeneralDecoder) Flush() error {
	decoderContext, err := d.openContext()
	if err != nil {
		return err
	}

	d.decoderContext.Free()
	d.decoderContext = decoderContext
	return nil
}

// Parameters describes the stream as opened; it does not change across Flush.
func (d *GeneralDecoder) Parameters() Parameters {
	return d.params
}

func (d *GeneralDecoder) Close() {
	d.once.Do(func() {
		if d.packet != nil {
			d.packet.Free()
		}
		if d.decoderContext != nil {
			d.decoderContext.Free()
		}
	})
}

func (d *GeneralDecoder) SetCodec(producer CanDescribeMediaPacket) error {
	if d.codec = astiav.FindDecoder(producer.CodecID()); d.codec == nil {
		return ErrorNoCodecFound
	}
	d.stream = producer

	return nil
}

func (d *GeneralDecoder) FillContextContent(producer CanDescribeMediaPacket) error {
	if producer.GetCodecParameters() == nil {
		return ErrorMissingCodecParameters
	}
	return nil
}

func (d *GeneralDecoder) SetTimeBase(producer CanDescribeTimeBase) {
	d.timeBase = producer.TimeBase()
}

func (d *GeneralDecoder) SetThreadCount(n int) error {
	if n < 0 {
		return ErrorInvalidThreadCount
	}
	d.threads = n
	return nil
}

func (d *GeneralDecoder) SetCodecFlag(key, value string) error {
	if key == "" {
		return ErrorInvalidCodecFlag
	}
	d.flags = append(d.flags, codecFlag{key: key, value: value})
	return nil
}
