//go:build cgo_enabled

package codec

import (
	"errors"
	"sync"

	"github.com/asticode/go-astiav"
)

// GeneralEncoder compresses yuv420p pictures one at a time. It is used to
// send the pictures a stream publishes over a network track.
type GeneralEncoder struct {
	encoderContext *astiav.CodecContext
	codec          *astiav.Codec
	codecFlags     *astiav.Dictionary
	frame          *astiav.Frame
	packet         *astiav.Packet
	width, height  int
	pts            int64
	closed         bool

	mux  sync.Mutex
	once sync.Once
}

func CreateGeneralEncoder(codecID astiav.CodecID, width, height int, frameRate Rational, options ...EncoderOption) (*GeneralEncoder, error) {
	if width <= 0 || height <= 0 || !frameRate.Valid() {
		return nil, ErrorInvalidDimensions
	}

	encoder := &GeneralEncoder{
		codecFlags: astiav.NewDictionary(),
		width:      width,
		height:     height,
	}

	if encoder.codec = astiav.FindEncoder(codecID); encoder.codec == nil {
		return nil, ErrorNoCodecFound
	}
	if encoder.encoderContext = astiav.AllocCodecContext(encoder.codec); encoder.encoderContext == nil {
		encoder.Close()
		return nil, ErrorAllocateCodecContext
	}

	encoder.encoderContext.SetWidth(width)
	encoder.encoderContext.SetHeight(height)
	encoder.encoderContext.SetPixelFormat(astiav.PixelFormatYuv420P)
	encoder.encoderContext.SetFramerate(frameRate.AV())
	encoder.encoderContext.SetTimeBase(astiav.NewRational(int(frameRate.Den), int(frameRate.Num)))

	for _, option := range options {
		if err := option(encoder); err != nil {
			encoder.Close()
			return nil, err
		}
	}

	if err := encoder.encoderContext.Open(encoder.codec, encoder.codecFlags); err != nil {
		encoder.Close()
		return nil, err
	}

	if encoder.frame = astiav.AllocFrame(); encoder.frame == nil {
		encoder.Close()
		return nil, ErrorAllocateFrame
	}
	encoder.frame.SetWidth(width)
	encoder.frame.SetHeight(height)
	encoder.frame.SetPixelFormat(astiav.PixelFormatYuv420P)
	if err := encoder.frame.AllocBuffer(1); err != nil {
		encoder.Close()
		return nil, err
	}

	if encoder.packet = astiav.AllocPacket(); encoder.packet == nil {
		encoder.Close()
		return nil, ErrorAllocatePacket
	}

	return encoder, nil
}

// Encode sends one picture and collects every packet the codec has ready.
// The result is empty while the codec is still filling its lookahead.
func (e *GeneralEncoder) Encode(picture *Picture) ([]byte, error) {
	e.mux.Lock()
	defer e.mux.Unlock()

	if e.closed {
		return nil, ErrorEncoderClosed
	}
	if picture.PixelFormat() != PixelFormatYUV420P || picture.Width() != e.width || picture.Height() != e.height {
		return nil, ErrorFormatMismatch
	}

	if err := e.frame.MakeWritable(); err != nil {
		return nil, err
	}
	if err := e.frame.Data().SetBytes(picture.Bytes(), 1); err != nil {
		return nil, err
	}
	e.frame.SetPts(e.pts)
	e.pts++

	if err := e.encoderContext.SendFrame(e.frame); err != nil && !errors.Is(err, astiav.ErrEagain) {
		return nil, err
	}

	var payload []byte
	for {
		if err := e.encoderContext.ReceivePacket(e.packet); err != nil {
			if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
				return payload, nil
			}
			return nil, err
		}
		payload = append(payload, e.packet.Data()...)
		e.packet.Unref()
	}
}

func (e *GeneralEncoder) SetCodecFlag(key, value string) error {
	return e.codecFlags.Set(key, value, 0)
}

// SetBitrate may be called while encoding; the codec picks it up on the next frame.
func (e *GeneralEncoder) SetBitrate(bps int64) {
	e.mux.Lock()
	defer e.mux.Unlock()

	if e.closed {
		return
	}
	e.encoderContext.SetBitRate(bps)
}

func (e *GeneralEncoder) SetGopSize(size int) {
	e.encoderContext.SetGopSize(size)
}

func (e *GeneralEncoder) Close() {
	e.once.Do(func() {
		e.mux.Lock()
		defer e.mux.Unlock()

		e.closed = true
		if e.packet != nil {
			e.packet.Free()
		}
		if e.frame != nil {
			e.frame.Free()
		}
		if e.encoderContext != nil {
			e.encoderContext.Free()
		}
		if e.codecFlags != nil {
			e.codecFlags.Free()
		}
	})
}
