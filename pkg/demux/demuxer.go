//go:build cgo_enabled

package demux

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/asticode/go-astiav"
)

// GeneralDemuxer reads one input through FFmpeg and exposes the description
// of its video stream, so it can be handed straight to codec.CreateGeneralDecoder.
type GeneralDemuxer struct {
	formatContext   *astiav.FormatContext
	inputOptions    *astiav.Dictionary
	inputFormat     *astiav.InputFormat
	stream          *astiav.Stream
	codecParameters *astiav.CodecParameters
	packet          *astiav.Packet

	log  *slog.Logger
	once sync.Once
}

func CreateGeneralDemuxer(containerAddress string, options ...DemuxerOption) (*GeneralDemuxer, error) {
	astiav.RegisterAllDevices()

	demuxer := &GeneralDemuxer{
		formatContext: astiav.AllocFormatContext(),
		inputOptions:  astiav.NewDictionary(),
		log:           slog.Default(),
	}

	if demuxer.formatContext == nil {
		return nil, ErrorAllocateFormatContext
	}

	if demuxer.inputOptions == nil {
		demuxer.formatContext.Free()
		return nil, fmt.Errorf("error allocating astiav.Dictionary (%w)", ErrorGeneralAllocate)
	}

	for _, option := range options {
		if err := option(demuxer); err != nil {
			demuxer.free()
			return nil, err
		}
	}
	demuxer.log = demuxer.log.With("component", "demuxer", "input", containerAddress)

	if err := demuxer.formatContext.OpenInput(containerAddress, demuxer.inputFormat, demuxer.inputOptions); err != nil {
		demuxer.free()
		return nil, err
	}

	if err := demuxer.formatContext.FindStreamInfo(nil); err != nil {
		demuxer.Close()
		return nil, ErrorNoStreamFound
	}

	for _, stream := range demuxer.formatContext.Streams() {
		if stream.CodecParameters().MediaType() == astiav.MediaTypeVideo {
			demuxer.stream = stream
			break
		}
	}

	if demuxer.stream == nil {
		demuxer.Close()
		return nil, ErrorNoVideoStreamFound
	}
	demuxer.codecParameters = demuxer.stream.CodecParameters()

	if demuxer.packet = astiav.AllocPacket(); demuxer.packet == nil {
		demuxer.Close()
		return nil, ErrorAllocatePacket
	}

	demuxer.log.Info("input opened", "stream", demuxer.stream.Index(), "codec", demuxer.CodecID(),
		"size", fmt.Sprintf("%dx%d", demuxer.codecParameters.Width(), demuxer.codecParameters.Height()))

	return demuxer, nil
}

// Run reads packets of the video stream into sink until the input ends, the
// context is cancelled or the sink refuses a packet. End of input returns nil.
func (d *GeneralDemuxer) Run(ctx context.Context, sink PacketSink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := d.formatContext.ReadFrame(d.packet); err != nil {
			if errors.Is(err, astiav.ErrEof) {
				d.log.Info("end of input")
				return nil
			}
			if errors.Is(err, astiav.ErrEagain) {
				continue
			}
			return fmt.Errorf("error reading input: %w", err)
		}

		if d.packet.StreamIndex() != d.stream.Index() {
			d.packet.Unref()
			continue
		}

		err := sink.PushData(ctx, d.packet.Data(), d.packet.Pts(), d.packet.Dts())
		d.packet.Unref()
		if err != nil {
			return err
		}
	}
}

func (d *GeneralDemuxer) Close() {
	d.once.Do(func() {
		if d.packet != nil {
			d.packet.Free()
		}
		if d.formatContext != nil {
			d.formatContext.CloseInput()
		}
		d.free()
	})
}

func (d *GeneralDemuxer) free() {
	if d.formatContext != nil {
		d.formatContext.Free()
		d.formatContext = nil
	}
	if d.inputOptions != nil {
		d.inputOptions.Free()
		d.inputOptions = nil
	}
}

func (d *GeneralDemuxer) SetInputOption(key, value string, flags astiav.DictionaryFlags) error {
	return d.inputOptions.Set(key, value, flags)
}

func (d *GeneralDemuxer) SetInputFormat(format *astiav.InputFormat) {
	d.inputFormat = format
}

func (d *GeneralDemuxer) GetCodecParameters() *astiav.CodecParameters {
	return d.codecParameters
}

func (d *GeneralDemuxer) MediaType() astiav.MediaType {
	return d.codecParameters.MediaType()
}

func (d *GeneralDemuxer) CodecID() astiav.CodecID {
	return d.codecParameters.CodecID()
}

func (d *GeneralDemuxer) FrameRate() astiav.Rational {
	return d.formatContext.GuessFrameRate(d.stream, nil)
}

func (d *GeneralDemuxer) TimeBase() astiav.Rational {
	return d.stream.TimeBase()
}

func (d *GeneralDemuxer) StartTime() int64 {
	return d.stream.StartTime()
}
