//go:build cgo_enabled

package codec

type DecoderOption = func(*GeneralDecoder) error

func withVideoSetDecoderContext(stream CanDescribeMediaPacket) DecoderOption {
	return func(decoder *GeneralDecoder) error {
		var consumer CanSetMediaPacket = decoder

		if err := consumer.SetCodec(stream); err != nil {
			return err
		}

		if err := consumer.FillContextContent(stream); err != nil {
			return err
		}

		consumer.SetTimeBase(stream)
		return nil
	}
}

// WithDecoderThreads sets the codec thread count; 0 lets FFmpeg decide.
func WithDecoderThreads(n int) DecoderOption {
	return func(decoder *GeneralDecoder) error {
		return decoder.SetThreadCount(n)
	}
}

// WithDecoderFlags passes private options such as "err_detect" to the codec when it is opened.
func WithDecoderFlags(flags map[string]string) DecoderOption {
	return func(decoder *GeneralDecoder) error {
		for key, value := range flags {
			if err := decoder.SetCodecFlag(key, value); err != nil {
				return err
			}
		}
		return nil
	}
}
