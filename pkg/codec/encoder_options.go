//go:build cgo_enabled

package codec

type EncoderOption = func(*GeneralEncoder) error

func WithEncoderBitrate(bps int64) EncoderOption {
	return func(encoder *GeneralEncoder) error {
		encoder.SetBitrate(bps)
		return nil
	}
}

func WithEncoderGopSize(size int) EncoderOption {
	return func(encoder *GeneralEncoder) error {
		encoder.SetGopSize(size)
		return nil
	}
}

// WithLowLatencyX264 tunes libx264 for real time streaming.
func WithLowLatencyX264(encoder *GeneralEncoder) error {
	if err := encoder.SetCodecFlag("preset", "ultrafast"); err != nil {
		return err
	}
	if err := encoder.SetCodecFlag("tune", "zerolatency"); err != nil {
		return err
	}
	return encoder.SetCodecFlag("profile", "baseline")
}
