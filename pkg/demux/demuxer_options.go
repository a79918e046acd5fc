//go:build cgo_enabled

package demux

import (
	"errors"
	"log/slog"

	"github.com/asticode/go-astiav"
)

type DemuxerOption = func(*GeneralDemuxer) error

func WithLogger(log *slog.Logger) DemuxerOption {
	return func(demuxer *GeneralDemuxer) error {
		if log == nil {
			return errors.New("nil logger")
		}
		demuxer.log = log
		return nil
	}
}

var lowLatencyRTSP = [][2]string{
	{"rtsp_transport", "tcp"},
	{"timeout", "5000000"},
	{"fflags", "nobuffer"},
	{"flags", "low_delay"},
}

// WithLowLatencyRTSP pulls an RTSP camera over TCP with input buffering off.
func WithLowLatencyRTSP(demuxer *GeneralDemuxer) error {
	for _, option := range lowLatencyRTSP {
		if err := demuxer.SetInputOption(option[0], option[1], 0); err != nil {
			return err
		}
	}
	return nil
}

// WithInputFormat forces an FFmpeg input format such as "avfoundation" or "v4l2".
func WithInputFormat(name string) DemuxerOption {
	return func(demuxer *GeneralDemuxer) error {
		f := astiav.FindInputFormat(name)
		if f == nil {
			return ErrorInputFormatDoesNotExists
		}
		demuxer.SetInputFormat(f)
		return nil
	}
}

// WithInputOptions sets every entry of options on the input before it is opened.
func WithInputOptions(options map[string]string) DemuxerOption {
	return func(demuxer *GeneralDemuxer) error {
		for key, value := range options {
			if err := demuxer.SetInputOption(key, value, 0); err != nil {
				return err
			}
		}
		return nil
	}
}
