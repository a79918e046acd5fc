//go:build cgo_enabled

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/asticode/go-astiav"
	"golang.org/x/sync/errgroup"

	"github.com/harshabose/simple_webrtc_comm/videostream"
	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/clock"
	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/demux"
	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/packetqueue"
	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/publish"
	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/surface"
)

func run(ctx context.Context, config *PlayerConfig, log *slog.Logger) error {
	demuxer, err := demux.CreateGeneralDemuxer(config.Input, demuxerOptions(config, log)...)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", config.Input, err)
	}
	defer demuxer.Close()

	queue, err := packetqueue.New(packetqueue.WithCapacity(config.Queue), packetqueue.WithLogger(log))
	if err != nil {
		return err
	}
	defer queue.Close()

	decoderOptions := []codec.DecoderOption{codec.WithDecoderThreads(config.Threads)}
	if len(config.DecoderFlags) > 0 {
		decoderOptions = append(decoderOptions, codec.WithDecoderFlags(config.DecoderFlags))
	}
	decoder, err := codec.CreateGeneralDecoder(demuxer, decoderOptions...)
	if err != nil {
		return fmt.Errorf("error opening decoder: %w", err)
	}
	defer decoder.Close()

	streamOptions := append([]videostream.StreamOption{videostream.WithLogger(log)}, config.Stream.ToOptions()...)

	var (
		target   videostream.PresentationSurface
		snapshot *surface.ImageSurface
	)
	if config.WebRTC != nil {
		publisher, track, err := connect(ctx, config, demuxer, decoder.Parameters(), log)
		if err != nil {
			return err
		}
		defer track.Close()
		defer func() { _ = publisher.Close() }()

		target = track
		streamOptions = append(streamOptions, videostream.WithPixelFormat(codec.PixelFormatYUV420P))
	} else {
		snapshot = surface.NewImageSurface()
		target = snapshot
	}

	timer := clock.NewTimer()
	stream, err := videostream.NewVideoStream(decoder, queue, timer, target, streamOptions...)
	if err != nil {
		return err
	}
	defer func() { _ = stream.Close() }()
	timer.AddObserver(stream)

	var demuxDone atomic.Bool
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer demuxDone.Store(true)
		return demuxer.Run(gctx, queue)
	})

	g.Go(func() error {
		defer timer.Stop()
		return play(gctx, config.Tick, timer, stream, queue, &demuxDone, log)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	stats := stream.Stats()
	log.Info("playback finished", "published", stats.Published, "decoded", stats.Decoded,
		"failures", stats.DecodeFailures, "ticks", stats.Ticks)

	if snapshot != nil && config.Snapshot != "" {
		return writeSnapshot(snapshot, config.Snapshot)
	}
	return nil
}

func demuxerOptions(config *PlayerConfig, log *slog.Logger) []demux.DemuxerOption {
	options := []demux.DemuxerOption{demux.WithLogger(log)}
	if config.InputFormat != "" {
		options = append(options, demux.WithInputFormat(config.InputFormat))
	}
	if config.RTSP {
		options = append(options, demux.WithLowLatencyRTSP)
	}
	if len(config.InputOptions) > 0 {
		options = append(options, demux.WithInputOptions(config.InputOptions))
	}
	return options
}

// play polls the stream once per tick until the input is drained.
func play(ctx context.Context, tick time.Duration, timer *clock.Timer, stream *videostream.VideoStream, queue *packetqueue.Queue, demuxDone *atomic.Bool, log *slog.Logger) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	timer.Play()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		err := stream.UpdateIfDue()
		switch {
		case err == nil:
		case errors.Is(err, videostream.ErrorStreamFailed):
			return err
		default:
			log.Warn("frame skipped", "error", err)
		}

		if demuxDone.Load() && queue.Len() == 0 && stream.SynchronizationGap() < 0 {
			return nil
		}
	}
}

func connect(ctx context.Context, config *PlayerConfig, demuxer *demux.GeneralDemuxer, params codec.Parameters, log *slog.Logger) (*publish.Publisher, *surface.TrackSurface, error) {
	width, height := params.Width, params.Height
	if d := config.Stream.Display; d != nil {
		width, height = d.Width, d.Height
	}

	frameRate := codec.RationalFromAV(demuxer.FrameRate())
	if !frameRate.Valid() {
		frameRate = codec.NewRational(30, 1)
	}

	options := []codec.EncoderOption{codec.WithLowLatencyX264, codec.WithEncoderGopSize(int(frameRate.Float64()))}
	if config.WebRTC.Bitrate > 0 {
		options = append(options, codec.WithEncoderBitrate(config.WebRTC.Bitrate))
	}
	encoder, err := codec.CreateGeneralEncoder(astiav.CodecIDH264, width, height, frameRate, options...)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening encoder: %w", err)
	}

	track, err := surface.CreateTrackSurface("video", encoder, surface.WithH264Track(90000), surface.WithTrackLogger(log))
	if err != nil {
		encoder.Close()
		return nil, nil, err
	}

	publisherOptions := []publish.PublisherOption{
		publish.WithDefaultMediaEngine(),
		publish.WithNACKInterceptor(),
		publish.WithRTCPReportsInterceptor(time.Second),
		publish.WithICEServers(config.WebRTC.ICEServers...),
		publish.WithLogger(log),
	}
	publisher, err := publish.NewPublisher(ctx, publisherOptions...)
	if err != nil {
		track.Close()
		return nil, nil, err
	}

	if err := publisher.AddTrack(track.Track()); err != nil {
		_ = publisher.Close()
		track.Close()
		return nil, nil, err
	}

	if err := publisher.Connect(ctx, publish.NewFileSignal(config.WebRTC.OfferPath, config.WebRTC.AnswerPath)); err != nil {
		_ = publisher.Close()
		track.Close()
		return nil, nil, err
	}

	return publisher, track, nil
}

func writeSnapshot(s *surface.ImageSurface, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return s.WritePNG(f)
}
