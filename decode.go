package videostream

import (
	"errors"
	"fmt"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

// decodeNext pulls packets until one frame is published, the supply runs dry
// or the codec fails. A packet the codec did not fully consume is offered
// again, never released early.
func (s *VideoStream) decodeNext() error {
	var packet *codec.Packet

	for {
		if packet == nil {
			var ok bool
			if packet, ok = s.supply.PopNext(); !ok {
				s.stats.starved.Add(1)
				s.log.Debug("no packet available")
				return nil
			}
		}

		remaining := packet.Remaining()
		result := s.decoder.Decode(packet, s.frame)

		if err := packet.Advance(result.Consumed); err != nil {
			s.supply.Discard(packet)
			s.stats.decodeFailures.Add(1)
			return fmt.Errorf("%w: codec reported %d of %d bytes consumed: %v", ErrorDecodeFailed, result.Consumed, remaining, err)
		}

		switch result.Outcome {
		case codec.Decoded:
			s.giveBack(packet)
			return s.present()

		case codec.ConsumedNoFrame:
			if packet.Exhausted() {
				s.supply.Discard(packet)
				packet = nil
				s.log.Debug("no picture in this packet, reading further")
				continue
			}
			if result.Consumed == 0 {
				// the codec wants its pending output drained before it takes more input
				s.supply.Prepend(packet)
				s.stats.starved.Add(1)
				return nil
			}

		default:
			s.supply.Discard(packet)
			s.stats.decodeFailures.Add(1)
			s.log.Debug("decode failed", "consumed", result.Consumed, "error", result.Err)
			return fmt.Errorf("%w: %v", ErrorDecodeFailed, result.Err)
		}
	}
}

// giveBack returns a packet that still has bytes to the front of the supply
// and releases an exhausted one.
func (s *VideoStream) giveBack(packet *codec.Packet) {
	if packet.Exhausted() {
		s.supply.Discard(packet)
		return
	}
	s.supply.Prepend(packet)
}

// present converts the decoded frame, records its timestamp and publishes it.
func (s *VideoStream) present() error {
	if s.frame.Width() != s.params.Width || s.frame.Height() != s.params.Height || s.frame.PixelFormat() != s.params.PixelFormat {
		return s.fail(fmt.Errorf("%w: got %dx%d %s, configured for %s", ErrorConfigurationMismatch,
			s.frame.Width(), s.frame.Height(), s.frame.PixelFormat(), s.params))
	}

	if err := s.scaler.Scale(s.frame, s.picture); err != nil {
		if errors.Is(err, codec.ErrorFormatMismatch) {
			return s.fail(fmt.Errorf("%w: %v", ErrorConfigurationMismatch, err))
		}
		s.stats.decodeFailures.Add(1)
		return fmt.Errorf("%w: conversion: %v", ErrorDecodeFailed, err)
	}

	s.resolveTimestamp()
	s.stats.decoded.Add(1)

	if err := s.surface.Publish(s.picture); err != nil {
		return fmt.Errorf("%w: %v", ErrorPublishFailed, err)
	}
	s.stats.published.Add(1)

	return nil
}
