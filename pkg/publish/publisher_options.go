package publish

import (
	"errors"
	"log/slog"
	"time"

	"github.com/pion/interceptor/pkg/nack"
	"github.com/pion/interceptor/pkg/report"
	"github.com/pion/webrtc/v4"
)

type PublisherOption = func(*Publisher) error

func WithDefaultMediaEngine() PublisherOption {
	return func(p *Publisher) error {
		return p.mediaEngine.RegisterDefaultCodecs()
	}
}

func WithDefaultInterceptorRegistry() PublisherOption {
	return func(p *Publisher) error {
		return webrtc.RegisterDefaultInterceptors(p.mediaEngine, p.interceptorRegistry)
	}
}

func WithNACKInterceptor() PublisherOption {
	return func(p *Publisher) error {
		responder, err := nack.NewResponderInterceptor()
		if err != nil {
			return err
		}

		p.mediaEngine.RegisterFeedback(webrtc.RTCPFeedback{Type: webrtc.TypeRTCPFBNACK}, webrtc.RTPCodecTypeVideo)
		p.mediaEngine.RegisterFeedback(webrtc.RTCPFeedback{Type: webrtc.TypeRTCPFBNACK, Parameter: "pli"}, webrtc.RTPCodecTypeVideo)
		p.interceptorRegistry.Add(responder)

		return nil
	}
}

func WithRTCPReportsInterceptor(interval time.Duration) PublisherOption {
	return func(p *Publisher) error {
		sender, err := report.NewSenderInterceptor(report.SenderInterval(interval))
		if err != nil {
			return err
		}

		p.interceptorRegistry.Add(sender)
		return nil
	}
}

func WithICEServers(urls ...string) PublisherOption {
	return func(p *Publisher) error {
		if len(urls) > 0 {
			p.config.ICEServers = append(p.config.ICEServers, webrtc.ICEServer{URLs: urls})
		}
		return nil
	}
}

func WithGatherTimeout(timeout time.Duration) PublisherOption {
	return func(p *Publisher) error {
		if timeout <= 0 {
			return errors.New("gather timeout must be positive")
		}
		p.gatherTimeout = timeout
		return nil
	}
}

func WithLogger(log *slog.Logger) PublisherOption {
	return func(p *Publisher) error {
		if log == nil {
			return errors.New("nil logger")
		}
		p.log = log
		return nil
	}
}
