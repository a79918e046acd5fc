// Package publish sends a local video track to one remote WebRTC peer.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v4"
)

var (
	ErrorNoVideoInAnswer = errors.New("answer carries no video media section")
	ErrorGatherTimeout   = errors.New("failed to gather ICE candidates in time")
	ErrorAnswerTimeout   = errors.New("timeout waiting for answer")
	ErrorAlreadyHasTrack = errors.New("publisher already has a track")
)

// Signal exchanges the session descriptions with the remote peer.
type Signal interface {
	WriteOffer(ctx context.Context, offer webrtc.SessionDescription) error
	ReadAnswer(ctx context.Context) (webrtc.SessionDescription, error)
}

type Publisher struct {
	mediaEngine         *webrtc.MediaEngine
	interceptorRegistry *interceptor.Registry
	settingsEngine      *webrtc.SettingEngine
	config              webrtc.Configuration
	gatherTimeout       time.Duration

	peerConnection *webrtc.PeerConnection
	sender         *webrtc.RTPSender

	log    *slog.Logger
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewPublisher(ctx context.Context, options ...PublisherOption) (*Publisher, error) {
	ctx2, cancel2 := context.WithCancel(ctx)

	p := &Publisher{
		mediaEngine:         &webrtc.MediaEngine{},
		interceptorRegistry: &interceptor.Registry{},
		settingsEngine:      &webrtc.SettingEngine{},
		gatherTimeout:       30 * time.Second,
		log:                 slog.Default(),
		ctx:                 ctx2,
		cancel:              cancel2,
	}

	for _, option := range options {
		if err := option(p); err != nil {
			cancel2()
			return nil, err
		}
	}
	p.log = p.log.With("component", "publisher")

	api := webrtc.NewAPI(webrtc.WithMediaEngine(p.mediaEngine), webrtc.WithInterceptorRegistry(p.interceptorRegistry), webrtc.WithSettingEngine(*p.settingsEngine))

	pc, err := api.NewPeerConnection(p.config)
	if err != nil {
		cancel2()
		return nil, err
	}
	p.peerConnection = pc

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		p.log.Info("peer connection state changed", "state", state.String())
	})

	return p, nil
}

// AddTrack attaches the single outgoing video track and starts draining its RTCP.
func (p *Publisher) AddTrack(track webrtc.TrackLocal) error {
	if p.sender != nil {
		return ErrorAlreadyHasTrack
	}

	sender, err := p.peerConnection.AddTrack(track)
	if err != nil {
		return err
	}
	p.sender = sender

	p.wg.Add(1)
	go p.rtcpLoop()

	return nil
}

// Connect runs one offer/answer exchange through signal.
func (p *Publisher) Connect(ctx context.Context, signal Signal) error {
	offer, err := p.offer(ctx)
	if err != nil {
		return err
	}

	if err := signal.WriteOffer(ctx, offer); err != nil {
		return fmt.Errorf("error sending offer: %w", err)
	}

	answer, err := signal.ReadAnswer(ctx)
	if err != nil {
		return fmt.Errorf("error receiving answer: %w", err)
	}

	if err := checkAnswer(answer); err != nil {
		return err
	}

	if err := p.peerConnection.SetRemoteDescription(answer); err != nil {
		return fmt.Errorf("error setting remote description: %w", err)
	}

	p.log.Info("answer applied")
	return nil
}

// offer creates the local description and waits for ICE gathering so the
// offer can be exchanged in one message.
func (p *Publisher) offer(ctx context.Context) (webrtc.SessionDescription, error) {
	offer, err := p.peerConnection.CreateOffer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("error creating offer: %w", err)
	}

	gathered := webrtc.GatheringCompletePromise(p.peerConnection)
	if err := p.peerConnection.SetLocalDescription(offer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("error setting local description: %w", err)
	}

	timer := time.NewTimer(p.gatherTimeout)
	defer timer.Stop()

	select {
	case <-gathered:
	case <-timer.C:
		return webrtc.SessionDescription{}, ErrorGatherTimeout
	case <-ctx.Done():
		return webrtc.SessionDescription{}, ctx.Err()
	}

	return *p.peerConnection.LocalDescription(), nil
}

func (p *Publisher) rtcpLoop() {
	defer p.wg.Done()

	buf := make([]byte, 1500)
	for {
		select {
		case <-p.ctx.Done():
			return
		default:
		}
		if _, _, err := p.sender.Read(buf); err != nil {
			return
		}
	}
}

func (p *Publisher) Close() error {
	var err error
	p.once.Do(func() {
		p.cancel()
		if p.peerConnection != nil {
			err = p.peerConnection.Close()
		}
		p.wg.Wait()
	})
	return err
}
