package surface

import (
	"errors"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

type stubEncoder struct {
	payloads [][]byte
	err      error
}

func (e *stubEncoder) Encode(_ *codec.Picture) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.payloads) == 0 {
		return nil, nil
	}
	p := e.payloads[0]
	e.payloads = e.payloads[1:]
	return p, nil
}

type stubWriter struct {
	samples []media.Sample
}

func (w *stubWriter) WriteSample(sample media.Sample) error {
	w.samples = append(w.samples, sample)
	return nil
}

func TestTrackSurfaceDurations(t *testing.T) {
	t.Parallel()

	start := time.Unix(100, 0)
	now := start
	writer := &stubWriter{}
	encoder := &stubEncoder{payloads: [][]byte{{1}, nil, {2}}}

	s, err := CreateTrackSurface("video", encoder, WithSampleWriter(writer), withNow(func() time.Time { return now }))
	if err != nil {
		t.Fatal(err)
	}

	picture := fill(t, codec.PixelFormatYUV420P, 2, 2)
	for _, step := range []time.Duration{0, 40 * time.Millisecond, 40 * time.Millisecond} {
		now = now.Add(step)
		if err := s.Publish(picture); err != nil {
			t.Fatal(err)
		}
	}

	if len(writer.samples) != 2 {
		t.Fatalf("samples: got %d, want 2", len(writer.samples))
	}
	if writer.samples[0].Duration != 0 {
		t.Errorf("first duration: got %v", writer.samples[0].Duration)
	}
	if writer.samples[1].Duration != 80*time.Millisecond || writer.samples[1].Data[0] != 2 {
		t.Errorf("second sample: %+v", writer.samples[1])
	}
}

func TestTrackSurfaceEncodeError(t *testing.T) {
	t.Parallel()

	boom := errors.New("encoder gone")
	s, err := CreateTrackSurface("video", &stubEncoder{err: boom}, WithSampleWriter(&stubWriter{}))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Publish(fill(t, codec.PixelFormatYUV420P, 2, 2)); !errors.Is(err, boom) {
		t.Errorf("got %v", err)
	}
}

func TestCreateTrackSurface(t *testing.T) {
	t.Parallel()

	if _, err := CreateTrackSurface("video", nil); !errors.Is(err, ErrorMissingEncoder) {
		t.Errorf("nil encoder: got %v", err)
	}
	if _, err := CreateTrackSurface("video", &stubEncoder{}); !errors.Is(err, ErrorMissingTrack) {
		t.Errorf("no capability: got %v", err)
	}
	if _, err := CreateTrackSurface("video", &stubEncoder{}, WithH264Track(90000), WithVP8Track(90000)); err == nil {
		t.Error("two capabilities should be rejected")
	}

	s, err := CreateTrackSurface("video", &stubEncoder{}, WithH264Track(90000), WithStreamID("cam"))
	if err != nil {
		t.Fatal(err)
	}
	track := s.Track()
	if track == nil || track.Codec().MimeType != webrtc.MimeTypeH264 || track.StreamID() != "cam" {
		t.Errorf("track: %+v", track)
	}
}

type closingEncoder struct {
	stubEncoder
	closed int
}

func (e *closingEncoder) Close() { e.closed++ }

func TestTrackSurfaceClose(t *testing.T) {
	t.Parallel()

	encoder := &closingEncoder{}
	s, err := CreateTrackSurface("video", encoder, WithSampleWriter(&stubWriter{}))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if encoder.closed != 1 {
		t.Errorf("encoder closes: got %d, want 1", encoder.closed)
	}
}
