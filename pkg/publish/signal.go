package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v4"
)

// FileSignal exchanges base64 encoded session descriptions through two
// files, for peers that share a filesystem or are wired by hand.
type FileSignal struct {
	offerPath  string
	answerPath string
	poll       time.Duration
	timeout    time.Duration
}

func NewFileSignal(offerPath, answerPath string) *FileSignal {
	return &FileSignal{
		offerPath:  offerPath,
		answerPath: answerPath,
		poll:       time.Second,
		timeout:    5 * time.Minute,
	}
}

// WriteOffer removes any stale answer and writes the offer.
func (s *FileSignal) WriteOffer(_ context.Context, offer webrtc.SessionDescription) error {
	if err := os.Remove(s.answerPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing existing answer file: %w", err)
	}

	encoded, err := EncodeSessionDescription(offer)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.offerPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.offerPath, []byte(encoded), 0o644)
}

// ReadAnswer polls until the answer file appears and decodes.
func (s *FileSignal) ReadAnswer(ctx context.Context) (webrtc.SessionDescription, error) {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	timeout := time.NewTimer(s.timeout)
	defer timeout.Stop()

	for {
		if data, err := os.ReadFile(s.answerPath); err == nil {
			if answer, err := DecodeSessionDescription(string(data)); err == nil {
				return answer, nil
			}
		}

		select {
		case <-ticker.C:
		case <-timeout.C:
			return webrtc.SessionDescription{}, ErrorAnswerTimeout
		case <-ctx.Done():
			return webrtc.SessionDescription{}, ctx.Err()
		}
	}
}

func EncodeSessionDescription(desc webrtc.SessionDescription) (string, error) {
	b, err := json.Marshal(desc)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeSessionDescription(encoded string) (webrtc.SessionDescription, error) {
	var desc webrtc.SessionDescription

	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return desc, fmt.Errorf("base64 decode error: %w", err)
	}
	if err := json.Unmarshal(b, &desc); err != nil {
		return desc, fmt.Errorf("JSON unmarshal error: %w", err)
	}
	return desc, nil
}

// checkAnswer makes sure the remote peer accepted a video section.
func checkAnswer(answer webrtc.SessionDescription) error {
	parsed := &sdp.SessionDescription{}
	if err := parsed.Unmarshal([]byte(answer.SDP)); err != nil {
		return fmt.Errorf("error parsing answer: %w", err)
	}

	for _, media := range parsed.MediaDescriptions {
		if media.MediaName.Media == "video" && media.MediaName.Port.Value != 0 {
			return nil
		}
	}
	return ErrorNoVideoInAnswer
}
