package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harshabose/simple_webrtc_comm/videostream"
)

type PlayerConfig struct {
	Input        string                   `yaml:"input"`
	InputFormat  string                   `yaml:"input_format,omitempty"`
	InputOptions map[string]string        `yaml:"input_options,omitempty"`
	RTSP         bool                     `yaml:"rtsp,omitempty"`
	Tick         time.Duration            `yaml:"tick"`
	Queue        int                      `yaml:"queue"`
	Threads      int                      `yaml:"threads"`
	DecoderFlags map[string]string        `yaml:"decoder_flags,omitempty"`
	Snapshot     string                   `yaml:"snapshot,omitempty"`
	LogLevel     string                   `yaml:"log_level,omitempty"`
	Stream       videostream.StreamConfig `yaml:"stream"`
	// StreamConfig names a separate stream configuration file, relative to
	// the player configuration. It replaces the inline stream section.
	StreamConfig string        `yaml:"stream_config,omitempty"`
	WebRTC       *WebRTCConfig `yaml:"webrtc,omitempty"`
}

// WebRTCConfig turns on streaming the pictures to a remote peer instead of
// keeping them in memory.
type WebRTCConfig struct {
	OfferPath  string   `yaml:"offer_path"`
	AnswerPath string   `yaml:"answer_path"`
	ICEServers []string `yaml:"ice_servers,omitempty"`
	Bitrate    int64    `yaml:"bitrate,omitempty"`
}

func defaultPlayerConfig() *PlayerConfig {
	return &PlayerConfig{
		Tick:     10 * time.Millisecond,
		Queue:    256,
		LogLevel: "info",
	}
}

func loadPlayerConfig(path string) (*PlayerConfig, error) {
	config := defaultPlayerConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if config.StreamConfig != "" {
		streamPath := config.StreamConfig
		if !filepath.IsAbs(streamPath) {
			streamPath = filepath.Join(filepath.Dir(path), streamPath)
		}
		stream, err := videostream.LoadConfig(streamPath)
		if err != nil {
			return nil, fmt.Errorf("error loading stream config: %w", err)
		}
		config.Stream = *stream
	}

	return config, nil
}

func (c *PlayerConfig) validate() error {
	if c.Input == "" {
		return errors.New("no input given")
	}
	if c.Tick <= 0 {
		return errors.New("tick must be positive")
	}
	if c.Queue <= 0 {
		return errors.New("queue must be positive")
	}
	if c.Threads < 0 {
		return errors.New("threads cannot be negative")
	}
	if c.WebRTC != nil && (c.WebRTC.OfferPath == "" || c.WebRTC.AnswerPath == "") {
		return errors.New("webrtc needs both offer_path and answer_path")
	}
	return nil
}
