package videostream

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

type StreamConfig struct {
	ID             string         `json:"id,omitempty" yaml:"id,omitempty"`
	Display        *DisplayConfig `json:"display,omitempty" yaml:"display,omitempty"`
	PixelFormat    string         `json:"pixel_format,omitempty" yaml:"pixel_format,omitempty"`
	ScaleAlgorithm string         `json:"scale_algorithm,omitempty" yaml:"scale_algorithm,omitempty"`
}

type DisplayConfig struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// LoadConfig reads a YAML stream configuration from path.
func LoadConfig(path string) (*StreamConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseConfig(data)
}

func ParseConfig(data []byte) (*StreamConfig, error) {
	config := &StreamConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing stream config: %w", err)
	}

	return config, nil
}

type optionBuilder struct {
	options []StreamOption
}

func (ob *optionBuilder) add(option StreamOption) *optionBuilder {
	if option != nil {
		ob.options = append(ob.options, option)
	}
	return ob
}

// ToOptions turns the configuration into stream options. Invalid values
// surface as errors when the options are applied by NewVideoStream.
func (c *StreamConfig) ToOptions() []StreamOption {
	builder := &optionBuilder{}

	return builder.
		add(c.idOption()).
		add(c.displayOption()).
		add(c.pixelFormatOption()).
		add(c.scaleAlgorithmOption()).
		options
}

func (c *StreamConfig) idOption() StreamOption {
	if c.ID == "" {
		return nil
	}
	return WithID(c.ID)
}

func (c *StreamConfig) displayOption() StreamOption {
	if c.Display == nil {
		return nil
	}
	return WithDisplaySize(c.Display.Width, c.Display.Height)
}

func (c *StreamConfig) pixelFormatOption() StreamOption {
	if c.PixelFormat == "" {
		return nil
	}

	format, err := codec.ParsePixelFormat(c.PixelFormat)
	if err != nil {
		return failedOption(err)
	}
	return WithPixelFormat(format)
}

func (c *StreamConfig) scaleAlgorithmOption() StreamOption {
	if c.ScaleAlgorithm == "" {
		return nil
	}

	algorithm, err := codec.ParseScaleAlgorithm(c.ScaleAlgorithm)
	if err != nil {
		return failedOption(err)
	}
	return WithScaleAlgorithm(algorithm)
}

func failedOption(err error) StreamOption {
	return func(*VideoStream) error {
		return err
	}
}
