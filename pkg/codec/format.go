package codec

import (
	"fmt"
	"strings"
)

type PixelFormat int

const (
	PixelFormatNone PixelFormat = iota
	PixelFormatYUV420P
	PixelFormatNV12
	PixelFormatRGB24
	PixelFormatRGBA
	PixelFormatBGRA
)

// foreignPixelFormatBase offsets formats that only the codec library knows by number.
const foreignPixelFormatBase PixelFormat = 1 << 16

var pixelFormatNames = map[PixelFormat]string{
	PixelFormatNone:    "none",
	PixelFormatYUV420P: "yuv420p",
	PixelFormatNV12:    "nv12",
	PixelFormatRGB24:   "rgb24",
	PixelFormatRGBA:    "rgba",
	PixelFormatBGRA:    "bgra",
}

func (f PixelFormat) String() string {
	if name, ok := pixelFormatNames[f]; ok {
		return name
	}
	if f >= foreignPixelFormatBase {
		return fmt.Sprintf("foreign(%d)", int(f-foreignPixelFormatBase))
	}
	return fmt.Sprintf("pixfmt(%d)", int(f))
}

// ParsePixelFormat accepts the FFmpeg style lower-case name of a format.
func ParsePixelFormat(name string) (PixelFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range pixelFormatNames {
		if n == name && f != PixelFormatNone {
			return f, nil
		}
	}
	return PixelFormatNone, fmt.Errorf("unknown pixel format '%s'", name)
}

type ScaleAlgorithm int

const (
	ScaleBilinear ScaleAlgorithm = iota
	ScaleFastBilinear
	ScaleBicubic
	ScalePoint
	ScaleArea
	ScaleLanczos
)

var scaleAlgorithmNames = map[ScaleAlgorithm]string{
	ScaleBilinear:     "bilinear",
	ScaleFastBilinear: "fast_bilinear",
	ScaleBicubic:      "bicubic",
	ScalePoint:        "point",
	ScaleArea:         "area",
	ScaleLanczos:      "lanczos",
}

func (a ScaleAlgorithm) String() string {
	if name, ok := scaleAlgorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("scale(%d)", int(a))
}

func ParseScaleAlgorithm(name string) (ScaleAlgorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range scaleAlgorithmNames {
		if n == name {
			return a, nil
		}
	}
	return ScaleBilinear, fmt.Errorf("unknown scale algorithm '%s'", name)
}

// Rational is a stream time base: Num/Den seconds per tick.
type Rational struct {
	Num int64
	Den int64
}

func NewRational(num, den int64) Rational {
	return Rational{Num: num, Den: den}
}

func (r Rational) Valid() bool {
	return r.Num > 0 && r.Den > 0
}

func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
