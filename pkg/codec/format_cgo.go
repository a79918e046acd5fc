//go:build cgo_enabled

package codec

import (
	"github.com/asticode/go-astiav"
)

var toAVPixelFormat = map[PixelFormat]astiav.PixelFormat{
	PixelFormatNone:    astiav.PixelFormatNone,
	PixelFormatYUV420P: astiav.PixelFormatYuv420P,
	PixelFormatNV12:    astiav.PixelFormatNv12,
	PixelFormatRGB24:   astiav.PixelFormatRgb24,
	PixelFormatRGBA:    astiav.PixelFormatRgba,
	PixelFormatBGRA:    astiav.PixelFormatBgra,
}

var toAVScaleFlag = map[ScaleAlgorithm]astiav.SoftwareScaleContextFlag{
	ScaleBilinear:     astiav.SoftwareScaleContextFlagBilinear,
	ScaleFastBilinear: astiav.SoftwareScaleContextFlagFastBilinear,
	ScaleBicubic:      astiav.SoftwareScaleContextFlagBicubic,
	ScalePoint:        astiav.SoftwareScaleContextFlagPoint,
	ScaleArea:         astiav.SoftwareScaleContextFlagArea,
	ScaleLanczos:      astiav.SoftwareScaleContextFlagLanczos,
}

func (f PixelFormat) AV() astiav.PixelFormat {
	if av, ok := toAVPixelFormat[f]; ok {
		return av
	}
	if f >= foreignPixelFormatBase {
		return astiav.PixelFormat(f - foreignPixelFormatBase)
	}
	return astiav.PixelFormatNone
}

// PixelFormatFromAV maps an FFmpeg pixel format back. Formats without a named
// constant are carried as foreign formats so that they still compare equal.
func PixelFormatFromAV(av astiav.PixelFormat) PixelFormat {
	for f, a := range toAVPixelFormat {
		if a == av {
			return f
		}
	}
	if av < 0 {
		return PixelFormatNone
	}
	return foreignPixelFormatBase + PixelFormat(av)
}

func (a ScaleAlgorithm) AV() astiav.SoftwareScaleContextFlags {
	flag, ok := toAVScaleFlag[a]
	if !ok {
		flag = astiav.SoftwareScaleContextFlagBilinear
	}
	return astiav.NewSoftwareScaleContextFlags(flag)
}

func (r Rational) AV() astiav.Rational {
	return astiav.NewRational(int(r.Num), int(r.Den))
}

func RationalFromAV(r astiav.Rational) Rational {
	return NewRational(int64(r.Num()), int64(r.Den()))
}
