//go:build cgo_enabled

package codec

import (
	"fmt"
	"sync"

	"github.com/asticode/go-astiav"
)

// SoftwareScaler converts frames of one fixed geometry into Pictures through
// libswscale. The intermediate destination frame is allocated once.
type SoftwareScaler struct {
	context *astiav.SoftwareScaleContext
	dst     *astiav.Frame

	srcWidth, srcHeight int
	srcFormat           PixelFormat
	dstWidth, dstHeight int
	dstFormat           PixelFormat

	once sync.Once
}

// CreateSoftwareScaler matches ScalerFactory.
func CreateSoftwareScaler(src Parameters, dstWidth, dstHeight int, dstFormat PixelFormat, algorithm ScaleAlgorithm) (Scaler, error) {
	if _, err := PictureSize(dstFormat, dstWidth, dstHeight); err != nil {
		return nil, err
	}

	context, err := astiav.CreateSoftwareScaleContext(
		src.Width, src.Height, src.PixelFormat.AV(),
		dstWidth, dstHeight, dstFormat.AV(),
		algorithm.AV(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrorAllocateScaleContext, err)
	}

	s := &SoftwareScaler{
		context:   context,
		srcWidth:  src.Width,
		srcHeight: src.Height,
		srcFormat: src.PixelFormat,
		dstWidth:  dstWidth,
		dstHeight: dstHeight,
		dstFormat: dstFormat,
	}

	if s.dst = astiav.AllocFrame(); s.dst == nil {
		s.Close()
		return nil, ErrorAllocateFrame
	}
	s.dst.SetWidth(dstWidth)
	s.dst.SetHeight(dstHeight)
	s.dst.SetPixelFormat(dstFormat.AV())

	if err := s.dst.AllocBuffer(1); err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v", ErrorGeneralAllocate, err)
	}

	return s, nil
}

func (s *SoftwareScaler) Scale(frame Frame, picture *Picture) error {
	if frame.Width() != s.srcWidth || frame.Height() != s.srcHeight || frame.PixelFormat() != s.srcFormat {
		return fmt.Errorf("%w: got %dx%d %s, want %dx%d %s", ErrorFormatMismatch,
			frame.Width(), frame.Height(), frame.PixelFormat(), s.srcWidth, s.srcHeight, s.srcFormat)
	}
	if picture.Width() != s.dstWidth || picture.Height() != s.dstHeight || picture.PixelFormat() != s.dstFormat {
		return fmt.Errorf("%w: picture is %dx%d %s, want %dx%d %s", ErrorFormatMismatch,
			picture.Width(), picture.Height(), picture.PixelFormat(), s.dstWidth, s.dstHeight, s.dstFormat)
	}

	native, ok := frame.(CanProvideNativeFrame)
	if !ok {
		return ErrorInterfaceMismatch
	}

	if err := s.context.ScaleFrame(native.Native(), s.dst); err != nil {
		return err
	}

	if _, err := s.dst.ImageCopyToBuffer(picture.Bytes(), 1); err != nil {
		return err
	}

	return nil
}

func (s *SoftwareScaler) Close() {
	s.once.Do(func() {
		if s.dst != nil {
			s.dst.Free()
		}
		if s.context != nil {
			s.context.Free()
		}
	})
}
