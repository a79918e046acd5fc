// Package surface holds the places a converted picture can be published to.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

var (
	ErrorUnsupportedPicture = errors.New("picture format cannot be shown on this surface")
	ErrorNothingPublished   = errors.New("no picture published yet")
	ErrorMissingEncoder     = errors.New("no picture encoder given")
	ErrorMissingTrack       = errors.New("no track capabilities given")
)

// ImageSurface keeps the last published picture as an RGBA image. It accepts
// RGBA and BGRA pictures and may be read from other goroutines.
type ImageSurface struct {
	img   *image.RGBA
	count uint64
	mux   sync.RWMutex
}

func NewImageSurface() *ImageSurface {
	return &ImageSurface{}
}

func (s *ImageSurface) Publish(picture *codec.Picture) error {
	format := picture.PixelFormat()
	if format != codec.PixelFormatRGBA && format != codec.PixelFormatBGRA {
		return fmt.Errorf("%w: %s", ErrorUnsupportedPicture, format)
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	w, h := picture.Width(), picture.Height()
	if s.img == nil || s.img.Rect.Dx() != w || s.img.Rect.Dy() != h {
		s.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	src, stride := picture.Plane(0), picture.Stride(0)
	for y := 0; y < h; y++ {
		row := s.img.Pix[y*s.img.Stride : y*s.img.Stride+4*w]
		copy(row, src[y*stride:y*stride+4*w])
		if format == codec.PixelFormatBGRA {
			for x := 0; x < len(row); x += 4 {
				row[x], row[x+2] = row[x+2], row[x]
			}
		}
	}
	s.count++

	return nil
}

// Snapshot returns a copy of the last published picture.
func (s *ImageSurface) Snapshot() (*image.RGBA, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	if s.img == nil {
		return nil, ErrorNothingPublished
	}

	img := image.NewRGBA(s.img.Rect)
	copy(img.Pix, s.img.Pix)
	return img, nil
}

func (s *ImageSurface) Count() uint64 {
	s.mux.RLock()
	defer s.mux.RUnlock()

	return s.count
}

// WritePNG encodes the last published picture to w.
func (s *ImageSurface) WritePNG(w io.Writer) error {
	img, err := s.Snapshot()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
