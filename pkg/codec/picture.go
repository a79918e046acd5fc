package codec

import "fmt"

const MaxPlanes = 4

// Picture is the converted-frame buffer handed to presentation surfaces. All
// planes live in one backing slice packed with alignment 1, the layout FFmpeg
// uses for av_image_alloc(..., 1) and av_image_copy_to_buffer(..., 1). The
// geometry is fixed for the life of the picture.
type Picture struct {
	width   int
	height  int
	format  PixelFormat
	buf     []byte
	planes  [MaxPlanes][]byte
	strides [MaxPlanes]int
}

type planeLayout struct {
	stride int
	rows   int
}

func layout(format PixelFormat, width, height int) ([]planeLayout, error) {
	chromaW, chromaH := (width+1)/2, (height+1)/2

	switch format {
	case PixelFormatYUV420P:
		return []planeLayout{{width, height}, {chromaW, chromaH}, {chromaW, chromaH}}, nil
	case PixelFormatNV12:
		return []planeLayout{{width, height}, {2 * chromaW, chromaH}}, nil
	case PixelFormatRGB24:
		return []planeLayout{{3 * width, height}}, nil
	case PixelFormatRGBA, PixelFormatBGRA:
		return []planeLayout{{4 * width, height}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrorUnsupportedPixelFormat, format)
	}
}

// PictureSize returns the number of bytes a picture of the given geometry occupies.
func PictureSize(format PixelFormat, width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrorInvalidDimensions, width, height)
	}
	planes, err := layout(format, width, height)
	if err != nil {
		return 0, err
	}

	size := 0
	for _, p := range planes {
		size += p.stride * p.rows
	}
	return size, nil
}

func NewPicture(format PixelFormat, width, height int) (*Picture, error) {
	size, err := PictureSize(format, width, height)
	if err != nil {
		return nil, err
	}
	planes, _ := layout(format, width, height)

	pic := &Picture{
		width:  width,
		height: height,
		format: format,
		buf:    make([]byte, size),
	}

	offset := 0
	for i, p := range planes {
		n := p.stride * p.rows
		pic.planes[i] = pic.buf[offset : offset+n : offset+n]
		pic.strides[i] = p.stride
		offset += n
	}

	return pic, nil
}

func (p *Picture) Width() int {
	return p.width
}

func (p *Picture) Height() int {
	return p.height
}

func (p *Picture) PixelFormat() PixelFormat {
	return p.format
}

// Planes returns the plane slices; unused planes are nil.
func (p *Picture) Planes() [MaxPlanes][]byte {
	return p.planes
}

func (p *Picture) Strides() [MaxPlanes]int {
	return p.strides
}

func (p *Picture) Plane(i int) []byte {
	if i < 0 || i >= MaxPlanes {
		return nil
	}
	return p.planes[i]
}

func (p *Picture) Stride(i int) int {
	if i < 0 || i >= MaxPlanes {
		return 0
	}
	return p.strides[i]
}

// Bytes returns the whole backing buffer, all planes back to back.
func (p *Picture) Bytes() []byte {
	return p.buf
}

func (p *Picture) Size() int {
	return len(p.buf)
}
